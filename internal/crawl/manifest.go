// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crawl

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/literature-helper/pkg/types"
)

// ManifestName is the file a crawl writes next to its batch files.
const ManifestName = "crawl_manifest.yaml"

// Manifest records what a crawl invocation ran and produced, so a batch
// directory can be traced back to its queries without re-crawling.
type Manifest struct {
	Config   ManifestConfig `yaml:"config"`
	Runs     []Result       `yaml:"runs"`
	Failures []string       `yaml:"failures,omitempty"`
	Started  time.Time      `yaml:"started"`
	Finished time.Time      `yaml:"finished"`
}

// ManifestConfig stores the crawl settings that shaped the results.
type ManifestConfig struct {
	Queries    []string `yaml:"queries,omitempty"`
	Keywords   []string `yaml:"keywords,omitempty"`
	PageSize   int      `yaml:"page_size,omitempty"`
	MaxRecords int      `yaml:"max_records,omitempty"`
}

// NewManifest starts a manifest for cfg.
func NewManifest(cfg types.CrawlConfig) *Manifest {
	return &Manifest{
		Config: ManifestConfig{
			Queries:    cfg.Queries,
			Keywords:   cfg.Keywords,
			PageSize:   cfg.PageSize,
			MaxRecords: cfg.MaxRecords,
		},
		Started: time.Now().UTC(),
	}
}

// Record adds a finished run.
func (m *Manifest) Record(r Result) {
	m.Runs = append(m.Runs, r)
}

// Fail adds a source that could not be crawled.
func (m *Manifest) Fail(source types.Source, err error) {
	m.Failures = append(m.Failures, fmt.Sprintf("%s: %v", source, err))
}

// WriteManifest saves m to dir/crawl_manifest.yaml and stamps Finished.
func WriteManifest(dir string, m *Manifest) error {
	m.Finished = time.Now().UTC()
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, ManifestName), data, 0o644)
}

// ReadManifest loads a manifest previously written to dir.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}
