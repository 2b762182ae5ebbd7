// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package merge combines per-source crawler batches into one canonical
// paper set: it normalizes each batch, drops undated and pre-cutoff
// records, and collapses records that share a title.
package merge

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/literature-helper/internal/normalize"
	"github.com/pdiddy/literature-helper/pkg/types"
)

// Batch is one crawler output file.
type Batch struct {
	Source types.Source
	Path   string
	Papers []types.RawPaper
}

// SourceStats counts what happened to one source's records.
type SourceStats struct {
	Loaded   int                       `yaml:"loaded"`
	Filtered int                       `yaml:"filtered"`
	Kept     int                       `yaml:"kept"`
	Outcomes map[normalize.Outcome]int `yaml:"outcomes,omitempty"`
}

// Report summarizes a merge run.
type Report struct {
	Sources     map[types.Source]*SourceStats `yaml:"sources"`
	Loaded      int                           `yaml:"loaded"`
	Filtered    int                           `yaml:"filtered"`
	DupsRemoved int                           `yaml:"duplicates_removed"`
	Total       int                           `yaml:"total"`
}

func (r *Report) stats(s types.Source) *SourceStats {
	if r.Sources == nil {
		r.Sources = make(map[types.Source]*SourceStats)
	}
	st, ok := r.Sources[s]
	if !ok {
		st = &SourceStats{Outcomes: make(map[normalize.Outcome]int)}
		r.Sources[s] = st
	}
	return st
}

// Dedupe normalizes every batch, applies the cutoff year, and collapses
// records with the same title. Batches are processed in source order, then
// path order, so the result is deterministic. When titles collide the
// last-seen record replaces the earlier one at the earlier one's position.
// A cutoff of 0 means normalize.CutoffYear.
func Dedupe(batches []Batch, cutoff int) ([]types.CanonicalPaper, Report) {
	ordered := make([]Batch, len(batches))
	copy(ordered, batches)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Source != ordered[j].Source {
			return ordered[i].Source < ordered[j].Source
		}
		return ordered[i].Path < ordered[j].Path
	})

	var report Report
	var filtered []types.CanonicalPaper
	for _, b := range ordered {
		st := report.stats(b.Source)
		st.Loaded += len(b.Papers)
		report.Loaded += len(b.Papers)
		for _, raw := range b.Papers {
			p, outcome, _ := normalize.Record(raw, b.Source, cutoff)
			st.Outcomes[outcome]++
			if outcome != normalize.Parsed {
				continue
			}
			st.Filtered++
			filtered = append(filtered, p)
		}
	}
	report.Filtered = len(filtered)

	index := make(map[string]int, len(filtered))
	var deduped []types.CanonicalPaper
	for _, p := range filtered {
		if i, ok := index[p.Title]; ok {
			deduped[i] = p
			continue
		}
		index[p.Title] = len(deduped)
		deduped = append(deduped, p)
	}
	report.DupsRemoved = len(filtered) - len(deduped)
	report.Total = len(deduped)

	for _, p := range deduped {
		report.stats(p.Source).Kept++
	}
	return deduped, report
}

// LoadBatches walks dir and loads every .json file whose name contains
// "filtered". The source is the file name up to the first underscore
// (e.g. "ieee_filtered_papers.json" → ieee). Files with an unknown source
// prefix, and files that fail to parse, are skipped with a warning on w.
func LoadBatches(dir string, w io.Writer) ([]Batch, error) {
	var batches []Batch
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if !strings.HasSuffix(name, ".json") || !strings.Contains(name, "filtered") {
			return nil
		}
		prefix, _, _ := strings.Cut(strings.TrimSuffix(name, ".json"), "_")
		source, err := types.ParseSource(prefix)
		if err != nil {
			fmt.Fprintf(w, "warning: skipping %s: %v\n", path, err)
			return nil
		}
		papers, err := ReadRawFile(path)
		if err != nil {
			fmt.Fprintf(w, "warning: skipping %s: %v\n", path, err)
			return nil
		}
		fmt.Fprintf(w, "Loaded %d papers from %s\n", len(papers), path)
		batches = append(batches, Batch{Source: source, Path: path, Papers: papers})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	return batches, nil
}

// ReadRawFile reads a JSON array of raw crawler records.
func ReadRawFile(path string) ([]types.RawPaper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var papers []types.RawPaper
	if err := json.Unmarshal(data, &papers); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return papers, nil
}

// WriteFile writes papers as an indented JSON array without HTML escaping.
func WriteFile(path string, papers []types.CanonicalPaper) error {
	if papers == nil {
		papers = []types.CanonicalPaper{}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(papers); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}

// FormatReport writes per-source before/after counts to w.
func FormatReport(r Report, w io.Writer) {
	fmt.Fprintf(w, "Total papers: %d\n", r.Loaded)
	fmt.Fprintf(w, "Filtered %d papers\n", r.Filtered)
	fmt.Fprintf(w, "Remove duplicates %d papers\n", r.Total)

	sources := make([]string, 0, len(r.Sources))
	for s := range r.Sources {
		sources = append(sources, string(s))
	}
	sort.Strings(sources)

	for _, s := range sources {
		st := r.Sources[types.Source(s)]
		fmt.Fprintf(w, "%-16s %5d -> %-5d", s, st.Loaded, st.Kept)
		var skipped []string
		for _, o := range []normalize.Outcome{normalize.Malformed, normalize.Undated, normalize.Unparseable, normalize.TooOld} {
			if n := st.Outcomes[o]; n > 0 {
				skipped = append(skipped, fmt.Sprintf("%s=%d", o, n))
			}
		}
		if len(skipped) > 0 {
			fmt.Fprintf(w, " (%s)", strings.Join(skipped, ", "))
		}
		fmt.Fprintln(w)
	}
}

// WriteReport saves the report as YAML next to the merged output.
func WriteReport(path string, r Report) error {
	data, err := yaml.Marshal(&r)
	if err != nil {
		return fmt.Errorf("marshaling merge report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Run loads every batch under cfg.InputDir, merges them, and writes the
// canonical set to cfg.OutputPath.
func Run(cfg types.MergeConfig, w io.Writer) (Report, error) {
	batches, err := LoadBatches(cfg.InputDir, w)
	if err != nil {
		return Report{}, err
	}
	if len(batches) == 0 {
		return Report{}, fmt.Errorf("no filtered batch files found under %s", cfg.InputDir)
	}

	papers, report := Dedupe(batches, cfg.CutoffYear)
	if err := WriteFile(cfg.OutputPath, papers); err != nil {
		return report, err
	}
	FormatReport(report, w)
	return report, nil
}
