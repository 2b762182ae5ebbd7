// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package crawl fetches bibliographic records from the six supported
// sources, filters them by keyword, and writes the per-source batch files
// the merge stage consumes.
package crawl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/literature-helper/internal/httputil"
	"github.com/pdiddy/literature-helper/internal/keywords"
	"github.com/pdiddy/literature-helper/pkg/types"
)

// Field names the record field a crawler's keyword filter inspects.
type Field string

const (
	FieldTitle    Field = "title"
	FieldAbstract Field = "abstract"
)

// Crawler fetches every record a source returns for its queries. Crawl
// skips records it cannot extract and logs them; it only fails when the
// source cannot be queried at all.
type Crawler interface {
	Source() types.Source
	FilterField() Field
	Crawl(ctx context.Context, cfg types.CrawlConfig, logger *zap.Logger) ([]types.RawPaper, error)
}

// New returns the crawler for source, sending requests through client.
func New(source types.Source, client *httputil.Client, cfg types.CrawlConfig) (Crawler, error) {
	switch source {
	case types.SourceArxiv:
		return &ArxivCrawler{Client: client}, nil
	case types.SourceSemanticScholar:
		return &SemanticScholarCrawler{Client: client, APIKey: cfg.SemanticScholarAPIKey}, nil
	case types.SourcePapersWithCode:
		return &PapersWithCodeCrawler{Client: client}, nil
	case types.SourceACM:
		return &ACMCrawler{Client: client}, nil
	case types.SourceIEEE:
		return &IEEECrawler{Client: client}, nil
	case types.SourceInterspeech:
		return &InterspeechCrawler{Client: client}, nil
	default:
		return nil, fmt.Errorf("no crawler for source %q", source)
	}
}

// NewClient builds the paced HTTP client shared by a crawl run.
func NewClient(cfg types.CrawlConfig) *httputil.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = "literature-helper/0.1"
	}
	return httputil.NewClient(&http.Client{Timeout: timeout}, cfg.RequestDelay, ua)
}

// Result summarizes one crawl run.
type Result struct {
	RunID        string       `json:"run_id" yaml:"run_id"`
	Source       types.Source `json:"source" yaml:"source"`
	Total        int          `json:"total" yaml:"total"`
	Filtered     int          `json:"filtered" yaml:"filtered"`
	ResultsPath  string       `json:"results_path" yaml:"results_path"`
	FilteredPath string       `json:"filtered_path" yaml:"filtered_path"`
}

// Run crawls c, writes <source>_results.json with every record and
// <source>_filtered_results.json with the records whose filter field
// matches, both under cfg.OutputDir.
func Run(ctx context.Context, c Crawler, cfg types.CrawlConfig, matcher *keywords.Matcher, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	res := Result{RunID: uuid.NewString(), Source: c.Source()}
	logger = logger.With(zap.String("run_id", res.RunID), zap.String("source", string(res.Source)))

	start := time.Now()
	logger.Info("crawl started")
	papers, err := c.Crawl(ctx, cfg, logger)
	if err != nil {
		return res, fmt.Errorf("crawling %s: %w", res.Source, err)
	}

	filtered := Filter(papers, c.FilterField(), matcher)

	dir := cfg.OutputDir
	if dir == "" {
		dir = "."
	}
	res.Total = len(papers)
	res.Filtered = len(filtered)
	res.ResultsPath = filepath.Join(dir, string(res.Source)+"_results.json")
	res.FilteredPath = filepath.Join(dir, string(res.Source)+"_filtered_results.json")

	if err := writeBatch(res.ResultsPath, papers); err != nil {
		return res, err
	}
	if err := writeBatch(res.FilteredPath, filtered); err != nil {
		return res, err
	}

	logger.Info("crawl finished",
		zap.Int("total", res.Total),
		zap.Int("filtered", res.Filtered),
		zap.Duration("elapsed", time.Since(start)))
	return res, nil
}

// Filter keeps the papers whose field matches. A nil matcher uses the
// shared keyword list.
func Filter(papers []types.RawPaper, field Field, matcher *keywords.Matcher) []types.RawPaper {
	match := keywords.Matches
	if matcher != nil {
		match = matcher.Match
	}
	out := make([]types.RawPaper, 0, len(papers))
	for _, p := range papers {
		value := p.Title
		if field == FieldAbstract {
			value = p.Summary
		}
		if match(value) {
			out = append(out, p)
		}
	}
	return out
}

func writeBatch(path string, papers []types.RawPaper) error {
	if papers == nil {
		papers = []types.RawPaper{}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(papers); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// queries returns cfg.Queries or fallback when none are configured.
func queries(cfg types.CrawlConfig, fallback []string) []string {
	if len(cfg.Queries) > 0 {
		return cfg.Queries
	}
	return fallback
}

func pageSize(cfg types.CrawlConfig, fallback int) int {
	if cfg.PageSize > 0 {
		return cfg.PageSize
	}
	return fallback
}

// capped reports whether n records reach the configured cap.
func capped(cfg types.CrawlConfig, n int) bool {
	return cfg.MaxRecords > 0 && n >= cfg.MaxRecords
}

// collapseSpace joins whitespace runs, including the line breaks APIs
// leave inside titles, into single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// getJSON fetches url and decodes a JSON body into v.
func getJSON(ctx context.Context, client *httputil.Client, req *http.Request, v any) error {
	resp, err := client.Do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, req.URL.Host)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
