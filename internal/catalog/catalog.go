// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog loads the merged canonical paper set, assigns each paper
// its stable identifier, and maintains a searchable SQLite index over it.
package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pdiddy/literature-helper/pkg/types"
)

// Options controls identifier derivation.
type Options struct {
	// NormalizeTitles trims, collapses internal whitespace, and casefolds
	// titles before building ids.
	NormalizeTitles bool
}

// AssignID returns "<year>-<title>" where year is the four-digit prefix of
// the submitted date. It depends only on (year, title).
func AssignID(p types.CanonicalPaper, opts Options) string {
	title := p.Title
	if opts.NormalizeTitles {
		title = NormalizeTitle(title)
	}
	return p.Year() + "-" + title
}

// NormalizeTitle trims, collapses runs of whitespace to one space, and
// lowercases the title.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.Join(strings.Fields(title), " "))
}

// Assign sorts papers by (submitted, source), sets each paper's ID, and
// collapses papers that end up with the same id. The later paper in sorted
// order replaces the earlier one at the earlier one's position. The input
// slice is not modified.
func Assign(papers []types.CanonicalPaper, opts Options) []types.CanonicalPaper {
	sorted := make([]types.CanonicalPaper, len(papers))
	copy(sorted, papers)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Submitted != sorted[j].Submitted {
			return sorted[i].Submitted < sorted[j].Submitted
		}
		return sorted[i].Source < sorted[j].Source
	})

	index := make(map[string]int, len(sorted))
	result := make([]types.CanonicalPaper, 0, len(sorted))
	for _, p := range sorted {
		p.ID = AssignID(p, opts)
		if i, ok := index[p.ID]; ok {
			result[i] = p
			continue
		}
		index[p.ID] = len(result)
		result = append(result, p)
	}
	return result
}

// LoadReport counts what Load did with the records in the file.
type LoadReport struct {
	Records   int
	Malformed int
	Collapsed int
}

// Load reads the merged canonical set at path, skips records missing a
// title or submitted date, and assigns ids. Skipped records are reported
// on w.
func Load(path string, opts Options, w io.Writer) ([]types.CanonicalPaper, LoadReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, LoadReport{}, fmt.Errorf("reading papers file: %w", err)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, LoadReport{}, fmt.Errorf("parsing papers file: %w", err)
	}

	report := LoadReport{Records: len(records)}
	valid := make([]types.CanonicalPaper, 0, len(records))
	for i, rec := range records {
		var p types.CanonicalPaper
		if err := json.Unmarshal(rec, &p); err != nil {
			fmt.Fprintf(w, "warning: skipping record %d: %v\n", i, err)
			report.Malformed++
			continue
		}
		if p.Title == "" || p.Submitted == "" {
			fmt.Fprintf(w, "warning: skipping record %d: missing title or submitted date\n", i)
			report.Malformed++
			continue
		}
		valid = append(valid, p)
	}

	papers := Assign(valid, opts)
	report.Collapsed = len(valid) - len(papers)
	return papers, report, nil
}
