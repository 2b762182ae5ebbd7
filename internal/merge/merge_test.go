// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package merge

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/literature-helper/internal/normalize"
	"github.com/pdiddy/literature-helper/pkg/types"
)

func TestDedupeCollapsesTitlesAcrossSources(t *testing.T) {
	batches := []Batch{
		{Source: types.SourceIEEE, Papers: []types.RawPaper{
			{Title: "Prosody Transfer", Summary: "ieee", Submitted: "Date of Conference: 04-08 May 2020"},
		}},
		{Source: types.SourceArxiv, Papers: []types.RawPaper{
			{Title: "Prosody Transfer", Summary: "arxiv", Submitted: "2019-11-02 10:00:00+00:00"},
			{Title: "Emotional Vocoder", Summary: "a", Submitted: "2021-01-01"},
		}},
	}

	papers, report := Dedupe(batches, 0)
	require.Len(t, papers, 2)

	// arxiv sorts before ieee, so the ieee record is last-seen and wins
	// while keeping the first position.
	assert.Equal(t, "Prosody Transfer", papers[0].Title)
	assert.Equal(t, types.SourceIEEE, papers[0].Source)
	assert.Equal(t, "2020-05-04", papers[0].Submitted)
	assert.Equal(t, "Emotional Vocoder", papers[1].Title)

	assert.Equal(t, 3, report.Loaded)
	assert.Equal(t, 3, report.Filtered)
	assert.Equal(t, 1, report.DupsRemoved)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Sources[types.SourceArxiv].Kept)
	assert.Equal(t, 1, report.Sources[types.SourceIEEE].Kept)
}

func TestDedupeIsDeterministic(t *testing.T) {
	a := Batch{Source: types.SourceACM, Papers: []types.RawPaper{{Title: "T", Summary: "acm", Submitted: "2020"}}}
	b := Batch{Source: types.SourceArxiv, Papers: []types.RawPaper{{Title: "T", Summary: "arxiv", Submitted: "2020"}}}

	first, _ := Dedupe([]Batch{a, b}, 0)
	second, _ := Dedupe([]Batch{b, a}, 0)
	assert.Equal(t, first, second)
}

func TestDedupeDropsAndCountsBadRecords(t *testing.T) {
	batches := []Batch{{Source: types.SourceACM, Papers: []types.RawPaper{
		{Title: "", Submitted: "2020-01-01"},
		{Title: "Undated", Submitted: "None"},
		{Title: "Garbled", Submitted: "last week"},
		{Title: "Ancient", Submitted: "2012-03-03"},
		{Title: "Fine", Submitted: "12 March 2022"},
	}}}

	papers, report := Dedupe(batches, 0)
	require.Len(t, papers, 1)
	assert.Equal(t, "Fine", papers[0].Title)

	st := report.Sources[types.SourceACM]
	assert.Equal(t, 5, st.Loaded)
	assert.Equal(t, 1, st.Filtered)
	assert.Equal(t, 1, st.Outcomes[normalize.Malformed])
	assert.Equal(t, 1, st.Outcomes[normalize.Undated])
	assert.Equal(t, 1, st.Outcomes[normalize.Unparseable])
	assert.Equal(t, 1, st.Outcomes[normalize.TooOld])
	assert.Equal(t, 1, st.Outcomes[normalize.Parsed])
}

func TestDedupeCustomCutoff(t *testing.T) {
	batches := []Batch{{Source: types.SourceArxiv, Papers: []types.RawPaper{
		{Title: "Old", Submitted: "2015"},
	}}}
	papers, _ := Dedupe(batches, 2010)
	assert.Len(t, papers, 1)
}

func TestDedupeYearOnlyDatesSurvive(t *testing.T) {
	batches := []Batch{{Source: types.SourceSemanticScholar, Papers: []types.RawPaper{
		{Title: "Year Only", Submitted: "2020"},
		{Title: "No Date", Submitted: "None"},
		{Title: "Empty Date", Submitted: ""},
	}}}

	papers, report := Dedupe(batches, 0)
	require.Len(t, papers, 1)
	assert.Equal(t, "Year Only", papers[0].Title)
	assert.Equal(t, "2020-01-01", papers[0].Submitted)
	assert.Equal(t, 2, report.Sources[types.SourceSemanticScholar].Outcomes[normalize.Undated])
}

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestLoadBatches(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, filepath.Join(dir, "arxiv_crawler", "arxiv_filtered_results.json"), []map[string]any{
		{"title": "A", "summary": "s", "submitted": "2020-01-01", "doi": nil},
	})
	writeJSON(t, filepath.Join(dir, "semanticscholar", "semanticscholar_filtered_results.json"), []map[string]any{
		{"title": "B", "abstract": "from abstract key", "submitted": "2021-02-02"},
	})
	writeJSON(t, filepath.Join(dir, "arxiv_crawler", "arxiv_results.json"), []map[string]any{{"title": "ignored"}})
	writeJSON(t, filepath.Join(dir, "filter", "filtered_papers.json"), []map[string]any{{"title": "merged"}})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "acm_filtered_papers.json"), []byte("{not json"), 0o644))

	var buf bytes.Buffer
	batches, err := LoadBatches(dir, &buf)
	require.NoError(t, err)
	require.Len(t, batches, 2)

	bySource := map[types.Source]Batch{}
	for _, b := range batches {
		bySource[b.Source] = b
	}
	assert.Equal(t, "A", bySource[types.SourceArxiv].Papers[0].Title)
	assert.Equal(t, "from abstract key", bySource[types.SourceSemanticScholar].Papers[0].Summary)
	assert.Contains(t, buf.String(), "warning: skipping")
}

func TestRunWritesMergedFile(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, filepath.Join(dir, "ieee_filtered_papers.json"), []map[string]any{
		{"title": "Expressive <TTS>", "summary": "x", "submitted": "13 June 2019"},
	})
	out := filepath.Join(dir, "filter", "filtered_papers.json")

	var buf bytes.Buffer
	report, err := Run(types.MergeConfig{InputDir: dir, OutputPath: out}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Total)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Expressive <TTS>")

	var papers []types.CanonicalPaper
	require.NoError(t, json.Unmarshal(data, &papers))
	require.Len(t, papers, 1)
	assert.Equal(t, "2019-06-13", papers[0].Submitted)
	assert.Empty(t, papers[0].ID)
	assert.Contains(t, buf.String(), "ieee")
}

func TestRunNoBatches(t *testing.T) {
	var buf bytes.Buffer
	_, err := Run(types.MergeConfig{InputDir: t.TempDir(), OutputPath: filepath.Join(t.TempDir(), "out.json")}, &buf)
	assert.ErrorContains(t, err, "no filtered batch files")
}

func TestWriteReport(t *testing.T) {
	_, report := Dedupe([]Batch{{Source: types.SourceArxiv, Papers: []types.RawPaper{{Title: "A", Submitted: "2020"}}}}, 0)
	path := filepath.Join(t.TempDir(), "report.yaml")
	require.NoError(t, WriteReport(path, report))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "arxiv:")
	assert.Contains(t, string(data), "duplicates_removed: 0")
}
