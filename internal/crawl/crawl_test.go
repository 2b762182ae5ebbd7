// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crawl

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/literature-helper/internal/httputil"
	"github.com/pdiddy/literature-helper/internal/keywords"
	"github.com/pdiddy/literature-helper/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

func testClient(ts *httptest.Server) *httputil.Client {
	return httputil.NewClient(ts.Client(), 0, "literature-helper/test")
}

// override points a base URL var at a test server for one test.
func override(t *testing.T, target *string, value string) {
	t.Helper()
	old := *target
	*target = value
	t.Cleanup(func() { *target = old })
}

type fakeCrawler struct {
	field  Field
	papers []types.RawPaper
	err    error
}

func (f *fakeCrawler) Source() types.Source { return types.SourceArxiv }
func (f *fakeCrawler) FilterField() Field   { return f.field }
func (f *fakeCrawler) Crawl(context.Context, types.CrawlConfig, *zap.Logger) ([]types.RawPaper, error) {
	return f.papers, f.err
}

func readBatch(t *testing.T, path string) []types.RawPaper {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var papers []types.RawPaper
	require.NoError(t, json.Unmarshal(data, &papers))
	return papers
}

func TestFilter(t *testing.T) {
	papers := []types.RawPaper{
		{Title: "Emotional TTS with Prosody Control", Summary: "matrix"},
		{Title: "Efficient Matrix Multiplication", Summary: "we control pitch"},
	}

	byTitle := Filter(papers, FieldTitle, nil)
	require.Len(t, byTitle, 1)
	assert.Equal(t, "Emotional TTS with Prosody Control", byTitle[0].Title)

	byAbstract := Filter(papers, FieldAbstract, nil)
	require.Len(t, byAbstract, 1)
	assert.Equal(t, "Efficient Matrix Multiplication", byAbstract[0].Title)

	m, err := keywords.New([]string{"matrix"})
	require.NoError(t, err)
	assert.Len(t, Filter(papers, FieldTitle, m), 1)
	assert.Empty(t, Filter(nil, FieldTitle, m))
}

func TestRunWritesBothBatches(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	core, logs := observer.New(zap.InfoLevel)
	c := &fakeCrawler{field: FieldTitle, papers: []types.RawPaper{
		{Title: "Expressive Speech Synthesis", Summary: "<b>x</b>", Submitted: "2021-01-01"},
		{Title: "Graph Kernels", Submitted: "2021-01-01"},
	}}

	res, err := Run(context.Background(), c, types.CrawlConfig{OutputDir: dir}, nil, zap.New(core))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 1, res.Filtered)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, filepath.Join(dir, "arxiv_results.json"), res.ResultsPath)
	assert.Equal(t, filepath.Join(dir, "arxiv_filtered_results.json"), res.FilteredPath)

	assert.Len(t, readBatch(t, res.ResultsPath), 2)
	filtered := readBatch(t, res.FilteredPath)
	require.Len(t, filtered, 1)
	assert.Equal(t, "<b>x</b>", filtered[0].Summary)

	data, err := os.ReadFile(res.FilteredPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n    {", "four-space indent")
	assert.Contains(t, string(data), `"summary": "<b>x</b>"`, "no HTML escaping")

	finished := logs.FilterMessage("crawl finished").All()
	require.Len(t, finished, 1)
	assert.Equal(t, res.RunID, finished[0].ContextMap()["run_id"])
}

func TestRunEmptyCrawlWritesEmptyArrays(t *testing.T) {
	dir := t.TempDir()
	res, err := Run(context.Background(), &fakeCrawler{field: FieldTitle}, types.CrawlConfig{OutputDir: dir}, nil, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(res.FilteredPath)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestRunCrawlError(t *testing.T) {
	dir := t.TempDir()
	_, err := Run(context.Background(), &fakeCrawler{err: errors.New("boom")}, types.CrawlConfig{OutputDir: dir}, nil, nil)
	assert.ErrorContains(t, err, "crawling arxiv: boom")

	_, statErr := os.Stat(filepath.Join(dir, "arxiv_results.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestNew(t *testing.T) {
	client := httputil.NewClient(nil, 0, "")
	for _, src := range types.Sources {
		t.Run(string(src), func(t *testing.T) {
			c, err := New(src, client, types.CrawlConfig{})
			require.NoError(t, err)
			assert.Equal(t, src, c.Source())
		})
	}

	_, err := New(types.Source("scholar"), client, types.CrawlConfig{})
	assert.Error(t, err)
}

func TestFilterFields(t *testing.T) {
	client := httputil.NewClient(nil, 0, "")
	want := map[types.Source]Field{
		types.SourceArxiv:           FieldAbstract,
		types.SourcePapersWithCode:  FieldAbstract,
		types.SourceSemanticScholar: FieldTitle,
		types.SourceACM:             FieldTitle,
		types.SourceIEEE:            FieldTitle,
		types.SourceInterspeech:     FieldTitle,
	}
	for src, field := range want {
		c, err := New(src, client, types.CrawlConfig{})
		require.NoError(t, err)
		assert.Equal(t, field, c.FilterField(), src)
	}
}
