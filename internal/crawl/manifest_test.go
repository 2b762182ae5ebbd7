// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crawl

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/literature-helper/pkg/types"
)

func TestManifestRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	m := NewManifest(types.CrawlConfig{Queries: []string{"TTS"}, PageSize: 100})
	m.Record(Result{RunID: "r1", Source: types.SourceArxiv, Total: 10, Filtered: 4})
	m.Fail(types.SourceIEEE, errors.New("HTTP 418"))

	require.NoError(t, WriteManifest(dir, m))

	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "run_id: r1")
	assert.Contains(t, string(data), "ieee: HTTP 418")

	got, err := ReadManifest(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"TTS"}, got.Config.Queries)
	require.Len(t, got.Runs, 1)
	assert.Equal(t, 4, got.Runs[0].Filtered)
	assert.False(t, got.Finished.Before(got.Started))
}

func TestReadManifestMissing(t *testing.T) {
	_, err := ReadManifest(t.TempDir())
	assert.ErrorContains(t, err, "reading manifest")
}
