// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package review

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/literature-helper/internal/catalog"
	"github.com/pdiddy/literature-helper/internal/progress"
	"github.com/pdiddy/literature-helper/pkg/types"
)

const papersJSON = `[
	{"title": "B", "abstract": "b", "submitted": "2021-02-02", "source": "acm"},
	{"title": "A", "abstract": "a", "submitted": "2020-01-01", "source": "arxiv"},
	{"title": "X", "abstract": "x", "submitted": "2022-07-07", "source": "ieee"}
]`

func testService(t *testing.T) (*Service, *progress.Store) {
	t.Helper()
	dir := t.TempDir()
	papersPath := filepath.Join(dir, "filtered_papers.json")
	require.NoError(t, os.WriteFile(papersPath, []byte(papersJSON), 0o644))
	store := progress.NewStore(filepath.Join(dir, "progress.json"))
	return NewService(papersPath, store, catalog.Options{}, nil), store
}

func paperIDs(papers []types.CanonicalPaper) []string {
	out := make([]string, len(papers))
	for i, p := range papers {
		out[i] = p.ID
	}
	return out
}

func TestDiffWithoutProgress(t *testing.T) {
	svc, _ := testService(t)
	got, err := svc.Diff(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"2020-A", "2021-B", "2022-X"}, paperIDs(got))
}

func TestDiffExcludesAddedAndDeleted(t *testing.T) {
	svc, store := testService(t)
	require.NoError(t, store.Save(types.Progress{Added: []string{"2020-A"}, Deleted: []string{"2022-X"}}))

	got, err := svc.Diff(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"2021-B"}, paperIDs(got))
}

func TestDiffSeesWritesImmediately(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()
	require.NoError(t, svc.Add(ctx, "2022-X"))

	got, err := svc.Diff(ctx)
	require.NoError(t, err)
	assert.NotContains(t, paperIDs(got), "2022-X")

	require.NoError(t, svc.Delete(ctx, "2020-A"))
	got, err = svc.Diff(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2021-B"}, paperIDs(got))

	p, err := svc.Progress(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.Progress{Added: []string{"2022-X"}, Deleted: []string{"2020-A"}}, p)
}

func TestDiffMissingPapersFile(t *testing.T) {
	store := progress.NewStore(filepath.Join(t.TempDir(), "progress.json"))
	svc := NewService(filepath.Join(t.TempDir(), "missing.json"), store, catalog.Options{}, nil)
	_, err := svc.Diff(context.Background())
	assert.Error(t, err)
}

func TestAddRejectsEmptyID(t *testing.T) {
	svc, _ := testService(t)
	assert.ErrorIs(t, svc.Add(context.Background(), ""), ErrEmptyID)
	assert.ErrorIs(t, svc.Delete(context.Background(), ""), ErrEmptyID)
}

func TestCancelledContext(t *testing.T) {
	svc, _ := testService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Diff(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, svc.Add(ctx, "2020-A"), context.Canceled)
}

func TestUntriagedNeverReturnsSeen(t *testing.T) {
	papers := []types.CanonicalPaper{{ID: "2020-A"}, {ID: "2021-B"}}
	got := Untriaged(papers, types.Progress{Added: []string{"2020-A"}, Deleted: []string{}})
	assert.Equal(t, []types.CanonicalPaper{{ID: "2021-B"}}, got)

	got = Untriaged(papers, types.Progress{Added: []string{"2020-A"}, Deleted: []string{"2021-B"}})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAccepted(t *testing.T) {
	svc, store := testService(t)
	require.NoError(t, store.Save(types.Progress{Added: []string{"2021-B", "2020-A", "2021-B", "2018-Gone"}, Deleted: []string{}}))

	matched, missing, err := svc.Accepted(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"2020-A", "2021-B"}, paperIDs(matched))
	assert.Equal(t, []string{"2018-Gone"}, missing)
}
