// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package review serves the reviewer's view of the canonical paper set:
// the papers not yet accepted or rejected, and the decisions made so far.
package review

import (
	"context"
	"errors"
	"io"

	"github.com/pdiddy/literature-helper/internal/catalog"
	"github.com/pdiddy/literature-helper/internal/progress"
	"github.com/pdiddy/literature-helper/pkg/types"
)

// ErrEmptyID is returned when a decision is recorded without a paper id.
var ErrEmptyID = errors.New("paper id is required")

// Service computes diffs against a progress store. It holds no state
// between calls: every call re-reads the papers file and the progress file.
type Service struct {
	papersPath string
	store      *progress.Store
	opts       catalog.Options
	warnings   io.Writer
}

// NewService returns a service over the merged papers file at papersPath.
// Warnings about skipped records are written to w.
func NewService(papersPath string, store *progress.Store, opts catalog.Options, w io.Writer) *Service {
	if w == nil {
		w = io.Discard
	}
	return &Service{papersPath: papersPath, store: store, opts: opts, warnings: w}
}

// Papers returns the full canonical set with ids assigned.
func (s *Service) Papers(ctx context.Context) ([]types.CanonicalPaper, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	papers, _, err := catalog.Load(s.papersPath, s.opts, s.warnings)
	return papers, err
}

// Diff returns every canonical paper whose id is in neither the added nor
// the deleted list, in catalog order. The result is never nil.
func (s *Service) Diff(ctx context.Context) ([]types.CanonicalPaper, error) {
	papers, err := s.Papers(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	return Untriaged(papers, p), nil
}

// Untriaged filters papers down to those not present in p.
func Untriaged(papers []types.CanonicalPaper, p types.Progress) []types.CanonicalPaper {
	seen := p.Seen()
	result := make([]types.CanonicalPaper, 0, len(papers))
	for _, paper := range papers {
		if _, ok := seen[paper.ID]; ok {
			continue
		}
		result = append(result, paper)
	}
	return result
}

// Progress returns the current decisions.
func (s *Service) Progress(ctx context.Context) (types.Progress, error) {
	if err := ctx.Err(); err != nil {
		return types.Progress{}, err
	}
	return s.store.Load()
}

// Add records id as accepted.
func (s *Service) Add(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyID
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.MarkAdded(id)
}

// Delete records id as rejected.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyID
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.MarkDeleted(id)
}

// Accepted returns the accepted papers that still exist in the canonical
// set, sorted by submitted date, and the accepted ids that no longer match
// any paper.
func (s *Service) Accepted(ctx context.Context) ([]types.CanonicalPaper, []string, error) {
	papers, err := s.Papers(ctx)
	if err != nil {
		return nil, nil, err
	}
	p, err := s.store.Load()
	if err != nil {
		return nil, nil, err
	}
	matched, missing := catalog.Match(p.Added, papers)
	return matched, missing, nil
}
