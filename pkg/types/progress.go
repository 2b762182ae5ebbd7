// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Progress records a reviewer's decisions over the canonical paper set.
// Both lists are append-only; an id may appear more than once and may
// appear in both lists.
type Progress struct {
	// Added holds ids of papers the reviewer accepted.
	Added []string `json:"added_papers" yaml:"added_papers"`

	// Deleted holds ids of papers the reviewer rejected.
	Deleted []string `json:"deleted_papers" yaml:"deleted_papers"`
}

// NewProgress returns an empty Progress whose lists encode as [] rather
// than null.
func NewProgress() Progress {
	return Progress{Added: []string{}, Deleted: []string{}}
}

// Seen returns the set of ids present in either list.
func (p Progress) Seen() map[string]struct{} {
	seen := make(map[string]struct{}, len(p.Added)+len(p.Deleted))
	for _, id := range p.Added {
		seen[id] = struct{}{}
	}
	for _, id := range p.Deleted {
		seen[id] = struct{}{}
	}
	return seen
}
