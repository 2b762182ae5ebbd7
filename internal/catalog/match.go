// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"sort"
	"strings"

	"github.com/pdiddy/literature-helper/pkg/types"
)

// UniqueIDs removes ids that differ only in case. For each case-folded id
// the spelling seen last is kept. The result is sorted.
func UniqueIDs(ids []string) []string {
	byFold := make(map[string]string, len(ids))
	for _, id := range ids {
		byFold[strings.ToLower(id)] = id
	}
	unique := make([]string, 0, len(byFold))
	for _, id := range byFold {
		unique = append(unique, id)
	}
	sort.Strings(unique)
	return unique
}

// Match looks up accepted ids in the canonical set. It returns the matched
// papers sorted by submitted date and the ids with no matching paper.
// Duplicate ids (including case variants) are matched once.
func Match(ids []string, papers []types.CanonicalPaper) (matched []types.CanonicalPaper, missing []string) {
	byID := make(map[string]types.CanonicalPaper, len(papers))
	for _, p := range papers {
		byID[p.ID] = p
	}

	for _, id := range UniqueIDs(ids) {
		p, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		matched = append(matched, p)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Submitted < matched[j].Submitted
	})
	return matched, missing
}
