// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the literature-helper
// pipeline: raw crawler records, canonical papers, and review progress.
package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Source identifies the venue or database a record was crawled from.
type Source string

const (
	SourceACM             Source = "acm"
	SourceIEEE            Source = "ieee"
	SourceInterspeech     Source = "interspeech"
	SourceArxiv           Source = "arxiv"
	SourceSemanticScholar Source = "semanticscholar"
	SourcePapersWithCode  Source = "paperswithcode"
)

// Sources lists every known source in a fixed order.
var Sources = []Source{
	SourceACM,
	SourceIEEE,
	SourceInterspeech,
	SourceArxiv,
	SourceSemanticScholar,
	SourcePapersWithCode,
}

// ParseSource converts a source tag (case-insensitive) into a Source.
func ParseSource(s string) (Source, error) {
	tag := Source(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Sources {
		if tag == known {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown source %q", s)
}

// RawPaper is a record as written by a crawler. Field presence and the
// submitted date format vary per source.
type RawPaper struct {
	// Title is the paper title as scraped.
	Title string `json:"title"`

	// Summary is the abstract. Crawlers write it under "summary".
	Summary string `json:"summary"`

	// DOI is the DOI or source-local identifier, when known.
	DOI string `json:"doi,omitempty"`

	// PDF is a link to the full text, when known.
	PDF string `json:"pdf,omitempty"`

	// ArxivID is set by sources that link to arXiv.
	ArxivID string `json:"arxiv_id,omitempty"`

	// Submitted is the raw submission or publication date string.
	Submitted string `json:"submitted"`
}

// UnmarshalJSON accepts "abstract" as an alias for "summary".
func (r *RawPaper) UnmarshalJSON(data []byte) error {
	type alias RawPaper
	var aux struct {
		alias
		Abstract string `json:"abstract"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = RawPaper(aux.alias)
	if r.Summary == "" {
		r.Summary = aux.Abstract
	}
	return nil
}

// CanonicalPaper is a normalized record with a stable identifier.
type CanonicalPaper struct {
	// ID is derived from the submission year and the title.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Title is the paper title. Never empty for a canonical record.
	Title string `json:"title" yaml:"title"`

	// Abstract is the paper abstract, possibly empty.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Submitted is the submission date formatted as YYYY-MM-DD.
	Submitted string `json:"submitted" yaml:"submitted"`

	// Source is the originating source tag.
	Source Source `json:"source" yaml:"source"`
}

// Year returns the four-digit year prefix of Submitted.
func (p CanonicalPaper) Year() string {
	if i := strings.IndexByte(p.Submitted, '-'); i >= 0 {
		return p.Submitted[:i]
	}
	return p.Submitted
}
