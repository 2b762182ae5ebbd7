// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"errors"
	"strings"

	"github.com/pdiddy/literature-helper/pkg/types"
)

// ErrMissingTitle means the record has no title.
var ErrMissingTitle = errors.New("missing title")

// Outcome classifies the result of normalizing one record.
type Outcome string

const (
	Parsed      Outcome = "parsed"
	Malformed   Outcome = "malformed"
	Undated     Outcome = "undated"
	Unparseable Outcome = "unparseable"
	TooOld      Outcome = "too_old"
)

// OutcomeOf maps a normalization error to its Outcome.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return Parsed
	case errors.Is(err, ErrMissingTitle):
		return Malformed
	case errors.Is(err, ErrNoDate):
		return Undated
	case errors.Is(err, ErrTooOld):
		return TooOld
	default:
		return Unparseable
	}
}

// Record converts a raw crawler record into a canonical paper without an
// id. The returned Outcome is Parsed on success; otherwise it names the
// reason the record was dropped and err carries the detail.
func Record(raw types.RawPaper, source types.Source, cutoff int) (types.CanonicalPaper, Outcome, error) {
	title := strings.TrimSpace(raw.Title)
	if title == "" {
		return types.CanonicalPaper{}, Malformed, ErrMissingTitle
	}

	submitted, err := Submitted(raw.Submitted, source, cutoff)
	if err != nil {
		return types.CanonicalPaper{}, OutcomeOf(err), err
	}

	return types.CanonicalPaper{
		Title:     title,
		Abstract:  strings.TrimSpace(raw.Summary),
		Submitted: submitted,
		Source:    source,
	}, Parsed, nil
}
