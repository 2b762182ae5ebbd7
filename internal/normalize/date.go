// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize converts heterogeneous crawler records into canonical
// papers: it parses the many date formats the sources emit, applies the
// cutoff year, and reports why a record was dropped.
package normalize

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/literature-helper/pkg/types"
)

// CutoffYear is the earliest submission year kept by default.
const CutoffYear = 2017

// DateLayout is the canonical submitted date format.
const DateLayout = "2006-01-02"

var (
	// ErrNoDate means the record carried no date ("", "None").
	ErrNoDate = errors.New("no date")

	// ErrUnparseableDate means no known layout matched.
	ErrUnparseableDate = errors.New("unparseable date")

	// ErrTooOld means the date lies before the cutoff year.
	ErrTooOld = errors.New("submitted before cutoff year")
)

// layouts are tried in order; the first successful parse wins. Numeric
// month and day may omit the leading zero.
var layouts = []string{
	"2 January 2006",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05-0700",
	"2006",
	"2006-1-2",
	"2006-1-2 15:04:05",
}

// Date parses raw into a date. IEEE records use the conference/publication
// date notation and get their own parser; every other source goes through
// the generic layouts.
func Date(raw string, source types.Source) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.Contains(raw, "None") {
		return time.Time{}, ErrNoDate
	}
	if source == types.SourceIEEE {
		return ieeeDate(raw)
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableDate, raw)
}

// Submitted parses raw and formats it as YYYY-MM-DD, rejecting dates whose
// year is before cutoff. A cutoff of 0 means CutoffYear.
func Submitted(raw string, source types.Source, cutoff int) (string, error) {
	if cutoff == 0 {
		cutoff = CutoffYear
	}
	t, err := Date(raw, source)
	if err != nil {
		return "", err
	}
	if t.Year() < cutoff {
		return "", fmt.Errorf("%w: %d < %d", ErrTooOld, t.Year(), cutoff)
	}
	return t.Format(DateLayout), nil
}

// ieeeDateLabel matches "Date of Conference: 04-08 May 2020" and
// "Date of Publication: 12 October 2021".
var ieeeDateLabel = regexp.MustCompile(`Date of [\w\s]*:\s*(.*)`)

var monthPrefixes = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ieeeDate handles day ranges ("04-08 May 2020"), abbreviated months with a
// trailing dot ("Sept."), and ranges spanning months ("30 Aug.-3 Sept. 2020").
// The first day of a range is used.
func ieeeDate(raw string) (time.Time, error) {
	if m := ieeeDateLabel.FindStringSubmatch(raw); m != nil {
		raw = strings.TrimSpace(m[1])
	}
	fields := strings.Fields(raw)
	if len(fields) < 3 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableDate, raw)
	}

	dayPart, _, _ := strings.Cut(fields[0], "-")
	day, err := strconv.Atoi(dayPart)
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("%w: day in %q", ErrUnparseableDate, raw)
	}

	monthPart, _, _ := strings.Cut(fields[1], "-")
	monthPart = strings.ToLower(strings.TrimSuffix(monthPart, "."))
	if len(monthPart) < 3 {
		return time.Time{}, fmt.Errorf("%w: month in %q", ErrUnparseableDate, raw)
	}
	month, ok := monthPrefixes[monthPart[:3]]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: month in %q", ErrUnparseableDate, raw)
	}

	year, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil || year < 1000 {
		return time.Time{}, fmt.Errorf("%w: year in %q", ErrUnparseableDate, raw)
	}

	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Month() != month {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableDate, raw)
	}
	return t, nil
}
