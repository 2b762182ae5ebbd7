// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package keywords decides whether a paper is relevant by matching its
// title or abstract against a fixed vocabulary of affect, prosody,
// naturalness and voice-quality terms.
package keywords

import (
	"fmt"
	"regexp"
	"strings"
)

// Default is the keyword list shared by every crawler.
var Default = []string{
	"Emotion", "Emotional", "Prosody", "prosodic", "Paralinguistic",
	"Natural", "Naturalness", "Expressive", "Style",
	"Human", "State-of-the-Art", "SOTA", "SOA", "State-of-Art",
	"Voice", "Modulation", "Speech", "Pitch", "Rhythm", "Dynamic",
	"Intonation", "Stress", "Affective", "Duration",
}

// Matcher tests text against a case-insensitive union of keywords.
type Matcher struct {
	keywords []string
	re       *regexp.Regexp
}

// New compiles a matcher for the given keywords. Each keyword is quoted so
// regex metacharacters match literally; QuoteMeta leaves '-' alone, so
// "State-of-the-Art" matches hyphenated text as written.
func New(keywords []string) (*Matcher, error) {
	var parts []string
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		parts = append(parts, regexp.QuoteMeta(kw))
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("no keywords")
	}
	re, err := regexp.Compile("(?i)" + strings.Join(parts, "|"))
	if err != nil {
		return nil, fmt.Errorf("compiling keyword pattern: %w", err)
	}
	return &Matcher{keywords: keywords, re: re}, nil
}

// Match reports whether any keyword occurs anywhere in text.
func (m *Matcher) Match(text string) bool {
	return m.re.MatchString(text)
}

// Pattern returns the compiled alternation.
func (m *Matcher) Pattern() string {
	return m.re.String()
}

var defaultMatcher = mustNew(Default)

func mustNew(keywords []string) *Matcher {
	m, err := New(keywords)
	if err != nil {
		panic(err)
	}
	return m
}

// Matches reports whether text contains any keyword from Default.
func Matches(text string) bool {
	return defaultMatcher.Match(text)
}
