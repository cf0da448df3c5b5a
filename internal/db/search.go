package db

import (
	"strings"

	"golang.org/x/text/cases"
)

// termMatcher implements the multi-term search shared by both stores:
// every whitespace-separated term must appear, case-insensitively, in at
// least one of the searchable fields.
type termMatcher struct {
	fold  cases.Caser
	terms []string
}

// newTermMatcher splits query on whitespace. A blank query has no terms
// and matches everything.
func newTermMatcher(query string) *termMatcher {
	fold := cases.Fold()
	fields := strings.Fields(query)
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		terms = append(terms, fold.String(f))
	}
	return &termMatcher{fold: fold, terms: terms}
}

func (m *termMatcher) matchAll() bool {
	return len(m.terms) == 0
}

// match reports whether every term is found in fields or tags.
func (m *termMatcher) match(tags []string, fields ...string) bool {
	if m.matchAll() {
		return true
	}

	haystack := make([]string, 0, len(fields)+len(tags))
	for _, f := range fields {
		if f != "" {
			haystack = append(haystack, m.fold.String(f))
		}
	}
	for _, tag := range tags {
		haystack = append(haystack, m.fold.String(tag))
	}

	for _, term := range m.terms {
		found := false
		for _, h := range haystack {
			if strings.Contains(h, term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
