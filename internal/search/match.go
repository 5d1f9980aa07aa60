// Package search provides the small text-matching helpers used by the
// client-side directory and feed filters. Matching is Unicode-aware: both
// sides are case-folded with golang.org/x/text/cases and runs of whitespace
// are collapsed, so "  ASHA   foundation" matches "Asha Foundation".
//
// The helpers are pure and safe for concurrent use.
package search

import (
	"strings"

	"golang.org/x/text/cases"
)

// Fold returns s case-folded, trimmed, with internal whitespace collapsed to
// single spaces.
func Fold(s string) string {
	// cases.Caser is stateful; a fresh one per call keeps Fold goroutine-safe.
	return cases.Fold().String(normalizeWhitespace(strings.TrimSpace(s)))
}

// Contains reports whether needle occurs in haystack, ignoring case. An empty
// needle matches everything.
func Contains(haystack, needle string) bool {
	n := Fold(needle)
	if n == "" {
		return true
	}
	return strings.Contains(Fold(haystack), n)
}

// MatchAny reports whether query occurs in any of fields, ignoring case.
func MatchAny(query string, fields ...string) bool {
	q := Fold(query)
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(Fold(f), q) {
			return true
		}
	}
	return false
}

// Filter returns the items whose fields match query, preserving order. A
// blank query returns a copy of items.
func Filter[T any](items []T, query string, fields func(T) []string) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if MatchAny(query, fields(it)...) {
			out = append(out, it)
		}
	}
	return out
}

// EqualFold reports whether a and b are equal after folding. Used for tag
// comparisons where "healing" and "Healing" name the same tag.
func EqualFold(a, b string) bool { return Fold(a) == Fold(b) }

func normalizeWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\r' || r == '\n' {
			if !prevSpace {
				b.WriteByte(' ')
				prevSpace = true
			}
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
