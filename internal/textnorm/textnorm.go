// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textnorm cleans scraped text into stable keys and values.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	edgeNonWord   = regexp.MustCompile(`^[^\p{L}\p{N}_]+|[^\p{L}\p{N}_]+$`)
	nonLetterRun  = regexp.MustCompile(`[^\p{L}]+`)
	nonNumeric    = regexp.MustCompile(`[^0-9E.,-]`)
	leadingNonABC = regexp.MustCompile(`^[^A-Za-z]+`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// NormalizeIdentifier turns a human-readable label into a field key:
// "Mean seed weight:" becomes "mean_seed_weight". Leading and trailing
// non-word characters are dropped, every run of non-letters becomes a
// single underscore, and the result is lower-cased.
func NormalizeIdentifier(s string) string {
	s = edgeNonWord.ReplaceAllString(s, "")
	s = nonLetterRun.ReplaceAllString(s, "_")
	return strings.ToLower(s)
}

// CleanText strips scraped text down to its value.
//
// In numeric mode only digits, 'E', '.', ',' and '-' survive, which keeps
// scientific notation and either decimal separator. In text mode leading
// characters up to the first ASCII letter are dropped, a trailing run of
// non-letters is dropped except for a final period directly after a
// letter (as in "Rosa canina L."), and whitespace runs collapse to one space.
func CleanText(s string, numeric bool) string {
	if numeric {
		return nonNumeric.ReplaceAllString(s, "")
	}
	s = leadingNonABC.ReplaceAllString(s, "")
	s = trimTrailingNonLetters(s)
	return whitespaceRun.ReplaceAllString(s, " ")
}

// trimTrailingNonLetters cuts the trailing non-letter run at its first
// character that is not a period.
func trimTrailingNonLetters(s string) string {
	runes := []rune(s)
	start := len(runes)
	for start > 0 && !unicode.IsLetter(runes[start-1]) {
		start--
	}
	for i := start; i < len(runes); i++ {
		if runes[i] != '.' {
			return string(runes[:i])
		}
	}
	return s
}
