package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s and strips diacritics, so "Chișinău" and "chisinau"
// compare equal.
func Fold(s string) string {
	// transform.Chain keeps state, so it is built per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// Keywords splits a search query into folded words. Punctuation around words
// is dropped, the arrow included.
func Keywords(query string) []string {
	fields := strings.FieldsFunc(Fold(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return fields
}

// MatchAll reports whether every keyword occurs in text (case- and
// diacritic-insensitive substring match). No keywords match everything.
func MatchAll(text string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	folded := Fold(text)
	for _, kw := range keywords {
		if !strings.Contains(folded, kw) {
			return false
		}
	}
	return true
}
