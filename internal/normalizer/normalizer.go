// Package normalizer cleans up Na'vi text typed by users or read from
// dictionary sources.
package normalizer

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// apostrophes maps characters commonly typed for the tìftang to "'".
var apostrophes = map[rune]bool{
	'’': true, '‘': true, '`': true, '´': true, 'ʼ': true, 'ʻ': true, '′': true,
}

// letterMap replaces look-alike letters with the Na'vi ones.
var letterMap = map[rune]rune{
	'í': 'ì', 'Í': 'Ì',
	'á': 'ä', 'Á': 'Ä',
	'ú': 'ù', 'Ú': 'Ù',
}

var naviPattern = regexp.MustCompile(`^[a-zäìéù'·-]+$`)

// NormalizeChar returns the canonical form of r.
func NormalizeChar(r rune) rune {
	if apostrophes[r] {
		return '\''
	}
	if l, ok := letterMap[r]; ok {
		return l
	}
	return r
}

// Normalize composes s to NFC, so that letters typed with combining marks
// match dictionary spellings, folds apostrophe variants and collapses
// whitespace. Case is preserved.
func Normalize(s string) string {
	s = norm.NFC.String(s)

	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		result.WriteRune(NormalizeChar(r))
	}

	return strings.Join(strings.Fields(result.String()), " ")
}

// Fold normalizes s and lower-cases it, for use as a lookup key.
func Fold(s string) string {
	return strings.ToLower(Normalize(s))
}

// StripMarks removes diacritics and tìftang, e.g. "tìftang" becomes
// "tiftang" and "'eylan" becomes "eylan". It is used to match queries typed
// on keyboards without Na'vi letters.
func StripMarks(s string) string {
	decomposed := norm.NFD.String(Fold(s))

	var result strings.Builder
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) || r == '\'' {
			continue
		}
		result.WriteRune(r)
	}
	return result.String()
}

// IsValidNavi checks if word is a single lower-case word spelled with Na'vi
// letters.
func IsValidNavi(word string) bool {
	return naviPattern.MatchString(word)
}

// Words splits a query into normalized words.
func Words(query string) []string {
	return strings.Fields(Normalize(query))
}
