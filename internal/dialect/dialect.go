// Package dialect derives Forest (FN) and Reef (RN) spellings from the
// shared representation used in the dictionary.
//
// The shared representation separates syllables with "-", wraps the stressed
// syllable in brackets and separates words with spaces, e.g. "tì-[ral]-peng".
// Separators are kept by ToFN and ToRN; Raw strips them.
package dialect

import (
	"strings"

	"kame/internal/convert"
	"kame/internal/phonology"
)

// Dialect selects a surface spelling.
type Dialect string

const (
	FN       Dialect = "FN"
	RN       Dialect = "RN"
	Combined Dialect = "combined"
)

// Parse returns the dialect named by s, defaulting to FN.
func Parse(s string) Dialect {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "RN", "REEF":
		return RN
	case "COMBINED":
		return Combined
	default:
		return FN
	}
}

// Transform applies the transform for d. Combined is returned unchanged.
func Transform(shared string, d Dialect) string {
	switch d {
	case FN:
		return ToFN(shared)
	case RN:
		return ToRN(shared)
	default:
		return shared
	}
}

// ToFN converts the shared representation to Forest spelling.
func ToFN(shared string) string {
	return strings.ReplaceAll(shared, "ù", "u")
}

func isSeparator(r rune) bool {
	return r == '-' || r == '[' || r == ']'
}

func isBoundary(r rune) bool {
	return r == '-' || r == ' '
}

// ToRN converts the shared representation to Reef spelling.
func ToRN(shared string) string {
	runes := []rune(convert.Compress(shared))

	voiceSyllableInitialEjectives(runes)
	voiceFinalEjectives(runes)
	runes = elideTìftang(runes)
	lowerUnstressedÄ(runes)
	runes = separateNG(runes)

	return convert.Decompress(string(runes))
}

// prevIndex returns the index of the nearest rune before i that is not a
// bracket, or -1.
func prevIndex(runes []rune, i int) int {
	for j := i - 1; j >= 0; j-- {
		if runes[j] != '[' && runes[j] != ']' {
			return j
		}
	}
	return -1
}

// ejectives at the start of a syllable become voiced; after f or s they
// belong to a cluster and stay
func voiceSyllableInitialEjectives(runes []rune) {
	for i, r := range runes {
		if !phonology.IsEjective(r) {
			continue
		}
		j := prevIndex(runes, i)
		if j >= 0 && !isBoundary(runes[j]) {
			continue
		}
		runes[i], _ = phonology.Voice(r)
	}
}

// syllable-final ejectives followed by a voiced stop become voiced
func voiceFinalEjectives(runes []rune) {
	for i, r := range runes {
		if !phonology.IsEjective(r) {
			continue
		}
		j := i + 1
		crossed := false
		for j < len(runes) && isSeparator(runes[j]) {
			if runes[j] == '-' {
				crossed = true
			}
			j++
		}
		if crossed && j < len(runes) && phonology.IsVoicedStop(runes[j]) {
			runes[i], _ = phonology.Voice(r)
		}
	}
}

// the tìftang between two vowels is dropped; between equal vowels the drop
// is optional
func elideTìftang(runes []rune) []rune {
	out := make([]rune, 0, len(runes)+2)
	for i, r := range runes {
		if r != '\'' {
			out = append(out, r)
			continue
		}

		before := rune(0)
		for j := i - 1; j >= 0; j-- {
			if !isSeparator(runes[j]) {
				before = runes[j]
				break
			}
		}
		after := rune(0)
		for j := i + 1; j < len(runes); j++ {
			if !isSeparator(runes[j]) {
				after = runes[j]
				break
			}
		}

		switch {
		case !phonology.IsVowel(before) || !phonology.IsVowel(after):
			out = append(out, r)
		case before == after:
			out = append(out, '(', r, ')')
		}
	}
	return out
}

// ä becomes e outside the stressed syllable
func lowerUnstressedÄ(runes []rune) {
	start := 0
	for start < len(runes) {
		end := start
		for end < len(runes) && runes[end] != ' ' {
			end++
		}
		lowerWord(runes[start:end])
		start = end + 1
	}
}

func lowerWord(word []rune) {
	hasStress := false
	for _, r := range word {
		if r == '[' {
			hasStress = true
			break
		}
	}
	if !hasStress {
		return
	}

	stressed := false
	for i, r := range word {
		switch r {
		case '[':
			stressed = true
		case ']':
			stressed = false
		case 'ä':
			if !stressed {
				word[i] = 'e'
			}
		}
	}
}

// n before a syllable-initial g gets an interpunct so it is not read as ng
func separateNG(runes []rune) []rune {
	out := make([]rune, 0, len(runes)+1)
	for i, r := range runes {
		if r == 'g' && i > 0 && isSeparator(runes[i-1]) {
			if j := prevNonSeparator(runes, i); j >= 0 && runes[j] == 'n' {
				out = append(out, convert.Interpunct)
			}
		}
		out = append(out, r)
	}
	return out
}

func prevNonSeparator(runes []rune, i int) int {
	for j := i - 1; j >= 0; j-- {
		if !isSeparator(runes[j]) {
			return j
		}
	}
	return -1
}

var rawStripper = strings.NewReplacer("-", "", "[", "", "]", "", "(", "", ")", "")

// Raw strips syllable separators, stress brackets and optional-letter
// parentheses.
func Raw(s string) string {
	return rawStripper.Replace(s)
}

// Word returns the raw spelling of a shared representation in dialect d.
func Word(shared string, d Dialect) string {
	return Raw(Transform(shared, d))
}
