// Package phonology classifies sounds of the compressed alphabet and holds
// the lenition and voicing tables shared by the conjugation engines.
//
// Every function here operates on compressed words (see package convert).
package phonology

import (
	"strings"
	"unicode/utf8"

	"kame/internal/convert"
)

// Class is the phonological class of a single compressed rune.
type Class int

const (
	Other Class = iota
	Vowel
	Diphthong
	Pseudovowel
	Consonant
)

var classes = map[rune]Class{
	'a': Vowel, 'ä': Vowel, 'e': Vowel, 'é': Vowel, 'i': Vowel,
	'ì': Vowel, 'o': Vowel, 'u': Vowel, 'ù': Vowel,

	convert.AW: Diphthong, convert.AY: Diphthong,
	convert.EW: Diphthong, convert.EY: Diphthong,

	convert.LL: Pseudovowel, convert.RR: Pseudovowel,

	'\'': Consonant, 'f': Consonant, 'h': Consonant, 'k': Consonant,
	'l': Consonant, 'm': Consonant, 'n': Consonant, 'p': Consonant,
	'r': Consonant, 's': Consonant, 't': Consonant, 'v': Consonant,
	'w': Consonant, 'y': Consonant, 'z': Consonant,
	'b': Consonant, 'd': Consonant, 'g': Consonant,
	convert.TS: Consonant, convert.NG: Consonant,
	convert.TX: Consonant, convert.PX: Consonant, convert.KX: Consonant,
}

// ClassOf returns the class of r.
func ClassOf(r rune) Class {
	return classes[r]
}

func IsVowel(r rune) bool       { return classes[r] == Vowel }
func IsDiphthong(r rune) bool   { return classes[r] == Diphthong }
func IsPseudovowel(r rune) bool { return classes[r] == Pseudovowel }
func IsConsonant(r rune) bool   { return classes[r] == Consonant }

// IsNucleus reports whether r can be the nucleus of a syllable.
func IsNucleus(r rune) bool {
	c := classes[r]
	return c == Vowel || c == Diphthong || c == Pseudovowel
}

// IsEjective reports whether r is px, tx or kx.
func IsEjective(r rune) bool {
	return r == convert.PX || r == convert.TX || r == convert.KX
}

// First returns the first rune of w, or 0.
func First(w string) rune {
	r, _ := utf8.DecodeRuneInString(w)
	if r == utf8.RuneError {
		return 0
	}
	return r
}

// Last returns the last rune of w, or 0.
func Last(w string) rune {
	r, _ := utf8.DecodeLastRuneInString(w)
	if r == utf8.RuneError {
		return 0
	}
	return r
}

// DropFirst removes the first rune of w.
func DropFirst(w string) string {
	_, size := utf8.DecodeRuneInString(w)
	return w[size:]
}

// DropLast removes the last rune of w.
func DropLast(w string) string {
	_, size := utf8.DecodeLastRuneInString(w)
	return w[:len(w)-size]
}

// EndsInVowel reports whether w ends in a plain vowel or a pseudovowel.
func EndsInVowel(w string) bool {
	r := Last(w)
	return IsVowel(r) || IsPseudovowel(r)
}

// StartsWithVowel reports whether w begins with a syllable nucleus.
func StartsWithVowel(w string) bool {
	return IsNucleus(First(w))
}

var lenition = map[rune]string{
	convert.PX: "p",
	convert.TX: "t",
	convert.KX: "k",
	'p':        "f",
	't':        "s",
	convert.TS: "s",
	'k':        "h",
	'\'':       "",
}

// Lenite returns the lenited form of the initial of w, split into the new
// initial and the unchanged remainder. changed is false when w does not
// begin with a lenitable consonant.
func Lenite(w string) (initial, rest string, changed bool) {
	r := First(w)
	to, ok := lenition[r]
	if !ok {
		return "", w, false
	}
	rest = DropFirst(w)
	// 'll and 'rr keep their tìftang
	if r == '\'' && IsPseudovowel(First(rest)) {
		return "", w, false
	}
	return to, rest, true
}

// LeniteWord applies lenition to the initial of w.
func LeniteWord(w string) string {
	initial, rest, _ := Lenite(w)
	return initial + rest
}

// IsLenitable reports whether lenition changes w.
func IsLenitable(w string) bool {
	_, _, changed := Lenite(w)
	return changed
}

var unlenition = map[rune][]string{
	'f': {"p"},
	's': {"t", string(convert.TS)},
	'h': {"k"},
	'p': {string(convert.PX)},
	't': {string(convert.TX)},
	'k': {string(convert.KX)},
}

// Unlenite returns every word that lenites to w, w itself included.
func Unlenite(w string) []string {
	if w == "" {
		return nil
	}
	out := []string{w}
	r := First(w)
	if sources, ok := unlenition[r]; ok {
		rest := DropFirst(w)
		for _, s := range sources {
			out = append(out, s+rest)
		}
	}
	if IsNucleus(r) && !IsPseudovowel(r) {
		out = append(out, "'"+w)
	}
	return out
}

var voicing = map[rune]rune{
	convert.PX: 'b',
	convert.TX: 'd',
	convert.KX: 'g',
}

var unvoicing = map[rune]rune{
	'b': convert.PX,
	'd': convert.TX,
	'g': convert.KX,
}

// Voice returns the voiced stop an ejective becomes in RN.
func Voice(r rune) (rune, bool) {
	v, ok := voicing[r]
	return v, ok
}

// Unvoice returns the ejective a voiced stop may derive from in RN.
func Unvoice(r rune) (rune, bool) {
	v, ok := unvoicing[r]
	return v, ok
}

// IsVoicedStop reports whether r is b, d or g.
func IsVoicedStop(r rune) bool {
	_, ok := unvoicing[r]
	return ok
}

// CountSyllables counts syllable nuclei in a compressed word.
func CountSyllables(w string) int {
	n := 0
	for _, r := range w {
		if IsNucleus(r) {
			n++
		}
	}
	return n
}

// Lower lower-cases w and reports whether its first letter was upper case.
func Lower(w string) (string, bool) {
	lower := strings.ToLower(w)
	return lower, lower != w && First(lower) != First(w)
}

// Capitalize upper-cases the first letter of w.
func Capitalize(w string) string {
	r := First(w)
	if r == 0 {
		return w
	}
	return strings.ToUpper(string(r)) + DropFirst(w)
}
