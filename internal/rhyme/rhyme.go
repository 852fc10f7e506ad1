// Package rhyme finds the rhyming part of Na'vi words.
package rhyme

import (
	"strings"

	"kame/internal/convert"
	"kame/internal/phonology"
)

var folder = strings.NewReplacer("é", "e", "ù", "u", string(convert.Interpunct), "")

// Ending returns the last syllable nucleus of word followed by any trailing
// consonants, e.g. "ap" for "sngap". Words without a nucleus have no ending.
func Ending(word string) string {
	fields := strings.Fields(word)
	if len(fields) == 0 {
		return ""
	}
	w := []rune(convert.Compress(folder.Replace(strings.ToLower(fields[len(fields)-1]))))

	for i := len(w) - 1; i >= 0; i-- {
		if phonology.IsNucleus(w[i]) {
			return convert.Decompress(string(w[i:]))
		}
		if !phonology.IsConsonant(w[i]) {
			return ""
		}
	}
	return ""
}

// Rhymes reports whether a and b are different words with the same ending.
func Rhymes(a, b string) bool {
	if strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) {
		return false
	}
	ending := Ending(a)
	return ending != "" && ending == Ending(b)
}
