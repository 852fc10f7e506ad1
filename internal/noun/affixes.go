// Package noun conjugates and parses Na'vi nouns.
//
// A noun has seven affix slots: determiner prefix, plural prefix, stem
// prefix, stem suffix, determiner suffix, case suffix and final suffix.
package noun

import (
	"strings"

	"kame/internal/dialect"
)

// Affixes holds the seven noun affix slots.
type Affixes struct {
	DeterminerPrefix string `json:"determiner_prefix,omitempty"` // fì, tsa, pe, fra
	PluralPrefix     string `json:"plural_prefix,omitempty"`     // me, pxe, ay, (ay)
	StemPrefix       string `json:"stem_prefix,omitempty"`       // fne
	StemSuffix       string `json:"stem_suffix,omitempty"`       // tsyìp, fkeyk
	DeterminerSuffix string `json:"determiner_suffix,omitempty"` // pe, o
	CaseSuffix       string `json:"case_suffix,omitempty"`       // l, t, r, ä, ri or an adposition
	FinalSuffix      string `json:"final_suffix,omitempty"`      // sì, to
}

// Slice returns the slots in order.
func (a Affixes) Slice() []string {
	return []string{
		a.DeterminerPrefix, a.PluralPrefix, a.StemPrefix,
		a.StemSuffix, a.DeterminerSuffix, a.CaseSuffix, a.FinalSuffix,
	}
}

// AffixesFrom builds Affixes from up to seven slot values.
func AffixesFrom(slots []string) Affixes {
	get := func(i int) string {
		if i < len(slots) {
			return slots[i]
		}
		return ""
	}
	return Affixes{
		DeterminerPrefix: get(0),
		PluralPrefix:     get(1),
		StemPrefix:       get(2),
		StemSuffix:       get(3),
		DeterminerSuffix: get(4),
		CaseSuffix:       get(5),
		FinalSuffix:      get(6),
	}
}

// Count returns the number of filled slots.
func (a Affixes) Count() int {
	n := 0
	for _, s := range a.Slice() {
		if s != "" {
			n++
		}
	}
	return n
}

// IsEmpty reports whether no slot is filled.
func (a Affixes) IsEmpty() bool {
	return a.Count() == 0
}

// String renders the slots as "fì-ay-...".
func (a Affixes) String() string {
	return strings.Join(a.Slice(), "-")
}

var (
	DeterminerPrefixes = []string{"fì", "tsa", "pe", "fra"}
	PluralPrefixes     = []string{"me", "pxe", "ay", "(ay)"}
	StemPrefixes       = []string{"fne"}
	StemSuffixes       = []string{"tsyìp", "fkeyk"}
	DeterminerSuffixes = []string{"pe", "o"}
	CaseSuffixes       = []string{"l", "t", "r", "ä", "ri"}
	FinalSuffixes      = []string{"sì", "to"}
)

// Plurals and Cases are the rows and columns of a conjugation table.
var (
	Plurals = []string{"", "me", "pxe", "ay"}
	Cases   = []string{"", "l", "t", "r", "ä", "ri"}
)

// Adpositions that can be attached to a noun as its case suffix.
var Adpositions = []string{
	"äo", "eo", "fa", "few", "fkip", "fpi", "ftu", "ftumfa", "hu", "ìlä",
	"io", "ka", "kam", "kay", "kip", "krrka", "kxamlä", "lisre", "lok",
	"luke", "maw", "mì", "mungwrr", "na", "ne", "nemfa", "nuä", "pxaw",
	"pxel", "pxisre", "pximaw", "ro", "sìn", "sko", "sre", "ta", "tafkip",
	"takip", "talun", "teri", "uo", "vay", "wä", "yoa",
}

// LenitingAdpositions lenite the word that follows them.
var LenitingAdpositions = []string{"fpi", "ìlä", "ka", "mì", "ro", "ta", "wä"}

// IsAdposition reports whether s is an adposition usable as a case suffix.
func IsAdposition(s string) bool {
	for _, a := range Adpositions {
		if a == s {
			return true
		}
	}
	return false
}

// IsLenitingAdposition reports whether s lenites the following word.
func IsLenitingAdposition(s string) bool {
	for _, a := range LenitingAdpositions {
		if a == s {
			return true
		}
	}
	return false
}

// reefAdposition returns the RN spelling of an adposition, whose initial
// ejective is voiced.
func reefAdposition(adp string) string {
	return dialect.Raw(dialect.ToRN(adp))
}
