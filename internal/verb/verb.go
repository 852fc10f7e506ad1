// Package verb conjugates and parses Na'vi verbs.
//
// Verb stems mark their two infix sites with dots, e.g. "t.ar.on". The
// prefirst and first infixes go in the first site, the second infix in the
// second site.
package verb

import (
	"strings"

	"kame/internal/conjstring"
	"kame/internal/convert"
	"kame/internal/phonology"
)

// Infixes holds the three verb infix slots.
type Infixes struct {
	Prefirst string `json:"prefirst,omitempty"`
	First    string `json:"first,omitempty"`
	Second   string `json:"second,omitempty"`
}

// Slice returns the slots in order.
func (i Infixes) Slice() []string {
	return []string{i.Prefirst, i.First, i.Second}
}

// IsEmpty reports whether no slot is filled.
func (i Infixes) IsEmpty() bool {
	return i.Prefirst == "" && i.First == "" && i.Second == ""
}

func (i Infixes) String() string {
	return strings.Join(i.Slice(), "-")
}

var (
	PrefirstInfixes = []string{"äp", "eyk", "äpeyk"}
	FirstInfixes    = []string{
		"am", "ìm", "ìy", "ay", "ìsy", "asy",
		"ol", "er", "alm", "ìlm", "ìly", "aly", "arm", "ìrm", "ìry", "ary",
		"iv", "ilv", "irv", "imv", "ìmv", "ìyev",
		"us", "awn",
	}
	SecondInfixes = []string{"ei", "äng", "uy", "ats"}
)

// CombinedFrom lists the simpler infixes a fused infix is made of.
var CombinedFrom = map[string][]string{
	"äpeyk": {"äp", "eyk"},
	"ìsy":   {"ìy", "s"},
	"asy":   {"ay", "s"},
	"alm":   {"am", "ol"},
	"ìlm":   {"ìm", "ol"},
	"ìly":   {"ìy", "ol"},
	"aly":   {"ay", "ol"},
	"arm":   {"am", "er"},
	"ìrm":   {"ìm", "er"},
	"ìry":   {"ìy", "er"},
	"ary":   {"ay", "er"},
	"ilv":   {"iv", "ol"},
	"irv":   {"iv", "er"},
	"imv":   {"ìm", "iv"},
	"ìmv":   {"ìm", "iv"},
	"ìyev":  {"ìy", "iv"},
}

// IsParticiple reports whether first is a participle infix. Participle
// infixes do not combine with tense, aspect or mood infixes.
func IsParticiple(first string) bool {
	return first == "us" || first == "awn"
}

// Conjugate inserts infixes into a dotted stem and returns the conjugation
// string. Stems without two infix sites are returned without dots.
func Conjugate(stem string, infixes Infixes) string {
	parts := strings.Split(convert.Compress(stem), ".")
	if len(parts) != 3 {
		return strings.ReplaceAll(stem, ".", "")
	}
	before, between, after := parts[0], parts[1], parts[2]
	prefirst := convert.Compress(infixes.Prefirst)
	first := convert.Compress(infixes.First)
	second := convert.Compress(infixes.Second)

	if infixes.First == "ìyev" || infixes.First == "iyev" {
		first = "ìyev/iyev"
	}

	switch second {
	case "ei":
		if beforeHighSound(after) {
			second = "eiy"
		}
	case "äŋ":
		if strings.HasPrefix(after, "i") {
			second = "äŋ/eŋ"
		}
	case "uy":
		if phonology.Last(before+prefirst+first+between) == 'u' {
			second = "y"
		}
	}

	// zenke keeps an e between the second infix and the stem only after
	// uy and ats
	if rest, ok := strings.CutPrefix(after, "(e)"); ok {
		if second == "uy" || second == "ac" {
			after = "e" + rest
		} else {
			after = rest
		}
	}

	before, between = contractPseudovowel(before, first, between)

	return convert.Decompress(conjstring.Join(before, prefirst, first, between, second, after))
}

// Forms returns the literal surface forms of a conjugated verb.
func Forms(stem string, infixes Infixes) []string {
	return conjstring.Expand(Conjugate(stem, infixes))
}

// beforeHighSound reports whether s begins with i, ì or a pseudovowel,
// possibly optional.
func beforeHighSound(s string) bool {
	s = strings.TrimPrefix(s, "(")
	switch phonology.First(s) {
	case 'i', 'ì', convert.LL, convert.RR:
		return true
	}
	return false
}

// contractPseudovowel merges ol with an adjacent ll and er with an adjacent
// rr. An optional pseudovowel next to the infix disappears.
func contractPseudovowel(before, first, between string) (string, string) {
	var p rune
	switch first {
	case "ol":
		p = convert.LL
	case "er":
		p = convert.RR
	default:
		return before, between
	}
	plain := string(p)
	optional := "(" + plain + ")"

	switch {
	case strings.HasPrefix(between, optional):
		between = between[len(optional):]
	case strings.HasPrefix(between, plain):
		between = between[len(plain):]
	}
	switch {
	case strings.HasSuffix(before, optional):
		before = before[:len(before)-len(optional)]
	case strings.HasSuffix(before, plain):
		before = before[:len(before)-len(plain)]
	}
	return before, between
}
