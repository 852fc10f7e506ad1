package verb

import (
	"strings"

	"kame/internal/conjstring"
	"kame/internal/convert"
	"kame/internal/phonology"
)

// Unverified is a decomposition of a surface form into a root and infixes.
// Its Root carries no infix sites, so it must be checked against the dotted
// stem from the dictionary with Verify.
type Unverified struct {
	Root    string
	Infixes Infixes
}

// Candidate is a decomposition that was checked by re-conjugation.
type Candidate struct {
	Root       string  `json:"root"`
	Infixes    Infixes `json:"infixes"`
	Correction string  `json:"correction,omitempty"`
}

// Verify re-conjugates stem with the candidate's infixes. If word is not
// among the results, the candidate is kept with Correction set.
func (u Unverified) Verify(stem, word string) Candidate {
	c := Candidate{Root: u.Root, Infixes: u.Infixes}
	if !conjstring.Admits(Conjugate(stem, u.Infixes), strings.ToLower(word)) {
		c.Correction = word
	}
	return c
}

type infixForm struct {
	surface   string
	canonical string
	// restore is left in the root in place of the surface form
	restore string
}

func forms(canonical ...string) []infixForm {
	out := make([]infixForm, len(canonical))
	for i, c := range canonical {
		out[i] = infixForm{surface: c, canonical: c}
	}
	return out
}

var (
	prefirstForms = forms(PrefirstInfixes...)

	firstForms = append(forms(FirstInfixes...),
		infixForm{"iyev", "ìyev", ""},
		// contracted with the stem's pseudovowel
		infixForm{"ol", "ol", "ll"},
		infixForm{"er", "er", "rr"},
	)

	secondForms = append(forms(SecondInfixes...),
		infixForm{"eiy", "ei", ""},
		infixForm{"eng", "äng", ""},
		infixForm{"y", "uy", ""},
		// zenke
		infixForm{"atse", "ats", ""},
		infixForm{"uye", "uy", ""},
	)
)

// Parse returns every way of removing infixes from word. Infixes are
// matched at every position, so most results will not verify.
func Parse(word string) []Unverified {
	lower := strings.ToLower(word)
	if lower == "" {
		return nil
	}

	candidates := []Unverified{{Root: convert.Compress(lower)}}
	candidates = strip(candidates, prefirstForms, func(i *Infixes, s string) { i.Prefirst = s })
	candidates = strip(candidates, firstForms, func(i *Infixes, s string) { i.First = s })
	candidates = strip(candidates, secondForms, func(i *Infixes, s string) { i.Second = s })

	var out []Unverified
	seen := make(map[Unverified]bool)
	for _, c := range candidates {
		if phonology.CountSyllables(c.Root) == 0 {
			continue
		}
		c.Root = convert.Decompress(c.Root)
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

func strip(candidates []Unverified, infixes []infixForm, set func(*Infixes, string)) []Unverified {
	out := make([]Unverified, 0, len(candidates)*2)
	for _, c := range candidates {
		out = append(out, c)
		for _, f := range infixes {
			surface := convert.Compress(f.surface)
			restore := convert.Compress(f.restore)
			for _, i := range occurrences(c.Root, surface) {
				n := c
				n.Root = c.Root[:i] + restore + c.Root[i+len(surface):]
				set(&n.Infixes, f.canonical)
				out = append(out, n)
			}
		}
	}
	return out
}

// occurrences returns the byte offset of every match of sub in s. Vowel-initial
// stems have their first infix site at offset 0.
func occurrences(s, sub string) []int {
	var out []int
	for i := 0; i < len(s); {
		j := strings.Index(s[i:], sub)
		if j < 0 {
			break
		}
		out = append(out, i+j)
		i += j + 1
	}
	return out
}
