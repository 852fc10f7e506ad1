package noun

import (
	"slices"
	"strings"

	"kame/internal/convert"
	"kame/internal/dialect"
	"kame/internal/phonology"
)

// Candidate is a verified decomposition of a surface form.
type Candidate struct {
	Root     string  `json:"root"`
	Affixes  Affixes `json:"affixes"`
	Loanword bool    `json:"loanword,omitempty"`
	Pronoun  bool    `json:"pronoun,omitempty"`

	// Correction holds the observed word when re-conjugating Root with
	// Affixes does not produce it.
	Correction string `json:"correction,omitempty"`
}

// PronounForm is one cell of a pronoun's plural×case table.
type PronounForm struct {
	Lemma  string
	Plural string
	Case   string
}

// PronounIndex maps literal pronoun forms back to their table cells.
type PronounIndex interface {
	Lookup(form string) []PronounForm
}

// unverified is a decomposition that has not been re-conjugated yet. Roots
// and affixes are compressed.
type unverified struct {
	root     string
	affixes  Affixes
	loanword bool
}

func (u unverified) key() string {
	l := "0"
	if u.loanword {
		l = "1"
	}
	return u.root + "|" + u.affixes.String() + "|" + l
}

func (u unverified) verify(word string, d dialect.Dialect) Candidate {
	c := Candidate{
		Root:     convert.Decompress(u.root),
		Affixes:  decompressAffixes(u.affixes),
		Loanword: u.loanword,
	}
	if !Conjugate(c.Root, c.Affixes, d, c.Loanword).Admits(word) {
		c.Correction = word
	}
	return c
}

// Parse returns every decomposition of word into a noun root and affixes.
// Candidates whose re-conjugation does not produce word are kept with
// Correction set. With assumeLoanword, roots ending in a dropped -ì are
// tried as loanwords.
func Parse(word string, d dialect.Dialect, assumeLoanword bool) []Candidate {
	return ParseWithPronouns(word, d, assumeLoanword, nil)
}

// ParseWithPronouns is Parse with irregular pronoun forms resolved through
// idx first.
func ParseWithPronouns(word string, d dialect.Dialect, assumeLoanword bool, idx PronounIndex) []Candidate {
	lower := strings.ToLower(word)
	if lower == "" {
		return nil
	}

	candidates := []unverified{{root: convert.Compress(lower)}}
	candidates = expand(candidates, stripDeterminerPrefix)
	candidates = expand(candidates, func(u unverified) []unverified { return stripPluralPrefix(u, d) })
	candidates = expand(candidates, stripStemPrefix)
	candidates = expand(candidates, stripFinalSuffix)
	candidates = expand(candidates, func(u unverified) []unverified { return stripCaseSuffix(u, d, assumeLoanword) })
	candidates = expand(candidates, stripDeterminerSuffix)
	candidates = expand(candidates, stripStemSuffix)
	if d == dialect.RN {
		candidates = expand(candidates, unvoiceFinal)
	}

	var result []Candidate
	seen := make(map[string]bool)
	for _, u := range candidates {
		if !wellFormed(u) || seen[u.key()] {
			continue
		}
		seen[u.key()] = true

		if idx != nil && pronounShaped(u) {
			for _, p := range idx.Lookup(convert.Decompress(u.root)) {
				result = append(result, Candidate{
					Root: p.Lemma,
					Affixes: Affixes{
						PluralPrefix: p.Plural,
						CaseSuffix:   p.Case,
						FinalSuffix:  convert.Decompress(u.affixes.FinalSuffix),
					},
					Pronoun: true,
				})
			}
		}
		result = append(result, u.verify(lower, d))
	}
	return result
}

func expand(candidates []unverified, stage func(unverified) []unverified) []unverified {
	out := make([]unverified, 0, len(candidates)*2)
	for _, c := range candidates {
		out = append(out, c)
		out = append(out, stage(c)...)
	}
	return out
}

func wellFormed(u unverified) bool {
	if phonology.CountSyllables(u.root) == 0 {
		return false
	}
	if u.affixes.DeterminerPrefix == "pe" && u.affixes.DeterminerSuffix == "pe" {
		return false
	}
	if u.affixes.PluralPrefix == "(ă)" && u.affixes.DeterminerPrefix != "" {
		return false
	}
	return true
}

// pronounShaped reports whether every slot but the final suffix is empty, so
// the root may itself be a pronoun table cell.
func pronounShaped(u unverified) bool {
	a := u.affixes
	return a.DeterminerPrefix == "" && a.PluralPrefix == "" && a.StemPrefix == "" &&
		a.StemSuffix == "" && a.DeterminerSuffix == "" && a.CaseSuffix == ""
}

type determiner struct {
	surface   string
	canonical string
	lenites   bool
}

var determinerPrefixes = []determiner{
	{"fì", "fì", false},
	{"ca", "ca", false},
	{"pe", "pe", true},
	{"fe", "pe", true},
	{"fra", "fra", false},
}

func stripDeterminerPrefix(u unverified) []unverified {
	var out []unverified
	add := func(root, canonical string, lenites bool) {
		if root == "" {
			return
		}
		roots := []string{root}
		if lenites {
			roots = phonology.Unlenite(root)
		}
		for _, r := range roots {
			n := u
			n.root = r
			n.affixes.DeterminerPrefix = canonical
			out = append(out, n)
		}
	}

	for _, p := range determinerPrefixes {
		for _, rest := range cutPrefix(u.root, p.surface) {
			add(rest, p.canonical, p.lenites)
		}

		// the determiner's vowel merged into the following sound
		for _, rest := range cutPrefix(u.root, phonology.DropLast(p.surface)) {
			if baseVowel(phonology.First(rest)) == phonology.Last(p.surface) || phonology.First(rest) == convert.AY {
				add(rest, p.canonical, p.lenites)
			}
		}
	}
	return out
}

type plural struct {
	surface   string
	canonical string
	beforeE   bool
	reef      bool
}

var pluralPrefixes = []plural{
	{"me", "me", false, false},
	{"m", "me", true, false},
	{string(convert.PX) + "e", string(convert.PX) + "e", false, false},
	{string(convert.PX), string(convert.PX) + "e", true, false},
	{"be", string(convert.PX) + "e", false, true},
	{"b", string(convert.PX) + "e", true, true},
	{string(convert.AY), string(convert.AY), false, false},
}

func stripPluralPrefix(u unverified, d dialect.Dialect) []unverified {
	var out []unverified
	add := func(roots []string, canonical string) {
		for _, r := range roots {
			n := u
			n.root = r
			n.affixes.PluralPrefix = canonical
			out = append(out, n)
		}
	}

	for _, p := range pluralPrefixes {
		if p.reef && d != dialect.RN {
			continue
		}
		for _, rest := range cutPrefix(u.root, p.surface) {
			if p.beforeE && !startsWithE(rest) {
				continue
			}
			add(phonology.Unlenite(rest), p.canonical)
		}
	}

	// short plural: lenition alone marks the plural
	if u.affixes.DeterminerPrefix == "" {
		sources := phonology.Unlenite(u.root)
		add(sources[1:], "(ă)")
	}
	return out
}

func stripStemPrefix(u unverified) []unverified {
	var out []unverified
	for _, rest := range cutPrefix(u.root, "fne") {
		n := u
		n.root = rest
		n.affixes.StemPrefix = "fne"
		out = append(out, n)
	}
	return out
}

func stripSuffixes(u unverified, suffixes []string, set func(*Affixes, string)) []unverified {
	var out []unverified
	for _, s := range suffixes {
		for _, rest := range cutSuffix(u.root, s) {
			n := u
			n.root = rest
			set(&n.affixes, s)
			out = append(out, n)
		}
	}
	return out
}

// cutPrefix removes prefix from the compressed word. Digraphs formed across
// the boundary (pe+yä as pĕä, t+sì as cì) are matched on the conventional
// spelling and the rest is compressed again.
func cutPrefix(word, prefix string) []string {
	var out []string
	if rest, ok := strings.CutPrefix(word, prefix); ok && rest != "" {
		out = append(out, rest)
	}
	if rest, ok := strings.CutPrefix(convert.Decompress(word), convert.Decompress(prefix)); ok {
		out = appendRecompressed(out, strings.TrimPrefix(rest, string(convert.Interpunct)))
	}
	return out
}

// cutSuffix is cutPrefix for suffixes.
func cutSuffix(word, suffix string) []string {
	var out []string
	if rest, ok := strings.CutSuffix(word, suffix); ok && rest != "" {
		out = append(out, rest)
	}
	if rest, ok := strings.CutSuffix(convert.Decompress(word), convert.Decompress(suffix)); ok {
		out = appendRecompressed(out, strings.TrimSuffix(rest, string(convert.Interpunct)))
	}
	return out
}

func appendRecompressed(out []string, rest string) []string {
	c := convert.Compress(rest)
	if c == "" || slices.Contains(out, c) {
		return out
	}
	return append(out, c)
}

func stripFinalSuffix(u unverified) []unverified {
	return stripSuffixes(u, []string{"sì", "to"}, func(a *Affixes, s string) { a.FinalSuffix = s })
}

func stripDeterminerSuffix(u unverified) []unverified {
	return stripSuffixes(u, []string{"pe", "o"}, func(a *Affixes, s string) { a.DeterminerSuffix = s })
}

func stripStemSuffix(u unverified) []unverified {
	return stripSuffixes(u, []string{convert.Compress("tsyìp"), convert.Compress("fkeyk")},
		func(a *Affixes, s string) { a.StemSuffix = s })
}

type caseForm struct {
	surface   string
	canonical string
}

var caseForms = []caseForm{
	{"l", "l"}, {"ìl", "l"},
	{"t", "t"}, {"it", "t"}, {"ti", "t"},
	{"r", "r"}, {"ur", "r"}, {"ru", "r"},
	{"ä", "ä"}, {"yä", "ä"},
	{"ri", "ri"}, {"ìri", "ri"},
}

func caseFormsFor(d dialect.Dialect) []caseForm {
	forms := append([]caseForm(nil), caseForms...)
	for _, adp := range Adpositions {
		c := convert.Compress(adp)
		forms = append(forms, caseForm{c, c})
		if d == dialect.RN {
			if reef := reefAdposition(adp); reef != adp {
				forms = append(forms, caseForm{convert.Compress(reef), c})
			}
		}
	}
	return forms
}

func stripCaseSuffix(u unverified, d dialect.Dialect, assumeLoanword bool) []unverified {
	var out []unverified
	for _, cf := range caseFormsFor(d) {
		for _, rest := range cutSuffix(u.root, cf.surface) {
			out = append(out, caseCandidates(u, rest, cf.canonical, assumeLoanword)...)
		}
	}
	return out
}

func caseCandidates(u unverified, rest, canonical string, assumeLoanword bool) []unverified {
	n := u
	n.root = rest
	n.affixes.CaseSuffix = canonical
	out := []unverified{n}

	// genitive of stems in -ia drops the a
	if canonical == "ä" && phonology.Last(rest) == 'i' {
		g := n
		g.root = rest + "a"
		out = append(out, g)
	}
	if assumeLoanword {
		l := n
		l.root = rest + "ì"
		l.loanword = true
		out = append(out, l)
	}
	return out
}

func unvoiceFinal(u unverified) []unverified {
	if ejective, ok := phonology.Unvoice(phonology.Last(u.root)); ok {
		n := u
		n.root = phonology.DropLast(u.root) + string(ejective)
		return []unverified{n}
	}
	return nil
}

func decompressAffixes(a Affixes) Affixes {
	return Affixes{
		DeterminerPrefix: convert.Decompress(a.DeterminerPrefix),
		PluralPrefix:     convert.Decompress(a.PluralPrefix),
		StemPrefix:       convert.Decompress(a.StemPrefix),
		StemSuffix:       convert.Decompress(a.StemSuffix),
		DeterminerSuffix: convert.Decompress(a.DeterminerSuffix),
		CaseSuffix:       convert.Decompress(a.CaseSuffix),
		FinalSuffix:      convert.Decompress(a.FinalSuffix),
	}
}
