package noun

import (
	"strings"

	"kame/internal/conjstring"
	"kame/internal/convert"
	"kame/internal/dialect"
	"kame/internal/phonology"
)

// Form is one conjugated noun, split into its morphemes. The stem is split
// into a lenited initial, the unchanged body and a voiced final.
type Form struct {
	DeterminerPrefix string
	PluralPrefix     string
	StemPrefix       string
	Lenited          string
	Stem             string
	Voiced           string
	StemSuffix       string
	DeterminerSuffix string
	CaseSuffix       string
	FinalSuffix      string

	// Lenition is set when Lenited replaces the stem's original initial.
	Lenition bool
}

// String renders the ten-field conjugation string.
func (f Form) String() string {
	return conjstring.Join(
		f.DeterminerPrefix, f.PluralPrefix, f.StemPrefix,
		f.Lenited, f.Stem, f.Voiced,
		f.StemSuffix, f.DeterminerSuffix, f.CaseSuffix, f.FinalSuffix,
	)
}

// Simple renders the three-field display form. Sounds changed by lenition
// or voicing are wrapped in braces.
func (f Form) Simple() string {
	var stem strings.Builder
	if f.Lenition && f.Lenited != "" {
		stem.WriteString("{" + f.Lenited + "}")
	}
	stem.WriteString(f.Stem)
	if f.Voiced != "" {
		stem.WriteString("{" + f.Voiced + "}")
	}
	stem.WriteString(f.StemSuffix)
	stem.WriteString(f.DeterminerSuffix)

	return conjstring.Join(
		f.DeterminerPrefix+f.PluralPrefix+f.StemPrefix,
		stem.String(),
		f.CaseSuffix+f.FinalSuffix,
	)
}

// Conjugation holds the alternative forms of a conjugated noun.
type Conjugation []Form

// String renders all forms as one conjugation string.
func (c Conjugation) String() string {
	parts := make([]string, len(c))
	for i, f := range c {
		parts[i] = f.String()
	}
	return conjstring.Alternatives(parts...)
}

// Simple renders all forms in display format.
func (c Conjugation) Simple() string {
	parts := make([]string, len(c))
	for i, f := range c {
		parts[i] = f.Simple()
	}
	return conjstring.Alternatives(parts...)
}

// Forms expands the conjugation into literal surface forms.
func (c Conjugation) Forms() []string {
	return conjstring.Expand(c.String())
}

// Admits reports whether word is one of the surface forms.
func (c Conjugation) Admits(word string) bool {
	return conjstring.Admits(c.String(), word)
}

// Conjugate inflects stem with the given affixes.
func Conjugate(stem string, affixes Affixes, d dialect.Dialect, loanword bool) Conjugation {
	if stem == "" {
		return nil
	}
	lower, upper := phonology.Lower(stem)
	s := convert.Compress(lower)

	c := compress(affixes)
	plural := c.PluralPrefix
	if plural == "(ă)" {
		plural = "ă"
	}

	var f Form
	f.Stem = s
	f.StemPrefix = c.StemPrefix

	// Only the stem is lenited, so a stem prefix blocks lenition. This holds
	// because fne- cannot be lenited; a lenitable stem prefix would need to
	// be lenited itself.
	leniting := plural != "" || c.DeterminerPrefix == "pe" || c.DeterminerPrefix == "fe"
	if leniting && c.StemPrefix == "" {
		if initial, rest, changed := phonology.Lenite(s); changed {
			f.Lenition = true
			f.Lenited = initial
			f.Stem = rest
		}
	}

	head := f.StemPrefix
	if head == "" {
		head = f.Lenited + f.Stem
	}

	det := c.DeterminerPrefix
	switch plural {
	case "me":
		f.PluralPrefix = "me"
		if startsWithE(head) {
			f.PluralPrefix = "m"
		}
	case string(convert.PX) + "e":
		initial := string(convert.PX)
		if d == dialect.RN && det == "" {
			initial = "b"
		}
		f.PluralPrefix = initial + "e"
		if startsWithE(head) {
			f.PluralPrefix = initial
		}
	case "ă":
		f.PluralPrefix = "ă"
		if det == "" && f.Lenition && lower != "'u" {
			f.PluralPrefix = "(ă)"
		}
	}

	if det != "" {
		next := f.PluralPrefix
		if next == "" {
			next = head
		}
		switch {
		case f.PluralPrefix == "ă":
			det = phonology.DropLast(det)
		case baseVowel(phonology.First(next)) == phonology.Last(det):
			det = phonology.DropLast(det)
		}
	}
	f.DeterminerPrefix = det

	f.StemSuffix = c.StemSuffix
	f.DeterminerSuffix = c.DeterminerSuffix
	f.FinalSuffix = c.FinalSuffix

	caseSuffix := c.CaseSuffix
	if caseSuffix != "" {
		preceding := f.Stem + f.StemSuffix + f.DeterminerSuffix
		bare := f.StemSuffix == "" && f.DeterminerSuffix == ""
		switch {
		case loanword && bare && phonology.Last(f.Stem) == 'ì' && len(f.Stem) > len("ì"):
			f.Stem = phonology.DropLast(f.Stem)
			caseSuffix = loanwordSuffix(caseSuffix)
		case caseSuffix == "ä" && bare && strings.HasSuffix(preceding, "ia"):
			f.Stem = phonology.DropLast(f.Stem)
		default:
			caseSuffix = caseAllomorph(caseSuffix, preceding, d)
		}
	}
	f.CaseSuffix = caseSuffix

	forms := voiceFinal(f, d)
	for i := range forms {
		forms[i] = decompress(forms[i])
		if upper {
			capitalize(&forms[i])
		}
	}
	return forms
}

// voiceFinal splits a reef form whose stem ends in an ejective into a voiced
// variant (before vowel-initial suffixes) and a plain one.
func voiceFinal(f Form, d dialect.Dialect) Conjugation {
	last := phonology.Last(f.Stem)
	voiced, ok := phonology.Voice(last)
	if d != dialect.RN || !ok || f.Lenited+f.Stem == string(last) {
		return Conjugation{f}
	}

	var vowelInitial, other []string
	if next := f.StemSuffix + f.DeterminerSuffix; next != "" {
		if phonology.StartsWithVowel(next) {
			vowelInitial = []string{f.CaseSuffix}
		} else {
			other = []string{f.CaseSuffix}
		}
	} else {
		for _, alt := range strings.Split(f.CaseSuffix, "/") {
			if phonology.StartsWithVowel(alt + f.FinalSuffix) {
				vowelInitial = append(vowelInitial, alt)
			} else {
				other = append(other, alt)
			}
		}
	}

	var out Conjugation
	if len(vowelInitial) > 0 {
		v := f
		v.Stem = phonology.DropLast(f.Stem)
		v.Voiced = string(voiced)
		v.CaseSuffix = strings.Join(vowelInitial, "/")
		out = append(out, v)
	}
	if len(other) > 0 {
		p := f
		p.CaseSuffix = strings.Join(other, "/")
		out = append(out, p)
	}
	return out
}

func caseAllomorph(c, preceding string, d dialect.Dialect) string {
	last := phonology.Last(preceding)
	vowel := phonology.IsVowel(last) || phonology.IsPseudovowel(last)

	switch c {
	case "l":
		if vowel {
			return "l"
		}
		return "ìl"
	case "t":
		switch {
		case vowel:
			return "t/ti"
		case last == convert.AY || last == convert.EY:
			return "t/it/ti"
		case last == 'f' || last == 's' || last == convert.TS:
			return "it"
		default:
			return "it/ti"
		}
	case "r":
		if vowel {
			return "r/ru"
		}
		return "ur"
	case "ä":
		switch {
		case last == 'o' || last == 'u':
			return "ä"
		case vowel:
			return "yä"
		default:
			return "ä"
		}
	case "ri":
		if vowel {
			return "ri"
		}
		return "ìri"
	}

	if d == dialect.RN {
		adp := convert.Decompress(c)
		if reef := reefAdposition(adp); reef != adp {
			return c + "/" + convert.Compress(reef)
		}
	}
	return c
}

func loanwordSuffix(c string) string {
	switch c {
	case "l":
		return "ìl"
	case "t":
		return "it"
	case "r":
		return "ur"
	case "ri":
		return "ìri"
	}
	return c
}

func startsWithE(w string) bool {
	return baseVowel(phonology.First(w)) == 'e'
}

// baseVowel maps diphthongs to their first vowel.
func baseVowel(r rune) rune {
	switch r {
	case convert.AW, convert.AY:
		return 'a'
	case convert.EW, convert.EY, 'é':
		return 'e'
	}
	return r
}

func compress(a Affixes) Affixes {
	return Affixes{
		DeterminerPrefix: convert.Compress(a.DeterminerPrefix),
		PluralPrefix:     convert.Compress(a.PluralPrefix),
		StemPrefix:       convert.Compress(a.StemPrefix),
		StemSuffix:       convert.Compress(a.StemSuffix),
		DeterminerSuffix: convert.Compress(a.DeterminerSuffix),
		CaseSuffix:       convert.Compress(a.CaseSuffix),
		FinalSuffix:      convert.Compress(a.FinalSuffix),
	}
}

// decompress converts every field back to conventional spelling. A g that
// starts a field after an n-final one gets the interpunct, so n·g is not
// read as the ng digraph.
func decompress(f Form) Form {
	fields := []*string{
		&f.DeterminerPrefix, &f.PluralPrefix, &f.StemPrefix,
		&f.Lenited, &f.Stem, &f.Voiced,
		&f.StemSuffix, &f.DeterminerSuffix, &f.CaseSuffix, &f.FinalSuffix,
	}
	var prev rune
	for _, field := range fields {
		compressed := *field
		if compressed == "" {
			continue
		}
		*field = convert.Decompress(compressed)
		if prev == 'n' {
			*field = separateG(*field)
		}
		prev = phonology.Last(compressed)
	}
	return f
}

func separateG(field string) string {
	alts := strings.Split(field, "/")
	for i, alt := range alts {
		if strings.HasPrefix(alt, "g") {
			alts[i] = string(convert.Interpunct) + alt
		}
	}
	return strings.Join(alts, "/")
}

// capitalize upper-cases the first letter that is always present.
func capitalize(f *Form) {
	for _, field := range []*string{&f.DeterminerPrefix, &f.PluralPrefix, &f.StemPrefix, &f.Lenited, &f.Stem} {
		if *field == "" || strings.HasPrefix(*field, "(") {
			continue
		}
		*field = phonology.Capitalize(*field)
		return
	}
}

// Table returns the plural × case table of stem in simple format, indexed
// like Plurals and Cases.
func Table(stem string, d dialect.Dialect, loanword bool) [][]string {
	rows := make([][]string, len(Plurals))
	for i, p := range Plurals {
		rows[i] = make([]string, len(Cases))
		for j, c := range Cases {
			rows[i][j] = Conjugate(stem, Affixes{PluralPrefix: p, CaseSuffix: c}, d, loanword).Simple()
		}
	}
	return rows
}

var markStripper = strings.NewReplacer("{", "", "}", "")

// Unmark removes the highlight braces of the simple format.
func Unmark(simple string) string {
	return markStripper.Replace(simple)
}
