package resolver

import (
	"fmt"
	"strings"

	"kame/internal/adjective"
	"kame/internal/conjstring"
	"kame/internal/convert"
	"kame/internal/dialect"
	"kame/internal/dictionary"
	"kame/internal/noun"
	"kame/internal/numbers"
	"kame/internal/phonology"
	"kame/internal/schema"
	"kame/internal/verb"
)

// engineTypes are analysed through the morphology engines rather than by
// plain lookup.
var engineTypes = []string{
	schema.TypeNoun, schema.TypeProperNoun,
	schema.TypePronoun, schema.TypeContraction,
	schema.TypeAdjective,
}

// analysis collects the results for one surface word.
type analysis struct {
	snap     *dictionary.Snapshot
	dialect  dialect.Dialect
	external bool
	results  []Result
	seen     map[string]bool
}

func newAnalysis(snap *dictionary.Snapshot, d dialect.Dialect) *analysis {
	return &analysis{snap: snap, dialect: d, seen: make(map[string]bool)}
}

// add records a result unless an identical one is already present.
func (a *analysis) add(e schema.Entry, steps schema.Steps, exact bool) *Result {
	key := fmt.Sprintf("%d", e.ID)
	for _, s := range steps {
		key += fmt.Sprintf("|%s%+v", s.Kind(), s)
	}
	if a.seen[key] {
		return nil
	}
	a.seen[key] = true
	a.results = append(a.results, Result{
		Entry:            e,
		Steps:            steps,
		Exact:            exact && !a.external,
		ExternalLenition: a.external,
	})
	return &a.results[len(a.results)-1]
}

// word runs every analysis on w.
func (a *analysis) word(w string) {
	a.lookup(w)
	a.nouns(w)
	a.verbs(w)
	a.adjectives(w)
	a.adverbs(w)
	a.number(w)
}

// lookup finds words that are used as they are spelled in the dictionary.
func (a *analysis) lookup(w string) {
	for _, e := range a.snap.Find(w, a.dialect) {
		if e.MatchesTypes(engineTypes, nil) {
			continue
		}
		if schema.IsVerbType(e.Type) && e.Infixes != "" {
			continue
		}
		a.add(e, nil, true)
	}
}

func (a *analysis) nounStep(c noun.Candidate) *schema.NounStep {
	conjugation := noun.Conjugate(c.Root, c.Affixes, a.dialect, c.Loanword).String()
	return &schema.NounStep{
		StepResult: schema.StepResult{Conjugation: conjugation, Correction: c.Correction},
		Root:       c.Root,
		Affixes:    c.Affixes,
		Loanword:   c.Loanword,
	}
}

func (a *analysis) nouns(w string) {
	for _, c := range noun.ParseWithPronouns(w, a.dialect, true, a.snap.Pronouns(a.dialect)) {
		types := schema.NounTypes
		if c.Pronoun {
			types = schema.PronounTypes
		}
		exact := c.Affixes.IsEmpty() && c.Correction == ""
		for _, e := range a.snap.GetOfTypes(c.Root, types, a.dialect) {
			if c.Loanword && !e.IsLoanword() {
				continue
			}
			step := a.nounStep(c)
			if c.Pronoun {
				step.Conjugation = w
			}
			a.add(e, schema.Steps{step}, exact)
		}
		if !c.Pronoun {
			a.derivedNouns(w, c)
		}
	}
}

// derivedNouns analyses noun roots made from verbs: agent and ability
// nouns (-yu, -tswo) and gerunds (tì-...<us>).
func (a *analysis) derivedNouns(w string, c noun.Candidate) {
	root := strings.ToLower(c.Root)
	for _, suffix := range []string{"yu", "tswo"} {
		base, ok := strings.CutSuffix(root, suffix)
		if !ok || base == "" {
			continue
		}
		for _, e := range a.verbEntries(base) {
			stem := e.InfixStem(a.dialect)
			steps := schema.Steps{
				&schema.VerbStep{
					StepResult: schema.StepResult{Conjugation: verb.Conjugate(stem, verb.Infixes{})},
					Root:       base,
				},
				&schema.VerbToNounStep{
					StepResult: schema.StepResult{Conjugation: conjstring.Join(base, suffix)},
					Root:       base,
					Suffix:     suffix,
				},
				a.nounStep(c),
			}
			a.add(e, steps, false)
		}
	}

	rest, ok := strings.CutPrefix(root, "tì")
	if !ok || rest == "" {
		return
	}
	for _, u := range verb.Parse(rest) {
		if u.Infixes != (verb.Infixes{First: "us"}) {
			continue
		}
		for _, e := range a.verbEntries(u.Root) {
			stem := e.InfixStem(a.dialect)
			v := u.Verify(stem, rest)
			steps := schema.Steps{
				&schema.GerundStep{
					StepResult: schema.StepResult{
						Conjugation: conjstring.Join("tì", verb.Conjugate(stem, u.Infixes)),
						Correction:  v.Correction,
					},
					Root:   u.Root,
					Prefix: "tì",
					Infix:  "us",
				},
				a.nounStep(c),
			}
			a.add(e, steps, false)
		}
	}
}

// verbEntries returns the verbs spelled root that have infix sites.
func (a *analysis) verbEntries(root string) []schema.Entry {
	var out []schema.Entry
	for _, e := range a.snap.Find(root, a.dialect) {
		if schema.IsVerbType(e.Type) && e.Infixes != "" {
			out = append(out, e)
		}
	}
	return out
}

func (a *analysis) verbs(w string) {
	for _, u := range verb.Parse(w) {
		if verb.IsParticiple(u.Infixes.First) {
			continue
		}
		for _, e := range a.verbEntries(u.Root) {
			stem := e.InfixStem(a.dialect)
			v := u.Verify(stem, w)
			steps := schema.Steps{&schema.VerbStep{
				StepResult: schema.StepResult{Conjugation: verb.Conjugate(stem, u.Infixes), Correction: v.Correction},
				Root:       u.Root,
				Infixes:    u.Infixes,
			}}
			a.add(e, steps, u.Infixes.IsEmpty() && v.Correction == "")
		}
	}
}

func (a *analysis) adjectiveStep(c adjective.Candidate) *schema.AdjectiveStep {
	return &schema.AdjectiveStep{
		StepResult: schema.StepResult{
			Conjugation: adjective.Conjugate(c.Root, c.Form, adjective.IsLeDerived(c.Root)),
			Correction:  c.Correction,
		},
		Root: c.Root,
		Form: c.Form,
	}
}

func (a *analysis) adjectives(w string) {
	for _, c := range adjective.Parse(w) {
		exact := c.Form == adjective.Predicative && c.Correction == ""
		for _, e := range a.snap.GetOfTypes(c.Root, schema.AdjectiveTypes, a.dialect) {
			a.add(e, schema.Steps{a.adjectiveStep(c)}, exact)
		}
		a.participles(c)
		a.tsuk(c)
	}
}

// participles analyses verbs with <us> or <awn> used as adjectives.
func (a *analysis) participles(c adjective.Candidate) {
	for _, u := range verb.Parse(c.Root) {
		if !verb.IsParticiple(u.Infixes.First) || u.Infixes.Prefirst != "" || u.Infixes.Second != "" {
			continue
		}
		for _, e := range a.verbEntries(u.Root) {
			stem := e.InfixStem(a.dialect)
			v := u.Verify(stem, c.Root)
			steps := schema.Steps{
				&schema.VerbToParticipleStep{
					StepResult: schema.StepResult{Conjugation: verb.Conjugate(stem, u.Infixes), Correction: v.Correction},
					Root:       u.Root,
					Infix:      u.Infixes.First,
				},
				a.adjectiveStep(c),
			}
			a.add(e, steps, false)
		}
	}
}

// tsuk analyses -tsuk and ke-...-tsuk adjectives.
func (a *analysis) tsuk(c adjective.Candidate) {
	base, ok := strings.CutSuffix(c.Root, "tsuk")
	if !ok || base == "" {
		return
	}
	try := func(prefix, root string) {
		for _, e := range a.verbEntries(root) {
			steps := schema.Steps{
				&schema.VerbToAdjectiveStep{
					StepResult: schema.StepResult{Conjugation: conjstring.Join(prefix, root, "tsuk")},
					Root:       root,
					Prefix:     prefix,
					Suffix:     "tsuk",
				},
				a.adjectiveStep(c),
			}
			a.add(e, steps, false)
		}
	}
	try("", base)
	if rest, ok := strings.CutPrefix(base, "ke"); ok && rest != "" {
		try("ke", rest)
	}
}

func (a *analysis) adverbs(w string) {
	rest, ok := strings.CutPrefix(strings.ToLower(w), "nì")
	if !ok || rest == "" {
		return
	}
	for _, e := range a.snap.GetOfTypes(rest, schema.AdjectiveTypes, a.dialect) {
		steps := schema.Steps{&schema.AdjectiveToAdverbStep{
			StepResult: schema.StepResult{Conjugation: conjstring.Join("nì", rest)},
			Root:       rest,
			Prefix:     "nì",
		}}
		a.add(e, steps, false)
	}
}

// number spells out number words the dictionary does not list.
func (a *analysis) number(w string) {
	if len(a.snap.GetOfTypes(w, []string{schema.TypeNumber}, a.dialect)) > 0 {
		return
	}
	n, err := numbers.Parse(w)
	if err != nil {
		return
	}
	e := schema.Entry{
		Word:         map[dialect.Dialect]string{dialect.Combined: n.Word},
		Type:         schema.TypeNumber,
		Translations: []map[string]string{{"en": fmt.Sprintf("%d (octal %s)", n.Value, n.Octal)}},
	}
	if r := a.add(e, nil, true); r != nil {
		r.Number = &n
	}
}

// unlenited returns the words w may be a lenited form of, w excluded.
func unlenited(w string) []string {
	compressed := convert.Compress(strings.ToLower(w))
	var out []string
	for _, u := range phonology.Unlenite(compressed) {
		if u != compressed {
			out = append(out, convert.Decompress(u))
		}
	}
	return out
}
