// Package gloss assembles English glosses for conjugated words and lists
// the affixes they contain.
package gloss

import (
	"strings"

	"kame/internal/dialect"
	"kame/internal/noun"
	"kame/internal/schema"
	"kame/internal/verb"
)

// Lookup is the dictionary access needed to find affix entries.
type Lookup interface {
	GetOfTypes(word string, types []string, d dialect.Dialect) []schema.Entry
}

var (
	prefixTypes     = []string{schema.TypePrefix, schema.TypeLenitingPre}
	infixTypes      = []string{schema.TypeInfix}
	suffixTypes     = []string{schema.TypeSuffix}
	adpositionTypes = []string{schema.TypeAdposition, schema.TypeLenitingAdp}
)

type assembler struct {
	dict    Lookup
	dialect dialect.Dialect
	affixes []schema.AffixData
}

// Assemble threads translation through steps, innermost first, storing
// each step's gloss in its Translation, and returns the affixes used.
// Affixes missing from the dictionary are reported without an entry and
// leave the gloss unchanged when no template covers them. dict may be nil.
func Assemble(steps schema.Steps, translation string, dict Lookup, d dialect.Dialect) []schema.AffixData {
	a := &assembler{dict: dict, dialect: d}
	g := translation
	for _, step := range steps {
		switch s := step.(type) {
		case *schema.NounStep:
			g = a.noun(s, g)
		case *schema.VerbStep:
			g = a.verb(s, g)
		case *schema.AdjectiveStep:
		case *schema.VerbToNounStep:
			a.add(schema.AffixSuffix, s.Suffix, suffixTypes)
			g = apply(s.Kind(), s.Suffix, g, nil)
		case *schema.VerbToAdjectiveStep:
			key := s.Suffix
			if s.Prefix != "" {
				a.add(schema.AffixPrefix, s.Prefix, prefixTypes)
				key = s.Prefix + "-" + s.Suffix
			}
			a.add(schema.AffixSuffix, s.Suffix, suffixTypes)
			g = apply(s.Kind(), key, g, nil)
		case *schema.VerbToParticipleStep:
			a.add(schema.AffixInfix, s.Infix, infixTypes)
			g = apply(s.Kind(), s.Infix, g, nil)
		case *schema.AdjectiveToAdverbStep:
			a.add(schema.AffixPrefix, s.Prefix, prefixTypes)
			g = apply(s.Kind(), s.Prefix, g, nil)
		case *schema.GerundStep:
			a.add(schema.AffixPrefix, s.Prefix, prefixTypes)
			a.add(schema.AffixInfix, s.Infix, infixTypes)
			g = apply(s.Kind(), s.Prefix+"-"+s.Infix, g, nil)
		}
		step.Base().Translation = g
	}
	return a.affixes
}

func (a *assembler) noun(s *schema.NounStep, g string) string {
	aff := s.Affixes
	plural := strings.Trim(aff.PluralPrefix, "()")

	a.add(schema.AffixPrefix, aff.DeterminerPrefix, prefixTypes)
	a.add(schema.AffixPrefix, plural, prefixTypes)
	a.add(schema.AffixPrefix, aff.StemPrefix, prefixTypes)
	a.add(schema.AffixSuffix, aff.StemSuffix, suffixTypes)
	a.add(schema.AffixSuffix, aff.DeterminerSuffix, suffixTypes)
	caseEntry := a.add(schema.AffixSuffix, aff.CaseSuffix, caseTypes(aff.CaseSuffix))
	a.add(schema.AffixSuffix, aff.FinalSuffix, suffixTypes)

	for _, affix := range []string{aff.StemPrefix, aff.StemSuffix, plural, aff.DeterminerPrefix, aff.DeterminerSuffix} {
		g = apply(s.Kind(), affix, g, nil)
	}

	if _, ok := templates[s.Kind()][aff.CaseSuffix]; !ok && caseEntry != nil {
		if t := caseEntry.Translation("en"); t != "" {
			g = firstSense(t) + " " + g
		}
	} else {
		g = apply(s.Kind(), aff.CaseSuffix, g, nil)
	}
	return apply(s.Kind(), aff.FinalSuffix, g, nil)
}

func (a *assembler) verb(s *schema.VerbStep, g string) string {
	for _, infix := range s.Infixes.Slice() {
		a.add(schema.AffixInfix, infix, infixTypes)
		g = apply(s.Kind(), infix, g, verb.CombinedFrom[infix])
	}
	return g
}

func caseTypes(c string) []string {
	if noun.IsAdposition(c) {
		return adpositionTypes
	}
	return suffixTypes
}

// add records affix and returns its dictionary entry, if any.
func (a *assembler) add(typ schema.AffixType, affix string, types []string) *schema.Entry {
	if affix == "" {
		return nil
	}
	data := a.data(typ, affix, types)
	if typ == schema.AffixInfix {
		for _, part := range verb.CombinedFrom[affix] {
			data.CombinedFrom = append(data.CombinedFrom, a.data(typ, part, types))
		}
	}
	a.affixes = append(a.affixes, data)
	return data.Entry
}

func (a *assembler) data(typ schema.AffixType, affix string, types []string) schema.AffixData {
	data := schema.AffixData{Type: typ, Affix: affix}
	if a.dict == nil {
		return data
	}
	if found := a.dict.GetOfTypes(affix, types, a.dialect); len(found) > 0 {
		e := found[0]
		data.Entry = &e
	}
	return data
}

// firstSense returns the first of several ";" or "," separated senses.
func firstSense(t string) string {
	if i := strings.IndexAny(t, ";,"); i >= 0 {
		t = t[:i]
	}
	return strings.TrimSpace(t)
}
