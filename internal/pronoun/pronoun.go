// Package pronoun indexes the surface forms of pronouns so the noun parser
// can resolve irregular pronoun paradigms directly.
package pronoun

import (
	"sort"
	"strings"

	"kame/internal/conjstring"
	"kame/internal/dialect"
	"kame/internal/noun"
	"kame/internal/schema"
)

// Index maps literal pronoun forms to their table cells.
type Index struct {
	forms map[string][]noun.PronounForm
}

// Build indexes every pronoun and contraction among entries. Entries
// without a precomputed table for d are conjugated as regular nouns.
func Build(entries []schema.Entry, d dialect.Dialect) *Index {
	idx := &Index{forms: make(map[string][]noun.PronounForm)}
	for i := range entries {
		e := &entries[i]
		if !e.MatchesTypes(schema.PronounTypes, nil) {
			continue
		}
		root := e.Root(d)

		var rows [][]string
		if t := e.Conjugated[d]; t != nil && len(t.Noun) > 0 {
			rows = t.Noun
		} else {
			rows = noun.Table(root, d, false)
		}

		for p, row := range rows {
			if p >= len(noun.Plurals) {
				break
			}
			for c, cell := range row {
				if c >= len(noun.Cases) {
					break
				}
				idx.add(cell, noun.PronounForm{
					Lemma:  root,
					Plural: noun.Plurals[p],
					Case:   noun.Cases[c],
				})
			}
		}
	}
	return idx
}

func (idx *Index) add(cell string, form noun.PronounForm) {
next:
	for _, f := range conjstring.Expand(noun.Unmark(cell)) {
		key := strings.ToLower(f)
		for _, existing := range idx.forms[key] {
			if existing == form {
				continue next
			}
		}
		idx.forms[key] = append(idx.forms[key], form)
	}
}

// Lookup returns the table cells that produce form.
func (idx *Index) Lookup(form string) []noun.PronounForm {
	return idx.forms[strings.ToLower(form)]
}

// Len returns the number of distinct forms.
func (idx *Index) Len() int {
	return len(idx.forms)
}

// Forms returns every indexed form, sorted.
func (idx *Index) Forms() []string {
	out := make([]string, 0, len(idx.forms))
	for f := range idx.forms {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
