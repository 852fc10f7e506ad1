// Package dictionary holds the read-only dictionary the morphology engines
// query. A Snapshot is immutable once built; Store swaps snapshots
// atomically so a query never sees a half-applied reload.
package dictionary

import (
	"errors"
	"sort"
	"strings"
	"sync/atomic"

	"kame/internal/convert"
	"kame/internal/dialect"
	"kame/internal/normalizer"
	"kame/internal/phonology"
	"kame/internal/pronoun"
	"kame/internal/rhyme"
	"kame/internal/schema"
	"kame/internal/similarity"
)

// ErrNotFound is returned by Get when no entry matches.
var ErrNotFound = errors.New("dictionary: entry not found")

var generations atomic.Uint64

// Dialects that get their own index. Combined lookups use the FN index.
var indexed = []dialect.Dialect{dialect.FN, dialect.RN}

func indexFor(d dialect.Dialect) dialect.Dialect {
	if d == dialect.RN {
		return dialect.RN
	}
	return dialect.FN
}

type index struct {
	words    map[string][]int
	loose    map[string][]int
	endings  map[string][]int
	tree     *similarity.Tree
	pronouns *pronoun.Index
}

// Snapshot is an immutable, indexed set of entries.
type Snapshot struct {
	entries    []schema.Entry
	byID       map[int]int
	indexes    map[dialect.Dialect]*index
	generation uint64
}

// NewSnapshot indexes entries. The slice is copied.
func NewSnapshot(entries []schema.Entry) *Snapshot {
	s := &Snapshot{
		entries:    make([]schema.Entry, len(entries)),
		byID:       make(map[int]int, len(entries)),
		indexes:    make(map[dialect.Dialect]*index, len(indexed)),
		generation: generations.Add(1),
	}
	for i := range entries {
		s.entries[i] = entries[i].Clone()
	}
	sort.SliceStable(s.entries, func(i, j int) bool { return s.entries[i].ID < s.entries[j].ID })
	for i, e := range s.entries {
		s.byID[e.ID] = i
	}

	for _, d := range indexed {
		idx := &index{
			words:    make(map[string][]int),
			loose:    make(map[string][]int),
			endings:  make(map[string][]int),
			tree:     similarity.New(),
			pronouns: pronoun.Build(s.entries, d),
		}
		for i := range s.entries {
			root := strings.ToLower(s.entries[i].Root(d))
			if root == "" {
				continue
			}
			idx.words[root] = append(idx.words[root], i)
			loose := normalizer.StripMarks(root)
			idx.loose[loose] = append(idx.loose[loose], i)
			if ending := rhyme.Ending(root); ending != "" {
				idx.endings[ending] = append(idx.endings[ending], i)
			}
			idx.tree.Insert(root, i)
		}
		s.indexes[d] = idx
	}
	return s
}

// Generation identifies the snapshot. Later snapshots have larger numbers.
func (s *Snapshot) Generation() uint64 {
	return s.generation
}

// Len returns the number of entries.
func (s *Snapshot) Len() int {
	return len(s.entries)
}

func (s *Snapshot) index(d dialect.Dialect) *index {
	return s.indexes[indexFor(d)]
}

func (s *Snapshot) collect(positions []int, keep func(*schema.Entry) bool) []schema.Entry {
	var out []schema.Entry
	for _, i := range positions {
		if keep == nil || keep(&s.entries[i]) {
			out = append(out, s.entries[i].Clone())
		}
	}
	return out
}

// Find returns every entry spelled stem in d, ignoring case.
func (s *Snapshot) Find(stem string, d dialect.Dialect) []schema.Entry {
	return s.collect(s.index(d).words[strings.ToLower(stem)], nil)
}

// FindLoose returns entries whose spelling matches stem once diacritics and
// apostrophes are removed, e.g. "tiralpeng" for "tìralpeng".
func (s *Snapshot) FindLoose(stem string, d dialect.Dialect) []schema.Entry {
	return s.collect(s.index(d).loose[normalizer.StripMarks(strings.ToLower(stem))], nil)
}

// Get returns the entry spelled stem with type typ.
func (s *Snapshot) Get(stem, typ string, d dialect.Dialect) (schema.Entry, error) {
	found := s.GetOfTypes(stem, []string{typ}, d)
	if len(found) == 0 {
		return schema.Entry{}, ErrNotFound
	}
	return found[0], nil
}

// GetOfTypes returns the entries spelled stem whose type is one of types.
func (s *Snapshot) GetOfTypes(stem string, types []string, d dialect.Dialect) []schema.Entry {
	return s.collect(s.index(d).words[strings.ToLower(stem)], func(e *schema.Entry) bool {
		return e.MatchesTypes(types, nil)
	})
}

// GetNotOfTypes returns the entries spelled stem whose type is not one of
// types.
func (s *Snapshot) GetNotOfTypes(stem string, types []string, d dialect.Dialect) []schema.Entry {
	return s.collect(s.index(d).words[strings.ToLower(stem)], func(e *schema.Entry) bool {
		return e.MatchesTypes(nil, types)
	})
}

// ByID returns the entry with id.
func (s *Snapshot) ByID(id int) (schema.Entry, error) {
	i, ok := s.byID[id]
	if !ok {
		return schema.Entry{}, ErrNotFound
	}
	return s.entries[i].Clone(), nil
}

// Entries returns copies of all entries ordered by ID.
func (s *Snapshot) Entries() []schema.Entry {
	out := make([]schema.Entry, len(s.entries))
	for i := range s.entries {
		out[i] = s.entries[i].Clone()
	}
	return out
}

// Words returns every distinct lower-cased headword in d, sorted.
func (s *Snapshot) Words(d dialect.Dialect) []string {
	idx := s.index(d)
	out := make([]string, 0, len(idx.words))
	for w := range idx.words {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Pronouns returns the pronoun form index for d.
func (s *Snapshot) Pronouns(d dialect.Dialect) *pronoun.Index {
	return s.index(d).pronouns
}

// Suggestion is a dictionary word close to a query.
type Suggestion struct {
	Word     string         `json:"word"`
	Distance int            `json:"distance"`
	Entries  []schema.Entry `json:"entries"`
}

// Suggest returns up to limit headwords within maxDistance edits of word,
// nearest first. A limit of 0 means no limit.
func (s *Snapshot) Suggest(word string, d dialect.Dialect, maxDistance, limit int) []Suggestion {
	matches := s.index(d).tree.Nearest(strings.ToLower(word), maxDistance, limit)
	out := make([]Suggestion, 0, len(matches))
	for _, m := range matches {
		out = append(out, Suggestion{
			Word:     m.Word,
			Distance: m.Distance,
			Entries:  s.collect(m.IDs, nil),
		})
	}
	return out
}

// RhymeGroup lists rhyming entries with the same syllable count.
type RhymeGroup struct {
	Syllables int            `json:"syllables"`
	Entries   []schema.Entry `json:"entries"`
}

// Rhymes returns the entries that rhyme with word, grouped by syllable
// count and sorted by headword within a group. word itself is excluded.
func (s *Snapshot) Rhymes(word string, d dialect.Dialect) []RhymeGroup {
	ending := rhyme.Ending(word)
	if ending == "" {
		return nil
	}

	groups := make(map[int][]schema.Entry)
	for _, i := range s.index(d).endings[ending] {
		e := &s.entries[i]
		if !rhyme.Rhymes(word, e.Root(d)) {
			continue
		}
		n := syllables(e, d)
		groups[n] = append(groups[n], e.Clone())
	}

	out := make([]RhymeGroup, 0, len(groups))
	for n, entries := range groups {
		sort.SliceStable(entries, func(i, j int) bool {
			return strings.ToLower(entries[i].Root(d)) < strings.ToLower(entries[j].Root(d))
		})
		out = append(out, RhymeGroup{Syllables: n, Entries: entries})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Syllables < out[j].Syllables })
	return out
}

// syllables counts syllables from the pronunciation when there is one.
func syllables(e *schema.Entry, d dialect.Dialect) int {
	if len(e.Pronunciation) > 0 {
		n := 0
		for _, w := range strings.Fields(e.Pronunciation[0].Syllables) {
			n += strings.Count(w, "-") + 1
		}
		return n
	}
	n := 0
	for _, w := range strings.Fields(e.Root(d)) {
		n += phonology.CountSyllables(convert.Compress(strings.ToLower(w)))
	}
	return n
}
