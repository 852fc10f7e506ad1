// Package schema defines dictionary entry and analysis data structures for kame.
package schema

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"kame/internal/dialect"
)

// Word classes used in Entry.Type.
const (
	TypeNoun         = "n"
	TypeProperNoun   = "n:pr"
	TypePronoun      = "pn"
	TypeContraction  = "ctr"
	TypeAdjective    = "adj"
	TypeAdverb       = "adv"
	TypeAdposition   = "adp"
	TypeLenitingAdp  = "adp:len"
	TypeNumber       = "num"
	TypePrefix       = "aff:pre"
	TypeInfix        = "aff:in"
	TypeSuffix       = "aff:suf"
	TypeLenitingPre  = "aff:pre:len"
	TypePhrase       = "phr"
	TypeIntransitive = "v:in"
	TypeTransitive   = "v:tr"
	TypeModal        = "v:m"
	TypeSiVerb       = "v:si"
	TypeCopula       = "v:cp"
	TypeParticle     = "ptc"
	TypeConjunction  = "conj"
	TypeInterjection = "intj"
	TypeQuestionWord = "inter"
)

var (
	NounTypes      = []string{TypeNoun, TypeProperNoun}
	PronounTypes   = []string{TypePronoun, TypeContraction}
	AdjectiveTypes = []string{TypeAdjective}
	AffixTypes     = []string{TypePrefix, TypeInfix, TypeSuffix, TypeLenitingPre}
)

// Status flags.
const (
	StatusLoan        = "loan"
	StatusUnconfirmed = "unconfirmed"
	StatusUnofficial  = "unofficial"
)

// IsVerbType reports whether t is one of the verb classes.
func IsVerbType(t string) bool {
	return strings.HasPrefix(t, "v:")
}

// Pronunciation is a syllabified spelling with its stressed syllable
// (1-based; 0 for unstressed words). In a multi-word pronunciation Stressed
// counts the syllables of all words, so in "oel nga-yi" syllable 2 is nga.
// Monosyllabic words are never marked.
type Pronunciation struct {
	Syllables string `json:"syllables" yaml:"syllables"`
	Stressed  int    `json:"stressed" yaml:"stressed"`
}

// Shared returns the syllables in the shared dialect notation,
// e.g. "tì-[ral]-peng".
func (p Pronunciation) Shared() string {
	words := strings.Fields(p.Syllables)
	offset := 0
	for i, w := range words {
		syllables := strings.Split(w, "-")
		for j := range syllables {
			if offset+j+1 == p.Stressed && len(syllables) > 1 {
				syllables[j] = "[" + syllables[j] + "]"
			}
		}
		offset += len(syllables)
		words[i] = strings.Join(syllables, "-")
	}
	return strings.Join(words, " ")
}

// Table is a precomputed conjugation table for one dialect.
type Table struct {
	// Noun is indexed by plural (none, dual, trial, plural) then case
	// (none, l, t, r, ä, ri), in simple format.
	Noun [][]string `json:"noun,omitempty" yaml:"noun,omitempty"`
	// Adjective maps an adjective form to its conjugation string.
	Adjective map[string]string `json:"adjective,omitempty" yaml:"adjective,omitempty"`
}

func (t *Table) clone() *Table {
	if t == nil {
		return nil
	}
	c := &Table{}
	if t.Noun != nil {
		c.Noun = make([][]string, len(t.Noun))
		for i, row := range t.Noun {
			c.Noun[i] = slices.Clone(row)
		}
	}
	if t.Adjective != nil {
		c.Adjective = make(map[string]string, len(t.Adjective))
		for k, v := range t.Adjective {
			c.Adjective[k] = v
		}
	}
	return c
}

// Entry is one dictionary word.
type Entry struct {
	ID            int                        `json:"id" yaml:"id"`
	Word          map[dialect.Dialect]string `json:"word" yaml:"word"`
	Type          string                     `json:"type" yaml:"type"`
	Translations  []map[string]string        `json:"translations" yaml:"translations"`
	Pronunciation []Pronunciation            `json:"pronunciation,omitempty" yaml:"pronunciation,omitempty"`
	Infixes       string                     `json:"infixes,omitempty" yaml:"infixes,omitempty"`
	Status        string                     `json:"status,omitempty" yaml:"status,omitempty"`
	Etymology     string                     `json:"etymology,omitempty" yaml:"etymology,omitempty"`
	Conjugated    map[dialect.Dialect]*Table `json:"conjugated,omitempty" yaml:"conjugated,omitempty"`
	Source        string                     `json:"source,omitempty" yaml:"source,omitempty"`
}

// Clone returns a deep copy of e.
func (e *Entry) Clone() Entry {
	c := *e
	if e.Word != nil {
		c.Word = make(map[dialect.Dialect]string, len(e.Word))
		for k, v := range e.Word {
			c.Word[k] = v
		}
	}
	if e.Translations != nil {
		c.Translations = make([]map[string]string, len(e.Translations))
		for i, t := range e.Translations {
			m := make(map[string]string, len(t))
			for k, v := range t {
				m[k] = v
			}
			c.Translations[i] = m
		}
	}
	c.Pronunciation = slices.Clone(e.Pronunciation)
	if e.Conjugated != nil {
		c.Conjugated = make(map[dialect.Dialect]*Table, len(e.Conjugated))
		for k, v := range e.Conjugated {
			c.Conjugated[k] = v.clone()
		}
	}
	return c
}

// Shared returns the headword in shared notation. The first pronunciation is
// used when it spells the headword.
func (e *Entry) Shared() string {
	combined := e.Word[dialect.Combined]
	if len(e.Pronunciation) > 0 {
		p := e.Pronunciation[0]
		if strings.EqualFold(dialect.Raw(p.Syllables), combined) {
			return p.Shared()
		}
	}
	return combined
}

// Root returns the raw headword in dialect d.
func (e *Entry) Root(d dialect.Dialect) string {
	if w := e.Word[d]; w != "" {
		return w
	}
	return dialect.Word(e.Shared(), d)
}

// InfixStem returns the dotted verb stem in dialect d, or "" for words
// without infix positions.
func (e *Entry) InfixStem(d dialect.Dialect) string {
	if e.Infixes == "" {
		return ""
	}
	if d == dialect.RN {
		return dialect.ToRN(e.Infixes)
	}
	return dialect.ToFN(e.Infixes)
}

// IsLoanword reports whether the entry is a loanword.
func (e *Entry) IsLoanword() bool {
	return e.Status == StatusLoan
}

// Translation returns the translation in lang, falling back to English.
func (e *Entry) Translation(lang string) string {
	if len(e.Translations) == 0 {
		return ""
	}
	parts := make([]string, 0, len(e.Translations))
	for _, t := range e.Translations {
		if s, ok := t[lang]; ok {
			parts = append(parts, s)
		} else if s, ok := t["en"]; ok {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "; ")
}

// MatchesTypes checks if the entry's type is in include (when non-empty)
// and not in exclude.
func (e *Entry) MatchesTypes(include, exclude []string) bool {
	if len(include) > 0 && !slices.Contains(include, e.Type) {
		return false
	}
	return !slices.Contains(exclude, e.Type)
}

// Dictionary is a collection of entries with metadata.
type Dictionary struct {
	Name        string          `json:"name"`
	Entries     map[int]*Entry  `json:"-"` // ID -> Entry
	GeneratedAt string          `json:"generated_at"`
	Sources     map[string]bool `json:"-"`
}

// NewDictionary creates a new Dictionary.
func NewDictionary(name string) *Dictionary {
	return &Dictionary{
		Name:        name,
		Entries:     make(map[int]*Entry),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Sources:     make(map[string]bool),
	}
}

// AddEntry adds an entry, replacing any entry with the same ID.
func (d *Dictionary) AddEntry(entry *Entry) {
	d.Entries[entry.ID] = entry
	if entry.Source != "" {
		d.Sources[entry.Source] = true
	}
}

// Count returns entry count.
func (d *Dictionary) Count() int {
	return len(d.Entries)
}

// GetEntriesSorted returns entries ordered by ID.
func (d *Dictionary) GetEntriesSorted() []*Entry {
	entries := make([]*Entry, 0, len(d.Entries))
	for _, e := range d.Entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ID < entries[j].ID
	})
	return entries
}

// MarshalJSON implements custom JSON marshaling.
func (d *Dictionary) MarshalJSON() ([]byte, error) {
	sources := make([]string, 0, len(d.Sources))
	for k := range d.Sources {
		sources = append(sources, k)
	}
	sort.Strings(sources)

	return json.Marshal(&struct {
		Name        string   `json:"name"`
		GeneratedAt string   `json:"generated_at"`
		Sources     []string `json:"sources"`
		EntryCount  int      `json:"entry_count"`
		Words       []*Entry `json:"words"`
	}{
		Name:        d.Name,
		GeneratedAt: d.GeneratedAt,
		Sources:     sources,
		EntryCount:  d.Count(),
		Words:       d.GetEntriesSorted(),
	})
}

// Save saves dictionary to JSON file.
func (d *Dictionary) Save(filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(d)
}
