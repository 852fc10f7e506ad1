// Package resolver answers free-text queries: it splits the query into
// words and dictionary phrases, analyses each word with the morphology
// engines, glosses the results and suggests near matches for unknown words.
package resolver

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pterm/pterm"

	"kame/internal/adjective"
	"kame/internal/dialect"
	"kame/internal/dictionary"
	"kame/internal/gloss"
	"kame/internal/metrics"
	"kame/internal/noun"
	"kame/internal/normalizer"
	"kame/internal/numbers"
	"kame/internal/schema"
	"kame/internal/similarity"
)

// MaxPhraseWords is the longest dictionary phrase matched in a query.
const MaxPhraseWords = 4

// Options configures a Resolver.
type Options struct {
	SuggestDistance int
	MaxSuggestions  int
	// CacheSize is the number of queries kept; 0 disables the cache.
	CacheSize int
	Logger    *pterm.Logger
	Metrics   *metrics.Collector
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{SuggestDistance: 2, MaxSuggestions: 10, CacheSize: 1024}
}

// Result is one analysis of a word.
type Result struct {
	Entry   schema.Entry       `json:"entry"`
	Steps   schema.Steps       `json:"steps,omitempty"`
	Affixes []schema.AffixData `json:"affixes,omitempty"`
	Gloss   string             `json:"gloss,omitempty"`
	// Exact is set when the word is the dictionary form itself.
	Exact bool `json:"exact,omitempty"`
	// ExternalLenition is set when the word was lenited by the word
	// before it.
	ExternalLenition bool            `json:"external_lenition,omitempty"`
	Number           *numbers.Number `json:"number,omitempty"`
}

// Corrected reports whether the analysis does not reproduce the word.
func (r *Result) Corrected() bool {
	return r.Steps.Corrected()
}

// AffixCount counts the affixes and derivations in the analysis.
func (r *Result) AffixCount() int {
	n := 0
	for _, step := range r.Steps {
		switch s := step.(type) {
		case *schema.NounStep:
			n += s.Affixes.Count()
		case *schema.VerbStep:
			for _, i := range s.Infixes.Slice() {
				if i != "" {
					n++
				}
			}
		case *schema.AdjectiveStep:
			if s.Form != "" && s.Form != adjective.Predicative {
				n++
			}
		default:
			n++
		}
	}
	return n
}

func (r *Result) rank() int {
	switch {
	case r.Exact:
		return 0
	case r.Corrected():
		return 3
	case r.ExternalLenition:
		return 2
	default:
		return 1
	}
}

// Word is the analysis of one query word or dictionary phrase.
type Word struct {
	Query       string                  `json:"query"`
	Results     []Result                `json:"results"`
	Suggestions []dictionary.Suggestion `json:"suggestions,omitempty"`
}

type cacheKey struct {
	generation uint64
	dialect    dialect.Dialect
	query      string
}

// Resolver resolves queries against the current snapshot of a store. It is
// safe for concurrent use.
type Resolver struct {
	store   *dictionary.Store
	options Options
	cache   *lru.Cache[cacheKey, []Word]
}

// New creates a resolver reading from store.
func New(store *dictionary.Store, options Options) (*Resolver, error) {
	r := &Resolver{store: store, options: options}
	if options.CacheSize > 0 {
		cache, err := lru.New[cacheKey, []Word](options.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("resolver: create cache: %w", err)
		}
		r.cache = cache
	}
	return r, nil
}

// Resolve analyses every word of query in dialect d. Results are shared
// with the cache and must not be modified.
func (r *Resolver) Resolve(ctx context.Context, query string, d dialect.Dialect) ([]Word, error) {
	var words []Word
	err := r.options.Metrics.Time(metrics.StageResolve, func() error {
		var err error
		words, err = r.resolve(ctx, query, d)
		return err
	})
	return words, err
}

func (r *Resolver) resolve(ctx context.Context, query string, d dialect.Dialect) ([]Word, error) {
	snap := r.store.Load()
	tokens := tokenize(query)
	key := cacheKey{generation: snap.Generation(), dialect: d, query: strings.Join(tokens, " ")}
	r.options.Metrics.Add(metrics.StageResolve, metrics.CounterQueries, 1)

	if r.cache != nil {
		if words, ok := r.cache.Get(key); ok {
			r.options.Metrics.Add(metrics.StageResolve, metrics.CounterCacheHits, 1)
			return words, nil
		}
	}

	var words []Word
	for i := 0; i < len(tokens); {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if phrase, n := r.phrase(snap, tokens[i:], d); n > 0 {
			words = append(words, phrase)
			i += n
			continue
		}

		lenited := i > 0 && r.lenites(snap, tokens[i-1], d)
		words = append(words, r.analyse(snap, tokens[i], d, lenited))
		i++
	}

	if r.options.Logger != nil {
		r.options.Logger.Debug("query resolved", r.options.Logger.Args(
			"query", query,
			"dialect", d,
			"words", len(words),
		))
	}
	if r.cache != nil {
		r.cache.Add(key, words)
	}
	return words, nil
}

// tokenize splits a query into normalized words with surrounding
// punctuation removed.
func tokenize(query string) []string {
	var out []string
	for _, w := range normalizer.Words(query) {
		w = strings.TrimFunc(w, func(r rune) bool {
			return r != '\'' && r != '-' && (unicode.IsPunct(r) || unicode.IsSymbol(r))
		})
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

// phrase matches the longest dictionary phrase at the start of tokens and
// returns it with the number of words it spans.
func (r *Resolver) phrase(snap *dictionary.Snapshot, tokens []string, d dialect.Dialect) (Word, int) {
	for n := min(MaxPhraseWords, len(tokens)); n >= 2; n-- {
		text := strings.Join(tokens[:n], " ")
		entries := snap.Find(text, d)
		if len(entries) == 0 {
			continue
		}
		w := Word{Query: text}
		for _, e := range entries {
			res := Result{Entry: e, Exact: true, Gloss: e.Translation("en")}
			w.Results = append(w.Results, res)
		}
		r.options.Metrics.Add(metrics.StageResolve, metrics.CounterResults, int64(len(w.Results)))
		return w, n
	}
	return Word{}, 0
}

// lenites reports whether prev lenites the word after it.
func (r *Resolver) lenites(snap *dictionary.Snapshot, prev string, d dialect.Dialect) bool {
	if noun.IsLenitingAdposition(strings.ToLower(prev)) {
		return true
	}
	return len(snap.GetOfTypes(prev, []string{schema.TypeLenitingAdp}, d)) > 0
}

// Analyse returns every analysis of a single word, best first. With
// lenited, the word is also read as externally lenited.
func (r *Resolver) Analyse(word string, d dialect.Dialect, lenited bool) []Result {
	return r.analyse(r.store.Load(), word, d, lenited).Results
}

func (r *Resolver) analyse(snap *dictionary.Snapshot, word string, d dialect.Dialect, lenited bool) Word {
	a := newAnalysis(snap, d)
	a.word(word)
	if lenited {
		a.external = true
		for _, u := range unlenited(word) {
			a.word(u)
		}
	}

	results := a.results
	for i := range results {
		res := &results[i]
		translation := res.Entry.Translation("en")
		res.Gloss = translation
		if len(res.Steps) > 0 {
			res.Affixes = gloss.Assemble(res.Steps, translation, snap, d)
			res.Gloss = res.Steps[len(res.Steps)-1].Base().Translation
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		ri, rj := results[i].rank(), results[j].rank()
		if ri != rj {
			return ri < rj
		}
		ci, cj := results[i].AffixCount(), results[j].AffixCount()
		if ci != cj {
			return ci < cj
		}
		return results[i].Entry.ID < results[j].Entry.ID
	})

	w := Word{Query: word, Results: results}
	r.options.Metrics.Add(metrics.StageResolve, metrics.CounterResults, int64(len(results)))
	for i := range results {
		if results[i].Corrected() {
			r.options.Metrics.Add(metrics.StageResolve, metrics.CounterCorrected, 1)
		}
	}

	if len(results) == 0 {
		w.Suggestions = r.suggest(snap, word, d)
		r.options.Metrics.Add(metrics.StageResolve, metrics.CounterSuggestions, int64(len(w.Suggestions)))
	}
	return w
}

// suggest lists dictionary words close to word: spellings that differ only
// in diacritics first, then the nearest words by edit distance.
func (r *Resolver) suggest(snap *dictionary.Snapshot, word string, d dialect.Dialect) []dictionary.Suggestion {
	if !normalizer.IsValidNavi(strings.ToLower(word)) {
		return nil
	}

	var out []dictionary.Suggestion
	seen := make(map[string]int)
	for _, e := range snap.FindLoose(word, d) {
		root := strings.ToLower(e.Root(d))
		if i, ok := seen[root]; ok {
			out[i].Entries = append(out[i].Entries, e)
			continue
		}
		seen[root] = len(out)
		out = append(out, dictionary.Suggestion{
			Word:     root,
			Distance: similarity.Distance(strings.ToLower(word), root),
			Entries:  []schema.Entry{e},
		})
	}

	for _, s := range snap.Suggest(word, d, r.options.SuggestDistance, r.options.MaxSuggestions) {
		if _, ok := seen[s.Word]; ok {
			continue
		}
		seen[s.Word] = len(out)
		out = append(out, s)
	}

	if r.options.MaxSuggestions > 0 && len(out) > r.options.MaxSuggestions {
		out = out[:r.options.MaxSuggestions]
	}
	return out
}

// Purge empties the result cache.
func (r *Resolver) Purge() {
	if r.cache != nil {
		r.cache.Purge()
	}
}
