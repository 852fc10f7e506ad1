package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"kame/internal/builder"
	"kame/internal/dialect"
	"kame/internal/dictionary"
	"kame/internal/ipa"
	"kame/internal/metrics"
	"kame/internal/noun"
	"kame/internal/resolver"
	"kame/internal/schema"
	"kame/internal/ui"
	"kame/internal/verb"
)

// verbForms are the infixes shown by --conjugate for verbs.
var verbForms = []struct {
	label   string
	infixes verb.Infixes
}{
	{"present", verb.Infixes{}},
	{"past <am>", verb.Infixes{First: "am"}},
	{"future <ay>", verb.Infixes{First: "ay"}},
	{"perfective <ol>", verb.Infixes{First: "ol"}},
	{"imperfective <er>", verb.Infixes{First: "er"}},
	{"subjunctive <iv>", verb.Infixes{First: "iv"}},
	{"active participle <us>", verb.Infixes{First: "us"}},
	{"passive participle <awn>", verb.Infixes{First: "awn"}},
	{"causative <eyk>", verb.Infixes{Prefirst: "eyk"}},
	{"reflexive <äp>", verb.Infixes{Prefirst: "äp"}},
	{"positive <ei>", verb.Infixes{Second: "ei"}},
	{"negative <äng>", verb.Infixes{Second: "äng"}},
}

// conjugation is the JSON form of --conjugate.
type conjugation struct {
	Stem    string            `json:"stem"`
	Type    string            `json:"type"`
	Dialect dialect.Dialect   `json:"dialect"`
	Gloss   string            `json:"gloss,omitempty"`
	Noun    [][]string        `json:"noun,omitempty"`
	Forms   map[string]string `json:"forms,omitempty"`
}

// conjugations builds the tables for stem: one per dictionary entry, or a
// noun (verb for dotted stems) table when the dictionary lacks the word.
func conjugations(snap *dictionary.Snapshot, stem string, d dialect.Dialect) []conjugation {
	var out []conjugation
	for _, e := range snap.Find(strings.ReplaceAll(stem, ".", ""), d) {
		c := conjugation{Stem: e.Root(d), Type: e.Type, Dialect: d, Gloss: e.Translation("en")}
		switch {
		case schema.IsVerbType(e.Type) && e.Infixes != "":
			c.Forms = verbTable(e.InfixStem(d))
		default:
			t := builder.TableFor(&e, d)
			if t == nil {
				continue
			}
			c.Noun = t.Noun
			if len(t.Adjective) > 0 {
				c.Forms = t.Adjective
			}
		}
		out = append(out, c)
	}
	if len(out) > 0 {
		return out
	}

	if strings.Contains(stem, ".") {
		return []conjugation{{Stem: stem, Type: schema.TypeIntransitive, Dialect: d, Forms: verbTable(stem)}}
	}
	return []conjugation{{Stem: stem, Type: schema.TypeNoun, Dialect: d, Noun: noun.Table(stem, d, false)}}
}

func verbTable(stem string) map[string]string {
	forms := make(map[string]string, len(verbForms))
	for _, f := range verbForms {
		forms[f.label] = verb.Conjugate(stem, f.infixes)
	}
	return forms
}

func conjugate(snap *dictionary.Snapshot, stem string, opts options, term *ui.UI) error {
	tables := conjugations(snap, stem, opts.dialect)
	if opts.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(tables)
	}

	for _, c := range tables {
		title := fmt.Sprintf("%s (%s)", c.Stem, c.Type)
		if c.Gloss != "" {
			title += " " + c.Gloss
		}
		if len(c.Noun) > 0 {
			term.NounTable(title, noun.Plurals, noun.Cases, c.Noun)
		}
		if len(c.Forms) > 0 {
			term.Forms(title, c.Forms)
		}
	}
	return nil
}

// analysis is the JSON form of one analysed query word.
type analysis struct {
	resolver.Word
	IPA    map[int][]string        `json:"ipa,omitempty"`
	Rhymes []dictionary.RhymeGroup `json:"rhymes,omitempty"`
}

func analyse(ctx context.Context, r *resolver.Resolver, snap *dictionary.Snapshot, query string, opts options, term *ui.UI) error {
	words, err := r.Resolve(ctx, query, opts.dialect)
	if err != nil {
		return err
	}

	out := make([]analysis, len(words))
	for i, w := range words {
		out[i].Word = w
		if opts.ipa {
			out[i].IPA = transcriptions(w, opts.dialect)
		}
		if opts.rhymes {
			out[i].Rhymes = snap.Rhymes(w.Query, opts.dialect)
		}
	}

	if opts.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	for _, a := range out {
		term.Word(a.Word, opts.limit)
		if opts.ipa {
			term.Pronunciations(ipaRows(a))
		}
		if opts.rhymes {
			term.Rhymes(a.Query, a.Rhymes, func(e schema.Entry) string { return e.Root(opts.dialect) })
		}
	}
	return nil
}

// transcriptions maps entry IDs to the IPA of their pronunciations.
func transcriptions(w resolver.Word, d dialect.Dialect) map[int][]string {
	out := make(map[int][]string)
	for _, res := range w.Results {
		e := res.Entry
		if _, ok := out[e.ID]; ok || len(e.Pronunciation) == 0 {
			continue
		}
		for _, p := range e.Pronunciation {
			out[e.ID] = append(out[e.ID], ipa.Generate(p, e.Type, d))
		}
	}
	return out
}

func ipaRows(a analysis) [][]string {
	var rows [][]string
	seen := make(map[int]bool)
	for _, res := range a.Results {
		if seen[res.Entry.ID] {
			continue
		}
		seen[res.Entry.ID] = true
		if t := a.IPA[res.Entry.ID]; len(t) > 0 {
			rows = append(rows, []string{ui.Analysis(&res), strings.Join(t, " or ")})
		}
	}
	return rows
}

// benchmarkReport is printed as JSON in benchmark mode.
type benchmarkReport struct {
	RunID      string  `json:"run_id"`
	DurationMs int64   `json:"duration_ms"`
	Throughput float64 `json:"throughput"`
	Entries    int     `json:"entries"`
	Queries    int64   `json:"queries"`
	Results    int64   `json:"results"`
	CacheHits  int64   `json:"cache_hits"`
	Workers    int     `json:"workers"`
	CacheSize  int     `json:"cache_size"`
	Iterations int     `json:"iterations"`
}

// benchmarkWords reads the word list, one query per line, or falls back to
// the command line arguments.
func benchmarkWords(path string, args []string) ([]string, error) {
	if path == "" {
		return args, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading word list: %w", err)
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading word list: %w", err)
	}
	return words, nil
}

// runBenchmark resolves every word iterations times, workers at a time.
func runBenchmark(ctx context.Context, r *resolver.Resolver, words []string, opts options, collector *metrics.Collector) (*benchmarkReport, error) {
	iterations := max(opts.iterations, 1)
	start := time.Now()
	for range iterations {
		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.workers)
		for _, w := range words {
			g.Go(func() error {
				_, err := r.Resolve(ctx, w, opts.dialect)
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}
	elapsed := time.Since(start)

	runMetrics := collector.Finalize()
	return &benchmarkReport{
		RunID:      runMetrics.RunID,
		DurationMs: elapsed.Milliseconds(),
		Throughput: runMetrics.Totals.Throughput,
		Queries:    collector.Counter(metrics.StageResolve, metrics.CounterQueries),
		Results:    collector.Counter(metrics.StageResolve, metrics.CounterResults),
		CacheHits:  collector.Counter(metrics.StageResolve, metrics.CounterCacheHits),
		Workers:    opts.workers,
		CacheSize:  opts.cacheSize,
		Iterations: iterations,
	}, nil
}
