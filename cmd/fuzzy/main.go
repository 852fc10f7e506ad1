// kame-fuzzy - Nearest dictionary words using a BK-tree.
// Usage: kame-fuzzy [options] <query>
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"kame/internal/config"
	"kame/internal/dialect"
	"kame/internal/dictionary"
	"kame/internal/ingest"
	"kame/internal/normalizer"
	"kame/internal/schema"
)

// match is one suggested word in the output.
type match struct {
	Word         string   `json:"word"`
	Distance     int      `json:"distance"`
	Types        []string `json:"types"`
	Translations []string `json:"translations"`
}

func main() {
	// Flags
	sources := pflag.StringSliceP("dict", "D", config.DefaultSources(), "Dictionary files")
	dialectName := pflag.StringP("dialect", "d", string(config.DefaultDialect()), "Dialect: "+config.DialectsStr())
	maxDistance := pflag.IntP("distance", "n", config.DefaultSuggestDistance(), "Maximum edit distance")
	limit := pflag.IntP("limit", "l", config.DefaultMaxSuggestions(), "Maximum results to show")
	jsonOutput := pflag.BoolP("json", "j", false, "Output as JSON")
	wordType := pflag.StringP("type", "t", "", "Filter by word type (e.g., 'n', 'v:tr')")

	pflag.Parse()

	if pflag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: kame-fuzzy [options] <query>")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		pflag.PrintDefaults()
		os.Exit(1)
	}

	query := strings.ToLower(normalizer.Normalize(strings.Join(pflag.Args(), " ")))
	d := dialect.Parse(*dialectName)

	// Load dictionaries
	dict, _, err := ingest.LoadAll(context.Background(), *sources, config.DefaultWorkers(), ingest.DefaultConfig(), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if dict.Count() == 0 {
		fmt.Fprintln(os.Stderr, "No words found in dictionary")
		os.Exit(1)
	}
	entries := make([]schema.Entry, 0, dict.Count())
	for _, e := range dict.GetEntriesSorted() {
		entries = append(entries, *e)
	}
	snap := dictionary.NewSnapshot(entries)

	// Search without a limit so the type filter does not starve the results
	var results []match
	for _, s := range snap.Suggest(query, d, *maxDistance, 0) {
		m := match{Word: s.Word, Distance: s.Distance}
		for _, e := range s.Entries {
			if *wordType != "" && e.Type != *wordType {
				continue
			}
			m.Types = append(m.Types, e.Type)
			m.Translations = append(m.Translations, e.Translation("en"))
		}
		if len(m.Types) == 0 {
			continue
		}
		results = append(results, m)
		if *limit > 0 && len(results) == *limit {
			break
		}
	}

	// Output
	if *jsonOutput {
		output := struct {
			Query   string  `json:"query"`
			Dialect string  `json:"dialect"`
			MaxDist int     `json:"max_distance"`
			Count   int     `json:"count"`
			Results []match `json:"results"`
		}{
			Query:   query,
			Dialect: string(d),
			MaxDist: *maxDistance,
			Count:   len(results),
			Results: results,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(output); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if len(results) == 0 {
		fmt.Printf("No matches found for %q within distance %d\n", query, *maxDistance)
		return
	}

	fmt.Printf("Nearest words to %q (max distance: %d):\n\n", query, *maxDistance)
	for _, r := range results {
		fmt.Printf("  %s (distance: %d) %s\n", r.Word, r.Distance, describe(r))
	}
	fmt.Printf("\n%d result(s) found\n", len(results))
}

// describe renders the types and translations of a match.
func describe(m match) string {
	parts := make([]string, len(m.Types))
	for i := range m.Types {
		parts[i] = fmt.Sprintf("[%s] %s", m.Types[i], m.Translations[i])
	}
	return strings.Join(parts, "; ")
}
