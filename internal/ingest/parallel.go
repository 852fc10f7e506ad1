package ingest

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"kame/internal/schema"
)

// SourceResult holds the result for a single dictionary file.
type SourceResult struct {
	Path   string
	Result *Result
}

// ProgressCallback is called when a source finishes loading.
type ProgressCallback func(result *SourceResult)

// LoadAll loads several dictionary files, at most workers at a time, and
// merges them in order: an entry in a later file replaces the entry with
// the same ID from an earlier one. The first failing file cancels the rest.
func LoadAll(ctx context.Context, paths []string, workers int, config Config, callback ProgressCallback) (*schema.Dictionary, []*SourceResult, error) {
	results := make([]*SourceResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := Load(p, config)
			if err != nil {
				return err
			}
			results[i] = &SourceResult{Path: p, Result: r}
			if callback != nil {
				callback(results[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("loading dictionaries: %w", err)
	}

	dict := schema.NewDictionary("kame")
	for _, r := range results {
		for i := range r.Result.Entries {
			dict.AddEntry(&r.Result.Entries[i])
		}
	}
	return dict, results, nil
}

// Stats holds aggregate statistics over several sources.
type Stats struct {
	Sources         int
	TotalRaw        int
	TotalValid      int
	TotalDuplicates int
	TotalErrors     int
}

// AggregateResults computes statistics from loaded sources.
func AggregateResults(results []*SourceResult) *Stats {
	stats := &Stats{Sources: len(results)}
	for _, r := range results {
		if r == nil || r.Result == nil {
			continue
		}
		stats.TotalRaw += r.Result.TotalRaw
		stats.TotalValid += r.Result.TotalValid
		stats.TotalDuplicates += r.Result.TotalDuplicates
		stats.TotalErrors += len(r.Result.Errors)
	}
	return stats
}
