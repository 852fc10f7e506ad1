package builder

import (
	"context"

	"golang.org/x/sync/errgroup"

	"kame/internal/schema"
)

// MaxWorkers caps the number of table builders.
const MaxWorkers = 8

// buildResult records what happened to one entry.
type buildResult struct {
	class string
	built bool
	kept  bool
}

// BuildTables fills the missing conjugation tables of entries in place.
// Entries that already carry a table for a dialect, such as irregular
// pronouns, keep it. Up to workers entries are processed at a time
// (<= 1 = sequential).
func BuildTables(ctx context.Context, entries []schema.Entry, workers int) (*BuildStats, error) {
	results := make([]buildResult, len(entries))

	if workers <= 1 {
		for i := range entries {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = build(&entries[i])
		}
	} else {
		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(min(workers, MaxWorkers))
		for i := range entries {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				results[i] = build(&entries[i])
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	stats := NewBuildStats()
	stats.TotalEntries = len(entries)
	for _, r := range results {
		if r.class == "" {
			continue
		}
		stats.ByClass[r.class]++
		if r.built {
			stats.Built++
		}
		if r.kept {
			stats.Kept++
		}
	}
	return stats, nil
}

func build(e *schema.Entry) buildResult {
	class := ClassOf(e)
	if class == "" {
		return buildResult{}
	}
	built, kept := fill(e)
	return buildResult{class: class, built: built, kept: kept}
}
