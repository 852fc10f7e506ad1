// kame-tables - Build conjugation tables and export them.
// Usage: kame-tables [options]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/pflag"

	"kame/internal/builder"
	"kame/internal/config"
	"kame/internal/ingest"
	"kame/internal/metrics"
	"kame/internal/schema"
	"kame/internal/ui"
)

func main() {
	sources := pflag.StringSliceP("dict", "D", config.DefaultSources(), "Dictionary files, later files override earlier ones")
	outputDir := pflag.StringP("output-dir", "o", config.DefaultOutputDir(), "Output directory")
	workers := pflag.IntP("workers", "w", config.Load().Defaults.Workers, "Number of parallel workers (0 = auto)")
	writeJSON := pflag.Bool("json", true, "Write one JSON file per word class")
	writeCSV := pflag.Bool("csv", true, "Write tables.csv")
	quiet := pflag.BoolP("quiet", "q", false, "Suppress progress output")
	verbose := pflag.BoolP("verbose", "v", false, "Verbose logging")
	writeMetrics := pflag.Bool("metrics", config.DefaultMetrics(), "Write metrics to output directory")
	pflag.Parse()

	n := config.Workers(*workers)
	term := ui.New(*quiet, *verbose)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	collector := metrics.NewCollector()
	collector.SetConfig("sources", *sources)
	collector.SetConfig("workers", n)

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		term.Error(fmt.Sprintf("Error creating output dir: %v", err))
		os.Exit(1)
	}

	// Phase 1: load
	term.Phase(1, 2, "Loading dictionaries")
	var entries []schema.Entry
	err := collector.Time(metrics.StageLoad, func() error {
		dict, results, err := ingest.LoadAll(ctx, *sources, n, ingest.DefaultConfig(), nil)
		if err != nil {
			return err
		}
		for _, r := range results {
			term.SourceStatus(r.Result.Format, "ok", fmt.Sprintf("%s: %d entries", r.Path, r.Result.TotalValid))
		}
		for _, e := range dict.GetEntriesSorted() {
			entries = append(entries, *e)
		}
		collector.Add(metrics.StageLoad, metrics.CounterEntries, int64(len(entries)))
		return nil
	})
	if err != nil {
		term.Error(err.Error())
		os.Exit(1)
	}

	// Phase 2: build and write
	term.Phase(2, 2, "Building conjugation tables")
	spinner := term.Spinner(fmt.Sprintf("Building tables with %d workers...", n))
	var stats *builder.BuildStats
	err = collector.Time(metrics.StageTables, func() error {
		var err error
		stats, err = builder.BuildTables(ctx, entries, n)
		if err != nil {
			return err
		}
		if *writeJSON {
			if err := builder.WriteTables(*outputDir, entries, stats); err != nil {
				return err
			}
		}
		if *writeCSV {
			path, err := writeCSVFile(*outputDir, entries)
			if err != nil {
				return err
			}
			stats.FilesWritten = append(stats.FilesWritten, path)
		}
		return nil
	})
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		term.Error(err.Error())
		os.Exit(1)
	}
	collector.Add(metrics.StageTables, metrics.CounterEntries, int64(stats.Built))

	term.ClassStats(stats.ByClass)
	term.Info(fmt.Sprintf("Built %d tables, kept %d, %d files", stats.Built, stats.Kept, len(stats.FilesWritten)))
	for _, f := range stats.FilesWritten {
		term.Debug(f)
	}

	if *writeMetrics {
		reporter, err := metrics.NewReporter(*outputDir)
		if err == nil {
			err = reporter.Write(collector.Finalize())
		}
		if err != nil {
			term.Warning(fmt.Sprintf("Failed to write metrics: %v", err))
		}
	}

	term.Success(fmt.Sprintf("Output: %s", *outputDir))
	term.Done()
}

func writeCSVFile(outputDir string, entries []schema.Entry) (string, error) {
	path := filepath.Join(outputDir, "tables.csv")
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := builder.WriteCSV(file, entries); err != nil {
		file.Close()
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, file.Close()
}
