// kame CLI - Na'vi morphology.
// Usage: kame [options] <query...>
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/pterm/pterm"
	"github.com/spf13/pflag"

	"kame/internal/config"
	"kame/internal/dialect"
	"kame/internal/dictionary"
	"kame/internal/ingest"
	"kame/internal/metrics"
	"kame/internal/resolver"
	"kame/internal/schema"
	"kame/internal/ui"
)

// options holds the parsed command line.
type options struct {
	dialect    dialect.Dialect
	sources    []string
	url        string
	force      bool
	conjugate  string
	ipa        bool
	rhymes     bool
	json       bool
	limit      int
	quiet      bool
	verbose    bool
	metrics    bool
	outputDir  string
	benchmark  bool
	wordList   string
	iterations int
	workers    int
	cacheSize  int
}

func main() {
	opts := options{}
	dialectName := pflag.StringP("dialect", "d", string(config.DefaultDialect()), "Dialect: "+config.DialectsStr())
	pflag.StringSliceVar(&opts.sources, "dict", config.DefaultSources(), "Dictionary files, later files override earlier ones")
	pflag.StringVar(&opts.url, "url", config.DefaultDictionaryURL(), "Remote dictionary to download before loading")
	pflag.BoolVarP(&opts.force, "force", "f", false, "Force re-download of the remote dictionary")
	pflag.StringVarP(&opts.conjugate, "conjugate", "c", "", "Print the conjugation table of a stem")
	pflag.BoolVarP(&opts.ipa, "ipa", "i", false, "Print the IPA of every analysed entry")
	pflag.BoolVarP(&opts.rhymes, "rhymes", "r", false, "Print the words rhyming with each query word")
	pflag.BoolVarP(&opts.json, "json", "j", false, "Output as JSON")
	pflag.IntVarP(&opts.limit, "limit", "l", 0, "Analyses shown per word (0 = all)")
	pflag.BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress progress output")
	pflag.BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose logging")
	pflag.BoolVar(&opts.metrics, "metrics", config.DefaultMetrics(), "Write metrics to the output directory")
	pflag.StringVarP(&opts.outputDir, "output-dir", "o", config.DefaultOutputDir(), "Output directory for metrics")
	pflag.BoolVar(&opts.benchmark, "benchmark", false, "Run in benchmark mode (JSON output only)")
	pflag.StringVar(&opts.wordList, "words", "", "Word list for benchmark mode, one query per line")
	pflag.IntVar(&opts.iterations, "iterations", 1, "Passes over the word list in benchmark mode")
	pflag.IntVarP(&opts.workers, "workers", "w", config.Load().Defaults.Workers, "Number of parallel workers (0 = auto)")
	pflag.IntVar(&opts.cacheSize, "cache-size", config.DefaultCacheSize(), "Resolver cache entries (0 = off)")
	pflag.Parse()

	opts.dialect = dialect.Parse(*dialectName)
	opts.workers = config.Workers(opts.workers)

	if err := run(opts, pflag.Args()); err != nil {
		if opts.benchmark || opts.json {
			fmt.Fprintln(os.Stderr, "Error:", err)
		} else {
			pterm.Error.Println(err)
		}
		os.Exit(1)
	}
}

func run(opts options, args []string) error {
	if opts.conjugate == "" && len(args) == 0 && !(opts.benchmark && opts.wordList != "") {
		fmt.Fprintln(os.Stderr, "Usage: kame [options] <query...>")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		pflag.PrintDefaults()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	silent := opts.quiet || opts.benchmark || opts.json
	term := ui.New(silent, opts.verbose)

	level := config.DefaultLogLevel()
	switch {
	case opts.verbose:
		level = "debug"
	case silent:
		level = "error"
	}
	logger := ui.NewLogger(level, config.DefaultLogJSON())

	collector := metrics.NewCollector()
	collector.SetConfig("dialect", string(opts.dialect))
	collector.SetConfig("sources", opts.sources)
	collector.SetConfig("workers", opts.workers)
	collector.SetConfig("cache_size", opts.cacheSize)

	if !silent {
		term.Banner()
		term.Config(string(opts.dialect), opts.sources, opts.workers)
	}

	store, err := open(ctx, opts, term, logger, collector)
	if err != nil {
		return err
	}

	r, err := resolver.New(store, resolver.Options{
		SuggestDistance: config.DefaultSuggestDistance(),
		MaxSuggestions:  config.DefaultMaxSuggestions(),
		CacheSize:       opts.cacheSize,
		Logger:          logger,
		Metrics:         collector,
	})
	if err != nil {
		return err
	}

	switch {
	case opts.benchmark:
		words, err := benchmarkWords(opts.wordList, args)
		if err != nil {
			return err
		}
		report, err := runBenchmark(ctx, r, words, opts, collector)
		if err != nil {
			return err
		}
		report.Entries = store.Load().Len()
		writeMetrics(opts, collector, term, true)
		return json.NewEncoder(os.Stdout).Encode(report)
	case opts.conjugate != "":
		if err := conjugate(store.Load(), opts.conjugate, opts, term); err != nil {
			return err
		}
	default:
		if err := analyse(ctx, r, store.Load(), strings.Join(args, " "), opts, term); err != nil {
			return err
		}
	}

	if opts.metrics {
		writeMetrics(opts, collector, term, false)
	}
	if !silent {
		term.FinalReport(
			store.Load().Len(),
			int(collector.Counter(metrics.StageResolve, metrics.CounterQueries)),
			collector.StageDuration(metrics.StageLoad)+collector.StageDuration(metrics.StageIndex)+collector.StageDuration(metrics.StageResolve),
		)
		term.Done()
	}
	return nil
}

// open loads the dictionary files into a new store.
func open(ctx context.Context, opts options, term *ui.UI, logger *pterm.Logger, collector *metrics.Collector) (*dictionary.Store, error) {
	paths := opts.sources
	if opts.url != "" {
		cached, err := ingest.Download(ctx, opts.url, config.DefaultCacheDir(), opts.force, logger)
		if err != nil {
			return nil, err
		}
		paths = append([]string{cached}, paths...)
	}

	var entries []schema.Entry
	err := collector.Time(metrics.StageLoad, func() error {
		var mu sync.Mutex
		dict, results, err := ingest.LoadAll(ctx, paths, opts.workers, ingest.DefaultConfig(), func(sr *ingest.SourceResult) {
			mu.Lock()
			defer mu.Unlock()
			details := fmt.Sprintf("%d entries", sr.Result.TotalValid)
			if n := len(sr.Result.Errors); n > 0 {
				details += fmt.Sprintf(", %d skipped", n)
			}
			term.SourceStatus(sr.Result.Format, "ok", sr.Path+": "+details)
		})
		if err != nil {
			return err
		}
		stats := ingest.AggregateResults(results)
		collector.Add(metrics.StageLoad, metrics.CounterEntries, int64(dict.Count()))
		term.Debug(fmt.Sprintf("%d sources, %d raw, %d duplicates", stats.Sources, stats.TotalRaw, stats.TotalDuplicates))

		for _, e := range dict.GetEntriesSorted() {
			entries = append(entries, *e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	store := dictionary.NewStore(nil, logger)
	err = collector.Time(metrics.StageIndex, func() error {
		_, err := store.Reload(ctx, func(context.Context) ([]schema.Entry, error) {
			return entries, nil
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	collector.Add(metrics.StageIndex, metrics.CounterEntries, int64(store.Load().Len()))
	return store, nil
}

func writeMetrics(opts options, collector *metrics.Collector, term *ui.UI, quiet bool) {
	reporter, err := metrics.NewReporter(opts.outputDir)
	if err != nil {
		if !quiet {
			term.Warning(fmt.Sprintf("Failed to write metrics: %v", err))
		}
		return
	}

	previousRun, _ := reporter.LastRun()
	runMetrics := collector.Finalize()
	if err := reporter.Write(runMetrics); err != nil {
		if !quiet {
			term.Warning(fmt.Sprintf("Failed to write metrics: %v", err))
		}
		return
	}
	if quiet {
		return
	}
	term.Debug(fmt.Sprintf("Metrics written: %s", runMetrics.RunID))
	if previousRun != nil {
		term.Info(metrics.FormatComparison(metrics.CompareRuns(runMetrics, previousRun)))
	}
}
