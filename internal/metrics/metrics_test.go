package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
)

func TestCollector(t *testing.T) {
	c := NewCollector()

	if _, err := ulid.Parse(c.RunID()); err != nil {
		t.Errorf("run ID %q is not a ULID: %v", c.RunID(), err)
	}

	c.SetConfig("dialect", "FN")

	c.StartStage(StageLoad)
	time.Sleep(10 * time.Millisecond)
	c.Add(StageLoad, CounterEntries, 120)
	c.EndStage(StageLoad)

	for i := 0; i < 3; i++ {
		c.Time(StageResolve, func() error {
			c.Add(StageResolve, CounterQueries, 1)
			c.Add(StageResolve, CounterResults, 2)
			return nil
		})
	}

	metrics := c.Finalize()

	if metrics.RunID != c.RunID() {
		t.Errorf("RunID = %q, want %q", metrics.RunID, c.RunID())
	}
	if metrics.Config["dialect"] != "FN" {
		t.Errorf("Config = %v", metrics.Config)
	}
	if metrics.Totals.QueriesProcessed != 3 {
		t.Errorf("Expected 3 queries, got %d", metrics.Totals.QueriesProcessed)
	}

	load := metrics.Stages[StageLoad]
	if load == nil || load.Counters[CounterEntries] != 120 {
		t.Fatalf("load stage = %+v", load)
	}
	if load.DurationMs < 10 {
		t.Errorf("load duration = %dms, want >= 10", load.DurationMs)
	}

	resolve := metrics.Stages[StageResolve]
	if resolve.Runs != 3 || resolve.Counters[CounterResults] != 6 {
		t.Errorf("resolve stage = %+v", resolve)
	}

	// The report is a snapshot
	c.Add(StageResolve, CounterQueries, 10)
	if resolve.Counters[CounterQueries] != 3 {
		t.Error("Finalize should copy counters")
	}
}

func TestCollectorTimeReturnsError(t *testing.T) {
	c := NewCollector()
	want := errors.New("boom")
	if err := c.Time(StageIndex, func() error { return want }); err != want {
		t.Errorf("Time returned %v, want %v", err, want)
	}
	if c.StageDuration(StageIndex) < 0 {
		t.Error("negative duration")
	}
	if c.Finalize().Stages[StageIndex].Runs != 1 {
		t.Error("failed stage should still be timed")
	}
}

func TestCollectorConcurrent(t *testing.T) {
	c := NewCollector()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Add(StageResolve, CounterQueries, 1)
			}
		}()
	}
	wg.Wait()

	if got := c.Counter(StageResolve, CounterQueries); got != 800 {
		t.Errorf("Counter = %d, want 800", got)
	}
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	c.StartStage(StageLoad)
	c.Add(StageLoad, CounterEntries, 1)
	c.EndStage(StageLoad)
	if err := c.Time(StageLoad, func() error { return nil }); err != nil {
		t.Errorf("Time on nil collector = %v", err)
	}
	if c.Counter(StageLoad, CounterEntries) != 0 {
		t.Error("nil collector should count nothing")
	}
}

func TestReporter(t *testing.T) {
	tmpDir := t.TempDir()

	reporter, err := NewReporter(tmpDir)
	if err != nil {
		t.Fatalf("NewReporter failed: %v", err)
	}

	c := NewCollector()
	c.Time(StageResolve, func() error {
		c.Add(StageResolve, CounterQueries, 100)
		return nil
	})
	metrics := c.Finalize()

	if err := reporter.Write(metrics); err != nil {
		t.Fatalf("Failed to write metrics: %v", err)
	}

	for _, name := range []string{"latest.json", "history.jsonl", "run_" + metrics.RunID + ".json"} {
		if _, err := os.Stat(filepath.Join(tmpDir, "metrics", name)); os.IsNotExist(err) {
			t.Errorf("Expected %s to exist", name)
		}
	}

	// A malformed line is skipped
	f, err := os.OpenFile(filepath.Join(tmpDir, "metrics", "history.jsonl"), os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	f.WriteString("{not json\n")
	f.Close()

	runs, err := reporter.ReadHistory(10)
	if err != nil {
		t.Fatalf("Failed to read history: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("Expected 1 run in history, got %d", len(runs))
	}

	lastRun, err := reporter.LastRun()
	if err != nil {
		t.Fatalf("Failed to get last run: %v", err)
	}
	if lastRun.RunID != metrics.RunID {
		t.Errorf("Expected run ID %s, got %s", metrics.RunID, lastRun.RunID)
	}
}

func TestReporterEmptyHistory(t *testing.T) {
	reporter, err := NewReporter(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	run, err := reporter.LastRun()
	if err != nil || run != nil {
		t.Errorf("LastRun = %v, %v, want nil, nil", run, err)
	}
}

func TestComparison(t *testing.T) {
	previous := NewCollector().Finalize()
	previous.Totals.DurationMs = 1000
	previous.Totals.Throughput = 1000

	current := NewCollector().Finalize()
	current.Totals.DurationMs = 500
	current.Totals.Throughput = 2000

	comparison := CompareRuns(current, previous)
	if comparison == nil {
		t.Fatal("Expected non-nil comparison")
	}
	if comparison.SpeedupFactor != 2.0 {
		t.Errorf("Expected 2x speedup, got %.2f", comparison.SpeedupFactor)
	}
	if comparison.TimeSavedMs != 500 {
		t.Errorf("Expected 500ms saved, got %d", comparison.TimeSavedMs)
	}

	formatted := FormatComparison(comparison)
	if !strings.Contains(formatted, "2.00x faster") {
		t.Errorf("FormatComparison = %q", formatted)
	}
	if FormatComparison(CompareRuns(nil, previous)) != "No previous run to compare" {
		t.Error("nil comparison should be reported")
	}
}

func TestCollectorOverlappingRuns(t *testing.T) {
	c := NewCollector()
	c.StartStage(StageResolve)
	c.StartStage(StageResolve)
	c.EndStage(StageResolve)
	time.Sleep(5 * time.Millisecond)
	c.EndStage(StageResolve)

	resolve := c.Finalize().Stages[StageResolve]
	if resolve.Runs != 2 {
		t.Errorf("Runs = %d, want 2", resolve.Runs)
	}
	if c.StageDuration(StageResolve) < 5*time.Millisecond {
		t.Errorf("duration %v should span both runs", c.StageDuration(StageResolve))
	}
}
