// Package metrics times the stages of a kame run and records its counters.
package metrics

import (
	"runtime"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Stage names.
const (
	StageLoad    = "load"
	StageIndex   = "index"
	StageTables  = "tables"
	StageResolve = "resolve"
)

// Counter names.
const (
	CounterEntries     = "entries"
	CounterQueries     = "queries"
	CounterResults     = "results"
	CounterSuggestions = "suggestions"
	CounterCorrected   = "corrected"
	CounterCacheHits   = "cache_hits"
)

// StageMetrics holds metrics for a single stage. A stage may be entered
// several times, also concurrently; the duration is the wall time during
// which at least one run was active.
type StageMetrics struct {
	Name       string           `json:"name"`
	StartTime  time.Time        `json:"start_time"`
	EndTime    time.Time        `json:"end_time"`
	DurationMs int64            `json:"duration_ms"`
	Runs       int              `json:"runs"`
	Counters   map[string]int64 `json:"counters,omitempty"`

	started  time.Time
	active   int
	duration time.Duration
}

// RunMetrics holds all metrics for a complete run.
type RunMetrics struct {
	RunID       string                   `json:"run_id"`
	Timestamp   time.Time                `json:"timestamp"`
	Config      map[string]any           `json:"config"`
	Stages      map[string]*StageMetrics `json:"stages"`
	Totals      *TotalMetrics            `json:"totals"`
	Environment *EnvironmentInfo         `json:"environment"`
}

// TotalMetrics holds aggregate metrics.
type TotalMetrics struct {
	DurationMs       int64   `json:"duration_ms"`
	PeakMemoryMB     float64 `json:"peak_memory_mb"`
	QueriesProcessed int64   `json:"queries_processed"`
	Throughput       float64 `json:"throughput_queries_per_sec"`
}

// EnvironmentInfo holds system environment details.
type EnvironmentInfo struct {
	GoVersion string `json:"go_version"`
	GOOS      string `json:"goos"`
	GOARCH    string `json:"goarch"`
	NumCPU    int    `json:"num_cpu"`
	MaxProcs  int    `json:"max_procs"`
}

// Collector collects metrics during execution. It is safe for concurrent
// use; a nil *Collector discards everything.
type Collector struct {
	mu         sync.Mutex
	runID      ulid.ULID
	startTime  time.Time
	config     map[string]any
	stages     map[string]*StageMetrics
	peakMemory uint64
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	now := time.Now()
	return &Collector{
		runID:     ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()),
		startTime: now,
		config:    make(map[string]any),
		stages:    make(map[string]*StageMetrics),
	}
}

// SetConfig stores a configuration value for the run.
func (c *Collector) SetConfig(key string, value any) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.config[key] = value
}

func (c *Collector) stage(name string) *StageMetrics {
	s, ok := c.stages[name]
	if !ok {
		s = &StageMetrics{Name: name, Counters: make(map[string]int64)}
		c.stages[name] = s
	}
	return s
}

// StartStage begins timing a stage.
func (c *Collector) StartStage(name string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stage(name)
	s.active++
	if s.active > 1 {
		return
	}
	s.started = time.Now()
	if s.StartTime.IsZero() {
		s.StartTime = s.started
	}
	c.updatePeakMemory()
}

// EndStage stops timing a stage.
func (c *Collector) EndStage(name string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.stages[name]
	if !ok || s.active == 0 {
		return
	}
	s.active--
	s.Runs++
	if s.active > 0 {
		return
	}
	s.EndTime = time.Now()
	s.duration += s.EndTime.Sub(s.started)
	s.DurationMs = s.duration.Milliseconds()
	s.started = time.Time{}
	c.updatePeakMemory()
}

// Time runs fn as one run of stage.
func (c *Collector) Time(stage string, fn func() error) error {
	c.StartStage(stage)
	defer c.EndStage(stage)
	return fn()
}

// Add adds delta to a counter of stage.
func (c *Collector) Add(stage, counter string, delta int64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stage(stage).Counters[counter] += delta
}

// Counter returns the value of a counter of stage.
func (c *Collector) Counter(stage, counter string) int64 {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.stages[stage]; ok {
		return s.Counters[counter]
	}
	return 0
}

// updatePeakMemory tracks the maximum memory usage. c.mu must be held.
func (c *Collector) updatePeakMemory() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	if m.Alloc > c.peakMemory {
		c.peakMemory = m.Alloc
	}
}

// Finalize creates the final report. Throughput is the number of resolved
// queries per second of the resolve stage.
func (c *Collector) Finalize() *RunMetrics {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updatePeakMemory()

	stages := make(map[string]*StageMetrics, len(c.stages))
	for name, s := range c.stages {
		cp := *s
		cp.Counters = make(map[string]int64, len(s.Counters))
		for k, v := range s.Counters {
			cp.Counters[k] = v
		}
		stages[name] = &cp
	}
	config := make(map[string]any, len(c.config))
	for k, v := range c.config {
		config[k] = v
	}

	var queries int64
	throughput := float64(0)
	if s, ok := c.stages[StageResolve]; ok {
		queries = s.Counters[CounterQueries]
		if s.duration > 0 {
			throughput = float64(queries) / s.duration.Seconds()
		}
	}

	return &RunMetrics{
		RunID:     c.runID.String(),
		Timestamp: c.startTime,
		Config:    config,
		Stages:    stages,
		Totals: &TotalMetrics{
			DurationMs:       time.Since(c.startTime).Milliseconds(),
			PeakMemoryMB:     float64(c.peakMemory) / 1024 / 1024,
			QueriesProcessed: queries,
			Throughput:       throughput,
		},
		Environment: &EnvironmentInfo{
			GoVersion: runtime.Version(),
			GOOS:      runtime.GOOS,
			GOARCH:    runtime.GOARCH,
			NumCPU:    runtime.NumCPU(),
			MaxProcs:  runtime.GOMAXPROCS(0),
		},
	}
}

// RunID returns the run identifier.
func (c *Collector) RunID() string {
	return c.runID.String()
}

// StageDuration returns the total time spent in a stage.
func (c *Collector) StageDuration(name string) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.stages[name]; ok {
		return s.duration
	}
	return 0
}
