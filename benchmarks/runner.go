// Benchmark runner for kame: resolves a word list under every combination of
// worker count and resolver cache size and reports the speedup of each cell
// over one uncached worker.
// Run with: go run runner.go [options]
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/pflag"
)

// Matrix describes the cells to measure.
type Matrix struct {
	Words      string   `json:"words"`
	Passes     int      `json:"passes"`
	Dialects   []string `json:"dialects"`
	Workers    []int    `json:"workers"`
	CacheSizes []int    `json:"cache_sizes"`
}

// Cell is one measured combination. DurationMs is the median over all
// repeats.
type Cell struct {
	Dialect    string  `json:"dialect"`
	Workers    int     `json:"workers"`
	CacheSize  int     `json:"cache_size"`
	DurationMs int64   `json:"duration_ms"`
	Throughput float64 `json:"throughput"`
	Queries    int64   `json:"queries"`
	CacheHits  int64   `json:"cache_hits"`
	Repeats    int     `json:"repeats"`
}

// report is the JSON printed by kame --benchmark.
type report struct {
	DurationMs int64   `json:"duration_ms"`
	Throughput float64 `json:"throughput"`
	Queries    int64   `json:"queries"`
	CacheHits  int64   `json:"cache_hits"`
}

func main() {
	configPath := pflag.String("config", "configs.json", "Matrix definition")
	outputDir := pflag.String("output", "results", "Directory for result files")
	repeats := pflag.IntP("repeats", "n", 3, "Runs per cell; the median is kept")
	dialectFilter := pflag.StringP("dialect", "d", "", "Measure only this dialect")
	dict := pflag.String("dict", "", "Dictionary passed to kame (empty = kame's default)")
	binary := pflag.String("kame", "", "Path to the kame binary (empty = search)")
	pflag.Parse()

	m, err := loadMatrix(*configPath)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	kame := *binary
	if kame == "" {
		kame = findKame()
	}
	if kame == "" {
		pterm.Error.Println("kame binary not found; build it with 'go build -o kame ./cmd'")
		os.Exit(1)
	}

	dialects := m.Dialects
	if *dialectFilter != "" {
		dialects = []string{*dialectFilter}
	}

	var cells []Cell
	for _, d := range dialects {
		pterm.DefaultSection.Printfln("%s: %s x %d passes", d, m.Words, m.Passes)
		for _, w := range m.Workers {
			for _, size := range m.CacheSizes {
				cell, err := measure(kame, *dict, m, d, w, size, max(*repeats, 1))
				if err != nil {
					pterm.Warning.Printfln("workers=%d cache=%d: %v", w, size, err)
					continue
				}
				pterm.Info.Printfln("workers=%d cache=%d: %dms, %d queries, %d cache hits",
					w, size, cell.DurationMs, cell.Queries, cell.CacheHits)
				cells = append(cells, cell)
			}
		}
		printMatrix(d, m, cells)
	}

	path, err := writeResults(*outputDir, cells)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
	pterm.Success.Printfln("Results written to %s", path)
}

func loadMatrix(path string) (*Matrix, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading matrix: %w", err)
	}
	m := &Matrix{Passes: 1}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parsing matrix: %w", err)
	}
	if m.Words == "" || len(m.Workers) == 0 || len(m.CacheSizes) == 0 {
		return nil, fmt.Errorf("matrix needs words, workers and cache_sizes")
	}
	if len(m.Dialects) == 0 {
		m.Dialects = []string{"FN"}
	}
	return m, nil
}

func findKame() string {
	for _, c := range []string{"../kame", "../kame.exe", "kame", "kame.exe"} {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	if path, err := exec.LookPath("kame"); err == nil {
		return path
	}
	return ""
}

// measure runs one cell repeats times and keeps the median run.
func measure(kame, dict string, m *Matrix, d string, workers, cacheSize, repeats int) (Cell, error) {
	args := []string{
		"--benchmark",
		"--words", m.Words,
		"--iterations", strconv.Itoa(max(m.Passes, 1)),
		"--workers", strconv.Itoa(workers),
		"--cache-size", strconv.Itoa(cacheSize),
		"--dialect", d,
	}
	if dict != "" {
		args = append(args, "--dict", dict)
	}

	runs := make([]report, 0, repeats)
	for range repeats {
		out, err := exec.Command(kame, args...).Output()
		if err != nil {
			return Cell{}, fmt.Errorf("kame failed: %w", err)
		}
		var r report
		if err := json.Unmarshal(out, &r); err != nil {
			return Cell{}, fmt.Errorf("unexpected kame output %q: %w", out, err)
		}
		runs = append(runs, r)
	}

	slices.SortFunc(runs, func(a, b report) int { return int(a.DurationMs - b.DurationMs) })
	median := runs[len(runs)/2]
	return Cell{
		Dialect:    d,
		Workers:    workers,
		CacheSize:  cacheSize,
		DurationMs: median.DurationMs,
		Throughput: median.Throughput,
		Queries:    median.Queries,
		CacheHits:  median.CacheHits,
		Repeats:    repeats,
	}, nil
}

// printMatrix prints the speedup of every cell of dialect d over the one
// worker, no cache cell.
func printMatrix(d string, m *Matrix, cells []Cell) {
	lookup := make(map[[2]int]Cell)
	for _, c := range cells {
		if c.Dialect == d {
			lookup[[2]int{c.Workers, c.CacheSize}] = c
		}
	}
	baseline, ok := lookup[[2]int{1, 0}]

	header := []string{"workers \\ cache"}
	for _, size := range m.CacheSizes {
		header = append(header, strconv.Itoa(size))
	}
	rows := pterm.TableData{header}
	for _, w := range m.Workers {
		row := []string{strconv.Itoa(w)}
		for _, size := range m.CacheSizes {
			c, measured := lookup[[2]int{w, size}]
			switch {
			case !measured:
				row = append(row, "-")
			case ok && c.DurationMs > 0:
				row = append(row, fmt.Sprintf("%dms (%.2fx)", c.DurationMs, float64(baseline.DurationMs)/float64(c.DurationMs)))
			default:
				row = append(row, fmt.Sprintf("%dms", c.DurationMs))
			}
		}
		rows = append(rows, row)
	}
	pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

func writeResults(dir string, cells []Cell) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}
	now := time.Now()
	path := filepath.Join(dir, fmt.Sprintf("benchmark_%s.json", now.Format("2006-01-02_15-04-05")))
	data, err := json.MarshalIndent(map[string]any{
		"timestamp": now.UTC().Format(time.RFC3339),
		"cells":     cells,
	}, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing results: %w", err)
	}
	return path, nil
}
