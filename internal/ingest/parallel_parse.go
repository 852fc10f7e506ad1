package ingest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"kame/internal/schema"
)

// lineChunk is a run of JSON lines.
type lineChunk struct {
	lines     []string
	startLine int
}

type chunkResult struct {
	entries  []schema.Entry
	rawCount int
	errors   []string
}

// parseLines decodes a JSON lines file, one entry per line. Large files are
// split into chunks decoded by config.Workers goroutines; entry order is
// kept.
func parseLines(filePath string, config Config, result *Result) ([]schema.Entry, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	chunkSize := config.ChunkSize
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if config.Workers <= 1 || len(lines) < chunkSize*2 {
		chunkSize = max(len(lines), 1)
	}

	var chunks []lineChunk
	for i := 0; i < len(lines); i += chunkSize {
		end := min(i+chunkSize, len(lines))
		chunks = append(chunks, lineChunk{lines: lines[i:end], startLine: i + 1})
	}

	results := make([]chunkResult, len(chunks))
	if len(chunks) == 1 {
		results[0] = processChunk(chunks[0])
	} else {
		var wg sync.WaitGroup
		jobs := make(chan int, len(chunks))
		for w := 0; w < config.Workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for idx := range jobs {
					results[idx] = processChunk(chunks[idx])
				}
			}()
		}
		for i := range chunks {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
	}

	var entries []schema.Entry
	for _, r := range results {
		result.TotalRaw += r.rawCount
		result.Errors = append(result.Errors, r.errors...)
		entries = append(entries, r.entries...)
	}
	return entries, nil
}

func processChunk(chunk lineChunk) chunkResult {
	var result chunkResult
	for i, line := range chunk.lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		result.rawCount++

		var e schema.Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			result.errors = append(result.errors, fmt.Sprintf("line %d: %v", chunk.startLine+i, err))
			continue
		}
		result.entries = append(result.entries, e)
	}
	return result
}
