// Package ingest loads dictionary files into schema entries.
package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"

	"kame/internal/dialect"
	"kame/internal/normalizer"
	"kame/internal/schema"
)

// ErrUnsupportedFormat is returned for files that are not JSON, JSON lines
// or YAML.
var ErrUnsupportedFormat = errors.New("unsupported dictionary format")

// Formats by file extension.
const (
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
	FormatYAML  = "yaml"
)

// Result holds the entries read from one dictionary file.
type Result struct {
	Entries         []schema.Entry
	SourcePath      string
	Format          string
	TotalRaw        int
	TotalValid      int
	TotalDuplicates int
	Errors          []string
}

// Config configures ingestion behavior.
type Config struct {
	Workers   int // workers for JSON lines files (<= 1 = sequential)
	ChunkSize int // lines per chunk
	// ExcludeStatus drops entries with one of these statuses,
	// e.g. "unofficial".
	ExcludeStatus []string
}

// DefaultConfig returns default ingestion config.
func DefaultConfig() Config {
	return Config{
		Workers:   4,
		ChunkSize: 1000,
	}
}

// FormatOf returns the format of a dictionary file from its extension.
func FormatOf(filePath string) (string, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".json":
		return FormatJSON, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filePath))
	}
}

// Load reads and prepares every entry of a dictionary file.
func Load(filePath string, config Config) (*Result, error) {
	format, err := FormatOf(filePath)
	if err != nil {
		return nil, err
	}

	absPath, _ := filepath.Abs(filePath)
	result := &Result{SourcePath: absPath, Format: format}

	var raw []schema.Entry
	switch format {
	case FormatJSONL:
		raw, err = parseLines(filePath, config, result)
	default:
		var data []byte
		data, err = os.ReadFile(filePath)
		if err == nil {
			if format == FormatJSON {
				raw, err = parseJSON(data)
			} else {
				raw, err = parseYAML(data)
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	source := filepath.Base(filePath)
	if format != FormatJSONL {
		result.TotalRaw = len(raw)
	}
	result.Entries = collect(raw, source, config, result)
	result.TotalValid = len(result.Entries)
	return result, nil
}

// wrapper is the object form of a dictionary file.
type wrapper struct {
	Words []schema.Entry `json:"words" yaml:"words"`
}

func parseJSON(data []byte) ([]schema.Entry, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var w wrapper
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return w.Words, nil
	}
	var entries []schema.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func parseYAML(data []byte) ([]schema.Entry, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	if node.Content[0].Kind == yaml.MappingNode {
		var w wrapper
		if err := node.Decode(&w); err != nil {
			return nil, err
		}
		return w.Words, nil
	}
	var entries []schema.Entry
	if err := node.Decode(&entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// collect prepares entries, dropping invalid and excluded ones. A later
// entry replaces an earlier one with the same ID.
func collect(raw []schema.Entry, source string, config Config, result *Result) []schema.Entry {
	index := make(map[int]int, len(raw))
	entries := make([]schema.Entry, 0, len(raw))
	for i := range raw {
		e := raw[i]
		if err := Prepare(&e, source); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("entry %d: %v", e.ID, err))
			continue
		}
		if slices.Contains(config.ExcludeStatus, e.Status) {
			continue
		}
		if j, ok := index[e.ID]; ok {
			entries[j] = e
			result.TotalDuplicates++
			continue
		}
		index[e.ID] = len(entries)
		entries = append(entries, e)
	}
	return entries
}

// Prepare normalizes an entry read from a file and fills in the per-dialect
// spellings it lacks.
func Prepare(e *schema.Entry, source string) error {
	if e.Word == nil {
		e.Word = make(map[dialect.Dialect]string)
	}
	for d, w := range e.Word {
		e.Word[d] = normalizer.Normalize(w)
	}
	if e.Word[dialect.Combined] == "" {
		e.Word[dialect.Combined] = e.Word[dialect.FN]
	}
	if e.Word[dialect.Combined] == "" {
		return errors.New("missing word")
	}

	e.Type = strings.ToLower(strings.TrimSpace(e.Type))
	if e.Type == "" {
		return errors.New("missing type")
	}
	e.Status = strings.ToLower(strings.TrimSpace(e.Status))
	e.Infixes = normalizer.Normalize(e.Infixes)
	for i := range e.Pronunciation {
		e.Pronunciation[i].Syllables = normalizer.Normalize(e.Pronunciation[i].Syllables)
	}

	for _, d := range []dialect.Dialect{dialect.FN, dialect.RN} {
		if e.Word[d] == "" {
			e.Word[d] = dialect.Word(e.Shared(), d)
		}
	}
	if e.Source == "" {
		e.Source = source
	}
	return nil
}

// Download fetches a remote dictionary into cacheDir and returns its path.
// A cached copy is reused unless force is set. logger may be nil.
func Download(ctx context.Context, url, cacheDir string, force bool, logger *pterm.Logger) (string, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create cache dir: %w", err)
	}

	filename := path.Base(url)
	if _, err := FormatOf(filename); err != nil {
		return "", err
	}
	cachedPath := filepath.Join(cacheDir, filename)

	if !force {
		if _, err := os.Stat(cachedPath); err == nil {
			if logger != nil {
				logger.Debug("using cached dictionary", logger.Args("path", cachedPath))
			}
			return cachedPath, nil
		}
	}

	if logger != nil {
		logger.Info("downloading dictionary", logger.Args("url", url))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("download failed: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download failed with status: %d", resp.StatusCode)
	}

	tmp := cachedPath + ".part"
	file, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(file, resp.Body); err != nil {
		file.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp, cachedPath); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	if logger != nil {
		logger.Info("saved dictionary", logger.Args("path", cachedPath))
	}
	return cachedPath, nil
}
