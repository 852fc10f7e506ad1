package ingest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"kame/internal/dialect"
	"kame/internal/schema"
)

func byID(entries []schema.Entry) map[int]*schema.Entry {
	m := make(map[int]*schema.Entry, len(entries))
	for i := range entries {
		m[entries[i].ID] = &entries[i]
	}
	return m
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"words.json", FormatJSON},
		{"data/words.JSON", FormatJSON},
		{"words.jsonl", FormatJSONL},
		{"words.ndjson", FormatJSONL},
		{"words.yaml", FormatYAML},
		{"words.yml", FormatYAML},
	}

	for _, tt := range tests {
		got, err := FormatOf(tt.path)
		if err != nil || got != tt.expected {
			t.Errorf("FormatOf(%q) = %q, %v, want %q", tt.path, got, err, tt.expected)
		}
	}

	if _, err := FormatOf("words.dic"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("FormatOf(words.dic) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestLoadYAML(t *testing.T) {
	result, err := Load("testdata/words.yaml", DefaultConfig())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if result.TotalRaw != 5 {
		t.Errorf("TotalRaw = %d, want 5", result.TotalRaw)
	}
	if result.TotalValid != 4 {
		t.Errorf("TotalValid = %d, want 4", result.TotalValid)
	}
	if len(result.Errors) != 1 {
		t.Errorf("Errors = %v, want one error for the entry without a word", result.Errors)
	}

	entries := byID(result.Entries)
	kxetse := entries[2]
	if kxetse.Word[dialect.FN] != "kxetse" {
		t.Errorf("FN word = %q, want kxetse", kxetse.Word[dialect.FN])
	}
	if kxetse.Word[dialect.RN] != "getse" {
		t.Errorf("RN word = %q, want getse", kxetse.Word[dialect.RN])
	}
	if kxetse.Source != "words.yaml" {
		t.Errorf("Source = %q, want words.yaml", kxetse.Source)
	}
	if got := entries[4].Word[dialect.Combined]; got != "'eylan" {
		t.Errorf("apostrophe not normalized: %q", got)
	}
	if got := entries[3].Infixes; got != "t.ar.on" {
		t.Errorf("Infixes = %q, want t.ar.on", got)
	}
}

func TestLoadJSON(t *testing.T) {
	result, err := Load("testdata/words.json", DefaultConfig())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if result.TotalRaw != 4 || result.TotalValid != 3 || result.TotalDuplicates != 1 {
		t.Errorf("raw/valid/duplicates = %d/%d/%d, want 4/3/1",
			result.TotalRaw, result.TotalValid, result.TotalDuplicates)
	}

	entries := byID(result.Entries)
	if got := entries[10].Translation("en"); got != "person, people" {
		t.Errorf("later duplicate should win, got %q", got)
	}
	if got := entries[11].Type; got != schema.TypeAdjective {
		t.Errorf("Type = %q, want adj", got)
	}
	if !entries[12].IsLoanword() {
		t.Error("Kelnì should be a loanword")
	}
}

func TestLoadJSONWrapper(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.json")
	content := `{"name": "test", "words": [{"id": 1, "word": {"FN": "kelku"}, "type": "n"}]}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	result, err := Load(path, DefaultConfig())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if result.TotalValid != 1 {
		t.Fatalf("TotalValid = %d, want 1", result.TotalValid)
	}
	if got := result.Entries[0].Word[dialect.Combined]; got != "kelku" {
		t.Errorf("combined word should fall back to FN, got %q", got)
	}
}

func TestLoadJSONLines(t *testing.T) {
	result, err := Load("testdata/words.jsonl", DefaultConfig())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if result.TotalRaw != 3 {
		t.Errorf("TotalRaw = %d, want 3", result.TotalRaw)
	}
	if result.TotalValid != 2 {
		t.Errorf("TotalValid = %d, want 2", result.TotalValid)
	}
	if len(result.Errors) != 1 || !strings.HasPrefix(result.Errors[0], "line 4") {
		t.Errorf("Errors = %v, want an error on line 4", result.Errors)
	}

	config := DefaultConfig()
	config.ExcludeStatus = []string{schema.StatusUnofficial}
	result, err = Load("testdata/words.jsonl", config)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if result.TotalValid != 1 || result.Entries[0].ID != 20 {
		t.Errorf("unofficial entries should be excluded, got %d entries", result.TotalValid)
	}
}

func TestParallelLoadJSONLines(t *testing.T) {
	var b strings.Builder
	words := []string{"kelku", "tute", "tsko", "kxor", "sngap", "taron", "yom", "lor"}
	for i := 0; i < 5000; i++ {
		fmt.Fprintf(&b, `{"id": %d, "word": {"combined": %q}, "type": "n"}`+"\n", i%len(words), words[i%len(words)])
	}
	path := filepath.Join(t.TempDir(), "big.jsonl")
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	result, err := Load(path, Config{Workers: 4, ChunkSize: 500})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if result.TotalRaw != 5000 {
		t.Errorf("Expected 5000 raw lines, got %d", result.TotalRaw)
	}
	if result.TotalValid != 8 {
		t.Errorf("Expected 8 unique entries, got %d", result.TotalValid)
	}
	for i, e := range result.Entries {
		if e.ID != i || e.Word[dialect.Combined] != words[i] {
			t.Errorf("entry %d = %d %q, order not kept", i, e.ID, e.Word[dialect.Combined])
		}
	}
}

func TestLoadUnsupported(t *testing.T) {
	if _, err := Load("testdata/words.dic", DefaultConfig()); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Load error = %v, want ErrUnsupportedFormat", err)
	}
	if _, err := Load("testdata/missing.json", DefaultConfig()); err == nil {
		t.Error("Load of a missing file should fail")
	}
}

func TestLoadAll(t *testing.T) {
	override := filepath.Join(t.TempDir(), "override.json")
	content := `[{"id": 1, "word": {"combined": "kelku"}, "type": "n", "translations": [{"en": "house"}]}]`
	if err := os.WriteFile(override, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	var loaded atomic.Int32
	paths := []string{"testdata/words.yaml", "testdata/words.json", override}
	dict, results, err := LoadAll(context.Background(), paths, 2, DefaultConfig(), func(*SourceResult) {
		loaded.Add(1)
	})
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}

	if n := loaded.Load(); n != 3 {
		t.Errorf("callback called %d times, want 3", n)
	}
	if dict.Count() != 7 {
		t.Errorf("Count() = %d, want 7", dict.Count())
	}
	if got := dict.Entries[1].Translation("en"); got != "house" {
		t.Errorf("later source should override, got %q", got)
	}

	stats := AggregateResults(results)
	if stats.Sources != 3 || stats.TotalValid != 8 || stats.TotalErrors != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestLoadAllFails(t *testing.T) {
	_, _, err := LoadAll(context.Background(), []string{"testdata/words.yaml", "testdata/missing.json"}, 0, DefaultConfig(), nil)
	if err == nil {
		t.Error("LoadAll should fail when a source is missing")
	}
}

func TestDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/words.json" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`[{"id": 1, "word": {"combined": "kelku"}, "type": "n"}]`))
	}))

	cacheDir := t.TempDir()
	ctx := context.Background()

	path, err := Download(ctx, server.URL+"/words.json", cacheDir, false, nil)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if path != filepath.Join(cacheDir, "words.json") {
		t.Errorf("path = %q", path)
	}

	if _, err := Download(ctx, server.URL+"/other.json", cacheDir, false, nil); err == nil {
		t.Error("Download of a missing file should fail")
	}

	server.Close()
	if _, err := Download(ctx, server.URL+"/words.json", cacheDir, false, nil); err != nil {
		t.Errorf("cached download should not hit the network: %v", err)
	}

	result, err := Load(path, DefaultConfig())
	if err != nil || result.TotalValid != 1 {
		t.Errorf("downloaded file did not load: %v", err)
	}
}
