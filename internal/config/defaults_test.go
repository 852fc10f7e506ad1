package config

import (
	"os"
	"path/filepath"
	"testing"

	"kame/internal/dialect"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
sources = ["data/extra.yaml"]

[defaults]
dialect = "RN"
dictionary = "data/navi.json"
max_suggestions = 5
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Defaults.Dialect != "RN" {
		t.Errorf("Dialect = %q, want RN", cfg.Defaults.Dialect)
	}
	if cfg.Defaults.Dictionary != "data/navi.json" {
		t.Errorf("Dictionary = %q", cfg.Defaults.Dictionary)
	}
	if cfg.Defaults.MaxSuggestions != 5 {
		t.Errorf("MaxSuggestions = %d, want 5", cfg.Defaults.MaxSuggestions)
	}
	// Keys missing from the file keep their fallback
	if cfg.Defaults.SuggestDistance != 2 || cfg.Defaults.CacheSize != 1024 {
		t.Errorf("fallbacks lost: %+v", cfg.Defaults)
	}
	if len(cfg.Sources) != 1 || cfg.Sources[0] != "data/extra.yaml" {
		t.Errorf("Sources = %v", cfg.Sources)
	}
}

func TestLoadFileEnvOverride(t *testing.T) {
	path := writeConfig(t, "[defaults]\ndialect = \"RN\"\n")
	t.Setenv("KAME_DIALECT", "FN")
	t.Setenv("KAME_CACHE_SIZE", "16")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Defaults.Dialect != "FN" {
		t.Errorf("Dialect = %q, want FN from environment", cfg.Defaults.Dialect)
	}
	if cfg.Defaults.CacheSize != 16 {
		t.Errorf("CacheSize = %d, want 16", cfg.Defaults.CacheSize)
	}
	// Unset variables leave file and fallback values alone
	if cfg.Defaults.Dictionary != "data/words.json" || cfg.Defaults.SuggestDistance != 2 {
		t.Errorf("unset variables changed values: %+v", cfg.Defaults)
	}
}

func TestLoadFallbackEnvOverride(t *testing.T) {
	dir := t.TempDir()
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	t.Setenv("KAME_WORKERS", "3")
	t.Setenv("KAME_LOG_JSON", "true")
	Reset()
	defer Reset()

	if got := DefaultWorkers(); got != 3 {
		t.Errorf("DefaultWorkers() = %d, want 3 from environment", got)
	}
	if !DefaultLogJSON() {
		t.Error("DefaultLogJSON() = false, want true from environment")
	}
}

func TestLoadFileInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad toml", "[defaults\n"},
		{"bad dialect", "[defaults]\ndialect = \"XX\"\n"},
		{"negative distance", "[defaults]\nsuggest_distance = -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadFile(writeConfig(t, tt.content)); err == nil {
				t.Error("LoadFile should fail")
			}
		})
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("LoadFile of a missing file should fail")
	}
}

func TestLoadFallback(t *testing.T) {
	dir := t.TempDir()
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	Reset()
	defer Reset()

	if DefaultDialect() != dialect.FN {
		t.Errorf("DefaultDialect() = %q, want FN", DefaultDialect())
	}
	if DefaultDictionary() != "data/words.json" {
		t.Errorf("DefaultDictionary() = %q", DefaultDictionary())
	}
	if got := DefaultSources(); len(got) != 1 || got[0] != "data/words.json" {
		t.Errorf("DefaultSources() = %v", got)
	}
}

func TestWorkers(t *testing.T) {
	if got := Workers(3); got != 3 {
		t.Errorf("Workers(3) = %d", got)
	}
	if got := Workers(100); got != MaxWorkers {
		t.Errorf("Workers(100) = %d, want %d", got, MaxWorkers)
	}
	if got := Workers(0); got < 1 || got > MaxWorkers {
		t.Errorf("Workers(0) = %d", got)
	}
}
