// Package config provides centralized configuration defaults for kame.
//
// Values come from config.toml when one is found, then from KAME_*
// environment variables, then from the hardcoded fallbacks.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/ilyakaznacheev/cleanenv"

	"kame/internal/dialect"
)

// ConfigFile represents the structure of config.toml
type ConfigFile struct {
	Defaults Defaults `toml:"defaults"`
	// Sources lists extra dictionary files merged over Dictionary.
	Sources []string `toml:"sources"`
}

// Defaults holds all default values. Every field can be overridden by its
// KAME_* environment variable.
type Defaults struct {
	Dialect         string `toml:"dialect" env:"KAME_DIALECT" env-upd:""`
	Dictionary      string `toml:"dictionary" env:"KAME_DICTIONARY" env-upd:""`
	DictionaryURL   string `toml:"dictionary_url" env:"KAME_DICTIONARY_URL" env-upd:""`
	CacheDir        string `toml:"cache_dir" env:"KAME_CACHE_DIR" env-upd:""`
	OutputDir       string `toml:"output_dir" env:"KAME_OUTPUT_DIR" env-upd:""`
	SuggestDistance int    `toml:"suggest_distance" env:"KAME_SUGGEST_DISTANCE" env-upd:""`
	MaxSuggestions  int    `toml:"max_suggestions" env:"KAME_MAX_SUGGESTIONS" env-upd:""`
	CacheSize       int    `toml:"cache_size" env:"KAME_CACHE_SIZE" env-upd:""`
	Workers         int    `toml:"workers" env:"KAME_WORKERS" env-upd:""`
	LogLevel        string `toml:"log_level" env:"KAME_LOG_LEVEL" env-upd:""`
	LogJSON         bool   `toml:"log_json" env:"KAME_LOG_JSON" env-upd:""`
	Metrics         bool   `toml:"metrics" env:"KAME_METRICS" env-upd:""`
}

// Hardcoded fallback defaults (used if config.toml not found)
var fallbackDefaults = Defaults{
	Dialect:         string(dialect.FN),
	Dictionary:      "data/words.json",
	CacheDir:        "sources",
	OutputDir:       "output",
	SuggestDistance: 2,
	MaxSuggestions:  10,
	CacheSize:       1024,
	Workers:         0,
	LogLevel:        "info",
	Metrics:         false,
}

// MaxWorkers is the cap for parallel workers
const MaxWorkers = 8

var (
	mu     sync.Mutex
	loaded *ConfigFile
)

// searchPaths lists where config.toml is looked for.
func searchPaths() []string {
	paths := []string{
		"config.toml",
		"../config.toml",
		"../../config.toml",
	}
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(dir, "config.toml"),
			filepath.Join(dir, "..", "config.toml"),
		)
	}
	return paths
}

// Load returns the configuration, reading it on first use. A config.toml
// that fails to parse is skipped.
func Load() *ConfigFile {
	mu.Lock()
	defer mu.Unlock()
	if loaded != nil {
		return loaded
	}

	for _, path := range searchPaths() {
		if cfg, err := LoadFile(path); err == nil {
			loaded = cfg
			return loaded
		}
	}

	cfg := &ConfigFile{Defaults: fallbackDefaults}
	_ = applyEnv(cfg)
	loaded = cfg
	return loaded
}

// LoadFile reads one config file. Missing keys keep their fallback values;
// environment variables override the file.
func LoadFile(path string) (*ConfigFile, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	cfg := &ConfigFile{Defaults: fallbackDefaults}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate %s: %w", path, err)
	}
	return cfg, nil
}

func applyEnv(cfg *ConfigFile) error {
	if err := cleanenv.UpdateEnv(&cfg.Defaults); err != nil {
		return fmt.Errorf("config: read env: %w", err)
	}
	return nil
}

// Validate checks the values that have a restricted range.
func (c *ConfigFile) Validate() error {
	switch dialect.Dialect(c.Defaults.Dialect) {
	case dialect.FN, dialect.RN, dialect.Combined:
	default:
		return fmt.Errorf("unknown dialect %q", c.Defaults.Dialect)
	}
	if c.Defaults.SuggestDistance < 0 {
		return fmt.Errorf("suggest_distance must not be negative")
	}
	if c.Defaults.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	return nil
}

// Reset forgets the loaded configuration.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	loaded = nil
}

// Convenience accessors that load config on first access
var (
	DefaultDialect         = func() dialect.Dialect { return dialect.Dialect(Load().Defaults.Dialect) }
	DefaultDictionary      = func() string { return Load().Defaults.Dictionary }
	DefaultDictionaryURL   = func() string { return Load().Defaults.DictionaryURL }
	DefaultCacheDir        = func() string { return Load().Defaults.CacheDir }
	DefaultOutputDir       = func() string { return Load().Defaults.OutputDir }
	DefaultSuggestDistance = func() int { return Load().Defaults.SuggestDistance }
	DefaultMaxSuggestions  = func() int { return Load().Defaults.MaxSuggestions }
	DefaultCacheSize       = func() int { return Load().Defaults.CacheSize }
	DefaultLogLevel        = func() string { return Load().Defaults.LogLevel }
	DefaultLogJSON         = func() bool { return Load().Defaults.LogJSON }
	DefaultMetrics         = func() bool { return Load().Defaults.Metrics }
)

// DefaultSources returns the dictionary files to load, the main dictionary
// first.
func DefaultSources() []string {
	cfg := Load()
	return append([]string{cfg.Defaults.Dictionary}, cfg.Sources...)
}

// Workers resolves a worker count: 0 means one per CPU. The result is
// capped at MaxWorkers.
func Workers(n int) int {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return min(n, MaxWorkers)
}

// DefaultWorkers returns the configured worker count.
func DefaultWorkers() int {
	return Workers(Load().Defaults.Workers)
}

// DialectsStr returns the accepted dialect names.
func DialectsStr() string {
	return strings.Join([]string{string(dialect.FN), string(dialect.RN), string(dialect.Combined)}, ", ")
}
