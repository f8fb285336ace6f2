// Package config loads and validates docuseek configuration.
// Configuration lives in a single YAML file; every field has a
// working default so a missing file is not an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the complete docuseek configuration.
type Config struct {
	Version int           `yaml:"version" json:"version"`
	Paths   PathsConfig   `yaml:"paths" json:"paths"`
	Scan    ScanConfig    `yaml:"scan" json:"scan"`
	Search  SearchConfig  `yaml:"search" json:"search"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// PathsConfig configures where the index database lives.
type PathsConfig struct {
	// DataDir holds the SQLite index, its lock file and logs.
	// Defaults to ~/.docuseek.
	DataDir string `yaml:"data_dir" json:"data_dir"`
}

// ScanConfig configures directory scanning.
type ScanConfig struct {
	// Extensions is the recognized image-container extension list,
	// compared case-insensitively without the leading dot.
	Extensions []string `yaml:"extensions" json:"extensions"`

	// Workers is the parallelism for the extension-filter stage.
	// 0 means runtime.NumCPU().
	Workers int `yaml:"workers" json:"workers"`

	// WatchDebounce is the settle window for filesystem watch events.
	WatchDebounce string `yaml:"watch_debounce" json:"watch_debounce"`
}

// SearchConfig configures the fuzzy search engine.
type SearchConfig struct {
	// DefaultThreshold is the similarity threshold used when the
	// caller does not supply one. Must lie in [0.5, 1.0].
	DefaultThreshold float64 `yaml:"default_threshold" json:"default_threshold"`

	// PageSize is the fixed result page size for display.
	PageSize int `yaml:"page_size" json:"page_size"`

	// Workers is the parallelism for candidate scoring.
	// 0 means runtime.NumCPU().
	Workers int `yaml:"workers" json:"workers"`

	// CacheSize is the number of recent query results kept in the
	// LRU cache.
	CacheSize int `yaml:"cache_size" json:"cache_size"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Version: 1,
		Paths: PathsConfig{
			DataDir: defaultDataDir(),
		},
		Scan: ScanConfig{
			Extensions:    []string{"tif", "tiff", "jpg", "jpeg", "png", "bmp", "gif", "webp"},
			Workers:       0,
			WatchDebounce: "500ms",
		},
		Search: SearchConfig{
			DefaultThreshold: 0.7,
			PageSize:         500,
			Workers:          0,
			CacheSize:        128,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from path. A missing file returns defaults;
// a malformed file is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DefaultPath returns the default config file location (~/.docuseek/config.yaml).
func DefaultPath() string {
	return filepath.Join(defaultDataDir(), "config.yaml")
}

// DBPath returns the index database path under the data directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.Paths.DataDir, "index.db")
}

// ScanWorkers resolves the scan worker count.
func (c *Config) ScanWorkers() int {
	if c.Scan.Workers > 0 {
		return c.Scan.Workers
	}
	return runtime.NumCPU()
}

// SearchWorkers resolves the scoring worker count.
func (c *Config) SearchWorkers() int {
	if c.Search.Workers > 0 {
		return c.Search.Workers
	}
	return runtime.NumCPU()
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Paths.DataDir == "" {
		return fmt.Errorf("paths.data_dir must not be empty")
	}
	if len(c.Scan.Extensions) == 0 {
		return fmt.Errorf("scan.extensions must not be empty")
	}
	for _, ext := range c.Scan.Extensions {
		if strings.HasPrefix(ext, ".") || ext == "" {
			return fmt.Errorf("scan.extensions entries must be bare suffixes, got %q", ext)
		}
	}
	if c.Search.DefaultThreshold < 0.5 || c.Search.DefaultThreshold > 1.0 {
		return fmt.Errorf("search.default_threshold must be in [0.5, 1.0], got %v", c.Search.DefaultThreshold)
	}
	if c.Search.PageSize <= 0 {
		return fmt.Errorf("search.page_size must be positive, got %d", c.Search.PageSize)
	}
	if c.Search.CacheSize <= 0 {
		return fmt.Errorf("search.cache_size must be positive, got %d", c.Search.CacheSize)
	}
	if c.Scan.Workers < 0 || c.Search.Workers < 0 {
		return fmt.Errorf("worker counts must not be negative")
	}
	return nil
}

// Save writes the configuration to path, creating the directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

// applyDefaults fills zero values left by a partial YAML file.
func (c *Config) applyDefaults() {
	def := Default()
	if c.Paths.DataDir == "" {
		c.Paths.DataDir = def.Paths.DataDir
	}
	if len(c.Scan.Extensions) == 0 {
		c.Scan.Extensions = def.Scan.Extensions
	}
	if c.Scan.WatchDebounce == "" {
		c.Scan.WatchDebounce = def.Scan.WatchDebounce
	}
	if c.Search.DefaultThreshold == 0 {
		c.Search.DefaultThreshold = def.Search.DefaultThreshold
	}
	if c.Search.PageSize == 0 {
		c.Search.PageSize = def.Search.PageSize
	}
	if c.Search.CacheSize == 0 {
		c.Search.CacheSize = def.Search.CacheSize
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".docuseek")
	}
	return filepath.Join(home, ".docuseek")
}
