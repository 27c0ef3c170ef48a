// Package config loads and saves the bookcat configuration file and applies
// environment overrides on top of it.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rshade/bookcat/internal/logging"
)

// CurrentVersion is written into new configuration files.
const CurrentVersion = "1.0.0"

// Defaults for a fresh configuration.
const (
	DefaultEndpoint        = "http://localhost:8080/graphql"
	DefaultTimeout         = 10 * time.Second
	DefaultBurst           = 5
	DefaultPageSize        = 5
	DefaultMaxVisiblePages = 5
	DefaultDateFormat      = "Jan 2, 2006"
	DefaultLocale          = "en"
	DefaultOutputFormat    = "table"
	DefaultCacheBackend    = CacheBackendFile
	DefaultCacheTTLSeconds = 300
	DefaultRedisPrefix     = "bookcat:"

	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"

	configFileName = "config.yaml"
	configDirPerm  = 0o700
	configFilePerm = 0o600
)

// Config is the whole configuration file.
type Config struct {
	Version string        `yaml:"version"`
	API     APIConfig     `yaml:"api"`
	Display DisplayConfig `yaml:"display"`
	Output  OutputConfig  `yaml:"output"`
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`

	configPath string
}

// APIConfig describes the catalog endpoint.
type APIConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
	// RateLimit is requests per second; 0 disables limiting.
	RateLimit float64 `yaml:"rate_limit"`
	Burst     int     `yaml:"burst"`
}

// DisplayConfig controls listings.
type DisplayConfig struct {
	PageSize        int    `yaml:"page_size"`
	MaxVisiblePages int    `yaml:"max_visible_pages"`
	DateFormat      string `yaml:"date_format"`
	Sort            string `yaml:"sort,omitempty"`
	Locale          string `yaml:"locale"`
}

// OutputConfig controls command output.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
}

// CacheConfig controls the result cache.
type CacheConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Backend     string `yaml:"backend"`
	Directory   string `yaml:"directory,omitempty"`
	TTLSeconds  int    `yaml:"ttl_seconds"`
	RedisAddr   string `yaml:"redis_addr,omitempty"`
	RedisDB     int    `yaml:"redis_db,omitempty"`
	RedisPrefix string `yaml:"redis_prefix,omitempty"`
}

// MetricsConfig controls client metrics export.
type MetricsConfig struct {
	// Textfile is where Prometheus text output is written after each
	// command. Empty disables export.
	Textfile string `yaml:"textfile,omitempty"`
}

// Default returns the built-in configuration. Its path is the default
// config file location when the home directory can be resolved.
func Default() *Config {
	cfg := &Config{
		Version: CurrentVersion,
		API: APIConfig{
			Endpoint: DefaultEndpoint,
			Timeout:  DefaultTimeout,
			Burst:    DefaultBurst,
		},
		Display: DisplayConfig{
			PageSize:        DefaultPageSize,
			MaxVisiblePages: DefaultMaxVisiblePages,
			DateFormat:      DefaultDateFormat,
			Locale:          DefaultLocale,
		},
		Output: OutputConfig{DefaultFormat: DefaultOutputFormat},
		Cache: CacheConfig{
			Enabled:     true,
			Backend:     DefaultCacheBackend,
			TTLSeconds:  DefaultCacheTTLSeconds,
			RedisPrefix: DefaultRedisPrefix,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: logging.FormatConsole,
		},
	}
	if dir, err := GetConfigDir(); err == nil {
		cfg.configPath = filepath.Join(dir, configFileName)
		cfg.Cache.Directory = filepath.Join(dir, "cache")
		cfg.Logging.Audit.File = filepath.Join(dir, "logs", "audit.log")
	}
	return cfg
}

// LoadOptions selects the files Load reads.
type LoadOptions struct {
	// Path is the main config file; empty means the default location.
	Path string
	// OverlayPath is shallow-merged on top of the main file when set.
	OverlayPath string
	// DotEnvPath is loaded into the process environment when it exists.
	// Variables already set are never overridden.
	DotEnvPath string
}

// Load builds a configuration from defaults, the config file, the overlay,
// the .env file and BOOKCAT_* environment variables, in that order.
// A missing config file is not an error; a missing overlay is.
func Load(opts LoadOptions) (*Config, error) {
	cfg := Default()
	if opts.Path != "" {
		cfg.configPath = opts.Path
	}

	if cfg.configPath != "" {
		if err := cfg.readFile(cfg.configPath); err != nil {
			return nil, err
		}
	}

	if opts.OverlayPath != "" {
		if err := ShallowMergeYAML(cfg, opts.OverlayPath); err != nil {
			return nil, err
		}
	}

	if err := LoadDotEnv(opts.DotEnvPath); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads only the config file at path (default location when
// empty) over the defaults. Overlays and environment overrides are not
// applied, so the result can be saved back safely.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		cfg.configPath = path
	}
	if cfg.configPath == "" {
		return nil, errors.New("no config path set")
	}
	if err := cfg.readFile(cfg.configPath); err != nil {
		return nil, err
	}
	return cfg, nil
}

// New loads the default configuration. Problems with the file are logged
// and the defaults are used instead.
func New() *Config {
	cfg, err := Load(LoadOptions{DotEnvPath: DefaultDotEnvPath})
	if err != nil {
		logger := logging.FromContext(context.Background())
		logger.Warn().
			Str("component", "config").
			Err(err).
			Msg("failed to load configuration, using defaults")
		return Default()
	}
	return cfg
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// ConfigPath returns the file Save writes to.
func (c *Config) ConfigPath() string { return c.configPath }

// SetConfigPath changes the file Save writes to.
func (c *Config) SetConfigPath(path string) { c.configPath = path }

// Save writes the configuration atomically.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("no config path set")
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), configDirPerm); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tempPath := c.configPath + ".tmp"
	if writeErr := os.WriteFile(tempPath, data, configFilePerm); writeErr != nil {
		return fmt.Errorf("failed to write config file: %w", writeErr)
	}
	if renameErr := os.Rename(tempPath, c.configPath); renameErr != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename config file: %w", renameErr)
	}
	return nil
}
