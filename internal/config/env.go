package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/rshade/bookcat/internal/cache"
)

// Environment variables applied by ApplyEnv. Cache variables reuse the
// names from the cache package.
const (
	EnvEndpoint        = "BOOKCAT_ENDPOINT"
	EnvAPITimeout      = "BOOKCAT_API_TIMEOUT"
	EnvRateLimit       = "BOOKCAT_RATE_LIMIT"
	EnvPageSize        = "BOOKCAT_PAGE_SIZE"
	EnvOutputFormat    = "BOOKCAT_OUTPUT_FORMAT"
	EnvCacheBackend    = "BOOKCAT_CACHE_BACKEND"
	EnvRedisAddr       = "BOOKCAT_REDIS_ADDR"
	EnvLogFile         = "BOOKCAT_LOG_FILE"
	EnvAuditEnabled    = "BOOKCAT_AUDIT_ENABLED"
	EnvMetricsTextfile = "BOOKCAT_METRICS_TEXTFILE"
)

// DefaultDotEnvPath is the .env file read from the working directory.
const DefaultDotEnvPath = ".env"

// LoadDotEnv loads path into the process environment. Variables that are
// already set win. A missing file is ignored.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from BOOKCAT_* environment variables.
// Malformed numeric or boolean values are reported rather than ignored.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvEndpoint); v != "" {
		c.API.Endpoint = v
	}
	if v := os.Getenv(EnvAPITimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvAPITimeout, err)
		}
		c.API.Timeout = d
	}
	if v := os.Getenv(EnvRateLimit); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRateLimit, err)
		}
		c.API.RateLimit = rps
	}
	if v := os.Getenv(EnvPageSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPageSize, err)
		}
		c.Display.PageSize = n
	}
	if v := os.Getenv(EnvOutputFormat); v != "" {
		c.Output.DefaultFormat = v
	}

	c.Cache.Enabled = cache.GetCacheEnabledFromEnv(c.Cache.Enabled)
	c.Cache.TTLSeconds = cache.GetTTLFromEnv(c.Cache.TTLSeconds)
	if v := cache.GetCacheDirFromEnv(); v != "" {
		c.Cache.Directory = v
	}
	if v := os.Getenv(EnvCacheBackend); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.Cache.RedisAddr = v
		c.Cache.Backend = CacheBackendRedis
	}

	if v := os.Getenv(EnvLogFile); v != "" {
		c.Logging.File = v
	}
	if v := os.Getenv(EnvAuditEnabled); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvAuditEnabled, err)
		}
		c.Logging.Audit.Enabled = enabled
	}
	if v := os.Getenv(EnvMetricsTextfile); v != "" {
		c.Metrics.Textfile = v
	}
	return nil
}
