package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/bookcat/internal/cache"
	"github.com/rshade/bookcat/internal/config"
)

// isolateEnv points the config home at a temp dir and clears every override.
func isolateEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	for _, name := range []string{
		config.EnvEndpoint, config.EnvAPITimeout, config.EnvRateLimit, config.EnvPageSize,
		config.EnvOutputFormat, config.EnvCacheBackend, config.EnvRedisAddr, config.EnvLogFile,
		config.EnvAuditEnabled, config.EnvMetricsTextfile,
		cache.EnvTTLSeconds, cache.EnvCacheEnabled, cache.EnvCacheDir,
	} {
		t.Setenv(name, "")
	}
	return home
}

func TestDefault(t *testing.T) {
	home := isolateEnv(t)

	cfg := config.Default()

	assert.Equal(t, config.CurrentVersion, cfg.Version)
	assert.Equal(t, config.DefaultEndpoint, cfg.API.Endpoint)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, 5, cfg.Display.PageSize)
	assert.Equal(t, "Jan 2, 2006", cfg.Display.DateFormat)
	assert.Equal(t, "table", cfg.Output.DefaultFormat)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, filepath.Join(home, "cache"), cfg.Cache.Directory)
	assert.Equal(t, filepath.Join(home, "config.yaml"), cfg.ConfigPath())
	require.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := config.Load(config.LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_FileOverlayAndEnv(t *testing.T) {
	home := isolateEnv(t)
	path := filepath.Join(home, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
version: 1.0.0
api:
  endpoint: http://books.internal/graphql
  timeout: 3s
display:
  page_size: 8
  max_visible_pages: 5
  date_format: "2006-01-02"
  locale: en
`), 0o600))
	overlay := writeOverlay(t, "output:\n  default_format: yaml\n")
	t.Setenv(config.EnvEndpoint, "https://override.example.com/graphql")

	cfg, err := config.Load(config.LoadOptions{Path: path, OverlayPath: overlay})
	require.NoError(t, err)

	assert.Equal(t, "https://override.example.com/graphql", cfg.API.Endpoint)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, 8, cfg.Display.PageSize)
	assert.Equal(t, "2006-01-02", cfg.Display.DateFormat)
	assert.Equal(t, "yaml", cfg.Output.DefaultFormat)
	assert.Equal(t, path, cfg.ConfigPath())
}

func TestLoad_Errors(t *testing.T) {
	home := isolateEnv(t)

	t.Run("bad yaml", func(t *testing.T) {
		path := filepath.Join(home, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("api: [oops"), 0o600))
		_, err := config.Load(config.LoadOptions{Path: path})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing config file")
	})

	t.Run("missing overlay", func(t *testing.T) {
		_, err := config.Load(config.LoadOptions{OverlayPath: filepath.Join(home, "nope.yaml")})
		require.Error(t, err)
	})

	t.Run("malformed env", func(t *testing.T) {
		t.Setenv(config.EnvPageSize, "many")
		_, err := config.Load(config.LoadOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), config.EnvPageSize)
	})
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	home := isolateEnv(t)
	dotenv := filepath.Join(home, ".env")
	require.NoError(t, os.WriteFile(dotenv, []byte(
		"BOOKCAT_OUTPUT_FORMAT=ndjson\nBOOKCAT_ENDPOINT=http://dotenv.example.com/graphql\n"), 0o600))
	t.Setenv(config.EnvEndpoint, "http://shell.example.com/graphql")
	// An empty but present variable counts as set, so remove it entirely.
	require.NoError(t, os.Unsetenv(config.EnvOutputFormat))

	cfg, err := config.Load(config.LoadOptions{DotEnvPath: dotenv})
	require.NoError(t, err)

	assert.Equal(t, "http://shell.example.com/graphql", cfg.API.Endpoint)
	assert.Equal(t, "ndjson", cfg.Output.DefaultFormat)
}

func TestApplyEnv(t *testing.T) {
	isolateEnv(t)
	t.Setenv(config.EnvRedisAddr, "redis:6379")
	t.Setenv(config.EnvAPITimeout, "750ms")
	t.Setenv(config.EnvRateLimit, "2.5")
	t.Setenv(config.EnvAuditEnabled, "true")
	t.Setenv(cache.EnvTTLSeconds, "60")
	t.Setenv(cache.EnvCacheEnabled, "false")

	cfg := config.Default()
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, "redis:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, config.CacheBackendRedis, cfg.Cache.Backend)
	assert.Equal(t, 750*time.Millisecond, cfg.API.Timeout)
	assert.InDelta(t, 2.5, cfg.API.RateLimit, 0.0001)
	assert.True(t, cfg.Logging.Audit.Enabled)
	assert.Equal(t, 60, cfg.Cache.TTLSeconds)
	assert.False(t, cfg.Cache.Enabled)
}

func TestSave_RoundTrip(t *testing.T) {
	home := isolateEnv(t)
	cfg := config.Default()
	cfg.SetConfigPath(filepath.Join(home, "nested", "config.yaml"))
	cfg.Display.PageSize = 12
	cfg.API.Timeout = 2 * time.Second

	require.NoError(t, cfg.Save())

	info, err := os.Stat(cfg.ConfigPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	_, err = os.Stat(cfg.ConfigPath() + ".tmp")
	assert.True(t, os.IsNotExist(err))

	loaded, err := config.Load(config.LoadOptions{Path: cfg.ConfigPath()})
	require.NoError(t, err)
	assert.Equal(t, 12, loaded.Display.PageSize)
	assert.Equal(t, 2*time.Second, loaded.API.Timeout)
}

func TestLoadFile_IgnoresEnvironment(t *testing.T) {
	home := isolateEnv(t)
	path := filepath.Join(home, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("display:\n  page_size: 9\n"), 0o600))
	t.Setenv(config.EnvPageSize, "40")

	cfg, err := config.LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Display.PageSize)
	assert.Equal(t, path, cfg.ConfigPath())
}

func TestSave_NoPath(t *testing.T) {
	cfg := &config.Config{}
	require.Error(t, cfg.Save())
}

func TestValidate(t *testing.T) {
	isolateEnv(t)

	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*config.Config) {}},
		{name: "future major version", mutate: func(c *config.Config) { c.Version = "2.0.0" }, wantErr: "version"},
		{name: "garbage version", mutate: func(c *config.Config) { c.Version = "one" }, wantErr: "version"},
		{name: "relative endpoint", mutate: func(c *config.Config) { c.API.Endpoint = "/graphql" }, wantErr: "api.endpoint"},
		{name: "ftp endpoint", mutate: func(c *config.Config) { c.API.Endpoint = "ftp://x/graphql" }, wantErr: "api.endpoint"},
		{name: "zero timeout", mutate: func(c *config.Config) { c.API.Timeout = 0 }, wantErr: "api.timeout"},
		{name: "rate without burst", mutate: func(c *config.Config) {
			c.API.RateLimit = 1
			c.API.Burst = 0
		}, wantErr: "api.burst"},
		{name: "zero page size", mutate: func(c *config.Config) { c.Display.PageSize = 0 }, wantErr: "display.page_size"},
		{name: "bad locale", mutate: func(c *config.Config) { c.Display.Locale = "not a locale!" }, wantErr: "display.locale"},
		{name: "valid sort", mutate: func(c *config.Config) { c.Display.Sort = "title:asc" }},
		{name: "unknown sort field", mutate: func(c *config.Config) { c.Display.Sort = "isbn" }, wantErr: "display.sort"},
		{name: "bad sort order", mutate: func(c *config.Config) { c.Display.Sort = "title:up" }, wantErr: "display.sort"},
		{name: "bad format", mutate: func(c *config.Config) { c.Output.DefaultFormat = "xml" }, wantErr: "output.default_format"},
		{name: "bad backend", mutate: func(c *config.Config) { c.Cache.Backend = "memcached" }, wantErr: "cache.backend"},
		{name: "redis without addr", mutate: func(c *config.Config) { c.Cache.Backend = "redis" }, wantErr: "cache.redis_addr"},
		{name: "ttl too large", mutate: func(c *config.Config) { c.Cache.TTLSeconds = 90000 }, wantErr: "cache.ttl_seconds"},
		{name: "bad log level", mutate: func(c *config.Config) { c.Logging.Level = "loud" }, wantErr: "logging.level"},
		{name: "bad log format", mutate: func(c *config.Config) { c.Logging.Format = "xml" }, wantErr: "logging.format"},
		{name: "audit without file", mutate: func(c *config.Config) {
			c.Logging.Audit.Enabled = true
			c.Logging.Audit.File = ""
		}, wantErr: "logging.audit.file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, config.ErrInvalidConfig))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	isolateEnv(t)
	cfg := config.Default()
	cfg.Display.PageSize = 0
	cfg.Output.DefaultFormat = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "display.page_size")
	assert.Contains(t, err.Error(), "output.default_format")
}

func TestGetSet(t *testing.T) {
	isolateEnv(t)
	cfg := config.Default()

	tests := []struct {
		key   string
		value string
	}{
		{"api.endpoint", "https://books.example.com/graphql"},
		{"api.timeout", "30s"},
		{"api.rate_limit", "1.5"},
		{"display.page_size", "20"},
		{"cache.enabled", "false"},
		{"logging.audit.enabled", "true"},
		{"metrics.textfile", "/var/lib/node_exporter/bookcat.prom"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			require.NoError(t, cfg.Set(tt.key, tt.value))
			got, err := cfg.Get(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.value, got)
		})
	}

	assert.Equal(t, 20, cfg.Display.PageSize)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
}

func TestGetSet_Errors(t *testing.T) {
	cfg := config.Default()

	_, err := cfg.Get("plugins.foo")
	require.ErrorIs(t, err, config.ErrUnknownKey)
	require.ErrorIs(t, cfg.Set("plugins.foo", "x"), config.ErrUnknownKey)

	err = cfg.Set("display.page_size", "ten")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "display.page_size")

	require.Error(t, cfg.Set("cache.enabled", "maybe"))
	require.Error(t, cfg.Set("api.timeout", "soon"))
}

func TestKeys_SortedAndResolvable(t *testing.T) {
	cfg := config.Default()
	keys := config.Keys()

	require.NotEmpty(t, keys)
	assert.IsNonDecreasing(t, keys)
	for _, k := range keys {
		_, err := cfg.Get(k)
		assert.NoError(t, err, k)
	}
}
