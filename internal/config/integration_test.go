package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/bookcat/internal/config"
	"github.com/rshade/bookcat/internal/logging"
)

func TestGlobalConfig(t *testing.T) {
	isolateEnv(t)
	config.ResetGlobalConfigForTest()
	t.Cleanup(config.ResetGlobalConfigForTest)

	cfg := config.GetGlobalConfig()
	require.NotNil(t, cfg)
	assert.Same(t, cfg, config.GetGlobalConfig())
	assert.Equal(t, "table", config.GetDefaultOutputFormat())
	assert.Equal(t, config.DefaultEndpoint, cfg.API.Endpoint)

	custom := config.Default()
	custom.Output.DefaultFormat = config.FormatYAML
	config.SetGlobalConfig(custom)
	assert.Same(t, custom, config.GetGlobalConfig())
	assert.Equal(t, config.FormatYAML, config.GetDefaultOutputFormat())

	config.ResetGlobalConfigForTest()
	assert.NotSame(t, custom, config.GetGlobalConfig())
}

func TestGetConfigDir(t *testing.T) {
	home := isolateEnv(t)

	dir, err := config.GetConfigDir()
	require.NoError(t, err)
	assert.Equal(t, home, dir)
	assert.Equal(t, filepath.Join(home, "config.yaml"), config.Default().ConfigPath())
	assert.Equal(t, filepath.Join(home, "cache"), config.Default().Cache.Directory)
}

func TestEnsureLogDir(t *testing.T) {
	home := isolateEnv(t)
	t.Cleanup(config.ResetGlobalConfigForTest)

	cfg := config.Default()
	cfg.Logging.File = ""
	config.SetGlobalConfig(cfg)
	require.NoError(t, config.EnsureLogDir())

	cfg = config.Default()
	cfg.Logging.File = filepath.Join(home, "logs", "deep", "bookcat.log")
	config.SetGlobalConfig(cfg)
	require.NoError(t, config.EnsureLogDir())
	info, err := os.Stat(filepath.Dir(cfg.Logging.File))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestToLoggingConfig(t *testing.T) {
	lc := config.LoggingConfig{Level: "debug", Format: "json"}
	got := lc.ToLoggingConfig()
	assert.Equal(t, logging.OutputStderr, got.Output)
	assert.Equal(t, "debug", got.Level)

	lc.File = "/tmp/bookcat.log"
	got = lc.ToLoggingConfig()
	assert.Equal(t, logging.OutputFile, got.Output)
	assert.Equal(t, "/tmp/bookcat.log", got.File)

	lc.Audit = config.AuditConfig{Enabled: true, File: "/tmp/audit.log"}
	audit := lc.ToAuditConfig()
	assert.True(t, audit.Enabled)
	assert.Equal(t, "/tmp/audit.log", audit.File)
}
