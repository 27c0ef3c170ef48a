package cli_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/bookcat/internal/config"
)

func configPath() string {
	return filepath.Join(os.Getenv(config.EnvHome), "config.yaml")
}

func TestConfigInit(t *testing.T) {
	setupCLI(t)

	out, err := execute(t, "", "config", "init", "--api-endpoint", "https://books.example.com/graphql")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized successfully")
	assert.Contains(t, out, configPath())

	data, err := os.ReadFile(configPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "https://books.example.com/graphql")

	t.Run("refuses to overwrite", func(t *testing.T) {
		_, err := execute(t, "", "config", "init")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("force overwrites", func(t *testing.T) {
		_, err := execute(t, "", "config", "init", "--force")
		require.NoError(t, err)
		data, err := os.ReadFile(configPath())
		require.NoError(t, err)
		assert.Contains(t, string(data), config.DefaultEndpoint)
	})

	t.Run("invalid endpoint", func(t *testing.T) {
		_, err := execute(t, "", "config", "init", "--force", "--api-endpoint", "not a url")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})
}

func TestConfigSetGet(t *testing.T) {
	setupCLI(t)

	out, err := execute(t, "", "config", "set", "display.page_size", "12")
	require.NoError(t, err)
	assert.Contains(t, out, "Set display.page_size = 12")

	out, err = execute(t, "", "config", "get", "display.page_size")
	require.NoError(t, err)
	assert.Equal(t, "12\n", out)

	t.Run("environment overrides are not saved", func(t *testing.T) {
		t.Setenv(config.EnvPageSize, "3")

		out, err := execute(t, "", "config", "get", "display.page_size")
		require.NoError(t, err)
		assert.Equal(t, "3\n", out)

		_, err = execute(t, "", "config", "set", "output.default_format", "json")
		require.NoError(t, err)
		data, err := os.ReadFile(configPath())
		require.NoError(t, err)
		assert.Contains(t, string(data), "page_size: 12")
		assert.Contains(t, string(data), "default_format: json")
	})

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "unknown key", args: []string{"set", "display.colour", "red"}, wantErr: "unknown config key"},
		{name: "not a number", args: []string{"set", "display.page_size", "many"}, wantErr: "display.page_size"},
		{name: "invalid value", args: []string{"set", "display.page_size", "0"}, wantErr: "refusing to save invalid configuration"},
		{name: "get unknown key", args: []string{"get", "nope"}, wantErr: "unknown config key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", append([]string{"config"}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigList(t *testing.T) {
	setupCLI(t)

	out, err := execute(t, "", "config", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "KEY")
	assert.Regexp(t, `display\.page_size\s+5`, out)

	out, err = execute(t, "", "config", "list", "-o", "json")
	require.NoError(t, err)
	var values map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &values), out)
	assert.Len(t, values, len(config.Keys()))
	assert.Equal(t, "false", values["cache.enabled"])
}

func TestConfigValidate(t *testing.T) {
	setupCLI(t)

	out, err := execute(t, "", "config", "validate", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")
	assert.Contains(t, out, "Cache: disabled")
	assert.Contains(t, out, "Page size: 5")

	t.Run("invalid file", func(t *testing.T) {
		require.NoError(t, os.WriteFile(configPath(), []byte("display:\n  page_size: -1\n"), 0o600))

		_, err := execute(t, "", "config", "validate")
		require.Error(t, err)
	})
}
