package cli_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/bookcat/internal/cache"
	"github.com/rshade/bookcat/internal/catalog/catalogtest"
)

// enableFileCache turns the file cache on in a fresh directory.
func enableFileCache(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(cache.EnvCacheEnabled, "true")
	t.Setenv(cache.EnvCacheDir, dir)
	return dir
}

func TestCache_ServesRepeatedReads(t *testing.T) {
	srv := setupCLI(t, catalogtest.Seq(3)...)
	enableFileCache(t)

	for range 2 {
		_, err := execute(t, "", "list", "-o", "json")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, srv.Calls("books"))

	t.Run("no-cache flag bypasses it", func(t *testing.T) {
		_, err := execute(t, "", "list", "--no-cache")
		require.NoError(t, err)
		assert.Equal(t, 2, srv.Calls("books"))
	})

	t.Run("mutations invalidate it", func(t *testing.T) {
		_, err := execute(t, "", "add", "--title", "Dune", "--author", "Frank Herbert")
		require.NoError(t, err)

		out, err := execute(t, "", "list", "-o", "json")
		require.NoError(t, err)
		assert.Equal(t, 3, srv.Calls("books"))
		assert.Equal(t, "Dune", decodeListing(t, out).Books[0].Title)
	})
}

func TestCacheCommands(t *testing.T) {
	srv := setupCLI(t, catalogtest.Seq(2)...)
	dir := enableFileCache(t)

	_, err := execute(t, "", "list")
	require.NoError(t, err)

	out, err := execute(t, "", "cache", "info")
	require.NoError(t, err)
	assert.Contains(t, out, "enabled")
	assert.Regexp(t, `Backend:\s+file`, out)
	assert.Regexp(t, `Directory:\s+`+regexp.QuoteMeta(dir), out)
	assert.Regexp(t, `Entries:\s+1`, out)

	out, err = execute(t, "", "cache", "prune")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 0 expired entries")

	out, err = execute(t, "", "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cache cleared")

	out, err = execute(t, "", "cache", "info")
	require.NoError(t, err)
	assert.Regexp(t, `Entries:\s+0`, out)

	_, err = execute(t, "", "list")
	require.NoError(t, err)
	assert.Equal(t, 2, srv.Calls("books"))
}

func TestCacheCommands_Disabled(t *testing.T) {
	setupCLI(t)

	out, err := execute(t, "", "cache", "info")
	require.NoError(t, err)
	assert.Regexp(t, `Cache:\s+disabled`, out)

	out, err = execute(t, "", "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cache is disabled, nothing to clear")

	out, err = execute(t, "", "cache", "prune")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to prune")
}
