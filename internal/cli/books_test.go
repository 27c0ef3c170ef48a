package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/bookcat/internal/book"
	"github.com/rshade/bookcat/internal/cache"
	"github.com/rshade/bookcat/internal/catalog/catalogtest"
	"github.com/rshade/bookcat/internal/cli"
	"github.com/rshade/bookcat/internal/config"
	"github.com/rshade/bookcat/internal/logging"
	"github.com/rshade/bookcat/internal/pagination"
)

// setupCLI isolates the config home, disables the cache and points the
// CLI at an in-memory catalog seeded with books.
func setupCLI(t *testing.T, seed ...book.Record) *catalogtest.Server {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(logging.EnvLogLevel, "error")
	t.Setenv(logging.EnvLogFormat, "")
	t.Setenv(cache.EnvCacheEnabled, "false")
	for _, name := range []string{
		config.EnvAPITimeout, config.EnvRateLimit, config.EnvPageSize, config.EnvOutputFormat,
		config.EnvCacheBackend, config.EnvRedisAddr, config.EnvLogFile, config.EnvAuditEnabled,
		config.EnvMetricsTextfile, cache.EnvTTLSeconds, cache.EnvCacheDir,
	} {
		t.Setenv(name, "")
	}

	srv := catalogtest.NewServer(t, seed...)
	t.Setenv(config.EnvEndpoint, srv.Endpoint())
	t.Cleanup(config.ResetGlobalConfigForTest)
	return srv
}

// execute runs the root command with args and returns everything it printed.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

type listingJSON struct {
	Query      string                     `json:"query"`
	Books      []book.Record              `json:"books"`
	Pagination *pagination.PaginationMeta `json:"pagination"`
}

func decodeListing(t *testing.T, out string) listingJSON {
	t.Helper()
	var l listingJSON
	require.NoError(t, json.Unmarshal([]byte(out), &l), out)
	return l
}

func titlesOf(records []book.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Title
	}
	return out
}

func TestList_Table(t *testing.T) {
	setupCLI(t, catalogtest.Seq(12)...)

	out, err := execute(t, "", "list")
	require.NoError(t, err)

	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "Book 12")
	assert.Contains(t, out, "Book 8")
	assert.NotContains(t, out, "Book 7")
	assert.Contains(t, out, "Page 1 of 3 (12 total books)")
	assert.Contains(t, out, "[1] 2 3  Next »")
}

func TestList_Pages(t *testing.T) {
	setupCLI(t, catalogtest.Seq(12)...)

	tests := []struct {
		name       string
		args       []string
		wantTitles []string
		wantPage   int
		wantTotal  int
	}{
		{
			name:       "second page",
			args:       []string{"--page", "2"},
			wantTitles: []string{"Book 7", "Book 6", "Book 5", "Book 4", "Book 3"},
			wantPage:   2,
			wantTotal:  3,
		},
		{
			name:       "page past the end clamps to the last page",
			args:       []string{"--page", "9"},
			wantTitles: []string{"Book 2", "Book 1"},
			wantPage:   3,
			wantTotal:  3,
		},
		{
			name:       "custom page size",
			args:       []string{"--page", "1", "--page-size", "8"},
			wantTitles: []string{"Book 12", "Book 11", "Book 10", "Book 9", "Book 8", "Book 7", "Book 6", "Book 5"},
			wantPage:   1,
			wantTotal:  2,
		},
		{
			name:       "offset and limit",
			args:       []string{"--offset", "10", "--limit", "5"},
			wantTitles: []string{"Book 2", "Book 1"},
			wantPage:   3,
			wantTotal:  3,
		},
		{
			name:       "offset mode ignores page size",
			args:       []string{"--offset", "10", "--limit", "5", "--page-size", "3"},
			wantTitles: []string{"Book 2", "Book 1"},
			wantPage:   3,
			wantTotal:  3,
		},
		{
			name:       "sorted by title",
			args:       []string{"--sort", "title", "--page-size", "3"},
			wantTitles: []string{"Book 1", "Book 10", "Book 11"},
			wantPage:   1,
			wantTotal:  4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"list", "--output", "json"}, tt.args...)
			out, err := execute(t, "", args...)
			require.NoError(t, err)

			l := decodeListing(t, out)
			assert.Equal(t, tt.wantTitles, titlesOf(l.Books))
			require.NotNil(t, l.Pagination)
			assert.Equal(t, tt.wantPage, l.Pagination.CurrentPage)
			assert.Equal(t, tt.wantTotal, l.Pagination.TotalPages)
			assert.Equal(t, 12, l.Pagination.TotalItems)
		})
	}
}

func TestList_InvalidFlags(t *testing.T) {
	setupCLI(t, catalogtest.Seq(3)...)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "mixed modes", args: []string{"--page", "2", "--offset", "3"}, wantErr: "cannot use both"},
		{name: "page with limit", args: []string{"--page", "2", "--limit", "3", "--page-size", "5"}, wantErr: "cannot use both"},
		{name: "bad sort field", args: []string{"--sort", "price"}, wantErr: "invalid sort field"},
		{name: "bad sort order", args: []string{"--sort", "title:up"}, wantErr: "invalid sort expression"},
		{name: "bad mode", args: []string{"--mode", "genre"}, wantErr: "unknown view mode"},
		{name: "bad output", args: []string{"--output", "xml"}, wantErr: "unsupported output format"},
		{name: "bad endpoint", args: []string{"--endpoint", "ftp://books"}, wantErr: "invalid GraphQL endpoint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", append([]string{"list"}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestList_ServerError(t *testing.T) {
	srv := setupCLI(t, catalogtest.Seq(3)...)
	srv.Fail("books", "database unavailable")

	_, err := execute(t, "", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load books: database unavailable")
}

func TestList_Empty(t *testing.T) {
	setupCLI(t)

	out, err := execute(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No books found.")
}

func TestSearchAndByAuthor(t *testing.T) {
	setupCLI(t, catalogtest.Seq(12)...)

	t.Run("search", func(t *testing.T) {
		out, err := execute(t, "", "search", "book", "1", "--output", "json", "--page-size", "10")
		require.NoError(t, err)
		l := decodeListing(t, out)
		assert.Equal(t, `search "book 1"`, l.Query)
		assert.Equal(t, []string{"Book 12", "Book 11", "Book 10", "Book 1"}, titlesOf(l.Books))
	})

	t.Run("by author", func(t *testing.T) {
		out, err := execute(t, "", "by-author", "Author 2", "--output", "json")
		require.NoError(t, err)
		l := decodeListing(t, out)
		assert.Equal(t, []string{"Book 11", "Book 8", "Book 5", "Book 2"}, titlesOf(l.Books))
	})

	t.Run("list with search mode", func(t *testing.T) {
		out, err := execute(t, "", "list", "--mode", "search", "--term", "Book 12", "--output", "json")
		require.NoError(t, err)
		assert.Equal(t, []string{"Book 12"}, titlesOf(decodeListing(t, out).Books))
	})

	t.Run("blank term", func(t *testing.T) {
		_, err := execute(t, "", "search", "  ")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to search books")
	})
}

func TestList_NDJSONAndYAML(t *testing.T) {
	setupCLI(t, catalogtest.Seq(2)...)

	out, err := execute(t, "", "list", "--output", "ndjson")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], `"type":"summary"`)
	assert.Contains(t, lines[1], `"title":"Book 2"`)

	out, err = execute(t, "", "list", "--output", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "books:")
	assert.Contains(t, out, "title: Book 1")
	assert.Contains(t, out, "total_items: 2")
}

func TestGet(t *testing.T) {
	setupCLI(t, catalogtest.Seq(4)...)

	t.Run("single", func(t *testing.T) {
		out, err := execute(t, "", "get", "2")
		require.NoError(t, err)
		assert.Contains(t, out, "Title:")
		assert.Contains(t, out, "Book 2")
		assert.Contains(t, out, "Not specified")
	})

	t.Run("several keep argument order", func(t *testing.T) {
		out, err := execute(t, "", "get", "3", "1", "--output", "json")
		require.NoError(t, err)
		assert.Equal(t, []string{"Book 3", "Book 1"}, titlesOf(decodeListing(t, out).Books))
	})

	t.Run("missing", func(t *testing.T) {
		_, err := execute(t, "", "get", "99")
		require.Error(t, err)
	})
}

func TestStats(t *testing.T) {
	seed := catalogtest.Seq(5)
	seed[0].Publisher = "Penguin"
	seed[1].Publisher = "Penguin"
	seed[2].Publisher = "Vintage"
	setupCLI(t, seed...)

	out, err := execute(t, "", "stats")
	require.NoError(t, err)
	assert.Regexp(t, `Books:\s+5`, out)
	assert.Regexp(t, `Authors:\s+3`, out)
	assert.Regexp(t, `Publishers:\s+2`, out)

	out, err = execute(t, "", "stats", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":5,"authors":3,"publishers":2}`, out)
}

func TestBrowse_RequiresTerminal(t *testing.T) {
	setupCLI(t)

	_, err := execute(t, "", "browse")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive terminal")
}

func TestMetricsTextfile(t *testing.T) {
	setupCLI(t, catalogtest.Seq(2)...)
	path := filepath.Join(t.TempDir(), "bookcat.prom")
	t.Setenv(config.EnvMetricsTextfile, path)

	_, err := execute(t, "", "list")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `bookcat_graphql_requests_total{operation="books",outcome="ok"} 1`)
}
