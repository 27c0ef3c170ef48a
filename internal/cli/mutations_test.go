package cli_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/bookcat/internal/book"
	"github.com/rshade/bookcat/internal/catalog/catalogtest"
	"github.com/rshade/bookcat/internal/config"
	"github.com/rshade/bookcat/internal/logging"
)

func TestAdd(t *testing.T) {
	srv := setupCLI(t)

	out, err := execute(t, "", "add", "--title", "  Dune ", "--author", "Frank Herbert", "--publisher", "Chilton")
	require.NoError(t, err)
	assert.Contains(t, out, "Book created successfully")
	assert.Contains(t, out, "Dune")

	books := srv.Books()
	require.Len(t, books, 1)
	assert.Equal(t, "Dune", books[0].Title)
	assert.Equal(t, "Chilton", books[0].Publisher)
}

func TestAdd_JSONOutputHasNoStatusLine(t *testing.T) {
	setupCLI(t)

	out, err := execute(t, "", "add", "--title", "Emma", "--author", "Jane Austen", "-o", "json")
	require.NoError(t, err)

	var rec book.Record
	require.NoError(t, json.Unmarshal([]byte(out), &rec), out)
	assert.Equal(t, "Emma", rec.Title)
	assert.NotEmpty(t, rec.ID)
}

func TestAdd_Validation(t *testing.T) {
	srv := setupCLI(t)

	tests := []struct {
		name      string
		args      []string
		wantField string
	}{
		{name: "short title", args: []string{"--title", "X", "--author", "Al Author"}, wantField: "title"},
		{name: "blank author", args: []string{"--title", "Dune", "--author", "   "}, wantField: "author"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", append([]string{"add"}, tt.args...)...)
			require.Error(t, err)

			var verrs book.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.NotNil(t, verrs.Field(tt.wantField))
		})
	}

	t.Run("required flags", func(t *testing.T) {
		_, err := execute(t, "", "add", "--title", "Dune")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "author")
	})

	assert.Zero(t, srv.Calls("addBook"))
}

func TestUpdate(t *testing.T) {
	seed := catalogtest.Seq(3)
	seed[2].Publisher = "Penguin"
	srv := setupCLI(t, seed...)

	t.Run("changes only the given fields", func(t *testing.T) {
		out, err := execute(t, "", "update", "3", "--title", "Book Three", "-o", "json")
		require.NoError(t, err)

		var rec book.Record
		require.NoError(t, json.Unmarshal([]byte(out), &rec), out)
		assert.Equal(t, "Book Three", rec.Title)
		assert.Equal(t, "Author 3", rec.Author)
		assert.Equal(t, "Penguin", rec.Publisher)
	})

	t.Run("empty publisher clears it", func(t *testing.T) {
		_, err := execute(t, "", "update", "3", "--publisher", "")
		require.NoError(t, err)
		assert.Empty(t, srv.Books()[0].Publisher)
	})

	t.Run("nothing to update", func(t *testing.T) {
		_, err := execute(t, "", "update", "3")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nothing to update")
	})

	t.Run("missing book", func(t *testing.T) {
		_, err := execute(t, "", "update", "42", "--title", "Nope")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load book for editing")
	})
}

func TestDelete(t *testing.T) {
	t.Run("confirmed", func(t *testing.T) {
		srv := setupCLI(t, catalogtest.Seq(3)...)

		out, err := execute(t, "y\n", "delete", "3")
		require.NoError(t, err)
		assert.Contains(t, out, `Delete "Book 3" by Author 3?`)
		assert.Contains(t, out, "Book 3 deleted successfully")
		assert.Len(t, srv.Books(), 2)
	})

	t.Run("declined", func(t *testing.T) {
		srv := setupCLI(t, catalogtest.Seq(3)...)

		out, err := execute(t, "\n", "delete", "3")
		require.NoError(t, err)
		assert.Contains(t, out, "Delete cancelled")
		assert.Len(t, srv.Books(), 3)
		assert.Zero(t, srv.Calls("deleteBook"))
	})

	t.Run("yes flag deletes several without asking", func(t *testing.T) {
		srv := setupCLI(t, catalogtest.Seq(3)...)

		out, err := execute(t, "", "delete", "1", "2", "--yes")
		require.NoError(t, err)
		assert.NotContains(t, out, "[y/N]")
		assert.Equal(t, []string{"Book 3"}, titlesOf(srv.Books()))
	})

	t.Run("server did not delete", func(t *testing.T) {
		setupCLI(t, catalogtest.Seq(1)...)

		_, err := execute(t, "", "delete", "77", "--yes")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not deleted")
	})
}

func TestMutations_AuditLog(t *testing.T) {
	setupCLI(t, catalogtest.Seq(1)...)
	t.Setenv(config.EnvAuditEnabled, "true")

	_, err := execute(t, "", "add", "--title", "Dune", "--author", "Frank Herbert")
	require.NoError(t, err)
	_, err = execute(t, "", "add", "--title", "D", "--author", "Frank Herbert")
	require.Error(t, err)

	home := os.Getenv(config.EnvHome)
	data, err := os.ReadFile(filepath.Join(home, "logs", "audit.log"))
	require.NoError(t, err)

	var entries []logging.AuditEntry
	dec := json.NewDecoder(bytes.NewReader(data))
	for dec.More() {
		var e logging.AuditEntry
		require.NoError(t, dec.Decode(&e))
		entries = append(entries, e)
	}
	require.Len(t, entries, 2)
	assert.Equal(t, "add", entries[0].Command)
	assert.True(t, entries[0].Success)
	assert.Equal(t, 1, entries[0].Affected)
	assert.NotEmpty(t, entries[0].TraceID)
	assert.False(t, entries[1].Success)
	assert.Contains(t, entries[1].Error, "title")
}
