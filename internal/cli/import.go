package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/bookcat/internal/book"
	"github.com/rshade/bookcat/internal/catalog"
	"github.com/rshade/bookcat/internal/logging"
)

// importEntry is one book in an import file.
type importEntry struct {
	Title     string `json:"title"     yaml:"title"`
	Author    string `json:"author"    yaml:"author"`
	Publisher string `json:"publisher" yaml:"publisher"`
}

// importFile is the wrapped form of an import file.
type importFile struct {
	Books []importEntry `json:"books" yaml:"books"`
}

// NewImportCmd creates the import command.
func NewImportCmd() *cobra.Command {
	var (
		concurrency int
		quiet       bool
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Create books from a YAML or JSON file",
		Long: `Creates every book listed in a YAML or JSON file. The file holds either a
list of {title, author, publisher} entries or an object with a "books" list.

Every entry is validated first; if any is invalid nothing is created. Valid
entries are then created concurrently. Entries the catalog rejects are
reported and do not stop the others.`,
		Example: `  bookcat import books.yaml
  bookcat import books.json --concurrency 8`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], concurrency, quiet)
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", catalog.DefaultConcurrency,
		"number of books created at once")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "hide the progress bar")
	return cmd
}

func runImport(cmd *cobra.Command, path string, concurrency int, quiet bool) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)
	audit := newAuditContext(ctx, "import", map[string]string{
		"file":        path,
		"concurrency": strconv.Itoa(concurrency),
	})

	if concurrency < 1 {
		return fmt.Errorf("concurrency must be >= 1, got %d", concurrency)
	}
	inputs, err := readImportFile(path)
	if err != nil {
		return audit.finish(ctx, 0, err)
	}
	if len(inputs) == 0 {
		cmd.Println("No books to import")
		return audit.finish(ctx, 0, nil)
	}

	sess := sessionFrom(cmd)
	sess.concurrency = concurrency
	svc, err := sess.catalog(ctx)
	if err != nil {
		return audit.finish(ctx, 0, err)
	}

	bar := progressbar.NewOptions(len(inputs),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetDescription("Importing books"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetVisibility(!quiet),
		progressbar.OptionClearOnFinish(),
	)
	result, err := svc.Import(ctx, inputs, func() { _ = bar.Add(1) })
	_ = bar.Finish()

	var invalid *catalog.ImportValidationError
	if errors.As(err, &invalid) {
		for _, e := range invalid.Entries {
			cmd.PrintErrf("  entry %d: %v\n", e.Index+1, e.Err)
		}
		return audit.finish(ctx, 0, fmt.Errorf("import file has %d invalid entries, nothing was imported: %w", len(invalid.Entries), err))
	}
	if err != nil {
		return audit.finish(ctx, len(result.Created), fmt.Errorf("import interrupted: %w", err))
	}

	cmd.Printf("Imported %d of %d books\n", len(result.Created), len(inputs))
	for _, f := range result.Failed {
		cmd.PrintErrf("  entry %d (%q): %v\n", f.Index+1, f.Input.Title, f.Err)
	}
	log.Info().Ctx(ctx).
		Int("created", len(result.Created)).
		Int("failed", len(result.Failed)).
		Msg("import finished")

	if len(result.Failed) > 0 {
		return audit.finish(ctx, len(result.Created),
			fmt.Errorf("%d of %d books failed to import", len(result.Failed), len(inputs)))
	}
	return audit.finish(ctx, len(result.Created), nil)
}

// readImportFile decodes path by extension. Unknown extensions are read as
// YAML, which also accepts JSON.
func readImportFile(path string) ([]book.Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading import file: %w", err)
	}

	var entries []importEntry
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		entries, err = decodeJSONEntries(data)
	default:
		entries, err = decodeYAMLEntries(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing import file %s: %w", path, err)
	}

	inputs := make([]book.Input, len(entries))
	for i, e := range entries {
		inputs[i] = book.NewInput(e.Title, e.Author, e.Publisher)
	}
	return inputs, nil
}

func decodeJSONEntries(data []byte) ([]importEntry, error) {
	data = bytes.TrimSpace(data)
	if bytes.HasPrefix(data, []byte("[")) {
		var entries []importEntry
		err := json.Unmarshal(data, &entries)
		return entries, err
	}
	var wrapped importFile
	err := json.Unmarshal(data, &wrapped)
	return wrapped.Books, err
}

func decodeYAMLEntries(data []byte) ([]importEntry, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	if node.Content[0].Kind == yaml.SequenceNode {
		var entries []importEntry
		err := node.Decode(&entries)
		return entries, err
	}
	var wrapped importFile
	err := node.Decode(&wrapped)
	return wrapped.Books, err
}
