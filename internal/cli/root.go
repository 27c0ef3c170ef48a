package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/bookcat/internal/config"
	"github.com/rshade/bookcat/internal/logging"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the bookcat CLI.
// It loads configuration, wires up logging, tracing and audit logging, and
// registers the book, browse, cache and config subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var (
		logResult *logging.LogPathResult
		sess      *session
	)

	cmd := &cobra.Command{
		Use:          "bookcat",
		Short:        "Terminal client for a GraphQL book catalog",
		Long:         "bookcat: list, search, filter, page through and edit the books of a remote GraphQL catalog",
		Version:      ver,
		Example:      rootCmdExample,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			config.SetGlobalConfig(cfg)

			result := setupLogging(cmd)
			logResult = &result

			sess = newSession(cfg)
			cmd.SetContext(contextWithSession(cmd.Context(), sess))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if sess != nil {
				sess.close(cmd.Context())
			}
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "YAML file merged over the configuration file")
	cmd.PersistentFlags().String("endpoint", "", "GraphQL endpoint (overrides config and BOOKCAT_ENDPOINT)")
	cmd.PersistentFlags().Bool("no-cache", false, "bypass the result cache")
	cmd.PersistentFlags().StringP("output", "o", "", "output format: table, json, ndjson or yaml (default from config)")

	cmd.AddCommand(
		NewListCmd(), NewSearchCmd(), NewByAuthorCmd(), NewGetCmd(),
		NewAddCmd(), NewUpdateCmd(), NewDeleteCmd(),
		NewStatsCmd(), NewImportCmd(), NewBrowseCmd(),
		newCacheCmd(), newConfigCmd(),
	)

	return cmd
}

const rootCmdExample = `  # Browse the catalog interactively
  bookcat browse

  # List the second page of books, five per page
  bookcat list --page 2 --page-size 5

  # Search titles and print JSON
  bookcat search gatsby --output json

  # Show every book by an author, sorted by title
  bookcat by-author "Jane Austen" --sort title

  # Add, update and delete books
  bookcat add --title "Dune" --author "Frank Herbert" --publisher "Chilton"
  bookcat update 42 --publisher "Ace"
  bookcat delete 42 --yes

  # Import books from a YAML file
  bookcat import books.yaml

  # Point at another catalog
  bookcat list --endpoint https://books.example.com/graphql

  # Initialize configuration
  bookcat config init`

// loadConfig builds the configuration for this invocation. Flags win over
// everything else.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	overlay, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.LoadOptions{
		OverlayPath: overlay,
		DotEnvPath:  config.DefaultDotEnvPath,
	})
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	if cmd.Flags().Changed("endpoint") {
		cfg.API.Endpoint, _ = cmd.Flags().GetString("endpoint")
	}
	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		cfg.Cache.Enabled = false
	}
	return cfg, nil
}

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(
		NewConfigInitCmd(), NewConfigSetCmd(), NewConfigGetCmd(),
		NewConfigListCmd(), NewConfigValidateCmd(),
	)
	return cmd
}

// newCacheCmd creates the cache command group.
func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "cache", Short: "Result cache commands"}
	cmd.AddCommand(NewCacheInfoCmd(), NewCacheClearCmd(), NewCachePruneCmd())
	return cmd
}
