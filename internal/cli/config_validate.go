package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/bookcat/internal/config"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		Long: `Validates the effective configuration: the file at ~/.bookcat/config.yaml
with any --config overlay, .env file and BOOKCAT_* variables applied.

This includes:
- Schema version compatibility
- Endpoint URL, timeout and rate limit
- Page size, page window, date format, sort expression and locale
- Output format
- Cache backend settings
- Log level and format`,
		Example: `  # Validate current configuration
  bookcat config validate

  # Validate and show detailed information
  bookcat config validate --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := config.GetGlobalConfig()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	cmd.Printf("✅ Configuration is valid\n")

	if verbose {
		printVerboseDetails(cmd, cfg)
	}

	return nil
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Config file: %s\n", cfg.ConfigPath())
	cmd.Printf("  Endpoint: %s\n", cfg.API.Endpoint)
	cmd.Printf("  Timeout: %s\n", cfg.API.Timeout)
	if cfg.API.RateLimit > 0 {
		cmd.Printf("  Rate limit: %g req/s (burst %d)\n", cfg.API.RateLimit, cfg.API.Burst)
	} else {
		cmd.Println("  Rate limit: off")
	}
	cmd.Printf("  Page size: %d\n", cfg.Display.PageSize)
	cmd.Printf("  Output format: %s\n", cfg.Output.DefaultFormat)
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	cmd.Printf("  Log file: %s\n", cfg.Logging.File)

	printCacheDetails(cmd, cfg)
}

// printCacheDetails prints the cache backend summary.
func printCacheDetails(cmd *cobra.Command, cfg *config.Config) {
	if !cfg.Cache.Enabled {
		cmd.Println("  Cache: disabled")
		return
	}
	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		cmd.Printf("  Cache: redis at %s (db %d, ttl %ds)\n", cfg.Cache.RedisAddr, cfg.Cache.RedisDB, cfg.Cache.TTLSeconds)
	default:
		cmd.Printf("  Cache: file in %s (ttl %ds)\n", cfg.Cache.Directory, cfg.Cache.TTLSeconds)
	}
}
