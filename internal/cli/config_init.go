package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/bookcat/internal/config"
)

// NewConfigInitCmd creates the config init command for initializing configuration.
func NewConfigInitCmd() *cobra.Command {
	var (
		force    bool
		endpoint string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates ~/.bookcat/config.yaml with default values. Set BOOKCAT_HOME to use
another directory.`,
		Example: `  # Create the configuration file
  bookcat config init

  # Create it for a specific catalog
  bookcat config init --api-endpoint https://books.example.com/graphql

  # Create configuration, overwriting existing
  bookcat config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(cmd, force, endpoint)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().StringVar(&endpoint, "api-endpoint", "", "GraphQL endpoint to write into the new file")

	return cmd
}

// initConfig writes the default configuration to its default location.
func initConfig(cmd *cobra.Command, force bool, endpoint string) error {
	cfg := config.Default()
	if cfg.ConfigPath() == "" {
		return errors.New("cannot determine the configuration directory; set BOOKCAT_HOME")
	}

	// Check if config already exists and force isn't set
	if !force {
		if _, err := os.Stat(cfg.ConfigPath()); err == nil {
			return errors.New("configuration file already exists, use --force to overwrite")
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("cannot access config path %s: %w", cfg.ConfigPath(), err)
		}
	}

	if endpoint != "" {
		cfg.API.Endpoint = endpoint
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	cmd.Printf("Configuration initialized successfully\n")
	cmd.Printf("Configuration file: %s\n", cfg.ConfigPath())

	return nil
}
