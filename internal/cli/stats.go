package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/bookcat/internal/config"
)

// NewStatsCmd creates the stats command.
func NewStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show catalog statistics",
		Long:  "Shows the number of books, distinct authors and distinct publishers.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := config.GetGlobalConfig()
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			svc, err := sessionFrom(cmd).catalog(ctx)
			if err != nil {
				return err
			}
			stats, err := svc.Stats(ctx)
			if err != nil {
				return fmt.Errorf("failed to load statistics: %w", err)
			}
			return renderStats(cmd.OutOrStdout(), format, stats, cfg.Display.Locale)
		},
	}
}
