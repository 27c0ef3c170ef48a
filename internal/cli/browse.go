package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/bookcat/internal/config"
	"github.com/rshade/bookcat/internal/tui"
)

// NewBrowseCmd creates the browse command, which starts the interactive
// catalog browser.
func NewBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the catalog interactively",
		Long: `Opens a full-screen browser over the catalog.

Keys:
  ←/→, h/l, PgUp/PgDn   previous/next page      1-9   jump to page
  ↑/↓, j/k              move the selection       enter show details
  /                     search titles            b     filter by author
  x                     show all books           r/F5  reload
  a                     add a book               e     edit the selected book
  d                     delete the selected book q     quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !tui.IsTTY() || !tui.IsInputTTY() {
				return errors.New("browse needs an interactive terminal; use 'bookcat list' instead")
			}
			return runBrowse(cmd)
		},
	}
}

func runBrowse(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg := config.GetGlobalConfig()

	svc, err := sessionFrom(cmd).catalog(ctx)
	if err != nil {
		return err
	}

	model := tui.NewCatalogModel(ctx, svc, tui.Options{
		PageSize:        cfg.Display.PageSize,
		MaxVisiblePages: cfg.Display.MaxVisiblePages,
		DateFormat:      cfg.Display.DateFormat,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run interactive TUI: %w", err)
	}
	return nil
}
