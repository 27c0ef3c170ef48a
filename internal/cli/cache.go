package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/bookcat/internal/cache"
	"github.com/rshade/bookcat/internal/config"
)

// NewCacheInfoCmd creates the cache info command.
func NewCacheInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the result cache settings and size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			cc := cfg.Cache

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, tabPadding, ' ', 0)
			if !cc.Enabled {
				fmt.Fprintln(w, "Cache:\tdisabled")
				return w.Flush()
			}
			fmt.Fprintln(w, "Cache:\tenabled")
			fmt.Fprintf(w, "Backend:\t%s\n", cc.Backend)
			fmt.Fprintf(w, "TTL:\t%s\n", cache.FormatDuration(time.Duration(cc.TTLSeconds)*time.Second))

			store, err := sessionFrom(cmd).cacheStore(cmd.Context())
			if err != nil {
				return errors.Join(w.Flush(), err)
			}
			switch s := store.(type) {
			case *cache.FileStore:
				count, size, statErr := s.Stats()
				if statErr != nil {
					return errors.Join(w.Flush(), statErr)
				}
				fmt.Fprintf(w, "Directory:\t%s\n", s.Directory())
				fmt.Fprintf(w, "Entries:\t%d\n", count)
				fmt.Fprintf(w, "Size:\t%d bytes\n", size)
			case *cache.RedisStore:
				fmt.Fprintf(w, "Address:\t%s\n", cc.RedisAddr)
				fmt.Fprintf(w, "Prefix:\t%s\n", cc.RedisPrefix)
			}
			return w.Flush()
		},
	}
}

// NewCacheClearCmd creates the cache clear command.
func NewCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop every cached result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := sessionFrom(cmd).cacheStore(ctx)
			if err != nil {
				return err
			}
			if store == nil {
				cmd.Println("Cache is disabled, nothing to clear")
				return nil
			}
			if err := store.Clear(ctx); err != nil {
				return fmt.Errorf("clearing cache: %w", err)
			}
			cmd.Println("Cache cleared")
			return nil
		},
	}
}

// NewCachePruneCmd creates the cache prune command.
func NewCachePruneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired entries from the file cache",
		Long:  "Removes expired entries from the file cache. Redis expires entries on its own.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := sessionFrom(cmd).cacheStore(cmd.Context())
			if err != nil {
				return err
			}
			fs, ok := store.(*cache.FileStore)
			if !ok {
				cmd.Println("Nothing to prune for this cache backend")
				return nil
			}
			removed, err := fs.CleanupExpired()
			if err != nil {
				return fmt.Errorf("pruning cache: %w", err)
			}
			cmd.Printf("Removed %d expired entries\n", removed)
			return nil
		},
	}
}
