package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmdFlags struct {
	CacheFlags
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the result cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:           "stats",
	Short:         "Show cache entry counts",
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := effectiveConfig(cacheCmdFlags.CacheFlags, CheckFlags{})

		store, cleanup, err := newCacheStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer cleanup()
		if store == nil {
			return fmt.Errorf("caching is disabled")
		}

		stats, err := store.Stats(ctx)
		if err != nil {
			return fmt.Errorf("failed to read cache stats: %w", err)
		}

		fmt.Printf("Total entries: %d\n", stats.TotalEntries)
		fmt.Printf("Active entries: %d\n", stats.ActiveEntries)
		fmt.Printf("Expired entries: %d\n", stats.ExpiredEntries)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:           "clear",
	Short:         "Remove every cached entry",
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := effectiveConfig(cacheCmdFlags.CacheFlags, CheckFlags{})

		store, cleanup, err := newCacheStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer cleanup()
		if store == nil {
			return fmt.Errorf("caching is disabled")
		}

		if err := store.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		fmt.Println("Cache cleared.")
		return nil
	},
}

func init() {
	addCacheFlags(cacheStatsCmd, &cacheCmdFlags.CacheFlags)
	addCacheFlags(cacheClearCmd, &cacheCmdFlags.CacheFlags)

	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
