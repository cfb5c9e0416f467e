package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newCacheCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the search result cache",
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(configPath)
			if err != nil {
				return err
			}
			defer a.close()

			stats, err := a.store.Stats(context.Background())
			if err != nil {
				return err
			}
			fmt.Printf("Fast tier:    %d entries, %d bytes\n", stats.FastEntries, stats.FastBytes)
			fmt.Printf("Durable tier: %d entries, %d bytes\n", stats.DurableEntries, stats.DurableBytes)
			fmt.Printf("Hits:   %d\nMisses: %d\n", stats.Hits, stats.Misses)
			return nil
		},
	}

	cleanCmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove expired durable entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(configPath)
			if err != nil {
				return err
			}
			defer a.close()

			n, err := a.store.CleanExpired(context.Background())
			if err != nil {
				return err
			}
			fmt.Printf("Removed %d expired entries.\n", n)
			return nil
		},
	}

	purgeCmd := &cobra.Command{
		Use:   "purge <glob>",
		Short: "Remove cache entries whose key matches a glob",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(configPath)
			if err != nil {
				return err
			}
			defer a.close()

			n, err := a.store.DeletePattern(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Removed %d entries.\n", n)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "searchcache.yaml", "path to config file")
	cmd.AddCommand(statsCmd, cleanCmd, purgeCmd)
	return cmd
}
