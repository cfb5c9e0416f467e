package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newPopularCmd() *cobra.Command {
	var (
		configPath string
		refresh    bool
	)

	cmd := &cobra.Command{
		Use:   "popular",
		Short: "Show the current popular-query set",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(configPath)
			if err != nil {
				return err
			}
			defer a.close()

			ctx := context.Background()
			if refresh {
				a.popular.Invalidate(ctx)
			}

			queries := a.popular.Queries(ctx)
			if len(queries) == 0 {
				fmt.Println("No popular queries yet.")
				return nil
			}
			sort.Strings(queries)
			for _, q := range queries {
				fmt.Println(q)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "searchcache.yaml", "path to config file")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute the set before printing")
	return cmd
}
