package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newBatchCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "batch [query...]",
		Short: "Run multiple queries, one per argument or stdin line",
		RunE: func(cmd *cobra.Command, args []string) error {
			queries := args
			if len(queries) == 0 {
				scanner := bufio.NewScanner(os.Stdin)
				for scanner.Scan() {
					queries = append(queries, scanner.Text())
				}
				if err := scanner.Err(); err != nil {
					return fmt.Errorf("read queries: %w", err)
				}
			}
			if len(queries) == 0 {
				return fmt.Errorf("no queries given")
			}

			a, err := newApp(configPath)
			if err != nil {
				return err
			}
			defer a.close()

			out := a.service.BatchSearch(context.Background(), queries, nil)

			for _, q := range queries {
				res := out.Results[q]
				if res.Success {
					fmt.Printf("ok   %-40q %d results\n", q, res.Metadata.TotalResults)
				} else {
					fmt.Printf("fail %-40q %s\n", q, res.Error)
				}
			}
			fmt.Printf("\n%d/%d successful, %d failed\n",
				out.Summary.Successful, out.Summary.Total, out.Summary.Failed)

			if !out.Success {
				return fmt.Errorf("%d queries failed", out.Summary.Failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "searchcache.yaml", "path to config file")
	return cmd
}
