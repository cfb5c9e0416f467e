package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSearchCmd() *cobra.Command {
	var (
		configPath string
		limit      int
		answer     bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run a query through the cache and the backend",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(configPath)
			if err != nil {
				return err
			}
			defer a.close()

			opts := map[string]any{}
			if cmd.Flags().Changed("limit") {
				opts["limit"] = limit
			}
			if cmd.Flags().Changed("answer") {
				opts["include_answer"] = answer
			}

			out := a.service.Search(context.Background(), strings.Join(args, " "), opts)
			if !out.Success {
				return fmt.Errorf("search failed: %s", out.Error)
			}

			source := "backend"
			if out.Cached {
				source = "cache"
			}
			fmt.Printf("%d results for %q in %dms (%s)\n",
				out.Metadata.TotalResults, out.Metadata.Query, out.Metadata.ResponseTimeMs, source)
			if out.Metadata.HasAnswer {
				fmt.Printf("Answer: %s\n", out.Metadata.Answer)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "#\tTITLE\tURL\tSCORE")
			for _, item := range out.Results {
				fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\n", item.Position, item.Title, item.URL, item.Score)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "searchcache.yaml", "path to config file")
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum results to request")
	cmd.Flags().BoolVar(&answer, "answer", true, "ask the backend for a direct answer")
	return cmd
}
