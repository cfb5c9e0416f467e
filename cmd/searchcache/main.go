package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:     "searchcache",
		Short:   "Adaptive caching layer for a remote AI search backend",
		Version: version,
	}

	root.AddCommand(
		newSearchCmd(),
		newBatchCmd(),
		newCacheCmd(),
		newPopularCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
