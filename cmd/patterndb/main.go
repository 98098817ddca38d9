// Command patterndb is a thin CLI over the tiered pattern store: put, get,
// stats, and migrate operate purely through TieredStorage/TierManager's
// public interfaces.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "patterndb",
		Short: "Inspect and operate a tiered pattern store",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "patterndb.yaml", "path to the instance config file")

	root.AddCommand(
		newPutCmd(&configPath),
		newGetCmd(&configPath),
		newStatsCmd(&configPath),
		newMigrateCmd(&configPath),
	)
	return root
}
