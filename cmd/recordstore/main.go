package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type options struct {
	configFile string
	observer   string
	verbose    bool
	metrics    bool
}

func main() {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "recordstore",
		Short: "Reactive in-memory record store",
		Long: `recordstore keeps named collections of records in memory and
notifies subscribers whenever a collection or any of its members changes.

Records reference each other by id; linking a record that the store does
not hold yet registers it in its collection.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "Path to store config JSON file")
	flags.StringVar(&opts.observer, "observer", "", "Observer name (overrides config)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging to stderr")
	flags.BoolVar(&opts.metrics, "metrics", false, "Print collected Prometheus metrics on exit")

	rootCmd.AddCommand(
		demoCmd(opts),
		observersCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
