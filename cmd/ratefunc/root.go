package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "ratefunc",
		Short: "Explore how debounced and throttled functions respond to calls",
		Long: `ratefunc replays a trace of call times through a debouncer or
throttler configured from a YAML file, and prints when the wrapped function
would have run.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().String(
		"log-level", "", "log level (debug, info, warn, error), overrides config",
	)
	root.AddCommand(newSimulateCommand())

	return root
}
