// Package main provides the shelfguard CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "shelfguard",
		Short: "Loss pattern detection for retail inventory audits",
		Long: `Shelfguard reconstructs per-count movements from cumulative audit
counters, runs a battery of loss pattern detectors, and scores each store's
shrink risk.`,
		Version: version,
	}

	rootCmd.AddCommand(
		newScoreCmd(),
		newExportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
