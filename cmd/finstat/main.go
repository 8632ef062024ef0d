package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// cfgFile is the optional YAML configuration file.
	cfgFile string

	// verbose mirrors debug-level events to stderr.
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "finstat",
	Short: "Financial document turnover analyzer",
	Long: `finstat scans a directory of financial text records, extracts per-type
monetary totals (checks, invoices, orders), quarantines files it cannot
trust, and exports turnover statistics plus an invalid-file report.`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to the YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "mirror debug log events to stderr")
}
