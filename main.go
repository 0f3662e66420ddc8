// Package main is the entry point for the medicines search service and CLI
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd serves the web app when no subcommand is given
var rootCmd = &cobra.Command{
	Use:   "medicines-search",
	Short: "Search a medicines table by name, composition or use",
	Long: `medicines-search loads a medicines table and answers substring searches
across its textual columns. Results can be narrowed by starting letter and are
paginated fifteen at a time.

Without a subcommand it runs the web server (same as "serve").`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
