// cmd/catalogctl/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/javajoker/grocery-browser/internal/config"
	"github.com/javajoker/grocery-browser/internal/logger"
)

var (
	// Global flags
	verbose bool
	noColor bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "catalogctl",
	Short: "Build, import and inspect grocery catalog data",
	Long: `catalogctl works on the data behind the grocery browser.

Use this tool to:
- Merge per-store JSONL scrapes into the catalog document the server loads
- Append scrape runs to the price history database
- Show recent price history rows
- Rank a catalog file against a query from the terminal`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logCfg := cfg.Log
		if verbose {
			logCfg.Level = "debug"
		}
		logger.Configure(logCfg, false, os.Stderr)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(newBuildCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newSearchCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
