package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	tablepublog "github.com/davetashner/tablepub/internal/log"
)

// Global flag values.
var (
	verbose bool
	quiet   bool
	noColor bool
)

// rootCmd is the base command for tablepub.
var rootCmd = &cobra.Command{
	Use:   "tablepub",
	Short: "Turn CSVs into branded interactive tables on GitHub Pages",
	Long: `Tablepub renders a CSV file into a self-contained branded HTML table with
search, sorting, pagination, and export controls, then publishes it to a
GitHub Pages site so the table can be embedded anywhere with an iframe.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		tablepublog.Setup(verbose, quiet)
		if noColor {
			color.NoColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
