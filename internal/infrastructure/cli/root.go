// Package cli wires the scanner's command surface. Commands resolve
// configuration, assemble the pipeline, and report outcomes; all pipeline
// behavior lives in the application and domain layers.
package cli

import (
	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "aiscan",
	Version: Version,
	Short:   "Scan an approved-software list for embedded AI features",
	Long: `aiscan reads a tabular approved-software list, asks an external
reasoning service whether each product embeds AI features, and writes an
annotated results table for compliance review.

Rows the classifier cannot assess are never dropped: they come back flagged
for human review with the failure recorded alongside.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() error {
	return RootCmd.Execute()
}
