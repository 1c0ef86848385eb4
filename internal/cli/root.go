// Package cli wires the docforge commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.3.0"

var rootCmd = &cobra.Command{
	Use:   "docforge",
	Short: "Word document editing server and toolkit",
	Long: `docforge reads, edits and writes Word (.docx) documents while
preserving their formatting.

The main mode is "serve": a JSON-RPC server over stdin/stdout that an
agent or another process drives with editing commands. The other
commands inspect documents and manage configuration from the shell.

Examples:
  docforge serve
  docforge info report.docx
  docforge config init`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
