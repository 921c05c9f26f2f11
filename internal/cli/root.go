// Package cli wires up the typeset command tree: check, parse, and version.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/typeset/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root typeset command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "typeset",
		Short: "A document markup compiler frontend with incremental parsing",
		Long: `typeset parses .tps document markup into concrete syntax trees.

The markup language mixes prose with embedded code: headings, lists,
strong and emphasized spans on the markup side; expressions, bindings,
conditionals, and loops behind a leading hash. The parser is lossless
and incremental, so editor-style workloads re-parse only the damaged
part of a document.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	// Add subcommands.
	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newParseCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
