// Package main is the entry point for the typeset CLI.
package main

import (
	"errors"
	"os"

	"github.com/yaklabco/typeset/internal/cli"
	"github.com/yaklabco/typeset/internal/logging"
)

// Build-time variables set by GoReleaser via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)

	if err := rootCmd.Execute(); err != nil {
		// Sentinel errors only signal the exit code; they are not logged.
		switch {
		case errors.Is(err, cli.ErrIssuesFound):
			return cli.ExitCheckFailed
		case errors.Is(err, cli.ErrFilesUnreadable):
			return cli.ExitIOError
		}
		logger := logging.Default()
		logger.Error("command failed", logging.FieldError, err)
		return 1
	}

	return 0
}
