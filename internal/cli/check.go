package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/typeset/internal/configloader"
	"github.com/yaklabco/typeset/internal/logging"
	"github.com/yaklabco/typeset/pkg/config"
	"github.com/yaklabco/typeset/pkg/reporter"
	"github.com/yaklabco/typeset/pkg/runner"
)

// ErrIssuesFound is returned when syntax errors are found. It carries the
// intended exit code without being worth logging.
var ErrIssuesFound = errors.New("syntax errors found")

// ErrFilesUnreadable is returned when the check itself succeeded but some
// files could not be read.
var ErrFilesUnreadable = errors.New("some files could not be read")

type checkFlags struct {
	format         string
	ignore         []string
	jobs           int
	maxDiagnostics int
	noContext      bool
	compact        bool
	followSymlinks bool
}

func newCheckCommand() *cobra.Command {
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check documents for syntax errors",
		Long:  checkLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, flags)
		},
	}

	addCheckFlags(cmd, flags)

	return cmd
}

const checkLongDescription = `Check document files for syntax errors.

By default, checks all .tps files in the current directory and
subdirectories. Specify paths to check specific files or directories.

Examples:
  typeset check                  # Check current directory
  typeset check chapters/        # Check one directory
  typeset check intro.tps        # Check single file
  typeset check --format json    # Output as JSON for CI
  typeset check --jobs 1         # Disable parallelism`

func runCheck(cmd *cobra.Command, args []string, flags *checkFlags) error {
	logger := logging.Default()

	// Map flags to typed config values. Only values explicitly provided on
	// the command line participate in the merge.
	cliCfg := &config.Config{}
	if cmd.Flags().Changed("format") {
		cliCfg.Format = config.OutputFormat(flags.format)
	}
	cliCfg.Ignore = flags.ignore
	cliCfg.Jobs = flags.jobs
	cliCfg.MaxDiagnostics = flags.maxDiagnostics
	cliCfg.NoContext = flags.noContext
	cliCfg.Compact = flags.compact
	cliCfg.FollowSymlinks = flags.followSymlinks

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithLogger(ctx, logger)

	// Get the explicit config path from the root command's persistent flag.
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return errors.Join(errors.New("failed to load configuration"), err)
	}

	finalCfg := loadResult.Config

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}

	runOpts := runner.Options{
		Paths:          args,
		WorkingDir:     workDir,
		Extensions:     finalCfg.Extensions,
		ExcludeGlobs:   finalCfg.Ignore,
		FollowSymlinks: finalCfg.FollowSymlinks,
		Jobs:           finalCfg.Jobs,
		Config:         finalCfg,
	}

	logger.Debug("starting check run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := runner.New().Run(ctx, runOpts)
	if err != nil {
		return errors.Join(errors.New("check run failed"), err)
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	format, err := reporter.ParseFormat(string(finalCfg.Format))
	if err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      format,
		Color:       colorMode,
		ShowContext: !finalCfg.NoContext,
		ShowSummary: true,
		Compact:     finalCfg.Compact,
		MaxPerFile:  finalCfg.MaxDiagnostics,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		logger.Error("report failed", logging.FieldError, err)
		return fmt.Errorf("report results: %w", err)
	}

	switch ExitCodeFromResult(result) {
	case ExitCheckFailed:
		return ErrIssuesFound
	case ExitIOError:
		return ErrFilesUnreadable
	}

	return nil
}

func addCheckFlags(cmd *cobra.Command, flags *checkFlags) {
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().IntVar(&flags.maxDiagnostics, "max-diagnostics", 0,
		"cap the number of diagnostics shown per file (0 = unlimited)")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false,
		"traverse directory symlinks during discovery")
}
