package cli

import "github.com/yaklabco/typeset/pkg/runner"

// Exit codes for typeset.
const (
	// ExitSuccess indicates successful execution with no issues.
	ExitSuccess = 0

	// ExitCheckFailed indicates the check completed but found syntax errors.
	ExitCheckFailed = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ExitCodeFromResult determines the exit code based on the run result.
func ExitCodeFromResult(result *runner.Result) int {
	switch {
	case result == nil:
		return ExitSuccess
	case result.HasIssues():
		return ExitCheckFailed
	case result.HasFailures():
		return ExitIOError
	default:
		return ExitSuccess
	}
}
