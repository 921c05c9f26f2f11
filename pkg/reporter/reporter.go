// Package reporter formats and writes syntax check results.
package reporter

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/yaklabco/typeset/pkg/runner"
	"github.com/yaklabco/typeset/pkg/syntax"
)

// Reporter formats and writes check results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of diagnostics reported and any write errors.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	// Default writer to stdout if not specified.
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}
	if !format.IsValid() {
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	switch format {
	case FormatJSON:
		return NewJSONReporter(opts), nil
	default:
		return NewTextReporter(opts), nil
	}
}

// displayPath makes the path relative to the working directory when that
// yields a shorter, saner path.
func displayPath(path, workDir string) string {
	if workDir == "" {
		return path
	}
	rel, err := filepath.Rel(workDir, path)
	if err != nil || len(rel) >= len(path) {
		return path
	}
	return rel
}

// capDiagnostics truncates the diagnostics slice to the per-file limit.
// It returns the visible diagnostics and the number hidden.
func capDiagnostics(diags []syntax.Diagnostic, limit int) ([]syntax.Diagnostic, int) {
	if limit <= 0 || len(diags) <= limit {
		return diags, 0
	}
	return diags[:limit], len(diags) - limit
}
