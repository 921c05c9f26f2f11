package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/typeset/internal/ui/pretty"
	"github.com/yaklabco/typeset/pkg/runner"
	"github.com/yaklabco/typeset/pkg/syntax"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to check."))
		}
		return 0, nil
	}

	var total int

	for _, file := range result.Files {
		path := displayPath(file.Path, r.opts.WorkingDir)

		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s: %s\n",
				r.styles.FilePath.Render(path),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
			)
			continue
		}

		diagnostics, hidden := capDiagnostics(file.Diagnostics, r.opts.MaxPerFile)
		if len(diagnostics) == 0 {
			continue
		}

		// File header.
		fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, len(file.Diagnostics)))

		for i := range diagnostics {
			diag := &diagnostics[i]

			var sourceLine string
			if r.opts.ShowContext {
				sourceLine = sourceLineOf(file.Source, diag.Line)
			}

			fmt.Fprint(r.bw, r.styles.FormatDiagnostic(diag, path, r.opts.ShowContext, sourceLine))
			total++
		}

		if hidden > 0 {
			fmt.Fprintln(r.bw, "  "+r.styles.Dim.Render(
				fmt.Sprintf("... and %d more", hidden)))
		}

		// Blank line between files.
		fmt.Fprintln(r.bw)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return total, nil
}

// sourceLineOf extracts the text of a 1-based line, without its trailing
// line break.
func sourceLineOf(src *syntax.Source, line int) string {
	if src == nil {
		return ""
	}
	text, _ := src.Line(line)
	return text
}
