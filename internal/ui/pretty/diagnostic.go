package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/typeset/pkg/syntax"
)

// FormatDiagnostic formats a single diagnostic for terminal output. The path
// argument overrides the diagnostic's own path, which lets callers print
// paths relative to the working directory.
func (s *Styles) FormatDiagnostic(diag *syntax.Diagnostic, path string, showContext bool, sourceLine string) string {
	var builder strings.Builder

	if path == "" {
		path = diag.Path
	}

	// Location: path:line:col
	location := fmt.Sprintf("%s:%d:%d",
		s.FilePath.Render(path),
		diag.Line,
		diag.Column,
	)

	// Main line: location  severity  message
	builder.WriteString(fmt.Sprintf("  %s  %s  %s\n",
		location,
		s.Error.Render("error"),
		s.Message.Render(diag.Message),
	))

	// Source context
	if showContext && sourceLine != "" {
		builder.WriteString(s.FormatSourceContext(sourceLine, diag.Column))
	}

	return builder.String()
}

// FormatSourceContext formats the source line with a caret marker.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	// Indent to align with diagnostic output
	const indent = "        "

	// Source line
	builder.WriteString(indent + s.SourceLine.Render(line) + "\n")

	// Caret marker
	if column > 0 {
		padding := indent + strings.Repeat(" ", column-1)
		builder.WriteString(padding + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	if issueCount > 0 {
		header += s.Dim.Render(fmt.Sprintf(" (%d issues)", issueCount))
	}
	return header
}
