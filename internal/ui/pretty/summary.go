package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/typeset/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "12 syntax errors in 3 files (47 files checked)".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.DiagnosticsTotal == 0 && stats.FilesErrored == 0 {
		return s.Success.Render("No syntax errors found") +
			s.Dim.Render(fmt.Sprintf(" (%d files checked)", stats.FilesProcessed)) + "\n"
	}

	var parts []string

	if stats.DiagnosticsTotal > 0 {
		errorWord := "syntax errors"
		if stats.DiagnosticsTotal == 1 {
			errorWord = "syntax error"
		}
		fileWord := wordFiles
		if stats.FilesWithIssues == 1 {
			fileWord = wordFile
		}
		parts = append(parts, s.Error.Render(
			fmt.Sprintf("%d %s", stats.DiagnosticsTotal, errorWord))+
			fmt.Sprintf(" in %d %s", stats.FilesWithIssues, fileWord))
	}

	if stats.FilesErrored > 0 {
		fileWord := wordFiles
		if stats.FilesErrored == 1 {
			fileWord = wordFile
		}
		parts = append(parts, s.Failure.Render(
			fmt.Sprintf("%d %s unreadable", stats.FilesErrored, fileWord)))
	}

	line := strings.Join(parts, ", ")
	line += s.Dim.Render(fmt.Sprintf(" (%d files checked)", stats.FilesProcessed))
	return line + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files checked:     " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)) + "\n")

	if stats.FilesWithIssues > 0 {
		builder.WriteString("  Files with errors: " +
			s.Failure.Render(strconv.Itoa(stats.FilesWithIssues)) + "\n")
	}

	if stats.FilesErrored > 0 {
		builder.WriteString("  Files unreadable:  " +
			s.Failure.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}

	builder.WriteString("  Lines parsed:      " +
		s.SummaryValue.Render(strconv.Itoa(stats.LinesTotal)) + "\n")

	builder.WriteString("\n")
	builder.WriteString("  Syntax errors:     " +
		s.SummaryValue.Render(strconv.Itoa(stats.DiagnosticsTotal)) + "\n")

	builder.WriteString("\n")

	switch {
	case stats.DiagnosticsTotal > 0:
		builder.WriteString(s.Failure.Render("Check failed with syntax errors"))
	case stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Check failed with unreadable files"))
	default:
		builder.WriteString(s.Success.Render("Check passed"))
	}
	builder.WriteString("\n")

	return builder.String()
}
