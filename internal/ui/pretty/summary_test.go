package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/typeset/internal/ui/pretty"
	"github.com/yaklabco/typeset/pkg/runner"
)

func TestFormatSummaryOneLine(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	t.Run("clean run", func(t *testing.T) {
		t.Parallel()

		out := styles.FormatSummaryOneLine(runner.Stats{FilesProcessed: 5})
		assert.Contains(t, out, "No syntax errors found")
		assert.Contains(t, out, "(5 files checked)")
	})

	t.Run("errors found", func(t *testing.T) {
		t.Parallel()

		out := styles.FormatSummaryOneLine(runner.Stats{
			FilesProcessed:   4,
			FilesWithIssues:  2,
			DiagnosticsTotal: 7,
		})
		assert.Contains(t, out, "7 syntax errors in 2 files")
	})

	t.Run("singular forms", func(t *testing.T) {
		t.Parallel()

		out := styles.FormatSummaryOneLine(runner.Stats{
			FilesProcessed:   1,
			FilesWithIssues:  1,
			DiagnosticsTotal: 1,
		})
		assert.Contains(t, out, "1 syntax error in 1 file")
	})

	t.Run("unreadable files", func(t *testing.T) {
		t.Parallel()

		out := styles.FormatSummaryOneLine(runner.Stats{
			FilesProcessed: 3,
			FilesErrored:   1,
		})
		assert.Contains(t, out, "1 file unreadable")
	})
}

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	out := styles.FormatSummary(runner.Stats{
		FilesProcessed:   3,
		FilesWithIssues:  1,
		DiagnosticsTotal: 2,
		LinesTotal:       120,
	})
	assert.Contains(t, out, "Summary")
	assert.Contains(t, out, "Files checked:     3")
	assert.Contains(t, out, "Files with errors: 1")
	assert.Contains(t, out, "Lines parsed:      120")
	assert.Contains(t, out, "Check failed with syntax errors")

	clean := styles.FormatSummary(runner.Stats{FilesProcessed: 1, LinesTotal: 4})
	assert.Contains(t, clean, "Check passed")
}
