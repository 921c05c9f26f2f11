package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/typeset/pkg/reporter"
	"github.com/yaklabco/typeset/pkg/runner"
	"github.com/yaklabco/typeset/pkg/syntax"
)

// brokenResult builds a result with one erroneous file and one clean file.
func brokenResult() *runner.Result {
	src := syntax.NewSource("/work/bad.tps", "a *b\n")
	result := &runner.Result{
		Files: []runner.FileOutcome{
			{
				Path:        "/work/bad.tps",
				Source:      src,
				Diagnostics: syntax.Diagnostics(src),
			},
			{
				Path:   "/work/good.tps",
				Source: syntax.NewSource("/work/good.tps", "fine\n"),
			},
		},
	}
	result.Stats.FilesDiscovered = 2
	result.Stats.FilesProcessed = 2
	result.Stats.FilesWithIssues = 1
	result.Stats.DiagnosticsTotal = len(result.Files[0].Diagnostics)
	return result
}

func TestNew(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	t.Run("text", func(t *testing.T) {
		t.Parallel()
		rep, err := reporter.New(reporter.Options{Writer: &buf, Format: reporter.FormatText})
		require.NoError(t, err)
		assert.IsType(t, &reporter.TextReporter{}, rep)
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		rep, err := reporter.New(reporter.Options{Writer: &buf, Format: reporter.FormatJSON})
		require.NoError(t, err)
		assert.IsType(t, &reporter.JSONReporter{}, rep)
	})

	t.Run("empty defaults to text", func(t *testing.T) {
		t.Parallel()
		rep, err := reporter.New(reporter.Options{Writer: &buf})
		require.NoError(t, err)
		assert.IsType(t, &reporter.TextReporter{}, rep)
	})

	t.Run("unknown format rejected", func(t *testing.T) {
		t.Parallel()
		_, err := reporter.New(reporter.Options{Writer: &buf, Format: "sarif"})
		require.Error(t, err)
	})
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"text", "json", ""} {
		_, err := reporter.ParseFormat(name)
		assert.NoError(t, err, "format %q", name)
	}

	_, err := reporter.ParseFormat("table")
	assert.Error(t, err)
}

func TestTextReporter(t *testing.T) {
	t.Parallel()

	t.Run("groups diagnostics by file", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		rep := reporter.NewTextReporter(reporter.Options{
			Writer:      &buf,
			Color:       "never",
			ShowContext: true,
			ShowSummary: true,
			WorkingDir:  "/work",
		})

		result := brokenResult()
		count, err := rep.Report(context.Background(), result)
		require.NoError(t, err)
		assert.Equal(t, result.Stats.DiagnosticsTotal, count)

		out := buf.String()
		assert.Contains(t, out, "bad.tps")
		assert.Contains(t, out, "error")
		assert.NotContains(t, out, "good.tps")
		// Relative to working dir.
		assert.NotContains(t, out, "/work/bad.tps")
		// Source context with caret.
		assert.Contains(t, out, "a *b")
		assert.Contains(t, out, "^")
		// Summary line.
		assert.Contains(t, out, "syntax error")
	})

	t.Run("caps diagnostics per file", func(t *testing.T) {
		t.Parallel()

		src := syntax.NewSource("many.tps", "{ @ @ @ @ }\n")
		diags := syntax.Diagnostics(src)
		require.Greater(t, len(diags), 2)

		result := &runner.Result{
			Files: []runner.FileOutcome{
				{Path: "many.tps", Source: src, Diagnostics: diags},
			},
		}
		result.Stats.DiagnosticsTotal = len(diags)
		result.Stats.FilesWithIssues = 1
		result.Stats.FilesProcessed = 1

		var buf bytes.Buffer
		rep := reporter.NewTextReporter(reporter.Options{
			Writer:     &buf,
			Color:      "never",
			MaxPerFile: 2,
		})

		count, err := rep.Report(context.Background(), result)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
		assert.Contains(t, buf.String(), "more")
	})

	t.Run("reports file errors", func(t *testing.T) {
		t.Parallel()

		result := &runner.Result{
			Files: []runner.FileOutcome{
				{Path: "gone.tps", Error: errors.New("file not found")},
			},
		}
		result.Stats.FilesErrored = 1

		var buf bytes.Buffer
		rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never"})

		_, err := rep.Report(context.Background(), result)
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "gone.tps")
		assert.Contains(t, buf.String(), "file not found")
	})

	t.Run("empty result", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		rep := reporter.NewTextReporter(reporter.Options{
			Writer:      &buf,
			Color:       "never",
			ShowSummary: true,
		})

		count, err := rep.Report(context.Background(), &runner.Result{})
		require.NoError(t, err)
		assert.Zero(t, count)
		assert.Contains(t, buf.String(), "No files to check")
	})
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{
		Writer:     &buf,
		WorkingDir: "/work",
	})

	result := brokenResult()
	count, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, result.Stats.DiagnosticsTotal, count)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))

	require.Len(t, output.Files, 2)
	assert.Equal(t, "bad.tps", output.Files[0].Path)
	assert.NotEmpty(t, output.Files[0].Diagnostics)
	assert.Equal(t, "error", output.Files[0].Diagnostics[0].Severity)
	assert.Positive(t, output.Files[0].Diagnostics[0].Line)
	assert.Empty(t, output.Files[1].Diagnostics)
	assert.Equal(t, 1, output.Summary.FilesWithIssues)
	assert.Equal(t, result.Stats.DiagnosticsTotal, output.Summary.TotalIssues)
}
