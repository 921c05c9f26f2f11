package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/typeset/internal/cli"
	"github.com/yaklabco/typeset/pkg/runner"
)

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	root := cli.NewRootCommand(cli.BuildInfo{Version: "test"})
	require.NotNil(t, root)
	assert.Equal(t, "typeset", root.Name())

	var names []string
	for _, sub := range root.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "check")
	assert.Contains(t, names, "parse")
	assert.Contains(t, names, "version")
}

func TestExitCodeFromResult(t *testing.T) {
	t.Parallel()

	t.Run("nil result", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, cli.ExitSuccess, cli.ExitCodeFromResult(nil))
	})

	t.Run("clean result", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, cli.ExitSuccess, cli.ExitCodeFromResult(&runner.Result{}))
	})

	t.Run("diagnostics found", func(t *testing.T) {
		t.Parallel()
		result := &runner.Result{}
		result.Stats.DiagnosticsTotal = 3
		assert.Equal(t, cli.ExitCheckFailed, cli.ExitCodeFromResult(result))
	})

	t.Run("unreadable files", func(t *testing.T) {
		t.Parallel()
		result := &runner.Result{}
		result.Stats.FilesErrored = 1
		assert.Equal(t, cli.ExitIOError, cli.ExitCodeFromResult(result))
	})

	t.Run("diagnostics outrank io errors", func(t *testing.T) {
		t.Parallel()
		result := &runner.Result{}
		result.Stats.DiagnosticsTotal = 1
		result.Stats.FilesErrored = 1
		assert.Equal(t, cli.ExitCheckFailed, cli.ExitCodeFromResult(result))
	})
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	root := cli.NewRootCommand(cli.BuildInfo{Version: "test"})
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestCheckCommand(t *testing.T) {
	t.Parallel()

	t.Run("clean file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "ok.tps")
		require.NoError(t, os.WriteFile(path, []byte("= Title\n\nprose\n"), 0644))

		out, _, err := execute(t, "check", "--color", "never", path)
		require.NoError(t, err)
		assert.Contains(t, out, "No syntax errors found")
	})

	t.Run("file with errors", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "bad.tps")
		require.NoError(t, os.WriteFile(path, []byte("open *strong\n"), 0644))

		out, _, err := execute(t, "check", "--color", "never", path)
		require.ErrorIs(t, err, cli.ErrIssuesFound)
		assert.Contains(t, out, "bad.tps")
		assert.Contains(t, out, "error")
	})

	t.Run("json format", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "bad.tps")
		require.NoError(t, os.WriteFile(path, []byte("{ let x = \n"), 0644))

		out, _, err := execute(t, "check", "--format", "json", path)
		require.ErrorIs(t, err, cli.ErrIssuesFound)
		assert.Contains(t, out, `"diagnostics"`)
		assert.Contains(t, out, `"severity": "error"`)
	})

	t.Run("unreadable file", func(t *testing.T) {
		t.Parallel()
		if os.Geteuid() == 0 {
			t.Skip("file permissions are not enforced for root")
		}

		dir := t.TempDir()
		path := filepath.Join(dir, "locked.tps")
		require.NoError(t, os.WriteFile(path, []byte("text\n"), 0644))
		require.NoError(t, os.Chmod(path, 0000))

		_, _, err := execute(t, "check", "--color", "never", path)
		require.ErrorIs(t, err, cli.ErrFilesUnreadable)
	})

	t.Run("invalid format flag", func(t *testing.T) {
		t.Parallel()

		_, _, err := execute(t, "check", "--format", "sarif")
		require.Error(t, err)
	})
}

func TestParseCommand(t *testing.T) {
	t.Parallel()

	t.Run("prints tree", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "doc.tps")
		require.NoError(t, os.WriteFile(path, []byte("= hi"), 0644))

		out, _, err := execute(t, "parse", path)
		require.NoError(t, err)
		assert.Contains(t, out, "markup 0..4")
		assert.Contains(t, out, "heading 0..4")
	})

	t.Run("json tree", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "doc.tps")
		require.NoError(t, os.WriteFile(path, []byte("= hi"), 0644))

		out, _, err := execute(t, "parse", "--format", "json", path)
		require.NoError(t, err)
		assert.Contains(t, out, `"kind": "markup"`)
		assert.Contains(t, out, `"kind": "heading"`)
		assert.Contains(t, out, `"end": 4`)
	})

	t.Run("unknown tree format", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "doc.tps")
		require.NoError(t, os.WriteFile(path, []byte("text"), 0644))

		_, _, err := execute(t, "parse", "--format", "sexpr", path)
		require.Error(t, err)
	})

	t.Run("writes tree to file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "doc.tps")
		outPath := filepath.Join(dir, "doc.tree")
		require.NoError(t, os.WriteFile(path, []byte("text"), 0644))

		_, _, err := execute(t, "parse", path, "-o", outPath)
		require.NoError(t, err)

		written, err := os.ReadFile(outPath)
		require.NoError(t, err)
		assert.Contains(t, string(written), "markup 0..4")
	})

	t.Run("erroneous document fails", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "doc.tps")
		require.NoError(t, os.WriteFile(path, []byte("*open"), 0644))

		out, errOut, err := execute(t, "parse", path)
		require.ErrorIs(t, err, cli.ErrIssuesFound)
		assert.Contains(t, out, "error")
		assert.Contains(t, errOut, "syntax errors")
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, _, err := execute(t, "parse", "does-not-exist.tps")
		require.Error(t, err)
	})

	t.Run("requires exactly one argument", func(t *testing.T) {
		t.Parallel()

		_, _, err := execute(t, "parse")
		require.Error(t, err)
	})
}
