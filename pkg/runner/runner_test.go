package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/yaklabco/typeset/pkg/runner"
)

func TestRun_CleanFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.tps", "= Title\n\nsome text\n")
	writeFile(t, dir, "b.tps", "- one\n- two\n")

	result, err := runner.New().Run(context.Background(), runner.Options{
		WorkingDir: dir,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Stats.FilesDiscovered != 2 {
		t.Errorf("FilesDiscovered = %d, want 2", result.Stats.FilesDiscovered)
	}
	if result.Stats.FilesProcessed != 2 {
		t.Errorf("FilesProcessed = %d, want 2", result.Stats.FilesProcessed)
	}
	if result.HasIssues() {
		t.Errorf("HasIssues() = true for clean files: %+v", result.Stats)
	}
	if result.HasFailures() {
		t.Error("HasFailures() = true for readable files")
	}
}

func TestRun_ReportsDiagnostics(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "broken.tps", "text with *unclosed strong\n")
	writeFile(t, dir, "fine.tps", "plain text\n")

	result, err := runner.New().Run(context.Background(), runner.Options{
		WorkingDir: dir,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !result.HasIssues() {
		t.Fatal("HasIssues() = false for file with unclosed delimiter")
	}
	if result.Stats.FilesWithIssues != 1 {
		t.Errorf("FilesWithIssues = %d, want 1", result.Stats.FilesWithIssues)
	}

	// Outcomes are ordered by path: broken.tps before fine.tps.
	if len(result.Files) != 2 {
		t.Fatalf("len(Files) = %d, want 2", len(result.Files))
	}
	broken := result.Files[0]
	if filepath.Base(broken.Path) != "broken.tps" {
		t.Fatalf("first outcome is %s, want broken.tps", broken.Path)
	}
	if len(broken.Diagnostics) == 0 {
		t.Error("no diagnostics for broken file")
	}
	for _, d := range broken.Diagnostics {
		if d.Line < 1 || d.Column < 1 {
			t.Errorf("diagnostic has unpositioned location: %+v", d)
		}
	}
}

func TestRun_UnreadableFile(t *testing.T) {
	t.Parallel()

	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	dir := t.TempDir()
	writeFile(t, dir, "ok.tps", "fine\n")
	writeFile(t, dir, "locked.tps", "secret\n")
	if err := os.Chmod(filepath.Join(dir, "locked.tps"), 0000); err != nil {
		t.Fatalf("setup chmod: %v", err)
	}

	result, err := runner.New().Run(context.Background(), runner.Options{
		WorkingDir: dir,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !result.HasFailures() {
		t.Error("HasFailures() = false with unreadable path")
	}
	if result.Stats.FilesProcessed != 1 {
		t.Errorf("FilesProcessed = %d, want 1", result.Stats.FilesProcessed)
	}
}

func TestRun_Cancellation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for i := 0; i < 20; i++ {
		writeFile(t, dir, filepath.Join("docs", string(rune('a'+i))+".tps"), "text\n")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.New().Run(ctx, runner.Options{WorkingDir: dir})
	if err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestRun_NoFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	result, err := runner.New().Run(context.Background(), runner.Options{
		WorkingDir: dir,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Files) != 0 || result.Stats.FilesDiscovered != 0 {
		t.Errorf("unexpected result for empty directory: %+v", result.Stats)
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("setup mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("setup write: %v", err)
	}
}
