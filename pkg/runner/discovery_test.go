package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/yaklabco/typeset/pkg/runner"
)

func writeFiles(t *testing.T, dir string, names []string) {
	t.Helper()
	for _, f := range names {
		path := filepath.Join(dir, f)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("setup mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte("= doc"), 0644); err != nil {
			t.Fatalf("setup write: %v", err)
		}
	}
}

func TestDiscover_SingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "doc.tps")
	if err := os.WriteFile(file, []byte("= doc"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	ctx := context.Background()
	opts := runner.Options{
		Paths:      []string{file},
		WorkingDir: dir,
	}

	files, err := runner.Discover(ctx, opts)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	if files[0] != file {
		t.Errorf("expected %s, got %s", file, files[0])
	}
}

func TestDiscover_Directory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, []string{
		"intro.tps",
		"chapters/one.tps",
		"chapters/two.tps",
		"src/main.go",
		"notes.txt",
	})

	ctx := context.Background()
	files, err := runner.Discover(ctx, runner.Options{WorkingDir: dir})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if len(files) != 3 {
		t.Fatalf("expected 3 files, got %d: %v", len(files), files)
	}
	// Sorted deterministically.
	for i := 1; i < len(files); i++ {
		if files[i-1] >= files[i] {
			t.Errorf("files not sorted: %v", files)
		}
	}
}

func TestDiscover_ExcludeGlobs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, []string{
		"keep.tps",
		"vendor/skip.tps",
		"build/out.tps",
	})

	ctx := context.Background()
	files, err := runner.Discover(ctx, runner.Options{
		WorkingDir:   dir,
		ExcludeGlobs: []string{"vendor/**", "build/**"},
	})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d: %v", len(files), files)
	}
	if filepath.Base(files[0]) != "keep.tps" {
		t.Errorf("expected keep.tps, got %s", files[0])
	}
}

func TestDiscover_IncludeGlobs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, []string{
		"chapters/one.tps",
		"drafts/two.tps",
	})

	ctx := context.Background()
	files, err := runner.Discover(ctx, runner.Options{
		WorkingDir:   dir,
		IncludeGlobs: []string{"chapters/**"},
	})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d: %v", len(files), files)
	}
}

func TestDiscover_HiddenSkipped(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, []string{
		"visible.tps",
		".hidden.tps",
		".git/objects/blob.tps",
	})

	ctx := context.Background()
	files, err := runner.Discover(ctx, runner.Options{WorkingDir: dir})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d: %v", len(files), files)
	}
}

func TestDiscover_MissingPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()

	_, err := runner.Discover(ctx, runner.Options{
		Paths:      []string{"does-not-exist.tps"},
		WorkingDir: dir,
	})
	if err == nil {
		t.Fatal("expected error for missing path")
	}
}
