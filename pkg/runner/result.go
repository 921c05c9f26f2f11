package runner

import "github.com/yaklabco/typeset/pkg/syntax"

// FileOutcome holds the parse outcome for a single file.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Source is the parsed source. Nil if the file could not be read.
	Source *syntax.Source

	// Diagnostics are the syntax problems found in the file, in document
	// order.
	Diagnostics []syntax.Diagnostic

	// Error is set if the file could not be processed.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesProcessed is the number of files successfully parsed.
	FilesProcessed int

	// FilesErrored is the number of files that could not be read.
	FilesErrored int

	// FilesWithIssues is the number of files with at least one diagnostic.
	FilesWithIssues int

	// DiagnosticsTotal is the total number of diagnostics across all files.
	DiagnosticsTotal int

	// LinesTotal is the total number of lines parsed.
	LinesTotal int
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each processed file.
	// Files are ordered deterministically (by path).
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// HasIssues reports whether any diagnostics were found.
func (r *Result) HasIssues() bool {
	if r == nil {
		return false
	}
	return r.Stats.DiagnosticsTotal > 0
}

// HasFailures reports whether any file could not be processed at all.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	r.Stats.FilesProcessed++
	if outcome.Source != nil {
		r.Stats.LinesTotal += outcome.Source.Lines()
	}

	if len(outcome.Diagnostics) > 0 {
		r.Stats.FilesWithIssues++
		r.Stats.DiagnosticsTotal += len(outcome.Diagnostics)
	}
}
