package configloader

import (
	"fmt"
	"path/filepath"

	"github.com/yaklabco/typeset/pkg/config"
)

// ValidationError describes a single invalid configuration value.
type ValidationError struct {
	// Field is the configuration key, e.g. "format".
	Field string

	// Value is the offending value.
	Value any

	// Message explains what is wrong.
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got %v)", e.Field, e.Message, e.Value)
}

// ValidationResult aggregates validation errors and warnings.
type ValidationResult struct {
	Errors   []*ValidationError
	Warnings []string
}

// Valid reports whether no errors were found.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings reports whether any warnings were produced.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns errors and warnings as display strings.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w)
	}
	return messages
}

// Validate checks the config for invalid values.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}

	if cfg == nil {
		result.Errors = append(result.Errors, &ValidationError{
			Field:   "config",
			Value:   nil,
			Message: "configuration is nil",
		})
		return result
	}

	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.Errors = append(result.Errors, &ValidationError{
			Field:   "format",
			Value:   cfg.Format,
			Message: "must be one of: text, json",
		})
	}

	if cfg.Jobs < 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Field:   "jobs",
			Value:   cfg.Jobs,
			Message: "must be zero or positive",
		})
	}

	if cfg.MaxDiagnostics < 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Field:   "max_diagnostics",
			Value:   cfg.MaxDiagnostics,
			Message: "must be zero or positive",
		})
	}

	for _, ext := range cfg.Extensions {
		if ext == "" || ext[0] != '.' {
			result.Errors = append(result.Errors, &ValidationError{
				Field:   "extensions",
				Value:   ext,
				Message: "must start with a dot",
			})
		}
	}

	validateIgnorePatterns(cfg, result)

	return result
}

// validateIgnorePatterns warns about glob patterns that can never match.
func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for _, pattern := range cfg.Ignore {
		if pattern == "" {
			result.Warnings = append(result.Warnings, "empty ignore pattern has no effect")
			continue
		}
		// filepath.Match reports malformed patterns; ** is handled separately
		// by discovery, so strip it before checking.
		probe := pattern
		for {
			next := filepath.ToSlash(probe)
			if idx := indexDoubleStar(next); idx >= 0 {
				probe = next[:idx] + next[idx+2:]
				continue
			}
			break
		}
		if _, err := filepath.Match(probe, "probe"); err != nil {
			result.Errors = append(result.Errors, &ValidationError{
				Field:   "ignore",
				Value:   pattern,
				Message: "malformed glob pattern",
			})
		}
	}
}

func indexDoubleStar(s string) int {
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '*' && s[i+1] == '*' {
			return i
		}
	}
	return -1
}
