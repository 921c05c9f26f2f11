// Package config defines core configuration types for typeset.
// These types are pure data structures with no dependency on the loader.
package config

// OutputFormat specifies the output format for diagnostics.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// IsValid returns true if the format is a known output format.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON:
		return true
	default:
		return false
	}
}

// Config is the root configuration structure for typeset.
type Config struct {
	// Format specifies the output format ("text" or "json").
	Format OutputFormat `yaml:"format"`

	// Extensions lists the file extensions to check. Empty means the
	// built-in default (".tps").
	Extensions []string `yaml:"extensions"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `yaml:"ignore"`

	// Jobs specifies the number of parallel workers. 0 means auto.
	Jobs int `yaml:"jobs"`

	// MaxDiagnostics caps the number of diagnostics reported per file.
	// 0 means unlimited.
	MaxDiagnostics int `yaml:"max_diagnostics"`

	// FollowSymlinks controls whether directory symlinks are traversed
	// during discovery.
	FollowSymlinks bool `yaml:"follow_symlinks"`

	// CLI-level options (not persisted to config files).

	// NoContext hides source line context in text output.
	NoContext bool `yaml:"-"`

	// Compact uses compact/minified output where applicable.
	Compact bool `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Format:         FormatText,
		Ignore:         nil,
		Jobs:           0, // 0 means use all CPUs
		MaxDiagnostics: 0,
	}
}
