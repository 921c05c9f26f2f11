package configloader

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/yaklabco/typeset/pkg/config"
)

// LoadOptions controls configuration loading.
type LoadOptions struct {
	// WorkingDir is the directory used for project config discovery.
	// Empty means the current process working directory.
	WorkingDir string

	// ExplicitPath is a config file given via --config. When set, it must
	// exist; discovery of project/user/system configs is skipped.
	ExplicitPath string

	// CLIConfig carries values set through command-line flags. It has the
	// highest precedence.
	CLIConfig *config.Config

	// SkipEnv disables TYPESET_* environment variable handling (used in tests).
	SkipEnv bool
}

// LoadResult is the outcome of configuration loading.
type LoadResult struct {
	// Config is the fully merged and validated configuration.
	Config *config.Config

	// LoadedFrom lists the config files that contributed, lowest
	// precedence first.
	LoadedFrom []string

	// Warnings holds non-fatal problems encountered while loading.
	Warnings []string
}

// Load discovers, loads, merges, and validates configuration.
//
// Precedence, lowest to highest: defaults, system config, user config,
// project config (or the explicit --config file), environment variables,
// CLI flags.
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	result := &LoadResult{}

	layers := []*config.Config{config.NewConfig()}

	if opts.ExplicitPath != "" {
		cfg, err := loadConfigFile(opts.ExplicitPath)
		if err != nil {
			return nil, fmt.Errorf("explicit config %s: %w", opts.ExplicitPath, err)
		}
		layers = append(layers, cfg)
		result.LoadedFrom = append(result.LoadedFrom, opts.ExplicitPath)
	} else {
		paths, err := DiscoverPaths(ctx, opts.WorkingDir)
		if err != nil {
			return nil, err
		}

		for _, path := range []string{paths.System, paths.User, paths.Project} {
			if path == "" {
				continue
			}
			cfg, err := loadConfigFile(path)
			if err != nil {
				// A broken optional config should not stop the run.
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("skipping config %s: %v", path, err))
				continue
			}
			layers = append(layers, cfg)
			result.LoadedFrom = append(result.LoadedFrom, path)
		}
	}

	merged := MergeAll(layers...)

	if !opts.SkipEnv {
		if err := LoadFromEnv(merged); err != nil {
			return nil, err
		}
	}

	merged = merge(merged, opts.CLIConfig)

	validation := Validate(merged)
	result.Warnings = append(result.Warnings, validation.Warnings...)
	if !validation.Valid() {
		errs := make([]error, 0, len(validation.Errors))
		for _, e := range validation.Errors {
			errs = append(errs, e)
		}
		return nil, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}

	result.Config = merged
	return result, nil
}

// loadConfigFile reads and parses a single YAML config file.
func loadConfigFile(path string) (*config.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := config.FromYAML(data)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
