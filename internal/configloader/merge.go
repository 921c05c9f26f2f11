package configloader

import "github.com/yaklabco/typeset/pkg/config"

// merge combines two configs, with override taking precedence for every
// field it sets to a non-zero value. Neither input is modified.
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override.Clone()
	}
	if override == nil {
		return base.Clone()
	}

	result := base.Clone()

	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Extensions != nil {
		result.Extensions = append([]string(nil), override.Extensions...)
	}
	if override.Ignore != nil {
		result.Ignore = append([]string(nil), override.Ignore...)
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.MaxDiagnostics != 0 {
		result.MaxDiagnostics = override.MaxDiagnostics
	}
	if override.FollowSymlinks {
		result.FollowSymlinks = true
	}
	if override.NoContext {
		result.NoContext = true
	}
	if override.Compact {
		result.Compact = true
	}

	return result
}

// MergeAll merges configs in order, later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	var result *config.Config
	for _, cfg := range configs {
		if cfg == nil {
			continue
		}
		result = merge(result, cfg)
	}
	if result == nil {
		result = config.NewConfig()
	}
	return result
}
