package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/typeset/pkg/config"
)

// envVarPrefix is the prefix for all typeset environment variables.
const envVarPrefix = "TYPESET_"

// envFieldType describes how an environment value is parsed.
type envFieldType int

const (
	envString envFieldType = iota
	envInt
	envBool
	envSlice
)

// envMapping binds an environment variable suffix to a config field.
type envMapping struct {
	field string
	kind  envFieldType
}

//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"FORMAT":          {field: "format", kind: envString},
	"EXTENSIONS":      {field: "extensions", kind: envSlice},
	"IGNORE":          {field: "ignore", kind: envSlice},
	"JOBS":            {field: "jobs", kind: envInt},
	"MAX_DIAGNOSTICS": {field: "max_diagnostics", kind: envInt},
	"FOLLOW_SYMLINKS": {field: "follow_symlinks", kind: envBool},
}

// LoadFromEnv applies TYPESET_* environment variables to the config.
// Unset variables leave the config untouched.
func LoadFromEnv(cfg *config.Config) error {
	for suffix, mapping := range envMappings {
		envVar := envVarPrefix + suffix
		value, ok := os.LookupEnv(envVar)
		if !ok {
			continue
		}
		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}
	return nil
}

func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.kind {
	case envString:
		return setStringField(cfg, mapping.field, value)
	case envInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: expected integer, got %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, n)
	case envBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: expected boolean, got %q", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envSlice:
		return setSliceField(cfg, mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("%s: unsupported field type", envVar)
	}
}

// parseSliceValue splits a comma-separated value into trimmed elements.
func parseSliceValue(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "format":
		cfg.Format = config.OutputFormat(value)
		return nil
	default:
		return fmt.Errorf("unknown string field %q", field)
	}
}

func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "jobs":
		cfg.Jobs = value
		return nil
	case "max_diagnostics":
		cfg.MaxDiagnostics = value
		return nil
	default:
		return fmt.Errorf("unknown int field %q", field)
	}
}

func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "follow_symlinks":
		cfg.FollowSymlinks = value
		return nil
	default:
		return fmt.Errorf("unknown bool field %q", field)
	}
}

func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "extensions":
		cfg.Extensions = value
		return nil
	case "ignore":
		cfg.Ignore = value
		return nil
	default:
		return fmt.Errorf("unknown slice field %q", field)
	}
}

// GetEnvVarName returns the environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns all recognized environment variables and the fields
// they control.
func ListEnvVars() map[string]string {
	result := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		result[envVarPrefix+suffix] = mapping.field
	}
	return result
}
