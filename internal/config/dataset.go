// Package config implements the ambient threshold/profile/dataset
// configuration surface (spec.md §4.14): a per-kind threshold map, a flat
// key=value dataset config, and a YAML-backed profile definition resolved
// by symbolic name through internal/integration.
package config

import (
	"bufio"
	"io"
	"strings"

	"github.com/matrixeditor/libfp/internal/apperr"
)

// DatasetConfig is the flat key=value dataset config spec.md §6 names:
// base-dir, target-dir, android-path, extension, ground-truth.
type DatasetConfig struct {
	BaseDir     string
	TargetDir   string
	AndroidPath string
	Extension   string
	GroundTruth string
}

// LoadDatasetConfig parses r as a sequence of `key=value` lines; blank
// lines and lines starting with '#' are skipped; surrounding double quotes
// on a value are stripped, matching the teacher's plain shell-style env
// file parsing convention.
func LoadDatasetConfig(r io.Reader) (*DatasetConfig, error) {
	cfg := &DatasetConfig{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, apperr.New(apperr.ConfigError, "malformed dataset config line %q: missing '='", line)
		}
		key = strings.TrimSpace(key)
		value = unquote(strings.TrimSpace(value))

		switch key {
		case "base-dir":
			cfg.BaseDir = value
		case "target-dir":
			cfg.TargetDir = value
		case "android-path":
			cfg.AndroidPath = value
		case "extension":
			cfg.Extension = value
		case "ground-truth":
			cfg.GroundTruth = value
		default:
			return nil, apperr.New(apperr.ConfigError, "unknown dataset config key %q", key)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, apperr.New(apperr.IO, "read dataset config: %v", err)
	}
	return cfg, nil
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
