package config

import (
	"io"

	yaml "github.com/jesseduffield/yaml"

	"github.com/matrixeditor/libfp/internal/apperr"
)

// ProfileDefinition is the structured, YAML-backed description of one
// profile kind a dataset can be built/compared with (spec.md §6 "profile
// definition"): which IL factory, normalizer, and extensions it wires, all
// referenced purely by the symbolic names internal/integration resolves.
type ProfileDefinition struct {
	Name           string             `yaml:"name"`
	Extension      string             `yaml:"extension"`
	TargetDir      string             `yaml:"targetDir"`
	ILFactoryKind  string             `yaml:"ilFactoryKind"`
	NormalizerKind string             `yaml:"normalizerKind,omitempty"`
	IntegrationKind string            `yaml:"integrationKind"`
	ExtensionArgs  map[string]string  `yaml:"extensionArgs,omitempty"`
	Thresholds     map[string]float64 `yaml:"thresholds,omitempty"`
}

// DefaultProfileDefinition returns the built-in "basic-fuzzy" profile,
// mirroring the teacher's GetDefaultConfig()-then-merge pattern: callers
// load user YAML on top of this rather than requiring every field be
// spelled out.
func DefaultProfileDefinition() ProfileDefinition {
	return ProfileDefinition{
		Name:            "basic-fuzzy",
		Extension:       "lfp",
		TargetDir:       "basic-fuzzy",
		ILFactoryKind:   "basic-fuzzy",
		IntegrationKind: "default",
		Thresholds: map[string]float64{
			"CHA":     0.5,
			"Package": 0.5,
			"Class":   0.5,
			"Method":  0.5,
			"Field":   0.5,
		},
	}
}

// LoadProfileDefinition unmarshals r onto a copy of
// DefaultProfileDefinition, so a user YAML file only needs to override
// what it wants to change — jesseduffield/yaml, unlike stock yaml.v2/v3,
// merges onto the destination struct's existing values rather than zeroing
// unset fields first, the same contract the teacher's loadUserConfig
// relies on.
func LoadProfileDefinition(r io.Reader) (ProfileDefinition, error) {
	def := DefaultProfileDefinition()
	content, err := io.ReadAll(r)
	if err != nil {
		return def, apperr.New(apperr.IO, "read profile definition: %v", err)
	}
	if err := yaml.Unmarshal(content, &def); err != nil {
		return def, apperr.New(apperr.ConfigError, "parse profile definition: %v", err)
	}
	return def, nil
}
