package config

import (
	"github.com/matrixeditor/libfp/internal/apperr"
	"github.com/matrixeditor/libfp/internal/profile"
)

// ThresholdConfig is the per-profile-kind threshold map spec.md §4.14
// names, and satisfies internal/strategy.Config.
type ThresholdConfig struct {
	values map[profile.Kind]float64
}

// NewThresholdConfig builds a ThresholdConfig from an explicit map.
func NewThresholdConfig(values map[profile.Kind]float64) *ThresholdConfig {
	cp := make(map[profile.Kind]float64, len(values))
	for k, v := range values {
		cp[k] = v
	}
	return &ThresholdConfig{values: cp}
}

// ThresholdFor returns the configured threshold for kind, or 0 if unset.
func (c *ThresholdConfig) ThresholdFor(kind profile.Kind) float64 {
	return c.values[kind]
}

// Set assigns the threshold for kind.
func (c *ThresholdConfig) Set(kind profile.Kind, threshold float64) {
	if c.values == nil {
		c.values = make(map[profile.Kind]float64)
	}
	c.values[kind] = threshold
}

var namedKinds = []profile.Kind{
	profile.KindCHA,
	profile.KindPackage,
	profile.KindClass,
	profile.KindMethod,
	profile.KindField,
}

// ThresholdsFromNames builds a ThresholdConfig from a profile definition's
// symbolic kind-name map (spec.md §6 "thresholds as {type name -> decimal
// in [0,1]}"). An unrecognized kind name is a ConfigError.
func ThresholdsFromNames(named map[string]float64) (*ThresholdConfig, error) {
	c := NewThresholdConfig(nil)
	for name, v := range named {
		kind, ok := parseKindName(name)
		if !ok {
			return nil, apperr.New(apperr.ConfigError, "unknown threshold kind %q", name)
		}
		c.Set(kind, v)
	}
	return c, nil
}

func parseKindName(name string) (profile.Kind, bool) {
	for _, k := range namedKinds {
		if k.String() == name {
			return k, true
		}
	}
	return 0, false
}
