package config

import (
	"strings"
	"testing"

	"github.com/matrixeditor/libfp/internal/apperr"
	"github.com/matrixeditor/libfp/internal/profile"
	"github.com/stretchr/testify/require"
)

func TestThresholdConfig(t *testing.T) {
	c := NewThresholdConfig(map[profile.Kind]float64{profile.KindClass: 0.7})
	require.Equal(t, 0.7, c.ThresholdFor(profile.KindClass))
	require.Equal(t, 0.0, c.ThresholdFor(profile.KindMethod))

	c.Set(profile.KindMethod, 0.3)
	require.Equal(t, 0.3, c.ThresholdFor(profile.KindMethod))
}

func TestLoadDatasetConfig(t *testing.T) {
	input := `
# dataset config
base-dir="/data/lfp"
target-dir=basic-fuzzy
android-path = /opt/android-sdk
extension=lfp
ground-truth="/data/lfp/ground-truth.txt"
`
	cfg, err := LoadDatasetConfig(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, "/data/lfp", cfg.BaseDir)
	require.Equal(t, "basic-fuzzy", cfg.TargetDir)
	require.Equal(t, "/opt/android-sdk", cfg.AndroidPath)
	require.Equal(t, "lfp", cfg.Extension)
	require.Equal(t, "/data/lfp/ground-truth.txt", cfg.GroundTruth)
}

func TestLoadDatasetConfigRejectsUnknownKey(t *testing.T) {
	_, err := LoadDatasetConfig(strings.NewReader("bogus-key=value"))
	require.Error(t, err)
	require.True(t, apperr.HasKind(err, apperr.ConfigError))
}

func TestLoadDatasetConfigRejectsMalformedLine(t *testing.T) {
	_, err := LoadDatasetConfig(strings.NewReader("no-equals-sign-here"))
	require.Error(t, err)
	require.True(t, apperr.HasKind(err, apperr.ConfigError))
}

func TestLoadProfileDefinitionMergesOntoDefaults(t *testing.T) {
	yamlDoc := `
name: unique-fuzzy
ilFactoryKind: unique-fuzzy
thresholds:
  Class: 0.8
`
	def, err := LoadProfileDefinition(strings.NewReader(yamlDoc))
	require.NoError(t, err)
	require.Equal(t, "unique-fuzzy", def.Name)
	require.Equal(t, "unique-fuzzy", def.ILFactoryKind)
	// Fields not mentioned in the override document retain the default.
	require.Equal(t, "lfp", def.Extension)
	require.Equal(t, "default", def.IntegrationKind)
}

func TestLoadProfileDefinitionRejectsInvalidYAML(t *testing.T) {
	_, err := LoadProfileDefinition(strings.NewReader("name: [unterminated\n"))
	require.Error(t, err)
	require.True(t, apperr.HasKind(err, apperr.ConfigError))
}
