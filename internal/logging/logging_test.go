package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerProductionDiscardsBelowError(t *testing.T) {
	entry := NewLogger(Options{Debug: false}, BuildInfo{Version: "1.2.3"})
	require.Equal(t, "1.2.3", entry.Data["version"])
	require.False(t, entry.Data["debug"].(bool))
	require.Equal(t, logrus.ErrorLevel, entry.Logger.GetLevel())
}

func TestNewLoggerDevelopmentWritesToFile(t *testing.T) {
	dir := t.TempDir()
	entry := NewLogger(Options{Debug: true, LogDir: dir}, BuildInfo{Version: "dev"})
	entry.Info("hello")

	_, err := os.Stat(filepath.Join(dir, "libfp-debug.log"))
	require.NoError(t, err)
}

func TestGetLogLevelDefaultsToDebug(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	require.Equal(t, "debug", getLogLevel().String())
}

func TestGetLogLevelHonorsEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	require.Equal(t, "warning", getLogLevel().String())
}
