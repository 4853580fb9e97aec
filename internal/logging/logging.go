// Package logging wraps logrus the way the teacher's pkg/log does: in
// production an error-level logger whose output is discarded, and in
// development a JSON-formatted file sink at LOG_LEVEL (debug by default),
// both carrying the same version/commit/build-date fields on every entry.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// BuildInfo carries the version metadata cmd/libfp wires in from
// debug.ReadBuildInfo() (or linker -X flags for a released binary).
type BuildInfo struct {
	Version   string
	Commit    string
	BuildDate string
}

// Options configures NewLogger.
type Options struct {
	Debug bool
	// LogDir is where the debug-mode file sink is created; ignored in
	// production mode.
	LogDir string
}

// NewLogger returns a logger pre-loaded with build-info fields, matching
// the teacher's NewLogger(config, rollrusHook) shape minus the rollrus
// hook, which has no analogue in this domain.
func NewLogger(opts Options, info BuildInfo) *logrus.Entry {
	var log *logrus.Logger
	if opts.Debug || os.Getenv("DEBUG") == "TRUE" {
		log = newDevelopmentLogger(opts.LogDir)
	} else {
		log = newProductionLogger()
	}
	log.Formatter = &logrus.JSONFormatter{}

	return log.WithFields(logrus.Fields{
		"debug":     opts.Debug,
		"version":   info.Version,
		"commit":    info.Commit,
		"buildDate": info.BuildDate,
	})
}

func getLogLevel() logrus.Level {
	strLevel := os.Getenv("LOG_LEVEL")
	level, err := logrus.ParseLevel(strLevel)
	if err != nil {
		return logrus.DebugLevel
	}
	return level
}

func newDevelopmentLogger(logDir string) *logrus.Logger {
	log := logrus.New()
	log.SetLevel(getLogLevel())
	if logDir == "" {
		logDir = "."
	}
	file, err := os.OpenFile(filepath.Join(logDir, "libfp-debug.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		fmt.Fprintln(os.Stderr, "unable to open debug log file, falling back to stderr:", err)
		log.SetOutput(os.Stderr)
		return log
	}
	log.SetOutput(file)
	return log
}

func newProductionLogger() *logrus.Logger {
	log := logrus.New()
	log.Out = io.Discard
	log.SetLevel(logrus.ErrorLevel)
	return log
}
