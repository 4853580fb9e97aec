// Command libfp implements the CLI surface spec.md §6 names: build,
// benchmark and inspect, against a dataset and a profile definition.
package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/integrii/flaggy"
	"github.com/samber/lo"

	"github.com/matrixeditor/libfp/internal/apperr"
	"github.com/matrixeditor/libfp/internal/logging"
)

const defaultVersion = "unversioned"

var (
	commit      string
	version     = defaultVersion
	date        string
	buildSource = "unknown"

	debugFlag bool
)

func main() {
	updateBuildInfo()

	info := fmt.Sprintf(
		"%s\nDate: %s\nBuildSource: %s\nCommit: %s\nOS: %s\nArch: %s",
		version, date, buildSource, commit, runtime.GOOS, runtime.GOARCH,
	)

	flaggy.SetName("libfp")
	flaggy.SetDescription("Third-party library fingerprinting for compiled Android bundles")
	flaggy.SetVersion(info)
	flaggy.Bool(&debugFlag, "d", "debug", "enable debug logging to ./libfp-debug.log")

	build := newBuildCommand()
	benchmark := newBenchmarkCommand()
	inspect := newInspectCommand()

	flaggy.AttachSubcommand(build.cmd, 1)
	flaggy.AttachSubcommand(benchmark.cmd, 1)
	flaggy.AttachSubcommand(inspect.cmd, 1)

	flaggy.Parse()

	log := logging.NewLogger(
		logging.Options{Debug: debugFlag},
		logging.BuildInfo{Version: version, Commit: commit, BuildDate: date},
	)

	var err error
	switch {
	case build.cmd.Used:
		err = build.run(log)
	case benchmark.cmd.Used:
		err = benchmark.run(log)
	case inspect.cmd.Used:
		err = inspect.run(log)
	default:
		flaggy.ShowHelpAndExit("no command given")
		return
	}

	if err != nil {
		log.WithError(err).Error("command failed")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps an apperr.Kind to spec.md §6's exit codes: 1 bad args, 2
// I/O failure, 3 format mismatch; anything else falls back to 1.
func exitCodeFor(err error) int {
	switch {
	case apperr.HasKind(err, apperr.FormatMismatch):
		return 3
	case apperr.HasKind(err, apperr.IO):
		return 2
	default:
		return 1
	}
}

func updateBuildInfo() {
	if version != defaultVersion {
		return
	}
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if revision, ok := lo.Find(buildInfo.Settings, func(s debug.BuildSetting) bool {
		return s.Key == "vcs.revision"
	}); ok {
		commit = revision.Value
		version = safeTruncate(revision.Value, 7)
	}
	if t, ok := lo.Find(buildInfo.Settings, func(s debug.BuildSetting) bool {
		return s.Key == "vcs.time"
	}); ok {
		date = t.Value
	}
}

func safeTruncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
