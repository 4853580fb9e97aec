package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/integrii/flaggy"
	"github.com/sirupsen/logrus"

	"github.com/matrixeditor/libfp/internal/apperr"
	"github.com/matrixeditor/libfp/internal/assemble"
	"github.com/matrixeditor/libfp/internal/benchmark"
	"github.com/matrixeditor/libfp/internal/config"
	"github.com/matrixeditor/libfp/internal/dataset"
	"github.com/matrixeditor/libfp/internal/groundtruth"
	"github.com/matrixeditor/libfp/internal/profile"
	"github.com/matrixeditor/libfp/internal/profileio"
)

// benchmarkCommand implements `libfp benchmark --dataset <conf> --profile
// <def> --app <app> [--output <json>] [-roc t1,t2,...] [case1,case2,...|-*]`
// (spec.md §6). The -roc thresholds and the cases are each read as one
// comma-separated argument; space-separated lists are not accepted.
type benchmarkCommand struct {
	cmd *flaggy.Subcommand

	datasetPath string
	profilePath string
	app         string
	output      string
	rocRaw      string
	cases       string
}

func newBenchmarkCommand() *benchmarkCommand {
	b := &benchmarkCommand{cmd: flaggy.NewSubcommand("benchmark")}
	b.cmd.Description = "run app-vs-library benchmarks and write a JSON report"
	b.cmd.String(&b.datasetPath, "c", "dataset", "dataset config file")
	b.cmd.String(&b.profilePath, "p", "profile", "profile definition YAML file")
	b.cmd.String(&b.app, "a", "app", "app file name")
	b.cmd.String(&b.output, "o", "output", "JSON report output path (defaults to stdout)")
	b.cmd.String(&b.rocRaw, "roc", "roc", "comma-separated similarity thresholds to sweep")
	b.cmd.AddPositionalValue(&b.cases, "cases", 1, false, "comma-separated library names, or -* for every library")
	return b
}

func (b *benchmarkCommand) run(log *logrus.Entry) error {
	if b.datasetPath == "" || b.profilePath == "" || b.app == "" {
		return apperr.New(apperr.ConfigError, "benchmark: --dataset, --profile and --app are all required")
	}

	dc, def, err := loadDatasetAndDefinition(b.datasetPath, b.profilePath)
	if err != nil {
		return err
	}
	bundle, err := assemble.Resolve(def)
	if err != nil {
		return err
	}
	layout := dataset.New(dc.BaseDir, def.TargetDir, def.Extension)

	appManager, err := readProfile(layout.AppProfilePath(shortName(b.app), b.app), bundle, true)
	if err != nil {
		return err
	}

	gtFile, err := os.Open(dc.GroundTruth)
	if err != nil {
		return apperr.New(apperr.IO, "open ground-truth file %q: %v", dc.GroundTruth, err)
	}
	defer gtFile.Close()
	gt, err := groundtruth.Load(gtFile)
	if err != nil {
		return err
	}

	caseNames, err := b.resolveCases(dc)
	if err != nil {
		return err
	}

	driver := benchmark.New(bundle.Registry, bundle.Thresholds, true, func(ctx context.Context) ([]benchmark.Library, error) {
		return loadLibraries(layout, bundle, caseNames)
	})

	results, err := driver.Benchmark(context.Background(), appManager.CHA)
	if err != nil {
		return err
	}

	thresholds, err := b.thresholds(def)
	if err != nil {
		return err
	}

	whitelist, err := gt.GetLibraries(shortName(b.app))
	if err != nil {
		return err
	}

	report := make([]thresholdReport, len(thresholds))
	for i, th := range thresholds {
		acc := benchmark.ComputeAccuracy(results, whitelist, th, len(caseNames))
		variant, _ := dataset.SplitVariant(b.app)
		report[i] = thresholdReport{
			Threshold: th,
			AppTypes: map[string]appTypeReport{
				variant: {
					Matrix: accuracyToMatrix(acc),
					Tests:  resultsToTests(results),
				},
			},
			Config: def.Thresholds,
		}
	}

	return b.writeReport(report)
}

func (b *benchmarkCommand) resolveCases(dc *config.DatasetConfig) ([]string, error) {
	if b.cases == "" || b.cases == "-*" {
		libsDir := filepath.Join(dc.BaseDir, "libs")
		entries, err := os.ReadDir(libsDir)
		if err != nil {
			return nil, apperr.New(apperr.IO, "list libraries in %q: %v", libsDir, err)
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if !e.IsDir() {
				names = append(names, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
			}
		}
		return names, nil
	}
	return strings.Split(b.cases, ","), nil
}

func (b *benchmarkCommand) thresholds(def config.ProfileDefinition) ([]float64, error) {
	if b.rocRaw == "" {
		return []float64{def.Thresholds["CHA"]}, nil
	}
	parts := strings.Split(b.rocRaw, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, apperr.New(apperr.ConfigError, "invalid -roc threshold %q: %v", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (b *benchmarkCommand) writeReport(report []thresholdReport) error {
	w := os.Stdout
	if b.output != "" {
		f, err := os.Create(b.output)
		if err != nil {
			return apperr.New(apperr.IO, "create report %q: %v", b.output, err)
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return apperr.New(apperr.IO, "write report: %v", err)
	}
	return nil
}

func loadLibraries(layout dataset.Layout, bundle *assemble.Bundle, names []string) ([]benchmark.Library, error) {
	out := make([]benchmark.Library, 0, len(names))
	for _, name := range names {
		m, err := readProfile(layout.LibProfilePath(name), bundle, false)
		if err != nil {
			return nil, err
		}
		_, version := assemble.ProfileInfoOf(m)
		out = append(out, benchmark.Library{Name: name, Profile: m.CHA, Version: version})
	}
	return out, nil
}

func readProfile(path string, bundle *assemble.Bundle, isAppProfile bool) (*profile.Manager, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperr.New(apperr.IO, "open profile %q: %v", path, err)
	}
	defer f.Close()
	return profileio.Read(f, bundle.Provider(isAppProfile))
}

