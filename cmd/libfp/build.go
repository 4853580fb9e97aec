package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/integrii/flaggy"
	"github.com/sirupsen/logrus"

	"github.com/matrixeditor/libfp/internal/apperr"
	"github.com/matrixeditor/libfp/internal/assemble"
	"github.com/matrixeditor/libfp/internal/config"
	"github.com/matrixeditor/libfp/internal/dataset"
	"github.com/matrixeditor/libfp/internal/pipeline"
	"github.com/matrixeditor/libfp/internal/profile"
	"github.com/matrixeditor/libfp/internal/profileio"
)

// buildCommand implements `libfp build --profile <def> --dataset <conf>
// <app | -*>` (spec.md §6).
type buildCommand struct {
	cmd *flaggy.Subcommand

	profilePath string
	datasetPath string
	target      string
	jobs        int
}

func newBuildCommand() *buildCommand {
	b := &buildCommand{cmd: flaggy.NewSubcommand("build")}
	b.cmd.Description = "construct app or library profiles"
	b.cmd.String(&b.profilePath, "p", "profile", "profile definition YAML file")
	b.cmd.String(&b.datasetPath, "c", "dataset", "dataset config file")
	b.cmd.Int(&b.jobs, "j", "jobs", "number of classes built concurrently (0 = runtime.NumCPU())")
	b.cmd.AddPositionalValue(&b.target, "target", 1, true, "app short name, or -* for every library")
	return b
}

func (b *buildCommand) run(log *logrus.Entry) error {
	if b.profilePath == "" || b.datasetPath == "" || b.target == "" {
		return apperr.New(apperr.ConfigError, "build: --profile, --dataset and a target are all required")
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

	exec := pipeline.New(bundle.Registry)
	if b.jobs > 0 {
		exec.Concurrency = b.jobs
	}

	if b.target == "-*" {
		return b.buildAllLibraries(log, dc, layout, bundle, exec)
	}
	return b.buildApp(log, layout, bundle, exec, b.target)
}

func (b *buildCommand) buildApp(log *logrus.Entry, layout dataset.Layout, bundle *assemble.Bundle, exec *pipeline.Executor, app string) error {
	view, err := unimplementedLoader(layout.AppBundlePath(app))
	if err != nil {
		return err
	}

	m := bundle.NewManager(true)
	assemble.SetProfileInfo(m, app, "")
	if err := exec.Build(context.Background(), view, m); err != nil {
		return err
	}

	outPath := layout.AppProfilePath(shortName(app), app)
	return writeProfile(outPath, m)
}

func (b *buildCommand) buildAllLibraries(log *logrus.Entry, dc *config.DatasetConfig, layout dataset.Layout, bundle *assemble.Bundle, exec *pipeline.Executor) error {
	libsDir := filepath.Join(dc.BaseDir, "libs")
	entries, err := os.ReadDir(libsDir)
	if err != nil {
		return apperr.New(apperr.IO, "list libraries in %q: %v", libsDir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		lib := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		bundleExt := strings.TrimPrefix(filepath.Ext(entry.Name()), ".")

		view, err := unimplementedLoader(layout.LibBundlePath(lib, bundleExt))
		if err != nil {
			log.WithField("library", lib).WithError(err).Error("skipping library")
			continue
		}

		m := bundle.NewManager(false)
		assemble.SetProfileInfo(m, lib, "")
		if err := exec.Build(context.Background(), view, m); err != nil {
			return err
		}
		if err := writeProfile(layout.LibProfilePath(lib), m); err != nil {
			return err
		}
	}
	return nil
}

func writeProfile(path string, m *profile.Manager) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperr.New(apperr.IO, "create profile directory for %q: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return apperr.New(apperr.IO, "create profile %q: %v", path, err)
	}
	defer f.Close()
	return profileio.Write(f, m, 0)
}

func shortName(app string) string {
	_, short := dataset.SplitVariant(app)
	return short
}

func loadDatasetAndDefinition(datasetPath, profilePath string) (*config.DatasetConfig, config.ProfileDefinition, error) {
	df, err := os.Open(datasetPath)
	if err != nil {
		return nil, config.ProfileDefinition{}, apperr.New(apperr.IO, "open dataset config %q: %v", datasetPath, err)
	}
	defer df.Close()
	dc, err := config.LoadDatasetConfig(df)
	if err != nil {
		return nil, config.ProfileDefinition{}, err
	}

	pf, err := os.Open(profilePath)
	if err != nil {
		return nil, config.ProfileDefinition{}, apperr.New(apperr.IO, "open profile definition %q: %v", profilePath, err)
	}
	defer pf.Close()
	def, err := config.LoadProfileDefinition(pf)
	if err != nil {
		return nil, config.ProfileDefinition{}, err
	}
	return dc, def, nil
}

