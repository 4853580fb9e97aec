package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/integrii/flaggy"
	"github.com/sirupsen/logrus"

	"github.com/matrixeditor/libfp/internal/apperr"
	"github.com/matrixeditor/libfp/internal/config"
	"github.com/matrixeditor/libfp/internal/dataset"
	"github.com/matrixeditor/libfp/internal/groundtruth"
)

// inspectCommand implements `libfp inspect --dataset <conf> <app>`
// (spec.md §6): print resolved paths and ground-truth libraries, plus a
// dry-run listing of which library profiles are cached versus would be
// rebuilt (SPEC_FULL.md §10).
type inspectCommand struct {
	cmd *flaggy.Subcommand

	datasetPath string
	profileExt  string
	targetDir   string
	app         string
}

func newInspectCommand() *inspectCommand {
	i := &inspectCommand{cmd: flaggy.NewSubcommand("inspect")}
	i.cmd.Description = "print resolved paths and ground-truth libraries for an app"
	i.cmd.String(&i.datasetPath, "c", "dataset", "dataset config file")
	i.cmd.AddPositionalValue(&i.app, "app", 1, false, "app file name")
	return i
}

func (i *inspectCommand) run(log *logrus.Entry) error {
	if i.datasetPath == "" || i.app == "" {
		return apperr.New(apperr.ConfigError, "inspect: --dataset and an app are both required")
	}

	df, err := os.Open(i.datasetPath)
	if err != nil {
		return apperr.New(apperr.IO, "open dataset config %q: %v", i.datasetPath, err)
	}
	defer df.Close()
	dc, err := config.LoadDatasetConfig(df)
	if err != nil {
		return err
	}

	layout := dataset.New(dc.BaseDir, dc.TargetDir, dc.Extension)
	variant, short := dataset.SplitVariant(i.app)

	fmt.Printf("app:             %s\n", i.app)
	fmt.Printf("variant:         %s\n", variant)
	fmt.Printf("short name:      %s\n", short)
	fmt.Printf("app bundle:      %s\n", layout.AppBundlePath(i.app))
	fmt.Printf("app profile:     %s\n", layout.AppProfilePath(short, i.app))

	if dc.GroundTruth != "" {
		gtFile, err := os.Open(dc.GroundTruth)
		if err != nil {
			return apperr.New(apperr.IO, "open ground-truth file %q: %v", dc.GroundTruth, err)
		}
		defer gtFile.Close()
		gt, err := groundtruth.Load(gtFile)
		if err != nil {
			return err
		}
		libs, err := gt.GetLibraries(short)
		if err != nil {
			return err
		}
		names := make([]string, 0, len(libs))
		for lib := range libs {
			names = append(names, lib)
		}
		sort.Strings(names)
		fmt.Println("ground-truth libraries:")
		for _, lib := range names {
			cached := "would rebuild"
			if _, err := os.Stat(layout.LibProfilePath(lib)); err == nil {
				cached = "cached"
			}
			fmt.Printf("  %-32s %s\n", lib, cached)
		}
	}
	return nil
}
