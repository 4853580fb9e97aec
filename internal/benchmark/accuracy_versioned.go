package benchmark

import (
	"github.com/matrixeditor/libfp/internal/dataset"
	"github.com/matrixeditor/libfp/internal/groundtruth"
)

// ComputeAccuracyVersioned is ComputeAccuracy restricted further by a
// per-library version whitelist (spec.md §10): a result only counts
// towards TP when gt.IsWhitelisted(app, library, version) also holds, so
// a library present under the wrong version counts as a false positive
// rather than a true positive.
func ComputeAccuracyVersioned(app string, results []TestResult, gt *groundtruth.Store, threshold float64, totalLibs int) (Accuracy, error) {
	whitelist, err := gt.GetLibraries(app)
	if err != nil {
		return Accuracy{}, err
	}

	var tp, fp, fn int
	seen := make(map[string]bool, len(results))
	for _, r := range results {
		seen[r.Library] = true
		positive := r.Status == StatusOK && r.Similarity >= threshold
		expected := whitelist[r.Library]
		versionOK := gt.IsWhitelisted(app, r.Library, r.Version)
		switch {
		case positive && expected && versionOK:
			tp++
		case positive && expected && !versionOK:
			// The right library was found but at the wrong version: the
			// detection is wrong (FP) and the expected version was never
			// correctly reported (FN).
			fp++
			fn++
		case positive && !expected:
			fp++
		case !positive && expected:
			fn++
		}
	}
	for lib := range whitelist {
		if !seen[lib] {
			fn++
		}
	}

	tn := totalLibs - tp - fp - fn
	if tn < 0 {
		tn = 0
	}
	return deriveAccuracy(tp, fp, tn, fn), nil
}

// VariantGroup is one app-type bucket of per-app benchmark results (spec.md
// Glossary "app type"; §10 "app-type / variant grouping").
type VariantGroup struct {
	Variant string
	Apps    map[string][]TestResult
}

// GroupByVariant buckets per-app result batches (keyed by app file name)
// by the variant prefix internal/dataset.SplitVariant parses from that
// name, so a ROC sweep can be run once per variant instead of conflating
// obfuscated and unobfuscated copies of the same app.
func GroupByVariant(batches map[string][]TestResult) []VariantGroup {
	byVariant := make(map[string]map[string][]TestResult)
	for appFile, results := range batches {
		variant, _ := dataset.SplitVariant(appFile)
		if byVariant[variant] == nil {
			byVariant[variant] = make(map[string][]TestResult)
		}
		byVariant[variant][appFile] = results
	}
	groups := make([]VariantGroup, 0, len(byVariant))
	for variant, apps := range byVariant {
		groups = append(groups, VariantGroup{Variant: variant, Apps: apps})
	}
	return groups
}
