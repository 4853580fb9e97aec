package benchmark

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixeditor/libfp/internal/groundtruth"
)

func TestComputeAccuracyVersionedRejectsWrongVersion(t *testing.T) {
	gt, err := groundtruth.Load(strings.NewReader("app1 ; L1@1.0,1.1\napp1 ; L2\n"))
	require.NoError(t, err)

	results := []TestResult{
		{Library: "L1", Status: StatusOK, Similarity: 0.9, Version: "2.0"},
		{Library: "L2", Status: StatusOK, Similarity: 0.9, Version: ""},
	}

	acc, err := ComputeAccuracyVersioned("app1", results, gt, 0.5, 5)
	require.NoError(t, err)
	// L1 matched at the wrong version -> FP, not TP; its whitelist slot
	// also goes unmet -> FN. L2 carries no version constraint -> TP.
	require.Equal(t, 1, acc.TP)
	require.Equal(t, 1, acc.FP)
	require.Equal(t, 1, acc.FN)
}

func TestComputeAccuracyVersionedAcceptsWhitelistedVersion(t *testing.T) {
	gt, err := groundtruth.Load(strings.NewReader("app1 ; L1@1.0,1.1\n"))
	require.NoError(t, err)

	results := []TestResult{
		{Library: "L1", Status: StatusOK, Similarity: 0.9, Version: "1.1"},
	}

	acc, err := ComputeAccuracyVersioned("app1", results, gt, 0.5, 3)
	require.NoError(t, err)
	require.Equal(t, 1, acc.TP)
	require.Equal(t, 0, acc.FP)
	require.Equal(t, 0, acc.FN)
}

func TestComputeAccuracyVersionedUnknownAppErrors(t *testing.T) {
	gt, err := groundtruth.Load(strings.NewReader("app1 ; L1\n"))
	require.NoError(t, err)

	_, err = ComputeAccuracyVersioned("app2", nil, gt, 0.5, 1)
	require.Error(t, err)
}

func TestGroupByVariantBucketsByPrefix(t *testing.T) {
	batches := map[string][]TestResult{
		"proguard-app1.apk": {{Library: "L1"}},
		"app1.apk":          {{Library: "L1"}},
		"proguard-app2.apk": {{Library: "L2"}},
	}
	groups := GroupByVariant(batches)

	byVariant := make(map[string]int)
	for _, g := range groups {
		byVariant[g.Variant] = len(g.Apps)
	}
	require.Equal(t, 2, byVariant["proguard"])
	require.Equal(t, 1, byVariant["default"])
}
