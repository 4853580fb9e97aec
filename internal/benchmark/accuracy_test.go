package benchmark

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfusionMatrixScenario(t *testing.T) {
	// spec.md §8 scenario 7.
	results := []TestResult{
		{Library: "L1", Status: StatusOK, Similarity: 0.9},
		{Library: "L2", Status: StatusOK, Similarity: 0.4},
		{Library: "L4", Status: StatusOK, Similarity: 0.7},
		{Library: "L5", Status: StatusOK, Similarity: 0.2},
	}
	whitelist := map[string]bool{"L1": true, "L2": true, "L3": true}

	acc := ComputeAccuracy(results, whitelist, 0.6, 10)
	require.Equal(t, 1, acc.TP)
	require.Equal(t, 2, acc.FN)
	require.Equal(t, 1, acc.FP)
	require.Equal(t, 6, acc.TN) // 10 - TP - FP - FN = 10 - 1 - 1 - 2

	require.InDelta(t, 0.5, acc.Precision, 1e-9)
	require.InDelta(t, 1.0/3.0, acc.Recall, 1e-9)
}

func TestROCSweepProducesOneAccuracyPerThreshold(t *testing.T) {
	results := []TestResult{
		{Library: "L1", Status: StatusOK, Similarity: 0.9},
		{Library: "L2", Status: StatusOK, Similarity: 0.4},
	}
	whitelist := map[string]bool{"L1": true, "L2": true}

	sweep := ROCSweep(results, whitelist, []float64{0.3, 0.5, 0.95}, 5)
	require.Len(t, sweep, 3)
	require.Equal(t, 2, sweep[0].TP) // both pass 0.3
	require.Equal(t, 1, sweep[1].TP) // only L1 passes 0.5
	require.Equal(t, 0, sweep[2].TP) // neither passes 0.95
}

func TestAccuracyDivisionByZeroIsSafe(t *testing.T) {
	acc := deriveAccuracy(0, 0, 0, 0)
	require.Equal(t, 0.0, acc.Precision)
	require.Equal(t, 0.0, acc.Recall)
	require.Equal(t, 0.0, acc.F1)
}
