package matching

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPerfectBipartiteMatching(t *testing.T) {
	edges := []Edge{
		{App: 0, Lib: 0, Weight: 1.0},
		{App: 1, Lib: 1, Weight: 1.0},
		{App: 2, Lib: 2, Weight: 1.0},
	}
	r := Match(3, 3, edges, MaxWeightBipartite)
	require.True(t, r.Perfect)
	require.Equal(t, 1.0, Score(r, 3))
}

func TestRemovingOneClassDropsScoreToTwoThirds(t *testing.T) {
	edges := []Edge{
		{App: 0, Lib: 0, Weight: 1.0},
		{App: 1, Lib: 1, Weight: 1.0},
	}
	r := Match(2, 3, edges, MaxWeightBipartite)
	require.False(t, r.Perfect)
	require.InDelta(t, 2.0/3.0, Score(r, 3), 1e-9)
}

func TestDegenerateEmptyPartitionScoresZero(t *testing.T) {
	require.Equal(t, 0.0, Score(Match(0, 3, nil, MaxWeightBipartite), 3))
	require.Equal(t, 0.0, Score(Match(3, 0, nil, MaxWeightBipartite), 0))
}

func TestHungarianPerfectMatching(t *testing.T) {
	edges := []Edge{
		{App: 0, Lib: 0, Weight: 0.9},
		{App: 0, Lib: 1, Weight: 0.2},
		{App: 1, Lib: 0, Weight: 0.3},
		{App: 1, Lib: 1, Weight: 0.8},
	}
	r := Match(2, 2, edges, Hungarian)
	require.True(t, r.Perfect)
	require.Equal(t, 1.0, Score(r, 2))
}

func TestMaxWeightPrefersHigherTotalWeight(t *testing.T) {
	edges := []Edge{
		{App: 0, Lib: 0, Weight: 0.9},
		{App: 1, Lib: 0, Weight: 0.1},
		{App: 1, Lib: 1, Weight: 0.95},
	}
	r := Match(2, 2, edges, MaxWeightBipartite)
	require.True(t, r.Perfect)

	byLib := map[int]float64{}
	for _, p := range r.Pairs {
		byLib[p.Lib] = p.Weight
	}
	require.Equal(t, 0.9, byLib[0])
	require.Equal(t, 0.95, byLib[1])
}

func TestMultiPhaseFilterBelowThresholdScoresZero(t *testing.T) {
	// matched-edge ratio 0.4 with a class threshold of 0.5 must zero the
	// combined score regardless of any method-level similarity.
	r := Result{
		Pairs:   []Edge{{App: 0, Lib: 0, Weight: 1.0}, {App: 1, Lib: 1, Weight: 1.0}},
		Perfect: false,
	}
	h := MultiPhase{LayerThreshold: 0.5}
	refinements := []Refinement{{Ratio: 1.0, Weight: 1}, {Ratio: 1.0, Weight: 1}}

	score := h.Aggregate(r, 5, refinements) // 2/5 = 0.4 < 0.5
	require.Equal(t, 0.0, score)
}

func TestMultiPhaseWeightedAggregation(t *testing.T) {
	r := Result{
		Pairs:   []Edge{{App: 0, Lib: 0, Weight: 1.0}, {App: 1, Lib: 1, Weight: 1.0}},
		Perfect: true,
	}
	h := MultiPhase{LayerThreshold: 0.5}
	refinements := []Refinement{{Ratio: 0.5, Weight: 2}, {Ratio: 1.0, Weight: 1}}

	// Σ r_i*w_i / Σ w_i = (0.5*2 + 1.0*1) / 3 = 2/3
	score := h.Aggregate(r, 2, refinements)
	require.InDelta(t, 2.0/3.0, score, 1e-9)
}

func TestMultiPhaseFallsBackToPlainSumWhenNoWeights(t *testing.T) {
	r := Result{
		Pairs:   []Edge{{App: 0, Lib: 0, Weight: 1.0}, {App: 1, Lib: 1, Weight: 1.0}},
		Perfect: true,
	}
	h := MultiPhase{LayerThreshold: 0.0}
	refinements := []Refinement{} // no pairs refined => weightTotal stays 0

	score := h.Aggregate(r, 2, refinements)
	require.Equal(t, 0.0, score)
}

func TestDefaultHandlerMatchesScore(t *testing.T) {
	r := Result{Pairs: []Edge{{App: 0, Lib: 0, Weight: 1}}, Perfect: false}
	require.Equal(t, Score(r, 4), DefaultHandler{}.Aggregate(r, 4))
}
