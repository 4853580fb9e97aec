package strategy

import (
	"testing"

	"github.com/matrixeditor/libfp/internal/apperr"
	"github.com/matrixeditor/libfp/internal/profile"
	"github.com/stretchr/testify/require"
)

type fakeConfig map[profile.Kind]float64

func (c fakeConfig) ThresholdFor(k profile.Kind) float64 { return c[k] }

type fakeStep struct {
	kind     profile.Kind
	priority int
	calls    *[]string
	name     string
}

func (s fakeStep) TargetKind() profile.Kind  { return s.kind }
func (s fakeStep) Test(k profile.Kind) bool  { return k == s.kind }
func (s fakeStep) Priority() int             { return s.priority }
func (s fakeStep) Run(profile.Managed, interface{}) error {
	*s.calls = append(*s.calls, s.name)
	return nil
}

func TestSimilarityOfDispatchesAndErrors(t *testing.T) {
	r := New()
	r.RegisterSimilarity(profile.KindClass, func(app, lib profile.Managed, cfg Config) (float64, error) {
		return 0.5, nil
	})

	cha := profile.NewCHAProfile(nil)
	cls := profile.NewClassProfile(nil, 0)

	score, err := r.SimilarityOf(cls, cls, fakeConfig{})
	require.NoError(t, err)
	require.Equal(t, 0.5, score)

	_, err = r.SimilarityOf(cha, cha, fakeConfig{})
	require.Error(t, err)
	require.True(t, apperr.HasKind(err, apperr.UnsupportedKind))

	_, err = r.SimilarityOf(cls, cha, fakeConfig{})
	require.Error(t, err)
	require.True(t, apperr.HasKind(err, apperr.UnsupportedKind))
}

func TestGetFeatureExtractorsOrdering(t *testing.T) {
	var calls []string
	r := New()
	r.RegisterStep(fakeStep{kind: profile.KindClass, priority: 5, calls: &calls, name: "b"})
	r.RegisterStep(fakeStep{kind: profile.KindClass, priority: 1, calls: &calls, name: "a"})
	r.RegisterStep(fakeStep{kind: profile.KindClass, priority: 1, calls: &calls, name: "a2"})
	r.RegisterStep(fakeStep{kind: profile.KindMethod, priority: 0, calls: &calls, name: "method-only"})

	steps := r.GetFeatureExtractors(profile.KindClass)
	require.Len(t, steps, 3)
	for _, s := range steps {
		require.NoError(t, s.Run(nil, nil))
	}
	require.Equal(t, []string{"a", "a2", "b"}, calls)

	require.Len(t, r.GetFeatureExtractors(profile.KindMethod), 1)
	require.Empty(t, r.GetFeatureExtractors(profile.KindField))
}

func TestWithMergesAndLaterWins(t *testing.T) {
	r1 := New()
	r1.RegisterSimilarity(profile.KindClass, func(app, lib profile.Managed, cfg Config) (float64, error) {
		return 0.1, nil
	})
	var calls []string
	r1.RegisterStep(fakeStep{kind: profile.KindClass, priority: 1, calls: &calls, name: "r1-step"})

	r2 := New()
	r2.RegisterSimilarity(profile.KindClass, func(app, lib profile.Managed, cfg Config) (float64, error) {
		return 0.9, nil
	})
	r2.RegisterStep(fakeStep{kind: profile.KindClass, priority: 0, calls: &calls, name: "r2-step"})

	merged := r1.With(r2)
	cls := profile.NewClassProfile(nil, 0)
	score, err := merged.SimilarityOf(cls, cls, fakeConfig{})
	require.NoError(t, err)
	require.Equal(t, 0.9, score)

	steps := merged.GetFeatureExtractors(profile.KindClass)
	require.Len(t, steps, 2)
	require.Equal(t, "r2-step", steps[0].(fakeStep).name)
	require.Equal(t, "r1-step", steps[1].(fakeStep).name)
}

func TestEligibleWithPolicies(t *testing.T) {
	r := New()
	require.True(t, r.Eligible(profile.KindClass, nil))

	r.AddPolicy(func(kind profile.Kind, target interface{}) bool {
		return kind != profile.KindField
	})
	require.True(t, r.Eligible(profile.KindClass, nil))
	require.False(t, r.Eligible(profile.KindField, nil))
}
