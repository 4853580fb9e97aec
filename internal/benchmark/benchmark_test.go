package benchmark

import (
	"context"
	"testing"
	"time"

	"github.com/matrixeditor/libfp/internal/profile"
	"github.com/matrixeditor/libfp/internal/strategy"
	"github.com/stretchr/testify/require"
)

type fakeConfig struct{}

func (fakeConfig) ThresholdFor(profile.Kind) float64 { return 0.5 }

func newFixedRegistry(score float64) *strategy.Registry {
	r := strategy.New()
	r.RegisterSimilarity(profile.KindCHA, func(app, lib profile.Managed, cfg strategy.Config) (float64, error) {
		return score, nil
	})
	return r
}

func TestBenchmarkRunsAllLibraries(t *testing.T) {
	libs := []Library{
		{Name: "a", Profile: profile.NewCHAProfile(nil)},
		{Name: "b", Profile: profile.NewCHAProfile(nil)},
		{Name: "c", Profile: profile.NewCHAProfile(nil)},
	}
	d := New(newFixedRegistry(0.8), fakeConfig{}, true, func(ctx context.Context) ([]Library, error) {
		return libs, nil
	})
	d.Concurrency = 2

	results, err := d.Benchmark(context.Background(), profile.NewCHAProfile(nil))
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		require.Equal(t, StatusOK, r.Status)
		require.Equal(t, 0.8, r.Similarity)
	}
}

func TestBenchmarkCachesLibrariesWhenEnabled(t *testing.T) {
	calls := 0
	libs := []Library{{Name: "a", Profile: profile.NewCHAProfile(nil)}}
	d := New(newFixedRegistry(1.0), fakeConfig{}, true, func(ctx context.Context) ([]Library, error) {
		calls++
		return libs, nil
	})

	_, err := d.Benchmark(context.Background(), profile.NewCHAProfile(nil))
	require.NoError(t, err)
	_, err = d.Benchmark(context.Background(), profile.NewCHAProfile(nil))
	require.NoError(t, err)
	require.Equal(t, 1, calls)
}

func TestBenchmarkReloadsLibrariesWhenCachingDisabled(t *testing.T) {
	calls := 0
	libs := []Library{{Name: "a", Profile: profile.NewCHAProfile(nil)}}
	d := New(newFixedRegistry(1.0), fakeConfig{}, false, func(ctx context.Context) ([]Library, error) {
		calls++
		return libs, nil
	})

	_, err := d.Benchmark(context.Background(), profile.NewCHAProfile(nil))
	require.NoError(t, err)
	_, err = d.Benchmark(context.Background(), profile.NewCHAProfile(nil))
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestBenchmarkAlreadyCancelledContext(t *testing.T) {
	libs := []Library{{Name: "a", Profile: profile.NewCHAProfile(nil)}}
	d := New(newFixedRegistry(1.0), fakeConfig{}, true, func(ctx context.Context) ([]Library, error) {
		return libs, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := d.Benchmark(ctx, profile.NewCHAProfile(nil))
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, StatusCancelled, results[0].Status)
}

func TestBenchmarkTaskTimeout(t *testing.T) {
	r := strategy.New()
	r.RegisterSimilarity(profile.KindCHA, func(app, lib profile.Managed, cfg strategy.Config) (float64, error) {
		time.Sleep(50 * time.Millisecond)
		return 1.0, nil
	})
	libs := []Library{{Name: "slow", Profile: profile.NewCHAProfile(nil)}}
	d := New(r, fakeConfig{}, true, func(ctx context.Context) ([]Library, error) { return libs, nil })
	d.TaskTimeout = 5 * time.Millisecond

	results, err := d.Benchmark(context.Background(), profile.NewCHAProfile(nil))
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, StatusTimeout, results[0].Status)
}
