// Package benchmark implements the benchmark driver (spec.md §4.10, §5):
// running an app profile against every library profile in a dataset,
// recording per-pair results, and deriving confusion-matrix accuracy and
// ROC sweeps. The worker pool is built on golang.org/x/sync/errgroup and
// golang.org/x/sync/semaphore (grounded on the AKJUS-bsc-erigon example's
// go.mod, which requires golang.org/x/sync for the same bounded-fan-out
// shape), bounding concurrent (app, library) comparisons to a configurable
// limit that defaults to runtime.NumCPU().
package benchmark

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/matrixeditor/libfp/internal/apperr"
	"github.com/matrixeditor/libfp/internal/profile"
	"github.com/matrixeditor/libfp/internal/strategy"
)

// Status is the outcome of one (app, library) comparison.
type Status int

const (
	StatusOK Status = iota
	StatusFailure
	StatusTimeout
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusFailure:
		return "failure"
	case StatusTimeout:
		return "timeout"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// TestResult is one (app, library) comparison outcome (spec.md §4.10).
type TestResult struct {
	Library    string
	Status     Status
	Similarity float64
	WallTime   time.Duration
	Err        error
	// Version is the library version reported by lib's profile-info header
	// (spec.md §10 "version whitelist enforcement"); empty when the
	// profile carries no version metadata.
	Version string
}

// Library is a named, loaded library profile.
type Library struct {
	Name    string
	Profile *profile.CHAProfile
	// Version, if set, is recorded on every TestResult this library
	// produces so ComputeAccuracyVersioned can consult a ground-truth
	// per-library version whitelist.
	Version string
}

// Driver runs benchmarks over a fixed library set with a bounded worker
// pool (spec.md §5: "Parallelism granularity is one task per (app,
// library) pair").
type Driver struct {
	registry *strategy.Registry
	cfg      strategy.Config

	cacheProfiles bool
	libraries     []Library
	libsLoaded    bool
	loadLibraries func(ctx context.Context) ([]Library, error)

	// Concurrency bounds the number of in-flight (app, library) tasks;
	// defaults to runtime.NumCPU() when zero.
	Concurrency int
	// ForceGC enables the advisory runtime.GC() hook between tasks (spec.md
	// §5: "advisory and must not change semantics"); off by default.
	ForceGC bool
	// TaskTimeout, if non-zero, bounds a single comparison; a timed-out
	// task yields StatusTimeout and is excluded from accuracy.
	TaskTimeout time.Duration
}

// New builds a Driver. loadLibraries is called once (and memoized) when
// cacheProfiles is true; otherwise it runs fresh for every Benchmark call
// (spec.md §4.10 "Cache policy").
func New(registry *strategy.Registry, cfg strategy.Config, cacheProfiles bool, loadLibraries func(ctx context.Context) ([]Library, error)) *Driver {
	return &Driver{
		registry:      registry,
		cfg:           cfg,
		cacheProfiles: cacheProfiles,
		loadLibraries: loadLibraries,
		Concurrency:   runtime.NumCPU(),
	}
}

// LoadLibraries memoizes the library set once (spec.md §4.10
// "loadLibraries() — memoize all library profiles once").
func (d *Driver) LoadLibraries(ctx context.Context) ([]Library, error) {
	if d.cacheProfiles && d.libsLoaded {
		return d.libraries, nil
	}
	libs, err := d.loadLibraries(ctx)
	if err != nil {
		return nil, err
	}
	if d.cacheProfiles {
		d.libraries = libs
		d.libsLoaded = true
	}
	return libs, nil
}

// Benchmark compares app against every loaded library profile, bounded by
// d.Concurrency, and returns one TestResult per library in no particular
// order (spec.md §5: "results ... may be observed in any order"). ctx
// cancellation is observed between library submissions; in-flight tasks
// run to completion (spec.md §5).
func (d *Driver) Benchmark(ctx context.Context, app *profile.CHAProfile) ([]TestResult, error) {
	libs, err := d.LoadLibraries(ctx)
	if err != nil {
		return nil, err
	}

	concurrency := d.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	sem := semaphore.NewWeighted(int64(concurrency))

	// Each goroutine writes only its own results[i] slot, so no lock is
	// needed despite the shared backing array.
	results := make([]TestResult, len(libs))

	var g errgroup.Group
	for i, lib := range libs {
		i, lib := i, lib
		if err := sem.Acquire(ctx, 1); err != nil {
			results[i] = TestResult{Library: lib.Name, Status: StatusCancelled, Err: apperr.New(apperr.Cancelled, "cancelled before %s", lib.Name)}
			continue
		}
		g.Go(func() error {
			defer sem.Release(1)
			results[i] = d.runOne(ctx, app, lib)
			if d.ForceGC {
				runtime.GC()
			}
			return nil
		})
	}
	_ = g.Wait()
	return results, nil
}

func (d *Driver) runOne(outerCtx context.Context, app *profile.CHAProfile, lib Library) TestResult {
	select {
	case <-outerCtx.Done():
		return TestResult{Library: lib.Name, Status: StatusCancelled, Err: apperr.New(apperr.Cancelled, "cancelled")}
	default:
	}

	// Once started, a task is bounded only by TaskTimeout: runCtx is not
	// derived from outerCtx, so cancelling outerCtx lets it run to completion.
	runCtx := context.Background()
	cancel := func() {}
	if d.TaskTimeout > 0 {
		runCtx, cancel = context.WithTimeout(context.Background(), d.TaskTimeout)
	}
	defer cancel()

	start := time.Now()
	type outcome struct {
		score float64
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		score, err := d.registry.SimilarityOf(app, lib.Profile, d.cfg)
		done <- outcome{score: score, err: err}
	}()

	select {
	case o := <-done:
		elapsed := time.Since(start)
		if o.err != nil {
			return TestResult{Library: lib.Name, Status: StatusFailure, WallTime: elapsed, Err: apperr.Wrap(o.err)}
		}
		return TestResult{Library: lib.Name, Status: StatusOK, Similarity: o.score, WallTime: elapsed, Version: lib.Version}
	case <-runCtx.Done():
		elapsed := time.Since(start)
		return TestResult{Library: lib.Name, Status: StatusTimeout, WallTime: elapsed, Err: apperr.New(apperr.TimeoutExceeded, "timeout comparing against %s", lib.Name)}
	}
}
