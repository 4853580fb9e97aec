// Package strategy implements the strategy registry (spec.md §4.6): a
// type-keyed map from profile.Kind to a similarity strategy, a type-keyed
// ordered list of pipeline steps, and a set of eligibility policies. The
// pipeline executor (internal/pipeline) reads from a Registry; it never
// mutates one while a build is running (spec.md §5: "the strategy registry
// is read-only during the similarity phase").
package strategy

import (
	"sort"

	"github.com/matrixeditor/libfp/internal/apperr"
	"github.com/matrixeditor/libfp/internal/profile"
)

// Config carries per-kind thresholds and any other tunables a Similarity
// function needs; internal/config.ThresholdConfig implements it.
type Config interface {
	ThresholdFor(kind profile.Kind) float64
}

// Similarity computes a [0,1] score between an app-side and a library-side
// managed profile of the same kind.
type Similarity func(app, lib profile.Managed, cfg Config) (float64, error)

// Step is one pure feature-extraction step the pipeline executor runs
// against a (reference, target) pair while walking the class hierarchy
// (spec.md §4.7). Side effects are confined to target.
type Step interface {
	// TargetKind is the profile.Kind this step knows how to populate.
	TargetKind() profile.Kind
	// Test reports whether this step is eligible for the given kind; most
	// steps simply compare kind == TargetKind(), but a step may be shared
	// across several kinds.
	Test(kind profile.Kind) bool
	// Priority orders steps ascending; equal priorities keep insertion
	// order (spec.md §4.7).
	Priority() int
	// Run executes the step. reference is the already-built managed
	// profile being populated; target is the hierarchy node it is being
	// populated from (a hierarchy.Class, Method or Field).
	Run(reference profile.Managed, target interface{}) error
}

// Policy decides whether a given extraction context is eligible for
// profiling at all (spec.md §4.6 "policies"), e.g. skipping synthetic or
// bridge members before any Step ever runs.
type Policy func(kind profile.Kind, target interface{}) bool

// Registry is the two type-keyed maps plus policy set spec.md §4.6
// describes.
type Registry struct {
	similarities map[profile.Kind]Similarity
	steps        map[profile.Kind][]orderedStep
	policies     []Policy
}

type orderedStep struct {
	step  Step
	order int
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		similarities: make(map[profile.Kind]Similarity),
		steps:        make(map[profile.Kind][]orderedStep),
	}
}

// RegisterSimilarity binds kind to a similarity strategy.
func (r *Registry) RegisterSimilarity(kind profile.Kind, s Similarity) {
	r.similarities[kind] = s
}

// RegisterStep appends step under every kind it reports eligible via Test,
// among the five profile.Kind values; insertion order is preserved for
// stable-sort tie-breaking in getFeatureExtractors.
func (r *Registry) RegisterStep(step Step) {
	for _, k := range allKinds {
		if step.Test(k) {
			r.steps[k] = append(r.steps[k], orderedStep{step: step, order: len(r.steps[k])})
		}
	}
}

// AddPolicy registers an eligibility predicate.
func (r *Registry) AddPolicy(p Policy) {
	r.policies = append(r.policies, p)
}

var allKinds = []profile.Kind{
	profile.KindCHA,
	profile.KindPackage,
	profile.KindClass,
	profile.KindMethod,
	profile.KindField,
}

// Eligible reports whether every registered policy accepts (kind, target).
// An empty policy set accepts everything.
func (r *Registry) Eligible(kind profile.Kind, target interface{}) bool {
	for _, p := range r.policies {
		if !p(kind, target) {
			return false
		}
	}
	return true
}

// SimilarityOf dispatches on the runtime kind of app/lib to the registered
// strategy; missing registration is an UnsupportedKind error (spec.md
// §4.6). app and lib must share the same Kind — a mismatch is also
// UnsupportedKind, since no strategy is ever registered across kinds.
func (r *Registry) SimilarityOf(app, lib profile.Managed, cfg Config) (float64, error) {
	if app.Kind() != lib.Kind() {
		return 0, apperr.New(apperr.UnsupportedKind, "mismatched profile kinds %s vs %s", app.Kind(), lib.Kind())
	}
	s, ok := r.similarities[app.Kind()]
	if !ok {
		return 0, apperr.New(apperr.UnsupportedKind, "no similarity strategy registered for kind %s", app.Kind())
	}
	return s(app, lib, cfg)
}

// GetFeatureExtractors returns the steps eligible for kind, sorted by
// ascending Priority with insertion order as the tie-breaker (spec.md
// §4.7).
func (r *Registry) GetFeatureExtractors(kind profile.Kind) []Step {
	entries := append([]orderedStep(nil), r.steps[kind]...)
	sort.SliceStable(entries, func(i, j int) bool {
		pi, pj := entries[i].step.Priority(), entries[j].step.Priority()
		if pi != pj {
			return pi < pj
		}
		return entries[i].order < entries[j].order
	})
	out := make([]Step, len(entries))
	for i, e := range entries {
		out[i] = e.step
	}
	return out
}

// With merges r and other into a new registry; entries from other win on
// key collision in both maps (spec.md §4.6 "with(other) ... later wins"),
// and policies/steps are concatenated with other's appended last so its
// steps still sort correctly by Priority rather than being force-ordered
// after r's.
func (r *Registry) With(other *Registry) *Registry {
	merged := New()
	for k, v := range r.similarities {
		merged.similarities[k] = v
	}
	for k, v := range other.similarities {
		merged.similarities[k] = v
	}
	merged.policies = append(append([]Policy(nil), r.policies...), other.policies...)

	for _, k := range allKinds {
		combined := append([]orderedStep(nil), r.steps[k]...)
		base := len(combined)
		for _, e := range other.steps[k] {
			combined = append(combined, orderedStep{step: e.step, order: base + e.order})
		}
		if len(combined) > 0 {
			merged.steps[k] = combined
		}
	}
	return merged
}
