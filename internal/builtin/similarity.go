package builtin

import (
	"github.com/matrixeditor/libfp/internal/apperr"
	"github.com/matrixeditor/libfp/internal/fphash"
	"github.com/matrixeditor/libfp/internal/matching"
	"github.com/matrixeditor/libfp/internal/profile"
	"github.com/matrixeditor/libfp/internal/strategy"
)

// FieldSimilarity compares two field profiles by descriptor string
// equality, resolved through each side's own descriptor pool — fields
// carry no richer feature payload than their descriptor (spec.md §4.2).
func FieldSimilarity(app, lib profile.Managed, cfg strategy.Config) (float64, error) {
	fa, ok := app.(*profile.FieldProfile)
	if !ok {
		return 0, apperr.New(apperr.UnsupportedKind, "FieldSimilarity: unexpected app type %T", app)
	}
	fb, ok := lib.(*profile.FieldProfile)
	if !ok {
		return 0, apperr.New(apperr.UnsupportedKind, "FieldSimilarity: unexpected lib type %T", lib)
	}
	if descriptorOf(fa.Manager(), fa.Descriptor) == descriptorOf(fb.Manager(), fb.Descriptor) {
		return 1.0, nil
	}
	return 0, nil
}

// MethodSimilarity combines descriptor equality (a fast, exact match) with
// the TLSH-distance score over each side's normalized instruction stream
// (spec.md §4.2, §4.5): identical descriptors short-circuit to 1.0,
// otherwise the TLSH digests (when both present) drive the score.
func MethodSimilarity(app, lib profile.Managed, cfg strategy.Config) (float64, error) {
	ma, ok := app.(*profile.MethodProfile)
	if !ok {
		return 0, apperr.New(apperr.UnsupportedKind, "MethodSimilarity: unexpected app type %T", app)
	}
	mb, ok := lib.(*profile.MethodProfile)
	if !ok {
		return 0, apperr.New(apperr.UnsupportedKind, "MethodSimilarity: unexpected lib type %T", lib)
	}
	if descriptorOf(ma.Manager(), ma.Descriptor) == descriptorOf(mb.Manager(), mb.Descriptor) {
		return 1.0, nil
	}

	da, _ := ma.Get(keyTLSH)
	db, _ := mb.Get(keyTLSH)
	digestA, _ := da.(fphash.TLSHDigest)
	digestB, _ := db.(fphash.TLSHDigest)
	diff := digestA.Diff(digestB, fphash.DefaultTLSHUpperBound)
	return fphash.Similarity(diff, fphash.DefaultTLSHUpperBound), nil
}

// ClassSimilarity composes descriptor equality, bloom-filter overlap over
// member descriptors, and a bipartite match of the class's own methods
// (spec.md §4.8 "layer-threshold filtering" applied one level down; fields
// are not matched): descriptor equality short-circuits to 1.0; otherwise
// the score is the mean of the bloom overlap ratio and the method match
// score.
func ClassSimilarity(app, lib profile.Managed, cfg strategy.Config) (float64, error) {
	ca, ok := app.(*profile.ClassProfile)
	if !ok {
		return 0, apperr.New(apperr.UnsupportedKind, "ClassSimilarity: unexpected app type %T", app)
	}
	cb, ok := lib.(*profile.ClassProfile)
	if !ok {
		return 0, apperr.New(apperr.UnsupportedKind, "ClassSimilarity: unexpected lib type %T", lib)
	}
	if descriptorOf(ca.Manager(), ca.Descriptor) == descriptorOf(cb.Manager(), cb.Descriptor) {
		return 1.0, nil
	}

	bloomScore := bloomOverlap(ca, cb)

	memberScore, err := matchMembers(ca, cb, cfg)
	if err != nil {
		return 0, err
	}

	return (bloomScore + memberScore) / 2, nil
}

// matchMembers runs a bipartite match between app's and lib's methods
// (spec.md §4.8) and returns its Score; an empty lib method set (nothing
// to match against) yields a neutral 1.0 rather than an artificial 0.
func matchMembers(app, lib *profile.ClassProfile, cfg strategy.Config) (float64, error) {
	appMethods := resolveMethods(app)
	libMethods := resolveMethods(lib)
	if len(libMethods) == 0 {
		return 1.0, nil
	}

	threshold := cfg.ThresholdFor(profile.KindMethod)
	var edges []matching.Edge
	for li, lm := range libMethods {
		for ai, am := range appMethods {
			score, err := MethodSimilarity(am, lm, cfg)
			if err != nil {
				return 0, err
			}
			if score >= threshold {
				edges = append(edges, matching.Edge{App: ai, Lib: li, Weight: score})
			}
		}
	}
	result := matching.Match(len(appMethods), len(libMethods), edges, matching.MaxWeightBipartite)
	return matching.Score(result, len(libMethods)), nil
}

func resolveMethods(cp *profile.ClassProfile) []*profile.MethodProfile {
	m := cp.Manager()
	if m == nil {
		return nil
	}
	ext, ok := m.Extension("methods")
	if !ok {
		return nil
	}
	list := ext.(*profile.MethodListExtension)
	out := make([]*profile.MethodProfile, 0, len(cp.MethodIdxs))
	for _, idx := range cp.MethodIdxs {
		if idx >= 0 && idx < len(list.Items) {
			out = append(out, list.Items[idx])
		}
	}
	return out
}

// CHASimilarity lifts class similarity to the whole hierarchy via the
// spec.md §4.8.1 two-phase scheme: a primary bipartite match over the
// cheap bloom-overlap score selects class correspondences, then each
// matched pair is refined with its full member-matching ratio and folded
// together by matching.MultiPhase — a wrong-but-structurally-similar class
// pairing can still drag the aggregate down once its methods disagree.
func CHASimilarity(app, lib profile.Managed, cfg strategy.Config) (float64, error) {
	cha, ok := app.(*profile.CHAProfile)
	if !ok {
		return 0, apperr.New(apperr.UnsupportedKind, "CHASimilarity: unexpected app type %T", app)
	}
	chb, ok := lib.(*profile.CHAProfile)
	if !ok {
		return 0, apperr.New(apperr.UnsupportedKind, "CHASimilarity: unexpected lib type %T", lib)
	}

	return matchAndRefineClasses(resolveClasses(cha.Manager()), resolveClasses(chb.Manager()), cfg, matching.Hungarian)
}

// matchAndRefineClasses runs the shared two-phase scheme CHASimilarity and
// PackageSimilarity both need: a primary bipartite match over bloom
// overlap, refined per matched pair by its full member-matching ratio.
func matchAndRefineClasses(appClasses, libClasses []*profile.ClassProfile, cfg strategy.Config, algo matching.Algorithm) (float64, error) {
	if len(libClasses) == 0 {
		return 1.0, nil
	}

	threshold := cfg.ThresholdFor(profile.KindClass)
	var edges []matching.Edge
	for li, lc := range libClasses {
		for ai, ac := range appClasses {
			score := bloomOverlap(ac, lc)
			if score >= threshold {
				edges = append(edges, matching.Edge{App: ai, Lib: li, Weight: score})
			}
		}
	}
	result := matching.Match(len(appClasses), len(libClasses), edges, algo)

	refinements := make([]matching.Refinement, len(result.Pairs))
	for i, pair := range result.Pairs {
		ratio, err := matchMembers(appClasses[pair.App], libClasses[pair.Lib], cfg)
		if err != nil {
			return 0, err
		}
		refinements[i] = matching.Refinement{Ratio: ratio, Weight: 1}
	}

	phase := matching.MultiPhase{LayerThreshold: threshold}
	return phase.Aggregate(result, len(libClasses), refinements), nil
}

// bloomOverlap is the cheap structural score used to seed the CHA-level
// primary match (spec.md §4.8.1 "primary matching" uses a fast surrogate
// before the refinement pass).
func bloomOverlap(app, lib *profile.ClassProfile) float64 {
	ba, _ := app.Get(keyBloom)
	bb, _ := lib.Get(keyBloom)
	fa, ok := ba.(*fphash.Bloom)
	if !ok {
		return 0
	}
	fb, ok := bb.(*fphash.Bloom)
	if !ok {
		return 0
	}
	return fa.OverlapRatio(fb)
}

func resolveClasses(m *profile.Manager) []*profile.ClassProfile {
	if m == nil {
		return nil
	}
	ext, ok := m.Extension("classes")
	if !ok {
		return nil
	}
	return ext.(*profile.ClassListExtension).Items
}

// PackageSimilarity matches the classes directly contained in two packages
// by the same bipartite-plus-refinement scheme CHASimilarity uses over the
// whole hierarchy, scoped to each package's own ClassIndexes — a package
// is just a narrower vertex set over the same class-level correspondence.
func PackageSimilarity(app, lib profile.Managed, cfg strategy.Config) (float64, error) {
	pa, ok := app.(*profile.PackageProfile)
	if !ok {
		return 0, apperr.New(apperr.UnsupportedKind, "PackageSimilarity: unexpected app type %T", app)
	}
	pb, ok := lib.(*profile.PackageProfile)
	if !ok {
		return 0, apperr.New(apperr.UnsupportedKind, "PackageSimilarity: unexpected lib type %T", lib)
	}

	appClasses := classesByIndexes(pa.Manager(), pa.ClassIndexes)
	libClasses := classesByIndexes(pb.Manager(), pb.ClassIndexes)
	return matchAndRefineClasses(appClasses, libClasses, cfg, matching.MaxWeightBipartite)
}

func classesByIndexes(m *profile.Manager, indexes []int) []*profile.ClassProfile {
	classes := resolveClasses(m)
	out := make([]*profile.ClassProfile, 0, len(indexes))
	for _, idx := range indexes {
		if idx >= 0 && idx < len(classes) {
			out = append(out, classes[idx])
		}
	}
	return out
}

func descriptorOf(m *profile.Manager, idx int) string {
	if m == nil || m.Pool == nil {
		return ""
	}
	return m.Pool.Get(idx)
}
