// Package builtin wires the "default" profile definition's extraction
// steps and similarity strategies (spec.md §6 "integrationKind"): bloom
// filters over a class's member descriptors, TLSH digests over a method's
// normalized instruction stream, and the bipartite-matching composition
// that lifts class similarity up to package and CHA level.
package builtin

import (
	"strconv"

	"github.com/matrixeditor/libfp/internal/fphash"
	"github.com/matrixeditor/libfp/internal/integration"
	"github.com/matrixeditor/libfp/internal/profile"
	"github.com/matrixeditor/libfp/internal/strategy"
)

// The integration-table entry resolves without a normalizer, matching
// internal/normalizer's own init()-registered constructors (a
// TypeResolver/Normalizer isn't representable as a string arg either); a
// caller that already resolved a normalizer alongside its IL factory
// calls NewDefaultRegistry directly instead of through the table, the
// same two-step pattern normalizer.WithResolver uses.
func init() {
	integration.Strategies.RegisterWithArgs("default", func(args map[string]string) interface{} {
		return NewDefaultRegistry(nil, args)
	})
}

// NewDefaultRegistry assembles the "default" integration kind's
// strategy.Registry: a bloom-filter class step sized from args (falling
// back to spec.md §4.2's defaults), a method-level TLSH step driven by
// normalizer, and similarity strategies at every profile.Kind.
// normalizer may be nil — methods then compare by descriptor equality
// alone (see MethodSimilarity).
func NewDefaultRegistry(normalizer profile.Normalizer, args map[string]string) *strategy.Registry {
	m := parseUintArg(args["bloomM"], fphash.DefaultBloomBits)
	k := parseUintArg(args["bloomK"], fphash.DefaultBloomHashers)

	r := strategy.New()
	r.RegisterStep(NewClassBloomStep(m, k))
	r.RegisterStep(NewMethodTLSHStep(normalizer))

	r.RegisterSimilarity(profile.KindField, FieldSimilarity)
	r.RegisterSimilarity(profile.KindMethod, MethodSimilarity)
	r.RegisterSimilarity(profile.KindClass, ClassSimilarity)
	r.RegisterSimilarity(profile.KindPackage, PackageSimilarity)
	r.RegisterSimilarity(profile.KindCHA, CHASimilarity)

	return r
}

func parseUintArg(s string, fallback uint) uint {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fallback
	}
	return uint(n)
}
