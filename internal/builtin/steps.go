// Package builtin wires the "default" profile definition's extraction
// steps and similarity strategies (spec.md §6 "integration kind"): bloom
// filters over a class's member descriptors, TLSH digests over a method's
// normalized instruction stream, and the bipartite-matching composition
// that lifts class-level similarity up to package and CHA level.
package builtin

import (
	"strings"

	"github.com/matrixeditor/libfp/internal/apperr"
	"github.com/matrixeditor/libfp/internal/fphash"
	"github.com/matrixeditor/libfp/internal/hierarchy"
	"github.com/matrixeditor/libfp/internal/pipeline"
	"github.com/matrixeditor/libfp/internal/profile"
	"github.com/matrixeditor/libfp/internal/strategy"
)

const (
	keyBloom = "bloom"
	keyTLSH  = "tlsh"
)

// classBloomStep populates a class's "bloom" key with a filter seeded from
// every member's raw descriptor string — a cheap structural fingerprint
// independent of method-body content.
type classBloomStep struct {
	m, k uint
}

// NewClassBloomStep returns the default class-level bloom-filter step,
// sized (m, k) per spec.md §4.2.
func NewClassBloomStep(m, k uint) strategy.Step {
	return &classBloomStep{m: m, k: k}
}

func (s *classBloomStep) TargetKind() profile.Kind    { return profile.KindClass }
func (s *classBloomStep) Test(kind profile.Kind) bool { return kind == profile.KindClass }
func (s *classBloomStep) Priority() int               { return 0 }

func (s *classBloomStep) Run(reference profile.Managed, target interface{}) error {
	cp, ok := reference.(*profile.ClassProfile)
	if !ok {
		return apperr.New(apperr.AlgorithmFailure, "classBloomStep: unexpected reference type %T", reference)
	}
	cls, ok := target.(hierarchy.Class)
	if !ok {
		return apperr.New(apperr.AlgorithmFailure, "classBloomStep: unexpected target type %T", target)
	}

	bloom := fphash.NewBloom(s.m, s.k)
	for _, f := range cls.Fields() {
		bloom.Add(f.Name() + ":" + f.Descriptor())
	}
	for _, meth := range cls.Methods() {
		bloom.Add(meth.Name() + meth.Descriptor())
	}
	if super, ok := cls.SuperClass(); ok {
		bloom.Add("super:" + super)
	}
	for _, iface := range cls.Interfaces() {
		bloom.Add("iface:" + iface)
	}
	cp.Put(keyBloom, bloom)
	return nil
}

// methodTLSHStep populates a method's "tlsh" key from its normalized
// instruction stream (spec.md §4.5), in which the normalizer has replaced
// concrete application-scope types with the IL factory's fuzzy placeholder
// before hashing, so the digest is stable across cosmetic renames.
type methodTLSHStep struct {
	normalizer profile.Normalizer
}

// NewMethodTLSHStep returns the default method-level TLSH step. normalizer
// may be nil, in which case every method gets an empty digest (methods
// compare by descriptor equality alone).
func NewMethodTLSHStep(normalizer profile.Normalizer) strategy.Step {
	return &methodTLSHStep{normalizer: normalizer}
}

func (s *methodTLSHStep) TargetKind() profile.Kind    { return profile.KindMethod }
func (s *methodTLSHStep) Test(kind profile.Kind) bool { return kind == profile.KindMethod }
func (s *methodTLSHStep) Priority() int               { return 0 }

func (s *methodTLSHStep) Run(reference profile.Managed, target interface{}) error {
	mp, ok := reference.(*profile.MethodProfile)
	if !ok {
		return apperr.New(apperr.AlgorithmFailure, "methodTLSHStep: unexpected reference type %T", reference)
	}
	mt, ok := target.(pipeline.MethodTarget)
	if !ok {
		return apperr.New(apperr.AlgorithmFailure, "methodTLSHStep: unexpected target type %T", target)
	}
	if s.normalizer == nil || mt.Method.Instructions() == nil {
		mp.Put(keyTLSH, fphash.TLSHDigest{})
		return nil
	}
	tokens := s.normalizer.Normalize(mt.Class, mt.Method)
	digest := fphash.NewTLSHDigest([]byte(strings.Join(tokens, "\n")))
	mp.Put(keyTLSH, digest)
	return nil
}
