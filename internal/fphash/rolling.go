package fphash

import (
	"sort"

	"github.com/matrixeditor/libfp/internal/wire"
)

// Default rolling-hash parameters from spec.md §4.2.
const (
	DefaultRollingBase    = 256
	DefaultRollingModulus = 1000007
)

// RollingSet is a set of 32-bit polynomial rolling hashes that folds a bag
// of short textual tokens into a compact, order-independent fingerprint.
type RollingSet struct {
	base, modulus int64
	set           map[uint32]struct{}
}

// NewRollingSet builds an empty set with the given base/modulus.
func NewRollingSet(base, modulus int64) *RollingSet {
	if base == 0 {
		base = DefaultRollingBase
	}
	if modulus == 0 {
		modulus = DefaultRollingModulus
	}
	return &RollingSet{base: base, modulus: modulus, set: make(map[uint32]struct{})}
}

// Hash computes the rolling hash of s without mutating r, per spec.md
// §4.2's "h = 0; for c in s: h = (h*base + c) mod n".
func (r *RollingSet) Hash(s string) int64 {
	var h int64
	for i := 0; i < len(s); i++ {
		h = (h*r.base + int64(s[i])) % r.modulus
	}
	return h
}

// Add computes Hash(s) and inserts it unless it is exactly zero (the
// source treats a zero hash as "no contribution").
func (r *RollingSet) Add(s string) {
	h := r.Hash(s)
	if h == 0 {
		return
	}
	r.set[uint32(h)] = struct{}{}
}

// Contains reports whether h is a member.
func (r *RollingSet) Contains(h uint32) bool {
	_, ok := r.set[h]
	return ok
}

// Size returns the number of distinct hashes stored.
func (r *RollingSet) Size() int { return len(r.set) }

// sortedValues returns the members in ascending order, for deterministic
// serialization (pipeline determinism, spec.md §8).
func (r *RollingSet) sortedValues() []uint32 {
	out := make([]uint32, 0, len(r.set))
	for v := range r.set {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// WriteTo serializes per spec.md §4.2: uint16 count; count x uint32.
func (r *RollingSet) WriteTo(w *wire.CountedWriter) error {
	vals := r.sortedValues()
	if err := w.WriteUint16(uint16(len(vals))); err != nil {
		return err
	}
	for _, v := range vals {
		if err := w.WriteUint32(v); err != nil {
			return err
		}
	}
	return nil
}

// ReadRollingSet reconstructs a RollingSet from the wire format.
func ReadRollingSet(r *wire.CountedReader, base, modulus int64) (*RollingSet, error) {
	n, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	out := NewRollingSet(base, modulus)
	for i := uint16(0); i < n; i++ {
		v, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		out.set[v] = struct{}{}
	}
	return out, nil
}
