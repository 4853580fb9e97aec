package fphash

import (
	"encoding/binary"
	"io"

	"github.com/bits-and-blooms/bitset"
	"github.com/matrixeditor/libfp/internal/apperr"
	"github.com/matrixeditor/libfp/internal/wire"
)

// Default bloom filter parameters from spec.md §4.2.
const (
	DefaultBloomBits    = 256
	DefaultBloomHashers = 4
)

// FNV1a32 is the bloom filter's string-hashing primitive. spec.md's Open
// Questions require fixing a documented, portable 32-bit algorithm instead
// of reusing a host language's native hashCode(); FNV-1a is the standard
// choice for this role in the Go ecosystem.
func FNV1a32(s string) uint32 {
	const (
		offset uint32 = 2166136261
		prime  uint32 = 16777619
	)
	h := offset
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= prime
	}
	return h
}

// Bloom is a fixed-parameter bloom filter. The bit storage is delegated to
// bits-and-blooms/bitset so the hot loop (OR/AND across filters for
// superset and overlap checks) runs as word-at-a-time bitwise ops rather
// than a bit-by-bit Go loop.
type Bloom struct {
	m       uint   // bits
	k       uint   // hash functions
	bits    *bitset.BitSet
	entries uint16 // number of Add calls observed, for the wire format only
}

// NewBloom builds an empty bloom filter with the given parameters.
func NewBloom(m, k uint) *Bloom {
	if m == 0 {
		m = DefaultBloomBits
	}
	if k == 0 {
		k = DefaultBloomHashers
	}
	return &Bloom{m: m, k: k, bits: bitset.New(m)}
}

// Add hashes s into the filter's k positions.
func (b *Bloom) Add(s string) {
	seed := FNV1a32(s)
	for i := uint(0); i < b.k; i++ {
		b.bits.Set(b.position(seed, i))
	}
	if b.entries < 0xffff {
		b.entries++
	}
}

// At reports whether bit i is set.
func (b *Bloom) At(i uint) bool {
	return b.bits.Test(i)
}

// Contains reports whether every position s hashes to is set — the usual
// bloom-filter membership test (false positives possible, no false
// negatives).
func (b *Bloom) Contains(s string) bool {
	seed := FNV1a32(s)
	for i := uint(0); i < b.k; i++ {
		if !b.bits.Test(b.position(seed, i)) {
			return false
		}
	}
	return true
}

func (b *Bloom) position(seed uint32, i uint) uint {
	// p_i = |(seed & 0xFF) + i*(seed >> 8)| mod m, spec.md §4.2. The
	// operands are already non-negative in Go's unsigned arithmetic, so the
	// absolute value from the source's formula is a no-op here.
	base := uint64(seed & 0xFF)
	step := uint64(seed>>8) * uint64(i)
	return uint((base + step) % uint64(b.m))
}

// IsSuperSetOf reports whether b is a bitwise superset of other: every bit
// set in other is also set in b. Reflexive and transitive when m, k match
// across filters (spec.md §8).
func (b *Bloom) IsSuperSetOf(other *Bloom) bool {
	if b.m != other.m {
		return false
	}
	inter := b.bits.Intersection(other.bits)
	return inter.Equal(other.bits)
}

// OverlapRatio is |intersection| / min(|a|,|b|) by cardinality (popcount of
// set bits), 0 when both filters are empty.
func (b *Bloom) OverlapRatio(other *Bloom) float64 {
	ca, cb := b.bits.Count(), other.bits.Count()
	minC := ca
	if cb < minC {
		minC = cb
	}
	if minC == 0 {
		return 0
	}
	inter := b.bits.IntersectionCardinality(other.bits)
	return float64(inter) / float64(minC)
}

// Cardinality returns the number of set bits.
func (b *Bloom) Cardinality() uint { return b.bits.Count() }

// Empty reports whether the filter has observed zero Add calls.
func (b *Bloom) Empty() bool { return b.entries == 0 }

// WriteTo serializes b per spec.md §4.2: uint16 entries; bool empty; if
// !empty, varint word-count then big-endian uint64 words.
func (b *Bloom) WriteTo(w io.Writer) error {
	var entriesBuf [2]byte
	binary.BigEndian.PutUint16(entriesBuf[:], b.entries)
	if _, err := w.Write(entriesBuf[:]); err != nil {
		return apperr.New(apperr.IO, "write bloom entries: %v", err)
	}
	empty := b.Empty()
	if err := wire.WriteBool(w, empty); err != nil {
		return err
	}
	if empty {
		return nil
	}
	words := b.words()
	return wire.WriteUint64Array(w, words)
}

// ReadBloom reconstructs a Bloom from the wire format. m/k must be supplied
// by the caller (they are part of the blueprint/extension declaration, not
// the wire format itself).
func ReadBloom(r wire.ByteReader, m, k uint) (*Bloom, error) {
	var entriesBuf [2]byte
	if _, err := io.ReadFull(r, entriesBuf[:]); err != nil {
		return nil, apperr.New(apperr.IO, "read bloom entries: %v", err)
	}
	entries := binary.BigEndian.Uint16(entriesBuf[:])
	empty, err := wire.ReadBool(r)
	if err != nil {
		return nil, err
	}
	b := NewBloom(m, k)
	b.entries = entries
	if empty {
		return b, nil
	}
	words, err := wire.ReadUint64Array(r)
	if err != nil {
		return nil, err
	}
	b.setWords(words)
	return b, nil
}

func (b *Bloom) words() []uint64 {
	nWords := (b.m + 63) / 64
	out := make([]uint64, nWords)
	buf := b.bits.Bytes()
	for i := range out {
		if i < len(buf) {
			out[i] = buf[i]
		}
	}
	return out
}

func (b *Bloom) setWords(words []uint64) {
	bs := bitset.New(b.m)
	for wi, word := range words {
		if word == 0 {
			continue
		}
		for bi := 0; bi < 64; bi++ {
			if word&(1<<uint(bi)) != 0 {
				pos := uint(wi*64 + bi)
				if pos < b.m {
					bs.Set(pos)
				}
			}
		}
	}
	b.bits = bs
}
