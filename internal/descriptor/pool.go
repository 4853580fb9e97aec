// Package descriptor implements the descriptor pool (spec.md §4.1): an
// insertion-ordered, deduplicated string table with reference counts. Every
// other sub-profile refers to descriptor strings by integer index rather
// than by value, which is what lets profile serialization stay a flat
// varint/length-prefixed stream (see internal/profileio).
package descriptor

import (
	"io"

	"github.com/matrixeditor/libfp/internal/apperr"
	"github.com/matrixeditor/libfp/internal/wire"
)

// Pool is an insertion-ordered string table. Index i of strings is the
// handle everything else in a profile manager uses; it never changes once
// assigned, even though refCounts do.
type Pool struct {
	strings   []string
	refCounts []uint64
	index     map[string]int
}

// New returns an empty pool.
func New() *Pool {
	return &Pool{index: make(map[string]int)}
}

// Add inserts s if new, or bumps its reference count if already present,
// and returns its stable index either way (spec.md §4.1, idempotent add).
func (p *Pool) Add(s string) int {
	if i, ok := p.index[s]; ok {
		p.refCounts[i]++
		return i
	}
	i := len(p.strings)
	p.strings = append(p.strings, s)
	p.refCounts = append(p.refCounts, 1)
	p.index[s] = i
	return i
}

// Get returns the string at index i. Panics on an out-of-range index since
// every caller holds indexes produced by Add/load, never user input.
func (p *Pool) Get(i int) string {
	return p.strings[i]
}

// RefCount returns the reference count recorded for index i.
func (p *Pool) RefCount(i int) uint64 {
	return p.refCounts[i]
}

// Size returns the number of distinct strings in the pool.
func (p *Pool) Size() int {
	return len(p.strings)
}

// WriteTo serializes the pool per spec.md §4.1:
// varint(n); for i in 0..n: varint(refCount_i); length-prefixed UTF-8 bytes.
func (p *Pool) WriteTo(w io.Writer) error {
	if err := wire.WriteUvarint(w, uint64(len(p.strings))); err != nil {
		return err
	}
	for i, s := range p.strings {
		if err := wire.WriteUvarint(w, p.refCounts[i]); err != nil {
			return err
		}
		if err := wire.WriteString(w, s); err != nil {
			return err
		}
	}
	return nil
}

// Load reconstructs a Pool from the wire format, preserving index order.
func Load(r wire.ByteReader) (*Pool, error) {
	n, err := wire.ReadUvarint(r)
	if err != nil {
		return nil, err
	}
	p := &Pool{
		strings:   make([]string, 0, n),
		refCounts: make([]uint64, 0, n),
		index:     make(map[string]int, n),
	}
	for i := uint64(0); i < n; i++ {
		refCount, err := wire.ReadUvarint(r)
		if err != nil {
			return nil, err
		}
		s, err := wire.ReadString(r)
		if err != nil {
			return nil, apperr.New(apperr.FormatMismatch, "descriptor pool entry %d: %v", i, err)
		}
		p.strings = append(p.strings, s)
		p.refCounts = append(p.refCounts, refCount)
		p.index[s] = int(i)
	}
	return p, nil
}
