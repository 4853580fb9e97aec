package fphash

import (
	"github.com/glaslos/tlsh"
	"github.com/matrixeditor/libfp/internal/apperr"
	"github.com/matrixeditor/libfp/internal/wire"
)

// DefaultTLSHUpperBound is the configurable ceiling U used to map a raw
// TLSH difference to a similarity in [0,1] (spec.md §4.2).
const DefaultTLSHUpperBound = 150

// TLSHDigest wraps an encoded TLSH hash. A nil/empty digest means "no
// hash", matching the source's len==0 sentinel (spec.md §4.2) rather than
// a separate has-value flag.
type TLSHDigest struct {
	encoded []byte
}

// NewTLSHDigest hashes buf and wraps the result. Buffers too small for
// TLSH to produce a stable digest (the algorithm needs a minimum amount of
// input) yield an empty digest, same as "no hash".
func NewTLSHDigest(buf []byte) TLSHDigest {
	h, err := tlsh.HashBytes(buf)
	if err != nil {
		return TLSHDigest{}
	}
	return TLSHDigest{encoded: []byte(h.String())}
}

// Empty reports whether this is the "no hash" sentinel.
func (d TLSHDigest) Empty() bool { return len(d.encoded) == 0 }

// Diff returns the raw TLSH difference between d and other. A difference
// of 0 means identity. Either side being empty yields the configured
// upper bound (maximal distance), so Similarity degrades to 0.
func (d TLSHDigest) Diff(other TLSHDigest, upperBound int) int {
	if d.Empty() || other.Empty() {
		return upperBound
	}
	a, errA := tlsh.ParseStringToTlsh(string(d.encoded))
	b, errB := tlsh.ParseStringToTlsh(string(other.encoded))
	if errA != nil || errB != nil {
		return upperBound
	}
	return a.Diff(b)
}

// Similarity maps a raw difference d to max(0, (U-d)/U) per spec.md §4.2.
func Similarity(diff int, upperBound int) float64 {
	if upperBound <= 0 {
		upperBound = DefaultTLSHUpperBound
	}
	v := float64(upperBound-diff) / float64(upperBound)
	if v < 0 {
		return 0
	}
	return v
}

// WriteTo serializes per spec.md §4.2: uint16 len; len bytes (len=0 means
// "no hash").
func (d TLSHDigest) WriteTo(w *wire.CountedWriter) error {
	if err := w.WriteUint16(uint16(len(d.encoded))); err != nil {
		return err
	}
	if len(d.encoded) == 0 {
		return nil
	}
	if _, err := w.Write(d.encoded); err != nil {
		return apperr.New(apperr.IO, "write tlsh digest: %v", err)
	}
	return nil
}

// ReadTLSHDigest reconstructs a digest from the wire format.
func ReadTLSHDigest(r *wire.CountedReader) (TLSHDigest, error) {
	n, err := r.ReadUint16()
	if err != nil {
		return TLSHDigest{}, err
	}
	if n == 0 {
		return TLSHDigest{}, nil
	}
	buf := make([]byte, n)
	if err := readFull(r, buf); err != nil {
		return TLSHDigest{}, err
	}
	return TLSHDigest{encoded: buf}, nil
}

func readFull(r *wire.CountedReader, buf []byte) error {
	read := 0
	for read < len(buf) {
		b, err := r.ReadByte()
		if err != nil {
			return apperr.New(apperr.IO, "read tlsh digest body: %v", err)
		}
		buf[read] = b
		read++
	}
	return nil
}
