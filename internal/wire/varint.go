// Package wire implements the length-prefixed, varint-based primitives
// shared by every on-disk artifact libfp produces: the descriptor pool,
// extension payloads, and the top-level profile container (see
// internal/profileio). All multi-byte integers are unsigned LEB128-style
// varints with the continuation bit in the high bit of each byte, matching
// spec.md §6 ("Integers are varint (big-endian continuation)").
package wire

import (
	"bufio"
	"io"

	"github.com/matrixeditor/libfp/internal/apperr"
)

// MaxVarintLen is the longest a varint encoding of a uint64 can be.
const MaxVarintLen = 10

// PutUvarint encodes v into buf (which must have length >= MaxVarintLen)
// and returns the number of bytes written.
func PutUvarint(buf []byte, v uint64) int {
	i := 0
	for v >= 0x80 {
		buf[i] = byte(v) | 0x80
		v >>= 7
		i++
	}
	buf[i] = byte(v)
	return i + 1
}

// AppendUvarint appends the varint encoding of v to buf.
func AppendUvarint(buf []byte, v uint64) []byte {
	var tmp [MaxVarintLen]byte
	n := PutUvarint(tmp[:], v)
	return append(buf, tmp[:n]...)
}

// WriteUvarint writes v to w as a varint.
func WriteUvarint(w io.Writer, v uint64) error {
	var tmp [MaxVarintLen]byte
	n := PutUvarint(tmp[:], v)
	_, err := w.Write(tmp[:n])
	if err != nil {
		return apperr.New(apperr.IO, "write varint: %v", err)
	}
	return nil
}

// ReadUvarint reads a varint from r. It rejects encodings longer than
// MaxVarintLen bytes, per spec.md §8 ("encoded length <= 10 bytes").
func ReadUvarint(r io.ByteReader) (uint64, error) {
	var v uint64
	var shift uint
	for i := 0; i < MaxVarintLen; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, apperr.New(apperr.IO, "read varint: %v", err)
		}
		if b < 0x80 {
			v |= uint64(b) << shift
			return v, nil
		}
		v |= uint64(b&0x7f) << shift
		shift += 7
	}
	return 0, apperr.New(apperr.FormatMismatch, "varint exceeds %d bytes", MaxVarintLen)
}

// WriteString writes a length-prefixed (varint) UTF-8 string with no BOM.
func WriteString(w io.Writer, s string) error {
	if err := WriteUvarint(w, uint64(len(s))); err != nil {
		return err
	}
	if _, err := io.WriteString(w, s); err != nil {
		return apperr.New(apperr.IO, "write string: %v", err)
	}
	return nil
}

// ReadString reads a length-prefixed UTF-8 string.
func ReadString(r ByteReader) (string, error) {
	n, err := ReadUvarint(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", apperr.New(apperr.IO, "read string body: %v", err)
	}
	return string(buf), nil
}

// WriteBool writes a single 0/1 byte.
func WriteBool(w io.Writer, b bool) error {
	v := byte(0)
	if b {
		v = 1
	}
	_, err := w.Write([]byte{v})
	if err != nil {
		return apperr.New(apperr.IO, "write bool: %v", err)
	}
	return nil
}

// ReadBool reads a single 0/1 byte.
func ReadBool(r io.ByteReader) (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, apperr.New(apperr.IO, "read bool: %v", err)
	}
	return b != 0, nil
}

// ByteReader is the minimal interface our readers need: a byte-at-a-time
// reader plus bulk Read, satisfied by *bufio.Reader and *bytes.Reader.
type ByteReader interface {
	io.Reader
	io.ByteReader
}

// NewReader wraps r with buffering if it does not already satisfy
// ByteReader, mirroring how the teacher wraps raw files for line-oriented
// config parsing.
func NewReader(r io.Reader) ByteReader {
	if br, ok := r.(ByteReader); ok {
		return br
	}
	return bufio.NewReader(r)
}

// WriteUint64Array writes a varint count followed by count big-endian
// 8-byte words (used by the bloom filter's packed bit words — see
// internal/fphash).
func WriteUint64Array(w io.Writer, vals []uint64) error {
	if err := WriteUvarint(w, uint64(len(vals))); err != nil {
		return err
	}
	var buf [8]byte
	for _, v := range vals {
		putBigEndian64(buf[:], v)
		if _, err := w.Write(buf[:]); err != nil {
			return apperr.New(apperr.IO, "write uint64 word: %v", err)
		}
	}
	return nil
}

// ReadUint64Array reads back what WriteUint64Array wrote.
func ReadUint64Array(r ByteReader) ([]uint64, error) {
	n, err := ReadUvarint(r)
	if err != nil {
		return nil, err
	}
	out := make([]uint64, n)
	var buf [8]byte
	for i := range out {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, apperr.New(apperr.IO, "read uint64 word: %v", err)
		}
		out[i] = bigEndian64(buf[:])
	}
	return out, nil
}

func putBigEndian64(b []byte, v uint64) {
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
}

func bigEndian64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(b[i])
	}
	return v
}
