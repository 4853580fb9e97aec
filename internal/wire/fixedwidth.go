package wire

import (
	"encoding/binary"
	"io"

	"github.com/matrixeditor/libfp/internal/apperr"
)

// CountedWriter wraps an io.Writer with the fixed-width helpers the hash
// primitives (internal/fphash) need on top of the varint helpers above.
type CountedWriter struct {
	io.Writer
}

// NewCountedWriter wraps w.
func NewCountedWriter(w io.Writer) *CountedWriter { return &CountedWriter{Writer: w} }

// WriteUint16 writes v big-endian.
func (w *CountedWriter) WriteUint16(v uint16) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	if _, err := w.Write(buf[:]); err != nil {
		return apperr.New(apperr.IO, "write uint16: %v", err)
	}
	return nil
}

// WriteUint32 writes v big-endian.
func (w *CountedWriter) WriteUint32(v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	if _, err := w.Write(buf[:]); err != nil {
		return apperr.New(apperr.IO, "write uint32: %v", err)
	}
	return nil
}

// CountedReader is the read-side counterpart of CountedWriter.
type CountedReader struct {
	ByteReader
}

// NewCountedReader wraps r.
func NewCountedReader(r ByteReader) *CountedReader { return &CountedReader{ByteReader: r} }

// ReadUint16 reads a big-endian uint16.
func (r *CountedReader) ReadUint16() (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, apperr.New(apperr.IO, "read uint16: %v", err)
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

// ReadUint32 reads a big-endian uint32.
func (r *CountedReader) ReadUint32() (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, apperr.New(apperr.IO, "read uint32: %v", err)
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}
