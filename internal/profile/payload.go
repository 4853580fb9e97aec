package profile

import (
	"io"

	"github.com/matrixeditor/libfp/internal/apperr"
	"github.com/matrixeditor/libfp/internal/fphash"
	"github.com/matrixeditor/libfp/internal/wire"
)

// The codecs below are the concrete Codec values a profile definition's
// extension arguments resolve to via internal/integration, one per
// auxiliary feature payload spec.md §4.2 defines.

// BloomCodec builds a Codec for an *fphash.Bloom with the given
// parameters. m/k are fixed per-deployment config, not part of the wire
// format (spec.md §4.2's serialization has no m/k fields).
func BloomCodec(m, k uint) Codec {
	return Codec{
		Write: func(v interface{}, w io.Writer) error {
			b, ok := v.(*fphash.Bloom)
			if !ok {
				return apperr.New(apperr.AlgorithmFailure, "bloom codec: unexpected value type %T", v)
			}
			return b.WriteTo(w)
		},
		Read: func(r ExtensionByteReader) (interface{}, error) {
			return fphash.ReadBloom(wire.NewReader(r), m, k)
		},
	}
}

// RollingSetCodec builds a Codec for an *fphash.RollingSet.
func RollingSetCodec(base, modulus int64) Codec {
	return Codec{
		Write: func(v interface{}, w io.Writer) error {
			rs, ok := v.(*fphash.RollingSet)
			if !ok {
				return apperr.New(apperr.AlgorithmFailure, "rolling-set codec: unexpected value type %T", v)
			}
			return rs.WriteTo(wire.NewCountedWriter(w))
		},
		Read: func(r ExtensionByteReader) (interface{}, error) {
			return fphash.ReadRollingSet(wire.NewCountedReader(wire.NewReader(r)), base, modulus)
		},
	}
}

// TLSHCodec builds a Codec for a fphash.TLSHDigest.
func TLSHCodec() Codec {
	return Codec{
		Write: func(v interface{}, w io.Writer) error {
			d, ok := v.(fphash.TLSHDigest)
			if !ok {
				return apperr.New(apperr.AlgorithmFailure, "tlsh codec: unexpected value type %T", v)
			}
			return d.WriteTo(wire.NewCountedWriter(w))
		},
		Read: func(r ExtensionByteReader) (interface{}, error) {
			return fphash.ReadTLSHDigest(wire.NewCountedReader(wire.NewReader(r)))
		},
	}
}

// ByteHashCodec builds a Codec for a raw normalized-bytecode hash, stored
// as a fixed-size uint32 (e.g. the output of hashing a normalized opcode
// sequence — see internal/normalizer).
func ByteHashCodec() Codec {
	return Codec{
		Write: func(v interface{}, w io.Writer) error {
			h, ok := v.(uint32)
			if !ok {
				return apperr.New(apperr.AlgorithmFailure, "byte-hash codec: unexpected value type %T", v)
			}
			return wire.NewCountedWriter(w).WriteUint32(h)
		},
		Read: func(r ExtensionByteReader) (interface{}, error) {
			return wire.NewCountedReader(wire.NewReader(r)).ReadUint32()
		},
	}
}

// WeightCodec builds a Codec for a numeric weight stored as a varint-coded
// fixed-point value (three decimal digits of precision is enough for a
// similarity weight, and keeps the format integer-only).
func WeightCodec() Codec {
	const scale = 1000
	return Codec{
		Write: func(v interface{}, w io.Writer) error {
			f, ok := v.(float64)
			if !ok {
				return apperr.New(apperr.AlgorithmFailure, "weight codec: unexpected value type %T", v)
			}
			return wire.WriteUvarint(w, uint64(f*scale))
		},
		Read: func(r ExtensionByteReader) (interface{}, error) {
			n, err := wire.ReadUvarint(wire.NewReader(r))
			if err != nil {
				return nil, err
			}
			return float64(n) / scale, nil
		},
	}
}

// writePayload writes ext's ordered (key, value) pairs per bp, as
// varint count then repeated (string key, codec-written value).
func writePayload(w io.Writer, bp *Blueprint, ext *Extensible) error {
	keys := ext.OrderedKeys(bp)
	if err := wire.WriteUvarint(w, uint64(len(keys))); err != nil {
		return err
	}
	for _, k := range keys {
		if err := wire.WriteString(w, k); err != nil {
			return err
		}
		v, _ := ext.Get(k)
		codec := bp.CodecFor(k)
		if codec.Write == nil {
			return apperr.New(apperr.FormatMismatch, "no codec registered for key %q", k)
		}
		if err := codec.Write(v, w); err != nil {
			return err
		}
	}
	return nil
}

// readPayload reads back what writePayload wrote, validating the key set
// against bp (spec.md §4.3: unknown keys at read time are a
// FormatMismatch).
func readPayload(r wire.ByteReader, bp *Blueprint, ext *Extensible) error {
	n, err := wire.ReadUvarint(r)
	if err != nil {
		return err
	}
	keys := make([]string, 0, n)
	for i := uint64(0); i < n; i++ {
		k, err := wire.ReadString(r)
		if err != nil {
			return err
		}
		codec := bp.CodecFor(k)
		if codec.Read == nil {
			return apperr.New(apperr.FormatMismatch, "unknown extension key %q", k)
		}
		v, err := codec.Read(r)
		if err != nil {
			return err
		}
		ext.Put(k, v)
		keys = append(keys, k)
	}
	return bp.ValidateKeys(keys)
}
