// Package profileio implements the profile builder/loader (spec.md §4.9):
// the binary container format wrapping a descriptor pool and the manager's
// RUNTIME-retention extensions under the "LFP1" magic header.
package profileio

import (
	"io"

	"github.com/matrixeditor/libfp/internal/apperr"
	"github.com/matrixeditor/libfp/internal/descriptor"
	"github.com/matrixeditor/libfp/internal/profile"
	"github.com/matrixeditor/libfp/internal/wire"
)

// Magic is the fixed 4-byte header every profile file starts with.
const Magic = "LFP1"

// FormatVersion is the current on-disk format version written by Write.
const FormatVersion = 1

// Flags are the header's varint bit flags; spec.md §3 names
// profile.FlagIsAppProfile as the one flag currently defined, carried on
// the profile-info extension rather than the container header itself, so
// the header flags field is reserved for future container-level bits and
// currently always 0.
type Flags uint64

// Write serializes m per spec.md §4.9: magic, version, flags, descriptor
// pool, then every RUNTIME extension's name/count/items, in registration
// order. Extensions with retention SOURCE or NONE are skipped entirely.
func Write(w io.Writer, m *profile.Manager, flags Flags) error {
	if _, err := io.WriteString(w, Magic); err != nil {
		return apperr.New(apperr.IO, "write magic: %v", err)
	}
	if err := wire.WriteUvarint(w, FormatVersion); err != nil {
		return err
	}
	if err := wire.WriteUvarint(w, uint64(flags)); err != nil {
		return err
	}
	if err := m.Pool.WriteTo(w); err != nil {
		return err
	}

	runtime := m.RuntimeExtensions()
	if err := wire.WriteUvarint(w, uint64(len(runtime))); err != nil {
		return err
	}
	for _, ext := range runtime {
		if err := wire.WriteString(w, ext.Name()); err != nil {
			return err
		}
		if err := wire.WriteUvarint(w, uint64(ext.Len())); err != nil {
			return err
		}
		if err := ext.WriteItems(w); err != nil {
			return err
		}
	}
	return nil
}

// Provider supplies the empty extensions a Manager expects to read back,
// in the same order Write serialized them (spec.md §4.9: "Reading requires
// that the provider composing the manager register the same set of
// RUNTIME extensions in the same order").
type Provider interface {
	// NewManager returns a fresh, unregistered Manager ready for Register
	// calls.
	NewManager() *profile.Manager
	// Extensions returns, for the given manager, the ordered list of empty
	// RUNTIME extensions this profile definition expects.
	Extensions(m *profile.Manager) []profile.Extension
}

// Read reconstructs a Manager from r using provider to supply the expected
// extension set. Extension identity is checked by name; a mismatch is a
// FormatMismatch error and the reader does not attempt to skip it (spec.md
// §4.9, §6: "unknown names cause FormatMismatch and the reader MUST NOT
// skip them silently").
func Read(r io.Reader, provider Provider) (*profile.Manager, error) {
	br := wire.NewReader(r)

	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(br, magic); err != nil {
		return nil, apperr.New(apperr.IO, "read magic: %v", err)
	}
	if string(magic) != Magic {
		return nil, apperr.New(apperr.FormatMismatch, "bad magic %q, want %q", magic, Magic)
	}

	version, err := wire.ReadUvarint(br)
	if err != nil {
		return nil, err
	}
	if version != FormatVersion {
		return nil, apperr.New(apperr.FormatMismatch, "unsupported format version %d", version)
	}
	if _, err := wire.ReadUvarint(br); err != nil { // flags, currently unused on read
		return nil, err
	}

	pool, err := descriptor.Load(br)
	if err != nil {
		return nil, err
	}

	m := provider.NewManager()
	m.Pool = pool
	expected := provider.Extensions(m)

	extCount, err := wire.ReadUvarint(br)
	if err != nil {
		return nil, err
	}
	if extCount != uint64(len(expected)) {
		return nil, apperr.New(apperr.FormatMismatch, "extension count %d, provider expects %d", extCount, len(expected))
	}

	for i := uint64(0); i < extCount; i++ {
		name, err := wire.ReadString(br)
		if err != nil {
			return nil, err
		}
		if name != expected[i].Name() {
			return nil, apperr.New(apperr.FormatMismatch, "extension %d: got name %q, want %q", i, name, expected[i].Name())
		}
		count, err := wire.ReadUvarint(br)
		if err != nil {
			return nil, err
		}
		if err := expected[i].ReadItems(br, int(count)); err != nil {
			return nil, err
		}
		m.Register(expected[i])
	}
	return m, nil
}
