package profile

import "io"

// Retention controls whether an extension's sub-profiles survive
// serialization (spec.md §3 "Extensible profile manager").
type Retention int

const (
	// RetentionRuntime extensions are always serialized.
	RetentionRuntime Retention = iota
	// RetentionSource extensions are populated during build only and
	// discarded before serialization.
	RetentionSource
	// RetentionNone extensions are never serialized and never rebuilt
	// (e.g. transient bookkeeping used only mid-build).
	RetentionNone
)

// Extension is a named sub-profile container registered on a Manager
// (spec.md §3: "class list, method list, package list, field list,
// constants map, profile-info header, and bespoke user extensions").
// Extension identity for the binary format is by Name, per spec.md §4.9.
type Extension interface {
	Name() string
	Retention() Retention
	// Len reports the item count this extension would write.
	Len() int
	// Reset clears in-memory state; used for SOURCE-retention extensions
	// right before serialization.
	Reset()
	// WriteItems writes this extension's items, in index order, using
	// whatever body format is specific to the extension (spec.md §4.9:
	// "Items' bodies are written by the extension").
	WriteItems(w io.Writer) error
	// ReadItems reads back count items in the format WriteItems wrote them,
	// appending to any existing items. count comes from the profile
	// builder/loader's outer varint item-count (spec.md §4.9), not from the
	// extension itself.
	ReadItems(r extensionReader, count int) error
}

// extensionReader is the minimal reader every extension body format needs;
// satisfied by wire.ByteReader, named narrowly here to avoid a needless
// import of internal/wire's full surface from this file's signatures.
type extensionReader interface {
	io.Reader
	ReadByte() (byte, error)
}
