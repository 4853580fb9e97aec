package profile

import (
	"io"
	"sort"

	"github.com/matrixeditor/libfp/internal/apperr"
)

// ValueFactory builds the zero value for a blueprint key when a payload is
// first needed during the build phase (e.g. a fresh *fphash.Bloom).
type ValueFactory func() interface{}

// Codec writes and reads a single payload value. Each extension-payload
// type internal/fphash exposes (bloom filter, rolling-hash set, TLSH
// digest, numeric weight) gets one Codec, registered alongside its
// ValueFactory so a Blueprint fully describes how to round-trip a key.
type Codec struct {
	Write func(v interface{}, w io.Writer) error
	Read  func(r ExtensionByteReader) (interface{}, error)
}

// ExtensionByteReader is the minimal reader a Codec needs.
type ExtensionByteReader interface {
	io.Reader
	ReadByte() (byte, error)
}

// fieldDecl is one (key -> factory, codec) entry of a Blueprint, in
// declaration order.
type fieldDecl struct {
	key     string
	factory ValueFactory
	codec   Codec
}

// Blueprint declares, for a given extensible-profile Kind, the ordered set
// of payload keys that are active (spec.md §4.3). Write order at
// serialization time is the blueprint's declaration order; the reader uses
// the same order to reconstruct values, so a Blueprint is shared between
// the building side and the loading side of internal/profileio.
type Blueprint struct {
	kind   Kind
	fields []fieldDecl
	byKey  map[string]int
}

// NewBlueprint returns an empty blueprint for the given profile kind.
func NewBlueprint(kind Kind) *Blueprint {
	return &Blueprint{kind: kind, byKey: make(map[string]int)}
}

// Kind returns the profile kind this blueprint governs.
func (b *Blueprint) Kind() Kind { return b.kind }

// Declare appends a key to the blueprint. Declaring the same key twice
// replaces its factory/codec but keeps its original position, so
// re-registering a step's target key is idempotent for ordering purposes.
func (b *Blueprint) Declare(key string, factory ValueFactory, codec Codec) *Blueprint {
	if i, ok := b.byKey[key]; ok {
		b.fields[i].factory = factory
		b.fields[i].codec = codec
		return b
	}
	b.byKey[key] = len(b.fields)
	b.fields = append(b.fields, fieldDecl{key: key, factory: factory, codec: codec})
	return b
}

// Keys returns the declared keys in blueprint order.
func (b *Blueprint) Keys() []string {
	out := make([]string, len(b.fields))
	for i, f := range b.fields {
		out[i] = f.key
	}
	return out
}

// Factory returns the value factory for key, or nil if undeclared.
func (b *Blueprint) Factory(key string) ValueFactory {
	if i, ok := b.byKey[key]; ok {
		return b.fields[i].factory
	}
	return nil
}

// CodecFor returns the codec for key, or the zero Codec if undeclared.
func (b *Blueprint) CodecFor(key string) Codec {
	if i, ok := b.byKey[key]; ok {
		return b.fields[i].codec
	}
	return Codec{}
}

// Has reports whether key is declared.
func (b *Blueprint) Has(key string) bool {
	_, ok := b.byKey[key]
	return ok
}

// ValidateKeys checks that keys (e.g. the set written by a loaded payload)
// are exactly the set of keys this blueprint declares as active — an
// unknown key at read time is a FormatMismatch per spec.md §4.3.
func (b *Blueprint) ValidateKeys(keys []string) error {
	for _, k := range keys {
		if !b.Has(k) {
			return apperr.New(apperr.FormatMismatch, "unknown extension key %q for kind %s", k, b.kind)
		}
	}
	want := b.Keys()
	sort.Strings(want)
	got := append([]string(nil), keys...)
	sort.Strings(got)
	if len(want) != len(got) {
		return apperr.New(apperr.FormatMismatch, "extension key set mismatch for kind %s: want %v got %v", b.kind, want, got)
	}
	for i := range want {
		if want[i] != got[i] {
			return apperr.New(apperr.FormatMismatch, "extension key set mismatch for kind %s: want %v got %v", b.kind, want, got)
		}
	}
	return nil
}
