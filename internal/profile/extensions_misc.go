package profile

import (
	"io"
	"sort"

	"github.com/matrixeditor/libfp/internal/wire"
)

// ConstantsExtension is a free-form key -> literal store, the "constants
// map" extension spec.md §3 names (e.g. bespoke user extensions attach
// arbitrary metadata here rather than growing the profile-info header).
type ConstantsExtension struct {
	retention Retention
	Values    map[string]string
}

func NewConstantsExtension(retention Retention) *ConstantsExtension {
	return &ConstantsExtension{retention: retention, Values: make(map[string]string)}
}

func (e *ConstantsExtension) Name() string        { return "constants" }
func (e *ConstantsExtension) Retention() Retention { return e.retention }
func (e *ConstantsExtension) Len() int             { return len(e.Values) }
func (e *ConstantsExtension) Reset()               { e.Values = make(map[string]string) }

func (e *ConstantsExtension) Set(key, value string) { e.Values[key] = value }

func (e *ConstantsExtension) sortedKeys() []string {
	out := make([]string, 0, len(e.Values))
	for k := range e.Values {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (e *ConstantsExtension) WriteItems(w io.Writer) error {
	for _, k := range e.sortedKeys() {
		if err := wire.WriteString(w, k); err != nil {
			return err
		}
		if err := wire.WriteString(w, e.Values[k]); err != nil {
			return err
		}
	}
	return nil
}

func (e *ConstantsExtension) ReadItems(r extensionReader, count int) error {
	br := wire.NewReader(r)
	for i := 0; i < count; i++ {
		k, err := wire.ReadString(br)
		if err != nil {
			return err
		}
		v, err := wire.ReadString(br)
		if err != nil {
			return err
		}
		e.Values[k] = v
	}
	return nil
}

// ProfileInfoFlags are the bit flags spec.md §3 names for the profile-info
// header.
type ProfileInfoFlags uint32

const (
	FlagIsAppProfile ProfileInfoFlags = 1 << iota
)

// ProfileInfoExtension is the single-item "profile-info header" extension:
// format version, bit flags, and free-form key->literal constants used as
// metadata (library name, version, ...).
type ProfileInfoExtension struct {
	retention Retention
	Version   uint32
	Flags     ProfileInfoFlags
	Constants map[string]string
	loaded    bool
}

func NewProfileInfoExtension(retention Retention, version uint32) *ProfileInfoExtension {
	return &ProfileInfoExtension{retention: retention, Version: version, Constants: make(map[string]string)}
}

func (e *ProfileInfoExtension) Name() string        { return "profile-info" }
func (e *ProfileInfoExtension) Retention() Retention { return e.retention }

func (e *ProfileInfoExtension) Len() int {
	if !e.loaded && e.Version == 0 && len(e.Constants) == 0 {
		return 0
	}
	return 1
}

func (e *ProfileInfoExtension) Reset() {
	e.Constants = make(map[string]string)
}

func (e *ProfileInfoExtension) Has(flag ProfileInfoFlags) bool { return e.Flags&flag != 0 }
func (e *ProfileInfoExtension) Set(key, value string)          { e.Constants[key] = value }

func (e *ProfileInfoExtension) sortedKeys() []string {
	out := make([]string, 0, len(e.Constants))
	for k := range e.Constants {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (e *ProfileInfoExtension) WriteItems(w io.Writer) error {
	if err := wire.WriteUvarint(w, uint64(e.Version)); err != nil {
		return err
	}
	if err := wire.WriteUvarint(w, uint64(e.Flags)); err != nil {
		return err
	}
	keys := e.sortedKeys()
	if err := wire.WriteUvarint(w, uint64(len(keys))); err != nil {
		return err
	}
	for _, k := range keys {
		if err := wire.WriteString(w, k); err != nil {
			return err
		}
		if err := wire.WriteString(w, e.Constants[k]); err != nil {
			return err
		}
	}
	return nil
}

func (e *ProfileInfoExtension) ReadItems(r extensionReader, count int) error {
	if count == 0 {
		return nil
	}
	br := wire.NewReader(r)
	version, err := wire.ReadUvarint(br)
	if err != nil {
		return err
	}
	flags, err := wire.ReadUvarint(br)
	if err != nil {
		return err
	}
	n, err := wire.ReadUvarint(br)
	if err != nil {
		return err
	}
	e.Version = uint32(version)
	e.Flags = ProfileInfoFlags(flags)
	e.loaded = true
	for i := uint64(0); i < n; i++ {
		k, err := wire.ReadString(br)
		if err != nil {
			return err
		}
		v, err := wire.ReadString(br)
		if err != nil {
			return err
		}
		e.Constants[k] = v
	}
	return nil
}
