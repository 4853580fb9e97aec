package profile

import (
	"io"

	"github.com/matrixeditor/libfp/internal/wire"
)

// ClassListExtension is the "class list" sub-profile container spec.md
// §3 names. Its blueprint governs the payload keys active on every
// ClassProfile it holds.
type ClassListExtension struct {
	manager   *Manager
	blueprint *Blueprint
	retention Retention
	Items     []*ClassProfile
}

func NewClassListExtension(m *Manager, bp *Blueprint, retention Retention) *ClassListExtension {
	return &ClassListExtension{manager: m, blueprint: bp, retention: retention}
}

func (e *ClassListExtension) Name() string        { return "classes" }
func (e *ClassListExtension) Retention() Retention { return e.retention }
func (e *ClassListExtension) Len() int             { return len(e.Items) }
func (e *ClassListExtension) Reset()               { e.Items = nil }

// Add appends a new ClassProfile and returns its index.
func (e *ClassListExtension) Add(descriptor int) (*ClassProfile, int) {
	cp := NewClassProfile(e.manager, descriptor)
	e.Items = append(e.Items, cp)
	return cp, len(e.Items) - 1
}

func (e *ClassListExtension) WriteItems(w io.Writer) error {
	for _, cp := range e.Items {
		if err := wire.WriteUvarint(w, uint64(cp.Descriptor)); err != nil {
			return err
		}
		if err := writeIntSlice(w, cp.MethodIdxs); err != nil {
			return err
		}
		if err := writeIntSlice(w, cp.FieldIdxs); err != nil {
			return err
		}
		if err := wire.WriteUvarint(w, uint64(cp.PackageIndex+1)); err != nil {
			return err
		}
		if err := writePayload(w, e.blueprint, &cp.Extensible); err != nil {
			return err
		}
	}
	return nil
}

func (e *ClassListExtension) ReadItems(r extensionReader, count int) error {
	br := wire.NewReader(r)
	for i := 0; i < count; i++ {
		if err := e.readOne(br); err != nil {
			return err
		}
	}
	return nil
}

func (e *ClassListExtension) readOne(r wire.ByteReader) error {
	descriptor, err := wire.ReadUvarint(r)
	if err != nil {
		return err
	}
	cp := NewClassProfile(e.manager, int(descriptor))
	if cp.MethodIdxs, err = readIntSlice(r); err != nil {
		return err
	}
	if cp.FieldIdxs, err = readIntSlice(r); err != nil {
		return err
	}
	pkgPlusOne, err := wire.ReadUvarint(r)
	if err != nil {
		return err
	}
	cp.PackageIndex = int(pkgPlusOne) - 1
	if err := readPayload(r, e.blueprint, &cp.Extensible); err != nil {
		return err
	}
	e.Items = append(e.Items, cp)
	return nil
}

// MethodListExtension is the "method list" sub-profile container.
type MethodListExtension struct {
	manager   *Manager
	blueprint *Blueprint
	retention Retention
	Items     []*MethodProfile
}

func NewMethodListExtension(m *Manager, bp *Blueprint, retention Retention) *MethodListExtension {
	return &MethodListExtension{manager: m, blueprint: bp, retention: retention}
}

func (e *MethodListExtension) Name() string        { return "methods" }
func (e *MethodListExtension) Retention() Retention { return e.retention }
func (e *MethodListExtension) Len() int             { return len(e.Items) }
func (e *MethodListExtension) Reset()               { e.Items = nil }

func (e *MethodListExtension) Add(descriptor int) (*MethodProfile, int) {
	mp := NewMethodProfile(e.manager, descriptor)
	e.Items = append(e.Items, mp)
	return mp, len(e.Items) - 1
}

func (e *MethodListExtension) WriteItems(w io.Writer) error {
	for _, mp := range e.Items {
		if err := wire.WriteUvarint(w, uint64(mp.Descriptor)); err != nil {
			return err
		}
		if err := writePayload(w, e.blueprint, &mp.Extensible); err != nil {
			return err
		}
	}
	return nil
}

func (e *MethodListExtension) ReadItems(r extensionReader, count int) error {
	br := wire.NewReader(r)
	for i := 0; i < count; i++ {
		descriptor, err := wire.ReadUvarint(br)
		if err != nil {
			return err
		}
		mp := NewMethodProfile(e.manager, int(descriptor))
		if err := readPayload(br, e.blueprint, &mp.Extensible); err != nil {
			return err
		}
		e.Items = append(e.Items, mp)
	}
	return nil
}

// FieldListExtension is the "field list" sub-profile container.
type FieldListExtension struct {
	manager   *Manager
	blueprint *Blueprint
	retention Retention
	Items     []*FieldProfile
}

func NewFieldListExtension(m *Manager, bp *Blueprint, retention Retention) *FieldListExtension {
	return &FieldListExtension{manager: m, blueprint: bp, retention: retention}
}

func (e *FieldListExtension) Name() string        { return "fields" }
func (e *FieldListExtension) Retention() Retention { return e.retention }
func (e *FieldListExtension) Len() int             { return len(e.Items) }
func (e *FieldListExtension) Reset()               { e.Items = nil }

func (e *FieldListExtension) Add(descriptor int) (*FieldProfile, int) {
	fp := NewFieldProfile(e.manager, descriptor)
	e.Items = append(e.Items, fp)
	return fp, len(e.Items) - 1
}

func (e *FieldListExtension) WriteItems(w io.Writer) error {
	for _, fp := range e.Items {
		if err := wire.WriteUvarint(w, uint64(fp.Descriptor)); err != nil {
			return err
		}
		if err := writePayload(w, e.blueprint, &fp.Extensible); err != nil {
			return err
		}
	}
	return nil
}

func (e *FieldListExtension) ReadItems(r extensionReader, count int) error {
	br := wire.NewReader(r)
	for i := 0; i < count; i++ {
		descriptor, err := wire.ReadUvarint(br)
		if err != nil {
			return err
		}
		fp := NewFieldProfile(e.manager, int(descriptor))
		if err := readPayload(br, e.blueprint, &fp.Extensible); err != nil {
			return err
		}
		e.Items = append(e.Items, fp)
	}
	return nil
}

// PackageListExtension is the "package list" sub-profile container.
type PackageListExtension struct {
	manager   *Manager
	retention Retention
	Items     []*PackageProfile
}

func NewPackageListExtension(m *Manager, retention Retention) *PackageListExtension {
	return &PackageListExtension{manager: m, retention: retention}
}

func (e *PackageListExtension) Name() string        { return "packages" }
func (e *PackageListExtension) Retention() Retention { return e.retention }
func (e *PackageListExtension) Len() int             { return len(e.Items) }
func (e *PackageListExtension) Reset()               { e.Items = nil }

func (e *PackageListExtension) Add(descriptor, parent int) (*PackageProfile, int) {
	pp := NewPackageProfile(e.manager, descriptor, parent)
	e.Items = append(e.Items, pp)
	return pp, len(e.Items) - 1
}

func (e *PackageListExtension) WriteItems(w io.Writer) error {
	for _, pp := range e.Items {
		if err := wire.WriteUvarint(w, uint64(pp.Descriptor)); err != nil {
			return err
		}
		if err := wire.WriteUvarint(w, uint64(pp.Parent+1)); err != nil {
			return err
		}
		if err := writeIntSlice(w, pp.Children); err != nil {
			return err
		}
		if err := writeIntSlice(w, pp.ClassIndexes); err != nil {
			return err
		}
	}
	return nil
}

func (e *PackageListExtension) ReadItems(r extensionReader, count int) error {
	br := wire.NewReader(r)
	for i := 0; i < count; i++ {
		descriptor, err := wire.ReadUvarint(br)
		if err != nil {
			return err
		}
		parentPlusOne, err := wire.ReadUvarint(br)
		if err != nil {
			return err
		}
		pp := NewPackageProfile(e.manager, int(descriptor), int(parentPlusOne)-1)
		if pp.Children, err = readIntSlice(br); err != nil {
			return err
		}
		if pp.ClassIndexes, err = readIntSlice(br); err != nil {
			return err
		}
		e.Items = append(e.Items, pp)
	}
	return nil
}

func writeIntSlice(w io.Writer, vals []int) error {
	if err := wire.WriteUvarint(w, uint64(len(vals))); err != nil {
		return err
	}
	for _, v := range vals {
		if err := wire.WriteUvarint(w, uint64(v)); err != nil {
			return err
		}
	}
	return nil
}

func readIntSlice(r wire.ByteReader) ([]int, error) {
	n, err := wire.ReadUvarint(r)
	if err != nil {
		return nil, err
	}
	out := make([]int, n)
	for i := range out {
		v, err := wire.ReadUvarint(r)
		if err != nil {
			return nil, err
		}
		out[i] = int(v)
	}
	return out, nil
}
