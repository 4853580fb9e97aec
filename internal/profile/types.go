package profile

// CHAProfile is the top-level managed profile (spec.md §3): the root of a
// built class hierarchy, holding the profile-info header plus whatever
// package/class/method/field extensions the active profile definition
// registers on its manager.
type CHAProfile struct {
	manager *Manager
}

func (p *CHAProfile) Kind() Kind         { return KindCHA }
func (p *CHAProfile) Manager() *Manager { return p.manager }

// PackageProfile holds a parent index (-1 for root), child package
// indexes, and the classes it directly contains (spec.md §3).
type PackageProfile struct {
	manager      *Manager
	Descriptor   int
	Parent       int // -1 for root
	Children     []int
	ClassIndexes []int
}

func (p *PackageProfile) Kind() Kind         { return KindPackage }
func (p *PackageProfile) Manager() *Manager { return p.manager }
func (p *PackageProfile) IsRoot() bool      { return p.Parent < 0 }

// ClassProfile holds a descriptor index, optional method/field index
// lists, and an extension payload (spec.md §3). PackageIndex is -1 when
// the class's package membership was not recorded (e.g. a minimal build).
type ClassProfile struct {
	Extensible
	manager      *Manager
	Descriptor   int
	MethodIdxs   []int
	FieldIdxs    []int
	PackageIndex int
}

func (p *ClassProfile) Kind() Kind         { return KindClass }
func (p *ClassProfile) Manager() *Manager { return p.manager }

// MethodProfile holds a descriptor index and an extension payload.
type MethodProfile struct {
	Extensible
	manager    *Manager
	Descriptor int
}

func (p *MethodProfile) Kind() Kind         { return KindMethod }
func (p *MethodProfile) Manager() *Manager { return p.manager }

// FieldProfile holds a descriptor index and an extension payload.
type FieldProfile struct {
	Extensible
	manager    *Manager
	Descriptor int
}

func (p *FieldProfile) Kind() Kind         { return KindField }
func (p *FieldProfile) Manager() *Manager { return p.manager }

// NewCHAProfile, NewPackageProfile, ... are constructors used by the
// extension lists (see extension.go) when building or loading a manager;
// they set the non-owning back-reference to m.
func NewCHAProfile(m *Manager) *CHAProfile { return &CHAProfile{manager: m} }

func NewPackageProfile(m *Manager, descriptor, parent int) *PackageProfile {
	return &PackageProfile{manager: m, Descriptor: descriptor, Parent: parent}
}

func NewClassProfile(m *Manager, descriptor int) *ClassProfile {
	return &ClassProfile{Extensible: newExtensible(), manager: m, Descriptor: descriptor, PackageIndex: -1}
}

func NewMethodProfile(m *Manager, descriptor int) *MethodProfile {
	return &MethodProfile{Extensible: newExtensible(), manager: m, Descriptor: descriptor}
}

func NewFieldProfile(m *Manager, descriptor int) *FieldProfile {
	return &FieldProfile{Extensible: newExtensible(), manager: m, Descriptor: descriptor}
}
