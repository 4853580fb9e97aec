package profile

import (
	"github.com/matrixeditor/libfp/internal/descriptor"
	"github.com/matrixeditor/libfp/internal/hierarchy"
)

// ILFactory is the subset of internal/ilfactory.Factory the manager needs.
// Kept as a narrow interface here (rather than importing ilfactory
// directly) so profile stays the lower, more stable layer; ilfactory
// satisfies this structurally without importing profile.
type ILFactory interface {
	ClassDescriptor(c hierarchy.Class) string
	MethodDescriptor(c hierarchy.Class, m hierarchy.Method) string
	FieldDescriptor(c hierarchy.Class, f hierarchy.Field) string
}

// Normalizer is the subset of internal/normalizer.Normalizer the manager
// needs (spec.md §4.5).
type Normalizer interface {
	Normalize(c hierarchy.Class, m hierarchy.Method) []string
}

// Manager is the process-local owner of a profile's descriptor pool,
// extensions and factories (spec.md §3 "Profile manager"). Sub-profiles
// hold a non-owning back-reference to their manager; the manager owns the
// arrays of sub-profiles via its Extensions, never the reverse — this is
// the "arena + index" pattern spec.md §9 prescribes to avoid a
// profile/manager ownership cycle.
type Manager struct {
	Pool       *descriptor.Pool
	ILFactory  ILFactory
	Normalizer Normalizer // optional; nil when the active definition has none

	extensions   []Extension
	extensionIdx map[string]int

	// IsAppProfile picks a canonical (app, lib) ordering when a strategy is
	// asymmetric (spec.md §3).
	IsAppProfile bool

	CHA *CHAProfile
}

// NewManager builds an empty manager. Extensions are registered afterward
// via Register, in the order a profile definition's integration lists
// them — that order is also the RUNTIME serialization order (spec.md
// §4.9).
func NewManager(ilFactory ILFactory, normalizer Normalizer, isAppProfile bool) *Manager {
	m := &Manager{
		Pool:         descriptor.New(),
		ILFactory:    ilFactory,
		Normalizer:   normalizer,
		IsAppProfile: isAppProfile,
		extensionIdx: make(map[string]int),
	}
	m.CHA = NewCHAProfile(m)
	return m
}

// Register appends ext to the manager's extension list. Registering the
// same name twice replaces the prior extension but keeps its position,
// matching Blueprint.Declare's idempotence.
func (m *Manager) Register(ext Extension) {
	if i, ok := m.extensionIdx[ext.Name()]; ok {
		m.extensions[i] = ext
		return
	}
	m.extensionIdx[ext.Name()] = len(m.extensions)
	m.extensions = append(m.extensions, ext)
}

// Extension looks up a registered extension by name.
func (m *Manager) Extension(name string) (Extension, bool) {
	i, ok := m.extensionIdx[name]
	if !ok {
		return nil, false
	}
	return m.extensions[i], true
}

// Extensions returns every registered extension, in registration order —
// the order spec.md §4.9 requires for serialization.
func (m *Manager) Extensions() []Extension {
	return m.extensions
}

// RuntimeExtensions returns the subset with RetentionRuntime, in order.
func (m *Manager) RuntimeExtensions() []Extension {
	out := make([]Extension, 0, len(m.extensions))
	for _, e := range m.extensions {
		if e.Retention() == RetentionRuntime {
			out = append(out, e)
		}
	}
	return out
}

// DiscardSourceExtensions drops every SOURCE-retention extension's
// in-memory state, as spec.md §3 requires before serialization: "SOURCE:
// populated during build only, discarded before serialization".
func (m *Manager) DiscardSourceExtensions() {
	for _, e := range m.extensions {
		if e.Retention() == RetentionSource {
			e.Reset()
		}
	}
}
