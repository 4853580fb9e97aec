// Package integration is the symbolic-name registry spec.md §9 describes:
// a set of process-global maps from symbolic name to constructor closure,
// populated by init() in each concrete package, so a config.ProfileDefinition
// can refer to an IL factory variant, a normalizer kind, an extension kind,
// or a built-in strategy/step purely by name. Resolution happens once at
// load time; an unknown name is a ConfigError (spec.md §4.14).
package integration

import (
	"sort"
	"sync"

	"github.com/matrixeditor/libfp/internal/apperr"
)

// Constructor builds a concrete value from a profile definition's
// extension-args map (spec.md §6's "extension-args"), e.g. the
// application loader id an IL factory needs, or a bloom filter's m/k
// parameters as string-encoded args.
type Constructor func(args map[string]string) interface{}

// Registry is a single named-constructor table, generic over the
// constructed type via interface{} — concrete packages wrap it with a
// typed accessor so callers never see the untyped map directly.
type Registry struct {
	mu       sync.RWMutex
	ctors    map[string]func() interface{}
	argCtors map[string]Constructor
}

func newRegistry() *Registry {
	return &Registry{ctors: make(map[string]func() interface{})}
}

// Register binds name to a constructor closure. Calling it twice for the
// same name replaces the prior binding, matching the teacher's "later
// registration wins" convention used across its own init()-populated
// tables.
func (r *Registry) Register(name string, ctor func() interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctors[name] = ctor
}

// RegisterWithArgs binds name to a Constructor in a table separate from
// Register's; such names resolve only through ResolveWithArgs, not Resolve.
func (r *Registry) RegisterWithArgs(name string, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.argCtors == nil {
		r.argCtors = make(map[string]Constructor)
	}
	r.argCtors[name] = ctor
}

// Resolve looks up name and invokes its no-argument constructor. Unknown
// name is a ConfigError (spec.md §4.14).
func (r *Registry) Resolve(name string) (interface{}, error) {
	r.mu.RLock()
	ctor, ok := r.ctors[name]
	r.mu.RUnlock()
	if !ok {
		return nil, apperr.New(apperr.ConfigError, "unknown symbolic name %q", name)
	}
	return ctor(), nil
}

// ResolveWithArgs looks up name among the args-aware constructors and
// invokes it with args. Unknown name is a ConfigError (spec.md §4.14).
func (r *Registry) ResolveWithArgs(name string, args map[string]string) (interface{}, error) {
	r.mu.RLock()
	ctor, ok := r.argCtors[name]
	r.mu.RUnlock()
	if !ok {
		return nil, apperr.New(apperr.ConfigError, "unknown symbolic name %q", name)
	}
	return ctor(args), nil
}

// Names returns every registered name from both tables, sorted, for
// diagnostics.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.ctors)+len(r.argCtors))
	for n := range r.ctors {
		out = append(out, n)
	}
	for n := range r.argCtors {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// The four tables spec.md §9's integration table generalizes over: IL
// factory variants, normalizer kinds, extension kinds, and built-in
// strategies/steps.
var (
	ILFactories Registry = Registry{ctors: make(map[string]func() interface{})}
	Normalizers Registry = Registry{ctors: make(map[string]func() interface{})}
	Extensions  Registry = Registry{ctors: make(map[string]func() interface{})}
	Strategies  Registry = Registry{ctors: make(map[string]func() interface{})}
)
