// Package hierarchy defines the class-hierarchy-view boundary that
// spec.md §1 and §6 describe as out of scope: the bytecode reader for a
// given bundle format (APK/JAR/AAR/HAR) is a collaborator, not part of
// this repository. Everything downstream — the IL factory, the bytecode
// normalizer, the pipeline executor — consumes only the interfaces below.
package hierarchy

// Modifiers is a small bitset of the JVM-style access/kind flags the IL
// factory needs (spec.md §4.4: abstract, interface, enum). Application
// scope is not a modifier; internal/ilfactory.IsApplicationScope computes it.
type Modifiers uint8

const (
	Public Modifiers = 1 << iota
	Abstract
	Interface
	Enum
	Static
)

func (m Modifiers) Has(f Modifiers) bool { return m&f != 0 }

// View is an abstract handle to a fully resolved class table for a bundle.
type View interface {
	// Classes returns every class known to the view, in no particular
	// order; callers that need determinism sort by Name().
	Classes() []Class
	// ClassByName looks up a class by its internal (slash-separated) name.
	ClassByName(name string) (Class, bool)
}

// Class is a single class/interface/enum declaration.
type Class interface {
	Name() string
	// Loader identifies the declaring class loader; the empty string means
	// the bootstrap/system loader. Application scope (spec.md §4.4) is
	// "loader equals the application loader".
	Loader() string
	Modifiers() Modifiers
	SuperClass() (string, bool)
	Interfaces() []string
	Fields() []Field
	Methods() []Method
	// Package returns the slash-separated package name this class belongs
	// to, e.g. "com/example/util".
	Package() string
}

// Method is a single method or constructor declaration.
type Method interface {
	Name() string
	// Descriptor is the raw "(args)ret" JVM-style descriptor, using
	// internal (slash) type names.
	Descriptor() string
	IsStatic() bool
	// Instructions exposes a lazy instruction stream; nil for abstract or
	// native methods.
	Instructions() InstructionSeq
}

// Field is a single field declaration.
type Field interface {
	Name() string
	Descriptor() string
	IsStatic() bool
}

// Token is one normalized instruction emitted by a bytecode reader,
// consumed by internal/normalizer.
type Token struct {
	Opcode string
	// TypeRef, if non-empty, is the internal name of a type this
	// instruction references (a field/method owner, a checked cast target,
	// an instantiated class, ...). The normalizer substitutes it with the
	// IL factory's fuzzy descriptor.
	TypeRef string
}

// InstructionSeq is a lazy sequence of tokens. Implementations must not
// retain any notion of instruction position once iteration completes
// (spec.md §4.5: "dropping instruction-position information").
type InstructionSeq interface {
	// Tokens calls yield for each token in order, stopping early if yield
	// returns false.
	Tokens(yield func(Token) bool)
}
