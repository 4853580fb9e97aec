// Package normalizer turns a hierarchy.Method's instruction stream into a
// lazy sequence of textual tokens, substituting concrete type references
// with the IL factory's fuzzy descriptors and dropping instruction-position
// information (spec.md §4.5). Two Kind implementations are provided: one for
// Java-style stack bytecode and one for register-based (Dalvik-style)
// bytecode; both must produce equivalent output for equivalent semantics,
// so the substitution core lives once in normalize and each Kind differs
// only in how it labels an opcode.
package normalizer

import (
	"strings"

	"github.com/matrixeditor/libfp/internal/hierarchy"
)

// Kind distinguishes the two supported bytecode shapes, used as the
// symbolic name a profile definition resolves via internal/integration.
type Kind string

const (
	KindJava   Kind = "java-stack"
	KindDalvik Kind = "dalvik-register"
)

// TypeResolver answers whether an internal class name is application-scope,
// the same test internal/ilfactory.Factory applies. It is the narrow
// interface that lets this package avoid importing ilfactory directly.
type TypeResolver interface {
	IsApplicationType(internalName string) bool
}

// Normalizer produces the lazy token sequence for one method body.
type Normalizer struct {
	kind     Kind
	resolver TypeResolver
}

// New builds a Normalizer for the given bytecode kind.
func New(kind Kind, resolver TypeResolver) *Normalizer {
	return &Normalizer{kind: kind, resolver: resolver}
}

// Tokens calls yield once per normalized instruction, in order, stopping
// early if yield returns false. It never retains instruction position:
// the emitted string carries only the opcode label and the fuzzed type
// reference, never an offset or index.
func (n *Normalizer) Tokens(seq hierarchy.InstructionSeq, yield func(string) bool) {
	if seq == nil {
		return
	}
	seq.Tokens(func(t hierarchy.Token) bool {
		return yield(n.normalize(t))
	})
}

// Collect drains seq into a slice, for callers that need the whole
// sequence materialized (e.g. a bloom filter or rolling-hash builder).
func (n *Normalizer) Collect(seq hierarchy.InstructionSeq) []string {
	var out []string
	n.Tokens(seq, func(s string) bool {
		out = append(out, s)
		return true
	})
	return out
}

// Normalize satisfies profile.Normalizer: it drains m's instruction stream
// (nil for abstract/native methods, yielding no tokens) into the fuzzed
// token slice a build step hashes (internal/builtin's method TLSH step).
func (n *Normalizer) Normalize(c hierarchy.Class, m hierarchy.Method) []string {
	return n.Collect(m.Instructions())
}

func (n *Normalizer) normalize(t hierarchy.Token) string {
	op := n.opcodeLabel(t.Opcode)
	if t.TypeRef == "" {
		return op
	}
	return op + " " + n.fuzzType(t.TypeRef)
}

// opcodeLabel is where a Java-stack and a Dalvik-register reader could, in
// principle, name the same semantic instruction differently (e.g.
// "invokevirtual" vs "invoke-virtual"); both Kinds are normalized to the
// same canonical label set so that a strategy comparing an app token stream
// against a library one never sees spurious mismatches caused only by
// which bytecode format produced the method.
func (n *Normalizer) opcodeLabel(raw string) string {
	switch n.kind {
	case KindDalvik:
		return strings.ReplaceAll(raw, "-", "")
	default:
		return raw
	}
}

func (n *Normalizer) fuzzType(internalName string) string {
	depth := 0
	name := internalName
	for strings.HasPrefix(name, "[") {
		depth++
		name = name[1:]
	}
	name = strings.TrimPrefix(name, "L")
	name = strings.TrimSuffix(name, ";")

	if len(name) == 1 && strings.ContainsAny(name, "BCDFIJSZV") {
		return strings.Repeat("[", depth) + name
	}
	if n.resolver != nil && n.resolver.IsApplicationType(name) {
		return strings.Repeat("[", depth) + "X"
	}
	return strings.Repeat("[", depth) + "L" + name + ";"
}
