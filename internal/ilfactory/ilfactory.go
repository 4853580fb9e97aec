// Package ilfactory converts a class/field/method from a hierarchy.View
// into a stable textual descriptor (spec.md §4.4). Three variants are
// predefined: Basic, Unique and Hierarchy fuzzy. Each satisfies
// profile.ILFactory structurally.
package ilfactory

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/matrixeditor/libfp/internal/hierarchy"
)

// Variant names the three predefined IL factory contracts, used as the
// symbolic name a profile definition resolves via internal/integration.
type Variant string

const (
	VariantBasic     Variant = "basic-fuzzy"
	VariantUnique    Variant = "unique-fuzzy"
	VariantHierarchy Variant = "hierarchy-fuzzy"
)

var anonymousInner = regexp.MustCompile(`\$\d+(\$\d+)?$`)

var reservedSimpleNames = map[string]bool{
	"BuildConfig": true,
	"module-info": true,
}

// IsApplicationScope reports whether c belongs to the application per
// spec.md §4.4: declaring loader equals the app loader, simple name isn't
// one of the reserved/generated names, isn't an anonymous inner class, and
// isn't "empty" (only a class-init method, no fields).
func IsApplicationScope(c hierarchy.Class, appLoader string) bool {
	if c.Loader() != appLoader {
		return false
	}
	simple := simpleName(c.Name())
	if simple == "R" || strings.HasPrefix(simple, "R$") {
		return false
	}
	if reservedSimpleNames[simple] {
		return false
	}
	if anonymousInner.MatchString(simple) {
		return false
	}
	if isEmptyClass(c) {
		return false
	}
	return true
}

func isEmptyClass(c hierarchy.Class) bool {
	if len(c.Fields()) > 0 {
		return false
	}
	methods := c.Methods()
	if len(methods) == 0 {
		return true
	}
	for _, m := range methods {
		if m.Name() != "<clinit>" {
			return false
		}
	}
	return true
}

func simpleName(internalName string) string {
	i := strings.LastIndexByte(internalName, '/')
	if i < 0 {
		return internalName
	}
	return internalName[i+1:]
}

// Factory is the common shape of all three variants.
type Factory struct {
	variant   Variant
	appLoader string
	// occurrences tracks, per declaring class, how many times a given
	// descriptor string has been emitted — used by the Unique variant to
	// keep in-class duplicates distinguishable (spec.md §4.4).
	occurrences map[string]map[string]int
	// view is the hierarchy.View currently being built, bound once per
	// build via BindView. It lets fuzzyType resolve an arbitrary referenced
	// class name's application-scope status by direct lookup, rather than
	// depending on whether that class happened to be rendered earlier in
	// this Factory's lifetime.
	view hierarchy.View
}

// New builds a Factory for the given variant and application loader id.
func New(variant Variant, appLoader string) *Factory {
	return &Factory{variant: variant, appLoader: appLoader, occurrences: make(map[string]map[string]int)}
}

// BindView attaches the hierarchy.View a build is processing, so
// cross-class application-scope lookups (e.g. a method parameter or field
// naming another class) resolve deterministically regardless of class
// build order or concurrency (spec.md §4.7's pipeline determinism
// invariant). Safe to call again with a new view for a subsequent build.
func (f *Factory) BindView(view hierarchy.View) {
	f.view = view
}

func (f *Factory) isApp(c hierarchy.Class) bool {
	return IsApplicationScope(c, f.appLoader)
}

// fuzzyType renders a single JVM type descriptor token, substituting
// application-scope class types with a placeholder 'X' while preserving
// array arity (spec.md §4.4).
func (f *Factory) fuzzyType(view *typeToken) string {
	if view.isObject {
		if f.classIsApp(view.internalName) {
			return strings.Repeat("[", view.arrayDepth) + "X"
		}
		return strings.Repeat("[", view.arrayDepth) + "L" + view.internalName + ";"
	}
	return strings.Repeat("[", view.arrayDepth) + view.primitive
}

// classIsApp resolves an internal class name's application-scope status.
// Real bytecode readers hand us the owning hierarchy.Class already; this
// helper exists for descriptor strings parsed out of a method signature,
// where only the name (not a hierarchy.Class) is available — it looks the
// name up in the bound view, so the answer never depends on whether that
// class has itself been rendered yet.
func (f *Factory) classIsApp(internalName string) bool {
	if f.view == nil {
		return false
	}
	c, ok := f.view.ClassByName(internalName)
	if !ok {
		return false
	}
	return f.isApp(c)
}

// IsApplicationType exposes classIsApp for internal/normalizer, which needs
// the same application-scope test while normalizing type references found
// inside a method body (spec.md §4.5) but must not import this package's
// hierarchy.Class-shaped API to get it.
func (f *Factory) IsApplicationType(internalName string) bool {
	return f.classIsApp(internalName)
}

type typeToken struct {
	arrayDepth   int
	isObject     bool
	internalName string
	primitive    string
}

// ClassDescriptor renders the header descriptor for c (spec.md §4.4).
func (f *Factory) ClassDescriptor(c hierarchy.Class) string {
	base := f.classBase(c)
	if f.variant != VariantHierarchy {
		return base
	}
	return f.hierarchyClassDescriptor(c, base)
}

func (f *Factory) classBase(c hierarchy.Class) string {
	if f.isApp(c) {
		return "X"
	}
	return c.Name()
}

func (f *Factory) hierarchyClassDescriptor(c hierarchy.Class, base string) string {
	var flags strings.Builder
	mods := c.Modifiers()
	if mods.Has(hierarchy.Abstract) {
		flags.WriteByte('A')
	}
	if mods.Has(hierarchy.Interface) {
		flags.WriteByte('I')
	}
	if mods.Has(hierarchy.Enum) {
		flags.WriteByte('E')
	}
	if f.isApp(c) {
		flags.WriteByte('X')
	}
	out := flags.String() + base
	if super, ok := c.SuperClass(); ok && super != "" {
		out += "{" + super + "}"
	}
	if ifaces := c.Interfaces(); len(ifaces) > 0 {
		sorted := append([]string(nil), ifaces...)
		sort.Strings(sorted)
		out += "[" + strings.Join(sorted, ",") + "]"
	}
	return out
}

// MethodDescriptor renders a method descriptor per spec.md §4.4: "("
// parameter-descriptors ")" return-descriptor, <static> prefix for static
// methods, <init>/<clinit> names preserved, instance receiver omitted.
func (f *Factory) MethodDescriptor(c hierarchy.Class, m hierarchy.Method) string {
	raw := m.Descriptor()
	args, ret := splitMethodDescriptor(raw)

	var rendered []string
	for _, a := range args {
		rendered = append(rendered, f.fuzzyType(a))
	}
	out := "(" + strings.Join(rendered, "") + ")" + f.fuzzyType(ret)

	prefix := ""
	switch m.Name() {
	case "<init>", "<clinit>":
		// Preserved verbatim (spec.md §4.4) so a constructor never collides
		// with an instance method of the same erased descriptor.
		prefix = m.Name()
	default:
		if m.IsStatic() {
			prefix = "<static>"
		}
	}
	if f.variant == VariantHierarchy && c.Modifiers().Has(hierarchy.Abstract) {
		prefix = "A" + prefix
	}
	out = prefix + out

	if f.variant == VariantUnique {
		out = f.tagOccurrence(c.Name(), out)
	}
	return out
}

// FieldDescriptor renders a field's type descriptor.
func (f *Factory) FieldDescriptor(c hierarchy.Class, fld hierarchy.Field) string {
	tok := parseType(fld.Descriptor())
	out := f.fuzzyType(tok)
	if f.variant == VariantUnique {
		out = f.tagOccurrence(c.Name(), out)
	}
	return out
}

func (f *Factory) tagOccurrence(className, descriptor string) string {
	perClass, ok := f.occurrences[className]
	if !ok {
		perClass = make(map[string]int)
		f.occurrences[className] = perClass
	}
	idx := perClass[descriptor]
	perClass[descriptor] = idx + 1
	if idx == 0 {
		return descriptor
	}
	return fmt.Sprintf("%s#%d", descriptor, idx)
}

// Document returns a deterministic, order-independent textual witness for
// c: header, sorted field descriptors, sorted method descriptors (spec.md
// §4.4 getDocument).
func (f *Factory) Document(c hierarchy.Class) string {
	header := f.ClassDescriptor(c)

	fields := c.Fields()
	fieldDescs := make([]string, len(fields))
	for i, fld := range fields {
		fieldDescs[i] = f.FieldDescriptor(c, fld)
	}
	sort.Strings(fieldDescs)

	methods := c.Methods()
	methodDescs := make([]string, len(methods))
	for i, m := range methods {
		methodDescs[i] = f.MethodDescriptor(c, m)
	}
	sort.Strings(methodDescs)

	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteByte('\n')
	for _, fd := range fieldDescs {
		sb.WriteString(fd)
		sb.WriteByte('\n')
	}
	for _, md := range methodDescs {
		sb.WriteString(md)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// splitMethodDescriptor parses a raw JVM-style "(args)ret" descriptor into
// its parameter tokens and return token.
func splitMethodDescriptor(raw string) (args []*typeToken, ret *typeToken) {
	i := strings.IndexByte(raw, '(')
	j := strings.IndexByte(raw, ')')
	if i < 0 || j < 0 || j < i {
		return nil, parseType(raw)
	}
	argsRaw := raw[i+1 : j]
	retRaw := raw[j+1:]

	pos := 0
	for pos < len(argsRaw) {
		tok, n := parseTypeAt(argsRaw, pos)
		args = append(args, tok)
		pos += n
	}
	ret = parseType(retRaw)
	return args, ret
}

func parseType(s string) *typeToken {
	tok, _ := parseTypeAt(s, 0)
	return tok
}

func parseTypeAt(s string, pos int) (*typeToken, int) {
	start := pos
	depth := 0
	for pos < len(s) && s[pos] == '[' {
		depth++
		pos++
	}
	if pos >= len(s) {
		return &typeToken{arrayDepth: depth, primitive: "V"}, pos - start
	}
	switch s[pos] {
	case 'L':
		end := strings.IndexByte(s[pos:], ';')
		if end < 0 {
			end = len(s) - pos - 1
		}
		name := s[pos+1 : pos+end]
		return &typeToken{arrayDepth: depth, isObject: true, internalName: name}, pos + end + 1 - start
	default:
		return &typeToken{arrayDepth: depth, primitive: string(s[pos])}, pos + 1 - start
	}
}
