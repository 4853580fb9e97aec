// Package fake is an in-memory hierarchy.View builder used by every other
// package's tests, the same way the teacher's pkg/commands/dummies.go
// hand-builds fixtures instead of driving a real Docker daemon in unit
// tests — here, instead of parsing a real APK.
package fake

import "github.com/matrixeditor/libfp/internal/hierarchy"

// View is a mutable, in-memory hierarchy.View.
type View struct {
	classes []*Class
	byName  map[string]*Class
}

// NewView returns an empty builder.
func NewView() *View {
	return &View{byName: make(map[string]*Class)}
}

// AddClass registers and returns a new class, ready for further mutation.
func (v *View) AddClass(name, loader string, mods hierarchy.Modifiers) *Class {
	c := &Class{name: name, loader: loader, mods: mods, pkg: packageOf(name)}
	v.classes = append(v.classes, c)
	v.byName[name] = c
	return c
}

func (v *View) Classes() []hierarchy.Class {
	out := make([]hierarchy.Class, len(v.classes))
	for i, c := range v.classes {
		out[i] = c
	}
	return out
}

func (v *View) ClassByName(name string) (hierarchy.Class, bool) {
	c, ok := v.byName[name]
	return c, ok
}

func packageOf(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '/' {
			return name[:i]
		}
	}
	return ""
}

// Class is a mutable fake hierarchy.Class.
type Class struct {
	name       string
	loader     string
	mods       hierarchy.Modifiers
	super      string
	hasSuper   bool
	interfaces []string
	fields     []hierarchy.Field
	methods    []*Method
	pkg        string
}

func (c *Class) Name() string                 { return c.name }
func (c *Class) Loader() string                { return c.loader }
func (c *Class) Modifiers() hierarchy.Modifiers { return c.mods }
func (c *Class) Package() string               { return c.pkg }
func (c *Class) Interfaces() []string          { return c.interfaces }

func (c *Class) SuperClass() (string, bool) { return c.super, c.hasSuper }

func (c *Class) SetSuper(name string) *Class {
	c.super, c.hasSuper = name, true
	return c
}

func (c *Class) AddInterface(name string) *Class {
	c.interfaces = append(c.interfaces, name)
	return c
}

func (c *Class) AddField(name, descriptor string, static bool) *Class {
	c.fields = append(c.fields, &Field{name: name, descriptor: descriptor, static: static})
	return c
}

func (c *Class) Fields() []hierarchy.Field { return c.fields }

func (c *Class) AddMethod(name, descriptor string, static bool) *Method {
	m := &Method{name: name, descriptor: descriptor, static: static}
	c.methods = append(c.methods, m)
	return m
}

func (c *Class) Methods() []hierarchy.Method {
	out := make([]hierarchy.Method, len(c.methods))
	for i, m := range c.methods {
		out[i] = m
	}
	return out
}

// Field is a fake hierarchy.Field.
type Field struct {
	name, descriptor string
	static           bool
}

func (f *Field) Name() string       { return f.name }
func (f *Field) Descriptor() string { return f.descriptor }
func (f *Field) IsStatic() bool     { return f.static }

// Method is a fake hierarchy.Method with a settable instruction stream.
type Method struct {
	name, descriptor string
	static           bool
	tokens           []hierarchy.Token
}

func (m *Method) Name() string       { return m.name }
func (m *Method) Descriptor() string { return m.descriptor }
func (m *Method) IsStatic() bool     { return m.static }

func (m *Method) SetTokens(tokens ...hierarchy.Token) *Method {
	m.tokens = tokens
	return m
}

func (m *Method) Instructions() hierarchy.InstructionSeq {
	if m.tokens == nil {
		return nil
	}
	return tokenSeq(m.tokens)
}

type tokenSeq []hierarchy.Token

func (s tokenSeq) Tokens(yield func(hierarchy.Token) bool) {
	for _, t := range s {
		if !yield(t) {
			return
		}
	}
}
