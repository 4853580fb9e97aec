package pipeline

import (
	"context"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixeditor/libfp/internal/hierarchy"
	"github.com/matrixeditor/libfp/internal/hierarchy/fake"
	"github.com/matrixeditor/libfp/internal/profile"
	"github.com/matrixeditor/libfp/internal/strategy"
)

type stubILFactory struct{}

func (stubILFactory) ClassDescriptor(c hierarchy.Class) string { return "L" + c.Name() + ";" }
func (stubILFactory) MethodDescriptor(c hierarchy.Class, m hierarchy.Method) string {
	return c.Name() + "#" + m.Name()
}
func (stubILFactory) FieldDescriptor(c hierarchy.Class, f hierarchy.Field) string {
	return c.Name() + "." + f.Name()
}

// countingStep records a "visited" marker into every Extensible target it
// sees and counts total invocations, letting tests assert the executor
// actually ran steps for every class/method/field it built.
type countingStep struct {
	kind  profile.Kind
	count int64
}

func (s *countingStep) TargetKind() profile.Kind    { return s.kind }
func (s *countingStep) Test(kind profile.Kind) bool { return kind == s.kind }
func (s *countingStep) Priority() int               { return 0 }
func (s *countingStep) Run(reference profile.Managed, target interface{}) error {
	atomic.AddInt64(&s.count, 1)
	if ext, ok := reference.(interface{ Put(string, interface{}) }); ok {
		ext.Put("visited", true)
	}
	return nil
}

func newManagerWithExtensions() *profile.Manager {
	m := profile.NewManager(stubILFactory{}, nil, true)
	clsBp := profile.NewBlueprint(profile.KindClass)
	methBp := profile.NewBlueprint(profile.KindMethod)
	fldBp := profile.NewBlueprint(profile.KindField)
	m.Register(profile.NewPackageListExtension(m, profile.RetentionRuntime))
	m.Register(profile.NewClassListExtension(m, clsBp, profile.RetentionRuntime))
	m.Register(profile.NewMethodListExtension(m, methBp, profile.RetentionRuntime))
	m.Register(profile.NewFieldListExtension(m, fldBp, profile.RetentionRuntime))
	return m
}

func buildSampleView() *fake.View {
	v := fake.NewView()
	a := v.AddClass("com/example/A", "app", 0)
	a.AddMethod("run", "()V", false)
	a.AddField("count", "I", false)
	v.AddClass("com/example/B", "app", 0)
	return v
}

func TestBuildPopulatesPackagesClassesMethodsFields(t *testing.T) {
	m := newManagerWithExtensions()
	view := buildSampleView()

	r := strategy.New()
	exec := New(r)

	require.NoError(t, exec.Build(context.Background(), view, m))

	classExt, _ := m.Extension("classes")
	cls := classExt.(*profile.ClassListExtension)
	require.Len(t, cls.Items, 2)

	methodExt, _ := m.Extension("methods")
	require.Equal(t, 1, methodExt.(*profile.MethodListExtension).Len())

	fieldExt, _ := m.Extension("fields")
	require.Equal(t, 1, fieldExt.(*profile.FieldListExtension).Len())

	pkgExt, _ := m.Extension("packages")
	pkgs := pkgExt.(*profile.PackageListExtension)
	require.GreaterOrEqual(t, pkgs.Len(), 1)
}

func TestBuildRunsRegisteredStepsForEachKind(t *testing.T) {
	m := newManagerWithExtensions()
	view := buildSampleView()

	r := strategy.New()
	classStep := &countingStep{kind: profile.KindClass}
	methodStep := &countingStep{kind: profile.KindMethod}
	fieldStep := &countingStep{kind: profile.KindField}
	r.RegisterStep(classStep)
	r.RegisterStep(methodStep)
	r.RegisterStep(fieldStep)

	exec := New(r)
	require.NoError(t, exec.Build(context.Background(), view, m))

	require.EqualValues(t, 2, atomic.LoadInt64(&classStep.count))
	require.EqualValues(t, 1, atomic.LoadInt64(&methodStep.count))
	require.EqualValues(t, 1, atomic.LoadInt64(&fieldStep.count))
}

func TestBuildHonorsClassPolicy(t *testing.T) {
	m := newManagerWithExtensions()
	view := buildSampleView()

	r := strategy.New()
	r.AddPolicy(func(kind profile.Kind, target interface{}) bool {
		if kind != profile.KindClass {
			return true
		}
		cls := target.(hierarchy.Class)
		return cls.Name() != "com/example/B"
	})

	exec := New(r)
	require.NoError(t, exec.Build(context.Background(), view, m))

	classExt, _ := m.Extension("classes")
	cls := classExt.(*profile.ClassListExtension)
	require.Len(t, cls.Items, 1)
	require.Equal(t, "Lcom/example/A;", m.Pool.Get(cls.Items[0].Descriptor))
}

func TestBuildRunsClassesConcurrentlyWithoutDataRace(t *testing.T) {
	v := fake.NewView()
	for i := 0; i < 50; i++ {
		v.AddClass(className(i), "app", 0)
	}
	m := newManagerWithExtensions()

	r := strategy.New()
	r.RegisterStep(&countingStep{kind: profile.KindClass})

	exec := New(r)
	exec.Concurrency = 8
	require.NoError(t, exec.Build(context.Background(), v, m))

	classExt, _ := m.Extension("classes")
	require.Equal(t, 50, classExt.(*profile.ClassListExtension).Len())
	require.Equal(t, 50, m.Pool.Size()-countPackages(m))
}

func className(i int) string {
	return "com/example/Gen" + strconv.Itoa(i)
}

func countPackages(m *profile.Manager) int {
	ext, ok := m.Extension("packages")
	if !ok {
		return 0
	}
	return ext.(*profile.PackageListExtension).Len()
}
