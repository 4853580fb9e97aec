package builtin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixeditor/libfp/internal/hierarchy"
	"github.com/matrixeditor/libfp/internal/hierarchy/fake"
	"github.com/matrixeditor/libfp/internal/pipeline"
	"github.com/matrixeditor/libfp/internal/profile"
	"github.com/matrixeditor/libfp/internal/strategy"
)

type fixedThresholds map[profile.Kind]float64

func (c fixedThresholds) ThresholdFor(k profile.Kind) float64 { return c[k] }

// defaultThresholds mirrors config.DefaultProfileDefinition's per-kind
// thresholds (0.5 everywhere) — using 0 everywhere would make every
// bipartite match trivially perfect regardless of actual similarity,
// since Score only counts matched edges, not their weight.
func defaultThresholds() fixedThresholds {
	return fixedThresholds{
		profile.KindCHA:     0.5,
		profile.KindPackage: 0.5,
		profile.KindClass:   0.5,
		profile.KindMethod:  0.5,
		profile.KindField:   0.5,
	}
}

type literalILFactory struct{}

func (literalILFactory) ClassDescriptor(c hierarchy.Class) string  { return "L" + c.Name() + ";" }
func (literalILFactory) MethodDescriptor(c hierarchy.Class, m hierarchy.Method) string {
	return c.Name() + "#" + m.Name() + m.Descriptor()
}
func (literalILFactory) FieldDescriptor(c hierarchy.Class, f hierarchy.Field) string {
	return c.Name() + "." + f.Name()
}

func buildManager(t *testing.T, v hierarchy.View, reg *strategy.Registry) *profile.Manager {
	t.Helper()
	m := profile.NewManager(literalILFactory{}, nil, true)
	m.Register(profile.NewPackageListExtension(m, profile.RetentionRuntime))
	m.Register(profile.NewClassListExtension(m, profile.NewBlueprint(profile.KindClass), profile.RetentionRuntime))
	m.Register(profile.NewMethodListExtension(m, profile.NewBlueprint(profile.KindMethod), profile.RetentionRuntime))
	m.Register(profile.NewFieldListExtension(m, profile.NewBlueprint(profile.KindField), profile.RetentionRuntime))
	exec := pipeline.New(reg)
	require.NoError(t, exec.Build(context.Background(), v, m))
	return m
}

func defaultRegistryFor(t *testing.T) *strategy.Registry {
	t.Helper()
	return NewDefaultRegistry(upperNormalizer{}, nil)
}

// repeatTokens builds a token stream long enough for TLSH to produce a
// stable digest (see fphash.NewTLSHDigest's minimum-input requirement).
func repeatTokens(opcode, typeRef string, n int) []hierarchy.Token {
	out := make([]hierarchy.Token, n)
	for i := range out {
		out[i] = hierarchy.Token{Opcode: opcode, TypeRef: typeRef}
	}
	return out
}

func classListOf(m *profile.Manager) *profile.ClassListExtension {
	ext, _ := m.Extension("classes")
	return ext.(*profile.ClassListExtension)
}

func fieldListOf(m *profile.Manager) *profile.FieldListExtension {
	ext, _ := m.Extension("fields")
	return ext.(*profile.FieldListExtension)
}

func TestFieldSimilarityIdenticalDescriptorsScoreOne(t *testing.T) {
	v := fake.NewView()
	cls := v.AddClass("com/example/Foo", "app", 0)
	cls.AddField("count", "I", false)
	reg := defaultRegistryFor(t)
	m := buildManager(t, v, reg)

	fields := fieldListOf(m)
	score, err := FieldSimilarity(fields.Items[0], fields.Items[0], defaultThresholds())
	require.NoError(t, err)
	require.Equal(t, 1.0, score)
}

func TestFieldSimilarityDifferentDescriptorsScoreZero(t *testing.T) {
	v := fake.NewView()
	cls := v.AddClass("com/example/Foo", "app", 0)
	cls.AddField("count", "I", false)
	cls.AddField("total", "J", false)
	reg := defaultRegistryFor(t)
	m := buildManager(t, v, reg)

	fields := fieldListOf(m)
	score, err := FieldSimilarity(fields.Items[0], fields.Items[1], defaultThresholds())
	require.NoError(t, err)
	require.Equal(t, 0.0, score)
}

func TestClassSimilarityIdenticalClassesScoreOne(t *testing.T) {
	v := fake.NewView()
	cls := v.AddClass("com/example/Foo", "app", 0)
	cls.AddMethod("run", "()V", false)
	reg := defaultRegistryFor(t)
	m := buildManager(t, v, reg)

	classes := classListOf(m)
	score, err := ClassSimilarity(classes.Items[0], classes.Items[0], defaultThresholds())
	require.NoError(t, err)
	require.Equal(t, 1.0, score)
}

func TestClassSimilarityStructurallyIdenticalClassesScoreHigh(t *testing.T) {
	appView := fake.NewView()
	appCls := appView.AddClass("com/app/Alpha", "app", 0)
	appCls.AddMethod("run", "()V", false).SetTokens(repeatTokens("invoke-virtual", "com/app/Helper", 64)...)
	appCls.AddField("count", "I", false)

	libView := fake.NewView()
	libCls := libView.AddClass("com/lib/Alpha", "lib", 0)
	libCls.AddMethod("run", "()V", false).SetTokens(repeatTokens("invoke-virtual", "com/app/Helper", 64)...)
	libCls.AddField("count", "I", false)

	reg := defaultRegistryFor(t)
	appM := buildManager(t, appView, reg)
	libM := buildManager(t, libView, reg)

	appClasses := classListOf(appM)
	libClasses := classListOf(libM)

	score, err := ClassSimilarity(appClasses.Items[0], libClasses.Items[0], defaultThresholds())
	require.NoError(t, err)
	require.Greater(t, score, 0.9)
}

func TestClassSimilarityUnrelatedClassesScoreLow(t *testing.T) {
	appView := fake.NewView()
	appCls := appView.AddClass("com/app/Alpha", "app", 0)
	appCls.AddMethod("run", "()V", false)

	libView := fake.NewView()
	libCls := libView.AddClass("com/lib/Zeta", "lib", 0)
	libCls.AddMethod("shutdown", "(I)V", false)
	libCls.AddField("state", "Ljava/lang/Object;", false)

	reg := defaultRegistryFor(t)
	appM := buildManager(t, appView, reg)
	libM := buildManager(t, libView, reg)

	appClasses := classListOf(appM)
	libClasses := classListOf(libM)

	score, err := ClassSimilarity(appClasses.Items[0], libClasses.Items[0], defaultThresholds())
	require.NoError(t, err)
	require.Less(t, score, 0.5)
}

func TestCHASimilarityPerfectMatchScoresOne(t *testing.T) {
	appView := fake.NewView()
	a1 := appView.AddClass("com/app/One", "app", 0)
	a1.AddMethod("run", "()V", false).SetTokens(repeatTokens("invoke-virtual", "com/app/Helper", 64)...)
	a2 := appView.AddClass("com/app/Two", "app", 0)
	a2.AddMethod("stop", "()V", false).SetTokens(repeatTokens("return-void", "", 64)...)

	libView := fake.NewView()
	l1 := libView.AddClass("com/lib/One", "lib", 0)
	l1.AddMethod("run", "()V", false).SetTokens(repeatTokens("invoke-virtual", "com/app/Helper", 64)...)
	l2 := libView.AddClass("com/lib/Two", "lib", 0)
	l2.AddMethod("stop", "()V", false).SetTokens(repeatTokens("return-void", "", 64)...)

	reg := defaultRegistryFor(t)
	appM := buildManager(t, appView, reg)
	libM := buildManager(t, libView, reg)

	score, err := CHASimilarity(appM.CHA, libM.CHA, defaultThresholds())
	require.NoError(t, err)
	require.Greater(t, score, 0.8)
}

func TestCHASimilarityEmptyLibraryScoresOne(t *testing.T) {
	appView := fake.NewView()
	appView.AddClass("com/app/One", "app", 0)

	libView := fake.NewView()

	reg := defaultRegistryFor(t)
	appM := buildManager(t, appView, reg)
	libM := buildManager(t, libView, reg)

	score, err := CHASimilarity(appM.CHA, libM.CHA, defaultThresholds())
	require.NoError(t, err)
	require.Equal(t, 1.0, score)
}

func TestCHASimilarityRejectsMismatchedTypes(t *testing.T) {
	_, err := CHASimilarity(&profile.PackageProfile{}, &profile.PackageProfile{}, defaultThresholds())
	require.Error(t, err)
}
