package assemble

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixeditor/libfp/internal/config"
	"github.com/matrixeditor/libfp/internal/hierarchy"
	"github.com/matrixeditor/libfp/internal/hierarchy/fake"
	"github.com/matrixeditor/libfp/internal/profile"
	"github.com/matrixeditor/libfp/internal/profileio"

	_ "github.com/matrixeditor/libfp/internal/builtin"
)

func TestResolveDefaultProfileDefinition(t *testing.T) {
	b, err := Resolve(config.DefaultProfileDefinition())
	require.NoError(t, err)
	require.NotNil(t, b.ILFactory)
	require.NotNil(t, b.Registry)
	require.Equal(t, 0.5, b.Thresholds.ThresholdFor(profile.KindClass))
}

func TestResolveRejectsUnknownILFactoryKind(t *testing.T) {
	def := config.DefaultProfileDefinition()
	def.ILFactoryKind = "does-not-exist"
	_, err := Resolve(def)
	require.Error(t, err)
}

func TestResolveRejectsUnknownThresholdKind(t *testing.T) {
	def := config.DefaultProfileDefinition()
	def.Thresholds = map[string]float64{"NotAKind": 0.9}
	_, err := Resolve(def)
	require.Error(t, err)
}

func TestNewManagerCarriesProfileInfoRoundTrip(t *testing.T) {
	b, err := Resolve(config.DefaultProfileDefinition())
	require.NoError(t, err)

	m := b.NewManager(false)
	SetProfileInfo(m, "okhttp", "4.9.0")

	var buf bytes.Buffer
	require.NoError(t, profileio.Write(&buf, m, 0))

	read, err := profileio.Read(&buf, b.Provider(false))
	require.NoError(t, err)

	name, version := ProfileInfoOf(read)
	require.Equal(t, "okhttp", name)
	require.Equal(t, "4.9.0", version)
}

func TestResolveWiresNormalizerResolverToILFactory(t *testing.T) {
	def := config.DefaultProfileDefinition()
	def.NormalizerKind = "java-stack"
	def.ExtensionArgs = map[string]string{"appLoader": "app"}
	b, err := Resolve(def)
	require.NoError(t, err)
	require.NotNil(t, b.Normalizer)

	v := fake.NewView()
	v.AddClass("com/example/Foo", "app", 0).AddField("x", "I", false)
	outer := v.AddClass("com/example/Outer", "app", 0)
	method := outer.AddMethod("m", "()V", false)
	method.SetTokens(hierarchy.Token{Opcode: "new", TypeRef: "Lcom/example/Foo;"})

	binder, ok := b.ILFactory.(interface{ BindView(hierarchy.View) })
	require.True(t, ok)
	binder.BindView(v)

	tokens := b.Normalizer.Normalize(outer, method)
	require.Equal(t, []string{"new X"}, tokens)
}

func TestNewManagerMarksAppProfileFlag(t *testing.T) {
	b, err := Resolve(config.DefaultProfileDefinition())
	require.NoError(t, err)

	m := b.NewManager(true)
	SetProfileInfo(m, "", "")
	require.True(t, m.IsAppProfile)

	ext, ok := m.Extension("profile-info")
	require.True(t, ok)
	require.True(t, ext.(*profile.ProfileInfoExtension).Has(profile.FlagIsAppProfile))
}
