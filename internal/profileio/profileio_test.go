package profileio

import (
	"bytes"
	"testing"

	"github.com/matrixeditor/libfp/internal/profile"
	"github.com/stretchr/testify/require"
)

type testProvider struct {
	bp *profile.Blueprint
}

func newTestProvider() *testProvider {
	bp := profile.NewBlueprint(profile.KindClass)
	bp.Declare("weight", func() interface{} { return float64(0) }, profile.WeightCodec())
	return &testProvider{bp: bp}
}

func (p *testProvider) NewManager() *profile.Manager {
	return profile.NewManager(nil, nil, true)
}

func (p *testProvider) Extensions(m *profile.Manager) []profile.Extension {
	return []profile.Extension{
		profile.NewProfileInfoExtension(profile.RetentionRuntime, 1),
		profile.NewClassListExtension(m, p.bp, profile.RetentionRuntime),
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	provider := newTestProvider()
	m := provider.NewManager()

	info := profile.NewProfileInfoExtension(profile.RetentionRuntime, 1)
	info.Set("name", "okhttp")
	m.Register(info)

	classes := profile.NewClassListExtension(m, provider.bp, profile.RetentionRuntime)
	cp, _ := classes.Add(m.Pool.Add("Lcom/example/Foo;"))
	cp.Put("weight", 0.42)
	m.Register(classes)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, m, 0))

	loaded, err := Read(&buf, provider)
	require.NoError(t, err)

	loadedInfo, ok := loaded.Extension("profile-info")
	require.True(t, ok)
	require.Equal(t, "okhttp", loadedInfo.(*profile.ProfileInfoExtension).Constants["name"])

	loadedClasses, ok := loaded.Extension("classes")
	require.True(t, ok)
	cl := loadedClasses.(*profile.ClassListExtension)
	require.Len(t, cl.Items, 1)
	require.Equal(t, "Lcom/example/Foo;", loaded.Pool.Get(cl.Items[0].Descriptor))
	w, ok := cl.Items[0].Get("weight")
	require.True(t, ok)
	require.InDelta(t, 0.42, w.(float64), 1e-9)
}

func TestReadRejectsBadMagic(t *testing.T) {
	buf := bytes.NewBufferString("XXXX")
	_, err := Read(buf, newTestProvider())
	require.Error(t, err)
}

func TestReadRejectsExtensionNameMismatch(t *testing.T) {
	provider := newTestProvider()
	m := provider.NewManager()

	// Register extensions in the wrong order relative to what Extensions()
	// (and thus Read) expects.
	classes := profile.NewClassListExtension(m, provider.bp, profile.RetentionRuntime)
	m.Register(classes)
	info := profile.NewProfileInfoExtension(profile.RetentionRuntime, 1)
	info.Set("k", "v")
	m.Register(info)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, m, 0))

	_, err := Read(&buf, provider)
	require.Error(t, err)
}
