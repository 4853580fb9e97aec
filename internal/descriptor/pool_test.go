package descriptor

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPoolIdempotence(t *testing.T) {
	p := New()
	i1 := p.Add("Lcom/example/Foo;")
	i2 := p.Add("Lcom/example/Foo;")
	require.Equal(t, i1, i2)
	require.Equal(t, 1, p.Size())
	require.Equal(t, uint64(2), p.RefCount(i1))

	i3 := p.Add("Lcom/example/Bar;")
	require.NotEqual(t, i1, i3)
	require.Equal(t, 2, p.Size())
}

func TestPoolRoundTrip(t *testing.T) {
	p := New()
	p.Add("X")
	p.Add("Y")
	p.Add("X")

	var buf bytes.Buffer
	require.NoError(t, p.WriteTo(&buf))

	loaded, err := Load(&buf)
	require.NoError(t, err)
	require.Equal(t, p.Size(), loaded.Size())
	require.Equal(t, "X", loaded.Get(0))
	require.Equal(t, "Y", loaded.Get(1))
	require.Equal(t, uint64(2), loaded.RefCount(0))
}
