package integration

import (
	"testing"

	"github.com/matrixeditor/libfp/internal/apperr"
	_ "github.com/matrixeditor/libfp/internal/ilfactory"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndResolve(t *testing.T) {
	r := newRegistry()
	r.Register("foo", func() interface{} { return 42 })

	v, err := r.Resolve("foo")
	require.NoError(t, err)
	require.Equal(t, 42, v)
}

func TestResolveUnknownNameIsConfigError(t *testing.T) {
	r := newRegistry()
	_, err := r.Resolve("nope")
	require.Error(t, err)
	require.True(t, apperr.HasKind(err, apperr.ConfigError))
}

func TestRegisterWithArgsRoundTrip(t *testing.T) {
	r := newRegistry()
	r.RegisterWithArgs("greet", func(args map[string]string) interface{} {
		return "hello " + args["name"]
	})

	v, err := r.ResolveWithArgs("greet", map[string]string{"name": "world"})
	require.NoError(t, err)
	require.Equal(t, "hello world", v)

	_, err = r.ResolveWithArgs("missing", nil)
	require.Error(t, err)
	require.True(t, apperr.HasKind(err, apperr.ConfigError))
}

func TestRegisterTwiceLaterWins(t *testing.T) {
	r := newRegistry()
	r.Register("k", func() interface{} { return 1 })
	r.Register("k", func() interface{} { return 2 })

	v, err := r.Resolve("k")
	require.NoError(t, err)
	require.Equal(t, 2, v)
}

func TestNamesSorted(t *testing.T) {
	r := newRegistry()
	r.Register("zebra", func() interface{} { return nil })
	r.Register("apple", func() interface{} { return nil })
	r.RegisterWithArgs("mango", func(map[string]string) interface{} { return nil })

	require.Equal(t, []string{"apple", "mango", "zebra"}, r.Names())
}

func TestILFactoriesRegistrationIsPopulated(t *testing.T) {
	// internal/ilfactory's init() should have registered its three variants
	// by the time any test in the binary runs, proving the symbolic-name
	// wiring actually reaches this table rather than just compiling.
	names := ILFactories.Names()
	require.Contains(t, names, "basic-fuzzy")
	require.Contains(t, names, "unique-fuzzy")
	require.Contains(t, names, "hierarchy-fuzzy")
}
