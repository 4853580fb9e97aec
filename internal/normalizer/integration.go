package normalizer

import "github.com/matrixeditor/libfp/internal/integration"

// resolverArgKey names an args key for a resolver, but the constructors
// registered below do not read it: they always build with a nil
// TypeResolver (a TypeResolver isn't representable as a config string), and
// a resolver is attached afterwards with WithResolver.
const resolverArgKey = "resolver"

func init() {
	integration.Normalizers.RegisterWithArgs(string(KindJava), func(args map[string]string) interface{} {
		return New(KindJava, nil)
	})
	integration.Normalizers.RegisterWithArgs(string(KindDalvik), func(args map[string]string) interface{} {
		return New(KindDalvik, nil)
	})
}

// WithResolver returns a copy of n bound to resolver, for callers that
// resolved a Normalizer via the integration table (which cannot pass a
// TypeResolver through a map[string]string) and now need to attach the
// concrete ilfactory.Factory built alongside it.
func (n *Normalizer) WithResolver(resolver TypeResolver) *Normalizer {
	return &Normalizer{kind: n.kind, resolver: resolver}
}
