// Package assemble resolves a config.ProfileDefinition's symbolic names
// through internal/integration into concrete collaborators — an IL
// factory, an optional normalizer, a strategy registry, and a threshold
// config — and wires a fresh profile.Manager with the four list
// extensions every profile kind needs, the same way cmd/libfp's
// predecessor would have hand-wired app.NewApp's collaborators from a
// config.AppConfig (spec.md §4.14 "integration table").
package assemble

import (
	"github.com/matrixeditor/libfp/internal/apperr"
	"github.com/matrixeditor/libfp/internal/builtin"
	"github.com/matrixeditor/libfp/internal/config"
	"github.com/matrixeditor/libfp/internal/integration"
	normalizerpkg "github.com/matrixeditor/libfp/internal/normalizer"
	"github.com/matrixeditor/libfp/internal/profile"
	"github.com/matrixeditor/libfp/internal/profileio"
	"github.com/matrixeditor/libfp/internal/strategy"
)

// Bundle is everything a profile definition resolves to: the collaborators
// a pipeline.Executor and a strategy.Registry consumer both need.
type Bundle struct {
	ILFactory  profile.ILFactory
	Normalizer profile.Normalizer
	Registry   *strategy.Registry
	Thresholds *config.ThresholdConfig
	Def        config.ProfileDefinition
}

// Resolve looks up def's ILFactoryKind, NormalizerKind and IntegrationKind
// in the integration registries and assembles a Bundle. The "default"
// integration kind is special-cased per internal/builtin's documented
// two-step pattern: it is built directly with the already-resolved
// normalizer rather than through integration.Strategies, since a
// normalizer is not representable as a string-keyed extension arg.
func Resolve(def config.ProfileDefinition) (*Bundle, error) {
	rawFactory, err := integration.ILFactories.ResolveWithArgs(def.ILFactoryKind, def.ExtensionArgs)
	if err != nil {
		return nil, err
	}
	ilFactory, ok := rawFactory.(profile.ILFactory)
	if !ok {
		return nil, apperr.New(apperr.ConfigError, "ilFactoryKind %q does not resolve to a profile.ILFactory", def.ILFactoryKind)
	}

	var normalizer profile.Normalizer
	if def.NormalizerKind != "" {
		rawNormalizer, err := integration.Normalizers.ResolveWithArgs(def.NormalizerKind, def.ExtensionArgs)
		if err != nil {
			return nil, err
		}
		normalizer, ok = rawNormalizer.(profile.Normalizer)
		if !ok {
			return nil, apperr.New(apperr.ConfigError, "normalizerKind %q does not resolve to a profile.Normalizer", def.NormalizerKind)
		}
		// Bind the normalizer's type resolver to the IL factory built
		// alongside it, so instruction-stream normalization (spec.md §4.5)
		// fuzzes application-scope type references the same way the IL
		// factory fuzzes descriptor parameters/fields.
		if concrete, ok := normalizer.(*normalizerpkg.Normalizer); ok {
			if resolver, ok := ilFactory.(normalizerpkg.TypeResolver); ok {
				normalizer = concrete.WithResolver(resolver)
			}
		}
	}

	registry, err := resolveRegistry(def, normalizer)
	if err != nil {
		return nil, err
	}

	thresholds, err := config.ThresholdsFromNames(def.Thresholds)
	if err != nil {
		return nil, err
	}

	return &Bundle{
		ILFactory:  ilFactory,
		Normalizer: normalizer,
		Registry:   registry,
		Thresholds: thresholds,
		Def:        def,
	}, nil
}

func resolveRegistry(def config.ProfileDefinition, normalizer profile.Normalizer) (*strategy.Registry, error) {
	if def.IntegrationKind == "default" {
		return builtin.NewDefaultRegistry(normalizer, def.ExtensionArgs), nil
	}
	raw, err := integration.Strategies.ResolveWithArgs(def.IntegrationKind, def.ExtensionArgs)
	if err != nil {
		return nil, err
	}
	registry, ok := raw.(*strategy.Registry)
	if !ok {
		return nil, apperr.New(apperr.ConfigError, "integrationKind %q does not resolve to a *strategy.Registry", def.IntegrationKind)
	}
	return registry, nil
}

// NewManager builds an empty manager wired with the four list extensions
// every profile kind needs, all RetentionRuntime, in the fixed order
// profileio.Write/Read rely on: packages, classes, methods, fields.
func (b *Bundle) NewManager(isAppProfile bool) *profile.Manager {
	m := profile.NewManager(b.ILFactory, b.Normalizer, isAppProfile)
	RegisterDefaultExtensions(m)
	return m
}

// RegisterDefaultExtensions registers the profile-info header and the four
// RetentionRuntime list extensions a built profile always carries, in
// write/read order.
func RegisterDefaultExtensions(m *profile.Manager) {
	m.Register(profile.NewProfileInfoExtension(profile.RetentionRuntime, profileInfoVersion))
	m.Register(profile.NewPackageListExtension(m, profile.RetentionRuntime))
	m.Register(profile.NewClassListExtension(m, profile.NewBlueprint(profile.KindClass), profile.RetentionRuntime))
	m.Register(profile.NewMethodListExtension(m, profile.NewBlueprint(profile.KindMethod), profile.RetentionRuntime))
	m.Register(profile.NewFieldListExtension(m, profile.NewBlueprint(profile.KindField), profile.RetentionRuntime))
}

// profileInfoVersion is the profile-info header's own format version,
// independent of profileio.FormatVersion (the container format).
const profileInfoVersion = 1

// SetProfileInfo fills in the profile-info header's identity metadata:
// whether m is an app profile and, for a library, its name/version (spec.md
// §10 "version whitelist enforcement" reads these back via
// benchmark.Library.Version).
func SetProfileInfo(m *profile.Manager, name, version string) {
	ext, ok := m.Extension("profile-info")
	if !ok {
		return
	}
	info := ext.(*profile.ProfileInfoExtension)
	if m.IsAppProfile {
		info.Flags |= profile.FlagIsAppProfile
	}
	if name != "" {
		info.Set("name", name)
	}
	if version != "" {
		info.Set("version", version)
	}
}

// ProfileInfoOf reads back the profile-info header's name/version metadata
// from a loaded manager, or ("", "") if none was recorded.
func ProfileInfoOf(m *profile.Manager) (name, version string) {
	ext, ok := m.Extension("profile-info")
	if !ok {
		return "", ""
	}
	info := ext.(*profile.ProfileInfoExtension)
	return info.Constants["name"], info.Constants["version"]
}

// provider implements profileio.Provider against a Bundle, so Read
// reconstructs a manager wired with the same ILFactory/Normalizer and the
// same fixed extension order Write serialized.
type provider struct {
	bundle       *Bundle
	isAppProfile bool
}

// Provider returns a profileio.Provider that reconstructs managers
// consistent with b's resolved collaborators.
func (b *Bundle) Provider(isAppProfile bool) profileio.Provider {
	return provider{bundle: b, isAppProfile: isAppProfile}
}

func (p provider) NewManager() *profile.Manager {
	return profile.NewManager(p.bundle.ILFactory, p.bundle.Normalizer, p.isAppProfile)
}

func (p provider) Extensions(m *profile.Manager) []profile.Extension {
	RegisterDefaultExtensions(m)
	return m.Extensions()
}
