// Package dataset implements the directory-layout conventions spec.md
// §4.12 prescribes for a benchmark run: where library/app bundles and
// their built profiles live, and how an app file name's variant prefix is
// parsed for grouping results.
package dataset

import (
	"path/filepath"
	"strings"
)

// Layout resolves paths under a dataset's base directory for a given
// profile target and extension, per spec.md §4.12:
//
//	baseDir/
//	  libs/[lib].{jar|aar|har|dex}
//	  apps/[app].apk
//	  libProfiles/<target>/[lib].<ext>
//	  appProfiles/<target>/[appShort]/[app].<ext>
type Layout struct {
	BaseDir string
	Target  string
	Ext     string
}

// New builds a Layout.
func New(baseDir, target, ext string) Layout {
	return Layout{BaseDir: baseDir, Target: target, Ext: ext}
}

func (l Layout) LibBundlePath(lib, bundleExt string) string {
	return filepath.Join(l.BaseDir, "libs", lib+"."+bundleExt)
}

func (l Layout) AppBundlePath(app string) string {
	return filepath.Join(l.BaseDir, "apps", app+".apk")
}

func (l Layout) LibProfilePath(lib string) string {
	return filepath.Join(l.BaseDir, "libProfiles", l.Target, lib+"."+l.Ext)
}

func (l Layout) AppProfilePath(appShort, app string) string {
	return filepath.Join(l.BaseDir, "appProfiles", l.Target, appShort, app+"."+l.Ext)
}

// KnownVariantPrefixes are the variant prefixes spec.md §4.12 names
// explicitly. They are tried in list order and the first match wins; none
// of them is a prefix of another, so the order does not change the result.
var KnownVariantPrefixes = []string{
	"allatori-strong-repackage-",
	"proguard-",
	"obfuscapk-",
}

// DefaultVariant is the variant name used for an app file carrying none of
// the known prefixes.
const DefaultVariant = "default"

// SplitVariant parses an app file's base name (without extension) into its
// variant prefix and the remaining short name, per spec.md §4.12 ("app
// type" in the Glossary).
func SplitVariant(appFileName string) (variant, shortName string) {
	base := strings.TrimSuffix(appFileName, filepath.Ext(appFileName))
	for _, prefix := range KnownVariantPrefixes {
		if strings.HasPrefix(base, prefix) {
			return strings.TrimSuffix(prefix, "-"), strings.TrimPrefix(base, prefix)
		}
	}
	return DefaultVariant, base
}
