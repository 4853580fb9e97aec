package main

import (
	"github.com/matrixeditor/libfp/internal/apperr"
	"github.com/matrixeditor/libfp/internal/hierarchy"
)

// bundleLoader turns a bundle file on disk (an APK, JAR, AAR or HAR) into a
// hierarchy.View. internal/hierarchy treats the bytecode reader itself as a
// collaborator outside this repository's scope (see its package doc); this
// CLI ships the command surface that would consume one, wired to a stub
// that reports the missing collaborator clearly rather than panicking deep
// inside the pipeline.
type bundleLoader func(path string) (hierarchy.View, error)

// unimplementedLoader is the default bundleLoader: no bytecode reader for
// any bundle format is vendored here, grounded on internal/hierarchy's own
// "opaque producer" framing (spec.md Glossary "class-hierarchy view").
func unimplementedLoader(path string) (hierarchy.View, error) {
	return nil, apperr.New(apperr.ConfigError, "no bundle loader configured for %q: internal/hierarchy defines only the view interface, not a reader", path)
}
