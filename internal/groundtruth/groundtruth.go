// Package groundtruth parses the ground-truth whitelist file (spec.md
// §4.11): a plain-text mapping from application short-name to the set of
// library identifiers it is expected to embed, plus a per-library version
// whitelist.
package groundtruth

import (
	"bufio"
	"io"
	"strings"

	"github.com/matrixeditor/libfp/internal/apperr"
)

// Store is the parsed ground-truth table.
type Store struct {
	libs     map[string]map[string]bool
	versions map[string]map[string]map[string]bool // app -> lib -> version set
}

// Load parses r per spec.md §4.11's line format:
//
//	<appShortName> ; <libId>[@<version>[,<version>...]]
//
// Blank lines and lines starting with '#' (after trimming leading
// whitespace) are ignored. The same app/lib pair may appear on more than
// one line; entries accumulate rather than overwrite.
func Load(r io.Reader) (*Store, error) {
	s := &Store{
		libs:     make(map[string]map[string]bool),
		versions: make(map[string]map[string]map[string]bool),
	}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := s.parseLine(line); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, apperr.New(apperr.IO, "read ground-truth file: %v", err)
	}
	return s, nil
}

func (s *Store) parseLine(line string) error {
	parts := strings.SplitN(line, ";", 2)
	if len(parts) != 2 {
		return apperr.New(apperr.ConfigError, "malformed ground-truth line %q: missing ';'", line)
	}
	app := strings.TrimSpace(parts[0])
	libSpec := strings.TrimSpace(parts[1])
	if app == "" || libSpec == "" {
		return apperr.New(apperr.ConfigError, "malformed ground-truth line %q: empty app or lib", line)
	}

	lib, versions := splitLibSpec(libSpec)

	if s.libs[app] == nil {
		s.libs[app] = make(map[string]bool)
	}
	s.libs[app][lib] = true

	if len(versions) == 0 {
		return nil
	}
	if s.versions[app] == nil {
		s.versions[app] = make(map[string]map[string]bool)
	}
	if s.versions[app][lib] == nil {
		s.versions[app][lib] = make(map[string]bool)
	}
	for _, v := range versions {
		s.versions[app][lib][v] = true
	}
	return nil
}

func splitLibSpec(spec string) (lib string, versions []string) {
	at := strings.IndexByte(spec, '@')
	if at < 0 {
		return strings.TrimSpace(spec), nil
	}
	lib = strings.TrimSpace(spec[:at])
	for _, v := range strings.Split(spec[at+1:], ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			versions = append(versions, v)
		}
	}
	return lib, versions
}

// GetLibraries returns the library id set for app, or UnknownApp if app
// never appeared in the ground-truth file.
func (s *Store) GetLibraries(app string) (map[string]bool, error) {
	libs, ok := s.libs[app]
	if !ok {
		return nil, apperr.New(apperr.UnknownApp, "no ground-truth entry for app %q", app)
	}
	return libs, nil
}

// GetVersionWhitelist returns, for app, the per-library set of acceptable
// versions. Libraries with no explicit version constraint are absent from
// the returned map (spec.md §4.11 / §10: absence means "any version
// accepted"). UnknownApp if app never appeared in the ground-truth file.
func (s *Store) GetVersionWhitelist(app string) (map[string]map[string]bool, error) {
	if _, ok := s.libs[app]; !ok {
		return nil, apperr.New(apperr.UnknownApp, "no ground-truth entry for app %q", app)
	}
	return s.versions[app], nil
}

// IsWhitelisted reports whether lib at the given version satisfies app's
// whitelist: true when lib carries no version constraint at all, or when
// version is explicitly listed.
func (s *Store) IsWhitelisted(app, lib, version string) bool {
	perApp := s.versions[app]
	if perApp == nil {
		return true
	}
	versions, ok := perApp[lib]
	if !ok {
		return true
	}
	return versions[version]
}
