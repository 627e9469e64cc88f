package domain

import (
	"path/filepath"
	"strings"

	m "driftwood.dev/pkg/driftwood/internal/model"
)

// Resolver maps raw specifiers to files in the discovered set. Resolution is
// a pure lookup against that set; the filesystem is never probed, so a
// specifier pointing at an undiscovered file is simply unresolved.
type Resolver interface {
	// Resolve returns the target path for a specifier referenced from the
	// given file, or false when the specifier is external or unresolvable.
	Resolve(specifier string, from m.Path) (m.Path, bool)
}

type resolver struct {
	root       m.Path
	known      m.PathSet
	extensions []string
}

// NewResolver builds a Resolver over the discovered path set. The extension
// order decides which of several same-named candidates wins and must stay
// stable between runs.
func NewResolver(root m.Path, known m.PathSet, extensions []string) Resolver {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	return &resolver{root: root, known: known, extensions: extensions}
}

// Resolve implements the three-step resolution order: exact path, path plus
// extension, directory index file. First match wins.
func (r *resolver) Resolve(specifier string, from m.Path) (m.Path, bool) {
	if !IsInternalSpecifier(specifier) {
		return "", false
	}

	base := r.basePath(specifier, from)

	if r.known.Has(base) {
		return base, true
	}

	for _, ext := range r.extensions {
		candidate := m.Path(string(base) + ext)
		if r.known.Has(candidate) {
			return candidate, true
		}
	}

	for _, ext := range r.extensions {
		candidate := m.Path(filepath.Join(string(base), "index"+ext))
		if r.known.Has(candidate) {
			return candidate, true
		}
	}

	return "", false
}

// basePath anchors the specifier: "@/" and "/" are root-rooted, everything
// else resolves against the referencing file's directory.
func (r *resolver) basePath(specifier string, from m.Path) m.Path {
	switch {
	case strings.HasPrefix(specifier, "@/"):
		return m.Path(filepath.Join(string(r.root), specifier[2:]))
	case strings.HasPrefix(specifier, "/"):
		return m.Path(filepath.Join(string(r.root), specifier[1:]))
	default:
		return m.Path(filepath.Join(filepath.Dir(string(from)), specifier))
	}
}
