// Package domain implements the orphan-file analysis pipeline: discovery,
// import extraction, module resolution, graph construction, safety
// classification, and cascade simulation.
package domain

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/denormal/go-gitignore"

	"driftwood.dev/pkg/driftwood/internal/adapter"
	m "driftwood.dev/pkg/driftwood/internal/model"
)

// ErrRootNotFound is returned when the scan root does not exist. This is the
// only fatal condition in normal operation.
var ErrRootNotFound = errors.New("scan root does not exist")

// DefaultExtensions is the source-extension list in resolution priority
// order. The order is a documented policy: when several same-named files
// exist, the earliest extension wins, every run.
var DefaultExtensions = []string{".ts", ".tsx", ".js", ".jsx"}

// DefaultDenyDirs are directory names never descended into.
var DefaultDenyDirs = []string{
	"node_modules", ".git", ".next", "dist", "build", "out", "coverage", "vendor",
}

// DiscoverArgs configures one discovery pass.
type DiscoverArgs struct {
	Root m.Path
	// Extensions to yield, also the resolver's priority order.
	Extensions []string
	// DenyDirs are directory names excluded wholesale.
	DenyDirs []string
	// ExcludeGlobs are doublestar patterns matched against root-relative
	// paths.
	ExcludeGlobs []string
	// UseGitignore applies the root .gitignore when present.
	UseGitignore bool
}

// Discovery is the immutable result of a discovery pass.
type Discovery struct {
	Root m.Path
	// Paths holds each discovered file exactly once, in walk order.
	Paths []m.Path
	// Known is the same content as Paths in set form, for resolution
	// lookups.
	Known m.PathSet
	// Skips records subtrees and files dropped due to read failures.
	Skips []m.SkipNote
}

// Discoverer enumerates candidate source files under a root.
type Discoverer interface {
	Discover(args DiscoverArgs) (*Discovery, error)
}

type discoverer struct {
	fs adapter.SourceFSAdapter
}

// NewDiscoverer constructs a Discoverer backed by the given filesystem
// adapter.
func NewDiscoverer(fs adapter.SourceFSAdapter) Discoverer {
	return &discoverer{fs: fs}
}

// Discover walks the root and yields source files, applying the directory
// denylist, exclude globs, and .gitignore rules. Read failures are logged
// and recorded; only a missing root is fatal.
func (d *discoverer) Discover(args DiscoverArgs) (*Discovery, error) {
	root, err := d.fs.AbsPath(args.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	info, err := d.fs.FileInfo(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrRootNotFound, root)
	}

	extensions := args.Extensions
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	denyDirs := args.DenyDirs
	if denyDirs == nil {
		denyDirs = DefaultDenyDirs
	}

	ignore := d.loadGitignore(root, args.UseGitignore)

	result := &Discovery{
		Root:  root,
		Known: m.NewPathSet(),
	}

	walkErr := d.fs.Walk(root, true, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			result.Skips = append(result.Skips, m.SkipNote{Path: path, Reason: err.Error()})
			slog.Warn("skipping unreadable path", "path", path, "error", err)

			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		rel := relSlash(root, path)

		if info.IsDir() {
			if path == string(root) {
				return nil
			}

			if isDeniedDir(info.Name(), denyDirs) {
				return filepath.SkipDir
			}

			if ignore != nil && ignoredBy(ignore, rel, true) {
				return filepath.SkipDir
			}

			return nil
		}

		if !hasExtension(path, extensions) {
			return nil
		}

		if ignore != nil && ignoredBy(ignore, rel, false) {
			return nil
		}

		if matchesAnyGlob(rel, args.ExcludeGlobs) {
			return nil
		}

		result.Paths = append(result.Paths, m.Path(path))
		result.Known.Add(m.Path(path))

		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk %s: %w", root, walkErr)
	}

	slog.Debug("discovery complete", "root", root, "files", len(result.Paths), "skipped", len(result.Skips))

	return result, nil
}

// loadGitignore compiles the root .gitignore when requested. A missing or
// unreadable file disables gitignore filtering silently.
func (d *discoverer) loadGitignore(root m.Path, enabled bool) gitignore.GitIgnore {
	if !enabled {
		return nil
	}

	content, err := d.fs.ReadFile(d.fs.JoinPath(string(root), ".gitignore"))
	if err != nil {
		return nil
	}

	return gitignore.New(bytes.NewReader(content), string(root), nil)
}

func ignoredBy(ignore gitignore.GitIgnore, rel string, isDir bool) bool {
	match := ignore.Relative(rel, isDir)
	return match != nil && match.Ignore()
}

// isDeniedDir matches directory names against the denylist by exact name.
func isDeniedDir(name string, denyDirs []string) bool {
	for _, deny := range denyDirs {
		if name == deny {
			return true
		}
	}

	return false
}

func hasExtension(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}

	// .d.ts files carry a double extension; filepath.Ext reports ".ts",
	// which the loop above already accepts.
	return false
}

func matchesAnyGlob(rel string, globs []string) bool {
	for _, glob := range globs {
		ok, err := doublestar.Match(glob, rel)
		if err != nil {
			slog.Warn("invalid exclude pattern", "pattern", glob, "error", err)
			continue
		}

		if ok {
			return true
		}
	}

	return false
}

func relSlash(root m.Path, path string) string {
	rel, err := filepath.Rel(string(root), path)
	if err != nil {
		rel = path
	}

	return filepath.ToSlash(rel)
}
