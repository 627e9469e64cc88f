// Package model defines the data structures for orphan-file analysis.
package model

// Path represents a file system path.
type Path string

// Kind classifies a source file from filename and path conventions.
type Kind string

const (
	// KindBackup is a file carrying a backup suffix (.old, .bak, ...).
	KindBackup Kind = "backup"
	// KindTest is a test or spec file.
	KindTest Kind = "test"
	// KindAPIRoute is a server route handler, reachable without imports.
	KindAPIRoute Kind = "api-route"
	// KindPage is a page or layout file, reachable via routing.
	KindPage Kind = "page"
	// KindComponent is a UI component file.
	KindComponent Kind = "component"
	// KindTypeDefs is a type-definitions file.
	KindTypeDefs Kind = "types"
	// KindModule is any other source module.
	KindModule Kind = "module"
)

// SourceFile is one discovered file plus the derived facts the classifier
// consumes. Records are built once per run and never mutated afterwards;
// re-running the analysis rebuilds the whole set.
type SourceFile struct {
	// FullPath is the absolute path, the file's identity within a run.
	FullPath Path
	// ShortPath is the path relative to the scan root, used in output.
	ShortPath Path
	// SizeBytes is the raw content length.
	SizeBytes int64
	Kind      Kind

	HasDefaultExport bool
	HasNamedExport   bool
	HasTodoMarker    bool
	// NearEmpty is true when the trimmed content is below a small byte
	// threshold.
	NearEmpty bool
}
