package domain

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode"

	m "driftwood.dev/pkg/driftwood/internal/model"
)

// nearEmptyByteThreshold is the trimmed-content size below which a file
// counts as empty or near-empty.
const nearEmptyByteThreshold = 64

var (
	reDefaultExport = regexp.MustCompile(`export\s+default\b`)
	reNamedExport   = regexp.MustCompile(`export\s+(?:const|let|var|function|async\s+function|class|abstract\s+class|enum|interface|type)\b|export\s*\{`)
	reTodoMarker    = regexp.MustCompile(`TODO|FIXME`)
)

// backupSuffixes are recognized backup conventions on the filename stem.
var backupSuffixes = []string{".old", ".bak", ".backup", "-old", "_old", ".orig"}

// disposableMarkers are filename words signaling temporary or throwaway
// code.
var disposableMarkers = []string{"temp", "tmp", "scratch", "draft", "wip", "deprecated", "unused"}

// InspectSource derives a SourceFile record from a file's path and raw
// content. Construction happens once per run; the record is immutable
// afterwards.
func InspectSource(fullPath, shortPath m.Path, content []byte) m.SourceFile {
	return m.SourceFile{
		FullPath:         fullPath,
		ShortPath:        shortPath,
		SizeBytes:        int64(len(content)),
		Kind:             detectKind(shortPath),
		HasDefaultExport: reDefaultExport.Match(content),
		HasNamedExport:   reNamedExport.Match(content),
		HasTodoMarker:    reTodoMarker.Match(content),
		NearEmpty:        len(bytes.TrimSpace(content)) < nearEmptyByteThreshold,
	}
}

// detectKind classifies a file from filename and path conventions. Checks
// run most-specific first so a backup of a component still counts as a
// backup.
func detectKind(shortPath m.Path) m.Kind {
	slash := filepath.ToSlash(string(shortPath))
	base := filepath.Base(slash)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	if hasBackupSuffix(stem) {
		return m.KindBackup
	}

	if isTestPath(slash, stem) {
		return m.KindTest
	}

	if isAPIRoutePath(slash, stem) {
		return m.KindAPIRoute
	}

	if stem == "page" || stem == "layout" || strings.Contains(slash, "/pages/") || strings.HasPrefix(slash, "pages/") {
		return m.KindPage
	}

	if isTypeDefsPath(slash, stem) {
		return m.KindTypeDefs
	}

	if isComponentPath(slash, base, stem) {
		return m.KindComponent
	}

	return m.KindModule
}

func hasBackupSuffix(stem string) bool {
	lower := strings.ToLower(stem)
	for _, suffix := range backupSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}

	return false
}

func isTestPath(slash, stem string) bool {
	return strings.Contains(stem, ".test") ||
		strings.Contains(stem, ".spec") ||
		strings.Contains(slash, "__tests__/")
}

func isAPIRoutePath(slash, stem string) bool {
	if strings.Contains(slash, "/api/") || strings.HasPrefix(slash, "api/") {
		return true
	}

	// Next.js app-router convention: app/**/route.ts is a handler.
	return stem == "route" && (strings.Contains(slash, "/app/") || strings.HasPrefix(slash, "app/"))
}

func isTypeDefsPath(slash, stem string) bool {
	return strings.HasSuffix(stem, ".d") ||
		stem == "types" ||
		strings.Contains(slash, "/types/") ||
		strings.HasPrefix(slash, "types/")
}

func isComponentPath(slash, base, stem string) bool {
	ext := filepath.Ext(base)
	if ext == ".tsx" || ext == ".jsx" {
		return true
	}

	if strings.Contains(slash, "/components/") || strings.HasPrefix(slash, "components/") {
		return true
	}

	for _, r := range stem {
		return unicode.IsUpper(r)
	}

	return false
}

// Classifier finds orphan candidates in a built graph and rates each for
// deletion safety.
type Classifier interface {
	// Classify emits exactly one candidate per zero-inbound file, sorted
	// safest first, path ascending within a level.
	Classify(graph *m.ReferenceGraph) []m.OrphanCandidate
}

type classifier struct{}

// NewClassifier constructs the rule-cascade Classifier.
func NewClassifier() Classifier {
	return &classifier{}
}

// Classify implements Classifier.
func (c *classifier) Classify(graph *m.ReferenceGraph) []m.OrphanCandidate {
	var candidates []m.OrphanCandidate

	for _, path := range graph.SortedPaths() {
		if graph.IncomingCount(path) > 0 {
			continue
		}

		file := graph.Files[path]
		level, reason := rateSafety(file)

		justifications := []string{reason}
		justifications = append(justifications,
			fmt.Sprintf("exports: default=%t named=%t", file.HasDefaultExport, file.HasNamedExport),
			fmt.Sprintf("imports %d project file(s)", graph.Outgoing[path].Len()),
		)

		imports := make([]m.Path, 0, graph.Outgoing[path].Len())
		for _, target := range graph.Outgoing[path].Sorted() {
			imports = append(imports, graph.Files[target].ShortPath)
		}

		candidates = append(candidates, m.OrphanCandidate{
			Path:           file.ShortPath,
			Safety:         level,
			Kind:           file.Kind,
			SizeBytes:      file.SizeBytes,
			Justifications: justifications,
			Imports:        imports,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Safety != candidates[j].Safety {
			return candidates[i].Safety > candidates[j].Safety
		}

		return candidates[i].Path < candidates[j].Path
	})

	return candidates
}

// rateSafety is the ordered rule cascade. The first matching rule wins;
// later rules are never consulted once one fires.
func rateSafety(file m.SourceFile) (m.SafetyLevel, string) {
	stem := fileStem(file.ShortPath)

	// Rule 1: backups and empty files.
	if file.Kind == m.KindBackup {
		return m.AbsolutelySafe, "filename carries a backup suffix"
	}

	if file.NearEmpty {
		return m.AbsolutelySafe, fmt.Sprintf("file is empty or near-empty (%d bytes)", file.SizeBytes)
	}

	// Rule 2: tests and disposable names.
	if file.Kind == m.KindTest {
		if !file.HasDefaultExport {
			return m.VerySafe, "test file with no default export"
		}

		return m.VerySafe, "test file"
	}

	if marker, ok := disposableMarker(stem); ok {
		return m.VerySafe, fmt.Sprintf("filename contains disposable marker %q", marker)
	}

	// Rule 3: exportless or abandoned modules.
	if file.Kind == m.KindModule && !file.HasDefaultExport && !file.HasNamedExport {
		return m.ProbablySafe, "module with no exports"
	}

	if file.HasTodoMarker && !file.HasDefaultExport {
		return m.ProbablySafe, "contains TODO/FIXME markers and no default export"
	}

	// Rule 4: files reachable outside the static import graph.
	switch file.Kind {
	case m.KindAPIRoute:
		return m.Risky, "API route may be invoked externally"
	case m.KindPage:
		return m.Risky, "page/layout is reachable via routing"
	case m.KindTypeDefs:
		return m.Risky, "type definitions may be consumed ambiently"
	case m.KindComponent:
		if file.HasDefaultExport {
			return m.Risky, "component with default export may be loaded lazily"
		}
	}

	// Rule 5: conservative default.
	return m.Keep, "no deletion-safety rule matched"
}

func disposableMarker(stem string) (string, bool) {
	lower := strings.ToLower(stem)
	for _, marker := range disposableMarkers {
		if strings.Contains(lower, marker) {
			return marker, true
		}
	}

	return "", false
}

func fileStem(path m.Path) string {
	base := filepath.Base(string(path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}
