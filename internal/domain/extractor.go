package domain

import (
	"regexp"
	"strings"
)

// Specifier extraction is purely textual. The patterns may over- or
// under-match in pathological cases (import-shaped strings inside literals,
// specifiers built at runtime); that is an accepted precision/recall
// trade-off for a batch tool, not a defect.
var (
	// Static imports and re-exports with bound names:
	//   import foo from './a'
	//   import * as ns from './a'
	//   import foo, { a, b } from './a'
	//   import type { T } from './a'
	//   export { a } from './a'
	//   export * from './a'
	reImportFrom = regexp.MustCompile(`(?:import|export)\s+(?:type\s+)?(?:[\w$]+|\*(?:\s+as\s+[\w$]+)?)?\s*,?\s*(?:\{[^}]*\})?\s*from\s*['"]([^'"]+)['"]`)

	// Side-effect imports: import './setup'
	reImportBare = regexp.MustCompile(`import\s*['"]([^'"]+)['"]`)

	// Dynamic imports: import('./a')
	reImportDynamic = regexp.MustCompile(`import\s*\(\s*['"]([^'"]+)['"]\s*\)`)

	// Legacy synchronous requires: require('./a')
	reRequire = regexp.MustCompile(`\brequire\s*\(\s*['"]([^'"]+)['"]\s*\)`)
)

var specifierPatterns = []*regexp.Regexp{
	reImportFrom,
	reImportBare,
	reImportDynamic,
	reRequire,
}

// Extractor pulls module specifiers out of source text.
type Extractor interface {
	// Extract returns the distinct internal specifiers referenced by the
	// content, in first-seen order. Bare package specifiers are discarded
	// immediately; they can never resolve to a project file.
	Extract(content []byte) []string
}

type extractor struct{}

// NewExtractor constructs the regex-based Extractor.
func NewExtractor() Extractor {
	return &extractor{}
}

// Extract implements Extractor.
func (e *extractor) Extract(content []byte) []string {
	seen := make(map[string]struct{})

	var specifiers []string

	for _, pattern := range specifierPatterns {
		for _, match := range pattern.FindAllSubmatch(content, -1) {
			specifier := string(match[1])

			if !IsInternalSpecifier(specifier) {
				continue
			}

			if _, ok := seen[specifier]; ok {
				continue
			}

			seen[specifier] = struct{}{}
			specifiers = append(specifiers, specifier)
		}
	}

	return specifiers
}

// IsInternalSpecifier reports whether a raw specifier can refer to a project
// file: relative, root-rooted, or using the fixed "@/" root alias.
func IsInternalSpecifier(specifier string) bool {
	return strings.HasPrefix(specifier, "./") ||
		strings.HasPrefix(specifier, "../") ||
		strings.HasPrefix(specifier, "/") ||
		strings.HasPrefix(specifier, "@/")
}
