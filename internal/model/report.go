package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// SafetyLevel is a discrete confidence rating that an orphan candidate can
// be deleted without breaking the system. Higher values are safer; Keep is
// the conservative default.
type SafetyLevel int

const (
	// Keep means no higher-confidence rule fired.
	Keep SafetyLevel = iota
	// Risky marks files that may be reachable outside the static import
	// graph (routes, pages, lazily loaded components, ambient types).
	Risky
	// ProbablySafe marks files that export nothing or look abandoned.
	ProbablySafe
	// VerySafe marks tests and files named as disposable.
	VerySafe
	// AbsolutelySafe marks backups and empty files.
	AbsolutelySafe
)

var safetyLabels = map[SafetyLevel]string{
	Keep:           "KEEP",
	Risky:          "RISKY",
	ProbablySafe:   "PROBABLY_SAFE",
	VerySafe:       "VERY_SAFE",
	AbsolutelySafe: "ABSOLUTELY_SAFE",
}

func (l SafetyLevel) String() string {
	if label, ok := safetyLabels[l]; ok {
		return label
	}

	return "UNKNOWN"
}

// ParseSafetyLevel maps a label back to its level. Unknown labels map to
// Keep, the conservative default.
func ParseSafetyLevel(label string) SafetyLevel {
	for level, l := range safetyLabels {
		if l == label {
			return level
		}
	}

	return Keep
}

// MarshalJSON emits the level label so artifacts stay readable.
func (l SafetyLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON accepts a level label.
func (l *SafetyLevel) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return fmt.Errorf("safety level: %w", err)
	}

	*l = ParseSafetyLevel(label)

	return nil
}

// MarshalYAML emits the level label.
func (l SafetyLevel) MarshalYAML() (interface{}, error) {
	return l.String(), nil
}

// UnmarshalYAML accepts a level label.
func (l *SafetyLevel) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var label string
	if err := unmarshal(&label); err != nil {
		return fmt.Errorf("safety level: %w", err)
	}

	*l = ParseSafetyLevel(label)

	return nil
}

// OrphanCandidate is a source file with zero inbound references, rated for
// deletion safety.
type OrphanCandidate struct {
	// Path is relative to the scan root.
	Path      Path        `json:"path" yaml:"path"`
	Safety    SafetyLevel `json:"safety" yaml:"safety"`
	Kind      Kind        `json:"kind" yaml:"kind"`
	SizeBytes int64       `json:"size_bytes" yaml:"size_bytes"`
	// Justifications explains the classification; the first entry is the
	// rule that fired, the rest are informational notes.
	Justifications []string `json:"justifications" yaml:"justifications"`
	// Imports lists the candidate's outgoing references (relative paths),
	// consumed by the cascade analysis.
	Imports []Path `json:"imports,omitempty" yaml:"imports,omitempty"`
}

// SkipNote records a path excluded from the run and why. Partial failures
// accumulate here instead of aborting the analysis.
type SkipNote struct {
	Path   string `json:"path" yaml:"path"`
	Reason string `json:"reason" yaml:"reason"`
}

// Analysis is the structured artifact of one full run, consumed by external
// reporting collaborators.
type Analysis struct {
	Root         string            `json:"root" yaml:"root"`
	GeneratedAt  time.Time         `json:"generated_at" yaml:"generated_at"`
	FilesScanned int               `json:"files_scanned" yaml:"files_scanned"`
	EdgeCount    int               `json:"edge_count" yaml:"edge_count"`
	Skipped      []SkipNote        `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Candidates   []OrphanCandidate `json:"candidates" yaml:"candidates"`
}

// CascadeEntry lists the files that would become newly orphaned if Removed
// were deleted.
type CascadeEntry struct {
	Removed       Path   `json:"removed" yaml:"removed"`
	NewlyOrphaned []Path `json:"newly_orphaned" yaml:"newly_orphaned"`
}

// CascadeResult is the outcome of a deletion simulation. When Transitive is
// set the entries include follow-on waves, produced by re-running the
// one-level lookahead after each simulated removal.
type CascadeResult struct {
	Transitive bool           `json:"transitive" yaml:"transitive"`
	Entries    []CascadeEntry `json:"entries" yaml:"entries"`
}
