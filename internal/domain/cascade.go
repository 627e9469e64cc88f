package domain

import (
	m "driftwood.dev/pkg/driftwood/internal/model"
)

// CascadeAnalyzer simulates deleting a set of files and reports which other
// files would become newly orphaned.
type CascadeAnalyzer interface {
	// Analyze performs a one-level lookahead per removal: a file counts as
	// newly orphaned when the removal is its sole inbound referrer. With
	// transitive set, the lookahead is re-run after each simulated removal
	// so follow-on orphans surface too; inbound counts are recomputed per
	// wave, never reused stale.
	Analyze(graph *m.ReferenceGraph, removals []m.Path, transitive bool) m.CascadeResult
}

type cascadeAnalyzer struct{}

// NewCascadeAnalyzer constructs a CascadeAnalyzer.
func NewCascadeAnalyzer() CascadeAnalyzer {
	return &cascadeAnalyzer{}
}

// Analyze implements CascadeAnalyzer.
func (c *cascadeAnalyzer) Analyze(graph *m.ReferenceGraph, removals []m.Path, transitive bool) m.CascadeResult {
	result := m.CascadeResult{Transitive: transitive}

	removed := m.NewPathSet(removals...)
	queue := append([]m.Path(nil), removals...)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if _, ok := graph.Files[current]; !ok {
			result.Entries = append(result.Entries, m.CascadeEntry{Removed: current})
			continue
		}

		var newly []m.Path

		for _, target := range graph.Outgoing[current].Sorted() {
			if removed.Has(target) {
				continue
			}

			inbound := graph.Incoming[target]
			if inbound.Len() == 0 {
				// Already an orphan candidate; deleting current changes
				// nothing for it.
				continue
			}

			if transitive {
				if allRemoved(inbound, removed) {
					newly = append(newly, target)
				}

				continue
			}

			if inbound.Len() == 1 && inbound.Has(current) {
				newly = append(newly, target)
			}
		}

		result.Entries = append(result.Entries, m.CascadeEntry{Removed: current, NewlyOrphaned: newly})

		if transitive {
			for _, path := range newly {
				removed.Add(path)
			}

			queue = append(queue, newly...)
		}
	}

	return result
}

func allRemoved(inbound, removed m.PathSet) bool {
	for path := range inbound {
		if !removed.Has(path) {
			return false
		}
	}

	return true
}
