package model

import "sort"

// PathSet is a set of file paths. Edge relations use set semantics: several
// raw specifiers resolving to the same target collapse to one entry.
type PathSet map[Path]struct{}

// NewPathSet builds a set from the given paths.
func NewPathSet(paths ...Path) PathSet {
	s := make(PathSet, len(paths))
	for _, p := range paths {
		s.Add(p)
	}

	return s
}

// Add inserts a path into the set.
func (s PathSet) Add(p Path) {
	s[p] = struct{}{}
}

// Has reports whether the set contains p.
func (s PathSet) Has(p Path) bool {
	_, ok := s[p]
	return ok
}

// Len returns the number of paths in the set.
func (s PathSet) Len() int {
	return len(s)
}

// Sorted returns the paths in lexicographic order for deterministic output.
func (s PathSet) Sorted() []Path {
	paths := make([]Path, 0, len(s))
	for p := range s {
		paths = append(paths, p)
	}

	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })

	return paths
}

// EdgeRecord is one directed import relation, the unit persisted in graph
// snapshots.
type EdgeRecord struct {
	From Path
	To   Path
}

// ReferenceGraph holds every SourceFile of one analysis run together with
// forward (files it imports) and reverse (files importing it) edge sets.
// Only discovered files appear as nodes; specifiers resolving outside the
// discovered set are never represented.
//
// The graph is built by a single owner and safe for concurrent reads after
// construction.
type ReferenceGraph struct {
	Files    map[Path]SourceFile
	Outgoing map[Path]PathSet
	Incoming map[Path]PathSet
}

// NewReferenceGraph returns an empty graph.
func NewReferenceGraph() *ReferenceGraph {
	return &ReferenceGraph{
		Files:    make(map[Path]SourceFile),
		Outgoing: make(map[Path]PathSet),
		Incoming: make(map[Path]PathSet),
	}
}

// AddFile registers a node. Edge sets are allocated eagerly so callers can
// distinguish "no references" from "unknown file".
func (g *ReferenceGraph) AddFile(f SourceFile) {
	g.Files[f.FullPath] = f

	if g.Outgoing[f.FullPath] == nil {
		g.Outgoing[f.FullPath] = NewPathSet()
	}

	if g.Incoming[f.FullPath] == nil {
		g.Incoming[f.FullPath] = NewPathSet()
	}
}

// AddEdge records from → to. Edges touching paths that are not registered
// nodes are dropped, which keeps external or unreadable targets out of the
// graph.
func (g *ReferenceGraph) AddEdge(from, to Path) {
	if _, ok := g.Files[from]; !ok {
		return
	}

	if _, ok := g.Files[to]; !ok {
		return
	}

	if from == to {
		return
	}

	g.Outgoing[from].Add(to)
	g.Incoming[to].Add(from)
}

// IncomingCount returns the inbound edge count for p.
func (g *ReferenceGraph) IncomingCount(p Path) int {
	return g.Incoming[p].Len()
}

// EdgeCount returns the total number of distinct edges.
func (g *ReferenceGraph) EdgeCount() int {
	count := 0
	for _, targets := range g.Outgoing {
		count += targets.Len()
	}

	return count
}

// SortedPaths returns every node path in lexicographic order.
func (g *ReferenceGraph) SortedPaths() []Path {
	paths := make([]Path, 0, len(g.Files))
	for p := range g.Files {
		paths = append(paths, p)
	}

	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })

	return paths
}

// Edges returns every edge as a flat record list, ordered by source then
// target. Used for persisting graph snapshots.
func (g *ReferenceGraph) Edges() []EdgeRecord {
	records := make([]EdgeRecord, 0, g.EdgeCount())

	for _, from := range g.SortedPaths() {
		for _, to := range g.Outgoing[from].Sorted() {
			records = append(records, EdgeRecord{From: from, To: to})
		}
	}

	return records
}
