package domain

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"driftwood.dev/pkg/driftwood/internal/adapter"
	"driftwood.dev/pkg/driftwood/internal/controller"
	m "driftwood.dev/pkg/driftwood/internal/model"
)

// ScanArgs configures a full analysis run.
type ScanArgs struct {
	Root m.Path
	// Only restricts the reported candidates to these paths
	// (specific-files mode). The graph is still built over the whole tree.
	Only         []m.Path
	Extensions   []string
	DenyDirs     []string
	ExcludeGlobs []string
	UseGitignore bool
	Threads      int
	// Reports is the artifact directory; Format picks the encoding.
	Reports m.Path
	Format  string
	Save    bool
}

// CascadeArgs configures a deletion simulation.
type CascadeArgs struct {
	ScanArgs
	Targets    []m.Path
	Transitive bool
	// Rescan forces a fresh pipeline run instead of reusing a saved graph
	// snapshot.
	Rescan bool
}

// ViewArgs configures re-rendering of a saved analysis.
type ViewArgs struct {
	Reports m.Path
}

// Workflow wires the pipeline stages together and drives the UI and report
// store. Each run is stateless: a fresh artifact is produced every time.
type Workflow interface {
	Scan(ctx context.Context, args ScanArgs) error
	Cascade(ctx context.Context, args CascadeArgs) error
	List(ctx context.Context, args ScanArgs) error
	View(ctx context.Context, args ViewArgs) error
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.ReportStore
	controller.UI
	Discoverer
	GraphBuilder
	Classifier
	CascadeAnalyzer
}

// NewWorkflow creates a Workflow instance with the provided dependencies.
func NewWorkflow(
	fs adapter.SourceFSAdapter,
	store adapter.ReportStore,
	ui controller.UI,
	discoverer Discoverer,
	builder GraphBuilder,
	classifier Classifier,
	cascade CascadeAnalyzer,
) Workflow {
	return &workflow{
		SourceFSAdapter: fs,
		ReportStore:     store,
		UI:              ui,
		Discoverer:      discoverer,
		GraphBuilder:    builder,
		Classifier:      classifier,
		CascadeAnalyzer: cascade,
	}
}

// Scan runs the full pipeline, displays the candidates, and persists the
// artifact when requested.
func (w *workflow) Scan(ctx context.Context, args ScanArgs) error {
	graph, analysis, err := w.analyze(ctx, args)
	if err != nil {
		return err
	}

	if err := w.DisplayAnalysis(ctx, *analysis); err != nil {
		slog.Error("failed to display analysis", "error", err)
		return fmt.Errorf("display: %w", err)
	}

	if !args.Save {
		return nil
	}

	if err := w.SaveAnalysis(args.Reports, args.Format, *analysis); err != nil {
		slog.Error("failed to save analysis", "reports", args.Reports, "error", err)
		return fmt.Errorf("save analysis: %w", err)
	}

	if err := w.SaveGraph(args.Reports, graph); err != nil {
		slog.Error("failed to save graph snapshot", "reports", args.Reports, "error", err)
		return fmt.Errorf("save graph snapshot: %w", err)
	}

	return nil
}

// Cascade simulates deleting the target files. A saved graph snapshot is
// reused when available so the tree is not rescanned.
func (w *workflow) Cascade(ctx context.Context, args CascadeArgs) error {
	graph, err := w.graphForCascade(ctx, args)
	if err != nil {
		return err
	}

	root, err := w.AbsPath(args.Root)
	if err != nil {
		return fmt.Errorf("resolve root: %w", err)
	}

	targets := make([]m.Path, 0, len(args.Targets))
	for _, target := range args.Targets {
		targets = append(targets, w.absTarget(root, target))
	}

	result := w.Analyze(graph, targets, args.Transitive)

	return w.DisplayCascade(ctx, relativizeCascade(graph, result))
}

// List shows inbound/outbound reference counts for every file in the tree.
func (w *workflow) List(ctx context.Context, args ScanArgs) error {
	graph, _, err := w.buildGraph(ctx, args)
	if err != nil {
		return err
	}

	rows := make([]controller.ReferenceRow, 0, len(graph.Files))

	for _, path := range graph.SortedPaths() {
		rows = append(rows, controller.ReferenceRow{
			Path:     string(graph.Files[path].ShortPath),
			Inbound:  graph.IncomingCount(path),
			Outbound: graph.Outgoing[path].Len(),
		})
	}

	return w.DisplayReferenceCounts(ctx, rows)
}

// View re-renders a previously saved analysis artifact.
func (w *workflow) View(ctx context.Context, args ViewArgs) error {
	analysis, err := w.LoadAnalysis(args.Reports)
	if err != nil {
		return fmt.Errorf("load analysis: %w", err)
	}

	return w.DisplayAnalysis(ctx, analysis)
}

func (w *workflow) analyze(ctx context.Context, args ScanArgs) (*m.ReferenceGraph, *m.Analysis, error) {
	graph, skips, err := w.buildGraph(ctx, args)
	if err != nil {
		return nil, nil, err
	}

	candidates := w.Classify(graph)

	root := m.Path(graphRoot(graph, args.Root))

	if len(args.Only) > 0 {
		candidates = w.filterCandidates(candidates, root, args.Only)
	}

	analysis := &m.Analysis{
		Root:         string(root),
		GeneratedAt:  time.Now().UTC(),
		FilesScanned: len(graph.Files),
		EdgeCount:    graph.EdgeCount(),
		Skipped:      skips,
		Candidates:   candidates,
	}

	return graph, analysis, nil
}

func (w *workflow) buildGraph(ctx context.Context, args ScanArgs) (*m.ReferenceGraph, []m.SkipNote, error) {
	discovery, err := w.Discover(DiscoverArgs{
		Root:         args.Root,
		Extensions:   args.Extensions,
		DenyDirs:     args.DenyDirs,
		ExcludeGlobs: args.ExcludeGlobs,
		UseGitignore: args.UseGitignore,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("discover sources: %w", err)
	}

	graph, buildSkips, err := w.Build(ctx, discovery, args.Extensions, args.Threads)
	if err != nil {
		return nil, nil, fmt.Errorf("build reference graph: %w", err)
	}

	skips := append(append([]m.SkipNote(nil), discovery.Skips...), buildSkips...)

	return graph, skips, nil
}

func (w *workflow) graphForCascade(ctx context.Context, args CascadeArgs) (*m.ReferenceGraph, error) {
	if !args.Rescan && w.HasGraph(args.Reports) {
		graph, err := w.LoadGraph(args.Reports)
		if err == nil {
			slog.Debug("reusing saved graph snapshot", "reports", args.Reports)
			return graph, nil
		}

		slog.Warn("failed to load saved graph, rescanning", "reports", args.Reports, "error", err)
	}

	graph, _, err := w.buildGraph(ctx, args.ScanArgs)

	return graph, err
}

// filterCandidates keeps only candidates named in the explicit path list.
// Entries may be given relative to the root or absolute.
func (w *workflow) filterCandidates(candidates []m.OrphanCandidate, root m.Path, only []m.Path) []m.OrphanCandidate {
	wanted := m.NewPathSet()

	for _, path := range only {
		abs := w.absTarget(root, path)
		if rel, err := w.RelPath(root, abs); err == nil {
			wanted.Add(rel)
		}
	}

	filtered := make([]m.OrphanCandidate, 0, len(candidates))

	for _, candidate := range candidates {
		if wanted.Has(candidate.Path) {
			filtered = append(filtered, candidate)
		}
	}

	return filtered
}

func (w *workflow) absTarget(root, target m.Path) m.Path {
	if filepath.IsAbs(string(target)) {
		return target
	}

	return w.JoinPath(string(root), string(target))
}

// relativizeCascade swaps full paths for root-relative ones in the result.
// Targets unknown to the graph keep their given spelling.
func relativizeCascade(graph *m.ReferenceGraph, result m.CascadeResult) m.CascadeResult {
	shortPath := func(p m.Path) m.Path {
		if file, ok := graph.Files[p]; ok {
			return file.ShortPath
		}

		return p
	}

	out := m.CascadeResult{Transitive: result.Transitive}

	for _, entry := range result.Entries {
		short := m.CascadeEntry{Removed: shortPath(entry.Removed)}
		for _, path := range entry.NewlyOrphaned {
			short.NewlyOrphaned = append(short.NewlyOrphaned, shortPath(path))
		}

		out.Entries = append(out.Entries, short)
	}

	return out
}

// graphRoot recovers the scan root for display: prefer the discovery root
// carried on the args, falling back to the common ancestor of the graph.
func graphRoot(graph *m.ReferenceGraph, root m.Path) string {
	if root != "" {
		if abs, err := filepath.Abs(string(root)); err == nil {
			return abs
		}
	}

	for path, file := range graph.Files {
		full := string(path)
		short := string(file.ShortPath)

		if len(full) > len(short) && full[len(full)-len(short):] == short {
			return filepath.Clean(full[:len(full)-len(short)])
		}
	}

	return string(root)
}
