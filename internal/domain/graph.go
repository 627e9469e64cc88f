package domain

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"driftwood.dev/pkg/driftwood/internal/adapter"
	m "driftwood.dev/pkg/driftwood/internal/model"
)

// GraphBuilder turns a discovery result into a ReferenceGraph. Files are
// processed independently and in parallel; the merge into the shared graph
// happens in a single owner after all workers finish.
type GraphBuilder interface {
	Build(ctx context.Context, discovery *Discovery, extensions []string, threads int) (*m.ReferenceGraph, []m.SkipNote, error)
}

type graphBuilder struct {
	fs        adapter.SourceFSAdapter
	extractor Extractor
}

// NewGraphBuilder constructs a GraphBuilder backed by the given filesystem
// adapter and extractor.
func NewGraphBuilder(fs adapter.SourceFSAdapter, extractor Extractor) GraphBuilder {
	return &graphBuilder{fs: fs, extractor: extractor}
}

// fileResult is one worker's contribution: the inspected file record plus
// its resolved outgoing edges, or a skip note when the file was unreadable.
type fileResult struct {
	file  m.SourceFile
	edges []m.Path
	skip  *m.SkipNote
}

// Build reads every discovered file, extracts and resolves its specifiers,
// and merges the per-file edge lists into one graph. A file that cannot be
// read is logged, recorded as skipped, and excluded from the graph; edges
// pointing at it are dropped during the merge.
func (b *graphBuilder) Build(ctx context.Context, discovery *Discovery, extensions []string, threads int) (*m.ReferenceGraph, []m.SkipNote, error) {
	resolver := NewResolver(discovery.Root, discovery.Known, extensions)

	results := make([]fileResult, len(discovery.Paths))

	group, ctx := errgroup.WithContext(ctx)
	if threads > 0 {
		group.SetLimit(threads)
	}

	for i, path := range discovery.Paths {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			content, err := b.fs.ReadFile(path)
			if err != nil {
				slog.Warn("skipping unreadable file", "path", path, "error", err)

				results[i] = fileResult{skip: &m.SkipNote{Path: string(path), Reason: err.Error()}}

				return nil
			}

			rel, err := b.fs.RelPath(discovery.Root, path)
			if err != nil {
				rel = path
			}

			file := InspectSource(path, rel, content)

			specifiers := b.extractor.Extract(content)

			edges := make([]m.Path, 0, len(specifiers))

			for _, specifier := range specifiers {
				if target, ok := resolver.Resolve(specifier, path); ok {
					edges = append(edges, target)
				}
			}

			results[i] = fileResult{file: file, edges: edges}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, nil, err
	}

	graph, skips := mergeResults(results)

	slog.Debug("graph built", "files", len(graph.Files), "edges", graph.EdgeCount(), "skipped", len(skips))

	return graph, skips, nil
}

// mergeResults is the single shared-write point of the pipeline. It runs on
// one goroutine: nodes first, then edges, so AddEdge can drop edges whose
// target was excluded.
func mergeResults(results []fileResult) (*m.ReferenceGraph, []m.SkipNote) {
	graph := m.NewReferenceGraph()

	var skips []m.SkipNote

	for _, result := range results {
		if result.skip != nil {
			skips = append(skips, *result.skip)
			continue
		}

		graph.AddFile(result.file)
	}

	for _, result := range results {
		if result.skip != nil {
			continue
		}

		for _, target := range result.edges {
			graph.AddEdge(result.file.FullPath, target)
		}
	}

	return graph, skips
}
