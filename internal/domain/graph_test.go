package domain

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"driftwood.dev/pkg/driftwood/internal/adapter"
	m "driftwood.dev/pkg/driftwood/internal/model"
)

// failingReadFS wraps the local adapter and fails reads for selected paths.
type failingReadFS struct {
	*adapter.LocalSourceFSAdapter
	failPaths map[m.Path]struct{}
}

func (f *failingReadFS) ReadFile(path m.Path) ([]byte, error) {
	if _, ok := f.failPaths[path]; ok {
		return nil, fmt.Errorf("read %s: permission denied", path)
	}

	return f.LocalSourceFSAdapter.ReadFile(path)
}

func buildTestGraph(t *testing.T, root string, threads int) (*m.ReferenceGraph, []m.SkipNote) {
	t.Helper()

	fs := adapter.NewLocalSourceFSAdapter()

	discovery, err := NewDiscoverer(fs).Discover(DiscoverArgs{Root: m.Path(root)})
	require.NoError(t, err)

	graph, skips, err := NewGraphBuilder(fs, NewExtractor()).Build(context.Background(), discovery, nil, threads)
	require.NoError(t, err)

	return graph, skips
}

func TestBuild(t *testing.T) {
	root := t.TempDir()

	writeFixture(t, root, map[string]string{
		"main.ts": `
import React from 'react'
import { util } from './util'
import Button from './comp/Button'
export default function main() {}
`,
		"util.ts":            "export const util = () => {}",
		"comp/Button.tsx":    "import { util } from '../util'\nexport default function Button() {}",
		"orphan.ts":          "import { util } from './util'\nexport const orphan = true",
		"unresolvable.ts":    "import missing from './does-not-exist'\nexport const u = 1",
		"self-importing.ts":  "import self from './self-importing'\nexport const s = 1",
	})

	graph, skips := buildTestGraph(t, root, 4)

	require.Empty(t, skips)
	require.Len(t, graph.Files, 6)

	abs := func(rel string) m.Path { return m.Path(filepath.Join(root, filepath.FromSlash(rel))) }

	// main → util, main → Button, Button → util, orphan → util. The bare
	// package, the unresolvable specifier and the self-import contribute no
	// edges.
	assert.Equal(t, 4, graph.EdgeCount())

	assert.Equal(t, 3, graph.IncomingCount(abs("util.ts")))
	assert.Equal(t, 1, graph.IncomingCount(abs("comp/Button.tsx")))
	assert.Equal(t, 0, graph.IncomingCount(abs("main.ts")))
	assert.Equal(t, 0, graph.IncomingCount(abs("orphan.ts")))
	assert.Equal(t, 0, graph.IncomingCount(abs("self-importing.ts")))

	assert.True(t, graph.Outgoing[abs("main.ts")].Has(abs("util.ts")))
	assert.True(t, graph.Outgoing[abs("main.ts")].Has(abs("comp/Button.tsx")))

	// ShortPath is root-relative for display.
	assert.Equal(t, m.Path(filepath.FromSlash("comp/Button.tsx")), graph.Files[abs("comp/Button.tsx")].ShortPath)
}

func TestBuild_DeterministicAcrossThreadCounts(t *testing.T) {
	root := t.TempDir()

	files := map[string]string{}
	for i := range 20 {
		files[fmt.Sprintf("mod%02d.ts", i)] = fmt.Sprintf("import { hub } from './hub'\nexport const v%d = %d", i, i)
	}

	files["hub.ts"] = "export const hub = 1"
	writeFixture(t, root, files)

	sequential, _ := buildTestGraph(t, root, 1)
	parallel, _ := buildTestGraph(t, root, 8)
	unlimited, _ := buildTestGraph(t, root, 0)

	assert.Equal(t, sequential.EdgeCount(), parallel.EdgeCount())
	assert.Equal(t, sequential.EdgeCount(), unlimited.EdgeCount())
	assert.Equal(t, sequential.SortedPaths(), parallel.SortedPaths())
	assert.Equal(t, sequential.Edges(), parallel.Edges())
}

func TestBuild_UnreadableFileIsSkipped(t *testing.T) {
	root := t.TempDir()

	writeFixture(t, root, map[string]string{
		"main.ts":   "import { b } from './broken'\nimport { u } from './util'",
		"broken.ts": "export const b = 1",
		"util.ts":   "export const u = 1",
	})

	local := adapter.NewLocalSourceFSAdapter()
	brokenPath := m.Path(filepath.Join(root, "broken.ts"))

	fs := &failingReadFS{
		LocalSourceFSAdapter: local,
		failPaths:            map[m.Path]struct{}{brokenPath: {}},
	}

	discovery, err := NewDiscoverer(fs).Discover(DiscoverArgs{Root: m.Path(root)})
	require.NoError(t, err)

	graph, skips, err := NewGraphBuilder(fs, NewExtractor()).Build(context.Background(), discovery, nil, 2)
	require.NoError(t, err)

	// The unreadable file is out of the graph and the edge to it is dropped.
	require.Len(t, skips, 1)
	assert.Equal(t, string(brokenPath), skips[0].Path)
	assert.Contains(t, skips[0].Reason, "permission denied")

	assert.Len(t, graph.Files, 2)
	assert.Equal(t, 1, graph.EdgeCount())
	assert.NotContains(t, graph.Files, brokenPath)
}

func TestBuild_CancelledContext(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, map[string]string{"a.ts": "export const a = 1"})

	fs := adapter.NewLocalSourceFSAdapter()

	discovery, err := NewDiscoverer(fs).Discover(DiscoverArgs{Root: m.Path(root)})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = NewGraphBuilder(fs, NewExtractor()).Build(ctx, discovery, nil, 1)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "context canceled"))
}
