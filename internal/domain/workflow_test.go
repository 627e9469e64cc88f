package domain

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"driftwood.dev/pkg/driftwood/internal/adapter"
	"driftwood.dev/pkg/driftwood/internal/controller"
	m "driftwood.dev/pkg/driftwood/internal/model"
)

func newTestWorkflow(t *testing.T) (Workflow, *bytes.Buffer) {
	t.Helper()

	output := &bytes.Buffer{}

	cobraCmd := &cobra.Command{}
	cobraCmd.SetOut(output)

	fs := adapter.NewLocalSourceFSAdapter()

	wf := NewWorkflow(
		fs,
		adapter.NewReportStore(),
		controller.NewSimpleUI(cobraCmd),
		NewDiscoverer(fs),
		NewGraphBuilder(fs, NewExtractor()),
		NewClassifier(),
		NewCascadeAnalyzer(),
	)

	return wf, output
}

func scanFixture(t *testing.T) string {
	t.Helper()

	root := t.TempDir()

	writeFixture(t, root, map[string]string{
		"index.ts": filler + `
import { util } from './lib/util'
import Hero from './components/Hero'
export default function main() { return util() && Hero }
`,
		"lib/util.ts":         filler + "export const util = () => true",
		"components/Hero.tsx": filler + "import { util } from '../lib/util'\nexport default function Hero() {}",
		"unused-helper.ts":    filler + "function helper() {}",
		"backup.old.ts":       filler + "export const old = 1",
	})

	return root
}

func TestWorkflowScan(t *testing.T) {
	wf, output := newTestWorkflow(t)

	root := scanFixture(t)
	reports := m.Path(filepath.Join(t.TempDir(), "reports"))

	err := wf.Scan(context.Background(), ScanArgs{
		Root:    m.Path(root),
		Threads: 2,
		Reports: reports,
		Format:  adapter.FormatYAML,
		Save:    true,
	})
	require.NoError(t, err)

	assert.Contains(t, output.String(), "backup.old.ts")
	assert.Contains(t, output.String(), "ABSOLUTELY_SAFE")
	assert.Contains(t, output.String(), "unused-helper.ts")
	assert.NotContains(t, output.String(), "Hero.tsx")

	store := adapter.NewReportStore()

	analysis, err := store.LoadAnalysis(reports)
	require.NoError(t, err)

	assert.Equal(t, 5, analysis.FilesScanned)
	assert.Equal(t, 3, analysis.EdgeCount)
	require.Len(t, analysis.Candidates, 3)
	assert.Equal(t, m.Path("backup.old.ts"), analysis.Candidates[0].Path)
	assert.Equal(t, m.AbsolutelySafe, analysis.Candidates[0].Safety)

	assert.True(t, store.HasGraph(reports))
}

func TestWorkflowScan_ExampleProject(t *testing.T) {
	wf, output := newTestWorkflow(t)

	root := filepath.Join("..", "..", "examples", "webapp")

	err := wf.Scan(context.Background(), ScanArgs{Root: m.Path(root)})
	require.NoError(t, err)

	got := output.String()

	assert.Contains(t, got, filepath.FromSlash("components/Button.old.tsx"))
	assert.Contains(t, got, "ABSOLUTELY_SAFE")
	assert.Contains(t, got, filepath.FromSlash("utils/formatting.ts"))
	assert.Contains(t, got, filepath.FromSlash("app/api/health/route.ts"))
	assert.Contains(t, got, "RISKY")

	// Referenced files are not candidates.
	assert.NotContains(t, got, filepath.FromSlash("lib/api.ts"))
	assert.NotContains(t, got, "App.tsx")
}

func TestWorkflowScan_OnlyFilter(t *testing.T) {
	wf, output := newTestWorkflow(t)

	root := scanFixture(t)

	err := wf.Scan(context.Background(), ScanArgs{
		Root: m.Path(root),
		Only: []m.Path{"unused-helper.ts"},
	})
	require.NoError(t, err)

	assert.Contains(t, output.String(), "unused-helper.ts")
	assert.NotContains(t, output.String(), "backup.old.ts")
}

func TestWorkflowScan_MissingRoot(t *testing.T) {
	wf, _ := newTestWorkflow(t)

	err := wf.Scan(context.Background(), ScanArgs{
		Root: m.Path(filepath.Join(t.TempDir(), "absent")),
	})
	require.ErrorIs(t, err, ErrRootNotFound)
}

func TestWorkflowCascade(t *testing.T) {
	root := scanFixture(t)
	reports := m.Path(filepath.Join(t.TempDir(), "reports"))

	t.Run("fresh scan", func(t *testing.T) {
		wf, output := newTestWorkflow(t)

		// util is also imported by Hero, so only the transitive cascade
		// reaches it.
		err := wf.Cascade(context.Background(), CascadeArgs{
			ScanArgs:   ScanArgs{Root: m.Path(root), Reports: reports},
			Targets:    []m.Path{"index.ts"},
			Transitive: true,
		})
		require.NoError(t, err)

		assert.Contains(t, output.String(), "index.ts")
		assert.Contains(t, output.String(), filepath.FromSlash("lib/util.ts"))
		assert.Contains(t, output.String(), filepath.FromSlash("components/Hero.tsx"))
	})

	t.Run("snapshot reuse", func(t *testing.T) {
		scanWf, _ := newTestWorkflow(t)

		err := scanWf.Scan(context.Background(), ScanArgs{
			Root:    m.Path(root),
			Reports: reports,
			Save:    true,
		})
		require.NoError(t, err)

		wf, output := newTestWorkflow(t)

		err = wf.Cascade(context.Background(), CascadeArgs{
			ScanArgs:   ScanArgs{Root: m.Path(root), Reports: reports},
			Targets:    []m.Path{"index.ts"},
			Transitive: true,
		})
		require.NoError(t, err)

		assert.Contains(t, output.String(), filepath.FromSlash("lib/util.ts"))
	})
}

func TestWorkflowList(t *testing.T) {
	wf, output := newTestWorkflow(t)

	root := scanFixture(t)

	err := wf.List(context.Background(), ScanArgs{Root: m.Path(root)})
	require.NoError(t, err)

	assert.Contains(t, output.String(), "index.ts")
	assert.Contains(t, output.String(), filepath.FromSlash("lib/util.ts"))
	// Footer text may be case-normalized by the table renderer.
	assert.Contains(t, strings.ToUpper(output.String()), "3 ORPHANED")
}

func TestWorkflowView(t *testing.T) {
	root := scanFixture(t)
	reports := m.Path(filepath.Join(t.TempDir(), "reports"))

	scanWf, _ := newTestWorkflow(t)

	err := scanWf.Scan(context.Background(), ScanArgs{
		Root:    m.Path(root),
		Reports: reports,
		Format:  adapter.FormatJSON,
		Save:    true,
	})
	require.NoError(t, err)

	wf, output := newTestWorkflow(t)

	require.NoError(t, wf.View(context.Background(), ViewArgs{Reports: reports}))

	assert.Contains(t, output.String(), "backup.old.ts")

	t.Run("missing reports dir", func(t *testing.T) {
		missing := m.Path(filepath.Join(t.TempDir(), "nothing"))

		err := wf.View(context.Background(), ViewArgs{Reports: missing})
		require.Error(t, err)
	})
}
