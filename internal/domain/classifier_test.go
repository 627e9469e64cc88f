package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "driftwood.dev/pkg/driftwood/internal/model"
)

// filler pads content past the near-empty threshold without tripping any
// other content heuristic.
var filler = strings.Repeat("const padding = 1;\n", 5)

func TestDetectKind(t *testing.T) {
	tests := []struct {
		path string
		want m.Kind
	}{
		{"components/Button.old.tsx", m.KindBackup},
		{"utils/helpers.bak.ts", m.KindBackup},
		{"store_old.ts", m.KindBackup},
		{"Button.test.tsx", m.KindTest},
		{"api/client.spec.ts", m.KindTest},
		{"src/__tests__/setup.ts", m.KindTest},
		{"app/api/users/route.ts", m.KindAPIRoute},
		{"pages/api/login.ts", m.KindAPIRoute},
		{"app/dashboard/page.tsx", m.KindPage},
		{"app/layout.tsx", m.KindPage},
		{"pages/about.tsx", m.KindPage},
		{"global.d.ts", m.KindTypeDefs},
		{"src/types/user.ts", m.KindTypeDefs},
		{"lib/types.ts", m.KindTypeDefs},
		{"components/Card.tsx", m.KindComponent},
		{"widgets/Chart.jsx", m.KindComponent},
		{"src/Modal.ts", m.KindComponent},
		{"lib/math.ts", m.KindModule},
		{"src/index.js", m.KindModule},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, detectKind(m.Path(tt.path)))
		})
	}
}

func TestRateSafety(t *testing.T) {
	tests := []struct {
		name      string
		shortPath string
		content   string
		want      m.SafetyLevel
	}{
		{
			"backup suffix",
			"components/Hero.old.tsx",
			filler + "export default function Hero() {}",
			m.AbsolutelySafe,
		},
		{
			"near-empty file",
			"lib/stub.ts",
			"export {}",
			m.AbsolutelySafe,
		},
		{
			"test file",
			"Button.test.tsx",
			filler + "it('renders', () => {})",
			m.VerySafe,
		},
		{
			"disposable marker in name",
			"scratch-notes.ts",
			filler + "export const notes = []",
			m.VerySafe,
		},
		{
			"module with no exports",
			"lib/legacy.ts",
			filler + "function internalOnly() {}",
			m.ProbablySafe,
		},
		{
			"abandoned module with markers",
			"lib/parser.ts",
			filler + "// TODO finish the lookahead\nexport const parse = () => {}",
			m.ProbablySafe,
		},
		{
			"api route",
			"app/api/users/route.ts",
			filler + "export async function GET() {}",
			m.Risky,
		},
		{
			"page",
			"app/dashboard/page.tsx",
			filler + "export default function Page() {}",
			m.Risky,
		},
		{
			"type definitions",
			"global.d.ts",
			filler + "declare module 'thing'",
			m.Risky,
		},
		{
			"component with default export",
			"components/Card.tsx",
			filler + "export default function Card() {}",
			m.Risky,
		},
		{
			"component without default export",
			"components/Card.tsx",
			filler + "export function Card() {}",
			m.Keep,
		},
		{
			"exporting module",
			"lib/math.ts",
			filler + "export const add = (a, b) => a + b",
			m.Keep,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := InspectSource(m.Path("/proj/"+tt.shortPath), m.Path(tt.shortPath), []byte(tt.content))

			level, reason := rateSafety(file)
			assert.Equal(t, tt.want, level)
			assert.NotEmpty(t, reason)
		})
	}
}

func TestRateSafety_FirstMatchWins(t *testing.T) {
	// A backup of a test file rates as a backup: earlier rules shadow later
	// ones.
	file := InspectSource(
		"/proj/Button.test.old.tsx",
		"Button.test.old.tsx",
		[]byte(filler+"it('renders', () => {})"),
	)

	level, reason := rateSafety(file)
	require.Equal(t, m.AbsolutelySafe, level)
	assert.Contains(t, reason, "backup")
}

func TestClassify(t *testing.T) {
	graph := m.NewReferenceGraph()

	add := func(full, short, content string) {
		graph.AddFile(InspectSource(m.Path(full), m.Path(short), []byte(content)))
	}

	add("/proj/index.ts", "index.ts", filler+"export default 1")
	add("/proj/lib/util.ts", "lib/util.ts", filler+"export const u = 1")
	add("/proj/backup.old.ts", "backup.old.ts", filler+"export const b = 1")
	add("/proj/dead.ts", "dead.ts", filler+"function unused() {}")

	graph.AddEdge("/proj/index.ts", "/proj/lib/util.ts")
	graph.AddEdge("/proj/dead.ts", "/proj/lib/util.ts")

	candidates := NewClassifier().Classify(graph)

	// Exactly one candidate per zero-inbound file; referenced files never
	// appear.
	require.Len(t, candidates, 3)

	paths := make([]m.Path, 0, len(candidates))
	for _, c := range candidates {
		paths = append(paths, c.Path)
	}

	assert.ElementsMatch(t, []m.Path{"index.ts", "backup.old.ts", "dead.ts"}, paths)

	// Sorted safest first.
	assert.Equal(t, m.Path("backup.old.ts"), candidates[0].Path)
	assert.Equal(t, m.AbsolutelySafe, candidates[0].Safety)
	assert.Equal(t, m.ProbablySafe, candidates[1].Safety)
	assert.Equal(t, m.Path("dead.ts"), candidates[1].Path)
	assert.Equal(t, m.Keep, candidates[2].Safety)

	// The rule reason leads the justifications; outgoing references are
	// reported relative to the root.
	require.NotEmpty(t, candidates[1].Justifications)
	assert.Equal(t, []m.Path{"lib/util.ts"}, candidates[1].Imports)
	assert.Empty(t, candidates[0].Imports)
}

func TestClassify_Idempotent(t *testing.T) {
	graph := m.NewReferenceGraph()
	graph.AddFile(InspectSource("/proj/a.ts", "a.ts", []byte(filler+"export const a = 1")))
	graph.AddFile(InspectSource("/proj/b.ts", "b.ts", []byte(filler+"export const b = 1")))
	graph.AddEdge("/proj/a.ts", "/proj/b.ts")

	classifier := NewClassifier()

	first := classifier.Classify(graph)
	second := classifier.Classify(graph)

	assert.Equal(t, first, second)
}
