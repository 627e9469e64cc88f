package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"driftwood.dev/pkg/driftwood/internal/domain"
	m "driftwood.dev/pkg/driftwood/internal/model"
)

func TestParsePaths(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []m.Path
	}{
		{"empty", []string{}, []m.Path{}},
		{"single", []string{"src/a.ts"}, []m.Path{m.Path("src/a.ts")}},
		{
			"multiple",
			[]string{"src/a.ts", "lib/b.ts"},
			[]m.Path{m.Path("src/a.ts"), m.Path("lib/b.ts")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parsePaths(tt.args)
			require.Len(t, got, len(tt.want))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRootFromArgs(t *testing.T) {
	assert.Equal(t, m.Path("."), rootFromArgs(nil))
	assert.Equal(t, m.Path("."), rootFromArgs([]string{}))
	assert.Equal(t, m.Path("./web"), rootFromArgs([]string{"./web"}))
	assert.Equal(t, m.Path("a"), rootFromArgs([]string{"a", "ignored"}))
}

func TestScanArgsFromConfig(t *testing.T) {
	args := scanArgsFromConfig("./web")

	assert.Equal(t, m.Path("./web"), args.Root)
	assert.Equal(t, domain.DefaultExtensions, args.Extensions)
	assert.Equal(t, domain.DefaultDenyDirs, args.DenyDirs)
	assert.True(t, args.UseGitignore)
	assert.Equal(t, defaultParallel, args.Threads)
	assert.Equal(t, m.Path(defaultReportsDir), args.Reports)
	assert.Equal(t, defaultFormat, args.Format)
	assert.False(t, args.Save)
}

func TestBaseRootCmd(t *testing.T) {
	cmd := baseRootCmd()
	assert.Equal(t, "driftwood", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.Equal(t, rootLongDescription, cmd.Long)
}

func TestRootCmd_HelpOutput(t *testing.T) {
	cmd := baseRootCmd()
	output := &bytes.Buffer{}
	cmd.SetOut(output)
	cmd.SetErr(&bytes.Buffer{})

	cmd.SetArgs([]string{})
	err := cmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, output.String(), "Usage:")
	assert.Contains(t, output.String(), "orphaned")
}

func TestInit(t *testing.T) {
	// Test that init() created all the necessary instances
	assert.NotNil(t, ui)
	assert.NotNil(t, fsAdapter)
	assert.NotNil(t, reportStore)
	assert.NotNil(t, treeWatcher)
	assert.NotNil(t, workflow)
}

func TestSubcommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, sub := range rootCmd.Commands() {
		names[sub.Name()] = true
	}

	for _, want := range []string{"scan", "check", "cascade", "list", "view", "watch", "init", "version"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}
