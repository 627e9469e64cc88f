// Package controller provides output controllers for displaying analysis
// results.
package controller

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "driftwood.dev/pkg/driftwood/internal/model"
)

// ReferenceRow is one line of the reference-count listing.
type ReferenceRow struct {
	Path     string
	Inbound  int
	Outbound int
}

// UI defines the interface for displaying analysis results. Implementations
// can use different output methods (simple tables, interactive TUI).
type UI interface {
	DisplayAnalysis(ctx context.Context, analysis m.Analysis) error
	DisplayCascade(ctx context.Context, result m.CascadeResult) error
	DisplayReferenceCounts(ctx context.Context, rows []ReferenceRow) error
}

// NewUI picks the UI implementation: the interactive browser on a terminal,
// plain tables otherwise.
func NewUI(cmd *cobra.Command, interactive bool) UI {
	if interactive {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// terminalSize returns the dimensions of the output when it is a terminal.
func terminalSize(output io.Writer) (width, height int, ok bool) {
	f, isFile := output.(*os.File)
	if !isFile {
		return 0, 0, false
	}

	width, height, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0, 0, false
	}

	return width, height, true
}
