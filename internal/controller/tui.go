package controller

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "driftwood.dev/pkg/driftwood/internal/model"
)

var (
	tuiTitleStyle  = lipgloss.NewStyle().Bold(true)
	tuiHelpStyle   = lipgloss.NewStyle().Faint(true)
	tuiPathStyle   = lipgloss.NewStyle()
	tuiDetailStyle = lipgloss.NewStyle().Faint(true)

	safetyStyles = map[m.SafetyLevel]lipgloss.Style{
		m.AbsolutelySafe: lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		m.VerySafe:       lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		m.ProbablySafe:   lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		m.Risky:          lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		m.Keep:           lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
)

// TUI implements UI using Bubble Tea for interactive display. Short listings
// are printed directly; long ones open a scrollable viewport.
type TUI struct {
	output io.Writer
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// DisplayAnalysis shows the candidate listing, interactively when it does
// not fit the terminal.
func (t *TUI) DisplayAnalysis(ctx context.Context, analysis m.Analysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	model := newCandidateModel(analysis)

	if width, height, ok := terminalSize(t.output); ok {
		model.width = width
		model.height = height
	}

	if !model.needsPagination() {
		_, err := fmt.Fprint(t.output, model.plainView())
		return err
	}

	program := tea.NewProgram(model, tea.WithOutput(t.output), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}

	return nil
}

// DisplayCascade prints the cascade simulation; the listing is always short
// enough to print directly.
func (t *TUI) DisplayCascade(ctx context.Context, result m.CascadeResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var b strings.Builder

	mode := "one-level"
	if result.Transitive {
		mode = "transitive"
	}

	b.WriteString(tuiTitleStyle.Render(fmt.Sprintf("Cascade simulation (%s)", mode)))
	b.WriteString("\n\n")

	for _, entry := range result.Entries {
		b.WriteString(tuiPathStyle.Render(string(entry.Removed)))

		if len(entry.NewlyOrphaned) == 0 {
			b.WriteString(tuiDetailStyle.Render("  (no follow-on orphans)"))
			b.WriteString("\n")
			continue
		}

		b.WriteString("\n")

		for _, path := range entry.NewlyOrphaned {
			b.WriteString(tuiDetailStyle.Render(fmt.Sprintf("  would orphan %s", path)))
			b.WriteString("\n")
		}
	}

	_, err := fmt.Fprint(t.output, b.String())

	return err
}

// DisplayReferenceCounts prints the reference-count listing.
func (t *TUI) DisplayReferenceCounts(ctx context.Context, rows []ReferenceRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var b strings.Builder

	b.WriteString(tuiTitleStyle.Render("References"))
	b.WriteString("\n\n")

	for _, row := range rows {
		b.WriteString(fmt.Sprintf("%4d in %4d out  %s\n", row.Inbound, row.Outbound, row.Path))
	}

	_, err := fmt.Fprint(t.output, b.String())

	return err
}

// candidateModel is the Bubble Tea model for browsing orphan candidates.
type candidateModel struct {
	analysis m.Analysis
	viewport viewport.Model
	width    int
	height   int
	ready    bool
	quitting bool
}

func newCandidateModel(analysis m.Analysis) *candidateModel {
	return &candidateModel{analysis: analysis}
}

// chromeLines is the number of non-scrolling lines (title + help).
const chromeLines = 4

func (cm *candidateModel) needsPagination() bool {
	if cm.height == 0 {
		return false
	}

	return cm.contentLineCount() > cm.height-chromeLines
}

func (cm *candidateModel) contentLineCount() int {
	return strings.Count(cm.contentView(), "\n") + 1
}

func (cm *candidateModel) Init() tea.Cmd {
	return nil
}

func (cm *candidateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			cm.quitting = true
			return cm, tea.Quit
		}

	case tea.WindowSizeMsg:
		cm.width = msg.Width
		cm.height = msg.Height

		if !cm.ready {
			cm.viewport = viewport.New(msg.Width, msg.Height-chromeLines)
			cm.viewport.SetContent(cm.contentView())
			cm.ready = true
		} else {
			cm.viewport.Width = msg.Width
			cm.viewport.Height = msg.Height - chromeLines
		}
	}

	var cmd tea.Cmd
	cm.viewport, cmd = cm.viewport.Update(msg)

	return cm, cmd
}

func (cm *candidateModel) View() string {
	if cm.quitting {
		return ""
	}

	if !cm.ready {
		return cm.plainView()
	}

	return cm.titleView() + "\n" + cm.viewport.View() + "\n" + cm.helpView()
}

// plainView is the non-interactive rendering, used when the listing fits.
func (cm *candidateModel) plainView() string {
	return cm.titleView() + "\n" + cm.contentView()
}

func (cm *candidateModel) titleView() string {
	return tuiTitleStyle.Render(fmt.Sprintf(
		"Driftwood: %d orphan candidate(s) in %d file(s)",
		len(cm.analysis.Candidates), cm.analysis.FilesScanned,
	)) + "\n"
}

func (cm *candidateModel) helpView() string {
	return tuiHelpStyle.Render("↑/↓ scroll · q quit")
}

func (cm *candidateModel) contentView() string {
	if len(cm.analysis.Candidates) == 0 {
		return "No orphan candidates found\n"
	}

	var b strings.Builder

	for _, candidate := range cm.analysis.Candidates {
		style, ok := safetyStyles[candidate.Safety]
		if !ok {
			style = tuiPathStyle
		}

		b.WriteString(fmt.Sprintf(
			"%s %s %s\n",
			style.Render(fmt.Sprintf("%-15s", candidate.Safety.String())),
			tuiPathStyle.Render(string(candidate.Path)),
			tuiDetailStyle.Render(fmt.Sprintf("(%s, %d bytes)", candidate.Kind, candidate.SizeBytes)),
		))

		for _, justification := range candidate.Justifications {
			b.WriteString(tuiDetailStyle.Render(fmt.Sprintf("    %s", justification)))
			b.WriteString("\n")
		}
	}

	return b.String()
}
