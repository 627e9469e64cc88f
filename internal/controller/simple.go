package controller

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "driftwood.dev/pkg/driftwood/internal/model"
)

// SimpleUI implements UI using cobra Command's output with plain tables.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplayAnalysis renders the orphan candidates as a table, safest first.
func (s *SimpleUI) DisplayAnalysis(ctx context.Context, analysis m.Analysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("Scanned %d file(s), %d reference edge(s)\n", analysis.FilesScanned, analysis.EdgeCount)

	if len(analysis.Skipped) > 0 {
		s.printf("Skipped %d unreadable path(s)\n", len(analysis.Skipped))
	}

	if len(analysis.Candidates) == 0 {
		s.printf("No orphan candidates found\n")
		return nil
	}

	s.printf("\n%s", renderCandidateTable(analysis.Candidates))

	return nil
}

// DisplayCascade renders the would-also-orphan listing.
func (s *SimpleUI) DisplayCascade(ctx context.Context, result m.CascadeResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Removed", "Would Also Orphan"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})

	total := 0

	for _, entry := range result.Entries {
		orphaned := "-"
		if len(entry.NewlyOrphaned) > 0 {
			orphaned = joinPaths(entry.NewlyOrphaned)
		}

		table.Append([]string{string(entry.Removed), orphaned})
		total += len(entry.NewlyOrphaned)
	}

	table.SetFooter([]string{
		fmt.Sprintf("%d removal(s)", len(result.Entries)),
		fmt.Sprintf("%d newly orphaned", total),
	})

	table.Render()

	mode := "one-level"
	if result.Transitive {
		mode = "transitive"
	}

	s.printf("Cascade simulation (%s)\n\n%s", mode, tableBuffer.String())

	return nil
}

// DisplayReferenceCounts renders inbound/outbound counts per file.
func (s *SimpleUI) DisplayReferenceCounts(ctx context.Context, rows []ReferenceRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Inbound", "Outbound"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER})

	orphans := 0

	for _, row := range rows {
		table.Append([]string{row.Path, fmt.Sprintf("%d", row.Inbound), fmt.Sprintf("%d", row.Outbound)})

		if row.Inbound == 0 {
			orphans++
		}
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(rows)),
		fmt.Sprintf("%d orphaned", orphans),
		"",
	})

	table.Render()

	s.printf("\n%s", tableBuffer.String())

	return nil
}

func renderCandidateTable(candidates []m.OrphanCandidate) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Safety", "Kind", "Bytes", "Why"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
	})

	for _, candidate := range candidates {
		why := ""
		if len(candidate.Justifications) > 0 {
			why = candidate.Justifications[0]
		}

		table.Append([]string{
			string(candidate.Path),
			candidate.Safety.String(),
			string(candidate.Kind),
			fmt.Sprintf("%d", candidate.SizeBytes),
			why,
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("%d candidate(s)", len(candidates)),
		"", "", "", "",
	})

	table.Render()

	return tableBuffer.String()
}

func joinPaths(paths []m.Path) string {
	parts := make([]string, 0, len(paths))
	for _, path := range paths {
		parts = append(parts, string(path))
	}

	return strings.Join(parts, ", ")
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
