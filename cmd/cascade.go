package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"driftwood.dev/pkg/driftwood/internal/domain"
	m "driftwood.dev/pkg/driftwood/internal/model"
)

var cascadeRootFlag string
var cascadeTransitiveFlag bool
var cascadeRescanFlag bool

// cascadeCmd represents the cascade command.
var cascadeCmd = newCascadeCmd()

func newCascadeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cascade <files...>",
		Short: "Simulate deleting files and show follow-on orphans",
		Long: `Simulate removing the named files and report which files would become
orphaned as a result. A graph snapshot saved by a previous scan is reused
when present; pass --rescan to force a fresh scan.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return workflow.Cascade(context.Background(), domain.CascadeArgs{
				ScanArgs:   scanArgsFromConfig(m.Path(cascadeRootFlag)),
				Targets:    parsePaths(args),
				Transitive: cascadeTransitiveFlag,
				Rescan:     cascadeRescanFlag,
			})
		},
	}

	cmd.Flags().StringVar(&cascadeRootFlag, "root", ".", "project root the files belong to")
	cmd.Flags().BoolVarP(&cascadeTransitiveFlag, "transitive", "t", false, "follow the cascade to a fixed point")
	cmd.Flags().BoolVar(&cascadeRescanFlag, "rescan", false, "ignore any saved graph snapshot and rescan the tree")

	return cmd
}

func init() {
	rootCmd.AddCommand(cascadeCmd)
}
