package cmd

import (
	"context"

	"github.com/spf13/cobra"

	m "driftwood.dev/pkg/driftwood/internal/model"
)

var checkRootFlag string

// checkCmd represents the check command.
var checkCmd = newCheckCmd()

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <files...>",
		Short: "Check whether specific files are orphaned",
		Long: `Build the full import graph and report only the named files. The graph
still covers the whole tree, so the verdict is the same one a full scan
would give.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			scanArgs := scanArgsFromConfig(m.Path(checkRootFlag))
			scanArgs.Only = parsePaths(args)

			return workflow.Scan(context.Background(), scanArgs)
		},
	}

	cmd.Flags().StringVar(&checkRootFlag, "root", ".", "project root the files belong to")

	return cmd
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
