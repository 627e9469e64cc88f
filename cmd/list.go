package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [root]",
		Short: "List files with reference counts",
		Long:  listLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return workflow.List(context.Background(), scanArgsFromConfig(rootFromArgs(args)))
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
