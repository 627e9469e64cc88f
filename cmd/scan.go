package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

// scanCmd represents the scan command.
var scanCmd = newScanCmd()

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [root]",
		Short: "Scan a project tree for orphaned files",
		Long:  scanLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			scanArgs := scanArgsFromConfig(rootFromArgs(args))
			scanArgs.Save = true

			return workflow.Scan(context.Background(), scanArgs)
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
