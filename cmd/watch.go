package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// watchDebounce batches bursts of filesystem events into one rescan.
const watchDebounce = 500 * time.Millisecond

// watchCmd represents the watch command.
var watchCmd = newWatchCmd()

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [root]",
		Short: "Rescan on file changes",
		Long: `Run an initial scan, then watch the tree and rescan whenever source
files change. Runs until interrupted.

` + rootHelp,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			ctx := cobraCmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			scanArgs := scanArgsFromConfig(rootFromArgs(args))
			scanArgs.Save = true

			if err := workflow.Scan(ctx, scanArgs); err != nil {
				return err
			}

			denyDirs := viper.GetStringSlice(denyDirsConfigKey)
			skipDir := func(name string) bool {
				for _, denied := range denyDirs {
					if name == denied {
						return true
					}
				}

				return false
			}

			return treeWatcher.Watch(ctx, scanArgs.Root, watchDebounce, skipDir, func() {
				if err := workflow.Scan(ctx, scanArgs); err != nil {
					slog.Error("rescan failed", "root", scanArgs.Root, "error", err)
				}
			})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
