// Package cmd provides the root command and CLI setup for driftwood.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"driftwood.dev/pkg/driftwood/internal/adapter"
	"driftwood.dev/pkg/driftwood/internal/controller"
	"driftwood.dev/pkg/driftwood/internal/domain"
	m "driftwood.dev/pkg/driftwood/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var reportStore adapter.ReportStore
var treeWatcher adapter.Watcher
var workflow domain.Workflow
var ui controller.UI

// reportsOutputDirFlag is a root-level flag shared by commands that read/write reports.
var reportsOutputDirFlag string

// excludePatterns is a root-level flag that filters files for applicable commands.
var excludePatterns []string

var formatFlag string
var noGitignoreFlag bool
var parallelFlag int
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	reportStore = adapter.NewReportStore()
	treeWatcher = adapter.NewFSNotifyWatcher()
	workflow = domain.NewWorkflow(
		fsAdapter,
		reportStore,
		ui,
		domain.NewDiscoverer(fsAdapter),
		domain.NewGraphBuilder(fsAdapter, domain.NewExtractor()),
		domain.NewClassifier(),
		domain.NewCascadeAnalyzer(),
	)
}

const rootHelp = `A root directory may be given as the first argument (default: current
directory). Only .ts, .tsx, .js and .jsx files are analyzed; node_modules,
build output and VCS directories are skipped.`

const rootLongDescription = `Driftwood finds source files nobody imports anymore. It builds a static
import graph of a JavaScript/TypeScript project, reports files with no
inbound references, and rates how safe each one is to delete.

` + rootHelp

const scanLongDescription = `Scan the project tree, report orphaned files ranked by deletion safety,
and save the analysis and graph snapshot to the reports directory.

` + rootHelp

const listLongDescription = `List every analyzed file with its inbound and outbound reference counts.

` + rootHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "driftwood",
		Short: "Find orphaned files in JS/TS projects",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetBool(verboseFlagName))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for analysis reports",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude files matching glob (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().StringVar(&formatFlag, formatFlagName, viper.GetString(formatFlagName), "report format: yaml or json")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(formatFlagName), formatFlagName)

	cmd.PersistentFlags().BoolVar(&noGitignoreFlag, noGitignoreFlagName, viper.GetBool(gitignoreConfigKey), "do not honor .gitignore at the scan root")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(noGitignoreFlagName), gitignoreConfigKey)

	cmd.PersistentFlags().IntVarP(&parallelFlag, parallelFlagName, "p", viper.GetInt(parallelConfigKey), "number of files parsed concurrently")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(parallelFlagName), parallelConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", false, "enable debug logging")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), verboseFlagName)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}

// rootFromArgs returns the scan root: the first positional argument, or the
// current directory.
func rootFromArgs(args []string) m.Path {
	if len(args) > 0 {
		return m.Path(args[0])
	}

	return "."
}

// scanArgsFromConfig assembles ScanArgs from the effective flag/config/env
// values for the given root.
func scanArgsFromConfig(root m.Path) domain.ScanArgs {
	return domain.ScanArgs{
		Root:         root,
		Extensions:   viper.GetStringSlice(extensionsConfigKey),
		DenyDirs:     viper.GetStringSlice(denyDirsConfigKey),
		ExcludeGlobs: viper.GetStringSlice(excludeConfigKey),
		UseGitignore: !viper.GetBool(gitignoreConfigKey),
		Threads:      viper.GetInt(parallelConfigKey),
		Reports:      m.Path(viper.GetString(outputFlagName)),
		Format:       viper.GetString(formatFlagName),
	}
}
