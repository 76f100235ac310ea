// Package cmd provides command-line interface commands for grumpy
package cmd

import (
	stdctx "context"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yeisme/grumpy/pkg/context"
	log2 "github.com/yeisme/grumpy/pkg/utils/log"
	"github.com/yeisme/grumpy/pkg/utils/version"
)

var (
	grumpyCtx *context.GrumpyContext
	log       log2.Logger = log2.Nop()

	// Global flags
	globalFlags       context.GlobalFlags
	cpuProfileFlag    string
	versionEnableFlag bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "grumpy",
	Short: "grumpy watches your project and complains about your code",
	Long: `grumpy is a change-triggered code reviewer. Every time a watched file is saved it
runs the formatter and the linter, measures function complexity, applies your custom
rules and looks at the version history, then tells you what it thinks in the tone you chose.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		if versionEnableFlag {
			fmt.Fprintln(cmd.OutOrStdout(), version.GetShortVersionString())
			return
		}
		if len(args) == 0 {
			_ = cmd.Help()
		}
	},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if cpuProfileFlag != "" {
			f, err := os.Create(cpuProfileFlag)
			if err != nil {
				return fmt.Errorf("could not create CPU profile: %w", err)
			}
			if err := pprof.StartCPUProfile(f); err != nil {
				return fmt.Errorf("could not start CPU profile: %w", err)
			}
		}

		ctx, err := context.InitGrumpyContext(cmd.Context(), globalFlags)
		if err != nil {
			return err
		}
		grumpyCtx = ctx
		log = ctx.Logger()

		log.Debug().Msgf("Execute Command: %s %s", "grumpy", strings.Join(os.Args[1:], " "))
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if cpuProfileFlag != "" {
			pprof.StopCPUProfile()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.ExecuteContext(stdctx.Background())
	// 日志写入是异步的，退出前必须刷新
	if cerr := grumpyCtx.Close(); cerr != nil {
		fmt.Fprintf(os.Stderr, "failed to flush logs: %v\n", cerr)
	}
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&globalFlags.ConfigPath, "config", "c", "", "config file")
	rootCmd.PersistentFlags().StringVar(&cpuProfileFlag, "cpu-profile", "", "write cpu profile to `file`")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.Debug, "debug", false, "enable debug mode (prints additional information)")
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.Verbose, "verbose", "V", false, "enable verbose output (prints more detailed information)")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.Quiet, "quiet", false, "suppress all log output")
	rootCmd.Flags().BoolVarP(&versionEnableFlag, "version", "v", false, "show version information")
}
