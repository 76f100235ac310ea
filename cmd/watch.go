package cmd

import (
	stdctx "context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/yeisme/grumpy/pkg/state"
	"github.com/yeisme/grumpy/pkg/style"
	"github.com/yeisme/grumpy/pkg/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a project and review every saved file",
	Long: strings.TrimSpace(`
Watch a project directory and run the analysis pipeline every time a watched file changes.

Events are filtered by extension, ignore patterns and .gitignore, and debounced: changes
arriving within the debounce window of the last analysis are dropped, not delayed.

Examples:
  # Watch the current Go module
  grumpy watch

  # Watch a Rust crate with a ruder tone
  grumpy watch ./my-crate --profile rust -g rude

  # Only react to .rs files and lower the complexity limit
  grumpy watch --watch-files .rs --max-complexity 10
`),
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config := grumpyCtx.Config
		if len(args) > 0 {
			config.Watch.Dir = args[0]
		}
		if err := config.Validate(); err != nil {
			return err
		}

		a, root, err := newAnalyzer(config, config.Watch.Dir)
		if err != nil {
			return err
		}

		sessionLog := log.With().Str("session", uuid.NewString()).Logger()
		report := &state.Report{}
		w, err := watcher.New(config.Watch, a, report, &sessionLog)
		if err != nil {
			return err
		}

		sigCtx, stop := signal.NotifyContext(grumpyCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx, cancel := stdctx.WithCancel(sigCtx)
		defer cancel()

		running := state.NewRunFlag()
		sessionLog.Info().
			Str("project", root.Name).
			Str("grumpiness", config.Grumpiness().String()).
			Msg("grumpy is watching")

		g, gctx := errgroup.WithContext(ctx)
		// 信号处理：清除运行标志，监听循环在下一次轮询时退出
		g.Go(func() error {
			<-gctx.Done()
			running.Stop()
			return nil
		})
		g.Go(func() error {
			defer cancel()
			return w.Run(gctx, running)
		})
		if !config.App.Quiet {
			presenter := style.NewPresenter(cmd.OutOrStdout(), report, 0, 0)
			g.Go(func() error {
				return presenter.Run(gctx, running)
			})
		}
		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringSlice("watch-files", nil, "file extensions to watch, e.g. .go,.rs (leading dot optional)")
	watchCmd.Flags().StringSlice("ignore-patterns", nil, "regular expressions of paths to ignore, e.g. target/")
	watchCmd.Flags().Duration("debounce", 0, "minimum interval between two analyses")
	_ = viper.BindPFlag("watch.watch_files", watchCmd.Flags().Lookup("watch-files"))
	_ = viper.BindPFlag("watch.ignore_patterns", watchCmd.Flags().Lookup("ignore-patterns"))
	_ = viper.BindPFlag("watch.debounce", watchCmd.Flags().Lookup("debounce"))

	addAnalyzerFlags(watchCmd, checkCmd)
}
