package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	xterm "github.com/charmbracelet/x/term"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/yeisme/grumpy/pkg/complexity"
	"github.com/yeisme/grumpy/pkg/configs"
	"github.com/yeisme/grumpy/pkg/style"
	"github.com/yeisme/grumpy/pkg/watcher"
)

var (
	checkMarkdown bool
	checkMetrics  bool
	checkStrict   bool

	checkCmd = &cobra.Command{
		Use:   "check [file]",
		Short: "Analyze a single file once",
		Long: strings.TrimSpace(`
Run the analysis pipeline once on a single file, as if it had just been saved.

Without an argument an interactive fuzzy finder lists the files grumpy would watch.

Examples:
  grumpy check src/main.rs --profile rust
  grumpy check internal/server.go --metrics
  grumpy check --markdown
  grumpy check main.go --strict   # exit 1 when there are warnings or errors
`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := grumpyCtx.Config
			if err := config.Validate(); err != nil {
				return err
			}

			var path string
			if len(args) > 0 {
				path = args[0]
			} else {
				var err error
				if path, err = pickFile(config); err != nil {
					return err
				}
			}
			if info, err := os.Stat(path); err != nil {
				return err
			} else if info.IsDir() {
				return fmt.Errorf("%s is a directory", path)
			}

			a, _, err := newAnalyzer(config, filepath.Dir(path))
			if err != nil {
				return err
			}

			var spinner *style.Spinner
			if !config.App.Quiet && xterm.IsTerminal(os.Stderr.Fd()) {
				spinner = style.StartSpinner(cmd.ErrOrStderr(), "Analyzing "+path)
			}
			report := a.AnalyzeChange(grumpyCtx, path)
			if spinner != nil {
				spinner.Done(!report.HasProblems())
			}

			out := cmd.OutOrStdout()
			if checkMarkdown {
				if err := style.RenderMarkdown(out, report.Markdown(), 0, ""); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(out, style.RenderReport(report.String(), 0))
			}

			if checkMetrics {
				if err := printMetrics(cmd, path); err != nil {
					return err
				}
			}

			if checkStrict && report.HasProblems() {
				return fmt.Errorf("%d warning(s), %d error(s)", len(report.Warnings()), len(report.Errors()))
			}
			return nil
		},
	}
)

// pickFile 在终端中用模糊查找选择一个被监听的文件
func pickFile(config *configs.Config) (string, error) {
	if !xterm.IsTerminal(os.Stdin.Fd()) {
		return "", errors.New("no file given and stdin is not a terminal")
	}
	w, err := watcher.New(config.Watch, nil, nil, log)
	if err != nil {
		return "", err
	}
	files, err := w.Files()
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no files matching %v under %s", config.Watch.WatchFiles, config.Watch.Dir)
	}

	cwd, _ := os.Getwd()
	display := func(i int) string {
		if rel, err := filepath.Rel(cwd, files[i]); err == nil {
			return rel
		}
		return files[i]
	}
	idx, err := fuzzyfinder.Find(files, display,
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i < 0 {
				return ""
			}
			return previewMetrics(files[i])
		}))
	if err != nil {
		return "", err
	}
	return files[idx], nil
}

// previewMetrics 在查找器预览窗口中显示函数度量
func previewMetrics(path string) string {
	fm, err := complexity.AnalyzeFile(path)
	if err != nil {
		return err.Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n\n", filepath.Base(path), fm.Language)
	for _, fn := range fm.Functions {
		fmt.Fprintf(&b, "%-32s cc=%-3d loc=%-3d depth=%d\n", fn.Name, fn.CyclomaticComplexity, fn.LinesOfCode, fn.MaxNestingDepth)
	}
	return b.String()
}

func printMetrics(cmd *cobra.Command, path string) error {
	fm, err := complexity.AnalyzeFile(path)
	if errors.Is(err, complexity.ErrUnsupported) {
		log.Info().Msgf("No complexity metrics for %s", path)
		return nil
	}
	if err != nil {
		return err
	}

	config := grumpyCtx.Config.Analyzer
	tbl := style.Table{Headers: []string{"function", "complexity", "statements", "depth", "returns", "params"}}
	for _, fn := range fm.Functions {
		tooComplex, tooLong := fn.Exceeds(config.MaxComplexity, config.MaxFunctionSize)
		tbl.Rows = append(tbl.Rows, []string{
			fn.Name,
			strconv.Itoa(fn.CyclomaticComplexity),
			strconv.Itoa(fn.LinesOfCode),
			strconv.Itoa(fn.MaxNestingDepth),
			strconv.Itoa(fn.ReturnCount),
			strconv.Itoa(fn.ParamCount),
		})
		tbl.Flagged = append(tbl.Flagged, tooComplex || tooLong)
	}
	return tbl.Print(cmd.OutOrStdout())
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVarP(&checkMarkdown, "markdown", "m", false, "render the report as Markdown")
	checkCmd.Flags().BoolVar(&checkMetrics, "metrics", false, "print a table of per-function metrics")
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "exit with status 1 when the report has warnings or errors")
}
