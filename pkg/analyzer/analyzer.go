// Package analyzer 编排一次文件变更的完整分析流程并生成报告
//
// 步骤顺序固定：格式化、lint、复杂度、自定义规则、版本历史
// 每个步骤的失败只写入报告的 error 缓冲区，不影响后续步骤
package analyzer

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yeisme/grumpy/pkg/complexity"
	"github.com/yeisme/grumpy/pkg/gitmeta"
	"github.com/yeisme/grumpy/pkg/messages"
	"github.com/yeisme/grumpy/pkg/models"
	"github.com/yeisme/grumpy/pkg/project"
	"github.com/yeisme/grumpy/pkg/rules"
	"github.com/yeisme/grumpy/pkg/utils/log"
)

// Options 控制分析阈值与语气
type Options struct {
	Grumpiness      models.GrumpinessLevel
	MaxFunctionSize int
	MaxComplexity   int
	// RulesPath 为规则文件路径，相对路径基于项目根目录
	RulesPath      string
	GitIntegration bool
	StaleDays      int
}

// Analyzer 执行分析流水线
type Analyzer struct {
	opts      Options
	tools     *project.Tools
	root      project.Root
	inspector gitmeta.Inspector
	log       log.Logger
	newRunID  func() string
}

// New 创建 Analyzer，inspector 为 nil 时跳过版本历史步骤
func New(opts Options, tools *project.Tools, root project.Root, inspector gitmeta.Inspector, logger log.Logger) *Analyzer {
	if logger == nil {
		logger = log.Nop()
	}
	return &Analyzer{
		opts:      opts,
		tools:     tools,
		root:      root,
		inspector: inspector,
		log:       logger,
		newRunID:  uuid.NewString,
	}
}

// run 收集一次分析的输出，并把每一行同步写入日志
type run struct {
	log    zerolog.Logger
	report Report
}

func (r *run) info(line string) {
	r.report.info = append(r.report.info, line)
	r.log.Info().Msg(line)
}

func (r *run) warn(line string) {
	r.report.warnings = append(r.report.warnings, line)
	r.log.Warn().Msg(line)
}

func (r *run) fail(line string, err error) {
	if err != nil {
		line += ": " + err.Error()
	}
	r.report.errors = append(r.report.errors, line)
	r.log.Error().Msg(line)
}

// AnalyzeChange 分析发生变化的文件
func (a *Analyzer) AnalyzeChange(ctx context.Context, path string) Report {
	rel := a.root.Rel(path)
	id := a.newRunID()
	r := &run{
		log:    a.log.With().Str("run_id", id).Str("file", rel).Logger(),
		report: Report{Path: rel, RunID: id},
	}

	r.info("Detected changes in \"" + rel + "\"")

	a.stepFormat(ctx, r, path)
	a.stepLint(ctx, r, path)
	a.stepComplexity(r, path)
	a.stepRules(r, path)
	a.stepHistory(ctx, r, path)

	return r.report
}

func (a *Analyzer) stepFormat(ctx context.Context, r *run, path string) {
	name := a.tools.FormatterName()
	if err := a.tools.RunFmt(ctx, path); err != nil {
		r.fail("❌ Failed to run '"+name+"'", err)
		return
	}
	r.info("✅ " + name + " successful!")
}

func (a *Analyzer) stepLint(ctx context.Context, r *run, path string) {
	name := a.tools.LinterName()
	rep, err := a.tools.RunLint(ctx)
	if err != nil {
		r.fail("❌ Failed to run '"+name+"'", err)
		return
	}
	if rep.Success() {
		r.info(messages.Text(messages.LintSuccess, a.opts.Grumpiness, name))
		return
	}
	if !rep.MentionedPath(a.root.Dir, path) {
		r.log.Debug().Int("exit_code", rep.ExitCode).Msgf("%s failed without mentioning the changed file", name)
		return
	}
	r.warn(messages.Text(messages.LintFailure, a.opts.Grumpiness, name))
	r.log.Warn().Msg(rep.Diagnostics(a.root.Dir, path))
}

func (a *Analyzer) stepComplexity(r *run, path string) {
	fm, err := complexity.AnalyzeFile(path)
	if errors.Is(err, complexity.ErrUnsupported) {
		r.log.Debug().Msg("no complexity frontend for this file type, skipping")
		return
	}
	if err != nil {
		r.fail("❌ Failed to analyze complexity", err)
		return
	}
	for _, fn := range fm.Functions {
		tooComplex, tooLong := fn.Exceeds(a.opts.MaxComplexity, a.opts.MaxFunctionSize)
		if tooComplex {
			r.warn(messages.Text(messages.Complexity, a.opts.Grumpiness, fn.Name, fn.CyclomaticComplexity, a.opts.MaxComplexity))
		}
		if tooLong {
			r.warn(messages.Text(messages.FunctionSize, a.opts.Grumpiness, fn.Name, fn.LinesOfCode, a.opts.MaxFunctionSize))
		}
	}
}

func (a *Analyzer) rulesPath() string {
	if a.opts.RulesPath == "" || filepath.IsAbs(a.opts.RulesPath) || a.root.Dir == "" {
		return a.opts.RulesPath
	}
	return filepath.Join(a.root.Dir, a.opts.RulesPath)
}

func (a *Analyzer) stepRules(r *run, path string) {
	rulesPath := a.rulesPath()
	if rulesPath == "" {
		return
	}
	defs, found, err := rules.Load(rulesPath)
	if err != nil {
		r.fail("❌ Failed to load custom rules", err)
		return
	}
	if !found {
		r.log.Debug().Str("rules", rulesPath).Msg("no rules file, skipping custom rules")
		return
	}

	src, err := os.ReadFile(path)
	if err != nil {
		r.fail("❌ Failed to read file for custom rules", err)
		return
	}
	_, violations, err := rules.Apply(defs, string(src))
	if err != nil {
		r.fail("❌ Failed to apply custom rules", err)
		return
	}
	for _, v := range violations {
		r.warn(v)
	}
}

func (a *Analyzer) stepHistory(ctx context.Context, r *run, path string) {
	if !a.opts.GitIntegration || a.inspector == nil {
		return
	}

	stale, err := a.inspector.IsStale(ctx, path, a.opts.StaleDays)
	if err != nil {
		r.fail("❌ Failed to check if file is stale", err)
	} else if stale {
		r.info(messages.Text(messages.Stale, a.opts.Grumpiness))
	}

	author, err := a.inspector.MostFrequentAuthor(ctx, path)
	if err != nil {
		r.fail("❌ Failed to get most frequent author", err)
		return
	}
	r.info(messages.Text(messages.Author, a.opts.Grumpiness, author))
}
