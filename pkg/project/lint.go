package project

import (
	"context"

	"github.com/yeisme/grumpy/pkg/utils/executor"
)

// LintReport 是一次项目级 lint 的结果
type LintReport struct {
	executor.Result
}

// MentionedPath 报告诊断输出是否引用了 path
func (r LintReport) MentionedPath(root, path string) bool {
	return MentionsPath(r.Output(), root, path)
}

// Diagnostics 返回与 path 相关的诊断片段
func (r LintReport) Diagnostics(root, path string) string {
	return ExtractDiagnostics(r.Output(), root, path)
}

// RunLint 在项目根目录执行 linter
// 只有工具无法启动时返回错误，非零退出通过 LintReport.Success 判断
func (t *Tools) RunLint(ctx context.Context) (LintReport, error) {
	res, err := t.run(ctx, t.Root, t.Toolchain.Linter, t.Toolchain.Linter.Args)
	if err != nil {
		return LintReport{Result: res}, err
	}
	return LintReport{Result: res}, nil
}
