package analyzer

import (
	"fmt"
	"slices"
	"strings"
)

// Report 是一次分析的结果，分为 info、warning、error 三个有序缓冲区
// 由 AnalyzeChange 构建，返回后不再修改
type Report struct {
	Path     string
	RunID    string
	info     []string
	warnings []string
	errors   []string
}

// Info 返回 info 缓冲区的副本
func (r Report) Info() []string { return slices.Clone(r.info) }

// Warnings 返回 warning 缓冲区的副本
func (r Report) Warnings() []string { return slices.Clone(r.warnings) }

// Errors 返回 error 缓冲区的副本
func (r Report) Errors() []string { return slices.Clone(r.errors) }

// HasProblems 报告是否存在警告或错误
func (r Report) HasProblems() bool {
	return len(r.warnings) > 0 || len(r.errors) > 0
}

// String 按 info、warning、error 的顺序拼接所有行，每行以换行结尾
func (r Report) String() string {
	var b strings.Builder
	for _, buf := range [][]string{r.info, r.warnings, r.errors} {
		for _, line := range buf {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Markdown 以 Markdown 形式渲染报告
func (r Report) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# grumpy report: `%s`\n\n", r.Path)
	sections := []struct {
		title string
		lines []string
	}{
		{"Info", r.info},
		{"Warnings", r.warnings},
		{"Errors", r.errors},
	}
	for _, s := range sections {
		if len(s.lines) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n", s.title)
		for _, line := range s.lines {
			first, rest, _ := strings.Cut(line, "\n")
			fmt.Fprintf(&b, "- %s\n", first)
			for _, l := range strings.Split(rest, "\n") {
				if l != "" {
					fmt.Fprintf(&b, "  %s\n", l)
				}
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
