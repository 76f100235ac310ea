package style

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/yeisme/grumpy/pkg/state"
)

// lineStyle 按行首标记选择样式
func lineStyle(line string) lipgloss.Style {
	base := lipgloss.NewStyle().Foreground(ColorText)
	switch {
	case strings.HasPrefix(line, "Detected changes"):
		return base.Foreground(ColorAccentPrimary).Bold(true)
	case strings.HasPrefix(line, "✅"):
		return base.Foreground(ColorSuccess)
	case strings.HasPrefix(line, "❌"):
		return base.Foreground(ColorDanger)
	case strings.HasPrefix(line, "Function '"), strings.HasPrefix(line, "Rule violation"):
		return base.Foreground(ColorWarning)
	case strings.HasPrefix(line, "Git:"):
		return base.Foreground(ColorMuted).Italic(true)
	}
	return base
}

// RenderReport 把报告文本渲染为带边框的面板，超宽的行按显示宽度截断
func RenderReport(text string, width int) string {
	if width <= 0 {
		width = 80
	}
	inner := max(width-4, 10) // 边框与内边距

	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	rendered := make([]string, 0, len(lines))
	for _, line := range lines {
		line = runewidth.Truncate(line, inner, "…")
		rendered = append(rendered, lineStyle(line).Render(line))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(0, 1).
		Width(inner + 2)
	return box.Render(strings.Join(rendered, "\n"))
}

// Presenter 是共享报告的读取方，发现新版本时重新绘制
type Presenter struct {
	out      io.Writer
	report   *state.Report
	interval time.Duration
	width    int
	last     uint64
}

// NewPresenter 创建展示器，width<=0 时自动探测终端宽度
func NewPresenter(out io.Writer, report *state.Report, interval time.Duration, width int) *Presenter {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	if width <= 0 {
		width = terminalWidth(out)
	}
	return &Presenter{out: out, report: report, interval: interval, width: width}
}

// Refresh 在报告有新版本时输出，返回是否输出
func (p *Presenter) Refresh() (bool, error) {
	text, rev := p.report.Get()
	if rev == p.last {
		return false, nil
	}
	p.last = rev
	stamp := lipgloss.NewStyle().Foreground(ColorMuted).Render(time.Now().Format("15:04:05"))
	_, err := fmt.Fprintf(p.out, "%s\n%s\n", stamp, RenderReport(text, p.width))
	return true, err
}

// Run 定期检查共享报告，直到 running 被清除或 ctx 结束
func (p *Presenter) Run(ctx context.Context, running *state.RunFlag) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for running.Running() {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := p.Refresh(); err != nil {
				return err
			}
		}
	}
	// 退出前补上最后一次写入
	_, err := p.Refresh()
	return err
}
