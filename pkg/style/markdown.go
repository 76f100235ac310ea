package style

import (
	"io"

	"github.com/charmbracelet/glamour"
)

const (
	minMarkdownWidth = 60
	maxMarkdownWidth = 120
)

// RenderMarkdown 用 glamour 渲染 Markdown 报告
//
// 终端中使用 theme（为空时 dracula），重定向到文件或管道时使用 notty 样式，
// width<=0 时跟随终端宽度，结果限制在 [60, 120]
func RenderMarkdown(w io.Writer, input string, width int, theme string) error {
	if width <= 0 {
		width = terminalWidth(w)
	}
	width = min(max(width, minMarkdownWidth), maxMarkdownWidth)

	styleOpt := glamour.WithStandardStyle("notty")
	if isTerminal(w) {
		if theme == "" {
			theme = "dracula"
		}
		styleOpt = glamour.WithStandardStyle(theme)
	}

	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return err
	}
	out, err := r.Render(input)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
