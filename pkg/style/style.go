// Package style 负责 grumpy 的终端渲染：报告面板、表格、Markdown 与 JSON
package style

import "github.com/charmbracelet/lipgloss"

const (
	// 品牌色，标题背景
	ColorAccentPrimary = lipgloss.Color("#33A1FF")
	// 品牌色背景上的文字
	ColorAccentText = lipgloss.Color("#FFFFFF")

	ColorText   = lipgloss.Color("#E4E4E4")
	ColorBorder = lipgloss.Color("#444444")

	// 错误、工具调用失败、禁用的规则
	ColorDanger = lipgloss.Color("#FF5555")
	// 成功
	ColorSuccess = lipgloss.Color("#22C55E")
	// 复杂度超限、规则违规
	ColorWarning = lipgloss.Color("#F5A524")
	// 版本历史等提示信息
	ColorMuted = lipgloss.Color("#9CA3AF")
)
