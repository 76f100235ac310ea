package style

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Item 是一个带说明的可启用条目，例如自定义规则
type Item struct {
	Name        string
	Description string
	Enabled     bool
}

// PrintHeading 打印一个区块标题
func PrintHeading(w io.Writer, title string) error {
	style := lipgloss.NewStyle().
		Foreground(ColorAccentText).
		Background(ColorAccentPrimary).
		Bold(true).
		Padding(0, 1)
	_, err := fmt.Fprintln(w, style.Render(strings.ToUpper(title)))
	return err
}

// PrintItemList 以对齐的方式打印条目列表，禁用的条目以危险色显示
func PrintItemList(w io.Writer, items []Item) error {
	if len(items) == 0 {
		return nil
	}
	// 按显示宽度对齐
	maxName := 0
	for _, it := range items {
		maxName = max(maxName, runewidth.StringWidth(it.Name))
	}

	nameEnabled := lipgloss.NewStyle().Foreground(ColorAccentPrimary).Bold(true)
	nameDisabled := lipgloss.NewStyle().Foreground(ColorDanger)
	descStyle := lipgloss.NewStyle().Foreground(ColorText)

	for _, it := range items {
		name := nameDisabled.Render(it.Name)
		if it.Enabled {
			name = nameEnabled.Render(it.Name)
		}
		padding := strings.Repeat(" ", maxName-runewidth.StringWidth(it.Name))
		line := fmt.Sprintf("  %s%s  %s", name, padding, descStyle.Render(it.Description))
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
