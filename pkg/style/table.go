package style

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Table 是一张指标表，Flagged 中为 true 的行以警告色显示
type Table struct {
	Headers []string
	Rows    [][]string
	Flagged []bool
	// Width<=0 时使用终端宽度
	Width int
}

// Print 将表格写入 w
func (t Table) Print(w io.Writer) error {
	width := t.Width
	if width <= 0 {
		width = terminalWidth(w)
	}

	re := lipgloss.NewRenderer(w)
	cell := re.NewStyle().Padding(0, 1).Foreground(ColorText)
	header := cell.Foreground(ColorAccentPrimary).Bold(true)
	flagged := cell.Foreground(ColorWarning).Bold(true)

	headers := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		headers[i] = strings.ToUpper(h)
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(re.NewStyle().Foreground(ColorBorder)).
		Headers(headers...).
		Width(width).
		Rows(t.Rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case row >= 0 && row < len(t.Flagged) && t.Flagged[row]:
				return flagged
			}
			return cell
		})

	_, err := fmt.Fprintln(w, tbl)
	return err
}
