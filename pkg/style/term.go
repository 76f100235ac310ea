package style

import (
	"io"
	"os"
	"strconv"

	xterm "github.com/charmbracelet/x/term"
)

const fallbackWidth = 80

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && xterm.IsTerminal(f.Fd())
}

// terminalWidth 返回 w 所在终端的列数
// 不是终端时依次尝试 COLUMNS 环境变量和 fallbackWidth
func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if cols, _, err := xterm.GetSize(f.Fd()); err == nil && cols > 0 {
			return cols
		}
	}
	if n, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && n > 0 {
		return n
	}
	return fallbackWidth
}
