package style

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

// Spinner 在单次分析期间于同一行刷新的进度指示
type Spinner struct {
	out  io.Writer
	msg  string
	stop chan bool
	done chan struct{}
}

// StartSpinner 立即开始绘制，调用方必须调用一次 Done
func StartSpinner(out io.Writer, msg string) *Spinner {
	s := &Spinner{out: out, msg: msg, stop: make(chan bool), done: make(chan struct{})}
	go s.loop(120 * time.Millisecond)
	return s
}

func (s *Spinner) loop(interval time.Duration) {
	defer close(s.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		fmt.Fprintf(s.out, "%s %c\r", s.msg, spinnerFrames[i%len(spinnerFrames)])
		select {
		case ok := <-s.stop:
			mark := lipgloss.NewStyle().Foreground(ColorSuccess).Render("✔")
			if !ok {
				mark = lipgloss.NewStyle().Foreground(ColorWarning).Render("✘")
			}
			fmt.Fprintf(s.out, "%s %s\n", s.msg, mark)
			return
		case <-ticker.C:
		}
	}
}

// Done 停止绘制，ok 为 false 时以 ✘ 结束该行
func (s *Spinner) Done(ok bool) {
	s.stop <- ok
	<-s.done
}
