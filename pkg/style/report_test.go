package style

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/yeisme/grumpy/pkg/state"
)

func init() {
	// 测试中关闭颜色，便于断言
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestRenderReportTruncates(t *testing.T) {
	text := "Detected changes in \"src/main.rs\"\n" + strings.Repeat("x", 200) + "\n"
	out := RenderReport(text, 40)
	if !strings.Contains(out, "Detected changes") {
		t.Fatalf("missing header: %s", out)
	}
	if !strings.Contains(out, "…") {
		t.Errorf("expected long line to be truncated: %s", out)
	}
	for _, line := range strings.Split(out, "\n") {
		if w := lipgloss.Width(line); w > 40 {
			t.Errorf("line wider than 40 (%d): %q", w, line)
		}
	}
}

// 测试只有新版本才会重新绘制
func TestPresenterRefresh(t *testing.T) {
	var buf bytes.Buffer
	rep := &state.Report{}
	p := NewPresenter(&buf, rep, 0, 60)

	if drawn, err := p.Refresh(); err != nil || drawn {
		t.Fatalf("empty report should not be drawn: drawn=%v err=%v", drawn, err)
	}
	rep.Set("✅ gofmt successful!\n")
	if drawn, _ := p.Refresh(); !drawn {
		t.Fatal("expected new revision to be drawn")
	}
	if drawn, _ := p.Refresh(); drawn {
		t.Fatal("same revision drawn twice")
	}
	if !strings.Contains(buf.String(), "gofmt successful") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}
