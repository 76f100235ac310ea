package log

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/yeisme/grumpy/pkg/configs"
)

// 测试文件模式下 Close 会把缓冲日志写入文件
func TestFileModeFlushesOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "grumpy.log")
	svc, err := New(context.Background(), &configs.LogConfig{
		Level:    "debug",
		Mode:     "file",
		FilePath: path,
		MaxSize:  1,
	}, &configs.AppConfig{Name: "grumpy"})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	svc.Logger().Info().Msg("hello")
	svc.Logger().Warn().Msg("careful")
	svc.Logger().Trace().Msg("hidden")
	if err := svc.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	got := string(data)
	if !strings.Contains(got, "Info: hello") || !strings.Contains(got, "Warn: careful") {
		t.Fatalf("unexpected log content: %q", got)
	}
	if strings.Contains(got, "hidden") {
		t.Fatalf("trace entry should be filtered: %q", got)
	}
}

// 测试安静模式丢弃所有输出
func TestQuietMode(t *testing.T) {
	svc, err := New(context.Background(), &configs.LogConfig{Level: "debug"}, &configs.AppConfig{Quiet: true})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if svc.Logger().GetLevel() != zerolog.Disabled {
		t.Fatalf("expected disabled level, got %s", svc.Logger().GetLevel())
	}
	if err := svc.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
}

// 默认的 both 模式下 quiet 只关闭控制台，记录仍进入文件 sink
func TestQuietBothModeKeepsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grumpy.log")
	svc, err := New(context.Background(), &configs.LogConfig{
		Level:    "info",
		Mode:     "both",
		FilePath: path,
		MaxSize:  1,
	}, &configs.AppConfig{Quiet: true})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	svc.Logger().Warn().Msg("still recorded")
	if err := svc.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "Warn: still recorded") {
		t.Fatalf("unexpected log content: %q", data)
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"WARNING": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
