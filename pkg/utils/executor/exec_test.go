package executor

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"strings"
	"testing"
)

func TestExecErrorFormatting(t *testing.T) {
	e := &ExecError{
		Cmd:    "gofmt",
		Args:   []string{"-l", "main.go"},
		Stderr: "\x1b[31mmain.go:1:1: expected 'package'\x1b[0m\n",
		Err:    errors.New("exit status 2"),
	}
	if got := e.CleanStderr(); got != "main.go:1:1: expected 'package'" {
		t.Fatalf("CleanStderr = %q", got)
	}
	if e.ExitCode() != -1 || e.Spawned() {
		t.Fatalf("plain error should not report an exit code")
	}
	msg := e.Error()
	if !strings.Contains(msg, "gofmt -l main.go") || !strings.Contains(msg, "\tmain.go:1:1") {
		t.Fatalf("unexpected message: %s", msg)
	}
}

// 测试非零退出码以 Result 返回而非 error
func TestCommandRunnerExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	res, err := CommandRunner{}.Run(context.Background(), t.TempDir(), "sh", "-c", "echo out; echo bad >&2; exit 3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ExitCode != 3 || res.Success() {
		t.Fatalf("exit code = %d", res.ExitCode)
	}
	if res.Output() != "bad\nout" {
		t.Fatalf("output = %q", res.Output())
	}
}

// 测试命令不存在时返回 ExecError
func TestCommandRunnerMissingBinary(t *testing.T) {
	_, err := CommandRunner{}.Run(context.Background(), "", "grumpy-definitely-missing-binary")
	var execErr *ExecError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected ExecError, got %v", err)
	}
	if execErr.Spawned() {
		t.Fatal("missing binary must not count as spawned")
	}
}

// 测试 Env 追加到进程环境
func TestCommandEnv(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	out, err := Command{Name: "sh", Args: []string{"-c", "printf %s \"$GRUMPY_PROBE\""}, Env: []string{"GRUMPY_PROBE=ok"}}.Output(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "ok" {
		t.Fatalf("output = %q", out)
	}
}
