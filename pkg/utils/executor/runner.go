package executor

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Result 是一次外部命令调用的结果
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success 报告命令是否以 0 状态退出
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Output 返回去除 ANSI 控制码后的 stderr 与 stdout 拼接，用于诊断信息匹配
func (r Result) Output() string {
	stderr := strings.TrimSpace(ansiRegexp.ReplaceAllString(r.Stderr, ""))
	stdout := strings.TrimSpace(ansiRegexp.ReplaceAllString(r.Stdout, ""))
	switch {
	case stderr == "":
		return stdout
	case stdout == "":
		return stderr
	default:
		return stderr + "\n" + stdout
	}
}

// Runner 是运行外部工具的能力，测试中可替换为脚本化实现
//
// 进程以非零状态退出时返回 Result 且 error 为 nil；
// 进程无法启动时返回 *ExecError
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) (Result, error)
}

// CommandRunner 使用 os/exec 执行命令
type CommandRunner struct {
	// Timeout 为单次调用的超时时间，0 表示不限制
	Timeout time.Duration
}

// Run 实现 Runner
func (r CommandRunner) Run(ctx context.Context, dir, name string, args ...string) (Result, error) {
	if _, err := exec.LookPath(name); err != nil {
		return Result{ExitCode: -1}, &ExecError{Cmd: name, Args: args, Err: fmt.Errorf("%s not found in PATH: %w", name, err)}
	}
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	stdout, stderr, err := Command{Name: name, Args: args, Dir: dir}.Run(ctx)
	res := Result{Stdout: stdout, Stderr: stderr}
	if err == nil {
		return res, nil
	}

	var execErr *ExecError
	if errors.As(err, &execErr) && execErr.Spawned() && ctx.Err() == nil {
		res.ExitCode = execErr.ExitCode()
		return res, nil
	}
	res.ExitCode = -1
	return res, err
}
