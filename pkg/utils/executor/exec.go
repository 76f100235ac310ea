// Package executor 运行外部工具（格式化器、linter、git），捕获输出并给出结构化错误
package executor

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

var ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// stripANSI 去除颜色控制码并修整空白
func stripANSI(s string) string {
	return strings.TrimSpace(ansiRegexp.ReplaceAllString(s, ""))
}

// ExecError 描述一次失败的工具调用
type ExecError struct {
	Cmd    string
	Args   []string
	Stderr string
	Err    error // 通常是 *exec.ExitError 或启动失败的错误
}

func (e *ExecError) Error() string {
	var b strings.Builder
	b.WriteString(e.Cmd)
	if len(e.Args) > 0 {
		b.WriteByte(' ')
		b.WriteString(strings.Join(e.Args, " "))
	}
	if code := e.ExitCode(); code >= 0 {
		b.WriteString(": exit status " + strconv.Itoa(code))
	} else if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	if stderr := e.CleanStderr(); stderr != "" {
		for _, l := range strings.Split(stderr, "\n") {
			b.WriteString("\n\t" + l)
		}
	}
	return b.String()
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// CleanStderr 返回去掉 ANSI 控制码的 stderr
func (e *ExecError) CleanStderr() string {
	return stripANSI(e.Stderr)
}

// ExitCode 返回进程退出码，进程没有运行结束时返回 -1
func (e *ExecError) ExitCode() int {
	var exitErr *exec.ExitError
	if errors.As(e.Err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// Spawned 报告进程是否启动并以非零状态退出
func (e *ExecError) Spawned() bool {
	return e.ExitCode() >= 0
}

// Command 是一次性的命令描述
type Command struct {
	Name string
	Args []string
	Dir  string
	Env  []string // 追加到当前进程环境之上
}

// Run 执行命令并分别返回 stdout 与 stderr，失败时两者仍然是已捕获的内容
func (c Command) Run(ctx context.Context) (stdout, stderr string, err error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(cmd.Environ(), c.Env...)
	}

	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut

	if runErr := cmd.Run(); runErr != nil {
		err = &ExecError{Cmd: c.Name, Args: c.Args, Stderr: errOut.String(), Err: runErr}
	}
	return out.String(), errOut.String(), err
}

// Output 只关心 stdout 的便捷版本
func (c Command) Output(ctx context.Context) (string, error) {
	stdout, _, err := c.Run(ctx)
	return stdout, err
}
