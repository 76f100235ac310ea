// Package project 封装对项目级外部工具（格式化器、linter）的调用以及项目根目录的定位
package project

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yeisme/grumpy/pkg/configs"
	"github.com/yeisme/grumpy/pkg/utils/executor"
)

// Tools 运行配置好的格式化器与 linter
type Tools struct {
	Runner    executor.Runner
	Toolchain configs.ToolchainConfig
	// Root 为项目根目录，linter 在此目录下运行
	Root string
}

// FormatterName 返回格式化器的显示名称，例如 "gofmt"、"cargo fmt"
func (t *Tools) FormatterName() string {
	return displayName(t.Toolchain.Formatter)
}

// LinterName 返回 linter 的显示名称，例如 "go vet"、"cargo clippy"
func (t *Tools) LinterName() string {
	return displayName(t.Toolchain.Linter)
}

func displayName(c configs.Command) string {
	name := filepath.Base(c.Cmd)
	if len(c.Args) > 0 && !strings.HasPrefix(c.Args[0], "-") && !strings.Contains(c.Args[0], configs.PathPlaceholder) {
		name += " " + c.Args[0]
	}
	return name
}

// ToolError 表示工具已运行但以非零状态退出
type ToolError struct {
	Tool   string
	Result executor.Result
}

func (e *ToolError) Error() string {
	out := e.Result.Output()
	if out == "" {
		return fmt.Sprintf("%s exited with status %d", e.Tool, e.Result.ExitCode)
	}
	return fmt.Sprintf("%s exited with status %d: %s", e.Tool, e.Result.ExitCode, out)
}

func (t *Tools) run(ctx context.Context, dir string, c configs.Command, args []string) (executor.Result, error) {
	return t.Runner.Run(ctx, dir, c.Cmd, args...)
}
