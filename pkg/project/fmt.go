package project

import (
	"context"
)

// RunFmt 对单个文件执行格式化
// 工具无法启动或以非零状态退出时返回错误（后者为 *ToolError）
func (t *Tools) RunFmt(ctx context.Context, path string) error {
	res, err := t.run(ctx, t.Root, t.Toolchain.Formatter, t.Toolchain.FormatterArgs(path))
	if err != nil {
		return err
	}
	if !res.Success() {
		return &ToolError{Tool: t.FormatterName(), Result: res}
	}
	return nil
}
