// Package gitmeta 通过 git 命令行查询文件的版本历史元数据
package gitmeta

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/yeisme/grumpy/pkg/utils/executor"
)

// Inspector 查询文件的版本历史，两个查询互相独立，各自失败
type Inspector interface {
	// IsStale 报告文件最近一次提交是否早于 staleDays 天
	IsStale(ctx context.Context, path string, staleDays int) (bool, error)
	// MostFrequentAuthor 返回拥有最多 blame hunk 的作者，没有时返回空字符串
	MostFrequentAuthor(ctx context.Context, path string) (string, error)
}

// Git implements Inspector using the git CLI.
type Git struct {
	gitPath string
	now     func() time.Time
}

var _ Inspector = (*Git)(nil)

// NewGit creates a new Git instance.
// It verifies that git is available on the system.
func NewGit(ctx context.Context) (*Git, error) {
	gitPath, err := exec.LookPath("git")
	if err != nil {
		return nil, fmt.Errorf("git not found in PATH: %w", err)
	}

	// Verify git works
	if _, err := (executor.Command{Name: gitPath, Args: []string{"version"}}).Output(ctx); err != nil {
		return nil, fmt.Errorf("git command failed: %w", err)
	}

	return &Git{gitPath: gitPath, now: time.Now}, nil
}

// Blame 对文件在 HEAD 上执行 git blame --porcelain，工作区中未提交的修改不参与统计
func (g *Git) Blame(ctx context.Context, path string) (*Blame, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	dir, base := filepath.Split(abs)

	out, err := executor.Command{
		Name: g.gitPath,
		Args: []string{"-C", dir, "blame", "--porcelain", "HEAD", "--", base},
		Env:  []string{"LC_ALL=C"},
	}.Output(ctx)
	if err != nil {
		return nil, fmt.Errorf("git blame failed for %s: %w", path, err)
	}
	return ParseBlame(strings.NewReader(out))
}

// IsStale 实现 Inspector
func (g *Git) IsStale(ctx context.Context, path string, staleDays int) (bool, error) {
	b, err := g.Blame(ctx, path)
	if err != nil {
		return false, err
	}
	return b.AgeDays(g.now()) > int64(staleDays), nil
}

// MostFrequentAuthor 实现 Inspector
func (g *Git) MostFrequentAuthor(ctx context.Context, path string) (string, error) {
	b, err := g.Blame(ctx, path)
	if err != nil {
		return "", err
	}
	return b.MostFrequentAuthor(), nil
}

// Unavailable 是 git 不可用时使用的 Inspector，所有查询都返回同一个错误
type Unavailable struct {
	Err error
}

// IsStale 实现 Inspector
func (u Unavailable) IsStale(context.Context, string, int) (bool, error) {
	return false, u.Err
}

// MostFrequentAuthor 实现 Inspector
func (u Unavailable) MostFrequentAuthor(context.Context, string) (string, error) {
	return "", u.Err
}
