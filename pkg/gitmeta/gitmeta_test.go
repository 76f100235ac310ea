package gitmeta

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shaA = "1111111111111111111111111111111111111111"
const shaB = "2222222222222222222222222222222222222222"

func porcelain() string {
	return strings.Join([]string{
		shaA + " 1 1 2",
		"author Alice",
		"author-mail <alice@example.com>",
		"author-time 1700000000",
		"author-tz +0000",
		"summary init",
		"filename main.go",
		"\tpackage main",
		shaA + " 2 2",
		"\t",
		shaB + " 3 3 1",
		"author Bob",
		"author-time 1700864000",
		"previous " + shaA + " main.go",
		"filename main.go",
		"\tfunc main() {}",
		shaA + " 4 4 1",
		"filename main.go",
		"\t// author Mallory",
	}, "\n") + "\n"
}

func TestParseBlame(t *testing.T) {
	b, err := ParseBlame(strings.NewReader(porcelain()))
	require.NoError(t, err)
	require.Len(t, b.Hunks, 3)

	assert.Equal(t, "Alice", b.Hunks[0].Author)
	assert.Equal(t, 2, b.Hunks[0].Lines)
	assert.Equal(t, "Bob", b.Hunks[1].Author)
	assert.Equal(t, "Alice", b.Hunks[2].Author)
	assert.Equal(t, time.Unix(1700864000, 0), b.Latest())
	assert.Equal(t, "Alice", b.MostFrequentAuthor())

	// 最新提交 10 天后
	now := time.Unix(1700864000+10*86400+100, 0)
	assert.Equal(t, int64(10), b.AgeDays(now))
}

// 工作区中未提交的行不计入作者与时间
func TestParseBlameSkipsUncommitted(t *testing.T) {
	zero := strings.Repeat("0", 40)
	out := strings.Join([]string{
		zero + " 1 1 3",
		"author Not Committed Yet",
		"author-time 1900000000",
		"filename old.go",
		"\tpackage demo",
		shaA + " 1 4 1",
		"author Alice",
		"author-time 1700000000",
		"filename old.go",
		"\tfunc f() {}",
	}, "\n") + "\n"

	b, err := ParseBlame(strings.NewReader(out))
	require.NoError(t, err)
	require.Len(t, b.Hunks, 1)
	assert.Equal(t, "Alice", b.MostFrequentAuthor())
	assert.Equal(t, time.Unix(1700000000, 0), b.Latest())
}

func TestMostFrequentAuthorTieAndEmpty(t *testing.T) {
	b := &Blame{Hunks: []Hunk{{Author: "zed"}, {Author: "amy"}}}
	assert.Equal(t, "amy", b.MostFrequentAuthor())
	assert.Equal(t, "", (&Blame{}).MostFrequentAuthor())
}

func TestUnavailable(t *testing.T) {
	boom := errors.New("no git")
	u := Unavailable{Err: boom}
	_, err := u.IsStale(context.Background(), "x", 7)
	assert.ErrorIs(t, err, boom)
	_, err = u.MostFrequentAuthor(context.Background(), "x")
	assert.ErrorIs(t, err, boom)
}

func gitRun(t *testing.T, ctx context.Context, dir string, env []string, args ...string) {
	t.Helper()
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", dir}, args...)...)
	cmd.Env = append(os.Environ(), env...)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
}

// 测试真实仓库中的陈旧判断与作者统计
func TestGitInspector(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	ctx := context.Background()
	dir := t.TempDir()
	gitRun(t, ctx, dir, nil, "init")
	gitRun(t, ctx, dir, nil, "config", "user.name", "Test User")
	gitRun(t, ctx, dir, nil, "config", "user.email", "test@example.com")

	file := filepath.Join(dir, "old.go")
	require.NoError(t, os.WriteFile(file, []byte("package demo\n"), 0o644))
	gitRun(t, ctx, dir, nil, "add", "old.go")
	old := []string{
		"GIT_AUTHOR_DATE=2020-01-01T00:00:00Z",
		"GIT_COMMITTER_DATE=2020-01-01T00:00:00Z",
	}
	gitRun(t, ctx, dir, old, "commit", "-m", "old")

	g, err := NewGit(ctx)
	require.NoError(t, err)

	stale, err := g.IsStale(ctx, file, 7)
	require.NoError(t, err)
	assert.True(t, stale)

	g.now = func() time.Time { return time.Date(2020, 1, 3, 0, 0, 0, 0, time.UTC) }
	stale, err = g.IsStale(ctx, file, 7)
	require.NoError(t, err)
	assert.False(t, stale)

	author, err := g.MostFrequentAuthor(ctx, file)
	require.NoError(t, err)
	assert.Equal(t, "Test User", author)

	// 刚保存但尚未提交的修改按 HEAD 统计
	g.now = time.Now
	require.NoError(t, os.WriteFile(file, []byte("package demo\n\nfunc Edited() {}\n"), 0o644))
	stale, err = g.IsStale(ctx, file, 7)
	require.NoError(t, err)
	assert.True(t, stale)
	author, err = g.MostFrequentAuthor(ctx, file)
	require.NoError(t, err)
	assert.Equal(t, "Test User", author)

	// 未跟踪的文件查询失败
	untracked := filepath.Join(dir, "new.go")
	require.NoError(t, os.WriteFile(untracked, []byte("package demo\n"), 0o644))
	_, err = g.MostFrequentAuthor(ctx, untracked)
	assert.Error(t, err)
}
