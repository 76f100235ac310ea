package analyzer

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeisme/grumpy/pkg/configs"
	"github.com/yeisme/grumpy/pkg/models"
	"github.com/yeisme/grumpy/pkg/project"
	"github.com/yeisme/grumpy/pkg/utils/executor"
	"github.com/yeisme/grumpy/pkg/utils/log"
)

// scriptedRunner 按命令名返回预设结果
type scriptedRunner struct {
	results map[string]executor.Result
	errs    map[string]error
}

func (s *scriptedRunner) Run(_ context.Context, _, name string, _ ...string) (executor.Result, error) {
	return s.results[name], s.errs[name]
}

type fakeInspector struct {
	stale     bool
	staleErr  error
	author    string
	authorErr error
}

func (f fakeInspector) IsStale(context.Context, string, int) (bool, error) {
	return f.stale, f.staleErr
}

func (f fakeInspector) MostFrequentAuthor(context.Context, string) (string, error) {
	return f.author, f.authorErr
}

// complexSource 生成一个含 n 个顺序 if 的 Go 函数
func complexSource(n int) string {
	var b strings.Builder
	b.WriteString("package demo\n\nfunc busy(x int) int {\n")
	for i := 0; i < n; i++ {
		b.WriteString("\tif x > 0 {\n\t\tx--\n\t}\n")
	}
	b.WriteString("\treturn x\n}\n")
	return b.String()
}

type fixture struct {
	dir    string
	file   string
	runner *scriptedRunner
	logs   *bytes.Buffer
}

func newFixture(t *testing.T, src string) *fixture {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/demo\n"), 0o644))
	file := filepath.Join(dir, "busy.go")
	require.NoError(t, os.WriteFile(file, []byte(src), 0o644))
	return &fixture{
		dir:    dir,
		file:   file,
		runner: &scriptedRunner{results: map[string]executor.Result{}, errs: map[string]error{}},
		logs:   &bytes.Buffer{},
	}
}

func (f *fixture) analyzer(opts Options, inspector fakeInspector) *Analyzer {
	p, _ := configs.LookupProfile("go")
	tools := &project.Tools{
		Runner:    f.runner,
		Root:      f.dir,
		Toolchain: configs.ToolchainConfig{Profile: "go", Formatter: p.Formatter, Linter: p.Linter},
	}
	root := project.Root{Dir: f.dir, Name: "example.com/demo", Marker: "go.mod"}
	svc := log.NewWithWriter(f.logs, zerolog.DebugLevel)
	a := New(opts, tools, root, inspector, svc.Logger())
	a.newRunID = func() string { return "run-1" }
	return a
}

func defaultOptions() Options {
	return Options{
		Grumpiness:      models.Mild,
		MaxFunctionSize: 32,
		MaxComplexity:   10,
		RulesPath:       "rules.toml",
		GitIntegration:  true,
		StaleDays:       7,
	}
}

// 测试复杂度超限时恰好产生一条警告且没有错误
func TestComplexityWarning(t *testing.T) {
	f := newFixture(t, complexSource(11))
	a := f.analyzer(defaultOptions(), fakeInspector{author: "alice"})

	rep := a.AnalyzeChange(context.Background(), f.file)

	require.Len(t, rep.Warnings(), 1)
	assert.Contains(t, rep.Warnings()[0], "Function 'busy'")
	assert.Contains(t, rep.Warnings()[0], "(12 > 10)")
	assert.Empty(t, rep.Errors())
	assert.True(t, rep.HasProblems())

	info := rep.Info()
	require.NotEmpty(t, info)
	assert.Equal(t, `Detected changes in "busy.go"`, info[0])
	assert.Contains(t, info, "✅ gofmt successful!")
	assert.Contains(t, info, "✅ go vet successful")
	assert.Contains(t, info, "Git: file mostly edited by our star `alice`!")
}

// 测试每一行都以对应级别写入日志并带有 run_id
func TestLinesMirroredToLog(t *testing.T) {
	f := newFixture(t, complexSource(11))
	a := f.analyzer(defaultOptions(), fakeInspector{author: "alice"})
	a.AnalyzeChange(context.Background(), f.file)

	out := f.logs.String()
	assert.Contains(t, out, `"run_id":"run-1"`)
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, "Detected changes in")
}

// 测试格式化器与 linter 启动失败各自写入错误缓冲区，后续步骤照常执行
func TestToolFailuresAreIsolated(t *testing.T) {
	f := newFixture(t, complexSource(1))
	f.runner.errs["gofmt"] = errors.New("executable file not found")
	f.runner.errs["go"] = errors.New("no go toolchain")
	a := f.analyzer(defaultOptions(), fakeInspector{author: "bob"})

	rep := a.AnalyzeChange(context.Background(), f.file)

	require.Len(t, rep.Errors(), 2)
	assert.Equal(t, "❌ Failed to run 'gofmt': executable file not found", rep.Errors()[0])
	assert.Equal(t, "❌ Failed to run 'go vet': no go toolchain", rep.Errors()[1])
	assert.Empty(t, rep.Warnings())
	assert.Contains(t, rep.Info(), "Git: file mostly edited by our star `bob`!")
}

// 测试 lint 失败但未提及当前文件时被忽略
func TestLintFailureElsewhereIgnored(t *testing.T) {
	f := newFixture(t, complexSource(1))
	f.runner.results["go"] = executor.Result{ExitCode: 1, Stderr: "other.go:3:1: unreachable code"}
	a := f.analyzer(defaultOptions(), fakeInspector{})

	rep := a.AnalyzeChange(context.Background(), f.file)
	assert.Empty(t, rep.Warnings())
	assert.Empty(t, rep.Errors())
}

// 测试 lint 失败并提及当前文件时产生带语气的警告，诊断片段写入日志
func TestLintFailureMentioningFile(t *testing.T) {
	f := newFixture(t, complexSource(1))
	f.runner.results["go"] = executor.Result{ExitCode: 1, Stderr: "busy.go:5:2: x declared and not used"}
	opts := defaultOptions()
	opts.Grumpiness = models.Rude
	a := f.analyzer(opts, fakeInspector{})

	rep := a.AnalyzeChange(context.Background(), f.file)
	require.Len(t, rep.Warnings(), 1)
	assert.Contains(t, rep.Warnings()[0], "how utterly predictable")
	assert.Contains(t, f.logs.String(), "declared and not used")
}

// 测试规则文件相对项目根目录解析，违规写入警告
func TestCustomRules(t *testing.T) {
	f := newFixture(t, "package demo\n\n// TODO: remove panic\nfunc f() { panic(\"x\") }\n")
	rules := "[[rules]]\nname = \"no_todo_comments\"\nenabled = true\n\n[[rules]]\nname = \"forbid_word\"\nenabled = true\noption = \"panic\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, "rules.toml"), []byte(rules), 0o644))
	a := f.analyzer(defaultOptions(), fakeInspector{})

	rep := a.AnalyzeChange(context.Background(), f.file)
	require.Len(t, rep.Warnings(), 2)
	assert.True(t, strings.HasPrefix(rep.Warnings()[0], "Rule violation: no_todo_comments\n"))
	assert.True(t, strings.HasPrefix(rep.Warnings()[1], "Rule violation: forbid_word\n"))
	assert.Empty(t, rep.Errors())
}

// 测试未知规则产生错误行
func TestUnknownRuleIsError(t *testing.T) {
	f := newFixture(t, complexSource(1))
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, "rules.toml"), []byte("[[rules]]\nname = \"no_todo_coments\"\nenabled = true\n"), 0o644))
	a := f.analyzer(defaultOptions(), fakeInspector{})

	rep := a.AnalyzeChange(context.Background(), f.file)
	require.Len(t, rep.Errors(), 1)
	assert.Contains(t, rep.Errors()[0], "Failed to apply custom rules")
}

// 测试版本历史子查询失败各自成为一条错误
func TestHistoryFailures(t *testing.T) {
	f := newFixture(t, complexSource(1))
	a := f.analyzer(defaultOptions(), fakeInspector{
		staleErr:  errors.New("not a git repository"),
		authorErr: errors.New("not a git repository"),
	})

	rep := a.AnalyzeChange(context.Background(), f.file)
	require.Len(t, rep.Errors(), 2)
	assert.Contains(t, rep.Errors()[0], "Failed to check if file is stale")
	assert.Contains(t, rep.Errors()[1], "Failed to get most frequent author")
}

// 测试关闭版本历史后不产生 Git 行
func TestGitIntegrationDisabled(t *testing.T) {
	f := newFixture(t, complexSource(1))
	opts := defaultOptions()
	opts.GitIntegration = false
	a := f.analyzer(opts, fakeInspector{stale: true, author: "carol"})

	rep := a.AnalyzeChange(context.Background(), f.file)
	for _, line := range rep.Info() {
		assert.False(t, strings.HasPrefix(line, "Git:"), line)
	}
}

// 测试不支持的文件类型跳过复杂度分析
func TestUnsupportedFileSkipsComplexity(t *testing.T) {
	f := newFixture(t, "")
	toml := filepath.Join(f.dir, "Cargo.toml")
	require.NoError(t, os.WriteFile(toml, []byte("[package]\nname = \"x\"\n"), 0o644))
	a := f.analyzer(defaultOptions(), fakeInspector{stale: true})

	rep := a.AnalyzeChange(context.Background(), toml)
	assert.Empty(t, rep.Errors())
	assert.Empty(t, rep.Warnings())
	assert.Contains(t, rep.Info(), "Git: Hey there! Just a heads-up: file hasn't been updated in a while.")
}

func TestReportRendering(t *testing.T) {
	rep := Report{
		Path:     "src/main.rs",
		info:     []string{"a"},
		warnings: []string{"Rule violation: x\nmessage \"y\""},
	}
	assert.Equal(t, "a\nRule violation: x\nmessage \"y\"\n", rep.String())
	md := rep.Markdown()
	assert.Contains(t, md, "## Warnings")
	assert.Contains(t, md, "- Rule violation: x\n  message \"y\"\n")
	assert.NotContains(t, md, "## Errors")
}
