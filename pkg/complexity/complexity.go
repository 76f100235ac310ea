// Package complexity 计算源文件中每个顶层函数的结构化度量
//
// 所有语言前端共享同一套规则：圈复杂度从 1 开始，每个分支结构加 1 并使嵌套深度加 1；
// 闭包与函数字面量的函数体不计入；return 只计数；代码行数为函数体的顶层语句数量
package complexity

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yeisme/grumpy/pkg/models"
)

// ErrUnsupported 表示文件扩展名没有对应的语言前端
var ErrUnsupported = errors.New("unsupported language")

// tally 是一次子树遍历的累计结果，沿调用链向上返回
type tally struct {
	branches int // 分支结构数量
	maxDepth int // 子树中达到的最大嵌套深度
	returns  int
}

func (t tally) add(o tally) tally {
	return tally{
		branches: t.branches + o.branches,
		maxDepth: max(t.maxDepth, o.maxDepth),
		returns:  t.returns + o.returns,
	}
}

func (t tally) metrics(name string, statements, params int) models.FunctionMetrics {
	return models.FunctionMetrics{
		Name:                 name,
		LinesOfCode:          statements,
		CyclomaticComplexity: 1 + t.branches,
		MaxNestingDepth:      t.maxDepth,
		ReturnCount:          t.returns,
		ParamCount:           params,
	}
}

// frontend 将源码解析为函数度量列表
type frontend interface {
	Language() string
	Analyze(filename string, src []byte) ([]models.FunctionMetrics, error)
}

var frontends = map[string]frontend{
	".go": goFrontend{},
	".rs": rustFrontend{},
}

// Supported 报告该路径是否有可用的语言前端
func Supported(path string) bool {
	_, ok := frontends[strings.ToLower(filepath.Ext(path))]
	return ok
}

// AnalyzeSource 分析内存中的源码，语言由 filename 的扩展名决定
func AnalyzeSource(filename string, src []byte) (*models.FileMetrics, error) {
	fe, ok := frontends[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, filename)
	}
	fns, err := fe.Analyze(filename, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	return &models.FileMetrics{Path: filename, Language: fe.Language(), Functions: fns}, nil
}

// AnalyzeFile 读取并分析文件
func AnalyzeFile(path string) (*models.FileMetrics, error) {
	if !Supported(path) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return AnalyzeSource(path, src)
}
