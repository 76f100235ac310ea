// Package gitignore provides utilities for parsing and matching .gitignore patterns.
package gitignore

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// GitIgnore represents a collection of gitignore patterns
//
// 匹配由 go-gitignore 完成，root 非空时绝对路径会先转换为相对于 root 的路径
type GitIgnore struct {
	root     string
	patterns []string
	matcher  *ignore.GitIgnore
}

// LoadGitIgnore loads and parses a .gitignore file from the specified path
func LoadGitIgnore(gitignorePath string) (*GitIgnore, error) {
	file, err := os.Open(gitignorePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// 文件不存在时返回空规则
			return &GitIgnore{root: filepath.Dir(gitignorePath)}, nil
		}
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	gi := ParseGitIgnoreLines(lines)
	gi.root = filepath.Dir(gitignorePath)
	return gi, nil
}

// LoadGitIgnoreFromDir loads .gitignore file from the specified directory
func LoadGitIgnoreFromDir(dirPath string) (*GitIgnore, error) {
	return LoadGitIgnore(filepath.Join(dirPath, ".gitignore"))
}

// ParseGitIgnoreLines parses gitignore patterns from a slice of strings
func ParseGitIgnoreLines(lines []string) *GitIgnore {
	var patterns []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return &GitIgnore{
		patterns: patterns,
		matcher:  ignore.CompileIgnoreLines(patterns...),
	}
}

// GetPatterns returns all loaded patterns
func (gi *GitIgnore) GetPatterns() []string {
	if gi == nil {
		return nil
	}
	return gi.patterns
}

// Empty 报告是否没有任何规则
func (gi *GitIgnore) Empty() bool {
	return gi == nil || len(gi.patterns) == 0
}

func (gi *GitIgnore) relative(path string) (string, bool) {
	if gi.root != "" && filepath.IsAbs(path) {
		root, err := filepath.Abs(gi.root)
		if err != nil {
			return "", false
		}
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			// 不在 root 之下的路径不受此 .gitignore 约束
			return "", false
		}
		path = rel
	}
	return filepath.ToSlash(path), true
}

// IsIgnored checks if a file path should be ignored, negation patterns included
func (gi *GitIgnore) IsIgnored(path string) bool {
	if gi.Empty() || gi.matcher == nil {
		return false
	}
	rel, ok := gi.relative(path)
	if !ok || rel == "." {
		return false
	}
	return gi.matcher.MatchesPath(rel)
}

// IsDirIgnored 与 IsIgnored 相同，但同时匹配只针对目录的规则（以 / 结尾）
func (gi *GitIgnore) IsDirIgnored(path string) bool {
	if gi.IsIgnored(path) {
		return true
	}
	if gi.Empty() || gi.matcher == nil {
		return false
	}
	rel, ok := gi.relative(path)
	if !ok || rel == "." {
		return false
	}
	return gi.matcher.MatchesPath(strings.TrimSuffix(rel, "/") + "/")
}
