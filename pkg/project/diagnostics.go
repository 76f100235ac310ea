package project

import (
	"path/filepath"
	"regexp"
	"strings"
)

// goLocationRE 匹配 Go 工具链风格的位置行，例如 "./pkg/a.go:12:3: ..."
var goLocationRE = regexp.MustCompile(`^\S+\.\w+:\d+(:\d+)?:`)

// IsLocationMarker 判断一行诊断输出是否为位置标记行
// rustc/clippy 使用 "--> path:line:col"，Go 工具使用 "path:line:col:"
func IsLocationMarker(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "--> ") || goLocationRE.MatchString(trimmed)
}

// pathCandidates 返回用于匹配的路径形式：相对项目根目录的路径和绝对路径
func pathCandidates(root, path string) []string {
	var out []string
	abs, err := filepath.Abs(path)
	if err == nil {
		out = append(out, filepath.ToSlash(abs))
	}
	if root != "" {
		if rootAbs, err := filepath.Abs(root); err == nil && abs != "" {
			if rel, err := filepath.Rel(rootAbs, abs); err == nil && !strings.HasPrefix(rel, "..") {
				out = append(out, filepath.ToSlash(rel))
			}
		}
	}
	if len(out) == 0 {
		out = append(out, filepath.ToSlash(path))
	}
	return out
}

// lineMentions 判断 line 中是否以完整路径片段的形式出现 p
// "a.go" 不会匹配 "data.go"
func lineMentions(line, p string) bool {
	line = filepath.ToSlash(line)
	for i := 0; ; {
		idx := strings.Index(line[i:], p)
		if idx < 0 {
			return false
		}
		start := i + idx
		end := start + len(p)
		if (start == 0 || isPathBoundary(line[start-1])) && (end == len(line) || !isPathChar(line[end])) {
			return true
		}
		i = start + 1
	}
}

func isPathBoundary(c byte) bool {
	return c == '/' || c == ' ' || c == '\t' || c == '>' || c == '"' || c == '\''
}

func isPathChar(c byte) bool {
	return c == '_' || c == '-' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func markerMentions(line string, candidates []string) bool {
	for _, p := range candidates {
		if lineMentions(line, p) {
			return true
		}
	}
	return false
}

// MentionsPath 报告诊断输出中是否有位置标记行引用了 path
func MentionsPath(output, root, path string) bool {
	candidates := pathCandidates(root, path)
	for _, line := range strings.Split(output, "\n") {
		if IsLocationMarker(line) && markerMentions(line, candidates) {
			return true
		}
	}
	return false
}

// ExtractDiagnostics 截取与 path 相关的诊断片段
// 从第一个引用 path 的位置标记行开始，到下一个不引用 path 的位置标记行之前结束
func ExtractDiagnostics(output, root, path string) string {
	candidates := pathCandidates(root, path)
	var out []string
	collecting := false
	for _, line := range strings.Split(output, "\n") {
		if IsLocationMarker(line) {
			if markerMentions(line, candidates) {
				collecting = true
			} else if collecting {
				break
			}
		}
		if collecting {
			out = append(out, line)
		}
	}
	return strings.TrimRight(strings.Join(out, "\n"), "\n")
}
