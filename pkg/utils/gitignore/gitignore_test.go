package gitignore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseGitIgnoreLines(t *testing.T) {
	lines := []string{
		"# This is a comment",
		"",
		"*.log",
		"node_modules/",
		"/build",
		"temp*",
		"!important.log",
	}

	gi := ParseGitIgnoreLines(lines)
	patterns := gi.GetPatterns()

	expected := []string{"*.log", "node_modules/", "/build", "temp*", "!important.log"}
	if len(patterns) != len(expected) {
		t.Fatalf("Expected %d patterns, got %d", len(expected), len(patterns))
	}
	for i, pattern := range patterns {
		if pattern != expected[i] {
			t.Errorf("Expected pattern %s, got %s", expected[i], pattern)
		}
	}
}

func TestIsIgnored(t *testing.T) {
	gi := ParseGitIgnoreLines([]string{
		"*.log",
		"!important.log",
		"node_modules/",
		"/build",
		"temp*",
		"target/",
	})

	testCases := []struct {
		path     string
		expected bool
	}{
		{"test.log", true},
		{"important.log", false},
		{"app.js", false},
		{"node_modules/package", true},
		{"src/node_modules/x.js", true},
		{"build", true},
		{"build/out.rs", true},
		{"src/build", false}, // /build 只匹配根目录
		{"temp123", true},
		{"temporary", true},
		{"target/debug/main.rs", true},
		{"src/main.rs", false},
	}

	for _, tc := range testCases {
		if got := gi.IsIgnored(tc.path); got != tc.expected {
			t.Errorf("IsIgnored(%s): expected %v, got %v", tc.path, tc.expected, got)
		}
	}
}

// 测试目录规则对目录本身生效
func TestIsDirIgnored(t *testing.T) {
	gi := ParseGitIgnoreLines([]string{"node_modules/", "target/"})
	if !gi.IsDirIgnored("node_modules") {
		t.Error("Expected node_modules dir to be ignored")
	}
	if !gi.IsDirIgnored("crates/a/target") {
		t.Error("Expected nested target dir to be ignored")
	}
	if gi.IsDirIgnored("src") {
		t.Error("Expected src to not be ignored")
	}
}

func TestLoadGitIgnoreFromDir(t *testing.T) {
	tempDir := t.TempDir()
	content := "# Comment\n*.log\nnode_modules/\n/build\n"
	if err := os.WriteFile(filepath.Join(tempDir, ".gitignore"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test .gitignore file: %v", err)
	}

	gi, err := LoadGitIgnoreFromDir(tempDir)
	if err != nil {
		t.Fatalf("Failed to load .gitignore from dir: %v", err)
	}
	if len(gi.GetPatterns()) != 3 {
		t.Errorf("Expected 3 patterns, got %v", gi.GetPatterns())
	}
	if !gi.IsIgnored("test.log") {
		t.Error("Expected test.log to be ignored")
	}
	if gi.IsIgnored("test.js") {
		t.Error("Expected test.js to not be ignored")
	}

	// 绝对路径相对于 .gitignore 所在目录匹配
	if !gi.IsIgnored(filepath.Join(tempDir, "build", "x.go")) {
		t.Error("Expected absolute build/x.go to be ignored")
	}
	if gi.IsIgnored(filepath.Join(tempDir, "src", "build", "x.go")) {
		t.Error("Expected absolute src/build/x.go to not be ignored")
	}
	// root 之外的路径不受约束
	if gi.IsIgnored(filepath.Join(filepath.Dir(tempDir), "other.log")) {
		t.Error("Expected path outside root to not be ignored")
	}
}

func TestNonExistentGitIgnore(t *testing.T) {
	gi, err := LoadGitIgnore("/non/existent/path/.gitignore")
	if err != nil {
		t.Fatalf("Expected no error for non-existent .gitignore, got: %v", err)
	}
	if !gi.Empty() {
		t.Error("Expected empty patterns for non-existent .gitignore")
	}
	if gi.IsIgnored("test.log") {
		t.Error("Expected no ignoring when no patterns are loaded")
	}
}
