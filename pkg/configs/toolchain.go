package configs

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// PathPlaceholder 在格式化命令参数中会被替换为变更文件路径
const PathPlaceholder = "{path}"

// ToolchainConfig 描述外部格式化与 lint 工具
type ToolchainConfig struct {
	Profile   string        `mapstructure:"profile"`   // 预设工具链: go, rust
	Formatter Command       `mapstructure:"formatter"` // 格式化命令，参数中可使用 {path}
	Linter    Command       `mapstructure:"linter"`    // 整个项目的 lint 命令
	Timeout   time.Duration `mapstructure:"timeout"`   // 单次工具调用超时，0 表示不限制
}

// Command represents a single external command.
type Command struct {
	Cmd  string   `mapstructure:"cmd"`
	Args []string `mapstructure:"args"`
}

// Profile 是一组工具链预设
type Profile struct {
	Name           string
	Formatter      Command
	Linter         Command
	WatchFiles     []string
	IgnorePatterns []string
	// RootMarker 是项目根目录的标识文件
	RootMarker string
}

var profiles = map[string]Profile{
	"go": {
		Name:           "go",
		Formatter:      Command{Cmd: "gofmt", Args: []string{"-l", "-w", PathPlaceholder}},
		Linter:         Command{Cmd: "go", Args: []string{"vet", "./..."}},
		WatchFiles:     []string{".go"},
		IgnorePatterns: []string{"vendor/", `\.git/`},
		RootMarker:     "go.mod",
	},
	"rust": {
		Name:           "rust",
		Formatter:      Command{Cmd: "cargo", Args: []string{"fmt", "--", PathPlaceholder}},
		Linter:         Command{Cmd: "cargo", Args: []string{"clippy", "--all-targets", "--all-features", "--", "-Dwarnings"}},
		WatchFiles:     []string{".rs", ".toml"},
		IgnorePatterns: []string{"target/"},
		RootMarker:     "Cargo.toml",
	},
}

// Profiles 返回所有预设名称
func Profiles() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// LookupProfile 按名称查找预设，大小写不敏感
func LookupProfile(name string) (Profile, error) {
	p, ok := profiles[strings.ToLower(name)]
	if !ok {
		return Profile{}, fmt.Errorf("unknown toolchain profile '%s', supported profiles: %s", name, strings.Join(Profiles(), ", "))
	}
	return p, nil
}

func setToolchainConfigDefaults(v *viper.Viper) {
	v.SetDefault("toolchain.profile", "go")
	v.SetDefault("toolchain.timeout", 0)
}

// applyProfile 用预设填充未配置的命令和监听规则
func (t *ToolchainConfig) applyProfile(w *WatchConfig) error {
	p, err := LookupProfile(t.Profile)
	if err != nil {
		return err
	}
	t.Profile = p.Name
	if t.Formatter.Cmd == "" {
		t.Formatter = p.Formatter
	}
	if t.Linter.Cmd == "" {
		t.Linter = p.Linter
	}
	if len(w.WatchFiles) == 0 {
		w.WatchFiles = slices.Clone(p.WatchFiles)
	}
	if len(w.IgnorePatterns) == 0 {
		w.IgnorePatterns = slices.Clone(p.IgnorePatterns)
	}
	return nil
}

// FormatterArgs 返回替换了 {path} 占位符的格式化参数
// 参数中没有占位符时，路径追加到末尾
func (t ToolchainConfig) FormatterArgs(path string) []string {
	args := make([]string, 0, len(t.Formatter.Args)+1)
	replaced := false
	for _, a := range t.Formatter.Args {
		if strings.Contains(a, PathPlaceholder) {
			a = strings.ReplaceAll(a, PathPlaceholder, path)
			replaced = true
		}
		args = append(args, a)
	}
	if !replaced {
		args = append(args, path)
	}
	return args
}
