// Package rules 加载并执行用户定义的文本规则
package rules

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/pelletier/go-toml/v2"
	"github.com/yeisme/grumpy/pkg/models"
	"gopkg.in/yaml.v3"
)

const (
	// NoTodoComments 源码中出现 todo（大小写不敏感）即违规
	NoTodoComments = "no_todo_comments"
	// ForbidWord 源码中出现 option 指定的词即违规
	ForbidWord = "forbid_word"
)

var (
	// ErrUnknownRule 规则名称不在已知规则中
	ErrUnknownRule = errors.New("unknown rule")
	// ErrMissingOption 规则缺少必需的 option
	ErrMissingOption = errors.New("missing rule option")
)

// KnownRules 返回所有已知规则名称
func KnownRules() []string {
	return []string{NoTodoComments, ForbidWord}
}

// Load 读取规则文件
// 文件不存在时 found 为 false 且不返回错误；格式由扩展名决定，默认按 TOML 解析
func Load(path string) (rules []models.RuleDefinition, found bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}

	rules, err = Parse(path, data)
	if err != nil {
		return nil, true, err
	}
	return rules, true, nil
}

// Parse 解析规则文件内容，path 仅用于判断格式和错误信息
func Parse(path string, data []byte) ([]models.RuleDefinition, error) {
	var doc struct {
		Rules *[]models.RuleDefinition `toml:"rules" yaml:"rules"`
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse rules file %s: %w", path, err)
		}
	default:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse rules file %s: %w", path, err)
		}
	}

	if doc.Rules == nil {
		return nil, fmt.Errorf("rules file %s has no rules list", path)
	}
	for i, r := range *doc.Rules {
		if strings.TrimSpace(r.Name) == "" {
			return nil, fmt.Errorf("rules file %s: rule #%d has no name", path, i+1)
		}
	}
	return *doc.Rules, nil
}

// Apply 依次执行启用的规则
// 返回是否全部通过及违规信息；遇到未知规则或非法定义时立即停止并返回错误
func Apply(rules []models.RuleDefinition, source string) (allPassed bool, violations []string, err error) {
	for _, r := range rules {
		if !r.Enabled {
			continue
		}

		var details string
		switch r.Name {
		case NoTodoComments:
			if strings.Contains(strings.ToLower(source), "todo") {
				details = "TODO comments found!"
			}
		case ForbidWord:
			word, ok := r.OptionValue()
			if !ok || word == "" {
				return false, violations, fmt.Errorf("%w: rule %s requires an option", ErrMissingOption, r.Name)
			}
			if strings.Contains(source, word) {
				details = "Use of forbidden word: " + word
			}
		default:
			return false, violations, unknownRule(r.Name)
		}

		if details != "" {
			violations = append(violations, FormatViolation(r.Name, details))
		}
	}
	return len(violations) == 0, violations, nil
}

// FormatViolation 生成两行的违规描述
func FormatViolation(name, details string) string {
	return fmt.Sprintf("Rule violation: %s\nmessage %q", name, details)
}

// Validate 检查规则定义是否都能被执行
func Validate(rules []models.RuleDefinition) error {
	var errs []error
	for _, r := range rules {
		switch r.Name {
		case NoTodoComments:
		case ForbidWord:
			if word, ok := r.OptionValue(); !ok || word == "" {
				errs = append(errs, fmt.Errorf("%w: rule %s requires an option", ErrMissingOption, r.Name))
			}
		default:
			errs = append(errs, unknownRule(r.Name))
		}
	}
	return errors.Join(errs...)
}

// unknownRule 构造未知规则错误，并给出最相近的已知规则
func unknownRule(name string) error {
	matches := fuzzy.RankFindFold(name, KnownRules())
	if len(matches) > 0 {
		sort.Sort(matches)
		return fmt.Errorf("%w: %s (did you mean %s?)", ErrUnknownRule, name, matches[0].Target)
	}
	// 反向匹配，例如 forbid_words 包含 forbid_word
	for _, known := range KnownRules() {
		if fuzzy.MatchFold(known, name) {
			return fmt.Errorf("%w: %s (did you mean %s?)", ErrUnknownRule, name, known)
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownRule, name)
}
