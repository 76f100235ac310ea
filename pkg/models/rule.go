package models

// RuleDefinition 描述规则文件中的一条规则
type RuleDefinition struct {
	Name      string  `json:"name" yaml:"name" toml:"name" mapstructure:"name"`                                                   // 规则名称: no_todo_comments, forbid_word
	Enabled   bool    `json:"enabled" yaml:"enabled" toml:"enabled" mapstructure:"enabled"`                                       // 是否启用
	Threshold *int    `json:"threshold,omitempty" yaml:"threshold,omitempty" toml:"threshold,omitempty" mapstructure:"threshold"` // 可选的数值参数
	Option    *string `json:"option,omitempty" yaml:"option,omitempty" toml:"option,omitempty" mapstructure:"option"`             // 可选的字符串参数
}

// RuleSet 是规则文件的顶层结构
type RuleSet struct {
	Rules []RuleDefinition `json:"rules" yaml:"rules" toml:"rules" mapstructure:"rules"`
}

// OptionValue 返回 Option 的值，未设置时返回空字符串和 false
func (r RuleDefinition) OptionValue() (string, bool) {
	if r.Option == nil {
		return "", false
	}
	return *r.Option, true
}
