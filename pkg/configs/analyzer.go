package configs

import "github.com/spf13/viper"

// AnalyzerConfig 分析流水线配置
type AnalyzerConfig struct {
	GrumpinessLevel string `mapstructure:"grumpiness_level"`  // 报告语气: mild, sarcastic, rude
	MaxFunctionSize int    `mapstructure:"max_function_size"` // 函数体顶层语句数量上限
	MaxComplexity   int    `mapstructure:"max_complexity"`    // 圈复杂度上限
	CustomRules     string `mapstructure:"custom_rules"`      // 规则文件路径（.toml / .yaml）
	GitIntegration  bool   `mapstructure:"git_integration"`   // 是否查询 git 元数据
	StaleDays       int    `mapstructure:"stale_days"`        // 超过该天数未提交视为陈旧
}

func setAnalyzerConfigDefaults(v *viper.Viper) {
	v.SetDefault("analyzer.grumpiness_level", "mild")
	v.SetDefault("analyzer.max_function_size", 32)
	v.SetDefault("analyzer.max_complexity", 32)
	v.SetDefault("analyzer.custom_rules", "rules.toml")
	v.SetDefault("analyzer.git_integration", true)
	v.SetDefault("analyzer.stale_days", 7)
}
