package configs

import (
	"time"

	"github.com/spf13/viper"
)

// WatchConfig 文件监听配置
type WatchConfig struct {
	Dir            string        `mapstructure:"dir"`             // 监听的根目录
	Recursive      bool          `mapstructure:"recursive"`       // 是否递归监听子目录
	WatchFiles     []string      `mapstructure:"watch_files"`     // 关注的文件扩展名，如 .go、.rs，前导点可省略
	IgnorePatterns []string      `mapstructure:"ignore_patterns"` // 忽略路径的正则表达式
	Debounce       time.Duration `mapstructure:"debounce"`        // 两次分析之间的最短间隔
	PollInterval   time.Duration `mapstructure:"poll_interval"`   // 等待事件的最长时间，决定停止信号的响应延迟
	GitIgnore      bool          `mapstructure:"git_ignore"`      // 是否使用 .gitignore 文件
	SkipUnchanged  bool          `mapstructure:"skip_unchanged"`  // 内容哈希未变化时丢弃事件
}

func setWatchConfigDefaults(v *viper.Viper) {
	v.SetDefault("watch.dir", ".")
	v.SetDefault("watch.recursive", true)
	v.SetDefault("watch.debounce", 10*time.Second)
	v.SetDefault("watch.poll_interval", time.Second)
	v.SetDefault("watch.git_ignore", true) // 默认使用 .gitignore
	v.SetDefault("watch.skip_unchanged", false) // 按需开启，默认每次保存都重新分析
	// watch_files 与 ignore_patterns 由工具链 profile 补全
}
