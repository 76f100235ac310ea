// Package configs 提供应用程序配置管理功能
package configs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Version   string          `mapstructure:"version"`
	Log       LogConfig       `mapstructure:"log"`
	App       AppConfig       `mapstructure:"app"`
	Watch     WatchConfig     `mapstructure:"watch"`
	Analyzer  AnalyzerConfig  `mapstructure:"analyzer"`
	Toolchain ToolchainConfig `mapstructure:"toolchain"`
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	v.SetDefault("version", "1.0")
	setLogConfigDefaults(v)
	setAppConfigDefaults(v)
	setWatchConfigDefaults(v)
	setAnalyzerConfigDefaults(v)
	setToolchainConfigDefaults(v)
}

var configExts = []string{"yaml", "yml", "toml", "json"}

// searchDirs 返回配置文件的搜索目录，按优先级排列
func searchDirs() []string {
	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, home, filepath.Join(home, ".config"), filepath.Join(home, ".config", "grumpy"))
	}
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			dirs = append(dirs, filepath.Join(appData, "grumpy"))
		}
	} else {
		dirs = append(dirs, "/etc/grumpy")
	}
	return dirs
}

// findConfigFile 返回第一个存在的 .grumpy.<ext> 或 grumpy.<ext>
func findConfigFile() (string, bool) {
	for _, dir := range searchDirs() {
		for _, name := range []string{".grumpy", "grumpy"} {
			for _, ext := range configExts {
				candidate := filepath.Join(dir, name+"."+ext)
				if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
					return candidate, true
				}
			}
		}
	}
	return "", false
}

// LoadConfig 加载配置文件，使用全局 viper 实例，命令行标志绑定在该实例上
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWith(viper.GetViper(), configPath)
}

// LoadConfigWith 使用指定的 viper 实例加载配置
// 优先级：命令行标志 > 环境变量 > 配置文件 > 默认值
func LoadConfigWith(v *viper.Viper, configPath string) (*Config, error) {
	found := configPath != ""
	if !found {
		configPath, found = findConfigFile()
	}
	if found {
		v.SetConfigFile(configPath)
	}

	// 设置环境变量前缀
	v.SetEnvPrefix("GRUMPY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 设置默认值
	setDefaults(v)

	// 读取配置文件
	if found {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("读取配置文件失败: %w", err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 按工具链配置补全未显式设置的字段
	if err := config.Toolchain.applyProfile(&config.Watch); err != nil {
		return nil, err
	}

	return &config, nil
}
