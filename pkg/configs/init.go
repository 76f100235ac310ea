package configs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// DefaultConfig 返回仅包含默认值的配置（已按 profile 补全）
func DefaultConfig(profile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if profile != "" {
		v.Set("toolchain.profile", profile)
	}
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("解析默认配置失败: %w", err)
	}
	if err := config.Toolchain.applyProfile(&config.Watch); err != nil {
		return nil, err
	}
	return &config, nil
}

// CreateDefaultConfig 在指定路径写入默认配置文件，文件已存在时返回错误
func CreateDefaultConfig(path string, format OutputFormat, profile string) error {
	if format == FormatText {
		return fmt.Errorf("text format is not supported for config files")
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	}

	config, err := DefaultConfig(profile)
	if err != nil {
		return err
	}
	data, err := MarshalData(ToMap(config), format)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("创建配置目录失败: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}
	return nil
}
