package configs

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/yeisme/grumpy/pkg/models"
)

// Validate 校验配置，任何错误都应在启动时终止程序
func (c *Config) Validate() error {
	var errs []error

	if c.Analyzer.MaxFunctionSize <= 0 {
		errs = append(errs, fmt.Errorf("max function size must be greater than 0, got %d", c.Analyzer.MaxFunctionSize))
	}
	if c.Analyzer.MaxComplexity <= 0 {
		errs = append(errs, fmt.Errorf("max complexity must be greater than 0, got %d", c.Analyzer.MaxComplexity))
	}
	if c.Analyzer.StaleDays < 0 {
		errs = append(errs, fmt.Errorf("stale days must not be negative, got %d", c.Analyzer.StaleDays))
	}
	if _, err := models.ParseGrumpinessLevel(c.Analyzer.GrumpinessLevel); err != nil {
		errs = append(errs, err)
	}
	if len(c.Watch.WatchFiles) == 0 {
		errs = append(errs, errors.New("watch files shall not be empty"))
	}
	for _, p := range c.Watch.IgnorePatterns {
		if _, err := regexp.Compile(p); err != nil {
			errs = append(errs, fmt.Errorf("invalid ignore pattern %q: %w", p, err))
		}
	}
	if c.Watch.Debounce <= 0 {
		errs = append(errs, fmt.Errorf("debounce must be positive, got %s", c.Watch.Debounce))
	}
	if _, err := LookupProfile(c.Toolchain.Profile); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Grumpiness 返回解析后的语气，非法值回退为 Mild
func (c *Config) Grumpiness() models.GrumpinessLevel {
	g, _ := models.ParseGrumpinessLevel(c.Analyzer.GrumpinessLevel)
	return g
}
