// Package context 保存一次命令执行期间共享的配置与日志
package context

import (
	"context"

	"github.com/spf13/viper"
	"github.com/yeisme/grumpy/pkg/configs"
	"github.com/yeisme/grumpy/pkg/utils/log"
)

// GlobalFlags 是所有子命令共享的标志
type GlobalFlags struct {
	ConfigPath string
	Debug      bool
	Verbose    bool
	Quiet      bool
}

// GrumpyContext 在命令之间传递
type GrumpyContext struct {
	context.Context
	Viper  *viper.Viper
	Config *configs.Config // 应用配置
	Log    *log.Service    // 日志服务，退出前需要 Close
}

// Logger 返回日志记录器
func (c *GrumpyContext) Logger() log.Logger {
	return c.Log.Logger()
}

// Close 刷新并关闭日志
func (c *GrumpyContext) Close() error {
	if c == nil || c.Log == nil {
		return nil
	}
	return c.Log.Close()
}

// InitGrumpyContext 加载配置并初始化日志，命令行的全局标志覆盖配置中的 app 设置
func InitGrumpyContext(ctx context.Context, flags GlobalFlags) (*GrumpyContext, error) {
	v := viper.GetViper()
	config, err := configs.LoadConfigWith(v, flags.ConfigPath)
	if err != nil {
		return nil, err
	}

	config.App.Debug = config.App.Debug || flags.Debug
	config.App.Verbose = config.App.Verbose || flags.Verbose
	config.App.Quiet = config.App.Quiet || flags.Quiet

	svc, err := log.New(ctx, &config.Log, &config.App)
	if err != nil {
		return nil, err
	}

	return &GrumpyContext{
		Context: ctx,
		Viper:   v,
		Config:  config,
		Log:     svc,
	}, nil
}
