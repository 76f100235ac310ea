// Package log 提供日志记录器的构建功能
// 使用 zerolog 作为日志库，支持多种输出模式（控制台、文件、两者）
// 文件输出经由 logsink 缓冲后写入 lumberjack 轮转文件，调用方不会等待磁盘 IO
package log

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yeisme/grumpy/pkg/configs"
	"github.com/yeisme/grumpy/pkg/utils/logsink"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger 定义日志记录器类型
// 使用 *zerolog.Logger 作为日志记录器类型
type Logger = *zerolog.Logger

// Service 持有日志记录器及其后台资源，由程序入口创建一次并显式传递给各组件
type Service struct {
	logger zerolog.Logger
	sink   *logsink.Sink
	file   io.Closer
}

// New 按配置创建日志服务
func New(ctx context.Context, config *configs.LogConfig, appConfig *configs.AppConfig) (*Service, error) {
	s := &Service{}

	// 优先级：quiet > debug > verbose > config.Level
	// quiet 只关闭控制台，文件 sink 仍按配置级别记录
	level := parseLogLevel(config.Level)
	if !appConfig.Quiet {
		switch {
		case appConfig.Debug:
			level = zerolog.DebugLevel
		case appConfig.Verbose:
			level = zerolog.InfoLevel
		}
	}

	mode := strings.ToLower(config.Mode)
	toFile := mode == "file" || mode == "both"
	toConsole := !appConfig.Quiet && mode != "file"

	var writers []io.Writer
	if toConsole {
		writers = append(writers, createConsoleWriter(config.JSON))
	}
	if toFile {
		w, err := s.createFileWriter(config)
		if err != nil {
			return nil, err
		}
		writers = append(writers, w)
	}
	if len(writers) == 0 {
		s.logger = zerolog.New(io.Discard).Level(zerolog.Disabled)
		return s, nil
	}

	// 创建多重写入器
	var output io.Writer
	if len(writers) == 1 {
		output = writers[0]
	} else {
		output = zerolog.MultiLevelWriter(writers...)
	}

	// 创建日志记录器
	if appConfig.Debug {
		s.logger = zerolog.New(output).Level(level).With().Caller().
			Str("app", appConfig.Name).
			Ctx(ctx).Timestamp().Logger()
	} else if appConfig.Verbose {
		s.logger = zerolog.New(output).Level(level).With().
			Str("app", appConfig.Name).
			Ctx(ctx).Timestamp().Logger()
	} else {
		s.logger = zerolog.New(output).Level(level).With().Timestamp().Logger()
	}

	return s, nil
}

// NewWithWriter 创建一个写入指定 writer 的日志服务，常用于测试
func NewWithWriter(w io.Writer, level zerolog.Level) *Service {
	return &Service{logger: zerolog.New(w).Level(level).With().Timestamp().Logger()}
}

// Nop 返回一个丢弃所有输出的记录器
func Nop() Logger {
	l := zerolog.Nop()
	return &l
}

// Logger 返回底层记录器
func (s *Service) Logger() Logger {
	return &s.logger
}

// Close 刷新缓冲中的日志并关闭文件
func (s *Service) Close() error {
	var errs []error
	if s.sink != nil {
		errs = append(errs, s.sink.Close())
	}
	if s.file != nil {
		errs = append(errs, s.file.Close())
	}
	return errors.Join(errs...)
}

// createConsoleWriter 创建控制台输出写入器，日志写到 stderr，stdout 留给报告
func createConsoleWriter(useJSON bool) io.Writer {
	if useJSON {
		return os.Stderr
	}
	return zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "2006-01-02 15:04:05",
	}
}

// createFileWriter 创建经由缓冲 sink 的文件输出写入器
func (s *Service) createFileWriter(config *configs.LogConfig) (io.Writer, error) {
	// 确保日志目录存在
	logDir := filepath.Dir(config.FilePath)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("创建日志目录失败: %w", err)
	}

	// 使用 lumberjack 进行日志轮转
	file := &lumberjack.Logger{
		Filename:   config.FilePath,
		MaxSize:    config.MaxSize,    // megabytes
		MaxBackups: config.MaxBackups, // 保留备份数量
		MaxAge:     config.MaxAge,     // days
		Compress:   true,              // 压缩旧日志文件
	}
	s.file = file
	s.sink = logsink.New(file, logsink.Options{
		JSON:          config.JSON,
		FlushInterval: config.FlushInterval,
		PollInterval:  config.PollInterval,
	})
	return s.sink, nil
}

// parseLogLevel 解析日志级别
func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.InfoLevel
	}
}
