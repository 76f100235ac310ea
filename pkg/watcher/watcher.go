// Package watcher 监听项目目录的文件变更，过滤、防抖后触发分析
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/yeisme/grumpy/pkg/analyzer"
	"github.com/yeisme/grumpy/pkg/configs"
	"github.com/yeisme/grumpy/pkg/state"
	"github.com/yeisme/grumpy/pkg/utils/fsop"
	"github.com/yeisme/grumpy/pkg/utils/gitignore"
	"github.com/yeisme/grumpy/pkg/utils/log"
)

// Analyzer 分析一个发生变化的文件
type Analyzer interface {
	AnalyzeChange(ctx context.Context, path string) analyzer.Report
}

// Watcher 持有过滤器、防抖状态以及分析结果的写入目标
type Watcher struct {
	cfg      configs.WatchConfig
	analyzer Analyzer
	report   *state.Report
	log      log.Logger
	now      func() time.Time

	filter   *filter
	debounce *debouncer

	eventLog  rate.Sometimes
	ignoreLog rate.Sometimes
}

// New 根据监听配置创建 Watcher，配置中的正则无效时返回错误
func New(cfg configs.WatchConfig, a Analyzer, report *state.Report, logger log.Logger) (*Watcher, error) {
	if logger == nil {
		logger = log.Nop()
	}
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	dir, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve watch dir %s: %w", cfg.Dir, err)
	}
	cfg.Dir = dir
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}

	var gi *gitignore.GitIgnore
	if cfg.GitIgnore {
		gi, err = gitignore.LoadGitIgnoreFromDir(cfg.Dir)
		if err != nil {
			logger.Warn().Msgf("Failed to load .gitignore from %s: %v", cfg.Dir, err)
			gi = nil
		} else if !gi.Empty() {
			logger.Debug().Strs("patterns", gi.GetPatterns()).Msg("Loaded .gitignore patterns")
		}
	}

	f, err := newFilter(cfg.WatchFiles, cfg.IgnorePatterns, gi, cfg.SkipUnchanged)
	if err != nil {
		return nil, err
	}

	return &Watcher{
		cfg:       cfg,
		analyzer:  a,
		report:    report,
		log:       logger,
		now:       time.Now,
		filter:    f,
		debounce:  newDebouncer(cfg.Debounce),
		eventLog:  rate.Sometimes{First: 3, Interval: 2 * time.Second},
		ignoreLog: rate.Sometimes{First: 1, Interval: 5 * time.Second},
	}, nil
}

// Handle 对一个已变更的文件执行过滤与防抖，满足条件时同步运行分析并写入共享报告
// 返回是否运行了分析
func (w *Watcher) Handle(ctx context.Context, path string, now time.Time) bool {
	why, sum := w.filter.check(path)
	if why == passed && !w.debounce.allow(now) {
		why = byDebounce
	}
	if why != passed {
		w.ignoreLog.Do(func() {
			w.log.Debug().Str("file", path).Str("reason", string(why)).Msg("Ignoring change")
		})
		return false
	}

	rep := w.analyzer.AnalyzeChange(ctx, path)
	if w.report != nil {
		w.report.Set(rep.String())
	}
	w.filter.remember(path, sum)
	w.debounce.mark(now)
	return true
}

// Run 注册监听目录并处理事件，直到 running 被清除或 ctx 结束
// 每次接收最多等待 PollInterval，正在进行的分析不会被打断
func (w *Watcher) Run(ctx context.Context, running *state.RunFlag) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("创建 watcher 失败: %w", err)
	}
	defer func() {
		if cerr := fw.Close(); cerr != nil {
			w.log.Error().Msgf("关闭 watcher 失败: %v", cerr)
		}
	}()

	if err := w.register(fw, w.cfg.Dir); err != nil {
		return err
	}
	if w.cfg.SkipUnchanged {
		w.seed()
	}

	w.log.Info().
		Str("dir", w.cfg.Dir).
		Bool("recursive", w.cfg.Recursive).
		Strs("watch_files", w.cfg.WatchFiles).
		Dur("debounce", w.cfg.Debounce).
		Msg("Watching for changes. Press Ctrl+C to exit.")

	for running.Running() && ctx.Err() == nil {
		timer := time.NewTimer(w.cfg.PollInterval)
		select {
		case event, ok := <-fw.Events:
			timer.Stop()
			if !ok {
				return nil
			}
			w.onEvent(ctx, fw, event)
		case err, ok := <-fw.Errors:
			timer.Stop()
			if !ok {
				return nil
			}
			w.log.Error().Err(err).Msg("Watcher error")
		case <-ctx.Done():
			timer.Stop()
		case <-timer.C:
		}
	}
	w.log.Info().Msg("Watcher stopped")
	return nil
}

func (w *Watcher) onEvent(ctx context.Context, fw *fsnotify.Watcher, event fsnotify.Event) {
	w.eventLog.Do(func() {
		w.log.Debug().Str("op", event.Op.String()).Str("file", event.Name).Msg("EVENT")
	})

	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	info, err := os.Stat(event.Name)
	if err != nil {
		// 文件在事件到达前已被删除或重命名
		return
	}
	if info.IsDir() {
		if event.Has(fsnotify.Create) && w.cfg.Recursive && !w.filter.ignoredDir(event.Name) {
			if err := w.register(fw, event.Name); err != nil {
				w.log.Warn().Err(err).Msgf("Failed to add new directory to watcher: %s", event.Name)
			}
		}
		return
	}
	// 停止信号不打断正在进行的分析
	w.Handle(context.WithoutCancel(ctx), event.Name, w.now())
}

// register 将 dir 及其（递归时）未被忽略的子目录加入 fsnotify
func (w *Watcher) register(fw *fsnotify.Watcher, dir string) error {
	paths := []string{dir}
	if w.cfg.Recursive {
		subdirs, err := fsop.ListSubdirectories(dir, w.filter.ignoredDir)
		if err != nil {
			return fmt.Errorf("failed to list subdirectories of %s: %w", dir, err)
		}
		paths = append(paths, subdirs...)
	}

	w.log.Debug().Msgf("Adding %d directories to watcher", len(paths))
	for _, p := range paths {
		if err := fw.Add(p); err != nil {
			if p == dir {
				return fmt.Errorf("将路径 '%s' 添加到 watcher 失败: %w", p, err)
			}
			w.log.Warn().Msgf("Failed to add path '%s' to watcher, skipping: %v", p, err)
		}
	}
	return nil
}

// walk 遍历监听目录中通过过滤的文件，被忽略的目录整体跳过
func (w *Watcher) walk(fn func(path, sum string)) error {
	err := filepath.WalkDir(w.cfg.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != w.cfg.Dir && (!w.cfg.Recursive || w.filter.ignoredDir(path)) {
				return filepath.SkipDir
			}
			return nil
		}
		if why, sum := w.filter.check(path); why == passed {
			fn(path, sum)
		}
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// seed 记录启动时已存在文件的内容哈希，仅触碰而未修改的文件不会触发分析
func (w *Watcher) seed() {
	count := 0
	err := w.walk(func(path, sum string) {
		w.filter.remember(path, sum)
		count++
	})
	if err != nil {
		w.log.Warn().Err(err).Msg("Failed to build initial state cache")
		return
	}
	w.log.Debug().Msgf("Initial state cache built with %d files", count)
}

// Files 列出监听目录下所有会触发分析的文件
func (w *Watcher) Files() ([]string, error) {
	var files []string
	err := w.walk(func(path, _ string) {
		files = append(files, path)
	})
	return files, err
}
