package watcher

import (
	"crypto/md5"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/yeisme/grumpy/pkg/utils/gitignore"
)

// reason 描述事件被丢弃的原因，空字符串表示通过
type reason string

const (
	passed     reason = ""
	byExt      reason = "extension"
	byPattern  reason = "ignore pattern"
	byGit      reason = ".gitignore"
	byHash     reason = "content unchanged"
	byDebounce reason = "debounce"
)

// filter 依次执行扩展名、忽略模式、.gitignore 与内容哈希检查
type filter struct {
	exts     map[string]struct{}
	patterns []*regexp.Regexp
	gi       *gitignore.GitIgnore

	skipUnchanged bool
	mu            sync.Mutex
	hashes        map[string]string // 上一次分析时的内容哈希
}

func newFilter(watchFiles, ignorePatterns []string, gi *gitignore.GitIgnore, skipUnchanged bool) (*filter, error) {
	f := &filter{
		exts:          make(map[string]struct{}, len(watchFiles)),
		gi:            gi,
		skipUnchanged: skipUnchanged,
		hashes:        make(map[string]string),
	}
	for _, ext := range watchFiles {
		// 同时接受 ".rs" 与 "rs"
		f.exts[strings.TrimPrefix(ext, ".")] = struct{}{}
	}
	for _, p := range ignorePatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", p, err)
		}
		f.patterns = append(f.patterns, re)
	}
	return f, nil
}

// relevant 报告扩展名是否在监听列表中
func (f *filter) relevant(path string) bool {
	ext := filepath.Ext(path)
	if ext == "" {
		return false
	}
	_, ok := f.exts[ext[1:]]
	return ok
}

// ignored 报告路径是否匹配任一忽略正则，匹配对象为斜杠形式的完整路径
func (f *filter) ignored(path string) bool {
	p := filepath.ToSlash(path)
	for _, re := range f.patterns {
		if re.MatchString(p) {
			return true
		}
	}
	return false
}

// ignoredDir 用于目录注册阶段
func (f *filter) ignoredDir(path string) bool {
	if f.ignored(path) || f.ignored(path+string(filepath.Separator)) {
		return true
	}
	return f.gi != nil && f.gi.IsDirIgnored(path)
}

// check 返回丢弃原因以及当前内容哈希，哈希需在分析完成后通过 remember 提交
func (f *filter) check(path string) (reason, string) {
	if !f.relevant(path) {
		return byExt, ""
	}
	if f.ignored(path) {
		return byPattern, ""
	}
	if f.gi != nil && f.gi.IsIgnored(path) {
		return byGit, ""
	}
	if !f.skipUnchanged {
		return passed, ""
	}
	sum := fileHash(path)
	if sum == "" {
		return passed, ""
	}
	f.mu.Lock()
	last, seen := f.hashes[path]
	f.mu.Unlock()
	if seen && last == sum {
		return byHash, sum
	}
	return passed, sum
}

func (f *filter) remember(path, sum string) {
	if !f.skipUnchanged || sum == "" {
		return
	}
	f.mu.Lock()
	f.hashes[path] = sum
	f.mu.Unlock()
}

// fileHash 计算小文件的 MD5，大文件只记录大小，读取失败返回空串
func fileHash(path string) string {
	const maxHashSize = 1024 * 1024 // 1MB
	file, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer func() {
		_ = file.Close()
	}()

	info, err := file.Stat()
	if err != nil || info.IsDir() {
		return ""
	}
	if info.Size() > maxHashSize {
		return fmt.Sprintf("large:%d:%d", info.Size(), info.ModTime().UnixNano())
	}

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return ""
	}
	return fmt.Sprintf("%x", hash.Sum(nil))
}
