// Package state 保存监听循环与展示层之间共享的状态
package state

import (
	"sync"
	"sync/atomic"
)

// Report 保存最近一次分析的报告文本，后写覆盖先写
type Report struct {
	mu       sync.RWMutex
	text     string
	revision uint64
}

// Set 写入新的报告文本并递增版本号
func (r *Report) Set(text string) {
	r.mu.Lock()
	r.text = text
	r.revision++
	r.mu.Unlock()
}

// Get 返回当前报告文本及其版本号，尚未写入时版本号为 0
func (r *Report) Get() (string, uint64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.text, r.revision
}

// Revision 返回当前版本号
func (r *Report) Revision() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.revision
}

// RunFlag 是进程级的运行标志，由信号处理器清除
type RunFlag struct {
	v atomic.Bool
}

// NewRunFlag 创建一个已置位的运行标志
func NewRunFlag() *RunFlag {
	f := &RunFlag{}
	f.v.Store(true)
	return f
}

// Running 报告是否仍在运行
func (f *RunFlag) Running() bool { return f.v.Load() }

// Stop 清除运行标志
func (f *RunFlag) Stop() { f.v.Store(false) }
