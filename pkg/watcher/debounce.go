package watcher

import (
	"sync"
	"time"
)

// debouncer 在窗口期内丢弃事件，而不是推迟它们
type debouncer struct {
	mu            sync.Mutex
	window        time.Duration
	lastTriggered time.Time
	seeded        bool
}

func newDebouncer(window time.Duration) *debouncer {
	return &debouncer{window: window}
}

// allow 报告 now 时刻是否已离开上一次触发的窗口，首次调用总是允许
func (d *debouncer) allow(now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.seeded {
		return true
	}
	return now.Sub(d.lastTriggered) >= d.window
}

// mark 记录一次触发
func (d *debouncer) mark(now time.Time) {
	d.mu.Lock()
	d.lastTriggered = now
	d.seeded = true
	d.mu.Unlock()
}
