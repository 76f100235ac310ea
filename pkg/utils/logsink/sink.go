// Package logsink 实现一个多生产者、单消费者的缓冲日志写入器
//
// 生产者只把记录交给一个搬运协程，永远不会等待磁盘 IO；
// 搬运协程按刷新间隔把整批记录交给唯一的写入协程，由它负责序列化和落盘
package logsink

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultFlushInterval 缓冲记录的最长停留时间
	DefaultFlushInterval = 5 * time.Second
	// DefaultPollInterval 搬运协程等待新记录的最长时间
	DefaultPollInterval = time.Second

	inboxSize = 1024
)

// Options 配置 Sink 的行为
type Options struct {
	JSON          bool          // true 时每行一条 JSON 记录，否则为 "[ts] Level: msg"
	FlushInterval time.Duration // 0 时使用 DefaultFlushInterval
	PollInterval  time.Duration // 0 时使用 DefaultPollInterval
}

// Sink 是缓冲日志写入器，同时实现了 zerolog.LevelWriter
type Sink struct {
	inbox   chan Entry
	batches chan []Entry

	mu     sync.RWMutex
	closed bool

	out  *bufio.Writer
	json bool

	flushInterval time.Duration
	pollInterval  time.Duration
	now           func() time.Time

	errMu sync.Mutex
	err   error

	pumpDone   chan struct{}
	writerDone chan struct{}
}

var _ zerolog.LevelWriter = (*Sink)(nil)

// New 创建 Sink 并启动后台协程，dst 由调用方负责关闭
func New(dst io.Writer, opts Options) *Sink {
	return newSink(dst, opts, time.Now)
}

func newSink(dst io.Writer, opts Options, now func() time.Time) *Sink {
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = DefaultFlushInterval
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}

	s := &Sink{
		inbox:         make(chan Entry, inboxSize),
		batches:       make(chan []Entry, 16),
		out:           bufio.NewWriter(dst),
		json:          opts.JSON,
		flushInterval: opts.FlushInterval,
		pollInterval:  opts.PollInterval,
		now:           now,
		pumpDone:      make(chan struct{}),
		writerDone:    make(chan struct{}),
	}

	go s.pump()
	go s.writeLoop()
	return s
}

// Log 记录一条消息，时间戳取当前时间
func (s *Sink) Log(level Level, msg string) {
	s.Send(Entry{Level: level, Message: msg, Timestamp: s.now().Format(time.RFC3339)})
}

// Send 提交一条记录；Close 之后提交的记录会被丢弃
func (s *Sink) Send(e Entry) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	s.inbox <- e
}

// Write 实现 io.Writer，p 为 zerolog 生成的 JSON 行
func (s *Sink) Write(p []byte) (int, error) {
	return s.WriteLevel(zerolog.NoLevel, p)
}

// WriteLevel 实现 zerolog.LevelWriter
func (s *Sink) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	s.Send(decodeZerolog(level, p, s.now()))
	return len(p), nil
}

// Close 停止接收新记录，把剩余记录全部落盘后返回
// 返回写入过程中遇到的第一个错误
func (s *Sink) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return s.firstErr()
	}
	s.closed = true
	close(s.inbox)
	s.mu.Unlock()

	<-s.pumpDone
	<-s.writerDone
	return s.firstErr()
}

// pump 只在 inbox 与内存缓冲之间搬运记录，不做任何 IO
// 写入协程落后时整批记录排在 pending 中，pump 不因写入而阻塞
func (s *Sink) pump() {
	defer close(s.pumpDone)
	defer close(s.batches)

	var buf []Entry
	var pending [][]Entry
	lastFlush := s.now()
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		// pending 为空时 out 为 nil，对应的 case 永远不会被选中
		var out chan<- []Entry
		var next []Entry
		if len(pending) > 0 {
			out, next = s.batches, pending[0]
		}

		select {
		case e, ok := <-s.inbox:
			if !ok {
				if len(buf) > 0 {
					pending = append(pending, buf)
				}
				for _, b := range pending {
					s.batches <- b
				}
				return
			}
			buf = append(buf, e)
		case out <- next:
			pending[0] = nil
			pending = pending[1:]
		case <-ticker.C:
		}

		if len(buf) > 0 && s.now().Sub(lastFlush) >= s.flushInterval {
			pending = append(pending, buf)
			buf = nil
			lastFlush = s.now()
		}
	}
}

// writeLoop 是唯一访问目标 writer 的协程
func (s *Sink) writeLoop() {
	defer close(s.writerDone)
	for batch := range s.batches {
		for _, e := range batch {
			if err := s.encode(e); err != nil {
				s.setErr(err)
			}
		}
		if err := s.out.Flush(); err != nil {
			s.setErr(err)
		}
	}
}

func (s *Sink) encode(e Entry) error {
	if !s.json {
		_, err := s.out.WriteString(formatText(e))
		return err
	}
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = s.out.Write(b)
	return err
}

func (s *Sink) setErr(err error) {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

func (s *Sink) firstErr() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}
