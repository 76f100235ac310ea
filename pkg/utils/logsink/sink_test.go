package logsink

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func lines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// 测试 100 条记录按提交顺序全部落盘且不重复
func TestSinkPreservesOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grumpy.txt")
	f, err := os.Create(path)
	require.NoError(t, err)

	s := New(f, Options{})
	for i := 0; i < 100; i++ {
		s.Log(LevelInfo, fmt.Sprintf("entry %03d", i))
	}
	require.NoError(t, s.Close())
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	got := lines(string(data))
	require.Len(t, got, 100)
	for i, l := range got {
		assert.True(t, strings.HasSuffix(l, fmt.Sprintf("] Info: entry %03d", i)), "line %d: %s", i, l)
	}
}

// 测试多个生产者并发写入时没有丢失或重复
func TestSinkConcurrentProducers(t *testing.T) {
	var out lockedBuffer
	s := New(&out, Options{JSON: true})

	const producers, perProducer = 8, 50
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				s.Log(LevelWarn, fmt.Sprintf("%d-%d", p, i))
			}
		}(p)
	}
	wg.Wait()
	require.NoError(t, s.Close())

	seen := make(map[string]bool)
	last := make(map[int]int)
	for _, l := range lines(out.String()) {
		var e Entry
		require.NoError(t, json.Unmarshal([]byte(l), &e))
		assert.Equal(t, LevelWarn, e.Level)
		assert.False(t, seen[e.Message], "duplicate %s", e.Message)
		seen[e.Message] = true

		var p, i int
		_, err := fmt.Sscanf(e.Message, "%d-%d", &p, &i)
		require.NoError(t, err)
		if prev, ok := last[p]; ok {
			assert.Greater(t, i, prev, "producer %d out of order", p)
		}
		last[p] = i
	}
	assert.Len(t, seen, producers*perProducer)
}

// 测试超过刷新间隔后记录无需 Close 即可落盘
func TestSinkFlushInterval(t *testing.T) {
	var out lockedBuffer
	s := New(&out, Options{FlushInterval: 20 * time.Millisecond, PollInterval: 5 * time.Millisecond})
	defer func() { _ = s.Close() }()

	s.Log(LevelError, "boom")
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Error: boom")
	}, 2*time.Second, 5*time.Millisecond)
}

// 测试 Close 之后的记录被丢弃且重复 Close 安全
func TestSinkCloseIdempotent(t *testing.T) {
	var out lockedBuffer
	s := New(&out, Options{})
	s.Log(LevelInfo, "before")
	require.NoError(t, s.Close())
	s.Log(LevelInfo, "after")
	require.NoError(t, s.Close())

	got := lines(out.String())
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "before")
}

// 测试作为 zerolog 的输出时能还原级别、消息和字段
func TestSinkAsZerologWriter(t *testing.T) {
	var out lockedBuffer
	s := New(&out, Options{JSON: true})
	logger := zerolog.New(s).With().Timestamp().Logger()

	logger.Warn().Str("run_id", "abc").Msg("complexity too high")
	logger.Debug().Msg("details")
	require.NoError(t, s.Close())

	got := lines(out.String())
	require.Len(t, got, 2)

	var e Entry
	require.NoError(t, json.Unmarshal([]byte(got[0]), &e))
	assert.Equal(t, LevelWarn, e.Level)
	assert.Equal(t, "complexity too high", e.Message)
	assert.Equal(t, "abc", e.Fields["run_id"])
	assert.NotEmpty(t, e.Timestamp)

	require.NoError(t, json.Unmarshal([]byte(got[1]), &e))
	assert.Equal(t, LevelDebug, e.Level)
}

func TestFormatText(t *testing.T) {
	e := Entry{Level: LevelInfo, Message: "hi", Timestamp: "2024-01-01T00:00:00Z", Fields: map[string]any{"b": 2, "a": "x"}}
	assert.Equal(t, "[2024-01-01T00:00:00Z] Info: hi a=x b=2\n", formatText(e))
}

// gatedWriter 在 gate 关闭前阻塞所有写入
type gatedWriter struct {
	gate <-chan struct{}
	out  lockedBuffer
}

func (g *gatedWriter) Write(p []byte) (int, error) {
	<-g.gate
	return g.out.Write(p)
}

// 写入协程卡住时生产者仍不阻塞，放行后记录按顺序全部落盘
func TestSinkProducersNotBlockedBySlowWriter(t *testing.T) {
	gate := make(chan struct{})
	dst := &gatedWriter{gate: gate}

	// 每次取时间都前进一小时，使每条记录单独成批
	var mu sync.Mutex
	clock := time.Unix(0, 0)
	now := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		clock = clock.Add(time.Hour)
		return clock
	}
	s := newSink(dst, Options{PollInterval: time.Millisecond}, now)

	const total = 5000
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < total; i++ {
			s.Send(Entry{Level: LevelInfo, Message: fmt.Sprintf("entry %04d", i), Timestamp: "t"})
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		close(gate)
		t.Fatal("producers blocked on a stalled writer")
	}

	close(gate)
	require.NoError(t, s.Close())
	got := lines(dst.out.String())
	require.Len(t, got, total)
	for i, l := range got {
		require.True(t, strings.HasSuffix(l, fmt.Sprintf("Info: entry %04d", i)), "line %d: %s", i, l)
	}
}
