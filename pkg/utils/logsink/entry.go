package logsink

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Level 是日志记录的严重程度
type Level string

const (
	LevelDebug Level = "Debug"
	LevelInfo  Level = "Info"
	LevelWarn  Level = "Warn"
	LevelError Level = "Error"
)

// Entry 是一条写入目标文件的日志记录
type Entry struct {
	Level     Level          `json:"level"`
	Message   string         `json:"message"`
	Timestamp string         `json:"timestamp"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// levelFromZerolog maps zerolog levels onto the four sink levels.
func levelFromZerolog(l zerolog.Level) Level {
	switch {
	case l <= zerolog.DebugLevel:
		return LevelDebug
	case l == zerolog.InfoLevel:
		return LevelInfo
	case l == zerolog.WarnLevel:
		return LevelWarn
	case l == zerolog.NoLevel:
		return LevelInfo
	default:
		return LevelError
	}
}

// decodeZerolog 将 zerolog 产生的一行 JSON 还原为 Entry
// 无法解析时整行作为消息保留
func decodeZerolog(level zerolog.Level, p []byte, now time.Time) Entry {
	e := Entry{Level: levelFromZerolog(level)}

	var raw map[string]any
	if err := json.Unmarshal(p, &raw); err != nil {
		e.Message = strings.TrimSpace(string(p))
		e.Timestamp = now.Format(time.RFC3339)
		return e
	}

	if msg, ok := raw[zerolog.MessageFieldName].(string); ok {
		e.Message = msg
	}
	if ts, ok := raw[zerolog.TimestampFieldName].(string); ok && ts != "" {
		e.Timestamp = ts
	} else {
		e.Timestamp = now.Format(time.RFC3339)
	}
	if errVal, ok := raw[zerolog.ErrorFieldName]; ok && e.Message == "" {
		e.Message = fmt.Sprint(errVal)
		delete(raw, zerolog.ErrorFieldName)
	}

	delete(raw, zerolog.MessageFieldName)
	delete(raw, zerolog.TimestampFieldName)
	delete(raw, zerolog.LevelFieldName)
	if len(raw) > 0 {
		e.Fields = raw
	}
	return e
}

// formatText renders "[ts] Level: msg" followed by sorted key=value fields.
func formatText(e Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s: %s", e.Timestamp, e.Level, e.Message)
	for _, k := range slices.Sorted(maps.Keys(e.Fields)) {
		fmt.Fprintf(&b, " %s=%v", k, e.Fields[k])
	}
	b.WriteByte('\n')
	return b.String()
}
