package style

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/alecthomas/chroma/v2/quick"
)

// jsonTheme 为终端输出时使用的 chroma 主题
const jsonTheme = "dracula"

// PrintJSON 缩进输出 v，w 是终端时带语法高亮
//
// string 与 []byte 视为已编码的 JSON，其它值先经过 json.Marshal
func PrintJSON(w io.Writer, v any) error {
	pretty, err := FormatJSON(v)
	if err != nil {
		return err
	}
	if !isTerminal(w) {
		_, err = io.WriteString(w, pretty)
		return err
	}
	return quick.Highlight(w, pretty, "json", "terminal256", jsonTheme)
}

// FormatJSON 返回两空格缩进并以换行结尾的 JSON
func FormatJSON(v any) (string, error) {
	var raw []byte
	switch x := v.(type) {
	case nil:
		raw = []byte("null")
	case string:
		raw = []byte(x)
	case []byte:
		raw = x
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		raw = b
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(raw), "", "  "); err != nil {
		return "", err
	}
	buf.WriteByte('\n')
	return buf.String(), nil
}
