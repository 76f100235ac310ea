package configs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/yeisme/grumpy/pkg/style"
	"gopkg.in/yaml.v3"
)

// OutputFormat 是 config list 的输出格式
type OutputFormat string

const (
	FormatYAML OutputFormat = "yaml"
	FormatJSON OutputFormat = "json"
	FormatTOML OutputFormat = "toml"
	FormatText OutputFormat = "text"
)

var formatAliases = map[string]OutputFormat{
	"yaml": FormatYAML, "yml": FormatYAML,
	"json": FormatJSON,
	"toml": FormatTOML,
	"text": FormatText, "txt": FormatText,
}

var encoders = map[OutputFormat]func(any) ([]byte, error){
	FormatYAML: func(data any) ([]byte, error) {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return nil, err
		}
		err := enc.Close()
		return buf.Bytes(), err
	},
	FormatJSON: func(data any) ([]byte, error) {
		b, err := json.MarshalIndent(data, "", "  ")
		return append(b, '\n'), err
	},
	FormatTOML: toml.Marshal,
	FormatText: func(data any) ([]byte, error) {
		return fmt.Appendf(nil, "%+v\n", data), nil
	},
}

// ValidFormats 返回所有有效的输出格式
func ValidFormats() []string {
	return []string{string(FormatYAML), string(FormatJSON), string(FormatTOML), string(FormatText)}
}

// ParseOutputFormat 解析输出格式，大小写不敏感
func ParseOutputFormat(format string) (OutputFormat, error) {
	if f, ok := formatAliases[strings.ToLower(format)]; ok {
		return f, nil
	}
	return "", fmt.Errorf("unsupported format '%s', supported formats: %s", format, strings.Join(ValidFormats(), ", "))
}

// GetOutputFormatFromFlags 读取 --format 或 --yaml/--json/--toml，默认 YAML
func GetOutputFormatFromFlags(cmd *cobra.Command) OutputFormat {
	if name, _ := cmd.Flags().GetString("format"); name != "" {
		if f, err := ParseOutputFormat(name); err == nil {
			return f
		}
	}
	for _, f := range []OutputFormat{FormatYAML, FormatJSON, FormatTOML} {
		if set, _ := cmd.Flags().GetBool(string(f)); set {
			return f
		}
	}
	return FormatYAML
}

// MarshalData 将数据编码为指定格式
func MarshalData(data any, format OutputFormat) ([]byte, error) {
	enc, ok := encoders[format]
	if !ok {
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
	b, err := enc(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal to %s: %w", strings.ToUpper(string(format)), err)
	}
	return b, nil
}

// OutputData 根据指定格式输出数据，color 仅对 JSON 生效
func OutputData(data any, format OutputFormat, out io.Writer, color bool) error {
	b, err := MarshalData(data, format)
	if err != nil {
		return err
	}
	if format == FormatJSON && color {
		return style.PrintJSON(out, b)
	}
	_, err = out.Write(b)
	return err
}

// ToMap 将配置结构体转为以 mapstructure 标签为键的 map，时长以字符串表示
func ToMap(v any) any {
	return toMapValue(reflect.ValueOf(v))
}

var durationType = reflect.TypeOf(time.Duration(0))

func toMapValue(val reflect.Value) any {
	for val.Kind() == reflect.Pointer || val.Kind() == reflect.Interface {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}

	if val.Type() == durationType {
		return time.Duration(val.Int()).String()
	}

	switch val.Kind() {
	case reflect.Struct:
		out := make(map[string]any, val.NumField())
		typ := val.Type()
		for i := 0; i < val.NumField(); i++ {
			field := typ.Field(i)
			if !field.IsExported() {
				continue
			}
			key := strings.Split(field.Tag.Get("mapstructure"), ",")[0]
			if key == "" {
				key = strings.ToLower(field.Name)
			}
			out[key] = toMapValue(val.Field(i))
		}
		return out
	case reflect.Slice:
		out := make([]any, val.Len())
		for i := range out {
			out[i] = toMapValue(val.Index(i))
		}
		return out
	default:
		return val.Interface()
	}
}

// GetConfigSection 获取指定配置段
// showAll 为 true 时返回处理后的完整配置（包含默认值和 profile 补全），否则返回 viper 的原始数据
func GetConfigSection(v *viper.Viper, config *Config, section string, showAll bool) (any, error) {
	lowerSection := strings.ToLower(section)

	if showAll {
		all, _ := ToMap(config).(map[string]any)
		if lowerSection == "" {
			return all, nil
		}
		if sec, ok := all[lowerSection]; ok {
			return sec, nil
		}
		return nil, fmt.Errorf("unknown configuration section: %s", section)
	}

	if lowerSection == "" {
		// 显示所有配置
		return v.AllSettings(), nil
	}

	// 检查 section 是否是 viper 中的一个顶级键或已设置的键
	if v.IsSet(lowerSection) {
		return v.Get(lowerSection), nil
	}

	return nil, fmt.Errorf("unknown or unset configuration section %s", section)
}
