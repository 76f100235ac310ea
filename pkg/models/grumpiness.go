package models

import (
	"fmt"
	"strings"
)

// GrumpinessLevel 决定报告中提示语的语气，不影响任何检查结果
type GrumpinessLevel int

const (
	// Mild 温和
	Mild GrumpinessLevel = iota
	// Sarcastic 讽刺
	Sarcastic
	// Rude 粗鲁
	Rude
)

// GrumpinessLevels 返回所有合法的语气名称
func GrumpinessLevels() []string {
	return []string{"mild", "sarcastic", "rude"}
}

// ParseGrumpinessLevel 解析语气名称，大小写不敏感
func ParseGrumpinessLevel(s string) (GrumpinessLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mild":
		return Mild, nil
	case "sarcastic":
		return Sarcastic, nil
	case "rude":
		return Rude, nil
	default:
		return Mild, fmt.Errorf("invalid grumpiness level '%s', supported levels: %s", s, strings.Join(GrumpinessLevels(), ", "))
	}
}

func (g GrumpinessLevel) String() string {
	switch g {
	case Sarcastic:
		return "sarcastic"
	case Rude:
		return "rude"
	default:
		return "mild"
	}
}
