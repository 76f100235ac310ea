// Package models 定义分析流水线中各组件共享的数据结构
package models

// FunctionMetrics 存储单个函数的结构化度量结果，是一个只读的值类型
type FunctionMetrics struct {
	Name                 string `json:"name" yaml:"name"`                                   // 函数名，方法形如 Recv.Method
	LinesOfCode          int    `json:"lines_of_code" yaml:"lines_of_code"`                 // 函数体顶层语句数量
	CyclomaticComplexity int    `json:"cyclomatic_complexity" yaml:"cyclomatic_complexity"` // 圈复杂度，至少为 1
	MaxNestingDepth      int    `json:"max_nesting_depth" yaml:"max_nesting_depth"`         // 最大嵌套深度
	ReturnCount          int    `json:"return_count" yaml:"return_count"`                   // return 语句数量
	ParamCount           int    `json:"param_count" yaml:"param_count"`                     // 参数数量
}

// FileMetrics 存储单个文件的函数度量集合
type FileMetrics struct {
	Path      string            `json:"path" yaml:"path"`           // 文件路径
	Language  string            `json:"language" yaml:"language"`   // 解析所使用的语言前端
	Functions []FunctionMetrics `json:"functions" yaml:"functions"` // 按源码顺序排列
}

// Exceeds 判断函数是否超过给定的复杂度或长度阈值
func (m FunctionMetrics) Exceeds(maxComplexity, maxSize int) (complexity, size bool) {
	return m.CyclomaticComplexity > maxComplexity, m.LinesOfCode > maxSize
}
