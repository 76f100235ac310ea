// Package messages 保存报告中使用的语气文本
//
// 文本以 (种类, 语气) 为键存放在一张表中，新增语气只需为每个种类补一行
package messages

import (
	"fmt"
	"strings"

	"github.com/yeisme/grumpy/pkg/models"
)

// Kind 是一类提示信息
type Kind int

const (
	// LintSuccess 参数: linter 名称
	LintSuccess Kind = iota
	// LintFailure 参数: linter 名称
	LintFailure
	// Complexity 参数: 函数名, 复杂度, 上限
	Complexity
	// FunctionSize 参数: 函数名, 语句数, 上限
	FunctionSize
	// Stale 参数: 无
	Stale
	// Author 参数: 作者名
	Author
)

type key struct {
	kind Kind
	tone models.GrumpinessLevel
}

var table = map[key]string{
	{LintSuccess, models.Mild}:      "✅ %[1]s successful",
	{LintSuccess, models.Sarcastic}: "✅🙈 Oh, you did not break anything. Strange!",
	{LintSuccess, models.Rude}:      "✅🙄 Oh, you managed not to break anything? Well, there is a first time for everything.",

	{LintFailure, models.Mild}:      "❌ %[1]s failed (see terminal for details)",
	{LintFailure, models.Sarcastic}: "❌🙄 Oh, you did break something (as usual):",
	{LintFailure, models.Rude}:      "❌💣 Of course you broke something, how utterly predictable.",

	{Complexity, models.Mild}:      "Function '%s': Cyclomatic complexity too high (%d > %d). Consider simplifying it.",
	{Complexity, models.Sarcastic}: "Function '%s': Wow, cyclomatic complexity (%d > %d)! Are you trying to write a novel?",
	{Complexity, models.Rude}:      "Function '%s': Cyclomatic complexity (%d > %d)? What is this monstrosity?",

	{FunctionSize, models.Mild}:      "Function '%s': Too many lines (%d > %d). Consider refactoring.",
	{FunctionSize, models.Sarcastic}: "Function '%[1]s': Wow, %[2]d lines (%[2]d > %[3]d)! Are you writing a novel?",
	{FunctionSize, models.Rude}:      "Function '%[1]s': %[2]d lines (%[2]d > %[3]d)? This is absurd!",

	{Stale, models.Mild}:      "Git: Hey there! Just a heads-up: file hasn't been updated in a while.",
	{Stale, models.Sarcastic}: "Git: file looks stale. Consider revisiting it.",
	{Stale, models.Rude}:      "Git: file is gathering dust. Are you asleep at the keyboard?",

	{Author, models.Mild}:      "Git: file mostly edited by our star `%s`!",
	{Author, models.Sarcastic}: "Git: file mostly authored by `%s`. Check if they're still around.",
	{Author, models.Rude}:      "Git: Looks like here is %s's personal playground.",
}

// Text 返回指定种类和语气的文本，不含格式化动词的文本忽略 args
func Text(kind Kind, tone models.GrumpinessLevel, args ...any) string {
	tmpl, ok := table[key{kind, tone}]
	if !ok {
		tmpl = table[key{kind, models.Mild}]
	}
	if !strings.Contains(tmpl, "%") {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}
