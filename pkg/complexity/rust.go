package complexity

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/yeisme/grumpy/pkg/models"
)

type rustFrontend struct{}

func (rustFrontend) Language() string { return "rust" }

// if_let_expression 与 while_let_expression 只出现在旧版语法中
var rustBranchKinds = map[string]bool{
	"if_expression":        true,
	"if_let_expression":    true,
	"match_expression":     true,
	"while_expression":     true,
	"while_let_expression": true,
	"for_expression":       true,
	"loop_expression":      true,
}

func (rustFrontend) Analyze(filename string, src []byte) ([]models.FunctionMetrics, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(rust.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse file %s: %v", filename, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, errors.New("no root node in parse tree")
	}
	if root.HasError() {
		return nil, fmt.Errorf("syntax error near line %d", firstErrorLine(root))
	}

	var out []models.FunctionMetrics
	for i := 0; i < int(root.NamedChildCount()); i++ {
		item := root.NamedChild(i)
		if item == nil || item.Type() != "function_item" {
			continue
		}
		name := ""
		if n := item.ChildByFieldName("name"); n != nil {
			name = n.Content(src)
		}

		var t tally
		statements := 0
		if body := item.ChildByFieldName("body"); body != nil {
			t = walkRust(body, 0)
			statements = countRustStatements(body)
		}
		out = append(out, t.metrics(name, statements, countRustParams(item)))
	}
	return out, nil
}

// walkRust 递归遍历 node 的具名子节点，depth 为当前嵌套深度
func walkRust(node *sitter.Node, depth int) tally {
	var t tally
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		kind := child.Type()
		switch {
		case kind == "closure_expression", kind == "function_item":
			// 闭包与嵌套函数的函数体不计入
		case rustBranchKinds[kind]:
			sub := walkRust(child, depth+1)
			sub.branches++
			sub.maxDepth = max(sub.maxDepth, depth+1)
			t = t.add(sub)
		case kind == "return_expression":
			sub := walkRust(child, depth)
			sub.returns++
			t = t.add(sub)
		default:
			t = t.add(walkRust(child, depth))
		}
	}
	return t
}

// countRustStatements 统计函数体 block 的顶层语句（不含注释）
func countRustStatements(body *sitter.Node) int {
	n := 0
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "line_comment", "block_comment":
			continue
		}
		n++
	}
	return n
}

// countRustParams 统计参数个数，self 接收者也计入
func countRustParams(item *sitter.Node) int {
	params := item.ChildByFieldName("parameters")
	if params == nil {
		return 0
	}
	n := 0
	for i := 0; i < int(params.NamedChildCount()); i++ {
		child := params.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "parameter", "self_parameter", "variadic_parameter":
			n++
		}
	}
	return n
}

func firstErrorLine(node *sitter.Node) uint32 {
	if node.IsError() || node.IsMissing() {
		return node.StartPoint().Row + 1
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child != nil && child.HasError() {
			return firstErrorLine(child)
		}
	}
	return node.StartPoint().Row + 1
}
