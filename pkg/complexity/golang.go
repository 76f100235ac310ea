package complexity

import (
	"go/ast"
	"go/parser"
	"go/token"

	"github.com/yeisme/grumpy/pkg/models"
)

type goFrontend struct{}

func (goFrontend) Language() string { return "go" }

func (goFrontend) Analyze(filename string, src []byte) ([]models.FunctionMetrics, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, filename, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, err
	}

	var out []models.FunctionMetrics
	for _, decl := range f.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		var t tally
		statements := 0
		if fn.Body != nil {
			t = walkGo(fn.Body, 0)
			statements = len(fn.Body.List)
		}
		out = append(out, t.metrics(goFuncName(fn), statements, countGoParams(fn.Type.Params)))
	}
	return out, nil
}

// goFuncName 返回函数名，方法形如 Recv.Method
func goFuncName(fn *ast.FuncDecl) string {
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		return fn.Name.Name
	}
	typ := fn.Recv.List[0].Type
	for {
		switch x := typ.(type) {
		case *ast.StarExpr:
			typ = x.X
			continue
		case *ast.IndexExpr:
			typ = x.X
			continue
		case *ast.IndexListExpr:
			typ = x.X
			continue
		case *ast.Ident:
			return x.Name + "." + fn.Name.Name
		}
		return fn.Name.Name
	}
}

// countGoParams 统计声明的参数个数，未命名参数按一个计
func countGoParams(fields *ast.FieldList) int {
	if fields == nil {
		return 0
	}
	n := 0
	for _, f := range fields.List {
		if len(f.Names) == 0 {
			n++
			continue
		}
		n += len(f.Names)
	}
	return n
}

// walkGo 递归遍历 node 的直接子节点，depth 为当前嵌套深度
func walkGo(node ast.Node, depth int) tally {
	var t tally
	ast.Inspect(node, func(child ast.Node) bool {
		if child == nil || child == node {
			return child == node
		}
		switch child.(type) {
		case *ast.FuncLit:
			// 闭包函数体不计入
		case *ast.IfStmt, *ast.SwitchStmt, *ast.TypeSwitchStmt, *ast.SelectStmt, *ast.ForStmt, *ast.RangeStmt:
			sub := walkGo(child, depth+1)
			sub.branches++
			sub.maxDepth = max(sub.maxDepth, depth+1)
			t = t.add(sub)
		case *ast.ReturnStmt:
			sub := walkGo(child, depth)
			sub.returns++
			t = t.add(sub)
		default:
			t = t.add(walkGo(child, depth))
		}
		return false
	})
	return t
}
