package interpreter

import (
	"fmt"
	"strings"

	"github.com/Hirooo17/ownGRAHs/pkg/ast"
	"github.com/Hirooo17/ownGRAHs/pkg/diagnostics"
	"github.com/Hirooo17/ownGRAHs/pkg/runtime"
)

// executeBody runs a statement list. An aborting invalid statement stops the
// list; the caller's list carries on.
func (i *Interpreter) executeBody(body []ast.Statement) {
	for _, stmt := range body {
		if stop := i.executeStatement(stmt); stop {
			return
		}
	}
}

func (i *Interpreter) executeStatement(node ast.Statement) bool {
	i.traceStatement(node)
	switch n := node.(type) {
	case *ast.Declaration:
		i.executeDeclaration(n)
	case *ast.Assignment:
		i.executeAssignment(n)
	case *ast.Display:
		i.executeDisplay(n)
	case *ast.Print:
		i.executePrint(n)
	case *ast.ForLoop:
		i.executeForLoop(n)
	case *ast.If:
		i.executeIf(n)
	case *ast.Switch:
		i.executeSwitch(n)
	case *ast.Invalid:
		i.report(n.Diagnostic)
		return n.Abort
	default:
		i.report(diagnostics.Runtime(node.Line(), "unsupported statement type: %s", node.NodeType()))
	}
	return false
}

func (i *Interpreter) evaluateAt(expr ast.Expression, line int) (runtime.Value, bool) {
	v, err := i.evaluateExpression(expr)
	if err != nil {
		i.report(diagnostics.FromError(err, line))
		return nil, false
	}
	return v, true
}

func (i *Interpreter) executeDeclaration(n *ast.Declaration) {
	v, ok := i.evaluateAt(n.Value, n.Line())
	if !ok {
		return
	}
	switch n.Type {
	case ast.TypeInt:
		iv, err := runtime.ToInteger(v)
		if err != nil {
			i.report(diagnostics.Runtime(n.Line(), "cannot declare '%s' as %s: %v", n.Name, i.table.IntType(), err))
			return
		}
		i.env.Define(n.Name, iv)
	case ast.TypeString:
		i.env.Define(n.Name, runtime.ToString(v))
	}
}

func (i *Interpreter) executeAssignment(n *ast.Assignment) {
	if !i.env.Has(n.Name) {
		i.report(diagnostics.Runtime(n.Line(), "variable '%s' is used before being declared with %s", n.Name, i.declareKeywordList()))
		return
	}
	v, ok := i.evaluateAt(n.Value, n.Line())
	if !ok {
		return
	}
	if err := i.env.Assign(n.Name, v); err != nil {
		i.report(diagnostics.FromError(err, n.Line()))
	}
}

func (i *Interpreter) declareKeywordList() string {
	keywords := i.table.DeclareKeywords()
	quoted := make([]string, len(keywords))
	for idx, kw := range keywords {
		quoted[idx] = fmt.Sprintf("'%s'", kw)
	}
	return strings.Join(quoted, " or ")
}

func (i *Interpreter) executeDisplay(n *ast.Display) {
	v, ok := i.evaluateAt(n.Value, n.Line())
	if !ok {
		i.out.displayFailed()
		return
	}
	i.out.display(runtime.Format(v))
}

func (i *Interpreter) executePrint(n *ast.Print) {
	v, ok := i.evaluateAt(n.Value, n.Line())
	if !ok {
		i.out.printFailed()
		return
	}
	i.out.print(runtime.Format(v))
}

// executeForLoop binds the loop variable in the shared environment, so both
// it and anything the body binds remain visible after the loop.
func (i *Interpreter) executeForLoop(n *ast.ForLoop) {
	for j := 0; j < n.Count; j++ {
		i.env.Define(n.Variable, runtime.IntegerValue{Val: int64(j)})
		i.executeBody(n.Body)
	}
}

func (i *Interpreter) executeIf(n *ast.If) {
	cond, ok := i.evaluateAt(n.Condition, n.Line())
	if ok && runtime.Truthy(cond) {
		i.executeBody(n.Then)
		return
	}
	if n.HasElse {
		i.executeBody(n.Else)
	}
}

// executeSwitch compares textual forms, so 1 and "1" select the same case.
func (i *Interpreter) executeSwitch(n *ast.Switch) {
	subject, ok := i.evaluateAt(n.Subject, n.Line())
	if !ok {
		return
	}
	key := runtime.ToString(subject).Val
	for _, c := range n.Cases {
		if c.Key == key {
			i.executeBody(c.Body)
			return
		}
	}
	if n.Default != nil {
		i.executeBody(n.Default.Body)
	}
}
