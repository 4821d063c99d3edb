package interpreter

import (
	"math"
	"strconv"

	"github.com/Hirooo17/ownGRAHs/pkg/ast"
	"github.com/Hirooo17/ownGRAHs/pkg/diagnostics"
	"github.com/Hirooo17/ownGRAHs/pkg/lexer"
	"github.com/Hirooo17/ownGRAHs/pkg/runtime"
)

// evaluateExpression reduces expr with an operand stack and an operator
// stack. Operators of equal or higher precedence already on the stack are
// applied before a new one is pushed, which makes every level left
// associative.
func (i *Interpreter) evaluateExpression(expr ast.Expression) (runtime.Value, error) {
	var values []runtime.Value
	var ops []string

	apply := func() error {
		op := ops[len(ops)-1]
		ops = ops[:len(ops)-1]
		if len(values) < 2 {
			return diagnostics.Errorf(diagnostics.RuntimeError, "invalid expression")
		}
		left, right := values[len(values)-2], values[len(values)-1]
		values = values[:len(values)-2]
		result, err := evaluateBinary(op, left, right)
		if err != nil {
			return err
		}
		values = append(values, result)
		return nil
	}

	for _, tok := range expr.Tokens {
		switch {
		case lexer.IsIntegerLiteral(tok):
			n, err := strconv.ParseInt(tok, 10, 64)
			if err != nil {
				return nil, diagnostics.Errorf(diagnostics.RuntimeError, "integer literal %s is out of range", tok)
			}
			values = append(values, runtime.IntegerValue{Val: n})
		case lexer.IsStringLiteral(tok):
			values = append(values, runtime.StringValue{Val: lexer.Unquote(tok)})
		case lexer.IsIdentifier(tok):
			v, ok := i.env.Lookup(tok)
			if !ok {
				return nil, diagnostics.Errorf(diagnostics.RuntimeError, "variable '%s' is not defined", tok)
			}
			values = append(values, v)
		case lexer.IsOperator(tok):
			prec, _ := lexer.Precedence(tok)
			for len(ops) > 0 {
				top, _ := lexer.Precedence(ops[len(ops)-1])
				if top < prec {
					break
				}
				if err := apply(); err != nil {
					return nil, err
				}
			}
			ops = append(ops, tok)
		default:
			return nil, diagnostics.Errorf(diagnostics.SyntaxError, "unrecognized token '%s'", tok)
		}
	}
	for len(ops) > 0 {
		if err := apply(); err != nil {
			return nil, err
		}
	}
	if len(values) != 1 {
		return nil, diagnostics.Errorf(diagnostics.RuntimeError, "invalid expression")
	}
	return values[0], nil
}

func evaluateBinary(op string, left, right runtime.Value) (runtime.Value, error) {
	ls, leftText := left.(runtime.StringValue)
	rs, rightText := right.(runtime.StringValue)
	switch {
	case leftText && rightText:
		return evaluateText(op, ls.Val, rs.Val, left, right)
	case leftText || rightText:
		switch op {
		case "==":
			return runtime.BoolValue{Val: false}, nil
		case "!=":
			return runtime.BoolValue{Val: true}, nil
		}
		return nil, unsupportedOperands(op, left, right)
	}

	ln, lok := runtime.Numeric(left)
	rn, rok := runtime.Numeric(right)
	if !lok || !rok {
		return nil, unsupportedOperands(op, left, right)
	}
	_, leftFloat := left.(runtime.FloatValue)
	_, rightFloat := right.(runtime.FloatValue)
	if op == "/" {
		if rn == 0 {
			return nil, diagnostics.Errorf(diagnostics.RuntimeError, "division by zero")
		}
		return runtime.FloatValue{Val: ln / rn}, nil
	}
	if leftFloat || rightFloat {
		return evaluateFloat(op, ln, rn, left, right)
	}
	return evaluateInteger(op, integerOf(left), integerOf(right), left, right)
}

func integerOf(v runtime.Value) int64 {
	switch val := v.(type) {
	case runtime.IntegerValue:
		return val.Val
	case runtime.BoolValue:
		if val.Val {
			return 1
		}
	}
	return 0
}

func evaluateInteger(op string, l, r int64, left, right runtime.Value) (runtime.Value, error) {
	switch op {
	case "+":
		sum := l + r
		if (r > 0 && sum < l) || (r < 0 && sum > l) {
			return nil, integerOverflow(op)
		}
		return runtime.IntegerValue{Val: sum}, nil
	case "-":
		diff := l - r
		if (r > 0 && diff > l) || (r < 0 && diff < l) {
			return nil, integerOverflow(op)
		}
		return runtime.IntegerValue{Val: diff}, nil
	case "*":
		if l == 0 || r == 0 {
			return runtime.IntegerValue{Val: 0}, nil
		}
		product := l * r
		if (l == -1 && r == math.MinInt64) || (r == -1 && l == math.MinInt64) || product/l != r {
			return nil, integerOverflow(op)
		}
		return runtime.IntegerValue{Val: product}, nil
	case ">":
		return runtime.BoolValue{Val: l > r}, nil
	case "<":
		return runtime.BoolValue{Val: l < r}, nil
	case ">=":
		return runtime.BoolValue{Val: l >= r}, nil
	case "<=":
		return runtime.BoolValue{Val: l <= r}, nil
	case "==":
		return runtime.BoolValue{Val: l == r}, nil
	case "!=":
		return runtime.BoolValue{Val: l != r}, nil
	}
	return nil, unsupportedOperands(op, left, right)
}

func integerOverflow(op string) error {
	return diagnostics.Errorf(diagnostics.RuntimeError, "integer overflow in %s", op)
}

func evaluateFloat(op string, l, r float64, left, right runtime.Value) (runtime.Value, error) {
	switch op {
	case "+":
		return runtime.FloatValue{Val: l + r}, nil
	case "-":
		return runtime.FloatValue{Val: l - r}, nil
	case "*":
		return runtime.FloatValue{Val: l * r}, nil
	case ">":
		return runtime.BoolValue{Val: l > r}, nil
	case "<":
		return runtime.BoolValue{Val: l < r}, nil
	case ">=":
		return runtime.BoolValue{Val: l >= r}, nil
	case "<=":
		return runtime.BoolValue{Val: l <= r}, nil
	case "==":
		return runtime.BoolValue{Val: l == r}, nil
	case "!=":
		return runtime.BoolValue{Val: l != r}, nil
	}
	return nil, unsupportedOperands(op, left, right)
}

func evaluateText(op, l, r string, left, right runtime.Value) (runtime.Value, error) {
	switch op {
	case "+":
		return runtime.StringValue{Val: l + r}, nil
	case ">":
		return runtime.BoolValue{Val: l > r}, nil
	case "<":
		return runtime.BoolValue{Val: l < r}, nil
	case ">=":
		return runtime.BoolValue{Val: l >= r}, nil
	case "<=":
		return runtime.BoolValue{Val: l <= r}, nil
	case "==":
		return runtime.BoolValue{Val: l == r}, nil
	case "!=":
		return runtime.BoolValue{Val: l != r}, nil
	}
	return nil, unsupportedOperands(op, left, right)
}

func unsupportedOperands(op string, left, right runtime.Value) error {
	return diagnostics.Errorf(diagnostics.RuntimeError, "unsupported operand types for %s: %s and %s", op, left.Kind(), right.Kind())
}
