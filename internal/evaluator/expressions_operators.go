package evaluator

import (
	"strings"

	"github.com/funvibe/iclc/internal/ast"
)

func (e *Evaluator) evalInfixExpression(node *ast.InfixExpression, env *Environment) Object {
	// Both operands are always evaluated; && and || do not short-circuit.
	left := e.Eval(node.Left, env)
	if isError(left) {
		return left
	}
	right := e.Eval(node.Right, env)
	if isError(right) {
		return right
	}

	switch l := left.(type) {
	case *Number:
		if r, ok := right.(*Number); ok {
			return evalNumberInfix(node.Operator, l.Value, r.Value)
		}
	case *Boolean:
		if r, ok := right.(*Boolean); ok {
			return evalBooleanInfix(node.Operator, l.Value, r.Value)
		}
	case *String:
		if r, ok := right.(*String); ok {
			return evalStringInfix(node.Operator, l.Value, r.Value)
		}
	}
	return newError("unsupported operands for %s: %s and %s", node.Operator, left.Type(), right.Type())
}

func evalNumberInfix(op ast.Operator, l, r float64) Object {
	switch op {
	case ast.OpAdd:
		return &Number{Value: l + r}
	case ast.OpSub:
		return &Number{Value: l - r}
	case ast.OpMul:
		return &Number{Value: l * r}
	case ast.OpDiv:
		return &Number{Value: l / r}
	case ast.OpEq:
		return nativeBoolToBooleanObject(l == r)
	case ast.OpNe:
		return nativeBoolToBooleanObject(l != r)
	case ast.OpLt:
		return nativeBoolToBooleanObject(l < r)
	case ast.OpLte:
		return nativeBoolToBooleanObject(l <= r)
	case ast.OpGt:
		return nativeBoolToBooleanObject(l > r)
	case ast.OpGte:
		return nativeBoolToBooleanObject(l >= r)
	}
	return newError("operator %s is not defined for numbers", op)
}

func evalBooleanInfix(op ast.Operator, l, r bool) Object {
	switch op {
	case ast.OpEq:
		return nativeBoolToBooleanObject(l == r)
	case ast.OpNe:
		return nativeBoolToBooleanObject(l != r)
	case ast.OpAnd:
		return nativeBoolToBooleanObject(l && r)
	case ast.OpOr:
		return nativeBoolToBooleanObject(l || r)
	}
	return newError("operator %s is not defined for booleans", op)
}

func evalStringInfix(op ast.Operator, l, r string) Object {
	if op == ast.OpAdd {
		return &String{Value: l + r}
	}
	cmp := strings.Compare(l, r)
	switch op {
	case ast.OpEq:
		return nativeBoolToBooleanObject(cmp == 0)
	case ast.OpNe:
		return nativeBoolToBooleanObject(cmp != 0)
	case ast.OpLt:
		return nativeBoolToBooleanObject(cmp < 0)
	case ast.OpLte:
		return nativeBoolToBooleanObject(cmp <= 0)
	case ast.OpGt:
		return nativeBoolToBooleanObject(cmp > 0)
	case ast.OpGte:
		return nativeBoolToBooleanObject(cmp >= 0)
	}
	return newError("operator %s is not defined for strings", op)
}

func (e *Evaluator) evalPrefixExpression(node *ast.PrefixExpression, env *Environment) Object {
	right := e.Eval(node.Right, env)
	if isError(right) {
		return right
	}

	switch node.Operator {
	case ast.OpPos:
		if n, ok := right.(*Number); ok {
			return n
		}
	case ast.OpNeg:
		if n, ok := right.(*Number); ok {
			return &Number{Value: -n.Value}
		}
	case ast.OpNot:
		if b, ok := right.(*Boolean); ok {
			return nativeBoolToBooleanObject(!b.Value)
		}
	case ast.OpDeref:
		if ref, ok := right.(*Reference); ok {
			return ref.Value
		}
	}
	return newError("operator %s is not defined for %s", node.Operator.Symbol(), right.Type())
}
