package evaluator

import (
	"github.com/funvibe/iclc/internal/ast"
	"github.com/funvibe/iclc/internal/config"
)

func (e *Evaluator) evalExpressions(exprs []ast.Expression, env *Environment) ([]Object, Object) {
	result := make([]Object, 0, len(exprs))
	for _, expr := range exprs {
		val := e.Eval(expr, env)
		if isError(val) {
			return nil, val
		}
		result = append(result, val)
	}
	return result, nil
}

func (e *Evaluator) evalCallExpression(node *ast.CallExpression, env *Environment) Object {
	callee := e.Eval(node.Function, env)
	if isError(callee) {
		return callee
	}
	args, err := e.evalExpressions(node.Arguments, env)
	if err != nil {
		return err
	}
	fn, ok := callee.(*Function)
	if !ok {
		return newError("not a function: %s", callee.Type())
	}
	return e.applyFunction(fn, args)
}

func (e *Evaluator) applyFunction(fn *Function, args []Object) Object {
	if len(args) != len(fn.Parameters) {
		return newError("wrong number of arguments: expected %d, got %d", len(fn.Parameters), len(args))
	}
	limit := e.MaxCallDepth
	if limit <= 0 {
		limit = config.DefaultMaxDepth
	}
	if e.callDepth >= limit {
		return newError("maximum call depth %d exceeded", limit)
	}
	if err := e.cancelled(); err != nil {
		return err
	}

	e.callDepth++
	defer func() { e.callDepth-- }()

	callEnv := NewEnclosedEnvironment(fn.Env)
	for i, param := range fn.Parameters {
		callEnv.Set(param.Value, args[i])
	}
	return e.Eval(fn.Body, callEnv)
}
