package evaluator

import "github.com/funvibe/iclc/internal/ast"

func (e *Evaluator) evalCondition(cond ast.Expression, env *Environment) (bool, Object) {
	val := e.Eval(cond, env)
	if isError(val) {
		return false, val
	}
	b, ok := val.(*Boolean)
	if !ok {
		return false, newError("condition is %s, not BOOLEAN", val.Type())
	}
	return b.Value, nil
}

func (e *Evaluator) evalIfExpression(node *ast.IfExpression, env *Environment) Object {
	for _, branch := range node.Branches {
		ok, err := e.evalCondition(branch.Condition, env)
		if err != nil {
			return err
		}
		if ok {
			return e.Eval(branch.Body, env)
		}
	}
	if node.Else != nil {
		return e.Eval(node.Else, env)
	}
	return VOID
}

func (e *Evaluator) evalWhileExpression(node *ast.WhileExpression, env *Environment) Object {
	for {
		ok, err := e.evalCondition(node.Condition, env)
		if err != nil {
			return err
		}
		if !ok {
			return VOID
		}
		if val := e.Eval(node.Body, env); isError(val) {
			return val
		}
		if err := e.cancelled(); err != nil {
			return err
		}
	}
}
