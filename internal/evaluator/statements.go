package evaluator

import "github.com/funvibe/iclc/internal/ast"

// evalScopeIn runs the statements of scope, then returns the value of its
// trailing expression. Each declaration extends env with a new link.
func (e *Evaluator) evalScopeIn(scope *ast.Scope, env *Environment) Object {
	for _, stmt := range scope.Statements {
		switch stmt := stmt.(type) {
		case *ast.Declaration:
			val := e.Eval(stmt.Value, env)
			if isError(val) {
				return val
			}
			env = NewEnclosedEnvironment(env)
			env.Set(stmt.Name.Value, val)
		case *ast.TypeDeclaration:
			// Types are erased after analysis.
		case *ast.ExpressionStatement:
			if val := e.Eval(stmt.Expression, env); isError(val) {
				return val
			}
		default:
			return newError("cannot evaluate statement %T", stmt)
		}
		if err := e.cancelled(); err != nil {
			return err
		}
	}
	return e.Eval(scope.Result, env)
}

func (e *Evaluator) cancelled() *Error {
	if e.Context == nil {
		return nil
	}
	select {
	case <-e.Context.Done():
		return newError("execution cancelled: %v", e.Context.Err())
	default:
		return nil
	}
}
