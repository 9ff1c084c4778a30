package evaluator

import (
	"github.com/funvibe/iclc/internal/ast"
	"github.com/funvibe/iclc/internal/typesystem"
)

func (e *Evaluator) evalIdentifier(node *ast.Identifier, env *Environment) Object {
	if val, ok := env.Get(node.Value); ok {
		return val
	}
	return newError("identifier not found: %s", node.Value)
}

// evalAssign rebinds the name, or writes through it when the binding is a
// reference to the assigned value's type.
func (e *Evaluator) evalAssign(node *ast.Assign, env *Environment) Object {
	val := e.Eval(node.Value, env)
	if isError(val) {
		return val
	}

	if e.writesThrough(node) {
		current, ok := env.Get(node.Name.Value)
		if !ok {
			return newError("identifier not found: %s", node.Name.Value)
		}
		ref, ok := current.(*Reference)
		if !ok {
			return newError("%s is not a reference", node.Name.Value)
		}
		ref.Value = val
		return VOID
	}

	if !env.Update(node.Name.Value, val) {
		return newError("identifier not found: %s", node.Name.Value)
	}
	return VOID
}

func (e *Evaluator) writesThrough(node *ast.Assign) bool {
	target, ok := e.TypeMap[node.Name]
	if !ok {
		return false
	}
	value, ok := e.TypeMap[node.Value]
	if !ok {
		return false
	}
	_, isRef := target.(typesystem.Reference)
	return isRef && !typesystem.Equal(target, value)
}
