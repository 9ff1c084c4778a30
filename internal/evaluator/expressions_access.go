package evaluator

import "github.com/funvibe/iclc/internal/ast"

func (e *Evaluator) evalRecordLiteral(node *ast.RecordLiteral, env *Environment) Object {
	fields := make(map[string]Object, len(node.Fields))
	// Fields are evaluated in source order.
	for _, f := range node.Fields {
		val := e.Eval(f.Value, env)
		if isError(val) {
			return val
		}
		fields[f.Name.Value] = val
	}
	return &Record{Fields: fields}
}

func (e *Evaluator) evalFieldAccess(node *ast.FieldAccess, env *Environment) Object {
	obj := e.Eval(node.Record, env)
	if isError(obj) {
		return obj
	}
	rec, ok := obj.(*Record)
	if !ok {
		return newError("field access on %s", obj.Type())
	}
	val, ok := rec.Fields[node.Field.Value]
	if !ok {
		return newError("record has no field %s", node.Field.Value)
	}
	return val
}
