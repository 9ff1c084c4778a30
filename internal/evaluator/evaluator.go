// Package evaluator executes type-checked programs by walking the tree.
package evaluator

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/funvibe/iclc/internal/ast"
	"github.com/funvibe/iclc/internal/config"
	"github.com/funvibe/iclc/internal/typesystem"
)

type Evaluator struct {
	// Context for cancellation
	Context context.Context

	Out io.Writer

	// TypeMap from analyzer - maps AST nodes to their types. Assignments
	// consult it to tell rebinding from a write through a reference.
	TypeMap map[ast.Node]typesystem.Type

	// MaxCallDepth bounds nested function calls.
	MaxCallDepth int

	// Random backs the `rand` builtin.
	Random func() float64

	callDepth int
}

func New() *Evaluator {
	return &Evaluator{
		Context:      context.Background(),
		Out:          os.Stdout,
		TypeMap:      make(map[ast.Node]typesystem.Type),
		MaxCallDepth: config.DefaultMaxDepth,
		Random:       rand.Float64,
	}
}

func newError(format string, a ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, a...)}
}

func isError(obj Object) bool {
	return obj != nil && obj.Type() == ERROR_OBJ
}

// Run evaluates program in a fresh root environment.
func (e *Evaluator) Run(program *ast.Program) Object {
	return e.Eval(program, NewEnvironment())
}

func (e *Evaluator) Eval(node ast.Node, env *Environment) Object {
	obj := e.evalCore(node, env)
	if err, ok := obj.(*Error); ok && err.Line == 0 && node != nil {
		tok := node.GetToken()
		err.Line = tok.Line
		err.Column = tok.Column
	}
	return obj
}

func (e *Evaluator) evalCore(node ast.Node, env *Environment) Object {
	switch node := node.(type) {
	case *ast.Program:
		return e.evalScopeIn(node.Body, env)
	case *ast.Scope:
		return e.evalScopeIn(node, NewEnclosedEnvironment(env))

	case *ast.NumberLiteral:
		return &Number{Value: node.Value}
	case *ast.BooleanLiteral:
		return nativeBoolToBooleanObject(node.Value)
	case *ast.StringLiteral:
		return &String{Value: node.Value}
	case *ast.Empty:
		return VOID

	case *ast.Identifier:
		return e.evalIdentifier(node, env)
	case *ast.Assign:
		return e.evalAssign(node, env)
	case *ast.InfixExpression:
		return e.evalInfixExpression(node, env)
	case *ast.PrefixExpression:
		return e.evalPrefixExpression(node, env)
	case *ast.NewExpression:
		val := e.Eval(node.Value, env)
		if isError(val) {
			return val
		}
		return &Reference{Value: val}
	case *ast.IfExpression:
		return e.evalIfExpression(node, env)
	case *ast.WhileExpression:
		return e.evalWhileExpression(node, env)
	case *ast.FunctionLiteral:
		params := make([]*ast.Identifier, len(node.Parameters))
		for i, p := range node.Parameters {
			params[i] = p.Name
		}
		return &Function{Parameters: params, Body: node.Body, Env: env}
	case *ast.CallExpression:
		return e.evalCallExpression(node, env)
	case *ast.BuiltinCall:
		return e.evalBuiltinCall(node, env)
	case *ast.PrintExpression:
		return e.evalPrint(node, env)
	case *ast.RecordLiteral:
		return e.evalRecordLiteral(node, env)
	case *ast.FieldAccess:
		return e.evalFieldAccess(node, env)
	}
	return newError("cannot evaluate %T", node)
}
