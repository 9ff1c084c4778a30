package analyzer

import (
	"github.com/funvibe/iclc/internal/ast"
	"github.com/funvibe/iclc/internal/config"
	"github.com/funvibe/iclc/internal/diagnostics"
	"github.com/funvibe/iclc/internal/symbols"
	"github.com/funvibe/iclc/internal/typesystem"
)

// checkScopeIn checks scope using st as its table. The scope's type is the
// type of its trailing expression.
func (w *walker) checkScopeIn(scope *ast.Scope, st *symbols.SymbolTable) typesystem.Type {
	outer := w.symbolTable
	w.symbolTable = st
	defer func() { w.symbolTable = outer }()

	w.declareTypeAliases(scope)
	for _, stmt := range scope.Statements {
		w.checkStatement(stmt)
	}
	return w.record(scope, w.checkExpression(scope.Result))
}

func (w *walker) checkScope(scope *ast.Scope) typesystem.Type {
	return w.checkScopeIn(scope, symbols.NewEnclosedSymbolTable(w.symbolTable, symbols.ScopeBlock))
}

func (w *walker) checkStatement(stmt ast.Statement) {
	switch stmt := stmt.(type) {
	case *ast.Declaration:
		w.checkDeclaration(stmt)
	case *ast.TypeDeclaration:
		// Hoisted and resolved by declareTypeAliases.
		w.record(stmt, typesystem.VoidType)
	case *ast.ExpressionStatement:
		w.record(stmt, w.checkExpression(stmt.Expression))
	default:
		panic("analyzer: unknown statement")
	}
}

func (w *walker) checkDeclaration(decl *ast.Declaration) {
	valueType := w.checkExpression(decl.Value)

	declared := valueType
	if decl.Annotation != nil {
		annotated := w.resolveTypeExpr(decl.Annotation)
		if annotated != nil && valueType != nil && !typesystem.Equal(annotated, valueType) {
			w.errorf(diagnostics.ErrA003, decl.Value.GetToken(),
				"cannot initialize %s of type %s with a value of type %s", decl.Name.Value, annotated, valueType)
		}
		if annotated != nil {
			declared = annotated
		}
	}

	w.declare(decl.Name, declared, decl.Mutable, decl)
	w.record(decl, typesystem.VoidType)
}

// declare binds name in the current scope. A nil type still binds the name
// so later uses do not cascade into undeclared-identifier errors.
func (w *walker) declare(name *ast.Identifier, t typesystem.Type, mutable bool, node ast.Node) {
	if config.IsBuiltin(name.Value) {
		w.errorf(diagnostics.ErrA002, name.Token, "cannot redeclare builtin function %s", name.Value)
		return
	}
	if !w.symbolTable.Define(name.Value, t, mutable, node) {
		w.errorf(diagnostics.ErrA002, name.Token, "%s is already declared in this scope", name.Value)
	}
}
