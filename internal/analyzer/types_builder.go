package analyzer

import (
	"errors"

	"github.com/funvibe/iclc/internal/ast"
	"github.com/funvibe/iclc/internal/diagnostics"
	"github.com/funvibe/iclc/internal/token"
	"github.com/funvibe/iclc/internal/typesystem"
)

// BuildType converts a type expression into a typesystem.Type. Alias names
// stay as typesystem.Alias; callers resolve them against a scope.
func BuildType(t ast.TypeExpr) typesystem.Type {
	switch t := t.(type) {
	case *ast.NamedType:
		switch t.Token.Type {
		case token.NUMBER_T:
			return typesystem.NumberType
		case token.BOOL_T:
			return typesystem.BooleanType
		case token.STRING_T:
			return typesystem.StringType
		case token.VOID_T:
			return typesystem.VoidType
		}
		return typesystem.Alias{Name: t.Name}
	case *ast.RefType:
		return typesystem.Reference{Target: BuildType(t.Target)}
	case *ast.FunctionType:
		args := make([]typesystem.Type, len(t.Parameters))
		for i, p := range t.Parameters {
			args[i] = BuildType(p)
		}
		return typesystem.Function{Args: args, Ret: BuildType(t.ReturnType)}
	case *ast.RecordType:
		fields := make(map[string]typesystem.Type, len(t.Fields))
		for _, f := range t.Fields {
			fields[f.Name.Value] = BuildType(f.Type)
		}
		return typesystem.Record{Fields: fields}
	}
	panic("analyzer: unknown type expression")
}

// resolveTypeExpr builds and resolves t in the current scope, reporting
// undeclared or cyclic aliases at t's position.
func (w *walker) resolveTypeExpr(t ast.TypeExpr) typesystem.Type {
	resolved, err := w.symbolTable.ResolveType(BuildType(t))
	if err != nil {
		w.reportAliasError(t.GetToken(), err)
		return nil
	}
	return resolved
}

func (w *walker) reportAliasError(tok token.Token, err error) {
	var cyc *typesystem.CyclicAliasError
	var undef *typesystem.UndefinedTypeError
	switch {
	case errors.As(err, &cyc):
		w.errorf(diagnostics.ErrA005, tok, "%s", cyc.Error())
	case errors.As(err, &undef):
		w.errorf(diagnostics.ErrA008, tok, "%s", undef.Error())
	default:
		w.errorf(diagnostics.ErrA003, tok, "%s", err.Error())
	}
}

// declareTypeAliases hoists every `type` declaration of a scope, then
// resolves each one so cycles are reported at their declaration.
func (w *walker) declareTypeAliases(scope *ast.Scope) {
	var decls []*ast.TypeDeclaration
	for _, stmt := range scope.Statements {
		td, ok := stmt.(*ast.TypeDeclaration)
		if !ok {
			continue
		}
		if !w.symbolTable.DeclareTypeAlias(td.Name.Value, BuildType(td.Type), td) {
			w.errorf(diagnostics.ErrA002, td.Name.Token, "type %s is already declared in this scope", td.Name.Value)
			continue
		}
		decls = append(decls, td)
	}
	for _, td := range decls {
		if _, err := w.symbolTable.ResolveAlias(td.Name.Value); err != nil {
			w.reportAliasError(td.Name.Token, err)
		}
	}
}
