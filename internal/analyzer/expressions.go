package analyzer

import (
	"github.com/funvibe/iclc/internal/ast"
	"github.com/funvibe/iclc/internal/config"
	"github.com/funvibe/iclc/internal/diagnostics"
	"github.com/funvibe/iclc/internal/symbols"
	"github.com/funvibe/iclc/internal/typesystem"
)

// checkExpression returns the type of expr, or nil after reporting an error.
func (w *walker) checkExpression(expr ast.Expression) typesystem.Type {
	return w.record(expr, w.inferExpression(expr))
}

func (w *walker) inferExpression(expr ast.Expression) typesystem.Type {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return typesystem.NumberType
	case *ast.BooleanLiteral:
		return typesystem.BooleanType
	case *ast.StringLiteral:
		return typesystem.StringType
	case *ast.Empty:
		return typesystem.VoidType
	case *ast.Identifier:
		return w.checkIdentifier(e)
	case *ast.Assign:
		return w.checkAssign(e)
	case *ast.InfixExpression:
		return w.checkInfix(e)
	case *ast.PrefixExpression:
		return w.checkPrefix(e)
	case *ast.NewExpression:
		inner := w.checkExpression(e.Value)
		if inner == nil {
			return nil
		}
		return typesystem.Reference{Target: inner}
	case *ast.Scope:
		return w.checkScope(e)
	case *ast.IfExpression:
		return w.checkIf(e)
	case *ast.WhileExpression:
		return w.checkWhile(e)
	case *ast.FunctionLiteral:
		return w.checkFunctionLiteral(e)
	case *ast.CallExpression:
		return w.checkCall(e)
	case *ast.BuiltinCall:
		return w.checkBuiltin(e)
	case *ast.PrintExpression:
		return w.checkPrint(e)
	case *ast.RecordLiteral:
		return w.checkRecordLiteral(e)
	case *ast.FieldAccess:
		return w.checkFieldAccess(e)
	}
	panic("analyzer: unknown expression")
}

func (w *walker) checkIdentifier(id *ast.Identifier) typesystem.Type {
	sym, ok := w.symbolTable.Find(id.Value)
	if !ok {
		w.errorf(diagnostics.ErrA001, id.Token, "undeclared identifier %s", id.Value)
		return nil
	}
	return sym.Type
}

// checkAssign accepts `x := e` when x is mutable and e has x's type, or
// when x is a reference cell whose target has e's type (write-through).
func (w *walker) checkAssign(a *ast.Assign) typesystem.Type {
	valueType := w.checkExpression(a.Value)
	sym, ok := w.symbolTable.Find(a.Name.Value)
	if !ok {
		w.errorf(diagnostics.ErrA001, a.Name.Token, "undeclared identifier %s", a.Name.Value)
		return nil
	}
	w.record(a.Name, sym.Type)
	if sym.Type == nil || valueType == nil {
		return typesystem.VoidType
	}

	if typesystem.Equal(sym.Type, valueType) {
		if !sym.Mutable {
			w.errorf(diagnostics.ErrA006, a.Name.Token, "cannot assign to immutable binding %s (declare it with let mut)", a.Name.Value)
		}
		return typesystem.VoidType
	}
	if ref, ok := sym.Type.(typesystem.Reference); ok && typesystem.Equal(ref.Target, valueType) {
		return typesystem.VoidType
	}
	w.errorf(diagnostics.ErrA003, a.Token, "cannot assign a value of type %s to %s of type %s", valueType, a.Name.Value, sym.Type)
	return typesystem.VoidType
}

// OperatorAllowed reports whether op accepts operands of type t. Every
// backend dispatches on the same table.
func OperatorAllowed(op ast.Operator, t typesystem.Type) bool {
	switch t.(type) {
	case typesystem.Number:
		switch op {
		case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv:
			return true
		}
		return op.IsComparison()
	case typesystem.Boolean:
		switch op {
		case ast.OpEq, ast.OpNe, ast.OpAnd, ast.OpOr:
			return true
		}
	case typesystem.String:
		return op == ast.OpAdd || op.IsComparison()
	}
	return false
}

func (w *walker) checkInfix(ie *ast.InfixExpression) typesystem.Type {
	left := w.checkExpression(ie.Left)
	right := w.checkExpression(ie.Right)
	if left == nil || right == nil {
		return nil
	}
	if !typesystem.Equal(left, right) {
		w.errorf(diagnostics.ErrA003, ie.Token, "operands of %s must have the same type, got %s and %s", ie.Operator, left, right)
		return nil
	}
	if !OperatorAllowed(ie.Operator, left) {
		w.errorf(diagnostics.ErrA003, ie.Token, "operator %s is not defined for %s", ie.Operator, left)
		return nil
	}
	if ie.Operator.IsComparison() {
		return typesystem.BooleanType
	}
	return left
}

func (w *walker) checkPrefix(pe *ast.PrefixExpression) typesystem.Type {
	operand := w.checkExpression(pe.Right)
	if operand == nil {
		return nil
	}
	switch pe.Operator {
	case ast.OpPos, ast.OpNeg:
		if _, ok := operand.(typesystem.Number); ok {
			return operand
		}
	case ast.OpNot:
		if _, ok := operand.(typesystem.Boolean); ok {
			return operand
		}
	case ast.OpDeref:
		if ref, ok := operand.(typesystem.Reference); ok {
			return ref.Target
		}
	}
	w.errorf(diagnostics.ErrA003, pe.Token, "operator %s is not defined for %s", pe.Operator.Symbol(), operand)
	return nil
}

func (w *walker) expectBoolean(cond ast.Expression) {
	t := w.checkExpression(cond)
	if t == nil {
		return
	}
	if _, ok := t.(typesystem.Boolean); !ok {
		w.errorf(diagnostics.ErrA003, cond.GetToken(), "condition must be bool, got %s", t)
	}
}

func (w *walker) checkIf(ie *ast.IfExpression) typesystem.Type {
	var result typesystem.Type
	failed := false

	unify := func(t typesystem.Type, at ast.Node) {
		if t == nil {
			failed = true
			return
		}
		if result == nil {
			result = t
			return
		}
		if !typesystem.Equal(result, t) {
			w.errorf(diagnostics.ErrA003, at.GetToken(), "if branches must have the same type, got %s and %s", result, t)
			failed = true
		}
	}

	for _, branch := range ie.Branches {
		w.expectBoolean(branch.Condition)
		unify(w.checkScope(branch.Body), branch.Body)
	}
	if ie.Else != nil {
		unify(w.checkScope(ie.Else), ie.Else)
	} else {
		unify(typesystem.VoidType, ie)
	}

	if failed {
		return nil
	}
	return result
}

func (w *walker) checkWhile(we *ast.WhileExpression) typesystem.Type {
	w.expectBoolean(we.Condition)
	if w.checkScope(we.Body) == nil {
		return nil
	}
	return typesystem.VoidType
}

func (w *walker) checkFunctionLiteral(fn *ast.FunctionLiteral) typesystem.Type {
	defer w.enter(symbols.ScopeFunction)()

	args := make([]typesystem.Type, len(fn.Parameters))
	failed := false
	for i, p := range fn.Parameters {
		args[i] = w.resolveTypeExpr(p.Type)
		if args[i] == nil {
			failed = true
		}
		w.declare(p.Name, args[i], false, fn)
		w.record(p.Name, args[i])
	}

	var declaredRet typesystem.Type
	if fn.ReturnType != nil {
		declaredRet = w.resolveTypeExpr(fn.ReturnType)
		if declaredRet == nil {
			failed = true
		}
	}

	bodyType := w.checkScope(fn.Body)
	if bodyType == nil {
		failed = true
	}

	if failed {
		return nil
	}
	if declaredRet != nil && !typesystem.Equal(declaredRet, bodyType) {
		w.errorf(diagnostics.ErrA003, fn.Body.GetToken(), "function body has type %s, declared return type is %s", bodyType, declaredRet)
		return nil
	}
	return typesystem.Function{Args: args, Ret: bodyType}
}

func (w *walker) checkCall(ce *ast.CallExpression) typesystem.Type {
	callee := w.checkExpression(ce.Function)
	argTypes := make([]typesystem.Type, len(ce.Arguments))
	for i, arg := range ce.Arguments {
		argTypes[i] = w.checkExpression(arg)
	}
	if callee == nil {
		return nil
	}

	fn, ok := callee.(typesystem.Function)
	if !ok {
		w.errorf(diagnostics.ErrA003, ce.Token, "cannot call a value of type %s", callee)
		return nil
	}
	if len(fn.Args) != len(ce.Arguments) {
		w.errorf(diagnostics.ErrA004, ce.Token, "expected %d arguments, got %d", len(fn.Args), len(ce.Arguments))
		return nil
	}
	for i, at := range argTypes {
		if at != nil && !typesystem.Equal(at, fn.Args[i]) {
			w.errorf(diagnostics.ErrA003, ce.Arguments[i].GetToken(), "argument %d has type %s, expected %s", i+1, at, fn.Args[i])
			return nil
		}
	}
	return fn.Ret
}

func (w *walker) checkBuiltin(bc *ast.BuiltinCall) typesystem.Type {
	arity := config.Builtins[bc.Name]
	for _, arg := range bc.Arguments {
		t := w.checkExpression(arg)
		if t == nil {
			continue
		}
		if _, ok := t.(typesystem.Number); !ok {
			w.errorf(diagnostics.ErrA003, arg.GetToken(), "%s expects number arguments, got %s", bc.Name, t)
		}
	}
	n := len(bc.Arguments)
	if n < arity.Min || (arity.Max >= 0 && n > arity.Max) {
		switch {
		case arity.Max < 0:
			w.errorf(diagnostics.ErrA004, bc.Token, "%s expects at least %d arguments, got %d", bc.Name, arity.Min, n)
		default:
			w.errorf(diagnostics.ErrA004, bc.Token, "%s expects %d arguments, got %d", bc.Name, arity.Min, n)
		}
		return nil
	}
	return typesystem.NumberType
}

func (w *walker) checkPrint(pe *ast.PrintExpression) typesystem.Type {
	t := w.checkExpression(pe.Value)
	if t == nil {
		return typesystem.VoidType
	}
	if !typesystem.IsPrimitive(t) {
		w.errorf(diagnostics.ErrA003, pe.Value.GetToken(), "cannot print a value of type %s", t)
	}
	return typesystem.VoidType
}

func (w *walker) checkRecordLiteral(rl *ast.RecordLiteral) typesystem.Type {
	fields := make(map[string]typesystem.Type, len(rl.Fields))
	failed := false
	for _, f := range rl.Fields {
		t := w.checkExpression(f.Value)
		if t == nil {
			failed = true
			continue
		}
		fields[f.Name.Value] = t
	}
	if failed {
		return nil
	}
	return typesystem.Record{Fields: fields}
}

func (w *walker) checkFieldAccess(fa *ast.FieldAccess) typesystem.Type {
	t := w.checkExpression(fa.Record)
	if t == nil {
		return nil
	}
	rec, ok := t.(typesystem.Record)
	if !ok {
		w.errorf(diagnostics.ErrA003, fa.Token, "cannot access field %s of a value of type %s", fa.Field.Value, t)
		return nil
	}
	field, ok := rec.Field(fa.Field.Value)
	if !ok {
		w.errorf(diagnostics.ErrA007, fa.Field.Token, "type %s has no field %s", rec, fa.Field.Value)
		return nil
	}
	return field
}
