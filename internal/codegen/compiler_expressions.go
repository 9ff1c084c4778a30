package codegen

import (
	"github.com/funvibe/iclc/internal/analyzer"
	"github.com/funvibe/iclc/internal/ast"
	"github.com/funvibe/iclc/internal/bytecode"
	"github.com/funvibe/iclc/internal/config"
	"github.com/funvibe/iclc/internal/typesystem"
)

// compileExpression leaves the value of expr on the stack. Void
// expressions leave nothing.
func (c *Compiler) compileExpression(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		c.emit(bytecode.Double(e.Value))
	case *ast.BooleanLiteral:
		if e.Value {
			c.emit(bytecode.Simple(bytecode.ICONST_1))
		} else {
			c.emit(bytecode.Simple(bytecode.ICONST_0))
		}
	case *ast.StringLiteral:
		c.emit(bytecode.Text(e.Value))
	case *ast.Empty:
	case *ast.Identifier:
		c.compileIdentifier(e)
	case *ast.Assign:
		c.compileAssign(e)
	case *ast.InfixExpression:
		c.compileInfix(e)
	case *ast.PrefixExpression:
		c.compilePrefix(e)
	case *ast.NewExpression:
		c.compileNew(e)
	case *ast.Scope:
		c.compileScope(e)
	case *ast.IfExpression:
		c.compileIf(e)
	case *ast.WhileExpression:
		c.compileWhile(e)
	case *ast.FunctionLiteral:
		c.compileFunctionLiteral(e)
	case *ast.CallExpression:
		c.compileCall(e)
	case *ast.BuiltinCall:
		c.compileBuiltin(e)
	case *ast.PrintExpression:
		c.compilePrint(e)
	case *ast.RecordLiteral:
		c.compileRecordLiteral(e)
	case *ast.FieldAccess:
		c.compileFieldAccess(e)
	default:
		contractf(expr, "unknown expression %T", expr)
	}
}

// getField reads a field and drops it again when its type is Void.
func (c *Compiler) getField(owner, name, desc string, t typesystem.Type) {
	c.emit(bytecode.Member(bytecode.GETFIELD, owner, name, desc))
	if isVoid(t) {
		c.emit(bytecode.Simple(bytecode.POP))
	}
}

func (c *Compiler) compileIdentifier(id *ast.Identifier) {
	l := c.env.LookupOf(id)
	c.loadOwner(l)
	c.getField(c.ctx.Frame(l.Frame).Name, l.Field.FieldName, l.Field.Descriptor, l.Field.Type)
}

// compileAssign rebinds a variable, or stores through it when the variable
// is a reference cell and the value has the cell's target type.
func (c *Compiler) compileAssign(a *ast.Assign) {
	l := c.env.LookupOf(a)
	owner := c.ctx.Frame(l.Frame).Name
	valueType := c.typeOf(a.Value)

	ref, isRef := l.Field.Type.(typesystem.Reference)
	if isRef && !typesystem.Equal(l.Field.Type, valueType) {
		if !typesystem.Equal(ref.Target, valueType) {
			contractf(a, "cannot store %v through %v", valueType, l.Field.Type)
		}
		cell := c.ctx.InternReference(ref)
		c.loadOwner(l)
		c.emit(bytecode.Member(bytecode.GETFIELD, owner, l.Field.FieldName, l.Field.Descriptor))
		c.materialize(a.Value)
		c.emit(bytecode.Member(bytecode.PUTFIELD, cell.Name, config.ValueFieldName, cell.ValueDescriptor))
		return
	}

	if !typesystem.Equal(l.Field.Type, valueType) {
		contractf(a, "cannot assign %v to %s of type %v", valueType, a.Name.Value, l.Field.Type)
	}
	c.loadOwner(l)
	c.materialize(a.Value)
	c.emit(bytecode.Member(bytecode.PUTFIELD, owner, l.Field.FieldName, l.Field.Descriptor))
}

var arithmetic = map[ast.Operator]bytecode.Opcode{
	ast.OpAdd: bytecode.DADD,
	ast.OpSub: bytecode.DSUB,
	ast.OpMul: bytecode.DMUL,
	ast.OpDiv: bytecode.DDIV,
}

// branchOnCompare maps a comparison to the branch taken when it holds,
// given a three-way result on the stack.
var branchOnCompare = map[ast.Operator]bytecode.Opcode{
	ast.OpEq:  bytecode.IFEQ,
	ast.OpNe:  bytecode.IFNE,
	ast.OpLt:  bytecode.IFLT,
	ast.OpLte: bytecode.IFLE,
	ast.OpGt:  bytecode.IFGT,
	ast.OpGte: bytecode.IFGE,
}

func (c *Compiler) compileInfix(ie *ast.InfixExpression) {
	t := c.typeOf(ie.Left)
	if !typesystem.Equal(t, c.typeOf(ie.Right)) || !analyzer.OperatorAllowed(ie.Operator, t) {
		contractf(ie, "operator %s applied to %v and %v", ie.Operator, t, c.typeOf(ie.Right))
	}

	c.compileExpression(ie.Left)
	c.compileExpression(ie.Right)

	if ie.Operator.IsComparison() {
		c.compileComparison(ie.Operator, t)
		return
	}
	switch t.(type) {
	case typesystem.Number:
		c.emit(bytecode.Simple(arithmetic[ie.Operator]))
	case typesystem.Boolean:
		if ie.Operator == ast.OpAnd {
			c.emit(bytecode.Simple(bytecode.IAND))
		} else {
			c.emit(bytecode.Simple(bytecode.IOR))
		}
	case typesystem.String:
		c.emit(bytecode.Member(bytecode.INVOKEVIRTUAL, config.StringClass, "concat",
			"(Ljava/lang/String;)Ljava/lang/String;"))
	}
}

// compileComparison turns the two operands on the stack into 0 or 1.
// NaN compares false under every ordering: dcmpg yields 1 for the less-than
// tests and dcmpl yields -1 for the rest.
func (c *Compiler) compileComparison(op ast.Operator, t typesystem.Type) {
	var test bytecode.Opcode
	switch t.(type) {
	case typesystem.Number:
		if op == ast.OpLt || op == ast.OpLte {
			c.emit(bytecode.Simple(bytecode.DCMPG))
		} else {
			c.emit(bytecode.Simple(bytecode.DCMPL))
		}
		test = branchOnCompare[op]
	case typesystem.Boolean:
		test = bytecode.IF_ICMPEQ
		if op == ast.OpNe {
			test = bytecode.IF_ICMPNE
		}
	case typesystem.String:
		c.emit(bytecode.Member(bytecode.INVOKEVIRTUAL, config.StringClass, "compareTo", "(Ljava/lang/String;)I"))
		test = branchOnCompare[op]
	}

	yes := c.newLabel()
	end := c.newLabel()
	c.emit(
		bytecode.Jump(test, yes),
		bytecode.Simple(bytecode.ICONST_0),
		bytecode.Jump(bytecode.GOTO, end),
		bytecode.Label(yes),
		bytecode.Simple(bytecode.ICONST_1),
		bytecode.Label(end),
	)
}

func (c *Compiler) compilePrefix(pe *ast.PrefixExpression) {
	t := c.typeOf(pe.Right)
	switch pe.Operator {
	case ast.OpPos, ast.OpNeg:
		if _, ok := t.(typesystem.Number); !ok {
			contractf(pe, "unary %s applied to %v", pe.Operator.Symbol(), t)
		}
		c.compileExpression(pe.Right)
		if pe.Operator == ast.OpNeg {
			c.emit(bytecode.Simple(bytecode.DNEG))
		}
	case ast.OpNot:
		if _, ok := t.(typesystem.Boolean); !ok {
			contractf(pe, "~ applied to %v", t)
		}
		c.compileExpression(pe.Right)
		c.emit(bytecode.Simple(bytecode.ICONST_1), bytecode.Simple(bytecode.IXOR))
	case ast.OpDeref:
		ref, ok := t.(typesystem.Reference)
		if !ok {
			contractf(pe, "! applied to %v", t)
		}
		cell := c.ctx.InternReference(ref)
		c.compileExpression(pe.Right)
		c.getField(cell.Name, config.ValueFieldName, cell.ValueDescriptor, ref.Target)
	default:
		contractf(pe, "unknown prefix operator %s", pe.Operator)
	}
}

func (c *Compiler) compileNew(ne *ast.NewExpression) {
	ref, ok := c.typeOf(ne).(typesystem.Reference)
	if !ok {
		contractf(ne, "new has type %v", c.typeOf(ne))
	}
	cell := c.ctx.InternReference(ref)
	c.newObject(cell.Name)
	c.emit(bytecode.Simple(bytecode.DUP))
	c.materialize(ne.Value)
	c.emit(bytecode.Member(bytecode.PUTFIELD, cell.Name, config.ValueFieldName, cell.ValueDescriptor))
}

func (c *Compiler) compileRecordLiteral(rl *ast.RecordLiteral) {
	rt, ok := c.typeOf(rl).(typesystem.Record)
	if !ok {
		contractf(rl, "record literal has type %v", c.typeOf(rl))
	}
	record := c.ctx.InternRecord(rt)
	c.newObject(record.Name)
	for _, f := range rl.Fields {
		field, ok := record.Field(f.Name.Value)
		if !ok {
			invariantf("record %s has no field %s", record.Name, f.Name.Value)
		}
		c.emit(bytecode.Simple(bytecode.DUP))
		c.materialize(f.Value)
		c.emit(bytecode.Member(bytecode.PUTFIELD, record.Name, field.Name, field.Descriptor))
	}
}

func (c *Compiler) compileFieldAccess(fa *ast.FieldAccess) {
	rt, ok := c.typeOf(fa.Record).(typesystem.Record)
	if !ok {
		contractf(fa, "field access on %v", c.typeOf(fa.Record))
	}
	ft, ok := rt.Field(fa.Field.Value)
	if !ok {
		contractf(fa, "%v has no field %s", rt, fa.Field.Value)
	}
	record := c.ctx.InternRecord(rt)
	field, _ := record.Field(fa.Field.Value)
	c.compileExpression(fa.Record)
	c.getField(record.Name, field.Name, field.Descriptor, ft)
}
