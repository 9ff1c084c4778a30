package codegen

import (
	"github.com/funvibe/iclc/internal/ast"
	"github.com/funvibe/iclc/internal/bytecode"
	"github.com/funvibe/iclc/internal/config"
	"github.com/funvibe/iclc/internal/typesystem"
)

func (c *Compiler) functionType(node ast.Node) typesystem.Function {
	fn, ok := c.typeOf(node).(typesystem.Function)
	if !ok {
		contractf(node, "expected a function, got %v", c.typeOf(node))
	}
	return fn
}

// compileFunctionLiteral registers the closure class of lit, compiles its
// call method and instantiates it over the active frame.
func (c *Compiler) compileFunctionLiteral(lit *ast.FunctionLiteral) {
	iface := c.ctx.InternFunction(c.functionType(lit))
	cl := c.ctx.RegisterClosure(iface, c.active, lit)
	cl.Call = c.compileCallMethod(cl)

	c.newObject(cl.Name)
	c.emit(bytecode.Simple(bytecode.DUP))
	c.loadFrame()
	c.emit(bytecode.Member(bytecode.PUTFIELD, cl.Name, config.FrameFieldName, c.capturedDescriptor(cl)))
}

func (c *Compiler) capturedDescriptor(cl *Closure) string {
	if cl.Captured == NoFrame {
		invariantf("closure %s has no enclosing frame", cl.Name)
	}
	return bytecode.ObjectDescriptor(c.ctx.Frame(cl.Captured).Name)
}

// compileCallMethod emits the body of cl's call method. Arguments arrive in
// locals from FirstArgSlot on and are copied into a fresh argument frame
// whose parent is the captured frame.
func (c *Compiler) compileCallMethod(cl *Closure) *bytecode.Method {
	lit := cl.Literal
	fnType := cl.Interface.Type
	args := c.ctx.Frame(c.env.FrameOf(lit))

	descs := make([]string, len(fnType.Args))
	for i, a := range fnType.Args {
		descs[i] = c.ctx.Descriptor(a)
	}
	frameSlot := config.FirstArgSlot + bytecode.ArgSlots(descs)

	savedMethod, savedActive := c.method, c.active
	defer func() { c.method, c.active = savedMethod, savedActive }()

	c.method = &methodBuilder{frameSlot: frameSlot, maxLocals: frameSlot + 1}
	c.active = cl.Captured

	c.newObject(args.Name)
	c.emit(
		bytecode.Simple(bytecode.DUP),
		bytecode.Local(bytecode.ALOAD, config.ClosureSelfSlot),
		bytecode.Member(bytecode.GETFIELD, cl.Name, config.FrameFieldName, c.capturedDescriptor(cl)),
		bytecode.Member(bytecode.PUTFIELD, args.Name, config.ParentFieldName, c.ctx.ParentDescriptor(args)),
	)
	c.storeFrame()
	c.active = args.ID

	slot := config.FirstArgSlot
	for i, p := range lit.Parameters {
		field, ok := args.Field(p.Name.Value)
		if !ok {
			invariantf("argument frame %s has no field %s", args.Name, p.Name.Value)
		}
		c.loadFrame()
		c.emit(
			loadLocal(descs[i], slot),
			bytecode.Member(bytecode.PUTFIELD, args.Name, field.FieldName, field.Descriptor),
		)
		slot++
		if bytecode.IsWide(descs[i]) {
			slot++
		}
	}

	c.compileScope(lit.Body)
	c.emit(returnInstr(c.ctx.ReturnDescriptor(fnType.Ret)))

	return c.finishMethod(config.CallMethodName, cl.Interface.CallDescriptor, false)
}

func (c *Compiler) compileCall(ce *ast.CallExpression) {
	fnType := c.functionType(ce.Function)
	if len(fnType.Args) != len(ce.Arguments) {
		contractf(ce, "expected %d arguments, got %d", len(fnType.Args), len(ce.Arguments))
	}
	iface := c.ctx.InternFunction(fnType)

	c.compileExpression(ce.Function)
	for i, arg := range ce.Arguments {
		if !typesystem.Equal(c.typeOf(arg), fnType.Args[i]) {
			contractf(arg, "argument %d has type %v, expected %v", i+1, c.typeOf(arg), fnType.Args[i])
		}
		c.materialize(arg)
	}
	c.emit(bytecode.Interface(iface.Name, config.CallMethodName, iface.CallDescriptor))
}
