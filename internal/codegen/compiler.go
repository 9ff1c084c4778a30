// Package codegen lowers a type-checked program to class artifacts.
//
// Every lexical scope becomes a frame class whose instances are chained
// through a parent field, every function literal becomes a closure class
// capturing the frame it was created in, and reference, record and function
// types are interned into one class each.
package codegen

import (
	"strconv"

	"github.com/funvibe/iclc/internal/ast"
	"github.com/funvibe/iclc/internal/bytecode"
	"github.com/funvibe/iclc/internal/config"
	"github.com/funvibe/iclc/internal/typesystem"
)

// Compile generates the artifact set of program. types must be the
// analyzer's TypeMap for the same tree. On failure no classes are returned
// and the error is a *Error.
func Compile(program *ast.Program, types map[ast.Node]typesystem.Type) (classes []*bytecode.Class, err error) {
	defer catch(&err)

	ctx := NewContext()
	env := buildEnvironment(ctx, program, types)
	c := &Compiler{ctx: ctx, env: env, types: types}

	run := c.compileRun(program)
	classes = Assemble(ctx, run)
	if err := Validate(classes); err != nil {
		return nil, err
	}
	return classes, nil
}

// Compiler emits instructions for one program.
type Compiler struct {
	ctx   *Context
	env   *Environment
	types map[ast.Node]typesystem.Type

	method *methodBuilder
	active FrameID
}

// methodBuilder accumulates the code of the method being compiled.
type methodBuilder struct {
	code      []bytecode.Instr
	labels    int
	frameSlot int
	maxLocals int
}

func (c *Compiler) emit(ins ...bytecode.Instr) {
	c.method.code = append(c.method.code, ins...)
}

func (c *Compiler) newLabel() string {
	l := "L" + strconv.Itoa(c.method.labels)
	c.method.labels++
	return l
}

func (c *Compiler) typeOf(node ast.Node) typesystem.Type {
	t, ok := c.types[node]
	if !ok || t == nil {
		contractf(node, "untyped %T", node)
	}
	return t
}

func isVoid(t typesystem.Type) bool {
	_, ok := t.(typesystem.Void)
	return ok
}

// loadFrame pushes the active frame.
func (c *Compiler) loadFrame() {
	c.emit(bytecode.Local(bytecode.ALOAD, c.method.frameSlot))
}

// storeFrame makes the object on top of the stack the active frame.
func (c *Compiler) storeFrame() {
	c.emit(bytecode.Local(bytecode.ASTORE, c.method.frameSlot))
}

// discard pops a value of type t, if it left one.
func (c *Compiler) discard(t typesystem.Type) {
	switch t.(type) {
	case typesystem.Void:
	case typesystem.Number:
		c.emit(bytecode.Simple(bytecode.POP2))
	default:
		c.emit(bytecode.Simple(bytecode.POP))
	}
}

// materialize compiles expr and leaves exactly one value, pushing null for
// Void so it can be stored in a field or passed as an argument.
func (c *Compiler) materialize(expr ast.Expression) {
	c.compileExpression(expr)
	if isVoid(c.typeOf(expr)) {
		c.emit(bytecode.Simple(bytecode.ACONST_NULL))
	}
}

// returnInstr is the return matching a descriptor.
func returnInstr(desc string) bytecode.Instr {
	switch desc {
	case "V":
		return bytecode.Simple(bytecode.RETURN)
	case "D":
		return bytecode.Simple(bytecode.DRETURN)
	case "I":
		return bytecode.Simple(bytecode.IRETURN)
	}
	return bytecode.Simple(bytecode.ARETURN)
}

// loadLocal is the load instruction matching a descriptor.
func loadLocal(desc string, slot int) bytecode.Instr {
	switch desc {
	case "D":
		return bytecode.Local(bytecode.DLOAD, slot)
	case "I":
		return bytecode.Local(bytecode.ILOAD, slot)
	}
	return bytecode.Local(bytecode.ALOAD, slot)
}

// compileRun emits Main.run: the root frame is created with a null parent
// and the program value is returned.
func (c *Compiler) compileRun(program *ast.Program) *bytecode.Method {
	ret := c.ctx.ReturnDescriptor(c.typeOf(program.Body))
	c.method = &methodBuilder{frameSlot: config.EntryFrameSlot, maxLocals: config.EntryFrameSlot + 1}
	c.active = NoFrame

	c.emit(bytecode.Simple(bytecode.ACONST_NULL))
	c.storeFrame()
	c.compileScope(program.Body)
	c.emit(returnInstr(ret))

	return c.finishMethod(config.EntryRunMethod, "()"+ret, true)
}

func (c *Compiler) finishMethod(name, desc string, static bool) *bytecode.Method {
	m := &bytecode.Method{
		Name:       name,
		Descriptor: desc,
		Static:     static,
		MaxLocals:  c.method.maxLocals,
		Code:       c.method.code,
	}
	c.method = nil
	setMaxStack(m)
	return m
}

// setMaxStack sizes the operand stack of m from its code.
func setMaxStack(m *bytecode.Method) {
	depth, err := bytecode.StackDepth(m)
	if err != nil {
		invariantf("%v", err)
	}
	m.MaxStack = depth
}
