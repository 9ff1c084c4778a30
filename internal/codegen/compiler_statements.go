package codegen

import (
	"github.com/funvibe/iclc/internal/ast"
	"github.com/funvibe/iclc/internal/bytecode"
	"github.com/funvibe/iclc/internal/config"
)

// compileScope pushes a fresh frame linked to the active one, runs the
// statements, leaves the trailing value on the stack and pops the frame.
func (c *Compiler) compileScope(s *ast.Scope) {
	id := c.env.FrameOf(s)
	frame := c.ctx.Frame(id)
	if frame.Parent != c.active {
		invariantf("frame %s opened outside its parent", frame.Name)
	}
	parentDesc := c.ctx.ParentDescriptor(frame)

	c.newObject(frame.Name)
	c.emit(bytecode.Simple(bytecode.DUP))
	c.loadFrame()
	c.emit(bytecode.Member(bytecode.PUTFIELD, frame.Name, config.ParentFieldName, parentDesc))
	c.storeFrame()

	outer := c.active
	c.active = id
	for _, stmt := range s.Statements {
		c.compileStatement(stmt)
	}
	c.compileExpression(s.Result)
	c.active = outer

	c.loadFrame()
	c.emit(bytecode.Member(bytecode.GETFIELD, frame.Name, config.ParentFieldName, parentDesc))
	if frame.Parent != NoFrame {
		c.emit(bytecode.TypeInstr(bytecode.CHECKCAST, c.ctx.Frame(frame.Parent).Name))
	}
	c.storeFrame()
}

func (c *Compiler) compileStatement(stmt ast.Statement) {
	switch stmt := stmt.(type) {
	case *ast.Declaration:
		l := c.env.LookupOf(stmt)
		if l.Frame != c.active || l.Depth != 0 {
			invariantf("declaration of %s outside its frame", stmt.Name.Value)
		}
		c.loadFrame()
		c.materialize(stmt.Value)
		c.emit(bytecode.Member(bytecode.PUTFIELD, c.ctx.Frame(l.Frame).Name, l.Field.FieldName, l.Field.Descriptor))
	case *ast.TypeDeclaration:
	case *ast.ExpressionStatement:
		c.compileExpression(stmt.Expression)
		c.discard(c.typeOf(stmt.Expression))
	default:
		contractf(stmt, "unknown statement %T", stmt)
	}
}

// newObject emits `new class; dup; invokespecial <init>`, leaving one
// initialized instance on the stack.
func (c *Compiler) newObject(class string) {
	c.emit(
		bytecode.TypeInstr(bytecode.NEW, class),
		bytecode.Simple(bytecode.DUP),
		bytecode.Member(bytecode.INVOKESPECIAL, class, config.CtorMethodName, "()V"),
	)
}

// loadOwner pushes the frame that owns l by following Depth parent links
// from the active frame.
func (c *Compiler) loadOwner(l Lookup) {
	c.loadFrame()
	id := c.active
	for i := 0; i < l.Depth; i++ {
		f := c.ctx.Frame(id)
		if f.Parent == NoFrame {
			invariantf("lookup depth %d runs past the root frame", l.Depth)
		}
		c.emit(bytecode.Member(bytecode.GETFIELD, f.Name, config.ParentFieldName, c.ctx.ParentDescriptor(f)))
		id = f.Parent
	}
	if id != l.Frame {
		invariantf("lookup of %s resolved to frame %d, walked to %d", l.Field.SourceName, l.Frame, id)
	}
}
