package codegen

import (
	"github.com/funvibe/iclc/internal/ast"
	"github.com/funvibe/iclc/internal/bytecode"
)

// branchUnlessTrue jumps to label when the boolean on the stack is not 1.
func (c *Compiler) branchUnlessTrue(label string) {
	c.emit(bytecode.Simple(bytecode.ICONST_1), bytecode.Jump(bytecode.IF_ICMPNE, label))
}

func (c *Compiler) compileIf(ie *ast.IfExpression) {
	end := c.newLabel()
	for _, br := range ie.Branches {
		next := c.newLabel()
		c.compileExpression(br.Condition)
		c.branchUnlessTrue(next)
		c.compileScope(br.Body)
		c.emit(bytecode.Jump(bytecode.GOTO, end), bytecode.Label(next))
	}
	if ie.Else != nil {
		c.compileScope(ie.Else)
	}
	c.emit(bytecode.Label(end))
}

func (c *Compiler) compileWhile(we *ast.WhileExpression) {
	cond := c.newLabel()
	end := c.newLabel()
	c.emit(bytecode.Label(cond))
	c.compileExpression(we.Condition)
	c.branchUnlessTrue(end)
	c.compileScope(we.Body)
	c.discard(c.typeOf(we.Body))
	c.emit(bytecode.Jump(bytecode.GOTO, cond), bytecode.Label(end))
}
