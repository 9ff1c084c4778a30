package codegen

import (
	"github.com/funvibe/iclc/internal/ast"
	"github.com/funvibe/iclc/internal/bytecode"
	"github.com/funvibe/iclc/internal/config"
	"github.com/funvibe/iclc/internal/typesystem"
)

const (
	unaryMathDesc   = "(D)D"
	binaryMathDesc  = "(DD)D"
	printStreamDesc = "Ljava/io/PrintStream;"
)

func (c *Compiler) compileBuiltin(bc *ast.BuiltinCall) {
	arity, ok := config.Builtins[bc.Name]
	n := len(bc.Arguments)
	if !ok || n < arity.Min || (arity.Max >= 0 && n > arity.Max) {
		contractf(bc, "bad call of builtin %s with %d arguments", bc.Name, n)
	}
	for _, arg := range bc.Arguments {
		if _, ok := c.typeOf(arg).(typesystem.Number); !ok {
			contractf(arg, "%s expects numbers, got %v", bc.Name, c.typeOf(arg))
		}
		c.compileExpression(arg)
	}

	switch bc.Name {
	case config.PiFuncName:
		c.emit(bytecode.Member(bytecode.GETSTATIC, config.MathClass, "PI", "D"))
	case config.RandFuncName:
		c.emit(bytecode.Member(bytecode.INVOKESTATIC, config.MathClass, "random", "()D"))
	case config.PowFuncName:
		c.emit(bytecode.Member(bytecode.INVOKESTATIC, config.MathClass, "pow", binaryMathDesc))
	case config.MaxFuncName, config.MinFuncName:
		// All operands are on the stack, so each invocation folds the two
		// rightmost ones.
		for i := 1; i < n; i++ {
			c.emit(bytecode.Member(bytecode.INVOKESTATIC, config.MathClass, bc.Name, binaryMathDesc))
		}
	default:
		c.emit(bytecode.Member(bytecode.INVOKESTATIC, config.MathClass, bc.Name, unaryMathDesc))
	}
}

func (c *Compiler) compilePrint(pe *ast.PrintExpression) {
	method := config.PrintFuncName
	if pe.Newline {
		method = config.PrintlnFuncName
	}
	t := c.typeOf(pe.Value)

	c.emit(bytecode.Member(bytecode.GETSTATIC, config.SystemClass, "out", printStreamDesc))
	c.compileExpression(pe.Value)

	var arg string
	switch t.(type) {
	case typesystem.Number:
		arg = "D"
	case typesystem.Boolean:
		arg = "Z"
	case typesystem.String:
		arg = "Ljava/lang/String;"
	case typesystem.Void:
		c.emit(bytecode.Text(""))
		arg = "Ljava/lang/String;"
	default:
		contractf(pe, "cannot print %v", t)
	}
	c.emit(bytecode.Member(bytecode.INVOKEVIRTUAL, config.PrintStreamClass, method, "("+arg+")V"))
}
