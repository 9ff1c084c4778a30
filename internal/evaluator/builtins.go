package evaluator

import (
	"math"

	"github.com/funvibe/iclc/internal/ast"
	"github.com/funvibe/iclc/internal/config"
)

var unaryMath = map[string]func(float64) float64{
	config.SinFuncName:  math.Sin,
	config.CosFuncName:  math.Cos,
	config.TanFuncName:  math.Tan,
	config.SqrtFuncName: math.Sqrt,
	config.AbsFuncName:  math.Abs,
}

var binaryMath = map[string]func(float64, float64) float64{
	config.PowFuncName: math.Pow,
	config.MaxFuncName: math.Max,
	config.MinFuncName: math.Min,
}

func (e *Evaluator) evalBuiltinCall(node *ast.BuiltinCall, env *Environment) Object {
	args, errObj := e.evalExpressions(node.Arguments, env)
	if errObj != nil {
		return errObj
	}
	nums := make([]float64, len(args))
	for i, arg := range args {
		n, ok := arg.(*Number)
		if !ok {
			return newError("%s: argument %d is %s, not NUMBER", node.Name, i+1, arg.Type())
		}
		nums[i] = n.Value
	}

	arity := config.Builtins[node.Name]
	if len(nums) < arity.Min || (arity.Max >= 0 && len(nums) > arity.Max) {
		return newError("%s: wrong number of arguments: %d", node.Name, len(nums))
	}

	switch node.Name {
	case config.PiFuncName:
		return &Number{Value: math.Pi}
	case config.RandFuncName:
		return &Number{Value: e.Random()}
	}
	if fn, ok := unaryMath[node.Name]; ok {
		return &Number{Value: fn(nums[0])}
	}
	if fn, ok := binaryMath[node.Name]; ok {
		return &Number{Value: foldRight(fn, nums)}
	}
	return newError("unknown builtin %s", node.Name)
}

// foldRight applies fn as f(a, f(b, f(c, d))).
func foldRight(fn func(float64, float64) float64, nums []float64) float64 {
	acc := nums[len(nums)-1]
	for i := len(nums) - 2; i >= 0; i-- {
		acc = fn(nums[i], acc)
	}
	return acc
}

func (e *Evaluator) evalPrint(node *ast.PrintExpression, env *Environment) Object {
	val := e.Eval(node.Value, env)
	if isError(val) {
		return val
	}
	text := val.Inspect()
	if node.Newline {
		text += "\n"
	}
	if _, err := e.Out.Write([]byte(text)); err != nil {
		return newError("print: %v", err)
	}
	return VOID
}
