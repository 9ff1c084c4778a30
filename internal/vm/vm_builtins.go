package vm

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/funvibe/iclc/internal/bytecode"
	"github.com/funvibe/iclc/internal/config"
)

// runtimeKind marks classes the VM provides itself.
const runtimeKind bytecode.Kind = "runtime"

func runtimeClass(name string) *Class {
	return &Class{
		Class:   &bytecode.Class{Name: name, Kind: runtimeKind},
		methods: map[string]*Method{},
	}
}

var printStream = runtimeClass(config.PrintStreamClass)

var runtimeClasses = map[string]*Class{
	config.ObjectClass:      runtimeClass(config.ObjectClass),
	config.StringClass:      runtimeClass(config.StringClass),
	config.MathClass:        runtimeClass(config.MathClass),
	config.SystemClass:      runtimeClass(config.SystemClass),
	config.PrintStreamClass: printStream,
}

// native implements a runtime method. Instance methods receive their
// receiver as values[0].
type native func(vm *VM, values []Value) (Value, error)

func nativeKey(owner, name, desc string) string { return owner + "/" + name + desc }

var natives = map[string]native{}

func init() {
	natives[nativeKey(config.ObjectClass, config.CtorMethodName, "()V")] = func(vm *VM, values []Value) (Value, error) {
		if values[0].Type != ValObj {
			return NullVal(), fmt.Errorf("%w in constructor", errNullReference)
		}
		return NullVal(), nil
	}

	unary := map[string]func(float64) float64{
		config.SinFuncName:  math.Sin,
		config.CosFuncName:  math.Cos,
		config.TanFuncName:  math.Tan,
		config.SqrtFuncName: math.Sqrt,
		config.AbsFuncName:  math.Abs,
	}
	for name, fn := range unary {
		fn := fn
		natives[nativeKey(config.MathClass, name, "(D)D")] = func(vm *VM, values []Value) (Value, error) {
			return DoubleVal(fn(values[0].AsDouble())), nil
		}
	}

	binary := map[string]func(float64, float64) float64{
		config.PowFuncName: math.Pow,
		config.MaxFuncName: math.Max,
		config.MinFuncName: math.Min,
	}
	for name, fn := range binary {
		fn := fn
		natives[nativeKey(config.MathClass, name, "(DD)D")] = func(vm *VM, values []Value) (Value, error) {
			return DoubleVal(fn(values[0].AsDouble(), values[1].AsDouble())), nil
		}
	}

	natives[nativeKey(config.MathClass, "random", "()D")] = func(vm *VM, values []Value) (Value, error) {
		return DoubleVal(vm.Random()), nil
	}

	natives[nativeKey(config.StringClass, "concat", "(Ljava/lang/String;)Ljava/lang/String;")] = func(vm *VM, values []Value) (Value, error) {
		recv, arg, err := stringOperands(values)
		if err != nil {
			return NullVal(), err
		}
		return StringVal(recv + arg), nil
	}
	natives[nativeKey(config.StringClass, "compareTo", "(Ljava/lang/String;)I")] = func(vm *VM, values []Value) (Value, error) {
		recv, arg, err := stringOperands(values)
		if err != nil {
			return NullVal(), err
		}
		return IntVal(int32(strings.Compare(recv, arg))), nil
	}

	for _, name := range []string{config.PrintFuncName, config.PrintlnFuncName} {
		newline := name == config.PrintlnFuncName
		for _, desc := range []string{"D", "Z", "Ljava/lang/String;"} {
			desc := desc
			natives[nativeKey(config.PrintStreamClass, name, "("+desc+")V")] = func(vm *VM, values []Value) (Value, error) {
				if values[0].Type != ValObj {
					return NullVal(), fmt.Errorf("%w printing", errNullReference)
				}
				return NullVal(), vm.print(Format(values[1], desc), newline)
			}
		}
	}
}

func stringOperands(values []Value) (string, string, error) {
	if values[0].Type != ValString || values[1].Type != ValString {
		return "", "", fmt.Errorf("%w on string operation", errNullReference)
	}
	return values[0].Str, values[1].Str, nil
}

func (vm *VM) print(s string, newline bool) error {
	if newline {
		s += "\n"
	}
	_, err := io.WriteString(vm.out, s)
	return err
}

func (vm *VM) getStatic(owner, name string) (Value, error) {
	switch {
	case owner == config.SystemClass && name == "out":
		return ObjVal(vm.stdout), nil
	case owner == config.MathClass && name == "PI":
		return DoubleVal(math.Pi), nil
	}
	return NullVal(), fmt.Errorf("%w %s.%s", errUnknownField, owner, name)
}
