package vm

import (
	"fmt"
)

// frame is one method activation. Operand and local slot errors are
// latched in err and checked once per instruction.
type frame struct {
	method *Method
	locals []Value
	stack  []Value
	pc     int
	err    error
}

func newFrame(m *Method) *frame {
	return &frame{
		method: m,
		locals: make([]Value, m.MaxLocals),
		stack:  make([]Value, 0, 8),
	}
}

func (f *frame) fail(err error) {
	if f.err == nil {
		f.err = err
	}
}

func (f *frame) push(v Value) {
	if len(f.stack) >= f.method.MaxStack {
		f.fail(errStackOverflow)
		return
	}
	f.stack = append(f.stack, v)
}

func (f *frame) pop() Value {
	n := len(f.stack)
	if n == 0 {
		f.fail(errStackUnderflow)
		return NullVal()
	}
	v := f.stack[n-1]
	f.stack = f.stack[:n-1]
	return v
}

func (f *frame) peek() Value {
	if len(f.stack) == 0 {
		f.fail(errStackUnderflow)
		return NullVal()
	}
	return f.stack[len(f.stack)-1]
}

func (f *frame) popInt() int32 {
	v := f.pop()
	if v.Type != ValInt {
		f.fail(fmt.Errorf("%w: expected int, got %s", errBadOperand, typeName(v)))
	}
	return v.AsInt()
}

func (f *frame) popDouble() float64 {
	v := f.pop()
	if v.Type != ValDouble {
		f.fail(fmt.Errorf("%w: expected double, got %s", errBadOperand, typeName(v)))
	}
	return v.AsDouble()
}

// popCategory1 pops a value that must not be a double.
func (f *frame) popCategory1() Value {
	v := f.pop()
	if v.IsWide() {
		f.fail(fmt.Errorf("%w: category-2 value where one slot was expected", errBadOperand))
	}
	return v
}

func (f *frame) load(slot int) Value {
	if slot < 0 || slot >= len(f.locals) {
		f.fail(fmt.Errorf("%w: local %d out of range", errBadOperand, slot))
		return NullVal()
	}
	return f.locals[slot]
}

func (f *frame) store(slot int, v Value) {
	if slot < 0 || slot >= len(f.locals) {
		f.fail(fmt.Errorf("%w: local %d out of range", errBadOperand, slot))
		return
	}
	f.locals[slot] = v
}

func (f *frame) jump(label string) {
	f.pc = f.method.labels[label]
}

func typeName(v Value) string {
	switch v.Type {
	case ValNull:
		return "null"
	case ValInt:
		return "int"
	case ValDouble:
		return "double"
	case ValString:
		return "string"
	}
	return v.Obj.Class.Name
}
