package vm

import (
	"errors"
	"fmt"
	"math"

	"github.com/funvibe/iclc/internal/bytecode"
)

// invoke runs m with args already in local-slot order (receiver first for
// instance methods).
func (vm *VM) invoke(m *Method, args []Value) (Value, error) {
	if m.Abstract {
		return NullVal(), vm.errorAt(m, 0, fmt.Errorf("%w: %s is abstract", errUnknownMethod, m.Name))
	}
	vm.depth++
	defer func() { vm.depth-- }()
	if vm.depth > vm.MaxCallDepth {
		return NullVal(), vm.errorAt(m, 0, fmt.Errorf("%w (%d)", ErrCallDepth, vm.MaxCallDepth))
	}

	f := newFrame(m)
	slot := 0
	for _, a := range args {
		f.store(slot, a)
		slot++
		if a.IsWide() {
			slot++
		}
	}
	if f.err != nil {
		return NullVal(), vm.errorAt(m, 0, f.err)
	}
	return vm.execute(f)
}

func (vm *VM) errorAt(m *Method, pc int, err error) error {
	var re *RuntimeError
	if errors.As(err, &re) {
		return err
	}
	return &RuntimeError{Class: m.Owner.Name, Method: m.Name, PC: pc, Err: err}
}

func (vm *VM) execute(f *frame) (Value, error) {
	code := f.method.Code
	for f.pc = 0; f.pc < len(code); f.pc++ {
		pc := f.pc
		in := code[pc]

		switch in.Op {
		case bytecode.LABEL:
		case bytecode.ACONST_NULL:
			f.push(NullVal())
		case bytecode.ICONST_0:
			f.push(IntVal(0))
		case bytecode.ICONST_1:
			f.push(IntVal(1))
		case bytecode.LDC:
			f.push(StringVal(in.Str))
		case bytecode.LDC2_W:
			f.push(DoubleVal(in.Num))

		case bytecode.ALOAD, bytecode.ILOAD, bytecode.DLOAD:
			f.push(f.load(in.Slot))
		case bytecode.ASTORE:
			f.store(in.Slot, f.popCategory1())

		case bytecode.POP:
			f.popCategory1()
		case bytecode.POP2:
			if v := f.pop(); !v.IsWide() {
				f.popCategory1()
			}
		case bytecode.DUP:
			v := f.peek()
			if v.IsWide() {
				f.fail(fmt.Errorf("%w: dup of a category-2 value", errBadOperand))
			}
			f.push(v)
		case bytecode.DUP2:
			top := f.pop()
			if top.IsWide() {
				f.push(top)
				f.push(top)
				break
			}
			under := f.popCategory1()
			f.push(under)
			f.push(top)
			f.push(under)
			f.push(top)

		case bytecode.DADD, bytecode.DSUB, bytecode.DMUL, bytecode.DDIV:
			b, a := f.popDouble(), f.popDouble()
			f.push(DoubleVal(arith(in.Op, a, b)))
		case bytecode.DNEG:
			f.push(DoubleVal(-f.popDouble()))
		case bytecode.IAND:
			b, a := f.popInt(), f.popInt()
			f.push(IntVal(a & b))
		case bytecode.IOR:
			b, a := f.popInt(), f.popInt()
			f.push(IntVal(a | b))
		case bytecode.IXOR:
			b, a := f.popInt(), f.popInt()
			f.push(IntVal(a ^ b))
		case bytecode.DCMPL, bytecode.DCMPG:
			b, a := f.popDouble(), f.popDouble()
			f.push(IntVal(dcmp(in.Op, a, b)))

		case bytecode.IFEQ, bytecode.IFNE, bytecode.IFLT, bytecode.IFGE, bytecode.IFGT, bytecode.IFLE:
			if v := f.popInt(); f.err == nil && compareZero(in.Op, v) {
				f.jump(in.Label)
			}
		case bytecode.IF_ICMPEQ, bytecode.IF_ICMPNE:
			b, a := f.popInt(), f.popInt()
			if f.err == nil && (a == b) == (in.Op == bytecode.IF_ICMPEQ) {
				f.jump(in.Label)
			}
		case bytecode.GOTO:
			if err := vm.Context.Err(); err != nil {
				return NullVal(), vm.errorAt(f.method, pc, err)
			}
			f.jump(in.Label)

		case bytecode.NEW:
			c, err := vm.class(in.Owner)
			if err == nil && c.Kind == runtimeKind {
				err = fmt.Errorf("cannot instantiate runtime class %s", c.Name)
			}
			if err != nil {
				return NullVal(), vm.errorAt(f.method, pc, err)
			}
			f.push(ObjVal(newObject(c)))
		case bytecode.CHECKCAST:
			if v := f.peek(); v.Type == ValObj && !v.Obj.Class.implements(in.Owner) {
				f.fail(fmt.Errorf("cannot cast %s to %s", v.Obj.Class.Name, in.Owner))
			}
		case bytecode.GETFIELD:
			obj := f.pop()
			if f.err == nil {
				f.push(vm.getField(f, obj, in))
			}
		case bytecode.PUTFIELD:
			v, obj := f.pop(), f.pop()
			if f.err == nil {
				vm.putField(f, obj, in, v)
			}
		case bytecode.GETSTATIC:
			v, err := vm.getStatic(in.Owner, in.Name)
			if err != nil {
				return NullVal(), vm.errorAt(f.method, pc, err)
			}
			f.push(v)

		case bytecode.INVOKESTATIC, bytecode.INVOKESPECIAL, bytecode.INVOKEVIRTUAL, bytecode.INVOKEINTERFACE:
			if err := vm.call(f, in); err != nil {
				return NullVal(), vm.errorAt(f.method, pc, err)
			}

		case bytecode.IRETURN, bytecode.DRETURN, bytecode.ARETURN:
			v := f.pop()
			if f.err != nil {
				return NullVal(), vm.errorAt(f.method, pc, f.err)
			}
			return v, nil
		case bytecode.RETURN:
			return NullVal(), nil

		default:
			f.fail(fmt.Errorf("%w: unsupported opcode %s", errBadOperand, in.Op))
		}

		if f.err != nil {
			return NullVal(), vm.errorAt(f.method, pc, f.err)
		}
	}
	return NullVal(), vm.errorAt(f.method, len(code), errors.New("execution ran past the end of the method"))
}

func arith(op bytecode.Opcode, a, b float64) float64 {
	switch op {
	case bytecode.DADD:
		return a + b
	case bytecode.DSUB:
		return a - b
	case bytecode.DMUL:
		return a * b
	}
	return a / b
}

// dcmp is the three-way double comparison. NaN yields -1 for dcmpl and 1
// for dcmpg.
func dcmp(op bytecode.Opcode, a, b float64) int32 {
	switch {
	case math.IsNaN(a) || math.IsNaN(b):
		if op == bytecode.DCMPG {
			return 1
		}
		return -1
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareZero(op bytecode.Opcode, v int32) bool {
	switch op {
	case bytecode.IFEQ:
		return v == 0
	case bytecode.IFNE:
		return v != 0
	case bytecode.IFLT:
		return v < 0
	case bytecode.IFGE:
		return v >= 0
	case bytecode.IFGT:
		return v > 0
	}
	return v <= 0
}

func (vm *VM) getField(f *frame, obj Value, in bytecode.Instr) Value {
	if obj.Type != ValObj {
		f.fail(fmt.Errorf("%w reading %s.%s", errNullReference, in.Owner, in.Name))
		return NullVal()
	}
	v, ok := obj.Obj.Fields[in.Name]
	if !ok {
		f.fail(fmt.Errorf("%w %s.%s", errUnknownField, obj.Obj.Class.Name, in.Name))
	}
	return v
}

func (vm *VM) putField(f *frame, obj Value, in bytecode.Instr, v Value) {
	if obj.Type != ValObj {
		f.fail(fmt.Errorf("%w writing %s.%s", errNullReference, in.Owner, in.Name))
		return
	}
	if _, ok := obj.Obj.Fields[in.Name]; !ok {
		f.fail(fmt.Errorf("%w %s.%s", errUnknownField, obj.Obj.Class.Name, in.Name))
		return
	}
	obj.Obj.Fields[in.Name] = v
}

// call pops the arguments and receiver of an invocation, dispatches it and
// pushes the result unless the method returns void.
func (vm *VM) call(f *frame, in bytecode.Instr) error {
	args, ret, err := bytecode.ParseMethodDescriptor(in.Desc)
	if err != nil {
		return fmt.Errorf("%w: %v", errBadOperand, err)
	}
	n := len(args)
	if in.Op != bytecode.INVOKESTATIC {
		n++
	}
	if len(f.stack) < n {
		return errStackUnderflow
	}
	values := append([]Value(nil), f.stack[len(f.stack)-n:]...)
	f.stack = f.stack[:len(f.stack)-n]

	if err := vm.Context.Err(); err != nil {
		return err
	}

	var result Value
	if native, ok := natives[nativeKey(in.Owner, in.Name, in.Desc)]; ok {
		result, err = native(vm, values)
	} else {
		var m *Method
		m, err = vm.resolve(in, values)
		if err == nil {
			result, err = vm.invoke(m, values)
		}
	}
	if err != nil {
		return err
	}
	if ret != "V" {
		f.push(result)
	}
	return nil
}

// resolve finds the method an invocation targets. Virtual and interface
// calls dispatch on the receiver's class.
func (vm *VM) resolve(in bytecode.Instr, values []Value) (*Method, error) {
	var c *Class
	if in.Op == bytecode.INVOKESTATIC || in.Op == bytecode.INVOKESPECIAL {
		owner, err := vm.class(in.Owner)
		if err != nil {
			return nil, err
		}
		c = owner
	}
	if in.Op != bytecode.INVOKESTATIC {
		recv := values[0]
		if recv.Type != ValObj {
			return nil, fmt.Errorf("%w calling %s.%s", errNullReference, in.Owner, in.Name)
		}
		if c == nil {
			c = recv.Obj.Class
			if !c.implements(in.Owner) {
				return nil, fmt.Errorf("%w: %s does not implement %s", errUnknownMethod, c.Name, in.Owner)
			}
		}
	}
	m, ok := c.lookup(in.Name, in.Desc)
	if !ok {
		return nil, fmt.Errorf("%w %s.%s%s", errUnknownMethod, c.Name, in.Name, in.Desc)
	}
	if m.Static != (in.Op == bytecode.INVOKESTATIC) {
		return nil, fmt.Errorf("%w: %s.%s static mismatch", errUnknownMethod, c.Name, in.Name)
	}
	return m, nil
}
