package bytecode

import "fmt"

// slotSize is the operand stack size of a value with this descriptor.
func slotSize(desc string) int {
	switch {
	case desc == "V":
		return 0
	case IsWide(desc):
		return 2
	}
	return 1
}

// stackEffect returns how many slots in pops and pushes.
func stackEffect(in Instr) (pop, push int, err error) {
	switch in.Op {
	case LABEL, GOTO, RETURN:
		return 0, 0, nil
	case ACONST_NULL, ICONST_0, ICONST_1, LDC, ALOAD, ILOAD, NEW:
		return 0, 1, nil
	case LDC2_W, DLOAD:
		return 0, 2, nil
	case CHECKCAST:
		return 1, 1, nil
	case DUP:
		return 1, 2, nil
	case DUP2:
		return 2, 4, nil
	case DNEG:
		return 2, 2, nil
	case ASTORE, POP, IFEQ, IFNE, IFLT, IFGE, IFGT, IFLE, IRETURN, ARETURN:
		return 1, 0, nil
	case POP2, IF_ICMPEQ, IF_ICMPNE, DRETURN:
		return 2, 0, nil
	case IAND, IOR, IXOR:
		return 2, 1, nil
	case DADD, DSUB, DMUL, DDIV:
		return 4, 2, nil
	case DCMPL, DCMPG:
		return 4, 1, nil
	case GETFIELD:
		return 1, slotSize(in.Desc), nil
	case PUTFIELD:
		return 1 + slotSize(in.Desc), 0, nil
	case GETSTATIC:
		return 0, slotSize(in.Desc), nil
	case INVOKESPECIAL, INVOKEVIRTUAL, INVOKESTATIC, INVOKEINTERFACE:
		args, ret, err := ParseMethodDescriptor(in.Desc)
		if err != nil {
			return 0, 0, err
		}
		pop = ArgSlots(args)
		if in.Op != INVOKESTATIC {
			pop++
		}
		return pop, slotSize(ret), nil
	}
	return 0, 0, fmt.Errorf("no stack effect for %s", in.Op)
}

func endsFlow(op Opcode) bool {
	switch op {
	case GOTO, IRETURN, DRETURN, ARETURN, RETURN:
		return true
	}
	return false
}

// StackDepth computes the largest operand stack the code of m needs, in JVM
// slots: doubles take two. Every path into an instruction must arrive with
// the same depth.
func StackDepth(m *Method) (int, error) {
	labels := make(map[string]int)
	for i, in := range m.Code {
		if in.Op == LABEL {
			labels[in.Label] = i
		}
	}

	depth := make([]int, len(m.Code))
	for i := range depth {
		depth[i] = -1
	}
	var work []int
	reach := func(pc, d int) error {
		if pc >= len(m.Code) {
			return fmt.Errorf("%s%s: code falls off the end", m.Name, m.Descriptor)
		}
		switch depth[pc] {
		case -1:
			depth[pc] = d
			work = append(work, pc)
		case d:
		default:
			return fmt.Errorf("%s%s: stack depth %d and %d meet at %d", m.Name, m.Descriptor, depth[pc], d, pc)
		}
		return nil
	}

	if len(m.Code) == 0 {
		return 0, nil
	}
	if err := reach(0, 0); err != nil {
		return 0, err
	}
	max := 0
	for len(work) > 0 {
		pc := work[len(work)-1]
		work = work[:len(work)-1]
		in := m.Code[pc]

		pop, push, err := stackEffect(in)
		if err != nil {
			return 0, fmt.Errorf("%s%s: %w", m.Name, m.Descriptor, err)
		}
		d := depth[pc] - pop
		if d < 0 {
			return 0, fmt.Errorf("%s%s: stack underflow at %d (%s)", m.Name, m.Descriptor, pc, in)
		}
		d += push
		if d > max {
			max = d
		}

		if in.Op.IsBranch() {
			target, ok := labels[in.Label]
			if !ok {
				return 0, fmt.Errorf("%s%s: undefined label %s", m.Name, m.Descriptor, in.Label)
			}
			if err := reach(target, d); err != nil {
				return 0, err
			}
		}
		if !endsFlow(in.Op) {
			if err := reach(pc+1, d); err != nil {
				return 0, err
			}
		}
	}
	return max, nil
}
