package bytecode

import (
	"fmt"
	"strconv"
	"strings"
)

// Instr is one instruction. Which operand fields are meaningful depends on Op:
//
//	ALOAD ASTORE ILOAD DLOAD      Slot
//	LDC                           Str
//	LDC2_W                        Num
//	branches and LABEL            Label
//	NEW CHECKCAST                 Owner
//	field access and invocations  Owner, Name, Desc
//	INVOKEINTERFACE               also Slot (argument slot count, this included)
type Instr struct {
	Op    Opcode
	Slot  int
	Num   float64
	Str   string
	Label string
	Owner string
	Name  string
	Desc  string
}

func Simple(op Opcode) Instr { return Instr{Op: op} }

func Local(op Opcode, slot int) Instr { return Instr{Op: op, Slot: slot} }

func Jump(op Opcode, label string) Instr { return Instr{Op: op, Label: label} }

func Label(name string) Instr { return Instr{Op: LABEL, Label: name} }

func TypeInstr(op Opcode, class string) Instr { return Instr{Op: op, Owner: class} }

func Member(op Opcode, owner, name, desc string) Instr {
	return Instr{Op: op, Owner: owner, Name: name, Desc: desc}
}

func Text(s string) Instr { return Instr{Op: LDC, Str: s} }

func Double(v float64) Instr { return Instr{Op: LDC2_W, Num: v} }

// Interface builds an invokeinterface, computing the argument slot count.
func Interface(owner, name, desc string) Instr {
	in := Member(INVOKEINTERFACE, owner, name, desc)
	args, _, err := ParseMethodDescriptor(desc)
	if err == nil {
		in.Slot = 1 + ArgSlots(args)
	}
	return in
}

// String renders the instruction in assembler syntax, without indentation.
func (in Instr) String() string {
	switch in.Op {
	case LABEL:
		return in.Label + ":"
	case ALOAD, ASTORE, ILOAD, DLOAD:
		return fmt.Sprintf("%s %d", in.Op, in.Slot)
	case LDC:
		return "ldc " + strconv.Quote(in.Str)
	case LDC2_W:
		return "ldc2_w " + formatDouble(in.Num)
	case NEW, CHECKCAST:
		return in.Op.String() + " " + in.Owner
	case GETFIELD, PUTFIELD, GETSTATIC:
		return fmt.Sprintf("%s %s/%s %s", in.Op, in.Owner, in.Name, in.Desc)
	case INVOKEINTERFACE:
		return fmt.Sprintf("%s %s/%s%s %d", in.Op, in.Owner, in.Name, in.Desc, in.Slot)
	case INVOKESPECIAL, INVOKEVIRTUAL, INVOKESTATIC:
		return fmt.Sprintf("%s %s/%s%s", in.Op, in.Owner, in.Name, in.Desc)
	}
	if in.Op.IsBranch() {
		return in.Op.String() + " " + in.Label
	}
	return in.Op.String()
}

// formatDouble prints a double so the assembler reads it back exactly.
func formatDouble(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEIN") {
		s += ".0"
	}
	return s
}

// Kind tells what a class was generated for.
type Kind string

const (
	KindEntry     Kind = "entry"
	KindFrame     Kind = "frame"
	KindInterface Kind = "interface"
	KindClosure   Kind = "closure"
	KindRecord    Kind = "record"
	KindReference Kind = "reference"
)

type Field struct {
	Name       string
	Descriptor string
}

type Method struct {
	Name       string
	Descriptor string
	Static     bool
	Abstract   bool
	MaxStack   int
	MaxLocals  int
	Code       []Instr
}

// Class is one generated artifact.
type Class struct {
	Name       string
	Kind       Kind
	Super      string
	Interfaces []string
	Fields     []Field
	Methods    []*Method
}

// IsInterface reports whether c declares only abstract methods.
func (c *Class) IsInterface() bool {
	return c.Kind == KindInterface
}

// Field returns the named field.
func (c *Class) Field(name string) (Field, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Method returns the method with the given name and descriptor.
func (c *Class) Method(name, desc string) (*Method, bool) {
	for _, m := range c.Methods {
		if m.Name == name && m.Descriptor == desc {
			return m, true
		}
	}
	return nil, false
}
