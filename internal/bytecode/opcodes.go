// Package bytecode models the class artifacts produced by the code generator:
// classes, fields, methods and their stack-machine instructions.
package bytecode

// Opcode represents a single instruction of the target machine.
type Opcode byte

const (
	// Pseudo instruction: marks a branch target
	LABEL Opcode = iota

	// Constants
	ACONST_NULL
	ICONST_0
	ICONST_1
	LDC    // Push a string constant
	LDC2_W // Push a double constant

	// Locals
	ALOAD
	ASTORE
	ILOAD
	DLOAD

	// Stack manipulation
	POP
	POP2 // Discard one category-2 value or two category-1 values
	DUP
	DUP2

	// Arithmetic
	DADD
	DSUB
	DMUL
	DDIV
	DNEG

	// Integer logic (booleans are ints)
	IAND
	IOR
	IXOR

	// Double comparison: dcmpl pushes -1 on NaN, dcmpg pushes 1
	DCMPL
	DCMPG

	// Control flow
	IFEQ
	IFNE
	IFLT
	IFGE
	IFGT
	IFLE
	IF_ICMPEQ
	IF_ICMPNE
	GOTO

	// Objects
	NEW
	CHECKCAST
	GETFIELD
	PUTFIELD
	GETSTATIC

	// Invocation
	INVOKESPECIAL
	INVOKEVIRTUAL
	INVOKESTATIC
	INVOKEINTERFACE

	// Return
	IRETURN
	DRETURN
	ARETURN
	RETURN
)

var opcodeNames = [...]string{
	LABEL:           "label",
	ACONST_NULL:     "aconst_null",
	ICONST_0:        "iconst_0",
	ICONST_1:        "iconst_1",
	LDC:             "ldc",
	LDC2_W:          "ldc2_w",
	ALOAD:           "aload",
	ASTORE:          "astore",
	ILOAD:           "iload",
	DLOAD:           "dload",
	POP:             "pop",
	POP2:            "pop2",
	DUP:             "dup",
	DUP2:            "dup2",
	DADD:            "dadd",
	DSUB:            "dsub",
	DMUL:            "dmul",
	DDIV:            "ddiv",
	DNEG:            "dneg",
	IAND:            "iand",
	IOR:             "ior",
	IXOR:            "ixor",
	DCMPL:           "dcmpl",
	DCMPG:           "dcmpg",
	IFEQ:            "ifeq",
	IFNE:            "ifne",
	IFLT:            "iflt",
	IFGE:            "ifge",
	IFGT:            "ifgt",
	IFLE:            "ifle",
	IF_ICMPEQ:       "if_icmpeq",
	IF_ICMPNE:       "if_icmpne",
	GOTO:            "goto",
	NEW:             "new",
	CHECKCAST:       "checkcast",
	GETFIELD:        "getfield",
	PUTFIELD:        "putfield",
	GETSTATIC:       "getstatic",
	INVOKESPECIAL:   "invokespecial",
	INVOKEVIRTUAL:   "invokevirtual",
	INVOKESTATIC:    "invokestatic",
	INVOKEINTERFACE: "invokeinterface",
	IRETURN:         "ireturn",
	DRETURN:         "dreturn",
	ARETURN:         "areturn",
	RETURN:          "return",
}

// String returns the lowercase assembler mnemonic.
func (op Opcode) String() string {
	if int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return "unknown"
}

var opcodesByName = func() map[string]Opcode {
	m := make(map[string]Opcode, len(opcodeNames))
	for op, name := range opcodeNames {
		m[name] = Opcode(op)
	}
	return m
}()

// LookupOpcode maps a mnemonic back to its opcode.
func LookupOpcode(name string) (Opcode, bool) {
	op, ok := opcodesByName[name]
	return op, ok
}

// IsBranch reports whether op jumps to a label.
func (op Opcode) IsBranch() bool {
	switch op {
	case IFEQ, IFNE, IFLT, IFGE, IFGT, IFLE, IF_ICMPEQ, IF_ICMPNE, GOTO:
		return true
	}
	return false
}

// IsFieldAccess reports whether op names a field of an owner class.
func (op Opcode) IsFieldAccess() bool {
	return op == GETFIELD || op == PUTFIELD || op == GETSTATIC
}

// IsInvoke reports whether op calls a method.
func (op Opcode) IsInvoke() bool {
	switch op {
	case INVOKESPECIAL, INVOKEVIRTUAL, INVOKESTATIC, INVOKEINTERFACE:
		return true
	}
	return false
}
