package bytecode

import (
	"fmt"
	"strings"
)

// Disassemble renders c as Jasmin assembly.
func Disassemble(c *Class) string {
	var sb strings.Builder

	if c.IsInterface() {
		sb.WriteString(fmt.Sprintf(".interface public abstract %s\n", c.Name))
	} else {
		sb.WriteString(fmt.Sprintf(".class public %s\n", c.Name))
	}
	sb.WriteString(fmt.Sprintf(".super %s\n", c.Super))
	for _, iface := range c.Interfaces {
		sb.WriteString(fmt.Sprintf(".implements %s\n", iface))
	}

	if len(c.Fields) > 0 {
		sb.WriteString("\n")
	}
	for _, f := range c.Fields {
		sb.WriteString(fmt.Sprintf(".field public %s %s\n", f.Name, f.Descriptor))
	}

	for _, m := range c.Methods {
		sb.WriteString("\n")
		disassembleMethod(&sb, m)
	}
	return sb.String()
}

func disassembleMethod(sb *strings.Builder, m *Method) {
	modifiers := "public"
	if m.Static {
		modifiers += " static"
	}
	if m.Abstract {
		modifiers += " abstract"
	}
	sb.WriteString(fmt.Sprintf(".method %s %s%s\n", modifiers, m.Name, m.Descriptor))
	if !m.Abstract {
		sb.WriteString(fmt.Sprintf("    .limit stack %d\n", m.MaxStack))
		sb.WriteString(fmt.Sprintf("    .limit locals %d\n", m.MaxLocals))
		for _, in := range m.Code {
			if in.Op == LABEL {
				sb.WriteString(in.String())
			} else {
				sb.WriteString("    ")
				sb.WriteString(in.String())
			}
			sb.WriteString("\n")
		}
	}
	sb.WriteString(".end method\n")
}
