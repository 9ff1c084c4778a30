package vm

import (
	"fmt"

	"github.com/funvibe/iclc/internal/bytecode"
)

// Class is a loaded artifact with its methods indexed by signature.
type Class struct {
	*bytecode.Class
	methods map[string]*Method
}

// Method is a loaded method whose labels are resolved to instruction
// indexes.
type Method struct {
	*bytecode.Method
	Owner  *Class
	labels map[string]int
	args   []string
	ret    string
}

func signature(name, desc string) string { return name + desc }

func (c *Class) lookup(name, desc string) (*Method, bool) {
	m, ok := c.methods[signature(name, desc)]
	return m, ok
}

func (c *Class) callMethod() *Method {
	for _, m := range c.methods {
		if m.Name == "call" {
			return m
		}
	}
	return nil
}

// implements reports whether c is, or declares, the named class.
func (c *Class) implements(name string) bool {
	if c.Name == name {
		return true
	}
	for _, iface := range c.Interfaces {
		if iface == name {
			return true
		}
	}
	return false
}

// load indexes classes and resolves every label.
func load(classes []*bytecode.Class) (map[string]*Class, error) {
	out := make(map[string]*Class, len(classes))
	for _, bc := range classes {
		if bc == nil {
			return nil, fmt.Errorf("%w: nil class", ErrLoad)
		}
		if _, dup := out[bc.Name]; dup {
			return nil, fmt.Errorf("%w: class %s defined twice", ErrLoad, bc.Name)
		}
		c := &Class{Class: bc, methods: make(map[string]*Method, len(bc.Methods))}
		for _, bm := range bc.Methods {
			m, err := loadMethod(c, bm)
			if err != nil {
				return nil, err
			}
			c.methods[signature(bm.Name, bm.Descriptor)] = m
		}
		out[bc.Name] = c
	}
	return out, nil
}

func loadMethod(c *Class, bm *bytecode.Method) (*Method, error) {
	args, ret, err := bytecode.ParseMethodDescriptor(bm.Descriptor)
	if err != nil {
		return nil, fmt.Errorf("%w: %s.%s: %v", ErrLoad, c.Name, bm.Name, err)
	}
	m := &Method{Method: bm, Owner: c, labels: make(map[string]int), args: args, ret: ret}
	for i, in := range bm.Code {
		if in.Op != bytecode.LABEL {
			continue
		}
		if _, dup := m.labels[in.Label]; dup {
			return nil, fmt.Errorf("%w: %s.%s: label %s defined twice", ErrLoad, c.Name, bm.Name, in.Label)
		}
		m.labels[in.Label] = i
	}
	for _, in := range bm.Code {
		if in.Op.IsBranch() {
			if _, ok := m.labels[in.Label]; !ok {
				return nil, fmt.Errorf("%w: %s.%s: undefined label %s", ErrLoad, c.Name, bm.Name, in.Label)
			}
		}
	}
	if !bm.Abstract && bm.MaxLocals < 1+bytecode.ArgSlots(args) && !bm.Static {
		return nil, fmt.Errorf("%w: %s.%s: %d locals cannot hold its arguments", ErrLoad, c.Name, bm.Name, bm.MaxLocals)
	}
	return m, nil
}
