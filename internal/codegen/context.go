package codegen

import (
	"strconv"
	"strings"

	"github.com/funvibe/iclc/internal/ast"
	"github.com/funvibe/iclc/internal/bytecode"
	"github.com/funvibe/iclc/internal/config"
	"github.com/funvibe/iclc/internal/typesystem"
)

// Namespace selects the counter a generated name is drawn from.
type Namespace string

const (
	NsFrame    Namespace = "frame"
	NsVar      Namespace = "var"
	NsRecord   Namespace = "record"
	NsRef      Namespace = "ref"
	NsFunction Namespace = "function"
	NsClosure  Namespace = "closure"
)

// FunctionInterface is the call interface shared by every closure of one
// function type.
type FunctionInterface struct {
	Name           string
	Type           typesystem.Function
	CallDescriptor string
}

// RecordArtifact is the class of one record type. Fields are sorted by name.
type RecordArtifact struct {
	Name   string
	Type   typesystem.Record
	Fields []bytecode.Field
}

// Field returns the descriptor of the named field.
func (r *RecordArtifact) Field(name string) (bytecode.Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return bytecode.Field{}, false
}

// ReferenceArtifact is the cell class of one reference type.
type ReferenceArtifact struct {
	Name            string
	Type            typesystem.Reference
	ValueDescriptor string
}

// Closure is one function literal: a class implementing Interface whose
// frame field holds the frame active where the literal appears.
type Closure struct {
	Name      string
	Interface *FunctionInterface
	Captured  FrameID
	Literal   *ast.FunctionLiteral
	Call      *bytecode.Method
}

// Context holds everything one compilation shares: name counters, intern
// tables, the frame arena and the registered closures. It is not safe for
// concurrent use; every compilation owns its own.
type Context struct {
	counters map[Namespace]int

	functions  map[string]*FunctionInterface
	records    map[string]*RecordArtifact
	references map[string]*ReferenceArtifact

	frames    []*Frame
	finalized []FrameID
	closures  []*Closure

	compiled map[string]bool
}

func NewContext() *Context {
	return &Context{
		counters:   make(map[Namespace]int),
		functions:  make(map[string]*FunctionInterface),
		records:    make(map[string]*RecordArtifact),
		references: make(map[string]*ReferenceArtifact),
		compiled:   make(map[string]bool),
	}
}

// Generate returns the next fresh name of ns, such as "record_3".
func (c *Context) Generate(ns Namespace) string {
	n := c.counters[ns]
	c.counters[ns] = n + 1
	return string(ns) + "_" + strconv.Itoa(n)
}

// Intern returns the artifact of a reference, record or function type.
func (c *Context) Intern(t typesystem.Type) string {
	switch t := t.(type) {
	case typesystem.Function:
		return c.InternFunction(t).Name
	case typesystem.Record:
		return c.InternRecord(t).Name
	case typesystem.Reference:
		return c.InternReference(t).Name
	}
	invariantf("no artifact for type %v", t)
	return ""
}

func (c *Context) InternFunction(t typesystem.Function) *FunctionInterface {
	key := typesystem.Key(t)
	if fi, ok := c.functions[key]; ok {
		return fi
	}
	desc := c.MethodDescriptor(t)
	fi := &FunctionInterface{Name: c.Generate(NsFunction), Type: t, CallDescriptor: desc}
	c.functions[key] = fi
	return fi
}

func (c *Context) InternRecord(t typesystem.Record) *RecordArtifact {
	key := typesystem.Key(t)
	if ra, ok := c.records[key]; ok {
		return ra
	}
	names := t.FieldNames()
	fields := make([]bytecode.Field, len(names))
	for i, name := range names {
		fields[i] = bytecode.Field{Name: name, Descriptor: c.Descriptor(t.Fields[name])}
	}
	ra := &RecordArtifact{Name: c.Generate(NsRecord), Type: t, Fields: fields}
	c.records[key] = ra
	return ra
}

func (c *Context) InternReference(t typesystem.Reference) *ReferenceArtifact {
	key := typesystem.Key(t)
	if ra, ok := c.references[key]; ok {
		return ra
	}
	desc := c.Descriptor(t.Target)
	ra := &ReferenceArtifact{Name: c.Generate(NsRef), Type: t, ValueDescriptor: desc}
	c.references[key] = ra
	return ra
}

// Descriptor returns the field or argument descriptor of t. Void values
// are stored as null objects.
func (c *Context) Descriptor(t typesystem.Type) string {
	switch t.(type) {
	case typesystem.Void:
		return "L" + config.ObjectClass + ";"
	case typesystem.Boolean:
		return "I"
	case typesystem.Number:
		return "D"
	case typesystem.String:
		return "L" + config.StringClass + ";"
	case typesystem.Reference, typesystem.Record, typesystem.Function:
		return bytecode.ObjectDescriptor(c.Intern(t))
	}
	invariantf("no descriptor for type %v", t)
	return ""
}

// ReturnDescriptor is Descriptor except that Void returns nothing.
func (c *Context) ReturnDescriptor(t typesystem.Type) string {
	if _, ok := t.(typesystem.Void); ok {
		return "V"
	}
	return c.Descriptor(t)
}

// MethodDescriptor returns the call descriptor of a function type.
func (c *Context) MethodDescriptor(t typesystem.Function) string {
	var sb strings.Builder
	sb.WriteString("(")
	for _, a := range t.Args {
		sb.WriteString(c.Descriptor(a))
	}
	sb.WriteString(")")
	sb.WriteString(c.ReturnDescriptor(t.Ret))
	return sb.String()
}

// MarkCompiled records that the named artifact was assembled. Assembling
// the same artifact twice is an invariant violation.
func (c *Context) MarkCompiled(name string) {
	if c.compiled[name] {
		invariantf("artifact %s compiled twice", name)
	}
	c.compiled[name] = true
}

// IsCompiled reports whether MarkCompiled was called for name.
func (c *Context) IsCompiled(name string) bool {
	return c.compiled[name]
}

// RegisterClosure allocates the class of a function literal.
func (c *Context) RegisterClosure(iface *FunctionInterface, captured FrameID, lit *ast.FunctionLiteral) *Closure {
	cl := &Closure{Name: c.Generate(NsClosure), Interface: iface, Captured: captured, Literal: lit}
	c.closures = append(c.closures, cl)
	return cl
}

// Functions returns the interned interfaces in name order.
func (c *Context) Functions() []*FunctionInterface {
	out := make([]*FunctionInterface, 0, len(c.functions))
	for _, fi := range c.functions {
		out = append(out, fi)
	}
	sortByName(out, func(fi *FunctionInterface) string { return fi.Name })
	return out
}

// Records returns the interned records in name order.
func (c *Context) Records() []*RecordArtifact {
	out := make([]*RecordArtifact, 0, len(c.records))
	for _, ra := range c.records {
		out = append(out, ra)
	}
	sortByName(out, func(ra *RecordArtifact) string { return ra.Name })
	return out
}

// References returns the interned reference cells in name order.
func (c *Context) References() []*ReferenceArtifact {
	out := make([]*ReferenceArtifact, 0, len(c.references))
	for _, ra := range c.references {
		out = append(out, ra)
	}
	sortByName(out, func(ra *ReferenceArtifact) string { return ra.Name })
	return out
}

// Closures returns the registered closures in name order.
func (c *Context) Closures() []*Closure {
	out := append([]*Closure(nil), c.closures...)
	sortByName(out, func(cl *Closure) string { return cl.Name })
	return out
}
