package vm

import (
	"math"
	"strconv"
	"strings"

	"github.com/funvibe/iclc/internal/bytecode"
	"github.com/funvibe/iclc/internal/utils"
)

// ValueType identifies the type of value stored in the Value struct
type ValueType uint8

const (
	ValNull ValueType = iota
	ValInt
	ValDouble
	ValString
	ValObj
)

// Value is a stack-allocated tagged union. A double occupies one Value but
// counts as a category-2 entry for pop2 and dup2.
type Value struct {
	Type ValueType
	Data uint64 // int32 bits or float64 bits
	Str  string
	Obj  *Object
}

func NullVal() Value { return Value{Type: ValNull} }

func IntVal(v int32) Value { return Value{Type: ValInt, Data: uint64(uint32(v))} }

func DoubleVal(v float64) Value { return Value{Type: ValDouble, Data: math.Float64bits(v)} }

func StringVal(s string) Value { return Value{Type: ValString, Str: s} }

func ObjVal(o *Object) Value {
	if o == nil {
		return NullVal()
	}
	return Value{Type: ValObj, Obj: o}
}

func (v Value) AsInt() int32 { return int32(uint32(v.Data)) }

func (v Value) AsDouble() float64 { return math.Float64frombits(v.Data) }

// IsWide reports whether v is a category-2 value.
func (v Value) IsWide() bool { return v.Type == ValDouble }

// zeroValue is the default of a field with the given descriptor.
func zeroValue(desc string) Value {
	switch desc {
	case "D":
		return DoubleVal(0)
	case "I", "Z":
		return IntVal(0)
	}
	return NullVal()
}

// Format renders v as the source language prints a value whose runtime
// descriptor is desc.
func Format(v Value, desc string) string {
	switch desc {
	case "V":
		return ""
	case "D":
		return utils.FormatNumber(v.AsDouble())
	case "I", "Z":
		return strconv.FormatBool(v.AsInt() != 0)
	}
	switch v.Type {
	case ValNull:
		return ""
	case ValString:
		return v.Str
	case ValObj:
		return v.Obj.Inspect()
	}
	return "<?>"
}

// formatNested quotes strings inside records and cells.
func formatNested(v Value, desc string) string {
	if v.Type == ValString {
		return strconv.Quote(v.Str)
	}
	return Format(v, desc)
}

// Object is an instance of a loaded class with one entry per declared field.
type Object struct {
	Class  *Class
	Fields map[string]Value
}

func newObject(c *Class) *Object {
	o := &Object{Class: c, Fields: make(map[string]Value, len(c.Fields))}
	for _, f := range c.Fields {
		o.Fields[f.Name] = zeroValue(f.Descriptor)
	}
	return o
}

// Inspect renders records as `{a: 1, b: "x"}`, reference cells as
// `ref <value>` and closures by arity.
func (o *Object) Inspect() string {
	switch o.Class.Kind {
	case bytecode.KindRecord:
		var sb strings.Builder
		sb.WriteString("{")
		for i, f := range o.Class.Fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(f.Name)
			sb.WriteString(": ")
			sb.WriteString(formatNested(o.Fields[f.Name], f.Descriptor))
		}
		sb.WriteString("}")
		return sb.String()
	case bytecode.KindReference:
		f := o.Class.Fields[0]
		return "ref " + formatNested(o.Fields[f.Name], f.Descriptor)
	case bytecode.KindClosure:
		if call := o.Class.callMethod(); call != nil {
			args, _, _ := bytecode.ParseMethodDescriptor(call.Descriptor)
			return "fn/" + strconv.Itoa(len(args))
		}
	}
	return o.Class.Name
}
