package typesystem

import (
	"sort"
	"strings"
)

// Type is a structural value type. The set of implementations is closed.
type Type interface {
	String() string
	isType()
}

type Void struct{}
type Boolean struct{}
type Number struct{}
type String struct{}

// Reference is a mutable boxed cell holding a Target.
type Reference struct {
	Target Type
}

// Function is a closure signature.
type Function struct {
	Args []Type
	Ret  Type
}

// Record is an unordered set of named fields.
type Record struct {
	Fields map[string]Type
}

// Alias names a type declared with `type N = ...`. The analyzer resolves
// aliases before any type reaches a backend.
type Alias struct {
	Name string
}

func (Void) isType()      {}
func (Boolean) isType()   {}
func (Number) isType()    {}
func (String) isType()    {}
func (Reference) isType() {}
func (Function) isType()  {}
func (Record) isType()    {}
func (Alias) isType()     {}

func (Void) String() string    { return "void" }
func (Boolean) String() string { return "bool" }
func (Number) String() string  { return "number" }
func (String) String() string  { return "string" }

func (t Reference) String() string { return "ref " + t.Target.String() }

func (t Function) String() string {
	var sb strings.Builder
	sb.WriteString("fn(")
	for i, a := range t.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.String())
	}
	sb.WriteString(") -> ")
	sb.WriteString(t.Ret.String())
	return sb.String()
}

func (t Record) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, name := range t.FieldNames() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(name)
		sb.WriteString(": ")
		sb.WriteString(t.Fields[name].String())
	}
	sb.WriteString("}")
	return sb.String()
}

func (t Alias) String() string { return t.Name }

// FieldNames returns the record's field names in sorted order.
func (t Record) FieldNames() []string {
	names := make([]string, 0, len(t.Fields))
	for name := range t.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Field returns the type of the named field.
func (t Record) Field(name string) (Type, bool) {
	f, ok := t.Fields[name]
	return f, ok
}

// NewRecord copies fields into a new Record.
func NewRecord(fields map[string]Type) Record {
	copied := make(map[string]Type, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return Record{Fields: copied}
}

// Singletons for the primitive types.
var (
	VoidType    Type = Void{}
	BooleanType Type = Boolean{}
	NumberType  Type = Number{}
	StringType  Type = String{}
)

// Key returns a canonical encoding of t. Two types have the same key
// exactly when they are structurally equal, so keys can index intern tables.
func Key(t Type) string {
	var sb strings.Builder
	writeKey(&sb, t)
	return sb.String()
}

func writeKey(sb *strings.Builder, t Type) {
	switch t := t.(type) {
	case Void:
		sb.WriteByte('V')
	case Boolean:
		sb.WriteByte('Z')
	case Number:
		sb.WriteByte('D')
	case String:
		sb.WriteByte('S')
	case Reference:
		sb.WriteByte('R')
		writeKey(sb, t.Target)
	case Function:
		sb.WriteString("F(")
		for _, a := range t.Args {
			writeKey(sb, a)
			sb.WriteByte(',')
		}
		sb.WriteByte(')')
		writeKey(sb, t.Ret)
	case Record:
		sb.WriteString("{")
		for _, name := range t.FieldNames() {
			sb.WriteString(name)
			sb.WriteByte(':')
			writeKey(sb, t.Fields[name])
			sb.WriteByte(';')
		}
		sb.WriteString("}")
	case Alias:
		sb.WriteString("A<")
		sb.WriteString(t.Name)
		sb.WriteByte('>')
	case nil:
		sb.WriteByte('?')
	default:
		panic("typesystem: unknown type " + t.String())
	}
}

// Equal reports structural equality.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return Key(a) == Key(b)
}

// IsPrimitive reports whether t maps to a target-native representation.
func IsPrimitive(t Type) bool {
	switch t.(type) {
	case Void, Boolean, Number, String:
		return true
	}
	return false
}

// ContainsAlias reports whether any Alias remains inside t.
func ContainsAlias(t Type) bool {
	switch t := t.(type) {
	case Alias:
		return true
	case Reference:
		return ContainsAlias(t.Target)
	case Function:
		for _, a := range t.Args {
			if ContainsAlias(a) {
				return true
			}
		}
		return ContainsAlias(t.Ret)
	case Record:
		for _, f := range t.Fields {
			if ContainsAlias(f) {
				return true
			}
		}
	}
	return false
}
