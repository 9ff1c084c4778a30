package evaluator

import (
	"sort"
	"strconv"
	"strings"

	"github.com/funvibe/iclc/internal/ast"
	"github.com/funvibe/iclc/internal/utils"
)

type ObjectType string

const (
	NUMBER_OBJ   = "NUMBER"
	BOOLEAN_OBJ  = "BOOLEAN"
	STRING_OBJ   = "STRING"
	VOID_OBJ     = "VOID"
	REF_OBJ      = "REF"
	FUNCTION_OBJ = "FUNCTION"
	RECORD_OBJ   = "RECORD"
	ERROR_OBJ    = "ERROR"
)

type Object interface {
	Type() ObjectType
	Inspect() string
}

type Number struct {
	Value float64
}

func (n *Number) Type() ObjectType { return NUMBER_OBJ }
func (n *Number) Inspect() string  { return utils.FormatNumber(n.Value) }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }

// Void is the value of statements, loops and empty scopes.
type Void struct{}

func (v *Void) Type() ObjectType { return VOID_OBJ }
func (v *Void) Inspect() string  { return "" }

// Reference is a mutable cell created by `new`.
type Reference struct {
	Value Object
}

func (r *Reference) Type() ObjectType { return REF_OBJ }
func (r *Reference) Inspect() string  { return "ref " + nested(r.Value) }

type Function struct {
	Parameters []*ast.Identifier
	Body       *ast.Scope
	Env        *Environment
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }

// Inspect renders a function by its arity, the only part both backends can
// recover at run time.
func (f *Function) Inspect() string { return "fn/" + strconv.Itoa(len(f.Parameters)) }

type Record struct {
	Fields map[string]Object
}

func (r *Record) Type() ObjectType { return RECORD_OBJ }
func (r *Record) Inspect() string {
	names := make([]string, 0, len(r.Fields))
	for name := range r.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("{")
	for i, name := range names {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(name)
		sb.WriteString(": ")
		sb.WriteString(nested(r.Fields[name]))
	}
	sb.WriteString("}")
	return sb.String()
}

// nested renders a value that appears inside a record or a cell. Strings are
// quoted there so `{a: "1"}` and `{a: 1}` stay distinguishable.
func nested(obj Object) string {
	if s, ok := obj.(*String); ok {
		return strconv.Quote(s.Value)
	}
	return obj.Inspect()
}

// Error aborts evaluation. Line and Column point at the innermost node that
// failed.
type Error struct {
	Message string
	Line    int
	Column  int
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string {
	if e.Line > 0 {
		return "ERROR at " + strconv.Itoa(e.Line) + ":" + strconv.Itoa(e.Column) + ": " + e.Message
	}
	return "ERROR: " + e.Message
}

var (
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
	VOID  = &Void{}
)

func nativeBoolToBooleanObject(b bool) *Boolean {
	if b {
		return TRUE
	}
	return FALSE
}
