package diagnostics

import (
	"fmt"

	"github.com/funvibe/iclc/internal/token"
)

type ErrorCode string

// Lexer errors
const (
	ErrL001 ErrorCode = "L001" // illegal character
	ErrL002 ErrorCode = "L002" // unterminated string
	ErrL003 ErrorCode = "L003" // malformed number
)

// Parser errors
const (
	ErrP001 ErrorCode = "P001" // unexpected token
	ErrP002 ErrorCode = "P002" // missing prefix parse function
	ErrP003 ErrorCode = "P003" // malformed type
	ErrP004 ErrorCode = "P004" // duplicate field
	ErrP005 ErrorCode = "P005" // expression nesting too deep
)

// Analyzer errors
const (
	ErrA001 ErrorCode = "A001" // undeclared identifier
	ErrA002 ErrorCode = "A002" // redeclaration in the same scope
	ErrA003 ErrorCode = "A003" // type mismatch
	ErrA004 ErrorCode = "A004" // arity mismatch
	ErrA005 ErrorCode = "A005" // cyclic type alias
	ErrA006 ErrorCode = "A006" // assignment to immutable binding
	ErrA007 ErrorCode = "A007" // unknown record field
	ErrA008 ErrorCode = "A008" // undeclared type
)

// Runtime and backend errors
const (
	ErrR001 ErrorCode = "R001" // runtime error
	ErrB001 ErrorCode = "B001" // backend failure
)

var descriptions = map[ErrorCode]string{
	ErrL001: "illegal character",
	ErrL002: "unterminated string",
	ErrL003: "malformed number",
	ErrP001: "unexpected token",
	ErrP002: "unexpected expression start",
	ErrP003: "malformed type",
	ErrP004: "duplicate field",
	ErrP005: "expression too deep",
	ErrA001: "undeclared identifier",
	ErrA002: "redeclaration",
	ErrA003: "type error",
	ErrA004: "arity mismatch",
	ErrA005: "cyclic type alias",
	ErrA006: "immutable binding",
	ErrA007: "unknown field",
	ErrA008: "undeclared type",
	ErrR001: "runtime error",
	ErrB001: "backend failure",
}

// Describe returns a short human name for code.
func Describe(code ErrorCode) string {
	if d, ok := descriptions[code]; ok {
		return d
	}
	return "error"
}

// DiagnosticError is a positioned error reported by a pipeline stage.
type DiagnosticError struct {
	Code    ErrorCode
	Token   token.Token
	File    string
	Message string
}

func NewError(code ErrorCode, tok token.Token, msg string) *DiagnosticError {
	return &DiagnosticError{Code: code, Token: tok, Message: msg}
}

// NewErrorf is NewError with a format string.
func NewErrorf(code ErrorCode, tok token.Token, format string, args ...interface{}) *DiagnosticError {
	return NewError(code, tok, fmt.Sprintf(format, args...))
}

func (e *DiagnosticError) Error() string {
	loc := ""
	if e.File != "" {
		loc = e.File + ":"
	}
	if e.Token.Line > 0 {
		loc += fmt.Sprintf("%d:%d:", e.Token.Line, e.Token.Column)
	}
	if loc != "" {
		loc += " "
	}
	return fmt.Sprintf("%s[%s] %s", loc, e.Code, e.Message)
}
