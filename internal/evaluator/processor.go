package evaluator

import (
	"github.com/funvibe/iclc/internal/diagnostics"
	"github.com/funvibe/iclc/internal/token"
)

// ToDiagnostic converts an evaluation error into an R001 diagnostic.
func ToDiagnostic(err *Error) *diagnostics.DiagnosticError {
	tok := token.Token{Line: err.Line, Column: err.Column}
	return diagnostics.NewError(diagnostics.ErrR001, tok, err.Message)
}
