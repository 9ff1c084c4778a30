package codegen

import (
	"errors"
	"fmt"

	"github.com/funvibe/iclc/internal/ast"
	"github.com/funvibe/iclc/internal/token"
)

var (
	// ErrContract means a program the analyzer should have rejected reached
	// the backend.
	ErrContract = errors.New("codegen: contract violation")

	// ErrInvariant means the backend broke one of its own invariants.
	ErrInvariant = errors.New("codegen: internal invariant violation")
)

// Error is the single failure type of the backend. Kind is ErrContract or
// ErrInvariant, so callers can use errors.Is.
type Error struct {
	Kind error
	Span token.Span
	Msg  string
}

func (e *Error) Error() string {
	if e.Span.IsZero() {
		return fmt.Sprintf("%v: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("%v at %s: %s", e.Kind, e.Span, e.Msg)
}

func (e *Error) Unwrap() error { return e.Kind }

// contractf aborts compilation because node violates the analyzer contract.
func contractf(node ast.Node, format string, args ...interface{}) {
	err := &Error{Kind: ErrContract, Msg: fmt.Sprintf(format, args...)}
	if node != nil {
		err.Span = node.Span()
	}
	panic(err)
}

// invariantf aborts compilation because of a backend bug.
func invariantf(format string, args ...interface{}) {
	panic(&Error{Kind: ErrInvariant, Msg: fmt.Sprintf(format, args...)})
}

// catch converts a backend panic into *err. Foreign panics keep unwinding.
func catch(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if e, ok := r.(*Error); ok {
		*err = e
		return
	}
	panic(r)
}
