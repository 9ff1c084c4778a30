// Package vm executes generated class sets. It models the subset of a
// stack machine the code generator emits: typed locals, an operand stack per
// invocation, objects with named fields and interface dispatch by
// signature, plus the few runtime classes the artifacts call into.
package vm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/funvibe/iclc/internal/bytecode"
	"github.com/funvibe/iclc/internal/config"
)

var (
	ErrLoad      = errors.New("load error")
	ErrCallDepth = errors.New("maximum call depth exceeded")

	errStackUnderflow = errors.New("stack underflow")
	errStackOverflow  = errors.New("stack overflow")
	errNullReference  = errors.New("null dereference")
	errUnknownClass   = errors.New("unknown class")
	errUnknownMethod  = errors.New("unknown method")
	errUnknownField   = errors.New("unknown field")
	errBadOperand     = errors.New("bad operand")
)

// RuntimeError reports where execution failed.
type RuntimeError struct {
	Class  string
	Method string
	PC     int
	Err    error
}

func (e *RuntimeError) Error() string {
	if e.Class == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s.%s at %d: %v", e.Class, e.Method, e.PC, e.Err)
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// VM runs one loaded class set. A VM is not safe for concurrent use.
type VM struct {
	classes map[string]*Class
	stdout  *Object

	out io.Writer

	// Context for cancellation
	Context context.Context

	MaxCallDepth int
	Random       func() float64

	depth int
}

// New loads classes. The set must contain the entry class.
func New(classes []*bytecode.Class) (*VM, error) {
	loaded, err := load(classes)
	if err != nil {
		return nil, err
	}
	if _, ok := loaded[config.EntryClassName]; !ok {
		return nil, fmt.Errorf("%w: no %s class", ErrLoad, config.EntryClassName)
	}
	return &VM{
		classes:      loaded,
		stdout:       &Object{Class: printStream, Fields: map[string]Value{}},
		out:          os.Stdout,
		Context:      context.Background(),
		MaxCallDepth: config.DefaultMaxDepth,
		Random:       rand.Float64,
	}, nil
}

// SetOutput sets the writer System.out prints to.
func (vm *VM) SetOutput(w io.Writer) {
	vm.out = w
}

// SetContext sets the context for cancellation
func (vm *VM) SetContext(ctx context.Context) {
	vm.Context = ctx
}

// Result is the value returned by Main.run with the descriptor it was
// returned as.
type Result struct {
	Value      Value
	Descriptor string
}

// IsVoid reports whether the program produced no value.
func (r Result) IsVoid() bool { return r.Descriptor == "V" }

func (r Result) Inspect() string { return Format(r.Value, r.Descriptor) }

// Run executes Main.run and returns the program value.
func (vm *VM) Run() (Result, error) {
	entry := vm.classes[config.EntryClassName]
	for _, m := range entry.methods {
		if m.Name == config.EntryRunMethod && m.Static && len(m.args) == 0 {
			v, err := vm.invokeSafely(m)
			return Result{Value: v, Descriptor: m.ret}, err
		}
	}
	return Result{}, &RuntimeError{Err: fmt.Errorf("%w: %s.%s", errUnknownMethod, config.EntryClassName, config.EntryRunMethod)}
}

// Main executes Main.main with no arguments, as a launcher would.
func (vm *VM) Main() error {
	entry := vm.classes[config.EntryClassName]
	m, ok := entry.lookup(config.EntryMainMethod, config.EntryMainDesc)
	if !ok || !m.Static {
		return &RuntimeError{Err: fmt.Errorf("%w: %s.%s", errUnknownMethod, config.EntryClassName, config.EntryMainMethod)}
	}
	_, err := vm.invokeSafely(m, NullVal())
	return err
}

// invokeSafely turns a Go panic inside the interpreter into an error.
func (vm *VM) invokeSafely(m *Method, args ...Value) (v Value, err error) {
	vm.depth = 0
	defer func() {
		if r := recover(); r != nil {
			err = &RuntimeError{Class: m.Owner.Name, Method: m.Name, Err: fmt.Errorf("internal error: %v", r)}
		}
	}()
	return vm.invoke(m, args)
}

func (vm *VM) class(name string) (*Class, error) {
	if c, ok := vm.classes[name]; ok {
		return c, nil
	}
	if c, ok := runtimeClasses[name]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w %s", errUnknownClass, name)
}
