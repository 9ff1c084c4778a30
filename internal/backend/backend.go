// Package backend provides an interface for different execution backends.
// This allows switching between the tree-walk interpreter and the VM.
package backend

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/funvibe/iclc/internal/config"
	"github.com/funvibe/iclc/internal/pipeline"
)

// Result is the rendered value of a program.
type Result struct {
	Value string
	Void  bool
}

// Backend is the interface for execution backends
type Backend interface {
	// Run executes the program from pipeline context and returns the result
	Run(ctx *pipeline.PipelineContext) (Result, error)

	// Name returns the backend name for display
	Name() string
}

// Options are shared by every backend.
type Options struct {
	Context context.Context
	Out     io.Writer

	// Random replaces the `rand` builtin; nil means math/rand.
	Random func() float64
}

func (o Options) withDefaults() Options {
	if o.Context == nil {
		o.Context = context.Background()
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
	return o
}

// ByName returns the backend configured as name.
func ByName(name string, opts Options) (Backend, error) {
	switch name {
	case config.BackendTree:
		return NewTreeWalk(opts), nil
	case config.BackendVM:
		return NewVM(opts), nil
	}
	return nil, fmt.Errorf("unknown backend %q", name)
}

func maxDepth(ctx *pipeline.PipelineContext) int {
	if ctx.MaxCallDepth > 0 {
		return ctx.MaxCallDepth
	}
	return config.DefaultMaxDepth
}
