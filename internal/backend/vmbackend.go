package backend

import (
	"fmt"

	"github.com/funvibe/iclc/internal/ast"
	"github.com/funvibe/iclc/internal/codegen"
	"github.com/funvibe/iclc/internal/config"
	"github.com/funvibe/iclc/internal/diagnostics"
	"github.com/funvibe/iclc/internal/pipeline"
	"github.com/funvibe/iclc/internal/token"
	"github.com/funvibe/iclc/internal/vm"
)

// VMBackend executes programs by compiling them to classes and running the
// entry class on the VM.
type VMBackend struct {
	opts Options
}

// NewVM creates a new VM backend
func NewVM(opts Options) *VMBackend {
	return &VMBackend{opts: opts.withDefaults()}
}

func (b *VMBackend) Name() string { return config.BackendVM }

// Run compiles the program unless an earlier stage already did, then
// executes Main.run.
func (b *VMBackend) Run(ctx *pipeline.PipelineContext) (Result, error) {
	if ctx.AstRoot == nil && len(ctx.Classes) == 0 {
		return Result{}, fmt.Errorf("no AST to compile")
	}
	if len(ctx.Errors) > 0 {
		return Result{}, ctx.Errors[0]
	}

	classes := ctx.Classes
	if len(classes) == 0 {
		program, ok := ctx.AstRoot.(*ast.Program)
		if !ok {
			return Result{}, fmt.Errorf("AST root is not a Program: %T", ctx.AstRoot)
		}
		compiled, err := codegen.Compile(program, ctx.TypeMap)
		if err != nil {
			return Result{}, codegen.ToDiagnostic(err)
		}
		classes = compiled
		ctx.Classes = compiled
	}

	machine, err := vm.New(classes)
	if err != nil {
		return Result{}, err
	}
	machine.SetOutput(b.opts.Out)
	machine.SetContext(b.opts.Context)
	machine.MaxCallDepth = maxDepth(ctx)
	if b.opts.Random != nil {
		machine.Random = b.opts.Random
	}

	res, err := machine.Run()
	if err != nil {
		return Result{}, diagnostics.NewError(diagnostics.ErrR001, token.Token{}, err.Error())
	}
	return Result{Value: res.Inspect(), Void: res.IsVoid()}, nil
}
