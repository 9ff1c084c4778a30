package backend

import (
	"fmt"

	"github.com/funvibe/iclc/internal/ast"
	"github.com/funvibe/iclc/internal/config"
	"github.com/funvibe/iclc/internal/evaluator"
	"github.com/funvibe/iclc/internal/pipeline"
)

// TreeWalkBackend wraps the tree-walk interpreter
type TreeWalkBackend struct {
	opts Options
}

// NewTreeWalk creates a new tree-walk backend
func NewTreeWalk(opts Options) *TreeWalkBackend {
	return &TreeWalkBackend{opts: opts.withDefaults()}
}

func (b *TreeWalkBackend) Name() string { return config.BackendTree }

// Run executes the program using tree-walk interpretation
func (b *TreeWalkBackend) Run(ctx *pipeline.PipelineContext) (Result, error) {
	if ctx.AstRoot == nil {
		return Result{}, fmt.Errorf("no AST to execute")
	}
	if len(ctx.Errors) > 0 {
		return Result{}, ctx.Errors[0]
	}
	program, ok := ctx.AstRoot.(*ast.Program)
	if !ok {
		return Result{}, fmt.Errorf("AST root is not a Program: %T", ctx.AstRoot)
	}

	eval := evaluator.New()
	eval.Context = b.opts.Context
	eval.Out = b.opts.Out
	eval.TypeMap = ctx.TypeMap
	eval.MaxCallDepth = maxDepth(ctx)
	if b.opts.Random != nil {
		eval.Random = b.opts.Random
	}

	obj := eval.Run(program)
	if errObj, ok := obj.(*evaluator.Error); ok {
		return Result{}, evaluator.ToDiagnostic(errObj)
	}
	_, void := obj.(*evaluator.Void)
	return Result{Value: obj.Inspect(), Void: void}, nil
}
