package backend

import (
	"errors"

	"github.com/funvibe/iclc/internal/diagnostics"
	"github.com/funvibe/iclc/internal/pipeline"
	"github.com/funvibe/iclc/internal/token"
)

// ExecutionProcessor runs a Backend as the last pipeline stage. Result
// holds the program value after a successful run.
type ExecutionProcessor struct {
	Backend Backend
	Result  Result
}

// NewExecutionProcessor creates a new pipeline step for the given backend
func NewExecutionProcessor(b Backend) *ExecutionProcessor {
	return &ExecutionProcessor{Backend: b}
}

func (p *ExecutionProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	// If previous steps failed, don't run execution
	if ctx.AstRoot == nil || len(ctx.Errors) > 0 {
		return ctx
	}

	result, err := p.Backend.Run(ctx)
	if err != nil {
		p.handleError(ctx, err)
		return ctx
	}
	p.Result = result
	return ctx
}

func (p *ExecutionProcessor) handleError(ctx *pipeline.PipelineContext, err error) {
	var diag *diagnostics.DiagnosticError
	if errors.As(err, &diag) {
		ctx.AddError(diag)
		return
	}
	ctx.AddError(diagnostics.NewError(diagnostics.ErrR001, token.Token{}, err.Error()))
}
