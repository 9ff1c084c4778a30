package codegen

import (
	"errors"

	"github.com/funvibe/iclc/internal/ast"
	"github.com/funvibe/iclc/internal/diagnostics"
	"github.com/funvibe/iclc/internal/pipeline"
	"github.com/funvibe/iclc/internal/token"
)

// CodeGenProcessor compiles a checked program into ctx.Classes.
type CodeGenProcessor struct{}

func (cp *CodeGenProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot == nil || ctx.HasErrors() {
		return ctx
	}
	program, ok := ctx.AstRoot.(*ast.Program)
	if !ok {
		return ctx
	}

	classes, err := Compile(program, ctx.TypeMap)
	if err != nil {
		ctx.AddError(ToDiagnostic(err))
		return ctx
	}
	ctx.Classes = classes
	return ctx
}

// ToDiagnostic reports a backend failure as a B001 diagnostic at the
// offending node, when one is known.
func ToDiagnostic(err error) *diagnostics.DiagnosticError {
	var tok token.Token
	var cgErr *Error
	if errors.As(err, &cgErr) {
		tok.Line, tok.Column = cgErr.Span.StartLine, cgErr.Span.StartColumn
	}
	return diagnostics.NewError(diagnostics.ErrB001, tok, err.Error())
}
