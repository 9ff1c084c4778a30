package analyzer

import (
	"github.com/funvibe/iclc/internal/ast"
	"github.com/funvibe/iclc/internal/pipeline"
)

type SemanticAnalyzerProcessor struct{}

func (sap *SemanticAnalyzerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot == nil || ctx.HasErrors() {
		return ctx
	}
	program, ok := ctx.AstRoot.(*ast.Program)
	if !ok {
		return ctx
	}
	if program.File == "" {
		program.File = ctx.FilePath
	}

	analyzer := New()
	errors := analyzer.Analyze(program)
	ctx.TypeMap = analyzer.TypeMap() // Export inferred types to context

	for _, err := range errors {
		ctx.AddError(err)
	}
	return ctx
}
