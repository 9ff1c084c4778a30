package pipeline

import (
	"github.com/funvibe/iclc/internal/ast"
	"github.com/funvibe/iclc/internal/bytecode"
	"github.com/funvibe/iclc/internal/diagnostics"
	"github.com/funvibe/iclc/internal/token"
	"github.com/funvibe/iclc/internal/typesystem"
)

// Processor is one stage of the pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx *PipelineContext) *PipelineContext

func (f ProcessorFunc) Process(ctx *PipelineContext) *PipelineContext { return f(ctx) }

// PipelineContext carries one source file through every stage.
type PipelineContext struct {
	SourceCode  string
	FilePath    string
	TokenStream *token.Stream
	AstRoot     ast.Node

	// TypeMap holds the resolved, alias-free type of every expression node.
	TypeMap map[ast.Node]typesystem.Type

	// Classes is the artifact set produced by the code generator.
	Classes []*bytecode.Class

	// MaxCallDepth bounds recursion in the executors; 0 means the default.
	MaxCallDepth int

	Errors []*diagnostics.DiagnosticError
}

func NewPipelineContext(input string) *PipelineContext {
	return &PipelineContext{
		SourceCode: input,
		TypeMap:    make(map[ast.Node]typesystem.Type),
		Errors:     []*diagnostics.DiagnosticError{},
	}
}

// HasErrors reports whether any stage reported a diagnostic.
func (ctx *PipelineContext) HasErrors() bool {
	return len(ctx.Errors) > 0
}

// AddError records err, stamping the file path if the stage left it empty.
func (ctx *PipelineContext) AddError(err *diagnostics.DiagnosticError) {
	if err.File == "" {
		err.File = ctx.FilePath
	}
	ctx.Errors = append(ctx.Errors, err)
}
