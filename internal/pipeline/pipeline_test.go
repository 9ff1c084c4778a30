package pipeline

import (
	"testing"
	"time"

	"github.com/funvibe/iclc/internal/diagnostics"
	"github.com/funvibe/iclc/internal/token"
)

func TestRunOrderAndTrace(t *testing.T) {
	var order []string
	stage := func(name string, fail bool) Processor {
		return ProcessorFunc(func(ctx *PipelineContext) *PipelineContext {
			order = append(order, name)
			if fail {
				ctx.AddError(diagnostics.NewError(diagnostics.ErrP001, token.Token{}, name))
			}
			return ctx
		})
	}

	var added []int
	p := New(stage("a", false), stage("b", true), stage("c", false))
	p.Trace = func(_ Processor, _ time.Duration, n int) { added = append(added, n) }

	ctx := NewPipelineContext("src")
	ctx.FilePath = "f.icl"
	ctx = p.Run(ctx)

	if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Fatalf("stages ran as %v", order)
	}
	if len(added) != 3 || added[0] != 0 || added[1] != 1 || added[2] != 0 {
		t.Errorf("trace counts %v", added)
	}
	if !ctx.HasErrors() || ctx.Errors[0].File != "f.icl" {
		t.Errorf("errors %v lack the file path", ctx.Errors)
	}
}
