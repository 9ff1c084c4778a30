package pipeline

import "time"

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor

	// Trace, when set, is called after every stage with the diagnostics the
	// stage added.
	Trace func(stage Processor, elapsed time.Duration, added int)
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes every stage in order. Later stages check ctx.Errors
// themselves, so lexer and parser diagnostics are all collected before
// anything stops.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		before := len(ctx.Errors)
		start := time.Now()
		ctx = processor.Process(ctx)
		if p.Trace != nil {
			p.Trace(processor, time.Since(start), len(ctx.Errors)-before)
		}
	}
	return ctx
}
