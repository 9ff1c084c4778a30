package backend

import (
	"bytes"
	"strings"
	"testing"

	"github.com/funvibe/iclc/internal/analyzer"
	"github.com/funvibe/iclc/internal/codegen"
	"github.com/funvibe/iclc/internal/diagnostics"
	"github.com/funvibe/iclc/internal/lexer"
	"github.com/funvibe/iclc/internal/parser"
	"github.com/funvibe/iclc/internal/pipeline"
)

func checked(t *testing.T, input string) *pipeline.PipelineContext {
	t.Helper()
	ctx := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&analyzer.SemanticAnalyzerProcessor{},
	).Run(pipeline.NewPipelineContext(input))
	if ctx.HasErrors() {
		t.Fatalf("unexpected errors for %q: %v", input, ctx.Errors[0])
	}
	return ctx
}

func execute(t *testing.T, name, input string) (*ExecutionProcessor, *pipeline.PipelineContext, string) {
	t.Helper()
	var out bytes.Buffer
	b, err := ByName(name, Options{Out: &out, Random: func() float64 { return 0.5 }})
	if err != nil {
		t.Fatal(err)
	}
	proc := NewExecutionProcessor(b)
	ctx := proc.Process(checked(t, input))
	return proc, ctx, out.String()
}

func TestBackendParity(t *testing.T) {
	programs := []string{
		`1 + 2`,
		`"a" + "b"`,
		`1 < 2 && "b" > "a"`,
		`let mut x = 0; while x < 5 { x := x + 1 }; x`,
		`let r = new 1; r := 2; !r`,
		`new "s"`,
		`{a: 1, b: "x"}`,
		`let f = fn(n: number) { n * 2 }; f(21)`,
		`fn(a: number, b: bool) { a }`,
		`print("hi"); print(1); print(true)`,
		`max(1, 5, 3) + min(2, 0) + pow(2, 3)`,
		`rand()`,
		`let mut n = 0; let inc = fn() { n := n + 1 }; inc(); inc(); n`,
		`if 1 > 2 { "no" } else if 2 > 1 { "yes" } else { "?" }`,
		`type P = {x: number}; let p: P = {x: 3}; p.x`,
	}
	for _, input := range programs {
		tree, _, treeOut := execute(t, "tree", input)
		machine, ctx, vmOut := execute(t, "vm", input)
		if ctx.HasErrors() {
			t.Fatalf("vm %q: %v", input, ctx.Errors[0])
		}
		if tree.Result != machine.Result {
			t.Errorf("%q: tree %+v, vm %+v", input, tree.Result, machine.Result)
		}
		if treeOut != vmOut {
			t.Errorf("%q: tree printed %q, vm printed %q", input, treeOut, vmOut)
		}
		if len(ctx.Classes) == 0 {
			t.Errorf("%q: vm backend did not keep the compiled classes", input)
		}
	}
}

func TestVoidResult(t *testing.T) {
	for _, name := range []string{"tree", "vm"} {
		proc, _, out := execute(t, name, `print(7)`)
		if !proc.Result.Void || proc.Result.Value != "" {
			t.Errorf("%s: expected void result, got %+v", name, proc.Result)
		}
		if out != "7" {
			t.Errorf("%s: output %q", name, out)
		}
	}
}

func TestRuntimeErrors(t *testing.T) {
	input := `let mut f = fn(n: number) { n }; f := fn(n: number) { f(n) }; f(1)`
	for _, name := range []string{"tree", "vm"} {
		ctx := checked(t, input)
		ctx.MaxCallDepth = 20
		b, err := ByName(name, Options{Out: &bytes.Buffer{}})
		if err != nil {
			t.Fatal(err)
		}
		NewExecutionProcessor(b).Process(ctx)
		if len(ctx.Errors) != 1 {
			t.Fatalf("%s: expected 1 error, got %v", name, ctx.Errors)
		}
		if ctx.Errors[0].Code != diagnostics.ErrR001 {
			t.Errorf("%s: expected R001, got %s", name, ctx.Errors[0].Code)
		}
	}
}

func TestPrecompiledClasses(t *testing.T) {
	ctx := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&analyzer.SemanticAnalyzerProcessor{},
		&codegen.CodeGenProcessor{},
	).Run(pipeline.NewPipelineContext(`let a = 4; a * a`))
	classes := ctx.Classes

	// Only the classes are needed, as when running a stored build.
	loaded := &pipeline.PipelineContext{Classes: classes}
	res, err := NewVM(Options{Out: &bytes.Buffer{}}).Run(loaded)
	if err != nil {
		t.Fatal(err)
	}
	if res.Value != "16" {
		t.Errorf("expected 16, got %q", res.Value)
	}
}

func TestSkipsAfterErrors(t *testing.T) {
	ctx := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&analyzer.SemanticAnalyzerProcessor{},
	).Run(pipeline.NewPipelineContext(`1 + true`))
	before := len(ctx.Errors)
	proc := NewExecutionProcessor(NewTreeWalk(Options{}))
	proc.Process(ctx)
	if len(ctx.Errors) != before {
		t.Errorf("execution added errors after analysis failed: %v", ctx.Errors)
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"tree", "vm"} {
		b, err := ByName(name, Options{})
		if err != nil || b.Name() != name {
			t.Errorf("ByName(%q) = %v, %v", name, b, err)
		}
	}
	if _, err := ByName("jit", Options{}); err == nil || !strings.Contains(err.Error(), "jit") {
		t.Errorf("expected unknown backend error, got %v", err)
	}
}
