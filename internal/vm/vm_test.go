package vm

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/funvibe/iclc/internal/analyzer"
	"github.com/funvibe/iclc/internal/bytecode"
	"github.com/funvibe/iclc/internal/codegen"
	"github.com/funvibe/iclc/internal/lexer"
	"github.com/funvibe/iclc/internal/parser"
	"github.com/funvibe/iclc/internal/pipeline"
)

func compile(t *testing.T, input string) []*bytecode.Class {
	t.Helper()
	ctx := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&analyzer.SemanticAnalyzerProcessor{},
		&codegen.CodeGenProcessor{},
	).Run(pipeline.NewPipelineContext(input))
	if ctx.HasErrors() {
		t.Fatalf("unexpected errors for %q: %v", input, ctx.Errors[0])
	}
	return ctx.Classes
}

func newVM(t *testing.T, classes []*bytecode.Class) (*VM, *bytes.Buffer) {
	t.Helper()
	machine, err := New(classes)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	var out bytes.Buffer
	machine.SetOutput(&out)
	machine.Random = func() float64 { return 0.25 }
	return machine, &out
}

// runVM compiles and runs input, returning the program value and output.
func runVM(t *testing.T, input string) (string, string) {
	t.Helper()
	machine, out := newVM(t, compile(t, input))
	res, err := machine.Run()
	if err != nil {
		t.Fatalf("run %q: %v", input, err)
	}
	return res.Inspect(), out.String()
}

// entry builds a class set whose Main.run is code.
func entry(ret string, code ...bytecode.Instr) []*bytecode.Class {
	return []*bytecode.Class{{
		Name:  "Main",
		Kind:  bytecode.KindEntry,
		Super: "java/lang/Object",
		Methods: []*bytecode.Method{{
			Name:       "run",
			Descriptor: "()" + ret,
			Static:     true,
			MaxStack:   8,
			MaxLocals:  2,
			Code:       code,
		}},
	}}
}

func TestVMValues(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`1 + 2 * 3`, "7"},
		{`10 / 4`, "2.5"},
		{`1 / 3`, "0.3333333333"},
		{`-(2 - 5)`, "3"},
		{`"ab" + "cd"`, "abcd"},
		{`"a" < "b"`, "true"},
		{`true && false`, "false"},
		{`~true`, "false"},
		{`0 / 0 == 0 / 0`, "false"},
		{`0 / 0 ~= 0 / 0`, "true"},
		{`let x = 5; x`, "5"},
		{`let mut x = 1; x := x + 1; x`, "2"},
		{`let r = new 1; r := 7; !r`, "7"},
		{`new "a"`, `ref "a"`},
		{`{b: "x", a: 1}`, `{a: 1, b: "x"}`},
		{`{a: true}.a`, "true"},
		{`if 1 < 2 { "yes" } else { "no" }`, "yes"},
		{`if false { 1 } else if true { 2 } else { 3 }`, "2"},
		{`let mut i = 0; while i < 5 { i := i + 1 }; i`, "5"},
		{`let add = fn(a: number, b: number) { a + b }; add(2, 3)`, "5"},
		{`fn(a: number, b: bool) { a }`, "fn/2"},
		{`max(1, 5, 3)`, "5"},
		{`min(4, 2, 8)`, "2"},
		{`pow(2, 10)`, "1024"},
		{`sqrt(16) + abs(-1)`, "5"},
		{`rand()`, "0.25"},
		{`pi() > 3.14 && pi() < 3.15`, "true"},
		{`{ let x = 1; { let y = 2; { x + y } } }`, "3"},
	}
	for _, tt := range tests {
		got, _ := runVM(t, tt.input)
		if got != tt.expected {
			t.Errorf("%s: expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestVMPrint(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`print(1.5)`, "1.5"},
		{`println("hi"); print(true)`, "hi\ntrue"},
		{`println(1 == 2)`, "false\n"},
		{`print({})`, ""},
		{`let mut i = 0; while i < 3 { print(i); i := i + 1 }`, "012"},
	}
	for _, tt := range tests {
		_, out := runVM(t, tt.input)
		if out != tt.expected {
			t.Errorf("%s: expected output %q, got %q", tt.input, tt.expected, out)
		}
	}
}

func TestVMClosuresCaptureFrames(t *testing.T) {
	got, out := runVM(t, `
let counter = fn() {
  let mut n = 0;
  fn() { n := n + 1; n }
};
let c = counter();
c(); c();
print(c());
let d = counter();
d()
`)
	if out != "3" || got != "1" {
		t.Errorf("expected output 3 and value 1, got %q and %q", out, got)
	}
}

func TestVMMain(t *testing.T) {
	machine, out := newVM(t, compile(t, `println("main"); 42`))
	if err := machine.Main(); err != nil {
		t.Fatalf("main: %v", err)
	}
	if out.String() != "main\n" {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestCategory2Stack(t *testing.T) {
	tests := []struct {
		name     string
		classes  []*bytecode.Class
		expected string
	}{
		{
			"dup2 of a double copies one entry",
			entry("D",
				bytecode.Double(1.5),
				bytecode.Simple(bytecode.DUP2),
				bytecode.Simple(bytecode.DADD),
				bytecode.Simple(bytecode.DRETURN)),
			"3",
		},
		{
			"pop2 of two ints removes both",
			entry("D",
				bytecode.Double(2),
				bytecode.Simple(bytecode.ICONST_1),
				bytecode.Simple(bytecode.ICONST_0),
				bytecode.Simple(bytecode.POP2),
				bytecode.Simple(bytecode.DRETURN)),
			"2",
		},
		{
			"pop2 of a double removes one entry",
			entry("I",
				bytecode.Simple(bytecode.ICONST_1),
				bytecode.Double(2),
				bytecode.Simple(bytecode.POP2),
				bytecode.Simple(bytecode.IRETURN)),
			"true",
		},
		{
			"dup2 of two ints copies both",
			entry("I",
				bytecode.Simple(bytecode.ICONST_1),
				bytecode.Simple(bytecode.ICONST_0),
				bytecode.Simple(bytecode.DUP2),
				bytecode.Simple(bytecode.IAND),
				bytecode.Simple(bytecode.IOR),
				bytecode.Simple(bytecode.IOR),
				bytecode.Simple(bytecode.IRETURN)),
			"true",
		},
	}
	for _, tt := range tests {
		machine, _ := newVM(t, tt.classes)
		res, err := machine.Run()
		if err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		if res.Inspect() != tt.expected {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.expected, res.Inspect())
		}
	}
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		name    string
		classes []*bytecode.Class
		want    error
	}{
		{
			"underflow",
			entry("V", bytecode.Simple(bytecode.POP), bytecode.Simple(bytecode.RETURN)),
			errStackUnderflow,
		},
		{
			"null field read",
			entry("D",
				bytecode.Simple(bytecode.ACONST_NULL),
				bytecode.Member(bytecode.GETFIELD, "record_0", "a", "D"),
				bytecode.Simple(bytecode.DRETURN)),
			errNullReference,
		},
		{
			"unknown class",
			entry("V", bytecode.TypeInstr(bytecode.NEW, "frame_9"), bytecode.Simple(bytecode.RETURN)),
			errUnknownClass,
		},
		{
			"unknown static method",
			entry("V", bytecode.Member(bytecode.INVOKESTATIC, "Main", "missing", "()V"), bytecode.Simple(bytecode.RETURN)),
			errUnknownMethod,
		},
		{
			"pop of a double",
			entry("V", bytecode.Double(1), bytecode.Simple(bytecode.POP), bytecode.Simple(bytecode.RETURN)),
			errBadOperand,
		},
	}
	for _, tt := range tests {
		machine, _ := newVM(t, tt.classes)
		_, err := machine.Run()
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, err)
		}
		var re *RuntimeError
		if !errors.As(err, &re) {
			t.Errorf("%s: expected a *RuntimeError, got %T", tt.name, err)
		}
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		classes []*bytecode.Class
	}{
		{"undefined label", entry("V", bytecode.Jump(bytecode.GOTO, "L9"), bytecode.Simple(bytecode.RETURN))},
		{"duplicate class", append(entry("V", bytecode.Simple(bytecode.RETURN)), entry("V")...)},
		{"no entry", []*bytecode.Class{{Name: "record_0", Kind: bytecode.KindRecord}}},
	}
	for _, tt := range tests {
		if _, err := New(tt.classes); !errors.Is(err, ErrLoad) {
			t.Errorf("%s: expected a load error, got %v", tt.name, err)
		}
	}
}

func TestCallDepthLimit(t *testing.T) {
	machine, _ := newVM(t, compile(t, `
let loop = new fn(n: number) -> number { 0 };
loop := fn(n: number) -> number { (!loop)(n + 1) };
(!loop)(0)
`))
	machine.MaxCallDepth = 50
	_, err := machine.Run()
	if !errors.Is(err, ErrCallDepth) {
		t.Fatalf("expected call depth error, got %v", err)
	}
	if !strings.Contains(err.Error(), "call") {
		t.Errorf("error should name the method: %v", err)
	}
}

func TestCancellation(t *testing.T) {
	machine, _ := newVM(t, compile(t, `while true { }`))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	machine.SetContext(ctx)
	if _, err := machine.Run(); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}
