package prettyprinter

import (
	"testing"

	"github.com/funvibe/iclc/internal/ast"
	"github.com/funvibe/iclc/internal/lexer"
	"github.com/funvibe/iclc/internal/parser"
	"github.com/funvibe/iclc/internal/pipeline"
)

func parse(t *testing.T, input string) *ast.Program {
	t.Helper()
	ctx := pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).Run(pipeline.NewPipelineContext(input))
	if ctx.HasErrors() {
		t.Fatalf("parse errors for %q: %v", input, ctx.Errors)
	}
	return ctx.AstRoot.(*ast.Program)
}

func TestPrint(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`1+2*3`, "1 + 2 * 3\n"},
		{`(1+2)*3`, "(1 + 2) * 3\n"},
		{`1-(2-3)`, "1 - (2 - 3)\n"},
		{`(1-2)-3`, "1 - 2 - 3\n"},
		{`-(1+2)`, "-(1 + 2)\n"},
		{`~(a && b) || c`, "~(a && b) || c\n"},
		{`let mut x = 1; x := 2`, "let mut x = 1;\nx := 2\n"},
		{`let r: ref number = new 1; !r`, "let r: ref number = new 1;\n!r\n"},
		{`type P = {x: number, f: fn(number, bool) -> string}; 1`,
			"type P = {x: number, f: fn(number, bool) -> string};\n1\n"},
		{`"a\"b\n"`, "\"a\\\"b\\n\"\n"},
		{`print(1); println("x")`, "print(1);\nprintln(\"x\")\n"},
		{`max(1, 2, 3)`, "max(1, 2, 3)\n"},
		{`{a: 1, b: true}.a`, "{a: 1, b: true}.a\n"},
		{`let f = fn(a: number) -> number { a }; f(1)`,
			"let f = fn(a: number) -> number { a };\nf(1)\n"},
		{`if a { 1 } else if b { 2 } else { 3 }`, "if a { 1 } else if b { 2 } else { 3 }\n"},
		{`while x < 3 { x := x + 1 }`, "while x < 3 {\n    x := x + 1\n}\n"},
		{`{ let y = 1; y }`, "{\n    let y = 1;\n    y\n}\n"},
		{`let z = 1;`, "let z = 1;\n"},
		{`{}`, "{}\n"},
		{`(fn() { 1 })()`, "(fn() { 1 })()\n"},
		{`(new 1).x`, "(new 1).x\n"},
		{`1.50`, "1.50\n"},
	}

	for _, tt := range tests {
		got := Print(parse(t, tt.input))
		if got != tt.expected {
			t.Errorf("Print(%q):\ngot\n%q\nwant\n%q", tt.input, got, tt.expected)
		}
	}
}

// Printing must produce code that parses back to the same printed form.
func TestRoundTrip(t *testing.T) {
	programs := []string{
		`let mut n = 0; let inc = fn() { n := n + 1 }; inc(); inc(); n`,
		`type Point = {x: number, y: number}; let p: Point = {x: 1, y: 2}; p.x * p.y`,
		`let r = new {a: "s"}; r := {a: "t"}; (!r).a`,
		`let nest = fn(a: number) { fn(b: number) { fn(c: number) { a + b + c } } }; nest(1)(2)(3)`,
		`if 1 < 2 && "a" < "b" { print("yes") } else { while false { 0; }; print("no") }`,
		`let c = { let a = 1; { let b = a; b + 1 } }; c`,
		`let s = sin(pi()) + abs(-1) + pow(2, 3) - min(1, 2, 3); s`,
		`let x = 1; let y = x == 1; ~y || y && ~~y`,
	}
	for _, input := range programs {
		first := Print(parse(t, input))
		second := Print(parse(t, first))
		if first != second {
			t.Errorf("printer instability for %q:\nPass 1:\n%s\nPass 2:\n%s", input, first, second)
		}
	}
}
