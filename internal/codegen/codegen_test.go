package codegen

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/funvibe/iclc/internal/analyzer"
	"github.com/funvibe/iclc/internal/ast"
	"github.com/funvibe/iclc/internal/bytecode"
	"github.com/funvibe/iclc/internal/lexer"
	"github.com/funvibe/iclc/internal/parser"
	"github.com/funvibe/iclc/internal/pipeline"
	"github.com/funvibe/iclc/internal/typesystem"
	"github.com/funvibe/iclc/internal/vm"
)

func typecheck(t *testing.T, input string) (*ast.Program, map[ast.Node]typesystem.Type) {
	t.Helper()
	ctx := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&analyzer.SemanticAnalyzerProcessor{},
	).Run(pipeline.NewPipelineContext(input))
	if ctx.HasErrors() {
		t.Fatalf("unexpected errors for %q: %v", input, ctx.Errors[0])
	}
	return ctx.AstRoot.(*ast.Program), ctx.TypeMap
}

func compile(t *testing.T, input string) []*bytecode.Class {
	t.Helper()
	program, types := typecheck(t, input)
	classes, err := Compile(program, types)
	if err != nil {
		t.Fatalf("compile %q: %v", input, err)
	}
	return classes
}

func runVM(t *testing.T, input string) (string, string) {
	t.Helper()
	machine, err := vm.New(compile(t, input))
	if err != nil {
		t.Fatalf("load %q: %v", input, err)
	}
	var out bytes.Buffer
	machine.SetOutput(&out)
	res, err := machine.Run()
	if err != nil {
		t.Fatalf("run %q: %v", input, err)
	}
	return res.Inspect(), out.String()
}

func assembly(classes []*bytecode.Class) string {
	var sb strings.Builder
	for _, c := range classes {
		sb.WriteString(bytecode.Disassemble(c))
	}
	return sb.String()
}

func classesOfKind(classes []*bytecode.Class, kind bytecode.Kind) []*bytecode.Class {
	var out []*bytecode.Class
	for _, c := range classes {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

func method(t *testing.T, c *bytecode.Class, name string) *bytecode.Method {
	t.Helper()
	for _, m := range c.Methods {
		if m.Name == name {
			return m
		}
	}
	t.Fatalf("%s has no method %s", c.Name, name)
	return nil
}

const sampleProgram = `
type Point = {x: number, y: number};
let mut total = 0;
let add = fn(p: Point) -> number { p.x + p.y };
let cell = new {x: 1, y: 2};
cell := {y: 4, x: 3};
let i = new 0;
while !i < 3 { total := total + add(!cell); i := !i + 1 };
if total > 10 { println("big") } else { println("small") };
total
`

func TestDeterministicOutput(t *testing.T) {
	first := assembly(compile(t, sampleProgram))
	for i := 0; i < 5; i++ {
		if got := assembly(compile(t, sampleProgram)); got != first {
			t.Fatalf("compilation %d differs:\n%s\n---\n%s", i, first, got)
		}
	}

	program, types := typecheck(t, sampleProgram)
	a, err := Compile(program, types)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Compile(program, types)
	if err != nil {
		t.Fatal(err)
	}
	if assembly(a) != assembly(b) {
		t.Error("compiling one tree twice gave different output")
	}
}

func TestOutputOrder(t *testing.T) {
	classes := compile(t, sampleProgram)
	if classes[0].Name != "Main" {
		t.Fatalf("first class is %s", classes[0].Name)
	}
	rank := map[bytecode.Kind]int{
		bytecode.KindEntry:     0,
		bytecode.KindFrame:     1,
		bytecode.KindInterface: 2,
		bytecode.KindRecord:    3,
		bytecode.KindReference: 4,
		bytecode.KindClosure:   5,
	}
	for i := 1; i < len(classes); i++ {
		if rank[classes[i-1].Kind] > rank[classes[i].Kind] {
			t.Errorf("%s (%s) comes before %s (%s)", classes[i-1].Name, classes[i-1].Kind, classes[i].Name, classes[i].Kind)
		}
	}
	got, out := runVM(t, sampleProgram)
	if got != "21" || out != "big\n" {
		t.Errorf("expected 21 and big, got %q and %q", got, out)
	}
}

func TestInterningDeduplicates(t *testing.T) {
	tests := []struct {
		input    string
		kind     bytecode.Kind
		expected int
	}{
		{`let a = {a: 1, b: true}; let b = {b: false, a: 2}; a.a + b.a`, bytecode.KindRecord, 1},
		{`let a = {a: 1}; let b = {a: "x"}; a.a`, bytecode.KindRecord, 2},
		{`let f = fn(x: number) { x }; let g = fn(y: number) { y * 2 }; f(1) + g(2)`, bytecode.KindInterface, 1},
		{`let f = fn(x: number) { x }; let g = fn(y: number) { y * 2 }; f(1) + g(2)`, bytecode.KindClosure, 2},
		{`let a = new 1; let b = new 2; let c = new "s"; !a + !b`, bytecode.KindReference, 2},
		{`let a = {p: new 1}; let b = {p: new 5}; !(a.p) + !(b.p)`, bytecode.KindReference, 1},
	}
	for _, tt := range tests {
		classes := compile(t, tt.input)
		if got := len(classesOfKind(classes, tt.kind)); got != tt.expected {
			t.Errorf("%s: expected %d %s classes, got %d", tt.input, tt.expected, tt.kind, got)
		}
		if err := Validate(classes); err != nil {
			t.Errorf("%s: %v", tt.input, err)
		}
	}
}

func TestContextInterning(t *testing.T) {
	ctx := NewContext()
	r1 := typesystem.Record{Fields: map[string]typesystem.Type{"a": typesystem.NumberType, "b": typesystem.BooleanType}}
	r2 := typesystem.Record{Fields: map[string]typesystem.Type{"b": typesystem.BooleanType, "a": typesystem.NumberType}}
	if ctx.Intern(r1) != ctx.Intern(r2) {
		t.Error("structurally equal records interned twice")
	}
	fn := typesystem.Function{Args: []typesystem.Type{r1, typesystem.StringType}, Ret: typesystem.VoidType}
	iface := ctx.InternFunction(fn)
	if iface.CallDescriptor != "(Lrecord_0;Ljava/lang/String;)V" {
		t.Errorf("unexpected call descriptor %s", iface.CallDescriptor)
	}
	ref := typesystem.Reference{Target: typesystem.VoidType}
	if got := ctx.InternReference(ref).ValueDescriptor; got != "Ljava/lang/Object;" {
		t.Errorf("void cell holds %s", got)
	}
	if len(ctx.Records()) != 1 || len(ctx.Functions()) != 1 || len(ctx.References()) != 1 {
		t.Errorf("unexpected artifact counts %d %d %d", len(ctx.Records()), len(ctx.Functions()), len(ctx.References()))
	}
}

func TestGeneratedNamesSortNumerically(t *testing.T) {
	ctx := NewContext()
	for i := 0; i < 12; i++ {
		ctx.InternRecord(typesystem.Record{Fields: map[string]typesystem.Type{"f" + strconv.Itoa(i): typesystem.NumberType}})
	}
	records := ctx.Records()
	for i, r := range records {
		if r.Name != fmt.Sprintf("record_%d", i) {
			t.Fatalf("position %d holds %s", i, r.Name)
		}
	}
}

// TestFrameChainDepth reads a root binding from d nested scopes and checks
// the emitted parent walk.
func TestFrameChainDepth(t *testing.T) {
	for d := 0; d <= 3; d++ {
		input := "let x = 7; " + strings.Repeat("{ ", d) + "x" + strings.Repeat(" }", d)
		program, types := typecheck(t, input)

		ctx := NewContext()
		env, err := BuildEnvironment(ctx, program, types)
		if err != nil {
			t.Fatal(err)
		}
		var use *ast.Identifier
		for node := range env.Lookups {
			if id, ok := node.(*ast.Identifier); ok {
				use = id
			}
		}
		if use == nil {
			t.Fatalf("depth %d: no identifier lookup recorded", d)
		}
		if got := env.LookupOf(use).Depth; got != d {
			t.Errorf("depth %d: lookup depth %d", d, got)
		}

		classes := compile(t, input)
		run := method(t, classes[0], "run")
		walk := -1
		for i, in := range run.Code {
			if in.Op != bytecode.GETFIELD || in.Name == "parent" {
				continue
			}
			walk = 0
			for j := i - 1; j >= 0 && run.Code[j].Op == bytecode.GETFIELD && run.Code[j].Name == "parent"; j-- {
				walk++
			}
			if walk > 0 && run.Code[i-walk-1].Op != bytecode.ALOAD {
				t.Errorf("depth %d: parent walk does not start from the active frame", d)
			}
		}
		if walk != d {
			t.Errorf("depth %d: emitted %d parent loads", d, walk)
		}

		if got, _ := runVM(t, input); got != "7" {
			t.Errorf("depth %d: expected 7, got %s", d, got)
		}
	}
}

func TestClosureCaptureAcrossCalls(t *testing.T) {
	got, out := runVM(t, `
let make = fn(start: number) {
  let mut n = start;
  fn(step: number) { n := n + step; n }
};
let a = make(10);
let b = make(100);
print(a(1)); print(" "); print(a(1)); print(" "); print(b(5));
a(0) + b(0)
`)
	if out != "11 12 105" {
		t.Errorf("unexpected output %q", out)
	}
	if got != "117" {
		t.Errorf("expected 117, got %s", got)
	}
}

func numberLiteral(v float64) string {
	if v < 0 {
		return "(-" + strconv.FormatFloat(-v, 'f', -1, 64) + ")"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func compareNumbers(op ast.Operator, a, b float64) bool {
	switch op {
	case ast.OpEq:
		return a == b
	case ast.OpNe:
		return a != b
	case ast.OpLt:
		return a < b
	case ast.OpLte:
		return a <= b
	case ast.OpGt:
		return a > b
	}
	return a >= b
}

func compareStrings(op ast.Operator, a, b string) bool {
	c := strings.Compare(a, b)
	switch op {
	case ast.OpEq:
		return c == 0
	case ast.OpNe:
		return c != 0
	case ast.OpLt:
		return c < 0
	case ast.OpLte:
		return c <= 0
	case ast.OpGt:
		return c > 0
	}
	return c >= 0
}

// TestBooleanSynthesis prints every comparison and logical operator over
// every operand type and checks the pushed 0/1 against Go's answer.
func TestBooleanSynthesis(t *testing.T) {
	comparisons := []ast.Operator{ast.OpEq, ast.OpNe, ast.OpLt, ast.OpLte, ast.OpGt, ast.OpGte}

	var src strings.Builder
	var want strings.Builder
	emit := func(expr string, v bool) {
		fmt.Fprintf(&src, "println(%s);\n", expr)
		fmt.Fprintf(&want, "%t\n", v)
	}

	numbers := [][2]float64{
		{1, 2}, {2, 1}, {2, 2}, {-0.5, -0.5},
		{-math.MaxFloat64, math.MaxFloat64}, {math.MaxFloat64, -math.MaxFloat64},
		{math.MaxFloat64, math.MaxFloat64}, {-math.MaxFloat64, -math.MaxFloat64},
	}
	for _, op := range comparisons {
		for _, p := range numbers {
			emit(numberLiteral(p[0])+" "+string(op)+" "+numberLiteral(p[1]), compareNumbers(op, p[0], p[1]))
		}
	}

	strs := [][2]string{{"", ""}, {"", "a"}, {"a", ""}, {"a", "b"}, {"b", "a"}, {"ab", "ab"}}
	for _, op := range comparisons {
		for _, p := range strs {
			emit(strconv.Quote(p[0])+" "+string(op)+" "+strconv.Quote(p[1]), compareStrings(op, p[0], p[1]))
		}
	}

	for _, a := range []bool{false, true} {
		for _, b := range []bool{false, true} {
			l, r := strconv.FormatBool(a), strconv.FormatBool(b)
			emit(l+" == "+r, a == b)
			emit(l+" ~= "+r, a != b)
			emit(l+" && "+r, a && b)
			emit(l+" || "+r, a || b)
		}
		emit("~"+strconv.FormatBool(a), !a)
	}

	_, out := runVM(t, src.String())
	gotLines := strings.Split(out, "\n")
	wantLines := strings.Split(want.String(), "\n")
	srcLines := strings.Split(src.String(), "\n")
	if len(gotLines) != len(wantLines) {
		t.Fatalf("expected %d lines of output, got %d", len(wantLines), len(gotLines))
	}
	for i := range wantLines {
		if gotLines[i] != wantLines[i] {
			t.Errorf("%s: expected %s, got %s", srcLines[i], wantLines[i], gotLines[i])
		}
	}
}

func TestScenarios(t *testing.T) {
	t.Run("A: one frame, one field", func(t *testing.T) {
		input := `{ let x = 2; x + 3 }`
		classes := compile(t, input)
		var withX int
		for _, c := range classesOfKind(classes, bytecode.KindFrame) {
			if len(c.Fields) == 2 {
				withX++
				if c.Fields[1].Descriptor != "D" {
					t.Errorf("x has descriptor %s", c.Fields[1].Descriptor)
				}
			}
		}
		if withX != 1 {
			t.Errorf("expected one frame holding x, got %d", withX)
		}
		if got, _ := runVM(t, input); got != "5" {
			t.Errorf("expected 5, got %s", got)
		}
	})

	t.Run("B: sequential writes then read", func(t *testing.T) {
		if got, _ := runVM(t, `{ let mut x = 0; x := x + 1; x := x + 1; x }`); got != "2" {
			t.Errorf("expected 2, got %s", got)
		}
	})

	t.Run("C: capture is live, not a snapshot", func(t *testing.T) {
		got, _ := runVM(t, `
let mut captured = 1;
let f = fn(n: number) { n + captured };
let a = f(10);
captured := 5;
let b = f(10);
a * 100 + b
`)
		if got != "1115" {
			t.Errorf("expected 1115, got %s", got)
		}
	})

	t.Run("D: reordered records share one artifact", func(t *testing.T) {
		input := `let r = {a: 1, b: true}; let s = {b: false, a: 2}; print(r.b); r.a + s.a`
		classes := compile(t, input)
		records := classesOfKind(classes, bytecode.KindRecord)
		if len(records) != 1 {
			t.Fatalf("expected one record class, got %d", len(records))
		}
		fields := records[0].Fields
		if len(fields) != 2 || fields[0].Name != "a" || fields[1].Name != "b" {
			t.Errorf("unexpected record fields %v", fields)
		}
		got, out := runVM(t, input)
		if got != "3" || out != "true" {
			t.Errorf("expected 3 and true, got %q and %q", got, out)
		}
	})
}

func TestVoidValues(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		output   string
	}{
		{`let v = {}; let r = new v; !r; print(!r); 1`, "1", ""},
		{`let f = fn(u: void) { u }; f({}); print(f(print("x"))); 2`, "2", "x"},
		{`let rec = {a: {}, b: 3}; rec.a; rec.b`, "3", ""},
		{`if false { print(1) }; 4`, "4", ""},
	}
	for _, tt := range tests {
		got, out := runVM(t, tt.input)
		if got != tt.expected || out != tt.output {
			t.Errorf("%s: expected %q/%q, got %q/%q", tt.input, tt.expected, tt.output, got, out)
		}
	}
}

func expectPanic(t *testing.T, kind error, fn func()) {
	t.Helper()
	var err error
	func() {
		defer catch(&err)
		fn()
	}()
	if !errors.Is(err, kind) {
		t.Errorf("expected %v, got %v", kind, err)
	}
}

func TestInvariantViolations(t *testing.T) {
	expectPanic(t, ErrInvariant, func() { NewContext().Intern(typesystem.NumberType) })
	expectPanic(t, ErrInvariant, func() {
		ctx := NewContext()
		f := ctx.NewFrame(NoFrame)
		ctx.Finalize(f.ID)
		ctx.Finalize(f.ID)
	})
	expectPanic(t, ErrInvariant, func() {
		ctx := NewContext()
		f := ctx.NewFrame(NoFrame)
		ctx.Finalize(f.ID)
		ctx.AddField(f.ID, "x", typesystem.NumberType)
	})
	expectPanic(t, ErrInvariant, func() {
		ctx := NewContext()
		f := ctx.NewFrame(NoFrame)
		ctx.AddField(f.ID, "x", typesystem.NumberType)
		ctx.AddField(f.ID, "x", typesystem.StringType)
	})
	expectPanic(t, ErrInvariant, func() {
		ctx := NewContext()
		ctx.MarkCompiled("record_0")
		ctx.MarkCompiled("record_0")
	})
}

func TestContractViolations(t *testing.T) {
	program, types := typecheck(t, `let x = 1; x + 2`)

	_, err := Compile(program, map[ast.Node]typesystem.Type{})
	if !errors.Is(err, ErrContract) {
		t.Fatalf("expected a contract error, got %v", err)
	}

	var infix *ast.InfixExpression
	for node := range types {
		if ie, ok := node.(*ast.InfixExpression); ok {
			infix = ie
		}
	}
	bad := make(map[ast.Node]typesystem.Type, len(types))
	for k, v := range types {
		bad[k] = v
	}
	bad[infix.Right] = typesystem.StringType
	_, err = Compile(program, bad)
	var cgErr *Error
	if !errors.As(err, &cgErr) || !errors.Is(err, ErrContract) {
		t.Fatalf("expected a contract error, got %v", err)
	}
	if cgErr.Span.StartLine != 1 || !strings.Contains(err.Error(), "1:") {
		t.Errorf("error should carry the operator's span: %v", err)
	}
}

func TestValidate(t *testing.T) {
	classes := compile(t, `let r = {a: 1}; r.a`)
	if err := Validate(classes); err != nil {
		t.Fatalf("generated set rejected: %v", err)
	}

	broken := append([]*bytecode.Class{}, classes...)
	broken = append(broken, &bytecode.Class{
		Name:   "record_9",
		Kind:   bytecode.KindRecord,
		Super:  "java/lang/Object",
		Fields: []bytecode.Field{{Name: "x", Descriptor: "Lrecord_42;"}},
	})
	if err := Validate(broken); !errors.Is(err, ErrInvariant) {
		t.Errorf("dangling descriptor accepted: %v", err)
	}

	if err := Validate(classes[1:]); !errors.Is(err, ErrInvariant) {
		t.Errorf("set without Main accepted: %v", err)
	}
}

func TestAssemblyText(t *testing.T) {
	classes := compile(t, `let f = fn(a: number, b: bool) -> bool { b }; f(1, true)`)
	text := assembly(classes)
	for _, want := range []string{
		".class public Main",
		".method public static run()I",
		"invokestatic Main/run()I",
		".interface public abstract function_0",
		".method public abstract call(DI)I",
		".implements function_0",
		"invokeinterface function_0/call(DI)I 4",
		"dload 1",
		"iload 3",
		".limit locals 5",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("assembly lacks %q:\n%s", want, text)
		}
	}
}

func TestCodeGenProcessor(t *testing.T) {
	ctx := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&analyzer.SemanticAnalyzerProcessor{},
		&CodeGenProcessor{},
	).Run(pipeline.NewPipelineContext(`1 + 1`))
	if ctx.HasErrors() || len(ctx.Classes) == 0 {
		t.Fatalf("expected classes, got errors %v", ctx.Errors)
	}

	skipped := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&analyzer.SemanticAnalyzerProcessor{},
		&CodeGenProcessor{},
	).Run(pipeline.NewPipelineContext(`1 + true`))
	if len(skipped.Classes) != 0 {
		t.Error("code generated for an ill-typed program")
	}
}

func TestMaxStackCountsDoubleSlots(t *testing.T) {
	const levels = 150
	input := strings.Repeat("1 + (", levels) + "1" + strings.Repeat(")", levels)
	classes := compile(t, input)

	run := method(t, classes[0], "run")
	if want := 2 * (levels + 1); run.MaxStack < want {
		t.Errorf("run declares stack %d, needs at least %d", run.MaxStack, want)
	}
	for _, c := range classes {
		for _, m := range c.Methods {
			if m.Abstract {
				continue
			}
			depth, err := bytecode.StackDepth(m)
			if err != nil {
				t.Fatalf("%s.%s: %v", c.Name, m.Name, err)
			}
			if m.MaxStack != depth {
				t.Errorf("%s.%s declares stack %d, code needs %d", c.Name, m.Name, m.MaxStack, depth)
			}
		}
	}
	if !strings.Contains(assembly(classes), fmt.Sprintf(".limit stack %d\n", run.MaxStack)) {
		t.Error("assembly does not carry the computed stack limit")
	}

	if got, _ := runVM(t, input); got != strconv.Itoa(levels+1) {
		t.Errorf("expected %d, got %s", levels+1, got)
	}
}
