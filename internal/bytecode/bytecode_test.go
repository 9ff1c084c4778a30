package bytecode

import (
	"reflect"
	"strings"
	"testing"
)

func TestInstrString(t *testing.T) {
	tests := []struct {
		input    Instr
		expected string
	}{
		{Simple(DADD), "dadd"},
		{Local(ALOAD, 1), "aload 1"},
		{Double(1), "ldc2_w 1.0"},
		{Double(2.5), "ldc2_w 2.5"},
		{Double(1e21), "ldc2_w 1e+21"},
		{Text("a \"b\"\n"), `ldc "a \"b\"\n"`},
		{Jump(IF_ICMPNE, "L3"), "if_icmpne L3"},
		{Label("L3"), "L3:"},
		{TypeInstr(NEW, "frame_0"), "new frame_0"},
		{Member(GETFIELD, "frame_1", "parent", "Lframe_0;"), "getfield frame_1/parent Lframe_0;"},
		{Member(INVOKEVIRTUAL, "java/io/PrintStream", "println", "(D)V"), "invokevirtual java/io/PrintStream/println(D)V"},
		{Interface("function_0", "call", "(DLjava/lang/String;)D"), "invokeinterface function_0/call(DLjava/lang/String;)D 4"},
	}

	for _, tt := range tests {
		if got := tt.input.String(); got != tt.expected {
			t.Errorf("expected %q, got %q", tt.expected, got)
		}
	}
}

func TestOpcodeNamesRoundTrip(t *testing.T) {
	for op := LABEL; op <= RETURN; op++ {
		name := op.String()
		if name == "unknown" {
			t.Errorf("opcode %d has no name", op)
			continue
		}
		back, ok := LookupOpcode(name)
		if !ok || back != op {
			t.Errorf("LookupOpcode(%q) = %v, %v", name, back, ok)
		}
	}
}

func TestParseMethodDescriptor(t *testing.T) {
	tests := []struct {
		input string
		args  []string
		ret   string
	}{
		{"()V", nil, "V"},
		{"(D)D", []string{"D"}, "D"},
		{"(DD)D", []string{"D", "D"}, "D"},
		{"(ILjava/lang/String;D)Lrecord_0;", []string{"I", "Ljava/lang/String;", "D"}, "Lrecord_0;"},
		{"([Ljava/lang/String;)V", []string{"[Ljava/lang/String;"}, "V"},
	}

	for _, tt := range tests {
		args, ret, err := ParseMethodDescriptor(tt.input)
		if err != nil {
			t.Errorf("%s: %v", tt.input, err)
			continue
		}
		if !reflect.DeepEqual(args, tt.args) || ret != tt.ret {
			t.Errorf("%s: got %v %s", tt.input, args, ret)
		}
	}

	for _, bad := range []string{"", "D", "(D", "(Lfoo)V", "(Q)V", "(D)"} {
		if _, _, err := ParseMethodDescriptor(bad); err == nil {
			t.Errorf("%q: expected an error", bad)
		}
	}
}

func TestSlotsAndClasses(t *testing.T) {
	if n := ArgSlots([]string{"D", "I", "Lx;", "D"}); n != 6 {
		t.Errorf("expected 6 slots, got %d", n)
	}
	got := ReferencedClasses("(Lframe_0;DLjava/lang/String;)Lrecord_1;")
	want := []string{"frame_0", "java/lang/String", "record_1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if c, ok := ClassOf("Lref_2;"); !ok || c != "ref_2" {
		t.Errorf("ClassOf: %q %v", c, ok)
	}
	if _, ok := ClassOf("D"); ok {
		t.Errorf("ClassOf(D) should fail")
	}
}

func sampleClasses() []*Class {
	main := &Class{
		Name:  "Main",
		Kind:  KindEntry,
		Super: "java/lang/Object",
		Methods: []*Method{{
			Name: "run", Descriptor: "()D", Static: true, MaxStack: 4, MaxLocals: 2,
			Code: []Instr{Double(1), Label("L0"), Simple(DRETURN)},
		}},
	}
	iface := &Class{
		Name:    "function_0",
		Kind:    KindInterface,
		Super:   "java/lang/Object",
		Methods: []*Method{{Name: "call", Descriptor: "(D)D", Abstract: true}},
	}
	return []*Class{main, iface}
}

func TestDisassemble(t *testing.T) {
	classes := sampleClasses()
	out := Disassemble(classes[0])
	for _, want := range []string{
		".class public Main\n",
		".super java/lang/Object\n",
		".method public static run()D\n",
		"    .limit stack 4\n",
		"    .limit locals 2\n",
		"    ldc2_w 1.0\n",
		"L0:\n",
		"    dreturn\n",
		".end method\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}

	iface := Disassemble(classes[1])
	if !strings.HasPrefix(iface, ".interface public abstract function_0\n") {
		t.Errorf("unexpected interface header:\n%s", iface)
	}
	if !strings.Contains(iface, ".method public abstract call(D)D\n.end method\n") {
		t.Errorf("abstract method rendered with a body:\n%s", iface)
	}
}

func TestBundleSerialize(t *testing.T) {
	b := &Bundle{BuildID: "b1", SourceFile: "x.icl", Classes: sampleClasses()}
	data, err := b.Serialize()
	if err != nil {
		t.Fatal(err)
	}
	got, err := Deserialize(data)
	if err != nil {
		t.Fatal(err)
	}
	if got.BuildID != "b1" || len(got.Classes) != 2 {
		t.Fatalf("unexpected bundle %+v", got)
	}
	run, ok := got.Classes[0].Method("run", "()D")
	if !ok || len(run.Code) != 3 || run.Code[0].Num != 1 {
		t.Errorf("method code did not survive: %+v", run)
	}

	bad := append([]byte("NOPE"), data[4:]...)
	if _, err := Deserialize(bad); err == nil {
		t.Errorf("expected a magic number error")
	}
	wrongVersion := append([]byte{}, data...)
	wrongVersion[4] = 0x7f
	if _, err := Deserialize(wrongVersion); err == nil {
		t.Errorf("expected a version error")
	}
	if _, err := Deserialize(data[:3]); err == nil {
		t.Errorf("expected a short data error")
	}
}

func TestBundleValidate(t *testing.T) {
	none := &Bundle{Classes: sampleClasses()[1:]}
	if err := none.Validate(); err == nil {
		t.Errorf("expected an error without Main")
	}
	dup := &Bundle{Classes: append(sampleClasses(), sampleClasses()[1])}
	if err := dup.Validate(); err == nil {
		t.Errorf("expected a duplicate class error")
	}
}
