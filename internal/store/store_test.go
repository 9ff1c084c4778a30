package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/funvibe/iclc/internal/analyzer"
	"github.com/funvibe/iclc/internal/bytecode"
	"github.com/funvibe/iclc/internal/codegen"
	"github.com/funvibe/iclc/internal/config"
	"github.com/funvibe/iclc/internal/lexer"
	"github.com/funvibe/iclc/internal/parser"
	"github.com/funvibe/iclc/internal/pipeline"
)

const program = `let r = {a: 1}; let f = fn(x: number) { x + r.a }; f(2)`

func build(t *testing.T, input string) *Build {
	t.Helper()
	ctx := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&analyzer.SemanticAnalyzerProcessor{},
		&codegen.CodeGenProcessor{},
	).Run(pipeline.NewPipelineContext(input))
	if ctx.HasErrors() {
		t.Fatalf("unexpected errors: %v", ctx.Errors[0])
	}
	return NewBuild("prog.icl", input, ctx.Classes)
}

func classNames(classes []*bytecode.Class) string {
	names := make([]string, len(classes))
	for i, c := range classes {
		names[i] = c.Name
	}
	return strings.Join(names, ",")
}

func TestDirRoundTrip(t *testing.T) {
	root := t.TempDir()
	b := build(t, program)
	sink := &DirSink{Root: root, Assembly: true}
	if err := sink.Write(context.Background(), b); err != nil {
		t.Fatal(err)
	}

	for _, c := range b.Classes {
		text, err := os.ReadFile(filepath.Join(root, c.Name+config.AssemblyFileExt))
		if err != nil {
			t.Fatalf("missing assembly for %s: %v", c.Name, err)
		}
		if string(text) != bytecode.Disassemble(c) {
			t.Errorf("assembly for %s differs", c.Name)
		}
	}

	src := &DirSource{Root: root}
	got, err := src.Latest(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != b.ID || got.File != b.File {
		t.Errorf("got build %s %q, want %s %q", got.ID, got.File, b.ID, b.File)
	}
	if !got.Created.Equal(b.Created) {
		t.Errorf("created %v, want %v", got.Created, b.Created)
	}
	if classNames(got.Classes) != classNames(b.Classes) {
		t.Errorf("classes %s, want %s", classNames(got.Classes), classNames(b.Classes))
	}

	if _, err := src.Load(context.Background(), b.ID); err != nil {
		t.Errorf("load by id: %v", err)
	}
	if _, err := src.Load(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDirWithoutAssembly(t *testing.T) {
	root := t.TempDir()
	if err := (&DirSink{Root: root}).Write(context.Background(), build(t, `1`)); err != nil {
		t.Fatal(err)
	}
	matches, _ := filepath.Glob(filepath.Join(root, "*"+config.AssemblyFileExt))
	if len(matches) != 0 {
		t.Errorf("unexpected assembly files: %v", matches)
	}
}

func TestManifest(t *testing.T) {
	root := t.TempDir()
	b := build(t, program)
	if err := (&DirSink{Root: root}).Write(context.Background(), b); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(root, config.ManifestFileName))
	if err != nil {
		t.Fatal(err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		t.Fatal(err)
	}
	if m.Build != b.ID.String() || m.Compiler != config.Version || len(m.Classes) != len(b.Classes) {
		t.Fatalf("bad manifest: %+v", m)
	}

	var entry *ManifestClass
	for i := range m.Classes {
		if m.Classes[i].Name == config.EntryClassName {
			entry = &m.Classes[i]
		}
	}
	if entry == nil || entry.Kind != string(bytecode.KindEntry) {
		t.Fatalf("no entry class in manifest: %+v", m.Classes)
	}
	if !strings.Contains(strings.Join(entry.Methods, " "), "run()D") {
		t.Errorf("entry methods %v lack run()D", entry.Methods)
	}
}

func TestDirMissing(t *testing.T) {
	src := &DirSource{Root: filepath.Join(t.TempDir(), "nothing")}
	if _, err := src.Latest(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDirCorruptBundle(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, config.BundleFileName), []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := (&DirSource{Root: root}).Latest(context.Background()); err == nil {
		t.Error("expected an error for a corrupt bundle")
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "builds.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	first := build(t, `1`)
	second := build(t, program)
	second.Created = first.Created.Add(time.Second)
	for _, b := range []*Build{first, second} {
		if err := db.Write(ctx, b); err != nil {
			t.Fatal(err)
		}
	}

	latest, err := db.Latest(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if latest.ID != second.ID || latest.Source != program {
		t.Errorf("latest is %s %q, want %s", latest.ID, latest.Source, second.ID)
	}
	if !latest.Created.Equal(second.Created) {
		t.Errorf("created %v, want %v", latest.Created, second.Created)
	}
	if classNames(latest.Classes) != classNames(second.Classes) {
		t.Errorf("classes %s, want %s", classNames(latest.Classes), classNames(second.Classes))
	}

	old, err := db.Load(ctx, first.ID)
	if err != nil {
		t.Fatal(err)
	}
	if old.Source != "1" {
		t.Errorf("loaded source %q", old.Source)
	}

	if _, err := db.Load(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	infos, err := db.Classes(ctx, second.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != len(second.Classes) {
		t.Fatalf("got %d class rows, want %d", len(infos), len(second.Classes))
	}
	for i := 1; i < len(infos); i++ {
		if infos[i-1].Name >= infos[i].Name {
			t.Errorf("class rows not in name order: %s, %s", infos[i-1].Name, infos[i].Name)
		}
	}
	for _, ci := range infos {
		if !strings.Contains(ci.Assembly, ci.Name) {
			t.Errorf("assembly of %s does not name the class", ci.Name)
		}
	}
}

func TestSQLiteEmpty(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "empty.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if _, err := db.Latest(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteDuplicateBuild(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "dup.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	b := build(t, `1`)
	if err := db.Write(ctx, b); err != nil {
		t.Fatal(err)
	}
	if err := db.Write(ctx, b); err == nil {
		t.Error("expected writing the same build twice to fail")
	}
	infos, err := db.Classes(ctx, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != len(b.Classes) {
		t.Errorf("failed write left %d class rows, want %d", len(infos), len(b.Classes))
	}
}
