package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/funvibe/iclc/internal/ast"
	"github.com/funvibe/iclc/internal/backend"
	"github.com/funvibe/iclc/internal/bytecode"
	"github.com/funvibe/iclc/internal/codegen"
	"github.com/funvibe/iclc/internal/lexer"
	"github.com/funvibe/iclc/internal/parser"
	"github.com/funvibe/iclc/internal/pipeline"
	"github.com/funvibe/iclc/internal/prettyprinter"
)

func cmdRun(args []string) int {
	var c common
	fs := newFlagSet("run")
	c.register(fs)
	backendName := fs.String("backend", "", "executor: tree or vm (default from config)")
	if err := c.parse(fs, args); err != nil {
		return exitInternal
	}
	rep := newReporter(os.Stderr)
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run [-backend tree|vm] file.icl\n", appName)
		return exitInternal
	}
	path := fs.Arg(0)

	p, err := c.project()
	if err != nil {
		return rep.internalError(err)
	}
	if *backendName != "" {
		p.Backend = *backendName
	}
	source, err := readSource(path)
	if err != nil {
		return rep.internalError(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	b, err := backend.ByName(p.Backend, backend.Options{Context: ctx, Out: os.Stdout})
	if err != nil {
		return rep.internalError(err)
	}

	start := time.Now()
	exec := backend.NewExecutionProcessor(b)
	result := c.check(source, path, p, exec)
	c.log.Printf("ran %s on the %s backend in %s", path, b.Name(), time.Since(start))
	if result.HasErrors() {
		rep.report(source, result.Errors)
		return exitDiagnostic
	}
	if !exec.Result.Void {
		fmt.Println(exec.Result.Value)
	}
	return exitOK
}

func cmdPrint(args []string) int {
	var c common
	fs := newFlagSet("print")
	c.register(fs)
	if err := c.parse(fs, args); err != nil {
		return exitInternal
	}
	rep := newReporter(os.Stderr)
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s print file.icl\n", appName)
		return exitInternal
	}
	path := fs.Arg(0)
	source, err := readSource(path)
	if err != nil {
		return rep.internalError(err)
	}

	ctx := pipeline.NewPipelineContext(source)
	ctx.FilePath = path
	ctx = pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).Run(ctx)
	if ctx.HasErrors() {
		rep.report(source, ctx.Errors)
		return exitDiagnostic
	}
	fmt.Print(prettyprinter.Print(ctx.AstRoot.(*ast.Program)))
	return exitOK
}

func cmdAsm(args []string) int {
	var c common
	fs := newFlagSet("asm")
	c.register(fs)
	if err := c.parse(fs, args); err != nil {
		return exitInternal
	}
	rep := newReporter(os.Stderr)
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s asm file.icl\n", appName)
		return exitInternal
	}
	path := fs.Arg(0)

	p, err := c.project()
	if err != nil {
		return rep.internalError(err)
	}
	source, err := readSource(path)
	if err != nil {
		return rep.internalError(err)
	}

	ctx := c.check(source, path, p, &codegen.CodeGenProcessor{})
	if ctx.HasErrors() {
		rep.report(source, ctx.Errors)
		return exitDiagnostic
	}
	c.log.Printf("generated %d classes", len(ctx.Classes))
	for i, class := range ctx.Classes {
		if i > 0 {
			fmt.Println()
		}
		fmt.Print(bytecode.Disassemble(class))
	}
	return exitOK
}
