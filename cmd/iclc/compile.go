package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/funvibe/iclc/internal/codegen"
	"github.com/funvibe/iclc/internal/config"
	"github.com/funvibe/iclc/internal/store"
	"github.com/funvibe/iclc/internal/utils"
	"github.com/funvibe/iclc/internal/vm"
)

func cmdCompile(args []string) int {
	var c common
	fs := newFlagSet("compile")
	c.register(fs)
	output := fs.String("o", "", "output directory for the dir sink")
	sinkName := fs.String("sink", "", "where builds go: dir or sqlite")
	dbPath := fs.String("db", "", "database file for the sqlite sink")
	if err := c.parse(fs, args); err != nil {
		return exitInternal
	}
	rep := newReporter(os.Stderr)
	files := fs.Args()
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "usage: %s compile [-o dir] [-sink dir|sqlite] [-db path] file.icl...\n", appName)
		return exitInternal
	}

	p, err := c.project()
	if err != nil {
		return rep.internalError(err)
	}
	if *output != "" {
		p.Output = *output
	}
	if *sinkName != "" {
		p.Sink = *sinkName
	}
	if *dbPath != "" {
		p.Database = *dbPath
	}
	if err := p.Validate(); err != nil {
		return rep.internalError(err)
	}

	ctx := context.Background()
	sinkFor, closeSink, err := openSink(ctx, p, len(files) > 1)
	if err != nil {
		return rep.internalError(err)
	}
	defer closeSink()

	var (
		mu     sync.Mutex
		failed bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Jobs)
	for _, path := range files {
		path := path
		g.Go(func() error {
			if !utils.HasSourceExt(path) {
				c.log.Printf("%s does not end in %s", path, config.SourceFileExt)
			}
			source, err := readSource(path)
			if err != nil {
				return err
			}

			start := time.Now()
			result := c.check(source, path, p, &codegen.CodeGenProcessor{})
			if result.HasErrors() {
				mu.Lock()
				rep.report(source, result.Errors)
				failed = true
				mu.Unlock()
				return nil
			}
			c.log.Printf("compiled %s: %d classes in %s", path, len(result.Classes), time.Since(start))

			build := store.NewBuild(path, source, result.Classes)
			if err := sinkFor(path).Write(gctx, build); err != nil {
				return fmt.Errorf("storing %s: %w", path, err)
			}
			c.log.Printf("stored build %s of %s", build.ID, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return rep.internalError(err)
	}
	if failed {
		return exitDiagnostic
	}
	return exitOK
}

// openSink returns the sink each source file is written to. With the dir
// sink and several files, every program gets its own subdirectory.
func openSink(ctx context.Context, p *config.Project, multiple bool) (func(path string) store.Sink, func(), error) {
	switch p.Sink {
	case config.SinkSQLite:
		db, err := store.OpenSQLite(ctx, p.Database)
		if err != nil {
			return nil, nil, err
		}
		return func(string) store.Sink { return db }, func() { db.Close() }, nil
	default:
		return func(path string) store.Sink {
			return &store.DirSink{Root: utils.OutputDir(p.Output, path, multiple), Assembly: p.WritesAssembly()}
		}, func() {}, nil
	}
}

func cmdExec(args []string) int {
	var c common
	fs := newFlagSet("exec")
	c.register(fs)
	dbPath := fs.String("db", "", "read the build from this sqlite database")
	buildID := fs.String("build", "", "build id (default: the latest build)")
	if err := c.parse(fs, args); err != nil {
		return exitInternal
	}
	rep := newReporter(os.Stderr)
	if fs.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "usage: %s exec [-db path [-build id]] [dir]\n", appName)
		return exitInternal
	}

	p, err := c.project()
	if err != nil {
		return rep.internalError(err)
	}

	ctx := context.Background()
	var src store.Source
	switch {
	case *dbPath != "":
		db, err := store.OpenSQLite(ctx, *dbPath)
		if err != nil {
			return rep.internalError(err)
		}
		defer db.Close()
		src = db
	case fs.NArg() == 1:
		src = &store.DirSource{Root: fs.Arg(0)}
	case p.Sink == config.SinkSQLite:
		db, err := store.OpenSQLite(ctx, p.Database)
		if err != nil {
			return rep.internalError(err)
		}
		defer db.Close()
		src = db
	default:
		src = &store.DirSource{Root: p.Output}
	}

	var build *store.Build
	if *buildID != "" {
		id, perr := uuid.Parse(*buildID)
		if perr != nil {
			return rep.internalError(fmt.Errorf("bad build id %q: %w", *buildID, perr))
		}
		build, err = src.Load(ctx, id)
	} else {
		build, err = src.Latest(ctx)
	}
	if errors.Is(err, store.ErrNotFound) {
		return rep.internalError(fmt.Errorf("no stored build: %w", err))
	}
	if err != nil {
		return rep.internalError(err)
	}
	c.log.Printf("executing build %s of %s", build.ID, build.File)

	machine, err := vm.New(build.Classes)
	if err != nil {
		return rep.internalError(err)
	}
	machine.MaxCallDepth = p.MaxCallDepth
	machine.SetOutput(os.Stdout)
	if err := machine.Main(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: runtime error: %v\n", appName, err)
		return exitDiagnostic
	}
	return exitOK
}
