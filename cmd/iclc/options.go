package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/funvibe/iclc/internal/analyzer"
	"github.com/funvibe/iclc/internal/config"
	"github.com/funvibe/iclc/internal/lexer"
	"github.com/funvibe/iclc/internal/parser"
	"github.com/funvibe/iclc/internal/pipeline"
)

// common holds the flags every command accepts.
type common struct {
	configPath string
	verbose    bool
	log        *log.Logger
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "project file (default: nearest "+config.ProjectFileName+")")
	fs.BoolVar(&c.verbose, "v", false, "log progress to stderr")
}

// parse parses args and sets up the logger.
func (c *common) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	out := io.Discard
	if c.verbose {
		out = os.Stderr
	}
	c.log = log.New(out, appName+": ", 0)
	return nil
}

// project loads the configuration named by -config, or the nearest
// iclc.yaml, or the defaults.
func (c *common) project() (*config.Project, error) {
	path := c.configPath
	if path == "" {
		found, err := config.FindProject(".")
		if err != nil {
			return nil, err
		}
		path = found
	}
	if path == "" {
		return config.DefaultProject(), nil
	}
	c.log.Printf("using %s", path)
	return config.LoadProject(path)
}

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ContinueOnError)
}

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// check runs the lexer, parser and analyzer over source, then extra.
func (c *common) check(source, path string, p *config.Project, extra ...pipeline.Processor) *pipeline.PipelineContext {
	ctx := pipeline.NewPipelineContext(source)
	ctx.FilePath = path
	ctx.MaxCallDepth = p.MaxCallDepth

	procs := []pipeline.Processor{
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&analyzer.SemanticAnalyzerProcessor{},
	}
	pl := pipeline.New(append(procs, extra...)...)
	pl.Trace = func(stage pipeline.Processor, elapsed time.Duration, added int) {
		c.log.Printf("%T: %s, %d diagnostics", stage, elapsed, added)
	}
	return pl.Run(ctx)
}
