package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/funvibe/iclc/internal/backend"
	"github.com/funvibe/iclc/internal/config"
)

const (
	promptMain = "icl> "
	replHelp   = "Each line is a program. :quit exits."
)

func cmdInteractive(args []string) int {
	var c common
	fs := newFlagSet("interactive")
	c.register(fs)
	if err := c.parse(fs, args); err != nil {
		return exitInternal
	}
	rep := newReporter(os.Stderr)
	p, err := c.project()
	if err != nil {
		return rep.internalError(err)
	}

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, config.HistoryFileName)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Printf("iclc %s\n%s\n", config.Version, replHelp)
	tree := backend.NewTreeWalk(backend.Options{Out: os.Stdout})
	for {
		line, err := ln.Prompt(promptMain)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return exitOK
		}
		if err != nil {
			return rep.internalError(err)
		}

		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case ":quit", ":q":
			return exitOK
		}
		ln.AppendHistory(line)

		exec := backend.NewExecutionProcessor(tree)
		result := c.check(line, "", p, exec)
		if result.HasErrors() {
			rep.report(line, result.Errors)
			continue
		}
		if !exec.Result.Void {
			fmt.Println(exec.Result.Value)
		}
	}
}
