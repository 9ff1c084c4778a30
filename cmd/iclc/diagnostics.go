package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/iclc/internal/diagnostics"
)

func red(s string) string  { return "\x1b[31m" + s + "\x1b[0m" }
func bold(s string) string { return "\x1b[1m" + s + "\x1b[0m" }

func colorEnabled(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// reporter prints diagnostics with the offending source line underneath.
type reporter struct {
	w     io.Writer
	color bool
}

func newReporter(f *os.File) *reporter {
	return &reporter{w: f, color: colorEnabled(f)}
}

func (r *reporter) report(source string, errs []*diagnostics.DiagnosticError) {
	lines := strings.Split(source, "\n")
	for _, err := range errs {
		msg := err.Error()
		if r.color {
			msg = red(msg)
		}
		fmt.Fprintln(r.w, msg)

		line := err.Token.Line
		if line < 1 || line > len(lines) {
			continue
		}
		text := strings.TrimRight(lines[line-1], "\r")
		fmt.Fprintf(r.w, "    %s\n", text)
		if col := err.Token.Column; col >= 1 && col <= len(text)+1 {
			caret := strings.Repeat(" ", col-1) + "^ " + diagnostics.Describe(err.Code)
			if r.color {
				caret = bold(caret)
			}
			fmt.Fprintf(r.w, "    %s\n", caret)
		}
	}
}

// internalError reports a failure that is not a program diagnostic.
func (r *reporter) internalError(err error) int {
	msg := fmt.Sprintf("%s: %v", appName, err)
	if r.color {
		msg = red(msg)
	}
	fmt.Fprintln(r.w, msg)
	return exitInternal
}
