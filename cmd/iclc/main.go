// Command iclc type checks, runs and compiles icl programs.
package main

import (
	"fmt"
	"os"

	"github.com/funvibe/iclc/internal/config"
)

const appName = "iclc"

// Exit codes.
const (
	exitOK         = 0
	exitDiagnostic = 1
	exitInternal   = 2
)

func main() {
	// Catch panics and show user-friendly error
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r) // Re-panic to get stack trace
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(exitInternal)
		}
	}()

	if len(os.Args) < 2 {
		usage()
		os.Exit(exitInternal)
	}

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "run":
		os.Exit(cmdRun(args))
	case "compile":
		os.Exit(cmdCompile(args))
	case "exec":
		os.Exit(cmdExec(args))
	case "print":
		os.Exit(cmdPrint(args))
	case "asm":
		os.Exit(cmdAsm(args))
	case "interactive", "repl":
		os.Exit(cmdInteractive(args))
	case "version":
		fmt.Println(config.Version)
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(exitInternal)
	}
}

func usage() {
	fmt.Printf(`iclc %s

Usage:
  %s run [-backend tree|vm] file.icl                       Type check and execute a program.
  %s compile [-o dir] [-sink dir|sqlite] [-db path] file...  Compile programs and store the builds.
  %s exec [-db path [-build id]] [dir]                     Run a stored build on the VM.
  %s print file.icl                                        Pretty-print a program.
  %s asm file.icl                                          Print the Jasmin text of every class.
  %s interactive                                           Start the REPL.
  %s version                                               Print the version.

Every command accepts -config iclc.yaml and -v.
`, config.Version, appName, appName, appName, appName, appName, appName, appName)
}
