// Package analyzer type checks a parsed program. It resolves every type
// alias, enforces the language's typing rules and records the type of each
// node in a side table for the executors.
package analyzer

import (
	"fmt"
	"sort"

	"github.com/funvibe/iclc/internal/ast"
	"github.com/funvibe/iclc/internal/diagnostics"
	"github.com/funvibe/iclc/internal/symbols"
	"github.com/funvibe/iclc/internal/token"
	"github.com/funvibe/iclc/internal/typesystem"
)

type walker struct {
	symbolTable *symbols.SymbolTable
	errorSet    map[string]*diagnostics.DiagnosticError // Key: "line:col:code" for deduplication
	TypeMap     map[ast.Node]typesystem.Type
	currentFile string
}

// Analyzer is the public entry point.
type Analyzer struct {
	walker *walker
}

func New() *Analyzer {
	return &Analyzer{walker: &walker{
		symbolTable: symbols.NewSymbolTable(),
		errorSet:    make(map[string]*diagnostics.DiagnosticError),
		TypeMap:     make(map[ast.Node]typesystem.Type),
	}}
}

// TypeMap returns the types recorded so far.
func (a *Analyzer) TypeMap() map[ast.Node]typesystem.Type {
	return a.walker.TypeMap
}

// Analyze checks program and returns the diagnostics, sorted by position.
func (a *Analyzer) Analyze(program *ast.Program) []*diagnostics.DiagnosticError {
	w := a.walker
	w.currentFile = program.File
	t := w.checkScopeIn(program.Body, w.symbolTable)
	w.record(program, t)
	return w.getErrors()
}

// addError adds an error to the walker, deduplicating by position and code
func (w *walker) addError(err *diagnostics.DiagnosticError) {
	if err.File == "" && w.currentFile != "" {
		err.File = w.currentFile
	}
	key := fmt.Sprintf("%d:%d:%s", err.Token.Line, err.Token.Column, err.Code)
	if _, exists := w.errorSet[key]; exists {
		return
	}
	w.errorSet[key] = err
}

func (w *walker) errorf(code diagnostics.ErrorCode, tok token.Token, format string, args ...interface{}) {
	w.addError(diagnostics.NewErrorf(code, tok, format, args...))
}

// getErrors returns all unique errors as a slice, sorted by position
func (w *walker) getErrors() []*diagnostics.DiagnosticError {
	result := make([]*diagnostics.DiagnosticError, 0, len(w.errorSet))
	for _, err := range w.errorSet {
		result = append(result, err)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Token.Line != result[j].Token.Line {
			return result[i].Token.Line < result[j].Token.Line
		}
		if result[i].Token.Column != result[j].Token.Column {
			return result[i].Token.Column < result[j].Token.Column
		}
		return result[i].Code < result[j].Code
	})

	return result
}

// record stores t for node unless checking node failed (t == nil).
func (w *walker) record(node ast.Node, t typesystem.Type) typesystem.Type {
	if t != nil {
		w.TypeMap[node] = t
	}
	return t
}

func (w *walker) enter(scopeType symbols.ScopeType) func() {
	outer := w.symbolTable
	w.symbolTable = symbols.NewEnclosedSymbolTable(outer, scopeType)
	return func() { w.symbolTable = outer }
}
