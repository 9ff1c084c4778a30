// Package symbols holds the lexical symbol tables used by the analyzer.
package symbols

import (
	"github.com/funvibe/iclc/internal/ast"
	"github.com/funvibe/iclc/internal/typesystem"
)

type SymbolKind int

type ScopeType int

const (
	ScopeGlobal   ScopeType = iota // the program's root scope
	ScopeFunction                  // a function literal's parameter scope
	ScopeBlock                     // any nested { } scope
)

const (
	VariableSymbol SymbolKind = iota
	TypeSymbol
)

type Symbol struct {
	Name    string
	Kind    SymbolKind
	Type    typesystem.Type // variable type, or resolved alias body
	Mutable bool            // variables declared with `let mut`

	// Raw is an alias body before resolution. Resolved becomes true once Type
	// holds the alias-free body.
	Raw      typesystem.Type
	Resolved bool

	DefinitionNode ast.Node
}

type SymbolTable struct {
	store     map[string]*Symbol
	types     map[string]*Symbol
	outer     *SymbolTable
	scopeType ScopeType
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		store:     make(map[string]*Symbol),
		types:     make(map[string]*Symbol),
		scopeType: ScopeGlobal,
	}
}

func NewEnclosedSymbolTable(outer *SymbolTable, scopeType ScopeType) *SymbolTable {
	st := NewSymbolTable()
	st.outer = outer
	st.scopeType = scopeType
	return st
}

func (s *SymbolTable) ScopeType() ScopeType {
	return s.scopeType
}

// Define adds a variable to this scope. It returns false if the name is
// already declared in this same scope.
func (s *SymbolTable) Define(name string, t typesystem.Type, mutable bool, node ast.Node) bool {
	if _, exists := s.store[name]; exists {
		return false
	}
	s.store[name] = &Symbol{Name: name, Kind: VariableSymbol, Type: t, Mutable: mutable, DefinitionNode: node}
	return true
}

// Find looks a variable up through the enclosing scopes.
func (s *SymbolTable) Find(name string) (*Symbol, bool) {
	for st := s; st != nil; st = st.outer {
		if sym, ok := st.store[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// DeclareTypeAlias registers an unresolved alias body in this scope.
// Aliases are hoisted, so bodies may mention aliases declared later in the same scope.
func (s *SymbolTable) DeclareTypeAlias(name string, raw typesystem.Type, node ast.Node) bool {
	if _, exists := s.types[name]; exists {
		return false
	}
	s.types[name] = &Symbol{Name: name, Kind: TypeSymbol, Raw: raw, DefinitionNode: node}
	return true
}

// FindTypeAlias looks an alias up through the enclosing scopes.
func (s *SymbolTable) FindTypeAlias(name string) (*Symbol, bool) {
	for st := s; st != nil; st = st.outer {
		if sym, ok := st.types[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// ResolveType replaces every alias in t using the aliases visible from s.
// Aliases from enclosing scopes are already resolved; aliases of this scope
// may still be raw, in which case their bodies are resolved from s as well.
func (s *SymbolTable) ResolveType(t typesystem.Type) (typesystem.Type, error) {
	return typesystem.Resolve(t, func(name string) (typesystem.Type, bool) {
		sym, ok := s.FindTypeAlias(name)
		if !ok {
			return nil, false
		}
		if sym.Resolved {
			return sym.Type, true
		}
		return sym.Raw, true
	})
}

// ResolveAlias resolves the named alias of this scope and caches the result.
func (s *SymbolTable) ResolveAlias(name string) (typesystem.Type, error) {
	sym, ok := s.types[name]
	if !ok {
		return nil, &typesystem.UndefinedTypeError{Name: name}
	}
	if sym.Resolved {
		return sym.Type, nil
	}
	resolved, err := s.ResolveType(typesystem.Alias{Name: name})
	if err != nil {
		return nil, err
	}
	sym.Type = resolved
	sym.Resolved = true
	return resolved, nil
}
