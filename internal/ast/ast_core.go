// Package ast defines the closed set of syntax nodes. Consumers dispatch
// with type switches; there is no visitor interface.
//
// Nodes are never mutated after parsing. Later stages attach information
// through side tables keyed by node identity.
package ast

import (
	"github.com/funvibe/iclc/internal/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	GetToken() token.Token
	Span() token.Span
}

// Statement is a Node that may appear in a scope before its trailing expression.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root node of every AST our parser produces.
// Its body is the implicit root scope.
type Program struct {
	File string
	Body *Scope
}

func (p *Program) TokenLiteral() string  { return p.Body.TokenLiteral() }
func (p *Program) GetToken() token.Token { return p.Body.GetToken() }
func (p *Program) Span() token.Span      { return p.Body.Span() }

// Scope is `{ stmt; ...; result }`. Result is *Empty when the last item
// is terminated by a semicolon.
type Scope struct {
	Token      token.Token // '{' (or the first token of a program)
	End        token.Token // '}'
	Statements []Statement
	Result     Expression
}

func (s *Scope) expressionNode()       {}
func (s *Scope) TokenLiteral() string  { return s.Token.Lexeme }
func (s *Scope) GetToken() token.Token { return s.Token }
func (s *Scope) Span() token.Span      { return token.Join(s.Token.Span(), s.End.Span()) }

// Declaration is `let [mut] name [: type] = value`.
type Declaration struct {
	Token      token.Token // 'let'
	Name       *Identifier
	Mutable    bool
	Annotation TypeExpr // nil when absent
	Value      Expression
}

func (d *Declaration) statementNode()        {}
func (d *Declaration) TokenLiteral() string  { return d.Token.Lexeme }
func (d *Declaration) GetToken() token.Token { return d.Token }
func (d *Declaration) Span() token.Span      { return token.Join(d.Token.Span(), spanOf(d.Value)) }

// TypeDeclaration is `type Name = type`.
type TypeDeclaration struct {
	Token token.Token // 'type'
	Name  *Identifier
	Type  TypeExpr
}

func (td *TypeDeclaration) statementNode()        {}
func (td *TypeDeclaration) TokenLiteral() string  { return td.Token.Lexeme }
func (td *TypeDeclaration) GetToken() token.Token { return td.Token }
func (td *TypeDeclaration) Span() token.Span      { return token.Join(td.Token.Span(), spanOf(td.Type)) }

// ExpressionStatement is an expression evaluated for its effect; any value is discarded.
type ExpressionStatement struct {
	Token      token.Token
	Expression Expression
}

func (es *ExpressionStatement) statementNode()        {}
func (es *ExpressionStatement) TokenLiteral() string  { return es.Token.Lexeme }
func (es *ExpressionStatement) GetToken() token.Token { return es.Token }
func (es *ExpressionStatement) Span() token.Span      { return spanOf(es.Expression) }

func spanOf(n Node) token.Span {
	if n == nil {
		return token.Span{}
	}
	return n.Span()
}
