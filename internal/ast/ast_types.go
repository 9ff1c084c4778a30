package ast

import (
	"github.com/funvibe/iclc/internal/token"
)

// TypeExpr is a type as written in source.
type TypeExpr interface {
	Node
	typeNode()
}

// NamedType is a primitive keyword (number, bool, string, void) or an alias name.
type NamedType struct {
	Token token.Token
	Name  string
}

func (nt *NamedType) typeNode()             {}
func (nt *NamedType) TokenLiteral() string  { return nt.Token.Lexeme }
func (nt *NamedType) GetToken() token.Token { return nt.Token }
func (nt *NamedType) Span() token.Span      { return nt.Token.Span() }

// IsAlias reports whether the name refers to a user alias rather than a primitive.
func (nt *NamedType) IsAlias() bool { return nt.Token.Type == token.IDENT }

type RefType struct {
	Token  token.Token // 'ref'
	Target TypeExpr
}

func (rt *RefType) typeNode()             {}
func (rt *RefType) TokenLiteral() string  { return rt.Token.Lexeme }
func (rt *RefType) GetToken() token.Token { return rt.Token }
func (rt *RefType) Span() token.Span      { return token.Join(rt.Token.Span(), spanOf(rt.Target)) }

type FunctionType struct {
	Token      token.Token // 'fn'
	Parameters []TypeExpr
	ReturnType TypeExpr
}

func (ft *FunctionType) typeNode()             {}
func (ft *FunctionType) TokenLiteral() string  { return ft.Token.Lexeme }
func (ft *FunctionType) GetToken() token.Token { return ft.Token }
func (ft *FunctionType) Span() token.Span      { return token.Join(ft.Token.Span(), spanOf(ft.ReturnType)) }

type TypeField struct {
	Name *Identifier
	Type TypeExpr
}

type RecordType struct {
	Token  token.Token // '{'
	Fields []TypeField
	End    token.Token
}

func (rt *RecordType) typeNode()             {}
func (rt *RecordType) TokenLiteral() string  { return rt.Token.Lexeme }
func (rt *RecordType) GetToken() token.Token { return rt.Token }
func (rt *RecordType) Span() token.Span      { return token.Join(rt.Token.Span(), rt.End.Span()) }
