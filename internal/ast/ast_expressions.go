package ast

import (
	"github.com/funvibe/iclc/internal/token"
)

// Operator is a binary or unary operator.
type Operator string

const (
	OpAdd Operator = "+"
	OpSub Operator = "-"
	OpMul Operator = "*"
	OpDiv Operator = "/"
	OpEq  Operator = "=="
	OpNe  Operator = "~="
	OpLt  Operator = "<"
	OpLte Operator = "<="
	OpGt  Operator = ">"
	OpGte Operator = ">="
	OpAnd Operator = "&&"
	OpOr  Operator = "||"

	OpPos   Operator = "+x"
	OpNeg   Operator = "-x"
	OpNot   Operator = "~"
	OpDeref Operator = "!"
)

// IsComparison reports whether op yields a boolean from two operands of one type.
func (op Operator) IsComparison() bool {
	switch op {
	case OpEq, OpNe, OpLt, OpLte, OpGt, OpGte:
		return true
	}
	return false
}

// Symbol is the operator as written in source.
func (op Operator) Symbol() string {
	switch op {
	case OpPos:
		return "+"
	case OpNeg:
		return "-"
	}
	return string(op)
}

// Identifier is a variable reference.
type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) expressionNode()       {}
func (i *Identifier) TokenLiteral() string  { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token { return i.Token }
func (i *Identifier) Span() token.Span      { return i.Token.Span() }

type NumberLiteral struct {
	Token token.Token
	Value float64
}

func (nl *NumberLiteral) expressionNode()       {}
func (nl *NumberLiteral) TokenLiteral() string  { return nl.Token.Lexeme }
func (nl *NumberLiteral) GetToken() token.Token { return nl.Token }
func (nl *NumberLiteral) Span() token.Span      { return nl.Token.Span() }

type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (bl *BooleanLiteral) expressionNode()       {}
func (bl *BooleanLiteral) TokenLiteral() string  { return bl.Token.Lexeme }
func (bl *BooleanLiteral) GetToken() token.Token { return bl.Token }
func (bl *BooleanLiteral) Span() token.Span      { return bl.Token.Span() }

type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode()       {}
func (sl *StringLiteral) TokenLiteral() string  { return sl.Token.Lexeme }
func (sl *StringLiteral) GetToken() token.Token { return sl.Token }
func (sl *StringLiteral) Span() token.Span      { return sl.Token.Span() }

// Empty is the missing trailing expression of a scope. Its type is void.
type Empty struct {
	Token token.Token
}

func (e *Empty) expressionNode()       {}
func (e *Empty) TokenLiteral() string  { return "" }
func (e *Empty) GetToken() token.Token { return e.Token }
func (e *Empty) Span() token.Span      { return e.Token.Span() }

// Assign is `name := value`.
type Assign struct {
	Token token.Token // ':='
	Name  *Identifier
	Value Expression
}

func (a *Assign) expressionNode()       {}
func (a *Assign) TokenLiteral() string  { return a.Token.Lexeme }
func (a *Assign) GetToken() token.Token { return a.Token }
func (a *Assign) Span() token.Span      { return token.Join(a.Name.Span(), spanOf(a.Value)) }

type InfixExpression struct {
	Token    token.Token // The operator token
	Left     Expression
	Operator Operator
	Right    Expression
}

func (ie *InfixExpression) expressionNode()       {}
func (ie *InfixExpression) TokenLiteral() string  { return ie.Token.Lexeme }
func (ie *InfixExpression) GetToken() token.Token { return ie.Token }
func (ie *InfixExpression) Span() token.Span {
	return token.Join(spanOf(ie.Left), spanOf(ie.Right))
}

// PrefixExpression covers unary +, -, ~ and the dereference !.
type PrefixExpression struct {
	Token    token.Token
	Operator Operator
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()       {}
func (pe *PrefixExpression) TokenLiteral() string  { return pe.Token.Lexeme }
func (pe *PrefixExpression) GetToken() token.Token { return pe.Token }
func (pe *PrefixExpression) Span() token.Span {
	return token.Join(pe.Token.Span(), spanOf(pe.Right))
}

// NewExpression boxes its operand in a fresh reference cell.
type NewExpression struct {
	Token token.Token // 'new'
	Value Expression
}

func (ne *NewExpression) expressionNode()       {}
func (ne *NewExpression) TokenLiteral() string  { return ne.Token.Lexeme }
func (ne *NewExpression) GetToken() token.Token { return ne.Token }
func (ne *NewExpression) Span() token.Span      { return token.Join(ne.Token.Span(), spanOf(ne.Value)) }

type IfBranch struct {
	Condition Expression
	Body      *Scope
}

// IfExpression is a chain of guarded branches plus an optional else.
// A nil Else falls through to void.
type IfExpression struct {
	Token    token.Token // 'if'
	Branches []IfBranch
	Else     *Scope
}

func (ie *IfExpression) expressionNode()       {}
func (ie *IfExpression) TokenLiteral() string  { return ie.Token.Lexeme }
func (ie *IfExpression) GetToken() token.Token { return ie.Token }
func (ie *IfExpression) Span() token.Span {
	end := ie.Branches[len(ie.Branches)-1].Body.Span()
	if ie.Else != nil {
		end = ie.Else.Span()
	}
	return token.Join(ie.Token.Span(), end)
}

type WhileExpression struct {
	Token     token.Token // 'while'
	Condition Expression
	Body      *Scope
}

func (we *WhileExpression) expressionNode()       {}
func (we *WhileExpression) TokenLiteral() string  { return we.Token.Lexeme }
func (we *WhileExpression) GetToken() token.Token { return we.Token }
func (we *WhileExpression) Span() token.Span      { return token.Join(we.Token.Span(), we.Body.Span()) }

type Parameter struct {
	Name *Identifier
	Type TypeExpr
}

// FunctionLiteral is `fn(a: T, ...) [-> R] { body }`.
type FunctionLiteral struct {
	Token      token.Token // 'fn'
	Parameters []Parameter
	ReturnType TypeExpr // nil when inferred from the body
	Body       *Scope
}

func (fl *FunctionLiteral) expressionNode()       {}
func (fl *FunctionLiteral) TokenLiteral() string  { return fl.Token.Lexeme }
func (fl *FunctionLiteral) GetToken() token.Token { return fl.Token }
func (fl *FunctionLiteral) Span() token.Span      { return token.Join(fl.Token.Span(), fl.Body.Span()) }

type CallExpression struct {
	Token     token.Token // '('
	Function  Expression
	Arguments []Expression
	End       token.Token // ')'
}

func (ce *CallExpression) expressionNode()       {}
func (ce *CallExpression) TokenLiteral() string  { return ce.Token.Lexeme }
func (ce *CallExpression) GetToken() token.Token { return ce.Token }
func (ce *CallExpression) Span() token.Span {
	return token.Join(spanOf(ce.Function), ce.End.Span())
}

// BuiltinCall invokes one of the math builtins (sin, max, pi, ...).
type BuiltinCall struct {
	Token     token.Token // the builtin name
	Name      string
	Arguments []Expression
	End       token.Token
}

func (bc *BuiltinCall) expressionNode()       {}
func (bc *BuiltinCall) TokenLiteral() string  { return bc.Token.Lexeme }
func (bc *BuiltinCall) GetToken() token.Token { return bc.Token }
func (bc *BuiltinCall) Span() token.Span      { return token.Join(bc.Token.Span(), bc.End.Span()) }

// PrintExpression is print(e) or println(e).
type PrintExpression struct {
	Token   token.Token
	Newline bool
	Value   Expression
	End     token.Token
}

func (pe *PrintExpression) expressionNode()       {}
func (pe *PrintExpression) TokenLiteral() string  { return pe.Token.Lexeme }
func (pe *PrintExpression) GetToken() token.Token { return pe.Token }
func (pe *PrintExpression) Span() token.Span      { return token.Join(pe.Token.Span(), pe.End.Span()) }

type RecordField struct {
	Name  *Identifier
	Value Expression
}

// RecordLiteral is `{a: 1, b: true}`. Fields keep source order.
type RecordLiteral struct {
	Token  token.Token // '{'
	Fields []RecordField
	End    token.Token
}

func (rl *RecordLiteral) expressionNode()       {}
func (rl *RecordLiteral) TokenLiteral() string  { return rl.Token.Lexeme }
func (rl *RecordLiteral) GetToken() token.Token { return rl.Token }
func (rl *RecordLiteral) Span() token.Span      { return token.Join(rl.Token.Span(), rl.End.Span()) }

// FieldAccess is `record.field`.
type FieldAccess struct {
	Token  token.Token // '.'
	Record Expression
	Field  *Identifier
}

func (fa *FieldAccess) expressionNode()       {}
func (fa *FieldAccess) TokenLiteral() string  { return fa.Token.Lexeme }
func (fa *FieldAccess) GetToken() token.Token { return fa.Token }
func (fa *FieldAccess) Span() token.Span      { return token.Join(spanOf(fa.Record), fa.Field.Span()) }
