package parser

import (
	"github.com/funvibe/iclc/internal/ast"
	"github.com/funvibe/iclc/internal/diagnostics"
	"github.com/funvibe/iclc/internal/pipeline"
	"github.com/funvibe/iclc/internal/token"
)

// MaxRecursionDepth bounds expression nesting so hostile input cannot
// exhaust the goroutine stack.
const MaxRecursionDepth = 512

const (
	_ int = iota
	LOWEST
	ASSIGN      // :=
	LOGICAL_OR  // ||
	LOGICAL_AND // &&
	EQUALS      // == ~= < <= > >=
	SUM         // + -
	PRODUCT     // * /
	PREFIX      // -x ~x !x new x
	CALL        // f(x) r.field
)

var precedences = map[token.TokenType]int{
	token.WALRUS:   ASSIGN,
	token.OR:       LOGICAL_OR,
	token.AND:      LOGICAL_AND,
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       EQUALS,
	token.LTE:      EQUALS,
	token.GT:       EQUALS,
	token.GTE:      EQUALS,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.LPAREN:   CALL,
	token.DOT:      CALL,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

type Parser struct {
	stream *token.Stream
	ctx    *pipeline.PipelineContext

	curToken  token.Token
	peekToken token.Token

	depth int

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

func New(stream *token.Stream, ctx *pipeline.PipelineContext) *Parser {
	p := &Parser{stream: stream, ctx: ctx}

	p.prefixParseFns = map[token.TokenType]prefixParseFn{
		token.IDENT:   p.parseIdentifier,
		token.NUMBER:  p.parseNumberLiteral,
		token.STRING:  p.parseStringLiteral,
		token.TRUE:    p.parseBooleanLiteral,
		token.FALSE:   p.parseBooleanLiteral,
		token.MINUS:   p.parsePrefixExpression,
		token.PLUS:    p.parsePrefixExpression,
		token.TILDE:   p.parsePrefixExpression,
		token.BANG:    p.parsePrefixExpression,
		token.NEW:     p.parseNewExpression,
		token.LPAREN:  p.parseGroupedExpression,
		token.LBRACE:  p.parseBraceExpression,
		token.IF:      p.parseIfExpression,
		token.WHILE:   p.parseWhileExpression,
		token.FN:      p.parseFunctionLiteral,
		token.PRINT:   p.parsePrintExpression,
		token.PRINTLN: p.parsePrintExpression,
	}

	p.infixParseFns = map[token.TokenType]infixParseFn{
		token.WALRUS: p.parseAssign,
		token.LPAREN: p.parseCallExpression,
		token.DOT:    p.parseFieldAccess,
	}
	for _, tt := range []token.TokenType{
		token.OR, token.AND, token.EQ, token.NOT_EQ, token.LT, token.LTE,
		token.GT, token.GTE, token.PLUS, token.MINUS, token.ASTERISK, token.SLASH,
	} {
		p.infixParseFns[tt] = p.parseInfixExpression
	}

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.stream.Next()
}

// peekAfter returns the token following peekToken.
func (p *Parser) peekAfter() token.Token {
	return p.stream.Peek(0)
}

func (p *Parser) curTokenIs(t token.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t token.TokenType) {
	p.addError(diagnostics.NewErrorf(
		diagnostics.ErrP001,
		p.peekToken,
		"expected next token to be %s, got %s instead",
		t, describe(p.peekToken),
	))
}

func (p *Parser) noPrefixParseFnError(tok token.Token) {
	p.addError(diagnostics.NewErrorf(
		diagnostics.ErrP002,
		tok,
		"unexpected %s at start of expression",
		describe(tok),
	))
}

func (p *Parser) addError(err *diagnostics.DiagnosticError) {
	p.ctx.AddError(err)
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// ParseProgram parses a whole source file as the implicit root scope.
func (p *Parser) ParseProgram() *ast.Program {
	body := &ast.Scope{Token: p.curToken}
	body.Statements, body.Result = p.parseScopeItems(token.EOF)
	body.End = p.curToken
	return &ast.Program{File: p.ctx.FilePath, Body: body}
}

func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.IDENT, token.NUMBER, token.STRING, token.ILLEGAL:
		return string(tok.Type) + " " + tok.Lexeme
	}
	return "'" + tok.Lexeme + "'"
}
