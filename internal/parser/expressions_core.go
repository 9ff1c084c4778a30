package parser

import (
	"github.com/funvibe/iclc/internal/ast"
	"github.com/funvibe/iclc/internal/diagnostics"
	"github.com/funvibe/iclc/internal/token"
)

func (p *Parser) parseExpression(precedence int) ast.Expression {
	p.depth++
	defer func() { p.depth-- }()

	if p.depth > MaxRecursionDepth {
		p.addError(diagnostics.NewError(
			diagnostics.ErrP005,
			p.curToken,
			"expression too complex: recursion depth limit exceeded",
		))
		return nil
	}

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()
	if leftExp == nil {
		return nil
	}

	for precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
		if leftExp == nil {
			return nil
		}
	}
	return leftExp
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{
		Token:    p.curToken,
		Operator: ast.Operator(p.curToken.Lexeme),
		Left:     left,
	}
	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	if expression.Right == nil {
		return nil
	}
	return expression
}

var prefixOperators = map[token.TokenType]ast.Operator{
	token.MINUS: ast.OpNeg,
	token.PLUS:  ast.OpPos,
	token.TILDE: ast.OpNot,
	token.BANG:  ast.OpDeref,
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expression := &ast.PrefixExpression{
		Token:    p.curToken,
		Operator: prefixOperators[p.curToken.Type],
	}
	p.nextToken()
	expression.Right = p.parseExpression(PREFIX)
	if expression.Right == nil {
		return nil
	}
	return expression
}

func (p *Parser) parseNewExpression() ast.Expression {
	expression := &ast.NewExpression{Token: p.curToken}
	p.nextToken()
	expression.Value = p.parseExpression(PREFIX)
	if expression.Value == nil {
		return nil
	}
	return expression
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	exp := p.parseExpression(LOWEST)
	if exp == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return exp
}

// parseAssign is right-associative: a := b := c assigns c to b, then
// the void result to a (which the analyzer rejects).
func (p *Parser) parseAssign(left ast.Expression) ast.Expression {
	ident, ok := left.(*ast.Identifier)
	if !ok {
		p.addError(diagnostics.NewError(
			diagnostics.ErrP001,
			p.curToken,
			"left side of ':=' must be a variable name",
		))
		return nil
	}
	assign := &ast.Assign{Token: p.curToken, Name: ident}
	p.nextToken()
	assign.Value = p.parseExpression(ASSIGN - 1)
	if assign.Value == nil {
		return nil
	}
	return assign
}

func (p *Parser) parseCallExpression(function ast.Expression) ast.Expression {
	call := &ast.CallExpression{Token: p.curToken, Function: function}
	args, ok := p.parseExpressionList(token.RPAREN)
	if !ok {
		return nil
	}
	call.Arguments = args
	call.End = p.curToken
	return call
}

// parseExpressionList parses comma-separated expressions with curToken on
// the opening delimiter, leaving curToken on end.
func (p *Parser) parseExpressionList(end token.TokenType) ([]ast.Expression, bool) {
	var list []ast.Expression

	if p.peekTokenIs(end) {
		p.nextToken()
		return list, true
	}

	p.nextToken()
	first := p.parseExpression(LOWEST)
	if first == nil {
		return nil, false
	}
	list = append(list, first)

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		next := p.parseExpression(LOWEST)
		if next == nil {
			return nil, false
		}
		list = append(list, next)
	}

	if !p.expectPeek(end) {
		return nil, false
	}
	return list, true
}

func (p *Parser) parseFieldAccess(record ast.Expression) ast.Expression {
	access := &ast.FieldAccess{Token: p.curToken, Record: record}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	access.Field = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	return access
}
