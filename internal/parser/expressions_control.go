package parser

import (
	"github.com/funvibe/iclc/internal/ast"
	"github.com/funvibe/iclc/internal/token"
)

// parseIfExpression parses `if c { } [else if c { }]* [else { }]`.
func (p *Parser) parseIfExpression() ast.Expression {
	expr := &ast.IfExpression{Token: p.curToken}

	for {
		p.nextToken()
		cond := p.parseExpression(LOWEST)
		if cond == nil {
			return nil
		}
		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		expr.Branches = append(expr.Branches, ast.IfBranch{Condition: cond, Body: p.parseScope()})

		if !p.peekTokenIs(token.ELSE) {
			return expr
		}
		p.nextToken() // else
		if p.peekTokenIs(token.IF) {
			p.nextToken()
			continue
		}
		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		expr.Else = p.parseScope()
		return expr
	}
}

func (p *Parser) parseWhileExpression() ast.Expression {
	expr := &ast.WhileExpression{Token: p.curToken}
	p.nextToken()
	expr.Condition = p.parseExpression(LOWEST)
	if expr.Condition == nil {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	expr.Body = p.parseScope()
	return expr
}
