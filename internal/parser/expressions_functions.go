package parser

import (
	"github.com/funvibe/iclc/internal/ast"
	"github.com/funvibe/iclc/internal/diagnostics"
	"github.com/funvibe/iclc/internal/token"
)

// parseFunctionLiteral parses `fn(a: T, ...) [-> R] { body }`.
func (p *Parser) parseFunctionLiteral() ast.Expression {
	fn := &ast.FunctionLiteral{Token: p.curToken}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}

	seen := make(map[string]bool)
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
	} else {
		for {
			if !p.expectPeek(token.IDENT) {
				return nil
			}
			name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
			if seen[name.Value] {
				p.addError(diagnostics.NewErrorf(diagnostics.ErrP004, name.Token, "duplicate parameter %q", name.Value))
			}
			seen[name.Value] = true

			if !p.expectPeek(token.COLON) {
				return nil
			}
			p.nextToken()
			typ := p.parseType()
			if typ == nil {
				return nil
			}
			fn.Parameters = append(fn.Parameters, ast.Parameter{Name: name, Type: typ})

			if p.peekTokenIs(token.COMMA) {
				p.nextToken()
				continue
			}
			if !p.expectPeek(token.RPAREN) {
				return nil
			}
			break
		}
	}

	if p.peekTokenIs(token.ARROW) {
		p.nextToken()
		p.nextToken()
		fn.ReturnType = p.parseType()
		if fn.ReturnType == nil {
			return nil
		}
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	fn.Body = p.parseScope()
	return fn
}
