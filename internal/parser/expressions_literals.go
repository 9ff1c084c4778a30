package parser

import (
	"github.com/funvibe/iclc/internal/ast"
	"github.com/funvibe/iclc/internal/config"
	"github.com/funvibe/iclc/internal/diagnostics"
	"github.com/funvibe/iclc/internal/token"
)

func (p *Parser) parseIdentifier() ast.Expression {
	if config.IsBuiltin(p.curToken.Lexeme) && p.peekTokenIs(token.LPAREN) {
		return p.parseBuiltinCall()
	}
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	value, ok := p.curToken.Literal.(float64)
	if !ok {
		p.addError(diagnostics.NewErrorf(diagnostics.ErrL003, p.curToken, "malformed number %q", p.curToken.Lexeme))
		return nil
	}
	return &ast.NumberLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	value, _ := p.curToken.Literal.(string)
	return &ast.StringLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

// parseBraceExpression decides between a record literal `{name: ...}` and a scope.
func (p *Parser) parseBraceExpression() ast.Expression {
	if p.peekTokenIs(token.IDENT) && p.peekAfter().Type == token.COLON {
		return p.parseRecordLiteral()
	}
	return p.parseScope()
}

func (p *Parser) parseRecordLiteral() ast.Expression {
	record := &ast.RecordLiteral{Token: p.curToken}
	seen := make(map[string]bool)

	for {
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
		if seen[name.Value] {
			p.addError(diagnostics.NewErrorf(diagnostics.ErrP004, name.Token, "duplicate record field %q", name.Value))
		}
		seen[name.Value] = true

		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		value := p.parseExpression(LOWEST)
		if value == nil {
			return nil
		}
		record.Fields = append(record.Fields, ast.RecordField{Name: name, Value: value})

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			if p.peekTokenIs(token.RBRACE) {
				p.nextToken()
				break
			}
			continue
		}
		if !p.expectPeek(token.RBRACE) {
			return nil
		}
		break
	}

	record.End = p.curToken
	return record
}

func (p *Parser) parseBuiltinCall() ast.Expression {
	call := &ast.BuiltinCall{Token: p.curToken, Name: p.curToken.Lexeme}
	p.nextToken() // '('
	args, ok := p.parseExpressionList(token.RPAREN)
	if !ok {
		return nil
	}
	call.Arguments = args
	call.End = p.curToken
	return call
}

func (p *Parser) parsePrintExpression() ast.Expression {
	pe := &ast.PrintExpression{Token: p.curToken, Newline: p.curTokenIs(token.PRINTLN)}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	pe.Value = p.parseExpression(LOWEST)
	if pe.Value == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	pe.End = p.curToken
	return pe
}
