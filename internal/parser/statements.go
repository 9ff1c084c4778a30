package parser

import (
	"github.com/funvibe/iclc/internal/ast"
	"github.com/funvibe/iclc/internal/diagnostics"
	"github.com/funvibe/iclc/internal/token"
)

// parseScopeItems parses `item (';' item)* [';']` up to end, which is left
// as curToken. Items are separated by semicolons; the last item becomes the
// scope's result unless it is a declaration or is followed by ';'.
func (p *Parser) parseScopeItems(end token.TokenType) ([]ast.Statement, ast.Expression) {
	var stmts []ast.Statement

	for {
		if p.curTokenIs(end) {
			return stmts, &ast.Empty{Token: p.curToken}
		}
		if p.curTokenIs(token.EOF) {
			p.addError(diagnostics.NewErrorf(diagnostics.ErrP001, p.curToken,
				"unexpected end of input, expected %s", end))
			return stmts, &ast.Empty{Token: p.curToken}
		}
		if p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}

		first := p.curToken
		var stmt ast.Statement
		var expr ast.Expression
		switch p.curToken.Type {
		case token.LET:
			stmt = p.parseDeclaration()
		case token.TYPE:
			stmt = p.parseTypeDeclaration()
		default:
			expr = p.parseExpression(LOWEST)
			if expr != nil {
				stmt = &ast.ExpressionStatement{Token: first, Expression: expr}
			}
		}

		switch {
		case p.peekTokenIs(token.SEMICOLON):
			p.nextToken()
			p.nextToken()
			if stmt != nil {
				stmts = append(stmts, stmt)
			}
		case p.peekTokenIs(end):
			p.nextToken()
			if expr != nil {
				return stmts, expr
			}
			if stmt != nil {
				stmts = append(stmts, stmt)
			}
			return stmts, &ast.Empty{Token: p.curToken}
		default:
			if stmt != nil {
				// Only report when the item itself parsed; otherwise the
				// item already produced a more precise error.
				p.addError(diagnostics.NewErrorf(diagnostics.ErrP001, p.peekToken,
					"expected ';' or %s, got %s", end, describe(p.peekToken)))
			}
			p.skipToStatementBoundary(end)
		}
	}
}

// skipToStatementBoundary advances until curToken is the first token of the
// next item or the scope terminator.
func (p *Parser) skipToStatementBoundary(end token.TokenType) {
	for !p.curTokenIs(end) && !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
			return
		}
		p.nextToken()
	}
}

// parseScope parses `{ items }` with curToken on '{' and leaves it on '}'.
func (p *Parser) parseScope() *ast.Scope {
	scope := &ast.Scope{Token: p.curToken}
	p.nextToken()
	scope.Statements, scope.Result = p.parseScopeItems(token.RBRACE)
	scope.End = p.curToken
	return scope
}

func (p *Parser) parseDeclaration() ast.Statement {
	decl := &ast.Declaration{Token: p.curToken}

	if p.peekTokenIs(token.MUT) {
		p.nextToken()
		decl.Mutable = true
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	decl.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}

	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		decl.Annotation = p.parseType()
		if decl.Annotation == nil {
			return nil
		}
	}

	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	decl.Value = p.parseExpression(LOWEST)
	if decl.Value == nil {
		return nil
	}
	return decl
}

func (p *Parser) parseTypeDeclaration() ast.Statement {
	td := &ast.TypeDeclaration{Token: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	td.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	td.Type = p.parseType()
	if td.Type == nil {
		return nil
	}
	return td
}
