package parser

import (
	"github.com/funvibe/iclc/internal/ast"
	"github.com/funvibe/iclc/internal/diagnostics"
	"github.com/funvibe/iclc/internal/token"
)

// parseType parses a type with curToken on its first token and leaves
// curToken on its last token.
func (p *Parser) parseType() ast.TypeExpr {
	switch p.curToken.Type {
	case token.NUMBER_T, token.BOOL_T, token.STRING_T, token.VOID_T, token.IDENT:
		return &ast.NamedType{Token: p.curToken, Name: p.curToken.Lexeme}

	case token.REF:
		ref := &ast.RefType{Token: p.curToken}
		p.nextToken()
		ref.Target = p.parseType()
		if ref.Target == nil {
			return nil
		}
		return ref

	case token.FN:
		return p.parseFunctionType()

	case token.LBRACE:
		return p.parseRecordType()
	}

	p.addError(diagnostics.NewErrorf(diagnostics.ErrP003, p.curToken, "expected a type, got %s", describe(p.curToken)))
	return nil
}

func (p *Parser) parseFunctionType() ast.TypeExpr {
	ft := &ast.FunctionType{Token: p.curToken}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
	} else {
		for {
			p.nextToken()
			param := p.parseType()
			if param == nil {
				return nil
			}
			ft.Parameters = append(ft.Parameters, param)
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

	if !p.expectPeek(token.ARROW) {
		return nil
	}
	p.nextToken()
	ft.ReturnType = p.parseType()
	if ft.ReturnType == nil {
		return nil
	}
	return ft
}

func (p *Parser) parseRecordType() ast.TypeExpr {
	rt := &ast.RecordType{Token: p.curToken}
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
		typ := p.parseType()
		if typ == nil {
			return nil
		}
		rt.Fields = append(rt.Fields, ast.TypeField{Name: name, Type: typ})

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		if !p.expectPeek(token.RBRACE) {
			return nil
		}
		break
	}

	rt.End = p.curToken
	return rt
}
