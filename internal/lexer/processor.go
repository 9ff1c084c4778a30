package lexer

import (
	"strings"

	"github.com/funvibe/iclc/internal/diagnostics"
	"github.com/funvibe/iclc/internal/pipeline"
	"github.com/funvibe/iclc/internal/token"
)

type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	l := New(ctx.SourceCode)

	var tokens []token.Token
	for {
		tok := l.NextToken()
		if tok.Type == token.ILLEGAL {
			ctx.AddError(illegalTokenError(tok))
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}

	ctx.TokenStream = token.NewStream(tokens)
	return ctx
}

func illegalTokenError(tok token.Token) *diagnostics.DiagnosticError {
	switch {
	case strings.HasPrefix(tok.Lexeme, `"`):
		return diagnostics.NewError(diagnostics.ErrL002, tok, "unterminated string literal")
	case tok.Lexeme != "" && isDigit(rune(tok.Lexeme[0])):
		return diagnostics.NewErrorf(diagnostics.ErrL003, tok, "malformed number %q", tok.Lexeme)
	}
	return diagnostics.NewErrorf(diagnostics.ErrL001, tok, "illegal character %q", tok.Lexeme)
}
