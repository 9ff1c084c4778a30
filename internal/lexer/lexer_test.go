package lexer

import (
	"testing"

	"github.com/funvibe/iclc/internal/diagnostics"
	"github.com/funvibe/iclc/internal/pipeline"
	"github.com/funvibe/iclc/internal/token"
)

func TestNextToken(t *testing.T) {
	input := `let mut x: number = 2.5; // comment
x := x + 1;
fn(a: ref bool) -> bool { !a && ~true || a ~= b };
{a: "hi\n", b: 1}.a <= >= < > == -> print println
`

	tests := []struct {
		expectedType   token.TokenType
		expectedLexeme string
	}{
		{token.LET, "let"},
		{token.MUT, "mut"},
		{token.IDENT, "x"},
		{token.COLON, ":"},
		{token.NUMBER_T, "number"},
		{token.ASSIGN, "="},
		{token.NUMBER, "2.5"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "x"},
		{token.WALRUS, ":="},
		{token.IDENT, "x"},
		{token.PLUS, "+"},
		{token.NUMBER, "1"},
		{token.SEMICOLON, ";"},
		{token.FN, "fn"},
		{token.LPAREN, "("},
		{token.IDENT, "a"},
		{token.COLON, ":"},
		{token.REF, "ref"},
		{token.BOOL_T, "bool"},
		{token.RPAREN, ")"},
		{token.ARROW, "->"},
		{token.BOOL_T, "bool"},
		{token.LBRACE, "{"},
		{token.BANG, "!"},
		{token.IDENT, "a"},
		{token.AND, "&&"},
		{token.TILDE, "~"},
		{token.TRUE, "true"},
		{token.OR, "||"},
		{token.IDENT, "a"},
		{token.NOT_EQ, "~="},
		{token.IDENT, "b"},
		{token.RBRACE, "}"},
		{token.SEMICOLON, ";"},
		{token.LBRACE, "{"},
		{token.IDENT, "a"},
		{token.COLON, ":"},
		{token.STRING, `"hi\n"`},
		{token.COMMA, ","},
		{token.IDENT, "b"},
		{token.COLON, ":"},
		{token.NUMBER, "1"},
		{token.RBRACE, "}"},
		{token.DOT, "."},
		{token.IDENT, "a"},
		{token.LTE, "<="},
		{token.GTE, ">="},
		{token.LT, "<"},
		{token.GT, ">"},
		{token.EQ, "=="},
		{token.ARROW, "->"},
		{token.PRINT, "print"},
		{token.PRINTLN, "println"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (%q)", i, tt.expectedType, tok.Type, tok.Lexeme)
		}
		if tok.Lexeme != tt.expectedLexeme {
			t.Fatalf("tests[%d] - lexeme wrong. expected=%q, got=%q", i, tt.expectedLexeme, tok.Lexeme)
		}
	}
}

func TestLiterals(t *testing.T) {
	l := New(`42 0.125 "a\"b\\c\td"`)

	tok := l.NextToken()
	if tok.Literal.(float64) != 42 {
		t.Errorf("expected 42, got %v", tok.Literal)
	}
	tok = l.NextToken()
	if tok.Literal.(float64) != 0.125 {
		t.Errorf("expected 0.125, got %v", tok.Literal)
	}
	tok = l.NextToken()
	if tok.Literal.(string) != "a\"b\\c\td" {
		t.Errorf("unexpected string literal %q", tok.Literal)
	}
}

func TestPositions(t *testing.T) {
	l := New("let x\n  = 1")
	expected := [][2]int{{1, 1}, {1, 5}, {2, 3}, {2, 5}}
	for i, pos := range expected {
		tok := l.NextToken()
		if tok.Line != pos[0] || tok.Column != pos[1] {
			t.Errorf("token %d (%q) at %d:%d, want %d:%d", i, tok.Lexeme, tok.Line, tok.Column, pos[0], pos[1])
		}
	}
}

func TestNumberFollowedByField(t *testing.T) {
	l := New("1.x")
	if tok := l.NextToken(); tok.Type != token.NUMBER || tok.Lexeme != "1" {
		t.Fatalf("expected NUMBER 1, got %s", tok)
	}
	if tok := l.NextToken(); tok.Type != token.DOT {
		t.Fatalf("expected DOT, got %s", tok)
	}
}

func TestLexerProcessorErrors(t *testing.T) {
	tests := []struct {
		input string
		code  diagnostics.ErrorCode
	}{
		{"let x = 1 # 2", diagnostics.ErrL001},
		{`"open`, diagnostics.ErrL002},
		{`"open\`, diagnostics.ErrL002},
		{"12abc", diagnostics.ErrL003},
		{"a & b", diagnostics.ErrL001},
	}

	for _, tt := range tests {
		ctx := pipeline.NewPipelineContext(tt.input)
		ctx = (&LexerProcessor{}).Process(ctx)
		if len(ctx.Errors) == 0 {
			t.Errorf("%q: expected an error", tt.input)
			continue
		}
		if ctx.Errors[0].Code != tt.code {
			t.Errorf("%q: code = %s, want %s", tt.input, ctx.Errors[0].Code, tt.code)
		}
		if ctx.TokenStream == nil {
			t.Errorf("%q: token stream should still be produced", tt.input)
		}
	}
}
