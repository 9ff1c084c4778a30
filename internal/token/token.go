package token

import "fmt"

type TokenType string

type Token struct {
	Type    TokenType
	Lexeme  string      // raw source text
	Literal interface{} // parsed value for NUMBER (float64) and STRING (string)
	Line    int
	Column  int
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q %d:%d", t.Type, t.Lexeme, t.Line, t.Column)
}

// Span returns the source span covered by the token.
func (t Token) Span() Span {
	return Span{
		StartLine:   t.Line,
		StartColumn: t.Column,
		EndLine:     t.Line,
		EndColumn:   t.Column + len(t.Lexeme),
	}
}

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	IDENT  TokenType = "IDENT"
	NUMBER TokenType = "NUMBER"
	STRING TokenType = "STRING"

	// Operators
	ASSIGN   TokenType = "="
	WALRUS   TokenType = ":="
	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	ASTERISK TokenType = "*"
	SLASH    TokenType = "/"
	TILDE    TokenType = "~"
	BANG     TokenType = "!"
	EQ       TokenType = "=="
	NOT_EQ   TokenType = "~="
	LT       TokenType = "<"
	LTE      TokenType = "<="
	GT       TokenType = ">"
	GTE      TokenType = ">="
	AND      TokenType = "&&"
	OR       TokenType = "||"
	ARROW    TokenType = "->"

	// Delimiters
	COMMA     TokenType = ","
	SEMICOLON TokenType = ";"
	COLON     TokenType = ":"
	DOT       TokenType = "."
	LPAREN    TokenType = "("
	RPAREN    TokenType = ")"
	LBRACE    TokenType = "{"
	RBRACE    TokenType = "}"

	// Keywords
	LET     TokenType = "LET"
	MUT     TokenType = "MUT"
	TYPE    TokenType = "TYPE"
	IF      TokenType = "IF"
	ELSE    TokenType = "ELSE"
	WHILE   TokenType = "WHILE"
	FN      TokenType = "FN"
	NEW     TokenType = "NEW"
	TRUE    TokenType = "TRUE"
	FALSE   TokenType = "FALSE"
	PRINT   TokenType = "PRINT"
	PRINTLN TokenType = "PRINTLN"
	REF     TokenType = "REF"

	// Type keywords
	NUMBER_T TokenType = "NUMBER_T"
	BOOL_T   TokenType = "BOOL_T"
	STRING_T TokenType = "STRING_T"
	VOID_T   TokenType = "VOID_T"
)

var keywords = map[string]TokenType{
	"let":     LET,
	"mut":     MUT,
	"type":    TYPE,
	"if":      IF,
	"else":    ELSE,
	"while":   WHILE,
	"fn":      FN,
	"new":     NEW,
	"true":    TRUE,
	"false":   FALSE,
	"print":   PRINT,
	"println": PRINTLN,
	"ref":     REF,
	"number":  NUMBER_T,
	"bool":    BOOL_T,
	"string":  STRING_T,
	"void":    VOID_T,
}

// LookupIdent returns the keyword type for ident, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword reports whether ident is reserved.
func IsKeyword(ident string) bool {
	_, ok := keywords[ident]
	return ok
}
