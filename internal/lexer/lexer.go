package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/funvibe/iclc/internal/token"
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = len(l.input)
		l.readPosition = len(l.input) + 1
		l.column++
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

// two consumes a two-character operator starting at the current char.
func (l *Lexer) two(typ token.TokenType) token.Token {
	line, col := l.line, l.column
	first := l.ch
	l.readChar()
	lexeme := string(first) + string(l.ch)
	l.readChar()
	return token.Token{Type: typ, Lexeme: lexeme, Line: line, Column: col}
}

func (l *Lexer) one(typ token.TokenType) token.Token {
	tok := token.Token{Type: typ, Lexeme: string(l.ch), Line: l.line, Column: l.column}
	l.readChar()
	return tok
}

func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	switch l.ch {
	case 0:
		return token.Token{Type: token.EOF, Line: l.line, Column: l.column}
	case '=':
		if l.peekChar() == '=' {
			return l.two(token.EQ)
		}
		return l.one(token.ASSIGN)
	case ':':
		if l.peekChar() == '=' {
			return l.two(token.WALRUS)
		}
		return l.one(token.COLON)
	case '~':
		if l.peekChar() == '=' {
			return l.two(token.NOT_EQ)
		}
		return l.one(token.TILDE)
	case '<':
		if l.peekChar() == '=' {
			return l.two(token.LTE)
		}
		return l.one(token.LT)
	case '>':
		if l.peekChar() == '=' {
			return l.two(token.GTE)
		}
		return l.one(token.GT)
	case '-':
		if l.peekChar() == '>' {
			return l.two(token.ARROW)
		}
		return l.one(token.MINUS)
	case '&':
		if l.peekChar() == '&' {
			return l.two(token.AND)
		}
		return l.one(token.ILLEGAL)
	case '|':
		if l.peekChar() == '|' {
			return l.two(token.OR)
		}
		return l.one(token.ILLEGAL)
	case '+':
		return l.one(token.PLUS)
	case '*':
		return l.one(token.ASTERISK)
	case '/':
		return l.one(token.SLASH)
	case '!':
		return l.one(token.BANG)
	case ',':
		return l.one(token.COMMA)
	case ';':
		return l.one(token.SEMICOLON)
	case '.':
		return l.one(token.DOT)
	case '(':
		return l.one(token.LPAREN)
	case ')':
		return l.one(token.RPAREN)
	case '{':
		return l.one(token.LBRACE)
	case '}':
		return l.one(token.RBRACE)
	case '"':
		return l.readString()
	}

	if isLetter(l.ch) {
		line, col := l.line, l.column
		ident := l.readIdentifier()
		return token.Token{Type: token.LookupIdent(ident), Lexeme: ident, Line: line, Column: col}
	}
	if isDigit(l.ch) {
		return l.readNumber()
	}
	return l.one(token.ILLEGAL)
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		default:
			return
		}
	}
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readNumber reads digits with an optional fraction. A trailing '.' not
// followed by a digit is left for field access.
func (l *Lexer) readNumber() token.Token {
	line, col := l.line, l.column
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	lexeme := l.input[start:l.position]
	if isLetter(l.ch) {
		for isLetter(l.ch) || isDigit(l.ch) {
			l.readChar()
		}
		return token.Token{Type: token.ILLEGAL, Lexeme: l.input[start:l.position], Line: line, Column: col}
	}
	value, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		return token.Token{Type: token.ILLEGAL, Lexeme: lexeme, Line: line, Column: col}
	}
	return token.Token{Type: token.NUMBER, Lexeme: lexeme, Literal: value, Line: line, Column: col}
}

// readString reads a double-quoted literal. An unterminated string yields
// ILLEGAL with the partial lexeme.
func (l *Lexer) readString() token.Token {
	line, col := l.line, l.column
	start := l.position
	l.readChar() // opening quote

	var sb strings.Builder
	for l.ch != '"' {
		if l.ch == 0 || l.ch == '\n' {
			return token.Token{Type: token.ILLEGAL, Lexeme: l.input[start:l.position], Line: line, Column: col}
		}
		if l.ch == '\\' {
			l.readChar()
			if l.ch == 0 {
				return token.Token{Type: token.ILLEGAL, Lexeme: l.input[start:l.position], Line: line, Column: col}
			}
			switch l.ch {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case '"':
				sb.WriteRune('"')
			case '\\':
				sb.WriteRune('\\')
			default:
				sb.WriteRune('\\')
				sb.WriteRune(l.ch)
			}
			l.readChar()
			continue
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	l.readChar() // closing quote
	return token.Token{Type: token.STRING, Lexeme: l.input[start:l.position], Literal: sb.String(), Line: line, Column: col}
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}
