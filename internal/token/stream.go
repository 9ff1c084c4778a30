package token

// Stream is a cursor over a fully lexed token slice. The final token is
// always EOF, and reading past it keeps returning EOF.
type Stream struct {
	tokens []Token
	pos    int
}

func NewStream(tokens []Token) *Stream {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != EOF {
		tokens = append(tokens, Token{Type: EOF})
	}
	return &Stream{tokens: tokens}
}

// Next returns the current token and advances.
func (s *Stream) Next() Token {
	tok := s.Peek(0)
	if s.pos < len(s.tokens)-1 {
		s.pos++
	}
	return tok
}

// Peek returns the token n positions ahead without consuming anything.
func (s *Stream) Peek(n int) Token {
	i := s.pos + n
	if i >= len(s.tokens) {
		return s.tokens[len(s.tokens)-1]
	}
	return s.tokens[i]
}

// Tokens returns every token including the trailing EOF.
func (s *Stream) Tokens() []Token {
	return s.tokens
}
