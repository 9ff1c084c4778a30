package token

import "fmt"

// Span is a region of source text. Lines and columns are 1-based;
// EndColumn is exclusive.
type Span struct {
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// Join returns the smallest span covering both a and b.
func Join(a, b Span) Span {
	if a.IsZero() {
		return b
	}
	if b.IsZero() {
		return a
	}
	out := a
	if b.StartLine < out.StartLine || (b.StartLine == out.StartLine && b.StartColumn < out.StartColumn) {
		out.StartLine, out.StartColumn = b.StartLine, b.StartColumn
	}
	if b.EndLine > out.EndLine || (b.EndLine == out.EndLine && b.EndColumn > out.EndColumn) {
		out.EndLine, out.EndColumn = b.EndLine, b.EndColumn
	}
	return out
}

func (s Span) IsZero() bool {
	return s == Span{}
}

func (s Span) String() string {
	if s.StartLine == s.EndLine {
		return fmt.Sprintf("%d:%d-%d", s.StartLine, s.StartColumn, s.EndColumn)
	}
	return fmt.Sprintf("%d:%d-%d:%d", s.StartLine, s.StartColumn, s.EndLine, s.EndColumn)
}
