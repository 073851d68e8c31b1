package exprc

import "fmt"

// Position identifies a single point in the token stream that fed the
// parser, in terms the surrounding lexer already computed. The core
// never reads source bytes itself (§6: the lexer is an external
// collaborator), so unlike a from-scratch parser it carries positions
// through rather than deriving them from an input buffer.
type Position struct {
	Line   int
	Column int
	Offset int
	File   string
}

// Span brackets a range of input between two positions, used to
// anchor diagnostics.
type Span struct {
	Start Position
	End   Position
}

func NewSpan(start, end Position) Span {
	return Span{Start: start, End: end}
}

func (s Span) String() string {
	if s.Start.Line == s.End.Line {
		if s.Start.Column == s.End.Column {
			return fmt.Sprintf("%d:%d", s.Start.Line, s.Start.Column)
		}
		return fmt.Sprintf("%d:%d..%d", s.Start.Line, s.Start.Column, s.End.Column)
	}
	return fmt.Sprintf("%d:%d..%d:%d", s.Start.Line, s.Start.Column, s.End.Line, s.End.Column)
}
