package emit

import (
	"fmt"
	"strings"

	"github.com/8bitc/exprc/asmfmt"
)

// Program is the append-only code buffer: a sequence of target
// instructions with positional marks that remain valid under appends
// and support delete/move of closed ranges (spec §3.3, §4.12).
// Grounded on vm_program.go's Program.code []Instruction, simplified
// since a symbolic assembly stream has no byte-addressed jump targets
// to maintain a separate identifiers/strings table for.
type Program struct {
	code []Instr
}

// Mark is an opaque position in the code buffer, valid until the
// buffer is mutated at or before that position. Capturing one and
// testing it for emptiness against the current end is O(1); Remove
// and Move are allowed to be O(n) (spec §9: "They need not be cheap in
// the worst case but must be O(1) to capture and to test for
// emptiness").
type Mark int

func (p *Program) Len() int { return len(p.code) }

func (p *Program) Emit(i Instr) {
	p.code = append(p.code, i)
}

// Mark returns the current write position, a GetCodePos per §6.
func (p *Program) Mark() Mark { return Mark(len(p.code)) }

// IsEmpty reports whether no instructions were emitted between two
// marks, the "code_range_is_empty" collaborator of §6 — used to tell
// whether a sub-expression had any side effects.
func (p *Program) IsEmpty(from, to Mark) bool { return from >= to }

// RemoveFrom deletes every instruction from the mark to the current
// end of the buffer. This is the form spec §4.1.d/§4.10 actually need:
// undoing a push once a constant fold makes it redundant, or
// discarding the code emitted while parsing in unevaluated mode.
func (p *Program) RemoveFrom(from Mark) {
	p.code = p.code[:from]
}

// RemoveRange deletes a closed range [from, to) that is not
// necessarily at the tail of the buffer.
func (p *Program) RemoveRange(from, to Mark) {
	p.code = append(p.code[:from], p.code[to:]...)
}

// MoveRange relocates the closed range [from, to) so that it
// immediately follows position dest, used by the ternary operator to
// move a branch's type-conversion code so it runs only when that
// branch was actually selected (spec §4.10).
func (p *Program) MoveRange(from, to, dest Mark) {
	if dest >= from && dest < to {
		return // dest already inside the range being moved: no-op
	}
	chunk := append([]Instr(nil), p.code[from:to]...)
	rest := append(p.code[:from:from], p.code[to:]...)

	insertAt := int(dest)
	if dest > to {
		insertAt -= len(chunk)
	}
	out := make([]Instr, 0, len(rest)+len(chunk))
	out = append(out, rest[:insertAt]...)
	out = append(out, chunk...)
	out = append(out, rest[insertAt:]...)
	p.code = out
}

func (p Program) PrettyString() string {
	return p.prettyString(func(s string, _ asmfmtToken) string { return s })
}

func (p Program) HighlightPrettyString() string {
	theme := asmfmt.DefaultTheme
	return p.prettyString(func(s string, tok asmfmtToken) string {
		var color string
		switch tok {
		case tokMnemonic:
			color = theme.Mnemonic
		case tokOperand:
			color = theme.Operand
		case tokLiteral:
			color = theme.Literal
		case tokLabel:
			color = theme.Label
		case tokComment:
			color = theme.Comment
		}
		if color == "" {
			return s
		}
		return color + s + asmfmt.Reset
	})
}

type asmfmtToken int

const (
	tokNone asmfmtToken = iota
	tokMnemonic
	tokOperand
	tokLiteral
	tokLabel
	tokComment
)

func (p Program) prettyString(format func(string, asmfmtToken) string) string {
	var s strings.Builder
	for idx, in := range p.code {
		if in.Source != "" {
			s.WriteString(format(fmt.Sprintf(";; %s\n", in.Source), tokComment))
		}
		if in.Op == OpLabel {
			s.WriteString(format(fmt.Sprintf("%s:", in.Label), tokLabel))
			s.WriteString("\n")
			continue
		}
		s.WriteString(format(fmt.Sprintf("%06d  ", idx), tokComment))
		s.WriteString(format(in.Mnemonic(), tokMnemonic))
		for _, operand := range operandStrings(in) {
			s.WriteString(" ")
			s.WriteString(operand)
		}
		s.WriteString("\n")
	}
	return s.String()
}

func operandStrings(in Instr) []string {
	var out []string
	switch in.Op {
	case OpImmediate, OpSpace, OpInc, OpDec, OpScale:
		out = append(out, fmt.Sprintf("#%d", in.IVal))
	case OpGetLocal, OpPutLocal:
		out = append(out, fmt.Sprintf("%d(fp)", in.IVal))
	case OpGetStatic, OpPutStatic, OpCall, OpAddEqStatic, OpSubEqStatic:
		out = append(out, in.Name)
	case OpTrueJump, OpFalseJump, OpJump:
		out = append(out, in.Label.String())
	case OpCompare:
		out = append(out, in.Cmp.String())
	case OpRaw:
		out = append(out, in.Text)
	}
	if in.Width != 0 {
		out = append(out, widthSuffix(in.Width, in.Flags))
	}
	return out
}

func widthSuffix(w Width, f Flags) string {
	sign := "s"
	if !f.Signed() {
		sign = "u"
	}
	return fmt.Sprintf("%s%d", sign, w*8)
}
