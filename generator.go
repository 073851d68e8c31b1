package exprc

import "github.com/8bitc/exprc/emit"

// GenAttr is the attribute bitset on a Generator descriptor (spec
// §3.4).
type GenAttr uint8

const (
	// GenNoPush: the generator can consume the lhs directly from the
	// primary when the rhs is constant (peephole opportunity).
	GenNoPush GenAttr = 1 << iota
	// GenComm: the operation is commutative, allowing an operand swap
	// when the lhs is constant.
	GenComm
	// GenNoFunc: the operation is not defined for function pointers
	// (ordering comparisons).
	GenNoFunc
)

// Generator is the immutable (token, attribute-bits, emitter op)
// triple of spec §3.4. Tables are fixed slices searched
// linearly (at most 4 entries per level); per spec §9's open
// question, a shared "first match wins" rule stands in for the
// source's TOK_INVALID sentinel termination, and ties (never present
// in the tables below) resolve to the first entry.
type Generator struct {
	Tok  TokenKind
	Attr GenAttr
	Op   emit.OpCode
}

func lookupGenerator(table []Generator, tok TokenKind) (Generator, bool) {
	for _, g := range table {
		if g.Tok == tok {
			return g, true
		}
	}
	return Generator{}, false
}

var multiplicativeTable = []Generator{
	{Tok: TokStar, Attr: GenComm, Op: emit.OpMul},
	{Tok: TokSlash, Attr: GenNoPush, Op: emit.OpDiv},
	{Tok: TokPercent, Attr: GenNoPush, Op: emit.OpMod},
}

var bitAndTable = []Generator{{Tok: TokAmp, Attr: GenComm | GenNoPush, Op: emit.OpAnd}}
var bitXorTable = []Generator{{Tok: TokCaret, Attr: GenComm | GenNoPush, Op: emit.OpXor}}
var bitOrTable = []Generator{{Tok: TokPipe, Attr: GenComm | GenNoPush, Op: emit.OpOr}}

// binaryDispatch is the shared dispatcher for commutative/associative
// integer binaries spec §4.1 describes, used by `*`, `/`, `%`, `&`,
// `^`, `|`. next parses the next-higher precedence level.
func binaryDispatch(ctx *Context, table []Generator, next func(*Context) (ExprDesc, error)) (ExprDesc, error) {
	entrySP := ctx.Emit.StackPtr
	lhs, err := next(ctx)
	if err != nil {
		return lhs, err
	}

	for {
		gen, ok := lookupGenerator(table, ctx.Tokens.Cur().Kind)
		if !ok {
			break
		}
		opSpan := ctx.Tokens.Cur().Pos
		lhsConst := lhs.IsConst()
		foldMark := ctx.Emit.Mark()

		if !(lhsConst && gen.Attr&GenComm != 0) {
			lhs = EnsurePrimary(ctx, lhs)
			w := exprWidth(ctx, lhs.Type)
			ctx.Emit.Push(w)
		}

		ctx.Tokens.Advance()
		rhs, err := next(ctx)
		if err != nil {
			return lhs, err
		}

		result := ctx.Types.ArithmeticConvert(lhs.Type, rhs.Type)

		switch {
		case lhsConst && rhs.IsConst():
			ctx.Emit.RemoveFrom(foldMark)
			ctx.Emit.StackPtr = entrySP
			v := foldBinary(ctx, gen.Op, lhs.IVal, rhs.IVal, result, opSpan)
			lhs = ExprDesc{Type: result, Location: LocNone, RefType: RValue, IVal: v}

		case lhsConst && gen.Attr&GenComm != 0:
			// swap roles: rhs becomes the "left" operand, already on
			// its way to the primary; lhs supplies the constant.
			rhs = EnsurePrimary(ctx, rhs)
			w, f := exprWidth(ctx, result), exprFlags(result)
			ctx.Emit.TypeAdjust(exprWidth(ctx, rhs.Type), w, f)
			emitConstForm(ctx, gen.Op, w, f, lhs.IVal)
			lhs = ExprDesc{Type: result, Location: LocPrimary, RefType: RValue}

		case rhs.IsConst() && gen.Attr&GenNoPush != 0:
			// undo the lhs push: the generator can fold the constant
			// rhs straight into an immediate-form instruction.
			ctx.Emit.RemoveFrom(foldMark)
			ctx.Emit.StackPtr = entrySP
			lhs = EnsurePrimary(ctx, lhs)
			w, f := exprWidth(ctx, result), exprFlags(result)
			ctx.Emit.TypeAdjust(exprWidth(ctx, lhs.Type), w, f)
			emitConstForm(ctx, gen.Op, w, f, rhs.IVal)
			lhs = ExprDesc{Type: result, Location: LocPrimary, RefType: RValue}

		default:
			rhs = EnsurePrimary(ctx, rhs)
			w, f := exprWidth(ctx, result), exprFlags(result)
			ctx.Emit.TypeAdjust(exprWidth(ctx, rhs.Type), w, f)
			ctx.Emit.BinaryOp(gen.Op, w, f)
			ctx.Emit.Pop(exprWidth(ctx, lhs.Type))
			lhs = ExprDesc{Type: result, Location: LocPrimary, RefType: RValue}
		}
	}
	return lhs, nil
}

func emitConstForm(ctx *Context, op emit.OpCode, w emit.Width, f emit.Flags, v int64) {
	ctx.Emit.Immediate(w, f|emit.FlagConst, v)
	ctx.Emit.BinaryOp(op, w, f|emit.FlagConst)
}
