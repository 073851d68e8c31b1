package exprc

import "github.com/8bitc/exprc/emit"

var shiftTable = []Generator{
	{Tok: TokShl, Attr: GenNoPush, Op: emit.OpAsl},
	{Tok: TokShr, Attr: GenNoPush, Op: emit.OpAsr},
}

// parseBitOr, parseBitXor, parseBitAnd, parseMultiplicative wire the
// generator tables built in generator.go into the precedence chain
// (spec §4.1). parseShift reuses the same dispatcher: it behaves
// identically to the commutative/associative case with GenComm unset,
// which the dispatcher already handles by always pushing the lhs.
func parseBitOr(ctx *Context) (ExprDesc, error) {
	return binaryDispatch(ctx, bitOrTable, parseBitXor)
}

func parseBitXor(ctx *Context) (ExprDesc, error) {
	return binaryDispatch(ctx, bitXorTable, parseBitAnd)
}

func parseBitAnd(ctx *Context) (ExprDesc, error) {
	return binaryDispatch(ctx, bitAndTable, parseEquality)
}

func parseShift(ctx *Context) (ExprDesc, error) {
	return binaryDispatch(ctx, shiftTable, parseAdditive)
}

func parseMultiplicative(ctx *Context) (ExprDesc, error) {
	return binaryDispatch(ctx, multiplicativeTable, parseUnary)
}

// parseAdditive implements spec §4.1's pointer-arithmetic special
// case for `+`/`-`: pointer+int and int+pointer scale by the pointee
// size, pointer-pointer yields an element count, and everything else
// is plain arithmetic (constant-folded when both sides are constant).
// Like binaryDispatch, lhs is speculatively pushed before rhs is
// parsed at all — never after — so a non-trivial rhs can't clobber an
// lhs that's still only resident in the primary register; the fold
// helpers in arith.go undo that push when it turns out unneeded.
func parseAdditive(ctx *Context) (ExprDesc, error) {
	lhs, err := parseMultiplicative(ctx)
	if err != nil {
		return lhs, err
	}

	for {
		var isAdd bool
		switch ctx.Tokens.Cur().Kind {
		case TokPlus:
			isAdd = true
		case TokMinus:
			isAdd = false
		default:
			return lhs, nil
		}
		span := ctx.Tokens.Cur().Pos
		ctx.Tokens.Advance()
		lhs = decayed(ctx, lhs)

		entrySP := ctx.Emit.StackPtr
		foldMark := ctx.Emit.Mark()
		lhsPushed := !lhs.IsConst()
		if lhsPushed {
			lhs = EnsurePrimary(ctx, lhs)
			ctx.Emit.Push(exprWidth(ctx, lhs.Type))
		}

		rhs, err := parseMultiplicative(ctx)
		if err != nil {
			return rhs, err
		}
		rhs = decayed(ctx, rhs)

		switch {
		case lhs.Type.IsPointer() && rhs.Type.IsInt() && isAdd:
			lhs, err = addPointerAndInt(ctx, lhs, rhs, span, lhsPushed, foldMark, entrySP)
		case lhs.Type.IsPointer() && rhs.Type.IsInt() && !isAdd:
			lhs, err = subPointerAndInt(ctx, lhs, rhs, span, lhsPushed, foldMark, entrySP)
		case lhs.Type.IsInt() && rhs.Type.IsPointer() && isAdd:
			lhs, err = addIntToPointer(ctx, lhs, rhs, span, lhsPushed, foldMark, entrySP)
		case lhs.Type.IsPointer() && rhs.Type.IsPointer() && !isAdd:
			lhs, err = diffPointers(ctx, lhs, rhs, span, lhsPushed, foldMark, entrySP)
		default:
			op := emit.OpAdd
			if !isAdd {
				op = emit.OpSub
			}
			lhs, err = combineArith(ctx, lhs, rhs, op, span, lhsPushed, foldMark, entrySP)
		}
		if err != nil {
			return lhs, err
		}
	}
}

// combineArith folds a plain (non-pointer) binary add/sub when both
// operands are already constant, otherwise emits the generic
// convert/op/pop sequence against the lhs parseAdditive already
// pushed (spec §4.1's fallback path, shared with additive since it
// sits outside the generator-table dispatcher).
func combineArith(ctx *Context, lhs, rhs ExprDesc, op emit.OpCode, span Span, lhsPushed bool, foldMark emit.Mark, entrySP int) (ExprDesc, error) {
	result := ctx.Types.ArithmeticConvert(lhs.Type, rhs.Type)

	if lhs.IsConst() && rhs.IsConst() {
		if lhsPushed {
			ctx.Emit.RemoveFrom(foldMark)
			ctx.Emit.StackPtr = entrySP
		}
		v := foldBinary(ctx, op, lhs.IVal, rhs.IVal, result, span)
		return ExprDesc{Type: result, Location: LocNone, RefType: RValue, IVal: v}, nil
	}

	w, f := exprWidth(ctx, result), exprFlags(result)
	if !lhsPushed {
		lhs = EnsurePrimary(ctx, lhs)
		ctx.Emit.TypeAdjust(exprWidth(ctx, lhs.Type), w, f)
		ctx.Emit.Push(w)
	}
	rhs = EnsurePrimary(ctx, rhs)
	ctx.Emit.TypeAdjust(exprWidth(ctx, rhs.Type), w, f)
	ctx.Emit.BinaryOp(op, w, f)
	ctx.Emit.Pop(w)
	return ExprDesc{Type: result, Location: LocPrimary, RefType: RValue}, nil
}

// parseComma implements spec §4.1's lowest-precedence level: each
// operand but the last is parsed for effect only (a no-effect warning
// fires per spec §12 when it plainly has none), and the whole
// expression's value and type are the last operand's (spec §9: "the
// comma operator discards... its left operand entirely").
func parseComma(ctx *Context) (ExprDesc, error) {
	e, err := parseAssignment(ctx)
	if err != nil {
		return e, err
	}
	for ctx.Tokens.Cur().Kind == TokComma {
		warnIfNoEffect(ctx, e)
		ctx.Tokens.Advance()
		e, err = parseAssignment(ctx)
		if err != nil {
			return e, err
		}
	}
	return e, nil
}

// warnIfNoEffect implements the supplemented diagnostic of spec §12:
// a comma operand that is a bare constant or a bare reference to a
// quasi-constant location (absolute, global, static, register, literal
// or code address) can never have a side effect, so evaluating it for
// effect only is almost certainly a mistake (a stray `,` instead of
// `;`, a dropped call). A bare stack-local reference is not warned
// about.
func warnIfNoEffect(ctx *Context, e ExprDesc) {
	if !ctx.Config.GetBool("compiler.warn_no_effect") {
		return
	}
	if e.Flags.Has(FlagMayHaveNoEffect) {
		return
	}
	if e.IsConst() || e.Location.Quasi() {
		ctx.Warnf(Span{}, "expression result unused")
	}
}

// --- public entry points (spec §6) ---

// hie0 is the widest entry point: the full comma expression.
func hie0(ctx *Context) (ExprDesc, error) { return parseComma(ctx) }

// hie1 parses an assignment-expression, the grammar production one
// level inside a comma expression.
func hie1(ctx *Context) (ExprDesc, error) { return parseAssignment(ctx) }

func hie2(ctx *Context) (ExprDesc, error) { return parseTernary(ctx) }
func hie3(ctx *Context) (ExprDesc, error) { return parseLogicalOr(ctx) }
func hie4(ctx *Context) (ExprDesc, error) { return parseLogicalAnd(ctx) }
func hie5(ctx *Context) (ExprDesc, error) { return parseBitOr(ctx) }
func hie6(ctx *Context) (ExprDesc, error) { return parseBitXor(ctx) }
func hie7(ctx *Context) (ExprDesc, error) { return parseBitAnd(ctx) }
func hie8(ctx *Context) (ExprDesc, error) { return parseEquality(ctx) }
func hie9(ctx *Context) (ExprDesc, error) { return parseRelational(ctx) }

// hie10 collapses shift/additive/multiplicative/unary/postfix/primary
// into the single stratum spec §9's worked example calls "hie10 for a
// constant unary operand": this module exposes one entry point for
// everything at or above shift precedence rather than a
// named hie11..hie15, since nothing above this level ever needs to be
// entered independently from outside the cascade.
func hie10(ctx *Context) (ExprDesc, error) { return parseShift(ctx) }
