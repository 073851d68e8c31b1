package exprc

import "github.com/8bitc/exprc/emit"

var equalityOps = map[TokenKind]emit.CompareOp{
	TokEqEq: emit.CmpEQ,
	TokNe:   emit.CmpNE,
}

var relationalOps = map[TokenKind]emit.CompareOp{
	TokLt: emit.CmpLT,
	TokLe: emit.CmpLE,
	TokGt: emit.CmpGT,
	TokGe: emit.CmpGE,
}

func parseEquality(ctx *Context) (ExprDesc, error) {
	return parseCompareLevel(ctx, equalityOps, parseRelational)
}

func parseRelational(ctx *Context) (ExprDesc, error) {
	return parseCompareLevel(ctx, relationalOps, parseShift)
}

// parseCompareLevel implements spec §4.8: equality and relational
// operators share the same shape (result is always unsigned char 0/1,
// Tested set so a following `?:`/`&&`/`||`/`if` can skip re-testing),
// differing only in which token table applies and in whether pointer
// operands are allowed (GenNoFunc-equivalent: ordering on function
// pointers is rejected at the relational level only).
func parseCompareLevel(ctx *Context, ops map[TokenKind]emit.CompareOp, next func(*Context) (ExprDesc, error)) (ExprDesc, error) {
	entrySP := ctx.Emit.StackPtr
	lhs, err := next(ctx)
	if err != nil {
		return lhs, err
	}

	for {
		cmp, ok := ops[ctx.Tokens.Cur().Kind]
		if !ok {
			return lhs, nil
		}
		span := ctx.Tokens.Cur().Pos
		ctx.Tokens.Advance()

		lhs = decayed(ctx, lhs)
		lhsConst := lhs.IsConst()
		var pushMark = ctx.Emit.Mark()
		if !lhsConst {
			lhs = EnsurePrimary(ctx, lhs)
			ctx.Emit.Push(exprWidth(ctx, lhs.Type))
		}

		rhs, err := next(ctx)
		if err != nil {
			return lhs, err
		}
		rhs = decayed(ctx, rhs)

		isFuncPtr := func(t *Type) bool { return t.IsFunc() || (t.IsPointer() && t.Elem != nil && t.Elem.IsFunc()) }
		if isOrderCompare(cmp) && (isFuncPtr(lhs.Type) || isFuncPtr(rhs.Type)) {
			ctx.Emit.RemoveFrom(pushMark)
			ctx.Emit.StackPtr = entrySP
			return ctx.Errorf(span, "ordering comparison of function pointers is not allowed"), nil
		}

		result := compareOperandType(ctx, lhs.Type, rhs.Type)
		bothSigned := !lhs.Type.IsUnsigned() && !rhs.Type.IsUnsigned()

		if lhsConst && rhs.IsConst() {
			v := foldCompare(cmp, lhs.IVal, rhs.IVal, bothSigned)
			lhs = boolDesc(ctx, v)
			continue
		}

		if rhs.IsConst() {
			if isOrderCompare(cmp) {
				if v, determined := rangeDeterminedCompare(ctx, cmp, lhs.Type, rhs.IVal, span); determined {
					ctx.Emit.RemoveFrom(pushMark)
					ctx.Emit.StackPtr = entrySP
					lhs = boolDesc(ctx, v)
					continue
				}
			}
			ctx.Emit.RemoveFrom(pushMark)
			ctx.Emit.StackPtr = entrySP
			lhs = EnsurePrimary(ctx, lhs)
			w, f := exprWidth(ctx, result), exprFlags(result)
			ctx.Emit.TypeAdjust(exprWidth(ctx, lhs.Type), w, f)
			ctx.Emit.Immediate(w, f|emit.FlagConst, rhs.IVal)
			ctx.Emit.Compare(cmp, w, f|emit.FlagConst)
			lhs = boolPrimary(ctx)
			continue
		}

		rhs = EnsurePrimary(ctx, rhs)
		w, f := exprWidth(ctx, result), exprFlags(result)
		ctx.Emit.TypeAdjust(exprWidth(ctx, rhs.Type), w, f)
		ctx.Emit.Compare(cmp, w, f)
		ctx.Emit.Pop(exprWidth(ctx, lhs.Type))
		lhs = boolPrimary(ctx)
	}
}

// compareOperandType picks the width/signedness a comparison executes
// at: pointers compare at pointer width, otherwise the usual
// arithmetic conversion applies (spec §4.8).
func compareOperandType(ctx *Context, a, b *Type) *Type {
	if a.IsPointer() || b.IsPointer() {
		if a.IsPointer() {
			return a
		}
		return b
	}
	return ctx.Types.ArithmeticConvert(a, b)
}

// rangeDeterminedCompare implements spec §8's "`a < 256` with unsigned
// char `a`" case: when every value operandType can represent compares
// the same way against a constant, the whole comparison is
// compile-time known regardless of a's runtime value. Folding it (with
// a warning) avoids emitting a branch that can provably never go the
// other way.
func rangeDeterminedCompare(ctx *Context, cmp emit.CompareOp, operandType *Type, rhsConst int64, span Span) (bool, bool) {
	lo, hi := ctx.Types.ValueRange(operandType)
	loResult := foldCompare(cmp, lo, rhsConst, !operandType.IsUnsigned())
	hiResult := foldCompare(cmp, hi, rhsConst, !operandType.IsUnsigned())
	if loResult != hiResult {
		return false, false
	}
	if ctx.Config.GetBool("compiler.warn_const_comparison") {
		ctx.Warnf(span, "comparison is always %t for all values of the operand's type", loResult)
	}
	return loResult, true
}

// isOrderCompare reports whether cmp is one of the monotonic ordering
// operators, the only ones rangeDeterminedCompare's endpoint check is
// valid for (equality's truth can hold at an interior point even when
// both endpoints compare false).
func isOrderCompare(cmp emit.CompareOp) bool {
	switch cmp {
	case emit.CmpLT, emit.CmpLE, emit.CmpGT, emit.CmpGE:
		return true
	}
	return false
}

func boolDesc(ctx *Context, v bool) ExprDesc {
	iv := int64(0)
	if v {
		iv = 1
	}
	return ExprDesc{Type: ctx.Types.Bool(), Location: LocNone, RefType: RValue, IVal: iv}
}

func boolPrimary(ctx *Context) ExprDesc {
	out := ExprDesc{Type: ctx.Types.Bool(), Location: LocPrimary, RefType: RValue}
	out.SetTested()
	return out
}
