package exprc

import "github.com/8bitc/exprc/emit"

var compoundAssignOps = map[TokenKind]emit.OpCode{
	TokStarEq:    emit.OpMul,
	TokSlashEq:   emit.OpDiv,
	TokPercentEq: emit.OpMod,
	TokAmpEq:     emit.OpAnd,
	TokCaretEq:   emit.OpXor,
	TokPipeEq:    emit.OpOr,
	TokShlEq:     emit.OpAsl,
	TokShrEq:     emit.OpAsr,
}

// parseAssignment implements spec §4.7: simple `=` converts the rhs to
// the lvalue's type with coerceAssign, loads it, and stores it;
// compound assignment loads the lvalue's current value, applies the
// operator, and writes back. The constant-fold branch in
// applyCompoundOp is not reached from here, because Load always
// leaves the current value primary-resident rather than constant.
func parseAssignment(ctx *Context) (ExprDesc, error) {
	lhs, err := parseTernary(ctx)
	if err != nil {
		return lhs, err
	}

	switch ctx.Tokens.Cur().Kind {
	case TokAssign:
		span := ctx.Tokens.Cur().Pos
		ctx.Tokens.Advance()
		if !lhs.IsLValue() {
			return ctx.Errorf(span, "assignment requires an lvalue operand"), nil
		}
		if lhs.Flags.Has(FlagBitField) {
			return assignBitField(ctx, lhs, span)
		}
		rhs, err := parseAssignment(ctx)
		if err != nil {
			return rhs, err
		}
		rhs = coerceAssign(ctx, rhs, lhs.Type, span)
		rhs = Load(ctx, rhs)
		return Store(ctx, lhs, lhs.Type), nil

	case TokPlusEq, TokMinusEq:
		return parseAddSubAssign(ctx, lhs, ctx.Tokens.Cur().Kind == TokPlusEq)

	default:
		if op, ok := compoundAssignOps[ctx.Tokens.Cur().Kind]; ok {
			return parseCompoundAssign(ctx, lhs, op)
		}
	}
	return lhs, nil
}

// coerceAssign applies the implicit conversion spec §4.7 describes for
// `=`: narrowing/widening between integer types, and a compatibility
// warning for mismatched pointer types.
func coerceAssign(ctx *Context, rhs ExprDesc, dst *Type, span Span) ExprDesc {
	rhs = decayed(ctx, rhs)
	if dst.IsInt() && rhs.Type.IsInt() && dst.Kind != rhs.Type.Kind {
		if rhs.IsConst() {
			out := rhs
			out.Type = dst
			out.IVal = ctx.Types.Truncate(rhs.IVal, dst)
			return out
		}
		out := EnsurePrimary(ctx, rhs)
		ctx.Emit.TypeAdjust(exprWidth(ctx, rhs.Type), exprWidth(ctx, dst), exprFlags(dst))
		out.Type = dst
		return out
	}
	if dst.IsPointer() && rhs.Type.IsPointer() {
		if ctx.Types.TypeCmp(dst, rhs.Type) == TypeCmpIncompatible {
			ctx.Warnf(span, "assignment from incompatible pointer type")
		}
	}
	return rhs
}

// parseAddSubAssign implements `+=`/`-=` (spec §4.7), which needs
// pointer-scaling the same way `+`/`-` do at the additive level.
func parseAddSubAssign(ctx *Context, lhs ExprDesc, isAdd bool) (ExprDesc, error) {
	span := ctx.Tokens.Cur().Pos
	ctx.Tokens.Advance()
	if !lhs.IsLValue() {
		return ctx.Errorf(span, "compound assignment requires an lvalue operand"), nil
	}
	rhs, err := parseAssignment(ctx)
	if err != nil {
		return rhs, err
	}

	if lhs.Type.IsPointer() {
		amount := rhs
		cur := Load(ctx, lhs)
		entrySP := ctx.Emit.StackPtr
		foldMark := ctx.Emit.Mark()
		var sum ExprDesc
		if isAdd {
			sum, err = addPointerAndInt(ctx, cur, amount, span, false, foldMark, entrySP)
		} else {
			sum, err = subPointerAndInt(ctx, cur, amount, span, false, foldMark, entrySP)
		}
		if err != nil {
			return sum, err
		}
		return Store(ctx, lhs, lhs.Type), nil
	}

	op := emit.OpAdd
	if !isAdd {
		op = emit.OpSub
	}
	return applyCompoundOp(ctx, lhs, rhs, op, span)
}

func parseCompoundAssign(ctx *Context, lhs ExprDesc, op emit.OpCode) (ExprDesc, error) {
	span := ctx.Tokens.Cur().Pos
	ctx.Tokens.Advance()
	if !lhs.IsLValue() {
		return ctx.Errorf(span, "compound assignment requires an lvalue operand"), nil
	}
	rhs, err := parseAssignment(ctx)
	if err != nil {
		return rhs, err
	}
	return applyCompoundOp(ctx, lhs, rhs, op, span)
}

// applyCompoundOp loads the lvalue, applies op against rhs at the
// usual-arithmetic-conversion result type, and stores back, narrowed
// to the lvalue's own type (spec §4.7's "result truncates back to the
// lvalue's declared width").
func applyCompoundOp(ctx *Context, lhs, rhs ExprDesc, op emit.OpCode, span Span) (ExprDesc, error) {
	result := ctx.Types.ArithmeticConvert(lhs.Type, rhs.Type)

	cur := Load(ctx, lhs)

	if cur.IsConst() && rhs.IsConst() {
		v := foldBinary(ctx, op, cur.IVal, rhs.IVal, result, span)
		folded := ExprDesc{Type: result, Location: LocNone, RefType: RValue, IVal: v}
		folded = coerceAssign(ctx, folded, lhs.Type, span)
		_ = Load(ctx, folded)
		return Store(ctx, lhs, lhs.Type), nil
	}

	cur = EnsurePrimary(ctx, cur)
	w, f := exprWidth(ctx, result), exprFlags(result)
	ctx.Emit.TypeAdjust(exprWidth(ctx, lhs.Type), w, f)
	ctx.Emit.Push(w)
	rhs = EnsurePrimary(ctx, rhs)
	ctx.Emit.TypeAdjust(exprWidth(ctx, rhs.Type), w, f)
	ctx.Emit.BinaryOp(op, w, f)
	ctx.Emit.Pop(w)
	ctx.Emit.TypeAdjust(w, exprWidth(ctx, lhs.Type), exprFlags(lhs.Type))
	return Store(ctx, lhs, lhs.Type), nil
}

// assignBitField writes through a bit-field lvalue (spec §4.4/§4.7):
// distinct from ordinary Store because only BitWidth bits of the
// containing byte may change. The write is a read-modify-write: rhs
// is shifted into the field's position and masked to its width, the
// storage byte is read back and masked to everything OUTSIDE the
// field, and the two are combined before the byte is written back.
func assignBitField(ctx *Context, lhs ExprDesc, span Span) (ExprDesc, error) {
	rhs, err := parseAssignment(ctx)
	if err != nil {
		return rhs, err
	}
	if lhs.Field == nil {
		ctx.Internal(span, "bit-field assignment without Field metadata")
	}
	rhs = coerceAssign(ctx, rhs, lhs.Type, span)
	rhs = Load(ctx, rhs)

	w, f := exprWidth(ctx, lhs.Type), exprFlags(lhs.Type)
	mask := (int64(1)<<uint(lhs.Field.BitWidth) - 1) << uint(lhs.Field.BitOffset)

	// positioned = (rhs << BitOffset) & mask
	ctx.Emit.Push(w)
	ctx.Emit.Immediate(w, f, int64(lhs.Field.BitOffset))
	ctx.Emit.BinaryOp(emit.OpAsl, w, f)
	ctx.Emit.Pop(w)
	ctx.Emit.Push(w)
	ctx.Emit.Immediate(w, f|emit.FlagConst, mask)
	ctx.Emit.BinaryOp(emit.OpAnd, w, f|emit.FlagConst)
	ctx.Emit.Pop(w)

	// Hold positioned on the stack while the containing byte is read
	// back and confined to the bits outside the field, then merge.
	ctx.Emit.Push(w)
	_ = Load(ctx, lhs)
	ctx.Emit.Push(w)
	ctx.Emit.Immediate(w, f|emit.FlagConst, ^mask)
	ctx.Emit.BinaryOp(emit.OpAnd, w, f|emit.FlagConst)
	ctx.Emit.Pop(w)
	ctx.Emit.BinaryOp(emit.OpOr, w, f)
	ctx.Emit.Pop(w)

	return Store(ctx, lhs, lhs.Type), nil
}
