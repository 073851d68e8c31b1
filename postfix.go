package exprc

import "github.com/8bitc/exprc/emit"

// parsePostfix implements spec §4.4: array subscript, function call
// (delegated to parseCall), `.`/`->` member access, and trailing
// `++`/`--` (which enqueue a deferred mutation rather than emitting
// code immediately, per spec §3.2).
func parsePostfix(ctx *Context) (ExprDesc, error) {
	e, err := parsePrimary(ctx)
	if err != nil {
		return e, err
	}

	for {
		switch ctx.Tokens.Cur().Kind {
		case TokLBracket:
			e, err = parseSubscript(ctx, e)
		case TokLParen:
			e, err = parseCall(ctx, decayed(ctx, e))
		case TokDot:
			e, err = parseMember(ctx, e, false)
		case TokArrow:
			e, err = parseMember(ctx, e, true)
		case TokPlusPlus:
			e, err = parsePostIncDec(ctx, e, DeferredPostInc)
		case TokMinusMinus:
			e, err = parsePostIncDec(ctx, e, DeferredPostDec)
		default:
			return e, nil
		}
		if err != nil {
			return e, err
		}
	}
}

// parseSubscript implements `a[i]` as `*(a + i)` per spec §4.4's
// note that subscripting is pointer arithmetic plus dereference. base
// is pushed before the index is parsed, not after, for the same
// reason parseAdditive pushes its lhs first: a non-trivial index
// expression must never be able to clobber base while it's still only
// resident in the primary register.
func parseSubscript(ctx *Context, base ExprDesc) (ExprDesc, error) {
	span := ctx.Tokens.Cur().Pos
	ctx.Tokens.Advance() // consume `[`

	base = decayed(ctx, base)
	entrySP := ctx.Emit.StackPtr
	foldMark := ctx.Emit.Mark()
	basePushed := !base.IsConst()
	if basePushed {
		base = EnsurePrimary(ctx, base)
		ctx.Emit.Push(exprWidth(ctx, base.Type))
	}

	idx, err := parseComma(ctx)
	if err != nil {
		return idx, err
	}
	if err := expect(ctx, TokRBracket); err != nil {
		return ctx.Errorf(ctx.Tokens.Cur().Pos, "expected `]` to close subscript"), err
	}

	sum, err := addPointerAndInt(ctx, base, idx, span, basePushed, foldMark, entrySP)
	if err != nil {
		return sum, err
	}
	return dereference(ctx, sum, span)
}

// parseMember implements `.`/`->` (spec §4.4): `a->f` is `(*a).f`.
// Taking the address of a bit-field member is never legal (spec
// invariant 3); the result carries FlagBitField instead of
// FlagAddressOf for one.
func parseMember(ctx *Context, base ExprDesc, arrow bool) (ExprDesc, error) {
	span := ctx.Tokens.Cur().Pos
	ctx.Tokens.Advance() // consume `.` or `->`
	name := ctx.Tokens.Cur().SVal
	ctx.Tokens.Advance()

	obj := base
	if arrow {
		var err error
		obj, err = dereference(ctx, base, span)
		if err != nil {
			return obj, err
		}
	}
	if !obj.Type.IsStructUnion() {
		return ctx.Errorf(span, "member reference on a non-struct/union type"), nil
	}
	field, ok := obj.Type.FindField(name)
	if !ok {
		return ctx.Errorf(span, "no member named `%s`", name), nil
	}

	out := obj
	out.Type = field.Type
	out.Field = &field
	if field.BitField {
		out.Flags |= FlagBitField
		out.Flags &^= FlagAddressOf
	}
	// obj.IVal is a static frame/data offset for LocStack/LocGlobal
	// bases, so the field offset simply adds onto it. A LocExpr base
	// (reached through a pointer, e.g. `->`, or a prior `.` on top of
	// one) has no such static offset: its address lives in the primary
	// register, so the field offset has to be added there instead.
	if obj.Location == LocExpr {
		if field.Offset != 0 {
			w := exprWidth(ctx, ctx.Types.Pointer(field.Type))
			ctx.Emit.Push(w)
			ctx.Emit.Immediate(w, 0, int64(field.Offset))
			ctx.Emit.BinaryOp(emit.OpAdd, w, 0)
			ctx.Emit.Pop(w)
		}
	} else {
		out.IVal += int64(field.Offset)
	}
	out.ClearTested()
	return out, nil
}

// dereference implements unary `*` applied to a pointer (spec §4.5):
// it loads the pointer value into the primary register if it is not
// already there, but never fetches the pointee — it reclassifies the
// result as an addressable LocExpr so the eventual Load/Store decides
// whether a fetch is needed.
func dereference(ctx *Context, e ExprDesc, span Span) (ExprDesc, error) {
	if !e.Type.IsPointer() {
		return ctx.Errorf(span, "indirection requires a pointer operand"), nil
	}
	e = EnsurePrimary(ctx, e)
	return ExprDesc{Type: e.Type.Elem, Location: LocExpr, RefType: LValue}, nil
}

// parsePostIncDec implements postfix `++`/`--` (spec §3.2, §4.11): the
// *value before* mutation is what the expression evaluates to, so the
// old value is loaded first and the mutation itself is deferred to
// the next sequence point.
func parsePostIncDec(ctx *Context, e ExprDesc, kind DeferredKind) (ExprDesc, error) {
	span := ctx.Tokens.Cur().Pos
	ctx.Tokens.Advance()
	if !e.IsLValue() {
		return ctx.Errorf(span, "increment/decrement requires an lvalue operand"), nil
	}
	old := Load(ctx, e)
	ctx.Deferred.Push(DeferredOp{Expr: e, Kind: kind})
	return old, nil
}
