package exprc

// parseUnary implements spec §4.5: prefix `++`/`--`, unary `+ - ~ !`,
// `*` (indirection, delegated to dereference in postfix.go), `&`
// (address-of), and `sizeof`, falling through to parsePostfix for
// everything else.
func parseUnary(ctx *Context) (ExprDesc, error) {
	tok := ctx.Tokens.Cur()

	switch tok.Kind {
	case TokPlusPlus, TokMinusMinus:
		return parsePreIncDec(ctx, tok.Kind == TokPlusPlus)

	case TokAmp:
		span := tok.Pos
		ctx.Tokens.Advance()
		e, err := parseUnary(ctx)
		if err != nil {
			return e, err
		}
		return addressOf(ctx, e, span)

	case TokStar:
		span := tok.Pos
		ctx.Tokens.Advance()
		e, err := parseUnary(ctx)
		if err != nil {
			return e, err
		}
		e = decayed(ctx, e)
		return dereference(ctx, e, span)

	case TokMinus:
		return parseUnaryArith(ctx, opNegate)
	case TokPlus:
		ctx.Tokens.Advance()
		return parseCastOperand(ctx)
	case TokTilde:
		return parseUnaryArith(ctx, opComplement)
	case TokBang:
		return parseUnaryArith(ctx, opLogicalNot)

	case TokSizeof:
		return parseSizeof(ctx)

	default:
		return parsePostfix(ctx)
	}
}

// parseCastOperand is the entry point a cast expression would graft
// onto (spec §4.5's "unary operand, through the cast level"); no cast
// syntax is in scope here so it simply forwards to parseUnary (spec
// §9's stated simplification: no explicit `(type)expr` cast grammar).
func parseCastOperand(ctx *Context) (ExprDesc, error) {
	return parseUnary(ctx)
}

type unaryArithOp int

const (
	opNegate unaryArithOp = iota
	opComplement
	opLogicalNot
)

func parseUnaryArith(ctx *Context, op unaryArithOp) (ExprDesc, error) {
	span := ctx.Tokens.Cur().Pos
	ctx.Tokens.Advance()
	e, err := parseCastOperand(ctx)
	if err != nil {
		return e, err
	}
	e = decayed(ctx, e)

	if !e.Type.IsScalar() {
		return ctx.Errorf(span, "unary operator requires a scalar operand"), nil
	}

	promoted := ctx.Types.IntPromotion(e.Type)
	if e.Type.IsPointer() {
		promoted = e.Type
	}

	if e.IsConst() {
		v := ctx.Types.Truncate(e.IVal, promoted)
		switch op {
		case opNegate:
			v = ctx.Types.Truncate(-v, promoted)
		case opComplement:
			v = ctx.Types.Truncate(^v, promoted)
		case opLogicalNot:
			if v == 0 {
				v = 1
			} else {
				v = 0
			}
			return ExprDesc{Type: ctx.Types.Bool(), Location: LocNone, RefType: RValue, IVal: v}, nil
		}
		return ExprDesc{Type: promoted, Location: LocNone, RefType: RValue, IVal: v}, nil
	}

	e = EnsurePrimary(ctx, e)
	w, f := exprWidth(ctx, promoted), exprFlags(promoted)
	switch op {
	case opNegate:
		ctx.Emit.Neg(w, f)
		return ExprDesc{Type: promoted, Location: LocPrimary, RefType: RValue}, nil
	case opComplement:
		ctx.Emit.Com(w, f)
		return ExprDesc{Type: promoted, Location: LocPrimary, RefType: RValue}, nil
	default: // opLogicalNot
		ctx.Emit.BNeg(w, f)
		out := ExprDesc{Type: ctx.Types.Bool(), Location: LocPrimary, RefType: RValue}
		out.SetTested()
		return out, nil
	}
}

// addressOf implements unary `&` (spec §4.5, invariant 3: never legal
// on a bit-field). Arrays and functions are already address-of
// rvalues after decay, so `&` on one is a no-op past validation.
func addressOf(ctx *Context, e ExprDesc, span Span) (ExprDesc, error) {
	if e.Flags.Has(FlagBitField) {
		return ctx.Errorf(span, "cannot take the address of a bit-field"), nil
	}
	if !e.IsLValue() && !e.Type.IsFunc() && !e.Type.IsArray() {
		return ctx.Errorf(span, "cannot take the address of an rvalue"), nil
	}
	if e.Flags.Has(FlagAddressOf) {
		// already an address-of descriptor (array/function decay, or
		// a previous &&label/string literal): nothing further to do.
		out := e
		out.Type = ctx.Types.Pointer(e.Type)
		return out, nil
	}
	PushAddr(ctx, e)
	ctx.Emit.Pop(exprWidth(ctx, ctx.Types.Pointer(e.Type)))
	return ExprDesc{Type: ctx.Types.Pointer(e.Type), Location: LocPrimary, RefType: RValue, Flags: FlagAddressOf}, nil
}

// parsePreIncDec implements prefix `++`/`--` (spec §4.5): unlike the
// postfix form, the mutation happens immediately and the new value is
// what the expression evaluates to.
func parsePreIncDec(ctx *Context, inc bool) (ExprDesc, error) {
	span := ctx.Tokens.Cur().Pos
	ctx.Tokens.Advance()
	e, err := parseUnary(ctx)
	if err != nil {
		return e, err
	}
	if !e.IsLValue() {
		return ctx.Errorf(span, "increment/decrement requires an lvalue operand"), nil
	}

	amount := int64(1)
	if e.Type.IsPointer() {
		amount = int64(ctx.Types.SizeOf(e.Type.Elem))
	}
	loaded := Load(ctx, e)
	w, f := exprWidth(ctx, loaded.Type), exprFlags(loaded.Type)
	if inc {
		ctx.Emit.Inc(w, f, amount)
	} else {
		ctx.Emit.Dec(w, f, amount)
	}
	as := Store(ctx, e, nil)
	as.ClearTested()
	return as, nil
}

// parseSizeof implements spec §4.5's `sizeof` handling: `sizeof
// unary-expr` parses the operand purely to compute its type in an
// unevaluated context, rolling back any code it emitted, while
// `sizeof (type-name)` is not in grammar scope here (spec §9: the
// surrounding declaration parser supplies type-name sizeof through a
// different entry point) and is treated as a parenthesised expression.
func parseSizeof(ctx *Context) (ExprDesc, error) {
	ctx.Tokens.Advance() // consume `sizeof`

	mark := ctx.Emit.Mark()
	entrySP := ctx.Emit.StackPtr
	ctx.EnterUneval()
	operand, err := parseUnary(ctx)
	ctx.LeaveUneval()
	if err != nil {
		return operand, err
	}
	ctx.Emit.RemoveFrom(mark)
	ctx.Emit.StackPtr = entrySP

	size := ctx.Types.SizeOf(operand.Type)
	return ExprDesc{Type: ctx.Types.UInt(), Location: LocNone, RefType: RValue, IVal: int64(size)}, nil
}
