package exprc

// parseLogicalOr and parseLogicalAnd implement spec §4.9:
// short-circuit evaluation. When the left operand is a compile-time
// constant whose truth value alone determines the result, the rest of
// the chain is parsed in an unevaluated bracket and its code rolled
// back entirely (spec §8's "`0 && f()` emits no call"). A constant lhs
// that does not settle the chain (spec §8's "`1 && (a = 5)`" case,
// where the assignment must still execute) just evaluates the rest
// with no jump; only a dynamic lhs emits a forward jump that skips the
// right operand's code at run time.
func parseLogicalOr(ctx *Context) (ExprDesc, error) {
	return parseShortCircuit(ctx, TokPipePipe, false, parseLogicalAnd)
}

func parseLogicalAnd(ctx *Context) (ExprDesc, error) {
	return parseShortCircuit(ctx, TokAmpAmp, true, parseBitOr)
}

// parseShortCircuit implements one `&&`/`||` chain. shortCircuitsOn
// selects which operator this call is for: true for `&&` (a dynamic
// lhs emits FalseJump, skipping the rhs when lhs is false), false for
// `||` (TrueJump, skipping the rhs when lhs is true). The truth value
// that actually skips the rhs is therefore the negation of
// shortCircuitsOn; a constant lhs settles the whole chain exactly
// when it already equals that value (`0 && x` never needs x; `1 && x`
// still does).
func parseShortCircuit(ctx *Context, tok TokenKind, shortCircuitsOn bool, next func(*Context) (ExprDesc, error)) (ExprDesc, error) {
	entrySP := ctx.Emit.StackPtr
	lhs, err := next(ctx)
	if err != nil {
		return lhs, err
	}
	if ctx.Tokens.Cur().Kind != tok {
		return lhs, nil
	}

	truthy, known := constTruth(lhs)

	if known && truthy != shortCircuitsOn {
		mark := ctx.Emit.Mark()
		ctx.EnterUneval()
		for ctx.Tokens.Cur().Kind == tok {
			ctx.Tokens.Advance()
			if _, err := next(ctx); err != nil {
				ctx.LeaveUneval()
				return lhs, err
			}
		}
		ctx.LeaveUneval()
		ctx.Emit.RemoveFrom(mark)
		ctx.Emit.StackPtr = entrySP
		return boolDesc(ctx, truthy), nil
	}

	if known {
		// lhs is constant but doesn't settle the chain (e.g. `0 || x`):
		// the result is exactly whatever the remaining chain evaluates
		// to, boolean-ized. The recursive call may itself bottom out
		// through the no-operator base case and hand back a raw,
		// un-booleanized operand, so this level must still force it to
		// bool rather than trusting the recursion to have done it.
		ctx.Tokens.Advance()
		rhs, err := parseShortCircuit(ctx, tok, shortCircuitsOn, next)
		if err != nil {
			return rhs, err
		}
		if rhs.IsConst() {
			return boolDesc(ctx, rhs.IVal != 0), nil
		}
		rhs = testBoolean(ctx, Load(ctx, rhs))
		rhs.Type = ctx.Types.Bool()
		rhs.Location = LocPrimary
		return rhs, nil
	}

	lhs = testBoolean(ctx, lhs)
	end := ctx.Emit.NewLabel()
	if shortCircuitsOn {
		ctx.Emit.FalseJump(end)
	} else {
		ctx.Emit.TrueJump(end)
	}

	ctx.Tokens.Advance()
	rhs, err := parseShortCircuit(ctx, tok, shortCircuitsOn, next)
	if err != nil {
		return rhs, err
	}
	rhs = testBoolean(ctx, Load(ctx, rhs))

	ctx.Emit.DefLabel(end)
	out := rhs
	out.Location = LocPrimary
	out.Type = ctx.Types.Bool()
	out.SetTested()
	return out, nil
}

func constTruth(e ExprDesc) (truthy bool, known bool) {
	if !e.IsConst() {
		return false, false
	}
	return e.IVal != 0, true
}

// testBoolean ensures e's zero/non-zero-ness is reflected in the
// condition codes (the Tested flag), emitting a double-BNeg test only
// when not already Tested.
func testBoolean(ctx *Context, e ExprDesc) ExprDesc {
	if e.Flags.Has(FlagTested) {
		return e
	}
	e = decayed(ctx, e)
	e = EnsurePrimary(ctx, e)
	w, f := exprWidth(ctx, e.Type), exprFlags(e.Type)
	ctx.Emit.BNeg(w, f)
	ctx.Emit.BNeg(w, f)
	out := e
	out.SetTested()
	return out
}
