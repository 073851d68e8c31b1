package exprc

// parseTernary implements spec §4.10's `?:`. A constant condition
// evaluates only the taken branch at compile time, in an unevaluated
// bracket for the other; a non-constant condition branches at run
// time and, per spec §4.10, may need to move one branch's
// type-conversion code so it only executes when that branch was
// actually taken (done here via MoveRange after both branches are
// known).
func parseTernary(ctx *Context) (ExprDesc, error) {
	cond, err := parseLogicalOr(ctx)
	if err != nil {
		return cond, err
	}
	if ctx.Tokens.Cur().Kind != TokQuestion {
		return cond, nil
	}
	span := ctx.Tokens.Cur().Pos
	ctx.Tokens.Advance()

	truthy, known := constTruth(cond)

	if known {
		return parseConstTernaryBranches(ctx, truthy, span)
	}

	entrySP := ctx.Emit.StackPtr
	cond = testBoolean(ctx, cond)
	elseLabel := ctx.Emit.NewLabel()
	endLabel := ctx.Emit.NewLabel()
	ctx.Emit.FalseJump(elseLabel)

	thenVal, err := parseAssignment(ctx)
	if err != nil {
		return thenVal, err
	}
	thenVal = Load(ctx, thenVal)
	thenEnd := ctx.Emit.Mark()

	if err := expect(ctx, TokColon); err != nil {
		return ctx.Errorf(ctx.Tokens.Cur().Pos, "expected `:` in ternary"), err
	}
	ctx.Emit.Jump(endLabel)
	ctx.Emit.DefLabel(elseLabel)

	ctx.Emit.StackPtr = entrySP
	elseVal, err := parseAssignment(ctx)
	if err != nil {
		return elseVal, err
	}
	elseVal = Load(ctx, elseVal)

	result := ctx.Types.ArithmeticConvert(thenVal.Type, elseVal.Type)
	if thenVal.Type.IsPointer() || elseVal.Type.IsPointer() {
		if thenVal.Type.IsPointer() {
			result = thenVal.Type
		} else {
			result = elseVal.Type
		}
	}

	// If the then-branch's value needs widening to match result, that
	// adjustment code was emitted right after thenVal but runs
	// unconditionally; move it to just before the unconditional jump
	// so it only executes when the then-branch was actually taken
	// (spec §4.10). Any widening for the else-branch is already
	// correctly conditional since it sits after elseLabel.
	if w := exprWidth(ctx, thenVal.Type); w != exprWidth(ctx, result) {
		adjustMark := ctx.Emit.Mark()
		ctx.Emit.TypeAdjust(w, exprWidth(ctx, result), exprFlags(result))
		ctx.Emit.MoveRange(adjustMark, ctx.Emit.Mark(), thenEnd)
	}
	ctx.Emit.TypeAdjust(exprWidth(ctx, elseVal.Type), exprWidth(ctx, result), exprFlags(result))

	ctx.Emit.DefLabel(endLabel)
	ctx.Emit.StackPtr = entrySP
	return ExprDesc{Type: result, Location: LocPrimary, RefType: RValue}, nil
}

// parseConstTernaryBranches handles a compile-time-known condition:
// the untaken branch is parsed purely for its syntax/type and its code
// discarded (spec §9's "ultimately guarantees zero residue").
func parseConstTernaryBranches(ctx *Context, takeThen bool, span Span) (ExprDesc, error) {
	entrySP := ctx.Emit.StackPtr

	var taken ExprDesc
	var err error
	if takeThen {
		taken, err = parseAssignment(ctx)
	} else {
		mark := ctx.Emit.Mark()
		ctx.EnterUneval()
		_, err = parseAssignment(ctx)
		ctx.LeaveUneval()
		ctx.Emit.RemoveFrom(mark)
		ctx.Emit.StackPtr = entrySP
	}
	if err != nil {
		return taken, err
	}

	if err := expect(ctx, TokColon); err != nil {
		return ctx.Errorf(ctx.Tokens.Cur().Pos, "expected `:` in ternary"), err
	}

	var other ExprDesc
	if !takeThen {
		other, err = parseAssignment(ctx)
		taken = other
	} else {
		mark := ctx.Emit.Mark()
		sp := ctx.Emit.StackPtr
		ctx.EnterUneval()
		_, err = parseAssignment(ctx)
		ctx.LeaveUneval()
		ctx.Emit.RemoveFrom(mark)
		ctx.Emit.StackPtr = sp
	}
	if err != nil {
		return taken, err
	}

	return taken, nil
}
