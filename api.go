package exprc

// Expression0 is the top-level entry point (spec §6): parse one full
// comma-expression, then drain and verify the deferred post-inc/dec
// queue and the virtual stack pointer balance the way every statement
// boundary must (spec §5, §8.1, §8.2).
func Expression0(ctx *Context) (ExprDesc, error) {
	entrySP := ctx.Emit.StackPtr
	InitDeferredOps(ctx)

	e, err := hie0(ctx)
	if err != nil {
		return e, err
	}

	DoDeferred(ctx, e)
	CheckDeferredOpAllDone(ctx, Span{})

	if balErr := ctx.Emit.CheckBalanced(entrySP); balErr != nil {
		ctx.Internal(Span{}, "%s", balErr.Error())
	}
	return e, nil
}

// BoolExpr parses an expression and ensures its truthiness is
// reflected in the condition codes (spec §6's "parse an expression
// used as a boolean condition"), the entry point an `if`/`while`/`for`
// collaborator outside this module's scope would call.
func BoolExpr(ctx *Context) (ExprDesc, error) {
	e, err := Expression0(ctx)
	if err != nil {
		return e, err
	}
	if e.IsConst() {
		return e, nil
	}
	return testBoolean(ctx, e), nil
}

// NoCodeConstExpr parses a constant-expression production that must
// emit no code whatsoever — array bounds, case labels, enumerator
// initialisers (spec §6). Parsing happens inside an unevaluated
// bracket so any exploratory code a non-constant sub-expression would
// have produced is rolled back before the diagnostic fires.
func NoCodeConstExpr(ctx *Context, span Span) (ExprDesc, error) {
	mark := ctx.Emit.Mark()
	entrySP := ctx.Emit.StackPtr
	ctx.EnterUneval()
	e, err := hie2(ctx) // constant-expression grammar excludes comma/assignment
	ctx.LeaveUneval()
	ctx.Emit.RemoveFrom(mark)
	ctx.Emit.StackPtr = entrySP
	if err != nil {
		return e, err
	}
	if !e.IsConst() {
		return ctx.Errorf(span, "expression is not a compile-time constant"), nil
	}
	return e, nil
}

// NoCodeConstAbsIntExpr is NoCodeConstExpr narrowed to a non-negative
// integer result, the shape an array dimension or bit-field width
// needs (spec §6).
func NoCodeConstAbsIntExpr(ctx *Context, span Span) (int64, error) {
	e, err := NoCodeConstExpr(ctx, span)
	if err != nil {
		return 0, err
	}
	if !e.Type.IsInt() {
		ctx.Errorf(span, "expected an integer constant expression")
		return 0, nil
	}
	if e.IVal < 0 {
		ctx.Errorf(span, "expected a non-negative constant expression, got %d", e.IVal)
		return 0, nil
	}
	return e.IVal, nil
}
