package exprc

import "github.com/8bitc/exprc/emit"

// parseCall implements spec §4.6: the postfix `(args)` dispatcher. fn
// is the already-parsed callee descriptor (decayed to a function
// pointer, or a known SymEntry of a directly-named function). Returns
// an rvalue descriptor of the function's return type, resident in the
// primary register.
func parseCall(ctx *Context, fn ExprDesc) (ExprDesc, error) {
	fnType := fn.Type
	if fnType.IsPointer() {
		fnType = fnType.Elem
	}
	if !fnType.IsFunc() {
		return ctx.Errorf(ctx.Tokens.Cur().Pos, "called object is not a function"), nil
	}

	ctx.Tokens.Advance() // consume `(`

	fastcall := wantsFastcall(ctx, fn)

	var args []ExprDesc
	for ctx.Tokens.Cur().Kind != TokRParen {
		argSpan := ctx.Tokens.Cur().Pos
		arg, err := parseAssignment(ctx)
		if err != nil {
			return arg, err
		}
		arg = decayed(ctx, arg)
		paramIdx := len(args)
		if paramIdx < len(fnType.Params) {
			arg = coerceArg(ctx, arg, fnType.Params[paramIdx], argSpan)
		} else if !fnType.Variadic && len(fnType.Params) > 0 {
			ctx.Warnf(argSpan, "too many arguments in call")
		} else {
			// variadic/untyped tail argument: the usual argument
			// promotions apply (narrow integer types widen to int).
			arg.Type = ctx.Types.IntPromotion(arg.Type)
		}
		args = append(args, arg)
		if ctx.Tokens.Cur().Kind == TokComma {
			ctx.Tokens.Advance()
			continue
		}
		break
	}
	if err := expect(ctx, TokRParen); err != nil {
		return ctx.Errorf(ctx.Tokens.Cur().Pos, "expected `)` to close call"), err
	}

	entrySP := ctx.Emit.StackPtr
	pushed := pushArguments(ctx, args, fastcall)

	switch {
	case fn.Location == LocGlobal && fn.Sym != nil && fn.Sym.IsFunc:
		ctx.Emit.Call(fn.Name)
	default:
		fn = EnsurePrimary(ctx, fn)
		ctx.Emit.CallInd()
	}

	if pushed > 0 {
		ctx.Emit.Drop(wordWidth(pushed))
	}
	ctx.Emit.StackPtr = entrySP

	ret := fnType.Elem
	return ExprDesc{Type: ret, Location: LocPrimary, RefType: RValue}, nil
}

// wantsFastcall reports whether the callee was declared (or a bare
// global's auto_cdecl default overrides to) fastcall: its rightmost
// argument is left resident in the primary register rather than
// pushed (spec §4.6, §9's "__fastcall__" glossary entry).
func wantsFastcall(ctx *Context, fn ExprDesc) bool {
	declType := fn.Type
	if declType.IsPointer() {
		declType = declType.Elem
	}
	if declType.IsFastcall() {
		return true
	}
	if fn.Sym != nil {
		if v, ok := fn.Sym.Attr("calling_convention"); ok {
			return v == "fastcall"
		}
	}
	return !ctx.AutoCDecl()
}

// pushArguments evaluates each argument in reverse order (right to
// left, the C calling-convention norm this target follows) and gets
// it onto the hardware stack, picking exactly one of spec §4.6's two
// argument-passing strategies. Under fastcall, the last argument stays
// in the primary register instead of being pushed. Returns the number
// of bytes actually placed onto the hardware stack.
func pushArguments(ctx *Context, args []ExprDesc, fastcall bool) int {
	total := 0
	for _, a := range args {
		total += ctx.Types.Width(a.Type)
	}
	if useFramedArgs(ctx, args) {
		return pushArgumentsFramed(ctx, args, fastcall, total)
	}
	return pushArgumentsOneByOne(ctx, args, fastcall, total)
}

// useFramedArgs implements spec §4.6's strategy choice: pre-allocate
// the whole parameter frame only when code_size_factor is at or below
// the neutral 100 and there are at least two arguments to amortise the
// single stack growth against. A factor above 100 is taken to favour
// code size, and the arguments are then pushed one by one.
func useFramedArgs(ctx *Context, args []ExprDesc) bool {
	if len(args) < 2 {
		return false
	}
	return ctx.Config.GetInt("compiler.code_size_factor") <= 100
}

// pushArgumentsOneByOne pushes each argument individually, adjusting
// the hardware stack pointer once per argument.
func pushArgumentsOneByOne(ctx *Context, args []ExprDesc, fastcall bool, total int) int {
	last := len(args) - 1
	pushed := total
	for i := last; i >= 0; i-- {
		a := args[i]
		w := exprWidth(ctx, a.Type)
		Load(ctx, a)
		if fastcall && i == last {
			pushed -= ctx.Types.Width(a.Type)
			continue
		}
		ctx.Emit.Push(w)
	}
	return pushed
}

// pushArgumentsFramed pre-allocates the whole parameter frame with a
// single stack growth, then stores each argument directly at its
// final offset within that frame instead of pushing and adjusting the
// stack pointer once per argument (spec §4.6's "fewer stack
// adjustments" strategy).
func pushArgumentsFramed(ctx *Context, args []ExprDesc, fastcall bool, total int) int {
	last := len(args) - 1
	pushed := total
	if fastcall {
		pushed -= ctx.Types.Width(args[last].Type)
	}
	ctx.Emit.Space(pushed)

	offset := 0
	for i := last; i >= 0; i-- {
		a := args[i]
		w := exprWidth(ctx, a.Type)
		Load(ctx, a)
		if fastcall && i == last {
			continue
		}
		ctx.Emit.PutLocal(w, exprFlags(a.Type), offset)
		offset += ctx.Types.Width(a.Type)
	}
	return pushed
}

func wordWidth(bytes int) emit.Width {
	switch {
	case bytes <= 1:
		return emit.Width1
	case bytes <= 2:
		return emit.Width2
	default:
		return emit.Width4
	}
}

// coerceArg applies the implicit conversion an argument undergoes
// when bound to a typed parameter (spec §4.6/§4.7's assignment-like
// coercion), reusing the same int/pointer compatibility rules as `=`.
func coerceArg(ctx *Context, arg ExprDesc, param *Type, span Span) ExprDesc {
	if param.IsInt() && arg.Type.IsInt() && param.Kind != arg.Type.Kind {
		out := arg
		out.Type = param
		if arg.IsConst() {
			out.IVal = ctx.Types.Truncate(arg.IVal, param)
		}
		return out
	}
	if param.IsPointer() && arg.Type.IsPointer() {
		if ctx.Types.TypeCmp(param, arg.Type) == TypeCmpIncompatible {
			ctx.Warnf(span, "incompatible pointer types passed as argument")
		}
	}
	return arg
}
