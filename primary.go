package exprc

// parsePrimary implements spec §4.3: integer/character constants,
// parenthesised sub-expressions, the computed-goto address extension,
// identifiers (whose storage class determines the resulting
// Location), string literals, inline assembly, and the A/AX/EAX
// pseudo-registers.
func parsePrimary(ctx *Context) (ExprDesc, error) {
	tok := ctx.Tokens.Cur()

	switch tok.Kind {
	case TokIntConst, TokCharConst:
		ctx.Tokens.Advance()
		typ := ctx.Types.Int()
		if tok.Kind == TokCharConst {
			typ = ctx.Types.Char()
		}
		return ExprDesc{Type: typ, Location: LocNone, RefType: RValue, IVal: tok.IVal}, nil

	case TokFloatConst:
		// Floating point is not supported by this target (spec §1);
		// the value is not captured: an error is reported and the safe
		// int replacement is returned.
		ctx.Tokens.Advance()
		d := ctx.Errorf(tok.Pos, "floating-point constants are not supported")
		return d, nil

	case TokStringConst:
		ctx.Tokens.Advance()
		id := ctx.Literals.UseLiteral(tok.SVal)
		label := ctx.Literals.LiteralLabel(id)
		return ExprDesc{
			Type:     ctx.Types.Pointer(ctx.Types.Char()),
			Location: LocLiteral,
			RefType:  RValue,
			Name:     label,
			LVal:     tok.SVal,
			Flags:    FlagAddressOf,
		}, nil

	case TokLParen:
		ctx.Tokens.Advance()
		inner, err := parseComma(ctx)
		if err != nil {
			return inner, err
		}
		if err := expect(ctx, TokRParen); err != nil {
			return inner, err
		}
		return inner, nil

	case TokAndAnd:
		// `&&label`: non-standard computed-goto address extension,
		// guarded by the selected standard per spec §4.3.
		ctx.Tokens.Advance()
		if ctx.Config.GetString("compiler.standard") == StdC89 {
			return ctx.Errorf(tok.Pos, "computed-goto addresses are a CC65/C99 extension"), nil
		}
		name := ctx.Tokens.Cur().SVal
		ctx.Tokens.Advance()
		return ExprDesc{
			Type:     ctx.Types.Pointer(ctx.Types.Void()),
			Location: LocCode,
			RefType:  RValue,
			Name:     name,
			Flags:    FlagAddressOf,
		}, nil

	case TokKwAsm:
		return parseInlineAsm(ctx)

	case TokRegA:
		ctx.Tokens.Advance()
		return ExprDesc{Type: ctx.Types.UChar(), Location: LocRegister, RefType: LValue, Name: "a"}, nil
	case TokRegAX:
		ctx.Tokens.Advance()
		return ExprDesc{Type: ctx.Types.UInt(), Location: LocRegister, RefType: LValue, Name: "ax"}, nil
	case TokRegEAX:
		ctx.Tokens.Advance()
		return ExprDesc{Type: ctx.Types.ULong(), Location: LocRegister, RefType: LValue, Name: "eax"}, nil

	case TokIdent:
		return parseIdentifier(ctx)

	default:
		return ctx.Errorf(tok.Pos, "unexpected token in expression"), nil
	}
}

func parseIdentifier(ctx *Context) (ExprDesc, error) {
	tok := ctx.Tokens.Cur()
	name := tok.SVal
	ctx.Tokens.Advance()

	sym, ok := ctx.Symbols.Find(name)
	if !ok {
		if ctx.Tokens.Cur().Kind == TokLParen {
			// implicit function declaration: error under C99, warning
			// otherwise (spec §4.3).
			if ctx.Config.GetString("compiler.standard") == StdC99 {
				ctx.Errorf(tok.Pos, "implicit declaration of function `%s`", name)
			} else {
				ctx.Warnf(tok.Pos, "implicit declaration of function `%s`", name)
			}
			implicit := ctx.Symbols.AddGlobal(name, ctx.Types.Func(ctx.Types.Int(), nil, true), true)
			return ExprDesc{Type: implicit.Type, Location: LocGlobal, RefType: RValue, Name: name, Sym: implicit, Flags: FlagAddressOf}, nil
		}
		return ctx.Errorf(tok.Pos, "undeclared identifier `%s`", name), nil
	}

	switch sym.Class {
	case SCEnumConst:
		return ExprDesc{Type: sym.Type, Location: LocNone, RefType: RValue, IVal: sym.Value, Sym: sym}, nil

	case SCGlobal:
		if sym.IsFunc {
			return ExprDesc{Type: sym.Type, Location: LocGlobal, RefType: RValue, Name: name, Sym: sym, Flags: FlagAddressOf}, nil
		}
		return ExprDesc{Type: sym.Type, Location: LocGlobal, RefType: LValue, Name: name, Sym: sym}, nil

	case SCStatic:
		return ExprDesc{Type: sym.Type, Location: LocStatic, RefType: LValue, Name: name, Sym: sym}, nil

	case SCRegister:
		return ExprDesc{Type: sym.Type, Location: LocRegister, RefType: LValue, IVal: int64(sym.Offset), Sym: sym}, nil

	case SCLabel:
		return ExprDesc{Type: ctx.Types.Pointer(ctx.Types.Void()), Location: LocCode, RefType: RValue, Name: name, Sym: sym, Flags: FlagAddressOf}, nil

	default: // SCAuto
		if sym.Variadic {
			// Variadic named parameters live on the far side of the
			// frame pointer; taking their address needs a runtime
			// base-pointer adjustment (spec §4.3, §9).
			ctx.Emit.LeaVariadic(sym.Offset)
			return ExprDesc{Type: sym.Type, Location: LocExpr, RefType: LValue, Sym: sym}, nil
		}
		return ExprDesc{Type: sym.Type, Location: LocStack, RefType: LValue, IVal: int64(sym.Offset), Sym: sym}, nil
	}
}

func parseInlineAsm(ctx *Context) (ExprDesc, error) {
	ctx.Tokens.Advance() // consume `asm`
	if err := expect(ctx, TokLParen); err != nil {
		return ctx.Errorf(ctx.Tokens.Cur().Pos, "expected `(` after asm"), err
	}
	text := ctx.Tokens.Cur().SVal
	ctx.Tokens.Advance()
	if err := expect(ctx, TokRParen); err != nil {
		return ctx.Errorf(ctx.Tokens.Cur().Pos, "expected `)` to close asm"), err
	}
	ctx.Emit.Raw(text)
	return ExprDesc{Type: ctx.Types.Void(), Location: LocNone, RefType: RValue}, nil
}

func expect(ctx *Context, k TokenKind) error {
	if ctx.Tokens.Cur().Kind != k {
		ctx.Errorf(ctx.Tokens.Cur().Pos, "unexpected token, expected token kind %d", int(k))
		return Diag{Severity: SeverityError, Message: "syntax error", Span: ctx.Tokens.Cur().Pos}
	}
	ctx.Tokens.Advance()
	return nil
}

// decayed converts an array/function-typed descriptor into an
// address-of rvalue of its decayed pointer type, the automatic
// conversion spec §4.3 requires ("Arrays and functions automatically
// become address-of rvalues").
func decayed(ctx *Context, e ExprDesc) ExprDesc {
	if !e.Type.IsArray() && !e.Type.IsFunc() {
		return e
	}
	out := e
	out.Type = ctx.Types.Decay(e.Type)
	out.RefType = RValue
	out.Flags |= FlagAddressOf
	return out
}
