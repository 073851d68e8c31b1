package exprc

import "github.com/8bitc/exprc/emit"

// Load commits e's value into the primary register, emitting whatever
// fetch its Location requires, and returns the resulting
// primary-resident descriptor (spec §4's recurring "ensure lhs is in
// the primary" step). A descriptor already in the primary, or a
// compile-time constant, is returned unchanged in substance: loading
// a constant just materialises its immediate value.
func Load(ctx *Context, e ExprDesc) ExprDesc {
	w := exprWidth(ctx, e.Type)
	f := exprFlags(e.Type)

	switch e.Location {
	case LocNone:
		ctx.Emit.Immediate(w, f, e.IVal)
	case LocGlobal, LocStatic, LocLiteral, LocCode:
		ctx.Emit.GetStatic(w, f, e.Name)
	case LocStack, LocRegister:
		ctx.Emit.GetLocal(w, f, int(e.IVal))
	case LocAbs:
		ctx.Emit.Immediate(emit.Width2, 0, e.IVal)
		ctx.Emit.GetInd(w, f)
	case LocExpr:
		if !e.Flags.Has(FlagAddressOf) {
			ctx.Emit.GetInd(w, f)
		}
	case LocPrimary:
		// already resident
	default:
		ctx.Internal(Span{}, "load of unknown Location tag %s", e.Location)
	}

	out := e
	out.Location = LocPrimary
	out.RefType = RValue
	out.ClearTested()
	return out
}

// PushAddr pushes the address of e onto the value stack without
// disturbing the primary register, used when a quasi-constant base
// needs to be held aside while an index/offset is computed (spec
// §4.4, §6's PushAddr).
func PushAddr(ctx *Context, e ExprDesc) {
	ptr := ctx.Types.Pointer(e.Type)
	w := exprWidth(ctx, ptr)
	switch e.Location {
	case LocGlobal, LocStatic, LocLiteral, LocCode:
		ctx.Emit.GetStatic(w, 0, e.Name)
	case LocStack, LocRegister:
		ctx.Emit.GetLocal(w, 0, int(e.IVal))
	case LocAbs:
		ctx.Emit.Immediate(w, 0, e.IVal)
	case LocExpr, LocPrimary:
		// address already resident in the primary from a prior Load
		// with AddressOf set; nothing further to compute.
	default:
		ctx.Internal(Span{}, "PushAddr of non-addressable location %s", e.Location)
	}
	ctx.Emit.Push(w)
}

// Store commits the primary register back to the location denoted by
// e, as e's own type or overriding to as if not nil (spec §6's
// Store(&ExprDesc, Option<Type>)). It returns an rvalue descriptor of
// the stored type, resident in the primary, matching the C semantics
// that an assignment expression's value is the assigned value.
func Store(ctx *Context, e ExprDesc, as *Type) ExprDesc {
	typ := e.Type
	if as != nil {
		typ = as
	}
	w := exprWidth(ctx, typ)
	f := exprFlags(typ)

	switch e.Location {
	case LocGlobal, LocStatic, LocLiteral, LocCode:
		ctx.Emit.PutStatic(w, f, e.Name)
	case LocStack, LocRegister:
		ctx.Emit.PutLocal(w, f, int(e.IVal))
	case LocAbs:
		// primary already holds the value to commit; stash it on the
		// stack before Immediate overwrites primary with the address,
		// then pull it back so the caller still finds it in primary.
		ctx.Emit.Push(w)
		ctx.Emit.Immediate(emit.Width2, 0, e.IVal)
		ctx.Emit.PutInd(w, f)
		ctx.Emit.Pop(w)
	case LocExpr:
		ctx.Emit.PutInd(w, f)
	default:
		ctx.Internal(Span{}, "store to non-addressable location %s", e.Location)
	}

	return ExprDesc{Type: typ, Location: LocPrimary, RefType: RValue, IVal: e.IVal}
}

// EnsurePrimary is Load, specialised for the common "only emit a fetch
// if the value is not already resident" call sites in the binary
// dispatcher (spec §4.1.b).
func EnsurePrimary(ctx *Context, e ExprDesc) ExprDesc {
	if e.Location == LocPrimary {
		return e
	}
	return Load(ctx, e)
}
