package exprc

import "github.com/8bitc/exprc/emit"

// addPointerAndInt implements pointer-plus-integer scaling (spec
// §4.1's "pointer arithmetic scales the integer operand by the
// pointee's size"): ptr must already be decayed. ptrPushed reports
// whether the caller already pushed ptr's value before parsing idx
// (the discipline every other binary level in this cascade uses —
// push the first operand before parsing the second, so a non-trivial
// second operand can never clobber a first operand that's still only
// resident in the primary register); foldMark/entrySP bracket that
// speculative push so the constant and immediate-form fast paths can
// undo it once it turns out not to be needed.
func addPointerAndInt(ctx *Context, ptr, idx ExprDesc, span Span, ptrPushed bool, foldMark emit.Mark, entrySP int) (ExprDesc, error) {
	if !ptr.Type.IsPointer() {
		return ctx.Errorf(span, "subscript/pointer-addition base is not a pointer"), nil
	}
	if !idx.Type.IsInt() {
		return ctx.Errorf(span, "subscript/pointer-addition index is not an integer"), nil
	}
	elemSize := ctx.Types.SizeOf(ptr.Type.Elem)
	if elemSize == 0 {
		elemSize = 1
	}

	undoPush := func() {
		if ptrPushed {
			ctx.Emit.RemoveFrom(foldMark)
			ctx.Emit.StackPtr = entrySP
		}
	}

	if ptr.IsConst() && idx.IsConst() {
		undoPush()
		return ExprDesc{Type: ptr.Type, Location: LocNone, RefType: RValue, IVal: ptr.IVal + idx.IVal*int64(elemSize)}, nil
	}

	if idx.IsConst() {
		undoPush()
		ptr = EnsurePrimary(ctx, ptr)
		w := exprWidth(ctx, ptr.Type)
		ctx.Emit.Immediate(w, 0, idx.IVal*int64(elemSize))
		ctx.Emit.Add(w, 0)
		return ExprDesc{Type: ptr.Type, Location: LocPrimary, RefType: RValue}, nil
	}

	if !ptrPushed {
		ptr = EnsurePrimary(ctx, ptr)
		ctx.Emit.Push(exprWidth(ctx, ptr.Type))
	}
	idx = EnsurePrimary(ctx, idx)
	ctx.Emit.Scale(elemSize)
	ctx.Emit.TypeAdjust(exprWidth(ctx, idx.Type), exprWidth(ctx, ptr.Type), 0)
	ctx.Emit.Add(exprWidth(ctx, ptr.Type), 0)
	ctx.Emit.Pop(exprWidth(ctx, ptr.Type))
	return ExprDesc{Type: ptr.Type, Location: LocPrimary, RefType: RValue}, nil
}

// addIntToPointer implements the commutative `int + pointer` spelling.
// Here it is the int operand (parsed first, as lhs) that the caller
// already pushed; idx is popped back into the primary register to be
// scaled — Scale only ever operates on the primary, not on a stack
// slot directly — then pushed again so ptr can be loaded fresh and
// combined the same way addPointerAndInt's general path does.
func addIntToPointer(ctx *Context, idx, ptr ExprDesc, span Span, idxPushed bool, foldMark emit.Mark, entrySP int) (ExprDesc, error) {
	if !ptr.Type.IsPointer() {
		return ctx.Errorf(span, "pointer-addition base is not a pointer"), nil
	}
	if !idx.Type.IsInt() {
		return ctx.Errorf(span, "pointer-addition index is not an integer"), nil
	}
	elemSize := ctx.Types.SizeOf(ptr.Type.Elem)
	if elemSize == 0 {
		elemSize = 1
	}

	if idx.IsConst() && ptr.IsConst() {
		if idxPushed {
			ctx.Emit.RemoveFrom(foldMark)
			ctx.Emit.StackPtr = entrySP
		}
		return ExprDesc{Type: ptr.Type, Location: LocNone, RefType: RValue, IVal: ptr.IVal + idx.IVal*int64(elemSize)}, nil
	}

	if idx.IsConst() {
		if idxPushed {
			ctx.Emit.RemoveFrom(foldMark)
			ctx.Emit.StackPtr = entrySP
		}
		ptr = EnsurePrimary(ctx, ptr)
		w := exprWidth(ctx, ptr.Type)
		ctx.Emit.Immediate(w, 0, idx.IVal*int64(elemSize))
		ctx.Emit.Add(w, 0)
		return ExprDesc{Type: ptr.Type, Location: LocPrimary, RefType: RValue}, nil
	}

	ptrWidth := exprWidth(ctx, ptr.Type)
	if idxPushed {
		ctx.Emit.Pop(exprWidth(ctx, idx.Type))
	} else {
		idx = EnsurePrimary(ctx, idx)
	}
	ctx.Emit.Scale(elemSize)
	ctx.Emit.TypeAdjust(exprWidth(ctx, idx.Type), ptrWidth, 0)
	ctx.Emit.Push(ptrWidth)
	ptr = EnsurePrimary(ctx, ptr)
	ctx.Emit.Add(ptrWidth, 0)
	ctx.Emit.Pop(ptrWidth)
	return ExprDesc{Type: ptr.Type, Location: LocPrimary, RefType: RValue}, nil
}

// subPointerAndInt implements `ptr - int` (same scaling, subtraction,
// same ptrPushed discipline as addPointerAndInt).
func subPointerAndInt(ctx *Context, ptr, idx ExprDesc, span Span, ptrPushed bool, foldMark emit.Mark, entrySP int) (ExprDesc, error) {
	elemSize := ctx.Types.SizeOf(ptr.Type.Elem)
	if elemSize == 0 {
		elemSize = 1
	}

	undoPush := func() {
		if ptrPushed {
			ctx.Emit.RemoveFrom(foldMark)
			ctx.Emit.StackPtr = entrySP
		}
	}

	if ptr.IsConst() && idx.IsConst() {
		undoPush()
		return ExprDesc{Type: ptr.Type, Location: LocNone, RefType: RValue, IVal: ptr.IVal - idx.IVal*int64(elemSize)}, nil
	}
	if idx.IsConst() {
		undoPush()
		ptr = EnsurePrimary(ctx, ptr)
		w := exprWidth(ctx, ptr.Type)
		ctx.Emit.Immediate(w, 0, idx.IVal*int64(elemSize))
		ctx.Emit.Sub(w, 0)
		return ExprDesc{Type: ptr.Type, Location: LocPrimary, RefType: RValue}, nil
	}
	if !ptrPushed {
		ptr = EnsurePrimary(ctx, ptr)
		ctx.Emit.Push(exprWidth(ctx, ptr.Type))
	}
	idx = EnsurePrimary(ctx, idx)
	ctx.Emit.Scale(elemSize)
	ctx.Emit.TypeAdjust(exprWidth(ctx, idx.Type), exprWidth(ctx, ptr.Type), 0)
	ctx.Emit.Swap()
	ctx.Emit.Sub(exprWidth(ctx, ptr.Type), 0)
	ctx.Emit.Pop(exprWidth(ctx, ptr.Type))
	return ExprDesc{Type: ptr.Type, Location: LocPrimary, RefType: RValue}, nil
}

// diffPointers implements `ptr - ptr`, yielding an element count
// (spec §4.1's note on pointer-difference), scaling down by element
// size rather than up. aPushed follows the same already-pushed
// discipline as the other helpers here.
func diffPointers(ctx *Context, a, b ExprDesc, span Span, aPushed bool, foldMark emit.Mark, entrySP int) (ExprDesc, error) {
	if ctx.Types.TypeCmp(a.Type, b.Type) == TypeCmpIncompatible {
		ctx.Warnf(span, "subtracting pointers to incompatible types")
	}
	elemSize := ctx.Types.SizeOf(a.Type.Elem)
	if elemSize == 0 {
		elemSize = 1
	}
	result := ctx.Types.Int()

	if a.IsConst() && b.IsConst() {
		if aPushed {
			ctx.Emit.RemoveFrom(foldMark)
			ctx.Emit.StackPtr = entrySP
		}
		return ExprDesc{Type: result, Location: LocNone, RefType: RValue, IVal: (a.IVal - b.IVal) / int64(elemSize)}, nil
	}

	if !aPushed {
		a = EnsurePrimary(ctx, a)
		ctx.Emit.Push(exprWidth(ctx, a.Type))
	}
	b = EnsurePrimary(ctx, b)
	ctx.Emit.Sub(exprWidth(ctx, a.Type), 0)
	if elemSize > 1 {
		ctx.Emit.Immediate(exprWidth(ctx, a.Type), 0, int64(elemSize))
		ctx.Emit.Div(exprWidth(ctx, a.Type), 0)
	}
	ctx.Emit.Pop(exprWidth(ctx, a.Type))
	ctx.Emit.TypeAdjust(exprWidth(ctx, a.Type), exprWidth(ctx, result), 0)
	return ExprDesc{Type: result, Location: LocPrimary, RefType: RValue}, nil
}
