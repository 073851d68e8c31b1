package exprc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleAssignmentStoresCoercedValue(t *testing.T) {
	// a = c, with c an unsigned char: the store widens to a's type.
	ctx := newTestContext(ident("a"), op(TokAssign), ident("c"))
	ctx.Symbols.AddLocal("a", ctx.Types.Int(), 4, SCAuto)
	ctx.Symbols.AddLocal("c", ctx.Types.UChar(), 1, SCAuto)
	e, err := Expression0(ctx)
	require.NoError(t, err)
	assert.Equal(t, LocPrimary, e.Location)
	pretty := ctx.Emit.Prog.PrettyString()
	assert.Contains(t, pretty, "stloc")
}

func TestAssignmentToNonLvalueIsAnError(t *testing.T) {
	ctx := newTestContext(intLit(1), op(TokAssign), intLit(2))
	_, err := Expression0(ctx)
	require.NoError(t, err)
	assert.True(t, ctx.HasErrors())
}

func TestCompoundAssignReadsAppliesAndStores(t *testing.T) {
	// a *= b: load a, combine with b, store back.
	ctx := newTestContext(ident("a"), op(TokStarEq), ident("b"))
	ctx.Symbols.AddLocal("a", ctx.Types.Int(), 4, SCAuto)
	ctx.Symbols.AddLocal("b", ctx.Types.Int(), 6, SCAuto)
	_, err := Expression0(ctx)
	require.NoError(t, err)
	pretty := ctx.Emit.Prog.PrettyString()
	assert.Contains(t, pretty, "ldloc")
	assert.Contains(t, pretty, "mul")
	assert.Contains(t, pretty, "stloc")
}

func TestAddAssignOnPointerScalesByPointeeSize(t *testing.T) {
	// p += i, with p an int*: the amount scales by sizeof(int).
	ctx := newTestContext(ident("p"), op(TokPlusEq), ident("i"))
	ctx.Symbols.AddLocal("p", ctx.Types.Pointer(ctx.Types.Int()), 2, SCAuto)
	ctx.Symbols.AddLocal("i", ctx.Types.Int(), 4, SCAuto)
	_, err := Expression0(ctx)
	require.NoError(t, err)
	pretty := ctx.Emit.Prog.PrettyString()
	assert.Contains(t, pretty, "scale")
}

func TestBitFieldAssignmentPositionsAndPreservesOtherBits(t *testing.T) {
	// s.f = x, with f a 3-bit field at offset 2 within its storage
	// byte. The write must not simply AND x against the field's mask:
	// it has to shift x into position and merge with whatever else
	// lives in the containing byte.
	fields := []Field{
		{Name: "f", Type: ctx0Types.UChar(), Offset: 0, BitField: true, BitOffset: 2, BitWidth: 3},
	}
	structType := ctx0Types.Struct("flags", fields)
	ctx := newTestContext(ident("s"), op(TokDot), ident("f"), op(TokAssign), intLit(5))
	ctx.Symbols.AddLocal("s", structType, 0, SCAuto)
	e, err := Expression0(ctx)
	require.NoError(t, err)
	assert.Equal(t, LocPrimary, e.Location)

	pretty := ctx.Emit.Prog.PrettyString()
	assert.Contains(t, pretty, "asl", "rhs must be shifted into the field's bit position")
	assert.Equal(t, 2, countSubstr(pretty, "and"), "one and for masking rhs, one for preserving the other bits")
	assert.Contains(t, pretty, "or", "the positioned field and the preserved bits must be merged")
	assert.Equal(t, 1, countSubstr(pretty, "ldloc"), "the storage byte must be read back for the merge")
	assert.Contains(t, pretty, "stloc")
}

func TestBitFieldAssignmentAtZeroOffsetStillMasksAndMerges(t *testing.T) {
	fields := []Field{
		{Name: "f", Type: ctx0Types.UChar(), Offset: 0, BitField: true, BitOffset: 0, BitWidth: 4},
	}
	structType := ctx0Types.Struct("flags", fields)
	ctx := newTestContext(ident("s"), op(TokDot), ident("f"), op(TokAssign), intLit(9))
	ctx.Symbols.AddLocal("s", structType, 0, SCAuto)
	_, err := Expression0(ctx)
	require.NoError(t, err)
	pretty := ctx.Emit.Prog.PrettyString()
	assert.Contains(t, pretty, "or", "even a zero-offset field must merge with the byte's other bits")
}
