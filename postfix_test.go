package exprc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriptIsPointerArithmeticPlusDereference(t *testing.T) {
	// p[i]: *(p + i), with a non-constant index.
	ctx := newTestContext(ident("p"), op(TokLBracket), ident("i"), op(TokRBracket))
	ctx.Symbols.AddLocal("p", ctx.Types.Pointer(ctx.Types.Int()), 2, SCAuto)
	ctx.Symbols.AddLocal("i", ctx.Types.Int(), 4, SCAuto)
	e, err := Expression0(ctx)
	require.NoError(t, err)
	assert.Equal(t, LocExpr, e.Location)
	assert.True(t, e.IsLValue())
	pretty := ctx.Emit.Prog.PrettyString()
	assert.Contains(t, pretty, "scale")
}

func TestSubscriptDoesNotClobberBaseWithNonTrivialIndex(t *testing.T) {
	// p[a = 3]: the index has its own side effect (an assignment); base
	// must still be pushed before it runs, not loaded only after.
	ctx := newTestContext(
		ident("p"), op(TokLBracket),
		ident("a"), op(TokAssign), intLit(3),
		op(TokRBracket),
	)
	ctx.Symbols.AddLocal("p", ctx.Types.Pointer(ctx.Types.Int()), 2, SCAuto)
	ctx.Symbols.AddLocal("a", ctx.Types.Int(), 4, SCAuto)
	e, err := Expression0(ctx)
	require.NoError(t, err)
	assert.Equal(t, LocExpr, e.Location)
	pretty := ctx.Emit.Prog.PrettyString()
	assert.Contains(t, pretty, "push", "base must be pushed before the index's assignment runs")
}

func TestMemberAccessAddsFieldOffset(t *testing.T) {
	// s.y, with s a struct { int x; int y; } local.
	fields := []Field{
		{Name: "x", Type: ctx0Types.Int(), Offset: 0},
		{Name: "y", Type: ctx0Types.Int(), Offset: 4},
	}
	structType := ctx0Types.Struct("point", fields)
	ctx := newTestContext(ident("s"), op(TokDot), ident("y"))
	ctx.Symbols.AddLocal("s", structType, 0, SCAuto)
	e, err := Expression0(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, e.IVal)
}

func TestArrowDereferencesBeforeMemberAccess(t *testing.T) {
	// p->y, with p a struct-pointer local. Unlike a field reached
	// through a plain struct local (whose offset folds into a static
	// frame offset), a field reached through a pointer has no static
	// offset to fold into: the nonzero field offset must be added to
	// p's address at run time before the dereference.
	fields := []Field{
		{Name: "x", Type: ctx0Types.Int(), Offset: 0},
		{Name: "y", Type: ctx0Types.Int(), Offset: 4},
	}
	structType := ctx0Types.Struct("point", fields)
	ctx := newTestContext(ident("p"), op(TokArrow), ident("y"))
	ctx.Symbols.AddLocal("p", ctx.Types.Pointer(structType), 2, SCAuto)
	e, err := Expression0(ctx)
	require.NoError(t, err)
	assert.Equal(t, LocExpr, e.Location)
	pretty := ctx.Emit.Prog.PrettyString()
	assert.Contains(t, pretty, "add", "the field's nonzero offset must be added to p's address")
}

func TestArrowOnZeroOffsetFieldNeedsNoAddressAdjustment(t *testing.T) {
	fields := []Field{
		{Name: "x", Type: ctx0Types.Int(), Offset: 0},
		{Name: "y", Type: ctx0Types.Int(), Offset: 4},
	}
	structType := ctx0Types.Struct("point", fields)
	ctx := newTestContext(ident("p"), op(TokArrow), ident("x"))
	ctx.Symbols.AddLocal("p", ctx.Types.Pointer(structType), 2, SCAuto)
	e, err := Expression0(ctx)
	require.NoError(t, err)
	assert.Equal(t, LocExpr, e.Location)
	pretty := ctx.Emit.Prog.PrettyString()
	assert.NotContains(t, pretty, "add", "field x sits at offset 0, nothing to add")
}

func TestPostDecrementLoadsOldValueBeforeMutating(t *testing.T) {
	// a--
	ctx := newTestContext(ident("a"), op(TokMinusMinus))
	ctx.Symbols.AddLocal("a", ctx.Types.Int(), 4, SCAuto)
	_, err := Expression0(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, ctx.Deferred.Len())
	pretty := ctx.Emit.Prog.PrettyString()
	assert.Contains(t, pretty, "subeq_local")
}
