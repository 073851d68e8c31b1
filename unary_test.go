package exprc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressOfLocalEmitsNoLoad(t *testing.T) {
	// &a: takes a's address; Location must end up LocPrimary with
	// FlagAddressOf, not a loaded value.
	ctx := newTestContext(op(TokAmp), ident("a"))
	ctx.Symbols.AddLocal("a", ctx.Types.Int(), 4, SCAuto)
	e, err := Expression0(ctx)
	require.NoError(t, err)
	assert.True(t, e.Type.IsPointer())
	assert.True(t, e.Flags.Has(FlagAddressOf))
}

func TestAddressOfRValueIsAnError(t *testing.T) {
	// &3: taking the address of a bare constant is never legal.
	ctx := newTestContext(op(TokAmp), intLit(3))
	_, err := Expression0(ctx)
	require.NoError(t, err)
	assert.True(t, ctx.HasErrors())
}

func TestPrefixIncrementStoresImmediately(t *testing.T) {
	// ++a: unlike postfix, the mutation is not deferred.
	ctx := newTestContext(op(TokPlusPlus), ident("a"))
	ctx.Symbols.AddLocal("a", ctx.Types.Int(), 4, SCAuto)
	_, err := Expression0(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, ctx.Deferred.Len())
	pretty := ctx.Emit.Prog.PrettyString()
	assert.Contains(t, pretty, "inc", "prefix form mutates directly, not through the deferred addeq path")
}

func TestSizeofOfPointerRollsBackAnyCode(t *testing.T) {
	// sizeof *p: the dereference's own code must be rolled back.
	ctx := newTestContext(Token{Kind: TokSizeof}, op(TokStar), ident("p"))
	ctx.Symbols.AddLocal("p", ctx.Types.Pointer(ctx.Types.Int()), 2, SCAuto)
	e, err := Expression0(ctx)
	require.NoError(t, err)
	assert.True(t, e.IsConst())
	assert.EqualValues(t, 2, e.IVal)
	assert.Equal(t, 0, ctx.Emit.Prog.Len())
}

func TestUnaryMinusFoldsConstant(t *testing.T) {
	ctx := newTestContext(op(TokMinus), intLit(5))
	e, err := Expression0(ctx)
	require.NoError(t, err)
	assert.True(t, e.IsConst())
	assert.EqualValues(t, -5, e.IVal)
	assert.Equal(t, 0, ctx.Emit.Prog.Len())
}

func TestLogicalNotOfNonzeroFoldsToZero(t *testing.T) {
	ctx := newTestContext(op(TokBang), intLit(7))
	e, err := Expression0(ctx)
	require.NoError(t, err)
	assert.True(t, e.IsConst())
	assert.EqualValues(t, 0, e.IVal)
}
