package exprc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstantFoldsMultiplyBeforeAdd(t *testing.T) {
	// 3 + 4 * 5
	ctx := newTestContext(intLit(3), op(TokPlus), intLit(4), op(TokStar), intLit(5))
	e, err := Expression0(ctx)
	require.NoError(t, err)
	assert.True(t, e.IsConst())
	assert.EqualValues(t, 23, e.IVal)
	assert.Equal(t, 0, ctx.Emit.Prog.Len(), "a fully constant expression must emit no code")
}

func TestLoadThenIncrementByOne(t *testing.T) {
	// a + 1, with `a` a local int
	ctx := newTestContext(ident("a"), op(TokPlus), intLit(1))
	ctx.Symbols.AddLocal("a", ctx.Types.Int(), 4, SCAuto)
	e, err := Expression0(ctx)
	require.NoError(t, err)
	assert.False(t, e.IsConst())
	assert.Equal(t, LocPrimary, e.Location)
	pretty := ctx.Emit.Prog.PrettyString()
	assert.Contains(t, pretty, "ldloc")
}

func TestPointerAdditionScalesByElementSize(t *testing.T) {
	// p + i, with `p` a local int* and `i` a local int: a non-constant
	// index forces the scale-by-element-size path.
	intPtr := ctx0Types.Pointer(ctx0Types.Int())
	ctx := newTestContext(ident("p"), op(TokPlus), ident("i"))
	ctx.Symbols.AddLocal("p", intPtr, 2, SCAuto)
	ctx.Symbols.AddLocal("i", ctx.Types.Int(), 4, SCAuto)
	e, err := Expression0(ctx)
	require.NoError(t, err)
	assert.True(t, e.Type.IsPointer())
	pretty := ctx.Emit.Prog.PrettyString()
	assert.Contains(t, pretty, "scale")
}

func TestChainedAssignment(t *testing.T) {
	// a = b = 3
	ctx := newTestContext(ident("a"), op(TokAssign), ident("b"), op(TokAssign), intLit(3))
	ctx.Symbols.AddLocal("a", ctx.Types.Int(), 4, SCAuto)
	ctx.Symbols.AddLocal("b", ctx.Types.Int(), 6, SCAuto)
	e, err := Expression0(ctx)
	require.NoError(t, err)
	assert.Equal(t, LocPrimary, e.Location)
	pretty := ctx.Emit.Prog.PrettyString()
	assert.Equal(t, 2, countSubstr(pretty, "stloc"), "both `a` and `b` must be stored")
}

func TestPostIncrementDeferredQueueDrains(t *testing.T) {
	// a++ + a++
	ctx := newTestContext(ident("a"), op(TokPlusPlus), op(TokPlus), ident("a"), op(TokPlusPlus))
	ctx.Symbols.AddLocal("a", ctx.Types.Int(), 4, SCAuto)
	_, err := Expression0(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, ctx.Deferred.Len(), "queue must be fully drained by the statement boundary")
	pretty := ctx.Emit.Prog.PrettyString()
	assert.Equal(t, 2, countSubstr(pretty, "addeq_local"), "both post-increments must have drained exactly once each")
}

func TestSizeofConstantFoldEmitsNoCode(t *testing.T) {
	// sizeof a + sizeof a: sizeof's operand is parsed in an
	// unevaluated bracket and rolled back regardless of what it is, so
	// the whole sum folds to a constant with zero residual code.
	ctx := newTestContext(
		Token{Kind: TokSizeof}, ident("a"),
		op(TokPlus),
		Token{Kind: TokSizeof}, ident("a"),
	)
	ctx.Symbols.AddLocal("a", ctx.Types.Int(), 4, SCAuto)
	e, err := Expression0(ctx)
	require.NoError(t, err)
	assert.True(t, e.IsConst())
	assert.EqualValues(t, 4, e.IVal)
	assert.Equal(t, 0, ctx.Emit.Prog.Len())
}

func TestCommaDiscardsLeftOperandValue(t *testing.T) {
	// a, 5 : the whole expression's value/type is the last operand's.
	ctx := newTestContext(ident("a"), op(TokComma), intLit(5))
	ctx.Symbols.AddLocal("a", ctx.Types.Int(), 4, SCAuto)
	e, err := Expression0(ctx)
	require.NoError(t, err)
	assert.True(t, e.IsConst())
	assert.EqualValues(t, 5, e.IVal)
}

func countSubstr(s, sub string) int {
	n := 0
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			n++
			i += len(sub) - 1
		}
	}
	return n
}

var ctx0Types = Types{}
