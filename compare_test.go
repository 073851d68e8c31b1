package exprc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstantComparisonFoldsAtCompileTime(t *testing.T) {
	ctx := newTestContext(intLit(3), op(TokLt), intLit(5))
	e, err := Expression0(ctx)
	require.NoError(t, err)
	assert.True(t, e.IsConst())
	assert.EqualValues(t, 1, e.IVal)
	assert.Equal(t, 0, ctx.Emit.Prog.Len())
}

func TestRangeDeterminedComparisonFoldsWithWarning(t *testing.T) {
	// a < 256, with a an unsigned char: every representable value of a
	// is below 256, so the comparison is always true regardless of a's
	// runtime value.
	ctx := newTestContext(ident("a"), op(TokLt), intLit(256))
	ctx.Symbols.AddLocal("a", ctx.Types.UChar(), 1, SCAuto)
	ctx.Config.SetBool("compiler.warn_const_comparison", true)
	e, err := Expression0(ctx)
	require.NoError(t, err)
	assert.True(t, e.IsConst())
	assert.EqualValues(t, 1, e.IVal)
	assert.Equal(t, 0, ctx.Emit.Prog.Len())

	foundWarning := false
	for _, d := range ctx.Diags {
		if d.Severity == SeverityWarning {
			foundWarning = true
		}
	}
	assert.True(t, foundWarning, "folding a range-determined comparison must still warn")
}

func TestRangeDeterminedComparisonDoesNotApplyToEquality(t *testing.T) {
	// a == 256, with a an unsigned char: equality's truth can't be
	// decided from the endpoints alone, so this must compile to a real
	// runtime comparison, not fold.
	ctx := newTestContext(ident("a"), op(TokEqEq), intLit(256))
	ctx.Symbols.AddLocal("a", ctx.Types.UChar(), 1, SCAuto)
	e, err := Expression0(ctx)
	require.NoError(t, err)
	assert.False(t, e.IsConst())
	pretty := ctx.Emit.Prog.PrettyString()
	assert.Contains(t, pretty, "cmp")
}

func TestDynamicComparisonAgainstConstantEmitsImmediateCompare(t *testing.T) {
	ctx := newTestContext(ident("a"), op(TokLt), intLit(5))
	ctx.Symbols.AddLocal("a", ctx.Types.Int(), 4, SCAuto)
	e, err := Expression0(ctx)
	require.NoError(t, err)
	assert.False(t, e.IsConst())
	assert.True(t, e.Flags.Has(FlagTested))
	pretty := ctx.Emit.Prog.PrettyString()
	assert.Contains(t, pretty, "ldimm")
	assert.Contains(t, pretty, "cmp")
	assert.NotContains(t, pretty, "push", "the constant rhs never needs the lhs pushed to the operand stack")
}

func TestDynamicComparisonOfTwoVariablesPushesLhs(t *testing.T) {
	ctx := newTestContext(ident("a"), op(TokGt), ident("b"))
	ctx.Symbols.AddLocal("a", ctx.Types.Int(), 4, SCAuto)
	ctx.Symbols.AddLocal("b", ctx.Types.Int(), 6, SCAuto)
	e, err := Expression0(ctx)
	require.NoError(t, err)
	assert.False(t, e.IsConst())
	pretty := ctx.Emit.Prog.PrettyString()
	assert.Contains(t, pretty, "push")
	assert.Contains(t, pretty, "cmp")
}

func TestComparisonOfFunctionTypesIsAnError(t *testing.T) {
	ctx := newTestContext(ident("f"), op(TokLt), ident("g"))
	ctx.Symbols.AddGlobal("f", ctx.Types.Func(ctx.Types.Int(), nil, false), true)
	ctx.Symbols.AddGlobal("g", ctx.Types.Func(ctx.Types.Int(), nil, false), true)
	_, err := Expression0(ctx)
	require.NoError(t, err)
	assert.True(t, ctx.HasErrors())
}
