package exprc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstantConditionTernaryEmitsOnlyTakenBranch(t *testing.T) {
	// 1 ? a : b : the else-branch must be parsed but its code rolled
	// back, and the result is a's descriptor as is, not yet loaded.
	ctx := newTestContext(
		intLit(1), op(TokQuestion), ident("a"), op(TokColon), ident("b"),
	)
	ctx.Symbols.AddLocal("a", ctx.Types.Int(), 4, SCAuto)
	ctx.Symbols.AddLocal("b", ctx.Types.Int(), 6, SCAuto)
	e, err := Expression0(ctx)
	require.NoError(t, err)
	assert.False(t, e.IsConst())
	pretty := ctx.Emit.Prog.PrettyString()
	assert.Equal(t, 0, countSubstr(pretty, "ldloc"), "the untaken branch's code is rolled back and the taken branch is returned unloaded")
	assert.EqualValues(t, 4, e.IVal, "the result is a's descriptor (frame offset 4), not b's")
}

func TestDynamicConditionTernaryBranchesAtRunTime(t *testing.T) {
	// c ? a : b, with c a dynamic (non-constant) condition.
	ctx := newTestContext(
		ident("c"), op(TokQuestion), ident("a"), op(TokColon), ident("b"),
	)
	ctx.Symbols.AddLocal("c", ctx.Types.Int(), 2, SCAuto)
	ctx.Symbols.AddLocal("a", ctx.Types.Int(), 4, SCAuto)
	ctx.Symbols.AddLocal("b", ctx.Types.Int(), 6, SCAuto)
	e, err := Expression0(ctx)
	require.NoError(t, err)
	assert.Equal(t, LocPrimary, e.Location)
	pretty := ctx.Emit.Prog.PrettyString()
	assert.Contains(t, pretty, "false_jump")
	assert.Contains(t, pretty, "jump")
}
