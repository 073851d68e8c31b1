package exprc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectCallEmitsCallByName(t *testing.T) {
	// f(a), with `f` a known global function and `a` a local int.
	ctx := newTestContext(ident("f"), op(TokLParen), ident("a"), op(TokRParen))
	ctx.Symbols.AddGlobal("f", ctx.Types.Func(ctx.Types.Int(), []*Type{ctx.Types.Int()}, false), true)
	ctx.Symbols.AddLocal("a", ctx.Types.Int(), 4, SCAuto)
	e, err := Expression0(ctx)
	require.NoError(t, err)
	assert.Equal(t, LocPrimary, e.Location)
	pretty := ctx.Emit.Prog.PrettyString()
	assert.Contains(t, pretty, "call")
	assert.NotContains(t, pretty, "callind")
}

func TestCdeclLeavesArgumentOnStackUnderAutoCDecl(t *testing.T) {
	// auto_cdecl is the default: the sole argument is pushed, not left
	// resident in the primary register.
	ctx := newTestContext(ident("f"), op(TokLParen), intLit(1), op(TokRParen))
	ctx.Symbols.AddGlobal("f", ctx.Types.Func(ctx.Types.Int(), []*Type{ctx.Types.Int()}, false), true)
	_, err := Expression0(ctx)
	require.NoError(t, err)
	pretty := ctx.Emit.Prog.PrettyString()
	assert.Contains(t, pretty, "push")
}

func TestMultiArgCallPreallocatesFrameInsteadOfPushing(t *testing.T) {
	// f(a, b): 2 frame-resident args under the default code_size_factor
	// picks the pre-allocate-once-and-store strategy, not per-arg push.
	ctx := newTestContext(
		ident("f"), op(TokLParen), ident("a"), op(TokComma), ident("b"), op(TokRParen),
	)
	ctx.Symbols.AddGlobal("f", ctx.Types.Func(ctx.Types.Int(), []*Type{ctx.Types.Int(), ctx.Types.Int()}, false), true)
	ctx.Symbols.AddLocal("a", ctx.Types.Int(), 4, SCAuto)
	ctx.Symbols.AddLocal("b", ctx.Types.Int(), 6, SCAuto)
	_, err := Expression0(ctx)
	require.NoError(t, err)
	pretty := ctx.Emit.Prog.PrettyString()
	assert.Contains(t, pretty, "space")
	assert.NotContains(t, pretty, "push", "the framed strategy stores directly, it never pushes")
}

func TestMultiArgCallPushesOneByOneWhenCodeSizeFavoured(t *testing.T) {
	ctx := newTestContext(
		ident("f"), op(TokLParen), ident("a"), op(TokComma), ident("b"), op(TokRParen),
	)
	ctx.Symbols.AddGlobal("f", ctx.Types.Func(ctx.Types.Int(), []*Type{ctx.Types.Int(), ctx.Types.Int()}, false), true)
	ctx.Symbols.AddLocal("a", ctx.Types.Int(), 4, SCAuto)
	ctx.Symbols.AddLocal("b", ctx.Types.Int(), 6, SCAuto)
	ctx.Config.SetInt("compiler.code_size_factor", 200)
	_, err := Expression0(ctx)
	require.NoError(t, err)
	pretty := ctx.Emit.Prog.PrettyString()
	assert.Contains(t, pretty, "push")
	assert.NotContains(t, pretty, "space", "the one-by-one strategy never pre-allocates a frame")
}

func TestFastcallOmitsPushOfLastArgument(t *testing.T) {
	ctx := newTestContext(ident("f"), op(TokLParen), intLit(1), op(TokRParen))
	ctx.Symbols.AddGlobal("f", ctx.Types.Func(ctx.Types.Int(), []*Type{ctx.Types.Int()}, false), true)
	ctx.Config.SetBool("compiler.auto_cdecl", false)
	_, err := Expression0(ctx)
	require.NoError(t, err)
	pretty := ctx.Emit.Prog.PrettyString()
	assert.NotContains(t, pretty, "push", "fastcall's one argument must stay in the primary register")
}
