package exprc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromAbsoluteAddressMaterialisesThenDereferences(t *testing.T) {
	// A variable pinned at a fixed hardware address (e.g. a memory-mapped
	// register): the address is a compile-time constant, but the value
	// still has to come from an indirect load.
	ctx := newTestContext()
	e := ExprDesc{Type: ctx.Types.UChar(), Location: LocAbs, RefType: LValue, IVal: 0xD020}
	loaded := Load(ctx, e)
	require.Equal(t, LocPrimary, loaded.Location)
	pretty := ctx.Emit.Prog.PrettyString()
	assert.Contains(t, pretty, "ldimm")
	assert.Contains(t, pretty, "ldind")
}

func TestStoreToAbsoluteAddressDoesNotClobberTheStoredValue(t *testing.T) {
	// *(uchar*)0xD020 = c: materialising the absolute address into the
	// primary register must not destroy c's value, which is also
	// resident in the primary at the moment Store runs.
	ctx := newTestContext()
	ctx.Symbols.AddLocal("c", ctx.Types.UChar(), 4, SCAuto)
	val := Load(ctx, ExprDesc{Type: ctx.Types.UChar(), Location: LocStack, RefType: LValue, IVal: 4})
	require.Equal(t, LocPrimary, val.Location)

	lhs := ExprDesc{Type: ctx.Types.UChar(), Location: LocAbs, RefType: LValue, IVal: 0xD020}
	out := Store(ctx, lhs, lhs.Type)
	assert.Equal(t, LocPrimary, out.Location)

	pretty := ctx.Emit.Prog.PrettyString()
	assert.Contains(t, pretty, "push", "the value must be stashed before the address overwrites primary")
	assert.Contains(t, pretty, "ldimm")
	assert.Contains(t, pretty, "stind")
	assert.Contains(t, pretty, "pop", "primary must be restored to the stored value afterward")
	assert.Equal(t, 1, countSubstr(pretty, "push"))
	assert.Equal(t, 1, countSubstr(pretty, "pop"))
}
