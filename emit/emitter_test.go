package emit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushPopBalances(t *testing.T) {
	e := NewEmitter()
	e.Push(Width2)
	e.Push(Width1)
	assert.Equal(t, 3, e.StackPtr)
	e.Pop(Width1)
	e.Pop(Width2)
	assert.Equal(t, 0, e.StackPtr)
	require.NoError(t, e.CheckBalanced(0))
}

func TestCheckBalancedDetectsMismatch(t *testing.T) {
	e := NewEmitter()
	e.Push(Width2)
	err := e.CheckBalanced(0)
	assert.Error(t, err)
}

func TestRemoveFromUndoesPush(t *testing.T) {
	e := NewEmitter()
	mark := e.Mark()
	e.Push(Width2)
	e.Immediate(Width2, 0, 3)
	assert.False(t, e.IsEmpty(mark, e.Mark()))
	e.RemoveFrom(mark)
	assert.True(t, e.IsEmpty(mark, e.Mark()))
	assert.Equal(t, 0, e.Prog.Len())
}

func TestMoveRangeRelocatesClosedRange(t *testing.T) {
	e := NewEmitter()
	e.Immediate(Width2, 0, 1) // 0
	from := e.Mark()
	e.TypeAdjust(Width1, Width2, 0) // 1: the chunk being moved
	to := e.Mark()
	e.Immediate(Width2, 0, 2) // 2
	dest := e.Mark()
	e.Immediate(Width2, 0, 3) // 3

	e.MoveRange(from, to, dest)

	ops := make([]OpCode, e.Prog.Len())
	for i := 0; i < e.Prog.Len(); i++ {
		ops[i] = e.Prog.code[i].Op
	}
	require.Equal(t, []OpCode{OpImmediate, OpImmediate, OpTypeAdjust, OpImmediate}, ops)
}

func TestPrettyStringRendersMnemonics(t *testing.T) {
	e := NewEmitter()
	e.GetStatic(Width2, 0, "a")
	e.Immediate(Width2, 0, 1)
	e.Add(Width2, 0)
	s := e.Prog.PrettyString()
	assert.Contains(t, s, "ldsta a")
	assert.Contains(t, s, "add")
}

func TestLabelsAreUnique(t *testing.T) {
	l1 := NewLabel()
	l2 := NewLabel()
	assert.NotEqual(t, l1.ID, l2.ID)
}
