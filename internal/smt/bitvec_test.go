package smt

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_BitVecValTwosComplement(t *testing.T) {
	a := NewBitVecValInt64(-1, 8)
	v, ok := a.Value()
	assert.True(t, ok)
	assert.Equal(t, int64(255), v.Int64())
	assert.Equal(t, "#b11111111", a.String())

	b := NewBitVecValInt64(-128, 8)
	v, _ = b.Value()
	assert.Equal(t, int64(128), v.Int64())

	c := NewBitVecVal(new(big.Int).SetUint64(^uint64(0)), 64)
	v, _ = c.Value()
	assert.Equal(t, 0, v.Cmp(new(big.Int).SetUint64(^uint64(0))))

	d := NewBitVecVal(big.NewInt(300), 8)
	v, _ = d.Value()
	assert.Equal(t, int64(44), v.Int64())
}

func Test_BitVecOps(t *testing.T) {
	x := NewBitVec("x", 16)
	one := NewBitVecValInt64(1, 16)

	assert.Equal(t, "(bvadd |x| #b0000000000000001)", x.Add(one).GetRaw().Shape())
	assert.Equal(t, "(bvslt |x| #b0000000000000001)", x.Lt(one).GetRaw().Shape())
	assert.Equal(t, "(bvult |x| #b0000000000000001)", x.Ult(one).GetRaw().Shape())
	assert.Equal(t, "(not (= |x| #b0000000000000001))", x.Ne(one).GetRaw().Shape())
	assert.True(t, x.IsSymbolic())
	assert.False(t, one.IsSymbolic())
}

func Test_BitVecResize(t *testing.T) {
	x := NewBitVec("x", 8)

	assert.Same(t, x, x.Resize(8, true))
	assert.Equal(t, uint32(16), x.Resize(16, true).Size())
	assert.Equal(t, "((_ sign_extend 8) |x|)", x.Resize(16, true).GetRaw().Shape())
	assert.Equal(t, "((_ zero_extend 8) |x|)", x.Resize(16, false).GetRaw().Shape())
	assert.Equal(t, "((_ extract 3 0) |x|)", x.Resize(4, false).GetRaw().Shape())
}

func Test_BitVecSortMismatchPanics(t *testing.T) {
	a := NewBitVec("a", 8)
	b := NewBitVec("b", 16)
	assert.Panics(t, func() { a.Add(b) })
}
