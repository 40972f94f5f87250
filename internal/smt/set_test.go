package smt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Symbols(t *testing.T) {
	x := NewBitVec("x", 8)
	y := NewBitVec("y", 8)
	p := NewBool("p")

	sum := x.Add(y)
	formula := p.And(sum.Eq(x), sum.Ult(y))

	symbols := Symbols(formula.GetRaw())
	assert.Equal(t, 3, symbols.Len())
	assert.Equal(t, []*Term{p.GetRaw(), x.GetRaw(), y.GetRaw()}, symbols.GetElements())
	assert.True(t, symbols.Contains(x.GetRaw()))
	assert.False(t, symbols.Contains(sum.GetRaw()))
}

func Test_SetKeepsInsertionOrder(t *testing.T) {
	a := NewBool("a").GetRaw()
	b := NewBool("b").GetRaw()

	s := NewSet(b, a)
	s.Add(b)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []*Term{b, a}, s.GetElements())

	elements := s.GetElements()
	elements[0] = nil
	assert.Same(t, b, s.GetElements()[0])
}
