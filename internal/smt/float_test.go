package smt

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_FloatLiterals(t *testing.T) {
	one := NewFloatVal32(1)
	assert.Equal(t, "(fp #b0 #b01111111 #b"+strings.Repeat("0", 23)+")", one.String())
	assert.Equal(t, one.String(), NewFloatOne(Float32Sort()).String())

	negZero := NewFloatVal64(math.Copysign(0, -1))
	bits := negZero.GetRaw().Bits()
	assert.Equal(t, uint64(1)<<63, bits.Uint64())

	assert.Equal(t, NewFloatVal64(1).String(), NewFloatOne(Float64Sort()).String())
	assert.Equal(t, "(fp #b0 #b"+strings.Repeat("0", 11)+" #b"+strings.Repeat("0", 52)+")",
		NewFloatZero(Float64Sort()).String())
}

func Test_FloatOps(t *testing.T) {
	x := NewFloat("x", Float32Sort())
	zero := NewFloatZero(Float32Sort())
	zeroLit := "(fp #b0 #b00000000 #b" + strings.Repeat("0", 23) + ")"

	assert.Equal(t, "(fp.sub RNE |x| "+zeroLit+")", x.Sub(zero).GetRaw().Shape())
	assert.Equal(t, "(fp.lt |x| "+zeroLit+")", x.Lt(zero).GetRaw().Shape())
	assert.Equal(t, "(fp.roundToIntegral RTP |x|)", x.RoundToIntegral(RTP).GetRaw().Shape())
	assert.Equal(t, "((_ to_fp 11 53) RNE |x|)", x.Convert(Float64Sort()).GetRaw().Shape())
	assert.Same(t, x, x.Convert(Float32Sort()))
}

func Test_FloatFromBitVec(t *testing.T) {
	i := NewBitVec("i", 32)
	assert.Equal(t, "((_ to_fp 8 24) RNE |i|)", FloatFromSigned(i, Float32Sort()).GetRaw().Shape())
	assert.Equal(t, "((_ to_fp_unsigned 11 53) RNE |i|)", FloatFromUnsigned(i, Float64Sort()).GetRaw().Shape())
}
