package smt

import (
	"math"
	"math/big"
)

// Float is an IEEE-754 floating-point term. Arithmetic rounds to nearest,
// ties to even.
type Float struct {
	value *Term
}

func NewFloatVal32(value float32) *Float {
	return NewFloatValFromBits(uint64(math.Float32bits(value)), Float32Sort())
}

func NewFloatVal64(value float64) *Float {
	return NewFloatValFromBits(math.Float64bits(value), Float64Sort())
}

// NewFloatValFromBits builds a literal from its IEEE bit pattern.
func NewFloatValFromBits(bits uint64, sort Sort) *Float {
	return &Float{value: &Term{op: OpFloatConst, sort: sort, bits: new(big.Int).SetUint64(bits)}}
}

// NewFloatZero is +0 of the given sort.
func NewFloatZero(sort Sort) *Float {
	return NewFloatValFromBits(0, sort)
}

// NewFloatOne is 1.0 of the given sort.
func NewFloatOne(sort Sort) *Float {
	bias := uint64(1)<<(sort.Exp-1) - 1
	return NewFloatValFromBits(bias<<(sort.Sig-1), sort)
}

// NewFloat allocates a fresh floating-point constant.
func NewFloat(name string, sort Sort) *Float {
	return &Float{value: NewSymbol(name, sort)}
}

// FloatFromSigned converts a two's complement bit-vector.
func FloatFromSigned(bv *BitVec, sort Sort) *Float {
	return &Float{value: newRoundedTerm(OpFpFromSigned, sort, RNE, bv.value)}
}

// FloatFromUnsigned converts an unsigned bit-vector.
func FloatFromUnsigned(bv *BitVec, sort Sort) *Float {
	return &Float{value: newRoundedTerm(OpFpFromUnsigned, sort, RNE, bv.value)}
}

func (f *Float) GetRaw() *Term {
	return f.value
}

func (f *Float) Sort() Sort {
	return f.value.sort
}

func (f *Float) String() string {
	return f.value.String()
}

func (f *Float) IsSymbolic() bool {
	return f.value.op != OpFloatConst
}

func (f *Float) rounded(op Op, args ...*Float) *Float {
	terms := make([]*Term, 0, len(args)+1)
	terms = append(terms, f.value)
	for _, arg := range args {
		mustSort(op, f.Sort(), arg.value)
		terms = append(terms, arg.value)
	}
	return &Float{value: newRoundedTerm(op, f.Sort(), RNE, terms...)}
}

func (f *Float) compare(op Op, other *Float) *Bool {
	mustSort(op, f.Sort(), other.value)
	return &Bool{value: newTerm(op, BoolSort(), f.value, other.value)}
}

func (f *Float) Neg() *Float {
	return &Float{value: newTerm(OpFpNeg, f.Sort(), f.value)}
}

func (f *Float) Add(other *Float) *Float { return f.rounded(OpFpAdd, other) }
func (f *Float) Sub(other *Float) *Float { return f.rounded(OpFpSub, other) }
func (f *Float) Mul(other *Float) *Float { return f.rounded(OpFpMul, other) }
func (f *Float) Div(other *Float) *Float { return f.rounded(OpFpDiv, other) }
func (f *Float) Sqrt() *Float            { return f.rounded(OpFpSqrt) }

// RoundToIntegral rounds to an integral value with an explicit mode.
func (f *Float) RoundToIntegral(rm RoundingMode) *Float {
	return &Float{value: newRoundedTerm(OpFpRoundToIntegral, f.Sort(), rm, f.value)}
}

// Convert rounds f into another floating-point sort.
func (f *Float) Convert(sort Sort) *Float {
	if sort.Equal(f.Sort()) {
		return f
	}
	return &Float{value: newRoundedTerm(OpFpFromFloat, sort, RNE, f.value)}
}

// Eq is IEEE equality: NaN differs from everything and +0 equals -0.
func (f *Float) Eq(other *Float) *Bool { return f.compare(OpFpEq, other) }
func (f *Float) Lt(other *Float) *Bool { return f.compare(OpFpLt, other) }
func (f *Float) Le(other *Float) *Bool { return f.compare(OpFpLe, other) }
func (f *Float) Gt(other *Float) *Bool { return f.compare(OpFpGt, other) }
func (f *Float) Ge(other *Float) *Bool { return f.compare(OpFpGe, other) }
