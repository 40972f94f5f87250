package smt

import (
	"math/big"
)

type BitVec struct {
	value *Term
}

// NewBitVecVal builds a literal from value reduced modulo 2^size, so negative
// values become their two's complement bit pattern.
func NewBitVecVal(value *big.Int, size uint32) *BitVec {
	modulus := new(big.Int).Lsh(big.NewInt(1), uint(size))
	bits := new(big.Int).Mod(value, modulus)
	return &BitVec{value: &Term{op: OpBitVecConst, sort: BitVecSort(size), bits: bits}}
}

func NewBitVecValInt64(value int64, size uint32) *BitVec {
	return NewBitVecVal(big.NewInt(value), size)
}

// NewBitVec allocates a fresh bit-vector constant.
func NewBitVec(name string, size uint32) *BitVec {
	return &BitVec{value: NewSymbol(name, BitVecSort(size))}
}

func (bv *BitVec) GetRaw() *Term {
	return bv.value
}

func (bv *BitVec) Sort() Sort {
	return bv.value.sort
}

func (bv *BitVec) Size() uint32 {
	return bv.value.sort.Width
}

func (bv *BitVec) String() string {
	return bv.value.String()
}

func (bv *BitVec) IsSymbolic() bool {
	return bv.value.op != OpBitVecConst
}

// Value returns the unsigned value of a literal.
func (bv *BitVec) Value() (*big.Int, bool) {
	if bv.IsSymbolic() {
		return nil, false
	}
	return bv.value.Bits(), true
}

func (bv *BitVec) unary(op Op) *BitVec {
	return &BitVec{value: newTerm(op, bv.Sort(), bv.value)}
}

func (bv *BitVec) binary(op Op, other *BitVec) *BitVec {
	mustSort(op, bv.Sort(), other.value)
	return &BitVec{value: newTerm(op, bv.Sort(), bv.value, other.value)}
}

func (bv *BitVec) compare(op Op, other *BitVec) *Bool {
	mustSort(op, bv.Sort(), other.value)
	return &Bool{value: newTerm(op, BoolSort(), bv.value, other.value)}
}

// Not is bitwise complement.
func (bv *BitVec) Not() *BitVec { return bv.unary(OpBvNot) }

// Neg two's complement negation
func (bv *BitVec) Neg() *BitVec { return bv.unary(OpBvNeg) }

func (bv *BitVec) Add(other *BitVec) *BitVec  { return bv.binary(OpBvAdd, other) }
func (bv *BitVec) Sub(other *BitVec) *BitVec  { return bv.binary(OpBvSub, other) }
func (bv *BitVec) Mul(other *BitVec) *BitVec  { return bv.binary(OpBvMul, other) }
func (bv *BitVec) UDiv(other *BitVec) *BitVec { return bv.binary(OpBvUDiv, other) }
func (bv *BitVec) SDiv(other *BitVec) *BitVec { return bv.binary(OpBvSDiv, other) }
func (bv *BitVec) URem(other *BitVec) *BitVec { return bv.binary(OpBvURem, other) }
func (bv *BitVec) SRem(other *BitVec) *BitVec { return bv.binary(OpBvSRem, other) }
func (bv *BitVec) And(other *BitVec) *BitVec  { return bv.binary(OpBvAnd, other) }
func (bv *BitVec) Or(other *BitVec) *BitVec   { return bv.binary(OpBvOr, other) }
func (bv *BitVec) Xor(other *BitVec) *BitVec  { return bv.binary(OpBvXor, other) }

// Shl left shift
func (bv *BitVec) Shl(other *BitVec) *BitVec { return bv.binary(OpBvShl, other) }

// Shr logical right shift
func (bv *BitVec) Shr(other *BitVec) *BitVec { return bv.binary(OpBvLShr, other) }

// AShr arithmetic right shift
func (bv *BitVec) AShr(other *BitVec) *BitVec { return bv.binary(OpBvAShr, other) }

// Lt and friends compare as signed; the U-prefixed variants as unsigned.
func (bv *BitVec) Lt(other *BitVec) *Bool  { return bv.compare(OpBvSLt, other) }
func (bv *BitVec) Le(other *BitVec) *Bool  { return bv.compare(OpBvSLe, other) }
func (bv *BitVec) Gt(other *BitVec) *Bool  { return bv.compare(OpBvSGt, other) }
func (bv *BitVec) Ge(other *BitVec) *Bool  { return bv.compare(OpBvSGe, other) }
func (bv *BitVec) Ult(other *BitVec) *Bool { return bv.compare(OpBvULt, other) }
func (bv *BitVec) Ule(other *BitVec) *Bool { return bv.compare(OpBvULe, other) }
func (bv *BitVec) Ugt(other *BitVec) *Bool { return bv.compare(OpBvUGt, other) }
func (bv *BitVec) Uge(other *BitVec) *Bool { return bv.compare(OpBvUGe, other) }

func (bv *BitVec) Eq(other *BitVec) *Bool {
	return bv.compare(OpEq, other)
}

func (bv *BitVec) Ne(other *BitVec) *Bool {
	return bv.Eq(other).Not()
}

// Extract bits hi..lo inclusive.
func (bv *BitVec) Extract(hi, lo uint32) *BitVec {
	if hi < lo || hi >= bv.Size() {
		panic("smt: extract out of range")
	}
	return &BitVec{value: newIndexedTerm(OpBvExtract, BitVecSort(hi-lo+1), []uint32{hi, lo}, bv.value)}
}

func (bv *BitVec) ZeroExtend(n uint32) *BitVec {
	if n == 0 {
		return bv
	}
	return &BitVec{value: newIndexedTerm(OpBvZeroExtend, BitVecSort(bv.Size()+n), []uint32{n}, bv.value)}
}

func (bv *BitVec) SignExtend(n uint32) *BitVec {
	if n == 0 {
		return bv
	}
	return &BitVec{value: newIndexedTerm(OpBvSignExtend, BitVecSort(bv.Size()+n), []uint32{n}, bv.value)}
}

// Resize truncates or extends bv to size bits.
func (bv *BitVec) Resize(size uint32, signed bool) *BitVec {
	switch {
	case size == bv.Size():
		return bv
	case size < bv.Size():
		return bv.Extract(size-1, 0)
	case signed:
		return bv.SignExtend(size - bv.Size())
	}
	return bv.ZeroExtend(size - bv.Size())
}
