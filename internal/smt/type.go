package smt

import "fmt"

type SortKind int

const (
	SortBool SortKind = iota
	SortBitVec
	SortFloat
)

// Sort of a term. Width is set for bit-vectors, Exp and Sig (significand
// including the hidden bit) for floating point.
type Sort struct {
	Kind  SortKind
	Width uint32
	Exp   uint32
	Sig   uint32
}

func BoolSort() Sort {
	return Sort{Kind: SortBool}
}

func BitVecSort(width uint32) Sort {
	return Sort{Kind: SortBitVec, Width: width}
}

func FloatSort(exp, sig uint32) Sort {
	return Sort{Kind: SortFloat, Exp: exp, Sig: sig}
}

// Float32Sort is IEEE-754 binary32.
func Float32Sort() Sort { return FloatSort(8, 24) }

// Float64Sort is IEEE-754 binary64.
func Float64Sort() Sort { return FloatSort(11, 53) }

func (s Sort) Equal(other Sort) bool {
	return s == other
}

func (s Sort) String() string {
	switch s.Kind {
	case SortBool:
		return "Bool"
	case SortBitVec:
		return fmt.Sprintf("(_ BitVec %d)", s.Width)
	case SortFloat:
		return fmt.Sprintf("(_ FloatingPoint %d %d)", s.Exp, s.Sig)
	}
	return fmt.Sprintf("sort(%d)", int(s.Kind))
}
