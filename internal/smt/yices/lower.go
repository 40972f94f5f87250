package yices

import (
	yices2 "github.com/ianamason/yices2_go_bindings/yices_api"
	"github.com/pkg/errors"

	"streamprover/internal/smt"
)

func lowerSort(sort smt.Sort) (yices2.TypeT, error) {
	switch sort.Kind {
	case smt.SortBool:
		return yices2.BoolType(), nil
	case smt.SortBitVec:
		return yices2.BvType(sort.Width), nil
	}
	return 0, ErrFloatUnsupported
}

// bvconst builds a literal from its bits, least significant first.
func bvconst(t *smt.Term) yices2.TermT {
	bits := t.Bits()
	v := make([]int32, t.Sort().Width)
	for i := range v {
		v[i] = int32(bits.Bit(i))
	}
	return yices2.BvconstFromArray(v)
}

var binaryBv = map[smt.Op]func(t1, t2 yices2.TermT) yices2.TermT{
	smt.OpEq: yices2.Eq,

	smt.OpBvAdd:  yices2.Bvadd,
	smt.OpBvSub:  yices2.Bvsub,
	smt.OpBvMul:  yices2.Bvmul,
	smt.OpBvUDiv: yices2.Bvdiv,
	smt.OpBvSDiv: yices2.Bvsdiv,
	smt.OpBvURem: yices2.Bvrem,
	smt.OpBvSRem: yices2.Bvsrem,
	smt.OpBvAnd:  yices2.Bvand2,
	smt.OpBvOr:   yices2.Bvor2,
	smt.OpBvXor:  yices2.Bvxor2,
	smt.OpBvShl:  yices2.Bvshl,
	smt.OpBvLShr: yices2.Bvlshr,
	smt.OpBvAShr: yices2.Bvashr,

	smt.OpBvULt: yices2.BvltAtom,
	smt.OpBvULe: yices2.BvleAtom,
	smt.OpBvUGt: yices2.BvgtAtom,
	smt.OpBvUGe: yices2.BvgeAtom,
	smt.OpBvSLt: yices2.BvsltAtom,
	smt.OpBvSLe: yices2.BvsleAtom,
	smt.OpBvSGt: yices2.BvsgtAtom,
	smt.OpBvSGe: yices2.BvsgeAtom,
}

// lower translates t into a yices term, sharing work across common subterms.
func (s *Solver) lower(t *smt.Term) (yices2.TermT, error) {
	if yt, ok := s.terms[t]; ok {
		return yt, nil
	}
	if t.Sort().Kind == smt.SortFloat {
		return yices2.NullTerm, ErrFloatUnsupported
	}

	args := make([]yices2.TermT, len(t.Args()))
	for i, arg := range t.Args() {
		yt, err := s.lower(arg)
		if err != nil {
			return yices2.NullTerm, err
		}
		args[i] = yt
	}

	var yt yices2.TermT
	switch op := t.Op(); op {
	case smt.OpSymbol:
		tau, err := lowerSort(t.Sort())
		if err != nil {
			return yices2.NullTerm, err
		}
		yt = yices2.NewUninterpretedTerm(tau)
		if yt != yices2.NullTerm {
			yices2.SetTermName(yt, t.SymbolName())
			s.symbols.Add(t)
		}
	case smt.OpTrue:
		yt = yices2.True()
	case smt.OpFalse:
		yt = yices2.False()
	case smt.OpBitVecConst:
		yt = bvconst(t)
	case smt.OpNot:
		yt = yices2.Not(args[0])
	case smt.OpAnd:
		yt = yices2.And(args)
	case smt.OpOr:
		yt = yices2.Or(args)
	case smt.OpIte:
		yt = yices2.Ite(args[0], args[1], args[2])
	case smt.OpBvNot:
		yt = yices2.Bvnot(args[0])
	case smt.OpBvNeg:
		yt = yices2.Bvneg(args[0])
	case smt.OpBvExtract:
		// yices takes the low bit first.
		yt = yices2.Bvextract(args[0], t.Params()[1], t.Params()[0])
	case smt.OpBvZeroExtend:
		yt = yices2.ZeroExtend(args[0], t.Params()[0])
	case smt.OpBvSignExtend:
		yt = yices2.SignExtend(args[0], t.Params()[0])
	default:
		f, ok := binaryBv[op]
		if !ok {
			return yices2.NullTerm, errors.Errorf("yices: cannot lower %s", op)
		}
		yt = f(args[0], args[1])
	}
	if yt == yices2.NullTerm {
		return yices2.NullTerm, lastError(t.Op().String())
	}
	s.terms[t] = yt
	return yt, nil
}
