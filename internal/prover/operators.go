package prover

import (
	"fmt"
	"math/big"

	"github.com/pkg/errors"

	"streamprover/internal/smt"
	"streamprover/internal/stream"
	"streamprover/internal/symbolic"
)

// Transcendental operators have no exact IEEE encoding in the solver logic.
var transcendental = map[stream.UnaryOp]bool{
	stream.Exp: true, stream.Log: true,
	stream.Sin: true, stream.Cos: true, stream.Tan: true,
	stream.Asin: true, stream.Acos: true, stream.Atan: true,
	stream.Sinh: true, stream.Cosh: true, stream.Tanh: true,
	stream.Asinh: true, stream.Acosh: true, stream.Atanh: true,
}

func encodeUnary(e *stream.Op1, x symbolic.Value) (symbolic.Value, error) {
	if transcendental[e.Op] {
		if x.Type().IsFloating() {
			return nil, unsupported("operator %s", e.Op)
		}
		return nil, mismatch1(e.Op.String(), x)
	}

	switch e.Op {
	case stream.Not:
		if b, ok := x.(*symbolic.Bool); ok {
			return &symbolic.Bool{Term: b.Term.Not()}, nil
		}

	case stream.Abs:
		switch x := x.(type) {
		case *symbolic.Int:
			zero := smt.NewBitVecValInt64(0, x.Term.Size())
			return &symbolic.Int{Typ: x.Typ, Term: x.Term.Lt(zero).IteBitVec(x.Term.Neg(), x.Term)}, nil
		case *symbolic.Word:
			return x, nil
		case *symbolic.Float:
			zero := smt.NewFloatZero(x.Term.Sort())
			return &symbolic.Float{Typ: x.Typ, Term: x.Term.Lt(zero).IteFloat(zero.Sub(x.Term), x.Term)}, nil
		}

	case stream.Sign:
		switch x := x.(type) {
		case *symbolic.Int:
			w := x.Term.Size()
			zero := smt.NewBitVecValInt64(0, w)
			sign := x.Term.Lt(zero).IteBitVec(smt.NewBitVecValInt64(-1, w), smt.NewBitVecValInt64(1, w))
			return &symbolic.Int{Typ: x.Typ, Term: x.Term.Eq(zero).IteBitVec(zero, sign)}, nil
		case *symbolic.Word:
			zero := smt.NewBitVecValInt64(0, x.Term.Size())
			one := smt.NewBitVecValInt64(1, x.Term.Size())
			return &symbolic.Word{Typ: x.Typ, Term: x.Term.Eq(zero).IteBitVec(zero, one)}, nil
		case *symbolic.Float:
			zero := smt.NewFloatZero(x.Term.Sort())
			one := smt.NewFloatOne(x.Term.Sort())
			sign := x.Term.Lt(zero).IteFloat(one.Neg(), one)
			return &symbolic.Float{Typ: x.Typ, Term: x.Term.Eq(zero).IteFloat(zero, sign)}, nil
		}

	case stream.Negate:
		if bv, typ, ok := asIntegral(x); ok {
			return wrapIntegral(typ, bv.Neg()), nil
		}
		if f, ok := x.(*symbolic.Float); ok {
			return &symbolic.Float{Typ: f.Typ, Term: f.Term.Neg()}, nil
		}

	case stream.BwNot:
		if bv, typ, ok := asIntegral(x); ok {
			return wrapIntegral(typ, bv.Not()), nil
		}

	case stream.Recip:
		if f, ok := x.(*symbolic.Float); ok {
			return &symbolic.Float{Typ: f.Typ, Term: smt.NewFloatOne(f.Term.Sort()).Div(f.Term)}, nil
		}

	case stream.Sqrt:
		if f, ok := x.(*symbolic.Float); ok {
			return &symbolic.Float{Typ: f.Typ, Term: f.Term.Sqrt()}, nil
		}

	case stream.Ceiling, stream.Floor:
		if f, ok := x.(*symbolic.Float); ok {
			rm := smt.RTP
			if e.Op == stream.Floor {
				rm = smt.RTN
			}
			return &symbolic.Float{Typ: f.Typ, Term: f.Term.RoundToIntegral(rm)}, nil
		}

	case stream.Cast:
		return cast(e.Typ, x)

	case stream.GetField:
		if st, ok := x.(*symbolic.Struct); ok {
			i, found := st.Typ.FieldIndex(e.Field)
			if !found {
				return nil, internalf("struct %s has no field %q", st.Typ.Name, e.Field)
			}
			return st.Fields[i], nil
		}
	}
	return nil, mismatch1(e.Op.String(), x)
}

func encodeBinary(e *stream.Op2, x, y symbolic.Value, offset int) (symbolic.Value, error) {
	switch e.Op {
	case stream.And, stream.Or:
		a, aok := x.(*symbolic.Bool)
		b, bok := y.(*symbolic.Bool)
		if aok && bok {
			if e.Op == stream.And {
				return &symbolic.Bool{Term: a.Term.And(b.Term)}, nil
			}
			return &symbolic.Bool{Term: a.Term.Or(b.Term)}, nil
		}

	case stream.Add, stream.Sub, stream.Mul:
		if a, b, typ, ok := pairIntegral(x, y); ok {
			switch e.Op {
			case stream.Add:
				return wrapIntegral(typ, a.Add(b)), nil
			case stream.Sub:
				return wrapIntegral(typ, a.Sub(b)), nil
			}
			return wrapIntegral(typ, a.Mul(b)), nil
		}
		if a, b, typ, ok := pairFloat(x, y); ok {
			switch e.Op {
			case stream.Add:
				return &symbolic.Float{Typ: typ, Term: a.Add(b)}, nil
			case stream.Sub:
				return &symbolic.Float{Typ: typ, Term: a.Sub(b)}, nil
			}
			return &symbolic.Float{Typ: typ, Term: a.Mul(b)}, nil
		}

	case stream.Div, stream.Mod:
		if a, b, typ, ok := pairIntegral(x, y); ok {
			switch {
			case e.Op == stream.Div && typ.IsInt():
				return wrapIntegral(typ, a.SDiv(b)), nil
			case e.Op == stream.Div:
				return wrapIntegral(typ, a.UDiv(b)), nil
			case typ.IsInt():
				return wrapIntegral(typ, a.SRem(b)), nil
			}
			return wrapIntegral(typ, a.URem(b)), nil
		}

	case stream.Fdiv:
		if a, b, typ, ok := pairFloat(x, y); ok {
			return &symbolic.Float{Typ: typ, Term: a.Div(b)}, nil
		}

	case stream.Pow, stream.Logb, stream.Atan2:
		if _, _, _, ok := pairFloat(x, y); ok {
			return nil, unsupported("operator %s", e.Op)
		}

	case stream.Eq, stream.Ne:
		eq, err := equal(x, y)
		if err != nil {
			return nil, errors.Wrapf(err, "%s", e.Op)
		}
		if e.Op == stream.Ne {
			eq = eq.Not()
		}
		return &symbolic.Bool{Term: eq}, nil

	case stream.Lt, stream.Le, stream.Gt, stream.Ge:
		if a, b, typ, ok := pairIntegral(x, y); ok {
			return &symbolic.Bool{Term: compareIntegral(e.Op, a, b, typ.IsInt())}, nil
		}
		if a, b, _, ok := pairFloat(x, y); ok {
			return &symbolic.Bool{Term: compareFloat(e.Op, a, b)}, nil
		}

	case stream.BwAnd, stream.BwOr, stream.BwXor:
		if a, b, typ, ok := pairIntegral(x, y); ok {
			switch e.Op {
			case stream.BwAnd:
				return wrapIntegral(typ, a.And(b)), nil
			case stream.BwOr:
				return wrapIntegral(typ, a.Or(b)), nil
			}
			return wrapIntegral(typ, a.Xor(b)), nil
		}

	case stream.BwShiftL, stream.BwShiftR:
		value, typ, vok := asIntegral(x)
		amount, _, aok := asIntegral(y)
		if vok && aok {
			return wrapIntegral(typ, shift(e.Op, value, amount, typ.IsInt())), nil
		}

	case stream.Index:
		if idx, idxType, ok := asIntegral(y); ok {
			return index(x, idx, idxType, fmt.Sprintf("%v@%d", e, offset))
		}
	}
	return nil, mismatch2(e.Op.String(), x, y)
}

// shift works at the wider of the two operand widths, so an amount of the
// value's width or more shifts every bit out.
func shift(op stream.BinaryOp, value, amount *smt.BitVec, signed bool) *smt.BitVec {
	size, width := value.Size(), value.Size()
	if amount.Size() > width {
		width = amount.Size()
	}
	v := value.Resize(width, signed)
	n := amount.Resize(width, false)

	var shifted *smt.BitVec
	switch {
	case op == stream.BwShiftL:
		shifted = v.Shl(n)
	case signed:
		shifted = v.AShr(n)
	default:
		shifted = v.Shr(n)
	}
	return shifted.Resize(size, signed)
}

func encodeTernary(e *stream.Op3, x, y, z symbolic.Value) (symbolic.Value, error) {
	if e.Op == stream.Mux {
		if c, ok := x.(*symbolic.Bool); ok {
			return ite(c.Term, y, z)
		}
	}
	return nil, internalf("operator %s not defined for %s, %s, %s", e.Op, x.Type(), y.Type(), z.Type())
}

func asIntegral(v symbolic.Value) (*smt.BitVec, stream.Type, bool) {
	switch v := v.(type) {
	case *symbolic.Int:
		return v.Term, v.Typ, true
	case *symbolic.Word:
		return v.Term, v.Typ, true
	}
	return nil, stream.Type{}, false
}

func wrapIntegral(typ stream.Type, bv *smt.BitVec) symbolic.Value {
	if typ.IsInt() {
		return &symbolic.Int{Typ: typ, Term: bv}
	}
	return &symbolic.Word{Typ: typ, Term: bv}
}

func pairIntegral(x, y symbolic.Value) (*smt.BitVec, *smt.BitVec, stream.Type, bool) {
	a, typ, aok := asIntegral(x)
	b, _, bok := asIntegral(y)
	if !aok || !bok || !x.Type().Equal(y.Type()) {
		return nil, nil, stream.Type{}, false
	}
	return a, b, typ, true
}

func pairFloat(x, y symbolic.Value) (*smt.Float, *smt.Float, stream.Type, bool) {
	a, aok := x.(*symbolic.Float)
	b, bok := y.(*symbolic.Float)
	if !aok || !bok || !a.Typ.Equal(b.Typ) {
		return nil, nil, stream.Type{}, false
	}
	return a.Term, b.Term, a.Typ, true
}

func compareIntegral(op stream.BinaryOp, a, b *smt.BitVec, signed bool) *smt.Bool {
	switch op {
	case stream.Lt:
		if signed {
			return a.Lt(b)
		}
		return a.Ult(b)
	case stream.Le:
		if signed {
			return a.Le(b)
		}
		return a.Ule(b)
	case stream.Gt:
		if signed {
			return a.Gt(b)
		}
		return a.Ugt(b)
	}
	if signed {
		return a.Ge(b)
	}
	return a.Uge(b)
}

func compareFloat(op stream.BinaryOp, a, b *smt.Float) *smt.Bool {
	switch op {
	case stream.Lt:
		return a.Lt(b)
	case stream.Le:
		return a.Le(b)
	case stream.Gt:
		return a.Gt(b)
	}
	return a.Ge(b)
}

// equal is IEEE equality on floats and element-wise conjunction on
// aggregates.
func equal(x, y symbolic.Value) (*smt.Bool, error) {
	if !x.Type().Equal(y.Type()) {
		return nil, internalf("cannot compare %s with %s", x.Type(), y.Type())
	}
	switch x := x.(type) {
	case *symbolic.Bool:
		return x.Term.Eq(y.(*symbolic.Bool).Term), nil
	case *symbolic.Int:
		return x.Term.Eq(y.(*symbolic.Int).Term), nil
	case *symbolic.Word:
		return x.Term.Eq(y.(*symbolic.Word).Term), nil
	case *symbolic.Float:
		return x.Term.Eq(y.(*symbolic.Float).Term), nil
	case *symbolic.Empty:
		return smt.NewBoolVal(true), nil
	case *symbolic.Array:
		return equalAll(x.Elems, y.(*symbolic.Array).Elems)
	case *symbolic.Struct:
		return equalAll(x.Fields, y.(*symbolic.Struct).Fields)
	}
	return nil, internalf("cannot compare %s", x.Type())
}

func equalAll(xs, ys []symbolic.Value) (*smt.Bool, error) {
	conj := make([]*smt.Bool, len(xs))
	for i := range xs {
		eq, err := equal(xs[i], ys[i])
		if err != nil {
			return nil, err
		}
		conj[i] = eq
	}
	return smt.And(conj...), nil
}

// ite selects between two values of the same type, leaf by leaf.
func ite(c *smt.Bool, x, y symbolic.Value) (symbolic.Value, error) {
	if !x.Type().Equal(y.Type()) {
		return nil, internalf("mux branches differ: %s and %s", x.Type(), y.Type())
	}
	switch x := x.(type) {
	case *symbolic.Bool:
		return &symbolic.Bool{Term: c.IteBool(x.Term, y.(*symbolic.Bool).Term)}, nil
	case *symbolic.Int:
		return &symbolic.Int{Typ: x.Typ, Term: c.IteBitVec(x.Term, y.(*symbolic.Int).Term)}, nil
	case *symbolic.Word:
		return &symbolic.Word{Typ: x.Typ, Term: c.IteBitVec(x.Term, y.(*symbolic.Word).Term)}, nil
	case *symbolic.Float:
		return &symbolic.Float{Typ: x.Typ, Term: c.IteFloat(x.Term, y.(*symbolic.Float).Term)}, nil
	case *symbolic.Empty:
		return x, nil
	case *symbolic.Array:
		elems, err := iteAll(c, x.Elems, y.(*symbolic.Array).Elems)
		if err != nil {
			return nil, err
		}
		return &symbolic.Array{Typ: x.Typ, Elems: elems}, nil
	case *symbolic.Struct:
		fields, err := iteAll(c, x.Fields, y.(*symbolic.Struct).Fields)
		if err != nil {
			return nil, err
		}
		return &symbolic.Struct{Typ: x.Typ, Fields: fields}, nil
	}
	return nil, internalf("mux not defined for %s", x.Type())
}

func iteAll(c *smt.Bool, xs, ys []symbolic.Value) ([]symbolic.Value, error) {
	out := make([]symbolic.Value, len(xs))
	for i := range xs {
		v, err := ite(c, xs[i], ys[i])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// index selects an array element. An index outside the array yields an
// unconstrained value of the element type, allocated under name.
func index(x symbolic.Value, idx *smt.BitVec, idxType stream.Type, name string) (symbolic.Value, error) {
	var (
		elems []symbolic.Value
		elem  stream.Type
	)
	switch arr := x.(type) {
	case *symbolic.Array:
		elems, elem = arr.Elems, *arr.Typ.Elem
	case *symbolic.Empty:
		elem = *arr.Typ.Elem
	default:
		return nil, internalf("index into %s", x.Type())
	}

	if n, ok := idx.Value(); ok {
		if idxType.IsInt() && n.Bit(int(idx.Size())-1) == 1 {
			return symbolic.Fresh(elem, name)
		}
		if n.IsInt64() && n.Int64() < int64(len(elems)) {
			return elems[n.Int64()], nil
		}
		return symbolic.Fresh(elem, name)
	}

	result, err := symbolic.Fresh(elem, name)
	if err != nil {
		return nil, err
	}
	limit := new(big.Int).Lsh(big.NewInt(1), uint(idx.Size()))
	if idxType.IsInt() {
		limit.Rsh(limit, 1)
	}
	for i := len(elems) - 1; i >= 0; i-- {
		if big.NewInt(int64(i)).Cmp(limit) >= 0 {
			continue
		}
		hit := idx.Eq(smt.NewBitVecValInt64(int64(i), idx.Size()))
		if result, err = ite(hit, elems[i], result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func cast(to stream.Type, x symbolic.Value) (symbolic.Value, error) {
	if x.Type().Equal(to) {
		return x, nil
	}
	switch x := x.(type) {
	case *symbolic.Bool:
		if to.IsIntegral() {
			w := to.Bits()
			return wrapIntegral(to, x.Term.IteBitVec(smt.NewBitVecValInt64(1, w), smt.NewBitVecValInt64(0, w))), nil
		}
	case *symbolic.Int, *symbolic.Word:
		bv, from, _ := asIntegral(x)
		switch {
		case to.IsIntegral():
			return wrapIntegral(to, bv.Resize(to.Bits(), from.IsInt())), nil
		case to.IsFloating():
			sort, _ := symbolic.Sort(to)
			if from.IsInt() {
				return &symbolic.Float{Typ: to, Term: smt.FloatFromSigned(bv, sort)}, nil
			}
			return &symbolic.Float{Typ: to, Term: smt.FloatFromUnsigned(bv, sort)}, nil
		}
	case *symbolic.Float:
		if to.IsFloating() {
			sort, _ := symbolic.Sort(to)
			return &symbolic.Float{Typ: to, Term: x.Term.Convert(sort)}, nil
		}
	}
	return nil, internalf("cannot cast %s to %s", x.Type(), to)
}

func mismatch1(op string, x symbolic.Value) error {
	return internalf("operator %s not defined for %s", op, x.Type())
}

func mismatch2(op string, x, y symbolic.Value) error {
	return internalf("operator %s not defined for %s, %s", op, x.Type(), y.Type())
}
