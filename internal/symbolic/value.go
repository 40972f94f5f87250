// Package symbolic holds the typed solver values that stream expressions
// translate to. Each variant mirrors one static type tag.
package symbolic

import (
	"streamprover/internal/smt"
	"streamprover/internal/stream"
)

// Value is a translated expression. Its Type always equals the static type of
// the expression it came from.
type Value interface {
	Type() stream.Type
	value()
}

func (*Bool) value()   {}
func (*Int) value()    {}
func (*Word) value()   {}
func (*Float) value()  {}
func (*Array) value()  {}
func (*Empty) value()  {}
func (*Struct) value() {}

type Bool struct {
	Term *smt.Bool
}

// Int is a signed integer of Typ's width in two's complement.
type Int struct {
	Typ  stream.Type
	Term *smt.BitVec
}

// Word is an unsigned integer of Typ's width.
type Word struct {
	Typ  stream.Type
	Term *smt.BitVec
}

type Float struct {
	Typ  stream.Type
	Term *smt.Float
}

// Array has at least one element; zero-length arrays are Empty.
type Array struct {
	Typ   stream.Type
	Elems []Value
}

// Empty stands for an array declared with length zero.
type Empty struct {
	Typ stream.Type
}

// Struct holds field values in declaration order.
type Struct struct {
	Typ    stream.Type
	Fields []Value
}

func (v *Bool) Type() stream.Type   { return stream.Bool }
func (v *Int) Type() stream.Type    { return v.Typ }
func (v *Word) Type() stream.Type   { return v.Typ }
func (v *Float) Type() stream.Type  { return v.Typ }
func (v *Array) Type() stream.Type  { return v.Typ }
func (v *Empty) Type() stream.Type  { return v.Typ }
func (v *Struct) Type() stream.Type { return v.Typ }

// Sort maps a scalar type to its solver sort.
func Sort(typ stream.Type) (smt.Sort, bool) {
	switch {
	case typ.Kind == stream.KindBool:
		return smt.BoolSort(), true
	case typ.IsIntegral():
		return smt.BitVecSort(typ.Bits()), true
	case typ.Kind == stream.KindFloat:
		return smt.Float32Sort(), true
	case typ.Kind == stream.KindDouble:
		return smt.Float64Sort(), true
	}
	return smt.Sort{}, false
}

// Terms flattens v into its scalar leaf terms in declaration order.
func Terms(v Value) []*smt.Term {
	switch v := v.(type) {
	case *Bool:
		return []*smt.Term{v.Term.GetRaw()}
	case *Int:
		return []*smt.Term{v.Term.GetRaw()}
	case *Word:
		return []*smt.Term{v.Term.GetRaw()}
	case *Float:
		return []*smt.Term{v.Term.GetRaw()}
	case *Array:
		var terms []*smt.Term
		for _, e := range v.Elems {
			terms = append(terms, Terms(e)...)
		}
		return terms
	case *Struct:
		var terms []*smt.Term
		for _, f := range v.Fields {
			terms = append(terms, Terms(f)...)
		}
		return terms
	}
	return nil
}
