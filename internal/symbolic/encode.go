package symbolic

import (
	"fmt"
	"math"
	"math/big"

	"github.com/pkg/errors"

	"streamprover/internal/smt"
	"streamprover/internal/stream"
)

// EncodeConstant turns a literal of the given type into solver literals.
// Signed integers become exact-width two's complement, unsigned integers their
// raw bit pattern and floats their IEEE bit pattern.
func EncodeConstant(typ stream.Type, value interface{}) (Value, error) {
	switch {
	case typ.Kind == stream.KindBool:
		b, ok := value.(bool)
		if !ok {
			return nil, errors.Errorf("literal %v (%T) is not a bool", value, value)
		}
		return &Bool{Term: smt.NewBoolVal(b)}, nil

	case typ.IsIntegral():
		n, err := integer(value)
		if err != nil {
			return nil, err
		}
		if !fits(n, typ) {
			return nil, errors.Errorf("literal %s does not fit %s", n, typ)
		}
		bv := smt.NewBitVecVal(n, typ.Bits())
		if typ.IsInt() {
			return &Int{Typ: typ, Term: bv}, nil
		}
		return &Word{Typ: typ, Term: bv}, nil

	case typ.Kind == stream.KindFloat:
		f, err := float32Literal(value)
		if err != nil {
			return nil, err
		}
		return &Float{Typ: typ, Term: smt.NewFloatVal32(f)}, nil

	case typ.Kind == stream.KindDouble:
		switch f := value.(type) {
		case float64:
			return &Float{Typ: typ, Term: smt.NewFloatVal64(f)}, nil
		case float32:
			return &Float{Typ: typ, Term: smt.NewFloatVal64(float64(f))}, nil
		}
		return nil, errors.Errorf("literal %v (%T) is not a double", value, value)

	case typ.Kind == stream.KindArray:
		elems, ok := value.([]interface{})
		if !ok {
			return nil, errors.Errorf("literal %v (%T) is not an array", value, value)
		}
		if len(elems) != typ.Len {
			return nil, errors.Errorf("array literal has %d elements, %s expects %d", len(elems), typ, typ.Len)
		}
		if typ.Len == 0 {
			return &Empty{Typ: typ}, nil
		}
		arr := &Array{Typ: typ, Elems: make([]Value, len(elems))}
		for i, elem := range elems {
			v, err := EncodeConstant(*typ.Elem, elem)
			if err != nil {
				return nil, errors.Wrapf(err, "element %d", i)
			}
			arr.Elems[i] = v
		}
		return arr, nil

	case typ.Kind == stream.KindStruct:
		fields, ok := value.([]interface{})
		if !ok {
			return nil, errors.Errorf("literal %v (%T) is not a struct", value, value)
		}
		if len(fields) != len(typ.Fields) {
			return nil, errors.Errorf("struct literal has %d fields, %s expects %d", len(fields), typ, len(typ.Fields))
		}
		st := &Struct{Typ: typ, Fields: make([]Value, len(fields))}
		for i, field := range fields {
			v, err := EncodeConstant(typ.Fields[i].Type, field)
			if err != nil {
				return nil, errors.Wrapf(err, "field %s", typ.Fields[i].Name)
			}
			st.Fields[i] = v
		}
		return st, nil
	}
	return nil, errors.Errorf("cannot encode literal of type %s", typ)
}

// Fresh allocates one unconstrained solver constant per scalar leaf of typ.
// Leaf names extend name with element indices and field names; they need not
// be unique.
func Fresh(typ stream.Type, name string) (Value, error) {
	switch {
	case typ.Kind == stream.KindBool:
		return &Bool{Term: smt.NewBool(name)}, nil
	case typ.IsInt():
		return &Int{Typ: typ, Term: smt.NewBitVec(name, typ.Bits())}, nil
	case typ.IsWord():
		return &Word{Typ: typ, Term: smt.NewBitVec(name, typ.Bits())}, nil
	case typ.Kind == stream.KindFloat:
		return &Float{Typ: typ, Term: smt.NewFloat(name, smt.Float32Sort())}, nil
	case typ.Kind == stream.KindDouble:
		return &Float{Typ: typ, Term: smt.NewFloat(name, smt.Float64Sort())}, nil
	case typ.Kind == stream.KindArray:
		if typ.Len == 0 {
			return &Empty{Typ: typ}, nil
		}
		arr := &Array{Typ: typ, Elems: make([]Value, typ.Len)}
		for i := range arr.Elems {
			v, err := Fresh(*typ.Elem, fmt.Sprintf("%s[%d]", name, i))
			if err != nil {
				return nil, err
			}
			arr.Elems[i] = v
		}
		return arr, nil
	case typ.Kind == stream.KindStruct:
		st := &Struct{Typ: typ, Fields: make([]Value, len(typ.Fields))}
		for i, f := range typ.Fields {
			v, err := Fresh(f.Type, name+"."+f.Name)
			if err != nil {
				return nil, err
			}
			st.Fields[i] = v
		}
		return st, nil
	}
	return nil, errors.Errorf("cannot allocate constant of type %s", typ)
}

func integer(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case int:
		return big.NewInt(int64(v)), nil
	case int8:
		return big.NewInt(int64(v)), nil
	case int16:
		return big.NewInt(int64(v)), nil
	case int32:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	}
	return nil, errors.Errorf("literal %v (%T) is not an integer", value, value)
}

func fits(n *big.Int, typ stream.Type) bool {
	bits := uint(typ.Bits())
	if typ.IsWord() {
		limit := new(big.Int).Lsh(big.NewInt(1), bits)
		return n.Sign() >= 0 && n.Cmp(limit) < 0
	}
	limit := new(big.Int).Lsh(big.NewInt(1), bits-1)
	return n.Cmp(new(big.Int).Neg(limit)) >= 0 && n.Cmp(limit) < 0
}

func float32Literal(value interface{}) (float32, error) {
	switch f := value.(type) {
	case float32:
		return f, nil
	case float64:
		if math.IsNaN(f) || float64(float32(f)) == f {
			return float32(f), nil
		}
		return 0, errors.Errorf("literal %v is not representable as float", f)
	}
	return 0, errors.Errorf("literal %v (%T) is not a float", value, value)
}
