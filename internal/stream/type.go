package stream

import (
	"fmt"
	"strings"
)

type Kind int

const (
	KindBool Kind = iota
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindWord8
	KindWord16
	KindWord32
	KindWord64
	KindFloat
	KindDouble
	KindArray
	KindStruct
)

var kindNames = map[Kind]string{
	KindBool:   "bool",
	KindInt8:   "int8",
	KindInt16:  "int16",
	KindInt32:  "int32",
	KindInt64:  "int64",
	KindWord8:  "word8",
	KindWord16: "word16",
	KindWord32: "word32",
	KindWord64: "word64",
	KindFloat:  "float",
	KindDouble: "double",
	KindArray:  "array",
	KindStruct: "struct",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ScalarKind looks up a scalar kind by its name.
func ScalarKind(name string) (Kind, bool) {
	for kind, n := range kindNames {
		if n == name && kind != KindArray && kind != KindStruct {
			return kind, true
		}
	}
	return 0, false
}

// Field is a named struct member.
type Field struct {
	Name string
	Type Type
}

// Type is the static type of a stream or expression. Len and Elem are set for
// arrays; Name and Fields for structs.
type Type struct {
	Kind   Kind
	Len    int
	Elem   *Type
	Name   string
	Fields []Field
}

var (
	Bool   = Type{Kind: KindBool}
	Int8   = Type{Kind: KindInt8}
	Int16  = Type{Kind: KindInt16}
	Int32  = Type{Kind: KindInt32}
	Int64  = Type{Kind: KindInt64}
	Word8  = Type{Kind: KindWord8}
	Word16 = Type{Kind: KindWord16}
	Word32 = Type{Kind: KindWord32}
	Word64 = Type{Kind: KindWord64}
	Float  = Type{Kind: KindFloat}
	Double = Type{Kind: KindDouble}
)

func Array(length int, elem Type) Type {
	return Type{Kind: KindArray, Len: length, Elem: &elem}
}

func Struct(name string, fields ...Field) Type {
	fs := make([]Field, len(fields))
	copy(fs, fields)
	return Type{Kind: KindStruct, Name: name, Fields: fs}
}

func (t Type) IsInt() bool {
	return t.Kind >= KindInt8 && t.Kind <= KindInt64
}

func (t Type) IsWord() bool {
	return t.Kind >= KindWord8 && t.Kind <= KindWord64
}

// IsIntegral covers both signed and unsigned fixed-width integers.
func (t Type) IsIntegral() bool {
	return t.IsInt() || t.IsWord()
}

func (t Type) IsFloating() bool {
	return t.Kind == KindFloat || t.Kind == KindDouble
}

// Bits is the width of a scalar numeric type.
func (t Type) Bits() uint32 {
	switch t.Kind {
	case KindInt8, KindWord8:
		return 8
	case KindInt16, KindWord16:
		return 16
	case KindInt32, KindWord32, KindFloat:
		return 32
	case KindInt64, KindWord64, KindDouble:
		return 64
	}
	return 0
}

// FieldIndex returns the position of a struct field.
func (t Type) FieldIndex(name string) (int, bool) {
	for i, f := range t.Fields {
		if f.Name == name {
			return i, true
		}
	}
	return 0, false
}

func (t Type) Equal(other Type) bool {
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case KindArray:
		if t.Len != other.Len {
			return false
		}
		if t.Elem == nil || other.Elem == nil {
			return t.Elem == other.Elem
		}
		return t.Elem.Equal(*other.Elem)
	case KindStruct:
		if t.Name != other.Name || len(t.Fields) != len(other.Fields) {
			return false
		}
		for i := range t.Fields {
			if t.Fields[i].Name != other.Fields[i].Name || !t.Fields[i].Type.Equal(other.Fields[i].Type) {
				return false
			}
		}
	}
	return true
}

func (t Type) String() string {
	switch t.Kind {
	case KindArray:
		return fmt.Sprintf("array[%d]%s", t.Len, t.Elem)
	case KindStruct:
		fields := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = f.Name + " " + f.Type.String()
		}
		return fmt.Sprintf("struct %s{%s}", t.Name, strings.Join(fields, "; "))
	}
	return t.Kind.String()
}
