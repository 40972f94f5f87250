package specfile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamprover/internal/stream"
)

func decode(t *testing.T, doc string) *stream.Spec {
	t.Helper()
	spec, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)
	return spec
}

func Test_LoadCounter(t *testing.T) {
	spec, err := Load("testdata/counter.yaml")
	require.NoError(t, err)
	require.Len(t, spec.Streams, 2)
	require.Len(t, spec.Properties, 2)

	counter := spec.Streams[0]
	assert.Equal(t, stream.ID(0), counter.ID)
	assert.True(t, counter.Type.Equal(stream.Word8))
	assert.Equal(t, []interface{}{uint64(0)}, counter.Buffer)

	add, ok := counter.Expr.(*stream.Op2)
	require.True(t, ok)
	assert.Equal(t, stream.Add, add.Op)
	assert.Equal(t, &stream.Drop{Typ: stream.Word8, Stream: 0, Index: 0}, add.Left)
	assert.Equal(t, &stream.Const{Typ: stream.Word8, Value: uint64(1)}, add.Right)

	moves := spec.Streams[1].Expr.(*stream.Op2)
	assert.Equal(t, 1, moves.Left.(*stream.Drop).Index)

	assert.Equal(t, "always_moves", spec.Properties[0].Name)
	assert.True(t, spec.Properties[0].Expr.Type().Equal(stream.Bool))
	le := spec.Properties[1].Expr.(*stream.Op2)
	assert.Equal(t, stream.Le, le.Op)
	assert.Equal(t, &stream.ExternVar{Typ: stream.Word8, Name: "limit"}, le.Right)
}

func Test_DecodeCompoundTypes(t *testing.T) {
	spec := decode(t, `
streams:
  - id: 3
    type: {struct: {name: point, fields: [{name: x, type: int16}, {name: y, type: double}]}}
    buffer:
      - {y: 1.5, x: -2}
      - [7, 0.25]
    expr: {extern: {name: p, type: {struct: {name: point, fields: [{name: x, type: int16}, {name: y, type: double}]}}}}
properties:
  - name: grid
    expr:
      op: eq
      type: bool
      args:
        - const: [[true, false], [false, true]]
          type: {array: {length: 2, elem: {array: {length: 2, elem: bool}}}}
        - extern: {name: g, type: {array: {length: 2, elem: {array: {length: 2, elem: bool}}}}}
  - name: y_positive
    expr:
      op: gt
      type: bool
      args:
        - {op: getfield, field: y, type: double, args: [{drop: {stream: 3}}]}
        - {const: 0, type: double}
`)
	point := stream.Struct("point", stream.Field{Name: "x", Type: stream.Int16}, stream.Field{Name: "y", Type: stream.Double})
	require.Len(t, spec.Streams, 1)
	assert.True(t, spec.Streams[0].Type.Equal(point))
	assert.Equal(t, []interface{}{
		[]interface{}{int64(-2), 1.5},
		[]interface{}{int64(7), 0.25},
	}, spec.Streams[0].Buffer)

	grid := spec.Properties[0].Expr.(*stream.Op2).Left.(*stream.Const)
	assert.Equal(t, "array[2]array[2]bool", grid.Typ.String())
	assert.Equal(t, []interface{}{[]interface{}{true, false}, []interface{}{false, true}}, grid.Value)

	field := spec.Properties[1].Expr.(*stream.Op2).Left.(*stream.Op1)
	assert.Equal(t, stream.GetField, field.Op)
	assert.Equal(t, "y", field.Field)
	assert.True(t, field.Arg.Type().Equal(point))
}

func Test_DecodeLocalLabelMux(t *testing.T) {
	spec := decode(t, `
properties:
  - name: p
    expr:
      label:
        label: guarded
        expr:
          local:
            name: v
            type: float
            bind: {const: 0.5, type: float}
            body:
              op: mux
              type: bool
              args:
                - {const: true, type: bool}
                - {op: lt, type: bool, args: [{var: {name: v, type: float}}, {const: 1, type: float}]}
                - {const: false, type: bool}
`)
	label := spec.Properties[0].Expr.(*stream.Label)
	assert.Equal(t, "guarded", label.Text)
	assert.True(t, label.Typ.Equal(stream.Bool))

	local := label.Expr.(*stream.Local)
	assert.Equal(t, "v", local.Name)
	assert.Equal(t, float32(0.5), local.Bind.(*stream.Const).Value)
	mux := local.Body.(*stream.Op3)
	assert.Equal(t, stream.Mux, mux.Op)
	lt := mux.Second.(*stream.Op2)
	assert.Equal(t, &stream.Var{Typ: stream.Float, Name: "v"}, lt.Left)
}

func Test_DecodeEmpty(t *testing.T) {
	spec := decode(t, "")
	assert.Empty(t, spec.Streams)
	assert.Empty(t, spec.Properties)
}

func Test_DecodeErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{"unknown key", "stream: []", "field stream not found"},
		{"missing id", "streams: [{type: bool, expr: {const: true, type: bool}}]", "id is required"},
		{"duplicate id", `
streams:
  - {id: 1, type: bool, expr: {const: true, type: bool}}
  - {id: 1, type: bool, expr: {const: true, type: bool}}`, "duplicate stream id 1"},
		{"unknown type", "properties: [{name: p, expr: {extern: {name: x, type: int128}}}]", `unknown type "int128"`},
		{"two forms", "properties: [{name: p, expr: {const: true, type: bool, var: {name: v, type: bool}}}]", "exactly one form"},
		{"no form", "properties: [{name: p, expr: {type: bool}}]", "exactly one form"},
		{"unknown op", "properties: [{name: p, expr: {op: frobnicate, type: bool, args: []}}]", `unknown operator "frobnicate"`},
		{"arity", "properties: [{name: p, expr: {op: not, type: bool, args: []}}]", "not takes 1 arguments, got 0"},
		{"negative word", "properties: [{name: p, expr: {const: -1, type: word8}}]", "word8 literal"},
		{"array length", "properties: [{name: p, expr: {const: [1, 2], type: {array: {length: 3, elem: int8}}}}]", "has 2 elements, want 3"},
		{"missing field", `
properties:
  - name: p
    expr: {const: {a: true}, type: {struct: {name: s, fields: [{name: a, type: bool}, {name: b, type: bool}]}}}`, "missing field b"},
		{"untyped drop", "properties: [{name: p, expr: {drop: {stream: 4}}}]", "drop of undefined stream 4"},
		{"duplicate property", `
properties:
  - {name: p, expr: {const: true, type: bool}}
  - {name: p, expr: {const: true, type: bool}}`, `duplicate property "p"`},
		{"getfield without field", "properties: [{name: p, expr: {op: getfield, type: bool, args: [{const: true, type: bool}]}}]", "field is required"},
		{"float overflow", "properties: [{name: p, expr: {const: 1e300, type: float}}]", "overflows float"},
		{"buffer out of range", "streams: [{id: 0, type: word8, buffer: [300], expr: {const: 1, type: word8}}]", "literal 300 does not fit word8"},
		{"const out of range", "properties: [{name: p, expr: {op: eq, type: bool, args: [{const: 128, type: int8}, {const: 0, type: int8}]}}]", "literal 128 does not fit int8"},
		{"nested buffer out of range", "streams: [{id: 0, type: {array: {length: 2, elem: int8}}, buffer: [[1, -129]], expr: {const: [0, 0], type: {array: {length: 2, elem: int8}}}}]", "does not fit int8"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(c.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), c.want)
		})
	}
}

func Test_LoadMissingFile(t *testing.T) {
	_, err := Load("testdata/absent.yaml")
	assert.Error(t, err)
}
