package symbolic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamprover/internal/stream"
)

func Test_EncodeScalars(t *testing.T) {
	v, err := EncodeConstant(stream.Bool, true)
	require.NoError(t, err)
	assert.True(t, v.(*Bool).Term.IsTrue())

	v, err = EncodeConstant(stream.Int8, int64(-1))
	require.NoError(t, err)
	require.IsType(t, &Int{}, v)
	assert.Equal(t, "#b11111111", v.(*Int).Term.String())

	v, err = EncodeConstant(stream.Word8, uint64(255))
	require.NoError(t, err)
	require.IsType(t, &Word{}, v)
	assert.Equal(t, "#b11111111", v.(*Word).Term.String())

	v, err = EncodeConstant(stream.Float, float32(1))
	require.NoError(t, err)
	bits := v.(*Float).Term.GetRaw().Bits()
	assert.Equal(t, uint64(math.Float32bits(1)), bits.Uint64())

	v, err = EncodeConstant(stream.Double, -2.5)
	require.NoError(t, err)
	bits = v.(*Float).Term.GetRaw().Bits()
	assert.Equal(t, math.Float64bits(-2.5), bits.Uint64())
}

func Test_EncodeRejectsOutOfRange(t *testing.T) {
	_, err := EncodeConstant(stream.Int8, int64(128))
	assert.Error(t, err)
	_, err = EncodeConstant(stream.Int8, int64(-129))
	assert.Error(t, err)
	_, err = EncodeConstant(stream.Word8, int64(-1))
	assert.Error(t, err)
	_, err = EncodeConstant(stream.Word16, uint64(1<<16))
	assert.Error(t, err)
	_, err = EncodeConstant(stream.Float, 0.1)
	assert.Error(t, err)
	_, err = EncodeConstant(stream.Bool, 1)
	assert.Error(t, err)

	_, err = EncodeConstant(stream.Int8, int64(-128))
	assert.NoError(t, err)
	_, err = EncodeConstant(stream.Word64, uint64(math.MaxUint64))
	assert.NoError(t, err)
}

func Test_EncodeAggregates(t *testing.T) {
	point := stream.Struct("point", stream.Field{Name: "x", Type: stream.Int16}, stream.Field{Name: "ok", Type: stream.Bool})
	typ := stream.Array(2, point)

	v, err := EncodeConstant(typ, []interface{}{
		[]interface{}{int64(1), true},
		[]interface{}{int64(-2), false},
	})
	require.NoError(t, err)
	arr := v.(*Array)
	require.Len(t, arr.Elems, 2)
	assert.True(t, arr.Type().Equal(typ))
	st := arr.Elems[1].(*Struct)
	assert.Equal(t, "#b1111111111111110", st.Fields[0].(*Int).Term.String())
	assert.True(t, st.Fields[1].(*Bool).Term.IsFalse())
	assert.Len(t, Terms(v), 4)

	_, err = EncodeConstant(typ, []interface{}{[]interface{}{int64(1), true}})
	assert.Error(t, err)
}

func Test_ZeroLengthArray(t *testing.T) {
	typ := stream.Array(0, stream.Int32)

	v, err := EncodeConstant(typ, []interface{}{})
	require.NoError(t, err)
	assert.IsType(t, &Empty{}, v)
	assert.True(t, v.Type().Equal(typ))

	v, err = Fresh(typ, "zs")
	require.NoError(t, err)
	assert.IsType(t, &Empty{}, v)
	assert.Empty(t, Terms(v))

	one, err := Fresh(stream.Array(1, stream.Int32), "zs")
	require.NoError(t, err)
	assert.IsType(t, &Array{}, one)
	assert.NotEqual(t, v, one)
}

func Test_FreshLeaves(t *testing.T) {
	point := stream.Struct("point", stream.Field{Name: "x", Type: stream.Double}, stream.Field{Name: "y", Type: stream.Double})
	v, err := Fresh(stream.Array(2, point), "p")
	require.NoError(t, err)

	terms := Terms(v)
	require.Len(t, terms, 4)
	names := make([]string, len(terms))
	for i, term := range terms {
		names[i] = term.Name()
	}
	assert.Equal(t, []string{"p[0].x", "p[0].y", "p[1].x", "p[1].y"}, names)

	again, err := Fresh(stream.Array(2, point), "p")
	require.NoError(t, err)
	assert.NotSame(t, terms[0], Terms(again)[0])
}
