package smtlib

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ReadResponses(t *testing.T) {
	r := NewReader(strings.NewReader(`sat
; comment
((|x#1| #b0101) (|p q#2| true))
(error "line 3: unknown constant ""y""")
((|f#3| (fp #b0 #b10000000 #b00000000000000000000000)) (|g#4| (_ +zero 8 24)))
unsat`))

	s, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, "sat", s.String())
	assert.False(t, s.IsList)

	s, err = r.Read()
	require.NoError(t, err)
	values, err := parseValues(s)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"x#1": "#b0101", "p q#2": "true"}, values)

	s, err = r.Read()
	require.NoError(t, err)
	assert.Equal(t, "error", s.Head())
	assert.Equal(t, `line 3: unknown constant "y"`, s.List[1].Unquote())

	s, err = r.Read()
	require.NoError(t, err)
	values, err = parseValues(s)
	require.NoError(t, err)
	assert.Equal(t, "(fp #b0 #b10000000 #b00000000000000000000000)", values["f#3"])
	assert.Equal(t, "(_ +zero 8 24)", values["g#4"])

	s, err = r.Read()
	require.NoError(t, err)
	assert.Equal(t, "unsat", s.String())

	_, err = r.Read()
	assert.Equal(t, io.EOF, err)
}

func Test_ReadMalformed(t *testing.T) {
	_, err := NewReader(strings.NewReader("((a b)")).Read()
	assert.Equal(t, io.ErrUnexpectedEOF, err)

	_, err = NewReader(strings.NewReader(")")).Read()
	assert.Error(t, err)

	_, err = parseValues(&Sexp{Atom: "sat"})
	assert.Error(t, err)
}

func Test_ReadFromOpenPipe(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	go func() {
		_, _ = io.WriteString(pw, "((|a (b)#1| #b1))\n")
	}()

	r := NewReader(pr)
	s, err := r.Read()
	require.NoError(t, err)
	values, err := parseValues(s)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a (b)#1": "#b1"}, values)
}
