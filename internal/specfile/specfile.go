// Package specfile reads stream networks and their properties from YAML.
//
// A file lists streams (id, type, buffer, expr) and properties (name, expr).
// Types are scalar names such as int16 or word32, or the mappings
// {array: {length, elem}} and {struct: {name, fields: [{name, type}]}}.
// Expressions are mappings with exactly one of const, drop, extern, op,
// local, var or label.
package specfile

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"streamprover/internal/stream"
	"streamprover/internal/symbolic"
)

type rawSpec struct {
	Streams    []rawStream   `yaml:"streams"`
	Properties []rawProperty `yaml:"properties"`
}

type rawStream struct {
	ID     *int        `yaml:"id"`
	Type   yaml.Node   `yaml:"type"`
	Buffer []yaml.Node `yaml:"buffer"`
	Expr   *rawExpr    `yaml:"expr"`
}

type rawProperty struct {
	Name string   `yaml:"name"`
	Expr *rawExpr `yaml:"expr"`
}

type rawExpr struct {
	Const  *yaml.Node `yaml:"const"`
	Type   yaml.Node  `yaml:"type"`
	Drop   *rawDrop   `yaml:"drop"`
	Extern *rawExtern `yaml:"extern"`
	Op     string     `yaml:"op"`
	Args   []rawExpr  `yaml:"args"`
	Field  string     `yaml:"field"`
	Local  *rawLocal  `yaml:"local"`
	Var    *rawVar    `yaml:"var"`
	Label  *rawLabel  `yaml:"label"`
}

type rawDrop struct {
	Stream int `yaml:"stream"`
	Index  int `yaml:"index"`
}

type rawExtern struct {
	Name string    `yaml:"name"`
	Type yaml.Node `yaml:"type"`
}

type rawLocal struct {
	Name string    `yaml:"name"`
	Type yaml.Node `yaml:"type"`
	Bind *rawExpr  `yaml:"bind"`
	Body *rawExpr  `yaml:"body"`
}

type rawVar struct {
	Name string    `yaml:"name"`
	Type yaml.Node `yaml:"type"`
}

type rawLabel struct {
	Label string   `yaml:"label"`
	Expr  *rawExpr `yaml:"expr"`
}

type rawArray struct {
	Length int       `yaml:"length"`
	Elem   yaml.Node `yaml:"elem"`
}

type rawField struct {
	Name string    `yaml:"name"`
	Type yaml.Node `yaml:"type"`
}

type rawStruct struct {
	Name   string     `yaml:"name"`
	Fields []rawField `yaml:"fields"`
}

type rawCompound struct {
	Array  *rawArray  `yaml:"array"`
	Struct *rawStruct `yaml:"struct"`
}

// Load reads the stream network and properties stored at path.
func Load(path string) (*stream.Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	spec, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return spec, nil
}

// Decode parses one YAML document. Unknown keys are rejected.
func Decode(r io.Reader) (*stream.Spec, error) {
	var raw rawSpec
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if err == io.EOF {
			return &stream.Spec{}, nil
		}
		return nil, errors.Wrapf(err, "parse yaml")
	}

	d := &decoder{}
	spec := &stream.Spec{}
	types := make(map[stream.ID]stream.Type, len(raw.Streams))
	for i, rs := range raw.Streams {
		s, err := d.stream(&rs)
		if err != nil {
			return nil, errors.Wrapf(err, "streams[%d]", i)
		}
		if _, ok := types[s.ID]; ok {
			return nil, errors.Errorf("streams[%d]: duplicate stream id %d", i, s.ID)
		}
		types[s.ID] = s.Type
		spec.Streams = append(spec.Streams, s)
	}

	names := make(map[string]bool, len(raw.Properties))
	for i, rp := range raw.Properties {
		if rp.Name == "" {
			return nil, errors.Errorf("properties[%d]: name is required", i)
		}
		if names[rp.Name] {
			return nil, errors.Errorf("properties[%d]: duplicate property %q", i, rp.Name)
		}
		names[rp.Name] = true
		if rp.Expr == nil {
			return nil, errors.Errorf("properties[%d]: expr is required", i)
		}
		expr, err := d.expr(rp.Expr)
		if err != nil {
			return nil, errors.Wrapf(err, "properties[%d] %s", i, rp.Name)
		}
		spec.Properties = append(spec.Properties, &stream.Property{Name: rp.Name, Expr: expr})
	}

	for _, drop := range d.untyped {
		typ, ok := types[drop.Stream]
		if !ok {
			return nil, errors.Errorf("drop of undefined stream %d needs an explicit type", drop.Stream)
		}
		drop.Typ = typ
	}
	return spec, nil
}

// decoder collects drops written without a type. They take the type of the
// stream they read once every stream is known.
type decoder struct {
	untyped []*stream.Drop
}

func (d *decoder) stream(rs *rawStream) (*stream.Stream, error) {
	if rs.ID == nil {
		return nil, errors.New("id is required")
	}
	typ, err := convertType(&rs.Type)
	if err != nil {
		return nil, errors.Wrapf(err, "type")
	}
	if rs.Expr == nil {
		return nil, errors.New("expr is required")
	}
	expr, err := d.expr(rs.Expr)
	if err != nil {
		return nil, errors.Wrapf(err, "expr")
	}
	s := &stream.Stream{ID: stream.ID(*rs.ID), Type: typ, Expr: expr}
	for i := range rs.Buffer {
		v, err := literal(&rs.Buffer[i], typ)
		if err != nil {
			return nil, errors.Wrapf(err, "buffer[%d]", i)
		}
		s.Buffer = append(s.Buffer, v)
	}
	return s, nil
}

// literal decodes n as a value of typ and checks that it encodes exactly.
func literal(n *yaml.Node, typ stream.Type) (interface{}, error) {
	v, err := convertValue(n, typ)
	if err != nil {
		return nil, err
	}
	if _, err := symbolic.EncodeConstant(typ, v); err != nil {
		return nil, errors.Wrapf(err, "line %d", n.Line)
	}
	return v, nil
}

func convertType(n *yaml.Node) (stream.Type, error) {
	switch n.Kind {
	case 0:
		return stream.Type{}, errors.New("missing type")
	case yaml.ScalarNode:
		kind, ok := stream.ScalarKind(n.Value)
		if !ok {
			return stream.Type{}, errors.Errorf("line %d: unknown type %q", n.Line, n.Value)
		}
		return stream.Type{Kind: kind}, nil
	case yaml.MappingNode:
	default:
		return stream.Type{}, errors.Errorf("line %d: malformed type", n.Line)
	}

	var c rawCompound
	if err := n.Decode(&c); err != nil {
		return stream.Type{}, errors.Wrapf(err, "line %d", n.Line)
	}
	switch {
	case c.Array != nil && c.Struct == nil:
		if c.Array.Length < 0 {
			return stream.Type{}, errors.Errorf("line %d: negative array length", n.Line)
		}
		elem, err := convertType(&c.Array.Elem)
		if err != nil {
			return stream.Type{}, errors.Wrapf(err, "array element")
		}
		return stream.Array(c.Array.Length, elem), nil
	case c.Struct != nil && c.Array == nil:
		fields := make([]stream.Field, 0, len(c.Struct.Fields))
		seen := make(map[string]bool, len(c.Struct.Fields))
		for _, f := range c.Struct.Fields {
			if f.Name == "" || seen[f.Name] {
				return stream.Type{}, errors.Errorf("line %d: struct %s: missing or duplicate field name", n.Line, c.Struct.Name)
			}
			seen[f.Name] = true
			ft, err := convertType(&f.Type)
			if err != nil {
				return stream.Type{}, errors.Wrapf(err, "field %s", f.Name)
			}
			fields = append(fields, stream.Field{Name: f.Name, Type: ft})
		}
		return stream.Struct(c.Struct.Name, fields...), nil
	}
	return stream.Type{}, errors.Errorf("line %d: type needs exactly one of array or struct", n.Line)
}

// convertValue decodes a literal into the representation stream.Const
// carries for typ. Range checks happen at encoding time.
func convertValue(n *yaml.Node, typ stream.Type) (interface{}, error) {
	switch {
	case typ.Kind == stream.KindBool:
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, errors.Wrapf(err, "bool literal")
		}
		return b, nil
	case typ.IsInt():
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, errors.Wrapf(err, "%s literal", typ)
		}
		return i, nil
	case typ.IsWord():
		var u uint64
		if err := n.Decode(&u); err != nil {
			return nil, errors.Wrapf(err, "%s literal", typ)
		}
		return u, nil
	case typ.Kind == stream.KindFloat:
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, errors.Wrapf(err, "float literal")
		}
		if !math.IsInf(f, 0) && !math.IsNaN(f) && math.Abs(f) > math.MaxFloat32 {
			return nil, errors.Errorf("line %d: %v overflows float", n.Line, f)
		}
		return float32(f), nil
	case typ.Kind == stream.KindDouble:
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, errors.Wrapf(err, "double literal")
		}
		return f, nil
	case typ.Kind == stream.KindArray:
		if n.Kind != yaml.SequenceNode {
			return nil, errors.Errorf("line %d: array literal must be a sequence", n.Line)
		}
		if len(n.Content) != typ.Len {
			return nil, errors.Errorf("line %d: array literal has %d elements, want %d", n.Line, len(n.Content), typ.Len)
		}
		elems := make([]interface{}, len(n.Content))
		for i, c := range n.Content {
			v, err := convertValue(c, *typ.Elem)
			if err != nil {
				return nil, errors.Wrapf(err, "[%d]", i)
			}
			elems[i] = v
		}
		return elems, nil
	case typ.Kind == stream.KindStruct:
		return convertStructValue(n, typ)
	}
	return nil, errors.Errorf("no literal form for %s", typ)
}

// convertStructValue accepts a mapping keyed by field name or a sequence in
// field order.
func convertStructValue(n *yaml.Node, typ stream.Type) (interface{}, error) {
	fields := make([]interface{}, len(typ.Fields))
	switch n.Kind {
	case yaml.SequenceNode:
		if len(n.Content) != len(typ.Fields) {
			return nil, errors.Errorf("line %d: struct literal has %d fields, want %d", n.Line, len(n.Content), len(typ.Fields))
		}
		for i, c := range n.Content {
			v, err := convertValue(c, typ.Fields[i].Type)
			if err != nil {
				return nil, errors.Wrapf(err, ".%s", typ.Fields[i].Name)
			}
			fields[i] = v
		}
	case yaml.MappingNode:
		set := make([]bool, len(typ.Fields))
		for i := 0; i+1 < len(n.Content); i += 2 {
			name := n.Content[i].Value
			idx, ok := typ.FieldIndex(name)
			if !ok {
				return nil, errors.Errorf("line %d: %s has no field %q", n.Content[i].Line, typ.Name, name)
			}
			v, err := convertValue(n.Content[i+1], typ.Fields[idx].Type)
			if err != nil {
				return nil, errors.Wrapf(err, ".%s", name)
			}
			fields[idx], set[idx] = v, true
		}
		for i, ok := range set {
			if !ok {
				return nil, errors.Errorf("line %d: missing field %s", n.Line, typ.Fields[i].Name)
			}
		}
	default:
		return nil, errors.Errorf("line %d: malformed struct literal", n.Line)
	}
	return fields, nil
}

func (e *rawExpr) form() (string, error) {
	var forms []string
	if e.Const != nil {
		forms = append(forms, "const")
	}
	if e.Drop != nil {
		forms = append(forms, "drop")
	}
	if e.Extern != nil {
		forms = append(forms, "extern")
	}
	if e.Op != "" {
		forms = append(forms, "op")
	}
	if e.Local != nil {
		forms = append(forms, "local")
	}
	if e.Var != nil {
		forms = append(forms, "var")
	}
	if e.Label != nil {
		forms = append(forms, "label")
	}
	if len(forms) != 1 {
		return "", errors.Errorf("expression needs exactly one form, got %v", forms)
	}
	return forms[0], nil
}

func (d *decoder) expr(e *rawExpr) (stream.Expr, error) {
	form, err := e.form()
	if err != nil {
		return nil, err
	}

	switch form {
	case "const":
		typ, err := convertType(&e.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "const")
		}
		v, err := literal(e.Const, typ)
		if err != nil {
			return nil, errors.Wrapf(err, "const")
		}
		return &stream.Const{Typ: typ, Value: v}, nil

	case "drop":
		if e.Drop.Index < 0 {
			return nil, errors.Errorf("drop: negative index %d", e.Drop.Index)
		}
		drop := &stream.Drop{Stream: stream.ID(e.Drop.Stream), Index: e.Drop.Index}
		if e.Type.Kind == 0 {
			d.untyped = append(d.untyped, drop)
			return drop, nil
		}
		typ, err := convertType(&e.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "drop")
		}
		drop.Typ = typ
		return drop, nil

	case "extern":
		if e.Extern.Name == "" {
			return nil, errors.New("extern: name is required")
		}
		typ, err := convertType(&e.Extern.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "extern %s", e.Extern.Name)
		}
		return &stream.ExternVar{Typ: typ, Name: e.Extern.Name}, nil

	case "op":
		return d.op(e)

	case "local":
		typ, err := convertType(&e.Local.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "local %s", e.Local.Name)
		}
		if e.Local.Bind == nil || e.Local.Body == nil {
			return nil, errors.Errorf("local %s: bind and body are required", e.Local.Name)
		}
		bind, err := d.expr(e.Local.Bind)
		if err != nil {
			return nil, errors.Wrapf(err, "local %s bind", e.Local.Name)
		}
		body, err := d.expr(e.Local.Body)
		if err != nil {
			return nil, errors.Wrapf(err, "local %s body", e.Local.Name)
		}
		return &stream.Local{Typ: typ, Name: e.Local.Name, Bind: bind, Body: body}, nil

	case "var":
		typ, err := convertType(&e.Var.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "var %s", e.Var.Name)
		}
		return &stream.Var{Typ: typ, Name: e.Var.Name}, nil

	case "label":
		if e.Label.Expr == nil {
			return nil, errors.Errorf("label %q: expr is required", e.Label.Label)
		}
		inner, err := d.expr(e.Label.Expr)
		if err != nil {
			return nil, errors.Wrapf(err, "label %q", e.Label.Label)
		}
		return &stream.Label{Typ: inner.Type(), Text: e.Label.Label, Expr: inner}, nil
	}
	panic(fmt.Sprintf("unhandled expression form %s", form))
}

func (d *decoder) op(e *rawExpr) (stream.Expr, error) {
	arity, code, ok := stream.LookupOp(e.Op)
	if !ok {
		return nil, errors.Errorf("unknown operator %q", e.Op)
	}
	if len(e.Args) != arity {
		return nil, errors.Errorf("%s takes %d arguments, got %d", e.Op, arity, len(e.Args))
	}
	typ, err := convertType(&e.Type)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", e.Op)
	}
	args := make([]stream.Expr, arity)
	for i := range e.Args {
		args[i], err = d.expr(&e.Args[i])
		if err != nil {
			return nil, errors.Wrapf(err, "%s args[%d]", e.Op, i)
		}
	}

	switch arity {
	case 1:
		op := stream.UnaryOp(code)
		if op == stream.GetField && e.Field == "" {
			return nil, errors.New("getfield: field is required")
		}
		return &stream.Op1{Typ: typ, Op: op, Arg: args[0], Field: e.Field}, nil
	case 2:
		return &stream.Op2{Typ: typ, Op: stream.BinaryOp(code), Left: args[0], Right: args[1]}, nil
	}
	return &stream.Op3{Typ: typ, Op: stream.TernaryOp(code), First: args[0], Second: args[1], Third: args[2]}, nil
}
