package stream

import "fmt"

// ID identifies a stream within one specification.
type ID int

// Expr is a typed expression. The set of implementations is closed.
type Expr interface {
	Type() Type
	expr()
}

func (*Const) expr()     {}
func (*Drop) expr()      {}
func (*ExternVar) expr() {}
func (*Op1) expr()       {}
func (*Op2) expr()       {}
func (*Op3) expr()       {}
func (*Local) expr()     {}
func (*Var) expr()       {}
func (*Label) expr()     {}

// Const is a literal. Value holds bool, int64, uint64, float32, float64 or,
// for arrays and structs, []interface{} of element or field values.
type Const struct {
	Typ   Type
	Value interface{}
}

// Drop refers to a stream Index steps ahead of the evaluation point.
type Drop struct {
	Typ    Type
	Index  int
	Stream ID
}

// ExternVar is an external input sampled at the evaluation point.
type ExternVar struct {
	Typ  Type
	Name string
}

type Op1 struct {
	Typ Type
	Op  UnaryOp
	Arg Expr
	// Field names the member selected by GetField.
	Field string
}

type Op2 struct {
	Typ   Type
	Op    BinaryOp
	Left  Expr
	Right Expr
}

type Op3 struct {
	Typ    Type
	Op     TernaryOp
	First  Expr
	Second Expr
	Third  Expr
}

// Local binds Name to Bind within Body.
type Local struct {
	Typ  Type
	Name string
	Bind Expr
	Body Expr
}

// Var refers to a Local binding.
type Var struct {
	Typ  Type
	Name string
}

// Label annotates an expression with a name.
type Label struct {
	Typ  Type
	Text string
	Expr Expr
}

func (e *Const) Type() Type     { return e.Typ }
func (e *Drop) Type() Type      { return e.Typ }
func (e *ExternVar) Type() Type { return e.Typ }
func (e *Op1) Type() Type       { return e.Typ }
func (e *Op2) Type() Type       { return e.Typ }
func (e *Op3) Type() Type       { return e.Typ }
func (e *Local) Type() Type     { return e.Typ }
func (e *Var) Type() Type       { return e.Typ }
func (e *Label) Type() Type     { return e.Typ }

func (e *Const) String() string { return fmt.Sprintf("%v", e.Value) }
func (e *Drop) String() string  { return fmt.Sprintf("drop %d s%d", e.Index, e.Stream) }
func (e *ExternVar) String() string {
	return fmt.Sprintf("extern %q", e.Name)
}
func (e *Op1) String() string {
	if e.Op == GetField {
		return fmt.Sprintf("(%v).%s", e.Arg, e.Field)
	}
	return fmt.Sprintf("%s(%v)", e.Op, e.Arg)
}
func (e *Op2) String() string { return fmt.Sprintf("%s(%v, %v)", e.Op, e.Left, e.Right) }
func (e *Op3) String() string {
	return fmt.Sprintf("%s(%v, %v, %v)", e.Op, e.First, e.Second, e.Third)
}
func (e *Local) String() string { return fmt.Sprintf("let %s = %v in %v", e.Name, e.Bind, e.Body) }
func (e *Var) String() string   { return e.Name }
func (e *Label) String() string { return fmt.Sprintf("label %q %v", e.Text, e.Expr) }
