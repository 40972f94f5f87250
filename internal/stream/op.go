package stream

import "fmt"

// UnaryOp is an operator of arity one.
type UnaryOp int

const (
	Not UnaryOp = iota
	Abs
	Sign
	Negate
	Recip
	Sqrt
	Exp
	Log
	Sin
	Cos
	Tan
	Asin
	Acos
	Atan
	Sinh
	Cosh
	Tanh
	Asinh
	Acosh
	Atanh
	Ceiling
	Floor
	BwNot
	Cast
	GetField
)

var unaryNames = map[UnaryOp]string{
	Not:      "not",
	Abs:      "abs",
	Sign:     "sign",
	Negate:   "negate",
	Recip:    "recip",
	Sqrt:     "sqrt",
	Exp:      "exp",
	Log:      "log",
	Sin:      "sin",
	Cos:      "cos",
	Tan:      "tan",
	Asin:     "asin",
	Acos:     "acos",
	Atan:     "atan",
	Sinh:     "sinh",
	Cosh:     "cosh",
	Tanh:     "tanh",
	Asinh:    "asinh",
	Acosh:    "acosh",
	Atanh:    "atanh",
	Ceiling:  "ceiling",
	Floor:    "floor",
	BwNot:    "bwnot",
	Cast:     "cast",
	GetField: "getfield",
}

func (op UnaryOp) String() string {
	if name, ok := unaryNames[op]; ok {
		return name
	}
	return fmt.Sprintf("unary(%d)", int(op))
}

// BinaryOp is an operator of arity two.
type BinaryOp int

const (
	And BinaryOp = iota
	Or
	Add
	Sub
	Mul
	Mod
	Div
	Fdiv
	Pow
	Logb
	Atan2
	Eq
	Ne
	Le
	Ge
	Lt
	Gt
	BwAnd
	BwOr
	BwXor
	BwShiftL
	BwShiftR
	Index
)

var binaryNames = map[BinaryOp]string{
	And:      "and",
	Or:       "or",
	Add:      "add",
	Sub:      "sub",
	Mul:      "mul",
	Mod:      "mod",
	Div:      "div",
	Fdiv:     "fdiv",
	Pow:      "pow",
	Logb:     "logb",
	Atan2:    "atan2",
	Eq:       "eq",
	Ne:       "ne",
	Le:       "le",
	Ge:       "ge",
	Lt:       "lt",
	Gt:       "gt",
	BwAnd:    "bwand",
	BwOr:     "bwor",
	BwXor:    "bwxor",
	BwShiftL: "shl",
	BwShiftR: "shr",
	Index:    "index",
}

func (op BinaryOp) String() string {
	if name, ok := binaryNames[op]; ok {
		return name
	}
	return fmt.Sprintf("binary(%d)", int(op))
}

// TernaryOp is an operator of arity three.
type TernaryOp int

const (
	Mux TernaryOp = iota
)

func (op TernaryOp) String() string {
	if op == Mux {
		return "mux"
	}
	return fmt.Sprintf("ternary(%d)", int(op))
}

// LookupOp resolves an operator name to its arity and code.
func LookupOp(name string) (arity int, code int, ok bool) {
	for op, n := range unaryNames {
		if n == name {
			return 1, int(op), true
		}
	}
	for op, n := range binaryNames {
		if n == name {
			return 2, int(op), true
		}
	}
	if name == Mux.String() {
		return 3, int(Mux), true
	}
	return 0, 0, false
}
