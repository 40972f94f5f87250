package smt

import (
	"fmt"
	"math/big"
	"strings"
	"sync/atomic"
)

// Op identifies the head symbol of a term.
type Op int

const (
	OpSymbol Op = iota
	OpTrue
	OpFalse
	OpBitVecConst
	OpFloatConst

	OpNot
	OpAnd
	OpOr
	OpEq
	OpIte

	OpBvNot
	OpBvNeg
	OpBvAdd
	OpBvSub
	OpBvMul
	OpBvUDiv
	OpBvSDiv
	OpBvURem
	OpBvSRem
	OpBvAnd
	OpBvOr
	OpBvXor
	OpBvShl
	OpBvLShr
	OpBvAShr
	OpBvULt
	OpBvULe
	OpBvUGt
	OpBvUGe
	OpBvSLt
	OpBvSLe
	OpBvSGt
	OpBvSGe
	OpBvExtract
	OpBvZeroExtend
	OpBvSignExtend

	OpFpNeg
	OpFpAdd
	OpFpSub
	OpFpMul
	OpFpDiv
	OpFpSqrt
	OpFpRoundToIntegral
	OpFpEq
	OpFpLt
	OpFpLe
	OpFpGt
	OpFpGe
	OpFpFromSigned
	OpFpFromUnsigned
	OpFpFromFloat
)

var opNames = map[Op]string{
	OpNot: "not",
	OpAnd: "and",
	OpOr:  "or",
	OpEq:  "=",
	OpIte: "ite",

	OpBvNot:  "bvnot",
	OpBvNeg:  "bvneg",
	OpBvAdd:  "bvadd",
	OpBvSub:  "bvsub",
	OpBvMul:  "bvmul",
	OpBvUDiv: "bvudiv",
	OpBvSDiv: "bvsdiv",
	OpBvURem: "bvurem",
	OpBvSRem: "bvsrem",
	OpBvAnd:  "bvand",
	OpBvOr:   "bvor",
	OpBvXor:  "bvxor",
	OpBvShl:  "bvshl",
	OpBvLShr: "bvlshr",
	OpBvAShr: "bvashr",
	OpBvULt:  "bvult",
	OpBvULe:  "bvule",
	OpBvUGt:  "bvugt",
	OpBvUGe:  "bvuge",
	OpBvSLt:  "bvslt",
	OpBvSLe:  "bvsle",
	OpBvSGt:  "bvsgt",
	OpBvSGe:  "bvsge",

	OpBvExtract:    "extract",
	OpBvZeroExtend: "zero_extend",
	OpBvSignExtend: "sign_extend",

	OpFpNeg:             "fp.neg",
	OpFpAdd:             "fp.add",
	OpFpSub:             "fp.sub",
	OpFpMul:             "fp.mul",
	OpFpDiv:             "fp.div",
	OpFpSqrt:            "fp.sqrt",
	OpFpRoundToIntegral: "fp.roundToIntegral",
	OpFpEq:              "fp.eq",
	OpFpLt:              "fp.lt",
	OpFpLe:              "fp.leq",
	OpFpGt:              "fp.gt",
	OpFpGe:              "fp.geq",
	OpFpFromSigned:      "to_fp",
	OpFpFromUnsigned:    "to_fp_unsigned",
	OpFpFromFloat:       "to_fp",
}

func (op Op) String() string {
	switch op {
	case OpSymbol:
		return "symbol"
	case OpTrue:
		return "true"
	case OpFalse:
		return "false"
	case OpBitVecConst:
		return "bvconst"
	case OpFloatConst:
		return "fpconst"
	}
	if name, ok := opNames[op]; ok {
		return name
	}
	return fmt.Sprintf("op(%d)", int(op))
}

// RoundingMode of a floating-point operation.
type RoundingMode int

const (
	RNE RoundingMode = iota // round to nearest, ties to even
	RNA
	RTP
	RTN
	RTZ
)

func (rm RoundingMode) String() string {
	switch rm {
	case RNA:
		return "RNA"
	case RTP:
		return "RTP"
	case RTN:
		return "RTN"
	case RTZ:
		return "RTZ"
	}
	return "RNE"
}

// Term is an immutable node of a solver formula. Terms are compared by
// pointer: two lookups that must denote the same solver constant return the
// same *Term.
type Term struct {
	op     Op
	sort   Sort
	args   []*Term
	id     uint64
	name   string
	bits   *big.Int
	params []uint32
	rm     RoundingMode
}

var symbolCounter uint64

// NewSymbol allocates a fresh, unconstrained constant. The name is only a
// debugging aid; uniqueness comes from the allocation counter.
func NewSymbol(name string, sort Sort) *Term {
	return &Term{
		op:   OpSymbol,
		sort: sort,
		id:   atomic.AddUint64(&symbolCounter, 1),
		name: name,
	}
}

func newTerm(op Op, sort Sort, args ...*Term) *Term {
	return &Term{op: op, sort: sort, args: args}
}

func newIndexedTerm(op Op, sort Sort, params []uint32, args ...*Term) *Term {
	return &Term{op: op, sort: sort, params: params, args: args}
}

func newRoundedTerm(op Op, sort Sort, rm RoundingMode, args ...*Term) *Term {
	return &Term{op: op, sort: sort, rm: rm, args: args}
}

func (t *Term) Op() Op                     { return t.op }
func (t *Term) Sort() Sort                 { return t.sort }
func (t *Term) Args() []*Term              { return t.args }
func (t *Term) ID() uint64                 { return t.id }
func (t *Term) Name() string               { return t.name }
func (t *Term) Params() []uint32           { return t.params }
func (t *Term) RoundingMode() RoundingMode { return t.rm }

// Bits returns the raw bit pattern of a bit-vector or floating-point literal.
func (t *Term) Bits() *big.Int {
	if t.bits == nil {
		return nil
	}
	return new(big.Int).Set(t.bits)
}

// SymbolName is the solver-level name of a symbol: the debug name made unique
// by the allocation id.
func (t *Term) SymbolName() string {
	return symbolName(t.name, t.id)
}

func symbolName(name string, id uint64) string {
	return fmt.Sprintf("%s#%d", sanitize(name), id)
}

// String renders t in SMT-LIB2 concrete syntax.
func (t *Term) String() string {
	var sb strings.Builder
	t.write(&sb, true)
	return sb.String()
}

// Shape renders t like String but prints symbols by their debug name only, so
// two translations of the same expression compare equal.
func (t *Term) Shape() string {
	var sb strings.Builder
	t.write(&sb, false)
	return sb.String()
}

func (t *Term) write(sb *strings.Builder, withIDs bool) {
	switch t.op {
	case OpSymbol:
		sb.WriteByte('|')
		if withIDs {
			sb.WriteString(t.SymbolName())
		} else {
			sb.WriteString(sanitize(t.name))
		}
		sb.WriteByte('|')
		return
	case OpTrue:
		sb.WriteString("true")
		return
	case OpFalse:
		sb.WriteString("false")
		return
	case OpBitVecConst, OpFloatConst:
		sb.WriteString(FormatBits(t.sort, t.bits))
		return
	}

	sb.WriteByte('(')
	switch t.op {
	case OpBvExtract:
		fmt.Fprintf(sb, "(_ extract %d %d)", t.params[0], t.params[1])
	case OpBvZeroExtend, OpBvSignExtend:
		fmt.Fprintf(sb, "(_ %s %d)", opNames[t.op], t.params[0])
	case OpFpFromSigned, OpFpFromUnsigned, OpFpFromFloat:
		fmt.Fprintf(sb, "(_ %s %d %d) %s", opNames[t.op], t.sort.Exp, t.sort.Sig, t.rm)
	case OpFpAdd, OpFpSub, OpFpMul, OpFpDiv, OpFpSqrt, OpFpRoundToIntegral:
		fmt.Fprintf(sb, "%s %s", opNames[t.op], t.rm)
	default:
		sb.WriteString(opNames[t.op])
	}
	for _, arg := range t.args {
		sb.WriteByte(' ')
		arg.write(sb, withIDs)
	}
	sb.WriteByte(')')
}

// FormatBits renders a raw bit pattern as an SMT-LIB2 literal of the given sort.
func FormatBits(sort Sort, bits *big.Int) string {
	switch sort.Kind {
	case SortBool:
		if bits != nil && bits.Sign() != 0 {
			return "true"
		}
		return "false"
	case SortFloat:
		width := sort.Exp + sort.Sig
		raw := binaryString(bits, width)
		return fmt.Sprintf("(fp #b%s #b%s #b%s)", raw[:1], raw[1:1+sort.Exp], raw[1+sort.Exp:])
	}
	return "#b" + binaryString(bits, sort.Width)
}

func binaryString(bits *big.Int, width uint32) string {
	if bits == nil {
		bits = new(big.Int)
	}
	s := bits.Text(2)
	if uint32(len(s)) < width {
		s = strings.Repeat("0", int(width)-len(s)) + s
	}
	return s
}

func sanitize(name string) string {
	if name == "" {
		return "k"
	}
	return strings.NewReplacer("|", "_", "\\", "_").Replace(name)
}

func mustSort(op Op, want Sort, terms ...*Term) {
	for _, term := range terms {
		if !term.sort.Equal(want) {
			panic(fmt.Sprintf("smt: %s expects %s, got %s", op, want, term.sort))
		}
	}
}
