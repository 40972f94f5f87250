package prover

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/pkg/errors"

	"streamprover/internal/smt"
)

// bruteSolver decides formulas over booleans and narrow bit-vectors by
// enumerating every assignment of their free symbols.
type bruteSolver struct {
	mu         sync.Mutex
	assertions []*smt.Term
	configured map[string]string
	closed     bool
	sessions   *sessionCounter
}

type sessionCounter struct {
	mu     sync.Mutex
	opened int
	closed int
	// failAt names the session call that returns errBrokenSession.
	failAt string
}

var errBrokenSession = errors.New("session broken")

func (c *sessionCounter) factory() smt.Factory {
	return func(ctx context.Context) (smt.Solver, error) {
		c.mu.Lock()
		c.opened++
		c.mu.Unlock()
		return &bruteSolver{sessions: c}, nil
	}
}

func (s *bruteSolver) Configure(options map[string]string) error {
	if s.sessions.failAt == "configure" {
		return errBrokenSession
	}
	s.configured = options
	return nil
}

func (s *bruteSolver) Assert(formula *smt.Bool) error {
	if s.sessions.failAt == "assert" {
		return errBrokenSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assertions = append(s.assertions, formula.GetRaw())
	return nil
}

func (s *bruteSolver) Close() error {
	s.closed = true
	s.sessions.mu.Lock()
	s.sessions.closed++
	s.sessions.mu.Unlock()
	return nil
}

const maxBruteBits = 16

func (s *bruteSolver) CheckSat(ctx context.Context) (smt.Status, *smt.Model, error) {
	if s.sessions.failAt == "check" {
		return smt.StatusUnknown, nil, errBrokenSession
	}
	symbols := smt.Symbols(s.assertions...).GetElements()
	bits := 0
	for _, sym := range symbols {
		switch sym.Sort().Kind {
		case smt.SortBool:
			bits++
		case smt.SortBitVec:
			bits += int(sym.Sort().Width)
		default:
			return smt.StatusUnknown, nil, nil
		}
	}
	if bits > maxBruteBits {
		return smt.StatusUnknown, nil, nil
	}

	for n := 0; n < 1<<bits; n++ {
		env := make(map[*smt.Term]*big.Int, len(symbols))
		shift := 0
		for _, sym := range symbols {
			width := 1
			if sym.Sort().Kind == smt.SortBitVec {
				width = int(sym.Sort().Width)
			}
			env[sym] = big.NewInt(int64((n >> shift) & (1<<width - 1)))
			shift += width
		}
		sat := true
		for _, a := range s.assertions {
			v, err := eval(a, env)
			if err != nil {
				return smt.StatusUnknown, nil, err
			}
			if v.Sign() == 0 {
				sat = false
				break
			}
		}
		if sat {
			model := smt.NewModel()
			for _, sym := range symbols {
				model.Add(smt.Assignment{
					Name:  sym.Name(),
					ID:    sym.ID(),
					Sort:  sym.Sort(),
					Value: smt.FormatBits(sym.Sort(), env[sym]),
				})
			}
			return smt.StatusSat, model, nil
		}
	}
	return smt.StatusUnsat, nil, nil
}

func boolInt(b bool) *big.Int {
	if b {
		return big.NewInt(1)
	}
	return big.NewInt(0)
}

func signed(v *big.Int, width uint32) *big.Int {
	if v.Bit(int(width)-1) == 0 {
		return v
	}
	return new(big.Int).Sub(v, new(big.Int).Lsh(big.NewInt(1), uint(width)))
}

func eval(t *smt.Term, env map[*smt.Term]*big.Int) (*big.Int, error) {
	switch t.Op() {
	case smt.OpSymbol:
		return env[t], nil
	case smt.OpTrue:
		return big.NewInt(1), nil
	case smt.OpFalse:
		return big.NewInt(0), nil
	case smt.OpBitVecConst:
		return t.Bits(), nil
	}

	args := make([]*big.Int, len(t.Args()))
	for i, arg := range t.Args() {
		v, err := eval(arg, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	width := t.Sort().Width
	if len(t.Args()) > 0 && t.Args()[0].Sort().Kind == smt.SortBitVec {
		width = t.Args()[0].Sort().Width
	}
	modulus := new(big.Int).Lsh(big.NewInt(1), uint(width))
	wrap := func(v *big.Int) *big.Int { return v.Mod(v, modulus) }

	switch t.Op() {
	case smt.OpNot:
		return boolInt(args[0].Sign() == 0), nil
	case smt.OpAnd:
		for _, a := range args {
			if a.Sign() == 0 {
				return big.NewInt(0), nil
			}
		}
		return big.NewInt(1), nil
	case smt.OpOr:
		for _, a := range args {
			if a.Sign() != 0 {
				return big.NewInt(1), nil
			}
		}
		return big.NewInt(0), nil
	case smt.OpEq:
		return boolInt(args[0].Cmp(args[1]) == 0), nil
	case smt.OpIte:
		if args[0].Sign() != 0 {
			return args[1], nil
		}
		return args[2], nil
	case smt.OpBvNeg:
		return wrap(new(big.Int).Neg(args[0])), nil
	case smt.OpBvNot:
		return wrap(new(big.Int).Sub(new(big.Int).Sub(modulus, big.NewInt(1)), args[0])), nil
	case smt.OpBvAdd:
		return wrap(new(big.Int).Add(args[0], args[1])), nil
	case smt.OpBvSub:
		return wrap(new(big.Int).Sub(args[0], args[1])), nil
	case smt.OpBvMul:
		return wrap(new(big.Int).Mul(args[0], args[1])), nil
	case smt.OpBvULt:
		return boolInt(args[0].Cmp(args[1]) < 0), nil
	case smt.OpBvULe:
		return boolInt(args[0].Cmp(args[1]) <= 0), nil
	case smt.OpBvUGt:
		return boolInt(args[0].Cmp(args[1]) > 0), nil
	case smt.OpBvUGe:
		return boolInt(args[0].Cmp(args[1]) >= 0), nil
	case smt.OpBvSLt:
		return boolInt(signed(args[0], width).Cmp(signed(args[1], width)) < 0), nil
	case smt.OpBvSLe:
		return boolInt(signed(args[0], width).Cmp(signed(args[1], width)) <= 0), nil
	case smt.OpBvSGt:
		return boolInt(signed(args[0], width).Cmp(signed(args[1], width)) > 0), nil
	case smt.OpBvSGe:
		return boolInt(signed(args[0], width).Cmp(signed(args[1], width)) >= 0), nil
	case smt.OpBvShl, smt.OpBvLShr, smt.OpBvAShr:
		return shiftBits(t.Op(), args[0], args[1], width), nil
	case smt.OpBvExtract:
		hi, lo := t.Params()[0], t.Params()[1]
		v := new(big.Int).Rsh(args[0], uint(lo))
		return v.Mod(v, new(big.Int).Lsh(big.NewInt(1), uint(hi-lo+1))), nil
	case smt.OpBvZeroExtend:
		return args[0], nil
	case smt.OpBvSignExtend:
		v := signed(args[0], width)
		return v.Mod(v, new(big.Int).Lsh(big.NewInt(1), uint(t.Sort().Width))), nil
	}
	return nil, fmt.Errorf("brute solver cannot evaluate %s", t.Op())
}

func shiftBits(op smt.Op, v, n *big.Int, width uint32) *big.Int {
	modulus := new(big.Int).Lsh(big.NewInt(1), uint(width))
	if n.Cmp(big.NewInt(int64(width))) >= 0 {
		n = big.NewInt(int64(width))
	}
	switch op {
	case smt.OpBvShl:
		r := new(big.Int).Lsh(v, uint(n.Int64()))
		return r.Mod(r, modulus)
	case smt.OpBvAShr:
		r := new(big.Int).Rsh(signed(v, width), uint(n.Int64()))
		return r.Mod(r, modulus)
	}
	return new(big.Int).Rsh(v, uint(n.Int64()))
}
