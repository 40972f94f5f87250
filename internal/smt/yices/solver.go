// Package yices runs checks in process with the yices2 library. Yices has no
// floating-point theory, so formulas over float sorts are rejected.
//
// The library is process-global: callers run yices2.Init before opening
// sessions and yices2.Exit after closing the last one, and use one session at
// a time.
package yices

import (
	"context"
	"math/big"

	yices2 "github.com/ianamason/yices2_go_bindings/yices_api"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"streamprover/internal/smt"
)

// ErrFloatUnsupported is returned for any term of floating-point sort.
var ErrFloatUnsupported = errors.New("yices: floating-point terms are not supported")

type Solver struct {
	cfg        yices2.ConfigT
	ctx        yices2.ContextT
	terms      map[*smt.Term]yices2.TermT
	symbols    *smt.Set
	configured bool
	closed     bool
}

var _ smt.Solver = (*Solver)(nil)

func NewSolver() *Solver {
	return &Solver{
		terms:   make(map[*smt.Term]yices2.TermT),
		symbols: smt.NewSet(),
	}
}

// Factory opens in-process sessions.
func Factory() smt.Factory {
	return func(context.Context) (smt.Solver, error) {
		return NewSolver(), nil
	}
}

func lastError(op string) error {
	return errors.Errorf("yices %s: %s", op, yices2.ErrorString())
}

// Configure creates the context. The logic option selects yices' defaults for
// that logic; other options are yices configuration parameters.
func (s *Solver) Configure(options map[string]string) error {
	if s.configured {
		return errors.New("session already configured")
	}
	yices2.InitConfig(&s.cfg)
	if logic := options[smt.OptionLogic]; logic != "" {
		if yices2.DefaultConfigForLogic(s.cfg, logic) < 0 {
			yices2.CloseConfig(&s.cfg)
			return lastError("DefaultConfigForLogic")
		}
	}
	for k, v := range options {
		if k == smt.OptionLogic {
			continue
		}
		if yices2.SetConfig(s.cfg, k, v) < 0 {
			yices2.CloseConfig(&s.cfg)
			return lastError("SetConfig " + k)
		}
	}
	yices2.InitContext(s.cfg, &s.ctx)
	s.configured = true
	return nil
}

func (s *Solver) Assert(formula *smt.Bool) error {
	if !s.configured {
		if err := s.Configure(nil); err != nil {
			return err
		}
	}
	t, err := s.lower(formula.GetRaw())
	if err != nil {
		return err
	}
	if yices2.AssertFormula(s.ctx, t) < 0 {
		return lastError("AssertFormula")
	}
	return nil
}

// CheckSat runs the search, stopping it when ctx is done.
func (s *Solver) CheckSat(ctx context.Context) (smt.Status, *smt.Model, error) {
	if !s.configured {
		return smt.StatusUnknown, nil, errors.New("check on unconfigured session")
	}
	result := make(chan yices2.SmtStatusT, 1)
	go func() {
		result <- yices2.CheckContext(s.ctx, yices2.ParamT{})
	}()

	var status yices2.SmtStatusT
	select {
	case status = <-result:
	case <-ctx.Done():
		yices2.StopSearch(s.ctx)
		<-result
		return smt.StatusUnknown, nil, errors.Wrapf(ctx.Err(), "yices check")
	}

	switch status {
	case yices2.StatusUnsat:
		return smt.StatusUnsat, nil, nil
	case yices2.StatusSat:
		model, err := s.model()
		if err != nil {
			return smt.StatusSat, nil, err
		}
		return smt.StatusSat, model, nil
	case yices2.StatusError:
		return smt.StatusUnknown, nil, lastError("CheckContext")
	}
	log.Debugf("yices check ended with status %d", status)
	return smt.StatusUnknown, nil, nil
}

func (s *Solver) model() (*smt.Model, error) {
	ym := yices2.GetModel(s.ctx, 1)
	if ym == nil {
		return nil, lastError("GetModel")
	}
	defer yices2.CloseModel(ym)

	model := smt.NewModel()
	for _, sym := range s.symbols.GetElements() {
		t := s.terms[sym]
		var value string
		switch sym.Sort().Kind {
		case smt.SortBool:
			var v int32
			if yices2.GetBoolValue(*ym, t, &v) != 0 {
				return nil, lastError("GetBoolValue")
			}
			value = smt.FormatBits(sym.Sort(), big.NewInt(int64(v)))
		case smt.SortBitVec:
			bits := make([]int32, sym.Sort().Width)
			if yices2.GetBvValue(*ym, t, bits) != 0 {
				return nil, lastError("GetBvValue")
			}
			n := new(big.Int)
			for i, b := range bits {
				if b != 0 {
					n.SetBit(n, i, 1)
				}
			}
			value = smt.FormatBits(sym.Sort(), n)
		}
		model.Add(smt.Assignment{Name: sym.Name(), ID: sym.ID(), Sort: sym.Sort(), Value: value})
	}
	return model, nil
}

func (s *Solver) Close() error {
	if s.closed || !s.configured {
		s.closed = true
		return nil
	}
	s.closed = true
	yices2.CloseContext(&s.ctx)
	yices2.CloseConfig(&s.cfg)
	return nil
}
