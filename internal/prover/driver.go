package prover

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"streamprover/internal/smt"
	"streamprover/internal/stream"
	"streamprover/internal/symbolic"
)

type Verdict int

const (
	Unknown Verdict = iota
	Valid
	Invalid
)

func (v Verdict) String() string {
	switch v {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	}
	return "unknown"
}

// Result is the outcome of one property. Err is set when the property could
// not be translated, in which case the verdict is Unknown.
type Result struct {
	Property       string
	Verdict        Verdict
	Counterexample []smt.Assignment
	Err            error
}

type Option func(*Prover)

// WithWorkers proves up to n properties at once.
func WithWorkers(n int) Option {
	return func(p *Prover) {
		p.workers = n
	}
}

// WithSolverOptions sets the options passed to every solver session.
func WithSolverOptions(options map[string]string) Option {
	return func(p *Prover) {
		p.options = options
	}
}

// WithTimeout bounds each satisfiability check.
func WithTimeout(d time.Duration) Option {
	return func(p *Prover) {
		p.timeout = d
	}
}

type Prover struct {
	spec     *stream.Spec
	registry *stream.Registry
	factory  smt.Factory
	workers  int
	options  map[string]string
	timeout  time.Duration
}

func NewProver(spec *stream.Spec, factory smt.Factory, opts ...Option) (*Prover, error) {
	registry, err := stream.NewRegistry(spec.Streams)
	if err != nil {
		return nil, errors.Wrapf(err, "NewRegistry")
	}
	p := &Prover{
		spec:     spec,
		registry: registry,
		factory:  factory,
		workers:  1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Prove checks every property and returns the results in declaration order.
// Unsupported constructs only fail their own property; any other error stops
// the run.
func (p *Prover) Prove(ctx context.Context) ([]Result, error) {
	results := make([]Result, len(p.spec.Properties))
	startTime := time.Now()

	if p.workers <= 1 {
		for i, prop := range p.spec.Properties {
			result, err := p.ProveProperty(ctx, prop)
			if err != nil {
				return nil, err
			}
			results[i] = result
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(p.workers)
		for i, prop := range p.spec.Properties {
			i, prop := i, prop
			g.Go(func() error {
				result, err := p.ProveProperty(gctx, prop)
				if err != nil {
					return err
				}
				results[i] = result
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	log.Infof("proved %d properties in %.3fs", len(results), time.Since(startTime).Seconds())
	return results, nil
}

// Formula translates prop at the present instant and returns its negation.
func (p *Prover) Formula(prop *stream.Property) (*smt.Bool, error) {
	translator := NewTranslator(p.registry, NewCache(p.registry))
	v, err := translator.Translate(prop.Expr, 0)
	if err != nil {
		return nil, err
	}
	b, ok := v.(*symbolic.Bool)
	if !ok {
		return nil, internalf("property %s has type %s", prop.Name, v.Type())
	}
	return b.Term.Not(), nil
}

func (p *Prover) ProveProperty(ctx context.Context, prop *stream.Property) (Result, error) {
	log.Infof("proving %s", prop.Name)
	result := Result{Property: prop.Name, Verdict: Unknown}

	negated, err := p.Formula(prop)
	if IsUnsupported(err) {
		log.Warnf("property %s: %v", prop.Name, err)
		result.Err = err
		return result, nil
	}
	if err != nil {
		return result, errors.Wrapf(err, "property %s", prop.Name)
	}

	solver, err := p.factory(ctx)
	if err != nil {
		return result, errors.Wrapf(err, "open solver for %s", prop.Name)
	}
	defer func() {
		if err := solver.Close(); err != nil {
			log.Warnf("close solver for %s: %v", prop.Name, err)
		}
	}()

	if err := solver.Configure(p.options); err != nil {
		return result, errors.Wrapf(err, "configure solver for %s", prop.Name)
	}
	if err := solver.Assert(negated); err != nil {
		return result, errors.Wrapf(err, "assert %s", prop.Name)
	}

	checkCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		checkCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	status, model, err := solver.CheckSat(checkCtx)
	if err != nil {
		if p.timeout > 0 && ctx.Err() == nil && errors.Is(checkCtx.Err(), context.DeadlineExceeded) {
			log.Warnf("property %s: solver timed out after %s", prop.Name, p.timeout)
			return result, nil
		}
		return result, errors.Wrapf(err, "CheckSat %s", prop.Name)
	}

	switch status {
	case smt.StatusUnsat:
		result.Verdict = Valid
	case smt.StatusSat:
		result.Verdict = Invalid
		if model != nil {
			result.Counterexample = model.Assignments()
		}
	}
	log.Infof("property %s: %s", prop.Name, result.Verdict)
	return result, nil
}
