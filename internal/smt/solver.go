package smt

import "context"

type Status int

const (
	StatusUnknown Status = iota
	StatusSat
	StatusUnsat
)

func (s Status) String() string {
	switch s {
	case StatusSat:
		return "sat"
	case StatusUnsat:
		return "unsat"
	}
	return "unknown"
}

// OptionLogic names the logic a session is restricted to. Other option keys
// are passed to the backend unchanged.
const OptionLogic = "logic"

// Solver is one solver session: configured, given assertions, and checked.
// Callers must Close it on every path.
type Solver interface {
	// Configure applies backend options. It must be called before Assert.
	Configure(options map[string]string) error
	Assert(formula *Bool) error
	// CheckSat decides the conjunction of the assertions. A satisfiable result
	// carries a model of every free symbol that was asserted.
	CheckSat(ctx context.Context) (Status, *Model, error)
	Close() error
}

// Factory opens a new solver session.
type Factory func(ctx context.Context) (Solver, error)
