// Package smtlib drives an external solver over its interactive SMT-LIB2
// interface.
package smtlib

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"streamprover/internal/smt"
)

// closeGrace is how long Close waits for the solver to exit after (exit).
const closeGrace = 2 * time.Second

// SolverError is an (error ...) response or an unexpected reply.
type SolverError struct {
	Msg string
}

func (e *SolverError) Error() string {
	return "solver: " + e.Msg
}

// DefaultArgs returns the arguments that put a known solver binary into
// interactive SMT-LIB2 mode.
func DefaultArgs(path string) []string {
	base := strings.TrimSuffix(filepath.Base(path), ".exe")
	switch {
	case strings.HasPrefix(base, "z3"):
		return []string{"-in", "-smt2"}
	case strings.HasPrefix(base, "cvc4"), strings.HasPrefix(base, "cvc5"):
		return []string{"--lang=smt2", "--incremental"}
	case strings.HasPrefix(base, "yices-smt2"):
		return []string{"--incremental"}
	case strings.HasPrefix(base, "boolector"):
		return []string{"--smt2", "--incremental"}
	case strings.HasPrefix(base, "bitwuzla"):
		return []string{"--lang", "smt2"}
	case strings.HasPrefix(base, "mathsat"):
		return []string{"-input=smt2"}
	}
	return nil
}

// Factory opens one solver process per session. Nil args select DefaultArgs.
func Factory(path string, args []string) smt.Factory {
	if args == nil {
		args = DefaultArgs(path)
	}
	return func(ctx context.Context) (smt.Solver, error) {
		return Start(ctx, path, args...)
	}
}

type response struct {
	sexp *Sexp
	err  error
}

// syncBuffer collects the solver's stderr while the process runs.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.TrimSpace(b.buf.String())
}

// Session is one solver process. It implements smt.Solver.
type Session struct {
	path       string
	cmd        *exec.Cmd
	stdin      io.WriteCloser
	stderr     *syncBuffer
	responses  chan response
	done       chan struct{}
	declared   *smt.Set
	configured bool
	closeOnce  sync.Once
	closeErr   error
}

var _ smt.Solver = (*Session)(nil)

// Start launches the solver at path. The process lives until Close, not
// until ctx is done; ctx only bounds the launch.
func Start(ctx context.Context, path string, args ...string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resolved, err := exec.LookPath(path)
	if err != nil {
		return nil, errors.Wrapf(err, "solver %s", path)
	}

	s := &Session{
		path:      path,
		cmd:       exec.Command(resolved, args...),
		stderr:    &syncBuffer{},
		responses: make(chan response),
		done:      make(chan struct{}),
		declared:  smt.NewSet(),
	}
	s.cmd.Stderr = s.stderr
	s.stdin, err = s.cmd.StdinPipe()
	if err != nil {
		return nil, errors.Wrapf(err, "StdinPipe")
	}
	stdout, err := s.cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrapf(err, "StdoutPipe")
	}
	if err := s.cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "start %s", resolved)
	}
	log.Debugf("started solver %s %v (pid %d)", resolved, args, s.cmd.Process.Pid)

	go s.readLoop(NewReader(stdout))
	return s, nil
}

func (s *Session) readLoop(r *Reader) {
	for {
		sexp, err := r.Read()
		select {
		case s.responses <- response{sexp: sexp, err: err}:
		case <-s.done:
			return
		}
		if err != nil {
			return
		}
	}
}

func (s *Session) send(command string) error {
	log.Debugf("%s > %s", s.path, command)
	if _, err := io.WriteString(s.stdin, command+"\n"); err != nil {
		return errors.Wrapf(err, "write to %s", s.path)
	}
	return nil
}

func (s *Session) next(ctx context.Context) (*Sexp, error) {
	if err := ctx.Err(); err != nil {
		_ = s.cmd.Process.Kill()
		return nil, errors.Wrapf(err, "waiting for %s", s.path)
	}
	select {
	case <-ctx.Done():
		_ = s.cmd.Process.Kill()
		return nil, errors.Wrapf(ctx.Err(), "waiting for %s", s.path)
	case resp := <-s.responses:
		if resp.err != nil {
			if stderr := s.stderr.String(); stderr != "" {
				return nil, errors.Wrapf(resp.err, "read from %s: %s", s.path, stderr)
			}
			return nil, errors.Wrapf(resp.err, "read from %s", s.path)
		}
		log.Debugf("%s < %s", s.path, resp.sexp)
		if resp.sexp.Head() == "error" && len(resp.sexp.List) > 1 {
			return nil, &SolverError{Msg: resp.sexp.List[1].Unquote()}
		}
		return resp.sexp, nil
	}
}

func (s *Session) Configure(options map[string]string) error {
	if s.configured {
		return errors.New("session already configured")
	}
	s.configured = true
	for _, command := range SetupCommands(options) {
		if err := s.send(command); err != nil {
			return err
		}
	}
	return nil
}

// Assert declares the formula's free symbols not yet known to the session and
// asserts it.
func (s *Session) Assert(formula *smt.Bool) error {
	if !s.configured {
		if err := s.Configure(nil); err != nil {
			return err
		}
	}
	for _, sym := range smt.Symbols(formula.GetRaw()).GetElements() {
		if s.declared.Contains(sym) {
			continue
		}
		if err := s.send(Declaration(sym)); err != nil {
			return err
		}
		s.declared.Add(sym)
	}
	return s.send(Assertion(formula))
}

func (s *Session) CheckSat(ctx context.Context) (smt.Status, *smt.Model, error) {
	if err := s.send("(check-sat)"); err != nil {
		return smt.StatusUnknown, nil, err
	}
	reply, err := s.next(ctx)
	if err != nil {
		return smt.StatusUnknown, nil, err
	}
	switch reply.String() {
	case "unsat":
		return smt.StatusUnsat, nil, nil
	case "unknown":
		return smt.StatusUnknown, nil, nil
	case "sat":
	default:
		return smt.StatusUnknown, nil, &SolverError{Msg: "unexpected reply to check-sat: " + reply.String()}
	}

	model, err := s.model(ctx)
	if err != nil {
		return smt.StatusSat, nil, errors.Wrapf(err, "get-value")
	}
	return smt.StatusSat, model, nil
}

func (s *Session) model(ctx context.Context) (*smt.Model, error) {
	symbols := s.declared.GetElements()
	model := smt.NewModel()
	if len(symbols) == 0 {
		return model, nil
	}
	if err := s.send(GetValue(symbols)); err != nil {
		return nil, err
	}
	reply, err := s.next(ctx)
	if err != nil {
		return nil, err
	}
	values, err := parseValues(reply)
	if err != nil {
		return nil, err
	}
	for _, sym := range symbols {
		value, ok := values[sym.SymbolName()]
		if !ok {
			return nil, &SolverError{Msg: "no value for " + sym.SymbolName()}
		}
		model.Add(smt.Assignment{Name: sym.Name(), ID: sym.ID(), Sort: sym.Sort(), Value: value})
	}
	return model, nil
}

// parseValues reads a get-value reply ((name value) ...) keyed by the
// unquoted symbol name.
func parseValues(reply *Sexp) (map[string]string, error) {
	if !reply.IsList {
		return nil, &SolverError{Msg: "unexpected reply to get-value: " + reply.String()}
	}
	values := make(map[string]string, len(reply.List))
	for _, pair := range reply.List {
		if !pair.IsList || len(pair.List) != 2 || pair.List[0].IsList {
			return nil, &SolverError{Msg: "malformed get-value entry: " + pair.String()}
		}
		name := strings.TrimSuffix(strings.TrimPrefix(pair.List[0].Atom, "|"), "|")
		values[name] = pair.List[1].String()
	}
	return values, nil
}

// Close ends the solver process, killing it if it does not exit promptly.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.send("(exit)")
		_ = s.stdin.Close()

		waited := make(chan error, 1)
		go func() { waited <- s.cmd.Wait() }()
		select {
		case err := <-waited:
			if err != nil {
				log.Debugf("solver %s exited: %v", s.path, err)
			}
		case <-time.After(closeGrace):
			log.Warnf("solver %s did not exit, killing it", s.path)
			if err := s.cmd.Process.Kill(); err != nil {
				s.closeErr = errors.Wrapf(err, "kill %s", s.path)
			}
			<-waited
		}
	})
	return s.closeErr
}
