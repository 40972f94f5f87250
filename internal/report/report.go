package report

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"streamprover/internal/prover"
)

const (
	colourRed    = 31
	colourGreen  = 32
	colourYellow = 33
)

// Entry is the printable form of one property's outcome.
type Entry struct {
	Property       string            `yaml:"property"`
	Verdict        string            `yaml:"verdict"`
	Counterexample map[string]string `yaml:"counterexample,omitempty"`
	Error          string            `yaml:"error,omitempty"`
}

// Summary counts verdicts over a run.
type Summary struct {
	Valid   int `yaml:"valid"`
	Invalid int `yaml:"invalid"`
	Unknown int `yaml:"unknown"`
}

type Report struct {
	Entries []Entry `yaml:"properties"`
	Summary Summary `yaml:"summary"`
}

func New(results []prover.Result) *Report {
	r := &Report{Entries: make([]Entry, 0, len(results))}
	for _, res := range results {
		e := Entry{Property: res.Property, Verdict: res.Verdict.String()}
		if len(res.Counterexample) > 0 {
			e.Counterexample = make(map[string]string, len(res.Counterexample))
			for _, a := range res.Counterexample {
				e.Counterexample[a.Symbol()] = a.Value
			}
		}
		if res.Err != nil {
			e.Error = res.Err.Error()
		}
		switch res.Verdict {
		case prover.Valid:
			r.Summary.Valid++
		case prover.Invalid:
			r.Summary.Invalid++
		default:
			r.Summary.Unknown++
		}
		r.Entries = append(r.Entries, e)
	}
	return r
}

func Colour(color int, str string) string {
	return fmt.Sprintf("\033[%dm%s\033[0m", color, str)
}

// WriteText prints one block per property. Counterexample values are listed
// in model order.
func WriteText(w io.Writer, results []prover.Result, colour bool) error {
	paint := func(c int, s string) string {
		if colour {
			return Colour(c, s)
		}
		return s
	}
	for _, res := range results {
		verdict := res.Verdict.String()
		switch res.Verdict {
		case prover.Valid:
			verdict = paint(colourGreen, verdict)
		case prover.Invalid:
			verdict = paint(colourRed, verdict)
		default:
			verdict = paint(colourYellow, verdict)
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", res.Property, verdict); err != nil {
			return err
		}
		for _, a := range res.Counterexample {
			if _, err := fmt.Fprintf(w, "    %s\n", a); err != nil {
				return err
			}
		}
		if res.Err != nil {
			if _, err := fmt.Fprintf(w, "    %v\n", res.Err); err != nil {
				return err
			}
		}
	}
	s := New(results).Summary
	_, err := fmt.Fprintf(w, "\n%d valid, %d invalid, %d unknown\n", s.Valid, s.Invalid, s.Unknown)
	return err
}

func WriteYAML(w io.Writer, results []prover.Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(New(results)); err != nil {
		return errors.Wrapf(err, "encode report")
	}
	return enc.Close()
}
