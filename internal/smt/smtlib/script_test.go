package smtlib

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"streamprover/internal/smt"
)

func Test_DefaultArgs(t *testing.T) {
	assert.Equal(t, []string{"-in", "-smt2"}, DefaultArgs("/usr/bin/z3"))
	assert.Equal(t, []string{"--lang=smt2", "--incremental"}, DefaultArgs("cvc5"))
	assert.Equal(t, []string{"--incremental"}, DefaultArgs("yices-smt2"))
	assert.Nil(t, DefaultArgs("mysolver"))
}

func Test_Script(t *testing.T) {
	x := smt.NewBitVec("x@0", 8)
	p := smt.NewBool("p")
	formula := x.Ult(smt.NewBitVecValInt64(3, 8)).And(p).Not()

	script := Script(formula, map[string]string{
		smt.OptionLogic: "QF_BV",
		"timeout":       "500",
		":random-seed":  "7",
	})
	lines := strings.Split(strings.TrimSpace(script), "\n")
	assert.Equal(t, []string{
		"(set-option :produce-models true)",
		"(set-option :random-seed 7)",
		"(set-option :timeout 500)",
		"(set-logic QF_BV)",
		"(declare-const |" + x.GetRaw().SymbolName() + "| (_ BitVec 8))",
		"(declare-const |" + p.GetRaw().SymbolName() + "| Bool)",
		"(assert " + formula.String() + ")",
		"(check-sat)",
	}, lines)
}
