package smtlib

import (
	"fmt"
	"sort"
	"strings"

	"streamprover/internal/smt"
)

// SetupCommands returns the commands that configure a fresh session. Models
// are always enabled; the logic, when given, is set after the other options.
func SetupCommands(options map[string]string) []string {
	commands := []string{"(set-option :produce-models true)"}
	keys := make([]string, 0, len(options))
	for k := range options {
		if k != smt.OptionLogic {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		commands = append(commands, fmt.Sprintf("(set-option :%s %s)", strings.TrimPrefix(k, ":"), options[k]))
	}
	if logic := options[smt.OptionLogic]; logic != "" {
		commands = append(commands, fmt.Sprintf("(set-logic %s)", logic))
	}
	return commands
}

// Declaration declares a free symbol under its unique solver name.
func Declaration(symbol *smt.Term) string {
	return fmt.Sprintf("(declare-const |%s| %s)", symbol.SymbolName(), symbol.Sort())
}

func Assertion(formula *smt.Bool) string {
	return "(assert " + formula.String() + ")"
}

// GetValue asks for the model values of symbols.
func GetValue(symbols []*smt.Term) string {
	names := make([]string, len(symbols))
	for i, sym := range symbols {
		names[i] = "|" + sym.SymbolName() + "|"
	}
	return "(get-value (" + strings.Join(names, " ") + "))"
}

// Script renders the complete check of formula as a standalone SMT-LIB2
// script.
func Script(formula *smt.Bool, options map[string]string) string {
	var sb strings.Builder
	for _, c := range SetupCommands(options) {
		sb.WriteString(c)
		sb.WriteByte('\n')
	}
	for _, sym := range smt.Symbols(formula.GetRaw()).GetElements() {
		sb.WriteString(Declaration(sym))
		sb.WriteByte('\n')
	}
	sb.WriteString(Assertion(formula))
	sb.WriteString("\n(check-sat)\n")
	return sb.String()
}
