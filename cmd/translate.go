package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"streamprover/internal/prover"
	"streamprover/internal/smt/smtlib"
	"streamprover/internal/specfile"
)

var propertyName string

var translateCommand = &cobra.Command{
	Use:   "translate <spec.yaml>",
	Short: "print the SMT-LIB2 script checked for each property",
	Long:  ``,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return translate(args[0])
	},
}

func init() {
	translateCommand.Flags().StringVar(&propertyName, "property", "", "translate only this property")
	addSolverFlags(translateCommand)
}

func translate(path string) error {
	spec, err := specfile.Load(path)
	if err != nil {
		return err
	}
	p, err := prover.NewProver(spec, nil)
	if err != nil {
		return err
	}

	found := false
	for _, prop := range spec.Properties {
		if propertyName != "" && prop.Name != propertyName {
			continue
		}
		found = true
		formula, err := p.Formula(prop)
		if err != nil {
			if prover.IsUnsupported(err) {
				fmt.Printf("; %s: %v\n\n", prop.Name, err)
				continue
			}
			return errors.Wrapf(err, "property %s", prop.Name)
		}
		fmt.Printf("; %s\n%s\n", prop.Name, smtlib.Script(formula, conf.SolverOptions()))
	}
	if propertyName != "" && !found {
		return errors.Errorf("no property named %q", propertyName)
	}
	return nil
}
