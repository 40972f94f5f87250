package main

import (
	"context"
	"os"
	"os/signal"

	yices2 "github.com/ianamason/yices2_go_bindings/yices_api"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"streamprover/internal/config"
	"streamprover/internal/prover"
	"streamprover/internal/report"
	"streamprover/internal/smt"
	"streamprover/internal/smt/smtlib"
	"streamprover/internal/smt/yices"
	"streamprover/internal/specfile"
)

var (
	outputFormat string
	colour       bool
)

var proveCommand = &cobra.Command{
	Use:   "prove <spec.yaml>",
	Short: "prove every property of a stream network",
	Long:  ``,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return proveExec(ctx, args[0])
	},
}

func init() {
	proveCommand.Flags().String("backend", config.BackendSMTLib, "solver backend (smtlib or yices)")
	proveCommand.Flags().String("solver", "z3", "solver executable for the smtlib backend")
	proveCommand.Flags().StringSlice("solver-arg", nil, "solver arguments, replacing the binary's defaults")
	proveCommand.Flags().Duration("timeout", 0, "per-property check timeout, 0 for none")
	proveCommand.Flags().Int("workers", 1, "properties proved concurrently")
	proveCommand.Flags().StringVar(&outputFormat, "output", "text", "report format (text or yaml)")
	proveCommand.Flags().BoolVar(&colour, "colour", false, "colour verdicts in text output")
	addSolverFlags(proveCommand)
}

// solverFactory returns the session factory for the configured backend and
// a function releasing backend-global state.
func solverFactory(c *config.Config) (smt.Factory, func(), error) {
	switch c.Solver.Backend {
	case config.BackendYices:
		yices2.Init()
		return yices.Factory(), yices2.Exit, nil
	case config.BackendSMTLib:
		return smtlib.Factory(c.Solver.Path, c.SolverArgs()), func() {}, nil
	}
	return nil, nil, errors.Errorf("unknown solver backend %q", c.Solver.Backend)
}

func proveExec(ctx context.Context, path string) error {
	spec, err := specfile.Load(path)
	if err != nil {
		return err
	}
	factory, release, err := solverFactory(conf)
	if err != nil {
		return err
	}
	defer release()

	workers := conf.Prover.Workers
	if conf.Solver.Backend == config.BackendYices && workers > 1 {
		log.Warnf("yices backend runs one property at a time, ignoring workers=%d", workers)
		workers = 1
	}

	p, err := prover.NewProver(spec, factory,
		prover.WithWorkers(workers),
		prover.WithSolverOptions(conf.SolverOptions()),
		prover.WithTimeout(conf.Solver.Timeout),
	)
	if err != nil {
		return err
	}
	results, err := p.Prove(ctx)
	if err != nil {
		return err
	}

	switch outputFormat {
	case "yaml":
		err = report.WriteYAML(os.Stdout, results)
	default:
		err = report.WriteText(os.Stdout, results, colour)
	}
	if err != nil {
		return err
	}

	if n := report.New(results).Summary.Invalid; n > 0 {
		return errors.Errorf("%d of %d properties invalid", n, len(results))
	}
	return nil
}
