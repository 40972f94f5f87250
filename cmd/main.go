package main

import (
	goflag "flag"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"

	"streamprover/internal/config"
)

var (
	settings   = config.New()
	conf       *config.Config
	configFile string
)

// flagKeys maps command-line flags onto configuration keys.
var flagKeys = map[string]string{
	"backend":    config.KeySolverBackend,
	"solver":     config.KeySolverPath,
	"solver-arg": config.KeySolverArgs,
	"logic":      config.KeySolverLogic,
	"option":     config.KeySolverOptions,
	"timeout":    config.KeySolverTimeout,
	"workers":    config.KeyProverWorkers,
	"log-level":  config.KeyLogLevel,
	"log-format": config.KeyLogFormat,
}

var rootCmd = &cobra.Command{
	Use:           "streamprover",
	Short:         "streamprover, proves safety properties of stream networks with an SMT solver",
	Long:          "",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		for name, key := range flagKeys {
			if f := cmd.Flags().Lookup(name); f != nil {
				if err := settings.BindPFlag(key, f); err != nil {
					return err
				}
			}
		}
		var err error
		conf, err = config.Load(settings, configFile)
		if err != nil {
			return err
		}
		conf.ApplyLogging()
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (panic, fatal, error, warn, info, debug, trace)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text or json)")
}

// addSolverFlags registers the flags shared by commands that talk to a solver.
func addSolverFlags(cmd *cobra.Command) {
	cmd.Flags().String("logic", "", "SMT-LIB logic to set, e.g. QF_BV or QF_FPBV")
	cmd.Flags().StringToString("option", nil, "solver option as key=value, repeatable")
}

func main() {
	flag.CommandLine.AddGoFlagSet(goflag.CommandLine)

	rootCmd.AddCommand(versionCommand)
	rootCmd.AddCommand(proveCommand)
	rootCmd.AddCommand(translateCommand)

	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
