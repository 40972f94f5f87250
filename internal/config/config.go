// Package config resolves run settings from flags, an optional YAML file and
// STREAMPROVER_* environment variables.
package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"streamprover/internal/smt"
)

const EnvPrefix = "STREAMPROVER"

const (
	BackendSMTLib = "smtlib"
	BackendYices  = "yices"
)

// Keys, in the dotted form used by the config file. Environment variables
// replace dots with underscores: STREAMPROVER_SOLVER_PATH.
const (
	KeySolverBackend = "solver.backend"
	KeySolverPath    = "solver.path"
	KeySolverArgs    = "solver.args"
	KeySolverLogic   = "solver.logic"
	KeySolverOptions = "solver.options"
	KeySolverTimeout = "solver.timeout"
	KeyProverWorkers = "prover.workers"
	KeyLogLevel      = "log.level"
	KeyLogFormat     = "log.format"
)

type Solver struct {
	Backend string            `mapstructure:"backend"`
	Path    string            `mapstructure:"path"`
	Args    []string          `mapstructure:"args"`
	Logic   string            `mapstructure:"logic"`
	Options map[string]string `mapstructure:"options"`
	Timeout time.Duration     `mapstructure:"timeout"`
}

type Prover struct {
	Workers int `mapstructure:"workers"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type Config struct {
	Solver Solver `mapstructure:"solver"`
	Prover Prover `mapstructure:"prover"`
	Log    Log    `mapstructure:"log"`
}

// New returns a viper instance carrying the defaults and reading the
// environment.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeySolverBackend, BackendSMTLib)
	v.SetDefault(KeySolverPath, "z3")
	v.SetDefault(KeySolverArgs, []string{})
	v.SetDefault(KeySolverLogic, "")
	v.SetDefault(KeySolverOptions, map[string]string{})
	v.SetDefault(KeySolverTimeout, time.Duration(0))
	v.SetDefault(KeyProverWorkers, 1)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads file into v when it is set and decodes the result.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", file)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrapf(err, "decode config")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	switch c.Solver.Backend {
	case BackendSMTLib:
		if c.Solver.Path == "" {
			return errors.New("solver.path is required for the smtlib backend")
		}
	case BackendYices:
	default:
		return errors.Errorf("unknown solver backend %q", c.Solver.Backend)
	}
	if c.Prover.Workers < 1 {
		return errors.Errorf("prover.workers must be positive, got %d", c.Prover.Workers)
	}
	if c.Solver.Timeout < 0 {
		return errors.Errorf("negative solver.timeout %s", c.Solver.Timeout)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrapf(err, "log.level")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.Errorf("unknown log.format %q", c.Log.Format)
	}
	return nil
}

// SolverOptions merges the logic into the backend options.
func (c *Config) SolverOptions() map[string]string {
	options := make(map[string]string, len(c.Solver.Options)+1)
	for k, v := range c.Solver.Options {
		options[k] = v
	}
	if c.Solver.Logic != "" {
		options[smt.OptionLogic] = c.Solver.Logic
	}
	return options
}

// SolverArgs returns nil when no arguments are configured, which selects the
// binary's defaults.
func (c *Config) SolverArgs() []string {
	if len(c.Solver.Args) == 0 {
		return nil
	}
	return c.Solver.Args
}

// ApplyLogging configures the standard logrus logger.
func (c *Config) ApplyLogging() {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if c.Log.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
