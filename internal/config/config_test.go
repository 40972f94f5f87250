package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamprover/internal/smt"
)

func Test_Defaults(t *testing.T) {
	c, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, BackendSMTLib, c.Solver.Backend)
	assert.Equal(t, "z3", c.Solver.Path)
	assert.Nil(t, c.SolverArgs())
	assert.Equal(t, time.Duration(0), c.Solver.Timeout)
	assert.Equal(t, 1, c.Prover.Workers)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "text", c.Log.Format)
	assert.Empty(t, c.SolverOptions())
}

func Test_LoadFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "streamprover.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
solver:
  path: cvc5
  args: [--lang=smt2, --incremental]
  logic: QF_BV
  timeout: 30s
  options:
    random-seed: 7
prover:
  workers: 3
log:
  format: json
`), 0o600))

	c, err := Load(New(), file)
	require.NoError(t, err)
	assert.Equal(t, "cvc5", c.Solver.Path)
	assert.Equal(t, []string{"--lang=smt2", "--incremental"}, c.SolverArgs())
	assert.Equal(t, 30*time.Second, c.Solver.Timeout)
	assert.Equal(t, 3, c.Prover.Workers)
	assert.Equal(t, map[string]string{"random-seed": "7", smt.OptionLogic: "QF_BV"}, c.SolverOptions())
}

func Test_EnvironmentOverrides(t *testing.T) {
	t.Setenv("STREAMPROVER_PROVER_WORKERS", "4")
	t.Setenv("STREAMPROVER_SOLVER_BACKEND", "yices")

	c, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, 4, c.Prover.Workers)
	assert.Equal(t, BackendYices, c.Solver.Backend)
}

func Test_Validate(t *testing.T) {
	cases := map[string]func(v *Config){
		"backend": func(c *Config) { c.Solver.Backend = "cloud" },
		"path":    func(c *Config) { c.Solver.Path = "" },
		"workers": func(c *Config) { c.Prover.Workers = 0 },
		"timeout": func(c *Config) { c.Solver.Timeout = -time.Second },
		"level":   func(c *Config) { c.Log.Level = "loud" },
		"format":  func(c *Config) { c.Log.Format = "xml" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c, err := Load(New(), "")
			require.NoError(t, err)
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func Test_LoadMissingFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func Test_ApplyLogging(t *testing.T) {
	defer log.SetLevel(log.GetLevel())
	defer log.SetFormatter(log.StandardLogger().Formatter)

	c := &Config{Log: Log{Level: "debug", Format: "json"}}
	c.ApplyLogging()
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	_, ok := log.StandardLogger().Formatter.(*log.JSONFormatter)
	assert.True(t, ok)
}
