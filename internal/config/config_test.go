package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/geometric-consensus/internal/consensus"
	"github.com/danielpatrickdp/geometric-consensus/internal/partition"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "geoconsensus.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// isolate keeps the default search path away from the developer's files.
func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
}

// #region load
func TestLoadDefaults(t *testing.T) {
	isolate(t)
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "CUBE", c.Consensus.Type)
	assert.Equal(t, 14, c.Consensus.MaxSteps)
	assert.Nil(t, c.Consensus.Threshold)
	assert.Equal(t, 30*time.Second, c.Consensus.Timeout)
	assert.Equal(t, 4, c.Replay.Workers)
	assert.Equal(t, StrategyAuto, c.Partition.Strategy)
	assert.Equal(t, slog.LevelInfo, c.SlogLevel())

	ec, err := c.EngineConfig()
	require.NoError(t, err)
	assert.Equal(t, consensus.Cube, ec.Type)
	assert.Equal(t, 0.5, ec.Threshold)
}

func TestLoadFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
consensus:
  type: octahedron
  max_steps: 6
  threshold: 0.75
  timeout: 2s
ledger:
  path: /tmp/geo.db
replay:
  workers: 8
partition:
  strategy: geometric-decomposition
log:
  level: DEBUG
`)
	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "OCTAHEDRON", c.Consensus.Type)
	require.NotNil(t, c.Consensus.Threshold)
	assert.Equal(t, 0.75, *c.Consensus.Threshold)
	assert.Equal(t, "/tmp/geo.db", c.Ledger.Path)
	assert.Equal(t, 8, c.Replay.Workers)
	assert.Equal(t, slog.LevelDebug, c.SlogLevel())

	ec, err := c.EngineConfig()
	require.NoError(t, err)
	assert.Equal(t, consensus.Octahedron, ec.Type)
	assert.Equal(t, 6, ec.MaxSteps)
	assert.Equal(t, 0.75, ec.Threshold)
	assert.Equal(t, 2*time.Second, ec.Timeout)

	chain, err := c.RecoveryChain()
	require.NoError(t, err)
	assert.Equal(t, []partition.Strategy{partition.StrategyGeometricDecomposition}, chain)
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("GEOCONSENSUS_CONSENSUS_TYPE", "tetrahedron")
	t.Setenv("GEOCONSENSUS_CONSENSUS_THRESHOLD", "0.9")
	t.Setenv("GEOCONSENSUS_REPLAY_WORKERS", "2")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "TETRAHEDRON", c.Consensus.Type)
	require.NotNil(t, c.Consensus.Threshold)
	assert.Equal(t, 0.9, *c.Consensus.Threshold)
	assert.Equal(t, 2, c.Replay.Workers)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
// #endregion load

// #region validation
func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"max steps": "consensus:\n  max_steps: 15\n",
		"threshold": "consensus:\n  threshold: 1.5\n",
		"type":      "consensus:\n  type: dodecahedron\n",
		"workers":   "replay:\n  workers: 0\n",
		"strategy":  "partition:\n  strategy: teleport\n",
		"level":     "log:\n  level: verbose\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			_, err := Load(writeConfig(t, body))
			assert.ErrorContains(t, err, "invalid config")
		})
	}
}

func TestRecoveryChainAuto(t *testing.T) {
	c := Config{Partition: PartitionConfig{Strategy: StrategyAuto}}
	chain, err := c.RecoveryChain()
	require.NoError(t, err)
	assert.Equal(t, partition.Strategies(), chain)
}
// #endregion validation
