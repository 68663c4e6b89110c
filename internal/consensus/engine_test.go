package consensus

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/geometric-consensus/internal/forms"
	"github.com/danielpatrickdp/geometric-consensus/internal/state"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	e, err := NewEngine(cfg, quietLogger())
	require.NoError(t, err)
	return e
}

func peer(t *testing.T, id string, values ...float64) Peer {
	t.Helper()
	s, err := state.New(values)
	require.NoError(t, err)
	return Peer{ID: id, Agreed: true, State: &s}
}

func uniformPeer(t *testing.T, id string, v float64) Peer {
	return peer(t, id, v, v, v, v, v, v, v)
}

func identicalPeers(t *testing.T, n int, v float64) []Peer {
	out := make([]Peer, n)
	for i := range out {
		out[i] = uniformPeer(t, fmt.Sprintf("p%d", i), v)
	}
	return out
}

func divergentPeers(t *testing.T) []Peer {
	return []Peer{
		uniformPeer(t, "zeros", 0),
		uniformPeer(t, "ones", 1),
		peer(t, "even", 0, 1, 0, 1, 0, 1, 0),
		peer(t, "odd", 1, 0, 1, 0, 1, 0, 1),
	}
}

// #region convergence
func TestAchieveConsensus_IdenticalPeersTetrahedron(t *testing.T) {
	for _, n := range []int{4, 7} {
		e := newEngine(t, DefaultConfig(Tetrahedron))

		res, err := e.AchieveConsensus(identicalPeers(t, n, 0.5))
		require.NoError(t, err)

		assert.True(t, res.Valid)
		assert.Equal(t, 1, res.Steps)
		assert.LessOrEqual(t, res.Steps, forms.MaxSteps)
		assert.Equal(t, Tetrahedron, res.Type)
		assert.Equal(t, n, res.Participants)
		assert.InDeltaSlice(t, []float64{0.14, 0.21, 0.36, 0.25, 0.03, 0.06, 0.45}, res.State.Slice(), 1e-12)
		require.Len(t, res.Trace, 1)
		assert.Equal(t, 1.0, res.Trace[0].Agreement)
		assert.True(t, res.Trace[0].Acyclic)
		assert.Equal(t, "GeometricConsensus:1:1,1,2,2:9078872f:TETRAHEDRON", res.Proof.String())
	}
}

func TestAchieveConsensus_DivergentPeers(t *testing.T) {
	tests := []struct {
		typ       Type
		converges bool
		steps     int
		agreement float64
	}{
		{Tetrahedron, false, 0, 0},
		{Cube, true, 1, 0.5823},
		{Octahedron, false, 0, 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			e := newEngine(t, DefaultConfig(tt.typ))
			res, err := e.AchieveConsensus(divergentPeers(t))
			if !tt.converges {
				var exceeded *ConvergenceExceededError
				require.ErrorAs(t, err, &exceeded)
				assert.Equal(t, 14, exceeded.MaxSteps)
				assert.Len(t, exceeded.Trace, 14)
				assert.GreaterOrEqual(t, exceeded.Elapsed, time.Duration(0))
				assert.Contains(t, err.Error(), "maximum steps (14) exceeded")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.steps, res.Steps)
			assert.InDelta(t, tt.agreement, res.Trace[len(res.Trace)-1].Agreement, 1e-4)
		})
	}
}

func TestAchieveConsensus_SpreadPeers(t *testing.T) {
	peers := []Peer{
		uniformPeer(t, "a", 0.1), uniformPeer(t, "b", 0.2),
		uniformPeer(t, "c", 0.3), uniformPeer(t, "d", 0.4),
	}

	_, err := newEngine(t, DefaultConfig(Tetrahedron)).AchieveConsensus(peers)
	var exceeded *ConvergenceExceededError
	assert.ErrorAs(t, err, &exceeded)

	res, err := newEngine(t, DefaultConfig(Cube)).AchieveConsensus(peers)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Steps)
	assert.Equal(t, forms.Form{1, 1, 2, 4}, res.Proof.Form)
	assert.InDelta(t, 0.7677, res.Trace[2].Agreement, 1e-4)
	assert.InDeltaSlice(t, []float64{0, 0.64, 0.18, 0.1, 0.37, 0.2, 0.38}, res.State.Slice(), 1e-12)
}

func TestAchieveConsensus_SinglePeerFollowsOwnTrajectory(t *testing.T) {
	e := newEngine(t, DefaultConfig(Tetrahedron))
	res, err := e.AchieveConsensus([]Peer{peer(t, "solo", 0.3, 0.1, 0.9, 0.4, 0.2, 0.8, 0.6)})
	require.NoError(t, err)
	assert.Equal(t, 6, res.Steps)
	assert.InDeltaSlice(t, []float64{0, 0.91, 0.18, 0.71, 0.46, 0.59, 0.21}, res.State.Slice(), 1e-12)
	for _, s := range res.Trace[:5] {
		assert.False(t, s.Acyclic, "step %d", s.Step)
	}
}

func TestAchieveConsensus_StatelessPeersStartAtOrigin(t *testing.T) {
	cfg := DefaultConfig(Cube)
	cfg.Threshold = 0
	e := newEngine(t, cfg)

	res, err := e.AchieveConsensus([]Peer{{ID: "a"}, {ID: "b", Agreed: true}})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Steps)
	assert.Zero(t, res.Participants)
	assert.InDeltaSlice(t, []float64{0, 0.49, 0.13, 0.18, 0.37, 0.01, 0.54}, res.State.Slice(), 1e-12)
}

func TestAchieveConsensus_StepBudget(t *testing.T) {
	cfg := DefaultConfig(Cube)
	cfg.MaxSteps = 2
	e := newEngine(t, cfg)

	_, err := e.AchieveConsensus([]Peer{
		uniformPeer(t, "a", 0.1), uniformPeer(t, "b", 0.2),
		uniformPeer(t, "c", 0.3), uniformPeer(t, "d", 0.4),
	})
	var exceeded *ConvergenceExceededError
	require.ErrorAs(t, err, &exceeded)
	assert.Equal(t, 2, exceeded.MaxSteps)
	assert.Len(t, exceeded.Trace, 2)
}

func TestAchieveConsensus_TimeoutNotEnforced(t *testing.T) {
	cfg := DefaultConfig(Tetrahedron)
	cfg.Timeout = time.Nanosecond
	res, err := newEngine(t, cfg).AchieveConsensus(identicalPeers(t, 4, 0.5))
	require.NoError(t, err)
	assert.True(t, res.Valid)
}

func TestAchieveConsensus_DeterministicAndConcurrent(t *testing.T) {
	e := newEngine(t, DefaultConfig(Cube))
	peers := divergentPeers(t)
	want, err := e.AchieveConsensus(peers)
	require.NoError(t, err)

	var wg sync.WaitGroup
	proofs := make([]string, 16)
	for i := range proofs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := e.AchieveConsensus(peers)
			if err == nil {
				proofs[i] = res.Proof.String()
			}
		}(i)
	}
	wg.Wait()
	for _, p := range proofs {
		assert.Equal(t, want.Proof.String(), p)
	}
}
// #endregion convergence

// #region errors
func TestNewEngine_ConfigurationErrors(t *testing.T) {
	base := DefaultConfig(Tetrahedron)
	tests := []struct {
		name  string
		mut   func(*Config)
		field string
	}{
		{"unknown type", func(c *Config) { c.Type = "DODECAHEDRON" }, "type"},
		{"steps above bound", func(c *Config) { c.MaxSteps = 15 }, "max_steps"},
		{"zero steps", func(c *Config) { c.MaxSteps = 0 }, "max_steps"},
		{"threshold above one", func(c *Config) { c.Threshold = 1.5 }, "threshold"},
		{"negative threshold", func(c *Config) { c.Threshold = -0.1 }, "threshold"},
		{"nan threshold", func(c *Config) { c.Threshold = math.NaN() }, "threshold"},
		{"negative tolerance", func(c *Config) { c.Tolerance = -1 }, "tolerance"},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, "timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mut(&cfg)
			_, err := NewEngine(cfg, quietLogger())
			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestNewEngine_StepBoundWrapsFormsError(t *testing.T) {
	cfg := DefaultConfig(Cube)
	cfg.MaxSteps = 20
	_, err := NewEngine(cfg, nil)
	var formsErr *forms.ConfigurationError
	require.ErrorAs(t, err, &formsErr)
	assert.Equal(t, 20, formsErr.MaxSteps)
}

func TestNewEngine_ThresholdMismatchOnlyWarns(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg := DefaultConfig(Tetrahedron)
	cfg.Threshold = 0.6
	e, err := NewEngine(cfg, logger)
	require.NoError(t, err)
	assert.Equal(t, 0.6, e.Config().Threshold)
	assert.Contains(t, buf.String(), "threshold differs from canonical value")

	buf.Reset()
	_, err = NewEngine(DefaultConfig(Octahedron), logger)
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestAchieveConsensus_InputErrors(t *testing.T) {
	bad := state.Zero()
	bad.Values[2] = math.Inf(1)

	tests := []struct {
		name  string
		peers []Peer
		index int
	}{
		{"no peers", nil, -1},
		{"missing id", []Peer{uniformPeer(t, "a", 0.5), {ID: ""}}, 1},
		{"duplicate id", []Peer{uniformPeer(t, "a", 0.5), uniformPeer(t, "a", 0.1)}, 1},
		{"non-finite state", []Peer{{ID: "a", State: &bad}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newEngine(t, DefaultConfig(Tetrahedron)).AchieveConsensus(tt.peers)
			var inErr *InputError
			require.ErrorAs(t, err, &inErr)
			assert.Equal(t, tt.index, inErr.Index)
		})
	}

	_, err := newEngine(t, DefaultConfig(Tetrahedron)).AchieveConsensus([]Peer{{ID: "a", State: &bad}})
	assert.True(t, errors.Is(err, state.ErrNonFinite))
}

func TestParseType(t *testing.T) {
	typ, err := ParseType(" cube ")
	require.NoError(t, err)
	assert.Equal(t, Cube, typ)

	_, err = ParseType("sphere")
	var cfgErr *ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
	assert.Len(t, Types(), 3)
}
// #endregion errors
