package snapshot

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danielpatrickdp/geometric-consensus/internal/consensus"
	"github.com/danielpatrickdp/geometric-consensus/internal/graph"
	"github.com/danielpatrickdp/geometric-consensus/internal/state"
)

func writeTemp(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

// #region round-tests
func TestLoadRound(t *testing.T) {
	r, err := LoadRound(filepath.Join("testdata", "round.yaml"))
	if err != nil {
		t.Fatalf("LoadRound: %v", err)
	}
	if r.Name != "divergent-cube" || len(r.Peers) != 5 {
		t.Fatalf("unexpected snapshot: %+v", r)
	}
	if r.Expect == nil || !r.Expect.Valid || r.Expect.Steps != 1 {
		t.Fatalf("unexpected expectation: %+v", r.Expect)
	}

	cfg, err := r.ToConfig()
	if err != nil {
		t.Fatalf("ToConfig: %v", err)
	}
	if cfg.Type != consensus.Cube || cfg.Threshold != 0.5 || cfg.MaxSteps != 14 {
		t.Fatalf("expected canonical cube config, got %+v", cfg)
	}

	peers, err := r.ToPeers()
	if err != nil {
		t.Fatalf("ToPeers: %v", err)
	}
	if peers[4].State != nil {
		t.Fatal("expected observer without state")
	}
	if peers[2].Agreed {
		t.Fatal("expected even peer to default to not agreed")
	}
	if peers[1].State.Values[6] != 1 {
		t.Fatalf("expected ones state, got %v", peers[1].State.Values)
	}
}

func TestLoadRoundOverrides(t *testing.T) {
	path := writeTemp(t, "r.yaml", `
name: tight
consensus:
  type: TETRAHEDRON
  max_steps: 3
  threshold: 0.25
peers:
  - id: a
`)
	r, err := LoadRound(path)
	if err != nil {
		t.Fatalf("LoadRound: %v", err)
	}
	cfg, err := r.ToConfig()
	if err != nil {
		t.Fatalf("ToConfig: %v", err)
	}
	if cfg.MaxSteps != 3 || cfg.Threshold != 0.25 {
		t.Fatalf("expected overrides, got %+v", cfg)
	}
}

func TestLoadRoundRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"short state":  "name: x\nconsensus: {type: CUBE}\npeers: [{id: a, state: [1, 2]}]\n",
		"no peers":     "name: x\nconsensus: {type: CUBE}\npeers: []\n",
		"missing id":   "name: x\nconsensus: {type: CUBE}\npeers: [{agreed: true}]\n",
		"unknown type": "name: x\nconsensus: {type: PRISM}\npeers: [{id: a}]\n",
		"step bound":   "name: x\nconsensus: {type: CUBE, max_steps: 15}\npeers: [{id: a}]\n",
		"no name":      "consensus: {type: CUBE}\npeers: [{id: a}]\n",
		"malformed":    "name: [unclosed\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadRound(writeTemp(t, "bad.yaml", body)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestToPeersRejectsNonFinite(t *testing.T) {
	r := RoundSnapshot{Peers: []PeerSnapshot{{ID: "a", State: []float64{0, 0, 0, 0, 0, 0, 0}}}}
	r.Peers[0].State[2] = math.Inf(1)
	if _, err := r.ToPeers(); err == nil {
		t.Fatal("expected non-finite state to be rejected")
	}
}

func TestLoadRoundNotFound(t *testing.T) {
	if _, err := LoadRound("testdata/nonexistent.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestRoundSnapshotRoundTrip(t *testing.T) {
	s, _ := state.New([]float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7})
	cfg := consensus.DefaultConfig(consensus.Octahedron)
	snap := NewRoundSnapshot("captured", cfg, []consensus.Peer{{ID: "a", Agreed: true, State: &s}, {ID: "b"}})

	var buf bytes.Buffer
	if err := Write(&buf, snap); err != nil {
		t.Fatalf("Write: %v", err)
	}
	path := writeTemp(t, "captured.yaml", buf.String())

	back, err := LoadRound(path)
	if err != nil {
		t.Fatalf("LoadRound: %v", err)
	}
	got, err := back.ToConfig()
	if err != nil {
		t.Fatalf("ToConfig: %v", err)
	}
	if got.Type != cfg.Type || got.Threshold != cfg.Threshold || got.MaxSteps != cfg.MaxSteps {
		t.Fatalf("config drift: want %+v, got %+v", cfg, got)
	}
	peers, _ := back.ToPeers()
	if peers[0].State.Values != s.Values || peers[1].State != nil {
		t.Fatalf("peer drift: %+v", peers)
	}
}

func TestLoadRounds(t *testing.T) {
	path := writeTemp(t, "batch.yaml", `
rounds:
  - name: one
    consensus: {type: CUBE}
    peers: [{id: a}]
  - name: two
    consensus: {type: OCTAHEDRON}
    peers: [{id: a}, {id: b}]
`)
	rounds, err := LoadRounds(path)
	if err != nil {
		t.Fatalf("LoadRounds: %v", err)
	}
	if len(rounds) != 2 || rounds[1].Name != "two" {
		t.Fatalf("unexpected rounds: %+v", rounds)
	}

	if _, err := LoadRounds(writeTemp(t, "empty.yaml", "rounds: []\n")); err == nil {
		t.Fatal("expected empty batch to be rejected")
	}
}
// #endregion round-tests

// #region network-tests
func TestLoadNetwork(t *testing.T) {
	n, err := LoadNetwork(filepath.Join("testdata", "two_triangles.yaml"))
	if err != nil {
		t.Fatalf("LoadNetwork: %v", err)
	}
	net, err := n.ToNetwork()
	if err != nil {
		t.Fatalf("ToNetwork: %v", err)
	}
	if net.Topology.Order() != 6 || net.Topology.Size() != 6 {
		t.Fatalf("expected 6 vertices and 6 edges, got %d/%d", net.Topology.Order(), net.Topology.Size())
	}
	if strings.Join(net.Peers, ",") != "a1,a2,a3,b1,b2,b3" {
		t.Fatalf("expected peers to default to vertices, got %v", net.Peers)
	}
}

func TestToNetworkRejectsBadEdges(t *testing.T) {
	n := NetworkSnapshot{Name: "bad", Vertices: []string{"a", "b"}, Edges: [][2]string{{"a", "c"}}}
	if _, err := n.ToNetwork(); err == nil {
		t.Fatal("expected unknown vertex error")
	}
	n.Edges = [][2]string{{"a", "a"}}
	if _, err := n.ToNetwork(); err == nil {
		t.Fatal("expected self loop error")
	}
}

func TestNetworkSnapshotRoundTrip(t *testing.T) {
	net, err := (&NetworkSnapshot{Vertices: graph.Cube().Labels(), Edges: graph.Cube().EdgePairs()}).ToNetwork()
	if err != nil {
		t.Fatalf("ToNetwork: %v", err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, NewNetworkSnapshot("cube", net)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	back, err := LoadNetwork(writeTemp(t, "cube.yaml", buf.String()))
	if err != nil {
		t.Fatalf("LoadNetwork: %v", err)
	}
	got, err := back.ToNetwork()
	if err != nil {
		t.Fatalf("ToNetwork: %v", err)
	}
	if !graph.SameEdgeSet(graph.Cube(), got.Topology) {
		t.Fatal("expected cube edges to survive a round trip")
	}
}
// #endregion network-tests
