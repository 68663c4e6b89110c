// Package snapshot reads and writes YAML descriptions of consensus rounds
// and peer topologies.
package snapshot

import (
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/geometric-consensus/internal/consensus"
	"github.com/danielpatrickdp/geometric-consensus/internal/graph"
	"github.com/danielpatrickdp/geometric-consensus/internal/partition"
	"github.com/danielpatrickdp/geometric-consensus/internal/state"
)

var validate = validator.New()

// #region snapshot-types
// RoundSet is the top-level structure of a batch file.
type RoundSet struct {
	Rounds []RoundSnapshot `yaml:"rounds" validate:"required,min=1,dive"`
}

// RoundSnapshot is one consensus round: configuration, peers and an
// optional expected outcome.
type RoundSnapshot struct {
	Name      string         `yaml:"name" validate:"required"`
	Consensus RoundSettings  `yaml:"consensus"`
	Peers     []PeerSnapshot `yaml:"peers" validate:"required,min=1,dive"`
	Expect    *Expectation   `yaml:"expect,omitempty"`
}

// RoundSettings mirrors consensus.Config. Zero MaxSteps and nil Threshold
// mean the defaults for the type.
type RoundSettings struct {
	Type      string   `yaml:"type" validate:"required,oneof=TETRAHEDRON CUBE OCTAHEDRON"`
	MaxSteps  int      `yaml:"max_steps,omitempty" validate:"omitempty,gte=1,lte=14"`
	Threshold *float64 `yaml:"threshold,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// PeerSnapshot is one participant. An empty State means the peer took part
// without supplying one.
type PeerSnapshot struct {
	ID     string    `yaml:"id" validate:"required"`
	Agreed bool      `yaml:"agreed"`
	State  []float64 `yaml:"state,omitempty" validate:"omitempty,len=7"`
}

// Expectation is the outcome a replay should reproduce.
type Expectation struct {
	Valid bool `yaml:"valid"`
	Steps int  `yaml:"steps,omitempty" validate:"gte=0,lte=14"`
}

// NetworkSnapshot is a peer topology.
type NetworkSnapshot struct {
	Name     string      `yaml:"name"`
	Peers    []string    `yaml:"peers,omitempty"`
	Vertices []string    `yaml:"vertices" validate:"required,min=1,dive,required"`
	Edges    [][2]string `yaml:"edges,omitempty"`
}
// #endregion snapshot-types

// #region snapshot-loader
func decodeFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read snapshot %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	if err := validate.Struct(out); err != nil {
		return fmt.Errorf("invalid snapshot %s: %w", path, err)
	}
	return nil
}

// LoadRound reads a single-round file.
func LoadRound(path string) (*RoundSnapshot, error) {
	var s RoundSnapshot
	if err := decodeFile(path, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadRounds reads a batch file with a top-level rounds list.
func LoadRounds(path string) ([]RoundSnapshot, error) {
	var set RoundSet
	if err := decodeFile(path, &set); err != nil {
		return nil, err
	}
	return set.Rounds, nil
}

// LoadNetwork reads a topology file.
func LoadNetwork(path string) (*NetworkSnapshot, error) {
	var s NetworkSnapshot
	if err := decodeFile(path, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Write encodes v as YAML with two-space indentation.
func Write(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return enc.Close()
}
// #endregion snapshot-loader

// #region converters
// ToConfig converts the consensus section to an engine configuration.
func (r *RoundSnapshot) ToConfig() (consensus.Config, error) {
	t, err := consensus.ParseType(r.Consensus.Type)
	if err != nil {
		return consensus.Config{}, err
	}
	cfg := consensus.DefaultConfig(t)
	if r.Consensus.MaxSteps != 0 {
		cfg.MaxSteps = r.Consensus.MaxSteps
	}
	if r.Consensus.Threshold != nil {
		cfg.Threshold = *r.Consensus.Threshold
	}
	return cfg, nil
}

// ToPeers converts the peer list, validating every supplied state.
func (r *RoundSnapshot) ToPeers() ([]consensus.Peer, error) {
	peers := make([]consensus.Peer, len(r.Peers))
	for i, p := range r.Peers {
		peers[i] = consensus.Peer{ID: p.ID, Agreed: p.Agreed}
		if len(p.State) == 0 {
			continue
		}
		s, err := state.New(p.State)
		if err != nil {
			return nil, fmt.Errorf("peer %s: %w", p.ID, err)
		}
		peers[i].State = &s
	}
	return peers, nil
}

// NewRoundSnapshot captures a configuration and peer set so a round can be
// replayed later.
func NewRoundSnapshot(name string, cfg consensus.Config, peers []consensus.Peer) RoundSnapshot {
	th := cfg.Threshold
	snap := RoundSnapshot{
		Name: name,
		Consensus: RoundSettings{
			Type:      string(cfg.Type),
			MaxSteps:  cfg.MaxSteps,
			Threshold: &th,
		},
		Peers: make([]PeerSnapshot, len(peers)),
	}
	for i, p := range peers {
		snap.Peers[i] = PeerSnapshot{ID: p.ID, Agreed: p.Agreed}
		if p.State != nil {
			snap.Peers[i].State = p.State.Slice()
		}
	}
	return snap
}

// ToNetwork builds the topology. Peers default to the vertex labels.
func (n *NetworkSnapshot) ToNetwork() (partition.Network, error) {
	g, err := graph.New(n.Vertices, n.Edges)
	if err != nil {
		return partition.Network{}, fmt.Errorf("network %s: %w", n.Name, err)
	}
	peers := n.Peers
	if len(peers) == 0 {
		peers = g.Labels()
	}
	return partition.Network{Peers: peers, Topology: g}, nil
}

// NewNetworkSnapshot captures a network.
func NewNetworkSnapshot(name string, net partition.Network) NetworkSnapshot {
	return NetworkSnapshot{
		Name:     name,
		Peers:    net.Peers,
		Vertices: net.Topology.Labels(),
		Edges:    net.Topology.EdgePairs(),
	}
}
// #endregion converters
