package consensus

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/danielpatrickdp/geometric-consensus/internal/forms"
	"github.com/danielpatrickdp/geometric-consensus/internal/state"
)

const proofPrefix = "GeometricConsensus"

// Proof is the deterministic certificate of a converged round, rendered as
// GeometricConsensus:<step>:<a>,<b>,<c>,<d>:<hash>:<type>.
type Proof struct {
	Step int
	Form forms.Form
	Hash string
	Type Type
}

func newProof(step int, f forms.Form, s state.State, t Type) Proof {
	return Proof{Step: step, Form: f, Hash: StateHash(s), Type: t}
}

func (p Proof) String() string {
	return fmt.Sprintf("%s:%d:%s:%s:%s", proofPrefix, p.Step, p.Form, p.Hash, p.Type)
}

// StateHash is FNV-1a (32-bit, hex) over the coordinates rounded to six
// decimals and joined by commas.
func StateHash(s state.State) string {
	parts := make([]string, len(s.Values))
	for i, v := range s.Values {
		parts[i] = strconv.FormatFloat(v, 'f', 6, 64)
	}
	h := fnv.New32a()
	h.Write([]byte(strings.Join(parts, ",")))
	return strconv.FormatUint(uint64(h.Sum32()), 16)
}

// ParseProof reverses Proof.String.
func ParseProof(s string) (Proof, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 5 || parts[0] != proofPrefix {
		return Proof{}, fmt.Errorf("parse proof %q: malformed", s)
	}
	step, err := strconv.Atoi(parts[1])
	if err != nil {
		return Proof{}, fmt.Errorf("parse proof step: %w", err)
	}
	coeffs := strings.Split(parts[2], ",")
	if len(coeffs) != 4 {
		return Proof{}, fmt.Errorf("parse proof %q: want 4 coefficients, got %d", s, len(coeffs))
	}
	var f forms.Form
	for i, c := range coeffs {
		if f[i], err = strconv.Atoi(c); err != nil {
			return Proof{}, fmt.Errorf("parse proof coefficient %d: %w", i, err)
		}
	}
	if _, err := strconv.ParseUint(parts[3], 16, 32); err != nil {
		return Proof{}, fmt.Errorf("parse proof hash: %w", err)
	}
	t, err := ParseType(parts[4])
	if err != nil {
		return Proof{}, fmt.Errorf("parse proof type: %w", err)
	}
	return Proof{Step: step, Form: f, Hash: parts[3], Type: t}, nil
}

// Verify reports whether p certifies s at the step's table form.
func (p Proof) Verify(s state.State) error {
	want, err := forms.FormForStep(p.Step)
	if err != nil {
		return err
	}
	if want != p.Form {
		return fmt.Errorf("proof form (%s) does not match step %d form (%s)", p.Form, p.Step, want)
	}
	if got := StateHash(s); got != p.Hash {
		return fmt.Errorf("proof hash %s does not match state hash %s", p.Hash, got)
	}
	return nil
}
