package circuit

import (
	"strings"

	"github.com/matzehuels/qmap/pkg/errors"
)

// Gate is one operation applied to a list of qubits. For controlled gates
// the target is the last qubit.
type Gate struct {
	Name   string    `json:"name" yaml:"name" toml:"name"`
	Qubits []int     `json:"qubits" yaml:"qubits" toml:"qubits"`
	Params []float64 `json:"params,omitempty" yaml:"params,omitempty" toml:"params,omitempty"`
}

// Circuit is an ordered list of gates over NumQubits virtual qubits.
type Circuit struct {
	NumQubits int    `json:"num_qubits" yaml:"num_qubits" toml:"num_qubits"`
	Gates     []Gate `json:"gates" yaml:"gates" toml:"gates"`
}

// nonUnitary gates never constrain placement regardless of arity.
var nonUnitary = map[string]bool{
	"barrier": true,
	"measure": true,
	"reset":   true,
}

// Validate checks qubit indices and gate arity.
func (c *Circuit) Validate() error {
	if err := errors.ValidateQubitCount("num_qubits", c.NumQubits); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidCircuit, err, "invalid circuit")
	}
	for i, g := range c.Gates {
		if g.Name == "" {
			return errors.New(errors.ErrCodeInvalidCircuit, "gate %d has no name", i)
		}
		if len(g.Qubits) == 0 {
			return errors.New(errors.ErrCodeInvalidCircuit, "gate %d (%s) has no qubits", i, g.Name)
		}
		seen := make(map[int]bool, len(g.Qubits))
		for _, q := range g.Qubits {
			if q < 0 || q >= c.NumQubits {
				return errors.New(errors.ErrCodeInvalidCircuit,
					"gate %d (%s) uses qubit %d, circuit has %d", i, g.Name, q, c.NumQubits)
			}
			if seen[q] {
				return errors.New(errors.ErrCodeInvalidCircuit, "gate %d (%s) repeats qubit %d", i, g.Name, q)
			}
			seen[q] = true
		}
	}
	return nil
}

// TwoQubitGates counts gates that impose at least one dependency.
func (c *Circuit) TwoQubitGates() int {
	n := 0
	for _, g := range c.Gates {
		if len(g.Dependencies()) > 0 {
			n++
		}
	}
	return n
}

// Dependencies returns the two-qubit dependencies g imposes, controls first.
func (g Gate) Dependencies() []Dependency {
	if nonUnitary[strings.ToLower(g.Name)] || len(g.Qubits) < 2 {
		return nil
	}
	target := g.Qubits[len(g.Qubits)-1]
	deps := make([]Dependency, 0, len(g.Qubits)-1)
	for _, c := range g.Qubits[:len(g.Qubits)-1] {
		deps = append(deps, Dependency{From: c, To: target})
	}
	return deps
}
