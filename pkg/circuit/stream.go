package circuit

import "fmt"

// Dependency is an ordered pair of virtual qubits that must be coupled when
// its instruction executes. From is the control.
type Dependency struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (d Dependency) String() string {
	return fmt.Sprintf("(%d,%d)", d.From, d.To)
}

// Instruction is the dependency view of one gate. Handle is the gate's
// index in the source circuit.
type Instruction struct {
	Handle int          `json:"handle"`
	Deps   []Dependency `json:"deps"`
}

// Stream is the ordered dependency stream of a circuit.
type Stream struct {
	Qubits       int           `json:"qubits"`
	Instructions []Instruction `json:"instructions"`
}

// Extract builds the dependency stream of c. Every gate yields an
// instruction, including those without dependencies.
func Extract(c *Circuit) (Stream, error) {
	if err := c.Validate(); err != nil {
		return Stream{}, err
	}
	s := Stream{Qubits: c.NumQubits, Instructions: make([]Instruction, len(c.Gates))}
	for i, g := range c.Gates {
		s.Instructions[i] = Instruction{Handle: i, Deps: g.Dependencies()}
	}
	return s, nil
}

// FromPairs builds a stream of width qubits with one two-qubit instruction
// per pair. Handles are the pair indices.
func FromPairs(qubits int, pairs ...Dependency) Stream {
	s := Stream{Qubits: qubits, Instructions: make([]Instruction, len(pairs))}
	for i, d := range pairs {
		s.Instructions[i] = Instruction{Handle: i, Deps: []Dependency{d}}
	}
	return s
}

// Len returns the number of instructions.
func (s Stream) Len() int {
	return len(s.Instructions)
}

// Dependencies returns every dependency in program order.
func (s Stream) Dependencies() []Dependency {
	var out []Dependency
	for _, in := range s.Instructions {
		out = append(out, in.Deps...)
	}
	return out
}

// Width returns the number of virtual qubits the stream addresses: the
// declared width or one more than the largest qubit used, whichever is larger.
func (s Stream) Width() int {
	w := s.Qubits
	for _, in := range s.Instructions {
		for _, d := range in.Deps {
			w = max(w, d.From+1, d.To+1)
		}
	}
	return w
}
