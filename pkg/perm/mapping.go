package perm

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/qmap/pkg/errors"
)

// Undef marks an unassigned entry in a Mapping or Assignment.
const Undef = -1

// Mapping sends virtual qubits (indices) to physical qubits (values).
type Mapping []int

// Assignment sends physical qubits (indices) to virtual qubits (values).
type Assignment []int

// NewMapping returns a mapping of n virtual qubits with every entry undefined.
func NewMapping(n int) Mapping {
	m := make(Mapping, n)
	for i := range m {
		m[i] = Undef
	}
	return m
}

// Identity returns the mapping i => i for n qubits.
func Identity(n int) Mapping {
	return Mapping(Seq(n))
}

// Clone returns an independent copy of m.
func (m Mapping) Clone() Mapping {
	return slices.Clone(m)
}

// Defined reports whether virtual qubit v is placed.
func (m Mapping) Defined(v int) bool {
	return m[v] != Undef
}

// Count returns the number of defined entries.
func (m Mapping) Count() int {
	n := 0
	for _, p := range m {
		if p != Undef {
			n++
		}
	}
	return n
}

// Inverse returns the assignment view of m over size physical qubits.
func (m Mapping) Inverse(size int) Assignment {
	a := make(Assignment, size)
	for i := range a {
		a[i] = Undef
	}
	for v, p := range m {
		if p != Undef {
			a[p] = v
		}
	}
	return a
}

// Extends reports whether every entry defined in prev is defined in m.
func (m Mapping) Extends(prev Mapping) bool {
	for v, p := range prev {
		if p != Undef && m[v] == Undef {
			return false
		}
	}
	return true
}

// Fill places every undefined virtual qubit on the lowest unused physical
// qubit. It returns an error when m does not fit into size physical qubits.
func (m Mapping) Fill(size int) (Mapping, error) {
	if len(m) > size {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"mapping of %d qubits does not fit %d physical qubits", len(m), size)
	}
	used := make([]bool, size)
	for _, p := range m {
		if p != Undef {
			used[p] = true
		}
	}
	out := m.Clone()
	free := 0
	for v := range out {
		if out[v] != Undef {
			continue
		}
		for used[free] {
			free++
		}
		out[v] = free
		used[free] = true
	}
	return out, nil
}

// Validate checks that m is a partial injection into size physical qubits.
func (m Mapping) Validate(size int) error {
	seen := make([]bool, size)
	for v, p := range m {
		if p == Undef {
			continue
		}
		if p < 0 || p >= size {
			return errors.New(errors.ErrCodeInvalidInput, "virtual qubit %d mapped to %d, out of range [0,%d)", v, p, size)
		}
		if seen[p] {
			return errors.New(errors.ErrCodeInvalidInput, "physical qubit %d assigned twice", p)
		}
		seen[p] = true
	}
	return nil
}

// String formats m as "[0 => 1; 1 => 2]". Undefined entries print as "_".
func (m Mapping) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for v, p := range m {
		if v > 0 {
			b.WriteString("; ")
		}
		if p == Undef {
			fmt.Fprintf(&b, "%d => _", v)
		} else {
			fmt.Fprintf(&b, "%d => %d", v, p)
		}
	}
	b.WriteByte(']')
	return b.String()
}

// ParseMapping parses the format produced by Mapping.String.
func ParseMapping(s string) (Mapping, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "mapping must be enclosed in brackets: %q", s)
	}
	body := strings.TrimSpace(s[1 : len(s)-1])
	if body == "" {
		return Mapping{}, nil
	}
	parts := strings.Split(body, ";")
	m := NewMapping(len(parts))
	for _, part := range parts {
		lhs, rhs, ok := strings.Cut(part, "=>")
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "missing '=>' in %q", part)
		}
		v, err := strconv.Atoi(strings.TrimSpace(lhs))
		if err != nil || v < 0 || v >= len(m) {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "bad virtual qubit in %q", part)
		}
		rhs = strings.TrimSpace(rhs)
		if rhs == "_" {
			continue
		}
		p, err := strconv.Atoi(rhs)
		if err != nil || p < 0 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "bad physical qubit in %q", part)
		}
		m[v] = p
	}
	return m, nil
}

// Clone returns an independent copy of a.
func (a Assignment) Clone() Assignment {
	return slices.Clone(a)
}

// Inverse returns the mapping view of a over size virtual qubits.
func (a Assignment) Inverse(size int) Mapping {
	m := NewMapping(size)
	for p, v := range a {
		if v != Undef {
			m[v] = p
		}
	}
	return m
}
