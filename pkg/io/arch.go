package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/qmap/pkg/coupling"
	"github.com/matzehuels/qmap/pkg/errors"
)

type archFile struct {
	Qubits    int             `json:"qubits" yaml:"qubits" toml:"qubits"`
	Registers []register      `json:"registers,omitempty" yaml:"registers,omitempty" toml:"registers,omitempty"`
	Adj       [][]vertex      `json:"adj,omitempty" yaml:"adj,omitempty" toml:"adj,omitempty"`
	Edges     []coupling.Edge `json:"edges,omitempty" yaml:"edges,omitempty" toml:"edges,omitempty"`
}

type register struct {
	Name   string `json:"name" yaml:"name" toml:"name"`
	Qubits int    `json:"qubits" yaml:"qubits" toml:"qubits"`
}

type vertex struct {
	V string `json:"v" yaml:"v" toml:"v"`
}

var qubitName = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\[([0-9]+)\]$`)

// ReadArch decodes a coupling graph from r.
func ReadArch(r io.Reader, f Format) (*coupling.Graph, error) {
	if f == FormatText {
		return readArchText(r)
	}

	var data archFile
	var err error
	switch f {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&data)
	case FormatTOML:
		_, err = toml.NewDecoder(r).Decode(&data)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&data)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported architecture format %q", f)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode architecture")
	}
	return data.graph()
}

// ImportArch reads an architecture file, inferring its format from the
// extension.
func ImportArch(path string) (*coupling.Graph, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadArch(file, f)
}

func (a *archFile) graph() (*coupling.Graph, error) {
	if err := errors.ValidateQubitCount("qubits", a.Qubits); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidArch, err, "invalid architecture")
	}
	if a.Adj == nil {
		return coupling.New(a.Qubits, a.Edges)
	}

	regs := a.Registers
	if len(regs) == 0 {
		regs = []register{{Name: "q", Qubits: a.Qubits}}
	}
	offset := make(map[string]int, len(regs))
	var names []string
	for _, reg := range regs {
		if _, dup := offset[reg.Name]; dup {
			return nil, errors.New(errors.ErrCodeInvalidArch, "duplicate register %q", reg.Name)
		}
		offset[reg.Name] = len(names)
		for i := range reg.Qubits {
			names = append(names, fmt.Sprintf("%s[%d]", reg.Name, i))
		}
	}
	if len(names) != a.Qubits {
		return nil, errors.New(errors.ErrCodeInvalidArch,
			"registers hold %d qubits, architecture declares %d", len(names), a.Qubits)
	}
	if len(a.Adj) > a.Qubits {
		return nil, errors.New(errors.ErrCodeInvalidArch,
			"adjacency lists %d qubits, architecture declares %d", len(a.Adj), a.Qubits)
	}

	var edges []coupling.Edge
	for u, targets := range a.Adj {
		for _, t := range targets {
			m := qubitName.FindStringSubmatch(t.V)
			if m == nil {
				return nil, errors.New(errors.ErrCodeInvalidArch, "bad qubit name %q", t.V)
			}
			base, ok := offset[m[1]]
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidArch, "unknown register in %q", t.V)
			}
			idx, _ := strconv.Atoi(m[2])
			if idx >= registerSize(regs, m[1]) {
				return nil, errors.New(errors.ErrCodeInvalidArch, "qubit %q out of range", t.V)
			}
			edges = append(edges, coupling.Edge{From: u, To: base + idx})
		}
	}
	return coupling.NewNamed(names, edges)
}

func registerSize(regs []register, name string) int {
	for _, r := range regs {
		if r.Name == name {
			return r.Qubits
		}
	}
	return 0
}

// readArchText parses the count-then-pairs format. Names of the form "r[i]"
// or bare integers address qubit i directly; other names take the lowest
// unused index in order of appearance.
func readArchText(r io.Reader) (*coupling.Graph, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	if !sc.Scan() {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "empty architecture")
	}
	n, err := strconv.Atoi(sc.Text())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "qubit count")
	}
	if err := errors.ValidateQubitCount("qubits", n); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidArch, err, "invalid architecture")
	}

	names := make([]string, n)
	byName := make(map[string]int)
	next := 0
	resolve := func(tok string) (int, error) {
		if idx, ok := byName[tok]; ok {
			return idx, nil
		}
		idx, name := -1, tok
		if v, err := strconv.Atoi(tok); err == nil {
			idx, name = v, fmt.Sprintf("q[%d]", v)
		} else if m := qubitName.FindStringSubmatch(tok); m != nil {
			idx, _ = strconv.Atoi(m[2])
		} else {
			for next < n && names[next] != "" {
				next++
			}
			idx = next
		}
		if idx < 0 || idx >= n {
			return 0, errors.New(errors.ErrCodeInvalidArch, "qubit %q out of range [0,%d)", tok, n)
		}
		if names[idx] != "" && names[idx] != name {
			return 0, errors.New(errors.ErrCodeInvalidArch, "qubit %q collides with %q", tok, names[idx])
		}
		names[idx] = name
		byName[tok] = idx
		return idx, nil
	}

	var edges []coupling.Edge
	for sc.Scan() {
		u, err := resolve(sc.Text())
		if err != nil {
			return nil, err
		}
		if !sc.Scan() {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "dangling qubit %q", names[u])
		}
		v, err := resolve(sc.Text())
		if err != nil {
			return nil, err
		}
		edges = append(edges, coupling.Edge{From: u, To: v})
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read architecture")
	}

	for i := range names {
		if names[i] == "" {
			names[i] = fmt.Sprintf("q[%d]", i)
		}
	}
	return coupling.NewNamed(names, edges)
}

// WriteArch encodes the native edges of g. JSON uses the register layout,
// TOML and YAML the edge list.
func WriteArch(w io.Writer, g *coupling.Graph, f Format) error {
	var native []coupling.Edge
	for _, e := range g.Edges() {
		if !g.IsReverseEdge(e.From, e.To) {
			native = append(native, e)
		}
	}

	switch f {
	case FormatJSON:
		out := archFile{
			Qubits:    g.Size(),
			Registers: []register{{Name: "q", Qubits: g.Size()}},
			Adj:       make([][]vertex, g.Size()),
		}
		for u := range out.Adj {
			out.Adj[u] = []vertex{}
		}
		for _, e := range native {
			out.Adj[e.From] = append(out.Adj[e.From], vertex{V: fmt.Sprintf("q[%d]", e.To)})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return wrapEncode(enc.Encode(out))
	case FormatTOML:
		return wrapEncode(toml.NewEncoder(w).Encode(archFile{Qubits: g.Size(), Edges: native}))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(archFile{Qubits: g.Size(), Edges: native}); err != nil {
			return wrapEncode(err)
		}
		return wrapEncode(enc.Close())
	case FormatText:
		bw := bufio.NewWriter(w)
		fmt.Fprintln(bw, g.Size())
		for _, e := range native {
			fmt.Fprintf(bw, "%s %s\n", g.Name(e.From), g.Name(e.To))
		}
		return wrapEncode(bw.Flush())
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unsupported architecture format %q", f)
}

// ExportArch writes g to path in the format implied by its extension.
func ExportArch(g *coupling.Graph, path string) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	defer file.Close()
	return WriteArch(file, g, f)
}

func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	return f, nil
}

func wrapEncode(err error) error {
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode")
	}
	return nil
}
