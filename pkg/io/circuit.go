package io

import (
	"encoding/json"
	"io"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/qmap/pkg/circuit"
	"github.com/matzehuels/qmap/pkg/errors"
)

// ReadCircuit decodes and validates a circuit.
func ReadCircuit(r io.Reader, f Format) (*circuit.Circuit, error) {
	var c circuit.Circuit
	var err error
	switch f {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&c)
	case FormatTOML:
		_, err = toml.NewDecoder(r).Decode(&c)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&c)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported circuit format %q", f)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode circuit")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// ImportCircuit reads a circuit file, inferring its format from the
// extension.
func ImportCircuit(path string) (*circuit.Circuit, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadCircuit(file, f)
}

// WriteCircuit encodes c.
func WriteCircuit(w io.Writer, c *circuit.Circuit, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return wrapEncode(enc.Encode(c))
	case FormatTOML:
		return wrapEncode(toml.NewEncoder(w).Encode(c))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(c); err != nil {
			return wrapEncode(err)
		}
		return wrapEncode(enc.Close())
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unsupported circuit format %q", f)
}
