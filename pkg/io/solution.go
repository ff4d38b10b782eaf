package io

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/qmap/pkg/bmt"
	"github.com/matzehuels/qmap/pkg/coupling"
	"github.com/matzehuels/qmap/pkg/errors"
)

// SolutionDoc is the exported form of an allocation result.
type SolutionDoc struct {
	Allocator string           `json:"allocator,omitempty"`
	Arch      string           `json:"arch,omitempty"`
	Mapping   string           `json:"mapping"`
	Final     string           `json:"final_mapping"`
	Solution  *bmt.Solution    `json:"solution"`
	Physical  []bmt.PhysicalOp `json:"physical"`
}

// NewSolutionDoc replays s on g and bundles it for export.
func NewSolutionDoc(allocator, arch string, s *bmt.Solution, g *coupling.Graph) (*SolutionDoc, error) {
	ops, err := s.Replay(g)
	if err != nil {
		return nil, err
	}
	if ops == nil {
		ops = []bmt.PhysicalOp{}
	}
	return &SolutionDoc{
		Allocator: allocator,
		Arch:      arch,
		Mapping:   s.Initial.String(),
		Final:     s.Final().String(),
		Solution:  s,
		Physical:  ops,
	}, nil
}

// WriteSolution encodes doc as indented JSON.
func WriteSolution(w io.Writer, doc *SolutionDoc) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return wrapEncode(enc.Encode(doc))
}

// ReadSolution decodes a document written by WriteSolution.
func ReadSolution(r io.Reader) (*SolutionDoc, error) {
	var doc SolutionDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode solution")
	}
	if doc.Solution == nil {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "solution missing")
	}
	return &doc, nil
}

// WriteMapping writes the initial mapping of s as "[0 => 3; 1 => 0]".
func WriteMapping(w io.Writer, s *bmt.Solution) error {
	_, err := fmt.Fprintln(w, s.Initial.String())
	return wrapEncode(err)
}
