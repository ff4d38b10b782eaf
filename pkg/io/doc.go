// Package io reads and writes device architectures, circuits and allocation
// results.
//
// # Architecture Files
//
// Four encodings describe a coupling graph. The register JSON format lists,
// per physical qubit, the targets it can drive:
//
//	{
//	  "qubits": 3,
//	  "registers": [{"name": "q", "qubits": 3}],
//	  "adj": [
//	    [{"v": "q[1]"}],
//	    [{"v": "q[2]"}],
//	    []
//	  ]
//	}
//
// The edge-list format is shared by JSON, TOML and YAML:
//
//	{"qubits": 3, "edges": [{"from": 0, "to": 1}, {"from": 1, "to": 2}]}
//
// The text format starts with the qubit count followed by one "u v" pair per
// edge, where u and v are names like "q[0]" or bare indices:
//
//	3
//	q[0] q[1]
//	q[1] q[2]
//
// JSON input may use either the register or the edge-list layout; the
// decoder picks the one present.
//
// # Circuits
//
// Circuits are JSON, TOML or YAML documents with "num_qubits" and "gates":
//
//	{"num_qubits": 2, "gates": [{"name": "h", "qubits": [0]}, {"name": "cx", "qubits": [0, 1]}]}
//
// # Results
//
// [WriteSolution] encodes an allocation result, including the physical
// operation list, as indented JSON. [WriteMapping] writes the initial mapping
// in its text form.
package io
