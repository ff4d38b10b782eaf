// Package circuit describes quantum circuits and the two-qubit dependency
// stream the allocator consumes.
//
// A [Circuit] is a list of gates over NumQubits virtual qubits. [Extract]
// turns it into a [Stream]: one [Instruction] per gate, in program order,
// each carrying the gate's index as its handle and the two-qubit
// [Dependency] values the gate imposes. Single-qubit gates, measurements and
// barriers impose none; a two-qubit gate imposes one (control first); a gate
// on k >= 3 qubits imposes one per control, which the allocator rejects.
package circuit
