// Package circuit reads input circuits: a name, a qubit to node placement
// and an ordered gate list.
//
// Circuit files are YAML (JSON is accepted as a subset):
//
//	name: star
//	nodes: [0, 1, 1, 1]
//	gates:
//	  - {type: CX, qubits: [0, 1]}
//	  - {type: RZ, qubits: [0], params: [0.5]}
//
// The placement may also be a map from qubit to node. Gate types are
// matched case-insensitively.
package circuit
