package ir

import (
	"encoding/json"
	"slices"
)

// NodeMap pins every logical qubit to a compute node. It is immutable and
// total over qubits 0..NumQubits()-1.
type NodeMap struct {
	nodes    []int
	numNodes int
}

// NewNodeMap builds a map where nodes[q] is the node of qubit q.
func NewNodeMap(nodes []int) (NodeMap, error) {
	numNodes := 0
	for q, n := range nodes {
		if n < 0 {
			return NodeMap{}, NewMalformedError(-1, "qubit %d mapped to negative node %d", q, n)
		}
		numNodes = max(numNodes, n+1)
	}
	return NodeMap{nodes: slices.Clone(nodes), numNodes: numNodes}, nil
}

// NodeMapFromMap builds a map from qubit → node pairs. The qubit keys must
// be dense, starting at 0.
func NodeMapFromMap(m map[int]int) (NodeMap, error) {
	nodes := make([]int, len(m))
	for q := range nodes {
		n, ok := m[q]
		if !ok {
			return NodeMap{}, NewMalformedError(-1, "qubit %d missing from node map", q)
		}
		nodes[q] = n
	}
	return NewNodeMap(nodes)
}

// MustNodeMap is like NewNodeMap but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustNodeMap(nodes ...int) NodeMap {
	m, err := NewNodeMap(nodes)
	if err != nil {
		panic(err)
	}
	return m
}

// NumQubits is the number of mapped qubits.
func (m NodeMap) NumQubits() int {
	return len(m.nodes)
}

// NumNodes is one more than the highest node index.
func (m NodeMap) NumNodes() int {
	return m.numNodes
}

// Contains reports whether q is mapped.
func (m NodeMap) Contains(q int) bool {
	return q >= 0 && q < len(m.nodes)
}

// Node returns the node of qubit q. q must be mapped.
func (m NodeMap) Node(q int) int {
	return m.nodes[q]
}

// SameNode reports whether a and b live on the same node.
func (m NodeMap) SameNode(a, b int) bool {
	return m.nodes[a] == m.nodes[b]
}

// IsRemote reports whether g is a two-qubit gate spanning two nodes.
func (m NodeMap) IsRemote(g Gate) bool {
	return g.IsTwoQubit() && !m.SameNode(g.Qubits[0], g.Qubits[1])
}

// QubitsOn returns the qubits mapped to node, ascending.
func (m NodeMap) QubitsOn(node int) []int {
	var qubits []int
	for q, n := range m.nodes {
		if n == node {
			qubits = append(qubits, q)
		}
	}
	return qubits
}

// Slice returns a copy of the qubit → node list.
func (m NodeMap) Slice() []int {
	return slices.Clone(m.nodes)
}

// MarshalJSON encodes the map as a list indexed by qubit.
func (m NodeMap) MarshalJSON() ([]byte, error) {
	if m.nodes == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(m.nodes)
}

// UnmarshalJSON accepts either a list or an object keyed by qubit.
func (m *NodeMap) UnmarshalJSON(data []byte) error {
	var list []int
	if err := json.Unmarshal(data, &list); err == nil {
		parsed, err := NewNodeMap(list)
		if err != nil {
			return err
		}
		*m = parsed
		return nil
	}
	var obj map[int]int
	if err := json.Unmarshal(data, &obj); err != nil {
		return NewMalformedError(-1, "node map must be a list or an object: %v", err)
	}
	parsed, err := NodeMapFromMap(obj)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// IsRemote reports whether g spans two nodes under nodes.
func IsRemote(g Gate, nodes NodeMap) bool {
	return nodes.IsRemote(g)
}
