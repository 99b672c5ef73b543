package schedule

import (
	"fmt"
	"maps"
	"slices"
)

// State holds the ready time of every resource: one per data qubit and two
// communication slots per node. Ready times never decrease.
type State struct {
	data []float64
	comm [][2]float64
}

// NewState returns an all-zero state.
func NewState(numQubits, numNodes int) *State {
	return &State{
		data: make([]float64, numQubits),
		comm: make([][2]float64, numNodes),
	}
}

// Data returns the ready time of data qubit q.
func (s *State) Data(q int) float64 { return s.data[q] }

// Comm returns the ready time of a node's communication slot.
func (s *State) Comm(node, slot int) float64 { return s.comm[node][slot] }

func (s *State) dq(q int) *float64 { return &s.data[q] }

func (s *State) cq(node, slot int) *float64 { return &s.comm[node][slot] }

// pick returns the less loaded slot of node; slot 0 wins ties.
func (s *State) pick(node int) int {
	if s.comm[node][0] > s.comm[node][1] {
		return 1
	}
	return 0
}

// Makespan is the latest ready time over all resources.
func (s *State) Makespan() float64 {
	var m float64
	for _, t := range s.data {
		m = max(m, t)
	}
	for _, c := range s.comm {
		m = max(m, c[0], c[1])
	}
	return m
}

// Snapshot returns ready times keyed dq<i> and cq<node>-<slot>.
func (s *State) Snapshot() map[string]float64 {
	out := make(map[string]float64, len(s.data)+2*len(s.comm))
	for q, t := range s.data {
		out[fmt.Sprintf("dq%d", q)] = t
	}
	for n, c := range s.comm {
		out[fmt.Sprintf("cq%d-0", n)] = c[0]
		out[fmt.Sprintf("cq%d-1", n)] = c[1]
	}
	return out
}

// Resources returns the snapshot keys in a stable order.
func (s *State) Resources() []string {
	return slices.Sorted(maps.Keys(s.Snapshot()))
}

// join starts an operation of length lat once both a and b are ready and
// leaves both busy until it ends.
func join(a, b *float64, lat float64) {
	t := max(*a, *b) + lat
	*a, *b = t, t
}

// after delays a until dep, then runs an operation of length lat on it.
func after(a *float64, dep, lat float64) {
	*a = max(*a, dep) + lat
}
