package testutil

import "github.com/roach88/qdist/internal/ir"

// Gate builders for tests. Two-qubit builders take the control first.

func H(q int) ir.Gate { return ir.NewGate(ir.H, []int{q}) }
func X(q int) ir.Gate { return ir.NewGate(ir.X, []int{q}) }
func Z(q int) ir.Gate { return ir.NewGate(ir.Z, []int{q}) }
func RX(q int, t float64) ir.Gate { return ir.NewGate(ir.RX, []int{q}, t) }
func RZ(q int, t float64) ir.Gate { return ir.NewGate(ir.RZ, []int{q}, t) }
func CX(c, t int) ir.Gate { return ir.NewGate(ir.CX, []int{c, t}) }
func CZ(c, t int) ir.Gate { return ir.NewGate(ir.CZ, []int{c, t}) }
func CRZ(c, t int, a float64) ir.Gate { return ir.NewGate(ir.CRZ, []int{c, t}, a) }
func CRX(c, t int, a float64) ir.Gate { return ir.NewGate(ir.CRX, []int{c, t}, a) }

// Gates collects gates into a slice.
func Gates(gs ...ir.Gate) []ir.Gate {
	return gs
}

// Elems wraps gates as a plain element stream.
func Elems(gs ...ir.Gate) []ir.Element {
	return ir.Elements(gs)
}

// Sample returns a gate of type t over qubits with fixed sample angles.
func Sample(t ir.GateType, qubits []int, angle float64) ir.Gate {
	if t.NumParams() > 0 {
		return ir.NewGate(t, qubits, angle)
	}
	return ir.NewGate(t, qubits)
}
