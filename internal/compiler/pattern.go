package compiler

import (
	"github.com/roach88/qdist/internal/ir"
)

// FuseCRZ rewrites every adjacent CX(a,b)·RZ(b,θ)·CX(a,b) into the
// equivalent CRZ(a,b,-2θ)·RZ(b,θ), trading two two-qubit gates for one.
// It returns the rewritten stream and the number of fusions.
func FuseCRZ(gates []ir.Gate) ([]ir.Gate, int) {
	out := make([]ir.Gate, 0, len(gates))
	fused := 0
	for i := 0; i < len(gates); {
		if i+2 < len(gates) && isCRZPattern(gates[i], gates[i+1], gates[i+2]) {
			a, b, theta := gates[i].Control(), gates[i].Target(), gates[i+1].Params[0]
			out = append(out,
				ir.NewGate(ir.CRZ, []int{a, b}, -2*theta),
				ir.NewGate(ir.RZ, []int{b}, theta),
			)
			fused++
			i += 3
			continue
		}
		out = append(out, gates[i].Clone())
		i++
	}
	return out, fused
}

func isCRZPattern(x1, rz, x2 ir.Gate) bool {
	return x1.Type == ir.CX && x2.Type == ir.CX &&
		rz.Type == ir.RZ && len(rz.Params) == 1 &&
		x1.Control() == x2.Control() && x1.Target() == x2.Target() &&
		rz.Qubits[0] == x1.Target()
}
