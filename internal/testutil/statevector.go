package testutil

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/roach88/qdist/internal/ir"
)

// StateVector is a dense simulator over a handful of qubits. Qubit q is
// bit q of the amplitude index.
type StateVector struct {
	Amplitudes []complex128
	NumQubits  int
}

// NewBasisState returns |index⟩ over numQubits qubits.
func NewBasisState(numQubits, index int) *StateVector {
	amps := make([]complex128, 1<<numQubits)
	amps[index] = 1
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}
}

// Apply applies g in place. Unknown types panic: the oracle only serves
// tests.
func (s *StateVector) Apply(g ir.Gate) {
	switch g.Type {
	case ir.H:
		h := complex(1/math.Sqrt2, 0)
		s.apply1(g.Qubits[0], -1, [4]complex128{h, h, h, -h})
	case ir.X:
		s.apply1(g.Qubits[0], -1, pauliX)
	case ir.Z:
		s.apply1(g.Qubits[0], -1, pauliZ)
	case ir.RX:
		s.apply1(g.Qubits[0], -1, rx(g.Params[0]))
	case ir.RZ:
		s.apply1(g.Qubits[0], -1, rz(g.Params[0]))
	case ir.CX:
		s.apply1(g.Qubits[1], g.Qubits[0], pauliX)
	case ir.CZ:
		s.apply1(g.Qubits[1], g.Qubits[0], pauliZ)
	case ir.CRZ:
		s.apply1(g.Qubits[1], g.Qubits[0], rz(g.Params[0]))
	case ir.CRX:
		s.apply1(g.Qubits[1], g.Qubits[0], rx(g.Params[0]))
	default:
		panic(fmt.Sprintf("statevector: unsupported gate %s", g.Type))
	}
	if g.GlobalPhase != 0 {
		phase := cmplx.Exp(complex(0, g.GlobalPhase))
		for i := range s.Amplitudes {
			s.Amplitudes[i] *= phase
		}
	}
}

var (
	pauliX = [4]complex128{0, 1, 1, 0}
	pauliZ = [4]complex128{1, 0, 0, -1}
)

func rx(theta float64) [4]complex128 {
	c := complex(math.Cos(theta/2), 0)
	js := complex(0, -math.Sin(theta/2))
	return [4]complex128{c, js, js, c}
}

func rz(theta float64) [4]complex128 {
	return [4]complex128{cmplx.Exp(complex(0, -theta/2)), 0, 0, cmplx.Exp(complex(0, theta/2))}
}

// apply1 applies the row-major 2x2 matrix m to target. When control is
// non-negative only amplitudes with the control bit set are touched.
func (s *StateVector) apply1(target, control int, m [4]complex128) {
	bit := 1 << target
	for i := range s.Amplitudes {
		if i&bit != 0 {
			continue
		}
		if control >= 0 && i&(1<<control) == 0 {
			continue
		}
		j := i | bit
		a0, a1 := s.Amplitudes[i], s.Amplitudes[j]
		s.Amplitudes[i] = m[0]*a0 + m[1]*a1
		s.Amplitudes[j] = m[2]*a0 + m[3]*a1
	}
}

// Unitary returns the matrix of gates applied in order, as columns of
// simulated basis states.
func Unitary(numQubits int, gates []ir.Gate) [][]complex128 {
	dim := 1 << numQubits
	cols := make([][]complex128, dim)
	for k := range dim {
		s := NewBasisState(numQubits, k)
		for _, g := range gates {
			s.Apply(g)
		}
		cols[k] = s.Amplitudes
	}
	return cols
}

// EqualUpToPhase reports whether two matrices differ only by a global
// phase factor.
func EqualUpToPhase(a, b [][]complex128, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	var phase complex128
	found := false
	for k := range a {
		for i := range a[k] {
			if cmplx.Abs(a[k][i]) > tol {
				phase = b[k][i] / a[k][i]
				found = true
				break
			}
		}
		if found {
			break
		}
	}
	if !found || math.Abs(cmplx.Abs(phase)-1) > tol {
		return false
	}
	for k := range a {
		for i := range a[k] {
			if cmplx.Abs(b[k][i]-phase*a[k][i]) > tol {
				return false
			}
		}
	}
	return true
}

// Equivalent reports whether two gate sequences over numQubits qubits
// implement the same operator up to global phase.
func Equivalent(numQubits int, a, b []ir.Gate) bool {
	return EqualUpToPhase(Unitary(numQubits, a), Unitary(numQubits, b), 1e-9)
}
