package commute

import (
	"github.com/roach88/qdist/internal/ir"
)

// Result is the outcome of moving a gate list across another.
//
// When OK is false, LeftIndex and RightIndex identify the first blocking
// pair (indices into the original inputs) and Left and Right are nil.
type Result struct {
	OK         bool
	Left       []ir.Gate // moved gates, now applied after Right
	Right      []ir.Gate // crossed gates, transformed
	LeftIndex  int
	RightIndex int
}

// CommuteRight rewrites left·right (left applied first) into an equivalent
// right'·left'. The last gate of left crosses first; each left gate
// crosses the whole, already transformed, right list. Exact inverse
// single-qubit pairs that become adjacent in the moved list cancel.
//
// A blocked pair is reported through Result.OK, never as an error. Errors
// are reserved for gate types the table has no rule for.
func (t *Table) CommuteRight(left, right []ir.Gate) (Result, error) {
	newRight := make([]ir.Gate, len(right))
	for j, g := range right {
		newRight[j] = g.Clone()
	}

	// moved is kept reversed: its tail is the head of the final left list.
	moved := make([]ir.Gate, 0, len(left))
	for i := len(left) - 1; i >= 0; i-- {
		g := left[i].Clone()
		for j := range newRight {
			out, err := t.Swap(g, newRight[j])
			if err != nil {
				return Result{}, err
			}
			if out.Blocked {
				return Result{LeftIndex: i, RightIndex: j}, nil
			}
			g, newRight[j] = out.Left, out.Right
		}
		if n := len(moved); n > 0 && g.Inverse(moved[n-1]) {
			moved = moved[:n-1]
			continue
		}
		moved = append(moved, g)
	}

	newLeft := make([]ir.Gate, len(moved))
	for i, g := range moved {
		newLeft[len(moved)-1-i] = g
	}
	return Result{OK: true, Left: newLeft, Right: newRight, LeftIndex: -1, RightIndex: -1}, nil
}

// Cancel removes adjacent exact inverse single-qubit pairs until none
// remain. Two-qubit gates never cancel.
func Cancel(gates []ir.Gate) []ir.Gate {
	stack := make([]ir.Gate, 0, len(gates))
	for _, g := range gates {
		if n := len(stack); n > 0 && g.Inverse(stack[n-1]) {
			stack = stack[:n-1]
			continue
		}
		stack = append(stack, g.Clone())
	}
	return stack
}
