package compiler

import (
	"github.com/roach88/qdist/internal/ir"
)

// Aggregate groups a raw gate stream into communication blocks in a single
// scan.
//
// For every remote gate both of its qubits are tried as source. The benefit
// of a candidate is the number of two-qubit gates immediately following that
// pair the source with a qubit on the candidate's target node; the window
// ends at the first gate that does not, single-qubit gates included. The
// larger benefit wins and ties go to the control. When neither candidate
// gains anything the gate becomes a singleton block whose assignment is
// left to Assign. Local and single-qubit gates pass through as plain gates.
func Aggregate(gates []ir.Gate, nodes ir.NodeMap) []ir.Element {
	out := make([]ir.Element, 0, len(gates))

	for i := 0; i < len(gates); {
		g := gates[i]
		if !nodes.IsRemote(g) {
			out = append(out, g.Clone())
			i++
			continue
		}

		c, t := g.Control(), g.Target()
		rest := gates[i+1:]
		bc := benefit(rest, c, nodes.Node(t), nodes)
		bt := benefit(rest, t, nodes.Node(c), nodes)

		if bc == 0 && bt == 0 {
			out = append(out, ir.NewBlock([]ir.Gate{g}, ir.Unassigned()))
			i++
			continue
		}

		source, target, n := c, nodes.Node(t), bc
		if bt > bc {
			source, target, n = t, nodes.Node(c), bt
		}
		out = append(out, ir.NewBlock(gates[i:i+1+n], ir.Assigned(source, repeat(target, 1+n))))
		i += 1 + n
	}

	return out
}

// benefit counts the leading gates of rest that pair q with a qubit on node.
func benefit(rest []ir.Gate, q, node int, nodes ir.NodeMap) int {
	n := 0
	for _, g := range rest {
		if !g.IsTwoQubit() || !g.ActsOn(q) || nodes.Node(g.Other(q)) != node {
			break
		}
		n++
	}
	return n
}

func repeat(node, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = node
	}
	return out
}
