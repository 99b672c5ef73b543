package compiler

import (
	"io"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/qdist/internal/ir"
	"github.com/roach88/qdist/internal/testutil"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testMerger(rounds int) *Merger {
	return NewMerger(nil, rounds, quietLogger())
}

func block(source int, targets []int, gates ...ir.Gate) *ir.Block {
	return ir.NewBlock(gates, ir.Assigned(source, targets))
}

func deferred(gates ...ir.Gate) *ir.Block {
	return ir.NewBlock(gates, ir.Unassigned())
}

func requireBlock(t *testing.T, e ir.Element) *ir.Block {
	t.Helper()
	b, ok := e.(*ir.Block)
	require.True(t, ok, "expected a block, got %T", e)
	return b
}

var sampleAngles = []float64{0.3, -0.3, 0.7, 1.1}

// randomCircuit draws n gates over the qubits of nodes. When twoQubitOnly
// is set no single-qubit gates are drawn.
func randomCircuit(r *rand.Rand, nodes ir.NodeMap, n int, twoQubitOnly bool) []ir.Gate {
	types := ir.AllGateTypes()
	gates := make([]ir.Gate, 0, n)
	for len(gates) < n {
		t := types[r.IntN(len(types))]
		if twoQubitOnly && t.Arity() == 1 {
			continue
		}
		qubits := []int{r.IntN(nodes.NumQubits())}
		if t.Arity() == 2 {
			q := r.IntN(nodes.NumQubits())
			if q == qubits[0] {
				continue
			}
			qubits = append(qubits, q)
		}
		gates = append(gates, testutil.Sample(t, qubits, sampleAngles[r.IntN(len(sampleAngles))]))
	}
	return gates
}
