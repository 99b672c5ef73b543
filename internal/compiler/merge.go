package compiler

import (
	"log/slog"
	"slices"

	"github.com/roach88/qdist/internal/commute"
	"github.com/roach88/qdist/internal/ir"
)

// DefaultRounds is the default number of refinement rounds.
const DefaultRounds = 3

// Merger combines non-adjacent blocks by sliding gates across the elements
// between them.
type Merger struct {
	table  *commute.Table
	rounds int
	logger *slog.Logger
}

// NewMerger creates a merger that runs rounds refinement rounds.
// A nil table selects commute.DefaultTable and a nil logger slog.Default.
func NewMerger(table *commute.Table, rounds int, logger *slog.Logger) *Merger {
	if table == nil {
		table = commute.DefaultTable()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Merger{table: table, rounds: rounds, logger: logger}
}

// pair is a (source qubit, target node) hypothesis.
type pair struct {
	source int
	node   int
}

// Merge runs the refinement rounds over elems. Each round walks the stream
// once; a block looks ahead for the nearest later block sharing its
// (source, target node) pair and is merged with it when the two can be made
// adjacent. A round that merges nothing ends the refinement early since
// further rounds would see the same input.
func (m *Merger) Merge(elems []ir.Element, nodes ir.NodeMap) ([]ir.Element, error) {
	cur := elems
	for round := 0; round < m.rounds; round++ {
		next, merged, err := m.mergeRound(cur, nodes)
		if err != nil {
			return nil, err
		}
		if err := ir.CheckInvariants(next, nodes); err != nil {
			return nil, err
		}
		m.logger.Debug("merge round", "round", round, "merged", merged, "elements", len(next))
		cur = next
		if merged == 0 {
			break
		}
	}
	return cur, nil
}

func (m *Merger) mergeRound(elems []ir.Element, nodes ir.NodeMap) ([]ir.Element, int, error) {
	out := make([]ir.Element, 0, len(elems))
	merged := 0

	for i := 0; i < len(elems); {
		b, ok := elems[i].(*ir.Block)
		if !ok {
			out = append(out, elems[i])
			i++
			continue
		}

		p, j, found := bestMatch(b, elems[i+1:], nodes)
		if !found {
			out = append(out, b)
			i++
			continue
		}
		j += i + 1

		match := elems[j].(*ir.Block)
		mid := elems[i+1 : j]
		result, ok, err := m.slide(b, mid, match, p, nodes)
		if err != nil {
			return nil, 0, err
		}
		if !ok {
			out = append(out, b)
			i++
			continue
		}

		m.logger.Debug("block merged", "source", p.source, "node", p.node, "skipped", len(mid))
		out = append(out, result...)
		merged++
		i = j + 1
	}

	return out, merged, nil
}

// candidates lists the pairs a block may merge under: its own when
// assigned with a single target node, both orientations of its first
// remote gate when deferred.
func candidates(b *ir.Block, nodes ir.NodeMap) []pair {
	if source, ok := b.Assignment.Source(); ok {
		targets := b.Assignment.Targets()
		if len(targets) == 0 {
			return nil
		}
		for _, t := range targets[1:] {
			if t != targets[0] {
				return nil
			}
		}
		return []pair{{source, targets[0]}}
	}

	remote := b.RemoteGates(nodes)
	if len(remote) == 0 {
		return nil
	}
	g := remote[0]
	return []pair{
		{g.Control(), nodes.Node(g.Target())},
		{g.Target(), nodes.Node(g.Control())},
	}
}

// fits reports whether every remote gate of e pairs p.source with a qubit
// on p.node and e's own source, if any, is p.source.
func fits(e ir.Element, p pair, nodes ir.NodeMap) bool {
	b, ok := e.(*ir.Block)
	if !ok {
		return false
	}
	if source, ok := b.Assignment.Source(); ok && source != p.source {
		return false
	}
	remote := b.RemoteGates(nodes)
	if len(remote) == 0 {
		return false
	}
	for _, g := range remote {
		if !g.ActsOn(p.source) || nodes.Node(g.Other(p.source)) != p.node {
			return false
		}
	}
	return true
}

// bestMatch picks the candidate pair shared by the most later blocks and
// returns the offset of the nearest one. Ties go to the first candidate.
func bestMatch(b *ir.Block, rest []ir.Element, nodes ir.NodeMap) (pair, int, bool) {
	var best pair
	bestCount, bestIdx := 0, -1
	for _, p := range candidates(b, nodes) {
		count, nearest := 0, -1
		for k, e := range rest {
			if fits(e, p, nodes) {
				if nearest < 0 {
					nearest = k
				}
				count++
			}
		}
		if count > bestCount {
			best, bestCount, bestIdx = p, count, nearest
		}
	}
	return best, bestIdx, bestCount > 0
}

// slide tries to make cur and match adjacent, first by moving match left
// across mid, then by moving cur right. On success it returns the merged
// block followed or preceded by the displaced elements.
func (m *Merger) slide(cur *ir.Block, mid []ir.Element, match *ir.Block, p pair, nodes ir.NodeMap) ([]ir.Element, bool, error) {
	tail, moved, ok, err := m.slideLeft(mid, match.Gates, p.node, nodes)
	if err != nil {
		return nil, false, err
	}
	if ok {
		merged := mergedBlock(slices.Concat(cur.Gates, tail), p, nodes)
		return append([]ir.Element{merged}, moved...), true, nil
	}

	head, moved, ok, err := m.slideRight(cur.Gates, mid, p.node, nodes)
	if err != nil || !ok {
		return nil, false, err
	}
	merged := mergedBlock(slices.Concat(head, match.Gates), p, nodes)
	return append(moved, merged), true, nil
}

// slideLeft moves tail leftward across mid, last element first. Gates
// absorbable at node join the front of tail; other elements must commute
// with it. Returns the grown tail and the displaced elements in stream
// order.
func (m *Merger) slideLeft(mid []ir.Element, tail []ir.Gate, node int, nodes ir.NodeMap) ([]ir.Gate, []ir.Element, bool, error) {
	tail = slices.Clone(tail)
	moved := make([]ir.Element, 0, len(mid))
	for k := len(mid) - 1; k >= 0; k-- {
		e := mid[k]
		if absorbable(e, node, nodes) {
			tail = slices.Concat(gatesOf(e), tail)
			continue
		}
		res, err := m.table.CommuteRight(gatesOf(e), tail)
		if err != nil {
			return nil, nil, false, err
		}
		if !res.OK {
			return nil, nil, false, nil
		}
		tail = res.Right
		moved = append(moved, rebuild(e, res.Left))
	}
	slices.Reverse(moved)
	return tail, moved, true, nil
}

// slideRight moves head rightward across mid, first element first.
func (m *Merger) slideRight(head []ir.Gate, mid []ir.Element, node int, nodes ir.NodeMap) ([]ir.Gate, []ir.Element, bool, error) {
	head = slices.Clone(head)
	moved := make([]ir.Element, 0, len(mid))
	for _, e := range mid {
		if absorbable(e, node, nodes) {
			head = slices.Concat(head, gatesOf(e))
			continue
		}
		res, err := m.table.CommuteRight(head, gatesOf(e))
		if err != nil {
			return nil, nil, false, err
		}
		if !res.OK {
			return nil, nil, false, nil
		}
		head = res.Left
		moved = append(moved, rebuild(e, res.Right))
	}
	return head, moved, true, nil
}

// absorbable reports whether e can join a block without crossing it: a
// single-qubit gate, or a two-qubit gate local to node.
func absorbable(e ir.Element, node int, nodes ir.NodeMap) bool {
	g, ok := e.(ir.Gate)
	if !ok {
		return false
	}
	if !g.IsTwoQubit() {
		return true
	}
	return nodes.Node(g.Qubits[0]) == node && nodes.Node(g.Qubits[1]) == node
}

func gatesOf(e ir.Element) []ir.Gate {
	switch v := e.(type) {
	case ir.Gate:
		return []ir.Gate{v}
	case *ir.Block:
		return v.Gates
	}
	return nil
}

// rebuild wraps transformed gates in the shape of the element they came from.
func rebuild(e ir.Element, gates []ir.Gate) ir.Element {
	if b, ok := e.(*ir.Block); ok {
		return b.WithGates(gates)
	}
	return gates[0]
}

func mergedBlock(gates []ir.Gate, p pair, nodes ir.NodeMap) *ir.Block {
	b := ir.NewBlock(gates, ir.Unassigned())
	return b.WithAssignment(ir.Assigned(p.source, repeat(p.node, b.RemoteCount(nodes))))
}
