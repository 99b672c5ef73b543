package compiler

import (
	"slices"

	"github.com/roach88/qdist/internal/ir"
	"github.com/roach88/qdist/internal/schedule"
)

// MergeTeleport chains teleport blocks that share a source qubit into relay
// blocks. A later block is brought next to an earlier one segment by
// segment, each segment of consecutive remote gates on one node sliding left
// on its own; failing that the earlier block slides right. The merged
// target list is the earlier list followed by the later one, which is the
// order the relay visits nodes in. Cat blocks are never merged.
func (m *Merger) MergeTeleport(elems []ir.Element, nodes ir.NodeMap) ([]ir.Element, error) {
	cur := elems
	for round := 0; round < m.rounds; round++ {
		next, merged, err := m.relayRound(cur, nodes)
		if err != nil {
			return nil, err
		}
		if err := checkAssigned(next, nodes); err != nil {
			return nil, err
		}
		m.logger.Debug("relay round", "round", round, "merged", merged, "elements", len(next))
		cur = next
		if merged == 0 {
			break
		}
	}
	return cur, nil
}

func (m *Merger) relayRound(elems []ir.Element, nodes ir.NodeMap) ([]ir.Element, int, error) {
	out := make([]ir.Element, 0, len(elems))
	merged := 0

	for i := 0; i < len(elems); {
		b, ok := teleportBlock(elems[i])
		if !ok {
			out = append(out, elems[i])
			i++
			continue
		}
		source, _ := b.Assignment.Source()

		j := -1
		for k := i + 1; k < len(elems); k++ {
			if nb, ok := teleportBlock(elems[k]); ok {
				if s, _ := nb.Assignment.Source(); s == source {
					j = k
					break
				}
			}
		}
		if j < 0 {
			out = append(out, b)
			i++
			continue
		}

		match := elems[j].(*ir.Block)
		result, ok, err := m.relaySlide(b, elems[i+1:j], match, nodes)
		if err != nil {
			return nil, 0, err
		}
		if !ok {
			out = append(out, b)
			i++
			continue
		}

		m.logger.Debug("relay merged", "source", source, "targets", len(b.Assignment.Targets())+len(match.Assignment.Targets()))
		out = append(out, result...)
		merged++
		i = j + 1
	}

	return out, merged, nil
}

func (m *Merger) relaySlide(cur *ir.Block, mid []ir.Element, match *ir.Block, nodes ir.NodeMap) ([]ir.Element, bool, error) {
	source, _ := cur.Assignment.Source()
	targets := slices.Concat(cur.Assignment.Targets(), match.Assignment.Targets())
	relay := func(gates []ir.Gate) *ir.Block {
		return ir.NewBlock(gates, ir.Assigned(source, targets)).WithProtocol(ir.ProtocolTeleport)
	}

	head := slices.Clone(cur.Gates)
	rest := mid
	ok := true
	for _, hop := range schedule.Hops(match, nodes) {
		tail, moved, slid, err := m.slideLeft(rest, hop.Gates, hop.Node, nodes)
		if err != nil {
			return nil, false, err
		}
		if !slid {
			ok = false
			break
		}
		head = slices.Concat(head, tail)
		rest = moved
	}
	if ok {
		return append([]ir.Element{relay(head)}, rest...), true, nil
	}

	hops := schedule.Hops(cur, nodes)
	last := hops[len(hops)-1].Node
	head, moved, slid, err := m.slideRight(cur.Gates, mid, last, nodes)
	if err != nil || !slid {
		return nil, false, err
	}
	return append(moved, relay(slices.Concat(head, match.Gates))), true, nil
}

func teleportBlock(e ir.Element) (*ir.Block, bool) {
	b, ok := e.(*ir.Block)
	if !ok || b.Protocol != ir.ProtocolTeleport {
		return nil, false
	}
	return b, true
}
