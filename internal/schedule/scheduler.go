package schedule

import (
	"fmt"

	"github.com/roach88/qdist/internal/ir"
)

// Report summarizes a scheduled plan.
type Report struct {
	EPRCount       int     `json:"epr_count"`
	Latency        float64 `json:"latency"`
	CatBlocks      int     `json:"cat_blocks"`
	TeleportBlocks int     `json:"teleport_blocks"`
	Hops           int     `json:"hops"`
	State          *State  `json:"-"`
}

// Hop is one leg of a teleport relay: the data qubit visits Node and the
// gates of the segment run there.
type Hop struct {
	Node  int
	Gates []ir.Gate
}

// Hops splits a block into maximal runs of remote gates sharing a target
// node. Local and single-qubit gates join the run they follow; gates before
// the first remote gate join the first run.
func Hops(b *ir.Block, nodes ir.NodeMap) []Hop {
	source, _ := b.Assignment.Source()
	var hops []Hop
	var pending []ir.Gate
	for _, g := range b.Gates {
		if !nodes.IsRemote(g) {
			if len(hops) == 0 {
				pending = append(pending, g)
			} else {
				hops[len(hops)-1].Gates = append(hops[len(hops)-1].Gates, g)
			}
			continue
		}
		node := nodes.Node(g.Other(source))
		if len(hops) == 0 || hops[len(hops)-1].Node != node {
			hops = append(hops, Hop{Node: node})
			if len(hops) == 1 {
				hops[0].Gates = append(hops[0].Gates, pending...)
				pending = nil
			}
		}
		hops[len(hops)-1].Gates = append(hops[len(hops)-1].Gates, g)
	}
	return hops
}

// Schedule replays elems against a fresh State and reports EPR pairs
// consumed and total latency. Every block must carry a protocol.
func Schedule(elems []ir.Element, nodes ir.NodeMap, lat Latencies) (Report, error) {
	s := NewState(nodes.NumQubits(), nodes.NumNodes())
	r := Report{State: s}

	for i, e := range elems {
		switch v := e.(type) {
		case ir.Gate:
			if nodes.IsRemote(v) {
				return Report{}, ir.NewInvariantError(i, "remote gate %s outside a block", v)
			}
			runLocal(s, v, lat)
		case *ir.Block:
			if err := v.CheckInvariant(nodes, i); err != nil {
				return Report{}, err
			}
			source, ok := v.Assignment.Source()
			if !ok {
				return Report{}, ir.NewInvariantError(i, "block scheduled before assignment")
			}
			switch v.Protocol {
			case ir.ProtocolCat:
				targets := v.Assignment.Targets()
				if len(targets) == 0 {
					return Report{}, ir.NewInvariantError(i, "cat block without remote gates")
				}
				for _, t := range targets[1:] {
					if t != targets[0] {
						return Report{}, ir.NewInvariantError(i, "cat block with several target nodes %v", targets)
					}
				}
				r.EPRCount += runCat(s, v, source, targets[0], nodes, lat)
				r.CatBlocks++
			case ir.ProtocolTeleport:
				hops := Hops(v, nodes)
				if len(hops) == 0 {
					return Report{}, ir.NewInvariantError(i, "teleport block without remote gates")
				}
				r.EPRCount += runTeleport(s, source, hops, nodes, lat)
				r.TeleportBlocks++
				r.Hops += len(hops)
			default:
				return Report{}, ir.NewInvariantError(i, "block has no protocol")
			}
		default:
			return Report{}, fmt.Errorf("schedule: unexpected element %T", e)
		}
	}

	r.Latency = s.Makespan()
	return r, nil
}

func runLocal(s *State, g ir.Gate, lat Latencies) {
	if !g.IsTwoQubit() {
		*s.dq(g.Qubits[0]) += lat.OneQubit
		return
	}
	join(s.dq(g.Qubits[0]), s.dq(g.Qubits[1]), lat.Gate(g))
}

// runBody executes block gates while the source's state lives in holder.
func runBody(s *State, gates []ir.Gate, source int, holder *float64, lat Latencies) {
	for _, g := range gates {
		switch {
		case !g.IsTwoQubit() && g.Qubits[0] == source:
			*holder += lat.OneQubit
		case !g.IsTwoQubit():
			*s.dq(g.Qubits[0]) += lat.OneQubit
		case g.ActsOn(source):
			join(holder, s.dq(g.Other(source)), lat.Gate(g))
		default:
			join(s.dq(g.Qubits[0]), s.dq(g.Qubits[1]), lat.Gate(g))
		}
	}
}

// runCat shares the source with the target node through one EPR pair, runs
// the block there, and disentangles. Returns the EPR pairs consumed.
func runCat(s *State, b *ir.Block, source, target int, nodes ir.NodeMap, lat Latencies) int {
	srcNode := nodes.Node(source)
	sc := s.cq(srcNode, s.pick(srcNode))
	tc := s.cq(target, s.pick(target))
	dq := s.dq(source)

	join(sc, tc, lat.EPR)
	join(dq, sc, lat.TwoQubit)
	*sc += lat.Measure
	after(tc, *sc+lat.Classical, lat.OneQubit)

	runBody(s, b.Gates, source, tc, lat)

	*tc += lat.OneQubit + lat.Measure
	after(dq, *tc+lat.Classical, lat.OneQubit)
	return 1
}

// teleport moves the state in holder to the slot tc using the EPR half es.
func teleport(holder, es, tc *float64, lat Latencies) {
	join(es, tc, lat.EPR)
	join(holder, es, lat.TwoQubit)
	*holder += lat.OneQubit + lat.Measure
	*es += lat.Measure
	after(tc, *es+lat.Classical, lat.OneQubit)
	after(tc, *holder+lat.Classical, lat.OneQubit)
	*holder += lat.OneQubit
}

// runTeleport relays the source through every hop, then teleports it home.
// Each hop and the return leg consume one EPR pair.
func runTeleport(s *State, source int, hops []Hop, nodes ir.NodeMap, lat Latencies) int {
	srcNode := nodes.Node(source)
	holder := s.dq(source)
	holderNode, epSlot := srcNode, s.pick(srcNode)
	lastSlot := 0

	for _, h := range hops {
		lastSlot = s.pick(h.Node)
		tc := s.cq(h.Node, lastSlot)
		teleport(holder, s.cq(holderNode, epSlot), tc, lat)
		runBody(s, h.Gates, source, tc, lat)
		holder, holderNode, epSlot = tc, h.Node, 1-lastSlot
	}

	// Return leg: the spare slot at the last node pairs with the home node
	// and a swap brings the state back into its data qubit.
	dq := s.dq(source)
	sc := s.cq(srcNode, s.pick(srcNode))
	spare := s.cq(holderNode, 1-lastSlot)
	join(sc, spare, lat.EPR)
	join(dq, sc, 3*lat.TwoQubit)
	join(spare, holder, lat.TwoQubit)
	*spare += lat.Measure
	after(dq, *spare+lat.Classical, lat.OneQubit)
	*holder += lat.OneQubit + lat.Measure
	after(dq, *holder+lat.Classical, lat.OneQubit)
	return len(hops) + 1
}
