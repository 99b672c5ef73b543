package compiler

import (
	"log/slog"

	"github.com/roach88/qdist/internal/ir"
)

// Single-qubit gates allowed on the source between two remote gates of a
// cat block, by the role the source plays.
var (
	catControlGates = gateSet(ir.RZ, ir.Z, ir.X)
	catTargetGates  = map[ir.GateType]map[ir.GateType]bool{
		ir.CX: gateSet(ir.RX, ir.Z, ir.X),
		ir.CZ: gateSet(ir.RZ, ir.Z, ir.X),
	}
)

func gateSet(types ...ir.GateType) map[ir.GateType]bool {
	set := make(map[ir.GateType]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	return set
}

// Assign gives every block a definitive assignment and protocol.
//
// Deferred blocks take the control of their first remote gate as source.
// A block is tagged Cat when its source qualifies; otherwise, if every
// remote gate pairs the source with the same partner, the partner is tried
// as source once. Blocks failing both fall back to Teleport.
func Assign(elems []ir.Element, nodes ir.NodeMap) ([]ir.Element, error) {
	return assignWith(elems, nodes, slog.Default())
}

func assignWith(elems []ir.Element, nodes ir.NodeMap, logger *slog.Logger) ([]ir.Element, error) {
	out := make([]ir.Element, len(elems))

	for i, e := range elems {
		b, ok := e.(*ir.Block)
		if !ok {
			out[i] = e
			continue
		}

		source, ok := b.Assignment.Source()
		if !ok {
			remote := b.RemoteGates(nodes)
			if len(remote) == 0 {
				return nil, ir.NewInvariantError(i, "block has no remote gate")
			}
			source = remote[0].Control()
		}
		a, err := assignmentFor(b, source, nodes, i)
		if err != nil {
			return nil, err
		}

		switch {
		case catEligible(b, source, nodes):
			out[i] = b.WithAssignment(a).WithProtocol(ir.ProtocolCat)
		default:
			partner, ok := commonPartner(b, source, nodes)
			if ok && catEligible(b, partner, nodes) {
				swapped, err := assignmentFor(b, partner, nodes, i)
				if err != nil {
					return nil, err
				}
				out[i] = b.WithAssignment(swapped).WithProtocol(ir.ProtocolCat)
			} else {
				out[i] = b.WithAssignment(a).WithProtocol(ir.ProtocolTeleport)
			}
		}

		nb := out[i].(*ir.Block)
		logger.Debug("protocol assigned", "index", i, "protocol", nb.Protocol, "assignment", nb.Assignment.String())
	}

	if err := checkAssigned(out, nodes); err != nil {
		return nil, err
	}
	return out, nil
}

// assignmentFor roots b at source, one target node per remote gate.
func assignmentFor(b *ir.Block, source int, nodes ir.NodeMap, index int) (ir.Assignment, error) {
	remote := b.RemoteGates(nodes)
	targets := make([]int, len(remote))
	for k, g := range remote {
		if !g.ActsOn(source) {
			return ir.Assignment{}, ir.NewInvariantError(index, "remote gate %s does not act on source %d", g, source)
		}
		targets[k] = nodes.Node(g.Other(source))
	}
	return ir.Assigned(source, targets), nil
}

// commonPartner returns the qubit every remote gate pairs source with.
func commonPartner(b *ir.Block, source int, nodes ir.NodeMap) (int, bool) {
	partner := -1
	for _, g := range b.RemoteGates(nodes) {
		if !g.ActsOn(source) {
			return 0, false
		}
		q := g.Other(source)
		if partner >= 0 && q != partner {
			return 0, false
		}
		partner = q
	}
	return partner, partner >= 0
}

// catEligible reports whether b can run under the cat protocol rooted at
// source. Every remote gate must act on source, in the same role: as
// control, any remote type is allowed; as target, all remote gates must be
// CX or all CZ. Between the first and last remote gate, single-qubit gates
// on source must come from the set allowed for that role and no local
// two-qubit gate may touch source.
func catEligible(b *ir.Block, source int, nodes ir.NodeMap) bool {
	first, last := -1, -1
	sign := 0
	var remoteType ir.GateType
	for k, g := range b.Gates {
		if !nodes.IsRemote(g) {
			continue
		}
		if !g.ActsOn(source) {
			return false
		}
		s := roleSign(g, source)
		if first < 0 {
			first, sign, remoteType = k, s, g.Type
		}
		if s != sign {
			return false
		}
		if sign < 0 && g.Type != remoteType {
			return false
		}
		last = k
	}
	if first < 0 {
		return false
	}

	allowed := catControlGates
	if sign < 0 {
		set, ok := catTargetGates[remoteType]
		if !ok {
			return false
		}
		allowed = set
	}

	if last <= first {
		return true
	}
	for _, g := range b.Gates[first+1 : last] {
		if nodes.IsRemote(g) || !g.ActsOn(source) {
			continue
		}
		if g.IsTwoQubit() || !allowed[g.Type] {
			return false
		}
	}
	return true
}

// roleSign is +1 when source is the control of g and -1 when it is the
// target.
func roleSign(g ir.Gate, source int) int {
	if g.Control() == source {
		return 1
	}
	return -1
}

// checkAssigned verifies every block leaves assignment with a source, a
// protocol and one target per remote gate.
func checkAssigned(elems []ir.Element, nodes ir.NodeMap) error {
	for i, e := range elems {
		b, ok := e.(*ir.Block)
		if !ok {
			continue
		}
		if !b.Assignment.IsAssigned() {
			return ir.NewInvariantError(i, "block left unassigned")
		}
		if b.Protocol == ir.ProtocolUndecided {
			return ir.NewInvariantError(i, "block left without protocol")
		}
		if err := b.CheckInvariant(nodes, i); err != nil {
			return err
		}
	}
	return nil
}
