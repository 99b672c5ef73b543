package lower

import (
	"fmt"

	"github.com/roach88/qdist/internal/ir"
	"github.com/roach88/qdist/internal/schedule"
)

type builder struct {
	nodes ir.NodeMap
	prog  *Program
}

// Lower expands elems into primitive operations. Blocks must be assigned
// and carry a protocol, as Assign leaves them.
func Lower(elems []ir.Element, nodes ir.NodeMap) (*Program, error) {
	b := &builder{nodes: nodes, prog: &Program{}}

	for i, e := range elems {
		switch v := e.(type) {
		case ir.Gate:
			if nodes.IsRemote(v) {
				return nil, ir.NewInvariantError(i, "remote gate %s outside a block", v)
			}
			b.gate(v, nil)
		case *ir.Block:
			if err := v.CheckInvariant(nodes, i); err != nil {
				return nil, err
			}
			source, ok := v.Assignment.Source()
			if !ok {
				return nil, ir.NewInvariantError(i, "block lowered before assignment")
			}
			switch v.Protocol {
			case ir.ProtocolCat:
				if err := b.cat(v, source, i); err != nil {
					return nil, err
				}
			case ir.ProtocolTeleport:
				hops := schedule.Hops(v, nodes)
				if len(hops) == 0 {
					return nil, ir.NewInvariantError(i, "teleport block without remote gates")
				}
				b.teleport(source, hops)
			default:
				return nil, ir.NewInvariantError(i, "block has no protocol")
			}
		default:
			return nil, fmt.Errorf("lower: unexpected element %T", e)
		}
	}

	return b.prog, nil
}

func (b *builder) emit(op Op) {
	b.prog.Ops = append(b.prog.Ops, op)
	if op.Kind == OpEPR {
		b.prog.EPRCount++
	}
}

func (b *builder) bit() int {
	b.prog.Bits++
	return b.prog.Bits - 1
}

// gate emits g with its qubits mapped through remap; unmapped qubits stay
// on their data wires.
func (b *builder) gate(g ir.Gate, remap map[int]Wire) {
	wires := make([]Wire, len(g.Qubits))
	for i, q := range g.Qubits {
		if w, ok := remap[q]; ok {
			wires[i] = w
		} else {
			wires[i] = Data(q)
		}
	}
	b.emit(Op{Kind: OpGate, Type: g.Type, Wires: wires, Params: g.Params})
}

func (b *builder) single(t ir.GateType, w Wire) {
	b.emit(Op{Kind: OpGate, Type: t, Wires: []Wire{w}})
}

func (b *builder) measure(w Wire) int {
	bit := b.bit()
	b.emit(Op{Kind: OpMeasure, Wires: []Wire{w}, Bit: bit})
	return bit
}

// cat runs a cat block. The source is shared with slot 0 at the target node
// for the span of remote gates; gates before and after the span run on the
// data qubit. When the source is the target of CX gates the span runs in
// the Hadamard basis, where those gates act as CZ.
func (b *builder) cat(blk *ir.Block, source, index int) error {
	first, last := -1, -1
	for k, g := range blk.Gates {
		if b.nodes.IsRemote(g) {
			if first < 0 {
				first = k
			}
			last = k
		}
	}
	targets := blk.Assignment.Targets()
	if first < 0 || len(targets) == 0 {
		return ir.NewInvariantError(index, "cat block without remote gates")
	}
	home, remote := b.nodes.Node(source), targets[0]
	src, ca, cb := Data(source), Comm(home, 0), Comm(remote, 0)

	hadamard := blk.Gates[first].Type == ir.CX && blk.Gates[first].Target() == source

	for _, g := range blk.Gates[:first] {
		b.gate(g, nil)
	}
	if hadamard {
		b.single(ir.H, src)
	}

	b.emit(Op{Kind: OpEPR, Wires: []Wire{ca, cb}})
	b.emit(Op{Kind: OpGate, Type: ir.CX, Wires: []Wire{src, ca}})
	m := b.measure(ca)
	b.emit(Op{Kind: OpCondX, Wires: []Wire{cb}, Bit: m})
	b.emit(Op{Kind: OpReset, Wires: []Wire{ca}})

	remap := map[int]Wire{source: cb}
	for _, g := range blk.Gates[first : last+1] {
		switch {
		case !g.ActsOn(source):
			b.gate(g, nil)
		case g.IsTwoQubit():
			if hadamard {
				// CX(c, source) = H·CZ(c, source)·H
				g = ir.NewGate(ir.CZ, g.Qubits)
			}
			if b.nodes.IsRemote(g) {
				b.gate(g, remap)
			} else {
				return ir.NewInvariantError(index, "cat block has local gate %s on its source", g)
			}
		default:
			b.catSingle(g, src, cb, hadamard)
		}
	}

	b.single(ir.H, cb)
	m = b.measure(cb)
	b.emit(Op{Kind: OpCondZ, Wires: []Wire{src}, Bit: m})
	b.emit(Op{Kind: OpReset, Wires: []Wire{cb}})

	if hadamard {
		b.single(ir.H, src)
	}
	for _, g := range blk.Gates[last+1:] {
		b.gate(g, nil)
	}
	return nil
}

// catSingle applies a single-qubit gate on a shared source. Diagonal gates
// act on one copy; an X flips both copies. In the Hadamard basis the roles
// of X and Z, and of RX and RZ, exchange.
func (b *builder) catSingle(g ir.Gate, src, cb Wire, hadamard bool) {
	t := g.Type
	if hadamard {
		switch t {
		case ir.X:
			t = ir.Z
		case ir.Z:
			t = ir.X
		case ir.RX:
			t = ir.RZ
		case ir.RZ:
			t = ir.RX
		}
	}
	if t == ir.X {
		b.single(ir.X, src)
		b.single(ir.X, cb)
		return
	}
	b.emit(Op{Kind: OpGate, Type: t, Wires: []Wire{cb}, Params: g.Params})
}

// hop teleports the state in holder to tc using the pair (es, tc).
func (b *builder) hop(holder, es, tc Wire) {
	b.emit(Op{Kind: OpEPR, Wires: []Wire{es, tc}})
	b.emit(Op{Kind: OpGate, Type: ir.CX, Wires: []Wire{holder, es}})
	b.single(ir.H, holder)
	mz := b.measure(holder)
	mx := b.measure(es)
	b.emit(Op{Kind: OpCondX, Wires: []Wire{tc}, Bit: mx})
	b.emit(Op{Kind: OpCondZ, Wires: []Wire{tc}, Bit: mz})
	b.emit(Op{Kind: OpReset, Wires: []Wire{holder}})
	if holder != es {
		b.emit(Op{Kind: OpReset, Wires: []Wire{es}})
	}
}

// teleport relays the source through hops. The state arrives in slot 0 of
// each node and leaves through slot 1; a final hop returns it to slot 0 at
// home, from where it is swapped into the data qubit.
func (b *builder) teleport(source int, hops []schedule.Hop) {
	home := b.nodes.Node(source)
	holder, es := Data(source), Comm(home, 0)

	for _, h := range hops {
		tc := Comm(h.Node, 0)
		b.hop(holder, es, tc)
		remap := map[int]Wire{source: tc}
		for _, g := range h.Gates {
			b.gate(g, remap)
		}
		holder, es = tc, Comm(h.Node, 1)
	}

	back := Comm(home, 0)
	b.hop(holder, es, back)
	src := Data(source)
	b.emit(Op{Kind: OpGate, Type: ir.CX, Wires: []Wire{back, src}})
	b.emit(Op{Kind: OpGate, Type: ir.CX, Wires: []Wire{src, back}})
	b.emit(Op{Kind: OpGate, Type: ir.CX, Wires: []Wire{back, src}})
	b.emit(Op{Kind: OpReset, Wires: []Wire{back}})
}
