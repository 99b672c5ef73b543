package ir

import (
	"fmt"
	"slices"
	"strings"
)

// Element is one entry of the mixed stream every compiler stage consumes:
// either a plain Gate or a *Block.
type Element interface {
	// Support returns the qubits the element acts on.
	Support() []int

	element()
}

// Protocol is the communication protocol chosen for a block.
type Protocol uint8

const (
	ProtocolUndecided Protocol = iota
	ProtocolCat
	ProtocolTeleport
)

var protocolNames = [...]string{"undecided", "cat", "teleport"}

func (p Protocol) String() string {
	if int(p) < len(protocolNames) {
		return protocolNames[p]
	}
	return fmt.Sprintf("Protocol(%d)", uint8(p))
}

// MarshalText encodes the protocol by name.
func (p Protocol) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a protocol name.
func (p *Protocol) UnmarshalText(text []byte) error {
	for i, n := range protocolNames {
		if n == strings.ToLower(string(text)) {
			*p = Protocol(i)
			return nil
		}
	}
	return fmt.Errorf("unknown protocol %q", text)
}

// Assignment is the (source, targets) pair of a block. It is either
// unassigned or fully assigned; source and targets never exist apart.
type Assignment struct {
	assigned bool
	source   int
	targets  []int
}

// Unassigned returns the empty assignment of a deferred block.
func Unassigned() Assignment {
	return Assignment{}
}

// Assigned returns an assignment rooted at source with one target node per
// remote gate.
func Assigned(source int, targets []int) Assignment {
	return Assignment{assigned: true, source: source, targets: slices.Clone(targets)}
}

// IsAssigned reports whether the block has a source.
func (a Assignment) IsAssigned() bool {
	return a.assigned
}

// Source returns the source qubit, if assigned.
func (a Assignment) Source() (int, bool) {
	return a.source, a.assigned
}

// Targets returns a copy of the target node list.
func (a Assignment) Targets() []int {
	return slices.Clone(a.targets)
}

// Equal reports structural equality.
func (a Assignment) Equal(o Assignment) bool {
	if a.assigned != o.assigned {
		return false
	}
	return !a.assigned || (a.source == o.source && slices.Equal(a.targets, o.targets))
}

func (a Assignment) String() string {
	if !a.assigned {
		return "unassigned"
	}
	return fmt.Sprintf("q%d->%v", a.source, a.targets)
}

// Block is a contiguous group of gates executed under one communication
// protocol. Blocks are replaced, never edited: the With* methods return new
// blocks.
type Block struct {
	Gates      []Gate
	Assignment Assignment
	Protocol   Protocol
}

// NewBlock creates an undecided block over a copy of gates.
func NewBlock(gates []Gate, a Assignment) *Block {
	cloned := make([]Gate, len(gates))
	for i, g := range gates {
		cloned[i] = g.Clone()
	}
	return &Block{Gates: cloned, Assignment: a}
}

// Support implements Element.
func (b *Block) Support() []int {
	var qubits []int
	for _, g := range b.Gates {
		for _, q := range g.Qubits {
			if !slices.Contains(qubits, q) {
				qubits = append(qubits, q)
			}
		}
	}
	slices.Sort(qubits)
	return qubits
}

func (*Block) element() {}

// RemoteGates returns the gates of b that span two nodes.
func (b *Block) RemoteGates(nodes NodeMap) []Gate {
	var remote []Gate
	for _, g := range b.Gates {
		if nodes.IsRemote(g) {
			remote = append(remote, g)
		}
	}
	return remote
}

// RemoteCount is the number of remote gates in b.
func (b *Block) RemoteCount(nodes NodeMap) int {
	n := 0
	for _, g := range b.Gates {
		if nodes.IsRemote(g) {
			n++
		}
	}
	return n
}

// WithGates returns a copy of b carrying gates.
func (b *Block) WithGates(gates []Gate) *Block {
	nb := NewBlock(gates, b.Assignment)
	nb.Protocol = b.Protocol
	return nb
}

// WithAssignment returns a copy of b carrying a.
func (b *Block) WithAssignment(a Assignment) *Block {
	nb := NewBlock(b.Gates, a)
	nb.Protocol = b.Protocol
	return nb
}

// WithProtocol returns a copy of b carrying p.
func (b *Block) WithProtocol(p Protocol) *Block {
	nb := NewBlock(b.Gates, b.Assignment)
	nb.Protocol = p
	return nb
}

// Equal reports structural equality.
func (b *Block) Equal(o *Block) bool {
	if b.Protocol != o.Protocol || !b.Assignment.Equal(o.Assignment) || len(b.Gates) != len(o.Gates) {
		return false
	}
	for i := range b.Gates {
		if !b.Gates[i].Equal(o.Gates[i]) {
			return false
		}
	}
	return true
}

// CheckInvariant verifies an assigned block has exactly one target node per
// remote gate.
func (b *Block) CheckInvariant(nodes NodeMap, index int) error {
	source, ok := b.Assignment.Source()
	if !ok {
		return nil
	}
	remote := b.RemoteCount(nodes)
	if len(b.Assignment.targets) != remote {
		return NewInvariantError(index, "block has %d target(s) for %d remote gate(s)", len(b.Assignment.targets), remote).
			WithDetail("source", fmt.Sprint(source))
	}
	return nil
}

func (b *Block) String() string {
	parts := make([]string, len(b.Gates))
	for i, g := range b.Gates {
		parts[i] = g.String()
	}
	return fmt.Sprintf("Block[%s %s]{%s}", b.Protocol, b.Assignment, strings.Join(parts, " "))
}

// CheckInvariants runs CheckInvariant on every block of elems.
func CheckInvariants(elems []Element, nodes NodeMap) error {
	for i, e := range elems {
		if b, ok := e.(*Block); ok {
			if err := b.CheckInvariant(nodes, i); err != nil {
				return err
			}
		}
	}
	return nil
}

// CountGates returns the number of gates in elems, looking inside blocks.
func CountGates(elems []Element) int {
	n := 0
	for _, e := range elems {
		switch v := e.(type) {
		case Gate:
			n++
		case *Block:
			n += len(v.Gates)
		}
	}
	return n
}

// Flatten returns the gates of elems in stream order.
func Flatten(elems []Element) []Gate {
	var gates []Gate
	for _, e := range elems {
		switch v := e.(type) {
		case Gate:
			gates = append(gates, v)
		case *Block:
			gates = append(gates, v.Gates...)
		}
	}
	return gates
}

// Blocks returns the blocks of elems in stream order.
func Blocks(elems []Element) []*Block {
	var blocks []*Block
	for _, e := range elems {
		if b, ok := e.(*Block); ok {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// Elements wraps gates as a plain element stream.
func Elements(gates []Gate) []Element {
	elems := make([]Element, len(gates))
	for i, g := range gates {
		elems[i] = g.Clone()
	}
	return elems
}
