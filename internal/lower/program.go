package lower

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/qdist/internal/ir"
)

// Wire is a data qubit or a communication slot.
type Wire struct {
	Comm  bool
	Qubit int // data qubit index, when !Comm
	Node  int // owning node, when Comm
	Slot  int // 0 or 1, when Comm
}

// Data returns the wire of data qubit q.
func Data(q int) Wire { return Wire{Qubit: q} }

// Comm returns a communication slot of node.
func Comm(node, slot int) Wire { return Wire{Comm: true, Node: node, Slot: slot} }

func (w Wire) String() string {
	if w.Comm {
		return fmt.Sprintf("c%d.%d", w.Node, w.Slot)
	}
	return "q" + strconv.Itoa(w.Qubit)
}

// OpKind identifies a primitive operation.
type OpKind uint8

const (
	OpGate OpKind = iota
	OpEPR
	OpMeasure
	OpCondX
	OpCondZ
	OpReset
)

var opNames = [...]string{"GATE", "EPR", "MEASURE", "IF_X", "IF_Z", "RESET"}

func (k OpKind) String() string {
	if int(k) < len(opNames) {
		return opNames[k]
	}
	return fmt.Sprintf("OpKind(%d)", uint8(k))
}

// Op is one primitive operation. Bit names the classical bit written by a
// measurement or read by a conditional correction.
type Op struct {
	Kind   OpKind
	Type   ir.GateType
	Wires  []Wire
	Params []float64
	Bit    int
}

func (o Op) String() string {
	wires := make([]string, len(o.Wires))
	for i, w := range o.Wires {
		wires[i] = w.String()
	}
	args := strings.Join(wires, ", ")

	switch o.Kind {
	case OpGate:
		name := o.Type.String()
		if len(o.Params) > 0 {
			ps := make([]string, len(o.Params))
			for i, p := range o.Params {
				ps[i] = strconv.FormatFloat(p, 'g', 6, 64)
			}
			name += "(" + strings.Join(ps, ", ") + ")"
		}
		return name + " " + args
	case OpMeasure:
		return fmt.Sprintf("MEASURE %s -> b%d", args, o.Bit)
	case OpCondX:
		return fmt.Sprintf("IF b%d X %s", o.Bit, args)
	case OpCondZ:
		return fmt.Sprintf("IF b%d Z %s", o.Bit, args)
	}
	return o.Kind.String() + " " + args
}

// Program is a lowered plan.
type Program struct {
	Ops      []Op
	Bits     int // classical bits used
	EPRCount int
}

// Lines renders each operation.
func (p *Program) Lines() []string {
	lines := make([]string, len(p.Ops))
	for i, op := range p.Ops {
		lines[i] = op.String()
	}
	return lines
}

// String renders one operation per line.
func (p *Program) String() string {
	var sb strings.Builder
	for _, line := range p.Lines() {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Count returns the number of operations of kind k.
func (p *Program) Count(k OpKind) int {
	n := 0
	for _, op := range p.Ops {
		if op.Kind == k {
			n++
		}
	}
	return n
}
