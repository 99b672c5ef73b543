package commute

import (
	"fmt"
	"strings"

	"github.com/roach88/qdist/internal/ir"
)

// Op is one step of a gate transform. Ops combine as a bit set.
type Op uint8

const (
	// OpRename replaces the gate type with Transform.To.
	OpRename Op = 1 << iota
	// OpNegate negates every rotation angle.
	OpNegate
	// OpSwap exchanges the two qubits of a two-qubit gate.
	OpSwap
)

// Transform rewrites a gate as it crosses another. The zero value keeps the
// gate unchanged. Transforms are strictly one gate in, one gate out.
type Transform struct {
	Ops Op
	To  ir.GateType
}

// Keep is the identity transform.
var Keep = Transform{}

// RenameTo renames the gate.
func RenameTo(t ir.GateType) Transform { return Transform{Ops: OpRename, To: t} }

// Negate negates the gate's angles.
func Negate() Transform { return Transform{Ops: OpNegate} }

// RenameSwapped renames the gate and exchanges its qubits.
func RenameSwapped(t ir.GateType) Transform { return Transform{Ops: OpRename | OpSwap, To: t} }

// IsIdentity reports whether t leaves gates unchanged.
func (t Transform) IsIdentity() bool {
	return t.Ops == 0
}

// Apply returns the transformed copy of g.
func (t Transform) Apply(g ir.Gate) ir.Gate {
	if t.Ops == 0 {
		return g.Clone()
	}
	var o ir.GateOverride
	if t.Ops&OpRename != 0 {
		to := t.To
		o.Type = &to
	}
	if t.Ops&OpNegate != 0 {
		params := make([]float64, len(g.Params))
		for i, p := range g.Params {
			params[i] = -p
		}
		o.Params = params
	}
	if t.Ops&OpSwap != 0 && g.IsTwoQubit() {
		o.Qubits = []int{g.Qubits[1], g.Qubits[0]}
	}
	return g.Transform(o)
}

func (t Transform) String() string {
	if t.Ops == 0 {
		return "keep"
	}
	var parts []string
	if t.Ops&OpRename != 0 {
		parts = append(parts, "rename:"+t.To.String())
	}
	if t.Ops&OpSwap != 0 {
		parts = append(parts, "swap")
	}
	if t.Ops&OpNegate != 0 {
		parts = append(parts, "negate")
	}
	return strings.Join(parts, "+")
}

// Condition selects a rule case by how two overlapping gates share qubits.
// Conditions read the gates in declaration order (A, then B).
type Condition uint8

const (
	// Always matches any overlap.
	Always Condition = iota
	// OnControl matches when single-qubit A sits on B's first qubit.
	OnControl
	// OnTarget matches when single-qubit A sits on B's second qubit.
	OnTarget
	// Crossed matches when one gate's control is the other's target.
	Crossed
	// TargetShared matches when A's target is one of B's qubits.
	TargetShared
)

var conditionNames = [...]string{"always", "on-control", "on-target", "crossed", "target-shared"}

func (c Condition) String() string {
	if int(c) < len(conditionNames) {
		return conditionNames[c]
	}
	return fmt.Sprintf("Condition(%d)", uint8(c))
}

// Holds evaluates c for gates a and b, in declaration order.
func (c Condition) Holds(a, b ir.Gate) bool {
	switch c {
	case Always:
		return true
	case OnControl:
		return a.Qubits[0] == b.Qubits[0]
	case OnTarget:
		return b.IsTwoQubit() && a.Qubits[0] == b.Qubits[1]
	case Crossed:
		return a.Control() == b.Target() || b.Control() == a.Target()
	case TargetShared:
		return b.ActsOn(a.Target())
	}
	return false
}

// Case is one outcome of a rule. Cases are tried in order; the first whose
// condition holds decides the pair.
type Case struct {
	When    Condition
	Blocked bool
	A, B    Transform
}

// Rule declares the commutation behavior of gate types A and B sharing at
// least one qubit. A rule covers both orders of the pair: the transforms
// follow the gate, not its position.
type Rule struct {
	A, B  ir.GateType
	Cases []Case
}

func keep(when Condition) Case { return Case{When: when} }

func block(when Condition) Case { return Case{When: when, Blocked: true} }

func on(when Condition, a, b Transform) Case { return Case{When: when, A: a, B: b} }

var (
	zFamily = []ir.GateType{ir.Z, ir.RZ}
	xFamily = []ir.GateType{ir.X, ir.RX}
)

// DefaultRules returns the rule declarations for the gate vocabulary.
func DefaultRules() []Rule {
	var rules []Rule
	add := func(a, b ir.GateType, cases ...Case) {
		rules = append(rules, Rule{A: a, B: b, Cases: cases})
	}

	// Single-qubit pairs on the same qubit.
	for _, a := range zFamily {
		for _, b := range zFamily {
			if a <= b {
				add(a, b, keep(Always))
			}
		}
	}
	for _, a := range xFamily {
		for _, b := range xFamily {
			if a <= b {
				add(a, b, keep(Always))
			}
		}
	}
	add(ir.X, ir.Z, keep(Always)) // equal up to global phase
	add(ir.X, ir.RZ, on(Always, Keep, Negate()))
	add(ir.Z, ir.RX, on(Always, Keep, Negate()))
	add(ir.RX, ir.RZ, block(Always))
	add(ir.H, ir.H, keep(Always))
	add(ir.H, ir.X, on(Always, Keep, RenameTo(ir.Z)))
	add(ir.H, ir.Z, on(Always, Keep, RenameTo(ir.X)))
	add(ir.H, ir.RX, on(Always, Keep, RenameTo(ir.RZ)))
	add(ir.H, ir.RZ, on(Always, Keep, RenameTo(ir.RX)))

	// Single-qubit gate against CX.
	for _, z := range zFamily {
		add(z, ir.CX, keep(OnControl), block(OnTarget))
	}
	for _, x := range xFamily {
		add(x, ir.CX, block(OnControl), keep(OnTarget))
	}
	add(ir.H, ir.CX, block(OnControl), on(OnTarget, Keep, RenameTo(ir.CZ)))

	// Single-qubit gate against CZ.
	for _, z := range zFamily {
		add(z, ir.CZ, keep(Always))
	}
	for _, x := range xFamily {
		add(x, ir.CZ, block(Always))
	}
	add(ir.H, ir.CZ,
		on(OnTarget, Keep, RenameTo(ir.CX)),
		on(OnControl, Keep, RenameSwapped(ir.CX)))

	// Single-qubit gate against CRZ.
	for _, z := range zFamily {
		add(z, ir.CRZ, keep(Always))
	}
	add(ir.X, ir.CRZ, block(OnControl), on(OnTarget, Keep, Negate()))
	add(ir.RX, ir.CRZ, block(Always))
	add(ir.H, ir.CRZ, block(OnControl), on(OnTarget, Keep, RenameTo(ir.CRX)))

	// Single-qubit gate against CRX.
	add(ir.RZ, ir.CRX, keep(OnControl), block(OnTarget))
	add(ir.X, ir.CRX, block(OnControl), keep(OnTarget))
	add(ir.RX, ir.CRX, block(OnControl), keep(OnTarget))
	add(ir.Z, ir.CRX, keep(OnControl), on(OnTarget, Keep, Negate()))
	add(ir.H, ir.CRX, block(OnControl), on(OnTarget, Keep, RenameTo(ir.CRZ)))

	// Two-qubit pairs: diagonal gates always commute, X-type gates commute
	// unless a control meets a target.
	diagonal := []ir.GateType{ir.CZ, ir.CRZ}
	xType := []ir.GateType{ir.CX, ir.CRX}
	for _, a := range diagonal {
		for _, b := range diagonal {
			if a <= b {
				add(a, b, keep(Always))
			}
		}
	}
	for _, a := range xType {
		for _, b := range xType {
			if a <= b {
				add(a, b, block(Crossed), keep(Always))
			}
		}
		for _, b := range diagonal {
			add(a, b, block(TargetShared), keep(Always))
		}
	}
	return rules
}
