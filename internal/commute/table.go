package commute

import (
	"fmt"

	"github.com/roach88/qdist/internal/ir"
)

// entry is one cell of the lookup table. mirrored cells hold a rule declared
// as (B, A): conditions are evaluated and transforms applied with the gates
// swapped back into declaration order.
type entry struct {
	rule     *Rule
	mirrored bool
}

// Table resolves how two gates of known types cross each other.
type Table struct {
	cells [ir.NumGateTypes][ir.NumGateTypes]entry
	rules []Rule
}

// NewTable indexes rules. Returns an error when a type pair is declared
// twice or a declared type is outside the vocabulary.
func NewTable(rules []Rule) (*Table, error) {
	t := &Table{rules: make([]Rule, len(rules))}
	copy(t.rules, rules)

	for i := range t.rules {
		r := &t.rules[i]
		if !r.A.Valid() || !r.B.Valid() {
			return nil, ir.NewUnsupportedGateError(-1, "rule %d declares unknown gate type", i)
		}
		if len(r.Cases) == 0 {
			return nil, fmt.Errorf("rule %s/%s has no cases", r.A, r.B)
		}
		if t.cells[r.A][r.B].rule != nil || t.cells[r.B][r.A].rule != nil {
			return nil, fmt.Errorf("rule %s/%s declared twice", r.A, r.B)
		}
		t.cells[r.A][r.B] = entry{rule: r}
		if r.A != r.B {
			t.cells[r.B][r.A] = entry{rule: r, mirrored: true}
		}
	}
	return t, nil
}

var defaultTable = mustTable(DefaultRules())

func mustTable(rules []Rule) *Table {
	t, err := NewTable(rules)
	if err != nil {
		panic(err)
	}
	if err := t.Validate(); err != nil {
		panic(err)
	}
	return t
}

// DefaultTable returns the shared table for the gate vocabulary.
func DefaultTable() *Table {
	return defaultTable
}

// Validate checks that every ordered pair of gate types has a rule.
func (t *Table) Validate() error {
	var missing []string
	for a := range ir.NumGateTypes {
		for b := range ir.NumGateTypes {
			if t.cells[a][b].rule == nil {
				missing = append(missing, fmt.Sprintf("%s/%s", ir.GateType(a), ir.GateType(b)))
			}
		}
	}
	if len(missing) > 0 {
		return ir.NewUnsupportedGateError(-1, "rule table missing %d pair(s): %v", len(missing), missing)
	}
	return nil
}

// Rules returns the declarations the table was built from.
func (t *Table) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Outcome is the result of crossing one left gate over one right gate.
type Outcome struct {
	Blocked bool
	Left    ir.Gate // left gate after moving right
	Right   ir.Gate // right gate after the left one passed it
}

// Swap resolves left·right (left applied first) into right'·left'.
// Gates on disjoint qubits always pass unchanged. A type pair without a
// rule, or overlapping gates no case matches, is UNSUPPORTED_GATE_TYPE.
func (t *Table) Swap(left, right ir.Gate) (Outcome, error) {
	if !overlaps(left, right) {
		return Outcome{Left: left.Clone(), Right: right.Clone()}, nil
	}
	if !left.Type.Valid() || !right.Type.Valid() {
		return Outcome{}, ir.NewUnsupportedGateError(-1, "no commutation rule for %s/%s", left.Type, right.Type)
	}

	e := t.cells[left.Type][right.Type]
	if e.rule == nil {
		return Outcome{}, ir.NewUnsupportedGateError(-1, "no commutation rule for %s/%s", left.Type, right.Type)
	}

	a, b := left, right
	if e.mirrored {
		a, b = right, left
	}
	for _, c := range e.rule.Cases {
		if !c.When.Holds(a, b) {
			continue
		}
		if c.Blocked {
			return Outcome{Blocked: true}, nil
		}
		na, nb := c.A.Apply(a), c.B.Apply(b)
		if e.mirrored {
			return Outcome{Left: nb, Right: na}, nil
		}
		return Outcome{Left: na, Right: nb}, nil
	}
	return Outcome{}, ir.NewUnsupportedGateError(-1, "no case of rule %s/%s matches %s and %s",
		e.rule.A, e.rule.B, left, right)
}

func overlaps(a, b ir.Gate) bool {
	for _, q := range a.Qubits {
		if b.ActsOn(q) {
			return true
		}
	}
	return false
}
