package ir

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// GateType identifies one member of the closed gate vocabulary.
type GateType uint8

// Gate vocabulary. Two-qubit types list the control first.
const (
	H GateType = iota
	X
	Z
	RX
	RZ
	CX
	CZ
	CRZ
	CRX

	numGateTypes
)

// NumGateTypes is the size of the gate vocabulary.
const NumGateTypes = int(numGateTypes)

var gateTypeNames = [NumGateTypes]string{"H", "X", "Z", "RX", "RZ", "CX", "CZ", "CRZ", "CRX"}

// AllGateTypes returns the vocabulary in declaration order.
func AllGateTypes() []GateType {
	types := make([]GateType, NumGateTypes)
	for i := range types {
		types[i] = GateType(i)
	}
	return types
}

// ParseGateType resolves a gate name, case-insensitively.
func ParseGateType(name string) (GateType, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for i, n := range gateTypeNames {
		if n == upper {
			return GateType(i), nil
		}
	}
	return 0, NewUnsupportedGateError(-1, "unknown gate type %q", name)
}

func (t GateType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("GateType(%d)", uint8(t))
	}
	return gateTypeNames[t]
}

// Valid reports whether t is part of the vocabulary.
func (t GateType) Valid() bool {
	return t < numGateTypes
}

// Arity is the number of qubits a gate of this type acts on.
func (t GateType) Arity() int {
	if t >= CX {
		return 2
	}
	return 1
}

// NumParams is the number of rotation angles the type carries.
func (t GateType) NumParams() int {
	switch t {
	case RX, RZ, CRZ, CRX:
		return 1
	}
	return 0
}

// IsDiagonal reports whether the gate is diagonal in the computational basis.
func (t GateType) IsDiagonal() bool {
	switch t {
	case Z, RZ, CZ, CRZ:
		return true
	}
	return false
}

// MarshalText encodes the type by name for JSON and YAML.
func (t GateType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, NewUnsupportedGateError(-1, "unknown gate type %d", uint8(t))
	}
	return []byte(gateTypeNames[t]), nil
}

// UnmarshalText decodes a gate name.
func (t *GateType) UnmarshalText(text []byte) error {
	parsed, err := ParseGateType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Gate is a single quantum operation. Qubits lists the control first for
// two-qubit types. GlobalPhase is the angle φ of a scalar factor e^{iφ}.
//
// Gates are values: every method returns a fresh gate and never shares the
// Qubits or Params backing arrays with its receiver.
type Gate struct {
	Type        GateType  `json:"type" yaml:"type"`
	Qubits      []int     `json:"qubits" yaml:"qubits"`
	Params      []float64 `json:"params,omitempty" yaml:"params,omitempty"`
	GlobalPhase float64   `json:"global_phase,omitempty" yaml:"global_phase,omitempty"`
}

// NewGate builds a gate, copying the qubit list.
func NewGate(t GateType, qubits []int, params ...float64) Gate {
	return Gate{
		Type:   t,
		Qubits: slices.Clone(qubits),
		Params: slices.Clone(params),
	}
}

// Clone returns a deep copy of g.
func (g Gate) Clone() Gate {
	return Gate{
		Type:        g.Type,
		Qubits:      slices.Clone(g.Qubits),
		Params:      slices.Clone(g.Params),
		GlobalPhase: g.GlobalPhase,
	}
}

// IsTwoQubit reports whether g acts on two qubits.
func (g Gate) IsTwoQubit() bool {
	return len(g.Qubits) == 2
}

// Control returns the first qubit. For single-qubit gates it is the only one.
func (g Gate) Control() int {
	return g.Qubits[0]
}

// Target returns the last qubit. For single-qubit gates it is the only one.
func (g Gate) Target() int {
	return g.Qubits[len(g.Qubits)-1]
}

// ActsOn reports whether q is one of g's qubits.
func (g Gate) ActsOn(q int) bool {
	return slices.Contains(g.Qubits, q)
}

// Other returns the qubit of a two-qubit gate that is not q.
func (g Gate) Other(q int) int {
	if g.Qubits[0] == q {
		return g.Qubits[1]
	}
	return g.Qubits[0]
}

// Support implements Element.
func (g Gate) Support() []int {
	return slices.Clone(g.Qubits)
}

func (Gate) element() {}

// Equal reports structural equality. Parameters compare exactly.
func (g Gate) Equal(o Gate) bool {
	return g.Type == o.Type &&
		slices.Equal(g.Qubits, o.Qubits) &&
		slices.Equal(g.Params, o.Params) &&
		g.GlobalPhase == o.GlobalPhase
}

// GateOverride selects the fields Transform replaces. Nil fields are kept.
type GateOverride struct {
	Type        *GateType
	Qubits      []int
	Params      []float64
	GlobalPhase *float64
}

// Transform returns a copy of g with the overridden fields applied.
func (g Gate) Transform(o GateOverride) Gate {
	out := g.Clone()
	if o.Type != nil {
		out.Type = *o.Type
	}
	if o.Qubits != nil {
		out.Qubits = slices.Clone(o.Qubits)
	}
	if o.Params != nil {
		out.Params = slices.Clone(o.Params)
	}
	if o.GlobalPhase != nil {
		out.GlobalPhase = *o.GlobalPhase
	}
	return out
}

// Inverse reports whether g and o multiply to the identity. Only
// single-qubit gates on the same qubit qualify: self-inverse types match
// exactly, rotations must carry negated angles.
func (g Gate) Inverse(o Gate) bool {
	if g.Type != o.Type || g.IsTwoQubit() || o.IsTwoQubit() {
		return false
	}
	if !slices.Equal(g.Qubits, o.Qubits) || len(g.Params) != len(o.Params) {
		return false
	}
	for i := range g.Params {
		if g.Params[i] != -o.Params[i] {
			return false
		}
	}
	return true
}

// String renders the gate as TYPE(q0,q1;p0).
func (g Gate) String() string {
	var sb strings.Builder
	sb.WriteString(g.Type.String())
	sb.WriteByte('(')
	for i, q := range g.Qubits {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(q))
	}
	for i, p := range g.Params {
		if i == 0 {
			sb.WriteByte(';')
		} else {
			sb.WriteByte(',')
		}
		sb.WriteString(formatAngle(p))
	}
	sb.WriteByte(')')
	return sb.String()
}

func formatAngle(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}
