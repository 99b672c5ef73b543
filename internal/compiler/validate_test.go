package compiler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qdist/internal/ir"
	"github.com/roach88/qdist/internal/testutil"
)

// =============================================================================
// ValidateCircuit Tests
// =============================================================================

func TestValidateCircuitValid(t *testing.T) {
	gates := testutil.Gates(testutil.H(0), testutil.CX(0, 1), testutil.CRZ(1, 2, 0.3))
	errs := ValidateCircuit(gates, ir.MustNodeMap(0, 1, 1))
	assert.Empty(t, errs, "valid circuit should have no errors")
}

func TestValidateCircuitEmpty(t *testing.T) {
	assert.Empty(t, ValidateCircuit(nil, ir.MustNodeMap()))
}

func TestValidateCircuitEmptyNodeMap(t *testing.T) {
	errs := ValidateCircuit(testutil.Gates(testutil.H(0)), ir.MustNodeMap())
	require.NotEmpty(t, errs)
	assert.Equal(t, ErrEmptyNodeMap, errs[0].Code)
}

func TestValidateCircuitErrors(t *testing.T) {
	nodes := ir.MustNodeMap(0, 1)
	tests := []struct {
		name  string
		gate  ir.Gate
		code  string
		field string
	}{
		{"unknown type", ir.Gate{Type: ir.GateType(200), Qubits: []int{0}}, ErrUnknownGateType, "gates[0].type"},
		{"one qubit for cx", ir.NewGate(ir.CX, []int{0}), ErrGateArity, "gates[0].qubits"},
		{"two qubits for h", ir.NewGate(ir.H, []int{0, 1}), ErrGateArity, "gates[0].qubits"},
		{"same qubit twice", ir.NewGate(ir.CZ, []int{1, 1}), ErrDuplicateQubit, "gates[0].qubits"},
		{"qubit outside map", ir.NewGate(ir.X, []int{5}), ErrQubitOutOfRange, "gates[0].qubits[0]"},
		{"negative qubit", ir.NewGate(ir.X, []int{-1}), ErrQubitOutOfRange, "gates[0].qubits[0]"},
		{"missing angle", ir.NewGate(ir.RZ, []int{0}), ErrParamCount, "gates[0].params"},
		{"extra angle", ir.NewGate(ir.H, []int{0}, 0.5), ErrParamCount, "gates[0].params"},
		{"nan angle", ir.NewGate(ir.RX, []int{0}, math.NaN()), ErrNonFiniteParam, "gates[0].params[0]"},
		{"infinite phase", ir.Gate{Type: ir.X, Qubits: []int{0}, GlobalPhase: math.Inf(1)}, ErrNonFiniteGPhase, "gates[0].global_phase"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateCircuit([]ir.Gate{tt.gate}, nodes)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.code, errs[0].Code)
			assert.Equal(t, tt.field, errs[0].Field)
			assert.Equal(t, 0, errs[0].Index)
		})
	}
}

func TestValidateCircuitCollectsAll(t *testing.T) {
	gates := []ir.Gate{
		testutil.H(0),
		ir.NewGate(ir.CX, []int{0, 9}),
		ir.NewGate(ir.RZ, []int{1}),
	}
	errs := ValidateCircuit(gates, ir.MustNodeMap(0, 1))
	require.Len(t, errs, 2)
	assert.Equal(t, 1, errs[0].Index)
	assert.Equal(t, 2, errs[1].Index)
}

func TestValidationErrorFormat(t *testing.T) {
	err := ValidationError{Field: "gates[3].qubits", Message: "bad", Code: ErrGateArity, Index: 3}
	assert.Equal(t, "[E101] gates[3].qubits: bad", err.Error())
}

func TestValidationErrorIRError(t *testing.T) {
	malformed := ValidationError{Field: "gates[2].qubits[0]", Message: "qubit 9 is not in the node map", Code: ErrQubitOutOfRange, Index: 2}.IRError()
	assert.True(t, ir.IsMalformed(malformed))
	assert.Equal(t, 2, malformed.Index)
	assert.Equal(t, "gates[2].qubits[0]", malformed.Details["field"])

	unsupported := ValidationError{Field: "gates[0].type", Code: ErrUnknownGateType}.IRError()
	assert.True(t, ir.IsUnsupportedGate(unsupported))
}
