package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGateType(t *testing.T) {
	for _, gt := range AllGateTypes() {
		parsed, err := ParseGateType(gt.String())
		require.NoError(t, err)
		assert.Equal(t, gt, parsed)
	}

	parsed, err := ParseGateType(" crz ")
	require.NoError(t, err)
	assert.Equal(t, CRZ, parsed)
}

func TestParseGateType_Unknown(t *testing.T) {
	_, err := ParseGateType("SWAP")
	require.Error(t, err)
	assert.True(t, IsUnsupportedGate(err))
}

func TestGateType_Arity(t *testing.T) {
	assert.Equal(t, 1, H.Arity())
	assert.Equal(t, 1, RZ.Arity())
	assert.Equal(t, 2, CX.Arity())
	assert.Equal(t, 2, CRX.Arity())
	assert.Equal(t, 1, CRZ.NumParams())
	assert.Equal(t, 0, CZ.NumParams())
}

// Transform must never share slices with the receiver.
func TestGate_TransformDoesNotAlias(t *testing.T) {
	g := NewGate(CRZ, []int{0, 1}, 0.5)
	swapped := g.Transform(GateOverride{Qubits: []int{1, 0}})

	swapped.Params[0] = 9
	assert.Equal(t, 0.5, g.Params[0])
	assert.Equal(t, []int{0, 1}, g.Qubits)
	assert.Equal(t, []int{1, 0}, swapped.Qubits)
}

func TestGate_TransformType(t *testing.T) {
	cz := CZ
	g := NewGate(CX, []int{0, 1}).Transform(GateOverride{Type: &cz})
	assert.Equal(t, CZ, g.Type)
	assert.Equal(t, []int{0, 1}, g.Qubits)
}

func TestGate_Equal(t *testing.T) {
	a := NewGate(RZ, []int{2}, 0.7)
	assert.True(t, a.Equal(NewGate(RZ, []int{2}, 0.7)))
	assert.False(t, a.Equal(NewGate(RZ, []int{2}, -0.7)))
	assert.False(t, a.Equal(NewGate(RX, []int{2}, 0.7)))
	assert.False(t, a.Equal(NewGate(RZ, []int{1}, 0.7)))
}

func TestGate_Inverse(t *testing.T) {
	assert.True(t, NewGate(H, []int{0}).Inverse(NewGate(H, []int{0})))
	assert.True(t, NewGate(RZ, []int{0}, 0.3).Inverse(NewGate(RZ, []int{0}, -0.3)))
	assert.False(t, NewGate(RZ, []int{0}, 0.3).Inverse(NewGate(RZ, []int{0}, 0.3)))
	assert.False(t, NewGate(X, []int{0}).Inverse(NewGate(X, []int{1})))
	assert.False(t, NewGate(CX, []int{0, 1}).Inverse(NewGate(CX, []int{0, 1})), "two-qubit gates never cancel")
}

func TestGate_String(t *testing.T) {
	assert.Equal(t, "CX(0,2)", NewGate(CX, []int{0, 2}).String())
	assert.Equal(t, "RZ(1;0.7)", NewGate(RZ, []int{1}, 0.7).String())
	assert.Equal(t, "CRZ(0,1;-2.0)", NewGate(CRZ, []int{0, 1}, -2).String())
}

func TestGate_JSON(t *testing.T) {
	g := NewGate(CRX, []int{3, 1}, 1.25)
	data, err := json.Marshal(g)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"CRX","qubits":[3,1],"params":[1.25]}`, string(data))

	var back Gate
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, g.Equal(back))
}

func TestGate_JSONUnknownType(t *testing.T) {
	var g Gate
	err := json.Unmarshal([]byte(`{"type":"CCX","qubits":[0,1,2]}`), &g)
	require.Error(t, err)
	assert.True(t, IsUnsupportedGate(err))
}
