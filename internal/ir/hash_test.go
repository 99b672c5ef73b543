package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanFingerprint_Deterministic(t *testing.T) {
	elems := []Element{
		NewGate(H, []int{0}),
		NewBlock([]Gate{NewGate(CX, []int{0, 1})}, Assigned(0, []int{1})).WithProtocol(ProtocolCat),
	}

	h1, err := PlanFingerprint("bell", elems)
	require.NoError(t, err)
	h2, err := PlanFingerprint("bell", elems)
	require.NoError(t, err)

	assert.Equal(t, h1, h2, "PlanFingerprint must be deterministic")
	assert.Len(t, h1, 64, "SHA-256 hex is 64 characters")
}

func TestPlanFingerprint_ChangesWithProtocol(t *testing.T) {
	b := NewBlock([]Gate{NewGate(CX, []int{0, 1})}, Assigned(0, []int{1}))

	cat, err := PlanFingerprint("p", []Element{b.WithProtocol(ProtocolCat)})
	require.NoError(t, err)
	tp, err := PlanFingerprint("p", []Element{b.WithProtocol(ProtocolTeleport)})
	require.NoError(t, err)

	assert.NotEqual(t, cat, tp)
}

// Composed and decomposed forms of the same name hash identically.
func TestCircuitFingerprint_NFC(t *testing.T) {
	nodes := MustNodeMap(0, 1)
	gates := []Gate{NewGate(CX, []int{0, 1})}

	composed, err := CircuitFingerprint("caf\u00e9", nodes, gates)
	require.NoError(t, err)
	decomposed, err := CircuitFingerprint("cafe\u0301", nodes, gates)
	require.NoError(t, err)

	assert.Equal(t, composed, decomposed)
}

func TestCircuitFingerprint_DomainSeparation(t *testing.T) {
	h := hashWithDomain(DomainCircuit, []byte("x"))
	assert.NotEqual(t, h, hashWithDomain(DomainPlan, []byte("x")))
}
