package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignment_Unassigned(t *testing.T) {
	a := Unassigned()
	_, ok := a.Source()
	assert.False(t, ok)
	assert.False(t, a.IsAssigned())
	assert.Empty(t, a.Targets())
}

// Targets handed to Assigned must be copied.
func TestAssignment_AssignedCopies(t *testing.T) {
	targets := []int{1, 1}
	a := Assigned(0, targets)
	targets[0] = 7

	src, ok := a.Source()
	require.True(t, ok)
	assert.Equal(t, 0, src)
	assert.Equal(t, []int{1, 1}, a.Targets())
}

func TestBlock_RemoteCount(t *testing.T) {
	nodes := MustNodeMap(0, 0, 1, 1)
	b := NewBlock([]Gate{
		NewGate(CX, []int{0, 2}),
		NewGate(RZ, []int{0}, 0.1),
		NewGate(CX, []int{0, 1}),
		NewGate(CZ, []int{0, 3}),
	}, Unassigned())

	assert.Equal(t, 2, b.RemoteCount(nodes))
	assert.Len(t, b.RemoteGates(nodes), 2)
	assert.Equal(t, []int{0, 1, 2, 3}, b.Support())
}

func TestBlock_CheckInvariant(t *testing.T) {
	nodes := MustNodeMap(0, 1, 1)
	gates := []Gate{NewGate(CX, []int{0, 1}), NewGate(CX, []int{0, 2})}

	ok := NewBlock(gates, Assigned(0, []int{1, 1}))
	assert.NoError(t, ok.CheckInvariant(nodes, 0))

	bad := NewBlock(gates, Assigned(0, []int{1}))
	err := bad.CheckInvariant(nodes, 4)
	require.Error(t, err)
	assert.True(t, IsInvariantViolation(err))

	var irErr *Error
	require.ErrorAs(t, err, &irErr)
	assert.Equal(t, 4, irErr.Index)

	// Deferred blocks carry no targets to check.
	assert.NoError(t, NewBlock(gates[:1], Unassigned()).CheckInvariant(nodes, 0))
}

func TestBlock_WithProtocolLeavesOriginal(t *testing.T) {
	b := NewBlock([]Gate{NewGate(CX, []int{0, 1})}, Assigned(0, []int{1}))
	cat := b.WithProtocol(ProtocolCat)

	assert.Equal(t, ProtocolUndecided, b.Protocol)
	assert.Equal(t, ProtocolCat, cat.Protocol)
	assert.True(t, b.Assignment.Equal(cat.Assignment))
}

func TestFlattenAndCount(t *testing.T) {
	elems := []Element{
		NewGate(H, []int{0}),
		NewBlock([]Gate{NewGate(CX, []int{0, 1}), NewGate(CX, []int{0, 2})}, Unassigned()),
		NewGate(X, []int{2}),
	}
	assert.Equal(t, 4, CountGates(elems))
	assert.Len(t, Flatten(elems), 4)
	assert.Len(t, Blocks(elems), 1)
}

func TestElementRecords_RoundTrip(t *testing.T) {
	elems := []Element{
		NewGate(H, []int{0}),
		NewBlock([]Gate{NewGate(CX, []int{0, 1})}, Assigned(0, []int{1})).WithProtocol(ProtocolTeleport),
		NewBlock([]Gate{NewGate(CZ, []int{2, 1})}, Unassigned()),
	}

	data, err := json.Marshal(EncodeElements(elems))
	require.NoError(t, err)

	var records []ElementRecord
	require.NoError(t, json.Unmarshal(data, &records))
	back, err := DecodeElements(records)
	require.NoError(t, err)
	require.Len(t, back, 3)

	assert.True(t, back[0].(Gate).Equal(elems[0].(Gate)))
	assert.True(t, back[1].(*Block).Equal(elems[1].(*Block)))
	assert.True(t, back[2].(*Block).Equal(elems[2].(*Block)))
}

func TestDecodeElements_UnknownKind(t *testing.T) {
	_, err := DecodeElements([]ElementRecord{{Kind: "barrier"}})
	require.Error(t, err)
	assert.True(t, IsMalformed(err))
}
