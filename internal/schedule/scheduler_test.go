package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qdist/internal/ir"
	"github.com/roach88/qdist/internal/testutil"
)

func block(p ir.Protocol, source int, targets []int, gates ...ir.Gate) *ir.Block {
	return ir.NewBlock(gates, ir.Assigned(source, targets)).WithProtocol(p)
}

func TestSchedule_Empty(t *testing.T) {
	r, err := Schedule(nil, ir.MustNodeMap(0, 1), DefaultLatencies())
	require.NoError(t, err)
	assert.Equal(t, 0, r.EPRCount)
	assert.Zero(t, r.Latency)
}

func TestSchedule_LocalGates(t *testing.T) {
	elems := testutil.Elems(testutil.H(0), testutil.CX(0, 1), testutil.CRZ(1, 0, 0.3))
	r, err := Schedule(elems, ir.MustNodeMap(0, 0), DefaultLatencies())
	require.NoError(t, err)
	assert.Equal(t, 0, r.EPRCount)
	assert.InDelta(t, 0.1+1.0+2.2, r.Latency, 1e-9)
}

func TestSchedule_CatBlock(t *testing.T) {
	elems := []ir.Element{block(ir.ProtocolCat, 0, []int{1}, testutil.CX(0, 1))}
	r, err := Schedule(elems, ir.MustNodeMap(0, 1), DefaultLatencies())
	require.NoError(t, err)

	assert.Equal(t, 1, r.EPRCount)
	assert.Equal(t, 1, r.CatBlocks)
	// EPR 12, CX 1, measure 5, correction 1+0.1, body 1, finish 0.1+5, return 1+0.1
	assert.InDelta(t, 26.3, r.Latency, 1e-9)
	assert.InDelta(t, 26.3, r.State.Data(0), 1e-9)
}

func TestSchedule_TeleportSingleTarget(t *testing.T) {
	elems := []ir.Element{block(ir.ProtocolTeleport, 0, []int{1}, testutil.CX(0, 1))}
	r, err := Schedule(elems, ir.MustNodeMap(0, 1), DefaultLatencies())
	require.NoError(t, err)

	assert.Equal(t, 2, r.EPRCount, "one hop plus the return leg")
	assert.Equal(t, 1, r.Hops)
	assert.InDelta(t, 27.4, r.Latency, 1e-9)
}

func TestSchedule_TeleportRelay(t *testing.T) {
	nodes := ir.MustNodeMap(0, 1, 2)
	elems := []ir.Element{block(ir.ProtocolTeleport, 0, []int{1, 2, 1},
		testutil.CX(0, 1), testutil.CZ(0, 2), testutil.CX(0, 1))}

	r, err := Schedule(elems, nodes, DefaultLatencies())
	require.NoError(t, err)
	assert.Equal(t, 3, r.Hops)
	assert.Equal(t, 4, r.EPRCount)
}

// Cat never costs more EPR pairs than teleport for the same block.
func TestSchedule_EPRMonotonicity(t *testing.T) {
	nodes := ir.MustNodeMap(0, 1, 1)
	gates := []ir.Gate{testutil.CX(0, 1), testutil.RZ(0, 0.2), testutil.CX(0, 2)}

	cat, err := Schedule([]ir.Element{block(ir.ProtocolCat, 0, []int{1, 1}, gates...)}, nodes, DefaultLatencies())
	require.NoError(t, err)
	tp, err := Schedule([]ir.Element{block(ir.ProtocolTeleport, 0, []int{1, 1}, gates...)}, nodes, DefaultLatencies())
	require.NoError(t, err)

	assert.LessOrEqual(t, cat.EPRCount, tp.EPRCount)
}

// Every resource's ready time is non-decreasing as elements are scheduled.
func TestSchedule_ReadyTimesMonotonic(t *testing.T) {
	nodes := ir.MustNodeMap(0, 0, 1, 1, 2)
	elems := []ir.Element{
		testutil.H(0),
		block(ir.ProtocolCat, 0, []int{1, 1}, testutil.CX(0, 2), testutil.CX(0, 3)),
		testutil.CX(2, 3),
		block(ir.ProtocolTeleport, 1, []int{2, 1}, testutil.CZ(1, 4), testutil.CX(1, 2)),
		testutil.RZ(4, 0.4),
		block(ir.ProtocolCat, 4, []int{0}, testutil.CRZ(4, 0, 0.3)),
	}

	var prev map[string]float64
	for k := 0; k <= len(elems); k++ {
		r, err := Schedule(elems[:k], nodes, DefaultLatencies())
		require.NoError(t, err)
		snap := r.State.Snapshot()
		for name, v := range prev {
			assert.GreaterOrEqual(t, snap[name], v, "resource %s after %d element(s)", name, k)
		}
		prev = snap
	}
}

func TestSchedule_Errors(t *testing.T) {
	nodes := ir.MustNodeMap(0, 1)

	_, err := Schedule(testutil.Elems(testutil.CX(0, 1)), nodes, DefaultLatencies())
	assert.True(t, ir.IsInvariantViolation(err), "remote gate outside a block")

	undecided := ir.NewBlock([]ir.Gate{testutil.CX(0, 1)}, ir.Assigned(0, []int{1}))
	_, err = Schedule([]ir.Element{undecided}, nodes, DefaultLatencies())
	assert.True(t, ir.IsInvariantViolation(err), "block without protocol")

	deferred := ir.NewBlock([]ir.Gate{testutil.CX(0, 1)}, ir.Unassigned()).WithProtocol(ir.ProtocolCat)
	_, err = Schedule([]ir.Element{deferred}, nodes, DefaultLatencies())
	assert.True(t, ir.IsInvariantViolation(err), "block without assignment")

	short := block(ir.ProtocolCat, 0, nil, testutil.CX(0, 1))
	_, err = Schedule([]ir.Element{short}, nodes, DefaultLatencies())
	assert.True(t, ir.IsInvariantViolation(err), "target list shorter than remote count")

	empty := block(ir.ProtocolCat, 0, nil, testutil.H(0))
	_, err = Schedule([]ir.Element{empty}, nodes, DefaultLatencies())
	assert.True(t, ir.IsInvariantViolation(err), "cat block without remote gates")
}

func TestHops(t *testing.T) {
	nodes := ir.MustNodeMap(0, 1, 1, 2)
	b := block(ir.ProtocolTeleport, 0, []int{1, 1, 2, 1},
		testutil.RZ(0, 0.1),
		testutil.CX(0, 1), testutil.CX(1, 2), testutil.CX(0, 2),
		testutil.CZ(0, 3),
		testutil.CX(0, 1))

	hops := Hops(b, nodes)
	require.Len(t, hops, 3)
	assert.Equal(t, 1, hops[0].Node)
	assert.Len(t, hops[0].Gates, 4, "leading rotation and local gate join the first run")
	assert.Equal(t, 2, hops[1].Node)
	assert.Equal(t, 1, hops[2].Node)
}

func TestLatencies_Validate(t *testing.T) {
	require.NoError(t, DefaultLatencies().Validate())
	bad := DefaultLatencies()
	bad.EPR = -1
	assert.Error(t, bad.Validate())
}
