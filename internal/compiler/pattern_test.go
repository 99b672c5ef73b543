package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qdist/internal/ir"
	"github.com/roach88/qdist/internal/testutil"
)

func TestFuseCRZ_Pattern(t *testing.T) {
	in := testutil.Gates(testutil.H(0), testutil.CX(0, 1), testutil.RZ(1, 0.4), testutil.CX(0, 1), testutil.X(1))

	out, n := FuseCRZ(in)
	require.Equal(t, 1, n)
	assert.Equal(t, testutil.Gates(
		testutil.H(0), testutil.CRZ(0, 1, -0.8), testutil.RZ(1, 0.4), testutil.X(1),
	), out)
	assert.True(t, testutil.Equivalent(2, in, out))
}

func TestFuseCRZ_NoMatch(t *testing.T) {
	tests := map[string][]ir.Gate{
		"rotation on control": testutil.Gates(testutil.CX(0, 1), testutil.RZ(0, 0.4), testutil.CX(0, 1)),
		"second cx reversed":  testutil.Gates(testutil.CX(0, 1), testutil.RZ(1, 0.4), testutil.CX(1, 0)),
		"other control":       testutil.Gates(testutil.CX(0, 1), testutil.RZ(1, 0.4), testutil.CX(2, 1)),
		"rx instead of rz":    testutil.Gates(testutil.CX(0, 1), testutil.RX(1, 0.4), testutil.CX(0, 1)),
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			out, n := FuseCRZ(in)
			assert.Zero(t, n)
			assert.Equal(t, in, out)
		})
	}
}

func TestFuseCRZ_Repeated(t *testing.T) {
	in := testutil.Gates(
		testutil.CX(0, 2), testutil.RZ(2, 0.3), testutil.CX(0, 2),
		testutil.CX(1, 2), testutil.RZ(2, -1.1), testutil.CX(1, 2),
	)
	out, n := FuseCRZ(in)
	assert.Equal(t, 2, n)
	assert.Len(t, out, 4)
	assert.True(t, testutil.Equivalent(3, in, out))
}
