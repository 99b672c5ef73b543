package store

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/qdist/internal/circuit"
	"github.com/roach88/qdist/internal/compiler"
	"github.com/roach88/qdist/internal/ir"
	"github.com/roach88/qdist/internal/testutil"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRecord compiles a small two-node circuit named name.
func createTestRecord(t *testing.T, name string, gates ...ir.Gate) Record {
	t.Helper()
	if len(gates) == 0 {
		gates = testutil.Gates(testutil.CX(0, 1), testutil.CX(1, 0))
	}
	nodes := ir.MustNodeMap(0, 1)
	pipeline := compiler.NewPipeline(compiler.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	plan, err := pipeline.Compile(context.Background(), &circuit.Circuit{Name: name, Nodes: nodes, Gates: gates})
	require.NoError(t, err)

	rec, err := FromPlan(plan, nodes)
	require.NoError(t, err)
	return rec
}
