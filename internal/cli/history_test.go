package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qdist/internal/store"
)

// seedHistory compiles circuits into a fresh database and returns its path
// and the record IDs in compile order.
func seedHistory(t *testing.T, names ...string) (string, []string) {
	t.Helper()
	db := filepath.Join(t.TempDir(), "history.db")

	var ids []string
	for _, name := range names {
		out, err := execute(NewCompileCommand(&RootOptions{Format: "json"}), fixture(name), "--db", db)
		require.NoError(t, err)
		var data compileData
		decode(t, out, &data)
		ids = append(ids, data.RecordID)
	}
	return db, ids
}

func TestHistoryList(t *testing.T) {
	db, ids := seedHistory(t, "single_remote", "mixed_roles", "star")

	out, err := execute(NewHistoryCommand(&RootOptions{Format: "json"}), "--db", db)
	require.NoError(t, err)

	var recs []store.Record
	decode(t, out, &recs)
	require.Len(t, recs, 3)
	assert.Equal(t, ids[2], recs[0].ID)
	assert.Equal(t, ids[0], recs[2].ID)
	for _, r := range recs {
		assert.Empty(t, r.Plan, "listing omits plans")
	}
}

func TestHistoryListText(t *testing.T) {
	db, _ := seedHistory(t, "single_remote", "mixed_roles")

	out, err := execute(NewHistoryCommand(&RootOptions{Format: "text"}), "--db", db, "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "mixed_roles")
	assert.NotContains(t, out, "single_remote")
}

func TestHistoryEmpty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")

	out, err := execute(NewHistoryCommand(&RootOptions{Format: "text"}), "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No compilations recorded.")

	out, err = execute(NewHistoryCommand(&RootOptions{Format: "json"}), "--db", db)
	require.NoError(t, err)
	var recs []store.Record
	decode(t, out, &recs)
	assert.Empty(t, recs)
}

func TestHistoryShow(t *testing.T) {
	db, ids := seedHistory(t, "star")

	out, err := execute(NewHistoryCommand(&RootOptions{Format: "text"}), "--db", db, "--id", ids[0])
	require.NoError(t, err)
	assert.Contains(t, out, "star")
	assert.Contains(t, out, ids[0])
	assert.Contains(t, out, "EPR pairs: 1")
	assert.Contains(t, out, "CX(0,3)")

	out, err = execute(NewHistoryCommand(&RootOptions{Format: "json"}), "--db", db, "--id", ids[0])
	require.NoError(t, err)
	var rec store.Record
	decode(t, out, &rec)
	assert.NotEmpty(t, rec.Plan)

	plan, err := rec.DecodePlan()
	require.NoError(t, err)
	assert.Equal(t, rec.PlanFingerprint, plan.Fingerprint)
}

func TestHistoryByCircuit(t *testing.T) {
	db, _ := seedHistory(t, "star", "single_remote", "star")

	out, err := execute(NewHistoryCommand(&RootOptions{Format: "json"}), "--db", db)
	require.NoError(t, err)
	var all []store.Record
	decode(t, out, &all)
	require.Len(t, all, 3)

	out, err = execute(NewHistoryCommand(&RootOptions{Format: "json"}), "--db", db, "--circuit", all[0].CircuitFingerprint)
	require.NoError(t, err)
	var recs []store.Record
	decode(t, out, &recs)
	require.Len(t, recs, 2)
	for _, r := range recs {
		assert.Equal(t, "star", r.Name)
	}
}

func TestHistoryUnknownID(t *testing.T) {
	db, _ := seedHistory(t, "star")

	_, err := execute(NewHistoryCommand(&RootOptions{Format: "text"}), "--db", db, "--id", "missing")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeNotFound)
}

func TestHistoryRequiresDB(t *testing.T) {
	_, err := execute(NewHistoryCommand(&RootOptions{Format: "text"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db")
}
