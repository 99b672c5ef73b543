package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/qdist/internal/store"
)

func TestBatchJSON(t *testing.T) {
	paths := []string{fixture("single_remote"), fixture("mixed_roles"), fixture("star"), fixture("crz_ladder")}

	out, err := execute(NewBatchCommand(&RootOptions{Format: "json"}), append(paths, "--jobs", "2")...)
	require.NoError(t, err)

	var result BatchResult
	resp := decode(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 4, result.Compiled)
	assert.Zero(t, result.Failed)

	require.Len(t, result.Circuits, 4)
	for i, e := range result.Circuits {
		assert.Equal(t, paths[i], e.Path, "results keep argument order")
		assert.Empty(t, e.Error)
	}
	assert.Equal(t, "single_remote", result.Circuits[0].Name)
	assert.Equal(t, 1, result.Circuits[0].EPRCount)
	assert.Equal(t, 2, result.Circuits[1].EPRCount)
	assert.Equal(t, 1, result.Circuits[2].EPRCount)

	total := 0
	for _, e := range result.Circuits {
		total += e.EPRCount
	}
	assert.Equal(t, total, result.EPRTotal)
}

func TestBatchMatchesCompile(t *testing.T) {
	out, err := execute(NewCompileCommand(&RootOptions{Format: "json"}), fixture("crz_ladder"))
	require.NoError(t, err)
	var single compileData
	decode(t, out, &single)

	out, err = execute(NewBatchCommand(&RootOptions{Format: "json"}), fixture("crz_ladder"), fixture("crz_ladder"), "-j", "2")
	require.NoError(t, err)
	var result BatchResult
	decode(t, out, &result)

	for _, e := range result.Circuits {
		assert.Equal(t, single.Plan.EPRCount, e.EPRCount)
		assert.Equal(t, single.Plan.Stats.Blocks, e.Blocks)
		assert.InDelta(t, single.Plan.Latency, e.Latency, 1e-9)
	}
}

func TestBatchPartialFailure(t *testing.T) {
	broken := writeFile(t, "broken.yaml", "name: broken\nnodes: [0]\ngates:\n  - {type: CX, qubits: [0, 3]}\n")

	out, err := execute(NewBatchCommand(&RootOptions{Format: "text"}), fixture("single_remote"), broken)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	assert.Contains(t, out, "single_remote")
	assert.Contains(t, out, "1 compiled, 1 failed")
}

func TestBatchRecordsHistory(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")

	out, err := execute(NewBatchCommand(&RootOptions{Format: "json"}), fixture("single_remote"), fixture("star"), "--db", db)
	require.NoError(t, err)

	var result BatchResult
	decode(t, out, &result)
	for _, e := range result.Circuits {
		assert.NotEmpty(t, e.RecordID)
	}

	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()

	recs, err := st.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "star", recs[0].Name, "newest first")
	assert.Equal(t, "single_remote", recs[1].Name)
}

func TestBatchWritesMetrics(t *testing.T) {
	metricsFile := filepath.Join(t.TempDir(), "metrics.prom")

	_, err := execute(NewBatchCommand(&RootOptions{Format: "json"}), fixture("single_remote"), fixture("mixed_roles"), "--metrics", metricsFile)
	require.NoError(t, err)

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `qdist_compiler_compilations_total{status="success"}`)
	assert.Contains(t, text, "# TYPE qdist_compiler_blocks_total counter")
	assert.Contains(t, text, `qdist_compiler_blocks_total{protocol="cat"}`)
}

func TestBatchInvalidJobs(t *testing.T) {
	_, err := execute(NewBatchCommand(&RootOptions{Format: "text"}), fixture("star"), "--jobs", "0")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeConfig)
}
