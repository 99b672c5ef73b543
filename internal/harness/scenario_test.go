package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario_ResolvesPaths(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "f_fused_ladder.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "f_fused_ladder", s.Name)
	assert.Equal(t, filepath.Join("testdata", "circuits", "crz_ladder.yaml"), s.Circuit)
	assert.Equal(t, filepath.Join("testdata", "configs", "fused.cue"), s.Config)
	require.Len(t, s.Assertions, 3)
	assert.Equal(t, AssertMaxEPR, s.Assertions[0].Type)
}

func TestLoadScenario_UnknownField(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "c.yaml", "name: c\nnodes: [0]\ngates: []\n")
	path := writeFile(t, dir, "s.yaml", `
name: typo
description: "misspelled key"
circuit: c.yaml
assertion:
  - type: epr_count
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "assertion")
}

func TestLoadScenario_Validation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "c.yaml", "name: c\nnodes: [0]\ngates: []\n")

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"missing name", "description: d\ncircuit: c.yaml\nassertions: [{type: equivalent}]\n", "name is required"},
		{"missing description", "name: n\ncircuit: c.yaml\nassertions: [{type: equivalent}]\n", "description is required"},
		{"missing circuit", "name: n\ndescription: d\nassertions: [{type: equivalent}]\n", "circuit is required"},
		{"circuit not found", "name: n\ndescription: d\ncircuit: nope.yaml\nassertions: [{type: equivalent}]\n", "circuit file not found"},
		{"config not found", "name: n\ndescription: d\ncircuit: c.yaml\nconfig: nope.cue\nassertions: [{type: equivalent}]\n", "config file not found"},
		{"no assertions", "name: n\ndescription: d\ncircuit: c.yaml\n", "assertions list is required"},
		{"unknown type", "name: n\ndescription: d\ncircuit: c.yaml\nassertions: [{type: magic}]\n", "unknown assertion type"},
		{"negative count", "name: n\ndescription: d\ncircuit: c.yaml\nassertions: [{type: epr_count, count: -1}]\n", "count must be non-negative"},
		{"bad protocol", "name: n\ndescription: d\ncircuit: c.yaml\nassertions: [{type: protocols, protocols: [swap]}]\n", "unknown protocol"},
		{"zero latency", "name: n\ndescription: d\ncircuit: c.yaml\nassertions: [{type: max_latency}]\n", "max must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, "s.yaml", tt.content)
			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadDir(t *testing.T) {
	scenarios, err := LoadDir(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)
	require.Len(t, scenarios, 7)
	assert.Equal(t, "a_single_remote", scenarios[0].Name)
	assert.Equal(t, "g_slow_links", scenarios[6].Name)
}
