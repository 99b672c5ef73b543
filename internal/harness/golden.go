package harness

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot renders a result as stable text: the plan elements followed by
// the lowered program. Latency is left out so timing model changes do not
// churn golden files.
func Snapshot(name string, result *Result) []byte {
	var buf bytes.Buffer
	stats := result.Plan.Stats

	fmt.Fprintf(&buf, "scenario: %s\n", name)
	fmt.Fprintf(&buf, "nodes: %v\n", result.Circuit.Nodes.Slice())
	fmt.Fprintf(&buf, "epr_count: %d\n", result.Plan.EPRCount)
	fmt.Fprintf(&buf, "blocks: %d (cat %d, teleport %d)\n", stats.Blocks, stats.CatBlocks, stats.TeleportBlocks)

	buf.WriteString("\nplan:\n")
	for _, e := range result.Plan.Elements {
		fmt.Fprintf(&buf, "  %v\n", e)
	}

	fmt.Fprintf(&buf, "\nprogram (%d ops, %d bits):\n", len(result.Program.Ops), result.Program.Bits)
	for _, line := range result.Program.Lines() {
		fmt.Fprintf(&buf, "  %s\n", line)
	}
	return buf.Bytes()
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, Snapshot(name, result))
}
