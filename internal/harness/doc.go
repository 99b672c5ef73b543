// Package harness runs conformance scenarios against the compiler.
//
// # Scenario Format
//
// Scenarios are YAML files. Paths are relative to the scenario file:
//
//	name: star_fanout
//	description: "One control driving three qubits on another node"
//	circuit: ../circuits/star.yaml
//	config: ../configs/fast.cue   # optional, YAML or CUE
//	assertions:
//	  - type: epr_count
//	    count: 1
//	  - type: protocols
//	    protocols: [cat]
//
// # Assertion Types
//
//   - epr_count: the plan consumes exactly count EPR pairs
//   - max_epr: the plan consumes at most count EPR pairs
//   - block_count: the plan has exactly count blocks
//   - protocols: the block protocols, in plan order
//   - max_latency: the scheduled latency does not exceed max
//   - equivalent: the plan implements the input circuit (small circuits only)
//   - lowered_epr: the lowered program consumes the scheduled EPR count
//
// # Golden Snapshots
//
// RunWithGolden renders the plan and its lowered program as text and
// compares it with testdata/golden/{name}.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
