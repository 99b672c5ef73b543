package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/qdist/internal/ir"
	"github.com/roach88/qdist/internal/lower"
	"github.com/roach88/qdist/internal/testutil"
)

// MaxOracleQubits bounds the circuits the equivalent assertion simulates.
const MaxOracleQubits = 10

// AssertionError is returned when an assertion fails.
// It includes the plan to help debug the failure.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Elements []ir.Element
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nPlan:\n")
	for i, el := range e.Elements {
		fmt.Fprintf(&buf, "  [%d] %v\n", i, el)
	}

	return buf.String()
}

// EvaluateAssertions checks every assertion and returns the failure
// messages. An empty slice means all assertions passed.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	errs := []string{}
	for _, a := range assertions {
		if err := evaluate(result, a); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func evaluate(result *Result, a Assertion) error {
	switch a.Type {
	case AssertEPRCount:
		return assertCount(result, a.Type, "EPR pairs", result.Plan.EPRCount, a.Count, false)
	case AssertMaxEPR:
		return assertCount(result, a.Type, "EPR pairs", result.Plan.EPRCount, a.Count, true)
	case AssertBlockCount:
		return assertCount(result, a.Type, "blocks", len(ir.Blocks(result.Plan.Elements)), a.Count, false)
	case AssertProtocols:
		return assertProtocols(result, a)
	case AssertMaxLatency:
		return assertMaxLatency(result, a)
	case AssertEquivalent:
		return assertEquivalent(result)
	case AssertLoweredEPR:
		return assertLoweredEPR(result)
	default:
		return fmt.Errorf("unknown assertion type: %s", a.Type)
	}
}

func assertCount(result *Result, typ, what string, got, want int, atMost bool) error {
	if got == want || (atMost && got < want) {
		return nil
	}
	expected := fmt.Sprintf("%d %s", want, what)
	if atMost {
		expected = "at most " + expected
	}
	return &AssertionError{
		Type:     typ,
		Expected: expected,
		Actual:   fmt.Sprintf("%d %s", got, what),
		Elements: result.Plan.Elements,
	}
}

func assertProtocols(result *Result, a Assertion) error {
	got := []string{}
	for _, b := range ir.Blocks(result.Plan.Elements) {
		got = append(got, b.Protocol.String())
	}
	want := a.Protocols
	if want == nil {
		want = []string{}
	}
	if slices.Equal(got, want) {
		return nil
	}
	return &AssertionError{
		Type:     AssertProtocols,
		Expected: fmt.Sprintf("%v", want),
		Actual:   fmt.Sprintf("%v", got),
		Elements: result.Plan.Elements,
	}
}

func assertMaxLatency(result *Result, a Assertion) error {
	if result.Plan.Latency <= a.Max {
		return nil
	}
	return &AssertionError{
		Type:     AssertMaxLatency,
		Expected: fmt.Sprintf("latency <= %g", a.Max),
		Actual:   fmt.Sprintf("latency %g", result.Plan.Latency),
		Elements: result.Plan.Elements,
	}
}

func assertEquivalent(result *Result) error {
	n := result.Circuit.Nodes.NumQubits()
	if n > MaxOracleQubits {
		return &AssertionError{
			Type:     AssertEquivalent,
			Expected: fmt.Sprintf("at most %d qubits", MaxOracleQubits),
			Actual:   fmt.Sprintf("%d qubits", n),
		}
	}
	if testutil.Equivalent(n, result.Circuit.Gates, ir.Flatten(result.Plan.Elements)) {
		return nil
	}
	return &AssertionError{
		Type:     AssertEquivalent,
		Expected: "plan equivalent to the input circuit up to global phase",
		Actual:   "unitaries differ",
		Elements: result.Plan.Elements,
	}
}

func assertLoweredEPR(result *Result) error {
	emitted := result.Program.Count(lower.OpEPR)
	if result.Program.EPRCount == result.Plan.EPRCount && emitted == result.Plan.EPRCount {
		return nil
	}
	return &AssertionError{
		Type:     AssertLoweredEPR,
		Expected: fmt.Sprintf("%d EPR operations", result.Plan.EPRCount),
		Actual:   fmt.Sprintf("%d EPR operations", emitted),
		Elements: result.Plan.Elements,
	}
}
