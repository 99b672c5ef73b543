package compiler

import (
	"fmt"
	"math"

	"github.com/roach88/qdist/internal/ir"
)

// Validation error codes (E100-E199)
const (
	ErrUnknownGateType  = "E100" // gate type outside the supported set
	ErrGateArity        = "E101" // wrong number of qubits for the gate type
	ErrParamCount       = "E102" // wrong number of angle parameters
	ErrQubitOutOfRange  = "E103" // qubit missing from the node map
	ErrDuplicateQubit   = "E104" // two-qubit gate acting twice on one qubit
	ErrNonFiniteParam   = "E105" // NaN or infinite angle
	ErrEmptyNodeMap     = "E106" // circuit has gates but no qubits are placed
	ErrNonFiniteGPhase  = "E107" // NaN or infinite global phase
)

// ValidationError represents a single problem found in an input circuit.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Index   int    `json:"index"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// IRError converts the validation error into the matching ir.Error.
func (e ValidationError) IRError() *ir.Error {
	if e.Code == ErrUnknownGateType {
		return ir.NewUnsupportedGateError(e.Index, "%s", e.Message).WithDetail("field", e.Field)
	}
	return ir.NewMalformedError(e.Index, "%s", e.Message).WithDetail("field", e.Field)
}

// ValidateCircuit checks a gate stream against a node map.
// Returns all errors found (does not fail-fast).
func ValidateCircuit(gates []ir.Gate, nodes ir.NodeMap) []ValidationError {
	var errs []ValidationError

	if len(gates) > 0 && nodes.NumQubits() == 0 {
		errs = append(errs, ValidationError{
			Field:   "nodes",
			Message: "node map is empty",
			Code:    ErrEmptyNodeMap,
			Index:   -1,
		})
	}

	for i, g := range gates {
		errs = append(errs, validateGate(i, g, nodes)...)
	}
	return errs
}

func validateGate(i int, g ir.Gate, nodes ir.NodeMap) []ValidationError {
	field := func(name string) string { return fmt.Sprintf("gates[%d].%s", i, name) }

	if !g.Type.Valid() {
		return []ValidationError{{
			Field:   field("type"),
			Message: fmt.Sprintf("unsupported gate type %d", g.Type),
			Code:    ErrUnknownGateType,
			Index:   i,
		}}
	}

	var errs []ValidationError

	if len(g.Qubits) != g.Type.Arity() {
		errs = append(errs, ValidationError{
			Field:   field("qubits"),
			Message: fmt.Sprintf("%s takes %d qubit(s), got %d", g.Type, g.Type.Arity(), len(g.Qubits)),
			Code:    ErrGateArity,
			Index:   i,
		})
	}
	if len(g.Qubits) == 2 && g.Qubits[0] == g.Qubits[1] {
		errs = append(errs, ValidationError{
			Field:   field("qubits"),
			Message: fmt.Sprintf("%s acts twice on qubit %d", g.Type, g.Qubits[0]),
			Code:    ErrDuplicateQubit,
			Index:   i,
		})
	}
	for j, q := range g.Qubits {
		if !nodes.Contains(q) {
			errs = append(errs, ValidationError{
				Field:   field(fmt.Sprintf("qubits[%d]", j)),
				Message: fmt.Sprintf("qubit %d is not in the node map", q),
				Code:    ErrQubitOutOfRange,
				Index:   i,
			})
		}
	}

	if len(g.Params) != g.Type.NumParams() {
		errs = append(errs, ValidationError{
			Field:   field("params"),
			Message: fmt.Sprintf("%s takes %d parameter(s), got %d", g.Type, g.Type.NumParams(), len(g.Params)),
			Code:    ErrParamCount,
			Index:   i,
		})
	}
	for j, p := range g.Params {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			errs = append(errs, ValidationError{
				Field:   field(fmt.Sprintf("params[%d]", j)),
				Message: fmt.Sprintf("angle %v is not finite", p),
				Code:    ErrNonFiniteParam,
				Index:   i,
			})
		}
	}
	if math.IsNaN(g.GlobalPhase) || math.IsInf(g.GlobalPhase, 0) {
		errs = append(errs, ValidationError{
			Field:   field("global_phase"),
			Message: fmt.Sprintf("global phase %v is not finite", g.GlobalPhase),
			Code:    ErrNonFiniteGPhase,
			Index:   i,
		})
	}

	return errs
}
