package harness

import (
	"github.com/roach88/qdist/internal/circuit"
	"github.com/roach88/qdist/internal/compiler"
	"github.com/roach88/qdist/internal/lower"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every assertion holds.
	Pass bool `json:"pass"`

	// Errors holds one message per failed assertion.
	Errors []string `json:"errors,omitempty"`

	Circuit *circuit.Circuit `json:"-"`
	Plan    *compiler.Plan   `json:"plan"`
	Program *lower.Program   `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
