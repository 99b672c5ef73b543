package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/qdist/internal/compiler"
	"github.com/roach88/qdist/internal/ir"
)

// Record is one stored compilation.
type Record struct {
	Seq                int64           `json:"seq"`
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	CircuitFingerprint string          `json:"circuit_fingerprint"`
	PlanFingerprint    string          `json:"plan_fingerprint"`
	Qubits             int             `json:"qubits"`
	Nodes              int             `json:"nodes"`
	InputGates         int             `json:"input_gates"`
	Blocks             int             `json:"blocks"`
	CatBlocks          int             `json:"cat_blocks"`
	TeleportBlocks     int             `json:"teleport_blocks"`
	EPRCount           int             `json:"epr_count"`
	Latency            float64         `json:"latency"`
	CompilerVersion    string          `json:"compiler_version"`
	PlanVersion        string          `json:"plan_version"`
	Plan               json.RawMessage `json:"plan,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

// NewID returns a time-ordered record ID.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FromPlan builds a record for plan compiled against nodes. The ID and
// creation time are left for Save to fill in.
func FromPlan(plan *compiler.Plan, nodes ir.NodeMap) (Record, error) {
	data, err := json.Marshal(plan)
	if err != nil {
		return Record{}, fmt.Errorf("encode plan: %w", err)
	}
	return Record{
		Name:               plan.Name,
		CircuitFingerprint: plan.CircuitFingerprint,
		PlanFingerprint:    plan.Fingerprint,
		Qubits:             nodes.NumQubits(),
		Nodes:              nodes.NumNodes(),
		InputGates:         plan.Stats.InputGates,
		Blocks:             plan.Stats.Blocks,
		CatBlocks:          plan.Stats.CatBlocks,
		TeleportBlocks:     plan.Stats.TeleportBlocks,
		EPRCount:           plan.EPRCount,
		Latency:            plan.Latency,
		CompilerVersion:    ir.CompilerVersion,
		PlanVersion:        ir.PlanVersion,
		Plan:               data,
	}, nil
}

// DecodePlan decodes the stored plan JSON.
func (r Record) DecodePlan() (*compiler.Plan, error) {
	var p compiler.Plan
	if err := json.Unmarshal(r.Plan, &p); err != nil {
		return nil, fmt.Errorf("decode plan %s: %w", r.ID, err)
	}
	return &p, nil
}
