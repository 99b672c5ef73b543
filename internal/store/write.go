package store

import (
	"context"
	"fmt"
	"time"
)

// Save inserts rec and returns it with its ID, sequence number and
// creation time set. An empty ID gets a fresh UUIDv7. Saving an ID that is
// already stored is a no-op returning the stored record.
func (s *Store) Save(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = NewID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now().UTC()
	}
	if len(rec.Plan) == 0 {
		return Record{}, fmt.Errorf("save compilation %s: plan is empty", rec.ID)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO compilations
		(id, name, circuit_fingerprint, plan_fingerprint, qubits, nodes, input_gates,
		 blocks, cat_blocks, teleport_blocks, epr_count, latency,
		 compiler_version, plan_version, plan, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		rec.Name,
		rec.CircuitFingerprint,
		rec.PlanFingerprint,
		rec.Qubits,
		rec.Nodes,
		rec.InputGates,
		rec.Blocks,
		rec.CatBlocks,
		rec.TeleportBlocks,
		rec.EPRCount,
		rec.Latency,
		rec.CompilerVersion,
		rec.PlanVersion,
		string(rec.Plan),
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Record{}, fmt.Errorf("save compilation: %w", err)
	}

	return s.Get(ctx, rec.ID)
}
