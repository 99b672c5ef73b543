package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by Get for an unknown ID.
var ErrNotFound = errors.New("compilation not found")

const selectColumns = `
	SELECT seq, id, name, circuit_fingerprint, plan_fingerprint, qubits, nodes,
	       input_gates, blocks, cat_blocks, teleport_blocks, epr_count, latency,
	       compiler_version, plan_version, plan, created_at
	FROM compilations`

// Get returns the record with id, including its plan.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Record{}, fmt.Errorf("get %s: %w", id, err)
	}
	return rec, nil
}

// List returns up to limit records, newest first. A limit of zero or less
// returns every record.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = -1
	}
	return s.query(ctx, selectColumns+` ORDER BY seq DESC, id COLLATE BINARY ASC LIMIT ?`, limit)
}

// ByCircuit returns every compilation of the circuit with fingerprint fp,
// oldest first.
func (s *Store) ByCircuit(ctx context.Context, fp string) ([]Record, error) {
	return s.query(ctx, selectColumns+` WHERE circuit_fingerprint = ? ORDER BY seq ASC, id COLLATE BINARY ASC`, fp)
}

// ByPlan returns every compilation that produced the plan with fingerprint
// fp, oldest first.
func (s *Store) ByPlan(ctx context.Context, fp string) ([]Record, error) {
	return s.query(ctx, selectColumns+` WHERE plan_fingerprint = ? ORDER BY seq ASC, id COLLATE BINARY ASC`, fp)
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query compilations: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate compilations: %w", err)
	}
	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (Record, error) {
	var (
		rec     Record
		plan    string
		created string
	)
	err := sc.Scan(
		&rec.Seq,
		&rec.ID,
		&rec.Name,
		&rec.CircuitFingerprint,
		&rec.PlanFingerprint,
		&rec.Qubits,
		&rec.Nodes,
		&rec.InputGates,
		&rec.Blocks,
		&rec.CatBlocks,
		&rec.TeleportBlocks,
		&rec.EPRCount,
		&rec.Latency,
		&rec.CompilerVersion,
		&rec.PlanVersion,
		&plan,
		&created,
	)
	if err != nil {
		return Record{}, err
	}

	rec.Plan = []byte(plan)
	rec.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return Record{}, fmt.Errorf("parse created_at of %s: %w", rec.ID, err)
	}
	return rec, nil
}
