package postgres

import (
	"context"
	"fmt"

	"github.com/phrazzld/nutri-api/internal/journal"
	"github.com/phrazzld/nutri-api/internal/platform/logger"
)

// RunStore implements journal.Store using PostgreSQL.
type RunStore struct {
	db DBTX
}

var _ journal.Store = (*RunStore)(nil)

// NewRunStore creates a RunStore on db.
func NewRunStore(db DBTX) *RunStore {
	return &RunStore{db: db}
}

// Record inserts run into flow_runs.
func (s *RunStore) Record(ctx context.Context, run journal.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO flow_runs (id, flow, outcome, duration_ms, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		run.ID,
		run.Flow,
		string(run.Outcome),
		run.DurationMS,
		run.Error,
		run.CreatedAt.UTC(),
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, nil).Error("failed to record flow run",
			"run_id", run.ID,
			"flow", run.Flow,
			"error", err)
		return fmt.Errorf("failed to record flow run: %w", MapError(err))
	}
	return nil
}

// ListRecent returns up to limit runs newest first, optionally filtered by flow.
func (s *RunStore) ListRecent(ctx context.Context, flow string, limit int) ([]journal.Run, error) {
	log := logger.FromContextOrDefault(ctx, nil)

	query := `
		SELECT id, flow, outcome, duration_ms, error, created_at
		FROM flow_runs
		WHERE ($1 = '' OR flow = $1)
		ORDER BY created_at DESC, id
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, flow, journal.ClampLimit(limit))
	if err != nil {
		log.Error("failed to query flow runs", "flow", flow, "error", err)
		return nil, fmt.Errorf("failed to query flow runs: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	runs := []journal.Run{}
	for rows.Next() {
		var (
			run     journal.Run
			outcome string
		)
		if err := rows.Scan(&run.ID, &run.Flow, &outcome, &run.DurationMS, &run.Error, &run.CreatedAt); err != nil {
			log.Error("failed to scan flow run", "error", err)
			return nil, fmt.Errorf("failed to scan flow run: %w", err)
		}
		run.Outcome = journal.Outcome(outcome)
		run.CreatedAt = run.CreatedAt.UTC()
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		log.Error("failed iterating flow runs", "error", err)
		return nil, fmt.Errorf("failed iterating flow runs: %w", err)
	}

	return runs, nil
}
