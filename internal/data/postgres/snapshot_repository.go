// Package postgres provides the PostgreSQL implementation of the
// snapshot repository. Persistence is entirely outside the engine's
// fold: a snapshot is written once, after the input is exhausted.
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/payments-engine/internal/domain/snapshot"
	"github.com/payments-engine/internal/domain/transaction"
	"github.com/payments-engine/internal/platform/persistence"
)

// SnapshotRepository implements the snapshot.Repository interface for PostgreSQL
type SnapshotRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewSnapshotRepository creates a new PostgreSQL snapshot repository.
// It expects db.Pool() to satisfy persistence.Querier.
func NewSnapshotRepository(logger *slog.Logger, db *persistence.PostgresDB) snapshot.Repository {
	return &SnapshotRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction so a whole run's rows
// are persisted atomically.
func (r *SnapshotRepository) WithTx(tx pgx.Tx) snapshot.Repository {
	return &SnapshotRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// SaveRun stores every account row of a batch run.
func (r *SnapshotRepository) SaveRun(ctx context.Context, rows []snapshot.Row) error {
	query := `
		INSERT INTO account_snapshots (run_id, client_id, available, held, total, locked, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for _, row := range rows {
		_, err := r.querier.Exec(ctx, query,
			row.RunID,
			int32(row.ClientID),
			row.Available,
			row.Held,
			row.Total,
			row.Locked,
			row.CreatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to save snapshot row", "run_id", row.RunID.String(), "client", row.ClientID, "error", err)
			return fmt.Errorf("failed to save snapshot row for client %d: %w", row.ClientID, err)
		}
	}

	return nil
}

// GetRun retrieves all snapshot rows of a run, ordered by client id.
func (r *SnapshotRepository) GetRun(ctx context.Context, runID uuid.UUID) ([]snapshot.Row, error) {
	query := `
		SELECT run_id, client_id, available, held, total, locked, created_at
		FROM account_snapshots
		WHERE run_id = $1
		ORDER BY client_id
	`

	pgRows, err := r.querier.Query(ctx, query, runID)
	if err != nil {
		r.logger.Error("Failed to query snapshot run", "run_id", runID.String(), "error", err)
		return nil, fmt.Errorf("failed to get snapshot run: %w", err)
	}
	defer pgRows.Close()

	var rows []snapshot.Row
	for pgRows.Next() {
		var row snapshot.Row
		var clientID int32
		if err := pgRows.Scan(
			&row.RunID,
			&clientID,
			&row.Available,
			&row.Held,
			&row.Total,
			&row.Locked,
			&row.CreatedAt,
		); err != nil {
			r.logger.Error("Failed to scan snapshot row", "run_id", runID.String(), "error", err)
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		row.ClientID = transaction.ClientID(clientID)
		rows = append(rows, row)
	}
	if err := pgRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read snapshot rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, snapshot.ErrRunNotFound{RunID: runID}
	}

	return rows, nil
}
