// Package snapshot defines the post-run export of the final account
// table. A snapshot is write-only history: the engine never reads it
// back into a later run.
package snapshot

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/payments-engine/internal/domain/account"
	"github.com/payments-engine/internal/domain/transaction"
	"github.com/shopspring/decimal"
)

// Row is one client's final state within a batch run.
type Row struct {
	RunID     uuid.UUID
	ClientID  transaction.ClientID
	Available decimal.Decimal
	Held      decimal.Decimal
	Total     decimal.Decimal
	Locked    bool
	CreatedAt time.Time
}

// FromAccounts converts the engine's final account table into snapshot
// rows tagged with the run id.
func FromAccounts(runID uuid.UUID, accounts []account.Account, at time.Time) []Row {
	rows := make([]Row, 0, len(accounts))
	for _, acct := range accounts {
		rows = append(rows, Row{
			RunID:     runID,
			ClientID:  acct.ClientID,
			Available: acct.Available,
			Held:      acct.Held,
			Total:     acct.Total(),
			Locked:    acct.Locked,
			CreatedAt: at,
		})
	}
	return rows
}

// Repository defines snapshot persistence operations
type Repository interface {
	SaveRun(ctx context.Context, rows []Row) error
	GetRun(ctx context.Context, runID uuid.UUID) ([]Row, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrRunNotFound indicates no snapshot rows exist for the run
type ErrRunNotFound struct {
	RunID uuid.UUID
}

func (e ErrRunNotFound) Error() string {
	return "no snapshot found for run: " + e.RunID.String()
}
