// Package engine implements the account ledger engine: a single
// left-to-right fold over normalized transaction records that maintains
// per-client balances, enforces the dispute lifecycle, and isolates
// faults to the client that caused them. Invalid records are discarded
// silently; the reason is kept on the outcome for observability and
// tests, never surfaced to the report.
package engine

import (
	"log/slog"
	"sort"

	"github.com/payments-engine/internal/domain/account"
	"github.com/payments-engine/internal/domain/transaction"
)

// Processor consumes normalized records and exposes the final account
// table. Engine is the sequential implementation; ShardedProcessor
// fans records out across clients while keeping per-client order.
type Processor interface {
	Submit(rec transaction.Record)
	Accounts() []account.Account
	Close()
}

// Engine owns the two mutable maps of the system: client accounts and
// the transaction history. It is single-threaded by design: one record
// is fully applied before the next is considered, and no operation ever
// touches another client's entry.
type Engine struct {
	accounts map[transaction.ClientID]*account.Account
	history  *history
	logger   *slog.Logger
}

// NewEngine creates an empty engine. State lives only for the duration
// of one batch run; the caller reads Accounts once the input is
// exhausted.
func NewEngine(logger *slog.Logger) *Engine {
	return &Engine{
		accounts: make(map[transaction.ClientID]*account.Account),
		history:  newHistory(),
		logger:   logger,
	}
}

// Apply routes one record to its operation and mutates the ledger in
// place. Every anomaly is absorbed into a rejection outcome; Apply
// never fails the run.
func (e *Engine) Apply(rec transaction.Record) transaction.Outcome {
	if rec.Type == transaction.TypeUnknown {
		return e.reject(rec, transaction.RejectionMalformedRecord)
	}

	acct := e.accountFor(rec.ClientID)
	if acct.Locked {
		// Terminal state: nothing addressed to a locked client is applied.
		return e.reject(rec, transaction.RejectionAccountLocked)
	}

	switch rec.Type {
	case transaction.TypeDeposit:
		return e.deposit(acct, rec)
	case transaction.TypeWithdrawal:
		return e.withdrawal(acct, rec)
	case transaction.TypeDispute:
		return e.dispute(acct, rec)
	case transaction.TypeResolve:
		return e.resolve(acct, rec)
	case transaction.TypeChargeback:
		return e.chargeback(acct, rec)
	default:
		return e.reject(rec, transaction.RejectionUnknownType)
	}
}

// Submit implements Processor for the sequential engine.
func (e *Engine) Submit(rec transaction.Record) {
	e.Apply(rec)
}

// Close implements Processor; the sequential engine has nothing to
// release.
func (e *Engine) Close() {}

// Accounts returns a copy of every ledger entry seen during the run,
// sorted by ascending client id for deterministic reporting.
func (e *Engine) Accounts() []account.Account {
	out := make([]account.Account, 0, len(e.accounts))
	for _, acct := range e.accounts {
		out = append(out, *acct)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClientID < out[j].ClientID })
	return out
}

// accountFor returns the client's ledger entry, creating an empty one on
// first reference.
func (e *Engine) accountFor(clientID transaction.ClientID) *account.Account {
	acct, ok := e.accounts[clientID]
	if !ok {
		acct = account.NewAccount(clientID)
		e.accounts[clientID] = acct
	}
	return acct
}

func (e *Engine) deposit(acct *account.Account, rec transaction.Record) transaction.Outcome {
	if rec.Amount.IsNegative() {
		return e.reject(rec, transaction.RejectionInvalidAmount)
	}
	if e.history.contains(rec.TxID) {
		return e.reject(rec, transaction.RejectionDuplicateTx)
	}
	if rec.Amount.IsZero() {
		// Valid record, no balance change and nothing to dispute later.
		return transaction.Applied()
	}

	if err := acct.Credit(rec.Amount); err != nil {
		return e.reject(rec, transaction.RejectionInvalidAmount)
	}
	e.history.insert(rec.TxID, &transaction.Stored{
		ClientID: rec.ClientID,
		Amount:   rec.Amount,
		Kind:     transaction.TypeDeposit,
	})
	return transaction.Applied()
}

func (e *Engine) withdrawal(acct *account.Account, rec transaction.Record) transaction.Outcome {
	if rec.Amount.IsNegative() {
		return e.reject(rec, transaction.RejectionInvalidAmount)
	}
	if e.history.contains(rec.TxID) {
		return e.reject(rec, transaction.RejectionDuplicateTx)
	}
	if rec.Amount.IsZero() {
		return transaction.Applied()
	}

	if err := acct.Debit(rec.Amount); err != nil {
		// Insufficient funds is an expected, non-fatal outcome.
		return e.reject(rec, transaction.RejectionInsufficientFunds)
	}
	e.history.insert(rec.TxID, &transaction.Stored{
		ClientID: rec.ClientID,
		Amount:   rec.Amount,
		Kind:     transaction.TypeWithdrawal,
	})
	return transaction.Applied()
}

func (e *Engine) dispute(acct *account.Account, rec transaction.Record) transaction.Outcome {
	stored, outcome := e.referent(rec, false)
	if stored == nil {
		return outcome
	}

	if err := acct.Hold(stored.Amount); err != nil {
		return e.reject(rec, transaction.RejectionAccountLocked)
	}
	stored.Disputed = true
	return transaction.Applied()
}

func (e *Engine) resolve(acct *account.Account, rec transaction.Record) transaction.Outcome {
	stored, outcome := e.referent(rec, true)
	if stored == nil {
		return outcome
	}

	if err := acct.Release(stored.Amount); err != nil {
		return e.reject(rec, transaction.RejectionAccountLocked)
	}
	// Back to active; the transaction may be disputed again later.
	stored.Disputed = false
	return transaction.Applied()
}

func (e *Engine) chargeback(acct *account.Account, rec transaction.Record) transaction.Outcome {
	stored, outcome := e.referent(rec, true)
	if stored == nil {
		return outcome
	}

	if err := acct.ChargeBack(stored.Amount); err != nil {
		return e.reject(rec, transaction.RejectionAccountLocked)
	}
	e.history.purgeClient(rec.ClientID)
	e.logger.Info("account locked by chargeback",
		"client", rec.ClientID,
		"tx", rec.TxID,
		"amount", stored.Amount.String(),
	)
	return transaction.Applied()
}

// referent validates a dispute-chain record against the history: the
// referenced transaction must exist, belong to the record's client, and
// be at the expected dispute stage. Both deposit- and withdrawal-origin
// transactions go through the identical hold/release state machine; the
// stored amount sizes the move regardless of origin kind.
func (e *Engine) referent(rec transaction.Record, wantDisputed bool) (*transaction.Stored, transaction.Outcome) {
	stored := e.history.get(rec.TxID)
	if stored == nil {
		return nil, e.reject(rec, transaction.RejectionUnknownTx)
	}
	if stored.ClientID != rec.ClientID {
		return nil, e.reject(rec, transaction.RejectionForeignTx)
	}
	if stored.Disputed != wantDisputed {
		if wantDisputed {
			return nil, e.reject(rec, transaction.RejectionNotDisputed)
		}
		return nil, e.reject(rec, transaction.RejectionAlreadyDisputed)
	}
	return stored, transaction.Applied()
}

func (e *Engine) reject(rec transaction.Record, reason transaction.RejectionReason) transaction.Outcome {
	e.logger.Debug("record discarded",
		"type", string(rec.Type),
		"client", rec.ClientID,
		"tx", rec.TxID,
		"reason", string(reason),
	)
	return transaction.Rejected(reason)
}
