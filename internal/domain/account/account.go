package account

import (
	"errors"

	"github.com/payments-engine/internal/domain/transaction"
	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrInsufficientFunds = errors.New("insufficient available funds for withdrawal")
	ErrInvalidAmount     = errors.New("amount must not be negative")
	ErrAccountLocked     = errors.New("account is locked")
)

// Account represents one client's ledger entry: the funds they can
// spend, the funds frozen under dispute, and whether the account has
// been locked by a chargeback. Total is derived, never stored, so the
// total == available + held invariant cannot drift.
type Account struct {
	ClientID  transaction.ClientID
	Available decimal.Decimal
	Held      decimal.Decimal
	Locked    bool
}

// NewAccount creates an empty, unlocked entry for a client. Entries are
// created lazily on the first record referencing the client.
func NewAccount(clientID transaction.ClientID) *Account {
	return &Account{
		ClientID:  clientID,
		Available: decimal.Zero,
		Held:      decimal.Zero,
	}
}

// Total is the client's full balance: available plus held.
func (a *Account) Total() decimal.Decimal {
	return a.Available.Add(a.Held)
}

// Credit adds the amount to available funds. A zero amount is a valid
// no-op.
func (a *Account) Credit(amount decimal.Decimal) error {
	if a.Locked {
		return ErrAccountLocked
	}
	if amount.IsNegative() {
		return ErrInvalidAmount
	}

	a.Available = a.Available.Add(amount)
	return nil
}

// Debit subtracts the amount from available funds. Available must never
// go negative through a withdrawal; insufficient funds is an expected
// rejection, not a fault.
func (a *Account) Debit(amount decimal.Decimal) error {
	if a.Locked {
		return ErrAccountLocked
	}
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	if a.Available.LessThan(amount) {
		return ErrInsufficientFunds
	}

	a.Available = a.Available.Sub(amount)
	return nil
}

// Hold moves the amount from available into held for a dispute.
// Available may legitimately go negative here: a dispute can outrun
// current liquidity when the funds were already spent.
func (a *Account) Hold(amount decimal.Decimal) error {
	if a.Locked {
		return ErrAccountLocked
	}

	a.Available = a.Available.Sub(amount)
	a.Held = a.Held.Add(amount)
	return nil
}

// Release reverses a hold, returning the amount from held to available.
func (a *Account) Release(amount decimal.Decimal) error {
	if a.Locked {
		return ErrAccountLocked
	}

	a.Held = a.Held.Sub(amount)
	a.Available = a.Available.Add(amount)
	return nil
}

// ChargeBack removes the held amount entirely (total shrinks, nothing
// returns to available) and locks the account. Locked is terminal: no
// operation mutates the entry afterwards.
func (a *Account) ChargeBack(amount decimal.Decimal) error {
	if a.Locked {
		return ErrAccountLocked
	}

	a.Held = a.Held.Sub(amount)
	a.Locked = true
	return nil
}

// CanWithdraw checks if the account has sufficient available funds
func (a *Account) CanWithdraw(amount decimal.Decimal) bool {
	return a.Available.GreaterThanOrEqual(amount)
}
