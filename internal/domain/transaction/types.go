package transaction

import "strings"

// Type defines possible transaction operations
type Type string

const (
	TypeDeposit    Type = "DEPOSIT"
	TypeWithdrawal Type = "WITHDRAWAL"
	TypeDispute    Type = "DISPUTE"
	TypeResolve    Type = "RESOLVE"
	TypeChargeback Type = "CHARGEBACK"

	// TypeUnknown marks a record the normalizer could not classify.
	// The dispatcher drops it without side effects.
	TypeUnknown Type = "UNKNOWN"
)

// ParseType normalizes a raw type token into a Type. Matching is
// case-insensitive and tolerant of surrounding whitespace; anything
// unrecognized maps to TypeUnknown rather than an error.
func ParseType(raw string) Type {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "deposit":
		return TypeDeposit
	case "withdrawal":
		return TypeWithdrawal
	case "dispute":
		return TypeDispute
	case "resolve":
		return TypeResolve
	case "chargeback":
		return TypeChargeback
	default:
		return TypeUnknown
	}
}

// Valuable reports whether the type carries an amount of its own
// (deposits and withdrawals create stored transactions; the dispute
// chain only references them).
func (t Type) Valuable() bool {
	return t == TypeDeposit || t == TypeWithdrawal
}

// RejectionReason defines the categories of silently discarded records
type RejectionReason string

const (
	RejectionAccountLocked     RejectionReason = "ACCOUNT_LOCKED"
	RejectionInsufficientFunds RejectionReason = "INSUFFICIENT_FUNDS"
	RejectionInvalidAmount     RejectionReason = "INVALID_AMOUNT"
	RejectionDuplicateTx       RejectionReason = "DUPLICATE_TRANSACTION_ID"
	RejectionUnknownTx         RejectionReason = "UNKNOWN_TRANSACTION_ID"
	RejectionForeignTx         RejectionReason = "FOREIGN_TRANSACTION_ID"
	RejectionNotDisputed       RejectionReason = "TRANSACTION_NOT_DISPUTED"
	RejectionAlreadyDisputed   RejectionReason = "TRANSACTION_ALREADY_DISPUTED"
	RejectionUnknownType       RejectionReason = "UNKNOWN_TRANSACTION_TYPE"
	RejectionMalformedRecord   RejectionReason = "MALFORMED_RECORD"
)

// Outcome is the result of applying a single record. The reporting
// boundary discards rejection reasons (invalid records are silent
// no-ops by design), but keeping them explicit lets tests assert why
// a record was dropped instead of only that nothing changed.
type Outcome struct {
	Applied bool
	Reason  RejectionReason
}

// Applied is the outcome of a successfully applied record.
func Applied() Outcome {
	return Outcome{Applied: true}
}

// Rejected builds a discard outcome carrying the reason.
func Rejected(reason RejectionReason) Outcome {
	return Outcome{Reason: reason}
}
