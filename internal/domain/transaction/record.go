package transaction

import "github.com/shopspring/decimal"

// ClientID identifies a client account. The input format caps client
// identifiers at 16 bits.
type ClientID uint16

// TxID identifies a value-bearing transaction, globally unique across
// deposits and withdrawals.
type TxID uint32

// Record is a single normalized input row. Amount is only meaningful
// for deposits and withdrawals; dispute-chain records reference an
// earlier transaction's amount instead of carrying their own.
type Record struct {
	Type     Type
	ClientID ClientID
	TxID     TxID
	Amount   decimal.Decimal
}

// NoOpRecord is what malformed input collapses into: the dispatcher
// recognizes TypeUnknown and drops it before any operation runs.
func NoOpRecord() Record {
	return Record{Type: TypeUnknown}
}

// Stored is the engine's memory of an accepted deposit or withdrawal,
// kept so later dispute-chain records can be validated and sized.
type Stored struct {
	ClientID ClientID
	Amount   decimal.Decimal
	Kind     Type // TypeDeposit or TypeWithdrawal
	Disputed bool
}
