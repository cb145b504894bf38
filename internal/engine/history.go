package engine

import "github.com/payments-engine/internal/domain/transaction"

// history tracks accepted value-bearing transactions so dispute-chain
// records can find their referent. It indexes by transaction id for
// lookups and by client for the purge that follows a chargeback.
type history struct {
	byTx     map[transaction.TxID]*transaction.Stored
	byClient map[transaction.ClientID]map[transaction.TxID]struct{}
}

func newHistory() *history {
	return &history{
		byTx:     make(map[transaction.TxID]*transaction.Stored),
		byClient: make(map[transaction.ClientID]map[transaction.TxID]struct{}),
	}
}

// get returns the stored transaction for a tx id, or nil if unknown.
func (h *history) get(txID transaction.TxID) *transaction.Stored {
	return h.byTx[txID]
}

// contains reports whether any client already owns the tx id. Duplicate
// ids must never re-key an existing stored transaction.
func (h *history) contains(txID transaction.TxID) bool {
	_, ok := h.byTx[txID]
	return ok
}

// insert records an accepted deposit or withdrawal.
func (h *history) insert(txID transaction.TxID, stored *transaction.Stored) {
	h.byTx[txID] = stored

	ids, ok := h.byClient[stored.ClientID]
	if !ok {
		ids = make(map[transaction.TxID]struct{})
		h.byClient[stored.ClientID] = ids
	}
	ids[txID] = struct{}{}
}

// purgeClient drops every stored transaction owned by the client. Called
// when the client's account is locked: bounds memory and guarantees no
// later dispute-chain record can find a referent for a frozen account.
func (h *history) purgeClient(clientID transaction.ClientID) {
	for txID := range h.byClient[clientID] {
		delete(h.byTx, txID)
	}
	delete(h.byClient, clientID)
}
