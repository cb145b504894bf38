// Package ingest normalizes raw CSV input into typed transaction
// records. It is deliberately forgiving: anything it cannot parse is
// coerced to an inert no-op record and counted, never raised as an
// error, so one bad row cannot abort a batch.
package ingest

import (
	"encoding/csv"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/payments-engine/internal/domain/transaction"
	"github.com/shopspring/decimal"
)

// Reader streams normalized records from a CSV source. The expected
// layout is `type, client, tx, amount` with a header row; fields may
// carry surrounding whitespace and the amount column is optional for
// dispute-chain rows.
type Reader struct {
	csv       *csv.Reader
	precision int32
	logger    *slog.Logger

	headerSkipped bool
	malformed     int
}

// NewReader wraps an input stream. Amounts are truncated to the given
// number of fractional digits.
func NewReader(r io.Reader, precision int32, logger *slog.Logger) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // row width is validated here, not by the csv layer
	cr.TrimLeadingSpace = true

	return &Reader{
		csv:       cr,
		precision: precision,
		logger:    logger,
	}
}

// Next returns the next normalized record. Malformed rows come back as
// inert no-op records; io.EOF signals end of input and any other error
// is a real I/O failure on the underlying stream.
func (r *Reader) Next() (transaction.Record, error) {
	for {
		row, err := r.csv.Read()
		if err != nil {
			if parseErr, ok := err.(*csv.ParseError); ok && parseErr.Err != nil && err != io.EOF {
				// Structurally broken row (bare quotes etc.): drop it, keep going.
				r.discard(row, "csv parse error")
				continue
			}
			return transaction.NoOpRecord(), err
		}

		if !r.headerSkipped {
			r.headerSkipped = true
			if len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "type") {
				continue
			}
		}

		rec, ok := r.normalize(row)
		if !ok {
			r.discard(row, "malformed record")
			return transaction.NoOpRecord(), nil
		}
		return rec, nil
	}
}

// Malformed returns how many input rows were coerced to no-ops.
func (r *Reader) Malformed() int {
	return r.malformed
}

// normalize converts one raw row into a typed record. The zero client
// and transaction ids are reserved as "unset" and mark the row inert.
func (r *Reader) normalize(row []string) (transaction.Record, bool) {
	if len(row) < 3 || len(row) > 4 {
		return transaction.NoOpRecord(), false
	}

	typ := transaction.ParseType(row[0])
	if typ == transaction.TypeUnknown {
		return transaction.NoOpRecord(), false
	}

	clientID, err := strconv.ParseUint(strings.TrimSpace(row[1]), 10, 16)
	if err != nil || clientID == 0 {
		return transaction.NoOpRecord(), false
	}

	txID, err := strconv.ParseUint(strings.TrimSpace(row[2]), 10, 32)
	if err != nil || txID == 0 {
		return transaction.NoOpRecord(), false
	}

	rec := transaction.Record{
		Type:     typ,
		ClientID: transaction.ClientID(clientID),
		TxID:     transaction.TxID(txID),
		Amount:   decimal.Zero,
	}

	if typ.Valuable() {
		if len(row) < 4 {
			return transaction.NoOpRecord(), false
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(row[3]))
		if err != nil {
			return transaction.NoOpRecord(), false
		}
		rec.Amount = amount.Truncate(r.precision)
	}

	return rec, true
}

func (r *Reader) discard(row []string, why string) {
	r.malformed++
	r.logger.Debug("input row discarded", "reason", why, "fields", len(row))
}
