// Package report serializes the final account table. Output order is
// deterministic (ascending client id) so runs are comparable.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/payments-engine/internal/domain/account"
)

// Write renders the account table as CSV with a header row. Decimal
// columns are fixed to the given precision, matching the input format.
func Write(w io.Writer, accounts []account.Account, precision int32) error {
	sorted := make([]account.Account, len(accounts))
	copy(sorted, accounts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ClientID < sorted[j].ClientID })

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"client", "available", "held", "total", "locked"}); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}

	for _, acct := range sorted {
		row := []string{
			strconv.FormatUint(uint64(acct.ClientID), 10),
			acct.Available.StringFixed(precision),
			acct.Held.StringFixed(precision),
			acct.Total().StringFixed(precision),
			strconv.FormatBool(acct.Locked),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write report row for client %d: %w", acct.ClientID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush report: %w", err)
	}
	return nil
}
