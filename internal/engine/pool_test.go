package engine

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/payments-engine/internal/domain/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestShardedProcessor(t *testing.T, shards int) *ShardedProcessor {
	t.Helper()
	p, err := NewShardedProcessor(shards, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return p
}

func TestNewShardedProcessor_InvalidShardCount(t *testing.T) {
	_, err := NewShardedProcessor(0, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}

func TestShardedProcessor_MatchesSequentialEngine(t *testing.T) {
	// Interleave records for many clients, including full dispute
	// chains, and check the sharded fold lands on the same final table
	// as the sequential one.
	var recs []transaction.Record
	for c := transaction.ClientID(1); c <= 20; c++ {
		base := transaction.TxID(c) * 100
		recs = append(recs,
			deposit(c, base+1, "10.0"),
			deposit(c, base+2, "2.5"),
			withdrawal(c, base+3, "4.0"),
			dispute(c, base+1),
		)
		if c%3 == 0 {
			recs = append(recs, resolve(c, base+1))
		}
		if c%5 == 0 {
			recs = append(recs, chargeback(c, base+1))
		}
	}

	sequential := newTestEngine()
	for _, rec := range recs {
		sequential.Apply(rec)
	}

	for _, shards := range []int{1, 3, 8} {
		t.Run(fmt.Sprintf("Shards%d", shards), func(t *testing.T) {
			p := newTestShardedProcessor(t, shards)
			for _, rec := range recs {
				p.Submit(rec)
			}
			p.Close()

			want := sequential.Accounts()
			got := p.Accounts()
			require.Len(t, got, len(want))
			for i := range want {
				assert.Equal(t, want[i].ClientID, got[i].ClientID)
				assert.True(t, want[i].Available.Equal(got[i].Available), "available mismatch for client %d", want[i].ClientID)
				assert.True(t, want[i].Held.Equal(got[i].Held), "held mismatch for client %d", want[i].ClientID)
				assert.Equal(t, want[i].Locked, got[i].Locked, "lock mismatch for client %d", want[i].ClientID)
			}
		})
	}
}

func TestShardedProcessor_PreservesPerClientOrder(t *testing.T) {
	// A deposit followed by a withdrawal that only succeeds if the
	// deposit was applied first, repeated enough to catch reordering.
	p := newTestShardedProcessor(t, 4)

	const rounds = 500
	var tx transaction.TxID
	for i := 0; i < rounds; i++ {
		client := transaction.ClientID(i%16 + 1)
		p.Submit(deposit(client, tx+1, "1.0"))
		p.Submit(withdrawal(client, tx+2, "1.0"))
		tx += 2
	}
	p.Close()

	for _, acct := range p.Accounts() {
		assert.True(t, acct.Available.IsZero(),
			"client %d should end flat, got %s", acct.ClientID, acct.Available)
	}
}

func TestShardedProcessor_AccountsSorted(t *testing.T) {
	p := newTestShardedProcessor(t, 3)
	for _, c := range []transaction.ClientID{42, 7, 19, 3} {
		p.Submit(deposit(c, transaction.TxID(c), "1.0"))
	}
	p.Close()

	accounts := p.Accounts()
	require.Len(t, accounts, 4)
	for i := 1; i < len(accounts); i++ {
		assert.Less(t, accounts[i-1].ClientID, accounts[i].ClientID)
	}
}
