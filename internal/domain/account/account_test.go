package account

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewAccount(t *testing.T) {
	acc := NewAccount(7)

	assert.EqualValues(t, 7, acc.ClientID)
	assert.True(t, acc.Available.IsZero())
	assert.True(t, acc.Held.IsZero())
	assert.True(t, acc.Total().IsZero())
	assert.False(t, acc.Locked)
}

func TestAccount_Credit(t *testing.T) {
	t.Run("SuccessfulCredit", func(t *testing.T) {
		acc := NewAccount(1)

		require.NoError(t, acc.Credit(dec("5.0")))

		assert.True(t, acc.Available.Equal(dec("5.0")))
		assert.True(t, acc.Total().Equal(dec("5.0")))
	})

	t.Run("ZeroIsNoOp", func(t *testing.T) {
		acc := NewAccount(1)

		require.NoError(t, acc.Credit(decimal.Zero))

		assert.True(t, acc.Available.IsZero())
	})

	t.Run("NegativeRejected", func(t *testing.T) {
		acc := NewAccount(1)

		err := acc.Credit(dec("-1.0"))

		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.True(t, acc.Available.IsZero())
	})

	t.Run("LockedRejected", func(t *testing.T) {
		acc := NewAccount(1)
		acc.Locked = true

		assert.ErrorIs(t, acc.Credit(dec("1.0")), ErrAccountLocked)
	})
}

func TestAccount_Debit(t *testing.T) {
	t.Run("SuccessfulDebit", func(t *testing.T) {
		acc := NewAccount(1)
		require.NoError(t, acc.Credit(dec("5.0")))

		require.NoError(t, acc.Debit(dec("3.0")))

		assert.True(t, acc.Available.Equal(dec("2.0")))
		assert.True(t, acc.Total().Equal(dec("2.0")))
	})

	t.Run("InsufficientFunds", func(t *testing.T) {
		acc := NewAccount(1)
		require.NoError(t, acc.Credit(dec("2.0")))

		err := acc.Debit(dec("10.0"))

		assert.ErrorIs(t, err, ErrInsufficientFunds)
		assert.True(t, acc.Available.Equal(dec("2.0")), "rejected debit must not change available")
	})

	t.Run("ExactBalanceAllowed", func(t *testing.T) {
		acc := NewAccount(1)
		require.NoError(t, acc.Credit(dec("2.0")))

		require.NoError(t, acc.Debit(dec("2.0")))

		assert.True(t, acc.Available.IsZero())
	})

	t.Run("NegativeRejected", func(t *testing.T) {
		acc := NewAccount(1)

		assert.ErrorIs(t, acc.Debit(dec("-1.0")), ErrInvalidAmount)
	})

	t.Run("LockedRejected", func(t *testing.T) {
		acc := NewAccount(1)
		acc.Locked = true

		assert.ErrorIs(t, acc.Debit(dec("1.0")), ErrAccountLocked)
	})
}

func TestAccount_HoldAndRelease(t *testing.T) {
	t.Run("HoldMovesAvailableToHeld", func(t *testing.T) {
		acc := NewAccount(1)
		require.NoError(t, acc.Credit(dec("5.0")))

		require.NoError(t, acc.Hold(dec("5.0")))

		assert.True(t, acc.Available.IsZero())
		assert.True(t, acc.Held.Equal(dec("5.0")))
		assert.True(t, acc.Total().Equal(dec("5.0")), "hold must not change total")
	})

	t.Run("HoldMayDriveAvailableNegative", func(t *testing.T) {
		// Funds already withdrawn can still be disputed; the dispute is
		// not blocked by current liquidity.
		acc := NewAccount(1)
		require.NoError(t, acc.Credit(dec("5.0")))
		require.NoError(t, acc.Debit(dec("4.0")))

		require.NoError(t, acc.Hold(dec("5.0")))

		assert.True(t, acc.Available.Equal(dec("-4.0")))
		assert.True(t, acc.Held.Equal(dec("5.0")))
		assert.True(t, acc.Total().Equal(dec("1.0")))
	})

	t.Run("ReleaseReversesHold", func(t *testing.T) {
		acc := NewAccount(1)
		require.NoError(t, acc.Credit(dec("5.0")))
		require.NoError(t, acc.Hold(dec("5.0")))

		require.NoError(t, acc.Release(dec("5.0")))

		assert.True(t, acc.Available.Equal(dec("5.0")))
		assert.True(t, acc.Held.IsZero())
		assert.True(t, acc.Total().Equal(dec("5.0")))
	})

	t.Run("LockedRejected", func(t *testing.T) {
		acc := NewAccount(1)
		acc.Locked = true

		assert.ErrorIs(t, acc.Hold(dec("1.0")), ErrAccountLocked)
		assert.ErrorIs(t, acc.Release(dec("1.0")), ErrAccountLocked)
	})
}

func TestAccount_ChargeBack(t *testing.T) {
	t.Run("RemovesHeldAndLocks", func(t *testing.T) {
		acc := NewAccount(1)
		require.NoError(t, acc.Credit(dec("5.0")))
		require.NoError(t, acc.Hold(dec("5.0")))

		require.NoError(t, acc.ChargeBack(dec("5.0")))

		assert.True(t, acc.Available.IsZero())
		assert.True(t, acc.Held.IsZero())
		assert.True(t, acc.Total().IsZero(), "charged back funds leave the account entirely")
		assert.True(t, acc.Locked)
	})

	t.Run("AlreadyLockedRejected", func(t *testing.T) {
		acc := NewAccount(1)
		acc.Locked = true

		assert.ErrorIs(t, acc.ChargeBack(dec("1.0")), ErrAccountLocked)
	})
}

func TestAccount_CanWithdraw(t *testing.T) {
	acc := NewAccount(1)
	require.NoError(t, acc.Credit(dec("10.0")))

	assert.True(t, acc.CanWithdraw(dec("5.0")))
	assert.True(t, acc.CanWithdraw(dec("10.0")))
	assert.False(t, acc.CanWithdraw(dec("10.0001")))
}
