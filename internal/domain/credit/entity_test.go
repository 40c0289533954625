//go:build unit

package credit_test

import (
	"testing"
	"time"

	"business-daily-deals/internal/domain/credit"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanceSpend(t *testing.T) {
	userID := uuid.New()

	t.Run("spend within balance", func(t *testing.T) {
		b := credit.RestoreBalance(userID, 100, 0, time.Now())

		require.NoError(t, b.Spend(15))
		assert.Equal(t, int64(85), b.CreditBalance())
		assert.Equal(t, int64(15), b.TotalCreditsSpent())
	})

	t.Run("overspend leaves balance untouched", func(t *testing.T) {
		b := credit.RestoreBalance(userID, 10, 0, time.Now())

		err := b.Spend(15)
		require.ErrorIs(t, err, credit.ErrInsufficientBalance)
		assert.Equal(t, int64(10), b.CreditBalance())
		assert.Equal(t, int64(0), b.TotalCreditsSpent())
	})

	t.Run("non-positive amounts rejected", func(t *testing.T) {
		b := credit.RestoreBalance(userID, 10, 0, time.Now())

		require.ErrorIs(t, b.Spend(0), credit.ErrNonPositiveAmount)
		require.ErrorIs(t, b.Spend(-5), credit.ErrNonPositiveAmount)
		require.ErrorIs(t, b.Add(0), credit.ErrNonPositiveAmount)
		assert.Equal(t, int64(10), b.CreditBalance())
	})
}

func TestBalanceShortfall(t *testing.T) {
	b := credit.RestoreBalance(uuid.New(), 10, 0, time.Now())

	assert.Equal(t, int64(5), b.Shortfall(15))
	assert.Equal(t, int64(0), b.Shortfall(10))
	assert.Equal(t, int64(0), b.Shortfall(3))
}

func TestTransactionSignedAmount(t *testing.T) {
	cases := []struct {
		txType credit.TransactionType
		amount int64
		signed int64
	}{
		{credit.TransactionPurchase, 50, 50},
		{credit.TransactionRefund, 15, 15},
		{credit.TransactionSpend, 15, -15},
	}

	for _, tc := range cases {
		t.Run(string(tc.txType), func(t *testing.T) {
			tx := credit.Transaction{Amount: tc.amount, Type: tc.txType}
			assert.Equal(t, tc.signed, tx.SignedAmount())
		})
	}
}

// The signed sum of a user's ledger entries reconciles with the balance.
func TestLedgerReconciliation(t *testing.T) {
	userID := uuid.New()
	b := credit.NewBalance(userID)

	entries := []credit.Transaction{
		{UserID: userID, Amount: 100, Type: credit.TransactionPurchase},
		{UserID: userID, Amount: 15, Type: credit.TransactionSpend},
		{UserID: userID, Amount: 6, Type: credit.TransactionSpend},
		{UserID: userID, Amount: 6, Type: credit.TransactionRefund},
	}

	for _, e := range entries {
		if e.Type.IsCredit() {
			require.NoError(t, b.Add(e.Amount))
		} else {
			require.NoError(t, b.Spend(e.Amount))
		}
	}

	var sum int64
	for _, e := range entries {
		sum += e.SignedAmount()
	}

	assert.Equal(t, sum, b.CreditBalance())
	assert.Equal(t, int64(85), b.CreditBalance())
	assert.Equal(t, int64(21), b.TotalCreditsSpent())
}
