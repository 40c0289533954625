//go:build unit

package commands_test

import (
	"context"
	"testing"

	"business-daily-deals/internal/domain/credit"
	reqdto "business-daily-deals/internal/handler/dto/request"
	"business-daily-deals/internal/pkg/clock"
	"business-daily-deals/internal/usecase/commands"
	"business-daily-deals/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCreditCommands(uow *fakeUoW, cq *MockCreditQueries) commands.CreditCommands {
	return commands.NewCreditCommands(uow, cq, clock.NewMockClock(testNow))
}

func TestPurchaseCredits(t *testing.T) {
	userID := uuid.New()

	t.Run("credits the balance and writes a purchase entry", func(t *testing.T) {
		uow := newFakeUoW()
		cq := new(MockCreditQueries)

		var entry credit.Transaction
		uow.tx.credits.On("EnsureBalance", mock.Anything, mock.Anything, userID, testNow).Return(nil)
		uow.tx.credits.On("Credit", mock.Anything, mock.Anything, userID, int64(100), testNow).Return(nil)
		uow.tx.credits.On("RecordTransaction", mock.Anything, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				entry = args.Get(2).(credit.Transaction)
			}).Return(nil)
		cq.On("BalanceByUser", mock.Anything, userID).
			Return(&queries.CreditBalanceView{UserID: userID, CreditBalance: 100}, nil)

		uc := newCreditCommands(uow, cq)
		view, err := uc.PurchaseCredits(context.Background(), reqdto.PurchaseCreditsRequest{Amount: 100}, userID)

		require.NoError(t, err)
		assert.Equal(t, int64(100), view.CreditBalance)
		assert.Equal(t, credit.TransactionPurchase, entry.Type)
		assert.Equal(t, int64(100), entry.Amount)
		assert.Equal(t, userID, entry.UserID)
		assert.Nil(t, entry.DealID)
		uow.tx.credits.AssertExpectations(t)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		uow := newFakeUoW()
		cq := new(MockCreditQueries)

		uc := newCreditCommands(uow, cq)
		for _, amount := range []int64{0, -5} {
			_, err := uc.PurchaseCredits(context.Background(), reqdto.PurchaseCreditsRequest{Amount: amount}, userID)
			require.ErrorIs(t, err, commands.ErrInvalidCreditAmount)
		}
		uow.tx.credits.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
