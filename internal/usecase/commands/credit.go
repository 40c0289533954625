package commands

import (
	"context"
	"fmt"

	"business-daily-deals/internal/domain/credit"
	reqdto "business-daily-deals/internal/handler/dto/request"
	"business-daily-deals/internal/pkg/clock"
	"business-daily-deals/internal/pkg/errs"
	"business-daily-deals/internal/usecase/queries"
	"business-daily-deals/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrInvalidCreditAmount = errs.New("credit amount must be positive")

type CreditCommands interface {
	PurchaseCredits(ctx context.Context, req reqdto.PurchaseCreditsRequest, userID uuid.UUID) (*queries.CreditBalanceView, error)
}

type creditCommandsImpl struct {
	uow           shared.UnitOfWork
	creditQueries queries.CreditQueries
	clock         clock.Clock
}

func NewCreditCommands(uow shared.UnitOfWork, creditQueries queries.CreditQueries, clock clock.Clock) CreditCommands {
	return &creditCommandsImpl{
		uow:           uow,
		creditQueries: creditQueries,
		clock:         clock,
	}
}

// PurchaseCredits tops up the balance and appends the matching ledger entry in
// one transaction. Payment capture happens upstream; this records the result.
func (c *creditCommandsImpl) PurchaseCredits(ctx context.Context, req reqdto.PurchaseCreditsRequest, userID uuid.UUID) (*queries.CreditBalanceView, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidCreditAmount
	}

	now := c.clock.Now()
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Credits().EnsureBalance(ctx, tx.DB(), userID, now); err != nil {
			return err
		}
		if err := tx.Credits().Credit(ctx, tx.DB(), userID, req.Amount, now); err != nil {
			return err
		}
		return tx.Credits().RecordTransaction(ctx, tx.DB(), credit.Transaction{
			ID:          uuid.New(),
			UserID:      userID,
			Amount:      req.Amount,
			Type:        credit.TransactionPurchase,
			Description: fmt.Sprintf("Purchase of %d credit(s)", req.Amount),
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return c.creditQueries.BalanceByUser(ctx, userID)
}
