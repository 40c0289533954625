package queries

import (
	"context"

	"github.com/google/uuid"
)

type CreditQueries interface {
	BalanceByUser(ctx context.Context, userID uuid.UUID) (*CreditBalanceView, error)
	TransactionsByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*CreditTransactionView, error)
}

type CreditViewRepo interface {
	FindBalanceByUserID(ctx context.Context, userID uuid.UUID) (*CreditBalanceView, error)
	FindTransactionsByUserID(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]*CreditTransactionView, error)
}

type creditQueriesImpl struct {
	repo CreditViewRepo
}

func NewCreditQueries(repo CreditViewRepo) CreditQueries {
	return &creditQueriesImpl{repo: repo}
}

func (q *creditQueriesImpl) BalanceByUser(ctx context.Context, userID uuid.UUID) (*CreditBalanceView, error) {
	return q.repo.FindBalanceByUserID(ctx, userID)
}

func (q *creditQueriesImpl) TransactionsByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*CreditTransactionView, error) {
	limit, offset = clampPage(limit, offset)
	return q.repo.FindTransactionsByUserID(ctx, userID, int32(limit), int32(offset))
}
