package readstore

import (
	"context"

	"business-daily-deals/internal/infra"
	"business-daily-deals/internal/infra/db"
	"business-daily-deals/internal/pkg/pgconv"
	"business-daily-deals/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type CreditReadStore struct {
	db db.DBTX
}

func NewCreditReadStore(db db.DBTX) *CreditReadStore {
	return &CreditReadStore{db: db}
}

func (r *CreditReadStore) FindBalanceByUserID(ctx context.Context, userID uuid.UUID) (*queries.CreditBalanceView, error) {
	var v queries.CreditBalanceView
	err := r.db.QueryRow(ctx, `
		SELECT user_id, credit_balance, total_credits_spent, updated_at
		FROM credit_balances
		WHERE user_id = $1
	`, userID).Scan(&v.UserID, &v.CreditBalance, &v.TotalCreditsSpent, &v.UpdatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("credit balance not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find credit balance view", err)
	}
	return &v, nil
}

func (r *CreditReadStore) FindTransactionsByUserID(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]*queries.CreditTransactionView, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, amount, type, description, deal_id, created_at
		FROM credit_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list credit transactions", err)
	}
	defer rows.Close()

	var views []*queries.CreditTransactionView
	for rows.Next() {
		var (
			v      queries.CreditTransactionView
			dealID pgtype.UUID
		)
		if err := rows.Scan(&v.ID, &v.Amount, &v.Type, &v.Description, &dealID, &v.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan credit transaction view", err)
		}
		v.DealID = pgconv.UUIDPtrFromPgtype(dealID)
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate credit transactions", err)
	}
	return views, nil
}
