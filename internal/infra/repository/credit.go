package repository

import (
	"context"
	"time"

	"business-daily-deals/internal/domain/credit"
	"business-daily-deals/internal/infra"
	"business-daily-deals/internal/infra/db"
	"business-daily-deals/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type CreditRepository struct{}

func NewCreditRepository() *CreditRepository {
	return &CreditRepository{}
}

func (r *CreditRepository) EnsureBalance(ctx context.Context, tx db.DBTX, userID uuid.UUID, now time.Time) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO credit_balances (user_id, credit_balance, total_credits_spent, updated_at)
		VALUES ($1, 0, 0, $2)
		ON CONFLICT (user_id) DO NOTHING
	`, userID, now)
	if err != nil {
		return infra.WrapRepoErr("failed to ensure credit balance row", err)
	}
	return nil
}

func (r *CreditRepository) FindBalance(ctx context.Context, tx db.DBTX, userID uuid.UUID) (*credit.Balance, error) {
	var (
		creditBalance     int64
		totalCreditsSpent int64
		updatedAt         time.Time
	)

	err := tx.QueryRow(ctx, `
		SELECT credit_balance, total_credits_spent, updated_at
		FROM credit_balances
		WHERE user_id = $1
	`, userID).Scan(&creditBalance, &totalCreditsSpent, &updatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("credit balance not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find credit balance", err)
	}

	return credit.RestoreBalance(userID, creditBalance, totalCreditsSpent, updatedAt), nil
}

// DebitIfSufficient relies on the WHERE guard for atomicity: two concurrent
// debits against the same row serialize on the row lock, and the loser
// re-evaluates the guard against the committed balance.
func (r *CreditRepository) DebitIfSufficient(ctx context.Context, tx db.DBTX, userID uuid.UUID, amount int64, now time.Time) error {
	tag, err := tx.Exec(ctx, `
		UPDATE credit_balances
		SET credit_balance = credit_balance - $2,
			total_credits_spent = total_credits_spent + $2,
			updated_at = $3
		WHERE user_id = $1 AND credit_balance >= $2
	`, userID, amount, now)
	if err != nil {
		return infra.WrapRepoErr("failed to debit credits", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("insufficient credit balance", nil, infra.KindConflict)
	}
	return nil
}

func (r *CreditRepository) Credit(ctx context.Context, tx db.DBTX, userID uuid.UUID, amount int64, now time.Time) error {
	tag, err := tx.Exec(ctx, `
		UPDATE credit_balances
		SET credit_balance = credit_balance + $2, updated_at = $3
		WHERE user_id = $1
	`, userID, amount, now)
	if err != nil {
		return infra.WrapRepoErr("failed to credit balance", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("credit balance not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *CreditRepository) RecordTransaction(ctx context.Context, tx db.DBTX, entry credit.Transaction) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO credit_transactions (id, user_id, amount, type, description, deal_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, entry.ID, entry.UserID, entry.Amount, string(entry.Type), entry.Description,
		pgconv.UUIDPtrToPgtype(entry.DealID), entry.CreatedAt)
	if err != nil {
		return infra.WrapRepoErr("failed to record credit transaction", err)
	}
	return nil
}
