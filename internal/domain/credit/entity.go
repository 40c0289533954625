package credit

import (
	"time"

	"business-daily-deals/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInsufficientBalance = errs.New("insufficient credit balance")
	ErrNonPositiveAmount   = errs.New("credit amount must be positive")
)

// Balance is a user's advertising credit account. The balance never goes
// negative: Spend refuses to mutate when the amount exceeds the balance.
type Balance struct {
	userID            uuid.UUID
	creditBalance     int64
	totalCreditsSpent int64
	updatedAt         time.Time
}

func NewBalance(userID uuid.UUID) *Balance {
	return &Balance{userID: userID}
}

func RestoreBalance(userID uuid.UUID, creditBalance, totalCreditsSpent int64, updatedAt time.Time) *Balance {
	return &Balance{
		userID:            userID,
		creditBalance:     creditBalance,
		totalCreditsSpent: totalCreditsSpent,
		updatedAt:         updatedAt,
	}
}

func (b *Balance) UserID() uuid.UUID        { return b.userID }
func (b *Balance) CreditBalance() int64     { return b.creditBalance }
func (b *Balance) TotalCreditsSpent() int64 { return b.totalCreditsSpent }
func (b *Balance) UpdatedAt() time.Time     { return b.updatedAt }

func (b *Balance) CanSpend(amount int64) bool {
	return amount > 0 && b.creditBalance >= amount
}

// Shortfall returns how many credits are missing to spend amount, zero when
// the balance covers it.
func (b *Balance) Shortfall(amount int64) int64 {
	if b.creditBalance >= amount {
		return 0
	}
	return amount - b.creditBalance
}

func (b *Balance) Spend(amount int64) error {
	if amount <= 0 {
		return ErrNonPositiveAmount
	}
	if b.creditBalance < amount {
		return ErrInsufficientBalance
	}
	b.creditBalance -= amount
	b.totalCreditsSpent += amount
	return nil
}

func (b *Balance) Add(amount int64) error {
	if amount <= 0 {
		return ErrNonPositiveAmount
	}
	b.creditBalance += amount
	return nil
}

// Transaction is one append-only ledger entry. Entries are never updated or
// deleted; corrections happen via refund entries.
type Transaction struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Amount      int64
	Type        TransactionType
	Description string
	DealID      *uuid.UUID
	CreatedAt   time.Time
}

// SignedAmount is positive for purchases/refunds and negative for spends, so
// summing a user's transactions reconciles with the stored balance.
func (t Transaction) SignedAmount() int64 {
	if t.Type.IsCredit() {
		return t.Amount
	}
	return -t.Amount
}
