package shared

import (
	"time"

	"business-daily-deals/internal/domain/coupon"
	"business-daily-deals/internal/domain/deal"

	"github.com/google/uuid"
)

// Minimal snapshots for command-side validation reads

type DealSnapshot struct {
	ID          uuid.UUID
	SupplierID  uuid.UUID
	Title       string
	Description string
	PriceCents  int64
	DealType    string
	Status      string
	ExpiresAt   *time.Time
}

func (s *DealSnapshot) IsExpiredAt(now time.Time) bool {
	if deal.Status(s.Status) == deal.StatusExpired {
		return true
	}
	return s.ExpiresAt != nil && !s.ExpiresAt.After(now)
}

type CouponSnapshot struct {
	ID             uuid.UUID
	Code           string
	DealID         uuid.UUID
	BuyerID        uuid.UUID
	SupplierID     uuid.UUID
	DealTitle      string
	DealPriceCents int64
	Status         string
	ValidUntil     time.Time
	RedeemedAt     *time.Time
}

// EffectiveStatusAt mirrors the read-side rule: an active coupon past its
// validity window reads as expired.
func (s *CouponSnapshot) EffectiveStatusAt(now time.Time) coupon.Status {
	st := coupon.Status(s.Status)
	if st == coupon.StatusActive && now.After(s.ValidUntil) {
		return coupon.StatusExpired
	}
	return st
}

type BalanceSnapshot struct {
	UserID            uuid.UUID
	CreditBalance     int64
	TotalCreditsSpent int64
}

type KeywordMatch struct {
	UserID  uuid.UUID
	Keyword string
}
