package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type DealView struct {
	ID                 uuid.UUID  `json:"id"`
	SupplierID         uuid.UUID  `json:"supplier_id"`
	SupplierCompany    *string    `json:"supplier_company,omitempty"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Category           string     `json:"category"`
	PriceCents         int64      `json:"price_cents"`
	OriginalPriceCents *int64     `json:"original_price_cents,omitempty"`
	DealType           string     `json:"deal_type"`
	Status             string     `json:"status"`
	ExpiresAt          *time.Time `json:"expires_at,omitempty"`
	Keywords           []string   `json:"keywords"`
	ViewCount          int64      `json:"view_count"`
	ClickCount         int64      `json:"click_count"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type DealListItem struct {
	ID                 uuid.UUID  `json:"id"`
	SupplierID         uuid.UUID  `json:"supplier_id"`
	Title              string     `json:"title"`
	Category           string     `json:"category"`
	PriceCents         int64      `json:"price_cents"`
	OriginalPriceCents *int64     `json:"original_price_cents,omitempty"`
	DealType           string     `json:"deal_type"`
	Status             string     `json:"status"`
	ExpiresAt          *time.Time `json:"expires_at,omitempty"`
	ViewCount          int64      `json:"view_count"`
	CreatedAt          time.Time  `json:"created_at"`
}

// DealFilter narrows deal listings. A nil field means "any"; Category "All"
// is treated the same as nil. Search matches title and description as a
// case-insensitive substring.
type DealFilter struct {
	Category       *string
	DealType       *string
	SupplierID     *uuid.UUID
	Search         *string
	IncludeExpired bool
	OnlyExpired    bool
}

type CouponView struct {
	ID              uuid.UUID  `json:"id"`
	Code            string     `json:"code"`
	DealID          uuid.UUID  `json:"deal_id"`
	BuyerID         uuid.UUID  `json:"buyer_id"`
	SupplierID      uuid.UUID  `json:"supplier_id"`
	DealTitle       string     `json:"deal_title"`
	DealPriceCents  int64      `json:"deal_price_cents"`
	DealDescription string     `json:"deal_description"`
	Status          string     `json:"status"`
	ValidUntil      time.Time  `json:"valid_until"`
	RedeemedAt      *time.Time `json:"redeemed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// CouponValidationView answers "can this code be used right now" without
// touching the coupon.
type CouponValidationView struct {
	Valid     bool   `json:"valid"`
	CanRedeem bool   `json:"can_redeem"`
	Message   string `json:"message"`
}

type CouponRedemptionView struct {
	ID         uuid.UUID `json:"id"`
	CouponID   uuid.UUID `json:"coupon_id"`
	SupplierID uuid.UUID `json:"supplier_id"`
	Location   *string   `json:"location,omitempty"`
	Notes      *string   `json:"notes,omitempty"`
	RedeemedAt time.Time `json:"redeemed_at"`
}

type CreditBalanceView struct {
	UserID            uuid.UUID `json:"user_id"`
	CreditBalance     int64     `json:"credit_balance"`
	TotalCreditsSpent int64     `json:"total_credits_spent"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type CreditTransactionView struct {
	ID          uuid.UUID  `json:"id"`
	Amount      int64      `json:"amount"`
	Type        string     `json:"type"`
	Description string     `json:"description"`
	DealID      *uuid.UUID `json:"deal_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type NotificationView struct {
	ID        uuid.UUID  `json:"id"`
	DealID    uuid.UUID  `json:"deal_id"`
	Keyword   string     `json:"keyword"`
	Message   string     `json:"message"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type KeywordSubscriptionView struct {
	Keyword   string    `json:"keyword"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthorizedUserView struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	CompanyName *string   `json:"company_name,omitempty"`
	IsActive    bool      `json:"is_active"`
}
