package request

import (
	"time"
)

type CreateDealRequest struct {
	Title              string     `json:"title" binding:"required,max=200"`
	Description        string     `json:"description" binding:"required"`
	Category           string     `json:"category" binding:"required"`
	PriceCents         int64      `json:"price_cents" binding:"min=0"`
	OriginalPriceCents *int64     `json:"original_price_cents,omitempty"`
	DealType           string     `json:"deal_type" binding:"required,oneof=hot regular"`
	ExpiresAt          *time.Time `json:"expires_at,omitempty"`
	Keywords           []string   `json:"keywords,omitempty"`
}

type UpdateDealRequest struct {
	Title              *string    `json:"title,omitempty"`
	Description        *string    `json:"description,omitempty"`
	Category           *string    `json:"category,omitempty"`
	PriceCents         *int64     `json:"price_cents,omitempty"`
	OriginalPriceCents *int64     `json:"original_price_cents,omitempty"`
	DealType           *string    `json:"deal_type,omitempty"`
	Keywords           []string   `json:"keywords,omitempty"`
}

// ExtendDealRequest pushes a deal's expiry to a new date. Outside the
// promotional period the extension is billed in whole credit-days.
type ExtendDealRequest struct {
	NewExpiresAt time.Time `json:"new_expires_at" binding:"required"`
}

type ReactivateDealRequest struct {
	NewExpiresAt time.Time `json:"new_expires_at" binding:"required"`
}
