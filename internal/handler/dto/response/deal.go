package response

import (
	"time"

	"business-daily-deals/internal/usecase/commands"
	"business-daily-deals/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type DealResponse struct {
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

type DealListResponse struct {
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

type ExtendDealResponse struct {
	Deal           *DealResponse `json:"deal"`
	ExtraDays      int64         `json:"extra_days"`
	CreditsPerDay  int64         `json:"credits_per_day"`
	CreditsCharged int64         `json:"credits_charged"`
	PromoApplied   bool          `json:"promo_applied"`
}

func FromDealView(v *queries.DealView) *DealResponse {
	resp := &DealResponse{}
	_ = copier.Copy(resp, v)
	return resp
}

func FromDealListItems(items []*queries.DealListItem) []*DealListResponse {
	out := make([]*DealListResponse, 0, len(items))
	for _, item := range items {
		resp := &DealListResponse{}
		_ = copier.Copy(resp, item)
		out = append(out, resp)
	}
	return out
}

func FromExtendResult(r *commands.ExtendDealResult) *ExtendDealResponse {
	return &ExtendDealResponse{
		Deal:           FromDealView(r.Deal),
		ExtraDays:      r.ExtraDays,
		CreditsPerDay:  r.CreditsPerDay,
		CreditsCharged: r.CreditsCharged,
		PromoApplied:   r.PromoApplied,
	}
}
