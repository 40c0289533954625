package coupon

import (
	"time"

	"business-daily-deals/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrExpired         = errs.New("coupon has expired")
	ErrAlreadyRedeemed = errs.New("coupon has already been redeemed")
	ErrNotActive       = errs.New("coupon is not active")
)

// Coupon is a buyer's voucher against a specific deal. Deal title, price and
// description are snapshotted at issuance so the voucher stays meaningful even
// if the deal is later edited or hard-deleted.
type Coupon struct {
	id              uuid.UUID
	code            string
	dealID          uuid.UUID
	buyerID         uuid.UUID
	supplierID      uuid.UUID
	dealTitle       string
	dealPriceCents  int64
	dealDescription string
	validUntil      time.Time
	status          Status
	redeemedAt      *time.Time
	createdAt       time.Time
	updatedAt       time.Time
}

func Issue(
	dealID, buyerID, supplierID uuid.UUID,
	dealTitle string,
	dealPriceCents int64,
	dealDescription string,
	code string,
	validityDays int,
	now time.Time,
) *Coupon {
	return &Coupon{
		id:              uuid.New(),
		code:            code,
		dealID:          dealID,
		buyerID:         buyerID,
		supplierID:      supplierID,
		dealTitle:       dealTitle,
		dealPriceCents:  dealPriceCents,
		dealDescription: dealDescription,
		validUntil:      now.AddDate(0, 0, validityDays),
		status:          StatusActive,
		createdAt:       now,
		updatedAt:       now,
	}
}

func Restore(
	id uuid.UUID,
	code string,
	dealID, buyerID, supplierID uuid.UUID,
	dealTitle string,
	dealPriceCents int64,
	dealDescription string,
	validUntil time.Time,
	status Status,
	redeemedAt *time.Time,
	createdAt, updatedAt time.Time,
) *Coupon {
	return &Coupon{
		id:              id,
		code:            code,
		dealID:          dealID,
		buyerID:         buyerID,
		supplierID:      supplierID,
		dealTitle:       dealTitle,
		dealPriceCents:  dealPriceCents,
		dealDescription: dealDescription,
		validUntil:      validUntil,
		status:          status,
		redeemedAt:      redeemedAt,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// EffectiveStatusAt evaluates expiry lazily: an active coupon past its
// validUntil reports expired without a status write.
func (c *Coupon) EffectiveStatusAt(now time.Time) Status {
	if c.status == StatusActive && now.After(c.validUntil) {
		return StatusExpired
	}
	return c.status
}

func (c *Coupon) CanRedeemAt(now time.Time) bool {
	return c.EffectiveStatusAt(now) == StatusActive
}

// Redeem transitions active → redeemed exactly once. A coupon past its
// validity window or in any non-active status fails without mutating state.
func (c *Coupon) Redeem(now time.Time) error {
	switch c.EffectiveStatusAt(now) {
	case StatusRedeemed:
		return ErrAlreadyRedeemed
	case StatusExpired:
		return ErrExpired
	case StatusActive:
		c.status = StatusRedeemed
		c.redeemedAt = &now
		c.updatedAt = now
		return nil
	default:
		return ErrNotActive
	}
}

func (c *Coupon) ID() uuid.UUID          { return c.id }
func (c *Coupon) Code() string           { return c.code }
func (c *Coupon) DealID() uuid.UUID      { return c.dealID }
func (c *Coupon) BuyerID() uuid.UUID     { return c.buyerID }
func (c *Coupon) SupplierID() uuid.UUID  { return c.supplierID }
func (c *Coupon) DealTitle() string      { return c.dealTitle }
func (c *Coupon) DealPriceCents() int64  { return c.dealPriceCents }
func (c *Coupon) DealDescription() string { return c.dealDescription }
func (c *Coupon) ValidUntil() time.Time  { return c.validUntil }
func (c *Coupon) Status() Status         { return c.status }
func (c *Coupon) RedeemedAt() *time.Time { return c.redeemedAt }
func (c *Coupon) CreatedAt() time.Time   { return c.createdAt }
func (c *Coupon) UpdatedAt() time.Time   { return c.updatedAt }
