package coupon

import (
	"time"

	"github.com/google/uuid"
)

// Redemption is the append-only audit record written alongside the coupon's
// status flip. One redemption per coupon, ever.
type Redemption struct {
	ID         uuid.UUID
	CouponID   uuid.UUID
	SupplierID uuid.UUID
	Metadata   RedemptionMetadata
	RedeemedAt time.Time
}

func NewRedemption(couponID, supplierID uuid.UUID, meta RedemptionMetadata, now time.Time) Redemption {
	return Redemption{
		ID:         uuid.New(),
		CouponID:   couponID,
		SupplierID: supplierID,
		Metadata:   meta,
		RedeemedAt: now,
	}
}
