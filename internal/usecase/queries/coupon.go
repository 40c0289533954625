package queries

import (
	"context"
	"time"

	"business-daily-deals/internal/infra"
	"business-daily-deals/internal/pkg/clock"

	"github.com/google/uuid"
)

type CouponQueries interface {
	ListByBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]*CouponView, error)
	ListBySupplier(ctx context.Context, supplierID uuid.UUID, limit, offset int) ([]*CouponView, error)
	GetByCode(ctx context.Context, code string) (*CouponView, error)
	Validate(ctx context.Context, code string) (*CouponValidationView, error)
	RedemptionHistory(ctx context.Context, code string) ([]*CouponRedemptionView, error)
}

// CouponViewRepo computes effective status at read time; active coupons past
// their validity window come back as expired.
type CouponViewRepo interface {
	FindByBuyerID(ctx context.Context, buyerID uuid.UUID, now time.Time, limit, offset int32) ([]*CouponView, error)
	FindBySupplierID(ctx context.Context, supplierID uuid.UUID, now time.Time, limit, offset int32) ([]*CouponView, error)
	FindByCode(ctx context.Context, code string, now time.Time) (*CouponView, error)
	FindRedemptionsByCode(ctx context.Context, code string) ([]*CouponRedemptionView, error)
}

type couponQueriesImpl struct {
	repo  CouponViewRepo
	clock clock.Clock
}

func NewCouponQueries(repo CouponViewRepo, clock clock.Clock) CouponQueries {
	return &couponQueriesImpl{repo: repo, clock: clock}
}

func (q *couponQueriesImpl) ListByBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]*CouponView, error) {
	limit, offset = clampPage(limit, offset)
	return q.repo.FindByBuyerID(ctx, buyerID, q.clock.Now(), int32(limit), int32(offset))
}

func (q *couponQueriesImpl) ListBySupplier(ctx context.Context, supplierID uuid.UUID, limit, offset int) ([]*CouponView, error) {
	limit, offset = clampPage(limit, offset)
	return q.repo.FindBySupplierID(ctx, supplierID, q.clock.Now(), int32(limit), int32(offset))
}

func (q *couponQueriesImpl) GetByCode(ctx context.Context, code string) (*CouponView, error) {
	return q.repo.FindByCode(ctx, code, q.clock.Now())
}

// Validate never mutates the coupon. An unknown code is reported in-band
// rather than as an error so the check endpoint always answers 200.
func (q *couponQueriesImpl) Validate(ctx context.Context, code string) (*CouponValidationView, error) {
	view, err := q.repo.FindByCode(ctx, code, q.clock.Now())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return &CouponValidationView{Valid: false, CanRedeem: false, Message: "Coupon not found"}, nil
		}
		return nil, err
	}

	switch view.Status {
	case "redeemed":
		return &CouponValidationView{Valid: true, CanRedeem: false, Message: "Coupon has already been redeemed"}, nil
	case "expired":
		return &CouponValidationView{Valid: true, CanRedeem: false, Message: "Coupon has expired"}, nil
	default:
		return &CouponValidationView{Valid: true, CanRedeem: true, Message: "Coupon is valid"}, nil
	}
}

func (q *couponQueriesImpl) RedemptionHistory(ctx context.Context, code string) ([]*CouponRedemptionView, error) {
	return q.repo.FindRedemptionsByCode(ctx, code)
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 200 {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
