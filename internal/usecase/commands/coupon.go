package commands

import (
	"context"

	"business-daily-deals/internal/domain/coupon"
	reqdto "business-daily-deals/internal/handler/dto/request"
	"business-daily-deals/internal/infra"
	"business-daily-deals/internal/pkg/clock"
	"business-daily-deals/internal/pkg/config"
	"business-daily-deals/internal/pkg/errs"
	"business-daily-deals/internal/usecase/queries"
	"business-daily-deals/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrCouponNotFound        = errs.New("coupon not found")
	ErrCouponExpired         = errs.New("coupon has expired")
	ErrCouponAlreadyRedeemed = errs.New("coupon already redeemed")
	ErrNotCouponSupplier     = errs.New("coupon belongs to another supplier")
)

// RedemptionContext is the audit trail captured at the point of sale.
type RedemptionContext struct {
	Location  *string
	Notes     *string
	IPAddress *string
	UserAgent *string
}

type CouponCommands interface {
	GenerateCoupon(ctx context.Context, req reqdto.GenerateCouponRequest, buyerID uuid.UUID) (*queries.CouponView, error)
	RedeemCoupon(ctx context.Context, req reqdto.RedeemCouponRequest, supplierID uuid.UUID, rc RedemptionContext) (*queries.CouponView, error)
}

type couponCommandsImpl struct {
	uow           shared.UnitOfWork
	couponQueries queries.CouponQueries
	clock         clock.Clock
	cfg           config.CouponsConfig
}

func NewCouponCommands(
	uow shared.UnitOfWork,
	couponQueries queries.CouponQueries,
	clock clock.Clock,
	cfg config.CouponsConfig,
) CouponCommands {
	return &couponCommandsImpl{
		uow:           uow,
		couponQueries: couponQueries,
		clock:         clock,
		cfg:           cfg,
	}
}

// GenerateCoupon issues a voucher against an active deal, snapshotting the
// deal's title, price and description so the voucher stands on its own.
func (c *couponCommandsImpl) GenerateCoupon(ctx context.Context, req reqdto.GenerateCouponRequest, buyerID uuid.UUID) (*queries.CouponView, error) {
	dealID, err := uuid.Parse(req.DealID)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	snap, err := c.uow.CommandReads().DealByID(ctx, dealID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	now := c.clock.Now()
	if snap.IsExpiredAt(now) {
		return nil, ErrDealNotActive
	}

	code := coupon.GenerateCode(c.cfg.CodePrefix, now)
	issued := coupon.Issue(
		snap.ID, buyerID, snap.SupplierID,
		snap.Title, snap.PriceCents, snap.Description,
		code, c.cfg.ValidityDays, now,
	)
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Coupons().Create(ctx, tx.DB(), issued)
	})
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return c.couponQueries.GetByCode(ctx, code)
}

// RedeemCoupon flips the voucher exactly once. The guarded UPDATE is the
// arbiter under concurrency; the preceding snapshot read only shapes the error.
func (c *couponCommandsImpl) RedeemCoupon(ctx context.Context, req reqdto.RedeemCouponRequest, supplierID uuid.UUID, rc RedemptionContext) (*queries.CouponView, error) {
	snap, err := c.uow.CommandReads().CouponByCode(ctx, req.Code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if snap.SupplierID != supplierID {
		return nil, ErrNotCouponSupplier
	}

	now := c.clock.Now()
	switch snap.EffectiveStatusAt(now) {
	case coupon.StatusRedeemed:
		return nil, ErrCouponAlreadyRedeemed
	case coupon.StatusExpired:
		// Persist the lazily observed expiry while we are here
		err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			return tx.Coupons().MarkExpired(ctx, tx.DB(), snap.ID, now)
		})
		if err != nil {
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil, ErrCouponExpired
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Coupons().RedeemIfActive(ctx, tx.DB(), req.Code, now); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				// Lost the race against a concurrent redemption
				return ErrCouponAlreadyRedeemed
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		rec := coupon.NewRedemption(snap.ID, supplierID, coupon.RedemptionMetadata{
			Location:  rc.Location,
			Notes:     rc.Notes,
			IPAddress: rc.IPAddress,
			UserAgent: rc.UserAgent,
		}, now)
		return tx.Coupons().RecordRedemption(ctx, tx.DB(), rec)
	})
	if err != nil {
		return nil, err
	}

	return c.couponQueries.GetByCode(ctx, req.Code)
}
