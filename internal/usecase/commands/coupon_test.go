//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"business-daily-deals/internal/domain/coupon"
	"business-daily-deals/internal/domain/deal"
	reqdto "business-daily-deals/internal/handler/dto/request"
	"business-daily-deals/internal/infra"
	"business-daily-deals/internal/pkg/clock"
	"business-daily-deals/internal/pkg/config"
	"business-daily-deals/internal/usecase/commands"
	"business-daily-deals/internal/usecase/queries"
	"business-daily-deals/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testCouponsConfig() config.CouponsConfig {
	return config.CouponsConfig{ValidityDays: 30, CodePrefix: "BDD"}
}

func newCouponCommands(uow *fakeUoW, cq *MockCouponQueries) commands.CouponCommands {
	return commands.NewCouponCommands(uow, cq, clock.NewMockClock(testNow), testCouponsConfig())
}

func restoredCoupon(supplierID uuid.UUID, status coupon.Status, validUntil time.Time) *coupon.Coupon {
	return coupon.Restore(
		uuid.New(), "BDD-20250501090000-A1B2C3D4",
		uuid.New(), uuid.New(), supplierID,
		"Pallet of printer paper", 49900, "A4 80gsm, 200 reams",
		validUntil, status, nil,
		testNow.AddDate(0, 0, -31), testNow.AddDate(0, 0, -31),
	)
}

func dealSnapshot(d *deal.Deal) *shared.DealSnapshot {
	return &shared.DealSnapshot{
		ID:          d.ID(),
		SupplierID:  d.SupplierID(),
		Title:       d.Title().String(),
		Description: d.Description(),
		PriceCents:  d.Price().Cents(),
		DealType:    string(d.DealType()),
		Status:      string(d.Status()),
		ExpiresAt:   d.ExpiresAt(),
	}
}

func couponSnapshot(c *coupon.Coupon) *shared.CouponSnapshot {
	return &shared.CouponSnapshot{
		ID:             c.ID(),
		Code:           c.Code(),
		DealID:         c.DealID(),
		BuyerID:        c.BuyerID(),
		SupplierID:     c.SupplierID(),
		DealTitle:      c.DealTitle(),
		DealPriceCents: c.DealPriceCents(),
		Status:         string(c.Status()),
		ValidUntil:     c.ValidUntil(),
		RedeemedAt:     c.RedeemedAt(),
	}
}

func TestGenerateCoupon(t *testing.T) {
	buyerID := uuid.New()
	supplierID := uuid.New()

	t.Run("issues a snapshot coupon against an active deal", func(t *testing.T) {
		uow := newFakeUoW()
		cq := new(MockCouponQueries)
		d := restoredDeal(t, supplierID, deal.TypeHot, testNow.AddDate(0, 0, 3))

		var issued *coupon.Coupon
		uow.tx.reads.On("DealByID", mock.Anything, d.ID()).Return(dealSnapshot(d), nil)
		uow.tx.coupons.On("Create", mock.Anything, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				issued = args.Get(2).(*coupon.Coupon)
			}).Return(nil)
		cq.On("GetByCode", mock.Anything, mock.Anything).Return(&queries.CouponView{}, nil)

		uc := newCouponCommands(uow, cq)
		_, err := uc.GenerateCoupon(context.Background(), reqdto.GenerateCouponRequest{DealID: d.ID().String()}, buyerID)

		require.NoError(t, err)
		require.NotNil(t, issued)
		assert.Equal(t, d.ID(), issued.DealID())
		assert.Equal(t, buyerID, issued.BuyerID())
		assert.Equal(t, supplierID, issued.SupplierID())
		assert.Equal(t, d.Title().String(), issued.DealTitle())
		assert.Equal(t, d.Price().Cents(), issued.DealPriceCents())
		assert.Equal(t, testNow.AddDate(0, 0, 30), issued.ValidUntil())
		assert.Regexp(t, `^BDD-\d{14}-[0-9A-F]{8}$`, issued.Code())
	})

	t.Run("expired deal cannot issue coupons", func(t *testing.T) {
		uow := newFakeUoW()
		cq := new(MockCouponQueries)
		expired := restoredDeal(t, supplierID, deal.TypeHot, testNow.Add(-time.Minute))

		uow.tx.reads.On("DealByID", mock.Anything, expired.ID()).Return(dealSnapshot(expired), nil)

		uc := newCouponCommands(uow, cq)
		_, err := uc.GenerateCoupon(context.Background(), reqdto.GenerateCouponRequest{DealID: expired.ID().String()}, buyerID)

		require.ErrorIs(t, err, commands.ErrDealNotActive)
		uow.tx.coupons.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown deal", func(t *testing.T) {
		uow := newFakeUoW()
		cq := new(MockCouponQueries)
		dealID := uuid.New()

		uow.tx.reads.On("DealByID", mock.Anything, dealID).
			Return(nil, infra.WrapRepoErr("deal not found", nil, infra.KindNotFound))

		uc := newCouponCommands(uow, cq)
		_, err := uc.GenerateCoupon(context.Background(), reqdto.GenerateCouponRequest{DealID: dealID.String()}, buyerID)

		require.ErrorIs(t, err, commands.ErrDealNotFound)
	})

	t.Run("malformed deal id", func(t *testing.T) {
		uow := newFakeUoW()
		cq := new(MockCouponQueries)

		uc := newCouponCommands(uow, cq)
		_, err := uc.GenerateCoupon(context.Background(), reqdto.GenerateCouponRequest{DealID: "not-a-uuid"}, buyerID)

		require.ErrorIs(t, err, commands.ErrDomainValidation)
	})
}

func TestRedeemCoupon(t *testing.T) {
	supplierID := uuid.New()

	t.Run("redeems once and records the audit trail", func(t *testing.T) {
		uow := newFakeUoW()
		cq := new(MockCouponQueries)
		c := restoredCoupon(supplierID, coupon.StatusActive, testNow.AddDate(0, 0, 1))
		location := "Cape Town branch"

		var recorded coupon.Redemption
		uow.tx.reads.On("CouponByCode", mock.Anything, c.Code()).Return(couponSnapshot(c), nil)
		uow.tx.coupons.On("RedeemIfActive", mock.Anything, mock.Anything, c.Code(), testNow).Return(nil)
		uow.tx.coupons.On("RecordRedemption", mock.Anything, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				recorded = args.Get(2).(coupon.Redemption)
			}).Return(nil)
		cq.On("GetByCode", mock.Anything, c.Code()).Return(&queries.CouponView{Code: c.Code()}, nil)

		uc := newCouponCommands(uow, cq)
		view, err := uc.RedeemCoupon(context.Background(),
			reqdto.RedeemCouponRequest{Code: c.Code(), Location: &location},
			supplierID, commands.RedemptionContext{Location: &location})

		require.NoError(t, err)
		assert.Equal(t, c.Code(), view.Code)
		assert.Equal(t, c.ID(), recorded.CouponID)
		assert.Equal(t, supplierID, recorded.SupplierID)
		assert.Equal(t, &location, recorded.Metadata.Location)
	})

	t.Run("still valid on the last day", func(t *testing.T) {
		uow := newFakeUoW()
		cq := new(MockCouponQueries)
		c := restoredCoupon(supplierID, coupon.StatusActive, testNow)

		uow.tx.reads.On("CouponByCode", mock.Anything, c.Code()).Return(couponSnapshot(c), nil)
		uow.tx.coupons.On("RedeemIfActive", mock.Anything, mock.Anything, c.Code(), testNow).Return(nil)
		uow.tx.coupons.On("RecordRedemption", mock.Anything, mock.Anything, mock.Anything).Return(nil)
		cq.On("GetByCode", mock.Anything, c.Code()).Return(&queries.CouponView{}, nil)

		uc := newCouponCommands(uow, cq)
		_, err := uc.RedeemCoupon(context.Background(), reqdto.RedeemCouponRequest{Code: c.Code()}, supplierID, commands.RedemptionContext{})

		require.NoError(t, err)
	})

	t.Run("expired coupon is marked and rejected", func(t *testing.T) {
		uow := newFakeUoW()
		cq := new(MockCouponQueries)
		c := restoredCoupon(supplierID, coupon.StatusActive, testNow.Add(-time.Second))

		uow.tx.reads.On("CouponByCode", mock.Anything, c.Code()).Return(couponSnapshot(c), nil)
		uow.tx.coupons.On("MarkExpired", mock.Anything, mock.Anything, c.ID(), testNow).Return(nil)

		uc := newCouponCommands(uow, cq)
		_, err := uc.RedeemCoupon(context.Background(), reqdto.RedeemCouponRequest{Code: c.Code()}, supplierID, commands.RedemptionContext{})

		require.ErrorIs(t, err, commands.ErrCouponExpired)
		uow.tx.coupons.AssertCalled(t, "MarkExpired", mock.Anything, mock.Anything, c.ID(), testNow)
		uow.tx.coupons.AssertNotCalled(t, "RedeemIfActive", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("already redeemed", func(t *testing.T) {
		uow := newFakeUoW()
		cq := new(MockCouponQueries)
		c := restoredCoupon(supplierID, coupon.StatusRedeemed, testNow.AddDate(0, 0, 10))

		uow.tx.reads.On("CouponByCode", mock.Anything, c.Code()).Return(couponSnapshot(c), nil)

		uc := newCouponCommands(uow, cq)
		_, err := uc.RedeemCoupon(context.Background(), reqdto.RedeemCouponRequest{Code: c.Code()}, supplierID, commands.RedemptionContext{})

		require.ErrorIs(t, err, commands.ErrCouponAlreadyRedeemed)
	})

	t.Run("losing the redemption race reports already redeemed", func(t *testing.T) {
		uow := newFakeUoW()
		cq := new(MockCouponQueries)
		c := restoredCoupon(supplierID, coupon.StatusActive, testNow.AddDate(0, 0, 1))

		uow.tx.reads.On("CouponByCode", mock.Anything, c.Code()).Return(couponSnapshot(c), nil)
		uow.tx.coupons.On("RedeemIfActive", mock.Anything, mock.Anything, c.Code(), testNow).
			Return(infra.WrapRepoErr("coupon not active", nil, infra.KindConflict))

		uc := newCouponCommands(uow, cq)
		_, err := uc.RedeemCoupon(context.Background(), reqdto.RedeemCouponRequest{Code: c.Code()}, supplierID, commands.RedemptionContext{})

		require.ErrorIs(t, err, commands.ErrCouponAlreadyRedeemed)
		uow.tx.coupons.AssertNotCalled(t, "RecordRedemption", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("another supplier cannot redeem", func(t *testing.T) {
		uow := newFakeUoW()
		cq := new(MockCouponQueries)
		c := restoredCoupon(supplierID, coupon.StatusActive, testNow.AddDate(0, 0, 1))

		uow.tx.reads.On("CouponByCode", mock.Anything, c.Code()).Return(couponSnapshot(c), nil)

		uc := newCouponCommands(uow, cq)
		_, err := uc.RedeemCoupon(context.Background(), reqdto.RedeemCouponRequest{Code: c.Code()}, uuid.New(), commands.RedemptionContext{})

		require.ErrorIs(t, err, commands.ErrNotCouponSupplier)
		uow.tx.coupons.AssertNotCalled(t, "RedeemIfActive", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown code", func(t *testing.T) {
		uow := newFakeUoW()
		cq := new(MockCouponQueries)

		uow.tx.reads.On("CouponByCode", mock.Anything, "BDD-NOPE").
			Return(nil, infra.WrapRepoErr("coupon not found", nil, infra.KindNotFound))

		uc := newCouponCommands(uow, cq)
		_, err := uc.RedeemCoupon(context.Background(), reqdto.RedeemCouponRequest{Code: "BDD-NOPE"}, supplierID, commands.RedemptionContext{})

		require.ErrorIs(t, err, commands.ErrCouponNotFound)
	})
}
