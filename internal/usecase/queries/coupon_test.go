//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"business-daily-deals/internal/infra"
	"business-daily-deals/internal/pkg/clock"
	"business-daily-deals/internal/pkg/errs"
	"business-daily-deals/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCouponViewRepo struct {
	mock.Mock
}

func (m *mockCouponViewRepo) FindByBuyerID(ctx context.Context, buyerID uuid.UUID, now time.Time, limit, offset int32) ([]*queries.CouponView, error) {
	args := m.Called(ctx, buyerID, now, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*queries.CouponView), args.Error(1)
}

func (m *mockCouponViewRepo) FindBySupplierID(ctx context.Context, supplierID uuid.UUID, now time.Time, limit, offset int32) ([]*queries.CouponView, error) {
	args := m.Called(ctx, supplierID, now, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*queries.CouponView), args.Error(1)
}

func (m *mockCouponViewRepo) FindByCode(ctx context.Context, code string, now time.Time) (*queries.CouponView, error) {
	args := m.Called(ctx, code, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queries.CouponView), args.Error(1)
}

func (m *mockCouponViewRepo) FindRedemptionsByCode(ctx context.Context, code string) ([]*queries.CouponRedemptionView, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*queries.CouponRedemptionView), args.Error(1)
}

func TestValidateCoupon(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		status        string
		wantValid     bool
		wantCanRedeem bool
	}{
		{name: "active coupon can be redeemed", status: "active", wantValid: true, wantCanRedeem: true},
		{name: "redeemed coupon cannot be redeemed again", status: "redeemed", wantValid: true, wantCanRedeem: false},
		{name: "expired coupon is valid but not redeemable", status: "expired", wantValid: true, wantCanRedeem: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockCouponViewRepo)
			repo.On("FindByCode", mock.Anything, "BDD-20250501090000-A1B2C3D4", now).
				Return(&queries.CouponView{Code: "BDD-20250501090000-A1B2C3D4", Status: tt.status}, nil)

			q := queries.NewCouponQueries(repo, clock.NewMockClock(now))
			view, err := q.Validate(context.Background(), "BDD-20250501090000-A1B2C3D4")
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, view.Valid)
			assert.Equal(t, tt.wantCanRedeem, view.CanRedeem)
			assert.NotEmpty(t, view.Message)
		})
	}

	t.Run("unknown code answers in-band instead of erroring", func(t *testing.T) {
		repo := new(mockCouponViewRepo)
		repo.On("FindByCode", mock.Anything, "BDD-NOPE", now).
			Return(nil, infra.WrapRepoErr("coupon not found", errs.New("no rows"), infra.KindNotFound))

		q := queries.NewCouponQueries(repo, clock.NewMockClock(now))
		view, err := q.Validate(context.Background(), "BDD-NOPE")
		require.NoError(t, err)
		assert.False(t, view.Valid)
		assert.False(t, view.CanRedeem)
	})
}
