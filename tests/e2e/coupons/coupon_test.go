//go:build e2e

package coupons_test

import (
	"net/http"
	"testing"
	"time"

	"business-daily-deals/internal/handler/dto/request"
	"business-daily-deals/internal/usecase/queries"
	"business-daily-deals/tests/common/authtest"
	"business-daily-deals/tests/common/dbtest"
	"business-daily-deals/tests/common/httptest"
	"business-daily-deals/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	couponsURL = "/api/coupons"
	redeemURL  = "/api/coupons/redeem"
)

type couponSuite struct {
	e2e.SharedSuite

	buyerToken    string
	supplierToken string
	supplierID    uuid.UUID
	dealID        uuid.UUID
}

func TestCouponSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(couponSuite))
}

func (s *couponSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()

	t := s.T()
	s.buyerToken = authtest.CreateAndLogin(t, s.DB, s.Router, "coupon-buyer@example.com", "buyer")
	s.supplierToken = authtest.CreateAndLogin(t, s.DB, s.Router, "coupon-supplier@example.com", "supplier")
	s.supplierID = dbtest.CreateTestUser(t, s.DB, "coupon-supplier@example.com", "supplier")
	s.dealID = dbtest.CreateTestDeal(t, s.DB, s.supplierID, "Boardroom chairs, set of 8", "hot",
		time.Now().Add(48*time.Hour), []string{"chairs"})
}

func (s *couponSuite) generateCoupon() queries.CouponView {
	s.T().Helper()

	w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, couponsURL,
		request.GenerateCouponRequest{DealID: s.dealID.String()}, s.buyerToken)
	require.Equal(s.T(), http.StatusCreated, w.Code, w.Body.String())

	var view queries.CouponView
	httptest.DecodeResponseBody(s.T(), w.Body, &view)
	return view
}

func (s *couponSuite) TestGenerateCoupon() {
	s.Run("coupon carries a snapshot of the deal", func() {
		t := s.T()

		view := s.generateCoupon()
		require.Regexp(t, `^BDD-\d{14}-[0-9A-F]{8}$`, view.Code)
		require.Equal(t, s.dealID, view.DealID)
		require.Equal(t, s.supplierID, view.SupplierID)
		require.Equal(t, "Boardroom chairs, set of 8", view.DealTitle)
		require.Equal(t, int64(49900), view.DealPriceCents)
		require.Equal(t, "active", view.Status)
		require.WithinDuration(t, time.Now().AddDate(0, 0, 30), view.ValidUntil, time.Minute)
		require.Nil(t, view.RedeemedAt)
	})

	s.Run("suppliers cannot generate coupons", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, couponsURL,
			request.GenerateCouponRequest{DealID: s.dealID.String()}, s.supplierToken)
		require.Equal(t, http.StatusForbidden, w.Code)
	})

	s.Run("expired deal yields no coupon", func() {
		t := s.T()

		expiredDealID := dbtest.CreateTestDeal(t, s.DB, s.supplierID, "Gone already", "regular",
			time.Now().Add(-24*time.Hour), nil)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, couponsURL,
			request.GenerateCouponRequest{DealID: expiredDealID.String()}, s.buyerToken)
		require.Equal(t, http.StatusConflict, w.Code)
	})

	s.Run("unknown deal returns 404", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, couponsURL,
			request.GenerateCouponRequest{DealID: uuid.New().String()}, s.buyerToken)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

func (s *couponSuite) TestRedeemCoupon() {
	s.Run("redemption happens exactly once", func() {
		t := s.T()

		view := s.generateCoupon()
		location := "Sandton branch"

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, redeemURL,
			request.RedeemCouponRequest{Code: view.Code, Location: &location}, s.supplierToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var redeemed queries.CouponView
		httptest.DecodeResponseBody(t, w.Body, &redeemed)
		require.Equal(t, "redeemed", redeemed.Status)
		require.NotNil(t, redeemed.RedeemedAt)

		// An audit row is written alongside the status flip
		var gotLocation *string
		err := s.DB.QueryRow(t.Context(),
			"SELECT location FROM coupon_redemptions WHERE coupon_id = $1", view.ID).Scan(&gotLocation)
		require.NoError(t, err)
		require.NotNil(t, gotLocation)
		require.Equal(t, location, *gotLocation)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, redeemURL,
			request.RedeemCouponRequest{Code: view.Code}, s.supplierToken)
		require.Equal(t, http.StatusConflict, w.Code)
	})

	s.Run("another supplier cannot redeem", func() {
		t := s.T()

		view := s.generateCoupon()
		otherToken := authtest.CreateAndLogin(t, s.DB, s.Router, "other-supplier@example.com", "supplier")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, redeemURL,
			request.RedeemCouponRequest{Code: view.Code}, otherToken)
		require.Equal(t, http.StatusForbidden, w.Code)

		// Still redeemable by the right supplier
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, redeemURL,
			request.RedeemCouponRequest{Code: view.Code}, s.supplierToken)
		require.Equal(t, http.StatusOK, w.Code)
	})

	s.Run("expired coupon is rejected and marked", func() {
		t := s.T()

		view := s.generateCoupon()
		_, err := s.DB.Exec(t.Context(),
			"UPDATE coupons SET valid_until = now() - interval '1 day' WHERE id = $1", view.ID)
		require.NoError(t, err)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, redeemURL,
			request.RedeemCouponRequest{Code: view.Code}, s.supplierToken)
		require.Equal(t, http.StatusGone, w.Code)

		var status string
		err = s.DB.QueryRow(t.Context(),
			"SELECT status FROM coupons WHERE id = $1", view.ID).Scan(&status)
		require.NoError(t, err)
		require.Equal(t, "expired", status)
	})

	s.Run("unknown code returns 404", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, redeemURL,
			request.RedeemCouponRequest{Code: "BDD-20250101120000-DEADBEEF"}, s.supplierToken)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

func (s *couponSuite) TestValidateCoupon() {
	s.Run("validation tracks the coupon lifecycle", func() {
		t := s.T()

		view := s.generateCoupon()

		var check queries.CouponValidationView
		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			couponsURL+"/validate/"+view.Code, nil, s.supplierToken)
		require.Equal(t, http.StatusOK, w.Code)
		httptest.DecodeResponseBody(t, w.Body, &check)
		require.True(t, check.Valid)
		require.True(t, check.CanRedeem)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, redeemURL,
			request.RedeemCouponRequest{Code: view.Code}, s.supplierToken)
		require.Equal(t, http.StatusOK, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet,
			couponsURL+"/validate/"+view.Code, nil, s.supplierToken)
		require.Equal(t, http.StatusOK, w.Code)
		httptest.DecodeResponseBody(t, w.Body, &check)
		require.True(t, check.Valid)
		require.False(t, check.CanRedeem)
		require.Contains(t, check.Message, "redeemed")
	})

	s.Run("unknown code is reported in-band", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			couponsURL+"/validate/BDD-20250101120000-DEADBEEF", nil, s.buyerToken)
		require.Equal(t, http.StatusOK, w.Code)

		var check queries.CouponValidationView
		httptest.DecodeResponseBody(t, w.Body, &check)
		require.False(t, check.Valid)
		require.False(t, check.CanRedeem)
	})

	s.Run("expired coupon stays valid but unredeemable", func() {
		t := s.T()

		view := s.generateCoupon()
		_, err := s.DB.Exec(t.Context(),
			"UPDATE coupons SET valid_until = now() - interval '1 day' WHERE id = $1", view.ID)
		require.NoError(t, err)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			couponsURL+"/validate/"+view.Code, nil, s.buyerToken)
		require.Equal(t, http.StatusOK, w.Code)

		var check queries.CouponValidationView
		httptest.DecodeResponseBody(t, w.Body, &check)
		require.True(t, check.Valid)
		require.False(t, check.CanRedeem)
		require.Contains(t, check.Message, "expired")
	})
}

func (s *couponSuite) TestRedemptionHistory() {
	s.Run("history lists the audit trail", func() {
		t := s.T()

		view := s.generateCoupon()
		location := "Cape Town depot"

		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			couponsURL+"/"+view.Code+"/history", nil, s.buyerToken)
		require.Equal(t, http.StatusOK, w.Code)
		var before []queries.CouponRedemptionView
		httptest.DecodeResponseBody(t, w.Body, &before)
		require.Empty(t, before)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, redeemURL,
			request.RedeemCouponRequest{Code: view.Code, Location: &location}, s.supplierToken)
		require.Equal(t, http.StatusOK, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet,
			couponsURL+"/"+view.Code+"/history", nil, s.buyerToken)
		require.Equal(t, http.StatusOK, w.Code)
		var after []queries.CouponRedemptionView
		httptest.DecodeResponseBody(t, w.Body, &after)
		require.Len(t, after, 1)
		require.Equal(t, view.ID, after[0].CouponID)
		require.Equal(t, s.supplierID, after[0].SupplierID)
		require.NotNil(t, after[0].Location)
		require.Equal(t, location, *after[0].Location)
	})

	s.Run("unknown coupon returns 404", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			couponsURL+"/BDD-20250101120000-DEADBEEF/history", nil, s.buyerToken)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

func (s *couponSuite) TestCouponListing() {
	s.Run("buyer and supplier listings stay scoped", func() {
		t := s.T()

		first := s.generateCoupon()
		second := s.generateCoupon()

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, couponsURL, nil, s.buyerToken)
		require.Equal(t, http.StatusOK, w.Code)
		var mine []queries.CouponView
		httptest.DecodeResponseBody(t, w.Body, &mine)
		require.Len(t, mine, 2)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, couponsURL+"/issued", nil, s.supplierToken)
		require.Equal(t, http.StatusOK, w.Code)
		var issued []queries.CouponView
		httptest.DecodeResponseBody(t, w.Body, &issued)
		require.Len(t, issued, 2)

		otherBuyer := authtest.CreateAndLogin(t, s.DB, s.Router, "empty-buyer@example.com", "buyer")
		w = httptest.PerformRequest(t, s.Router, http.MethodGet, couponsURL, nil, otherBuyer)
		require.Equal(t, http.StatusOK, w.Code)
		var none []queries.CouponView
		httptest.DecodeResponseBody(t, w.Body, &none)
		require.Empty(t, none)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, couponsURL+"/"+first.Code, nil, s.buyerToken)
		require.Equal(t, http.StatusOK, w.Code)
		var byCode queries.CouponView
		httptest.DecodeResponseBody(t, w.Body, &byCode)
		require.Equal(t, first.ID, byCode.ID)
		require.NotEqual(t, second.ID, byCode.ID)
	})
}

func (s *couponSuite) TestCouponSurvivesDealDeletion() {
	s.Run("snapshot outlives the deal", func() {
		t := s.T()

		view := s.generateCoupon()

		w := httptest.PerformRequest(t, s.Router, http.MethodDelete,
			"/api/deals/"+s.dealID.String(), nil, s.supplierToken)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, couponsURL+"/"+view.Code, nil, s.buyerToken)
		require.Equal(t, http.StatusOK, w.Code)

		var kept queries.CouponView
		httptest.DecodeResponseBody(t, w.Body, &kept)
		require.Equal(t, "Boardroom chairs, set of 8", kept.DealTitle)
		require.Equal(t, int64(49900), kept.DealPriceCents)

		// And it can still be redeemed at the counter
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, redeemURL,
			request.RedeemCouponRequest{Code: view.Code}, s.supplierToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})
}
