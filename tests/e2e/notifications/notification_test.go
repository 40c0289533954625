//go:build e2e

package notifications_test

import (
	"net/http"
	"testing"
	"time"

	"business-daily-deals/internal/handler/dto/request"
	"business-daily-deals/internal/usecase/queries"
	"business-daily-deals/tests/common/authtest"
	"business-daily-deals/tests/common/httptest"
	"business-daily-deals/tests/e2e"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	keywordsURL      = "/api/keywords"
	notificationsURL = "/api/notifications"
	dealsURL         = "/api/deals"
)

type notificationSuite struct {
	e2e.SharedSuite

	buyerToken    string
	supplierToken string
}

func TestNotificationSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(notificationSuite))
}

func (s *notificationSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()

	t := s.T()
	s.buyerToken = authtest.CreateAndLogin(t, s.DB, s.Router, "notify-buyer@example.com", "buyer")
	s.supplierToken = authtest.CreateAndLogin(t, s.DB, s.Router, "notify-supplier@example.com", "supplier")
}

func (s *notificationSuite) subscribe(token, keyword string) {
	s.T().Helper()

	w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, keywordsURL,
		request.SubscribeKeywordRequest{Keyword: keyword}, token)
	require.Equal(s.T(), http.StatusNoContent, w.Code, w.Body.String())
}

func (s *notificationSuite) postDeal(title string, keywords []string) {
	s.T().Helper()

	expiresAt := time.Now().Add(24 * time.Hour)
	w := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, dealsURL,
		request.CreateDealRequest{
			Title:       title,
			Description: "Wholesale lot",
			Category:    "Electronics",
			PriceCents:  199900,
			DealType:    "regular",
			ExpiresAt:   &expiresAt,
			Keywords:    keywords,
		}, s.supplierToken)
	require.Equal(s.T(), http.StatusCreated, w.Code, w.Body.String())
}

func (s *notificationSuite) listNotifications(token, query string) []queries.NotificationView {
	s.T().Helper()

	w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, notificationsURL+query, nil, token)
	require.Equal(s.T(), http.StatusOK, w.Code)

	var views []queries.NotificationView
	httptest.DecodeResponseBody(s.T(), w.Body, &views)
	return views
}

func (s *notificationSuite) unreadCount(token string) int64 {
	s.T().Helper()

	w := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, notificationsURL+"/unread-count", nil, token)
	require.Equal(s.T(), http.StatusOK, w.Code)

	var res struct {
		UnreadCount int64 `json:"unread_count"`
	}
	httptest.DecodeResponseBody(s.T(), w.Body, &res)
	return res.UnreadCount
}

func (s *notificationSuite) TestKeywordFanOut() {
	s.Run("matching deal notifies the subscriber", func() {
		t := s.T()

		s.subscribe(s.buyerToken, "laptop")
		s.subscribe(s.buyerToken, "printer")

		s.postDeal("Refurbished laptop bundle", []string{"laptop", "desk"})

		views := s.listNotifications(s.buyerToken, "")
		require.Len(t, views, 1)
		require.Equal(t, "laptop", views[0].Keyword)
		require.Equal(t, `New deal matching your keyword "laptop": Refurbished laptop bundle`, views[0].Message)
		require.Nil(t, views[0].ReadAt)

		require.Equal(t, int64(1), s.unreadCount(s.buyerToken))
	})

	s.Run("one notification per matching keyword", func() {
		t := s.T()

		s.subscribe(s.buyerToken, "laptop")
		s.subscribe(s.buyerToken, "desk")

		s.postDeal("Laptop and desk combo", []string{"laptop", "desk"})

		views := s.listNotifications(s.buyerToken, "")
		require.Len(t, views, 2)
	})

	s.Run("suppliers are not notified about their own deals", func() {
		t := s.T()

		s.subscribe(s.supplierToken, "laptop")

		s.postDeal("Laptop clearance", []string{"laptop"})

		views := s.listNotifications(s.supplierToken, "")
		require.Empty(t, views)
	})

	s.Run("non-matching keywords stay silent", func() {
		t := s.T()

		s.subscribe(s.buyerToken, "forklift")

		s.postDeal("Laptop clearance", []string{"laptop"})

		require.Equal(t, int64(0), s.unreadCount(s.buyerToken))
	})
}

func (s *notificationSuite) TestReadTracking() {
	s.Run("mark one and mark all", func() {
		t := s.T()

		s.subscribe(s.buyerToken, "laptop")
		s.postDeal("First laptop deal", []string{"laptop"})
		s.postDeal("Second laptop deal", []string{"laptop"})
		s.postDeal("Third laptop deal", []string{"laptop"})

		require.Equal(t, int64(3), s.unreadCount(s.buyerToken))

		views := s.listNotifications(s.buyerToken, "")
		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			notificationsURL+"/"+views[0].ID.String()+"/read", nil, s.buyerToken)
		require.Equal(t, http.StatusNoContent, w.Code)

		require.Equal(t, int64(2), s.unreadCount(s.buyerToken))

		unread := s.listNotifications(s.buyerToken, "?unread_only=true")
		require.Len(t, unread, 2)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost,
			notificationsURL+"/read-all", nil, s.buyerToken)
		require.Equal(t, http.StatusOK, w.Code)

		var res struct {
			MarkedRead int64 `json:"marked_read"`
		}
		httptest.DecodeResponseBody(t, w.Body, &res)
		require.Equal(t, int64(2), res.MarkedRead)

		require.Equal(t, int64(0), s.unreadCount(s.buyerToken))
	})

	s.Run("users cannot read each other's notifications", func() {
		t := s.T()

		s.subscribe(s.buyerToken, "laptop")
		s.postDeal("Laptop deal", []string{"laptop"})

		views := s.listNotifications(s.buyerToken, "")
		require.Len(t, views, 1)

		otherToken := authtest.CreateAndLogin(t, s.DB, s.Router, "other-buyer@example.com", "buyer")
		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			notificationsURL+"/"+views[0].ID.String()+"/read", nil, otherToken)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

func (s *notificationSuite) TestSubscriptionManagement() {
	s.Run("subscribe, list, unsubscribe", func() {
		t := s.T()

		s.subscribe(s.buyerToken, "laptop")
		s.subscribe(s.buyerToken, "printer")

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, keywordsURL, nil, s.buyerToken)
		require.Equal(t, http.StatusOK, w.Code)
		var subs []queries.KeywordSubscriptionView
		httptest.DecodeResponseBody(t, w.Body, &subs)
		require.Len(t, subs, 2)

		w = httptest.PerformRequest(t, s.Router, http.MethodDelete, keywordsURL+"/laptop", nil, s.buyerToken)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, keywordsURL, nil, s.buyerToken)
		require.Equal(t, http.StatusOK, w.Code)
		subs = nil
		httptest.DecodeResponseBody(t, w.Body, &subs)
		require.Len(t, subs, 1)
		require.Equal(t, "printer", subs[0].Keyword)

		// After unsubscribing the fan-out skips this user
		s.postDeal("Laptop deal", []string{"laptop"})
		require.Equal(t, int64(0), s.unreadCount(s.buyerToken))
	})

	s.Run("unsubscribing an unknown keyword returns 404", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodDelete, keywordsURL+"/nothing", nil, s.buyerToken)
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	s.Run("blank keyword is rejected", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, keywordsURL,
			request.SubscribeKeywordRequest{Keyword: "   "}, s.buyerToken)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}
