//go:build unit

package notification_test

import (
	"testing"
	"time"

	"business-daily-deals/internal/domain/notification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewKeywordMatch(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()
	dealID := uuid.New()

	n := notification.NewKeywordMatch(userID, dealID, "electronics", "Bulk SSDs", now)

	assert.Equal(t, userID, n.UserID)
	assert.Equal(t, dealID, n.DealID)
	assert.Equal(t, "electronics", n.Keyword)
	assert.Equal(t, `New deal matching your keyword "electronics": Bulk SSDs`, n.Message)
	assert.Equal(t, now, n.CreatedAt)
	assert.False(t, n.IsRead())
}
