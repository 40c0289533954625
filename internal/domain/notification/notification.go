package notification

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Notification is a keyword-match alert delivered to a subscribed buyer.
// One row per (user, deal, keyword); a user subscribed to two keywords that
// both match the same deal receives two notifications.
type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	DealID    uuid.UUID
	Keyword   string
	Message   string
	ReadAt    *time.Time
	CreatedAt time.Time
}

func NewKeywordMatch(userID, dealID uuid.UUID, keyword, dealTitle string, now time.Time) Notification {
	return Notification{
		ID:        uuid.New(),
		UserID:    userID,
		DealID:    dealID,
		Keyword:   keyword,
		Message:   fmt.Sprintf("New deal matching your keyword %q: %s", keyword, dealTitle),
		CreatedAt: now,
	}
}

func (n Notification) IsRead() bool {
	return n.ReadAt != nil
}
