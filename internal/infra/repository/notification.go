package repository

import (
	"context"
	"time"

	"business-daily-deals/internal/domain/notification"
	"business-daily-deals/internal/infra"
	"business-daily-deals/internal/infra/db"

	"github.com/google/uuid"
)

type NotificationRepository struct{}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

const insertNotificationSQL = `
INSERT INTO notifications (id, user_id, deal_id, keyword, message, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
`

// CreateBatch writes the whole fan-out inside the caller's transaction; a deal
// either notifies every matched subscription or none.
func (r *NotificationRepository) CreateBatch(ctx context.Context, tx db.DBTX, notifications []notification.Notification) error {
	for _, n := range notifications {
		_, err := tx.Exec(ctx, insertNotificationSQL,
			n.ID, n.UserID, n.DealID, n.Keyword, n.Message, n.CreatedAt)
		if err != nil {
			return infra.WrapRepoErr("failed to create notification", err)
		}
	}
	return nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, tx db.DBTX, id, userID uuid.UUID, now time.Time) error {
	tag, err := tx.Exec(ctx, `
		UPDATE notifications
		SET read_at = $3
		WHERE id = $1 AND user_id = $2 AND read_at IS NULL
	`, id, userID, now)
	if err != nil {
		return infra.WrapRepoErr("failed to mark notification read", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("notification not found or already read", nil, infra.KindNotFound)
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, tx db.DBTX, userID uuid.UUID, now time.Time) (int64, error) {
	tag, err := tx.Exec(ctx, `
		UPDATE notifications
		SET read_at = $2
		WHERE user_id = $1 AND read_at IS NULL
	`, userID, now)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to mark notifications read", err)
	}
	return tag.RowsAffected(), nil
}
