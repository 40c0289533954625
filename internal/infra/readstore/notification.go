package readstore

import (
	"context"

	"business-daily-deals/internal/infra"
	"business-daily-deals/internal/infra/db"
	"business-daily-deals/internal/pkg/pgconv"
	"business-daily-deals/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type NotificationReadStore struct {
	db db.DBTX
}

func NewNotificationReadStore(db db.DBTX) *NotificationReadStore {
	return &NotificationReadStore{db: db}
}

func (r *NotificationReadStore) FindByUserID(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int32) ([]*queries.NotificationView, error) {
	sql := `
		SELECT id, deal_id, keyword, message, read_at, created_at
		FROM notifications
		WHERE user_id = $1
	`
	if unreadOnly {
		sql += ` AND read_at IS NULL`
	}
	sql += ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, sql, userID, limit, offset)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list notifications", err)
	}
	defer rows.Close()

	var views []*queries.NotificationView
	for rows.Next() {
		var (
			v      queries.NotificationView
			readAt pgtype.Timestamptz
		)
		if err := rows.Scan(&v.ID, &v.DealID, &v.Keyword, &v.Message, &readAt, &v.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan notification view", err)
		}
		v.ReadAt = pgconv.TimePtrFromPgtype(readAt)
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate notifications", err)
	}
	return views, nil
}

func (r *NotificationReadStore) CountUnreadByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read_at IS NULL
	`, userID).Scan(&count)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count unread notifications", err)
	}
	return count, nil
}

func (r *NotificationReadStore) FindKeywordsByUserID(ctx context.Context, userID uuid.UUID) ([]*queries.KeywordSubscriptionView, error) {
	rows, err := r.db.Query(ctx, `
		SELECT keyword, created_at
		FROM keyword_subscriptions
		WHERE user_id = $1
		ORDER BY keyword
	`, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list keyword subscriptions", err)
	}
	defer rows.Close()

	var views []*queries.KeywordSubscriptionView
	for rows.Next() {
		var v queries.KeywordSubscriptionView
		if err := rows.Scan(&v.Keyword, &v.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan keyword subscription", err)
		}
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate keyword subscriptions", err)
	}
	return views, nil
}
