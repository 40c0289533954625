package queries

import (
	"context"

	"github.com/google/uuid"
)

type NotificationQueries interface {
	ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]*NotificationView, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	ListKeywords(ctx context.Context, userID uuid.UUID) ([]*KeywordSubscriptionView, error)
}

type NotificationViewRepo interface {
	FindByUserID(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int32) ([]*NotificationView, error)
	CountUnreadByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	FindKeywordsByUserID(ctx context.Context, userID uuid.UUID) ([]*KeywordSubscriptionView, error)
}

type notificationQueriesImpl struct {
	repo NotificationViewRepo
}

func NewNotificationQueries(repo NotificationViewRepo) NotificationQueries {
	return &notificationQueriesImpl{repo: repo}
}

func (q *notificationQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]*NotificationView, error) {
	limit, offset = clampPage(limit, offset)
	return q.repo.FindByUserID(ctx, userID, unreadOnly, int32(limit), int32(offset))
}

func (q *notificationQueriesImpl) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return q.repo.CountUnreadByUserID(ctx, userID)
}

func (q *notificationQueriesImpl) ListKeywords(ctx context.Context, userID uuid.UUID) ([]*KeywordSubscriptionView, error) {
	return q.repo.FindKeywordsByUserID(ctx, userID)
}
