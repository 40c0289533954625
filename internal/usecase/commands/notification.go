package commands

import (
	"context"
	"strings"

	reqdto "business-daily-deals/internal/handler/dto/request"
	"business-daily-deals/internal/infra"
	"business-daily-deals/internal/pkg/clock"
	"business-daily-deals/internal/pkg/errs"
	"business-daily-deals/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrEmptyKeyword         = errs.New("keyword cannot be empty")
	ErrSubscriptionNotFound = errs.New("keyword subscription not found")
	ErrNotificationNotFound = errs.New("notification not found")
)

type NotificationCommands interface {
	SubscribeKeyword(ctx context.Context, req reqdto.SubscribeKeywordRequest, userID uuid.UUID) error
	UnsubscribeKeyword(ctx context.Context, keyword string, userID uuid.UUID) error
	MarkRead(ctx context.Context, notificationID, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewNotificationCommands(uow shared.UnitOfWork, clock clock.Clock) NotificationCommands {
	return &notificationCommandsImpl{uow: uow, clock: clock}
}

// SubscribeKeyword stores the term as given: matching is exact and
// case-sensitive, so "Laptop" and "laptop" are distinct subscriptions.
func (n *notificationCommandsImpl) SubscribeKeyword(ctx context.Context, req reqdto.SubscribeKeywordRequest, userID uuid.UUID) error {
	keyword := strings.TrimSpace(req.Keyword)
	if keyword == "" {
		return ErrEmptyKeyword
	}

	return n.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Keywords().Subscribe(ctx, tx.DB(), userID, keyword, n.clock.Now())
	})
}

func (n *notificationCommandsImpl) UnsubscribeKeyword(ctx context.Context, keyword string, userID uuid.UUID) error {
	err := n.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Keywords().Unsubscribe(ctx, tx.DB(), userID, keyword)
	})
	if infra.IsKind(err, infra.KindNotFound) {
		return ErrSubscriptionNotFound
	}
	return err
}

func (n *notificationCommandsImpl) MarkRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	err := n.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Notifications().MarkRead(ctx, tx.DB(), notificationID, userID, n.clock.Now())
	})
	if infra.IsKind(err, infra.KindNotFound) {
		return ErrNotificationNotFound
	}
	return err
}

func (n *notificationCommandsImpl) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	var updated int64
	err := n.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		count, err := tx.Notifications().MarkAllRead(ctx, tx.DB(), userID, n.clock.Now())
		updated = count
		return err
	})
	return updated, err
}
