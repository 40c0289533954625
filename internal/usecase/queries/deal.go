package queries

import (
	"context"
	"time"

	"business-daily-deals/internal/pkg/clock"

	"github.com/google/uuid"
)

const defaultListLimit = 50

type DealQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*DealView, error)
	List(ctx context.Context, filter DealFilter, limit, offset int) ([]*DealListItem, error)
}

// DealViewRepo is the read-store contract. Effective status is computed at
// read time: active deals whose expiry has passed come back as expired.
type DealViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID, now time.Time) (*DealView, error)
	Find(ctx context.Context, filter DealFilter, now time.Time, limit, offset int32) ([]*DealListItem, error)
}

type dealQueriesImpl struct {
	repo  DealViewRepo
	clock clock.Clock
}

func NewDealQueries(repo DealViewRepo, clock clock.Clock) DealQueries {
	return &dealQueriesImpl{repo: repo, clock: clock}
}

func (q *dealQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*DealView, error) {
	return q.repo.FindByID(ctx, id, q.clock.Now())
}

func (q *dealQueriesImpl) List(ctx context.Context, filter DealFilter, limit, offset int) ([]*DealListItem, error) {
	limit, offset = clampPage(limit, offset)
	return q.repo.Find(ctx, filter, q.clock.Now(), int32(limit), int32(offset))
}
