package shared

import (
	"context"
	"time"

	"business-daily-deals/internal/domain/coupon"
	"business-daily-deals/internal/domain/credit"
	"business-daily-deals/internal/domain/deal"
	"business-daily-deals/internal/domain/notification"
	"business-daily-deals/internal/domain/user"
	"business-daily-deals/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Deals() DealRepository
	Credits() CreditRepository
	Coupons() CouponRepository
	Notifications() NotificationRepository
	Keywords() KeywordRepository
	Users() UserRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	DealByID(ctx context.Context, id uuid.UUID) (*DealSnapshot, error)
	CouponByCode(ctx context.Context, code string) (*CouponSnapshot, error)
	BalanceByUserID(ctx context.Context, userID uuid.UUID) (*BalanceSnapshot, error)
}

type DealRepository interface {
	Create(ctx context.Context, tx db.DBTX, d *deal.Deal) error
	Update(ctx context.Context, tx db.DBTX, d *deal.Deal) error
	Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) error
	FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*deal.Deal, error)
	IncrementViewCount(ctx context.Context, tx db.DBTX, id uuid.UUID) error
	IncrementClickCount(ctx context.Context, tx db.DBTX, id uuid.UUID) error
}

type CreditRepository interface {
	EnsureBalance(ctx context.Context, tx db.DBTX, userID uuid.UUID, now time.Time) error
	FindBalance(ctx context.Context, tx db.DBTX, userID uuid.UUID) (*credit.Balance, error)
	// DebitIfSufficient decrements atomically and fails with KindConflict when
	// the balance cannot cover the amount.
	DebitIfSufficient(ctx context.Context, tx db.DBTX, userID uuid.UUID, amount int64, now time.Time) error
	Credit(ctx context.Context, tx db.DBTX, userID uuid.UUID, amount int64, now time.Time) error
	RecordTransaction(ctx context.Context, tx db.DBTX, entry credit.Transaction) error
}

type CouponRepository interface {
	Create(ctx context.Context, tx db.DBTX, c *coupon.Coupon) error
	FindByCode(ctx context.Context, tx db.DBTX, code string) (*coupon.Coupon, error)
	// RedeemIfActive flips active -> redeemed in one guarded UPDATE and fails
	// with KindConflict when the coupon is no longer active.
	RedeemIfActive(ctx context.Context, tx db.DBTX, code string, now time.Time) error
	MarkExpired(ctx context.Context, tx db.DBTX, id uuid.UUID, now time.Time) error
	RecordRedemption(ctx context.Context, tx db.DBTX, r coupon.Redemption) error
}

type NotificationRepository interface {
	CreateBatch(ctx context.Context, tx db.DBTX, notifications []notification.Notification) error
	MarkRead(ctx context.Context, tx db.DBTX, id, userID uuid.UUID, now time.Time) error
	MarkAllRead(ctx context.Context, tx db.DBTX, userID uuid.UUID, now time.Time) (int64, error)
}

type KeywordRepository interface {
	Subscribe(ctx context.Context, tx db.DBTX, userID uuid.UUID, keyword string, now time.Time) error
	Unsubscribe(ctx context.Context, tx db.DBTX, userID uuid.UUID, keyword string) error
	// SubscribersForKeywords returns one match per (subscriber, keyword) pair;
	// a user subscribed to several matching terms appears once per term.
	SubscribersForKeywords(ctx context.Context, tx db.DBTX, keywords []string) ([]KeywordMatch, error)
}

type UserRepository interface {
	Create(ctx context.Context, tx db.DBTX, u *user.User, now time.Time) error
	UpdateLastLogin(ctx context.Context, tx db.DBTX, userID uuid.UUID, now time.Time) error
}
