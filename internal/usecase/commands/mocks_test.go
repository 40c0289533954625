//go:build unit

package commands_test

import (
	"context"
	"time"

	"business-daily-deals/internal/domain/coupon"
	"business-daily-deals/internal/domain/credit"
	"business-daily-deals/internal/domain/deal"
	"business-daily-deals/internal/domain/notification"
	"business-daily-deals/internal/domain/user"
	"business-daily-deals/internal/infra/db"
	"business-daily-deals/internal/usecase/queries"
	"business-daily-deals/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// fakeUoW runs the transactional closure against a stubbed Tx so command
// logic can be exercised without a database.
type fakeUoW struct {
	tx *fakeTx
}

func newFakeUoW() *fakeUoW {
	return &fakeUoW{tx: &fakeTx{
		deals:         new(MockDealRepository),
		credits:       new(MockCreditRepository),
		coupons:       new(MockCouponRepository),
		notifications: new(MockNotificationRepository),
		keywords:      new(MockKeywordRepository),
		users:         new(MockUserRepository),
		reads:         new(MockCommandReads),
	}}
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, u.tx)
}

func (u *fakeUoW) CommandReads() shared.CommandReads {
	return u.tx.reads
}

type fakeTx struct {
	deals         *MockDealRepository
	credits       *MockCreditRepository
	coupons       *MockCouponRepository
	notifications *MockNotificationRepository
	keywords      *MockKeywordRepository
	users         *MockUserRepository
	reads         *MockCommandReads
}

func (t *fakeTx) Deals() shared.DealRepository                 { return t.deals }
func (t *fakeTx) Credits() shared.CreditRepository             { return t.credits }
func (t *fakeTx) Coupons() shared.CouponRepository             { return t.coupons }
func (t *fakeTx) Notifications() shared.NotificationRepository { return t.notifications }
func (t *fakeTx) Keywords() shared.KeywordRepository           { return t.keywords }
func (t *fakeTx) Users() shared.UserRepository                 { return t.users }
func (t *fakeTx) Reads() shared.CommandReads                   { return t.reads }
func (t *fakeTx) DB() db.DBTX                                  { return nil }

type MockDealRepository struct {
	mock.Mock
}

func (m *MockDealRepository) Create(ctx context.Context, tx db.DBTX, d *deal.Deal) error {
	args := m.Called(ctx, tx, d)
	return args.Error(0)
}

func (m *MockDealRepository) Update(ctx context.Context, tx db.DBTX, d *deal.Deal) error {
	args := m.Called(ctx, tx, d)
	return args.Error(0)
}

func (m *MockDealRepository) Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func (m *MockDealRepository) FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*deal.Deal, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*deal.Deal), args.Error(1)
}

func (m *MockDealRepository) IncrementViewCount(ctx context.Context, tx db.DBTX, id uuid.UUID) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func (m *MockDealRepository) IncrementClickCount(ctx context.Context, tx db.DBTX, id uuid.UUID) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

type MockCreditRepository struct {
	mock.Mock
}

func (m *MockCreditRepository) EnsureBalance(ctx context.Context, tx db.DBTX, userID uuid.UUID, now time.Time) error {
	args := m.Called(ctx, tx, userID, now)
	return args.Error(0)
}

func (m *MockCreditRepository) FindBalance(ctx context.Context, tx db.DBTX, userID uuid.UUID) (*credit.Balance, error) {
	args := m.Called(ctx, tx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credit.Balance), args.Error(1)
}

func (m *MockCreditRepository) DebitIfSufficient(ctx context.Context, tx db.DBTX, userID uuid.UUID, amount int64, now time.Time) error {
	args := m.Called(ctx, tx, userID, amount, now)
	return args.Error(0)
}

func (m *MockCreditRepository) Credit(ctx context.Context, tx db.DBTX, userID uuid.UUID, amount int64, now time.Time) error {
	args := m.Called(ctx, tx, userID, amount, now)
	return args.Error(0)
}

func (m *MockCreditRepository) RecordTransaction(ctx context.Context, tx db.DBTX, entry credit.Transaction) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

type MockCouponRepository struct {
	mock.Mock
}

func (m *MockCouponRepository) Create(ctx context.Context, tx db.DBTX, c *coupon.Coupon) error {
	args := m.Called(ctx, tx, c)
	return args.Error(0)
}

func (m *MockCouponRepository) FindByCode(ctx context.Context, tx db.DBTX, code string) (*coupon.Coupon, error) {
	args := m.Called(ctx, tx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*coupon.Coupon), args.Error(1)
}

func (m *MockCouponRepository) RedeemIfActive(ctx context.Context, tx db.DBTX, code string, now time.Time) error {
	args := m.Called(ctx, tx, code, now)
	return args.Error(0)
}

func (m *MockCouponRepository) MarkExpired(ctx context.Context, tx db.DBTX, id uuid.UUID, now time.Time) error {
	args := m.Called(ctx, tx, id, now)
	return args.Error(0)
}

func (m *MockCouponRepository) RecordRedemption(ctx context.Context, tx db.DBTX, r coupon.Redemption) error {
	args := m.Called(ctx, tx, r)
	return args.Error(0)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) CreateBatch(ctx context.Context, tx db.DBTX, notifications []notification.Notification) error {
	args := m.Called(ctx, tx, notifications)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, tx db.DBTX, id, userID uuid.UUID, now time.Time) error {
	args := m.Called(ctx, tx, id, userID, now)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, tx db.DBTX, userID uuid.UUID, now time.Time) (int64, error) {
	args := m.Called(ctx, tx, userID, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockKeywordRepository struct {
	mock.Mock
}

func (m *MockKeywordRepository) Subscribe(ctx context.Context, tx db.DBTX, userID uuid.UUID, keyword string, now time.Time) error {
	args := m.Called(ctx, tx, userID, keyword, now)
	return args.Error(0)
}

func (m *MockKeywordRepository) Unsubscribe(ctx context.Context, tx db.DBTX, userID uuid.UUID, keyword string) error {
	args := m.Called(ctx, tx, userID, keyword)
	return args.Error(0)
}

func (m *MockKeywordRepository) SubscribersForKeywords(ctx context.Context, tx db.DBTX, keywords []string) ([]shared.KeywordMatch, error) {
	args := m.Called(ctx, tx, keywords)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]shared.KeywordMatch), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, tx db.DBTX, u *user.User, now time.Time) error {
	args := m.Called(ctx, tx, u, now)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, tx db.DBTX, userID uuid.UUID, now time.Time) error {
	args := m.Called(ctx, tx, userID, now)
	return args.Error(0)
}

type MockCommandReads struct {
	mock.Mock
}

func (m *MockCommandReads) DealByID(ctx context.Context, id uuid.UUID) (*shared.DealSnapshot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.DealSnapshot), args.Error(1)
}

func (m *MockCommandReads) CouponByCode(ctx context.Context, code string) (*shared.CouponSnapshot, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.CouponSnapshot), args.Error(1)
}

func (m *MockCommandReads) BalanceByUserID(ctx context.Context, userID uuid.UUID) (*shared.BalanceSnapshot, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.BalanceSnapshot), args.Error(1)
}

type MockDealQueries struct {
	mock.Mock
}

func (m *MockDealQueries) GetByID(ctx context.Context, id uuid.UUID) (*queries.DealView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queries.DealView), args.Error(1)
}

func (m *MockDealQueries) List(ctx context.Context, filter queries.DealFilter, limit, offset int) ([]*queries.DealListItem, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*queries.DealListItem), args.Error(1)
}

type MockCouponQueries struct {
	mock.Mock
}

func (m *MockCouponQueries) ListByBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]*queries.CouponView, error) {
	args := m.Called(ctx, buyerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*queries.CouponView), args.Error(1)
}

func (m *MockCouponQueries) ListBySupplier(ctx context.Context, supplierID uuid.UUID, limit, offset int) ([]*queries.CouponView, error) {
	args := m.Called(ctx, supplierID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*queries.CouponView), args.Error(1)
}

func (m *MockCouponQueries) GetByCode(ctx context.Context, code string) (*queries.CouponView, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queries.CouponView), args.Error(1)
}

func (m *MockCouponQueries) Validate(ctx context.Context, code string) (*queries.CouponValidationView, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queries.CouponValidationView), args.Error(1)
}

func (m *MockCouponQueries) RedemptionHistory(ctx context.Context, code string) ([]*queries.CouponRedemptionView, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*queries.CouponRedemptionView), args.Error(1)
}

type MockCreditQueries struct {
	mock.Mock
}

func (m *MockCreditQueries) BalanceByUser(ctx context.Context, userID uuid.UUID) (*queries.CreditBalanceView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queries.CreditBalanceView), args.Error(1)
}

func (m *MockCreditQueries) TransactionsByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*queries.CreditTransactionView, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*queries.CreditTransactionView), args.Error(1)
}
