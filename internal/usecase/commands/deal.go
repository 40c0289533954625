package commands

import (
	"context"
	"fmt"
	"time"

	"business-daily-deals/internal/domain/credit"
	"business-daily-deals/internal/domain/deal"
	"business-daily-deals/internal/domain/notification"
	reqdto "business-daily-deals/internal/handler/dto/request"
	"business-daily-deals/internal/infra"
	"business-daily-deals/internal/pkg/clock"
	"business-daily-deals/internal/pkg/config"
	"business-daily-deals/internal/pkg/errs"
	"business-daily-deals/internal/pkg/patch"
	"business-daily-deals/internal/usecase/queries"
	"business-daily-deals/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrDealNotFound            = errs.New("deal not found")
	ErrNotDealOwner            = errs.New("not the owner of this deal")
	ErrDealNotActive           = errs.New("deal is not active")
	ErrDealNotExpired          = errs.New("deal is not expired")
	ErrInvalidExpiry           = errs.New("invalid expiry date")
	ErrDomainValidation        = errs.New("domain validation error")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

// ErrInsufficientCredits is the sentinel the handler maps to 402; the
// structured details ride on InsufficientCreditsError.
var ErrInsufficientCredits = errs.New("insufficient credits")

type InsufficientCreditsError struct {
	CreditsNeeded  int64
	CurrentBalance int64
	Shortfall      int64
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits: need %d, have %d", e.CreditsNeeded, e.CurrentBalance)
}

func (e *InsufficientCreditsError) Is(target error) bool {
	return target == ErrInsufficientCredits
}

type ExtendDealResult struct {
	Deal           *queries.DealView
	ExtraDays      int64
	CreditsPerDay  int64
	CreditsCharged int64
	PromoApplied   bool
}

type DealCommands interface {
	CreateDeal(ctx context.Context, req reqdto.CreateDealRequest, supplierID uuid.UUID) (*queries.DealView, error)
	UpdateDeal(ctx context.Context, req reqdto.UpdateDealRequest, dealID, actorID uuid.UUID) (*queries.DealView, error)
	DeleteDeal(ctx context.Context, dealID, actorID uuid.UUID) error
	ExtendDeal(ctx context.Context, req reqdto.ExtendDealRequest, dealID, actorID uuid.UUID) (*ExtendDealResult, error)
	ReactivateDeal(ctx context.Context, req reqdto.ReactivateDealRequest, dealID, actorID uuid.UUID) (*queries.DealView, error)
	RecordView(ctx context.Context, dealID uuid.UUID) error
	RecordClick(ctx context.Context, dealID uuid.UUID) error
}

type dealCommandsImpl struct {
	uow         shared.UnitOfWork
	dealQueries queries.DealQueries
	clock       clock.Clock
	pricing     deal.ExtensionPricing
	promoEndsAt time.Time
}

func NewDealCommands(
	uow shared.UnitOfWork,
	dealQueries queries.DealQueries,
	clock clock.Clock,
	cfg config.CreditsConfig,
) DealCommands {
	return &dealCommandsImpl{
		uow:         uow,
		dealQueries: dealQueries,
		clock:       clock,
		pricing: deal.ExtensionPricing{
			HotPerDay:     cfg.HotDealPerDay,
			RegularPerDay: cfg.RegularDealPerDay,
		},
		promoEndsAt: cfg.PromoEndsAt,
	}
}

func (d *dealCommandsImpl) CreateDeal(ctx context.Context, req reqdto.CreateDealRequest, supplierID uuid.UUID) (*queries.DealView, error) {
	entity, err := d.buildDeal(req, supplierID)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	err = d.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Deals().Create(ctx, tx.DB(), entity); err != nil {
			return err
		}
		return d.fanOutNotifications(ctx, tx, entity)
	})
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	// Read-after-write: serve the view the read side will serve
	return d.dealQueries.GetByID(ctx, entity.ID())
}

// fanOutNotifications writes one notification per matching (subscriber,
// keyword) pair in the same transaction as the deal itself.
func (d *dealCommandsImpl) fanOutNotifications(ctx context.Context, tx shared.Tx, entity *deal.Deal) error {
	keywords := entity.Keywords()
	if len(keywords) == 0 {
		return nil
	}

	matches, err := tx.Keywords().SubscribersForKeywords(ctx, tx.DB(), []string(keywords))
	if err != nil {
		return err
	}

	now := d.clock.Now()
	notifications := make([]notification.Notification, 0, len(matches))
	for _, m := range matches {
		// Suppliers never notify themselves about their own deal
		if m.UserID == entity.SupplierID() {
			continue
		}
		notifications = append(notifications,
			notification.NewKeywordMatch(m.UserID, entity.ID(), m.Keyword, entity.Title().String(), now))
	}
	if len(notifications) == 0 {
		return nil
	}

	return tx.Notifications().CreateBatch(ctx, tx.DB(), notifications)
}

func (d *dealCommandsImpl) UpdateDeal(ctx context.Context, req reqdto.UpdateDealRequest, dealID, actorID uuid.UUID) (*queries.DealView, error) {
	err := d.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := d.findOwnedDeal(ctx, tx, dealID, actorID)
		if err != nil {
			return err
		}

		title, err := deal.NewTitle(patch.Coalesce(req.Title, entity.Title().String()))
		if err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}
		price, err := deal.NewMoney(patch.Coalesce(req.PriceCents, entity.Price().Cents()))
		if err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}

		originalPrice := entity.OriginalPrice()
		if req.OriginalPriceCents != nil {
			op, err := deal.NewMoney(*req.OriginalPriceCents)
			if err != nil {
				return errs.Mark(err, ErrDomainValidation)
			}
			originalPrice = &op
		}

		dealType := entity.DealType()
		if req.DealType != nil {
			dealType, err = deal.NewType(*req.DealType)
			if err != nil {
				return errs.Mark(err, ErrDomainValidation)
			}
		}

		keywords := entity.Keywords()
		if req.Keywords != nil {
			keywords = deal.NewKeywords(req.Keywords)
		}

		err = entity.Edit(
			title,
			patch.Coalesce(req.Description, entity.Description()),
			patch.Coalesce(req.Category, entity.Category()),
			price, originalPrice, dealType, keywords,
			d.clock.Now(),
		)
		if err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}

		return tx.Deals().Update(ctx, tx.DB(), entity)
	})
	if err != nil {
		return nil, err
	}

	return d.dealQueries.GetByID(ctx, dealID)
}

func (d *dealCommandsImpl) DeleteDeal(ctx context.Context, dealID, actorID uuid.UUID) error {
	return d.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := d.findOwnedDeal(ctx, tx, dealID, actorID); err != nil {
			return err
		}
		// Issued coupons deliberately survive this delete: they carry their
		// own snapshot of the deal
		return tx.Deals().Delete(ctx, tx.DB(), dealID)
	})
}

func (d *dealCommandsImpl) ExtendDeal(ctx context.Context, req reqdto.ExtendDealRequest, dealID, actorID uuid.UUID) (*ExtendDealResult, error) {
	result := &ExtendDealResult{}

	err := d.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := d.findOwnedDeal(ctx, tx, dealID, actorID)
		if err != nil {
			return err
		}

		now := d.clock.Now()
		if entity.IsExpiredAt(now) {
			return ErrDealNotActive
		}
		if entity.ExpiresAt() == nil {
			return errs.Mark(deal.ErrNoCurrentExpiry, ErrInvalidExpiry)
		}

		currentExpiry := *entity.ExpiresAt()
		if err := entity.ExtendTo(req.NewExpiresAt, now); err != nil {
			return errs.Mark(err, ErrInvalidExpiry)
		}

		// Extensions are free while the launch promotion runs
		if now.Before(d.promoEndsAt) {
			result.PromoApplied = true
		} else {
			quote := d.pricing.Quote(entity.DealType(), currentExpiry, req.NewExpiresAt)
			result.ExtraDays = quote.ExtraDays
			result.CreditsPerDay = quote.CreditsPerDay

			if err := d.chargeExtension(ctx, tx, entity, quote, now); err != nil {
				return err
			}
			result.CreditsCharged = quote.CreditsNeeded
		}

		return tx.Deals().Update(ctx, tx.DB(), entity)
	})
	if err != nil {
		return nil, err
	}

	view, err := d.dealQueries.GetByID(ctx, dealID)
	if err != nil {
		return nil, err
	}
	result.Deal = view
	return result, nil
}

func (d *dealCommandsImpl) chargeExtension(ctx context.Context, tx shared.Tx, entity *deal.Deal, quote deal.ExtensionQuote, now time.Time) error {
	err := tx.Credits().DebitIfSufficient(ctx, tx.DB(), entity.SupplierID(), quote.CreditsNeeded, now)
	if err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			balance, readErr := tx.Reads().BalanceByUserID(ctx, entity.SupplierID())
			current := int64(0)
			if readErr == nil {
				current = balance.CreditBalance
			}
			return &InsufficientCreditsError{
				CreditsNeeded:  quote.CreditsNeeded,
				CurrentBalance: current,
				Shortfall:      quote.CreditsNeeded - current,
			}
		}
		if infra.IsKind(err, infra.KindNotFound) {
			return &InsufficientCreditsError{
				CreditsNeeded: quote.CreditsNeeded,
				Shortfall:     quote.CreditsNeeded,
			}
		}
		return err
	}

	dealID := entity.ID()
	return tx.Credits().RecordTransaction(ctx, tx.DB(), credit.Transaction{
		ID:          uuid.New(),
		UserID:      entity.SupplierID(),
		Amount:      quote.CreditsNeeded,
		Type:        credit.TransactionSpend,
		Description: fmt.Sprintf("Extension of %q by %d day(s)", entity.Title().String(), quote.ExtraDays),
		DealID:      &dealID,
		CreatedAt:   now,
	})
}

func (d *dealCommandsImpl) ReactivateDeal(ctx context.Context, req reqdto.ReactivateDealRequest, dealID, actorID uuid.UUID) (*queries.DealView, error) {
	err := d.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := d.findOwnedDeal(ctx, tx, dealID, actorID)
		if err != nil {
			return err
		}

		now := d.clock.Now()
		if !entity.IsExpiredAt(now) {
			return ErrDealNotExpired
		}
		if err := entity.Reactivate(req.NewExpiresAt, now); err != nil {
			return errs.Mark(err, ErrInvalidExpiry)
		}
		return tx.Deals().Update(ctx, tx.DB(), entity)
	})
	if err != nil {
		return nil, err
	}

	return d.dealQueries.GetByID(ctx, dealID)
}

func (d *dealCommandsImpl) RecordView(ctx context.Context, dealID uuid.UUID) error {
	err := d.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Deals().IncrementViewCount(ctx, tx.DB(), dealID)
	})
	if infra.IsKind(err, infra.KindNotFound) {
		return ErrDealNotFound
	}
	return err
}

func (d *dealCommandsImpl) RecordClick(ctx context.Context, dealID uuid.UUID) error {
	err := d.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Deals().IncrementClickCount(ctx, tx.DB(), dealID)
	})
	if infra.IsKind(err, infra.KindNotFound) {
		return ErrDealNotFound
	}
	return err
}

func (d *dealCommandsImpl) findOwnedDeal(ctx context.Context, tx shared.Tx, dealID, actorID uuid.UUID) (*deal.Deal, error) {
	entity, err := tx.Deals().FindByID(ctx, tx.DB(), dealID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !entity.IsOwnedBy(actorID) {
		return nil, ErrNotDealOwner
	}
	return entity, nil
}

func (d *dealCommandsImpl) buildDeal(req reqdto.CreateDealRequest, supplierID uuid.UUID) (*deal.Deal, error) {
	title, err := deal.NewTitle(req.Title)
	if err != nil {
		return nil, err
	}
	price, err := deal.NewMoney(req.PriceCents)
	if err != nil {
		return nil, err
	}
	var originalPrice *deal.Money
	if req.OriginalPriceCents != nil {
		op, err := deal.NewMoney(*req.OriginalPriceCents)
		if err != nil {
			return nil, err
		}
		originalPrice = &op
	}
	dealType, err := deal.NewType(req.DealType)
	if err != nil {
		return nil, err
	}

	return deal.NewDeal(
		supplierID, title, req.Description, req.Category,
		price, originalPrice, dealType, req.ExpiresAt,
		deal.NewKeywords(req.Keywords), d.clock.Now(),
	)
}
