package deal

import (
	"time"

	"business-daily-deals/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrExpiryNotInFuture    = errs.New("expiry date must be in the future")
	ErrExpiryNotAfterCurrent = errs.New("new expiry date must be after the current expiry date")
	ErrNoCurrentExpiry      = errs.New("deal has no expiry date to extend")
)

type Deal struct {
	id            uuid.UUID
	supplierID    uuid.UUID
	title         Title
	description   string
	category      string
	price         Money
	originalPrice *Money
	dealType      Type
	status        Status
	expiresAt     *time.Time
	keywords      Keywords
	createdAt     time.Time
	updatedAt     time.Time
}

func NewDeal(
	supplierID uuid.UUID,
	title Title,
	description string,
	category string,
	price Money,
	originalPrice *Money,
	dealType Type,
	expiresAt *time.Time,
	keywords Keywords,
	now time.Time,
) (*Deal, error) {
	if description == "" {
		return nil, ErrEmptyDescription
	}
	if expiresAt != nil && !expiresAt.After(now) {
		return nil, ErrExpiryNotInFuture
	}

	return &Deal{
		id:            uuid.New(),
		supplierID:    supplierID,
		title:         title,
		description:   description,
		category:      category,
		price:         price,
		originalPrice: originalPrice,
		dealType:      dealType,
		status:        StatusActive,
		expiresAt:     expiresAt,
		keywords:      keywords,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// Restore rebuilds a Deal from persisted state. No invariants are re-checked;
// the row is the source of truth.
func Restore(
	id, supplierID uuid.UUID,
	title string,
	description, category string,
	priceCents int64,
	originalPriceCents *int64,
	dealType Type,
	status Status,
	expiresAt *time.Time,
	keywords []string,
	createdAt, updatedAt time.Time,
) *Deal {
	var originalPrice *Money
	if originalPriceCents != nil {
		originalPrice = &Money{cents: *originalPriceCents}
	}
	return &Deal{
		id:            id,
		supplierID:    supplierID,
		title:         Title{value: title},
		description:   description,
		category:      category,
		price:         Money{cents: priceCents},
		originalPrice: originalPrice,
		dealType:      dealType,
		status:        status,
		expiresAt:     expiresAt,
		keywords:      Keywords(keywords),
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// Edit replaces the deal's descriptive fields. Expiry and status are managed
// through Reactivate/ExtendTo, never here.
func (d *Deal) Edit(
	title Title,
	description, category string,
	price Money,
	originalPrice *Money,
	dealType Type,
	keywords Keywords,
	now time.Time,
) error {
	if description == "" {
		return ErrEmptyDescription
	}
	d.title = title
	d.description = description
	d.category = category
	d.price = price
	d.originalPrice = originalPrice
	d.dealType = dealType
	d.keywords = keywords
	d.updatedAt = now
	return nil
}

// IsOwnedBy reports whether the given user owns this deal. Ownership gates
// every mutation; the authenticated user id is resolved by the route layer.
func (d *Deal) IsOwnedBy(userID uuid.UUID) bool {
	return d.supplierID == userID
}

// IsExpiredAt treats an active deal whose expiry has passed as expired.
// Expiry is evaluated at read time; no background sweep flips the status row.
func (d *Deal) IsExpiredAt(now time.Time) bool {
	if d.status == StatusExpired {
		return true
	}
	return d.expiresAt != nil && !d.expiresAt.After(now)
}

// Reactivate puts an expired deal back on the board with a fresh expiry.
// Reactivation is free of charge.
func (d *Deal) Reactivate(newExpiresAt time.Time, now time.Time) error {
	if !newExpiresAt.After(now) {
		return ErrExpiryNotInFuture
	}
	d.status = StatusActive
	d.expiresAt = &newExpiresAt
	d.updatedAt = now
	return nil
}

// ExtendTo pushes the expiry forward. The new date must be strictly after the
// current one; charging is decided by the caller (promotional period, credit
// balance) before this is applied.
func (d *Deal) ExtendTo(newExpiresAt time.Time, now time.Time) error {
	if d.expiresAt == nil {
		return ErrNoCurrentExpiry
	}
	if !newExpiresAt.After(*d.expiresAt) {
		return ErrExpiryNotAfterCurrent
	}
	d.expiresAt = &newExpiresAt
	d.updatedAt = now
	return nil
}

func (d *Deal) ID() uuid.UUID         { return d.id }
func (d *Deal) SupplierID() uuid.UUID { return d.supplierID }
func (d *Deal) Title() Title          { return d.title }
func (d *Deal) Description() string   { return d.description }
func (d *Deal) Category() string      { return d.category }
func (d *Deal) Price() Money          { return d.price }
func (d *Deal) OriginalPrice() *Money { return d.originalPrice }
func (d *Deal) DealType() Type        { return d.dealType }
func (d *Deal) Status() Status        { return d.status }
func (d *Deal) ExpiresAt() *time.Time { return d.expiresAt }
func (d *Deal) Keywords() Keywords    { return d.keywords }
func (d *Deal) CreatedAt() time.Time  { return d.createdAt }
func (d *Deal) UpdatedAt() time.Time  { return d.updatedAt }
