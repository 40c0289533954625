package repository

import (
	"context"
	"time"

	"business-daily-deals/internal/domain/coupon"
	"business-daily-deals/internal/infra"
	"business-daily-deals/internal/infra/db"
	"business-daily-deals/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type CouponRepository struct{}

func NewCouponRepository() *CouponRepository {
	return &CouponRepository{}
}

const insertCouponSQL = `
INSERT INTO coupons (
	id, code, deal_id, buyer_id, supplier_id, deal_title, deal_price_cents,
	deal_description, valid_until, status, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`

func (r *CouponRepository) Create(ctx context.Context, tx db.DBTX, c *coupon.Coupon) error {
	_, err := tx.Exec(ctx, insertCouponSQL,
		c.ID(), c.Code(), c.DealID(), c.BuyerID(), c.SupplierID(),
		c.DealTitle(), c.DealPriceCents(), c.DealDescription(),
		c.ValidUntil(), string(c.Status()), c.CreatedAt(), c.UpdatedAt(),
	)
	if err != nil {
		if pgconv.IsUniqueViolation(err) {
			return infra.WrapRepoErr("coupon code already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create coupon", err)
	}
	return nil
}

const selectCouponSQL = `
SELECT id, code, deal_id, buyer_id, supplier_id, deal_title, deal_price_cents,
	deal_description, valid_until, status, redeemed_at, created_at, updated_at
FROM coupons
WHERE code = $1
`

func (r *CouponRepository) FindByCode(ctx context.Context, tx db.DBTX, code string) (*coupon.Coupon, error) {
	row := tx.QueryRow(ctx, selectCouponSQL, code)
	c, err := scanCoupon(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon by code", err)
	}
	return c, nil
}

// RedeemIfActive guards the status flip in the UPDATE itself so two suppliers
// scanning the same voucher cannot both win.
func (r *CouponRepository) RedeemIfActive(ctx context.Context, tx db.DBTX, code string, now time.Time) error {
	tag, err := tx.Exec(ctx, `
		UPDATE coupons
		SET status = 'redeemed', redeemed_at = $2, updated_at = $2
		WHERE code = $1 AND status = 'active'
	`, code, now)
	if err != nil {
		return infra.WrapRepoErr("failed to redeem coupon", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("coupon is not active", nil, infra.KindConflict)
	}
	return nil
}

// MarkExpired persists a lazily observed expiry. Only active coupons flip;
// a concurrent redemption wins and the update becomes a no-op.
func (r *CouponRepository) MarkExpired(ctx context.Context, tx db.DBTX, id uuid.UUID, now time.Time) error {
	_, err := tx.Exec(ctx, `
		UPDATE coupons
		SET status = 'expired', updated_at = $2
		WHERE id = $1 AND status = 'active'
	`, id, now)
	if err != nil {
		return infra.WrapRepoErr("failed to mark coupon expired", err)
	}
	return nil
}

func (r *CouponRepository) RecordRedemption(ctx context.Context, tx db.DBTX, rec coupon.Redemption) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO coupon_redemptions (
			id, coupon_id, supplier_id, location, notes, ip_address, user_agent, redeemed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, rec.ID, rec.CouponID, rec.SupplierID,
		pgconv.StringPtrToPgtype(rec.Metadata.Location),
		pgconv.StringPtrToPgtype(rec.Metadata.Notes),
		pgconv.StringPtrToPgtype(rec.Metadata.IPAddress),
		pgconv.StringPtrToPgtype(rec.Metadata.UserAgent),
		rec.RedeemedAt,
	)
	if err != nil {
		if pgconv.IsUniqueViolation(err) {
			return infra.WrapRepoErr("coupon already has a redemption record", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to record coupon redemption", err)
	}
	return nil
}

func scanCoupon(row pgx.Row) (*coupon.Coupon, error) {
	var (
		id, dealID           uuid.UUID
		buyerID, supplierID  uuid.UUID
		code, dealTitle      string
		dealDescription      string
		dealPriceCents       int64
		validUntil           time.Time
		status               string
		redeemedAt           pgtype.Timestamptz
		createdAt, updatedAt time.Time
	)

	err := row.Scan(
		&id, &code, &dealID, &buyerID, &supplierID, &dealTitle, &dealPriceCents,
		&dealDescription, &validUntil, &status, &redeemedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	return coupon.Restore(
		id, code, dealID, buyerID, supplierID, dealTitle, dealPriceCents,
		dealDescription, validUntil, coupon.Status(status),
		pgconv.TimePtrFromPgtype(redeemedAt), createdAt, updatedAt,
	), nil
}
