package readstore

import (
	"context"
	"time"

	"business-daily-deals/internal/infra"
	"business-daily-deals/internal/infra/db"
	"business-daily-deals/internal/pkg/pgconv"
	"business-daily-deals/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type CouponReadStore struct {
	db db.DBTX
}

func NewCouponReadStore(db db.DBTX) *CouponReadStore {
	return &CouponReadStore{db: db}
}

const selectCouponViewSQL = `
SELECT id, code, deal_id, buyer_id, supplier_id, deal_title, deal_price_cents,
	deal_description,
	CASE WHEN status = 'active' AND valid_until < $1 THEN 'expired' ELSE status END,
	valid_until, redeemed_at, created_at
FROM coupons
`

func (r *CouponReadStore) FindByBuyerID(ctx context.Context, buyerID uuid.UUID, now time.Time, limit, offset int32) ([]*queries.CouponView, error) {
	rows, err := r.db.Query(ctx,
		selectCouponViewSQL+` WHERE buyer_id = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4`,
		now, buyerID, limit, offset)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list coupons by buyer", err)
	}
	defer rows.Close()
	return collectCouponViews(rows)
}

func (r *CouponReadStore) FindBySupplierID(ctx context.Context, supplierID uuid.UUID, now time.Time, limit, offset int32) ([]*queries.CouponView, error) {
	rows, err := r.db.Query(ctx,
		selectCouponViewSQL+` WHERE supplier_id = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4`,
		now, supplierID, limit, offset)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list coupons by supplier", err)
	}
	defer rows.Close()
	return collectCouponViews(rows)
}

func (r *CouponReadStore) FindByCode(ctx context.Context, code string, now time.Time) (*queries.CouponView, error) {
	row := r.db.QueryRow(ctx, selectCouponViewSQL+` WHERE code = $2`, now, code)
	v, err := scanCouponView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon view", err)
	}
	return v, nil
}

func (r *CouponReadStore) FindRedemptionsByCode(ctx context.Context, code string) ([]*queries.CouponRedemptionView, error) {
	rows, err := r.db.Query(ctx, `
SELECT cr.id, cr.coupon_id, cr.supplier_id, cr.location, cr.notes, cr.redeemed_at
FROM coupon_redemptions cr
JOIN coupons c ON c.id = cr.coupon_id
WHERE c.code = $1
ORDER BY cr.redeemed_at DESC`, code)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list coupon redemptions", err)
	}
	defer rows.Close()

	var views []*queries.CouponRedemptionView
	for rows.Next() {
		var (
			v        queries.CouponRedemptionView
			location pgtype.Text
			notes    pgtype.Text
		)
		if err := rows.Scan(&v.ID, &v.CouponID, &v.SupplierID, &location, &notes, &v.RedeemedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan coupon redemption", err)
		}
		v.Location = pgconv.StringPtrFromPgtype(location)
		v.Notes = pgconv.StringPtrFromPgtype(notes)
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate coupon redemptions", err)
	}
	return views, nil
}

func collectCouponViews(rows pgx.Rows) ([]*queries.CouponView, error) {
	var views []*queries.CouponView
	for rows.Next() {
		v, err := scanCouponView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan coupon view", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate coupon views", err)
	}
	return views, nil
}

func scanCouponView(row pgx.Row) (*queries.CouponView, error) {
	var (
		v          queries.CouponView
		redeemedAt pgtype.Timestamptz
	)
	err := row.Scan(
		&v.ID, &v.Code, &v.DealID, &v.BuyerID, &v.SupplierID, &v.DealTitle,
		&v.DealPriceCents, &v.DealDescription, &v.Status, &v.ValidUntil,
		&redeemedAt, &v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	v.RedeemedAt = pgconv.TimePtrFromPgtype(redeemedAt)
	return &v, nil
}
