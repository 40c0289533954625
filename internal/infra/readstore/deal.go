package readstore

import (
	"context"
	"fmt"
	"time"

	"business-daily-deals/internal/domain/deal"
	"business-daily-deals/internal/infra"
	"business-daily-deals/internal/infra/db"
	"business-daily-deals/internal/pkg/pgconv"
	"business-daily-deals/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type DealReadStore struct {
	db db.DBTX
}

func NewDealReadStore(db db.DBTX) *DealReadStore {
	return &DealReadStore{db: db}
}

// effectiveStatusExpr folds read-time expiry into the returned status without
// touching the row.
const effectiveStatusExpr = `
	CASE WHEN d.status = 'active' AND d.expires_at IS NOT NULL AND d.expires_at <= $1
		THEN 'expired' ELSE d.status END
`

const selectDealViewSQL = `
SELECT d.id, d.supplier_id, u.company_name, d.title, d.description, d.category,
	d.price_cents, d.original_price_cents, d.deal_type, ` + effectiveStatusExpr + `,
	d.expires_at, d.keywords, d.view_count, d.click_count, d.created_at, d.updated_at
FROM deals d
JOIN users u ON u.id = d.supplier_id
WHERE d.id = $2
`

func (r *DealReadStore) FindByID(ctx context.Context, id uuid.UUID, now time.Time) (*queries.DealView, error) {
	var (
		v                  queries.DealView
		supplierCompany    pgtype.Text
		originalPriceCents pgtype.Int8
		expiresAt          pgtype.Timestamptz
	)

	err := r.db.QueryRow(ctx, selectDealViewSQL, now, id).Scan(
		&v.ID, &v.SupplierID, &supplierCompany, &v.Title, &v.Description, &v.Category,
		&v.PriceCents, &originalPriceCents, &v.DealType, &v.Status,
		&expiresAt, &v.Keywords, &v.ViewCount, &v.ClickCount, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("deal not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find deal view", err)
	}

	v.SupplierCompany = pgconv.StringPtrFromPgtype(supplierCompany)
	v.OriginalPriceCents = pgconv.Int64PtrFromPgtype(originalPriceCents)
	v.ExpiresAt = pgconv.TimePtrFromPgtype(expiresAt)
	return &v, nil
}

func (r *DealReadStore) Find(ctx context.Context, filter queries.DealFilter, now time.Time, limit, offset int32) ([]*queries.DealListItem, error) {
	sql := `
SELECT d.id, d.supplier_id, d.title, d.category, d.price_cents,
	d.original_price_cents, d.deal_type, ` + effectiveStatusExpr + `,
	d.expires_at, d.view_count, d.created_at
FROM deals d
WHERE 1=1
`
	args := []any{now}

	if filter.Category != nil && *filter.Category != deal.CategoryAll {
		args = append(args, *filter.Category)
		sql += fmt.Sprintf(" AND d.category = $%d", len(args))
	}
	if filter.DealType != nil {
		args = append(args, *filter.DealType)
		sql += fmt.Sprintf(" AND d.deal_type = $%d", len(args))
	}
	if filter.SupplierID != nil {
		args = append(args, *filter.SupplierID)
		sql += fmt.Sprintf(" AND d.supplier_id = $%d", len(args))
	}
	if filter.Search != nil {
		args = append(args, "%"+*filter.Search+"%")
		sql += fmt.Sprintf(" AND (d.title ILIKE $%d OR d.description ILIKE $%d)", len(args), len(args))
	}
	switch {
	case filter.OnlyExpired:
		sql += " AND (d.status = 'expired' OR (d.expires_at IS NOT NULL AND d.expires_at <= $1))"
	case !filter.IncludeExpired:
		sql += " AND d.status = 'active' AND (d.expires_at IS NULL OR d.expires_at > $1)"
	}

	args = append(args, limit, offset)
	sql += fmt.Sprintf(" ORDER BY d.created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list deals", err)
	}
	defer rows.Close()

	var items []*queries.DealListItem
	for rows.Next() {
		var (
			item               queries.DealListItem
			originalPriceCents pgtype.Int8
			expiresAt          pgtype.Timestamptz
		)
		err := rows.Scan(
			&item.ID, &item.SupplierID, &item.Title, &item.Category, &item.PriceCents,
			&originalPriceCents, &item.DealType, &item.Status,
			&expiresAt, &item.ViewCount, &item.CreatedAt,
		)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan deal list item", err)
		}
		item.OriginalPriceCents = pgconv.Int64PtrFromPgtype(originalPriceCents)
		item.ExpiresAt = pgconv.TimePtrFromPgtype(expiresAt)
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate deal list", err)
	}
	return items, nil
}
