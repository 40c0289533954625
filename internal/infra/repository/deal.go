package repository

import (
	"context"
	"time"

	"business-daily-deals/internal/domain/deal"
	"business-daily-deals/internal/infra"
	"business-daily-deals/internal/infra/db"
	"business-daily-deals/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type DealRepository struct{}

func NewDealRepository() *DealRepository {
	return &DealRepository{}
}

const insertDealSQL = `
INSERT INTO deals (
	id, supplier_id, title, description, category, price_cents,
	original_price_cents, deal_type, status, expires_at, keywords,
	created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
`

func (r *DealRepository) Create(ctx context.Context, tx db.DBTX, d *deal.Deal) error {
	var originalPrice *int64
	if op := d.OriginalPrice(); op != nil {
		cents := op.Cents()
		originalPrice = &cents
	}

	_, err := tx.Exec(ctx, insertDealSQL,
		d.ID(), d.SupplierID(), d.Title().String(), d.Description(), d.Category(),
		d.Price().Cents(), pgconv.Int64PtrToPgtype(originalPrice),
		string(d.DealType()), string(d.Status()), pgconv.TimePtrToPgtype(d.ExpiresAt()),
		[]string(d.Keywords()), d.CreatedAt(), d.UpdatedAt(),
	)
	if err != nil {
		if pgconv.IsForeignKeyViolation(err) {
			return infra.WrapRepoErr("deal references unknown supplier", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to create deal", err)
	}
	return nil
}

const updateDealSQL = `
UPDATE deals SET
	title = $2, description = $3, category = $4, price_cents = $5,
	original_price_cents = $6, deal_type = $7, status = $8, expires_at = $9,
	keywords = $10, updated_at = $11
WHERE id = $1
`

func (r *DealRepository) Update(ctx context.Context, tx db.DBTX, d *deal.Deal) error {
	var originalPrice *int64
	if op := d.OriginalPrice(); op != nil {
		cents := op.Cents()
		originalPrice = &cents
	}

	tag, err := tx.Exec(ctx, updateDealSQL,
		d.ID(), d.Title().String(), d.Description(), d.Category(),
		d.Price().Cents(), pgconv.Int64PtrToPgtype(originalPrice),
		string(d.DealType()), string(d.Status()), pgconv.TimePtrToPgtype(d.ExpiresAt()),
		[]string(d.Keywords()), d.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update deal", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("deal not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *DealRepository) Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) error {
	tag, err := tx.Exec(ctx, `DELETE FROM deals WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete deal", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("deal not found", nil, infra.KindNotFound)
	}
	return nil
}

const selectDealSQL = `
SELECT id, supplier_id, title, description, category, price_cents,
	original_price_cents, deal_type, status, expires_at, keywords,
	created_at, updated_at
FROM deals
WHERE id = $1
`

func (r *DealRepository) FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*deal.Deal, error) {
	row := tx.QueryRow(ctx, selectDealSQL, id)
	d, err := scanDeal(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("deal not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find deal by ID", err)
	}
	return d, nil
}

func scanDeal(row pgx.Row) (*deal.Deal, error) {
	var (
		id, supplierID          uuid.UUID
		title, description      string
		category, dealType      string
		status                  string
		priceCents              int64
		originalPriceCents      pgtype.Int8
		expiresAt               pgtype.Timestamptz
		keywords                []string
		createdAt, updatedAt    time.Time
	)

	err := row.Scan(
		&id, &supplierID, &title, &description, &category, &priceCents,
		&originalPriceCents, &dealType, &status, &expiresAt, &keywords,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	return deal.Restore(
		id, supplierID, title, description, category, priceCents,
		pgconv.Int64PtrFromPgtype(originalPriceCents),
		deal.Type(dealType), deal.Status(status),
		pgconv.TimePtrFromPgtype(expiresAt), keywords,
		createdAt, updatedAt,
	), nil
}

func (r *DealRepository) IncrementViewCount(ctx context.Context, tx db.DBTX, id uuid.UUID) error {
	tag, err := tx.Exec(ctx, `UPDATE deals SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to increment view count", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("deal not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *DealRepository) IncrementClickCount(ctx context.Context, tx db.DBTX, id uuid.UUID) error {
	tag, err := tx.Exec(ctx, `UPDATE deals SET click_count = click_count + 1 WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to increment click count", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("deal not found", nil, infra.KindNotFound)
	}
	return nil
}
