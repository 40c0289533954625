package readstore

import (
	"context"

	"business-daily-deals/internal/infra"
	"business-daily-deals/internal/infra/db"
	"business-daily-deals/internal/pkg/pgconv"
	"business-daily-deals/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type UserReadStore struct {
	db db.DBTX
}

func NewUserReadStore(db db.DBTX) *UserReadStore {
	return &UserReadStore{db: db}
}

func (r *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	var (
		v           queries.AuthorizedUserView
		companyName pgtype.Text
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, email, role, company_name, is_active
		FROM users
		WHERE id = $1
	`, id).Scan(&v.ID, &v.Email, &v.Role, &companyName, &v.IsActive)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by ID", err)
	}
	v.CompanyName = pgconv.StringPtrFromPgtype(companyName)
	return &v, nil
}

func (r *UserReadStore) FindByEmail(ctx context.Context, email string) (*queries.AuthorizedUserView, string, error) {
	var (
		v            queries.AuthorizedUserView
		companyName  pgtype.Text
		passwordHash string
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, email, role, company_name, is_active, password_hash
		FROM users
		WHERE email = $1
	`, email).Scan(&v.ID, &v.Email, &v.Role, &companyName, &v.IsActive, &passwordHash)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, "", infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, "", infra.WrapRepoErr("failed to find user by email", err)
	}
	v.CompanyName = pgconv.StringPtrFromPgtype(companyName)
	return &v, passwordHash, nil
}
