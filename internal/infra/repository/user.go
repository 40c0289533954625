package repository

import (
	"context"
	"time"

	"business-daily-deals/internal/domain/user"
	"business-daily-deals/internal/infra"
	"business-daily-deals/internal/infra/db"
	"business-daily-deals/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

const insertUserSQL = `
INSERT INTO users (id, email, password_hash, role, company_name, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

func (r *UserRepository) Create(ctx context.Context, tx db.DBTX, u *user.User, now time.Time) error {
	_, err := tx.Exec(ctx, insertUserSQL,
		u.ID(), u.Email().Value(), u.PasswordHash(), string(u.Role()),
		pgconv.StringPtrToPgtype(u.CompanyName()), u.IsActive(), now, now,
	)
	if err != nil {
		if pgconv.IsUniqueViolation(err) {
			return infra.WrapRepoErr("email already registered", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create user", err)
	}
	return nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, tx db.DBTX, userID uuid.UUID, now time.Time) error {
	_, err := tx.Exec(ctx, `
		UPDATE users SET last_login = $2, updated_at = $2 WHERE id = $1
	`, userID, now)
	if err != nil {
		return infra.WrapRepoErr("failed to update user last login", err)
	}
	return nil
}
