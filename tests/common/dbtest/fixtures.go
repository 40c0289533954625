//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// bcrypt hash of "password123"
const testPasswordHash = "$2a$12$uhAjVE9f92IGYv3E25pJNetg.27lVt0p7jmLWjqjmhOg92ldPS0A."

func CreateTestUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	var companyName *string
	if role == "supplier" {
		name := "Test Supplier (Pty) Ltd"
		companyName = &name
	}

	tag, err := db.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, role, company_name, is_active)
		VALUES ($1, $2, $3, $4, $5, true)
		ON CONFLICT (email) DO NOTHING`,
		userID, email, testPasswordHash, role, companyName)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID)
	}

	if role == "supplier" {
		_, err = db.Exec(ctx, `
			INSERT INTO credit_balances (user_id, credit_balance, total_credits_spent)
			VALUES ($1, 0, 0)
			ON CONFLICT (user_id) DO NOTHING`, userID)
		require.NoError(t, err)
	}

	return userID
}

func CreateTestDeal(t *testing.T, db DBLike, supplierID uuid.UUID, title, dealType string, expiresAt time.Time, keywords []string) uuid.UUID {
	t.Helper()

	dealID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx, `
		INSERT INTO deals (id, supplier_id, title, description, category, price_cents, deal_type, status, expires_at, keywords)
		VALUES ($1, $2, $3, 'Test deal description', 'Office Supplies', 49900, $4, 'active', $5, $6)`,
		dealID, supplierID, title, dealType, expiresAt, keywords)
	require.NoError(t, err)

	return dealID
}

func GrantCredits(t *testing.T, db DBLike, userID uuid.UUID, amount int64) {
	t.Helper()

	ctx := context.Background()
	_, err := db.Exec(ctx, `
		UPDATE credit_balances SET credit_balance = credit_balance + $2, updated_at = now()
		WHERE user_id = $1`, userID, amount)
	require.NoError(t, err)
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables between tests
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var tbl string
			if err := rows.Scan(&tbl); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, tbl)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return nil
}
