package repository

import (
	"context"
	"time"

	"business-daily-deals/internal/infra"
	"business-daily-deals/internal/infra/db"
	"business-daily-deals/internal/usecase/shared"

	"github.com/google/uuid"
)

type KeywordRepository struct{}

func NewKeywordRepository() *KeywordRepository {
	return &KeywordRepository{}
}

// Subscribe is idempotent: re-subscribing to an existing keyword is a no-op.
func (r *KeywordRepository) Subscribe(ctx context.Context, tx db.DBTX, userID uuid.UUID, keyword string, now time.Time) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO keyword_subscriptions (id, user_id, keyword, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, keyword) DO NOTHING
	`, uuid.New(), userID, keyword, now)
	if err != nil {
		return infra.WrapRepoErr("failed to create keyword subscription", err)
	}
	return nil
}

func (r *KeywordRepository) Unsubscribe(ctx context.Context, tx db.DBTX, userID uuid.UUID, keyword string) error {
	tag, err := tx.Exec(ctx, `
		DELETE FROM keyword_subscriptions
		WHERE user_id = $1 AND keyword = $2
	`, userID, keyword)
	if err != nil {
		return infra.WrapRepoErr("failed to delete keyword subscription", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("keyword subscription not found", nil, infra.KindNotFound)
	}
	return nil
}

// SubscribersForKeywords matches exactly and case-sensitively against the
// stored terms. Each (user, keyword) pair comes back as its own match.
func (r *KeywordRepository) SubscribersForKeywords(ctx context.Context, tx db.DBTX, keywords []string) ([]shared.KeywordMatch, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	rows, err := tx.Query(ctx, `
		SELECT user_id, keyword
		FROM keyword_subscriptions
		WHERE keyword = ANY($1)
	`, keywords)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query keyword subscribers", err)
	}
	defer rows.Close()

	var matches []shared.KeywordMatch
	for rows.Next() {
		var m shared.KeywordMatch
		if err := rows.Scan(&m.UserID, &m.Keyword); err != nil {
			return nil, infra.WrapRepoErr("failed to scan keyword match", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate keyword matches", err)
	}
	return matches, nil
}
