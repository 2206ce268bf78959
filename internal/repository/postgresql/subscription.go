package postgresql

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/kostadin12/sis-api/internal/domain/subscription"
	"github.com/kostadin12/sis-api/internal/pkg/database"
)

type subscriptionRepositoryImpl struct {
	db *database.DB
}

func NewSubscriptionRepository(db *database.DB) subscription.SubscriptionRepository {
	return &subscriptionRepositoryImpl{db: db}
}

func (r *subscriptionRepositoryImpl) SubscribersOf(ctx context.Context, userID string) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT subscriber_id FROM subscriptions WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectIDs(rows)
}

func collectIDs(rows pgx.Rows) ([]string, error) {
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
