package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"subastabot/pkg/logger"
	"subastabot/pkg/models"
	"subastabot/storage"
)

type subscriptionRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewSubscriptionRepo(db *pgxpool.Pool, log logger.ILogger) storage.ISubscriptionStorage {
	return &subscriptionRepo{db: db, log: log}
}

func (r *subscriptionRepo) Create(ctx context.Context, sub *models.Subscription) error {
	query := `
		INSERT INTO subscriptions (id, phone, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (phone) DO UPDATE SET id = EXCLUDED.id
	`
	_, err := r.db.Exec(ctx, query, sub.ID, sub.Phone, sub.CreatedAt)
	if err != nil {
		r.log.Error("failed to create subscription", logger.Error(err))
	}
	return err
}

func (r *subscriptionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, "DELETE FROM subscriptions WHERE id=$1", id)
	return err
}

func (r *subscriptionRepo) GetAll(ctx context.Context) ([]*models.Subscription, error) {
	rows, err := r.db.Query(ctx, "SELECT id, phone, created_at FROM subscriptions")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*models.Subscription
	for rows.Next() {
		var s models.Subscription
		if err := rows.Scan(&s.ID, &s.Phone, &s.CreatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, &s)
	}
	return subs, rows.Err()
}
