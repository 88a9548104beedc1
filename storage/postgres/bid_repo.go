package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"subastabot/pkg/logger"
	"subastabot/pkg/models"
	"subastabot/storage"
)

const highestBidKey = "HIGHEST_BID"

type bidRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewBidRepo(db *pgxpool.Pool, log logger.ILogger) storage.IBidStorage {
	return &bidRepo{db: db, log: log}
}

func (r *bidRepo) Highest(ctx context.Context) (models.AuctionState, error) {
	var state models.AuctionState
	query := `SELECT amount, COALESCE(phone, '') FROM auction_state WHERE id = $1`
	err := r.db.QueryRow(ctx, query, highestBidKey).Scan(&state.Amount, &state.Phone)
	if err != nil {
		if err == pgx.ErrNoRows {
			return models.AuctionState{}, nil
		}
		r.log.Error("failed to get auction state", logger.Error(err))
		return models.AuctionState{}, err
	}
	return state, nil
}

// Place promotes the bid with a conditional update on the highest-bid row.
// The WHERE amount = expected clause is the compare-and-swap: of two
// confirmations racing against the same observed highest, exactly one
// matches and commits, the other rolls back untouched.
func (r *bidRepo) Place(ctx context.Context, bid *models.Bid, expectedHighest int64) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("failed to begin bid transaction", logger.Error(err))
		return false, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		"UPDATE auction_state SET amount=$1, phone=$2 WHERE id=$3 AND amount=$4",
		bid.Amount, bid.Phone, highestBidKey, expectedHighest)
	if err != nil {
		r.log.Error("failed to update auction state", logger.Error(err))
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	_, err = tx.Exec(ctx,
		"INSERT INTO bids (id, phone, amount, created_at) VALUES ($1, $2, $3, $4)",
		bid.ID, bid.Phone, bid.Amount, bid.CreatedAt)
	if err != nil {
		r.log.Error("failed to insert bid", logger.Error(err))
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		r.log.Error("failed to commit bid transaction", logger.Error(err))
		return false, err
	}
	return true, nil
}

func (r *bidRepo) GetAll(ctx context.Context) ([]*models.Bid, error) {
	query := `SELECT id, phone, amount, created_at FROM bids ORDER BY created_at`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bids []*models.Bid
	for rows.Next() {
		var b models.Bid
		if err := rows.Scan(&b.ID, &b.Phone, &b.Amount, &b.CreatedAt); err != nil {
			return nil, err
		}
		bids = append(bids, &b)
	}
	return bids, rows.Err()
}
