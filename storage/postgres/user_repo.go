package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"subastabot/pkg/auctionerrors"
	"subastabot/pkg/logger"
	"subastabot/pkg/models"
	"subastabot/storage"
)

// Profile columns SetProfileField may write. Anything else is a programming
// error, not user input.
var profileColumns = map[string]bool{
	"document_type": true,
	"document":      true,
	"name":          true,
	"email":         true,
	"address":       true,
	"city":          true,
}

type userRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewUserRepo(db *pgxpool.Pool, log logger.ILogger) storage.IUserStorage {
	return &userRepo{db: db, log: log}
}

const userColumns = `phone, COALESCE(status, ''), COALESCE(document_type, ''), COALESCE(document, ''),
	COALESCE(name, ''), COALESCE(email, ''), COALESCE(address, ''), COALESCE(city, ''),
	COALESCE(draft_bid, 0), COALESCE(subscription_id, ''), verified, terms_documents,
	created_at, last_message`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.Phone, &u.Status, &u.DocumentType, &u.Document,
		&u.Name, &u.Email, &u.Address, &u.City,
		&u.DraftBid, &u.SubscriptionID, &u.Verified, &u.TermsDocuments,
		&u.CreatedAt, &u.LastMessage,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) Get(ctx context.Context, phone string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE phone = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, phone))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.log.Error("failed to get user", logger.Error(err))
		return nil, err
	}
	return user, nil
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (phone, status, created_at, last_message)
		VALUES ($1, NULLIF($2, ''), $3, $4)
		ON CONFLICT (phone) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, user.Phone, user.Status, user.CreatedAt, user.LastMessage)
	if err != nil {
		r.log.Error("failed to create user", logger.Error(err))
	}
	return err
}

func (r *userRepo) UpdateStatus(ctx context.Context, phone, status string) error {
	tag, err := r.db.Exec(ctx, "UPDATE users SET status=NULLIF($1, '') WHERE phone=$2", status, phone)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update status for %s: %w", phone, auctionerrors.ErrUserNotFound)
	}
	return nil
}

func (r *userRepo) SetProfileField(ctx context.Context, phone, field, value, status string) error {
	if !profileColumns[field] {
		return fmt.Errorf("set profile field: unknown column %q", field)
	}
	query := fmt.Sprintf("UPDATE users SET %s=$1, status=NULLIF($2, '') WHERE phone=$3", field)
	_, err := r.db.Exec(ctx, query, value, status, phone)
	return err
}

func (r *userRepo) SetDraftBid(ctx context.Context, phone string, amount int64, status string) error {
	_, err := r.db.Exec(ctx,
		"UPDATE users SET draft_bid=$1, status=NULLIF($2, '') WHERE phone=$3",
		amount, status, phone)
	return err
}

func (r *userRepo) ClearDraftBid(ctx context.Context, phone, status string) error {
	_, err := r.db.Exec(ctx,
		"UPDATE users SET draft_bid=NULL, status=NULLIF($1, '') WHERE phone=$2",
		status, phone)
	return err
}

func (r *userRepo) SetSubscription(ctx context.Context, phone, subscriptionID string) error {
	_, err := r.db.Exec(ctx,
		"UPDATE users SET subscription_id=$1, status=NULL WHERE phone=$2",
		subscriptionID, phone)
	return err
}

func (r *userRepo) ClearSubscription(ctx context.Context, phone string) error {
	_, err := r.db.Exec(ctx,
		"UPDATE users SET subscription_id=NULL, status=NULL WHERE phone=$1",
		phone)
	return err
}

func (r *userRepo) CompleteSignup(ctx context.Context, phone string) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE users SET status=NULL, verified=TRUE WHERE phone=$1",
		phone)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("complete signup for %s: %w", phone, auctionerrors.ErrUserNotFound)
	}
	return nil
}

func (r *userRepo) UpdateLastMessage(ctx context.Context, phone string, ts int64) error {
	_, err := r.db.Exec(ctx, "UPDATE users SET last_message=$1 WHERE phone=$2", ts, phone)
	return err
}

func (r *userRepo) AppendTermsDocument(ctx context.Context, phone, location string) error {
	_, err := r.db.Exec(ctx,
		"UPDATE users SET terms_documents = array_append(terms_documents, $1) WHERE phone=$2",
		location, phone)
	return err
}
