package storage

import (
	"context"

	"subastabot/pkg/models"
)

type IStorage interface {
	User() IUserStorage
	Bid() IBidStorage
	Subscription() ISubscriptionStorage
	Close()
}

// IUserStorage mutates single user rows. Every update method touches exactly
// one row in one statement, so concurrent webhook deliveries for the same
// phone cannot interleave half-written records.
type IUserStorage interface {
	Get(ctx context.Context, phone string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateStatus(ctx context.Context, phone, status string) error
	SetProfileField(ctx context.Context, phone, field, value, status string) error
	SetDraftBid(ctx context.Context, phone string, amount int64, status string) error
	ClearDraftBid(ctx context.Context, phone, status string) error
	SetSubscription(ctx context.Context, phone, subscriptionID string) error
	ClearSubscription(ctx context.Context, phone string) error
	CompleteSignup(ctx context.Context, phone string) error
	UpdateLastMessage(ctx context.Context, phone string, ts int64) error
	AppendTermsDocument(ctx context.Context, phone, location string) error
}

// IBidStorage owns the bid history and the singleton highest-bid record.
type IBidStorage interface {
	Highest(ctx context.Context) (models.AuctionState, error)
	// Place records the bid and promotes it to highest in one transaction,
	// conditional on the highest amount still being expectedHighest. It
	// returns false without writing anything when another bid won the race.
	Place(ctx context.Context, bid *models.Bid, expectedHighest int64) (bool, error)
	GetAll(ctx context.Context) ([]*models.Bid, error)
}

type ISubscriptionStorage interface {
	Create(ctx context.Context, sub *models.Subscription) error
	Delete(ctx context.Context, id string) error
	GetAll(ctx context.Context) ([]*models.Subscription, error)
}
