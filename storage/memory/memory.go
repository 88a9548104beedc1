// Package memory is a concurrency-safe in-memory implementation of the
// storage facade. It backs the state-machine tests and keeps the same
// compare-and-swap semantics as the Postgres implementation.
package memory

import (
	"context"
	"fmt"
	"sync"

	"subastabot/pkg/auctionerrors"
	"subastabot/pkg/models"
	"subastabot/storage"
)

type Store struct {
	mu            sync.RWMutex
	users         map[string]*models.User
	bids          []*models.Bid
	state         models.AuctionState
	subscriptions map[string]*models.Subscription // key: subscription id
}

func New() *Store {
	return &Store{
		users:         make(map[string]*models.User),
		subscriptions: make(map[string]*models.Subscription),
	}
}

func (s *Store) User() storage.IUserStorage                 { return (*userStore)(s) }
func (s *Store) Bid() storage.IBidStorage                   { return (*bidStore)(s) }
func (s *Store) Subscription() storage.ISubscriptionStorage { return (*subscriptionStore)(s) }
func (s *Store) Close()                                     {}

type userStore Store

func (s *userStore) Get(_ context.Context, phone string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[phone]
	if !ok {
		return nil, nil
	}
	copied := *u
	copied.TermsDocuments = append([]string(nil), u.TermsDocuments...)
	return &copied, nil
}

func (s *userStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Phone]; ok {
		return nil
	}
	copied := *user
	s.users[user.Phone] = &copied
	return nil
}

func (s *userStore) mutate(phone string, fn func(u *models.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[phone]
	if !ok {
		return fmt.Errorf("mutate user %s: %w", phone, auctionerrors.ErrUserNotFound)
	}
	fn(u)
	return nil
}

func (s *userStore) UpdateStatus(_ context.Context, phone, status string) error {
	return s.mutate(phone, func(u *models.User) { u.Status = status })
}

func (s *userStore) SetProfileField(_ context.Context, phone, field, value, status string) error {
	return s.mutate(phone, func(u *models.User) {
		switch field {
		case "document_type":
			u.DocumentType = value
		case "document":
			u.Document = value
		case "name":
			u.Name = value
		case "email":
			u.Email = value
		case "address":
			u.Address = value
		case "city":
			u.City = value
		}
		u.Status = status
	})
}

func (s *userStore) SetDraftBid(_ context.Context, phone string, amount int64, status string) error {
	return s.mutate(phone, func(u *models.User) {
		u.DraftBid = amount
		u.Status = status
	})
}

func (s *userStore) ClearDraftBid(_ context.Context, phone, status string) error {
	return s.mutate(phone, func(u *models.User) {
		u.DraftBid = 0
		u.Status = status
	})
}

func (s *userStore) SetSubscription(_ context.Context, phone, subscriptionID string) error {
	return s.mutate(phone, func(u *models.User) {
		u.SubscriptionID = subscriptionID
		u.Status = models.StatusIdle
	})
}

func (s *userStore) ClearSubscription(_ context.Context, phone string) error {
	return s.mutate(phone, func(u *models.User) {
		u.SubscriptionID = ""
		u.Status = models.StatusIdle
	})
}

func (s *userStore) CompleteSignup(_ context.Context, phone string) error {
	return s.mutate(phone, func(u *models.User) {
		u.Status = models.StatusIdle
		u.Verified = true
	})
}

func (s *userStore) UpdateLastMessage(_ context.Context, phone string, ts int64) error {
	return s.mutate(phone, func(u *models.User) { u.LastMessage = ts })
}

func (s *userStore) AppendTermsDocument(_ context.Context, phone, location string) error {
	return s.mutate(phone, func(u *models.User) {
		u.TermsDocuments = append(u.TermsDocuments, location)
	})
}

type bidStore Store

func (s *bidStore) Highest(_ context.Context) (models.AuctionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, nil
}

func (s *bidStore) Place(_ context.Context, bid *models.Bid, expectedHighest int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Amount != expectedHighest {
		return false, nil
	}
	copied := *bid
	s.bids = append(s.bids, &copied)
	s.state = models.AuctionState{Amount: bid.Amount, Phone: bid.Phone}
	return true, nil
}

func (s *bidStore) GetAll(_ context.Context) ([]*models.Bid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bids := make([]*models.Bid, 0, len(s.bids))
	for _, b := range s.bids {
		copied := *b
		bids = append(bids, &copied)
	}
	return bids, nil
}

type subscriptionStore Store

func (s *subscriptionStore) Create(_ context.Context, sub *models.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, existing := range s.subscriptions {
		if existing.Phone == sub.Phone {
			delete(s.subscriptions, id)
		}
	}
	copied := *sub
	s.subscriptions[sub.ID] = &copied
	return nil
}

func (s *subscriptionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subscriptions, id)
	return nil
}

func (s *subscriptionStore) GetAll(_ context.Context) ([]*models.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	subs := make([]*models.Subscription, 0, len(s.subscriptions))
	for _, sub := range s.subscriptions {
		copied := *sub
		subs = append(subs, &copied)
	}
	return subs, nil
}
