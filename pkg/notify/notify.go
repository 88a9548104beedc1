// Package notify manages new-offer push notifications: who is subscribed and
// the fan-out of the offer template when a bid is accepted.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"subastabot/pkg/logger"
	"subastabot/pkg/models"
	"subastabot/storage"
)

// INotifier is the capability surface the state machines consume.
type INotifier interface {
	Subscribe(ctx context.Context, phone string) (string, error)
	Unsubscribe(ctx context.Context, subscriptionID string) error
	PublishNewOffer(ctx context.Context, amount, bidderPhone string) error
}

// TemplateSender is the slice of the messaging client needed for fan-out.
type TemplateSender interface {
	SendTemplate(ctx context.Context, to, name, language string, params []string) error
}

type Service struct {
	subs     storage.ISubscriptionStorage
	sender   TemplateSender
	template string
	log      logger.ILogger
}

func New(subs storage.ISubscriptionStorage, sender TemplateSender, template string, log logger.ILogger) *Service {
	return &Service{
		subs:     subs,
		sender:   sender,
		template: template,
		log:      log,
	}
}

func (s *Service) Subscribe(ctx context.Context, phone string) (string, error) {
	sub := &models.Subscription{
		ID:        uuid.New().String(),
		Phone:     phone,
		CreatedAt: time.Now().Unix(),
	}
	if err := s.subs.Create(ctx, sub); err != nil {
		return "", fmt.Errorf("notify: subscribe %s: %w", phone, err)
	}
	return sub.ID, nil
}

func (s *Service) Unsubscribe(ctx context.Context, subscriptionID string) error {
	if err := s.subs.Delete(ctx, subscriptionID); err != nil {
		return fmt.Errorf("notify: unsubscribe %s: %w", subscriptionID, err)
	}
	return nil
}

// PublishNewOffer sends the new-offer template to every subscriber except the
// bidder. Individual delivery failures are logged and do not stop the
// fan-out; the accepted bid is already durable at this point.
func (s *Service) PublishNewOffer(ctx context.Context, amount, bidderPhone string) error {
	subs, err := s.subs.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("notify: list subscriptions: %w", err)
	}

	sent := 0
	for _, sub := range subs {
		if sub.Phone == bidderPhone {
			continue
		}
		if err := s.sender.SendTemplate(ctx, sub.Phone, s.template, "es", []string{amount}); err != nil {
			s.log.Error("failed to notify subscriber",
				logger.Error(err), logger.String("phone", sub.Phone))
			continue
		}
		sent++
	}
	s.log.Info("new offer notifications sent",
		logger.Int("sent_count", sent), logger.String("amount", amount))
	return nil
}
