package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"subastabot/pkg/logger"
	"subastabot/pkg/models"
	"subastabot/pkg/money"
	"subastabot/pkg/whatsapp"
)

func (b *Bot) processAuction(ctx context.Context, m *whatsapp.InboundMessage, user *models.User, now time.Time) error {
	if !b.Cfg.AuctionStart.IsZero() && now.Before(b.Cfg.AuctionStart) {
		return b.Msg.SendText(ctx, m.From, fmt.Sprintf(msgAuctionNotStarted, b.windowTime(b.Cfg.AuctionStart)))
	}

	state, err := b.Stg.Bid().Highest(ctx)
	if err != nil {
		return err
	}

	// A user parked mid-flow for too long gets a fresh menu instead of a
	// stale question. The timeout compares against the message before this
	// one; the dispatcher already persisted the current timestamp.
	if user.Status != models.StatusIdle && user.LastMessage > 0 &&
		now.Unix()-user.LastMessage > int64(b.Cfg.IdleTimeout.Seconds()) {
		b.Log.Info("auction flow reset after inactivity",
			logger.String("phone", user.Phone), logger.String("status", user.Status))
		if err := b.Stg.User().UpdateStatus(ctx, user.Phone, models.StatusIdle); err != nil {
			return err
		}
		user.Status = models.StatusIdle
	}

	switch user.Status {
	case models.StatusPendingOfferConfirm:
		return b.confirmOffer(ctx, m, user, state)
	case models.StatusPendingNotificationConfig:
		return b.configureNotifications(ctx, m, user)
	}

	switch m.ButtonID() {
	case btnOffer:
		return b.proposeOffer(ctx, m, user, state)
	case btnManageNotifications:
		return b.askNotificationPreference(ctx, m, user)
	}

	return b.sendMenu(ctx, m.From, user, state)
}

// sendMenu shows the auction status and the available actions. The highest
// bidder cannot raise their own offer, so they only get the notifications
// button.
func (b *Bot) sendMenu(ctx context.Context, phone string, user *models.User, state models.AuctionState) error {
	if state.Amount > 0 && state.Phone == user.Phone {
		return b.Msg.SendButtons(ctx, phone, msgMenuHighestBidder, []whatsapp.Button{
			{ID: btnManageNotifications, Title: msgBtnNotifications},
		})
	}

	buttons := []whatsapp.Button{
		{ID: btnOffer, Title: msgBtnOffer},
		{ID: btnManageNotifications, Title: msgBtnNotifications},
	}

	if state.Amount > 0 {
		next := b.nextOffer(state)
		return b.Msg.SendButtons(ctx, phone,
			fmt.Sprintf(msgMenuWithBids, money.Format(state.Amount), money.Format(next)), buttons)
	}
	return b.Msg.SendButtons(ctx, phone,
		fmt.Sprintf(msgMenuNoBids, money.Format(b.Cfg.MinBid)), buttons)
}

// nextOffer is the amount the menu and the offer proposal put forward: one
// increment above the current highest, or the floor when nobody has bid yet.
func (b *Bot) nextOffer(state models.AuctionState) int64 {
	candidate := state.Amount + b.Cfg.MinBidIncrement
	if candidate < b.Cfg.MinBid {
		candidate = b.Cfg.MinBid
	}
	return candidate
}

func (b *Bot) proposeOffer(ctx context.Context, m *whatsapp.InboundMessage, user *models.User, state models.AuctionState) error {
	if state.Amount > 0 && state.Phone == user.Phone {
		return b.Msg.SendText(ctx, m.From, msgAlreadyHighest)
	}

	amount := b.nextOffer(state)
	if err := b.Stg.User().SetDraftBid(ctx, m.From, amount, models.StatusPendingOfferConfirm); err != nil {
		return err
	}
	user.Status = models.StatusPendingOfferConfirm
	user.DraftBid = amount

	return b.Msg.SendButtons(ctx, m.From,
		fmt.Sprintf(msgOfferPropose, money.Format(amount)), []whatsapp.Button{
			{ID: btnConfirmOffer, Title: msgOfferYes},
			{ID: btnCancelOffer, Title: msgOfferNo},
		})
}

func (b *Bot) confirmOffer(ctx context.Context, m *whatsapp.InboundMessage, user *models.User, state models.AuctionState) error {
	switch m.ButtonID() {
	case btnConfirmOffer:
		return b.placeOffer(ctx, m, user, state)

	case btnCancelOffer:
		if err := b.Stg.User().ClearDraftBid(ctx, m.From, models.StatusIdle); err != nil {
			return err
		}
		user.Status = models.StatusIdle
		user.DraftBid = 0
		return b.sendMenu(ctx, m.From, user, state)

	default:
		return b.Msg.SendButtons(ctx, m.From,
			fmt.Sprintf(msgOfferConfirm, money.Format(user.DraftBid)), []whatsapp.Button{
				{ID: btnConfirmOffer, Title: msgOfferYes},
				{ID: btnCancelOffer, Title: msgOfferNo},
			})
	}
}

func (b *Bot) placeOffer(ctx context.Context, m *whatsapp.InboundMessage, user *models.User, state models.AuctionState) error {
	draft := user.DraftBid

	// The draft was computed against an earlier highest bid. It must still
	// strictly exceed the current one, otherwise the user confirmed a stale
	// amount and has to start over.
	if draft <= state.Amount {
		return b.rejectStaleOffer(ctx, m, user, draft, state)
	}

	if draft < b.Cfg.MinBid || draft > b.Cfg.MaxBid {
		if err := b.Stg.User().ClearDraftBid(ctx, m.From, models.StatusIdle); err != nil {
			return err
		}
		user.Status = models.StatusIdle
		user.DraftBid = 0
		if err := b.Msg.SendText(ctx, m.From, fmt.Sprintf(msgOfferOutOfRange,
			money.Format(draft), money.Format(b.Cfg.MinBid), money.Format(b.Cfg.MaxBid))); err != nil {
			return err
		}
		return b.sendMenu(ctx, m.From, user, state)
	}

	bid := &models.Bid{
		ID:        uuid.NewString(),
		Phone:     m.From,
		Amount:    draft,
		CreatedAt: b.now().Unix(),
	}
	won, err := b.Stg.Bid().Place(ctx, bid, state.Amount)
	if err != nil {
		return err
	}
	if !won {
		// Lost the race against a concurrent confirmation.
		current, err := b.Stg.Bid().Highest(ctx)
		if err != nil {
			return err
		}
		b.Log.Info("bid rejected, highest moved",
			logger.String("phone", m.From), logger.Any("amount", draft))
		return b.rejectStaleOffer(ctx, m, user, draft, current)
	}

	if err := b.Stg.User().ClearDraftBid(ctx, m.From, models.StatusIdle); err != nil {
		return err
	}
	user.Status = models.StatusIdle
	user.DraftBid = 0
	b.Log.Info("bid registered", logger.String("phone", m.From), logger.Any("amount", draft))

	if err := b.Notif.PublishNewOffer(ctx, money.Format(draft), m.From); err != nil {
		b.Log.Error("failed to publish new offer", logger.Error(err))
	}

	return b.Msg.SendText(ctx, m.From, fmt.Sprintf(msgOfferRegistered, money.Format(draft)))
}

func (b *Bot) rejectStaleOffer(ctx context.Context, m *whatsapp.InboundMessage, user *models.User, draft int64, state models.AuctionState) error {
	if err := b.Stg.User().ClearDraftBid(ctx, m.From, models.StatusIdle); err != nil {
		return err
	}
	user.Status = models.StatusIdle
	user.DraftBid = 0

	if err := b.Msg.SendText(ctx, m.From, fmt.Sprintf(msgOfferOutbid,
		money.Format(draft), money.Format(state.Amount))); err != nil {
		return err
	}
	return b.sendMenu(ctx, m.From, user, state)
}

func (b *Bot) askNotificationPreference(ctx context.Context, m *whatsapp.InboundMessage, user *models.User) error {
	if err := b.Stg.User().UpdateStatus(ctx, m.From, models.StatusPendingNotificationConfig); err != nil {
		return err
	}
	user.Status = models.StatusPendingNotificationConfig
	return b.sendNotificationButtons(ctx, m.From)
}

func (b *Bot) sendNotificationButtons(ctx context.Context, phone string) error {
	return b.Msg.SendButtons(ctx, phone, msgNotificationsPrompt, []whatsapp.Button{
		{ID: btnEnableNotifications, Title: msgOfferYes},
		{ID: btnDisableNotifications, Title: msgOfferNo},
	})
}

func (b *Bot) configureNotifications(ctx context.Context, m *whatsapp.InboundMessage, user *models.User) error {
	switch m.ButtonID() {
	case btnEnableNotifications:
		if user.SubscriptionID == "" {
			handle, err := b.Notif.Subscribe(ctx, m.From)
			if err != nil {
				// Leave the question pending so the user can retry.
				b.Log.Error("subscribe failed", logger.Error(err), logger.String("phone", m.From))
				return b.Msg.SendText(ctx, m.From, msgSubscribeFailed)
			}
			if err := b.Stg.User().SetSubscription(ctx, m.From, handle); err != nil {
				return err
			}
			user.SubscriptionID = handle
		}
		if err := b.Stg.User().UpdateStatus(ctx, m.From, models.StatusIdle); err != nil {
			return err
		}
		user.Status = models.StatusIdle
		return b.Msg.SendText(ctx, m.From, msgNotificationsEnabled)

	case btnDisableNotifications:
		if user.SubscriptionID != "" {
			if err := b.Notif.Unsubscribe(ctx, user.SubscriptionID); err != nil {
				b.Log.Error("unsubscribe failed", logger.Error(err), logger.String("phone", m.From))
				return b.Msg.SendText(ctx, m.From, msgUnsubscribeFailed)
			}
			if err := b.Stg.User().ClearSubscription(ctx, m.From); err != nil {
				return err
			}
			user.SubscriptionID = ""
		}
		if err := b.Stg.User().UpdateStatus(ctx, m.From, models.StatusIdle); err != nil {
			return err
		}
		user.Status = models.StatusIdle
		return b.Msg.SendText(ctx, m.From, msgNotificationsDisabled)

	default:
		return b.sendNotificationButtons(ctx, m.From)
	}
}
