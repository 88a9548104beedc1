// Package bot holds the conversational core: the dispatcher that routes an
// inbound WhatsApp message by the sender's verification status, the signup
// state machine and the auction state machine. All cross-message state lives
// in storage; every inbound message is handled as an independent invocation.
package bot

import (
	"context"
	"time"

	"github.com/spf13/cast"

	"subastabot/config"
	"subastabot/pkg/filestore"
	"subastabot/pkg/logger"
	"subastabot/pkg/notify"
	"subastabot/pkg/whatsapp"
	"subastabot/storage"
)

// Messenger is the slice of the WhatsApp client the machines consume.
type Messenger interface {
	SendText(ctx context.Context, to, body string) error
	SendButtons(ctx context.Context, to, body string, buttons []whatsapp.Button) error
	SendDocument(ctx context.Context, to, link, caption, filename string) error
	DownloadMedia(ctx context.Context, mediaID string) ([]byte, error)
}

type Bot struct {
	Cfg   *config.Config
	Log   logger.ILogger
	Stg   storage.IStorage
	Msg   Messenger
	Notif notify.INotifier
	Files filestore.IFileStore

	now func() time.Time
}

func New(cfg *config.Config, stg storage.IStorage, msg Messenger, notif notify.INotifier, files filestore.IFileStore, log logger.ILogger) *Bot {
	return &Bot{
		Cfg:   cfg,
		Log:   log,
		Stg:   stg,
		Msg:   msg,
		Notif: notif,
		Files: files,
		now:   time.Now,
	}
}

// HandleInbound routes one normalized inbound message. Verified users go to
// the auction machine, everyone else to the signup machine. The message that
// completes signup is forwarded to the auction machine in the same call.
func (b *Bot) HandleInbound(ctx context.Context, m *whatsapp.InboundMessage) error {
	now := b.now().In(b.Cfg.Location)

	if !b.Cfg.AuctionEnd.IsZero() && now.After(b.Cfg.AuctionEnd) {
		b.Log.Info("message after final hour", logger.String("from", m.From))
		return b.Msg.SendText(ctx, m.From, msgAuctionConcluded)
	}

	user, err := b.Stg.User().Get(ctx, m.From)
	if err != nil {
		return err
	}

	if user != nil && user.Verified {
		// Persist the new timestamp but keep the previous one on the
		// in-memory record: the idle-timeout check compares against the
		// message before this one.
		ts := cast.ToInt64(m.Timestamp)
		if err := b.Stg.User().UpdateLastMessage(ctx, m.From, ts); err != nil {
			b.Log.Error("failed to update last message", logger.Error(err), logger.String("phone", m.From))
		}
		return b.processAuction(ctx, m, user, now)
	}

	return b.processSignup(ctx, m, user, now)
}

func (b *Bot) windowTime(t time.Time) string {
	return t.In(b.Cfg.Location).Format("2006-01-02 a las 15:04")
}
