package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"subastabot/config"
	"subastabot/pkg/logger"
	"subastabot/pkg/whatsapp"
	"subastabot/storage/memory"
)

// fakeMessenger records everything the bot sends so tests can assert on the
// exact conversation.
type fakeMessenger struct {
	mu   sync.Mutex
	sent []sentMessage

	media    map[string][]byte
	mediaErr error
}

type sentMessage struct {
	to       string
	body     string
	buttons  []whatsapp.Button
	document string
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{media: map[string][]byte{}}
}

func (f *fakeMessenger) SendText(_ context.Context, to, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{to: to, body: body})
	return nil
}

func (f *fakeMessenger) SendButtons(_ context.Context, to, body string, buttons []whatsapp.Button) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{to: to, body: body, buttons: buttons})
	return nil
}

func (f *fakeMessenger) SendDocument(_ context.Context, to, link, caption, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{to: to, body: caption, document: link})
	return nil
}

func (f *fakeMessenger) DownloadMedia(_ context.Context, mediaID string) ([]byte, error) {
	if f.mediaErr != nil {
		return nil, f.mediaErr
	}
	data, ok := f.media[mediaID]
	if !ok {
		return nil, errors.New("media not found")
	}
	return data, nil
}

func (f *fakeMessenger) last() sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return sentMessage{}
	}
	return f.sent[len(f.sent)-1]
}

func (f *fakeMessenger) bodies() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sent))
	for _, m := range f.sent {
		out = append(out, m.body)
	}
	return out
}

// fakeNotifier counts subscription traffic and can be told to fail.
type fakeNotifier struct {
	mu sync.Mutex

	subscribeErr   error
	unsubscribeErr error

	subscribed   []string
	unsubscribed []string
	published    []string
	nextHandle   int
}

func (f *fakeNotifier) Subscribe(_ context.Context, phone string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subscribeErr != nil {
		return "", f.subscribeErr
	}
	f.nextHandle++
	f.subscribed = append(f.subscribed, phone)
	return fmt.Sprintf("sub-%d", f.nextHandle), nil
}

func (f *fakeNotifier) Unsubscribe(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unsubscribeErr != nil {
		return f.unsubscribeErr
	}
	f.unsubscribed = append(f.unsubscribed, id)
	return nil
}

func (f *fakeNotifier) PublishNewOffer(_ context.Context, amount, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, amount)
	return nil
}

// fakeFiles keeps saved files in memory.
type fakeFiles struct {
	mu    sync.Mutex
	saved map[string][]byte
}

func newFakeFiles() *fakeFiles {
	return &fakeFiles{saved: map[string][]byte{}}
}

func (f *fakeFiles) Save(data []byte, path string, _ map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved[path] = data
	return nil
}

func (f *fakeFiles) Read(path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.saved[path]
	if !ok {
		return nil, errors.New("not found")
	}
	return data, nil
}

func (f *fakeFiles) SignedURL(path string, _ time.Duration) (string, error) {
	return "https://files.test/" + path + "?sig=abc", nil
}

func (f *fakeFiles) Verify(path string, exp int64, sig string) error {
	return nil
}

type testBot struct {
	bot   *Bot
	store *memory.Store
	msg   *fakeMessenger
	notif *fakeNotifier
	files *fakeFiles
	now   time.Time
}

func newTestBot(cfg *config.Config) *testBot {
	loc, _ := time.LoadLocation("America/Bogota")
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, loc)

	if cfg == nil {
		cfg = &config.Config{}
	}
	if cfg.Location == nil {
		cfg.Location = loc
	}
	if cfg.MinBid == 0 {
		cfg.MinBid = 1_000_000
	}
	if cfg.MaxBid == 0 {
		cfg.MaxBid = 10_000_000
	}
	if cfg.MinBidIncrement == 0 {
		cfg.MinBidIncrement = 100_000
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = 900 * time.Second
	}
	if cfg.TermsMode == "" {
		cfg.TermsMode = "link"
	}
	if cfg.TermsDocument == "" {
		cfg.TermsDocument = "https://example.com/terms.pdf"
	}
	if cfg.PropertyAddress == "" {
		cfg.PropertyAddress = "Calle 10 # 5-51"
	}

	store := memory.New()
	msg := newFakeMessenger()
	notif := &fakeNotifier{}
	files := newFakeFiles()

	b := New(cfg, store, msg, notif, files, logger.New("test"))
	b.now = func() time.Time { return now }

	return &testBot{bot: b, store: store, msg: msg, notif: notif, files: files, now: now}
}

// inbound builds a plain text message stamped at the fixture clock.
func (tb *testBot) inbound(from, body string) *whatsapp.InboundMessage {
	return &whatsapp.InboundMessage{
		From:      from,
		Timestamp: fmt.Sprintf("%d", tb.now.Unix()),
		Type:      "text",
		Text:      &whatsapp.Text{Body: body},
	}
}

// press builds an interactive reply-button message.
func (tb *testBot) press(from, buttonID string) *whatsapp.InboundMessage {
	return &whatsapp.InboundMessage{
		From:      from,
		Timestamp: fmt.Sprintf("%d", tb.now.Unix()),
		Type:      "interactive",
		Interactive: &whatsapp.Interactive{
			Type:        "button_reply",
			ButtonReply: &whatsapp.ButtonReply{ID: buttonID},
		},
	}
}

func (tb *testBot) document(from, mediaID, mime string) *whatsapp.InboundMessage {
	return &whatsapp.InboundMessage{
		From:      from,
		Timestamp: fmt.Sprintf("%d", tb.now.Unix()),
		Type:      "document",
		Document:  &whatsapp.Document{ID: mediaID, MimeType: mime},
	}
}
