package whatsapp

// Button is one interactive reply button.
type Button struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// InboundMessage is a normalized inbound WhatsApp message as delivered by the
// Cloud API webhook.
type InboundMessage struct {
	From        string       `json:"from"`
	Timestamp   string       `json:"timestamp"`
	Type        string       `json:"type"`
	Text        *Text        `json:"text,omitempty"`
	Interactive *Interactive `json:"interactive,omitempty"`
	Document    *Document    `json:"document,omitempty"`
}

type Text struct {
	Body string `json:"body"`
}

type Interactive struct {
	Type        string       `json:"type"`
	ButtonReply *ButtonReply `json:"button_reply,omitempty"`
}

type ButtonReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type Document struct {
	ID       string `json:"id"`
	MimeType string `json:"mime_type"`
	Filename string `json:"filename"`
}

// ButtonID returns the pressed reply-button id, or "" when the message is not
// an interactive button reply.
func (m *InboundMessage) ButtonID() string {
	if m.Interactive == nil || m.Interactive.ButtonReply == nil {
		return ""
	}
	return m.Interactive.ButtonReply.ID
}

// TextBody returns the trimmed-nothing raw text body, or "" for non-text
// messages.
func (m *InboundMessage) TextBody() string {
	if m.Type != "text" || m.Text == nil {
		return ""
	}
	return m.Text.Body
}

// Status is a delivery/read receipt forwarded on the same webhook.
type Status struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	RecipientID string `json:"recipient_id"`
}

// Webhook envelope as posted by Meta.
type WebhookPayload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

type Change struct {
	Field string      `json:"field"`
	Value ChangeValue `json:"value"`
}

type ChangeValue struct {
	MessagingProduct string           `json:"messaging_product"`
	Messages         []InboundMessage `json:"messages"`
	Statuses         []Status         `json:"statuses"`
}

// Messages flattens every inbound message out of the webhook envelope. It
// returns nil when the payload is not a WhatsApp business event.
func (p *WebhookPayload) Messages() []InboundMessage {
	if p.Object != "whatsapp_business_account" {
		return nil
	}
	var out []InboundMessage
	for _, entry := range p.Entry {
		for _, change := range entry.Changes {
			if change.Field != "messages" {
				continue
			}
			out = append(out, change.Value.Messages...)
		}
	}
	return out
}

// Statuses flattens delivery/read receipts out of the webhook envelope.
func (p *WebhookPayload) Statuses() []Status {
	if p.Object != "whatsapp_business_account" {
		return nil
	}
	var out []Status
	for _, entry := range p.Entry {
		for _, change := range entry.Changes {
			if change.Field != "messages" {
				continue
			}
			out = append(out, change.Value.Statuses...)
		}
	}
	return out
}
