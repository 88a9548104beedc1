// Package whatsapp is a thin client for the WhatsApp Business Cloud API
// (graph.facebook.com): outbound text, interactive-button, document and
// template messages, plus media retrieval for inbound attachments.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"subastabot/pkg/logger"
)

type Client struct {
	apiURL        string
	token         string
	phoneNumberID string
	http          *http.Client
	log           logger.ILogger
}

func NewClient(apiURL, token, phoneNumberID string, log logger.ILogger) *Client {
	return &Client{
		apiURL:        apiURL,
		token:         token,
		phoneNumberID: phoneNumberID,
		http:          &http.Client{Timeout: 15 * time.Second},
		log:           log,
	}
}

type sendRequest struct {
	MessagingProduct string `json:"messaging_product"`
	RecipientType    string `json:"recipient_type"`
	To               string `json:"to"`
	Type             string `json:"type"`

	Text        *textPayload        `json:"text,omitempty"`
	Interactive *interactivePayload `json:"interactive,omitempty"`
	Document    *documentPayload    `json:"document,omitempty"`
	Template    *templatePayload    `json:"template,omitempty"`
}

type textPayload struct {
	Body string `json:"body"`
}

type interactivePayload struct {
	Type   string `json:"type"`
	Body   struct {
		Text string `json:"text"`
	} `json:"body"`
	Action struct {
		Buttons []replyButton `json:"buttons"`
	} `json:"action"`
}

type replyButton struct {
	Type  string `json:"type"`
	Reply struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	} `json:"reply"`
}

type documentPayload struct {
	Link     string `json:"link"`
	Caption  string `json:"caption,omitempty"`
	Filename string `json:"filename,omitempty"`
}

type templatePayload struct {
	Name     string `json:"name"`
	Language struct {
		Code string `json:"code"`
	} `json:"language"`
	Components []templateComponent `json:"components,omitempty"`
}

type templateComponent struct {
	Type       string              `json:"type"`
	Parameters []templateParameter `json:"parameters"`
}

type templateParameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (c *Client) SendText(ctx context.Context, to, body string) error {
	req := sendRequest{Type: "text", Text: &textPayload{Body: body}}
	return c.send(ctx, to, req)
}

func (c *Client) SendButtons(ctx context.Context, to, body string, buttons []Button) error {
	interactive := &interactivePayload{Type: "button"}
	interactive.Body.Text = body
	for _, b := range buttons {
		rb := replyButton{Type: "reply"}
		rb.Reply.ID = b.ID
		rb.Reply.Title = b.Title
		interactive.Action.Buttons = append(interactive.Action.Buttons, rb)
	}
	req := sendRequest{Type: "interactive", Interactive: interactive}
	return c.send(ctx, to, req)
}

func (c *Client) SendDocument(ctx context.Context, to, link, caption, filename string) error {
	req := sendRequest{Type: "document", Document: &documentPayload{
		Link:     link,
		Caption:  caption,
		Filename: filename,
	}}
	return c.send(ctx, to, req)
}

func (c *Client) SendTemplate(ctx context.Context, to, name, language string, params []string) error {
	template := &templatePayload{Name: name}
	template.Language.Code = language
	if len(params) > 0 {
		component := templateComponent{Type: "body"}
		for _, p := range params {
			component.Parameters = append(component.Parameters, templateParameter{Type: "text", Text: p})
		}
		template.Components = []templateComponent{component}
	}
	req := sendRequest{Type: "template", Template: template}
	return c.send(ctx, to, req)
}

func (c *Client) send(ctx context.Context, to string, req sendRequest) error {
	req.MessagingProduct = "whatsapp"
	req.RecipientType = "individual"
	req.To = to

	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("whatsapp: marshal message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.apiURL, c.phoneNumberID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("whatsapp: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.log.Error("failed to send whatsapp message", logger.Error(err), logger.String("to", to))
		return fmt.Errorf("whatsapp: send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.log.Error("whatsapp message rejected",
			logger.Int("status", resp.StatusCode),
			logger.String("response", string(body)))
		return fmt.Errorf("whatsapp: send message: status %d", resp.StatusCode)
	}
	return nil
}

// MediaURL resolves a media id to its short-lived download URL.
func (c *Client) MediaURL(ctx context.Context, mediaID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/"+mediaID, nil)
	if err != nil {
		return "", fmt.Errorf("whatsapp: build media request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("whatsapp: get media url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("whatsapp: get media url: status %d", resp.StatusCode)
	}

	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("whatsapp: decode media url: %w", err)
	}
	return body.URL, nil
}

// DownloadMedia fetches the content of an inbound attachment by media id.
func (c *Client) DownloadMedia(ctx context.Context, mediaID string) ([]byte, error) {
	url, err := c.MediaURL(ctx, mediaID)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("whatsapp: build download request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whatsapp: download media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("whatsapp: download media: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
