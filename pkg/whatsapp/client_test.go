package whatsapp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"subastabot/pkg/logger"
)

func testServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, NewClient(srv.URL, "test-token", "12345", logger.New("test"))
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestClient_SendText(t *testing.T) {
	var got map[string]any
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/12345/messages", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		got = decodeBody(t, r)
		w.WriteHeader(http.StatusOK)
	})

	err := client.SendText(context.Background(), "573001112233", "hola")
	require.NoError(t, err)

	require.Equal(t, "whatsapp", got["messaging_product"])
	require.Equal(t, "individual", got["recipient_type"])
	require.Equal(t, "573001112233", got["to"])
	require.Equal(t, "text", got["type"])
	require.Equal(t, map[string]any{"body": "hola"}, got["text"])
}

func TestClient_SendButtons(t *testing.T) {
	var got map[string]any
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = decodeBody(t, r)
		w.WriteHeader(http.StatusOK)
	})

	err := client.SendButtons(context.Background(), "573001112233", "¿Confirma?", []Button{
		{ID: "confirm_offer", Title: "Sí"},
		{ID: "cancel_offer", Title: "No"},
	})
	require.NoError(t, err)

	require.Equal(t, "interactive", got["type"])
	interactive := got["interactive"].(map[string]any)
	require.Equal(t, "button", interactive["type"])
	require.Equal(t, map[string]any{"text": "¿Confirma?"}, interactive["body"])

	buttons := interactive["action"].(map[string]any)["buttons"].([]any)
	require.Len(t, buttons, 2)
	first := buttons[0].(map[string]any)
	require.Equal(t, "reply", first["type"])
	require.Equal(t, map[string]any{"id": "confirm_offer", "title": "Sí"}, first["reply"])
}

func TestClient_SendTemplate(t *testing.T) {
	var got map[string]any
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = decodeBody(t, r)
		w.WriteHeader(http.StatusOK)
	})

	err := client.SendTemplate(context.Background(), "573001112233", "new_offer", "es", []string{"$1.500.000"})
	require.NoError(t, err)

	require.Equal(t, "template", got["type"])
	template := got["template"].(map[string]any)
	require.Equal(t, "new_offer", template["name"])
	require.Equal(t, map[string]any{"code": "es"}, template["language"])

	components := template["components"].([]any)
	require.Len(t, components, 1)
	body := components[0].(map[string]any)
	require.Equal(t, "body", body["type"])
	require.Equal(t, []any{map[string]any{"type": "text", "text": "$1.500.000"}}, body["parameters"])
}

func TestClient_SendText_APIError(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	err := client.SendText(context.Background(), "573001112233", "hola")
	require.Error(t, err)
}

func TestClient_DownloadMedia(t *testing.T) {
	var srv *httptest.Server
	srv, _ = testServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/media-42":
			json.NewEncoder(w).Encode(map[string]string{"url": srv.URL + "/lookaside/media-42"})
		case "/lookaside/media-42":
			require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
			w.Write([]byte("%PDF-1.4 fake"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	client := NewClient(srv.URL, "test-token", "12345", logger.New("test"))

	content, err := client.DownloadMedia(context.Background(), "media-42")
	require.NoError(t, err)
	require.Equal(t, []byte("%PDF-1.4 fake"), content)
}

func TestWebhookPayload_Messages(t *testing.T) {
	t.Parallel()

	raw := `{
		"object": "whatsapp_business_account",
		"entry": [{
			"id": "entry-1",
			"changes": [{
				"field": "messages",
				"value": {
					"messaging_product": "whatsapp",
					"messages": [
						{"from": "573001112233", "timestamp": "1747000000", "type": "text", "text": {"body": "hola"}},
						{"from": "573001112233", "timestamp": "1747000100", "type": "interactive",
						 "interactive": {"type": "button_reply", "button_reply": {"id": "offer", "title": "Ofertar"}}},
						{"from": "573001112233", "timestamp": "1747000200", "type": "document",
						 "document": {"id": "media-1", "mime_type": "application/pdf", "filename": "firmado.pdf"}}
					],
					"statuses": [{"id": "wamid.1", "status": "delivered", "recipient_id": "573001112233"}]
				}
			}]
		}]
	}`

	var payload WebhookPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	msgs := payload.Messages()
	require.Len(t, msgs, 3)

	require.Equal(t, "hola", msgs[0].TextBody())
	require.Empty(t, msgs[0].ButtonID())

	require.Equal(t, "offer", msgs[1].ButtonID())
	require.Empty(t, msgs[1].TextBody())

	require.Equal(t, "document", msgs[2].Type)
	require.Equal(t, "application/pdf", msgs[2].Document.MimeType)

	statuses := payload.Statuses()
	require.Len(t, statuses, 1)
	require.Equal(t, "delivered", statuses[0].Status)
}

func TestWebhookPayload_Messages_WrongObject(t *testing.T) {
	t.Parallel()

	payload := WebhookPayload{Object: "instagram", Entry: []Entry{{
		Changes: []Change{{Field: "messages", Value: ChangeValue{
			Messages: []InboundMessage{{From: "1", Type: "text"}},
		}}},
	}}}
	require.Nil(t, payload.Messages())
}
