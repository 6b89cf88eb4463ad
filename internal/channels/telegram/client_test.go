package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientRequiresToken(t *testing.T) {
	_, err := NewClient(ClientConfig{})
	require.Error(t, err)

	_, err = NewClient(ClientConfig{Token: "123:abc"})
	require.NoError(t, err)
}

func TestGetUpdates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bot123:abc/getUpdates", r.URL.Path)

		var req getUpdatesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(7), req.Offset)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok": true, "result": [
			{"update_id": 7, "message": {"message_id": 1, "from": {"id": 42}, "chat": {"id": 42}, "text": "/start"}},
			{"update_id": 8, "callback_query": {"id": "cb1", "from": {"id": 42}, "data": "menu"}}
		]}`))
	}))
	defer srv.Close()

	c, err := NewClient(ClientConfig{Token: "123:abc", BaseURL: srv.URL, PollTimeout: time.Second})
	require.NoError(t, err)

	updates, err := c.GetUpdates(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, updates, 2)
	assert.Equal(t, "/start", updates[0].Message.Text)
	assert.Equal(t, int64(42), updates[0].Message.From.ID)
	assert.Equal(t, "menu", updates[1].CallbackQuery.Data)
}

func TestSendMessagePayload(t *testing.T) {
	var got sendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bot123:abc/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok": true, "result": {}}`))
	}))
	defer srv.Close()

	c, err := NewClient(ClientConfig{Token: "123:abc", BaseURL: srv.URL})
	require.NoError(t, err)

	markup := &InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{
		{{Text: "✈️ Flights", CallbackData: "service|flights"}},
	}}
	require.NoError(t, c.SendMessage(context.Background(), 42, "hello", markup))

	assert.Equal(t, int64(42), got.ChatID)
	assert.Equal(t, "hello", got.Text)
	assert.Equal(t, "Markdown", got.ParseMode)
	assert.True(t, got.DisableWebPagePreview)
	require.NotNil(t, got.ReplyMarkup)
	assert.Equal(t, "service|flights", got.ReplyMarkup.InlineKeyboard[0][0].CallbackData)
}

func TestAPIErrorSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok": false, "description": "Bad Request: chat not found"}`))
	}))
	defer srv.Close()

	c, err := NewClient(ClientConfig{Token: "123:abc", BaseURL: srv.URL})
	require.NoError(t, err)

	err = c.SendMessage(context.Background(), 1, "x", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestAnswerCallbackQuery(t *testing.T) {
	var got answerCallbackRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bot123:abc/answerCallbackQuery", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok": true, "result": true}`))
	}))
	defer srv.Close()

	c, err := NewClient(ClientConfig{Token: "123:abc", BaseURL: srv.URL})
	require.NoError(t, err)

	require.NoError(t, c.AnswerCallbackQuery(context.Background(), "cb1", "No more results", true))
	assert.Equal(t, "cb1", got.CallbackQueryID)
	assert.Equal(t, "No more results", got.Text)
	assert.True(t, got.ShowAlert)
}
