package telegram

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNotifyPayment(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/bot123:abc/sendMessage", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"ok":true,"result":{"message_id":7,"chat":{"id":42,"type":"private"},"date":1700000000,"text":"ok"}}`)
	}))
	defer srv.Close()

	n, err := NewNotifier("123:abc", 42, srv.URL, zap.NewNop())
	require.NoError(t, err)

	err = n.NotifyPayment(context.Background(), PaymentEvent{
		TransactionID: "hash<1>",
		Gateway:       "ironpay",
		Status:        "paid",
		Amount:        "49.90",
	})
	require.NoError(t, err)
	require.Equal(t, "42", got["chat_id"])
	require.Equal(t, "HTML", got["parse_mode"])
	require.Contains(t, got["text"], "hash&lt;1&gt;")
	require.Contains(t, got["text"], "R$ 49.90")
}

func TestNotifyPaymentTelegramError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`)
	}))
	defer srv.Close()

	n, err := NewNotifier("123:abc", 42, srv.URL, zap.NewNop())
	require.NoError(t, err)
	require.Error(t, n.NotifyPayment(context.Background(), PaymentEvent{TransactionID: "x", Status: "paid"}))
}

func TestNewNotifierRequiresCredentials(t *testing.T) {
	_, err := NewNotifier("", 42, "", zap.NewNop())
	require.Error(t, err)
	_, err = NewNotifier("token", 0, "", zap.NewNop())
	require.Error(t, err)
}
