package notification

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testToken = "123456:TEST"

// fakeTelegram отвечает на getMe и sendMessage как Bot API
type fakeTelegram struct {
	mu   sync.Mutex
	sent []string
	fail bool
}

func (f *fakeTelegram) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch {
	case strings.HasSuffix(r.URL.Path, "/getMe"):
		_, _ = io.WriteString(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"tutoring","username":"tutoring_bot"}}`)
	case strings.HasSuffix(r.URL.Path, "/sendMessage"):
		if f.fail {
			w.WriteHeader(http.StatusForbidden)
			_, _ = io.WriteString(w, `{"ok":false,"error_code":403,"description":"Forbidden: bot was blocked by the user"}`)
			return
		}
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.sent = append(f.sent, string(body))
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":     true,
			"result": map[string]any{"message_id": 7, "date": 0, "chat": map[string]any{"id": 4242, "type": "private"}},
		})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeTelegram) requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func TestTelegramPusher_Push(t *testing.T) {
	api := &fakeTelegram{}
	srv := httptest.NewServer(api)
	defer srv.Close()

	pusher, err := NewTelegramPusher(testToken, zap.NewNop(), bot.WithServerURL(srv.URL))
	require.NoError(t, err)

	require.NoError(t, pusher.Push(context.Background(), 4242, "Booking Confirmed\n\nSee you soon"))

	sent := api.requests()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], "4242")
	assert.Contains(t, sent[0], "Booking Confirmed")
}

func TestTelegramPusher_PushError(t *testing.T) {
	api := &fakeTelegram{fail: true}
	srv := httptest.NewServer(api)
	defer srv.Close()

	pusher, err := NewTelegramPusher(testToken, zap.NewNop(), bot.WithServerURL(srv.URL))
	require.NoError(t, err)

	err = pusher.Push(context.Background(), 4242, "hello")
	assert.Error(t, err)
}
