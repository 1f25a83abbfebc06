package notifier

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type capturedForm struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

func (c *capturedForm) record(r *http.Request, keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = r.ParseForm()
	c.path = r.URL.Path
	c.values = make(map[string]string, len(keys))
	for _, k := range keys {
		c.values[k] = r.FormValue(k)
	}
}

func (c *capturedForm) get(key string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[key]
}

func newTelegramServer(t *testing.T, ok bool, captured *capturedForm) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.record(r, "chat_id", "text")
		w.Header().Set("Content-Type", "application/json")
		if !ok {
			_, _ = w.Write([]byte(`{"ok":false,"error_code":403,"description":"Forbidden: bot was blocked by the user"}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":42,"type":"private"},"text":"ok"}}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestTelegramNotifier_Notify(t *testing.T) {
	captured := &capturedForm{}
	srv := newTelegramServer(t, true, captured)

	n, err := NewTelegramNotifier("123:abc", "42", time.Second, WithTelegramEndpoint(srv.URL+"/bot%s/%s"))
	require.NoError(t, err)
	require.Equal(t, "telegram", n.Name())

	err = n.Notify(context.Background(), `Status review changed for "X". Work reviewed: reviewer has comments.`)
	require.NoError(t, err)

	require.Equal(t, "/bot123:abc/sendMessage", captured.path)
	require.Equal(t, "42", captured.get("chat_id"))
	require.Equal(t, `Status review changed for "X". Work reviewed: reviewer has comments.`, captured.get("text"))
}

func TestTelegramNotifier_Channel(t *testing.T) {
	captured := &capturedForm{}
	srv := newTelegramServer(t, true, captured)

	n, err := NewTelegramNotifier("123:abc", "@reviews", time.Second, WithTelegramEndpoint(srv.URL+"/bot%s/%s"))
	require.NoError(t, err)

	require.NoError(t, n.Notify(context.Background(), "hello"))
	require.Equal(t, "@reviews", captured.get("chat_id"))
}

func TestTelegramNotifier_APIErrorIsDeliveryError(t *testing.T) {
	srv := newTelegramServer(t, false, &capturedForm{})

	n, err := NewTelegramNotifier("123:abc", "42", time.Second, WithTelegramEndpoint(srv.URL+"/bot%s/%s"))
	require.NoError(t, err)

	err = n.Notify(context.Background(), "hello")
	require.ErrorIs(t, err, ErrDelivery)
	require.Contains(t, err.Error(), "telegram")
}

func TestTelegramNotifier_UnreachableIsDeliveryError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL + "/bot%s/%s"
	srv.Close()

	n, err := NewTelegramNotifier("123:abc", "42", time.Second, WithTelegramEndpoint(endpoint))
	require.NoError(t, err)

	require.ErrorIs(t, n.Notify(context.Background(), "hello"), ErrDelivery)
}

const secretBotToken = "123456:SUPER-SECRET-BOT-TOKEN"

func TestTelegramNotifier_ErrorsNeverCarryToken(t *testing.T) {
	stalled := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	t.Cleanup(stalled.Close)

	closed := httptest.NewServer(http.NotFoundHandler())
	closedEndpoint := closed.URL + "/bot%s/%s"
	closed.Close()

	endpoints := map[string]string{
		"timeout":     stalled.URL + "/bot%s/%s",
		"unreachable": closedEndpoint,
	}
	for name, endpoint := range endpoints {
		t.Run(name, func(t *testing.T) {
			n, err := NewTelegramNotifier(secretBotToken, "42", 100*time.Millisecond, WithTelegramEndpoint(endpoint))
			require.NoError(t, err)

			err = n.Notify(context.Background(), "hello")
			require.ErrorIs(t, err, ErrDelivery)
			require.NotContains(t, err.Error(), "SUPER-SECRET")
			require.Contains(t, err.Error(), "sendMessage")
		})
	}
}

func TestTelegramNotifier_RedactMasksToken(t *testing.T) {
	n, err := NewTelegramNotifier(secretBotToken, "42", time.Second)
	require.NoError(t, err)

	cause := errors.New("unauthorized bot " + secretBotToken)
	redacted := n.redact(cause)
	require.Equal(t, "unauthorized bot <redacted>", redacted.Error())
	require.ErrorIs(t, redacted, cause)

	plain := errors.New("Bad Request: chat not found")
	require.Same(t, plain, n.redact(plain))
}

func TestNewTelegramNotifier_Validation(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		chatID string
		errMsg string
	}{
		{name: "empty token", token: "", chatID: "42", errMsg: "token is empty"},
		{name: "non numeric chat id", token: "t", chatID: "abc", errMsg: "invalid telegram chat id"},
		{name: "bare at sign", token: "t", chatID: "@", errMsg: "invalid telegram chat id"},
		{name: "negative group id", token: "t", chatID: "-100123"},
		{name: "channel name", token: "t", chatID: "@news"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTelegramNotifier(tt.token, tt.chatID, time.Second)
			if tt.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func newSlackServer(t *testing.T, body string, captured *capturedForm) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.record(r, "channel", "text")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSlackNotifier_Notify(t *testing.T) {
	captured := &capturedForm{}
	srv := newSlackServer(t, `{"ok":true,"channel":"C123","ts":"1700000000.000100"}`, captured)

	n, err := NewSlackNotifier("xoxb-test", "C123", time.Second, WithSlackAPIURL(srv.URL+"/"))
	require.NoError(t, err)
	require.Equal(t, "slack", n.Name())

	require.NoError(t, n.Notify(context.Background(), "hello"))
	require.Equal(t, "/chat.postMessage", captured.path)
	require.Equal(t, "C123", captured.get("channel"))
	require.Equal(t, "hello", captured.get("text"))
}

func TestSlackNotifier_APIErrorIsDeliveryError(t *testing.T) {
	srv := newSlackServer(t, `{"ok":false,"error":"channel_not_found"}`, &capturedForm{})

	n, err := NewSlackNotifier("xoxb-test", "C404", time.Second, WithSlackAPIURL(srv.URL+"/"))
	require.NoError(t, err)

	err = n.Notify(context.Background(), "hello")
	require.ErrorIs(t, err, ErrDelivery)
	require.Contains(t, err.Error(), "channel_not_found")
}

func TestNewSlackNotifier_Validation(t *testing.T) {
	_, err := NewSlackNotifier("", "C1", time.Second)
	require.Error(t, err)

	_, err = NewSlackNotifier("xoxb", "", time.Second)
	require.Error(t, err)
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	n := NewLogNotifier(&log)
	require.Equal(t, "log", n.Name())
	require.NoError(t, n.Notify(context.Background(), "hello"))
	require.Contains(t, buf.String(), `"text":"hello"`)
}
