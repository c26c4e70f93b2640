package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fdchat/internal/chat"
	"fdchat/internal/config"
)

func testConfig(url string) *config.Config {
	return &config.Config{
		WebhookURL:     url,
		WebhookPath:    "/webhook/generate-fd",
		RequestTimeout: time.Second,
	}
}

func TestSendPostsOneElementArray(t *testing.T) {
	var got []Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/webhook/generate-fd", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"response_text":"ok"}]`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	raw, err := client.Send(context.Background(), Request{
		AccountID:    "acc_1",
		SessionID:    "sess_1",
		FunctionName: "designDoc",
		Text:         "build a login flow",
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", Normalize(raw))
	require.Len(t, got, 1)
	assert.Equal(t, "acc_1", got[0].AccountID)
	assert.Equal(t, "sess_1", got[0].SessionID)
	assert.Equal(t, "designDoc", got[0].FunctionName)
	assert.False(t, got[0].FinalResult)
}

func TestSendTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	_, err := client.Send(context.Background(), Request{Text: "hi"})

	require.Error(t, err)
	assert.ErrorIs(t, err, chat.ErrTransport)
	assert.NotErrorIs(t, err, chat.ErrTimeout)
}

func TestSendTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.RequestTimeout = 20 * time.Millisecond
	client := NewClient(cfg)

	_, err := client.Send(context.Background(), Request{Text: "hi"})

	require.Error(t, err)
	assert.ErrorIs(t, err, chat.ErrTimeout)
	assert.NotErrorIs(t, err, chat.ErrTransport)
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))

	client := NewClient(testConfig(srv.URL))
	assert.True(t, client.Health(context.Background()))

	srv.Close()
	assert.False(t, client.Health(context.Background()))
}
