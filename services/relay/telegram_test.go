package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTelegramRelaySend(t *testing.T) {
	var gotPath string
	var gotPayload sendMessageRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	r := NewTelegramRelayWithClient("123:abc", "-100200", srv.URL, srv.Client())
	err := r.Send(context.Background(), "Booking Summary:\nName: Alex")
	require.NoError(t, err)

	assert.Equal(t, "/bot123:abc/sendMessage", gotPath)
	assert.Equal(t, "-100200", gotPayload.ChatID)
	assert.Equal(t, "Booking Summary:\nName: Alex", gotPayload.Text)
}

func TestTelegramRelaySendAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"ok":false,"description":"Unauthorized"}`))
	}))
	defer srv.Close()

	r := NewTelegramRelayWithClient("bad", "1", srv.URL, srv.Client())
	err := r.Send(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "Unauthorized")
}
