package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stockledger/internal/config"
)

func TestWebhookClient_Send(t *testing.T) {
	var (
		gotAuth string
		gotBody message
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	var client Client = NewClient(config.NotifierConfig{WebhookURL: server.URL, Token: "secret"})
	require.NoError(t, client.Send(context.Background(), "Stock summary"))

	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "Stock summary", gotBody.Text)
}

func TestWebhookClient_SendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"invalid_token"}`))
	}))
	defer server.Close()

	client := NewClient(config.NotifierConfig{WebhookURL: server.URL})
	err := client.Send(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "code=403")
	assert.Contains(t, err.Error(), "invalid_token")
}
