package notification_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kindlingapp/kindling/internal/notification"
)

func TestPushClient_SendsGatewayRequest(t *testing.T) {
	var got map[string]any
	var auth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/push", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := notification.NewPushClient(notification.PushClientConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
	})

	err := client.Push(context.Background(), "usr_1", "New match!", "You just got a new match!", "dating_match",
		map[string]any{"fromUser": map[string]any{"id": "usr_2"}})
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", auth)
	assert.Equal(t, "usr_1", got["userId"])
	assert.Equal(t, "New match!", got["title"])
	assert.Equal(t, "You just got a new match!", got["body"])
	assert.Equal(t, "dating_match", got["kind"])
	assert.Contains(t, got["payload"], "fromUser")
}

func TestPushClient_GatewayErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := notification.NewPushClient(notification.PushClientConfig{BaseURL: server.URL})

	err := client.Push(context.Background(), "usr_1", "t", "b", "k", nil)
	assert.Error(t, err)
}
