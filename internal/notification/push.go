package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/kindlingapp/kindling/internal/notification/resilience"
)

// PushClient sends notifications through the push gateway. Transient gateway
// failures are retried with backoff; a persistently failing gateway trips
// the circuit breaker so match processing is not slowed down by it.
type PushClient struct {
	baseURL string
	apiKey  string
	client  *resilience.Client
}

// PushClientConfig holds configuration for the push gateway client.
type PushClientConfig struct {
	// BaseURL is the push gateway base URL.
	BaseURL string

	// APIKey authenticates this service to the gateway.
	APIKey string

	// Resilience overrides the default client resilience settings.
	Resilience *resilience.ClientConfig
}

// pushRequest is the gateway wire format.
type pushRequest struct {
	UserID  string         `json:"userId"`
	Title   string         `json:"title"`
	Body    string         `json:"body"`
	Kind    string         `json:"kind"`
	Payload map[string]any `json:"payload,omitempty"`
}

// NewPushClient creates a new push gateway client.
func NewPushClient(cfg PushClientConfig) *PushClient {
	rc := resilience.DefaultClientConfig("push-gateway")
	if cfg.Resilience != nil {
		rc = *cfg.Resilience
	}

	return &PushClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  resilience.NewClient(rc),
	}
}

// Push delivers one notification to all of the user's registered devices.
func (c *PushClient) Push(ctx context.Context, userID, title, body, kind string, payload map[string]any) error {
	reqBody, err := json.Marshal(pushRequest{
		UserID:  userID,
		Title:   title,
		Body:    body,
		Kind:    kind,
		Payload: payload,
	})
	if err != nil {
		return fmt.Errorf("marshal push request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/push", bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.DoWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("push gateway request: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("push gateway returned status %d", resp.StatusCode)
	}
	return nil
}

// Ensure PushClient implements Notifier.
var _ Notifier = (*PushClient)(nil)
