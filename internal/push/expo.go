package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Sender dispatches a push notification to a device token.
type Sender interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

type expoMessage struct {
	To    string            `json:"to"`
	Sound string            `json:"sound"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// ExpoClient posts to the Expo push API. No retries: notification delivery
// is best-effort and the caller swallows failures.
type ExpoClient struct {
	endpoint string
	http     *http.Client
}

func NewExpoClient(endpoint string, timeout time.Duration) *ExpoClient {
	return &ExpoClient{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

func (c *ExpoClient) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	msg := expoMessage{To: token, Sound: "default", Title: title, Body: body, Data: data}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("expo push: status %d", resp.StatusCode)
	}
	return nil
}
