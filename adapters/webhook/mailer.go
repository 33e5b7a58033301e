package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"clientportal/ports"
)

// Mailer delivers OTP codes by POSTing to a configured webhook. The webhook
// owns actual email delivery; this adapter only hands off the payload.
type Mailer struct {
	client *http.Client
	url    string
}

// NewMailer creates a webhook mailer. An empty URL yields a nil Mailer,
// which callers treat as "no delivery configured".
func NewMailer(url string, timeout time.Duration) *Mailer {
	if url == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Mailer{client: &http.Client{Timeout: timeout}, url: url}
}

var _ ports.Mailer = (*Mailer)(nil)

// SendOTP posts the code to the webhook
func (m *Mailer) SendOTP(ctx context.Context, email, code string) error {
	payload, err := json.Marshal(map[string]string{
		"kind":  "otp",
		"email": email,
		"code":  code,
	})
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
