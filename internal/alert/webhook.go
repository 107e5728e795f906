package alert

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// WebhookNotifier POSTs signed violation events to one configured URL.
// Receivers authenticate the payload by recomputing the HMAC-SHA256
// signature carried in the X-Ledger-Signature header.
type WebhookNotifier struct {
	url        string
	secret     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewWebhookNotifier creates a WebhookNotifier for the given endpoint.
func NewWebhookNotifier(url, secret string, logger *zap.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		url:        url,
		secret:     secret,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// webhookEvent is the wire shape the receiver sees.
type webhookEvent struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Violation Violation `json:"violation"`
}

// Notify implements Notifier. Deliveries are retried with increasing delays;
// any 2xx status counts as delivered.
func (w *WebhookNotifier) Notify(ctx context.Context, v Violation) error {
	body, err := json.Marshal(webhookEvent{
		Type:      "ledger.integrity_violation",
		Timestamp: time.Now().UTC(),
		Violation: v,
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	signature := signPayload(body, w.secret)

	delays := []time.Duration{0, 1 * time.Second, 5 * time.Second}

	var lastErr error
	for attempt := 1; attempt <= len(delays); attempt++ {
		if d := delays[attempt-1]; d > 0 {
			select {
			case <-time.After(d):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if lastErr = w.doDelivery(ctx, body, signature); lastErr == nil {
			return nil
		}
		w.logger.Warn("webhook alert: delivery failed",
			zap.String("url", w.url),
			zap.Int("attempt", attempt),
			zap.Error(lastErr),
		)
	}
	return fmt.Errorf("webhook delivery failed after %d attempts: %w", len(delays), lastErr)
}

// doDelivery performs a single HTTP POST delivery.
func (w *WebhookNotifier) doDelivery(ctx context.Context, body []byte, signature string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Ledger-Signature", signature)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.ReadAll(io.LimitReader(resp.Body, 1024)) //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return nil
}

// signPayload computes an HMAC-SHA256 signature.
func signPayload(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
