package ban

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/DesignrKnight/shield/internal/core/ports"
)

var ErrWebhookStatus = errors.New("webhook returned non-2xx status")

type WebhookConfig struct {
	URL string
	// Retries is the number of attempts after the first one.
	Retries int
	// Backoff is the delay before the first retry; it doubles on each retry.
	Backoff time.Duration
	Client  *http.Client
}

// WebhookBanner posts bans to an external HTTP endpoint.
type WebhookBanner struct {
	url     string
	retries int
	backoff time.Duration
	client  *http.Client
	now     ports.Clock
}

var _ ports.Banner = (*WebhookBanner)(nil)

type webhookPayload struct {
	Key      string    `json:"key"`
	Reason   string    `json:"reason"`
	BannedAt time.Time `json:"banned_at"`
}

func NewWebhookBanner(cfg WebhookConfig) (*WebhookBanner, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("webhook url is required")
	}
	if cfg.Retries < 0 {
		return nil, fmt.Errorf("webhook retries must be non-negative")
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 200 * time.Millisecond
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: 10 * time.Second}
	}

	return &WebhookBanner{
		url:     cfg.URL,
		retries: cfg.Retries,
		backoff: cfg.Backoff,
		client:  cfg.Client,
		now:     time.Now,
	}, nil
}

// Ban posts the ban, retrying transport errors and 5xx responses with
// exponential backoff until ctx is done.
func (w *WebhookBanner) Ban(ctx context.Context, key, reason string) error {
	body, err := json.Marshal(webhookPayload{Key: key, Reason: reason, BannedAt: w.now().UTC()})
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	backoff := w.backoff
	for attempt := 0; ; attempt++ {
		retry, err := w.post(ctx, body)
		if err == nil {
			return nil
		}
		if !retry || attempt >= w.retries {
			return fmt.Errorf("ban %s via webhook: %w", key, err)
		}

		log.Printf("[ban] webhook attempt %d failed: %v; retrying in %s", attempt+1, err, backoff)
		select {
		case <-ctx.Done():
			return fmt.Errorf("ban %s via webhook: %w", key, ctx.Err())
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}

func (w *WebhookBanner) post(ctx context.Context, body []byte) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return ctx.Err() == nil, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return false, nil
	}
	return resp.StatusCode >= 500, fmt.Errorf("%w: %d", ErrWebhookStatus, resp.StatusCode)
}
