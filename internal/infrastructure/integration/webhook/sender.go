// Package webhook posts JSON payloads to an external automation endpoint.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/application/ports"
)

const (
	// DefaultTimeout bounds one POST
	DefaultTimeout  = 15 * time.Second
	maxResponseSize = 64 * 1024
)

// Errors returned by the sender
var (
	ErrNotConfigured    = errors.New("webhook: URL is not configured")
	ErrRequestFailed    = errors.New("webhook: request failed")
	ErrUnexpectedStatus = errors.New("webhook: unexpected HTTP status")
)

// Sender implements ports.WebhookSender for one URL
type Sender struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewSender creates a Sender. An empty url makes Post fail with
// ErrNotConfigured; callers check Configured to skip silently.
func NewSender(url string, timeout time.Duration, logger *zap.Logger) *Sender {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Sender{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Configured reports whether a URL is set
func (s *Sender) Configured() bool {
	return s.url != ""
}

// Post sends payload as JSON. Any non-2xx answer is an error.
func (s *Sender) Post(ctx context.Context, payload any) error {
	if s.url == "" {
		return ErrNotConfigured
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("webhook: failed to marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()
	// drain so the connection can be reused
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: HTTP %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	s.logger.Debug("Webhook delivered", zap.Int("status", resp.StatusCode), zap.Int("bytes", len(body)))
	return nil
}

var _ ports.WebhookSender = (*Sender)(nil)
