// Package evolution sends WhatsApp messages through Evolution API instances.
package evolution

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/application/ports"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared/valueobject"
)

const (
	maxResponseSize = 1024 * 1024
	// DefaultTimeout bounds one HTTP exchange
	DefaultTimeout = 30 * time.Second
	// DefaultInterval is the minimum spacing between two messages across
	// every instance
	DefaultInterval = 3 * time.Second
	// typingDelay is the "composing" delay Evolution shows before a message
	typingDelay = 1000
)

// Errors returned by the client
var (
	ErrNotConfigured    = errors.New("evolution: server URL, API key and instance are required")
	ErrRequestFailed    = errors.New("evolution: request failed")
	ErrUnexpectedStatus = errors.New("evolution: unexpected HTTP status")
	ErrInvalidNumber    = errors.New("evolution: number has no digits")
)

// Config holds the statically configured instance and shared client settings
type Config struct {
	ServerURL string
	APIKey    string
	Instance  string
	Timeout   time.Duration
	Interval  time.Duration
}

// Validate validates the instance part of the configuration
func (c Config) Validate() error {
	if c.ServerURL == "" || c.APIKey == "" || c.Instance == "" {
		return ErrNotConfigured
	}
	return nil
}

// Factory builds clients for Evolution instances. Every client it builds
// shares one rate limiter.
type Factory struct {
	config     Config
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewFactory creates a Factory
func NewFactory(config Config, logger *zap.Logger) *Factory {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}
	return &Factory{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		limiter:    rate.NewLimiter(rate.Every(config.Interval), 1),
		logger:     logger,
	}
}

// ForInstance returns a client for an instance stored in the database
func (f *Factory) ForInstance(serverURL, instance, token string) ports.WhatsAppSender {
	return f.client(serverURL, instance, token)
}

// Default returns the client of the configured instance, if complete
func (f *Factory) Default() (ports.WhatsAppSender, bool) {
	if f.config.Validate() != nil {
		return nil, false
	}
	return f.client(f.config.ServerURL, f.config.Instance, f.config.APIKey), true
}

func (f *Factory) client(serverURL, instance, token string) *Client {
	return &Client{
		serverURL:  strings.TrimRight(serverURL, "/"),
		instance:   instance,
		apiKey:     token,
		httpClient: f.httpClient,
		limiter:    f.limiter,
		logger:     f.logger,
	}
}

// Client talks to one Evolution API instance
type Client struct {
	serverURL  string
	instance   string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

type sendTextRequest struct {
	Number      string `json:"number"`
	Text        string `json:"text"`
	Delay       int    `json:"delay"`
	LinkPreview bool   `json:"linkPreview"`
}

type sendMediaRequest struct {
	Number    string `json:"number"`
	MediaType string `json:"mediatype"`
	MimeType  string `json:"mimetype"`
	Caption   string `json:"caption,omitempty"`
	Media     string `json:"media"`
	FileName  string `json:"fileName"`
	Delay     int    `json:"delay"`
}

type sendResponse struct {
	Key struct {
		ID string `json:"id"`
	} `json:"key"`
	MessageID string `json:"messageId"`
	Status    string `json:"status"`
	Error     any    `json:"error"`
	Message   any    `json:"message"`
}

// SendText sends a text message and returns the message id
func (c *Client) SendText(ctx context.Context, number, text string) (string, error) {
	digits := valueobject.OnlyDigits(number)
	if digits == "" {
		return "", ErrInvalidNumber
	}
	return c.send(ctx, "/message/sendText/", sendTextRequest{
		Number:      digits,
		Text:        text,
		Delay:       typingDelay,
		LinkPreview: true,
	})
}

// SendDocument sends a document as a media message and returns the message id
func (c *Client) SendDocument(ctx context.Context, number string, doc ports.WhatsAppDocument) (string, error) {
	digits := valueobject.OnlyDigits(number)
	if digits == "" {
		return "", ErrInvalidNumber
	}
	mimeType := doc.MimeType
	if mimeType == "" {
		mimeType = "application/pdf"
	}
	return c.send(ctx, "/message/sendMedia/", sendMediaRequest{
		Number:    digits,
		MediaType: "document",
		MimeType:  mimeType,
		Caption:   doc.Caption,
		Media:     base64.StdEncoding.EncodeToString(doc.Content),
		FileName:  doc.FileName,
		Delay:     typingDelay,
	})
}

// TestConnection lists the server's instances to check URL and API key
func (c *Client) TestConnection(ctx context.Context) error {
	if c.serverURL == "" || c.apiKey == "" {
		return ErrNotConfigured
	}
	status, _, err := c.do(ctx, http.MethodGet, c.serverURL+"/instance/fetchInstances", nil)
	if err != nil {
		return err
	}
	if status >= 400 {
		return fmt.Errorf("%w: HTTP %d", ErrUnexpectedStatus, status)
	}
	return nil
}

func (c *Client) send(ctx context.Context, path string, payload any) (string, error) {
	if c.serverURL == "" || c.apiKey == "" || c.instance == "" {
		return "", ErrNotConfigured
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("evolution: failed to marshal request: %w", err)
	}
	status, respBody, err := c.do(ctx, http.MethodPost, c.serverURL+path+url.PathEscape(c.instance), body)
	if err != nil {
		return "", err
	}
	if status >= 400 {
		return "", fmt.Errorf("%w: HTTP %d: %s", ErrUnexpectedStatus, status, truncate(respBody, 200))
	}

	var resp sendResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("evolution: failed to parse response: %w", err)
	}
	if failed(resp.Error) {
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, resp.Message)
	}
	id := resp.Key.ID
	if id == "" {
		id = resp.MessageID
	}
	c.logger.Debug("WhatsApp message sent",
		zap.String("instance", c.instance),
		zap.String("message_id", id))
	return id, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("evolution: failed to create request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return 0, nil, fmt.Errorf("evolution: failed to read response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}

// failed interprets the loosely typed "error" field of Evolution responses
func failed(v any) bool {
	switch e := v.(type) {
	case nil:
		return false
	case bool:
		return e
	case string:
		return e != ""
	default:
		return true
	}
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n])
	}
	return string(b)
}

var (
	_ ports.WhatsAppSender        = (*Client)(nil)
	_ ports.WhatsAppSenderFactory = (*Factory)(nil)
)
