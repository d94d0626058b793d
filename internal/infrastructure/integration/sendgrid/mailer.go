// Package sendgrid delivers e-mail through the SendGrid v3 API.
package sendgrid

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"html"
	"strings"

	sg "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/application/ports"
)

const (
	// DefaultFromName is the sender name used when none is configured
	DefaultFromName = "Prosperar Contabilidade"
	defaultHost     = "https://api.sendgrid.com"
	sendEndpoint    = "/v3/mail/send"
)

// Errors returned by the mailer
var (
	ErrNotConfigured = errors.New("sendgrid: API key and sender address are required")
	ErrNoRecipients  = errors.New("sendgrid: message has no recipients")
	ErrSendFailed    = errors.New("sendgrid: send failed")
)

// Config holds SendGrid settings
type Config struct {
	APIKey    string
	FromEmail string
	FromName  string
	// Host overrides the API host
	Host string
}

// Validate validates the configuration
func (c Config) Validate() error {
	if c.APIKey == "" || c.FromEmail == "" {
		return ErrNotConfigured
	}
	return nil
}

// Mailer implements ports.Mailer
type Mailer struct {
	config Config
	logger *zap.Logger
}

// NewMailer creates a Mailer. An incomplete configuration makes every Send
// fail with ErrNotConfigured.
func NewMailer(config Config, logger *zap.Logger) *Mailer {
	if config.FromName == "" {
		config.FromName = DefaultFromName
	}
	if config.Host == "" {
		config.Host = defaultHost
	}
	return &Mailer{config: config, logger: logger}
}

// Configured reports whether the mailer can send
func (m *Mailer) Configured() bool {
	return m.config.Validate() == nil
}

// Send delivers msg and returns the SendGrid message id
func (m *Mailer) Send(ctx context.Context, msg ports.EmailMessage) (string, error) {
	if err := m.config.Validate(); err != nil {
		return "", err
	}
	if len(msg.To) == 0 {
		return "", ErrNoRecipients
	}

	request := sg.GetRequest(m.config.APIKey, sendEndpoint, m.config.Host)
	request.Method = "POST"
	request.Body = mail.GetRequestBody(m.build(msg))

	resp, err := sg.MakeRequestWithContext(ctx, request)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%w: HTTP %d: %s", ErrSendFailed, resp.StatusCode, resp.Body)
	}

	id := messageID(resp.Headers)
	m.logger.Info("E-mail sent",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("attachments", len(msg.Attachments)),
		zap.String("message_id", id))
	return id, nil
}

func (m *Mailer) build(msg ports.EmailMessage) *mail.SGMailV3 {
	v3 := mail.NewV3Mail()
	v3.SetFrom(mail.NewEmail(m.config.FromName, m.config.FromEmail))
	v3.Subject = msg.Subject

	p := mail.NewPersonalization()
	for _, to := range msg.To {
		p.AddTos(mail.NewEmail("", to))
	}
	v3.AddPersonalizations(p)
	v3.AddContent(
		mail.NewContent("text/plain", msg.Body),
		mail.NewContent("text/html", HTMLBody(msg.Body)),
	)

	for _, a := range msg.Attachments {
		att := mail.NewAttachment()
		att.SetContent(base64.StdEncoding.EncodeToString(a.Content))
		att.SetType(a.ContentType)
		att.SetFilename(a.FileName)
		att.SetDisposition("attachment")
		v3.AddAttachment(att)
	}
	return v3
}

// HTMLBody escapes a plain text body and turns its line breaks into <br>
func HTMLBody(text string) string {
	escaped := html.EscapeString(strings.ReplaceAll(text, "\r\n", "\n"))
	return strings.ReplaceAll(escaped, "\n", "<br>")
}

func messageID(headers map[string][]string) string {
	for k, v := range headers {
		if strings.EqualFold(k, "X-Message-Id") && len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

var _ ports.Mailer = (*Mailer)(nil)
