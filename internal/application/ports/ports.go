// Package ports declares the outbound interfaces application services depend
// on. Infrastructure adapters (S3 and local storage, SendGrid, Evolution API,
// InfoSimples, chromedp) implement them.
package ports

import (
	"context"
	"io"
	"time"

	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/contratacao"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/dasmei"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/registration"
)

// ObjectInfo describes a stored object
type ObjectInfo struct {
	Key          string    `json:"key"`
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
	ContentType  string    `json:"content_type,omitempty"`
}

// Listing is the result of a delimited listing: immediate sub-folders
// (common prefixes, with trailing delimiter) and objects.
type Listing struct {
	Folders []string
	Files   []ObjectInfo
}

// ObjectStorage stores documents by key
type ObjectStorage interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	// List returns objects under prefix. An empty delimiter lists recursively.
	List(ctx context.Context, prefix, delimiter string) (*Listing, error)
	DownloadURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Attachment is a file attached to an e-mail
type Attachment struct {
	FileName    string
	ContentType string
	Content     []byte
}

// EmailMessage is an outbound e-mail. Body is plain text; adapters render
// line breaks as they need.
type EmailMessage struct {
	To          []string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Mailer delivers e-mail and returns the provider message id
type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) (string, error)
}

// WhatsAppDocument is a PDF sent as a WhatsApp media message
type WhatsAppDocument struct {
	FileName string
	MimeType string
	Caption  string
	Content  []byte
}

// WhatsAppSender sends messages through one WhatsApp gateway instance
type WhatsAppSender interface {
	SendText(ctx context.Context, number, text string) (string, error)
	SendDocument(ctx context.Context, number string, doc WhatsAppDocument) (string, error)
	TestConnection(ctx context.Context) error
}

// WhatsAppSenderFactory builds senders for configured gateway instances
type WhatsAppSenderFactory interface {
	ForInstance(serverURL, instance, token string) WhatsAppSender
	// Default returns the sender configured statically, if any
	Default() (WhatsAppSender, bool)
}

// DASProvider fetches DAS-MEI guides from a tax data service
type DASProvider interface {
	Name() string
	GenerateGuide(ctx context.Context, cnpj, periodo string) (*dasmei.GuideData, error)
	Download(ctx context.Context, url string) ([]byte, error)
	TestConnection(ctx context.Context) error
}

// DocumentRenderer renders submission documents as PDF
type DocumentRenderer interface {
	RenderRegistration(ctx context.Context, reg *registration.BusinessRegistration) ([]byte, error)
	RenderContratacao(ctx context.Context, c *contratacao.ContratacaoFuncionario) ([]byte, error)
}

// WebhookSender posts JSON payloads to an external automation endpoint
type WebhookSender interface {
	Post(ctx context.Context, payload any) error
}
