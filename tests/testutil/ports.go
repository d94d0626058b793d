// Package testutil holds in-memory fakes of the application ports and small
// helpers shared by unit and integration tests.
package testutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/application/ports"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/contratacao"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/dasmei"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/registration"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
)

// ErrFakeNotFound is returned by MemoryStorage for missing keys.
var ErrFakeNotFound = errors.New("object not found")

type memoryObject struct {
	data        []byte
	contentType string
	modified    time.Time
}

// MemoryStorage is an in-memory ports.ObjectStorage.
type MemoryStorage struct {
	mu        sync.Mutex
	objects   map[string]memoryObject
	UploadErr error
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{objects: make(map[string]memoryObject)}
}

// Upload stores the object.
func (s *MemoryStorage) Upload(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	if s.UploadErr != nil {
		return s.UploadErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = memoryObject{data: data, contentType: contentType, modified: time.Now()}
	return nil
}

// Download returns the stored object.
func (s *MemoryStorage) Download(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, ErrFakeNotFound
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

// Delete removes the object. Missing keys are ignored.
func (s *MemoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// Exists reports whether key is stored.
func (s *MemoryStorage) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok, nil
}

// List lists objects under prefix, grouping by delimiter when set.
func (s *MemoryStorage) List(_ context.Context, prefix, delimiter string) (*ports.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listing := &ports.Listing{}
	seen := make(map[string]bool)
	for key, obj := range s.objects {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		rest := strings.TrimPrefix(key, prefix)
		if delimiter != "" {
			if idx := strings.Index(rest, delimiter); idx >= 0 {
				folder := prefix + rest[:idx+len(delimiter)]
				if !seen[folder] {
					seen[folder] = true
					listing.Folders = append(listing.Folders, folder)
				}
				continue
			}
		}
		listing.Files = append(listing.Files, ports.ObjectInfo{
			Key:          key,
			Name:         path.Base(key),
			Size:         int64(len(obj.data)),
			LastModified: obj.modified,
			ContentType:  obj.contentType,
		})
	}
	sort.Strings(listing.Folders)
	sort.Slice(listing.Files, func(i, j int) bool { return listing.Files[i].Key < listing.Files[j].Key })
	return listing, nil
}

// DownloadURL returns a fake URL carrying the key and ttl.
func (s *MemoryStorage) DownloadURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	return fmt.Sprintf("https://files.test/%s?ttl=%s", key, ttl), nil
}

// Keys returns the stored keys, sorted.
func (s *MemoryStorage) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Content returns the stored bytes for key.
func (s *MemoryStorage) Content(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[key]
	return obj.data, ok
}

// Put stores content directly.
func (s *MemoryStorage) Put(key string, content []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = memoryObject{data: content, modified: time.Now()}
}

// RecordingMailer is a ports.Mailer that records sent messages.
type RecordingMailer struct {
	mu   sync.Mutex
	sent []ports.EmailMessage
	Err  error
}

// Send records msg.
func (m *RecordingMailer) Send(_ context.Context, msg ports.EmailMessage) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	m.sent = append(m.sent, msg)
	return fmt.Sprintf("msg-%d", len(m.sent)), nil
}

// Sent returns a copy of the recorded messages.
func (m *RecordingMailer) Sent() []ports.EmailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ports.EmailMessage(nil), m.sent...)
}

// RecordingPublisher is a shared.EventPublisher that records events.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

// Publish records events.
func (p *RecordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

// Events returns the recorded events.
func (p *RecordingPublisher) Events() []shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]shared.DomainEvent(nil), p.events...)
}

// EventTypes returns the types of the recorded events, in order.
func (p *RecordingPublisher) EventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.EventType()
	}
	return types
}

// WhatsAppCall is a message recorded by FakeWhatsApp.
type WhatsAppCall struct {
	Number   string
	Text     string
	Document *ports.WhatsAppDocument
}

// FakeWhatsApp is a ports.WhatsAppSender that records messages.
type FakeWhatsApp struct {
	mu      sync.Mutex
	calls   []WhatsAppCall
	Err     error
	ConnErr error
}

// SendText records a text message.
func (w *FakeWhatsApp) SendText(_ context.Context, number, text string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.Err != nil {
		return "", w.Err
	}
	w.calls = append(w.calls, WhatsAppCall{Number: number, Text: text})
	return fmt.Sprintf("wa-%d", len(w.calls)), nil
}

// SendDocument records a document message.
func (w *FakeWhatsApp) SendDocument(_ context.Context, number string, doc ports.WhatsAppDocument) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.Err != nil {
		return "", w.Err
	}
	w.calls = append(w.calls, WhatsAppCall{Number: number, Text: doc.Caption, Document: &doc})
	return fmt.Sprintf("wa-%d", len(w.calls)), nil
}

// TestConnection returns ConnErr.
func (w *FakeWhatsApp) TestConnection(context.Context) error {
	return w.ConnErr
}

// Calls returns the recorded messages.
func (w *FakeWhatsApp) Calls() []WhatsAppCall {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]WhatsAppCall(nil), w.calls...)
}

// FakeWhatsAppFactory hands out a single FakeWhatsApp for every instance.
type FakeWhatsAppFactory struct {
	Sender    *FakeWhatsApp
	NoDefault bool
	mu        sync.Mutex
	instances []string
}

// ForInstance records the instance and returns Sender.
func (f *FakeWhatsAppFactory) ForInstance(serverURL, instance, _ string) ports.WhatsAppSender {
	f.mu.Lock()
	f.instances = append(f.instances, serverURL+"/"+instance)
	f.mu.Unlock()
	return f.Sender
}

// Default returns Sender unless NoDefault is set.
func (f *FakeWhatsAppFactory) Default() (ports.WhatsAppSender, bool) {
	if f.NoDefault {
		return nil, false
	}
	return f.Sender, true
}

// Instances returns the instances requested through ForInstance.
func (f *FakeWhatsAppFactory) Instances() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.instances...)
}

// FakeRenderer is a ports.DocumentRenderer returning fixed bytes.
type FakeRenderer struct {
	Err error
}

// RenderRegistration returns a tiny PDF stub naming the company.
func (r *FakeRenderer) RenderRegistration(_ context.Context, reg *registration.BusinessRegistration) ([]byte, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	return []byte("%PDF-1.4 " + reg.RazaoSocial), nil
}

// RenderContratacao returns a tiny PDF stub naming the employee.
func (r *FakeRenderer) RenderContratacao(_ context.Context, c *contratacao.ContratacaoFuncionario) ([]byte, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	return []byte("%PDF-1.4 " + c.Funcionario.Nome), nil
}

// RecordingWebhook is a ports.WebhookSender that records payloads.
type RecordingWebhook struct {
	mu       sync.Mutex
	payloads []any
	Err      error
}

// Post records payload.
func (w *RecordingWebhook) Post(_ context.Context, payload any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.Err != nil {
		return w.Err
	}
	w.payloads = append(w.payloads, payload)
	return nil
}

// Payloads returns the recorded payloads.
func (w *RecordingWebhook) Payloads() []any {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]any(nil), w.payloads...)
}

// FakeDASProvider is a ports.DASProvider returning canned guides per CNPJ.
type FakeDASProvider struct {
	ProviderName string
	Guides       map[string]*dasmei.GuideData
	Errs         map[string]error
	PDF          []byte
	ConnErr      error
	mu           sync.Mutex
	calls        []string
}

// Name returns ProviderName, "fake" when unset.
func (p *FakeDASProvider) Name() string {
	if p.ProviderName == "" {
		return "fake"
	}
	return p.ProviderName
}

// GenerateGuide returns the canned guide or error of cnpj.
func (p *FakeDASProvider) GenerateGuide(_ context.Context, cnpj, periodo string) (*dasmei.GuideData, error) {
	p.mu.Lock()
	p.calls = append(p.calls, cnpj+"/"+periodo)
	p.mu.Unlock()
	if err := p.Errs[cnpj]; err != nil {
		return nil, err
	}
	if g, ok := p.Guides[cnpj]; ok {
		return g, nil
	}
	return nil, fmt.Errorf("no guide for %s", cnpj)
}

// Download returns PDF.
func (p *FakeDASProvider) Download(context.Context, string) ([]byte, error) {
	if p.PDF == nil {
		return nil, fmt.Errorf("no pdf")
	}
	return p.PDF, nil
}

// TestConnection returns ConnErr.
func (p *FakeDASProvider) TestConnection(context.Context) error {
	return p.ConnErr
}

// Calls returns the "cnpj/periodo" pairs requested.
func (p *FakeDASProvider) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}
