// Package infosimples fetches DAS-MEI guides through the InfoSimples
// "receita-federal/simples-das" consultation.
package infosimples

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/application/ports"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/dasmei"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared/valueobject"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/telemetry"
)

// ProviderName is the registry name of this provider
const ProviderName = "infosimples"

const (
	simplesDASPath  = "/consultas/receita-federal/simples-das"
	maxResponseSize = 5 * 1024 * 1024
	maxDocumentSize = 20 * 1024 * 1024
	// testCNPJ is a well-formed CNPJ used only to check the API answers
	testCNPJ = "11222333000181"
)

// Errors returned by the client
var (
	ErrInvalidCNPJ      = errors.New("infosimples: CNPJ must have 14 digits")
	ErrRequestFailed    = errors.New("infosimples: request failed")
	ErrPeriodoNotFound  = errors.New("infosimples: period not present in response")
	ErrUnexpectedStatus = errors.New("infosimples: unexpected HTTP status")
)

// Client implements ports.DASProvider against InfoSimples
type Client struct {
	config     Config
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
	now        func() time.Time
}

// New creates a Client. A missing token is reported on the first call so the
// token can also be supplied later through WithCredentials.
func New(config Config, logger *zap.Logger) *Client {
	config.applyDefaults()
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		limiter:    rate.NewLimiter(rate.Every(config.Interval), 1),
		logger:     logger,
		now:        time.Now,
	}
}

// Name returns the provider registry name
func (c *Client) Name() string {
	return ProviderName
}

// WithCredentials returns a client using the token (and optionally base_url)
// stored in a provider configuration. The copy shares the rate limiter.
func (c *Client) WithCredentials(credentials map[string]string) ports.DASProvider {
	clone := *c
	if token := credentials["token"]; token != "" {
		clone.config.Token = token
	}
	if base := credentials["base_url"]; base != "" {
		clone.config.BaseURL = strings.TrimRight(base, "/")
	}
	return &clone
}

// GenerateGuide consults the DAS of cnpj for periodo (YYYYMM or MM/YYYY)
func (c *Client) GenerateGuide(ctx context.Context, cnpj, periodo string) (*dasmei.GuideData, error) {
	if err := c.config.Validate(); err != nil {
		return nil, err
	}
	digits := valueobject.OnlyDigits(cnpj)
	if len(digits) != 14 {
		return nil, ErrInvalidCNPJ
	}
	normalized, err := dasmei.NormalizePeriodo(periodo)
	if err != nil {
		return nil, err
	}

	status, body, err := c.consult(ctx, digits, normalized)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d", ErrUnexpectedStatus, status)
	}

	var resp simplesDASResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("infosimples: failed to parse response: %w", err)
	}
	if resp.Code != http.StatusOK {
		msg := resp.CodeMessage
		if msg == "" && len(resp.Errors) > 0 {
			msg = strings.Join(resp.Errors, "; ")
		}
		if msg == "" {
			msg = "Erro na API InfoSimples"
		}
		return nil, fmt.Errorf("%w: code %d: %s", ErrRequestFailed, resp.Code, msg)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrPeriodoNotFound, normalized)
	}
	data := resp.Data[0]
	p, ok := data.Periodos[normalized]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPeriodoNotFound, normalized)
	}
	return toGuideData(digits, normalized, data, p)
}

// Download fetches the PDF published at url
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("infosimples: failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("infosimples: failed to read document: %w", err)
	}
	return body, nil
}

// TestConnection sends a consultation for a sample CNPJ. Validation answers
// (400, 422) still prove the API is reachable with the token.
func (c *Client) TestConnection(ctx context.Context) error {
	if err := c.config.Validate(); err != nil {
		return err
	}
	status, _, err := c.consult(ctx, testCNPJ, dasmei.PreviousPeriod(c.now()))
	if err != nil {
		return err
	}
	switch status {
	case http.StatusOK, http.StatusBadRequest, http.StatusUnprocessableEntity:
		return nil
	default:
		return fmt.Errorf("%w: HTTP %d", ErrUnexpectedStatus, status)
	}
}

func (c *Client) consult(ctx context.Context, cnpj, periodo string) (status int, body []byte, err error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, nil, err
	}
	ctx, span := telemetry.StartClientSpan(ctx, "infosimples.simples_das",
		telemetry.SpanAttrProvider, ProviderName,
		telemetry.SpanAttrPeriodo, periodo,
	)
	defer func() {
		telemetry.SetAttributes(span, "http.status_code", status)
		telemetry.RecordError(span, err)
		span.End()
	}()
	payload, err := json.Marshal(simplesDASRequest{
		Token:             c.config.Token,
		CNPJ:              cnpj,
		Periodo:           periodo,
		Timeout:           lookupTimeoutSeconds,
		IgnoreSiteReceipt: true,
	})
	if err != nil {
		return 0, nil, fmt.Errorf("infosimples: failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+simplesDASPath, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("infosimples: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := c.now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return 0, nil, fmt.Errorf("infosimples: failed to read response: %w", err)
	}
	c.logger.Debug("InfoSimples consultation",
		zap.String("cnpj", cnpj),
		zap.String("periodo", periodo),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", c.now().Sub(start)))
	return resp.StatusCode, body, nil
}

func toGuideData(cnpj, periodo string, data simplesDASData, p simplesDASPeriodo) (*dasmei.GuideData, error) {
	out := &dasmei.GuideData{
		CNPJ:        cnpj,
		RazaoSocial: data.RazaoSocial,
		Periodo:     periodo,
		URL:         p.URLDas,
		Situacao:    p.Situacao,
	}
	if p.DataVencimento != "" {
		due, err := time.Parse("02/01/2006", p.DataVencimento)
		if err != nil {
			return nil, fmt.Errorf("infosimples: invalid due date %q: %w", p.DataVencimento, err)
		}
		out.DataVencimento = &due
	}
	total := p.ValorTotalDas
	if total == "" {
		total = p.Total
	}
	amounts := []struct {
		field string
		raw   string
		dst   *decimal.Decimal
	}{
		{"valor", total, &out.Valor},
		{"principal", p.Principal, &out.Principal},
		{"multas", p.Multas, &out.Multas},
		{"juros", p.Juros, &out.Juros},
	}
	for _, a := range amounts {
		d, err := valueobject.ParseBRL(a.raw)
		if err != nil {
			return nil, fmt.Errorf("infosimples: invalid %s %q: %w", a.field, a.raw, err)
		}
		*a.dst = d
	}
	return out, nil
}

var _ ports.DASProvider = (*Client)(nil)
