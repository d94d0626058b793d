package infosimples

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{
		BaseURL:  srv.URL + "/",
		Token:    "test-token",
		Timeout:  5 * time.Second,
		Interval: time.Millisecond,
	}, zap.NewNop())
}

const okResponse = `{
  "code": 200,
  "code_message": "A requisição foi processada com sucesso.",
  "data": [{
    "cnpj": "12345678000195",
    "razaoSocial": "MARIA DA SILVA",
    "periodos": {
      "202501": {
        "urlDas": "https://storage.infosimples.test/das.pdf",
        "dataVencimento": "20/02/2025",
        "valorTotalDas": "1.234,56",
        "situacao": "Devedor",
        "principal": "75,90",
        "multas": "",
        "juros": "R$ 0,35"
      }
    }
  }]
}`

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, NewConfig("tok").Validate())
	assert.ErrorIs(t, (&Config{BaseURL: DefaultBaseURL}).Validate(), ErrConfigMissingToken)
	assert.ErrorIs(t, (&Config{Token: "tok"}).Validate(), ErrConfigMissingBaseURL)
}

func TestClient_GenerateGuide(t *testing.T) {
	var got simplesDASRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, simplesDASPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(okResponse))
	})

	data, err := c.GenerateGuide(context.Background(), "12.345.678/0001-95", "01/2025")
	require.NoError(t, err)

	assert.Equal(t, "test-token", got.Token)
	assert.Equal(t, "12345678000195", got.CNPJ)
	assert.Equal(t, "202501", got.Periodo)
	assert.Equal(t, 600, got.Timeout)
	assert.True(t, got.IgnoreSiteReceipt)

	assert.Equal(t, "MARIA DA SILVA", data.RazaoSocial)
	assert.Equal(t, "202501", data.Periodo)
	assert.Equal(t, "https://storage.infosimples.test/das.pdf", data.URL)
	require.NotNil(t, data.DataVencimento)
	assert.Equal(t, time.Date(2025, time.February, 20, 0, 0, 0, 0, time.UTC), *data.DataVencimento)
	assert.True(t, decimal.RequireFromString("1234.56").Equal(data.Valor))
	assert.True(t, decimal.RequireFromString("75.90").Equal(data.Principal))
	assert.True(t, data.Multas.IsZero())
	assert.True(t, decimal.RequireFromString("0.35").Equal(data.Juros))
	assert.Equal(t, "Devedor", data.Situacao)
}

func TestClient_GenerateGuide_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid cnpj", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		})
		_, err := c.GenerateGuide(ctx, "123", "202501")
		assert.ErrorIs(t, err, ErrInvalidCNPJ)
	})

	t.Run("invalid periodo", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		})
		_, err := c.GenerateGuide(ctx, "12345678000195", "2025")
		assert.Error(t, err)
	})

	t.Run("missing token", func(t *testing.T) {
		c := New(Config{}, zap.NewNop())
		_, err := c.GenerateGuide(ctx, "12345678000195", "202501")
		assert.ErrorIs(t, err, ErrConfigMissingToken)
	})

	t.Run("api code", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"code": 612, "code_message": "CNPJ não encontrado"}`))
		})
		_, err := c.GenerateGuide(ctx, "12345678000195", "202501")
		assert.ErrorIs(t, err, ErrRequestFailed)
		assert.Contains(t, err.Error(), "CNPJ não encontrado")
	})

	t.Run("http status", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		_, err := c.GenerateGuide(ctx, "12345678000195", "202501")
		assert.ErrorIs(t, err, ErrUnexpectedStatus)
	})

	t.Run("periodo missing", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(okResponse))
		})
		_, err := c.GenerateGuide(ctx, "12345678000195", "202502")
		assert.ErrorIs(t, err, ErrPeriodoNotFound)
	})
}

func TestClient_WithCredentials(t *testing.T) {
	var token string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req simplesDASRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		token = req.Token
		_, _ = w.Write([]byte(okResponse))
	})

	bound := c.WithCredentials(map[string]string{"token": "stored-token"})
	_, err := bound.GenerateGuide(context.Background(), "12345678000195", "202501")
	require.NoError(t, err)
	assert.Equal(t, "stored-token", token)
	assert.Equal(t, "test-token", c.config.Token)
	assert.Same(t, c.limiter, bound.(*Client).limiter)
}

func TestClient_TestConnection(t *testing.T) {
	for status, ok := range map[int]bool{
		http.StatusOK:                  true,
		http.StatusBadRequest:          true,
		http.StatusUnprocessableEntity: true,
		http.StatusUnauthorized:        false,
		http.StatusInternalServerError: false,
	} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})
		c.now = func() time.Time { return time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC) }
		err := c.TestConnection(context.Background())
		if ok {
			assert.NoError(t, err, status)
		} else {
			assert.ErrorIs(t, err, ErrUnexpectedStatus, status)
		}
	}
}

func TestClient_Download(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.pdf" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("%PDF-1.4"))
	})

	body, err := c.Download(context.Background(), c.config.BaseURL+"/das.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), body)

	_, err = c.Download(context.Background(), c.config.BaseURL+"/missing.pdf")
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestToGuideData(t *testing.T) {
	data := simplesDASData{RazaoSocial: "JOANA MEI"}

	t.Run("brazilian amounts and dashes", func(t *testing.T) {
		got, err := toGuideData("11222333000181", "202503", data, simplesDASPeriodo{
			URLDas:         "https://das.test/guia.pdf",
			DataVencimento: "20/03/2025",
			ValorTotalDas:  "R$ 1.234,56",
			Principal:      "1.200,00",
			Multas:         "-",
			Juros:          "34,56",
			Situacao:       "Devedor",
		})
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("1234.56").Equal(got.Valor), got.Valor.String())
		assert.True(t, decimal.RequireFromString("1200").Equal(got.Principal))
		assert.True(t, got.Multas.IsZero())
		assert.True(t, decimal.RequireFromString("34.56").Equal(got.Juros))
		require.NotNil(t, got.DataVencimento)
		assert.Equal(t, time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC), *got.DataVencimento)
		assert.Equal(t, "JOANA MEI", got.RazaoSocial)
	})

	t.Run("total used when valorTotalDas is missing", func(t *testing.T) {
		got, err := toGuideData("11222333000181", "202503", data, simplesDASPeriodo{Total: "80,90"})
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("80.9").Equal(got.Valor))
	})

	t.Run("invalid amount names the field", func(t *testing.T) {
		_, err := toGuideData("11222333000181", "202503", data, simplesDASPeriodo{ValorTotalDas: "10,00", Juros: "abc"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "juros")
	})
}
