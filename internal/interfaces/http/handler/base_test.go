package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/interfaces/http/dto"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := middleware.SetupValidator(); err != nil {
		panic(err)
	}
}

// setJWTContext simulates the JWT middleware
func setJWTContext(c *gin.Context, userID uuid.UUID, role string) {
	c.Set(middleware.JWTUserIDKey, userID.String())
	c.Set(middleware.JWTUsernameKey, "maria")
	c.Set(middleware.JWTRoleKey, role)
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetActor(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, err := getActor(c)
	assert.Error(t, err)
	assert.Nil(t, userIDPtr(c))
	assert.Equal(t, "api", operador(c))

	id := uuid.New()
	setJWTContext(c, id, "admin")
	actor, err := getActor(c)
	require.NoError(t, err)
	assert.Equal(t, id, actor.ID)
	assert.True(t, actor.IsAdmin())
	assert.Equal(t, &id, userIDPtr(c))
	assert.Equal(t, "maria", operador(c))
}

func TestBaseHandler_SuccessResponses(t *testing.T) {
	h := &BaseHandler{}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	h.SuccessWithMeta(c, []string{"a", "b"}, 45, 2, 20)
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 3, resp.Meta.TotalPages)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	h.Created(c, gin.H{"id": "1"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	h.Accepted(c, JobData{ID: "1"})
	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{"wrapped not found", fmt.Errorf("load: %w", shared.ErrNotFound), http.StatusNotFound, dto.ErrCodeNotFound},
		{"field validation", shared.NewDomainError("INVALID_CNPJ", "CNPJ inválido"), http.StatusBadRequest, dto.ErrCodeValidation},
		{"business rule", shared.NewDomainError("NO_PHONE", "Cliente sem telefone"), http.StatusUnprocessableEntity, dto.ErrCodeBusinessRule},
		{"not configured", shared.ErrNotConfigured, http.StatusServiceUnavailable, dto.ErrCodeUnavailable},
		{"body too large", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge},
		{"unknown", errors.New("db down"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Set(middleware.RequestIDKey, "req-1")

			(&BaseHandler{}).HandleError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			resp := decodeResponse(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, "req-1", resp.Error.RequestID)
		})
	}

	t.Run("unknown errors are recorded on the context", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		(&BaseHandler{}).HandleError(c, errors.New("db down"))
		assert.Len(t, c.Errors, 1)
	})

	t.Run("nil is ignored", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		(&BaseHandler{}).HandleError(c, nil)
		assert.Empty(t, w.Body.Bytes())
	})
}

type bindTarget struct {
	Nome string `json:"nome" binding:"required"`
	CNPJ string `json:"cnpj" binding:"omitempty,cnpj"`
}

func TestBaseHandler_BindJSON(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		ok     bool
		code   string
		detail string
	}{
		{"valid", `{"nome":"Ana","cnpj":"11222333000181"}`, true, "", ""},
		{"validation", `{"cnpj":"123"}`, false, dto.ErrCodeValidation, "nome"},
		{"malformed", `{"nome":`, false, dto.ErrCodeBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var req bindTarget
			ok := (&BaseHandler{}).BindJSON(c, &req)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, "Ana", req.Nome)
				return
			}
			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := decodeResponse(t, w)
			assert.Equal(t, tt.code, resp.Error.Code)
			if tt.detail != "" {
				require.NotEmpty(t, resp.Error.Details)
				assert.Equal(t, tt.detail, resp.Error.Details[0].Field)
			}
		})
	}
}

func TestBaseHandler_ParamUUID(t *testing.T) {
	router := gin.New()
	router.GET("/items/:id", func(c *gin.Context) {
		h := &BaseHandler{}
		id, ok := h.ParamUUID(c, "id")
		if !ok {
			return
		}
		h.Success(c, id)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/42", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBaseHandler_Attachment(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	(&BaseHandler{}).Attachment(c, []byte("%PDF"), "Cadastro Açaí Ltda.pdf", "application/pdf")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	disposition := w.Header().Get("Content-Disposition")
	assert.Contains(t, disposition, `filename="Cadastro A_a_ Ltda.pdf"`)
	assert.Contains(t, disposition, "filename*=UTF-8''Cadastro%20A%C3%A7a%C3%AD%20Ltda.pdf")
}
