package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/auth"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/config"
)

const testJWTSecret = "test-secret-key-at-least-32-chars"

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:     testJWTSecret,
		Expiration: 8 * time.Hour,
		Issuer:     "test-issuer",
	})
}

func newTestToken(t *testing.T, svc *auth.JWTService, role string) (*auth.Token, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	token, err := svc.GenerateToken(userID, "maria", role)
	require.NoError(t, err)
	return token, userID
}

func signClaims(t *testing.T, claims *auth.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return s
}

func protectedRouter(cfg JWTMiddlewareConfig, handler gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), JWTAuthMiddlewareWithConfig(cfg))
	if handler == nil {
		handler = func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) }
	}
	router.GET("/api/test", handler)
	router.GET("/health", handler)
	router.GET("/swagger/index.html", handler)
	router.GET("/api/business-registration", handler)
	router.POST("/api/business-registration", handler)
	return router
}

func doRequest(router http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code      string `json:"code"`
			RequestID string `json:"request_id"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	svc := newTestJWTService()
	token, userID := newTestToken(t, svc, "admin")

	router := protectedRouter(DefaultJWTConfig(svc), func(c *gin.Context) {
		claims := GetJWTClaims(c)
		require.NotNil(t, claims)
		assert.Equal(t, userID.String(), claims.UserID)
		assert.Equal(t, userID.String(), GetJWTUserID(c))
		assert.Equal(t, "maria", GetJWTUsername(c))
		assert.Equal(t, "admin", GetJWTRole(c))
		c.Status(http.StatusOK)
	})

	rec := doRequest(router, http.MethodGet, "/api/test", token.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthMiddleware_Rejections(t *testing.T) {
	svc := newTestJWTService()
	router := protectedRouter(DefaultJWTConfig(svc), nil)

	past := time.Now().Add(-2 * time.Hour)
	expired := signClaims(t, &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(past),
			ExpiresAt: jwt.NewNumericDate(past.Add(time.Hour)),
		},
		UserID: uuid.NewString(),
		Role:   "user",
	})
	noUser := signClaims(t, &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", "UNAUTHORIZED"},
		{"wrong scheme", "Basic abc", "INVALID_TOKEN"},
		{"empty bearer", "Bearer ", "INVALID_TOKEN"},
		{"garbage token", "Bearer not-a-jwt", "INVALID_TOKEN"},
		{"expired", "Bearer " + expired, "TOKEN_EXPIRED"},
		{"missing user id", "Bearer " + noUser, "INVALID_TOKEN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tt.code, errorCode(t, rec))
			assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
		})
	}
}

func TestJWTAuthMiddleware_SkipPaths(t *testing.T) {
	router := protectedRouter(DefaultJWTConfig(newTestJWTService()), nil)

	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/swagger/index.html", "").Code)

	// the public form accepts anonymous submissions but not listings
	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodPost, "/api/business-registration", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(router, http.MethodGet, "/api/business-registration", "").Code)
}

func TestJWTAuthMiddleware_Revocation(t *testing.T) {
	svc := newTestJWTService()
	revocations := auth.NewInMemoryRevocationList()
	cfg := DefaultJWTConfig(svc)
	cfg.Revocations = revocations
	router := protectedRouter(cfg, nil)

	t.Run("revoked token", func(t *testing.T) {
		token, _ := newTestToken(t, svc, "user")
		claims, err := svc.ValidateToken(token.AccessToken)
		require.NoError(t, err)
		require.NoError(t, revocations.Revoke(context.Background(), claims.ID, time.Hour))

		rec := doRequest(router, http.MethodGet, "/api/test", token.AccessToken)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "TOKEN_REVOKED", errorCode(t, rec))
	})

	t.Run("revoked user", func(t *testing.T) {
		token, userID := newTestToken(t, svc, "user")
		require.NoError(t, revocations.RevokeUser(context.Background(), userID.String(), time.Hour))

		rec := doRequest(router, http.MethodGet, "/api/test", token.AccessToken)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("other tokens still pass", func(t *testing.T) {
		token, _ := newTestToken(t, svc, "user")
		assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/api/test", token.AccessToken).Code)
	})
}

type failingRevocations struct {
	auth.RevocationList
}

func (failingRevocations) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func (failingRevocations) IsUserRevoked(context.Context, string, time.Time) (bool, error) {
	return false, errors.New("redis down")
}

func TestJWTAuthMiddleware_RevocationStoreDown(t *testing.T) {
	svc := newTestJWTService()
	cfg := DefaultJWTConfig(svc)
	cfg.Revocations = failingRevocations{}
	router := protectedRouter(cfg, nil)

	token, _ := newTestToken(t, svc, "user")
	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/api/test", token.AccessToken).Code)
}

func TestGetJWTClaims_NotFound(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, GetJWTClaims(c))
	assert.Empty(t, GetJWTUserID(c))
	assert.Empty(t, GetJWTUsername(c))
	assert.Empty(t, GetJWTRole(c))
}

func TestRequireRole(t *testing.T) {
	svc := newTestJWTService()

	router := gin.New()
	router.Use(JWTAuthMiddleware(svc))
	router.GET("/api/users", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/api/tasks", RequireRole("admin", "user"), func(c *gin.Context) { c.Status(http.StatusOK) })

	admin, _ := newTestToken(t, svc, "admin")
	user, _ := newTestToken(t, svc, "user")

	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/api/users", admin.AccessToken).Code)
	rec := doRequest(router, http.MethodGet, "/api/users", user.AccessToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "ERR_FORBIDDEN"))
	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/api/tasks", user.AccessToken).Code)

	// without the JWT middleware the guard answers 401
	bare := gin.New()
	bare.GET("/admin", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusUnauthorized, doRequest(bare, http.MethodGet, "/admin", "").Code)
}
