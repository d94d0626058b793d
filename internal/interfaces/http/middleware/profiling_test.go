package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/interfaces/http/middleware"
)

func TestDefaultProfilingConfig(t *testing.T) {
	cfg := middleware.DefaultProfilingConfig()

	assert.True(t, cfg.Enabled)
	assert.Contains(t, cfg.SkipPaths, "/health")
	assert.Contains(t, cfg.SkipPaths, "/metrics")
	assert.Contains(t, cfg.SkipPathPrefixes, "/swagger")
}

func TestProfilingMiddleware_Labels(t *testing.T) {
	r := gin.New()
	r.Use(middleware.Profiling())

	var route, method string
	var routeOK bool
	r.GET("/api/dasmei/guias/:id", func(c *gin.Context) {
		route, routeOK = pprof.Label(c.Request.Context(), "route")
		method, _ = pprof.Label(c.Request.Context(), "method")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/dasmei/guias/3f1c", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, routeOK)
	assert.Equal(t, "/api/dasmei/guias/:id", route)
	assert.Equal(t, http.MethodGet, method)
}

func TestProfilingMiddleware_Skipped(t *testing.T) {
	tests := []struct {
		name string
		cfg  middleware.ProfilingConfig
		path string
	}{
		{"disabled", middleware.ProfilingConfig{}, "/api/clientes"},
		{"health", middleware.DefaultProfilingConfig(), "/health"},
		{"swagger prefix", middleware.DefaultProfilingConfig(), "/swagger/index.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(middleware.ProfilingWithConfig(tt.cfg))

			labelled := true
			r.GET(tt.path, func(c *gin.Context) {
				_, labelled = pprof.Label(c.Request.Context(), "route")
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.False(t, labelled)
		})
	}
}

func TestProfilingMiddleware_UnmatchedRoute(t *testing.T) {
	r := gin.New()
	r.Use(middleware.Profiling())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
