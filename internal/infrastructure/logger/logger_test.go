package logger

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestNew(t *testing.T) {
	t.Run("creates console logger with defaults", func(t *testing.T) {
		log, err := New(nil)
		require.NoError(t, err)
		assert.NotNil(t, log)
	})

	t.Run("writes json to file output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		log, err := New(&Config{Level: "debug", Format: "json", Output: path})
		require.NoError(t, err)
		log.Info("hello")
		require.NoError(t, log.Sync())
		assert.FileExists(t, path)
	})

	t.Run("tees extra cores", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		log, err := New(&Config{Level: "info", Format: "json", Output: "stderr"}, core)
		require.NoError(t, err)

		log.Info("teed")
		assert.Equal(t, 1, logs.FilterMessage("teed").Len())
	})

	t.Run("fails for unwritable file", func(t *testing.T) {
		_, err := New(&Config{Output: filepath.Join(t.TempDir(), "missing", "dir", "app.log")})
		assert.Error(t, err)
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("nonsense"))
}

func TestContextHelpers(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	ctx, _ := WithRequestID(context.Background(), base, "req-1")
	ctx, _ = WithUserID(ctx, FromContext(ctx), "user-9")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "user-9", GetUserID(ctx))

	L(ctx).Info("scoped")
	entry := logs.FilterMessage("scoped").All()
	require.Len(t, entry, 1)
	fields := entry[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "user-9", fields["user_id"])

	assert.NotNil(t, FromContext(context.Background()))
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("request_id", "abc") })
	r.Use(Recovery(log), GinMiddleware(log))
	r.GET("/ok", func(c *gin.Context) {
		assert.Equal(t, "abc", GetRequestID(c.Request.Context()))
		c.Status(http.StatusOK)
	})
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	for path, want := range map[string]int{"/ok": 200, "/missing": 404, "/panic": 500} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, w.Code, path)
	}

	assert.Equal(t, 1, logs.FilterMessage("Panic recovered").Len())
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).FilterMessage("HTTP Request").Len())
}

func TestGormLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), GormLogConfig{Level: gormlogger.Info, SlowThreshold: 10 * time.Millisecond})

	ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "r1")
	gl.Trace(ctx, time.Now().Add(-time.Second), func() (string, int64) { return "SELECT 1", 1 }, nil)
	gl.Trace(ctx, time.Now(), func() (string, int64) { return "SELECT 2", 0 }, gormlogger.ErrRecordNotFound)
	gl.Trace(ctx, time.Now(), func() (string, int64) { return "SELECT 3", 0 }, errors.New("relation does not exist"))

	slow := logs.FilterMessage("Slow SQL").All()
	require.Len(t, slow, 1)
	assert.Equal(t, "r1", slow[0].ContextMap()["request_id"])

	failed := logs.FilterMessage("SQL error").All()
	require.Len(t, failed, 1)
	assert.Equal(t, "SELECT 3", failed[0].ContextMap()["sql"])
	assert.Equal(t, 1, logs.FilterMessage("SQL").Len(), "record not found logs as a plain query")

	silent := gl.LogMode(gormlogger.Silent)
	silent.Trace(ctx, time.Now(), func() (string, int64) { return "SELECT 4", 0 }, errors.New("boom"))
	assert.Equal(t, 1, logs.FilterMessage("SQL error").Len())
}

func TestGormLogger_ParamsFilter(t *testing.T) {
	const query = "SELECT * FROM business_registrations WHERE cpf = $1"

	redacted := NewGormLogger(zap.NewNop(), GormLogConfig{RedactParams: true})
	sql, params := redacted.ParamsFilter(context.Background(), query, "52998224725")
	assert.Equal(t, query, sql)
	assert.Empty(t, params)

	plain := NewGormLogger(zap.NewNop(), GormLogConfig{})
	_, params = plain.ParamsFilter(context.Background(), query, "52998224725")
	assert.Equal(t, []any{"52998224725"}, params)
}

func TestGormLogConfigFor(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, GormLogConfigFor("silent", false).Level)
	assert.Equal(t, gormlogger.Info, GormLogConfigFor("debug", true).Level)
	assert.Equal(t, gormlogger.Warn, GormLogConfigFor("other", false).Level)
	assert.True(t, GormLogConfigFor("info", false).RedactParams)
	assert.False(t, GormLogConfigFor("info", true).RedactParams)
}
