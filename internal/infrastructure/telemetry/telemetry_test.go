package telemetry

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

func TestStartSpan(t *testing.T) {
	recorder := withRecorder(t)

	ctx, span := StartSpan(context.Background(), "dasmei.generate",
		SpanAttrPeriodo, "202502",
		"total", 3,
		42, "ignored key",
	)
	assert.NotEmpty(t, GetTraceID(ctx))
	RecordError(span, errors.New("provider down"))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "dasmei.generate", spans[0].Name())
	assert.Equal(t, trace.SpanKindInternal, spans[0].SpanKind())
	assert.Contains(t, spans[0].Attributes(), attribute.String(SpanAttrPeriodo, "202502"))
	assert.Contains(t, spans[0].Attributes(), attribute.Int("total", 3))
	assert.Len(t, spans[0].Attributes(), 2)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestStartClientSpan(t *testing.T) {
	recorder := withRecorder(t)

	_, span := StartClientSpan(context.Background(), "infosimples.consult", SpanAttrProvider, "infosimples")
	SetAttributes(span, "status", 200)
	RecordError(span, nil)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, trace.SpanKindClient, spans[0].SpanKind())
	assert.Contains(t, spans[0].Attributes(), attribute.Int("status", 200))
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
}

func TestGetTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))
}

func TestSampler(t *testing.T) {
	assert.Contains(t, sampler(1).Description(), "AlwaysOnSampler")
	assert.Contains(t, sampler(0).Description(), "AlwaysOffSampler")
	assert.Contains(t, sampler(0.25).Description(), "TraceIDRatioBased{0.25}")
}

func TestDisabledProviders(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	tp, err := NewTracerProvider(ctx, Config{}, logger)
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	tp.EnableSpanProfiles()
	assert.NotNil(t, tp.Tracer("test"))
	assert.NoError(t, tp.Shutdown(ctx))

	mp, err := NewMeterProvider(ctx, Config{}, 0, logger)
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(ctx))

	lp, err := NewLoggerProvider(ctx, Config{}, logger)
	require.NoError(t, err)
	assert.False(t, lp.IsEnabled())
	base := zap.NewExample()
	assert.Same(t, base, lp.Bridge(base, "prosperar", zapcore.InfoLevel))
	assert.NoError(t, lp.Shutdown(ctx))
}

func TestLevelFilterCore(t *testing.T) {
	inner, logs := observer.New(zapcore.DebugLevel)
	core := &levelFilterCore{Core: inner, minLevel: zapcore.WarnLevel}
	logger := zap.New(core).With(zap.String("component", "scheduler"))

	logger.Info("dropped")
	logger.Warn("kept")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "kept", entry.Message)
	assert.Equal(t, "scheduler", entry.ContextMap()["component"])
	assert.False(t, core.Enabled(zapcore.InfoLevel))
}

func TestNewProfiler(t *testing.T) {
	p, err := NewProfiler(ProfilerConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())

	_, err = NewProfiler(ProfilerConfig{Enabled: true}, zap.NewNop())
	assert.ErrorIs(t, err, ErrProfilerAddressRequired)

	assert.Len(t, DefaultProfileTypes(), 4)
}

func TestSanitizeLabels(t *testing.T) {
	pairs := sanitizeLabels(map[string]string{
		"Route":       "/api/v1/dasmei/guias",
		"cnpj":        "11222333000181",
		"empty":       "",
		"HTTP-Method": "POST",
		"long":        strings.Repeat("x", MaxLabelValueLength+10),
		"!!!":         "dropped",
	})

	// keys are ordered before sanitizing
	assert.Equal(t, []string{
		"http_method", "POST",
		"route", "/api/v1/dasmei/guias",
		"long", strings.Repeat("x", MaxLabelValueLength),
	}, pairs)
	assert.Nil(t, sanitizeLabels(nil))
}

func TestJobLabels(t *testing.T) {
	assert.Equal(t, map[string]string{"job": "generate_guides", "trigger": "schedule"}, JobLabels("generate_guides", true))
	assert.Equal(t, "manual", JobLabels("send_reminders", false)[ProfilingLabelTrigger])
	assert.Equal(t, map[string]string{"route": "/health", "method": "GET"}, HTTPRequestLabels("/health", "GET"))
}

func TestWithProfilingLabels(t *testing.T) {
	called := 0
	WithProfilingLabels(context.Background(), nil, func(context.Context) { called++ })
	WithProfilingLabels(context.Background(), JobLabels("process_retries", true), func(context.Context) { called++ })
	assert.Equal(t, 2, called)
}
