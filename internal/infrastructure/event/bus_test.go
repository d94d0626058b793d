package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Test", uuid.New())}
}

type testHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panicMsg   string
	block      chan struct{}
	ctxErr     error
}

func (h *testHandler) Handle(ctx context.Context, ev shared.DomainEvent) error {
	if h.block != nil {
		<-h.block
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, ev)
	h.ctxErr = ctx.Err()
	if h.panicMsg != "" {
		panic(h.panicMsg)
	}
	return h.err
}

func (h *testHandler) EventTypes() []string { return h.eventTypes }

func (h *testHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestBus_SynchronousPublish(t *testing.T) {
	ctx := context.Background()

	t.Run("routes by type", func(t *testing.T) {
		bus := NewBus(zap.NewNop(), WithSynchronousDispatch())
		submitted := &testHandler{eventTypes: []string{"registration.submitted"}}
		other := &testHandler{eventTypes: []string{"contratacao.submitted"}}
		all := &testHandler{}
		bus.Subscribe(submitted)
		bus.Subscribe(other)
		bus.Subscribe(all)

		require.NoError(t, bus.Publish(ctx, newTestEvent("registration.submitted"), newTestEvent("registration.submitted")))
		assert.Equal(t, 2, submitted.count())
		assert.Zero(t, other.count())
		assert.Equal(t, 2, all.count())
	})

	t.Run("explicit types override the handler's", func(t *testing.T) {
		bus := NewBus(zap.NewNop(), WithSynchronousDispatch())
		h := &testHandler{eventTypes: []string{"a"}}
		bus.Subscribe(h, "b")

		require.NoError(t, bus.Publish(ctx, newTestEvent("a"), newTestEvent("b")))
		assert.Equal(t, 1, h.count())
	})

	t.Run("failures do not stop other handlers", func(t *testing.T) {
		bus := NewBus(zap.NewNop(), WithSynchronousDispatch())
		failing := &testHandler{eventTypes: []string{"x"}, err: errors.New("smtp down")}
		panicking := &testHandler{eventTypes: []string{"x"}, panicMsg: "boom"}
		ok := &testHandler{eventTypes: []string{"x"}}
		bus.Subscribe(failing)
		bus.Subscribe(panicking)
		bus.Subscribe(ok)

		require.NoError(t, bus.Publish(ctx, newTestEvent("x")))
		assert.Equal(t, 1, failing.count())
		assert.Equal(t, 1, panicking.count())
		assert.Equal(t, 1, ok.count())
	})
}

func TestBus_BackgroundPublish(t *testing.T) {
	defer goleak.VerifyNone(t)

	bus := NewBus(zap.NewNop())
	h := &testHandler{eventTypes: []string{"x"}}
	bus.Subscribe(h)

	reqCtx, cancel := context.WithCancel(context.Background())
	require.NoError(t, bus.Publish(reqCtx, newTestEvent("x")))
	// the request ending must not cancel the handler
	cancel()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	require.NoError(t, bus.Stop(stopCtx))

	assert.Equal(t, 1, h.count())
	assert.NoError(t, h.ctxErr)
	assert.ErrorIs(t, bus.Publish(context.Background(), newTestEvent("x")), ErrBusStopped)
}

func TestBus_StopTimesOut(t *testing.T) {
	bus := NewBus(zap.NewNop())
	h := &testHandler{eventTypes: []string{"x"}, block: make(chan struct{})}
	bus.Subscribe(h)
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("x")))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, bus.Stop(ctx), context.DeadlineExceeded)

	close(h.block)
	require.NoError(t, bus.Stop(context.Background()))
	assert.Equal(t, 1, h.count())
}
