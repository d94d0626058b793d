// Package event dispatches domain events to in-process handlers.
//
// Handlers here send notifications (e-mails, webhooks). By default they run
// in the background so a slow provider never holds up the request that
// published the event; their failures are logged, never returned.
package event

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrBusStopped is returned by Publish after Stop
var ErrBusStopped = errors.New("event bus stopped")

// DefaultHandlerTimeout bounds one background handler run
const DefaultHandlerTimeout = 2 * time.Minute

// Option configures a Bus
type Option func(*Bus)

// WithHandlerTimeout sets how long a background handler may run
func WithHandlerTimeout(d time.Duration) Option {
	return func(b *Bus) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// WithSynchronousDispatch runs handlers inside Publish. Used by tests and
// the CLI, where the process may exit right after publishing.
func WithSynchronousDispatch() Option {
	return func(b *Bus) {
		b.sync = true
	}
}

// Bus is an in-memory publish/subscribe event bus
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
	wildcard []shared.EventHandler

	logger  *zap.Logger
	timeout time.Duration
	sync    bool

	wg      sync.WaitGroup
	stopped atomic.Bool
}

// NewBus creates a new Bus
func NewBus(logger *zap.Logger, opts ...Option) *Bus {
	b := &Bus{
		handlers: make(map[string][]shared.EventHandler),
		logger:   logger,
		timeout:  DefaultHandlerTimeout,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers handler for eventTypes, or for the types the handler
// declares when none are given. A handler with no types receives every
// event.
func (b *Bus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if len(eventTypes) == 0 {
		b.wildcard = append(b.wildcard, handler)
	}
	for _, t := range eventTypes {
		b.handlers[t] = append(b.handlers[t], handler)
	}
	b.logger.Debug("Event handler subscribed", zap.Strings("event_types", eventTypes))
}

// Publish hands every event to its handlers
func (b *Bus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if b.stopped.Load() {
		return ErrBusStopped
	}
	for _, ev := range events {
		for _, h := range b.handlersFor(ev.EventType()) {
			if b.sync {
				b.dispatch(ctx, h, ev)
				continue
			}
			b.wg.Add(1)
			go func(h shared.EventHandler, ev shared.DomainEvent) {
				defer b.wg.Done()
				// the publishing request is usually finished by now
				hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.timeout)
				defer cancel()
				b.dispatch(hctx, h, ev)
			}(h, ev)
		}
	}
	return nil
}

// Start is a no-op; the bus is ready once created
func (b *Bus) Start(ctx context.Context) error {
	b.logger.Info("Event bus started", zap.Bool("synchronous", b.sync))
	return nil
}

// Stop refuses new events and waits for running handlers or ctx
func (b *Bus) Stop(ctx context.Context) error {
	b.stopped.Store(true)

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		b.logger.Info("Event bus stopped")
		return nil
	case <-ctx.Done():
		b.logger.Warn("Event bus stopped with handlers still running")
		return ctx.Err()
	}
}

func (b *Bus) handlersFor(eventType string) []shared.EventHandler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	typed := b.handlers[eventType]
	out := make([]shared.EventHandler, 0, len(typed)+len(b.wildcard))
	out = append(out, typed...)
	return append(out, b.wildcard...)
}

func (b *Bus) dispatch(ctx context.Context, h shared.EventHandler, ev shared.DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Event handler panicked",
				zap.String("event_type", ev.EventType()),
				zap.String("event_id", ev.EventID().String()),
				zap.Any("panic", r),
			)
		}
	}()

	start := time.Now()
	if err := h.Handle(ctx, ev); err != nil {
		b.logger.Error("Event handler failed",
			zap.String("event_type", ev.EventType()),
			zap.String("event_id", ev.EventID().String()),
			zap.String("aggregate_id", ev.AggregateID().String()),
			zap.Error(err),
		)
		return
	}
	b.logger.Debug("Event handled",
		zap.String("event_type", ev.EventType()),
		zap.Duration("took", time.Since(start)),
	)
}

var _ shared.EventBus = (*Bus)(nil)
