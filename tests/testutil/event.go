package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
)

// TestEvent is a bare domain event for bus tests.
type TestEvent struct {
	shared.BaseDomainEvent
	Protocolo string
}

// NewTestEvent creates an event of eventType on a fresh registration aggregate.
func NewTestEvent(eventType string) *TestEvent {
	return &TestEvent{
		BaseDomainEvent: shared.BaseDomainEvent{
			ID:        uuid.New(),
			Type:      eventType,
			Timestamp: time.Now(),
			AggID:     uuid.New(),
			AggType:   "Registration",
		},
		Protocolo: "PROT-TESTE",
	}
}
