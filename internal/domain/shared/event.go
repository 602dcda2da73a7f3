package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact recorded by an aggregate and published after it is persisted
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
}

// BaseDomainEvent is embedded by concrete events. Its JSON shape is the event
// envelope: id, type, occurred_at and aggregate reference.
type BaseDomainEvent struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Occurred  time.Time `json:"occurred_at"`
	Aggregate Ref       `json:"aggregate"`
}

// Ref names the aggregate an event belongs to
type Ref struct {
	Type string    `json:"type"`
	ID   uuid.UUID `json:"id"`
}

func NewBaseDomainEvent(eventType, aggregateType string, aggregateID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Occurred:  time.Now().UTC(),
		Aggregate: Ref{Type: aggregateType, ID: aggregateID},
	}
}

func (e *BaseDomainEvent) EventID() uuid.UUID     { return e.ID }
func (e *BaseDomainEvent) EventType() string      { return e.Type }
func (e *BaseDomainEvent) OccurredAt() time.Time  { return e.Occurred }
func (e *BaseDomainEvent) AggregateID() uuid.UUID { return e.Aggregate.ID }
