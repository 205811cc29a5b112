package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrEnvelopeMismatch is returned by Validate when a consumed envelope is not
// the event the consumer asked for.
var ErrEnvelopeMismatch = errors.New("envelope mismatch")

// EventEnvelope wraps every storefront event published to the events
// exchange. Sequence counts per PartitionKey, so consumers can order all
// events of one order.
type EventEnvelope[T any] struct {
	EventName     string    `json:"eventName"`
	EventVersion  int       `json:"eventVersion"`
	EventID       string    `json:"eventId"`
	CorrelationID string    `json:"correlationId,omitempty"`
	CausationID   string    `json:"causationId,omitempty"`
	Producer      string    `json:"producer"`
	PartitionKey  string    `json:"partitionKey"`
	Sequence      *int64    `json:"sequence,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
	Schema        string    `json:"schema"`
	Payload       T         `json:"payload"`
}

// EnvelopeMetadata links an event to the request that caused it. An empty
// CorrelationID gets a fresh one.
type EnvelopeMetadata struct {
	CorrelationID string
	CausationID   string
}

type eventKind struct {
	name    string
	version int
	schema  string
}

func newEnvelope[T any](kind eventKind, partitionKey string, seq int64, producer string, meta EnvelopeMetadata, at time.Time, payload T) EventEnvelope[T] {
	if meta.CorrelationID == "" {
		meta.CorrelationID = uuid.NewString()
	}
	return EventEnvelope[T]{
		EventName:     kind.name,
		EventVersion:  kind.version,
		EventID:       uuid.NewString(),
		CorrelationID: meta.CorrelationID,
		CausationID:   meta.CausationID,
		Producer:      producer,
		PartitionKey:  partitionKey,
		Sequence:      &seq,
		OccurredAt:    at,
		Schema:        kind.schema,
		Payload:       payload,
	}
}

// Validate checks the name, version and partition key of a consumed envelope.
func (e EventEnvelope[T]) Validate(name string, version int) error {
	switch {
	case e.EventName != name:
		return fmt.Errorf("%w: event %q, want %q", ErrEnvelopeMismatch, e.EventName, name)
	case e.EventVersion != version:
		return fmt.Errorf("%w: %s version %d, want %d", ErrEnvelopeMismatch, name, e.EventVersion, version)
	case e.PartitionKey == "":
		return fmt.Errorf("%w: %s without partition key", ErrEnvelopeMismatch, name)
	}
	return nil
}
