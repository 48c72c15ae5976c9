// Package memstore keeps event streams and directories in process memory.
// It backs EVENT_STORE=memory and the service tests.
package memstore

import (
	"context"
	"sync"
	"time"

	"prlifecycle/internal/domain/eventstore"
	"prlifecycle/internal/domain/pr"
	"prlifecycle/internal/infrastructure/eventcodec"
)

type storedEvent struct {
	eventType  string
	payload    []byte
	recordedAt time.Time
}

// EventStore serializes events through the same codec as the Postgres store
// so that payloads which would not survive a round trip fail here too.
type EventStore struct {
	mu      sync.RWMutex
	streams map[string][]storedEvent
	now     func() time.Time
}

func NewEventStore() *EventStore {
	return &EventStore{
		streams: map[string][]storedEvent{},
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *EventStore) ReadStream(ctx context.Context, streamID string) ([]pr.RecordedEvent, *eventstore.Revision, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	s.mu.RLock()
	stored, ok := s.streams[streamID]
	stored = append([]storedEvent(nil), stored...)
	s.mu.RUnlock()

	if !ok {
		return nil, nil, nil
	}

	res := make([]pr.RecordedEvent, 0, len(stored))
	for i, se := range stored {
		e, err := eventcodec.Decode(se.eventType, se.payload)
		if err != nil {
			return nil, nil, err
		}
		res = append(res, pr.RecordedEvent{
			StreamID:   streamID,
			Revision:   eventstore.Revision(i),
			Event:      e,
			RecordedAt: se.recordedAt,
		})
	}

	last := eventstore.Revision(len(stored) - 1)
	return res, &last, nil
}

func (s *EventStore) AppendToStream(
	ctx context.Context,
	streamID string,
	expected eventstore.ExpectedRevision,
	events []pr.Event,
) (eventstore.Revision, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	encoded := make([]storedEvent, 0, len(events))
	now := s.now()
	for _, e := range events {
		typ, payload, err := eventcodec.Encode(e)
		if err != nil {
			return 0, err
		}
		encoded = append(encoded, storedEvent{eventType: typ, payload: payload, recordedAt: now})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.streams[streamID]
	var actual *eventstore.Revision
	if exists {
		r := eventstore.Revision(len(current) - 1)
		actual = &r
	}
	if eventstore.FromLoaded(actual) != expected {
		return 0, &eventstore.ConflictError{StreamID: streamID, Expected: expected, Actual: actual}
	}

	if len(encoded) == 0 {
		if actual == nil {
			return 0, nil
		}
		return *actual, nil
	}

	s.streams[streamID] = append(current, encoded...)
	return eventstore.Revision(len(s.streams[streamID]) - 1), nil
}
