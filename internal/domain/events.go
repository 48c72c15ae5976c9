package domain

import "context"

// Event is a recorded change announced to subscribers after it was committed.
type Event struct {
	Type     string
	StreamID string
	Revision uint64
	Payload  map[string]any
}

type EventBus interface {
	Publish(ctx context.Context, e Event)
}
