package pr

import (
	"context"
	"time"

	"prlifecycle/internal/domain/eventstore"
)

// RecordedEvent is an event as it sits in its stream.
type RecordedEvent struct {
	StreamID   string
	Revision   eventstore.Revision
	Event      Event
	RecordedAt time.Time
}

// EventStore is an append-only log per pull request id.
type EventStore interface {
	// ReadStream returns every event of the stream from the start and the
	// revision of the last one. A nil revision means the stream does not exist.
	ReadStream(ctx context.Context, streamID string) ([]RecordedEvent, *eventstore.Revision, error)
	// AppendToStream appends events only if the stream is still at expected,
	// otherwise it returns *eventstore.ConflictError. It returns the revision
	// of the last event in the stream after the append.
	AppendToStream(ctx context.Context, streamID string, expected eventstore.ExpectedRevision, events []Event) (eventstore.Revision, error)
}

type BranchDirectory interface {
	Exists(ctx context.Context, name BranchName) (bool, error)
}

type ReviewerDirectory interface {
	IsActive(ctx context.Context, id UserID) (bool, error)
}
