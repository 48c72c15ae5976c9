package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"prlifecycle/internal/domain"
	"prlifecycle/internal/domain/eventstore"
	"prlifecycle/internal/domain/pr"
	"prlifecycle/internal/infrastructure/eventcodec"
)

const uniqueViolation = "23505"

// EventStore keeps one row per stream holding its last revision and one row
// per event. The stream row is the compare-and-append guard.
type EventStore struct {
	db  *sql.DB
	uow domain.UnitOfWork
}

func NewEventStore(db *sql.DB, uow domain.UnitOfWork) *EventStore {
	return &EventStore{db: db, uow: uow}
}

func (s *EventStore) ReadStream(ctx context.Context, streamID string) ([]pr.RecordedEvent, *eventstore.Revision, error) {
	rows, err := query(ctx, s.db,
		`SELECT revision, event_type, payload, recorded_at
		   FROM events
		  WHERE stream_id = $1
		  ORDER BY revision`,
		streamID,
	)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var res []pr.RecordedEvent
	for rows.Next() {
		var (
			rev        int64
			eventType  string
			payload    []byte
			recordedAt time.Time
		)
		if err := rows.Scan(&rev, &eventType, &payload, &recordedAt); err != nil {
			return nil, nil, err
		}
		e, err := eventcodec.Decode(eventType, payload)
		if err != nil {
			return nil, nil, fmt.Errorf("stream %s revision %d: %w", streamID, rev, err)
		}
		res = append(res, pr.RecordedEvent{
			StreamID:   streamID,
			Revision:   eventstore.Revision(rev),
			Event:      e,
			RecordedAt: recordedAt.UTC(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	if len(res) == 0 {
		return nil, nil, nil
	}
	last := res[len(res)-1].Revision
	return res, &last, nil
}

func (s *EventStore) AppendToStream(
	ctx context.Context,
	streamID string,
	expected eventstore.ExpectedRevision,
	events []pr.Event,
) (eventstore.Revision, error) {
	var last eventstore.Revision

	err := s.uow.WithinTx(ctx, func(ctx context.Context) error {
		if len(events) == 0 {
			actual, err := s.currentRevision(ctx, streamID)
			if err != nil {
				return err
			}
			if eventstore.FromLoaded(actual) != expected {
				return &eventstore.ConflictError{StreamID: streamID, Expected: expected, Actual: actual}
			}
			if actual != nil {
				last = *actual
			}
			return nil
		}

		last = expected.Next() + eventstore.Revision(len(events)) - 1
		if err := s.advance(ctx, streamID, expected, last); err != nil {
			return err
		}

		next := expected.Next()
		for i, e := range events {
			typ, payload, err := eventcodec.Encode(e)
			if err != nil {
				return err
			}
			_, err = exec(ctx, s.db,
				`INSERT INTO events (stream_id, revision, event_type, payload)
				 VALUES ($1, $2, $3, $4::jsonb)`,
				streamID, int64(next)+int64(i), typ, string(payload),
			)
			if isUniqueViolation(err) {
				return s.conflict(ctx, streamID, expected)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return last, nil
}

// advance moves the stream row from expected to last, or reports a conflict
// when another writer got there first.
func (s *EventStore) advance(ctx context.Context, streamID string, expected eventstore.ExpectedRevision, last eventstore.Revision) error {
	var (
		res sql.Result
		err error
	)
	if rev, ok := expected.Revision(); ok {
		res, err = exec(ctx, s.db,
			`UPDATE event_streams
			    SET revision = $3, updated_at = now()
			  WHERE stream_id = $1 AND revision = $2`,
			streamID, int64(rev), int64(last),
		)
	} else {
		res, err = exec(ctx, s.db,
			`INSERT INTO event_streams (stream_id, revision)
			 VALUES ($1, $2)
			 ON CONFLICT (stream_id) DO NOTHING`,
			streamID, int64(last),
		)
	}
	if isUniqueViolation(err) {
		return s.conflict(ctx, streamID, expected)
	}
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return s.conflict(ctx, streamID, expected)
	}
	return nil
}

func (s *EventStore) currentRevision(ctx context.Context, streamID string) (*eventstore.Revision, error) {
	var rev int64
	err := queryRow(ctx, s.db,
		`SELECT revision FROM event_streams WHERE stream_id = $1`,
		streamID,
	).Scan(&rev)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r := eventstore.Revision(rev)
	return &r, nil
}

func (s *EventStore) conflict(ctx context.Context, streamID string, expected eventstore.ExpectedRevision) error {
	// Actual is best effort: after a unique violation the transaction is aborted.
	actual, _ := s.currentRevision(ctx, streamID)
	return &eventstore.ConflictError{StreamID: streamID, Expected: expected, Actual: actual}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
