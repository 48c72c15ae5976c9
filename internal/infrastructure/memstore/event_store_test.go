package memstore_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"prlifecycle/internal/domain/eventstore"
	"prlifecycle/internal/domain/pr"
	"prlifecycle/internal/infrastructure/memstore"
)

func created() pr.CreatedEvent {
	return pr.CreatedEvent{
		Owner:        "alice",
		SourceBranch: pr.MustBranchName("refs/heads/foo"),
		TargetBranch: pr.MustBranchName("refs/heads/bar"),
		Title:        pr.MustTitle("baz"),
	}
}

func TestReadMissingStream(t *testing.T) {
	s := memstore.NewEventStore()

	events, last, err := s.ReadStream(context.Background(), "pr-1")
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Nil(t, last)
}

func TestAppendAndRead(t *testing.T) {
	ctx := context.Background()
	s := memstore.NewEventStore()

	rev, err := s.AppendToStream(ctx, "pr-1", eventstore.NoStream(), []pr.Event{created()})
	require.NoError(t, err)
	assert.Equal(t, eventstore.Revision(0), rev)

	rev, err = s.AppendToStream(ctx, "pr-1", eventstore.Exact(0), []pr.Event{
		pr.ApprovedEvent{UserID: "bob"},
		pr.CompletedEvent{},
	})
	require.NoError(t, err)
	assert.Equal(t, eventstore.Revision(2), rev)

	events, last, err := s.ReadStream(ctx, "pr-1")
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, eventstore.Revision(2), *last)
	require.Len(t, events, 3)
	assert.Equal(t, created(), events[0].Event)
	assert.Equal(t, pr.ApprovedEvent{UserID: "bob"}, events[1].Event)
	assert.Equal(t, pr.CompletedEvent{}, events[2].Event)
	for i, e := range events {
		assert.Equal(t, eventstore.Revision(i), e.Revision)
		assert.Equal(t, "pr-1", e.StreamID)
	}
}

func TestAppendConflicts(t *testing.T) {
	ctx := context.Background()
	s := memstore.NewEventStore()

	_, err := s.AppendToStream(ctx, "pr-1", eventstore.Exact(0), []pr.Event{created()})
	require.Error(t, err)
	assert.ErrorIs(t, err, eventstore.ErrWrongExpectedRevision)

	_, err = s.AppendToStream(ctx, "pr-1", eventstore.NoStream(), []pr.Event{created()})
	require.NoError(t, err)

	_, err = s.AppendToStream(ctx, "pr-1", eventstore.NoStream(), []pr.Event{created()})
	var conflict *eventstore.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "pr-1", conflict.StreamID)
	require.NotNil(t, conflict.Actual)
	assert.Equal(t, eventstore.Revision(0), *conflict.Actual)
}

func TestAppendNothing(t *testing.T) {
	ctx := context.Background()
	s := memstore.NewEventStore()

	_, err := s.AppendToStream(ctx, "pr-1", eventstore.NoStream(), []pr.Event{created()})
	require.NoError(t, err)

	rev, err := s.AppendToStream(ctx, "pr-1", eventstore.Exact(0), nil)
	require.NoError(t, err)
	assert.Equal(t, eventstore.Revision(0), rev)
}

func TestConcurrentAppendsAtSameRevision(t *testing.T) {
	ctx := context.Background()
	s := memstore.NewEventStore()

	_, err := s.AppendToStream(ctx, "pr-1", eventstore.NoStream(), []pr.Event{created()})
	require.NoError(t, err)

	const writers = 8
	var won, conflicted atomic.Int32

	var g errgroup.Group
	for i := 0; i < writers; i++ {
		g.Go(func() error {
			_, err := s.AppendToStream(ctx, "pr-1", eventstore.Exact(0), []pr.Event{pr.AbandonedEvent{}})
			switch {
			case err == nil:
				won.Add(1)
			case eventstore.IsConflict(err):
				conflicted.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), won.Load())
	assert.Equal(t, int32(writers-1), conflicted.Load())

	events, _, err := s.ReadStream(ctx, "pr-1")
	require.NoError(t, err)
	assert.Len(t, events, 2)
}
