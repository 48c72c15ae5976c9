package pr_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"prlifecycle/internal/domain"
	"prlifecycle/internal/domain/directory"
	"prlifecycle/internal/domain/eventstore"
	"prlifecycle/internal/domain/pr"
	"prlifecycle/internal/infrastructure/memstore"
)

type uowStub struct{}

func (uowStub) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type eventBusFake struct {
	mu     sync.Mutex
	events []domain.Event
}

func (e *eventBusFake) Publish(ctx context.Context, ev domain.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, ev)
}

func (e *eventBusFake) types() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var res []string
	for _, ev := range e.events {
		res = append(res, ev.Type)
	}
	return res
}

type branchesErr struct{ err error }

func (b branchesErr) Exists(ctx context.Context, name pr.BranchName) (bool, error) {
	return false, b.err
}

// raceStore lets another writer append right after the first read.
type raceStore struct {
	pr.EventStore
	reads   atomic.Int32
	once    sync.Once
	compete func(ctx context.Context)
}

func (s *raceStore) ReadStream(ctx context.Context, id string) ([]pr.RecordedEvent, *eventstore.Revision, error) {
	s.reads.Add(1)
	events, rev, err := s.EventStore.ReadStream(ctx, id)
	if s.compete != nil {
		s.once.Do(func() { s.compete(ctx) })
	}
	return events, rev, err
}

type fixture struct {
	store  *raceStore
	users  *memstore.Users
	events *eventBusFake
	svc    pr.Service
}

func newFixture(opts ...pr.Option) *fixture {
	f := &fixture{
		store: &raceStore{EventStore: memstore.NewEventStore()},
		users: memstore.NewUsers(
			directory.User{ID: "u1", IsActive: true},
			directory.User{ID: "u2", IsActive: true},
			directory.User{ID: "u3", IsActive: false},
		),
		events: &eventBusFake{},
	}
	branches := memstore.NewBranches(foo.String(), bar.String(), trunk.String())
	opts = append([]pr.Option{pr.WithBackOff(func() backoff.BackOff { return &backoff.ZeroBackOff{} })}, opts...)
	f.svc = pr.NewService(uowStub{}, f.store, branches, f.users, f.events, zap.NewNop(), opts...)
	return f
}

func createCmd() pr.Create {
	return pr.Create{Owner: "alice", SourceBranch: foo, TargetBranch: bar, Title: pr.MustTitle("baz")}
}

func TestServiceCreateAndLoad(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	res, err := f.svc.Execute(ctx, "pr-1", createCmd())
	require.NoError(t, err)
	assert.Equal(t, eventstore.Revision(0), res.Revision)
	assert.Equal(t, pr.StatusActive, res.State.Status)
	require.Len(t, res.Events, 1)

	state, rev, err := f.svc.Load(ctx, "pr-1")
	require.NoError(t, err)
	assert.Equal(t, eventstore.Revision(0), rev)
	assert.Equal(t, res.State, state)

	require.Len(t, f.events.events, 1)
	assert.Equal(t, "pr.created", f.events.events[0].Type)
	assert.Equal(t, "pr-1", f.events.events[0].StreamID)
}

func TestServiceAutoCompleteCascade(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	for _, cmd := range []pr.Command{
		createCmd(),
		pr.AddRequiredReviewer{UserID: "u1"},
		pr.SetAutoComplete{},
	} {
		_, err := f.svc.Execute(ctx, "pr-1", cmd)
		require.NoError(t, err, cmd.CommandName())
	}

	res, err := f.svc.Execute(ctx, "pr-1", pr.Approve{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, []pr.Event{pr.ApprovedEvent{UserID: "u1"}, pr.CompletedEvent{}}, res.Events)
	assert.Equal(t, pr.StatusCompleted, res.State.Status)
	assert.Equal(t, eventstore.Revision(4), res.Revision)

	assert.Equal(t, []string{
		"pr.created", "pr.required_reviewer_added", "pr.auto_complete_set", "pr.approved", "pr.completed",
	}, f.events.types())
	assert.Equal(t, uint64(4), f.events.events[4].Revision)

	history, err := f.svc.History(ctx, "pr-1")
	require.NoError(t, err)
	require.Len(t, history, 5)
	for i, r := range history {
		assert.Equal(t, eventstore.Revision(i), r.Revision)
	}
}

func TestServiceNoOpAppendsNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.svc.Execute(ctx, "pr-1", createCmd())
	require.NoError(t, err)

	res, err := f.svc.Execute(ctx, "pr-1", pr.Reactivate{})
	require.NoError(t, err)
	assert.Empty(t, res.Events)
	assert.Equal(t, eventstore.Revision(0), res.Revision)
	assert.Len(t, f.events.events, 1)
}

func TestServiceDomainErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.svc.Execute(ctx, "pr-1", pr.Complete{})
	assert.ErrorIs(t, err, pr.ErrNotCreated)

	_, _, err = f.svc.Load(ctx, "pr-1")
	assert.ErrorIs(t, err, pr.ErrNotCreated)

	_, err = f.svc.History(ctx, "pr-1")
	assert.ErrorIs(t, err, pr.ErrNotCreated)

	_, err = f.svc.Execute(ctx, "pr-1", createCmd())
	require.NoError(t, err)

	_, err = f.svc.Execute(ctx, "pr-1", pr.AddOptionalReviewer{UserID: "u3"})
	assert.ErrorIs(t, err, pr.ErrInvalidReviewer, "inactive users cannot review")
	assert.True(t, domain.IsDomainError(err))

	_, err = f.svc.Execute(ctx, "pr-1", pr.AddOptionalReviewer{UserID: "nobody"})
	assert.ErrorIs(t, err, pr.ErrInvalidReviewer)

	history, err := f.svc.History(ctx, "pr-1")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestServiceDirectoryFailureIsNotADomainError(t *testing.T) {
	boom := errors.New("connection reset")
	svc := pr.NewService(uowStub{}, memstore.NewEventStore(), branchesErr{err: boom}, memstore.NewUsers(), nil, zap.NewNop())

	_, err := svc.Execute(context.Background(), "pr-1", createCmd())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.False(t, domain.IsDomainError(err))
}

func TestServiceExecuteSurfacesConflict(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.svc.Execute(ctx, "pr-1", createCmd())
	require.NoError(t, err)

	f.store.compete = func(ctx context.Context) {
		_, err := f.store.EventStore.AppendToStream(ctx, "pr-1", eventstore.Exact(0), []pr.Event{pr.TitleChangedEvent{Title: pr.MustTitle("racer")}})
		require.NoError(t, err)
	}

	_, err = f.svc.Execute(ctx, "pr-1", pr.Abandon{})
	var conflict *eventstore.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.False(t, domain.IsDomainError(err))

	state, rev, err := f.svc.Load(ctx, "pr-1")
	require.NoError(t, err)
	assert.Equal(t, eventstore.Revision(1), rev)
	assert.Equal(t, pr.StatusActive, state.Status)
	assert.Equal(t, pr.MustTitle("racer"), state.Title)
}

func TestServiceExecuteWithRetryRestartsOnConflict(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.svc.Execute(ctx, "pr-1", createCmd())
	require.NoError(t, err)

	f.store.compete = func(ctx context.Context) {
		_, err := f.store.EventStore.AppendToStream(ctx, "pr-1", eventstore.Exact(0), []pr.Event{pr.TitleChangedEvent{Title: pr.MustTitle("racer")}})
		require.NoError(t, err)
	}
	f.store.reads.Store(0)

	res, err := f.svc.ExecuteWithRetry(ctx, "pr-1", pr.Abandon{})
	require.NoError(t, err)
	assert.Equal(t, eventstore.Revision(2), res.Revision)
	assert.Equal(t, pr.StatusAbandoned, res.State.Status)
	assert.Equal(t, int32(2), f.store.reads.Load())
}

func TestServiceExecuteWithRetryKeepsDomainErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.svc.ExecuteWithRetry(ctx, "pr-1", pr.Abandon{})
	assert.ErrorIs(t, err, pr.ErrNotCreated)
	assert.Equal(t, int32(1), f.store.reads.Load())
}

func TestServiceExecuteWithRetryGivesUp(t *testing.T) {
	ctx := context.Background()
	f := newFixture(pr.WithRetries(2))

	_, err := f.svc.Execute(ctx, "pr-1", createCmd())
	require.NoError(t, err)

	store := &alwaysConflicting{EventStore: f.store.EventStore}
	svc := pr.NewService(uowStub{}, store, memstore.NewBranches(), f.users, nil, zap.NewNop(),
		pr.WithRetries(2),
		pr.WithBackOff(func() backoff.BackOff { return &backoff.ZeroBackOff{} }),
	)

	_, err = svc.ExecuteWithRetry(ctx, "pr-1", pr.Abandon{})
	assert.True(t, eventstore.IsConflict(err))
	assert.Equal(t, int32(3), store.appends.Load())
}

type alwaysConflicting struct {
	pr.EventStore
	appends atomic.Int32
}

func (s *alwaysConflicting) AppendToStream(ctx context.Context, id string, expected eventstore.ExpectedRevision, events []pr.Event) (eventstore.Revision, error) {
	s.appends.Add(1)
	return 0, &eventstore.ConflictError{StreamID: id, Expected: expected}
}

func TestServiceConcurrentCommands(t *testing.T) {
	ctx := context.Background()
	f := newFixture(pr.WithRetries(50))

	_, err := f.svc.Execute(ctx, "pr-1", createCmd())
	require.NoError(t, err)

	reviewers := []pr.UserID{"r1", "r2", "r3", "r4", "r5", "r6", "r7", "r8"}

	var g errgroup.Group
	for _, id := range reviewers {
		id := id
		g.Go(func() error {
			_, err := f.svc.ExecuteWithRetry(ctx, "pr-1", pr.Approve{UserID: id})
			return err
		})
	}
	require.NoError(t, g.Wait())

	state, rev, err := f.svc.Load(ctx, "pr-1")
	require.NoError(t, err)
	// each approval of a new reviewer enrolls them first
	assert.Equal(t, eventstore.Revision(2*len(reviewers)), rev)
	assert.Len(t, state.Reviewers, len(reviewers))
	for _, r := range state.Reviewers {
		assert.Equal(t, pr.FeedbackApproved, r.Feedback)
	}
}

func TestServiceConcurrentExecuteOneWinner(t *testing.T) {
	ctx := context.Background()
	store := memstore.NewEventStore()
	_, err := store.AppendToStream(ctx, "pr-1", eventstore.NoStream(), []pr.Event{pr.CreatedEvent{
		Owner: "alice", SourceBranch: foo, TargetBranch: bar, Title: pr.MustTitle("baz"),
	}})
	require.NoError(t, err)

	// both writers read revision 0 before either appends
	var ready sync.WaitGroup
	ready.Add(2)
	gate := &gatedStore{EventStore: store, ready: &ready}
	svc := pr.NewService(uowStub{}, gate, memstore.NewBranches(), memstore.NewUsers(), nil, zap.NewNop())

	var won, conflicted atomic.Int32
	var g errgroup.Group
	for _, cmd := range []pr.Command{pr.Abandon{}, pr.ChangeDescription{Description: "x"}} {
		cmd := cmd
		g.Go(func() error {
			_, err := svc.Execute(ctx, "pr-1", cmd)
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
	assert.Equal(t, int32(1), conflicted.Load())
}

type gatedStore struct {
	pr.EventStore
	ready *sync.WaitGroup
}

func (s *gatedStore) ReadStream(ctx context.Context, id string) ([]pr.RecordedEvent, *eventstore.Revision, error) {
	events, rev, err := s.EventStore.ReadStream(ctx, id)
	s.ready.Done()
	s.ready.Wait()
	return events, rev, err
}
