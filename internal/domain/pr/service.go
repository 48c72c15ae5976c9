package pr

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"prlifecycle/internal/domain"
	"prlifecycle/internal/domain/eventstore"
)

type Service interface {
	// Execute runs one read-decide-append cycle. A concurrent writer surfaces
	// as *eventstore.ConflictError.
	Execute(ctx context.Context, id string, cmd Command) (Result, error)
	// ExecuteWithRetry restarts Execute on conflicts only.
	ExecuteWithRetry(ctx context.Context, id string, cmd Command) (Result, error)
	Load(ctx context.Context, id string) (Existing, eventstore.Revision, error)
	History(ctx context.Context, id string) ([]RecordedEvent, error)
}

type Result struct {
	State    Existing
	Events   []Event
	Revision eventstore.Revision
}

type Option func(*service)

// WithRetries caps how many times ExecuteWithRetry restarts after a conflict.
func WithRetries(n int) Option {
	return func(s *service) { s.retries = n }
}

// WithBackOff replaces the delay policy between retries.
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(s *service) { s.newBackOff = newBackOff }
}

type service struct {
	uow        domain.UnitOfWork
	store      EventStore
	branches   BranchDirectory
	reviewers  ReviewerDirectory
	events     domain.EventBus
	log        *zap.Logger
	retries    int
	newBackOff func() backoff.BackOff
}

func NewService(
	uow domain.UnitOfWork,
	store EventStore,
	branches BranchDirectory,
	reviewers ReviewerDirectory,
	events domain.EventBus,
	log *zap.Logger,
	opts ...Option,
) Service {
	s := &service{
		uow:        uow,
		store:      store,
		branches:   branches,
		reviewers:  reviewers,
		events:     events,
		log:        log,
		retries:    3,
		newBackOff: defaultBackOff,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 10 * time.Millisecond
	b.MaxInterval = 200 * time.Millisecond
	return b
}

func (s *service) Execute(ctx context.Context, id string, cmd Command) (Result, error) {
	var res Result
	var recorded []domain.Event

	err := s.uow.WithinTx(ctx, func(ctx context.Context) error {
		history, last, err := s.store.ReadStream(ctx, id)
		if err != nil {
			return fmt.Errorf("read stream %s: %w", id, err)
		}

		state := replay(history)
		checks := &oracles{ctx: ctx, branches: s.branches, reviewers: s.reviewers}

		events, err := Decide(state, cmd, checks)
		if checks.err != nil {
			return checks.err
		}
		if err != nil {
			return err
		}

		expected := eventstore.FromLoaded(last)
		if len(events) == 0 {
			existing, _ := state.(Existing)
			res = Result{State: existing}
			if last != nil {
				res.Revision = *last
			}
			return nil
		}

		rev, err := s.store.AppendToStream(ctx, id, expected, events)
		if err != nil {
			return err
		}

		existing, _ := FoldFrom(state, events).(Existing)
		res = Result{State: existing, Events: events, Revision: rev}

		next := expected.Next()
		for i, e := range events {
			recorded = append(recorded, domain.Event{
				Type:     string(e.EventType()),
				StreamID: id,
				Revision: uint64(next) + uint64(i),
				Payload: map[string]any{
					"command": cmd.CommandName(),
					"event":   e,
				},
			})
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	s.log.Debug("command executed",
		zap.String("stream_id", id),
		zap.String("command", cmd.CommandName()),
		zap.Int("events", len(res.Events)),
		zap.Uint64("revision", uint64(res.Revision)),
	)

	if s.events != nil {
		for _, e := range recorded {
			s.events.Publish(ctx, e)
		}
	}

	return res, nil
}

func (s *service) ExecuteWithRetry(ctx context.Context, id string, cmd Command) (Result, error) {
	var res Result
	attempt := 0

	op := func() error {
		attempt++
		r, err := s.Execute(ctx, id, cmd)
		if err == nil {
			res = r
			return nil
		}
		if eventstore.IsConflict(err) {
			s.log.Info("append conflict, retrying",
				zap.String("stream_id", id),
				zap.String("command", cmd.CommandName()),
				zap.Int("attempt", attempt),
			)
			return err
		}
		return backoff.Permanent(err)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(s.newBackOff(), uint64(s.retries)), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return Result{}, err
	}
	return res, nil
}

func (s *service) Load(ctx context.Context, id string) (Existing, eventstore.Revision, error) {
	history, last, err := s.store.ReadStream(ctx, id)
	if err != nil {
		return Existing{}, 0, fmt.Errorf("read stream %s: %w", id, err)
	}
	if last == nil {
		return Existing{}, 0, ErrNotCreated.WithSubject(id)
	}

	existing, ok := replay(history).(Existing)
	if !ok {
		return Existing{}, 0, ErrNotCreated.WithSubject(id)
	}
	return existing, *last, nil
}

func (s *service) History(ctx context.Context, id string) ([]RecordedEvent, error) {
	history, last, err := s.store.ReadStream(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("read stream %s: %w", id, err)
	}
	if last == nil {
		return nil, ErrNotCreated.WithSubject(id)
	}
	return history, nil
}

func replay(history []RecordedEvent) State {
	var state State = Uninitialized{}
	for _, r := range history {
		state = Evolve(state, r.Event)
	}
	return state
}

// oracles binds the directories to one request so the decider sees plain
// predicates. The first lookup failure is kept and reported instead of the
// decision.
type oracles struct {
	ctx       context.Context
	branches  BranchDirectory
	reviewers ReviewerDirectory
	err       error
}

func (o *oracles) BranchExists(name BranchName) bool {
	if o.err != nil {
		return false
	}
	ok, err := o.branches.Exists(o.ctx, name)
	if err != nil {
		o.err = fmt.Errorf("lookup branch %s: %w", name, err)
		return false
	}
	return ok
}

func (o *oracles) ReviewerValid(id UserID) bool {
	if o.err != nil {
		return false
	}
	ok, err := o.reviewers.IsActive(o.ctx, id)
	if err != nil {
		o.err = fmt.Errorf("lookup reviewer %s: %w", id, err)
		return false
	}
	return ok
}
