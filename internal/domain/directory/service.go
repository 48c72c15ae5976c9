package directory

import (
	"context"

	"prlifecycle/internal/domain"
	"prlifecycle/internal/domain/pr"
)

type Service interface {
	AddBranch(ctx context.Context, name string) (pr.BranchName, error)
	AddUser(ctx context.Context, u User) (User, error)
	SetUserActive(ctx context.Context, id pr.UserID, isActive bool) (User, error)
}

type service struct {
	uow      domain.UnitOfWork
	branches BranchRepository
	users    UserRepository
	events   domain.EventBus
}

func NewService(uow domain.UnitOfWork, branches BranchRepository, users UserRepository, events domain.EventBus) Service {
	return &service{
		uow:      uow,
		branches: branches,
		users:    users,
		events:   events,
	}
}

func (s *service) AddBranch(ctx context.Context, raw string) (pr.BranchName, error) {
	name, err := pr.NewBranchName(raw)
	if err != nil {
		return pr.BranchName{}, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context) error {
		exists, err := s.branches.Exists(ctx, name)
		if err != nil {
			return err
		}
		if exists {
			return ErrBranchExists.WithSubject(name.String())
		}
		if err := s.branches.Create(ctx, name); err != nil {
			return err
		}

		if s.events != nil {
			s.events.Publish(ctx, domain.Event{
				Type:    "branch.created",
				Payload: map[string]any{"branch": name.String()},
			})
		}
		return nil
	})
	if err != nil {
		return pr.BranchName{}, err
	}
	return name, nil
}

func (s *service) AddUser(ctx context.Context, u User) (User, error) {
	err := s.uow.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.users.Upsert(ctx, u); err != nil {
			return err
		}

		if s.events != nil {
			s.events.Publish(ctx, domain.Event{
				Type: "user.upserted",
				Payload: map[string]any{
					"user_id":   string(u.ID),
					"is_active": u.IsActive,
				},
			})
		}
		return nil
	})
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *service) SetUserActive(ctx context.Context, id pr.UserID, isActive bool) (User, error) {
	var res User

	err := s.uow.WithinTx(ctx, func(ctx context.Context) error {
		u, err := s.users.SetActive(ctx, id, isActive)
		if err != nil {
			return err
		}
		res = u

		if s.events != nil {
			s.events.Publish(ctx, domain.Event{
				Type: "user.set_active",
				Payload: map[string]any{
					"user_id":   string(u.ID),
					"is_active": u.IsActive,
				},
			})
		}
		return nil
	})

	return res, err
}
