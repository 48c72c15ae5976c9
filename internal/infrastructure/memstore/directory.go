package memstore

import (
	"context"
	"sync"

	"prlifecycle/internal/domain/directory"
	"prlifecycle/internal/domain/pr"
)

type Branches struct {
	mu    sync.RWMutex
	names map[string]struct{}
}

func NewBranches(names ...string) *Branches {
	b := &Branches{names: map[string]struct{}{}}
	for _, n := range names {
		b.names[n] = struct{}{}
	}
	return b
}

func (b *Branches) Exists(ctx context.Context, name pr.BranchName) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.names[name.String()]
	return ok, nil
}

func (b *Branches) Create(ctx context.Context, name pr.BranchName) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.names[name.String()] = struct{}{}
	return nil
}

type Users struct {
	mu   sync.RWMutex
	byID map[pr.UserID]directory.User
}

func NewUsers(users ...directory.User) *Users {
	u := &Users{byID: map[pr.UserID]directory.User{}}
	for _, x := range users {
		u.byID[x.ID] = x
	}
	return u
}

func (u *Users) Upsert(ctx context.Context, user directory.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.byID[user.ID] = user
	return nil
}

func (u *Users) SetActive(ctx context.Context, id pr.UserID, isActive bool) (directory.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.byID[id]
	if !ok {
		return directory.User{}, directory.ErrUserNotFound.WithSubject(string(id))
	}
	user.IsActive = isActive
	u.byID[id] = user
	return user, nil
}

func (u *Users) GetByID(ctx context.Context, id pr.UserID) (directory.User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	user, ok := u.byID[id]
	if !ok {
		return directory.User{}, directory.ErrUserNotFound.WithSubject(string(id))
	}
	return user, nil
}

func (u *Users) IsActive(ctx context.Context, id pr.UserID) (bool, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.byID[id].IsActive, nil
}

// NoTx runs fn directly; the memory backends need no transaction.
type NoTx struct{}

func (NoTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
