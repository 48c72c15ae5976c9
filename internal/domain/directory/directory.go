// Package directory keeps the branches and users the pull request decider
// validates against.
package directory

import (
	"context"

	"prlifecycle/internal/domain"
	"prlifecycle/internal/domain/pr"
)

var (
	ErrBranchExists = domain.NewError(domain.ErrorCodeBranchExists, "branch already exists")
	ErrUserNotFound = domain.NewError(domain.ErrorCodeUserNotFound, "user not found")
)

type User struct {
	ID       pr.UserID
	Username string
	IsActive bool
}

type BranchRepository interface {
	Exists(ctx context.Context, name pr.BranchName) (bool, error)
	Create(ctx context.Context, name pr.BranchName) error
}

type UserRepository interface {
	Upsert(ctx context.Context, u User) error
	SetActive(ctx context.Context, id pr.UserID, isActive bool) (User, error)
	GetByID(ctx context.Context, id pr.UserID) (User, error)
}
