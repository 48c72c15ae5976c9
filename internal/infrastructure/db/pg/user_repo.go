package pg

import (
	"context"
	"database/sql"
	"errors"

	"prlifecycle/internal/domain/directory"
	"prlifecycle/internal/domain/pr"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Upsert(ctx context.Context, u directory.User) error {
	_, err := exec(ctx, r.db,
		`INSERT INTO users (user_id, username, is_active)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE
		   SET username = EXCLUDED.username,
		       is_active = EXCLUDED.is_active`,
		string(u.ID), u.Username, u.IsActive,
	)
	return err
}

func (r *UserRepository) SetActive(ctx context.Context, id pr.UserID, isActive bool) (directory.User, error) {
	var u directory.User
	err := queryRow(ctx, r.db,
		`UPDATE users
		    SET is_active = $2
		  WHERE user_id = $1
		  RETURNING user_id, username, is_active`,
		string(id), isActive,
	).Scan(&u.ID, &u.Username, &u.IsActive)

	if errors.Is(err, sql.ErrNoRows) {
		return directory.User{}, directory.ErrUserNotFound.WithSubject(string(id))
	}
	if err != nil {
		return directory.User{}, err
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id pr.UserID) (directory.User, error) {
	var u directory.User
	err := queryRow(ctx, r.db,
		`SELECT user_id, username, is_active
		   FROM users
		  WHERE user_id = $1`,
		string(id),
	).Scan(&u.ID, &u.Username, &u.IsActive)

	if errors.Is(err, sql.ErrNoRows) {
		return directory.User{}, directory.ErrUserNotFound.WithSubject(string(id))
	}
	if err != nil {
		return directory.User{}, err
	}
	return u, nil
}

// IsActive reports whether id may review. Unknown users are not active.
func (r *UserRepository) IsActive(ctx context.Context, id pr.UserID) (bool, error) {
	var active bool
	err := queryRow(ctx, r.db,
		`SELECT EXISTS(SELECT 1 FROM users WHERE user_id = $1 AND is_active)`,
		string(id),
	).Scan(&active)
	return active, err
}
