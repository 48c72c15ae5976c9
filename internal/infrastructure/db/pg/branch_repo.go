package pg

import (
	"context"
	"database/sql"

	"prlifecycle/internal/domain/directory"
	"prlifecycle/internal/domain/pr"
)

type BranchRepository struct {
	db *sql.DB
}

func NewBranchRepository(db *sql.DB) *BranchRepository {
	return &BranchRepository{db: db}
}

func (r *BranchRepository) Exists(ctx context.Context, name pr.BranchName) (bool, error) {
	var exists bool
	err := queryRow(ctx, r.db,
		`SELECT EXISTS(SELECT 1 FROM branches WHERE branch_name = $1)`,
		name.String(),
	).Scan(&exists)
	return exists, err
}

func (r *BranchRepository) Create(ctx context.Context, name pr.BranchName) error {
	_, err := exec(ctx, r.db,
		`INSERT INTO branches (branch_name) VALUES ($1)`,
		name.String(),
	)
	if isUniqueViolation(err) {
		return directory.ErrBranchExists.WithSubject(name.String())
	}
	return err
}
