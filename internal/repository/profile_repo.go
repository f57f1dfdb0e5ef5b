package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfileRepository struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Delete removes the account's profile row. Runs last in the pipeline,
// after every row referencing the profile is gone.
func (r *ProfileRepository) Delete(ctx context.Context, userID string) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM profiles
		WHERE id = $1
	`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete profile: %w", err)
	}
	return tag.RowsAffected(), nil
}
