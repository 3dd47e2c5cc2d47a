package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/contactdesk/contactdesk/internal/model"
)

// ErrUserNotFound is returned when no user row matches the given name.
var ErrUserNotFound = errors.New("user not found")

// EnsureUser inserts the user unless a row with the same name already exists.
// It reports whether this call created the row. A concurrent insert of the
// same name resolves through the unique constraint and is not an error.
func (r *Repository) EnsureUser(ctx context.Context, user *model.User) (bool, error) {
	query := `
		INSERT INTO users (id, name, ai_usage_count, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO NOTHING
	`

	tag, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Name,
		user.AIUsageCount,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to ensure user: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// GetUsageCount returns the AI usage counter for a user.
func (r *Repository) GetUsageCount(ctx context.Context, name string) (int, error) {
	query := `SELECT ai_usage_count FROM users WHERE name = $1`

	var count int
	if err := r.pool.QueryRow(ctx, query, name).Scan(&count); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to get usage count: %w", err)
	}

	return count, nil
}

// IncrementUsageCount atomically adds one to the counter and returns the new value.
func (r *Repository) IncrementUsageCount(ctx context.Context, name string) (int, error) {
	query := `
		UPDATE users
		SET ai_usage_count = ai_usage_count + 1
		WHERE name = $1
		RETURNING ai_usage_count
	`

	var count int
	if err := r.pool.QueryRow(ctx, query, name).Scan(&count); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to increment usage count: %w", err)
	}

	return count, nil
}
