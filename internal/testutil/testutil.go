package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contactdesk/contactdesk/internal/migrations"
	"github.com/contactdesk/contactdesk/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 420420

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetSchema drops and recreates every table from the embedded migrations.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool) error {
	all, err := migrations.All()
	if err != nil {
		return err
	}

	for i := len(all) - 1; i >= 0; i-- {
		if _, err := pool.Exec(ctx, all[i].Down); err != nil {
			return fmt.Errorf("apply %s down migration: %w", all[i].Name, err)
		}
	}
	for _, m := range all {
		if _, err := pool.Exec(ctx, m.Up); err != nil {
			return fmt.Errorf("apply %s up migration: %w", m.Name, err)
		}
	}

	return nil
}

// CountUsers returns how many user rows carry name.
func CountUsers(ctx context.Context, pool *pgxpool.Pool, name string) (int, error) {
	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE name = $1`, name).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

// FetchUser reads a user row by name.
func FetchUser(ctx context.Context, pool *pgxpool.Pool, name string) (*model.User, error) {
	var user model.User
	err := pool.QueryRow(ctx,
		`SELECT id, name, ai_usage_count, created_at FROM users WHERE name = $1`, name,
	).Scan(&user.ID, &user.Name, &user.AIUsageCount, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	return &user, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// ValidMessage returns a message of exactly n Cyrillic characters.
func ValidMessage(n int) string {
	return strings.Repeat("ж", n)
}

// NewTestSubmission creates a submission with sensible defaults.
func NewTestSubmission(t testing.TB, userName string) *model.Submission {
	t.Helper()
	return &model.Submission{
		ID:        uuid.Must(uuid.NewV7()).String(),
		UserName:  userName,
		Email:     "user@example.com",
		Subject:   model.SubjectGeneralInquiry,
		Message:   ValidMessage(60),
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

// NewTestUser creates a user with a zero usage counter.
func NewTestUser(t testing.TB, name string) *model.User {
	t.Helper()
	return &model.User{
		ID:        UniqueID("user"),
		Name:      name,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}
