package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/contactdesk/contactdesk/internal/testutil"
)

func TestRepository_EnsureUser(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	user := testutil.NewTestUser(t, "Анна")
	created, err := repo.EnsureUser(ctx, user)
	if err != nil {
		t.Fatalf("ensure user: %v", err)
	}
	if !created {
		t.Fatalf("expected first ensure to create the user")
	}

	again := testutil.NewTestUser(t, "Анна")
	again.ID = testutil.UniqueID("other")
	created, err = repo.EnsureUser(ctx, again)
	if err != nil {
		t.Fatalf("ensure existing user: %v", err)
	}
	if created {
		t.Fatalf("expected second ensure to be a no-op")
	}

	got, err := testutil.FetchUser(ctx, repo.Pool(), "Анна")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("expected original id %q, got %q", user.ID, got.ID)
	}
	if got.AIUsageCount != 0 {
		t.Fatalf("expected zero usage count, got %d", got.AIUsageCount)
	}
}

func TestRepository_EnsureUserConcurrent(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	const workers = 10
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		creates int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			user := testutil.NewTestUser(t, "race")
			user.ID = testutil.UniqueID("race")
			created, err := repo.EnsureUser(ctx, user)
			if err != nil {
				t.Errorf("ensure user: %v", err)
				return
			}
			if created {
				mu.Lock()
				creates++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if creates != 1 {
		t.Fatalf("expected exactly one create, got %d", creates)
	}
	count, err := testutil.CountUsers(ctx, repo.Pool(), "race")
	if err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one user row, got %d", count)
	}
}

func TestRepository_UsageCount(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	if _, err := repo.GetUsageCount(ctx, "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := repo.IncrementUsageCount(ctx, "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound on increment, got %v", err)
	}

	if _, err := repo.EnsureUser(ctx, testutil.NewTestUser(t, "counter")); err != nil {
		t.Fatalf("ensure user: %v", err)
	}

	for want := 1; want <= 3; want++ {
		got, err := repo.IncrementUsageCount(ctx, "counter")
		if err != nil {
			t.Fatalf("increment: %v", err)
		}
		if got != want {
			t.Fatalf("expected %d after increment, got %d", want, got)
		}
	}

	count, err := repo.GetUsageCount(ctx, "counter")
	if err != nil {
		t.Fatalf("get usage count: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3, got %d", count)
	}
}

func TestRepository_IncrementUsageCountConcurrent(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	if _, err := repo.EnsureUser(ctx, testutil.NewTestUser(t, "busy")); err != nil {
		t.Fatalf("ensure user: %v", err)
	}

	const workers = 25
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.IncrementUsageCount(ctx, "busy"); err != nil {
				t.Errorf("increment: %v", err)
			}
		}()
	}
	wg.Wait()

	count, err := repo.GetUsageCount(ctx, "busy")
	if err != nil {
		t.Fatalf("get usage count: %v", err)
	}
	if count != workers {
		t.Fatalf("expected %d, got %d", workers, count)
	}
}
